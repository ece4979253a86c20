package dialog

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var amountPrinter = message.NewPrinter(language.English)

// formatAmount renders an amount with thousands grouping ("50,000").
func formatAmount(v int) string {
	return amountPrinter.Sprintf("%d", v)
}
