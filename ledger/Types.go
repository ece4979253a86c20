package ledger

import "regexp"
import "time"

// DateFormat is the layout of every stored record date.
const DateFormat = "2006-01-02"

var dateRe *regexp.Regexp = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// IncomeRecord is a single dated income entry. Records are append-only and
// never modified after creation. Category keeps whatever name was current at
// recording time; removing that category later leaves the record as-is.
type IncomeRecord struct {
	Category string `json:"category"`
	Amount   int    `json:"amount"`
	Date     string `json:"date"` // YYYY-MM-DD
}

func NewIncomeRecord(category string, amount int, date string) *IncomeRecord {
	rec := &IncomeRecord{Category: category,
		Amount: amount,
		Date:   date}
	return rec
}

// ValidDate reports whether s is a well-formed YYYY-MM-DD calendar date.
func ValidDate(s string) bool {
	if !dateRe.MatchString(s) {
		return false
	}
	_, err := time.Parse(DateFormat, s)
	return err == nil
}

// Today returns t formatted as a record date.
func Today(t time.Time) string {
	return t.Format(DateFormat)
}

// recordMonth extracts the calendar year and month of a record date.
// ok is false for dates that do not parse.
func recordMonth(date string) (year int, month time.Month, ok bool) {
	t, err := time.Parse(DateFormat, date)
	if err != nil {
		return 0, 0, false
	}
	return t.Year(), t.Month(), true
}
