package bot

import "fmt"
import tgbotapi "gopkg.in/telegram-bot-api.v4"

func dumpMsgUserInfo(msg tgbotapi.Message) string {
	return fmt.Sprintf("chat ID: %d (type '%s'), message issued by user ID: %d (username: '%s')", msg.Chat.ID,
		msg.Chat.Type,
		msg.From.ID,
		msg.From.UserName)
}

// splitRows lays buttons out into keyboard rows of at most perRow buttons.
func splitRows(buttons []tgbotapi.InlineKeyboardButton, perRow int) [][]tgbotapi.InlineKeyboardButton {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, (len(buttons)+perRow-1)/perRow)
	for len(buttons) > perRow {
		rows = append(rows, buttons[:perRow])
		buttons = buttons[perRow:]
	}
	if len(buttons) > 0 {
		rows = append(rows, buttons)
	}
	return rows
}
