package bot

import (
	"log"
	"strconv"
	"strings"
	"time"

	uuid "github.com/satori/go.uuid"
	tgbotapi "gopkg.in/telegram-bot-api.v4"

	"github.com/firemove/my-money-manager-chatbot/dialog"
	"github.com/firemove/my-money-manager-chatbot/ledger"
)

const buttonsPerRow = 2

// tgPresenter renders dialogue directives for one chat. Action sets become
// inline keyboards; each rendered set carries a fresh uuid token in its
// callback data, so presses on keyboards from earlier turns resolve to
// nothing (Telegram keeps old keyboards visible in the transcript and they
// cannot be retracted one by one).
type tgPresenter struct {
	bot    *tgbotapi.BotAPI
	chatID int64

	token      string
	actionIDs  []string
	dateValues []string
	dateMode   bool
}

func newPresenter(bot *tgbotapi.BotAPI, chatID int64) *tgPresenter {
	return &tgPresenter{bot: bot, chatID: chatID}
}

func (p *tgPresenter) ShowMessage(text string, sender dialog.Sender) {
	if sender == dialog.SenderUser {
		// the chat transcript already shows what the user typed or pressed
		return
	}
	msg := tgbotapi.NewMessage(p.chatID, text)
	if _, err := p.bot.Send(msg); err != nil {
		log.Printf("Could not send message to chat %d; error: %s", p.chatID, err)
	}
}

func (p *tgPresenter) ShowActions(actions []dialog.Action) {
	p.token = uuid.NewV4().String()
	p.actionIDs = make([]string, len(actions))
	p.dateValues = nil
	p.dateMode = false

	buttons := make([]tgbotapi.InlineKeyboardButton, len(actions))
	for i, a := range actions {
		p.actionIDs[i] = a.ID
		buttons[i] = tgbotapi.NewInlineKeyboardButtonData(a.Label, p.callbackData(i))
	}

	msg := tgbotapi.NewMessage(p.chatID, "Choose:")
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(splitRows(buttons, buttonsPerRow)...)
	if _, err := p.bot.Send(msg); err != nil {
		log.Printf("Could not send action keyboard to chat %d; error: %s", p.chatID, err)
	}
}

func (p *tgPresenter) ClearActions() {
	p.token = ""
	p.actionIDs = nil
	p.dateValues = nil
	p.dateMode = false
}

func (p *tgPresenter) ShowTextInput(placeholder, prefill string) {
	// Telegram always shows an input box; there is nothing to enable. The
	// rejected value stays visible in the transcript, so prefill needs no
	// rendering either.
	log.Printf("Expecting text from chat %d (%s)", p.chatID, placeholder)
}

func (p *tgPresenter) HideTextInput() {
}

// ShowDatePicker renders quick-pick date buttons; while the control is
// active, free text from the chat is treated as a typed date.
func (p *tgPresenter) ShowDatePicker(current string) {
	p.token = uuid.NewV4().String()
	p.actionIDs = nil
	p.dateMode = true

	today := ledger.Today(time.Now())
	p.dateValues = []string{current}
	buttons := []tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardButtonData("Keep "+current, p.callbackData(0)),
	}
	if today != current {
		p.dateValues = append(p.dateValues, today)
		buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData("Today ("+today+")", p.callbackData(1)))
	}

	msg := tgbotapi.NewMessage(p.chatID, "Pick a date below or type one as YYYY-MM-DD.")
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(splitRows(buttons, buttonsPerRow)...)
	if _, err := p.bot.Send(msg); err != nil {
		log.Printf("Could not send date keyboard to chat %d; error: %s", p.chatID, err)
	}
}

func (p *tgPresenter) callbackData(idx int) string {
	return p.token + ":" + strconv.Itoa(idx)
}

// selection is a resolved callback press: either an action id or a picked
// date value.
type selection struct {
	action string
	date   string
}

// resolve maps raw callback data onto the currently shown action set. It
// reports false for data carrying a stale or foreign token.
func (p *tgPresenter) resolve(data string) (selection, bool) {
	parts := strings.SplitN(data, ":", 2)
	if len(parts) != 2 || p.token == "" || parts[0] != p.token {
		return selection{}, false
	}
	idx, err := strconv.Atoi(parts[1])
	if err != nil || idx < 0 {
		return selection{}, false
	}
	if p.dateValues != nil {
		if idx >= len(p.dateValues) {
			return selection{}, false
		}
		return selection{date: p.dateValues[idx]}, true
	}
	if idx >= len(p.actionIDs) {
		return selection{}, false
	}
	return selection{action: p.actionIDs[idx]}, true
}

// dateEntryActive reports whether free text should be read as a date.
func (p *tgPresenter) dateEntryActive() bool {
	return p.dateMode
}
