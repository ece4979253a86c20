package bot

import (
	"log"

	tgbotapi "gopkg.in/telegram-bot-api.v4"

	"github.com/firemove/my-money-manager-chatbot/dialog"
	"github.com/firemove/my-money-manager-chatbot/ledger"
)

// chatSession is one chat's dialogue: its controller plus the presenter the
// controller renders through.
type chatSession struct {
	ctrl *dialog.Controller
	pres *tgPresenter
}

// router hands updates to per-chat sessions. All sessions share the one
// ledger and storage; updates are handled strictly one at a time on the main
// loop, so the ledger has a single logical writer.
type router struct {
	bot   *tgbotapi.BotAPI
	store ledger.Storage
	book  ledger.Ledger

	sessions map[int64]*chatSession
}

func newRouter(bot *tgbotapi.BotAPI, store ledger.Storage, book ledger.Ledger) *router {
	r := &router{bot: bot,
		store:    store,
		book:     book,
		sessions: make(map[int64]*chatSession)}
	return r
}

func (r *router) session(chatID int64) *chatSession {
	s, found := r.sessions[chatID]
	if !found {
		log.Printf("Opening a new dialogue session for chat %d", chatID)
		pres := newPresenter(r.bot, chatID)
		s = &chatSession{ctrl: dialog.New(r.store, r.book, pres), pres: pres}
		r.sessions[chatID] = s
		s.ctrl.Start()
	}
	return s
}

func (r *router) handleMessage(msg *tgbotapi.Message) {
	log.Printf("Message received from %s; text: %s", dumpMsgUserInfo(*msg), msg.Text)

	s := r.session(msg.Chat.ID)
	if msg.IsCommand() {
		if msg.Command() == "start" {
			s.ctrl.Start()
		} else {
			log.Printf("Unknown command '%s' from %s", msg.Command(), dumpMsgUserInfo(*msg))
		}
		return
	}

	if s.pres.dateEntryActive() {
		s.ctrl.DateConfirmed(msg.Text)
	} else {
		s.ctrl.TextSubmitted(msg.Text)
	}
}

func (r *router) handleCallback(cq *tgbotapi.CallbackQuery) {
	if cq.Message == nil {
		log.Printf("Callback %s has no originating message, ignoring", cq.ID)
		return
	}
	chatID := cq.Message.Chat.ID
	log.Printf("Callback received from chat %d; data: %s", chatID, cq.Data)

	s := r.session(chatID)
	sel, ok := s.pres.resolve(cq.Data)
	if !ok {
		log.Printf("Stale or unknown callback data '%s' from chat %d", cq.Data, chatID)
		r.answerCallback(cq.ID, "That menu has expired.")
		return
	}
	r.answerCallback(cq.ID, "")

	if sel.date != "" {
		s.ctrl.DateConfirmed(sel.date)
	} else {
		s.ctrl.ActionSelected(sel.action)
	}
}

func (r *router) answerCallback(id, text string) {
	if _, err := r.bot.AnswerCallbackQuery(tgbotapi.NewCallback(id, text)); err != nil {
		log.Printf("Could not answer callback %s; error: %s", id, err)
	}
}
