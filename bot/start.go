package bot

import "log"
import "net/http"
import "golang.org/x/net/proxy"
import tgbotapi "gopkg.in/telegram-bot-api.v4"

import "github.com/firemove/my-money-manager-chatbot/botcfg"
import "github.com/firemove/my-money-manager-chatbot/ledger"

// panics internally if something goes wrong
func setupBot(cfg botcfg.Config) (*tgbotapi.BotAPI, *tgbotapi.UpdatesChannel) {
	botToken := cfg.TGBot.Token

	var bot *tgbotapi.BotAPI = nil
	server := cfg.Proxy_SOCKS5.Server
	user := cfg.Proxy_SOCKS5.User
	pass := cfg.Proxy_SOCKS5.Pass
	if server != "" {
		log.Printf("Proxy is set, connecting to '%s' with user '%s'", server, user)
		auth := proxy.Auth{User: user,
			Password: pass}
		dialer, err := proxy.SOCKS5("tcp", server, &auth, proxy.Direct)
		if err != nil {
			log.Panicf("Could not get proxy dialer, error: %s", err)
		}
		httpTransport := &http.Transport{}
		httpTransport.Dial = dialer.Dial
		httpClient := &http.Client{Transport: httpTransport}
		bot, err = tgbotapi.NewBotAPIWithClient(botToken, httpClient)
		if err != nil {
			log.Panicf("Could not connect via proxy, error: %s", err)
		}
	} else {
		log.Printf("No proxy is set, going without any proxy")
		var err error
		bot, err = tgbotapi.NewBotAPI(botToken)
		if err != nil {
			log.Panicf("Could not connect directly, error: %s", err)
		}
	}

	log.Printf("Authorized on account %s", bot.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates, err := bot.GetUpdatesChan(u)
	if err != nil {
		log.Panic(err)
	}

	return bot, &updates
}

func newStorage(cfg botcfg.Config) ledger.Storage {
	if cfg.Storage.Backend == "ram" {
		log.Printf("Using non-persistent in-memory storage")
		return ledger.NewRamStorage()
	}
	return ledger.NewRedisStorage(cfg.Redis.Server, cfg.Redis.DB, cfg.Redis.Pass)
}

// run handles updates one at a time; a dialogue transition always completes
// before the next update is read.
func run(updates *tgbotapi.UpdatesChannel, r *router) {
	for update := range *updates {
		if update.CallbackQuery != nil {
			r.handleCallback(update.CallbackQuery)
			continue
		}
		if update.Message == nil {
			log.Print("Update without a message, skipping")
			continue
		}
		r.handleMessage(update.Message)
	}

	log.Print("Main cycle has been aborted")
}

func Start(cfg botcfg.Config) error {
	log.Print("Starting the bot")

	bot, updates := setupBot(cfg)

	storage := newStorage(cfg)
	book, err := storage.Load()
	if err != nil {
		// Load degrades to an empty ledger by itself; recorded data will
		// reappear once the store is reachable again
		log.Printf("Ledger could not be loaded, continuing with an empty one; error: %s", err)
	}

	run(updates, newRouter(bot, storage, book))

	log.Print("Stopping the bot")
	return nil
}
