package main

import "log"
import "github.com/firemove/my-money-manager-chatbot/botcfg"
import "github.com/firemove/my-money-manager-chatbot/bot"

const cfg_filename = "bot.cfg"

func main() {
	cfg, err := botcfg.Read(cfg_filename)
	if err != nil {
		log.Fatalf("Could not read config file %s, exiting with error: %s", cfg_filename, err)
	}

	log.Printf("Starting the bot")
	bot.Start(cfg)
	log.Printf("Bot has finished working")
}
