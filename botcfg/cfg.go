package botcfg

import "log"
import "os"
import "strconv"
import "github.com/joho/godotenv"
import "gopkg.in/gcfg.v1"

type Config struct {
	TGBot struct {
		Token string
	}

	Proxy_SOCKS5 struct {
		Server string
		User   string
		Pass   string
	}

	Redis struct {
		Server string
		DB     int
		Pass   string
	}

	Storage struct {
		Backend string // "redis" or "ram"
	}
}

// Read loads the ini config file and applies environment overrides for the
// secrets (BOT_TOKEN, REDIS_PASS and friends), so those do not have to live
// in the file. A .env file next to the binary is picked up if present.
func Read(filename string) (Config, error) {
	log.Printf("Reading configuration from: %s", filename)

	if err := godotenv.Load(); err == nil {
		log.Printf("Loaded environment overrides from .env")
	}

	var cfg Config
	cfg.Redis.Server = "localhost:6379"
	cfg.Storage.Backend = "redis"

	err := gcfg.ReadFileInto(&cfg, filename)
	if err != nil {
		log.Printf("Could not correctly parse configuration file: %s; error: %s", filename, err)
		return cfg, err
	}

	if v := os.Getenv("BOT_TOKEN"); v != "" {
		cfg.TGBot.Token = v
	}
	if v := os.Getenv("REDIS_SERVER"); v != "" {
		cfg.Redis.Server = v
	}
	if v := os.Getenv("REDIS_PASS"); v != "" {
		cfg.Redis.Pass = v
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			log.Printf("Ignoring non-numeric REDIS_DB override '%s'", v)
		} else {
			cfg.Redis.DB = db
		}
	}
	if v := os.Getenv("STORAGE_BACKEND"); v != "" {
		cfg.Storage.Backend = v
	}

	log.Printf("Configuration has been successfully read from %s", filename)
	return cfg, nil
}
