package ledger

import "encoding/json"
import "log"
import "github.com/go-redis/redis"

// ledgerKey is the single fixed key holding the serialized ledger.
const ledgerKey = "incomeledger:users"

type RedisStorage struct {
	client *redis.Client
}

func NewRedisStorage(server string, db int, password string) Storage {
	log.Printf("Connecting to redis server %s (db %d)", server, db)
	client := redis.NewClient(&redis.Options{
		Addr:     server,
		Password: password,
		DB:       db})
	s := &RedisStorage{client: client}
	return s
}

func (s *RedisStorage) Load() (Ledger, error) {
	data, err := s.client.Get(ledgerKey).Result()
	if err == redis.Nil {
		log.Printf("No ledger stored under key %s, starting with an empty one", ledgerKey)
		return NewLedger(), nil
	}
	if err != nil {
		log.Printf("Unable to read key %s; error: %s", ledgerKey, err)
		return NewLedger(), err
	}

	l := NewLedger()
	if err := json.Unmarshal([]byte(data), &l); err != nil {
		log.Printf("Stored ledger under key %s cannot be decoded, ignoring it; error: %s", ledgerKey, err)
		return NewLedger(), nil
	}
	log.Printf("Loaded ledger with %d users from key %s", len(l), ledgerKey)
	return l, nil
}

func (s *RedisStorage) Save(l Ledger) error {
	data, err := json.Marshal(l)
	if err != nil {
		log.Printf("Could not serialize ledger; error: %s", err)
		return err
	}

	log.Printf("Saving ledger with %d users to key %s", len(l), ledgerKey)
	if err := s.client.Set(ledgerKey, data, 0).Err(); err != nil {
		log.Printf("Unable to write key %s; error: %s", ledgerKey, err)
		return err
	}
	return nil
}
