package ledger

import "encoding/json"
import "log"

// ramStorage keeps the serialized ledger in memory. It goes through the same
// JSON round-trip as the redis storage so tests exercise the real
// serialization path.
type ramStorage struct {
	data []byte
}

func NewRamStorage() Storage {
	return &ramStorage{}
}

func (s *ramStorage) Load() (Ledger, error) {
	if s.data == nil {
		return NewLedger(), nil
	}
	l := NewLedger()
	if err := json.Unmarshal(s.data, &l); err != nil {
		log.Printf("Stored ledger cannot be decoded, ignoring it; error: %s", err)
		return NewLedger(), nil
	}
	return l, nil
}

func (s *ramStorage) Save(l Ledger) error {
	data, err := json.Marshal(l)
	if err != nil {
		return err
	}
	s.data = data
	return nil
}
