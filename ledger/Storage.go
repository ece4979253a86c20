package ledger

// Storage persists the whole ledger as one unit. Save is a full overwrite;
// there are no partial writes.
type Storage interface {
	// Load reads the persisted ledger. An absent or undecodable entry yields
	// an empty ledger, not an error; errors are reserved for the store
	// itself being unreachable.
	Load() (Ledger, error)

	// Save overwrites the persisted ledger with l.
	Save(l Ledger) error
}
