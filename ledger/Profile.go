package ledger

import "log"
import "sort"
import "time"

// UserProfile holds everything recorded for a single user: the ordered list
// of income categories and the append-only list of income records.
type UserProfile struct {
	Categories []string       `json:"categories"`
	Records    []IncomeRecord `json:"records"`
}

func NewUserProfile() *UserProfile {
	profile := &UserProfile{Categories: make([]string, 0),
		Records: make([]IncomeRecord, 0)}
	return profile
}

// Ledger maps a user name (trimmed, unique) to that user's profile. The whole
// ledger is the unit of persistence.
type Ledger map[string]*UserProfile

func NewLedger() Ledger {
	return make(Ledger)
}

func (l Ledger) Get(name string) (*UserProfile, bool) {
	profile, found := l[name]
	return profile, found
}

// Upsert returns the profile for name, creating an empty one if absent.
func (l Ledger) Upsert(name string) *UserProfile {
	profile, found := l[name]
	if !found {
		log.Printf("Creating a new profile for user '%s'", name)
		profile = NewUserProfile()
		l[name] = profile
	}
	return profile
}

// Names returns all known user names in sorted order.
func (l Ledger) Names() []string {
	names := make([]string, 0, len(l))
	for name := range l {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (p *UserProfile) HasCategory(name string) bool {
	for _, c := range p.Categories {
		if c == name {
			return true
		}
	}
	return false
}

// AddCategory appends name to the category list. It reports false and leaves
// the list untouched when an exact match is already present.
func (p *UserProfile) AddCategory(name string) bool {
	if p.HasCategory(name) {
		log.Printf("Category '%s' already exists, not adding", name)
		return false
	}
	p.Categories = append(p.Categories, name)
	return true
}

// RemoveCategory drops name from the category list. Records referencing the
// removed category are kept untouched.
func (p *UserProfile) RemoveCategory(name string) {
	kept := make([]string, 0, len(p.Categories))
	for _, c := range p.Categories {
		if c != name {
			kept = append(kept, c)
		}
	}
	p.Categories = kept
}

func (p *UserProfile) AddRecord(rec IncomeRecord) {
	p.Records = append(p.Records, rec)
}

// MonthlyRecords returns the records falling in the given calendar month,
// sorted by date ascending. The sort is stable so same-day records keep
// their recording order. Records with unparseable dates are skipped.
func (p *UserProfile) MonthlyRecords(year int, month time.Month) []IncomeRecord {
	records := make([]IncomeRecord, 0, len(p.Records))
	for _, rec := range p.Records {
		y, m, ok := recordMonth(rec.Date)
		if !ok {
			log.Printf("Skipping record with unparseable date '%s'", rec.Date)
			continue
		}
		if y == year && m == month {
			records = append(records, rec)
		}
	}
	sort.SliceStable(records, func(i, j int) bool { return records[i].Date < records[j].Date })
	return records
}

// MonthlyTotal sums the amounts of all records in the given calendar month.
func (p *UserProfile) MonthlyTotal(year int, month time.Month) int {
	total := 0
	for _, rec := range p.MonthlyRecords(year, month) {
		total += rec.Amount
	}
	return total
}
