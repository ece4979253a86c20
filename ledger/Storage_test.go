package ledger

import "testing"
import "time"

func TestRamStorageEmptyLoad(t *testing.T) {
	s := NewRamStorage()
	l, err := s.Load()
	if err != nil {
		t.FailNow()
	}
	if len(l) != 0 {
		t.Error(l)
	}
}

func TestRamStorageRoundtrip(t *testing.T) {
	s := NewRamStorage()

	l := NewLedger()
	p := l.Upsert("Kim")
	p.AddCategory("Salary")
	p.AddRecord(*NewIncomeRecord("Salary", 50000, "2025-07-22"))

	if err := s.Save(l); err != nil {
		t.FailNow()
	}

	loaded, err := s.Load()
	if err != nil {
		t.FailNow()
	}
	lp, found := loaded.Get("Kim")
	if !found {
		t.FailNow()
	}
	if len(lp.Categories) != 1 || lp.Categories[0] != "Salary" {
		t.Error(lp.Categories)
	}
	if len(lp.Records) != 1 {
		t.FailNow()
	}
	rec := lp.Records[0]
	if rec.Category != "Salary" || rec.Amount != 50000 || rec.Date != "2025-07-22" {
		t.Error(rec)
	}
	if lp.MonthlyTotal(2025, time.July) != 50000 {
		t.Error("monthly total must survive the roundtrip")
	}
}

func TestRamStorageCorruptDataIgnored(t *testing.T) {
	s := &ramStorage{data: []byte("{ not json")}
	l, err := s.Load()
	if err != nil {
		t.Error("corrupt data must not be an error")
	}
	if len(l) != 0 {
		t.Error(l)
	}
}
