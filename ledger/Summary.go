package ledger

import "time"

// MonthSummary is the per-category breakdown of one calendar month.
type MonthSummary struct {
	Year  int
	Month time.Month

	ByCategory map[string]int
	Total      int
}

func NewMonthSummary(year int, month time.Month) *MonthSummary {
	result := &MonthSummary{Year: year,
		Month: month}
	result.ByCategory = make(map[string]int)

	return result
}

// MonthlySummary groups the month's record amounts by category and computes
// the grand total. Grouping keys are exactly the distinct category values
// among the month's records, including categories removed since.
func (p *UserProfile) MonthlySummary(year int, month time.Month) *MonthSummary {
	summary := NewMonthSummary(year, month)
	for _, rec := range p.MonthlyRecords(year, month) {
		summary.ByCategory[rec.Category] += rec.Amount
		summary.Total += rec.Amount
	}
	return summary
}
