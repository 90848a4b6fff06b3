// Package spend computes per-user spending summaries from the transaction
// store: category totals, monthly totals, and anomalous-month detection.
package spend

import (
	"sort"
	"time"

	"spendguard/internal/model"
)

// DefaultSpikeThreshold is the multiplier over the mean monthly spend
// above which a month is flagged.
const DefaultSpikeThreshold = 1.5

// Month is a calendar year-month.
type Month struct {
	Year  int
	Month time.Month
}

// MonthOf truncates a timestamp to its calendar month.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// Before reports whether m is chronologically before other.
func (m Month) Before(other Month) bool {
	if m.Year != other.Year {
		return m.Year < other.Year
	}
	return m.Month < other.Month
}

// String formats the month as "2006-01".
func (m Month) String() string {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC).Format("2006-01")
}

// MonthTotal is one month's total spend for a user.
type MonthTotal struct {
	Month Month
	Total float64
}

// CategorySpending sums a user's spend per category. A user with no
// transactions gets an empty map, not an error.
func CategorySpending(txns model.Transactions, userID int) map[string]float64 {
	totals := make(map[string]float64)
	for _, t := range txns.ForUser(userID) {
		totals[t.Category] += t.Amount
	}
	return totals
}

// MonthlySpending sums a user's spend per calendar month, ordered
// chronologically with no duplicate months.
func MonthlySpending(txns model.Transactions, userID int) []MonthTotal {
	byMonth := make(map[Month]float64)
	for _, t := range txns.ForUser(userID) {
		byMonth[MonthOf(t.Timestamp)] += t.Amount
	}

	out := make([]MonthTotal, 0, len(byMonth))
	for m, total := range byMonth {
		out = append(out, MonthTotal{Month: m, Total: total})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Month.Before(out[j].Month)
	})
	return out
}

// DetectSpendingSpike flags months whose total strictly exceeds
// threshold times the mean of the user's monthly totals. Note the mean
// includes the candidate month itself, so a single-month history can
// never be flagged at any threshold >= 1.
func DetectSpendingSpike(txns model.Transactions, userID int, threshold float64) []MonthTotal {
	monthly := MonthlySpending(txns, userID)
	if len(monthly) == 0 {
		return nil
	}

	var sum float64
	for _, mt := range monthly {
		sum += mt.Total
	}
	mean := sum / float64(len(monthly))

	var spikes []MonthTotal
	for _, mt := range monthly {
		if mt.Total > threshold*mean {
			spikes = append(spikes, mt)
		}
	}
	return spikes
}
