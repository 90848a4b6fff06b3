package spend

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spendguard/internal/model"
)

func txn(id, userID int, category string, amount float64, ts string) model.Transaction {
	t, err := time.Parse("2006-01-02", ts)
	if err != nil {
		panic(err)
	}
	return model.Transaction{
		ID:           id,
		UserID:       userID,
		MerchantName: "Acme",
		Category:     category,
		Amount:       amount,
		Timestamp:    t,
	}
}

func TestCategorySpending(t *testing.T) {
	txns := model.Transactions{
		txn(1, 1, "Food", 100, "2024-01-05"),
		txn(2, 1, "Food", 300, "2024-02-10"),
		txn(3, 1, "Travel", 50, "2024-02-11"),
		txn(4, 2, "Food", 999, "2024-02-12"),
	}

	tests := []struct {
		want   map[string]float64
		name   string
		userID int
	}{
		{
			name:   "sums per category for the requested user only",
			userID: 1,
			want:   map[string]float64{"Food": 400, "Travel": 50},
		},
		{
			name:   "other user sees only their rows",
			userID: 2,
			want:   map[string]float64{"Food": 999},
		},
		{
			name:   "unknown user yields empty map",
			userID: 42,
			want:   map[string]float64{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CategorySpending(txns, tt.userID)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMonthlySpending_OrderedNoDuplicates(t *testing.T) {
	// Deliberately out of chronological order, with two Feb rows.
	txns := model.Transactions{
		txn(1, 1, "Food", 300, "2024-02-10"),
		txn(2, 1, "Food", 100, "2024-01-05"),
		txn(3, 1, "Travel", 50, "2024-02-20"),
		txn(4, 1, "Food", 25, "2023-12-31"),
	}

	got := MonthlySpending(txns, 1)
	require.Len(t, got, 3)

	assert.Equal(t, Month{2023, time.December}, got[0].Month)
	assert.Equal(t, Month{2024, time.January}, got[1].Month)
	assert.Equal(t, Month{2024, time.February}, got[2].Month)
	assert.InDelta(t, 25.0, got[0].Total, 1e-9)
	assert.InDelta(t, 100.0, got[1].Total, 1e-9)
	assert.InDelta(t, 350.0, got[2].Total, 1e-9)

	seen := make(map[Month]bool)
	for _, mt := range got {
		assert.False(t, seen[mt.Month], "duplicate month %s", mt.Month)
		seen[mt.Month] = true
	}
}

func TestMonthlySpending_EmptyForUnknownUser(t *testing.T) {
	txns := model.Transactions{txn(1, 1, "Food", 100, "2024-01-05")}
	assert.Empty(t, MonthlySpending(txns, 99))
}

func TestCategoryAndMonthlyTotalsAgree(t *testing.T) {
	txns := model.Transactions{
		txn(1, 1, "Food", 100, "2024-01-05"),
		txn(2, 1, "Travel", 300, "2024-02-10"),
		txn(3, 1, "Shopping", 49.99, "2024-03-01"),
		txn(4, 2, "Food", 1000, "2024-03-02"),
	}

	var byCategory float64
	for _, total := range CategorySpending(txns, 1) {
		byCategory += total
	}

	var byMonth float64
	for _, mt := range MonthlySpending(txns, 1) {
		byMonth += mt.Total
	}

	assert.InDelta(t, byCategory, byMonth, 1e-9)
	assert.InDelta(t, 449.99, byCategory, 1e-9)
}

func TestDetectSpendingSpike(t *testing.T) {
	tests := []struct {
		name      string
		txns      model.Transactions
		want      []Month
		threshold float64
		userID    int
	}{
		{
			name: "boundary month is not a spike (strict comparison)",
			// mean = 200, threshold 1.5 -> cutoff 300; Feb == 300 exactly.
			txns: model.Transactions{
				txn(1, 1, "Food", 100, "2024-01-05"),
				txn(2, 1, "Food", 300, "2024-02-10"),
			},
			userID:    1,
			threshold: DefaultSpikeThreshold,
			want:      nil,
		},
		{
			name: "one unit over the boundary flags the month",
			// mean = 200.5, cutoff 300.75; Feb = 301 > cutoff.
			txns: model.Transactions{
				txn(1, 1, "Food", 100, "2024-01-05"),
				txn(2, 1, "Food", 301, "2024-02-10"),
			},
			userID:    1,
			threshold: DefaultSpikeThreshold,
			want:      []Month{{2024, time.February}},
		},
		{
			name: "equal months never flag",
			txns: model.Transactions{
				txn(1, 1, "Food", 200, "2024-01-05"),
				txn(2, 1, "Food", 200, "2024-02-10"),
				txn(3, 1, "Food", 200, "2024-03-10"),
			},
			userID:    1,
			threshold: DefaultSpikeThreshold,
			want:      nil,
		},
		{
			name: "single active month cannot spike at default threshold",
			txns: model.Transactions{
				txn(1, 1, "Food", 5000, "2024-01-05"),
			},
			userID:    1,
			threshold: DefaultSpikeThreshold,
			want:      nil,
		},
		{
			name:      "zero transactions yields no spikes and no panic",
			txns:      model.Transactions{},
			userID:    1,
			threshold: DefaultSpikeThreshold,
			want:      nil,
		},
		{
			name: "unknown user yields no spikes",
			txns: model.Transactions{
				txn(1, 1, "Food", 100, "2024-01-05"),
			},
			userID:    7,
			threshold: DefaultSpikeThreshold,
			want:      nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetectSpendingSpike(tt.txns, tt.userID, tt.threshold)
			months := make([]Month, 0, len(got))
			for _, mt := range got {
				months = append(months, mt.Month)
			}
			if tt.want == nil {
				assert.Empty(t, months)
			} else {
				assert.Equal(t, tt.want, months)
			}
		})
	}
}

func TestMonthString(t *testing.T) {
	assert.Equal(t, "2024-02", Month{2024, time.February}.String())
	assert.Equal(t, "1999-12", Month{1999, time.December}.String())
}
