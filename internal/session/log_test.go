package session

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"spendguard/internal/model"
)

func TestLog_AppendPreservesOrder(t *testing.T) {
	log := NewLog()
	assert.Zero(t, log.Len())

	log.Append(model.SimulatedTransaction{UserID: 1, MerchantName: "Zomato", Amount: 100, RiskLevel: model.RiskLow})
	log.Append(model.SimulatedTransaction{UserID: 2, MerchantName: "Amazon", Amount: 250, RiskLevel: model.RiskHigh})
	log.Append(model.SimulatedTransaction{UserID: 1, MerchantName: "Uber", Amount: 80, RiskLevel: model.RiskMedium})

	entries := log.Entries()
	assert.Equal(t, 3, log.Len())
	assert.Equal(t, "Zomato", entries[0].MerchantName)
	assert.Equal(t, "Amazon", entries[1].MerchantName)
	assert.Equal(t, "Uber", entries[2].MerchantName)
}

func TestLog_EntriesReturnsACopy(t *testing.T) {
	log := NewLog()
	log.Append(model.SimulatedTransaction{UserID: 1, MerchantName: "Zomato", Amount: 100, RiskLevel: model.RiskLow})

	entries := log.Entries()
	entries[0].MerchantName = "tampered"

	assert.Equal(t, "Zomato", log.Entries()[0].MerchantName)
}
