// Package sim generates demo datasets: a transaction history and a set
// of merchant profiles, shaped like the flat-file contracts expect.
package sim

import (
	"math"
	"time"

	"github.com/brianvoe/gofakeit/v7"

	"spendguard/internal/model"
)

// Categories is the fixed category roster for generated transactions.
var Categories = []string{"Food", "Travel", "Shopping", "Groceries", "Entertainment", "Utilities"}

// MerchantNames is the fixed merchant roster shared by both datasets.
var MerchantNames = []string{"Zomato", "Amazon", "Flipkart", "Swiggy", "Uber", "Myntra", "BigBasket", "Netflix", "Dominos", "Recharge"}

// Transactions generates count transactions spread over the past 60
// days for users 1..users. A seeded faker makes the output reproducible.
func Transactions(faker *gofakeit.Faker, users, count int) model.Transactions {
	now := time.Now()
	txns := make(model.Transactions, 0, count)
	for id := 1; id <= count; id++ {
		txns = append(txns, model.Transaction{
			ID:           id,
			UserID:       faker.IntRange(1, users),
			MerchantName: faker.RandomString(MerchantNames),
			Amount:       round2(faker.Float64Range(50, 5000)),
			Category:     faker.RandomString(Categories),
			Timestamp:    now.AddDate(0, 0, -faker.IntRange(0, 60)),
		})
	}
	return txns
}

// MerchantProfiles generates one risk profile per roster merchant.
// Refund rates stay within 0-30%, ratings within 2.0-5.0, matching the
// ranges the label policy was designed around.
func MerchantProfiles(faker *gofakeit.Faker) []model.MerchantProfile {
	profiles := make([]model.MerchantProfile, 0, len(MerchantNames))
	for _, name := range MerchantNames {
		profiles = append(profiles, model.MerchantProfile{
			MerchantName:  name,
			FraudReports:  faker.IntRange(0, 50),
			RefundRate:    round2(faker.Float64Range(0, 0.30)),
			AvgUserRating: round1(faker.Float64Range(2.0, 5.0)),
		})
	}
	return profiles
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round1(v float64) float64 { return math.Round(v*10) / 10 }
