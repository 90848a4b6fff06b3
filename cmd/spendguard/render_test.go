package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"spendguard/internal/explain"
	"spendguard/internal/model"
	"spendguard/internal/risk"
	"spendguard/internal/spend"
)

func TestRenderReport(t *testing.T) {
	report := risk.Report{
		Accuracy:  0.875,
		TestSize:  8,
		TrainSize: 32,
		PerClass: []risk.ClassMetrics{
			{Precision: 1, Recall: 1, F1: 1, Support: 4},
			{Precision: 0.5, Recall: 1, F1: 2.0 / 3.0, Support: 2},
			{Precision: 1, Recall: 0.5, F1: 2.0 / 3.0, Support: 2},
		},
	}

	out := renderReport(report)
	assert.Contains(t, out, "87.50%")
	assert.Contains(t, out, "Low")
	assert.Contains(t, out, "Medium")
	assert.Contains(t, out, "High")
	assert.Contains(t, out, "Support")
}

func TestRenderExplanation(t *testing.T) {
	e := explain.Explanation{
		Predicted:   model.RiskHigh,
		Baseline:    0.34,
		Probability: 0.91,
		Contributions: []explain.Contribution{
			{Feature: "FraudReports", Value: 45, Score: 0.42},
			{Feature: "RefundRate", Value: 0.2, Score: 0.12},
			{Feature: "AvgUserRating", Value: 3.1, Score: 0.03},
		},
	}

	out := renderExplanation(e)
	assert.Contains(t, out, "FraudReports")
	assert.Contains(t, out, "RefundRate")
	assert.Contains(t, out, "AvgUserRating")
	assert.Contains(t, out, "+0.42")
	assert.Contains(t, out, "baseline 0.34")
}

func TestFormatRiskAlert(t *testing.T) {
	assert.Contains(t, formatRiskAlert("Amazon", model.RiskHigh), "HIGH-RISK")
	assert.Contains(t, formatRiskAlert("Uber", model.RiskMedium), "MEDIUM-RISK")
	assert.Contains(t, formatRiskAlert("Zomato", model.RiskLow), "LOW-RISK")
}

func TestRenderMerchantTable(t *testing.T) {
	merchants := []model.MerchantProfile{
		{MerchantName: "Zomato", FraudReports: 2, RefundRate: 0.03, AvgUserRating: 4.5, MLPrediction: model.RiskLow, MLRiskLevel: "Low", Scored: true},
		{MerchantName: "Flipkart", FraudReports: 45, RefundRate: 0.28, AvgUserRating: 2.4, MLPrediction: model.RiskHigh, MLRiskLevel: "High", Scored: true},
		{MerchantName: "Uber", FraudReports: 25, RefundRate: 0.12, AvgUserRating: 3.6, MLPrediction: model.RiskMedium, MLRiskLevel: "Medium", Scored: true},
		{MerchantName: "Amazon", FraudReports: 48, RefundRate: 0.22, AvgUserRating: 2.8, MLPrediction: model.RiskHigh, MLRiskLevel: "High", Scored: true},
	}

	out := renderMerchantTable(merchants)

	// Highest risk first, names break ties.
	amazon := strings.Index(out, "Amazon")
	flipkart := strings.Index(out, "Flipkart")
	uber := strings.Index(out, "Uber")
	zomato := strings.Index(out, "Zomato")
	assert.Less(t, amazon, flipkart)
	assert.Less(t, flipkart, uber)
	assert.Less(t, uber, zomato)

	assert.Contains(t, out, "Merchant Risk Profile")
	assert.Contains(t, out, "RefundRate")

	// Input order untouched.
	assert.Equal(t, "Zomato", merchants[0].MerchantName)
}

func TestRenderMonthlyTable(t *testing.T) {
	out := renderMonthlyTable([]spend.MonthTotal{
		{Month: spend.Month{Year: 2024, Month: 1}, Total: 100},
		{Month: spend.Month{Year: 2024, Month: 2}, Total: 300},
	})
	assert.Contains(t, out, "2024-01")
	assert.Contains(t, out, "2024-02")
	assert.Contains(t, out, "300.00")
}
