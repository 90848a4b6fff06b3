package main

import (
	"fmt"

	"github.com/spf13/viper"

	"spendguard/internal/cli"
	"spendguard/internal/common"
	"spendguard/internal/config"
	"spendguard/internal/model"
	"spendguard/internal/risk"
	"spendguard/internal/store"
)

func transactionsPath() string {
	return config.ExpandPath(viper.GetString("data.transactions"))
}

func merchantsPath() string {
	return config.ExpandPath(viper.GetString("data.merchants"))
}

func scoredMerchantsPath() string {
	return config.ExpandPath(viper.GetString("data.scored_merchants"))
}

func modelPath() string {
	return config.ExpandPath(viper.GetString("model.path"))
}

func spikeThreshold() float64 {
	return viper.GetFloat64("spend.spike_threshold")
}

// loadServingState loads everything the scoring paths need: the scored
// merchant table and the model artifact. Model problems are fatal here,
// never skipped.
func loadServingState() ([]model.MerchantProfile, *risk.Forest, error) {
	if modelPath() == "" {
		return nil, nil, common.NewUserError("model.path is not set", common.ErrMissingConfig)
	}

	merchants, err := store.LoadMerchants(scoredMerchantsPath())
	if err != nil {
		return nil, nil, common.NewUserError("failed to load scored merchants - run 'spendguard train' first", err)
	}

	forest, err := risk.Load(modelPath())
	if err != nil {
		return nil, nil, common.NewUserError("risk model unavailable - run 'spendguard train' first", err)
	}
	return merchants, forest, nil
}

// formatRiskAlert styles a classification result by severity.
func formatRiskAlert(merchant string, level model.RiskLevel) string {
	switch level {
	case model.RiskHigh:
		return cli.FormatError(fmt.Sprintf("%s is classified as HIGH-RISK!", merchant))
	case model.RiskMedium:
		return cli.FormatWarning(fmt.Sprintf("%s is classified as MEDIUM-RISK. Please verify.", merchant))
	default:
		return cli.FormatSuccess(fmt.Sprintf("%s is classified as LOW-RISK.", merchant))
	}
}
