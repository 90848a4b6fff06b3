package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"spendguard/internal/cli"
	"spendguard/internal/common"
	"spendguard/internal/model"
	"spendguard/internal/store"
)

func merchantsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "merchants",
		Short: "List all merchants with their risk classification",
		Long: `Show the scored merchant table, highest-risk merchants first, with the
raw features the classifier saw.`,
		RunE: runMerchants,
	}
}

func runMerchants(_ *cobra.Command, _ []string) error {
	merchants, err := store.LoadMerchants(scoredMerchantsPath())
	if err != nil {
		return common.NewUserError("failed to load scored merchants - run 'spendguard train' first", err)
	}

	fmt.Println(renderMerchantTable(merchants))
	return nil
}

func renderMerchantTable(merchants []model.MerchantProfile) string {
	sorted := make([]model.MerchantProfile, len(merchants))
	copy(sorted, merchants)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].MLPrediction != sorted[j].MLPrediction {
			return sorted[i].MLPrediction > sorted[j].MLPrediction
		}
		return sorted[i].MerchantName < sorted[j].MerchantName
	})

	var b strings.Builder
	b.WriteString(cli.FormatTitle("Merchant Risk Profile"))
	b.WriteString("\n")
	b.WriteString(cli.TableHeaderStyle.Render(fmt.Sprintf("%-14s %6s %11s %7s %8s", "Merchant", "Fraud", "RefundRate", "Rating", "Risk")))
	b.WriteString("\n")
	for _, m := range sorted {
		b.WriteString(fmt.Sprintf("%-14s %6d %11.2f %7.1f %8s\n",
			m.MerchantName, m.FraudReports, m.RefundRate, m.AvgUserRating, riskCell(m.MLPrediction)))
	}
	return b.String()
}

func riskCell(level model.RiskLevel) string {
	switch level {
	case model.RiskHigh:
		return cli.ErrorStyle.Render(level.String())
	case model.RiskMedium:
		return cli.WarningStyle.Render(level.String())
	default:
		return cli.SuccessStyle.Render(level.String())
	}
}
