package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"spendguard/internal/cli"
	"spendguard/internal/explain"
	"spendguard/internal/risk"
	"spendguard/internal/store"
)

func scoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score a merchant's fraud risk",
		Long: `Classify one merchant with the trained risk model and show how each
feature contributed to the prediction.`,
		RunE: runScore,
	}

	cmd.Flags().StringP("merchant", "m", "", "Merchant name to score (required)")
	_ = cmd.MarkFlagRequired("merchant")

	_ = viper.BindPFlag("score.merchant", cmd.Flags().Lookup("merchant"))

	return cmd
}

func runScore(_ *cobra.Command, _ []string) error {
	name := viper.GetString("score.merchant")

	merchants, forest, err := loadServingState()
	if err != nil {
		return err
	}

	merchant, err := store.FindMerchant(merchants, name)
	if err != nil {
		return err
	}

	feats := risk.FromProfile(merchant)
	explanation, err := explain.Explain(forest, feats)
	if err != nil {
		return err
	}

	fmt.Println(formatRiskAlert(merchant.MerchantName, explanation.Predicted))
	fmt.Println(renderExplanation(explanation))
	return nil
}

func renderExplanation(e explain.Explanation) string {
	var b strings.Builder
	b.WriteString(cli.TableHeaderStyle.Render(fmt.Sprintf("%-14s %10s %14s", "Feature", "Value", "Contribution")))
	b.WriteString("\n")
	for _, c := range e.Contributions {
		b.WriteString(fmt.Sprintf("%-14s %10.2f %+14.2f\n", c.Feature, c.Value, c.Score))
	}
	b.WriteString(cli.SubtleStyle.Render(fmt.Sprintf("baseline %.2f, predicted-class score %.2f", e.Baseline, e.Probability)))
	return cli.RenderBox("Feature Contributions", b.String())
}
