package main

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"spendguard/internal/cli"
	"spendguard/internal/common"
	"spendguard/internal/spend"
	"spendguard/internal/store"
)

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show a user's spending summary",
		Long: `Summarize one user's transaction history: spend per category, the
monthly trend, and any months flagged as spending spikes.`,
		RunE: runReport,
	}

	cmd.Flags().IntP("user", "u", 0, "User ID to report on (required)")
	cmd.Flags().Float64P("threshold", "t", spend.DefaultSpikeThreshold, "Spike threshold multiplier over the mean monthly spend")
	_ = cmd.MarkFlagRequired("user")

	_ = viper.BindPFlag("report.user", cmd.Flags().Lookup("user"))
	_ = viper.BindPFlag("spend.spike_threshold", cmd.Flags().Lookup("threshold"))

	return cmd
}

func runReport(_ *cobra.Command, _ []string) error {
	userID := viper.GetInt("report.user")
	threshold := spikeThreshold()

	txns, err := store.LoadTransactions(transactionsPath())
	if err != nil {
		return err
	}
	if len(txns) == 0 {
		return common.NewUserError("no transactions loaded - run 'spendguard simulate' first", common.ErrNoTransactions)
	}
	slog.Debug("Loaded transactions", "count", len(txns), "path", transactionsPath())

	fmt.Println(cli.FormatTitle(fmt.Sprintf("Spending Summary for User %d", userID)))

	byCategory := spend.CategorySpending(txns, userID)
	monthly := spend.MonthlySpending(txns, userID)
	if len(byCategory) == 0 {
		fmt.Println(cli.SubtleStyle.Render(fmt.Sprintf("No transactions found for user %d.", userID)))
		return nil
	}

	fmt.Println(renderCategoryTable(byCategory))
	fmt.Println(renderMonthlyTable(monthly))

	spikes := spend.DetectSpendingSpike(txns, userID, threshold)
	if len(spikes) == 0 {
		fmt.Println(cli.FormatSuccess("No unusual spending spikes detected."))
		return nil
	}

	names := make([]string, 0, len(spikes))
	for _, s := range spikes {
		names = append(names, fmt.Sprintf("%s (%.2f)", s.Month, s.Total))
	}
	fmt.Println(cli.FormatWarning("Spending spike detected in: " + strings.Join(names, ", ")))
	return nil
}

func renderCategoryTable(byCategory map[string]float64) string {
	categories := make([]string, 0, len(byCategory))
	for c := range byCategory {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	var b strings.Builder
	b.WriteString(cli.TableHeaderStyle.Render(fmt.Sprintf("%-16s %12s", "Category", "Total")))
	b.WriteString("\n")
	for _, c := range categories {
		b.WriteString(fmt.Sprintf("%-16s %12.2f\n", c, byCategory[c]))
	}
	return cli.RenderBox(cli.ChartIcon+" Spending by Category", strings.TrimRight(b.String(), "\n"))
}

func renderMonthlyTable(monthly []spend.MonthTotal) string {
	var b strings.Builder
	b.WriteString(cli.TableHeaderStyle.Render(fmt.Sprintf("%-10s %12s", "Month", "Total")))
	b.WriteString("\n")
	for _, mt := range monthly {
		b.WriteString(fmt.Sprintf("%-10s %12.2f\n", mt.Month, mt.Total))
	}
	return cli.RenderBox(cli.ChartIcon+" Monthly Spending Trend", strings.TrimRight(b.String(), "\n"))
}
