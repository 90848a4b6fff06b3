package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"spendguard/internal/cli"
	"spendguard/internal/explain"
	"spendguard/internal/model"
	"spendguard/internal/risk"
	"spendguard/internal/session"
	"spendguard/internal/store"
)

func sessionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "session",
		Short: "Interactively simulate transactions",
		Long: `Run ad hoc transactions through the risk classifier: pick a user, a
merchant, and an amount; high-risk merchants block the transaction.
Every simulated transaction is kept in a session log shown on exit.`,
		RunE: runSession,
	}
}

func runSession(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	merchants, forest, err := loadServingState()
	if err != nil {
		return err
	}

	txns, err := store.LoadTransactions(transactionsPath())
	if err != nil {
		return err
	}

	merchantNames := make([]string, 0, len(merchants))
	for _, m := range merchants {
		merchantNames = append(merchantNames, m.MerchantName)
	}

	fmt.Println(cli.FormatTitle("Simulated Transaction Session"))
	fmt.Println(cli.SubtleStyle.Render(fmt.Sprintf("Known users: %v", txns.Users())))
	fmt.Println(cli.SubtleStyle.Render("Merchants: " + strings.Join(merchantNames, ", ")))
	fmt.Println(cli.SubtleStyle.Render("Press Ctrl-D or answer 'n' to finish."))
	fmt.Println()

	// The log belongs to this session alone.
	log := session.NewLog()
	prompter := cli.NewPrompter(nil, nil)

	for {
		if err := simulateOne(ctx, prompter, forest, merchants, merchantNames, log); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, cli.ErrInputCancelled) {
				break
			}
			return err
		}

		again, err := prompter.Choice(ctx, "Process another transaction? [y/n]", []string{"y", "n"})
		if err != nil || again == "n" {
			break
		}
	}

	if log.Len() > 0 {
		fmt.Println(renderSessionLog(log))
	}
	return nil
}

func simulateOne(ctx context.Context, prompter *cli.Prompter, forest *risk.Forest, merchants []model.MerchantProfile, merchantNames []string, log *session.Log) error {
	userID, err := prompter.Int(ctx, "User ID")
	if err != nil {
		return err
	}

	name, err := prompter.Choice(ctx, "Merchant", merchantNames)
	if err != nil {
		return err
	}
	merchant, err := store.FindMerchant(merchants, name)
	if err != nil {
		return err
	}

	amount, err := prompter.Float(ctx, "Amount")
	if err != nil {
		return err
	}

	explanation, err := explain.Explain(forest, risk.FromProfile(merchant))
	if err != nil {
		return err
	}

	switch explanation.Predicted {
	case model.RiskHigh:
		fmt.Println(cli.FormatError(fmt.Sprintf("Transaction BLOCKED! %s is HIGH-RISK.", name)))
	case model.RiskMedium:
		fmt.Println(cli.FormatWarning(fmt.Sprintf("Caution! %s is MEDIUM-RISK. Please verify.", name)))
	default:
		fmt.Println(cli.FormatSuccess(fmt.Sprintf("Transaction APPROVED. %s is LOW-RISK.", name)))
	}
	fmt.Println(renderExplanation(explanation))

	log.Append(model.SimulatedTransaction{
		UserID:       userID,
		MerchantName: name,
		Amount:       amount,
		RiskLevel:    explanation.Predicted,
	})
	return nil
}

func renderSessionLog(log *session.Log) string {
	var b strings.Builder
	b.WriteString(cli.TableHeaderStyle.Render(fmt.Sprintf("%-6s %-14s %10s %8s", "User", "Merchant", "Amount", "Risk")))
	b.WriteString("\n")
	for _, e := range log.Entries() {
		b.WriteString(fmt.Sprintf("%-6d %-14s %10.2f %8s\n", e.UserID, e.MerchantName, e.Amount, e.RiskLevel))
	}
	return cli.RenderBox("Simulated Transaction Log", strings.TrimRight(b.String(), "\n"))
}
