package main

import (
	"fmt"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"spendguard/internal/cli"
	"spendguard/internal/common"
	"spendguard/internal/sim"
	"spendguard/internal/store"
)

func simulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Generate demo transaction and merchant data",
		Long: `Generate a synthetic transaction history and merchant risk profiles,
written to the configured data files. Use a fixed seed to regenerate
identical datasets.`,
		RunE: runSimulate,
	}

	cmd.Flags().IntP("users", "u", 10, "Number of users to simulate")
	cmd.Flags().IntP("count", "n", 500, "Number of transactions to generate")
	cmd.Flags().Uint64P("seed", "s", 0, "Random seed (0 = random each run)")

	_ = viper.BindPFlag("simulate.users", cmd.Flags().Lookup("users"))
	_ = viper.BindPFlag("simulate.count", cmd.Flags().Lookup("count"))
	_ = viper.BindPFlag("simulate.seed", cmd.Flags().Lookup("seed"))

	return cmd
}

func runSimulate(_ *cobra.Command, _ []string) error {
	users := viper.GetInt("simulate.users")
	count := viper.GetInt("simulate.count")
	seed := viper.GetUint64("simulate.seed")

	if users < 1 || count < 1 {
		return fmt.Errorf("users and count must both be at least 1")
	}

	faker := gofakeit.New(seed)

	txns := sim.Transactions(faker, users, count)
	if err := store.SaveTransactions(transactionsPath(), txns); err != nil {
		return err
	}
	common.LogInfo("Generated transaction data", common.Fields{"transactions": len(txns), "users": users, "path": transactionsPath()})

	merchants := sim.MerchantProfiles(faker)
	if err := store.SaveMerchants(merchantsPath(), merchants); err != nil {
		return err
	}
	common.LogInfo("Generated merchant profiles", common.Fields{"merchants": len(merchants), "path": merchantsPath()})

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Wrote %d transactions and %d merchant profiles", len(txns), len(merchants))))
	return nil
}
