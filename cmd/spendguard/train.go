package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"spendguard/internal/cli"
	"spendguard/internal/common"
	"spendguard/internal/model"
	"spendguard/internal/risk"
	"spendguard/internal/store"
)

func trainCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train the merchant risk model",
		Long: `Label merchant profiles with the risk policy, train a random forest
on a reproducible 80/20 split, report held-out accuracy, save the model
artifact, and write the scored merchants file.`,
		RunE: runTrain,
	}

	cmd.Flags().Int("trees", 100, "Number of trees in the forest")
	cmd.Flags().Int64("seed", risk.DefaultSeed, "Random seed for split and training")
	cmd.Flags().Float64("test-fraction", risk.DefaultTestFraction, "Held-out fraction of the labeled dataset")

	_ = viper.BindPFlag("train.trees", cmd.Flags().Lookup("trees"))
	_ = viper.BindPFlag("train.seed", cmd.Flags().Lookup("seed"))
	_ = viper.BindPFlag("train.test_fraction", cmd.Flags().Lookup("test-fraction"))

	return cmd
}

func runTrain(_ *cobra.Command, _ []string) error {
	seed := viper.GetInt64("train.seed")
	testFraction := viper.GetFloat64("train.test_fraction")
	if testFraction <= 0 || testFraction >= 1 {
		return fmt.Errorf("test-fraction must be in (0,1), got %v: %w", testFraction, common.ErrInvalidConfig)
	}

	merchants, err := store.LoadMerchants(merchantsPath())
	if err != nil {
		return err
	}
	slog.Info("Loaded merchant profiles", "merchants", len(merchants), "path", merchantsPath())

	dataset, err := risk.DatasetFromProfiles(merchants)
	if err != nil {
		return fmt.Errorf("failed to build training dataset: %w", err)
	}

	train, test := dataset.Split(testFraction, seed)
	slog.Info("Partitioned dataset", "train", train.Len(), "test", test.Len(), "seed", seed)

	cfg := risk.DefaultTrainConfig()
	cfg.Trees = viper.GetInt("train.trees")
	cfg.Seed = seed

	forest, err := risk.Train(train, cfg)
	if err != nil {
		return fmt.Errorf("training failed: %w", err)
	}

	report := forest.Evaluate(test)
	report.TrainSize = train.Len()
	fmt.Println(renderReport(report))

	if err := forest.Save(modelPath()); err != nil {
		return err
	}
	slog.Info("Saved model artifact", "path", modelPath(), "trees", cfg.Trees)

	// Score every merchant and write the derived file.
	bar := progressbar.NewOptions(len(merchants),
		progressbar.OptionSetDescription("Scoring merchants"),
		progressbar.OptionClearOnFinish(),
	)
	scored, err := forest.ScoreProfiles(merchants, func(model.MerchantProfile) {
		_ = bar.Add(1)
	})
	if err != nil {
		return err
	}

	if err := store.SaveScoredMerchants(scoredMerchantsPath(), scored); err != nil {
		return err
	}
	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Scored %d merchants to %s", len(scored), scoredMerchantsPath())))
	return nil
}

func renderReport(report risk.Report) string {
	var b strings.Builder

	b.WriteString(cli.FormatTitle("Model Evaluation"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Accuracy: %s on %d held-out merchants (trained on %d)\n\n",
		cli.BoldStyle.Render(fmt.Sprintf("%.2f%%", report.Accuracy*100)),
		report.TestSize, report.TrainSize))

	b.WriteString(cli.TableHeaderStyle.Render(fmt.Sprintf("%-8s %9s %7s %7s %8s", "Class", "Precision", "Recall", "F1", "Support")))
	b.WriteString("\n")
	for c, m := range report.PerClass {
		b.WriteString(fmt.Sprintf("%-8s %9.2f %7.2f %7.2f %8d\n",
			report.ClassName(c), m.Precision, m.Recall, m.F1, m.Support))
	}
	return b.String()
}
