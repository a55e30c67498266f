package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/maxipay/txvalidator/config"
	"github.com/maxipay/txvalidator/store"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert demo agents and transactions",
	Long: `Insert three demo agents with five random transactions each. The
command is a no-op when agents already exist. The schema must be in place;
run the migrate tool first.`,
	RunE: runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg := config.FromEnv()
	if err := cfg.RequireDatabase(); err != nil {
		return err
	}

	db, err := store.Open(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := store.Seed(db); err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}

	fmt.Println("Demo data ready")
	return nil
}
