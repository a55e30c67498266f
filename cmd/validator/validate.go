package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/maxipay/txvalidator/config"
	"github.com/maxipay/txvalidator/orchestrator"
	"github.com/maxipay/txvalidator/report"
	"github.com/maxipay/txvalidator/store"
)

var validateFlags struct {
	agents    []int
	rulesPath string
	save      bool
	outputDir string
	prefix    string
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Run rule validation for the given agents",
	Long: `Validate the transactions of the given agents against the rule
source and report one outcome per transaction per rule.

Without --save the results print to standard output as JSON; with --save
they are written to a timestamped file inside the output directory.

Examples:
  # Print results for agents 1 and 2
  validator validate --agents 1,2

  # Use a specific rule workbook and persist the results
  validator validate --agents 3 --rules reglas.xlsx --save --output-dir out`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().IntSliceVar(&validateFlags.agents, "agents", nil, "agent ids to validate (required)")
	validateCmd.Flags().StringVar(&validateFlags.rulesPath, "rules", "", "rule source path (.csv or .xlsx)")
	validateCmd.Flags().BoolVar(&validateFlags.save, "save", false, "persist results to a JSON file instead of printing")
	validateCmd.Flags().StringVar(&validateFlags.outputDir, "output-dir", "", "directory for persisted results")
	validateCmd.Flags().StringVar(&validateFlags.prefix, "prefix", "", "persisted result filename prefix")
	validateCmd.MarkFlagRequired("agents")
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg := config.FromEnv()
	if validateFlags.rulesPath != "" {
		cfg.RulesPath = validateFlags.rulesPath
	}
	if validateFlags.outputDir != "" {
		cfg.OutputDir = validateFlags.outputDir
	}
	if validateFlags.prefix != "" {
		cfg.OutputPrefix = validateFlags.prefix
	}

	if len(validateFlags.agents) == 0 {
		return fmt.Errorf("at least one agent id is required")
	}
	if err := cfg.RequireDatabase(); err != nil {
		return err
	}

	db, err := store.Open(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	result, err := orchestrator.New(store.NewPostgresStore(db)).Run(validateFlags.agents, cfg.RulesPath)
	if err != nil {
		return fmt.Errorf("validation run failed: %w", err)
	}

	if len(result) == 0 {
		fmt.Printf("No matching agents for ids %v\n", validateFlags.agents)
	}

	if validateFlags.save {
		path, err := report.Save(result, cfg.OutputDir, cfg.OutputPrefix)
		if err != nil {
			return err
		}
		fmt.Printf("Results for %d agent(s) written to %s\n", len(result), path)
		return nil
	}

	return report.Render(os.Stdout, result)
}
