package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "validator",
	Short: "Validate agent transactions against spreadsheet-defined rules",
	Long: `Validator runs externally-authored business rules against the
transactions recorded for each agent and reports one pass/fail outcome per
transaction per rule.

Rules live in a tabular file (.csv or .xlsx) with the columns rule_id,
description, fields_required, formula and message_on_fail. Formulas are
boolean expressions over the declared fields, evaluated in a sandbox that
permits only arithmetic, comparisons and logical operators.

The record store connection is configured through DATABASE_URL; a .env file
in the working directory is honored.`,
}

// Execute runs the root command. With no subcommand cobra prints the usage
// text and exits cleanly.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
