package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/maxipay/txvalidator/config"
	"github.com/maxipay/txvalidator/store"
)

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Test the record store connection",
	Long:  `Connect to the record store, verify connectivity and list the tables found.`,
	RunE:  runPing,
}

func init() {
	rootCmd.AddCommand(pingCmd)
}

func runPing(cmd *cobra.Command, args []string) error {
	cfg := config.FromEnv()
	if err := cfg.RequireDatabase(); err != nil {
		return err
	}

	db, err := store.Open(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	st := store.NewPostgresStore(db)
	if err := st.Ping(); err != nil {
		return err
	}
	fmt.Println("Connection OK")

	tables, err := st.TableNames()
	if err != nil {
		return err
	}
	fmt.Println("Tables:")
	for _, t := range tables {
		fmt.Printf("  - %s\n", t)
	}
	return nil
}
