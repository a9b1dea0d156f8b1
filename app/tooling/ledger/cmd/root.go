// Package cmd contains the ledger tooling commands.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	difficulty  string
	maxAttempts uint64
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&difficulty, "difficulty", "d", "000", "Prefix of zero characters a block hash must carry.")
	rootCmd.PersistentFlags().Uint64Var(&maxAttempts, "max-attempts", 0, "Cap on nonce search attempts, 0 means unbounded.")
}

var rootCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Single node ledger simulator",
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
