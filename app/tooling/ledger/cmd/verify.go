package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(verifyCmd)
}

// verifyCmd represents the verify command
var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Mine a short chain, tamper with it and show the detection",
	Run: func(cmd *cobra.Command, args []string) {
		if err := verifyChain(); err != nil {
			log.Fatal(err)
		}
	},
}

func verifyChain() error {
	st, err := newState()
	if err != nil {
		return err
	}
	defer st.Shutdown()

	if _, err := st.SubmitTransaction(10, "kennedy", "pavel"); err != nil {
		return err
	}
	if _, err := st.MineNewBlock(context.Background()); err != nil {
		return err
	}
	if _, err := st.SubmitTransaction(25, "pavel", "jolie"); err != nil {
		return err
	}
	if _, err := st.MineNewBlock(context.Background()); err != nil {
		return err
	}

	fmt.Printf("chain valid: %t\n", st.IsValid())

	// Tamper with a recorded transaction without resealing the block. The
	// merkle tree no longer matches its root, so verification must fail.
	block, err := st.GetBlock(1)
	if err != nil {
		return err
	}
	block.Trans.Leafs[0].Value.Amount += 1_000_000

	if err := block.Trans.Verify(); err != nil {
		fmt.Printf("tampered block detected: %v\n", err)
		return nil
	}

	return fmt.Errorf("tampering went undetected")
}
