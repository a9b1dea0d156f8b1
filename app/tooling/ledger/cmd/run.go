package cmd

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/ardanlabs/ledger/foundation/ledger/state"
	"github.com/ardanlabs/ledger/foundation/ledger/storage/memory"
	"github.com/spf13/cobra"
)

var (
	blocks        int
	transPerBlock int
)

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().IntVarP(&blocks, "blocks", "b", 3, "Number of blocks to mine.")
	runCmd.Flags().IntVarP(&transPerBlock, "trans", "t", 3, "Number of transactions per block.")
}

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Mine a chain of random transactions and print it",
	Run: func(cmd *cobra.Command, args []string) {
		if err := runChain(); err != nil {
			log.Fatal(err)
		}
	},
}

func runChain() error {
	st, err := newState()
	if err != nil {
		return err
	}
	defer st.Shutdown()

	accounts := []string{"kennedy", "pavel", "ceasar", "baba", "jolie"}
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	for b := 0; b < blocks; b++ {
		for t := 0; t < transPerBlock; t++ {
			from := accounts[rng.Intn(len(accounts))]
			to := accounts[rng.Intn(len(accounts))]
			for to == from {
				to = accounts[rng.Intn(len(accounts))]
			}
			amount := float64(rng.Intn(10_000)+1) / 100

			if _, err := st.SubmitTransaction(amount, from, to); err != nil {
				return err
			}
		}

		if _, err := st.MineNewBlock(context.Background()); err != nil {
			return err
		}
	}

	if err := st.Validate(); err != nil {
		return err
	}

	printChain(st)

	return nil
}

// =============================================================================

func newState() (*state.State, error) {
	strg, err := memory.New()
	if err != nil {
		return nil, err
	}

	return state.New(state.Config{
		Difficulty:  difficulty,
		MaxAttempts: maxAttempts,
		Storage:     strg,
	})
}

func printChain(st *state.State) {
	chain, err := st.Chain()
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("difficulty %q\n", st.Difficulty())

	for _, block := range chain {
		fmt.Printf("block %d\n", block.Header.Number)
		fmt.Printf("  hash  %s\n", block.Hash())
		fmt.Printf("  prev  %s\n", block.Header.PrevBlockHash)
		fmt.Printf("  root  %s\n", block.Header.TransRoot)
		fmt.Printf("  nonce %s\n", block.Header.Nonce)
		for _, tx := range block.Trans.Values() {
			fmt.Printf("  tx    %s\n", tx)
		}
	}
}
