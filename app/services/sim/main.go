// This program runs the ledger simulator. It generates random transaction
// traffic, mines the pending pool into blocks and validates the resulting
// chain.
package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/ardanlabs/conf/v3"
	"github.com/ardanlabs/ledger/foundation/events"
	"github.com/ardanlabs/ledger/foundation/ledger/state"
	"github.com/ardanlabs/ledger/foundation/ledger/storage/memory"
	"github.com/ardanlabs/ledger/foundation/logger"
	"go.uber.org/zap"
)

// build is the git version of this program. It is set using build flags in the makefile.
var build = "develop"

func main() {

	// Construct the application logger.
	log, err := logger.New("SIM")
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer log.Sync()

	// Perform the startup and shutdown sequence.
	if err := run(log); err != nil {
		log.Errorw("startup", "ERROR", err)
		log.Sync()
		os.Exit(1)
	}
}

func run(log *zap.SugaredLogger) error {

	// =========================================================================
	// Configuration

	cfg := struct {
		conf.Version
		Chain struct {
			Difficulty  string `conf:"default:000"`
			MaxAttempts uint64 `conf:"default:0"`
		}
		Traffic struct {
			Blocks        int      `conf:"default:5"`
			TransPerBlock int      `conf:"default:4"`
			Accounts      []string `conf:"default:kennedy;pavel;ceasar;baba;jolie"`
			Seed          int64    `conf:"default:0"`
		}
	}{
		Version: conf.Version{
			Build: build,
			Desc:  "copyright information here",
		},
	}

	const prefix = "SIM"
	help, err := conf.Parse(prefix, &cfg)
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			fmt.Println(help)
			return nil
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	// =========================================================================
	// App Starting

	log.Infow("starting simulator", "version", build)
	defer log.Infow("shutdown complete")

	out, err := conf.String(&cfg)
	if err != nil {
		return fmt.Errorf("generating config for output: %w", err)
	}
	log.Infow("startup", "config", out)

	// =========================================================================
	// Engine Support

	// Mining progress events are fanned out so the milestone printer below
	// can follow the nonce search without coupling to the logger.
	evts := events.New()
	defer evts.Shutdown()

	ev := func(v string, args ...any) {
		s := fmt.Sprintf(v, args...)
		log.Infow(s)
		if strings.Contains(s, "SOLVED") || strings.Contains(s, "attempts") {
			evts.Send(s)
		}
	}

	milestones := evts.Acquire("milestones")
	go func() {
		for s := range milestones {
			log.Infow("milestone", "event", s)
		}
	}()

	strg, err := memory.New()
	if err != nil {
		return fmt.Errorf("creating chain store: %w", err)
	}

	st, err := state.New(state.Config{
		Difficulty:  cfg.Chain.Difficulty,
		MaxAttempts: cfg.Chain.MaxAttempts,
		Storage:     strg,
		EvHandler:   ev,
	})
	if err != nil {
		return fmt.Errorf("creating chain: %w", err)
	}
	defer st.Shutdown()

	// The nonce search has no upper bound by default, so let an interrupt
	// cancel a mining operation that is taking too long.
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// =========================================================================
	// Traffic

	seed := cfg.Traffic.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	accounts := cfg.Traffic.Accounts
	if len(accounts) < 2 {
		return fmt.Errorf("need at least 2 accounts, have %d", len(accounts))
	}

	for b := 0; b < cfg.Traffic.Blocks; b++ {
		for t := 0; t < cfg.Traffic.TransPerBlock; t++ {
			from := accounts[rng.Intn(len(accounts))]
			to := accounts[rng.Intn(len(accounts))]
			for to == from {
				to = accounts[rng.Intn(len(accounts))]
			}
			amount := float64(rng.Intn(10_000)+1) / 100

			tx, err := st.SubmitTransaction(amount, from, to)
			if err != nil {
				return fmt.Errorf("submitting transaction: %w", err)
			}
			log.Infow("submitted", "tx", tx.ID, "from", tx.From, "to", tx.To, "amount", tx.Amount)
		}

		block, err := st.MineNewBlock(ctx)
		if err != nil {
			return fmt.Errorf("mining block: %w", err)
		}
		log.Infow("mined", "block", block.Header.Number, "hash", block.Hash(), "trans", len(block.Trans.Values()))
	}

	// =========================================================================
	// Validation

	if err := st.Validate(); err != nil {
		return fmt.Errorf("chain validation: %w", err)
	}
	log.Infow("chain valid", "height", st.Height())

	blocks, err := st.Chain()
	if err != nil {
		return fmt.Errorf("reading chain: %w", err)
	}

	for _, block := range blocks {
		log.Infow("block",
			"number", block.Header.Number,
			"hash", block.Hash(),
			"prev", block.Header.PrevBlockHash,
			"root", block.Header.TransRoot,
			"nonce", block.Header.Nonce,
			"trans", len(block.Trans.Values()),
		)
	}

	return nil
}
