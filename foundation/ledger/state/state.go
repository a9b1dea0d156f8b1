// Package state is the core API for the ledger and implements all the
// business rules and processing.
package state

import (
	"fmt"
	"strings"
	"sync"

	"github.com/ardanlabs/ledger/foundation/ledger/database"
	"github.com/ardanlabs/ledger/foundation/ledger/mempool"
)

// defaultDifficulty is the prefix of zero characters a sealed block hash
// must carry when the configuration does not specify one.
const defaultDifficulty = "000"

// EventHandler defines a function that is called when events occur in the
// processing of blocks.
type EventHandler func(v string, args ...any)

// =============================================================================

// Config represents the configuration required to start the chain.
type Config struct {
	Difficulty  string
	MaxAttempts uint64
	Storage     database.Storage
	EvHandler   EventHandler
}

// State manages the chain of blocks and the pending transaction pool. A
// State value is an exclusively owned resource. Every operation takes the
// state mutex so submission, mining and validation against one instance
// are serialized.
type State struct {
	mu sync.Mutex

	difficulty  string
	maxAttempts uint64
	evHandler   EventHandler

	db      *database.Database
	mempool *mempool.Mempool
}

// New constructs a new chain with a genesis block and an empty pending
// pool. The difficulty is fixed for the life of the instance.
func New(cfg Config) (*State, error) {

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	difficulty := cfg.Difficulty
	if difficulty == "" {
		difficulty = defaultDifficulty
	}
	if !isDifficultyTarget(difficulty) {
		return nil, fmt.Errorf("difficulty %q is not a string of zero characters", difficulty)
	}

	db, err := database.New(difficulty, cfg.Storage, ev)
	if err != nil {
		return nil, err
	}

	state := State{
		difficulty:  difficulty,
		maxAttempts: cfg.MaxAttempts,
		evHandler:   ev,

		db:      db,
		mempool: mempool.New(),
	}

	return &state, nil
}

// Shutdown cleanly brings the chain down.
func (s *State) Shutdown() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.db.Close()

	return nil
}

// Difficulty returns the difficulty target the chain was constructed with.
func (s *State) Difficulty() string {
	return s.difficulty
}

// =============================================================================

// isDifficultyTarget reports whether the specified difficulty is a string
// of zero characters, the only form the prefix check supports.
func isDifficultyTarget(difficulty string) bool {
	return strings.Count(difficulty, "0") == len(difficulty)
}
