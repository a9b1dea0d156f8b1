package state

import (
	"context"

	"github.com/ardanlabs/ledger/foundation/ledger/database"
)

// MineNewBlock assembles the pending pool into a new block with a proper
// hash that becomes the next block in the chain. An empty pool is allowed,
// the block then commits to the empty root. The pool is cleared only after
// the block has been accepted into the chain.
func (s *State) MineNewBlock(ctx context.Context) (database.Block, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.evHandler("state: MineNewBlock: MINING: pick pending transactions")

	trans := s.mempool.Copy()

	s.evHandler("state: MineNewBlock: MINING: perform POW: trans[%d]", len(trans))

	block, err := database.POW(ctx, s.difficulty, s.maxAttempts, s.db.LatestBlock(), trans, s.evHandler)
	if err != nil {
		return database.Block{}, err
	}

	// Just check one more time we were not cancelled.
	if ctx.Err() != nil {
		return database.Block{}, ctx.Err()
	}

	s.evHandler("state: MineNewBlock: MINING: update local state")

	if err := s.db.Write(block); err != nil {
		return database.Block{}, err
	}

	s.mempool.Truncate()

	return block, nil
}
