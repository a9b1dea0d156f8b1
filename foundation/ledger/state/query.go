package state

import (
	"github.com/ardanlabs/ledger/foundation/ledger/database"
)

// LatestBlock returns the current chain tip.
func (s *State) LatestBlock() database.Block {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.db.LatestBlock()
}

// Height returns the number of the latest block.
func (s *State) Height() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.db.Height()
}

// GetBlock returns the specified block by number.
func (s *State) GetBlock(num uint64) (database.Block, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.db.GetBlock(num)
}

// Chain returns the full chain of blocks starting with genesis.
func (s *State) Chain() ([]database.Block, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var blocks []database.Block

	iter := s.db.ForEach()
	for block, err := iter.Next(); !iter.Done(); block, err = iter.Next() {
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, block)
	}

	return blocks, nil
}

// MempoolCount returns the current number of pending transactions.
func (s *State) MempoolCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.mempool.Count()
}
