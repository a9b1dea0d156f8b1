// Package database handles the lower level support for maintaining the
// chain in memory and validating blocks as they are accepted.
package database

import (
	"fmt"
	"sync"

	"github.com/ardanlabs/ledger/foundation/ledger/seal"
)

// Storage interface represents the behavior required to be implemented by
// any package providing support for storing and reading the chain.
type Storage interface {
	Write(blockData BlockData) error
	GetBlock(num uint64) (BlockData, error)
	ForEach() Iterator
	Close() error
	Reset() error
}

// Iterator interface represents the behavior required to be implemented by
// any package providing support to iterate over the blocks.
type Iterator interface {
	Next() (BlockData, error)
	Done() bool
}

// =============================================================================

// DatabaseIterator provides support for walking through the blocks in the
// chain store.
type DatabaseIterator struct {
	iterator Iterator
}

// Next retrieves the next block from the store.
func (di *DatabaseIterator) Next() (Block, error) {
	blockData, err := di.iterator.Next()
	if err != nil {
		return Block{}, err
	}

	return ToBlock(blockData)
}

// Done returns the end of chain value.
func (di *DatabaseIterator) Done() bool {
	return di.iterator.Done()
}

// =============================================================================

// Database manages the chain of blocks through a pluggable store. The chain
// is append only and always holds the genesis block at position zero.
type Database struct {
	mu sync.RWMutex

	difficulty  string
	latestBlock Block
	storage     Storage
	evHandler   func(v string, args ...any)
}

// New constructs a new database over the specified store. An empty store is
// seeded with the genesis block. A store that already holds blocks is
// validated front to back while loading.
func New(difficulty string, storage Storage, evHandler func(v string, args ...any)) (*Database, error) {
	if evHandler == nil {
		evHandler = func(v string, args ...any) {}
	}

	db := Database{
		difficulty: difficulty,
		storage:    storage,
		evHandler:  evHandler,
	}

	var latestBlock Block
	var loaded bool

	iter := storage.ForEach()
	for blockData, err := iter.Next(); !iter.Done(); blockData, err = iter.Next() {
		if err != nil {
			return nil, err
		}

		block, err := ToBlock(blockData)
		if err != nil {
			return nil, err
		}

		switch {
		case !loaded:
			if err := validateGenesis(blockData); err != nil {
				return nil, err
			}

		default:
			if err := block.ValidateBlock(latestBlock, difficulty, evHandler); err != nil {
				return nil, err
			}
		}

		latestBlock = block
		loaded = true
	}

	// Seed an empty store with the genesis block.
	if !loaded {
		genesis, err := Genesis()
		if err != nil {
			return nil, err
		}

		if err := storage.Write(NewBlockData(genesis)); err != nil {
			return nil, err
		}

		latestBlock = genesis
	}

	db.latestBlock = latestBlock

	return &db, nil
}

// Close closes the underlying chain store.
func (db *Database) Close() {
	db.storage.Close()
}

// Write validates the block against the current chain tip and appends it to
// the store.
func (db *Database) Write(block Block) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if err := block.ValidateBlock(db.latestBlock, db.difficulty, db.evHandler); err != nil {
		return err
	}

	if err := db.storage.Write(NewBlockData(block)); err != nil {
		return err
	}

	db.latestBlock = block

	return nil
}

// LatestBlock returns the current chain tip.
func (db *Database) LatestBlock() Block {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return db.latestBlock
}

// Height returns the number of the latest block.
func (db *Database) Height() uint64 {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return db.latestBlock.Header.Number
}

// GetBlock searches the chain store to locate and return the specified
// block by number.
func (db *Database) GetBlock(num uint64) (Block, error) {
	blockData, err := db.storage.GetBlock(num)
	if err != nil {
		return Block{}, err
	}

	return ToBlock(blockData)
}

// ForEach returns an iterator to walk through all the blocks starting with
// the genesis block.
func (db *Database) ForEach() DatabaseIterator {
	return DatabaseIterator{iterator: db.storage.ForEach()}
}

// Validate walks the chain from genesis forward and reseals every block
// from its stored fields, reporting the first mismatch found. The seal
// comparison uses each block's stored commitment, the commitment itself is
// separately checked against the recorded transactions so a mutated
// transaction is detected as well.
func (db *Database) Validate() error {
	db.mu.RLock()
	defer db.mu.RUnlock()

	var prev BlockData
	var blockNum int

	iter := db.storage.ForEach()
	for blockData, err := iter.Next(); !iter.Done(); blockData, err = iter.Next() {
		if err != nil {
			return err
		}

		db.evHandler("database: Validate: blk[%d]: check: stored hash matches sealed fields", blockData.Header.Number)

		resealed := seal.Hash(blockData.Header.PrevBlockHash, blockData.Header.TransRoot, blockData.Header.Nonce)
		if blockData.Hash != resealed {
			return fmt.Errorf("block %d: stored hash does not match sealed fields, got %s, exp %s", blockData.Header.Number, blockData.Hash, resealed)
		}

		switch blockNum {
		case 0:
			if err := validateGenesis(blockData); err != nil {
				return err
			}

		default:
			db.evHandler("database: Validate: blk[%d]: check: chain linkage", blockData.Header.Number)

			if blockData.Header.Number != prev.Header.Number+1 {
				return fmt.Errorf("block %d: number out of sequence, prev %d", blockData.Header.Number, prev.Header.Number)
			}

			if blockData.Header.PrevBlockHash != prev.Hash {
				return fmt.Errorf("block %d: prev hash does not match block %d, got %s, exp %s", blockData.Header.Number, prev.Header.Number, blockData.Header.PrevBlockHash, prev.Hash)
			}

			if !isHashSolved(db.difficulty, blockData.Hash) {
				return fmt.Errorf("block %d: hash %s does not meet difficulty target %q", blockData.Header.Number, blockData.Hash, db.difficulty)
			}

			block, err := ToBlock(blockData)
			if err != nil {
				return err
			}

			db.evHandler("database: Validate: blk[%d]: check: commitment matches transactions", blockData.Header.Number)

			if blockData.Header.TransRoot != block.Trans.RootHex() {
				return fmt.Errorf("block %d: merkle root does not match transactions, got %s, exp %s", blockData.Header.Number, block.Trans.RootHex(), blockData.Header.TransRoot)
			}
		}

		prev = blockData
		blockNum++
	}

	if blockNum == 0 {
		return fmt.Errorf("chain is empty, missing genesis block")
	}

	return nil
}

// =============================================================================

// validateGenesis checks the first block of the chain carries the fixed
// genesis markers and the matching seal.
func validateGenesis(blockData BlockData) error {
	if blockData.Header.Number != 0 {
		return fmt.Errorf("genesis block has number %d, exp 0", blockData.Header.Number)
	}

	expected := seal.Hash(seal.ZeroHash, seal.EmptyRoot, seal.ZeroNonce)
	if blockData.Hash != expected {
		return fmt.Errorf("genesis block hash does not match expected sealed form, got %s, exp %s", blockData.Hash, expected)
	}

	if len(blockData.Trans) != 0 {
		return fmt.Errorf("genesis block carries %d transactions, exp 0", len(blockData.Trans))
	}

	return nil
}
