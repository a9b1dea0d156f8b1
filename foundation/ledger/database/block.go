package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ardanlabs/ledger/foundation/ledger/merkle"
	"github.com/ardanlabs/ledger/foundation/ledger/seal"
)

// BlockHeader represents common information required for each block. Only
// PrevBlockHash, TransRoot and Nonce are covered by the block's seal, the
// number and timestamp are recorded but not sealed.
type BlockHeader struct {
	Number        uint64 `json:"number"`          // Position of the block in the chain.
	TimeStamp     uint64 `json:"timestamp"`       // Time the block was constructed.
	PrevBlockHash string `json:"prev_block_hash"` // Hash of the previous block in the chain.
	Nonce         string `json:"nonce"`           // Value identified to solve the hash solution.
	TransRoot     string `json:"trans_root"`      // Merkle tree root hash for the transactions in this block.
}

// Block represents a group of transactions batched together.
type Block struct {
	Header BlockHeader
	Trans  *merkle.Tree[Tx]
}

// Genesis constructs the fixed first block of a chain. It is sealed over
// the zero hash marker, the empty commitment and the zero nonce.
func Genesis() (Block, error) {
	tree, err := merkle.NewTree[Tx](nil)
	if err != nil {
		return Block{}, err
	}

	b := Block{
		Header: BlockHeader{
			Number:        0,
			TimeStamp:     uint64(time.Now().UTC().Unix()),
			PrevBlockHash: seal.ZeroHash,
			Nonce:         seal.ZeroNonce,
			TransRoot:     seal.EmptyRoot,
		},
		Trans: tree,
	}

	return b, nil
}

// POW constructs a new Block and performs the work to find a nonce that
// solves the cryptographic POW puzzle. The nonce search and the final
// header seal against the same commitment value.
func POW(ctx context.Context, difficulty string, maxAttempts uint64, prevBlock Block, trans []Tx, evHandler func(v string, args ...any)) (Block, error) {

	// Construct a merkle tree from the transactions for this block. The
	// root of this tree is the commitment the block seals against. An
	// empty transaction set commits to the empty root.
	tree, err := merkle.NewTree(trans)
	if err != nil {
		return Block{}, err
	}
	transRoot := tree.RootHex()

	prevBlockHash := prevBlock.Hash()

	nonce, err := findNonce(ctx, prevBlockHash, transRoot, difficulty, maxAttempts, evHandler)
	if err != nil {
		return Block{}, err
	}

	nb := Block{
		Header: BlockHeader{
			Number:        prevBlock.Header.Number + 1,
			TimeStamp:     uint64(time.Now().UTC().Unix()),
			PrevBlockHash: prevBlockHash,
			Nonce:         nonce,
			TransRoot:     transRoot,
		},
		Trans: tree,
	}

	return nb, nil
}

// Hash returns the unique hash for the Block, resealed from the stored
// header fields. The genesis block needs no special case, its markers seal
// the same way every other block does.
func (b Block) Hash() string {
	return seal.Hash(b.Header.PrevBlockHash, b.Header.TransRoot, b.Header.Nonce)
}

// ValidateBlock takes a block and validates it to be included into the
// chain after the specified previous block.
func (b Block) ValidateBlock(previousBlock Block, difficulty string, evHandler func(v string, args ...any)) error {
	evHandler("database: ValidateBlock: blk[%d]: check: block hash has been solved", b.Header.Number)

	hash := b.Hash()
	if !isHashSolved(difficulty, hash) {
		return fmt.Errorf("block %d: hash %s does not meet difficulty target %q", b.Header.Number, hash, difficulty)
	}

	evHandler("database: ValidateBlock: blk[%d]: check: block number is the next number", b.Header.Number)

	nextNumber := previousBlock.Header.Number + 1
	if b.Header.Number != nextNumber {
		return fmt.Errorf("block %d: this block is not the next number, exp %d", b.Header.Number, nextNumber)
	}

	evHandler("database: ValidateBlock: blk[%d]: check: prev hash does match prev block", b.Header.Number)

	if b.Header.PrevBlockHash != previousBlock.Hash() {
		return fmt.Errorf("block %d: prev block hash doesn't match our known prev, got %s, exp %s", b.Header.Number, b.Header.PrevBlockHash, previousBlock.Hash())
	}

	evHandler("database: ValidateBlock: blk[%d]: check: merkle root does match transactions", b.Header.Number)

	if b.Header.TransRoot != b.Trans.RootHex() {
		return fmt.Errorf("block %d: merkle root does not match transactions, got %s, exp %s", b.Header.Number, b.Trans.RootHex(), b.Header.TransRoot)
	}

	if err := b.Trans.Verify(); err != nil {
		return fmt.Errorf("block %d: merkle tree verification failed: %w", b.Header.Number, err)
	}

	return nil
}

// isHashSolved checks the hash to make sure it complies with the POW rules.
// The difficulty is a string of zero characters the hash must carry as its
// prefix.
func isHashSolved(difficulty string, hash string) bool {
	if len(hash) != seal.HashLen {
		return false
	}

	return strings.HasPrefix(hash, difficulty)
}

// =============================================================================

// BlockData represents what is written into the chain store. The hash is
// captured at write time so validation can compare a reseal of the header
// fields against what was originally stored.
type BlockData struct {
	Hash   string      `json:"hash"`
	Header BlockHeader `json:"block"`
	Trans  []Tx        `json:"trans"`
}

// NewBlockData constructs the value to store for a block.
func NewBlockData(block Block) BlockData {
	blockData := BlockData{
		Hash:   block.Hash(),
		Header: block.Header,
		Trans:  block.Trans.Values(),
	}

	return blockData
}

// ToBlock converts a BlockData into a Block by rebuilding the merkle tree
// from the recorded transactions.
func ToBlock(blockData BlockData) (Block, error) {
	tree, err := merkle.NewTree(blockData.Trans)
	if err != nil {
		return Block{}, err
	}

	nb := Block{
		Header: blockData.Header,
		Trans:  tree,
	}

	return nb, nil
}
