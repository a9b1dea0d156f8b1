package database_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ardanlabs/ledger/foundation/ledger/database"
	"github.com/ardanlabs/ledger/foundation/ledger/seal"
	"github.com/ardanlabs/ledger/foundation/ledger/storage/memory"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

// noEvents keeps the engine quiet during tests.
func noEvents(v string, args ...any) {}

// =============================================================================

func Test_Genesis(t *testing.T) {
	t.Log("Given the need to validate a freshly constructed chain.")
	{
		strg, err := memory.New()
		if err != nil {
			t.Fatalf("\t%s\tShould be able to create the chain store: %v", failed, err)
		}
		t.Logf("\t%s\tShould be able to create the chain store.", success)

		db, err := database.New("0", strg, noEvents)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to construct the database: %v", failed, err)
		}
		t.Logf("\t%s\tShould be able to construct the database.", success)

		latest := db.LatestBlock()
		if latest.Header.Number != 0 {
			t.Errorf("\t%s\tShould hold the genesis block at the tip: got %d", failed, latest.Header.Number)
		} else {
			t.Logf("\t%s\tShould hold the genesis block at the tip.", success)
		}

		exp := seal.Hash(seal.ZeroHash, seal.EmptyRoot, seal.ZeroNonce)
		if latest.Hash() != exp {
			t.Errorf("\t%s\tShould seal genesis over the fixed markers: got %s, exp %s", failed, latest.Hash(), exp)
		} else {
			t.Logf("\t%s\tShould seal genesis over the fixed markers.", success)
		}

		if err := db.Validate(); err != nil {
			t.Errorf("\t%s\tShould report a genesis only chain valid: %v", failed, err)
		} else {
			t.Logf("\t%s\tShould report a genesis only chain valid.", success)
		}
	}
}

func Test_POW(t *testing.T) {
	t.Log("Given the need to mine a block with a qualifying nonce.")
	{
		const difficulty = "0"

		strg, err := memory.New()
		if err != nil {
			t.Fatalf("\t%s\tShould be able to create the chain store: %v", failed, err)
		}

		db, err := database.New(difficulty, strg, noEvents)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to construct the database: %v", failed, err)
		}

		trans := []database.Tx{
			database.NewTx(10, "kennedy", "pavel"),
			database.NewTx(25.5, "pavel", "jolie"),
			database.NewTx(5, "jolie", "kennedy"),
		}

		block, err := database.POW(context.Background(), difficulty, 0, db.LatestBlock(), trans, noEvents)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to perform the POW: %v", failed, err)
		}
		t.Logf("\t%s\tShould be able to perform the POW.", success)

		if !strings.HasPrefix(block.Hash(), difficulty) {
			t.Errorf("\t%s\tShould produce a hash carrying the difficulty prefix: got %s", failed, block.Hash())
		} else {
			t.Logf("\t%s\tShould produce a hash carrying the difficulty prefix.", success)
		}

		if block.Header.Number != 1 {
			t.Errorf("\t%s\tShould number the block after the chain tip: got %d", failed, block.Header.Number)
		} else {
			t.Logf("\t%s\tShould number the block after the chain tip.", success)
		}

		if block.Header.PrevBlockHash != db.LatestBlock().Hash() {
			t.Errorf("\t%s\tShould link the block to the chain tip.", failed)
		} else {
			t.Logf("\t%s\tShould link the block to the chain tip.", success)
		}

		if err := db.Write(block); err != nil {
			t.Fatalf("\t%s\tShould be able to write the block: %v", failed, err)
		}
		t.Logf("\t%s\tShould be able to write the block.", success)

		if err := db.Validate(); err != nil {
			t.Errorf("\t%s\tShould report the chain valid after the write: %v", failed, err)
		} else {
			t.Logf("\t%s\tShould report the chain valid after the write.", success)
		}
	}
}

func Test_EmptyPoolBlock(t *testing.T) {
	t.Log("Given the need to mine a block with no transactions.")
	{
		const difficulty = "0"

		strg, err := memory.New()
		if err != nil {
			t.Fatalf("\t%s\tShould be able to create the chain store: %v", failed, err)
		}

		db, err := database.New(difficulty, strg, noEvents)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to construct the database: %v", failed, err)
		}

		block, err := database.POW(context.Background(), difficulty, 0, db.LatestBlock(), nil, noEvents)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to perform the POW: %v", failed, err)
		}
		t.Logf("\t%s\tShould be able to perform the POW.", success)

		if block.Header.TransRoot != seal.EmptyRoot {
			t.Errorf("\t%s\tShould commit to the empty root marker: got %q", failed, block.Header.TransRoot)
		} else {
			t.Logf("\t%s\tShould commit to the empty root marker.", success)
		}

		if !strings.HasPrefix(block.Hash(), difficulty) {
			t.Errorf("\t%s\tShould still satisfy the difficulty prefix: got %s", failed, block.Hash())
		} else {
			t.Logf("\t%s\tShould still satisfy the difficulty prefix.", success)
		}

		if err := db.Write(block); err != nil {
			t.Errorf("\t%s\tShould be able to write the block: %v", failed, err)
		} else {
			t.Logf("\t%s\tShould be able to write the block.", success)
		}
	}
}

func Test_NonceExhaustion(t *testing.T) {
	t.Log("Given the need to cap the nonce search.")
	{
		// A difficulty the full width of the digest cannot be met inside
		// the attempt cap.
		difficulty := strings.Repeat("0", seal.HashLen)

		strg, err := memory.New()
		if err != nil {
			t.Fatalf("\t%s\tShould be able to create the chain store: %v", failed, err)
		}

		db, err := database.New(difficulty, strg, noEvents)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to construct the database: %v", failed, err)
		}

		_, err = database.POW(context.Background(), difficulty, 25, db.LatestBlock(), nil, noEvents)
		if !errors.Is(err, database.ErrNonceExhausted) {
			t.Fatalf("\t%s\tShould fail with the exhaustion error: got %v", failed, err)
		}
		t.Logf("\t%s\tShould fail with the exhaustion error.", success)
	}
}

func Test_SearchCancel(t *testing.T) {
	t.Log("Given the need to abort a nonce search.")
	{
		difficulty := strings.Repeat("0", seal.HashLen)

		strg, err := memory.New()
		if err != nil {
			t.Fatalf("\t%s\tShould be able to create the chain store: %v", failed, err)
		}

		db, err := database.New(difficulty, strg, noEvents)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to construct the database: %v", failed, err)
		}

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err = database.POW(ctx, difficulty, 0, db.LatestBlock(), nil, noEvents)
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("\t%s\tShould surface the context error, not a bad nonce: got %v", failed, err)
		}
		t.Logf("\t%s\tShould surface the context error, not a bad nonce.", success)
	}
}

func Test_TamperDetection(t *testing.T) {
	t.Log("Given the need to detect a mutated block after it was appended.")
	{
		const difficulty = "0"

		strg, err := memory.New()
		if err != nil {
			t.Fatalf("\t%s\tShould be able to create the chain store: %v", failed, err)
		}

		db, err := database.New(difficulty, strg, noEvents)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to construct the database: %v", failed, err)
		}

		trans := []database.Tx{database.NewTx(10, "kennedy", "pavel")}

		block, err := database.POW(context.Background(), difficulty, 0, db.LatestBlock(), trans, noEvents)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to perform the POW: %v", failed, err)
		}

		if err := db.Write(block); err != nil {
			t.Fatalf("\t%s\tShould be able to write the block: %v", failed, err)
		}
		t.Logf("\t%s\tShould be able to write the block.", success)

		if err := db.Validate(); err != nil {
			t.Fatalf("\t%s\tShould report the chain valid before tampering: %v", failed, err)
		}
		t.Logf("\t%s\tShould report the chain valid before tampering.", success)

		// The store hands back a view over its own transaction slice, so
		// this mutation reaches the recorded block without any reseal.
		blockData, err := strg.GetBlock(1)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to read the block back: %v", failed, err)
		}
		blockData.Trans[0].Amount += 1_000_000

		if err := db.Validate(); err == nil {
			t.Fatalf("\t%s\tShould report the chain invalid after tampering.", failed)
		}
		t.Logf("\t%s\tShould report the chain invalid after tampering.", success)
	}
}
