package database

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"

	"github.com/ardanlabs/ledger/foundation/ledger/seal"
)

// nonceBytes is the number of random bytes drawn for each candidate nonce.
// Candidates render as fixed width hex, twice this many characters.
const nonceBytes = 8

// ErrNonceExhausted is returned from the nonce search when the configured
// attempt cap is reached before a qualifying nonce is found.
var ErrNonceExhausted = errors.New("nonce search exhausted the attempt cap")

// findNonce performs the proof of work search. It repeatedly draws a random
// candidate nonce and accepts the first one whose seal over the previous
// block hash and the transaction commitment carries the difficulty prefix.
// The expected number of attempts is geometric in the difficulty length.
// The search runs as a flat loop so an unlucky run cannot grow the call
// stack. A maxAttempts of 0 means the search is unbounded, the reference
// behavior. Cancelling the context aborts the search with the context's
// error, a non-satisfying nonce is never returned.
func findNonce(ctx context.Context, prevBlockHash string, transRoot string, difficulty string, maxAttempts uint64, evHandler func(v string, args ...any)) (string, error) {
	evHandler("database: findNonce: search: started: difficulty[%s]", difficulty)
	defer evHandler("database: findNonce: search: completed")

	buf := make([]byte, nonceBytes)

	var attempts uint64
	for {
		attempts++
		if attempts%1_000_000 == 0 {
			evHandler("database: findNonce: search: attempts[%d]", attempts)
		}

		if ctx.Err() != nil {
			evHandler("database: findNonce: search: CANCELLED")
			return "", ctx.Err()
		}

		if maxAttempts != 0 && attempts > maxAttempts {
			return "", ErrNonceExhausted
		}

		if _, err := rand.Read(buf); err != nil {
			return "", err
		}
		nonce := hex.EncodeToString(buf)

		hash := seal.Hash(prevBlockHash, transRoot, nonce)
		if !isHashSolved(difficulty, hash) {
			continue
		}

		evHandler("database: findNonce: search: SOLVED: attempts[%d]: hash[%s]", attempts, hash)

		return nonce, nil
	}
}
