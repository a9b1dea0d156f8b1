package state

import (
	"fmt"

	"github.com/ardanlabs/ledger/foundation/ledger/database"
	"github.com/ardanlabs/ledger/foundation/validate"
)

// SubmitTransaction validates the transfer request and appends it to the
// pending pool for the next mining operation.
func (s *State) SubmitTransaction(amount float64, from string, to string) (database.Tx, error) {
	tx := database.NewTx(amount, from, to)

	if err := validate.Check(tx); err != nil {
		return database.Tx{}, fmt.Errorf("invalid transaction: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	n := s.mempool.Append(tx)
	s.evHandler("state: SubmitTransaction: tx[%s] added to mempool: total[%d]", tx, n)

	return tx, nil
}

// PendingTransactions returns a copy of the pending pool in submission
// order.
func (s *State) PendingTransactions() []database.Tx {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.mempool.Copy()
}
