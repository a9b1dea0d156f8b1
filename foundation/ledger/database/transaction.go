package database

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Tx is the transactional information between two parties.
type Tx struct {
	ID     string  `json:"id"`
	From   string  `json:"from" validate:"required"`
	To     string  `json:"to" validate:"required"`
	Amount float64 `json:"amount" validate:"gt=0"`
}

// NewTx constructs a new transaction with a unique id. The id is a
// correlation label only, it never takes part in any digest.
func NewTx(amount float64, from string, to string) Tx {
	return Tx{
		ID:     strings.ReplaceAll(uuid.New().String(), "-", ""),
		From:   from,
		To:     to,
		Amount: amount,
	}
}

// Hash implements the merkle Hashable interface for providing a hash of a
// transaction. The id is excluded so the digest covers only the transfer
// content.
func (tx Tx) Hash() ([]byte, error) {
	content := struct {
		From   string  `json:"from"`
		To     string  `json:"to"`
		Amount float64 `json:"amount"`
	}{
		From:   tx.From,
		To:     tx.To,
		Amount: tx.Amount,
	}

	data, err := json.Marshal(content)
	if err != nil {
		return nil, err
	}

	hash := sha256.Sum256(data)
	return hash[:], nil
}

// Equals implements the merkle Hashable interface for providing an equality
// check between two transactions. Ids are unique per transaction, so they
// decide identity.
func (tx Tx) Equals(otherTx Tx) bool {
	return tx.ID == otherTx.ID
}

// String implements the fmt.Stringer interface for logging.
func (tx Tx) String() string {
	return fmt.Sprintf("%s->%s:%.2f", tx.From, tx.To, tx.Amount)
}
