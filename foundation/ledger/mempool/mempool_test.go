package mempool_test

import (
	"testing"

	"github.com/ardanlabs/ledger/foundation/ledger/database"
	"github.com/ardanlabs/ledger/foundation/ledger/mempool"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

func TestCRUD(t *testing.T) {
	txs := []database.Tx{
		database.NewTx(10, "kennedy", "pavel"),
		database.NewTx(25.5, "pavel", "jolie"),
		database.NewTx(5, "jolie", "kennedy"),
	}

	t.Log("Given the need to validate the mempool api.")
	{
		mp := mempool.New()

		for i, tx := range txs {
			if n := mp.Append(tx); n != i+1 {
				t.Fatalf("\t%s\tShould report %d transactions after append: got %d", failed, i+1, n)
			}
		}
		t.Logf("\t%s\tShould be able to append transactions.", success)

		if mp.Count() != len(txs) {
			t.Errorf("\t%s\tShould count all appended transactions: got %d", failed, mp.Count())
		} else {
			t.Logf("\t%s\tShould count all appended transactions.", success)
		}

		cpy := mp.Copy()
		for i := range txs {
			if !cpy[i].Equals(txs[i]) {
				t.Fatalf("\t%s\tShould keep transactions in submission order.", failed)
			}
		}
		t.Logf("\t%s\tShould keep transactions in submission order.", success)

		// A copy must not alias the pool.
		cpy[0] = database.NewTx(99, "nobody", "noone")
		if !mp.Copy()[0].Equals(txs[0]) {
			t.Errorf("\t%s\tShould hand out copies, not the pool itself.", failed)
		} else {
			t.Logf("\t%s\tShould hand out copies, not the pool itself.", success)
		}

		mp.Truncate()
		if mp.Count() != 0 {
			t.Errorf("\t%s\tShould be empty after truncate: got %d", failed, mp.Count())
		} else {
			t.Logf("\t%s\tShould be empty after truncate.", success)
		}
	}
}
