package selector_test

import (
	"testing"

	"github.com/ardanlabs/ledger/foundation/ledger/database"
	"github.com/ardanlabs/ledger/foundation/ledger/mempool/selector"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

func newTx(t *testing.T, txID string, to database.AccountID, timeStamp uint64, fee uint64) database.BlockTx {
	t.Helper()

	tx, err := database.NewTx(
		[]database.OutPoint{{TxID: txID, Index: 0}},
		[]database.TxOut{{AccountID: to, Value: 100}},
	)
	if err != nil {
		t.Fatalf("\t%s\tShould be able to construct a transaction: %v", failed, err)
	}

	return database.BlockTx{Tx: tx, TimeStamp: timeStamp, Fee: fee}
}

func pool(txs []database.BlockTx) map[string]database.BlockTx {
	p := make(map[string]database.BlockTx)
	for _, tx := range txs {
		p[tx.Tx.Hash()] = tx
	}
	return p
}

func TestFeeSort(t *testing.T) {
	txs := []database.BlockTx{
		newTx(t, "0xaa", "bill", 4, 10),
		newTx(t, "0xbb", "pavel", 3, 50),
		newTx(t, "0xcc", "edward", 2, 100),
		newTx(t, "0xdd", "kennedy", 1, 25),
	}
	exp := []database.AccountID{"edward", "pavel", "kennedy"}

	t.Log("Given the need to pick the transactions paying the highest fee.")
	{
		fn, err := selector.Retrieve(selector.StrategyFee)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to retrieve the fee strategy: %v", failed, err)
		}
		t.Logf("\t%s\tShould be able to retrieve the fee strategy.", success)

		picked := fn(pool(txs), 3)
		if len(picked) != 3 {
			t.Fatalf("\t%s\tShould pick 3 transactions, got %d.", failed, len(picked))
		}
		t.Logf("\t%s\tShould pick 3 transactions.", success)

		for i, tx := range picked {
			if tx.Outputs[0].AccountID != exp[i] {
				t.Logf("\t%s\tgot: %s", failed, tx.Outputs[0].AccountID)
				t.Logf("\t%s\texp: %s", failed, exp[i])
				t.Fatalf("\t%s\tShould pick the transactions in fee order.", failed)
			}
		}
		t.Logf("\t%s\tShould pick the transactions in fee order.", success)

		if picked := fn(pool(txs), -1); len(picked) != len(txs) {
			t.Fatalf("\t%s\tShould pick every transaction for -1, got %d.", failed, len(picked))
		}
		t.Logf("\t%s\tShould pick every transaction for -1.", success)
	}
}

func TestOldestSort(t *testing.T) {
	txs := []database.BlockTx{
		newTx(t, "0xaa", "bill", 40, 10),
		newTx(t, "0xbb", "pavel", 30, 50),
		newTx(t, "0xcc", "edward", 20, 100),
		newTx(t, "0xdd", "kennedy", 10, 25),
	}
	exp := []database.AccountID{"kennedy", "edward", "pavel"}

	t.Log("Given the need to pick the transactions waiting the longest.")
	{
		fn, err := selector.Retrieve(selector.StrategyOldest)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to retrieve the oldest strategy: %v", failed, err)
		}
		t.Logf("\t%s\tShould be able to retrieve the oldest strategy.", success)

		picked := fn(pool(txs), 3)
		if len(picked) != 3 {
			t.Fatalf("\t%s\tShould pick 3 transactions, got %d.", failed, len(picked))
		}
		t.Logf("\t%s\tShould pick 3 transactions.", success)

		for i, tx := range picked {
			if tx.Outputs[0].AccountID != exp[i] {
				t.Logf("\t%s\tgot: %s", failed, tx.Outputs[0].AccountID)
				t.Logf("\t%s\texp: %s", failed, exp[i])
				t.Fatalf("\t%s\tShould pick the transactions in admission order.", failed)
			}
		}
		t.Logf("\t%s\tShould pick the transactions in admission order.", success)
	}
}
