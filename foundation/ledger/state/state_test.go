package state_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ardanlabs/ledger/foundation/ledger/database"
	"github.com/ardanlabs/ledger/foundation/ledger/genesis"
	"github.com/ardanlabs/ledger/foundation/ledger/state"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

// The test accounts.
const (
	miner database.AccountID = "miner1"
	bob   database.AccountID = "bob"
	carol database.AccountID = "carol"
)

func ifErrFailNow(t *testing.T, err error) {
	t.Helper()

	if err != nil {
		t.Error(err)
		t.FailNow()
	}
}

// newState constructs a ledger with a mined genesis block and a difficulty
// every hash satisfies so the tests don't spend time mining.
func newState(t *testing.T) (*state.State, genesis.Genesis) {
	t.Helper()

	gen := genesis.Genesis{
		ChainID:       1,
		TransPerBlock: 10,
		Difficulty:    ^uint64(0),
		MiningReward:  700,
	}

	st, err := state.New(state.Config{
		BeneficiaryID:  miner,
		Genesis:        gen,
		SelectStrategy: "fee",
	})
	ifErrFailNow(t, err)

	_, err = st.MineGenesisBlock(context.Background())
	ifErrFailNow(t, err)

	return st, gen
}

// latestCoinbaseOutPoint returns the outpoint of the coinbase output in the
// latest block.
func latestCoinbaseOutPoint(st *state.State) database.OutPoint {
	cb := st.LatestBlock().Trans.Values()[0]
	return database.OutPoint{TxID: cb.Tx.Hash(), Index: 0}
}

// =============================================================================

func Test_SubmitAndMine(t *testing.T) {
	t.Log("Given the need to move submitted transactions into a mined block.")
	{
		st, gen := newState(t)
		defer st.Shutdown()

		if h := st.Height(); h != 1 {
			t.Fatalf("\t%s\tShould have a mined genesis block, got height %d.", failed, h)
		}
		t.Logf("\t%s\tShould have a mined genesis block.", success)

		if bal := st.Balance(miner); bal != gen.MiningReward {
			t.Fatalf("\t%s\tShould credit the miner the genesis reward, got %d.", failed, bal)
		}
		t.Logf("\t%s\tShould credit the miner the genesis reward.", success)

		// Spend the 700 genesis output: 300 to bob, 390 back to the
		// miner, 10 left over as the fee.
		tx, err := database.NewTx(
			[]database.OutPoint{latestCoinbaseOutPoint(st)},
			[]database.TxOut{
				{AccountID: bob, Value: 300},
				{AccountID: miner, Value: 390},
			},
		)
		ifErrFailNow(t, err)

		if err := st.SubmitTransaction(tx); err != nil {
			t.Fatalf("\t%s\tShould be able to submit the transaction: %v", failed, err)
		}
		t.Logf("\t%s\tShould be able to submit the transaction.", success)

		if l := st.MempoolLength(); l != 1 {
			t.Fatalf("\t%s\tShould have 1 transaction in the mempool, got %d.", failed, l)
		}
		t.Logf("\t%s\tShould have 1 transaction in the mempool.", success)

		block, err := st.MineNewBlock(context.Background())
		if err != nil {
			t.Fatalf("\t%s\tShould be able to mine a new block: %v", failed, err)
		}
		t.Logf("\t%s\tShould be able to mine a new block.", success)

		if l := len(block.Trans.Values()); l != 2 {
			t.Fatalf("\t%s\tShould have the coinbase and the transaction in the block, got %d.", failed, l)
		}
		t.Logf("\t%s\tShould have the coinbase and the transaction in the block.", success)

		if h := st.Height(); h != 2 {
			t.Fatalf("\t%s\tShould have a chain of height 2, got %d.", failed, h)
		}
		t.Logf("\t%s\tShould have a chain of height 2.", success)

		if l := st.MempoolLength(); l != 0 {
			t.Fatalf("\t%s\tShould have an empty mempool after mining, got %d.", failed, l)
		}
		t.Logf("\t%s\tShould have an empty mempool after mining.", success)

		if bal := st.Balance(bob); bal != 300 {
			t.Fatalf("\t%s\tShould have the right balance for bob, got %d.", failed, bal)
		}
		t.Logf("\t%s\tShould have the right balance for bob.", success)

		// The miner keeps the change plus a fresh reward plus the fee.
		minerExp := uint64(390) + gen.MiningReward + 10
		if bal := st.Balance(miner); bal != minerExp {
			t.Fatalf("\t%s\tShould have the right balance for the miner, got %d exp %d.", failed, bal, minerExp)
		}
		t.Logf("\t%s\tShould have the right balance for the miner.", success)

		if blocks := st.QueryBlocksByAccount(bob); len(blocks) != 1 {
			t.Fatalf("\t%s\tShould find 1 block paying bob, got %d.", failed, len(blocks))
		}
		t.Logf("\t%s\tShould find 1 block paying bob.", success)
	}
}

func Test_SubmitValidation(t *testing.T) {
	t.Log("Given the need to reject bad transactions at submission.")
	{
		st, gen := newState(t)
		defer st.Shutdown()

		t.Logf("\tTest 0:\tWhen the transaction consumes an unknown output.")
		{
			tx, err := database.NewTx(
				[]database.OutPoint{{TxID: "0xdeadbeef", Index: 0}},
				[]database.TxOut{{AccountID: bob, Value: 1}},
			)
			ifErrFailNow(t, err)

			if err := st.SubmitTransaction(tx); !errors.Is(err, database.ErrUnknownInput) {
				t.Fatalf("\t%s\tTest 0:\tShould reject the unknown input: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould reject the unknown input.", success)
		}

		t.Logf("\tTest 1:\tWhen the transaction produces more value than it consumes.")
		{
			tx, err := database.NewTx(
				[]database.OutPoint{latestCoinbaseOutPoint(st)},
				[]database.TxOut{{AccountID: bob, Value: gen.MiningReward + 1}},
			)
			ifErrFailNow(t, err)

			if err := st.SubmitTransaction(tx); !errors.Is(err, database.ErrValueConservation) {
				t.Fatalf("\t%s\tTest 1:\tShould reject the value inflation: %v", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould reject the value inflation.", success)
		}

		t.Logf("\tTest 2:\tWhen the transaction is a coinbase.")
		{
			tx, err := database.NewCoinbaseTx(9, []database.TxOut{{AccountID: bob, Value: 1}})
			ifErrFailNow(t, err)

			if err := st.SubmitTransaction(tx); err == nil {
				t.Fatalf("\t%s\tTest 2:\tShould reject a submitted coinbase.", failed)
			}
			t.Logf("\t%s\tTest 2:\tShould reject a submitted coinbase.", success)
		}

		t.Logf("\tTest 3:\tWhen the transaction's output total wraps uint64.")
		{
			huge := uint64(1) << 63
			tx, err := database.NewTx(
				[]database.OutPoint{latestCoinbaseOutPoint(st)},
				[]database.TxOut{
					{AccountID: bob, Value: huge},
					{AccountID: bob, Value: huge},
				},
			)
			ifErrFailNow(t, err)

			if err := st.SubmitTransaction(tx); !errors.Is(err, database.ErrValueConservation) {
				t.Fatalf("\t%s\tTest 3:\tShould reject the wrapping output total: %v", failed, err)
			}
			t.Logf("\t%s\tTest 3:\tShould reject the wrapping output total.", success)
		}
	}
}

func Test_ConflictingTransactions(t *testing.T) {
	t.Log("Given the need to settle transactions that spend the same output.")
	{
		st, gen := newState(t)
		defer st.Shutdown()

		op := latestCoinbaseOutPoint(st)

		// Both transactions are admitted, outputs are not reserved at
		// submission. The conflict settles when a block is built.
		tx1, err := database.NewTx(
			[]database.OutPoint{op},
			[]database.TxOut{{AccountID: bob, Value: gen.MiningReward - 50}},
		)
		ifErrFailNow(t, err)
		ifErrFailNow(t, st.SubmitTransaction(tx1))

		tx2, err := database.NewTx(
			[]database.OutPoint{op},
			[]database.TxOut{{AccountID: carol, Value: gen.MiningReward - 10}},
		)
		ifErrFailNow(t, err)
		ifErrFailNow(t, st.SubmitTransaction(tx2))

		if l := st.MempoolLength(); l != 2 {
			t.Fatalf("\t%s\tShould admit both transactions, got %d.", failed, l)
		}
		t.Logf("\t%s\tShould admit both transactions.", success)

		block, err := st.MineNewBlock(context.Background())
		if err != nil {
			t.Fatalf("\t%s\tShould be able to mine a new block: %v", failed, err)
		}
		t.Logf("\t%s\tShould be able to mine a new block.", success)

		// The higher fee transaction wins, the loser is evicted.
		if l := len(block.Trans.Values()); l != 2 {
			t.Fatalf("\t%s\tShould only include one of the conflicting transactions, got %d txs.", failed, l)
		}
		t.Logf("\t%s\tShould only include one of the conflicting transactions.", success)

		if bal := st.Balance(bob); bal != gen.MiningReward-50 {
			t.Fatalf("\t%s\tShould have the higher fee transaction win, bob got %d.", failed, bal)
		}
		if bal := st.Balance(carol); bal != 0 {
			t.Fatalf("\t%s\tShould have the higher fee transaction win, carol got %d.", failed, bal)
		}
		t.Logf("\t%s\tShould have the higher fee transaction win.", success)

		if l := st.MempoolLength(); l != 0 {
			t.Fatalf("\t%s\tShould evict the losing transaction, got %d.", failed, l)
		}
		t.Logf("\t%s\tShould evict the losing transaction.", success)
	}
}

func Test_ProcessProposedBlock(t *testing.T) {
	t.Log("Given the need to accept a block mined by another node.")
	{
		st, gen := newState(t)
		defer st.Shutdown()

		latest := st.LatestBlock()

		coinbase, err := database.NewCoinbaseTx(1, []database.TxOut{
			{AccountID: carol, Value: gen.MiningReward},
		})
		ifErrFailNow(t, err)

		block, err := database.POW(context.Background(), database.POWArgs{
			Number:        1,
			PrevBlockHash: latest.Hash(),
			Difficulty:    gen.Difficulty,
			Trans:         []database.BlockTx{database.NewBlockTx(coinbase, 0)},
			EvHandler:     func(v string, args ...any) {},
		})
		ifErrFailNow(t, err)

		if err := st.ProcessProposedBlock(block); err != nil {
			t.Fatalf("\t%s\tShould be able to accept the proposed block: %v", failed, err)
		}
		t.Logf("\t%s\tShould be able to accept the proposed block.", success)

		if h := st.Height(); h != 2 {
			t.Fatalf("\t%s\tShould have a chain of height 2, got %d.", failed, h)
		}
		t.Logf("\t%s\tShould have a chain of height 2.", success)

		if bal := st.Balance(carol); bal != gen.MiningReward {
			t.Fatalf("\t%s\tShould credit the proposing miner, got %d.", failed, bal)
		}
		t.Logf("\t%s\tShould credit the proposing miner.", success)

		// Replaying the same block must fail and leave the chain alone.
		if err := st.ProcessProposedBlock(block); !errors.Is(err, database.ErrIndexMismatch) {
			t.Fatalf("\t%s\tShould reject the replayed block: %v", failed, err)
		}
		if h := st.Height(); h != 2 {
			t.Fatalf("\t%s\tShould leave the chain untouched, got height %d.", failed, h)
		}
		t.Logf("\t%s\tShould reject the replayed block.", success)
	}
}

func Test_MineWithEmptyMempool(t *testing.T) {
	t.Log("Given the need to refuse mining without transactions.")
	{
		st, _ := newState(t)
		defer st.Shutdown()

		if _, err := st.MineNewBlock(context.Background()); !errors.Is(err, state.ErrNoTransactions) {
			t.Fatalf("\t%s\tShould refuse to mine an empty block: %v", failed, err)
		}
		t.Logf("\t%s\tShould refuse to mine an empty block.", success)
	}
}
