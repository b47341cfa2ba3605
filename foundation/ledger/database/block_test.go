package database_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ardanlabs/ledger/foundation/ledger/database"
	"github.com/ardanlabs/ledger/foundation/ledger/signature"
)

func Test_MiningCancellation(t *testing.T) {
	t.Log("Given the need to cancel a mining operation in flight.")
	{
		t.Logf("\tTest 0:\tWhen the context is cancelled during the nonce search.")
		{
			// A difficulty of 1 only accepts an all zero leading window,
			// so the search will run until it is cancelled.
			cb := coinbaseTx(t, 0, miner, 700)
			block, err := database.NewBlock(0, time.Now(), signature.ZeroHash, 1, []database.BlockTx{cb})
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to construct a block: %v", failed, err)
			}

			ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
			defer cancel()

			err = block.Mine(ctx, noopEv)
			if !errors.Is(err, context.DeadlineExceeded) {
				t.Fatalf("\t%s\tTest 0:\tShould get the context error back: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould get the context error back.", success)
		}

		t.Logf("\tTest 1:\tWhen mining without an event handler.")
		{
			gen := newGenesis()

			cb := coinbaseTx(t, 0, miner, gen.MiningReward)
			block, err := database.NewBlock(0, time.Now(), signature.ZeroHash, gen.Difficulty, []database.BlockTx{cb})
			if err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to construct a block: %v", failed, err)
			}

			if err := block.Mine(context.Background(), nil); err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to mine with a nil handler: %v", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould be able to mine with a nil handler.", success)
		}
	}
}

func Test_BlockData(t *testing.T) {
	t.Log("Given the need to move a block over the wire.")
	{
		t.Logf("\tTest 0:\tWhen converting a block to its wire form and back.")
		{
			gen := newGenesis()

			cb := coinbaseTx(t, 0, miner, gen.MiningReward)
			block := mineBlock(t, gen, 0, signature.ZeroHash, time.Now(), []database.BlockTx{cb})

			blockData := database.NewBlockData(block)
			if blockData.Hash != block.Hash() {
				t.Fatalf("\t%s\tTest 0:\tShould carry the block hash in the wire form.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould carry the block hash in the wire form.", success)

			back, err := database.ToBlock(blockData)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to convert back to a block: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to convert back to a block.", success)

			if back.Hash() != block.Hash() {
				t.Fatalf("\t%s\tTest 0:\tShould recompute the identical block hash.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould recompute the identical block hash.", success)

			if back.Header.TransRoot != back.Trans.RootHex() {
				t.Fatalf("\t%s\tTest 0:\tShould rebuild the identical merkle tree.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould rebuild the identical merkle tree.", success)
		}
	}
}
