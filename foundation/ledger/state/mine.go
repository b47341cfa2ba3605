package state

import (
	"context"
	"errors"

	"github.com/ardanlabs/ledger/foundation/ledger/database"
	"github.com/ardanlabs/ledger/foundation/ledger/signature"
)

// ErrNoTransactions is returned when a block is requested to be created
// and there are not enough transactions.
var ErrNoTransactions = errors.New("no transactions in mempool")

// =============================================================================

// MineNewBlock attempts to create a new block with a proper hash that can
// become the next block in the chain. The nonce search is cancelled through
// the context since it has no termination bound of its own.
func (s *State) MineNewBlock(ctx context.Context) (database.Block, error) {
	s.evHandler("state: MineNewBlock: MINING: check mempool count")

	// Are there enough transactions in the pool.
	if s.mempool.Count() == 0 {
		return database.Block{}, ErrNoTransactions
	}

	// Pick the best transactions from the mempool and drop any that no
	// longer apply against the current unspent set.
	trans := s.selectTransactions()
	if len(trans) == 0 {
		return database.Block{}, ErrNoTransactions
	}

	s.evHandler("state: MineNewBlock: MINING: build coinbase")

	// The coinbase claims the mining reward plus the fees paid by the
	// selected transactions.
	var fees uint64
	for _, tx := range trans {
		fees += tx.Fee
	}

	number, prevBlockHash := s.nextBlockArgs()

	coinbase, err := database.NewCoinbaseTx(number, []database.TxOut{
		{AccountID: s.beneficiaryID, Value: s.genesis.MiningReward + fees},
	})
	if err != nil {
		return database.Block{}, err
	}
	trans = append([]database.BlockTx{database.NewBlockTx(coinbase, 0)}, trans...)

	s.evHandler("state: MineNewBlock: MINING: perform POW")

	// Attempt to create a new block by solving the POW puzzle. This can be
	// cancelled.
	block, err := database.POW(ctx, database.POWArgs{
		Number:        number,
		PrevBlockHash: prevBlockHash,
		Difficulty:    s.genesis.Difficulty,
		Trans:         trans,
		EvHandler:     s.evHandler,
	})
	if err != nil {
		return database.Block{}, err
	}

	// Just check one more time we were not cancelled.
	if ctx.Err() != nil {
		return database.Block{}, ctx.Err()
	}

	s.evHandler("state: MineNewBlock: MINING: validate and commit the new block")

	if err := s.commitBlock(block); err != nil {
		return database.Block{}, err
	}

	return block, nil
}

// ProcessProposedBlock takes a block produced outside of this state's own
// mining, validates it and if that passes, commits it to the chain.
func (s *State) ProcessProposedBlock(block database.Block) error {
	s.evHandler("state: ProcessProposedBlock: started: prevBlk[%s]: newBlk[%s]: numTrans[%d]", block.Header.PrevBlockHash, block.Hash(), len(block.Trans.Values()))
	defer s.evHandler("state: ProcessProposedBlock: completed: newBlk[%s]", block.Hash())

	if err := s.commitBlock(block); err != nil {
		return err
	}

	// If a mining operation is in flight it is now extending the wrong
	// block and needs to stop immediately. The mining G will not return
	// until done is called, so this function completes its state changes
	// before a new mining operation takes place.
	if s.Worker != nil {
		done := s.Worker.SignalCancelMining()
		defer func() {
			s.evHandler("state: ProcessProposedBlock: signal mining to terminate")
			done()
		}()
	}

	return nil
}

// MineGenesisBlock mines and commits the first block of an empty chain with
// a single coinbase transaction paying the mining reward.
func (s *State) MineGenesisBlock(ctx context.Context) (database.Block, error) {
	s.evHandler("state: MineGenesisBlock: started")
	defer s.evHandler("state: MineGenesisBlock: completed")

	coinbase, err := database.NewCoinbaseTx(0, []database.TxOut{
		{AccountID: s.beneficiaryID, Value: s.genesis.MiningReward},
	})
	if err != nil {
		return database.Block{}, err
	}

	block, err := database.POW(ctx, database.POWArgs{
		Number:        0,
		PrevBlockHash: signature.ZeroHash,
		Difficulty:    s.genesis.Difficulty,
		Trans:         []database.BlockTx{database.NewBlockTx(coinbase, 0)},
		EvHandler:     s.evHandler,
	})
	if err != nil {
		return database.Block{}, err
	}

	if err := s.commitBlock(block); err != nil {
		return database.Block{}, err
	}

	return block, nil
}

// =============================================================================

// commitBlock runs the block through the database validation rules and, on
// success, removes the mined transactions from the mempool.
func (s *State) commitBlock(block database.Block) error {
	if err := s.db.AcceptBlock(block); err != nil {
		return err
	}

	for _, tx := range block.Trans.Values() {
		s.evHandler("state: commitBlock: tx[%s] remove from mempool", tx.Tx.Hash())
		s.mempool.Delete(tx)
	}

	return nil
}

// selectTransactions picks the best transactions from the mempool and
// walks them against a copy of the unspent set, dropping any that turned
// stale so a block is never built with a known invalid transaction. The
// stale transactions are evicted from the mempool.
func (s *State) selectTransactions() []database.BlockTx {
	howMany := int(s.genesis.TransPerBlock)
	if howMany == 0 {
		howMany = -1
	}
	picked := s.mempool.PickBest(howMany)

	working := s.db.CopyUTXOSet()

	var trans []database.BlockTx
	for _, tx := range picked {
		inputValue, err := tx.InputValue(working)
		outputValue, outErr := tx.OutputValue()
		if err != nil || outErr != nil || inputValue < outputValue {
			s.evHandler("state: selectTransactions: drop stale tx[%s]", tx.Tx.Hash())
			s.mempool.Delete(tx)
			continue
		}

		for _, input := range tx.Inputs {
			delete(working, input)
		}
		txID := tx.Tx.Hash()
		for idx, out := range tx.Outputs {
			working[database.OutPoint{TxID: txID, Index: uint32(idx)}] = out
		}

		trans = append(trans, tx)
	}

	return trans
}

// nextBlockArgs determines the number and previous hash for the next block
// to be mined.
func (s *State) nextBlockArgs() (number uint64, prevBlockHash string) {
	if s.db.Height() == 0 {
		return 0, signature.ZeroHash
	}

	latest := s.db.LatestBlock()
	return latest.Header.Number + 1, latest.Hash()
}
