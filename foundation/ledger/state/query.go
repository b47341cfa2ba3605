package state

import (
	"github.com/ardanlabs/ledger/foundation/ledger/database"
	"github.com/ardanlabs/ledger/foundation/ledger/genesis"
)

// QueryLatest represents to query the latest block in the chain.
const QueryLatest = ^uint64(0) >> 1

// =============================================================================

// Genesis returns a copy of the genesis information.
func (s *State) Genesis() genesis.Genesis {
	return s.genesis
}

// LatestBlock returns a copy of the current latest block.
func (s *State) LatestBlock() database.Block {
	return s.db.LatestBlock()
}

// Height returns the number of committed blocks in the chain.
func (s *State) Height() uint64 {
	return s.db.Height()
}

// MempoolLength returns the current length of the mempool.
func (s *State) MempoolLength() int {
	return s.mempool.Count()
}

// Mempool returns a copy of the mempool.
func (s *State) Mempool() []database.BlockTx {
	return s.mempool.Copy()
}

// UTXOSet returns a copy of the current unspent output set.
func (s *State) UTXOSet() database.UTXOSet {
	return s.db.CopyUTXOSet()
}

// Balance returns the total unspent value paid to the specified account.
func (s *State) Balance(accountID database.AccountID) uint64 {
	return s.db.Balance(accountID)
}

// QueryBlocksByNumber returns the set of blocks based on block numbers.
func (s *State) QueryBlocksByNumber(from uint64, to uint64) []database.Block {
	if from == QueryLatest {
		from = s.db.LatestBlock().Header.Number
		to = from
	}
	if to == QueryLatest {
		to = s.db.LatestBlock().Header.Number
	}

	return s.db.BlocksByNumber(from, to)
}

// QueryBlocksByAccount returns the set of blocks that carry a transaction
// paying the specified account. If the account is empty, all blocks are
// returned.
func (s *State) QueryBlocksByAccount(accountID database.AccountID) []database.Block {
	var out []database.Block

	for iter := s.db.ForEach(); !iter.Done(); {
		block, err := iter.Next()
		if err != nil {
			break
		}

		for _, tx := range block.Trans.Values() {
			if accountID == "" || paysAccount(tx, accountID) {
				out = append(out, block)
				break
			}
		}
	}

	return out
}

// =============================================================================

// paysAccount checks if any output of the transaction pays the account.
func paysAccount(tx database.BlockTx, accountID database.AccountID) bool {
	for _, out := range tx.Outputs {
		if out.AccountID == accountID {
			return true
		}
	}

	return false
}
