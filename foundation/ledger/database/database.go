// Package database manages the chain of blocks and the set of unspent
// transaction outputs. It implements all the validation rules a candidate
// block must pass before it is committed.
package database

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ardanlabs/ledger/foundation/ledger/genesis"
	"github.com/ardanlabs/ledger/foundation/ledger/signature"
)

// Database manages the committed blocks and the unspent output set. The
// value is safe to share across goroutines, every chain mutation happens
// atomically under the mutex. Multiple independent Database values can
// coexist, there is no process wide chain.
type Database struct {
	mu sync.RWMutex

	genesis   genesis.Genesis
	blocks    []Block
	utxos     UTXOSet
	evHandler func(v string, args ...any)
}

// New constructs a new database with an empty chain and an empty unspent
// set. Value enters the chain only through coinbase transactions.
func New(genesis genesis.Genesis, evHandler func(v string, args ...any)) *Database {
	ev := func(v string, args ...any) {
		if evHandler != nil {
			evHandler(v, args...)
		}
	}

	db := Database{
		genesis:   genesis,
		utxos:     make(UTXOSet),
		evHandler: ev,
	}

	return &db
}

// AcceptBlock validates the candidate block against the current chain state
// and, only if every rule passes, commits it: the block joins the chain,
// its consumed outputs leave the unspent set and its produced outputs join
// it. A rejected block leaves the chain and the unspent set unchanged.
func (db *Database) AcceptBlock(block Block) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	consumed, produced, err := db.validateBlock(block)
	if err != nil {
		return err
	}

	db.evHandler("database: AcceptBlock: commit: blk[%d]: consumed[%d] produced[%d]", block.Header.Number, len(consumed), len(produced))

	db.blocks = append(db.blocks, block)

	for _, op := range consumed {
		delete(db.utxos, op)
	}
	for op, out := range produced {
		db.utxos[op] = out
	}

	return nil
}

// validateBlock runs the chain extension rules in order and reports the
// first violated rule. On success it returns the outpoints the block
// consumes and the outputs it produces. Callers must hold the mutex.
func (db *Database) validateBlock(block Block) ([]OutPoint, map[OutPoint]TxOut, error) {
	ev := db.evHandler

	ev("database: validateBlock: validate: blk[%d]: check: block number is the next number", block.Header.Number)

	if len(db.blocks) == 0 {
		if block.Header.Number != 0 {
			return nil, nil, fmt.Errorf("%w: got %d, exp 0 on an empty chain", ErrIndexMismatch, block.Header.Number)
		}
		if block.Header.PrevBlockHash != signature.ZeroHash {
			return nil, nil, fmt.Errorf("%w: genesis block must carry the zero hash", ErrInvalidPreviousHash)
		}
	} else {
		latest := db.blocks[len(db.blocks)-1]

		nextNumber := latest.Header.Number + 1
		if block.Header.Number != nextNumber {
			return nil, nil, fmt.Errorf("%w: got %d, exp %d", ErrIndexMismatch, block.Header.Number, nextNumber)
		}

		ev("database: validateBlock: validate: blk[%d]: check: previous hash matches the latest block", block.Header.Number)

		if block.Header.PrevBlockHash != latest.Hash() {
			return nil, nil, fmt.Errorf("%w: got %s, exp %s", ErrInvalidPreviousHash, block.Header.PrevBlockHash, latest.Hash())
		}

		ev("database: validateBlock: validate: blk[%d]: check: timestamp is not before the latest block", block.Header.Number)

		if block.Header.TimeStamp < latest.Header.TimeStamp {
			return nil, nil, fmt.Errorf("%w: got %d, latest %d", ErrInvalidTimestamp, block.Header.TimeStamp, latest.Header.TimeStamp)
		}
	}

	ev("database: validateBlock: validate: blk[%d]: check: block hash has been solved", block.Header.Number)

	if block.Header.Difficulty < db.genesis.Difficulty {
		return nil, nil, fmt.Errorf("%w: difficulty %d is below the chain difficulty %d", ErrInvalidProofOfWork, block.Header.Difficulty, db.genesis.Difficulty)
	}

	hash := block.Hash()
	if !isHashSolved(block.Header.Difficulty, hash) {
		return nil, nil, fmt.Errorf("%w: hash %s", ErrInvalidProofOfWork, hash)
	}

	ev("database: validateBlock: validate: blk[%d]: check: merkle root does match transactions", block.Header.Number)

	if block.Header.TransRoot != block.Trans.RootHex() {
		return nil, nil, fmt.Errorf("%w: got %s, exp %s", ErrInvalidTransRoot, block.Trans.RootHex(), block.Header.TransRoot)
	}

	ev("database: validateBlock: validate: blk[%d]: check: transactions against the unspent set", block.Header.Number)

	return db.validateTransactions(block)
}

// validateTransactions walks the block's transactions in order against a
// working copy of the unspent set and a per-block spent set. Outputs
// produced earlier in the block are spendable later in the same block.
func (db *Database) validateTransactions(block Block) ([]OutPoint, map[OutPoint]TxOut, error) {
	working := db.utxos.Clone()
	spent := make(map[OutPoint]struct{})

	var consumed []OutPoint
	produced := make(map[OutPoint]TxOut)

	var fees uint64
	var haveCoinbase bool

	for i, tx := range block.Trans.Values() {
		if tx.IsCoinbase() {
			if i != 0 {
				return nil, nil, fmt.Errorf("%w: tx[%d] is a coinbase", ErrMisplacedCoinbase, i)
			}
			haveCoinbase = true
		} else {
			for _, input := range tx.Inputs {
				if _, exists := spent[input]; exists {
					return nil, nil, fmt.Errorf("%w: input [%s] already consumed in this block", ErrDoubleSpend, input)
				}
			}

			inputValue, err := tx.InputValue(working)
			if err != nil {
				return nil, nil, err
			}

			outputValue, err := tx.OutputValue()
			if err != nil {
				return nil, nil, err
			}

			if inputValue < outputValue {
				return nil, nil, fmt.Errorf("%w: inputs %d, outputs %d", ErrValueConservation, inputValue, outputValue)
			}
			fees += inputValue - outputValue

			for _, input := range tx.Inputs {
				spent[input] = struct{}{}
				consumed = append(consumed, input)
				delete(working, input)

				// An output produced and consumed inside the same block
				// never reaches the unspent set.
				delete(produced, input)
			}
		}

		txID := tx.Tx.Hash()
		for idx, out := range tx.Outputs {
			op := OutPoint{TxID: txID, Index: uint32(idx)}
			if _, exists := working[op]; exists {
				return nil, nil, fmt.Errorf("%w: output [%s]", ErrDuplicateOutput, op)
			}
			working[op] = out
			produced[op] = out
		}
	}

	// The coinbase introduces new value and may also claim the fees paid
	// by the other transactions in the block.
	if haveCoinbase {
		coinbase := block.Trans.Values()[0]
		coinbaseValue, err := coinbase.OutputValue()
		if err != nil {
			return nil, nil, err
		}
		if coinbaseValue > db.genesis.MiningReward+fees {
			return nil, nil, fmt.Errorf("%w: got %d, max %d", ErrInvalidCoinbaseValue, coinbaseValue, db.genesis.MiningReward+fees)
		}
	}

	return consumed, produced, nil
}

// =============================================================================

// Height returns the number of committed blocks in the chain.
func (db *Database) Height() uint64 {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return uint64(len(db.blocks))
}

// LatestBlock returns the latest committed block. The zero Block is
// returned while the chain is empty.
func (db *Database) LatestBlock() Block {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if len(db.blocks) == 0 {
		return Block{}
	}

	return db.blocks[len(db.blocks)-1]
}

// GetBlock returns the contents of the specified block by number.
func (db *Database) GetBlock(num uint64) (Block, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if num >= uint64(len(db.blocks)) {
		return Block{}, fmt.Errorf("block %d does not exist", num)
	}

	return db.blocks[num], nil
}

// BlocksByNumber returns the set of blocks in the specified range
// inclusive. Numbers past the end of the chain are clipped.
func (db *Database) BlocksByNumber(from uint64, to uint64) []Block {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if from > to || from >= uint64(len(db.blocks)) {
		return nil
	}

	if to >= uint64(len(db.blocks)) {
		to = uint64(len(db.blocks)) - 1
	}

	blocks := make([]Block, 0, to-from+1)
	blocks = append(blocks, db.blocks[from:to+1]...)

	return blocks
}

// ForEach returns an iterator to walk through all the committed blocks,
// starting with block number 0.
func (db *Database) ForEach() DatabaseIterator {
	db.mu.RLock()
	defer db.mu.RUnlock()

	blocks := make([]Block, len(db.blocks))
	copy(blocks, db.blocks)

	return DatabaseIterator{blocks: blocks}
}

// CopyUTXOSet makes a copy of the current unspent output set.
func (db *Database) CopyUTXOSet() UTXOSet {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return db.utxos.Clone()
}

// Balance returns the total unspent value paid to the specified account.
func (db *Database) Balance(accountID AccountID) uint64 {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return db.utxos.Balance(accountID)
}

// =============================================================================

// DatabaseIterator provides a forward only walk over a snapshot of the
// chain taken when the iterator was created.
type DatabaseIterator struct {
	blocks []Block
	next   int
}

// Next retrieves the next block in the chain.
func (di *DatabaseIterator) Next() (Block, error) {
	if di.Done() {
		return Block{}, errors.New("no more blocks")
	}

	block := di.blocks[di.next]
	di.next++

	return block, nil
}

// Done returns true when there are no more blocks to iterate.
func (di *DatabaseIterator) Done() bool {
	return di.next >= len(di.blocks)
}
