package database

import (
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/ardanlabs/ledger/foundation/ledger/signature"
)

// AccountID represents the opaque address an output is paid to. The ledger
// performs no signature checks, so an account id is just an identifier.
type AccountID string

// =============================================================================

// OutPoint references an output produced by a previous transaction. It is
// both the input side of a transaction and the key of the unspent set.
type OutPoint struct {
	TxID  string `json:"tx_id"` // Hash of the transaction that produced the output.
	Index uint32 `json:"index"` // Position of the output inside that transaction.
}

// String implements the fmt.Stringer interface for logging.
func (op OutPoint) String() string {
	return fmt.Sprintf("%s:%d", op.TxID, op.Index)
}

// =============================================================================

// TxOut represents value paid to an account. Outputs are immutable once
// created and live in the unspent set until an input consumes them.
type TxOut struct {
	AccountID AccountID `json:"account_id"` // Account receiving the value.
	Value     uint64    `json:"value"`      // Amount of value in this output.
}

// =============================================================================

// Tx is the transactional information moving value between accounts. A
// transaction with no inputs is a coinbase and introduces new value.
type Tx struct {
	Nonce   uint64     `json:"nonce"`   // Carries the block number for a coinbase so identical payouts never share an identity.
	Inputs  []OutPoint `json:"inputs"`  // Unspent outputs being consumed.
	Outputs []TxOut    `json:"outputs"` // New outputs being produced.
}

// NewTx constructs a new transaction.
func NewTx(inputs []OutPoint, outputs []TxOut) (Tx, error) {
	if len(outputs) == 0 {
		return Tx{}, errors.New("transaction requires at least one output")
	}

	tx := Tx{
		Inputs:  inputs,
		Outputs: outputs,
	}

	return tx, nil
}

// NewCoinbaseTx constructs the transaction that introduces new value in the
// specified block. The block number keeps the identity of every coinbase
// unique even when the payouts are identical.
func NewCoinbaseTx(blockNumber uint64, outputs []TxOut) (Tx, error) {
	if len(outputs) == 0 {
		return Tx{}, errors.New("transaction requires at least one output")
	}

	tx := Tx{
		Nonce:   blockNumber,
		Outputs: outputs,
	}

	return tx, nil
}

// Hash returns the unique hash for the transaction. The hash is computed
// over the inputs and outputs on every call, it is never cached.
func (tx Tx) Hash() string {
	return signature.Hash(tx)
}

// IsCoinbase returns true if the transaction consumes no inputs.
func (tx Tx) IsCoinbase() bool {
	return len(tx.Inputs) == 0
}

// InputValue sums the values of the outputs referenced by the transaction's
// inputs, looked up in the specified unspent set. An input that doesn't
// resolve fails with ErrUnknownInput and an input repeated inside the same
// transaction fails with ErrDoubleSpend.
func (tx Tx) InputValue(utxos UTXOSet) (uint64, error) {
	seen := make(map[OutPoint]struct{})

	var total uint64
	for _, input := range tx.Inputs {
		if _, exists := seen[input]; exists {
			return 0, fmt.Errorf("%w: input [%s] consumed twice", ErrDoubleSpend, input)
		}
		seen[input] = struct{}{}

		out, exists := utxos[input]
		if !exists {
			return 0, fmt.Errorf("%w: input [%s] not in the unspent set", ErrUnknownInput, input)
		}

		if total+out.Value < total {
			return 0, fmt.Errorf("%w: input total overflows", ErrValueConservation)
		}
		total += out.Value
	}

	return total, nil
}

// OutputValue sums the values of the transaction's outputs. A sum that
// wraps around uint64 fails with ErrValueConservation, wrapping outputs
// would otherwise slip under an input total.
func (tx Tx) OutputValue() (uint64, error) {
	var total uint64
	for _, out := range tx.Outputs {
		if total+out.Value < total {
			return 0, fmt.Errorf("%w: output total overflows", ErrValueConservation)
		}
		total += out.Value
	}

	return total, nil
}

// String implements the fmt.Stringer interface for logging.
func (tx Tx) String() string {
	value, _ := tx.OutputValue()
	return fmt.Sprintf("%s ins[%d] outs[%d] value[%d]", tx.Hash(), len(tx.Inputs), len(tx.Outputs), value)
}

// =============================================================================

// BlockTx represents the transaction as it's recorded inside a block. This
// includes the time of admission and the fee it pays.
type BlockTx struct {
	Tx
	TimeStamp uint64 `json:"timestamp"` // The time the transaction was admitted to the mempool.
	Fee       uint64 `json:"fee"`       // Input value minus output value, claimable by the miner.
}

// NewBlockTx constructs a new block transaction.
func NewBlockTx(tx Tx, fee uint64) BlockTx {
	return BlockTx{
		Tx:        tx,
		TimeStamp: uint64(time.Now().UTC().Unix()),
		Fee:       fee,
	}
}

// Hash implements the merkle Hashable interface for providing a hash of a
// block transaction. The merkle leaf is the transaction's identity hash so
// the block header commits to each transaction in the block.
func (tx BlockTx) Hash() ([]byte, error) {
	str := tx.Tx.Hash()
	return hex.DecodeString(str[2:])
}

// Equals implements the merkle Hashable interface for providing an equality
// check between two block transactions.
func (tx BlockTx) Equals(otherTx BlockTx) bool {
	return tx.Tx.Hash() == otherTx.Tx.Hash()
}
