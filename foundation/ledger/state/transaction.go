package state

import (
	"errors"
	"fmt"

	"github.com/ardanlabs/ledger/foundation/ledger/database"
)

// SubmitTransaction accepts a transaction for inclusion in a future block.
// The fee is fixed at admission time as the difference between the value
// the transaction consumes and the value it produces.
func (s *State) SubmitTransaction(tx database.Tx) error {
	s.evHandler("state: SubmitTransaction: started: tx[%s]", tx.Hash())
	defer s.evHandler("state: SubmitTransaction: completed")

	fee, err := s.validateTransaction(tx)
	if err != nil {
		return err
	}

	blockTx := database.NewBlockTx(tx, fee)

	n := s.mempool.Upsert(blockTx)
	s.evHandler("state: SubmitTransaction: mempool[%d]", n)

	if s.Worker != nil {
		s.Worker.SignalStartMining()
	}

	return nil
}

// =============================================================================

// validateTransaction checks the transaction can apply against the current
// unspent set and returns the fee it pays. Admission checks don't reserve
// outputs, conflicting transactions are settled at block validation.
func (s *State) validateTransaction(tx database.Tx) (uint64, error) {
	if tx.IsCoinbase() {
		return 0, errors.New("coinbase transactions are created by mining, not submitted")
	}

	if len(tx.Outputs) == 0 {
		return 0, errors.New("transaction requires at least one output")
	}

	inputValue, err := tx.InputValue(s.db.CopyUTXOSet())
	if err != nil {
		return 0, err
	}

	outputValue, err := tx.OutputValue()
	if err != nil {
		return 0, err
	}

	if inputValue < outputValue {
		return 0, fmt.Errorf("%w: inputs %d, outputs %d", database.ErrValueConservation, inputValue, outputValue)
	}

	return inputValue - outputValue, nil
}
