// Package selector provides different transaction selecting algorithms.
package selector

import (
	"fmt"

	"github.com/ardanlabs/ledger/foundation/ledger/database"
)

// List of different select strategies.
const (
	StrategyFee    = "fee"
	StrategyOldest = "oldest"
)

// Map of different select strategies with functions.
var strategies = map[string]Func{
	StrategyFee:    feeSelect,
	StrategyOldest: oldestSelect,
}

// Func defines a function that takes the mempool of transactions keyed by
// their hash and selects howMany of them in an order based on the functions
// strategy. Receiving -1 for howMany must return all the transactions in
// the strategies ordering.
type Func func(pool map[string]database.BlockTx, howMany int) []database.BlockTx

// Retrieve returns the specified select strategy function.
func Retrieve(strategy string) (Func, error) {
	fn, exists := strategies[strategy]
	if !exists {
		return nil, fmt.Errorf("strategy %q does not exist", strategy)
	}
	return fn, nil
}

// =============================================================================

// byFee provides sorting support by the transaction fee value.
type byFee []database.BlockTx

// Len returns the number of transactions in the list.
func (bf byFee) Len() int {
	return len(bf)
}

// Less helps to sort the list by fee in decending order to pick the
// transactions that provide the best reward.
func (bf byFee) Less(i, j int) bool {
	return bf[i].Fee > bf[j].Fee
}

// Swap moves transactions in the order of the fee value.
func (bf byFee) Swap(i, j int) {
	bf[i], bf[j] = bf[j], bf[i]
}

// =============================================================================

// byTimeStamp provides sorting support by the transaction admission time.
type byTimeStamp []database.BlockTx

// Len returns the number of transactions in the list.
func (bt byTimeStamp) Len() int {
	return len(bt)
}

// Less helps to sort the list by admission time in ascending order to pick
// the transactions that have been waiting the longest.
func (bt byTimeStamp) Less(i, j int) bool {
	return bt[i].TimeStamp < bt[j].TimeStamp
}

// Swap moves transactions in the order of the admission time.
func (bt byTimeStamp) Swap(i, j int) {
	bt[i], bt[j] = bt[j], bt[i]
}
