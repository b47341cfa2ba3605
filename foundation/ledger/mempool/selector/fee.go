package selector

import (
	"sort"

	"github.com/ardanlabs/ledger/foundation/ledger/database"
)

// feeSelect returns the transactions paying the best fees.
var feeSelect = func(pool map[string]database.BlockTx, howMany int) []database.BlockTx {
	txs := make([]database.BlockTx, 0, len(pool))
	for _, tx := range pool {
		txs = append(txs, tx)
	}

	sort.Sort(byFee(txs))

	if howMany == -1 || howMany > len(txs) {
		howMany = len(txs)
	}

	return txs[:howMany]
}
