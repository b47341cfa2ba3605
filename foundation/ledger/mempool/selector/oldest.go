package selector

import (
	"sort"

	"github.com/ardanlabs/ledger/foundation/ledger/database"
)

// oldestSelect returns the transactions that have been waiting the longest.
var oldestSelect = func(pool map[string]database.BlockTx, howMany int) []database.BlockTx {
	txs := make([]database.BlockTx, 0, len(pool))
	for _, tx := range pool {
		txs = append(txs, tx)
	}

	sort.Sort(byTimeStamp(txs))

	if howMany == -1 || howMany > len(txs) {
		howMany = len(txs)
	}

	return txs[:howMany]
}
