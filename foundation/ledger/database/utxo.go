package database

// UTXOSet represents the set of unspent transaction outputs, keyed by the
// outpoint that produced them. The set held by the Database is mutated only
// as the atomic side effect of a committed block.
type UTXOSet map[OutPoint]TxOut

// Clone makes a deep copy of the unspent set. Validation works against a
// clone so a rejected block leaves the real set untouched.
func (us UTXOSet) Clone() UTXOSet {
	clone := make(UTXOSet, len(us))
	for op, out := range us {
		clone[op] = out
	}

	return clone
}

// Balance sums the value of the unspent outputs paid to the specified
// account.
func (us UTXOSet) Balance(accountID AccountID) uint64 {
	var total uint64
	for _, out := range us {
		if out.AccountID == accountID {
			total += out.Value
		}
	}

	return total
}

// TotalValue sums the value of every unspent output in the set.
func (us UTXOSet) TotalValue() uint64 {
	var total uint64
	for _, out := range us {
		total += out.Value
	}

	return total
}

// ByAccount returns the subset of unspent outputs paid to the specified
// account, keyed by outpoint.
func (us UTXOSet) ByAccount(accountID AccountID) UTXOSet {
	subset := make(UTXOSet)
	for op, out := range us {
		if out.AccountID == accountID {
			subset[op] = out
		}
	}

	return subset
}
