package database

import "errors"

// Set of error variables returned when a candidate block fails validation.
// These are recoverable outcomes, the caller decides whether to construct
// and submit a different candidate.
var (
	ErrIndexMismatch        = errors.New("block number is not the next in the chain")
	ErrInvalidPreviousHash  = errors.New("previous hash does not match the latest block")
	ErrInvalidTimestamp     = errors.New("block timestamp is before the latest block")
	ErrInvalidProofOfWork   = errors.New("block hash does not satisfy the difficulty")
	ErrInvalidTransRoot     = errors.New("merkle root does not match the transactions")
	ErrMisplacedCoinbase    = errors.New("coinbase transaction is not first in the block")
	ErrUnknownInput         = errors.New("input does not resolve to an unspent output")
	ErrDoubleSpend          = errors.New("unspent output consumed more than once")
	ErrValueConservation    = errors.New("transaction outputs exceed its inputs")
	ErrInvalidCoinbaseValue = errors.New("coinbase value exceeds the reward plus fees")
	ErrDuplicateOutput      = errors.New("produced output already exists in the unspent set")
)
