// Package signature provides the cryptographic digest support for the
// ledger. Every entity on the chain is identified by the hash of its
// canonical serialization.
package signature

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// ZeroHash represents a hash code of zeros. It is the previous-hash
// sentinel carried by the genesis block.
const ZeroHash string = "0x0000000000000000000000000000000000000000000000000000000000000000"

// =============================================================================

// Hash returns a unique string for the value. The value is serialized with
// the encoding/json package which walks struct fields in declaration order,
// so identical field values always produce the identical digest.
func Hash(value any) string {
	data, err := json.Marshal(value)
	if err != nil {
		return ZeroHash
	}

	hash := sha256.Sum256(data)
	return hexutil.Encode(hash[:])
}

// ToUint64 reads the leading 8 bytes of the specified hash as a big-endian
// unsigned integer. This fixed window is the one convention used everywhere
// a digest is compared against a difficulty target: a hash satisfies a
// target when ToUint64(hash) is strictly less than the target.
func ToUint64(hash string) uint64 {
	data, err := hex.DecodeString(strip0x(hash))
	if err != nil || len(data) < 8 {
		return ^uint64(0)
	}

	return binary.BigEndian.Uint64(data[:8])
}

// =============================================================================

// strip0x removes the 0x prefix from a hash if it is present.
func strip0x(hash string) string {
	if len(hash) >= 2 && hash[0] == '0' && (hash[1] == 'x' || hash[1] == 'X') {
		return hash[2:]
	}

	return hash
}
