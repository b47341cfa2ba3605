// Package merkle provides a merkle tree over the transactions in a block.
// The root binds every transaction hash into the block header so the header
// alone commits to the full transaction set.
package merkle

import (
	"bytes"
	"crypto/sha256"
	"errors"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Hashable represents the behavior concrete data must exhibit to be used in
// the merkle tree.
type Hashable[T any] interface {
	Hash() ([]byte, error)
	Equals(other T) bool
}

// =============================================================================

// Tree represents a merkle tree of values of some type T that exhibits the
// behavior defined by the Hashable constraint. The tree is immutable once
// constructed.
type Tree[T Hashable[T]] struct {
	values []T
	leaves [][]byte
	levels [][][]byte
	root   []byte
}

// NewTree constructs a merkle tree from the specified set of values. At
// least one value is required.
func NewTree[T Hashable[T]](values []T) (*Tree[T], error) {
	if len(values) == 0 {
		return nil, errors.New("cannot construct tree with no content")
	}

	t := Tree[T]{
		values: values,
	}

	for _, value := range values {
		hash, err := value.Hash()
		if err != nil {
			return nil, err
		}
		t.leaves = append(t.leaves, hash)
	}

	// Hash pairs level by level until a single root remains. An odd node at
	// the end of a level is paired with itself.
	level := t.leaves
	t.levels = append(t.levels, level)

	for len(level) > 1 {
		var next [][]byte
		for i := 0; i < len(level); i += 2 {
			right := i
			if i+1 < len(level) {
				right = i + 1
			}
			next = append(next, hashPair(level[i], level[right]))
		}

		t.levels = append(t.levels, next)
		level = next
	}

	t.root = level[0]

	return &t, nil
}

// Values returns the set of values stored in the tree in insertion order.
func (t *Tree[T]) Values() []T {
	return t.values
}

// MerkleRoot returns the root hash of the tree.
func (t *Tree[T]) MerkleRoot() []byte {
	return t.root
}

// RootHex converts the merkle root byte hash to a hex encoded string.
func (t *Tree[T]) RootHex() string {
	return hexutil.Encode(t.root)
}

// Proof returns the sibling hashes and their concatenation order for
// proving the specified value is part of the tree. An order of 0 means the
// proof hash is concatenated before the running hash, 1 means after.
func (t *Tree[T]) Proof(value T) ([][]byte, []int64, error) {
	idx := -1
	for i, v := range t.values {
		if v.Equals(value) {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, nil, errors.New("unable to find value in tree")
	}

	var proof [][]byte
	var order []int64

	for _, level := range t.levels[:len(t.levels)-1] {
		sibling := idx ^ 1
		if sibling >= len(level) {
			sibling = idx
		}

		proof = append(proof, level[sibling])
		order = append(order, int64(sibling&1))
		idx /= 2
	}

	return proof, order, nil
}

// VerifyProof checks a leaf hash against the specified proof and root hash.
func VerifyProof(leafHash []byte, proof [][]byte, order []int64, root []byte) bool {
	if len(proof) != len(order) {
		return false
	}

	hash := leafHash
	for i, sibling := range proof {
		if order[i] == 0 {
			hash = hashPair(sibling, hash)
			continue
		}
		hash = hashPair(hash, sibling)
	}

	return bytes.Equal(hash, root)
}

// =============================================================================

// hashPair produces the parent hash for two child hashes.
func hashPair(left []byte, right []byte) []byte {
	hash := sha256.Sum256(append(append([]byte{}, left...), right...))
	return hash[:]
}
