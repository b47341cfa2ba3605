package merkle_test

import (
	"bytes"
	"crypto/sha256"
	"testing"

	"github.com/ardanlabs/ledger/foundation/ledger/merkle"
)

// Data uses the sha256 hashing algorithm for the merkle tree.
type Data struct {
	x string
}

// Hash hashes the values using sha256.
func (d Data) Hash() ([]byte, error) {
	h := sha256.New()
	if _, err := h.Write([]byte(d.x)); err != nil {
		return nil, err
	}

	return h.Sum(nil), nil
}

// Equals tests for equality of two pieces of data.
func (d Data) Equals(other Data) bool {
	return d.x == other.x
}

// =============================================================================

func Test_NewTree(t *testing.T) {
	tt := []struct {
		name string
		data []Data
	}{
		{name: "one", data: []Data{{x: "Hello"}}},
		{name: "even", data: []Data{{x: "Hello"}, {x: "Hi"}, {x: "Hey"}, {x: "Hola"}}},
		{name: "odd", data: []Data{{x: "Hello"}, {x: "Hi"}, {x: "Hey"}}},
	}

	for _, tst := range tt {
		t.Run(tst.name, func(t *testing.T) {
			tree, err := merkle.NewTree(tst.data)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if len(tree.MerkleRoot()) != sha256.Size {
				t.Errorf("expected a %d byte root, got %d", sha256.Size, len(tree.MerkleRoot()))
			}

			if len(tree.Values()) != len(tst.data) {
				t.Errorf("expected %d values, got %d", len(tst.data), len(tree.Values()))
			}

			again, err := merkle.NewTree(tst.data)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !bytes.Equal(tree.MerkleRoot(), again.MerkleRoot()) {
				t.Errorf("expected the same data to produce the same root")
			}
		})
	}
}

func Test_NewTreeRequiresContent(t *testing.T) {
	if _, err := merkle.NewTree([]Data{}); err == nil {
		t.Fatalf("expected an error constructing a tree with no content")
	}
}

func Test_RootChangesWithContent(t *testing.T) {
	tree1, err := merkle.NewTree([]Data{{x: "Hello"}, {x: "Hi"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tree2, err := merkle.NewTree([]Data{{x: "Hello"}, {x: "Bye"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if bytes.Equal(tree1.MerkleRoot(), tree2.MerkleRoot()) {
		t.Errorf("expected different data to produce different roots")
	}
}

func Test_VerifyProof(t *testing.T) {
	data := []Data{{x: "Hello"}, {x: "Hi"}, {x: "Hey"}, {x: "Hola"}, {x: "Ciao"}}

	tree, err := merkle.NewTree(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, d := range data {
		proof, order, err := tree.Proof(d)
		if err != nil {
			t.Fatalf("unexpected error generating proof for %q: %v", d.x, err)
		}

		leafHash, err := d.Hash()
		if err != nil {
			t.Fatalf("unexpected error hashing %q: %v", d.x, err)
		}

		if !merkle.VerifyProof(leafHash, proof, order, tree.MerkleRoot()) {
			t.Errorf("expected the proof for %q to verify", d.x)
		}
	}

	outsider := Data{x: "Aloha"}
	if _, _, err := tree.Proof(outsider); err == nil {
		t.Errorf("expected an error proving a value not in the tree")
	}

	leafHash, err := outsider.Hash()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	proof, order, err := tree.Proof(data[0])
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if merkle.VerifyProof(leafHash, proof, order, tree.MerkleRoot()) {
		t.Errorf("expected the wrong leaf to fail verification")
	}
}
