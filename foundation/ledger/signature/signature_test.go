package signature_test

import (
	"testing"

	"github.com/ardanlabs/ledger/foundation/ledger/signature"
)

func Test_Hash(t *testing.T) {
	value := struct {
		Name string
	}{
		Name: "Bill",
	}
	hash := "0x0f6887ac85101d6d6425a617edf35bd721b5f619fb92c36c3d2224e3bdb0ee5a"

	h := signature.Hash(value)
	if h != hash {
		t.Logf("got: %s", h)
		t.Logf("exp: %s", hash)
		t.Fatalf("Should get back the right hash: %s", h[:6])
	}

	h = signature.Hash(value)
	if h != hash {
		t.Logf("got: %s", h)
		t.Logf("exp: %s", hash)
		t.Fatalf("Should get back the same hash twice.")
	}
}

func Test_ToUint64(t *testing.T) {
	hash := "0x00000000000000ff0000000000000000000000000000000000000000000000ff"

	v := signature.ToUint64(hash)
	if v != 255 {
		t.Logf("got: %d", v)
		t.Logf("exp: %d", 255)
		t.Fatalf("Should read the leading 8 bytes of the hash.")
	}

	v = signature.ToUint64(signature.ZeroHash)
	if v != 0 {
		t.Logf("got: %d", v)
		t.Fatalf("Should read zero for the zero hash.")
	}

	v = signature.ToUint64("not a hash")
	if v != ^uint64(0) {
		t.Logf("got: %d", v)
		t.Fatalf("Should read the max value for a malformed hash.")
	}
}
