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

// Hash hashes the value using sha256.
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

func values(xs ...string) []Data {
	var vs []Data
	for _, x := range xs {
		vs = append(vs, Data{x: x})
	}
	return vs
}

func sum(bs ...[]byte) []byte {
	h := sha256.New()
	for _, b := range bs {
		h.Write(b)
	}
	return h.Sum(nil)
}

func leaf(x string) []byte {
	h := sha256.Sum256([]byte(x))
	return h[:]
}

// =============================================================================

func Test_EmptyTree(t *testing.T) {
	tree, err := merkle.NewTree[Data](nil)
	if err != nil {
		t.Fatalf("Should be able to construct an empty tree: %v", err)
	}

	if tree.RootHex() != "" {
		t.Fatalf("Should report the empty root for an empty tree: got %q", tree.RootHex())
	}

	if err := tree.Verify(); err != nil {
		t.Fatalf("Should verify an empty tree: %v", err)
	}
}

func Test_SingleValue(t *testing.T) {
	tree, err := merkle.NewTree(values("a"))
	if err != nil {
		t.Fatalf("Should be able to construct the tree: %v", err)
	}

	if !bytes.Equal(tree.MerkleRoot, leaf("a")) {
		t.Fatalf("Should use the leaf digest as the root for a single value.")
	}
}

func Test_PairHashing(t *testing.T) {
	tree, err := merkle.NewTree(values("a", "b"))
	if err != nil {
		t.Fatalf("Should be able to construct the tree: %v", err)
	}

	exp := sum(leaf("a"), leaf("b"))
	if !bytes.Equal(tree.MerkleRoot, exp) {
		t.Fatalf("Should hash the concatenation of the pair: got %x, exp %x", tree.MerkleRoot, exp)
	}
}

// An odd level promotes its final node by hashing it alone, never by
// pairing it with a copy of itself.
func Test_OddLevelPromotion(t *testing.T) {
	tree, err := merkle.NewTree(values("a", "b", "c"))
	if err != nil {
		t.Fatalf("Should be able to construct the tree: %v", err)
	}

	exp := sum(sum(leaf("a"), leaf("b")), sum(leaf("c")))
	if !bytes.Equal(tree.MerkleRoot, exp) {
		t.Fatalf("Should promote the odd node hashed alone: got %x, exp %x", tree.MerkleRoot, exp)
	}

	dup := sum(sum(leaf("a"), leaf("b")), sum(leaf("c"), leaf("c")))
	if bytes.Equal(tree.MerkleRoot, dup) {
		t.Fatalf("Should not pair the odd node with a copy of itself.")
	}
}

func Test_Determinism(t *testing.T) {
	t1, err := merkle.NewTree(values("a", "b", "c", "d", "e"))
	if err != nil {
		t.Fatalf("Should be able to construct the tree: %v", err)
	}

	t2, err := merkle.NewTree(values("a", "b", "c", "d", "e"))
	if err != nil {
		t.Fatalf("Should be able to construct the tree: %v", err)
	}

	if !bytes.Equal(t1.MerkleRoot, t2.MerkleRoot) {
		t.Fatalf("Should produce the same root for the same ordered values.")
	}

	t3, err := merkle.NewTree(values("b", "a", "c", "d", "e"))
	if err != nil {
		t.Fatalf("Should be able to construct the tree: %v", err)
	}

	if bytes.Equal(t1.MerkleRoot, t3.MerkleRoot) {
		t.Fatalf("Should produce a different root when the order changes.")
	}
}

func Test_Rebuild(t *testing.T) {
	tree, err := merkle.NewTree(values("a", "b", "c"))
	if err != nil {
		t.Fatalf("Should be able to construct the tree: %v", err)
	}

	root := append([]byte{}, tree.MerkleRoot...)

	if err := tree.Rebuild(); err != nil {
		t.Fatalf("Should be able to rebuild the tree: %v", err)
	}

	if !bytes.Equal(tree.MerkleRoot, root) {
		t.Fatalf("Should reproduce the same root from the held leaves.")
	}
}

func Test_Proof(t *testing.T) {
	vs := values("a", "b", "c", "d", "e")

	tree, err := merkle.NewTree(vs)
	if err != nil {
		t.Fatalf("Should be able to construct the tree: %v", err)
	}

	for _, v := range vs {
		proof, order, err := tree.Proof(v)
		if err != nil {
			t.Fatalf("Should be able to produce a proof for %q: %v", v.x, err)
		}

		hash, err := v.Hash()
		if err != nil {
			t.Fatalf("Should be able to hash %q: %v", v.x, err)
		}

		for i := range proof {
			switch order[i] {
			case 0:
				hash = sum(proof[i], hash)
			case 1:
				hash = sum(hash, proof[i])
			case 2:
				hash = sum(hash)
			}
		}

		if !bytes.Equal(hash, tree.MerkleRoot) {
			t.Errorf("Should be able to replay the proof for %q to the root.", v.x)
		}
	}
}

func Test_VerifyDetectsTampering(t *testing.T) {
	tree, err := merkle.NewTree(values("a", "b", "c", "d"))
	if err != nil {
		t.Fatalf("Should be able to construct the tree: %v", err)
	}

	if err := tree.Verify(); err != nil {
		t.Fatalf("Should verify an untouched tree: %v", err)
	}

	tree.Leafs[2].Value = Data{x: "tampered"}

	if err := tree.Verify(); err == nil {
		t.Fatalf("Should detect a mutated leaf value.")
	}
}
