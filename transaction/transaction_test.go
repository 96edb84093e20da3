package transaction

import "testing"

func TestCanonicalHashDependsOnlyOnFields(t *testing.T) {
	a := New("alice", "bob", 10, 1, "")
	b := New("alice", "bob", 10, 1, "unrelated-signature-value")

	if a.CanonicalHash() != b.CanonicalHash() {
		t.Fatalf("expected signature to be excluded from canonical hash")
	}
}

func TestCanonicalHashChangesWithAnyField(t *testing.T) {
	base := New("alice", "bob", 10, 1, "")
	variants := []*Transaction{
		New("carol", "bob", 10, 1, ""),
		New("alice", "carol", 10, 1, ""),
		New("alice", "bob", 11, 1, ""),
		New("alice", "bob", 10, 2, ""),
	}
	baseHash := base.CanonicalHash()
	for i, v := range variants {
		if v.CanonicalHash() == baseHash {
			t.Fatalf("variant %d unexpectedly collided with base hash", i)
		}
	}
}

func TestIsCoinbase(t *testing.T) {
	coinbase := NewCoinbase("miner-address", 50)
	if !coinbase.IsCoinbase() {
		t.Fatalf("expected NewCoinbase to produce a coinbase transaction")
	}

	regular := New("alice", "bob", 1, 0, "sig")
	if regular.IsCoinbase() {
		t.Fatalf("expected regular transaction not to be a coinbase")
	}
}
