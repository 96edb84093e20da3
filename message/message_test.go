package message

import (
	"testing"

	"github.com/daglabs-fork/blockdagd/block"
	"github.com/daglabs-fork/blockdagd/transaction"
)

func TestRequestBlockRoundTrip(t *testing.T) {
	original := RequestBlock("abc123")
	encoded, err := original.Encode()
	if err != nil {
		t.Fatalf("Encode returned error: %s", err)
	}
	decoded := Decode(encoded)
	if decoded.Command != CommandRequestBlock || decoded.BlockHash != "abc123" {
		t.Fatalf("round-trip mismatch: got %+v", decoded)
	}
}

func TestNewBlockRoundTrip(t *testing.T) {
	b := block.Mine(1, []string{"0"}, []*transaction.Transaction{transaction.NewCoinbase("miner", 50)}, 50, "", 1)
	original := NewBlock(b)
	encoded, err := original.Encode()
	if err != nil {
		t.Fatalf("Encode returned error: %s", err)
	}
	decoded := Decode(encoded)
	if decoded.Command != CommandNewBlock || decoded.Block.Hash != b.Hash {
		t.Fatalf("round-trip mismatch: got %+v", decoded)
	}
}

func TestRequestTipRoundTrip(t *testing.T) {
	encoded, err := RequestTip().Encode()
	if err != nil {
		t.Fatalf("Encode returned error: %s", err)
	}
	decoded := Decode(encoded)
	if decoded.Command != CommandRequestTip {
		t.Fatalf("expected RequestTip, got %+v", decoded)
	}
}

func TestNewTransactionRoundTrip(t *testing.T) {
	tx := transaction.New("alice", "bob", 10, 1, "sig")
	encoded, err := NewTransaction(tx).Encode()
	if err != nil {
		t.Fatalf("Encode returned error: %s", err)
	}
	decoded := Decode(encoded)
	if decoded.Command != CommandNewTransaction || decoded.Transaction.Sender != "alice" {
		t.Fatalf("round-trip mismatch: got %+v", decoded)
	}
}

func TestDecodeUnknownOnGarbage(t *testing.T) {
	decoded := Decode([]byte("not json at all"))
	if decoded.Command != CommandUnknown {
		t.Fatalf("expected CommandUnknown for garbage input, got %s", decoded.Command)
	}
}

func TestDecodeUnknownOnBadPayload(t *testing.T) {
	decoded := Decode([]byte(`{"command":"NewBlock","payload":{"index":"not-a-number"}}`))
	if decoded.Command != CommandUnknown {
		t.Fatalf("expected CommandUnknown for malformed payload, got %s", decoded.Command)
	}
}

func TestMessageFitsFramingBudget(t *testing.T) {
	encoded, err := RequestTip().Encode()
	if err != nil {
		t.Fatalf("Encode returned error: %s", err)
	}
	if len(encoded) > MaxMessageBytes {
		t.Fatalf("RequestTip message unexpectedly exceeds MaxMessageBytes")
	}
}
