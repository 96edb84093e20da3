package wallet

import "testing"

func TestSignVerifyRoundTrip(t *testing.T) {
	w, err := New()
	if err != nil {
		t.Fatalf("New() returned error: %s", err)
	}

	msg := "deadbeef"
	sig := w.Sign(msg)
	if !Verify(w.Address(), msg, sig) {
		t.Fatalf("expected signature to verify")
	}
}

func TestVerifyRejectsTamperedMessage(t *testing.T) {
	w, err := New()
	if err != nil {
		t.Fatalf("New() returned error: %s", err)
	}

	sig := w.Sign("original message")
	if Verify(w.Address(), "tampered message", sig) {
		t.Fatalf("expected verification to fail for tampered message")
	}
}

func TestVerifyRejectsTamperedSignature(t *testing.T) {
	w, err := New()
	if err != nil {
		t.Fatalf("New() returned error: %s", err)
	}

	sig := []byte(w.Sign("message"))
	sig[0] ^= 0xff
	if Verify(w.Address(), "message", string(sig)) {
		t.Fatalf("expected verification to fail for tampered signature")
	}
}

func TestVerifyRejectsBadHex(t *testing.T) {
	if Verify("not-hex", "message", "also-not-hex") {
		t.Fatalf("expected verification to fail for undecodable inputs")
	}
}

func TestFromPrivateKeyHexRoundTrip(t *testing.T) {
	w, err := New()
	if err != nil {
		t.Fatalf("New() returned error: %s", err)
	}

	reconstructed, err := FromPrivateKeyHex(w.PrivateKeyHex())
	if err != nil {
		t.Fatalf("FromPrivateKeyHex returned error: %s", err)
	}
	if reconstructed.Address() != w.Address() {
		t.Fatalf("expected address %s, got %s", w.Address(), reconstructed.Address())
	}
}
