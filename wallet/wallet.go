// Package wallet implements Ed25519 key generation, signing, and
// verification for BlockDAG addresses.
//
// An address is the lowercase hex encoding of a 32-byte Ed25519 public key.
// There is no separate address-derivation function: the sender field of a
// transaction IS the public key.
package wallet

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"

	"github.com/pkg/errors"
)

// CoinbaseSender is the sentinel sender value that exempts a transaction
// from signature verification.
const CoinbaseSender = "0"

// Wallet holds an Ed25519 keypair.
type Wallet struct {
	PublicKey  ed25519.PublicKey
	PrivateKey ed25519.PrivateKey
}

// New generates a fresh Ed25519 keypair from a cryptographic RNG.
func New() (*Wallet, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate ed25519 keypair")
	}
	return &Wallet{PublicKey: pub, PrivateKey: priv}, nil
}

// FromPrivateKeyHex reconstructs a wallet from a hex-encoded 64-byte
// Ed25519 private key (seed || public key, as the standard library stores
// it).
func FromPrivateKeyHex(privateKeyHex string) (*Wallet, error) {
	raw, err := hex.DecodeString(privateKeyHex)
	if err != nil {
		return nil, errors.Wrap(err, "invalid private key hex")
	}
	if len(raw) != ed25519.PrivateKeySize {
		return nil, errors.Errorf("invalid private key length %d, expected %d", len(raw), ed25519.PrivateKeySize)
	}
	priv := ed25519.PrivateKey(raw)
	return &Wallet{PublicKey: priv.Public().(ed25519.PublicKey), PrivateKey: priv}, nil
}

// Address returns the lowercase hex encoding of the wallet's public key.
func (w *Wallet) Address() string {
	return hex.EncodeToString(w.PublicKey)
}

// PrivateKeyHex returns the lowercase hex encoding of the wallet's private
// key.
func (w *Wallet) PrivateKeyHex() string {
	return hex.EncodeToString(w.PrivateKey)
}

// Sign produces a hex-encoded 64-byte Ed25519 signature over the raw UTF-8
// bytes of msg. No hashing is applied before signing: msg is expected to
// already be a transaction's canonical hash string.
func (w *Wallet) Sign(msg string) string {
	sig := ed25519.Sign(w.PrivateKey, []byte(msg))
	return hex.EncodeToString(sig)
}

// Verify reports whether sigHex is a valid Ed25519 signature by the holder
// of pubKeyHex over msg. Any decoding failure is treated as "not valid"
// rather than an error, matching the spec's "decoding errors are not fatal"
// rule.
func Verify(pubKeyHex, msg, sigHex string) bool {
	pubKeyBytes, err := hex.DecodeString(pubKeyHex)
	if err != nil || len(pubKeyBytes) != ed25519.PublicKeySize {
		return false
	}
	sigBytes, err := hex.DecodeString(sigHex)
	if err != nil || len(sigBytes) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(pubKeyBytes), []byte(msg), sigBytes)
}
