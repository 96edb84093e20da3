// Package transaction implements the value-transfer record that moves
// between peers and is embedded in mined blocks.
package transaction

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
)

// CoinbaseSender is the sentinel sender value identifying a coinbase
// transaction. Coinbase transactions carry no signature.
const CoinbaseSender = "0"

// Transaction is a value transfer from Sender to Receiver. Sender and
// Receiver are hex-encoded 32-byte Ed25519 public keys, or the literal "0"
// for Sender on a coinbase transaction.
type Transaction struct {
	Sender    string `json:"sender"`
	Receiver  string `json:"receiver"`
	Amount    uint64 `json:"amount"`
	Fee       uint64 `json:"fee"`
	Signature string `json:"signature"`
}

// New constructs a Transaction. It is a pure aggregation of its fields;
// signing happens separately over CanonicalHash.
func New(sender, receiver string, amount, fee uint64, signature string) *Transaction {
	return &Transaction{
		Sender:    sender,
		Receiver:  receiver,
		Amount:    amount,
		Fee:       fee,
		Signature: signature,
	}
}

// NewCoinbase constructs the reward-minting transaction a block producer
// appends last to its transaction list.
func NewCoinbase(receiver string, amount uint64) *Transaction {
	return New(CoinbaseSender, receiver, amount, 0, "")
}

// IsCoinbase reports whether tx mints new coins rather than transferring
// existing balance, identified solely by Sender.
func (tx *Transaction) IsCoinbase() bool {
	return tx.Sender == CoinbaseSender
}

// CanonicalHash returns the hex-encoded SHA-256 digest of the transaction's
// four value fields. The signature is deliberately excluded: it is applied
// over this hash, not included in it. The result depends only on the field
// values, not on construction or insertion order.
func (tx *Transaction) CanonicalHash() string {
	preimage := tx.Sender + tx.Receiver + strconv.FormatUint(tx.Amount, 10) + strconv.FormatUint(tx.Fee, 10)
	sum := sha256.Sum256([]byte(preimage))
	return hex.EncodeToString(sum[:])
}
