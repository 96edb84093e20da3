// Package block implements block construction, proof-of-work mining, and
// the canonical hash that identifies a block.
package block

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	"github.com/daglabs-fork/blockdagd/transaction"
)

// Block is a node in the BlockDAG: a header plus an ordered list of
// transactions. Index, Timestamp, PreviousHashes, Nonce, and Transactions
// together determine Hash; Weight is filled in later by GHOSTDAG and is
// never part of the hash preimage.
type Block struct {
	Index          uint64                     `json:"index"`
	Timestamp      int64                      `json:"timestamp"`
	PreviousHashes []string                   `json:"previous_hashes"`
	Nonce          uint64                     `json:"nonce"`
	Hash           string                     `json:"hash"`
	Transactions   []*transaction.Transaction `json:"transactions"`
	Weight         uint64                     `json:"weight"`
	Reward         uint64                     `json:"reward"`
	Difficulty     uint64                     `json:"difficulty"`
	Message        string                     `json:"message,omitempty"`
}

// Mine constructs a new block referencing previousHashes, embedding txs
// (the caller is responsible for having already appended the coinbase),
// and performs a synchronous proof-of-work nonce search at the given
// difficulty. The search is uninterrupted: once started, a block is mined
// to completion.
func Mine(index uint64, previousHashes []string, txs []*transaction.Transaction, reward uint64, message string, difficulty uint64) *Block {
	timestamp := time.Now().UnixMilli()

	nonce, hash := mineNonce(index, timestamp, previousHashes, txs, difficulty)

	return &Block{
		Index:          index,
		Timestamp:      timestamp,
		PreviousHashes: previousHashes,
		Nonce:          nonce,
		Hash:           hash,
		Transactions:   txs,
		Weight:         0,
		Reward:         reward,
		Difficulty:     difficulty,
		Message:        message,
	}
}

// mineNonce searches nonce values starting at zero until CalculateHash
// produces a hex digest with difficulty leading zero nibbles.
func mineNonce(index uint64, timestamp int64, previousHashes []string, txs []*transaction.Transaction, difficulty uint64) (nonce uint64, hash string) {
	for nonce = 0; ; nonce++ {
		hash = CalculateHash(index, timestamp, previousHashes, nonce, txs)
		if HasLeadingZeroNibbles(hash, difficulty) {
			return nonce, hash
		}
	}
}

// HasLeadingZeroNibbles reports whether the first difficulty hex characters
// of hash are all '0'. Both Mine and blockdag.ValidateBlock call this to
// agree on what "satisfies difficulty" means.
func HasLeadingZeroNibbles(hash string, difficulty uint64) bool {
	if uint64(len(hash)) < difficulty {
		return false
	}
	for i := uint64(0); i < difficulty; i++ {
		if hash[i] != '0' {
			return false
		}
	}
	return true
}

// CalculateHash computes the block's canonical hash: the hex-encoded
// SHA-256 digest of index, timestamp, a stable rendering of
// previousHashes, nonce, and a stable rendering of txs. Producers
// (Mine) and validators (blockdag.validateBlock) must call this function
// with identical arguments to agree byte-for-byte on the preimage.
func CalculateHash(index uint64, timestamp int64, previousHashes []string, nonce uint64, txs []*transaction.Transaction) string {
	var preimage strings.Builder
	preimage.WriteString(strconv.FormatUint(index, 10))
	preimage.WriteString(strconv.FormatInt(timestamp, 10))
	preimage.WriteString(debugReprStrings(previousHashes))
	preimage.WriteString(strconv.FormatUint(nonce, 10))
	preimage.WriteString(debugReprTransactions(txs))

	sum := sha256.Sum256([]byte(preimage.String()))
	return hex.EncodeToString(sum[:])
}

// debugReprStrings renders a []string as a list-bracketed,
// comma-space-separated, quoted sequence: ["a", "b"]. It is part of the
// legacy hash preimage and must remain byte-stable across producer and
// validator.
func debugReprStrings(elements []string) string {
	quoted := make([]string, len(elements))
	for i, e := range elements {
		quoted[i] = strconv.Quote(e)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

// debugReprTransactions renders a transaction list the same way
// debugReprStrings renders a string list: each transaction is first
// rendered to a single deterministic line, then that line is treated as
// the "element" to be quoted and joined.
func debugReprTransactions(txs []*transaction.Transaction) string {
	elements := make([]string, len(txs))
	for i, tx := range txs {
		elements[i] = transactionDebugLine(tx)
	}
	return debugReprStrings(elements)
}

// transactionDebugLine is the stable single-line rendering of a
// transaction's fields used inside the block hash preimage.
func transactionDebugLine(tx *transaction.Transaction) string {
	var b strings.Builder
	b.WriteString("Transaction { sender: ")
	b.WriteString(strconv.Quote(tx.Sender))
	b.WriteString(", receiver: ")
	b.WriteString(strconv.Quote(tx.Receiver))
	b.WriteString(", amount: ")
	b.WriteString(strconv.FormatUint(tx.Amount, 10))
	b.WriteString(", fee: ")
	b.WriteString(strconv.FormatUint(tx.Fee, 10))
	b.WriteString(", signature: ")
	b.WriteString(strconv.Quote(tx.Signature))
	b.WriteString(" }")
	return b.String()
}
