package blockdag

import (
	"github.com/pkg/errors"

	"github.com/daglabs-fork/blockdagd/block"
	"github.com/daglabs-fork/blockdagd/wallet"
)

// ValidateBlock reports whether b satisfies every rule in spec.md §4.5.
// A nil return means b is valid and may be inserted; a non-nil error
// describes the first rule it broke. Validation never panics: any hex or
// public-key decoding failure is treated as a validation failure, not a
// fatal error.
func (dag *BlockDAG) ValidateBlock(b *block.Block) error {
	dag.lock.RLock()
	defer dag.lock.RUnlock()

	return dag.validateBlockLocked(b)
}

// validateBlockLocked is ValidateBlock without acquiring the lock; callers
// must already hold it (for read or write).
func (dag *BlockDAG) validateBlockLocked(b *block.Block) error {
	for _, parentHash := range b.PreviousHashes {
		if parentHash == genesisParentHash {
			continue
		}
		if _, ok := dag.blocks[parentHash]; !ok {
			return errors.Errorf("unknown parent hash %s", parentHash)
		}
	}

	recomputedHash := block.CalculateHash(b.Index, b.Timestamp, b.PreviousHashes, b.Nonce, b.Transactions)
	if recomputedHash != b.Hash {
		return errors.Errorf("recomputed hash %s does not match claimed hash %s", recomputedHash, b.Hash)
	}

	if !block.HasLeadingZeroNibbles(b.Hash, b.Difficulty) {
		return errors.Errorf("hash %s does not satisfy difficulty %d", b.Hash, b.Difficulty)
	}

	coinbaseCount := 0
	var coinbaseAmountSeen uint64
	for _, tx := range b.Transactions {
		if tx.IsCoinbase() {
			coinbaseCount++
			coinbaseAmountSeen = tx.Amount
			continue
		}
		if !wallet.Verify(tx.Sender, tx.CanonicalHash(), tx.Signature) {
			return errors.Errorf("invalid signature for transaction from %s", tx.Sender)
		}
	}

	if coinbaseCount > 1 {
		return errors.Errorf("block carries %d coinbase transactions, at most one is allowed", coinbaseCount)
	}
	if coinbaseCount == 1 && coinbaseAmountSeen != b.Reward {
		return errors.Errorf("coinbase amount %d does not match block reward %d", coinbaseAmountSeen, b.Reward)
	}

	return nil
}
