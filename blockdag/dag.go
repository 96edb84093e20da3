// Package blockdag implements the ledger: a DAG of blocks connected by
// multi-parent references, its tip set, the pending-transaction pool,
// block creation and validation, difficulty retargeting, reward halving,
// GHOSTDAG weights, and balance queries.
package blockdag

import (
	"github.com/davecgh/go-spew/spew"
	deadlock "github.com/sasha-s/go-deadlock"

	"github.com/daglabs-fork/blockdagd/block"
	"github.com/daglabs-fork/blockdagd/logs"
	"github.com/daglabs-fork/blockdagd/transaction"
)

// BlockDAG is the ledger's entire mutable state: every known block, the
// current tip set, the pending-transaction queue, and the issuance/
// difficulty schedule. All access is serialized through lock, mirroring
// the single coarse-grained lock the spec mandates (§5) -- a
// github.com/sasha-s/go-deadlock mutex rather than plain sync.Mutex, so a
// lock accidentally held across a blocking call is reported instead of
// silently deadlocking the node.
type BlockDAG struct {
	lock deadlock.RWMutex

	blocks              map[string]*block.Block
	tips                []string
	pendingTransactions []*transaction.Transaction
	currentSupply       uint64
	difficulty          uint64
	blockTimes          []int64
	blockCount          uint64
	currentBlockReward  uint64
}

// New creates a fresh BlockDAG containing only the genesis block.
func New() *BlockDAG {
	genesis := block.Mine(0, []string{genesisParentHash}, nil, 0, genesisMessage, genesisDifficulty)

	dag := &BlockDAG{
		blocks:              map[string]*block.Block{genesis.Hash: genesis},
		tips:                []string{genesis.Hash},
		pendingTransactions: nil,
		currentSupply:       0,
		difficulty:          genesisDifficulty,
		blockTimes:          nil,
		blockCount:          1,
		currentBlockReward:  InitialBlockReward,
	}
	return dag
}

// AddTransaction appends tx to the pending-transaction pool. If the pool
// is at its soft cap, the oldest pending transaction is dropped to make
// room, per the backpressure policy spec.md §5 leaves as a policy
// decision. No signature check happens here: validation happens when the
// block containing tx is validated.
func (dag *BlockDAG) AddTransaction(tx *transaction.Transaction) {
	dag.lock.Lock()
	defer dag.lock.Unlock()

	if len(dag.pendingTransactions) >= pendingTransactionsSoftCap {
		logs.Ledger().Warnf("pending transaction pool at capacity (%d); dropping oldest", pendingTransactionsSoftCap)
		dag.pendingTransactions = dag.pendingTransactions[1:]
	}
	dag.pendingTransactions = append(dag.pendingTransactions, tx)
}

// Tips returns a copy of the current tip hash set.
func (dag *BlockDAG) Tips() []string {
	dag.lock.RLock()
	defer dag.lock.RUnlock()

	tips := make([]string, len(dag.tips))
	copy(tips, dag.tips)
	return tips
}

// Block returns the block with the given hash, if known.
func (dag *BlockDAG) Block(hash string) (*block.Block, bool) {
	dag.lock.RLock()
	defer dag.lock.RUnlock()

	b, ok := dag.blocks[hash]
	return b, ok
}

// HasBlock reports whether hash is a known block.
func (dag *BlockDAG) HasBlock(hash string) bool {
	dag.lock.RLock()
	defer dag.lock.RUnlock()

	_, ok := dag.blocks[hash]
	return ok
}

// BlockCount returns the number of blocks in the DAG, including genesis.
func (dag *BlockDAG) BlockCount() uint64 {
	dag.lock.RLock()
	defer dag.lock.RUnlock()

	return dag.blockCount
}

// CurrentSupply returns the total coin issued so far.
func (dag *BlockDAG) CurrentSupply() uint64 {
	dag.lock.RLock()
	defer dag.lock.RUnlock()

	return dag.currentSupply
}

// Difficulty returns the difficulty that will apply to the next mined
// block.
func (dag *BlockDAG) Difficulty() uint64 {
	dag.lock.RLock()
	defer dag.lock.RUnlock()

	return dag.difficulty
}

// CreateBlock mines a new block referencing the current tips and carrying
// every pending transaction plus a coinbase paying miner_address, installs
// it into the DAG on success, and runs the post-insertion bookkeeping
// (tip update, supply accounting, retargeting, halving). It returns nil
// once TotalSupply has been fully issued.
func (dag *BlockDAG) CreateBlock(minerAddress string) *block.Block {
	dag.lock.Lock()
	defer dag.lock.Unlock()

	if dag.currentSupply >= TotalSupply {
		logs.Ledger().Debugf("total supply reached; no more blocks can be created")
		return nil
	}

	previousHashes := make([]string, len(dag.tips))
	copy(previousHashes, dag.tips)
	index := uint64(len(dag.blocks))

	reward := dag.currentBlockReward
	if remaining := TotalSupply - dag.currentSupply; reward > remaining {
		reward = remaining
	}

	blockTransactions := make([]*transaction.Transaction, 0, len(dag.pendingTransactions)+1)
	blockTransactions = append(blockTransactions, dag.pendingTransactions...)
	blockTransactions = append(blockTransactions, transaction.NewCoinbase(minerAddress, reward))

	newBlock := block.Mine(index, previousHashes, blockTransactions, reward, "", dag.difficulty)

	if err := dag.validateBlockLocked(newBlock); err != nil {
		logs.Ledger().Errorf("newly mined block failed its own validation: %s", err)
		return nil
	}

	dag.insertBlockLocked(newBlock)
	dag.pendingTransactions = nil

	return newBlock
}

// InsertBlock validates b and, if valid, installs it into the DAG and runs
// the same tip/supply/difficulty/halving bookkeeping CreateBlock performs
// for locally mined blocks. It is the entry point for blocks received from
// peers (the network package's NewBlock handler). Validation and insertion
// happen atomically under the write lock so a racing read can never
// observe b partially applied.
func (dag *BlockDAG) InsertBlock(b *block.Block) error {
	dag.lock.Lock()
	defer dag.lock.Unlock()

	if _, ok := dag.blocks[b.Hash]; ok {
		return nil // already known; reinsertion is a no-op (content-addressed)
	}

	if err := dag.validateBlockLocked(b); err != nil {
		return err
	}

	dag.insertBlockLocked(b)
	return nil
}

// insertBlockLocked installs a validated block and runs the bookkeeping
// CreateBlock and the NewBlock wire handler both need. Callers must hold
// dag.lock.
func (dag *BlockDAG) insertBlockLocked(b *block.Block) {
	dag.blocks[b.Hash] = b
	dag.updateTipsLocked(b)

	dag.currentSupply += coinbaseAmount(b)
	dag.blockTimes = append(dag.blockTimes, b.Timestamp)
	dag.blockCount++

	if uint64(len(dag.blocks))%DifficultyAdjustmentInterval == 0 {
		dag.adjustDifficultyLocked()
	}
	if dag.blockCount%HalvingInterval == 0 {
		dag.currentBlockReward /= 2
		logs.Ledger().Infof("block reward halved to %d", dag.currentBlockReward)
	}
}

// coinbaseAmount returns the amount minted by b's coinbase transaction, or
// zero if it has none.
func coinbaseAmount(b *block.Block) uint64 {
	for _, tx := range b.Transactions {
		if tx.IsCoinbase() {
			return tx.Amount
		}
	}
	return 0
}

// updateTipsLocked removes every parent of b (other than the sentinel "0")
// from the tip set and appends b's hash. Callers must hold dag.lock.
func (dag *BlockDAG) updateTipsLocked(b *block.Block) {
	parents := make(map[string]struct{}, len(b.PreviousHashes))
	for _, parentHash := range b.PreviousHashes {
		if parentHash != genesisParentHash {
			parents[parentHash] = struct{}{}
		}
	}

	newTips := dag.tips[:0:0]
	for _, tip := range dag.tips {
		if _, isParent := parents[tip]; !isParent {
			newTips = append(newTips, tip)
		}
	}
	dag.tips = append(newTips, b.Hash)
}

// GetBalance sums every transaction across every block: +amount when addr
// is the receiver, -amount when addr is the sender. The total is kept as
// a signed sum and clamped at zero once all blocks are summed, so a net
// debit reports 0 rather than underflowing.
func (dag *BlockDAG) GetBalance(addr string) uint64 {
	dag.lock.RLock()
	defer dag.lock.RUnlock()

	var balance int64
	for _, b := range dag.blocks {
		for _, tx := range b.Transactions {
			if tx.Receiver == addr {
				balance += int64(tx.Amount)
			}
			if tx.Sender == addr {
				balance -= int64(tx.Amount)
			}
		}
	}
	if balance < 0 {
		return 0
	}
	return uint64(balance)
}

// Display returns a human-readable dump of every block in the DAG plus
// the current supply, current block reward, and block count.
func (dag *BlockDAG) Display() string {
	dag.lock.RLock()
	defer dag.lock.RUnlock()

	var out string
	for hash, b := range dag.blocks {
		out += "Block Hash: " + hash + "\n"
		out += spew.Sdump(b)
	}
	out += spew.Sprintf("Current Supply: %d\n", dag.currentSupply)
	out += spew.Sprintf("Current Block Reward: %d\n", dag.currentBlockReward)
	out += spew.Sprintf("Block Count: %d\n", dag.blockCount)
	return out
}
