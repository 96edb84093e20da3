// Package miner runs the continuous block-creation loop: mine a block
// against the shared ledger, persist the snapshot, log the address's
// balance, and sleep -- the server/loop shape of original_source's
// src/bin/miner.rs, translated to a goroutine instead of a tokio task.
package miner

import (
	"time"

	"github.com/daglabs-fork/blockdagd/blockdag"
	"github.com/daglabs-fork/blockdagd/logs"
)

// Miner periodically mines a block paying Address and persists the ledger.
type Miner struct {
	dag          *blockdag.BlockDAG
	address      string
	snapshotPath string
	interval     time.Duration

	stop chan struct{}
}

// New constructs a Miner that mines into dag on behalf of address,
// persisting to snapshotPath after every block it successfully mines.
func New(dag *blockdag.BlockDAG, address, snapshotPath string, interval time.Duration) *Miner {
	return &Miner{
		dag:          dag,
		address:      address,
		snapshotPath: snapshotPath,
		interval:     interval,
		stop:         make(chan struct{}),
	}
}

// Run mines continuously until Stop is called. It is meant to be run in
// its own goroutine, matching the miner loop's own task in the Rust
// original.
func (m *Miner) Run() {
	logs.Miner().Infof("mining to address %s", m.address)

	for {
		select {
		case <-m.stop:
			return
		default:
		}

		m.mineOnce()

		select {
		case <-m.stop:
			return
		case <-time.After(m.interval):
		}
	}
}

// Stop ends the mining loop after the in-flight block, if any, completes.
// A block once begun is always mined to completion: there is no
// cooperative cancellation of the proof-of-work search itself.
func (m *Miner) Stop() {
	close(m.stop)
}

func (m *Miner) mineOnce() {
	newBlock := m.dag.CreateBlock(m.address)
	if newBlock == nil {
		logs.Miner().Debugf("no block created this round (supply exhausted or own block failed validation)")
		return
	}

	logs.Miner().Infof("created block %s at index %d with %d transactions", newBlock.Hash, newBlock.Index, len(newBlock.Transactions))

	m.dag.Ghostdag()

	if err := m.dag.SaveToFile(m.snapshotPath); err != nil {
		// A failed snapshot save is fatal to the miner loop by contract: the
		// operator must see persistent loss rather than silently keep
		// mining on unsaved state.
		logs.Miner().Criticalf("failed to persist snapshot to %s: %s", m.snapshotPath, err)
		panic(err)
	}

	logs.Miner().Infof("balance for %s: %d", m.address, m.dag.GetBalance(m.address))
}
