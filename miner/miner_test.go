package miner

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/daglabs-fork/blockdagd/blockdag"
)

func TestMineOncePersistsSnapshot(t *testing.T) {
	dag := blockdag.New()
	path := filepath.Join(t.TempDir(), "blockdag.json")

	m := New(dag, "A", path, time.Hour)
	m.mineOnce()

	if dag.BlockCount() != 2 {
		t.Fatalf("expected block count 2 after mining once, got %d", dag.BlockCount())
	}

	reloaded, err := blockdag.LoadFromFile(path)
	if err != nil {
		t.Fatalf("expected snapshot to have been persisted, got error: %s", err)
	}
	if reloaded.BlockCount() != dag.BlockCount() {
		t.Fatalf("expected persisted block count %d, got %d", dag.BlockCount(), reloaded.BlockCount())
	}
}

func TestMineOnceAssignsGhostdagWeights(t *testing.T) {
	dag := blockdag.New()
	path := filepath.Join(t.TempDir(), "blockdag.json")

	m := New(dag, "A", path, time.Hour)
	m.mineOnce()

	tip := dag.Tips()[0]
	b, ok := dag.Block(tip)
	if !ok {
		t.Fatalf("expected tip %s to be a known block", tip)
	}
	if b.Weight == 0 {
		t.Fatalf("expected Ghostdag to have assigned a nonzero weight to the new tip")
	}
}

func TestRunStopsPromptly(t *testing.T) {
	dag := blockdag.New()
	path := filepath.Join(t.TempDir(), "blockdag.json")

	m := New(dag, "A", path, time.Millisecond)

	done := make(chan struct{})
	go func() {
		m.Run()
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	m.Stop()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("expected Run to return promptly after Stop")
	}

	if dag.BlockCount() < 2 {
		t.Fatalf("expected at least one block to have been mined before stopping, got count %d", dag.BlockCount())
	}
}
