package blockdag

import "github.com/daglabs-fork/blockdagd/logs"

// adjustDifficultyLocked retargets difficulty based on the actual time the
// last DifficultyAdjustmentInterval blocks took versus the expected time.
// Callers must hold dag.lock for writing.
func (dag *BlockDAG) adjustDifficultyLocked() {
	window := DifficultyAdjustmentInterval
	length := uint64(len(dag.blockTimes))
	if length < window {
		return
	}

	actual := dag.blockTimes[length-1] - dag.blockTimes[length-window]
	expected := TargetBlockTime * int64(window)

	switch {
	case actual < expected/2:
		dag.difficulty++
		logs.Ledger().Infof("difficulty increased to %d", dag.difficulty)
	case actual > expected*2:
		if dag.difficulty > 1 {
			dag.difficulty--
			logs.Ledger().Infof("difficulty decreased to %d", dag.difficulty)
		}
	}
}
