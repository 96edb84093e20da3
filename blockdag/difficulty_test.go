package blockdag

import "testing"

func TestAdjustDifficultyLocked(t *testing.T) {
	window := int64(DifficultyAdjustmentInterval)
	expected := TargetBlockTime * window

	cases := []struct {
		name            string
		startDifficulty uint64
		elapsed         int64
		wantDifficulty  uint64
	}{
		{"fast blocks increase difficulty", 5, expected/2 - 1, 6},
		{"slow blocks decrease difficulty", 5, expected*2 + 1, 4},
		{"slow blocks floor at one", 1, expected*2 + 1, 1},
		{"on-pace blocks leave difficulty unchanged", 5, expected, 5},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			dag := New()

			blockTimes := make([]int64, DifficultyAdjustmentInterval)
			blockTimes[len(blockTimes)-1] = c.elapsed
			for i := 0; i < len(blockTimes)-1; i++ {
				blockTimes[i] = 0
			}

			dag.lock.Lock()
			dag.blockTimes = blockTimes
			dag.difficulty = c.startDifficulty
			dag.adjustDifficultyLocked()
			got := dag.difficulty
			dag.lock.Unlock()

			if got != c.wantDifficulty {
				t.Fatalf("expected difficulty %d after elapsed %d, got %d", c.wantDifficulty, c.elapsed, got)
			}
		})
	}
}

func TestAdjustDifficultyLockedRequiresFullWindow(t *testing.T) {
	dag := New()

	dag.lock.Lock()
	dag.blockTimes = make([]int64, DifficultyAdjustmentInterval-1)
	dag.difficulty = 5
	dag.adjustDifficultyLocked()
	got := dag.difficulty
	dag.lock.Unlock()

	if got != 5 {
		t.Fatalf("expected difficulty unchanged with fewer than %d recorded block times, got %d", DifficultyAdjustmentInterval, got)
	}
}
