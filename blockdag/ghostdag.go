package blockdag

import "github.com/daglabs-fork/blockdagd/logs"

// Ghostdag recomputes every block's Weight field: the block's own
// transaction count plus one, plus the weights of its parents (see
// computeWeight). An ancestor reachable through more than one parent
// contributes once per parent path. It mutates only Weight, never the
// DAG's topology, and may be invoked repeatedly (e.g. after mining, or on
// query).
func (dag *BlockDAG) Ghostdag() {
	dag.lock.Lock()
	defer dag.lock.Unlock()

	visited := make(map[string]uint64, len(dag.blocks))
	for _, tip := range dag.tips {
		dag.computeWeight(tip, visited)
	}

	for hash, weight := range visited {
		if b, ok := dag.blocks[hash]; ok {
			b.Weight = weight
		}
	}
}

// computeWeight returns the GHOSTDAG weight of the block identified by
// hash, memoizing into visited so that in diamond-shaped ancestries (a
// block reachable through more than one path) each block's weight is
// computed exactly once instead of recomputed exponentially.
//
//	weight(B) = (|B.transactions| + 1) + sum(weight(P) for P in B.parents, P != "0")
func (dag *BlockDAG) computeWeight(hash string, visited map[string]uint64) uint64 {
	if weight, ok := visited[hash]; ok {
		return weight
	}

	if hash == genesisParentHash {
		return 0
	}

	b, ok := dag.blocks[hash]
	if !ok {
		logs.Ledger().Warnf("ghostdag: block %s not found in DAG", hash)
		return 0
	}

	weight := uint64(len(b.Transactions)) + 1
	for _, parentHash := range b.PreviousHashes {
		weight += dag.computeWeight(parentHash, visited)
	}

	visited[hash] = weight
	return weight
}
