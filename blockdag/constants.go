package blockdag

// Protocol constants, named exactly as spec.md §6 names them.
const (
	// InitialBlockReward is the coinbase amount paid for each block
	// before any halving.
	InitialBlockReward uint64 = 50

	// HalvingInterval is the number of blocks between reward halvings.
	HalvingInterval uint64 = 18_000

	// TargetBlockTime is the expected number of milliseconds between
	// blocks, used by difficulty retargeting.
	TargetBlockTime int64 = 60_000

	// DifficultyAdjustmentInterval is the number of blocks between
	// difficulty retargets.
	DifficultyAdjustmentInterval uint64 = 10

	// TotalSupply is the maximum number of coins that can ever be
	// minted by coinbase transactions.
	TotalSupply uint64 = 18_000_000_000

	// genesisDifficulty is the difficulty the DAG starts at.
	genesisDifficulty uint64 = 4

	// genesisMessage is the human-readable note carried by the genesis
	// block.
	genesisMessage = "Genesis Block - Welcome to BlockDAG!"

	// genesisParentHash is the sentinel parent hash of the genesis
	// block, and the sentinel "no parent" entry GHOSTDAG treats as
	// zero-weight.
	genesisParentHash = "0"

	// pendingTransactionsSoftCap bounds the pending-transaction queue.
	// Once exceeded, the oldest pending transaction is dropped to make
	// room for the newest one, per spec.md §5's backpressure policy
	// left to implementations.
	pendingTransactionsSoftCap = 10_000
)
