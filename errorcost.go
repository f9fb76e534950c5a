package gotreesitter

// Error cost constants, grounded on the weights parser.c applies when
// scoring how "bad" a version's error-recovery path has been. Lower cost
// wins when select_tree and condense_stack compare two versions.
const (
	ErrorCostPerSkippedTree    uint32 = 100
	ErrorCostPerSkippedChar    uint32 = 1
	ErrorCostPerSkippedLine    uint32 = 30
	ErrorCostPerMissingTree    uint32 = 115
	ErrorCostPerRecovery       uint32 = 500
	ErrorCostPerSkippedError   uint32 = 250
)

// maxCostDifference is MAX_COST_DIFFERENCE expressed in error-cost units
// (16 skipped trees). No version is pruned on it: compareVersions ranks
// versions by error cost whatever the size of the difference.
const maxCostDifference = 16 * ErrorCostPerSkippedTree

// skippedTreeCost is the immediate cost of discarding a single lookahead
// tree during error recovery, scaled by how many source bytes and lines
// it spans.
func skippedTreeCost(byteLen uint32, lineCount uint32) uint32 {
	return ErrorCostPerSkippedTree + byteLen*ErrorCostPerSkippedChar + lineCount*ErrorCostPerSkippedLine
}

// missingTokenCost is the cost of synthesizing a MISSING leaf to let a
// reduce or shift proceed without consuming input.
func missingTokenCost() uint32 { return ErrorCostPerMissingTree }

// errorEntryCost scores one entry skipped while scanning for a recovery
// state: its own depth (trees already accumulated under ERROR) plus the
// distance in bytes/rows from where the error began.
func errorEntryCost(depth uint32, byteLen uint32, lineCount uint32) uint32 {
	return depth*ErrorCostPerSkippedTree + byteLen*ErrorCostPerSkippedChar + lineCount*ErrorCostPerSkippedLine
}
