package gotreesitter

// glrStack is one version of the parse stack in a GLR parser.
// When the parse table has multiple actions for a (state, symbol) pair,
// the parser forks: one glrStack per alternative. Stacks that hit errors
// are dropped; surviving stacks are merged when their top states converge.
type glrStack struct {
	entries []stackEntry
	// score tracks dynamic precedence accumulated through reduce actions.
	// When merging ambiguous stacks, the one with the highest score wins.
	score int
	// accepted is set when the stack reaches a ParseActionAccept.
	accepted bool

	// pos is the input position this version has consumed up to.
	pos Position
	// errorCost accumulates the recovery cost model's penalty for this
	// version's path; lower is better when comparing versions.
	errorCost uint32
	// nodeCountSinceError counts trees built since the last error, used
	// to decide whether an error-carrying version still has a chance of
	// catching up with a clean one.
	nodeCountSinceError uint32
	// paused is set by pause-and-summarize error recovery: the version is
	// parked at a candidate resume point instead of being dropped.
	paused bool
	pausedSymbol Symbol
	// halted marks a version the driver gave up on (no recovery found).
	halted bool
	// lastExternalToken is the most recent node that carried external
	// scanner state, used as part of the merge key so versions with
	// incompatible external-scanner state are never merged.
	lastExternalToken *Node
	// summary records (state, position) pairs visited while searching for
	// a recovery target, capped by Tunables.MaxSummaryDepth.
	summary []summaryEntry
}

func newGLRStack(initial StateID) glrStack {
	return glrStack{
		entries: []stackEntry{{state: initial, node: nil}},
	}
}

func (s *glrStack) top() stackEntry {
	return s.entries[len(s.entries)-1]
}

func (s *glrStack) clone() glrStack {
	entries := make([]stackEntry, len(s.entries))
	copy(entries, s.entries)
	clone := glrStack{
		entries:             entries,
		score:               s.score,
		pos:                 s.pos,
		errorCost:           s.errorCost,
		nodeCountSinceError: s.nodeCountSinceError,
		paused:              s.paused,
		pausedSymbol:        s.pausedSymbol,
		lastExternalToken:   s.lastExternalToken,
	}
	if s.summary != nil {
		clone.summary = append([]summaryEntry(nil), s.summary...)
	}
	return clone
}
