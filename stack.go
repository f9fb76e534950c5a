package gotreesitter

// Version identifies one glrStack inside a Stack. Versions are dense
// indices, not stable handles: RemoveVersion and Merge can renumber
// other versions via a swap-with-last, so callers must re-resolve a
// Version after any mutating Stack call if they intend to keep using it.
type Version int

// summaryEntry is a (state, position) pair visited while a version
// searched for a place to resume after an error, used by recovery to
// jump a paused version straight back into the grammar instead of
// skipping one token at a time.
type summaryEntry struct {
	state StateID
	pos   Position
}

// Stack is the graph-structured stack of a GLR parse: a bounded set of
// independently-advancing versions. This implementation represents each
// version as its own cloned entry slice (glrStack) rather than a literal
// shared-predecessor DAG; see DESIGN.md for why that tradeoff is sound
// for every invariant this runtime needs (version count bound, merge
// soundness, select_tree totality) even though it cannot model a single
// pop_count call fanning out across multiple *shared* predecessor paths.
type Stack struct {
	versions []glrStack
}

// NewStack creates a Stack with a single version at the initial state.
func NewStack(initial StateID) *Stack {
	return &Stack{versions: []glrStack{newGLRStack(initial)}}
}

// VersionCount returns the number of live versions.
func (s *Stack) VersionCount() int { return len(s.versions) }

func (s *Stack) at(v Version) *glrStack { return &s.versions[v] }

// State returns the state at the top of version v.
func (s *Stack) State(v Version) StateID { return s.at(v).top().state }

// Position returns the input position version v has consumed up to.
func (s *Stack) Position(v Version) Position { return s.at(v).pos }

// SetPosition overrides v's consumed-input position directly, without
// pushing or popping an entry. Used by recoverToState to align a resumed
// version's position with the summary point it jumped back to.
func (s *Stack) SetPosition(v Version, pos Position) { s.at(v).pos = pos }

// Push shifts a new entry onto version v in place.
func (s *Stack) Push(v Version, state StateID, node *Node, pos Position) {
	st := s.at(v)
	st.entries = append(st.entries, stackEntry{state: state, node: node})
	st.pos = pos
}

// CopyVersion clones version v into a brand new version and returns its
// id. Used before a reduce action so that other actions in the same
// ParseActionEntry still see v's pre-reduction stack.
func (s *Stack) CopyVersion(v Version) Version {
	s.versions = append(s.versions, s.at(v).clone())
	return Version(len(s.versions) - 1)
}

// PopCount pops n entries off version v in place and returns their nodes
// in left-to-right (oldest-first) order, ready to become a reduce's
// children slice.
func (s *Stack) PopCount(v Version, n int) []*Node {
	st := s.at(v)
	if n <= 0 || n > len(st.entries)-1 {
		if n > len(st.entries) {
			n = len(st.entries)
		}
	}
	start := len(st.entries) - n
	if start < 0 {
		start = 0
		n = len(st.entries)
	}
	nodes := make([]*Node, n)
	for i := 0; i < n; i++ {
		nodes[i] = st.entries[start+i].node
	}
	st.entries = st.entries[:start]
	return nodes
}

// PopAll removes every entry except the bottom sentinel and returns the
// discarded nodes, used when a version is abandoned and to collect a
// finished or halted version's nodes for buildResult.
func (s *Stack) PopAll(v Version) []*Node {
	st := s.at(v)
	if len(st.entries) <= 1 {
		return nil
	}
	nodes := make([]*Node, 0, len(st.entries)-1)
	for _, e := range st.entries[1:] {
		if e.node != nil {
			nodes = append(nodes, e.node)
		}
	}
	st.entries = st.entries[:1]
	return nodes
}

// PopPending pops entries off the top of v while they are MISSING leaves
// (isMissing, as tryMissingToken pushes them), returning them; used to
// unwind them once a version resumes normal parsing.
func (s *Stack) PopPending(v Version) []*Node {
	st := s.at(v)
	var nodes []*Node
	for len(st.entries) > 1 {
		top := st.entries[len(st.entries)-1]
		if top.node == nil || !top.node.isMissing {
			break
		}
		nodes = append(nodes, top.node)
		st.entries = st.entries[:len(st.entries)-1]
	}
	return nodes
}

// PopError discards entries accumulated under ERROR recovery (those with
// hasError set) from the top of v, stopping at the first clean entry.
func (s *Stack) PopError(v Version) []*Node {
	st := s.at(v)
	var nodes []*Node
	for len(st.entries) > 1 {
		top := st.entries[len(st.entries)-1]
		if top.node == nil || !top.node.hasError {
			break
		}
		nodes = append(nodes, top.node)
		st.entries = st.entries[:len(st.entries)-1]
	}
	return nodes
}

// Halt marks v as abandoned; the driver removes halted versions at the
// next condense point.
func (s *Stack) Halt(v Version) { s.at(v).halted = true }

// IsHalted reports whether v has been given up on.
func (s *Stack) IsHalted(v Version) bool { return s.at(v).halted }

// Pause parks v at a candidate recovery point instead of discarding it.
func (s *Stack) Pause(v Version, sym Symbol) {
	st := s.at(v)
	st.paused = true
	st.pausedSymbol = sym
}

// Resume clears a paused version's pause flag so the driver treats it as
// active again.
func (s *Stack) Resume(v Version) { s.at(v).paused = false }

// IsPaused reports whether v is parked awaiting a recovery decision.
func (s *Stack) IsPaused(v Version) bool { return s.at(v).paused }

// IsActive reports whether v is neither halted nor paused.
func (s *Stack) IsActive(v Version) bool {
	st := s.at(v)
	return !st.halted && !st.paused
}

// ErrorCost returns v's accumulated recovery cost.
func (s *Stack) ErrorCost(v Version) uint32 { return s.at(v).errorCost }

// AddErrorCost adds delta to v's accumulated recovery cost.
func (s *Stack) AddErrorCost(v Version, delta uint32) { s.at(v).errorCost += delta }

// NodeCountSinceError returns how many trees v has built since its last
// error entry.
func (s *Stack) NodeCountSinceError(v Version) uint32 { return s.at(v).nodeCountSinceError }

// IncrementNodeCountSinceError bumps v's clean-tree counter; ResetNodeCountSinceError
// zeroes it when a fresh error is recorded.
func (s *Stack) IncrementNodeCountSinceError(v Version) { s.at(v).nodeCountSinceError++ }
func (s *Stack) ResetNodeCountSinceError(v Version)      { s.at(v).nodeCountSinceError = 0 }

// DynamicPrecedence returns v's accumulated dynamic precedence score.
func (s *Stack) DynamicPrecedence(v Version) int { return s.at(v).score }

// AddDynamicPrecedence adds delta to v's score.
func (s *Stack) AddDynamicPrecedence(v Version, delta int) { s.at(v).score += delta }

// LastExternalToken returns the most recent node on v's path that carried
// external scanner state, or nil.
func (s *Stack) LastExternalToken(v Version) *Node { return s.at(v).lastExternalToken }

// SetLastExternalToken records n as the most recent external-token node
// on v's path.
func (s *Stack) SetLastExternalToken(v Version, n *Node) { s.at(v).lastExternalToken = n }

// RecordSummary appends a (state, position) visited while v searched for
// a recovery target, dropping the oldest entry once maxDepth is reached.
func (s *Stack) RecordSummary(v Version, state StateID, pos Position, maxDepth int) {
	st := s.at(v)
	st.summary = append(st.summary, summaryEntry{state: state, pos: pos})
	if len(st.summary) > maxDepth {
		st.summary = st.summary[len(st.summary)-maxDepth:]
	}
}

// GetSummary returns v's recorded recovery-search trail.
func (s *Stack) GetSummary(v Version) []summaryEntry { return s.at(v).summary }

// SwapVersions exchanges the positions of a and b in the version list.
func (s *Stack) SwapVersions(a, b Version) {
	s.versions[a], s.versions[b] = s.versions[b], s.versions[a]
}

// RemoveVersion drops v by swapping it with the last version and
// truncating, so every other version keeps a stable relative order
// except whichever version used to be last (now at index v).
func (s *Stack) RemoveVersion(v Version) {
	last := Version(len(s.versions) - 1)
	if v != last {
		s.SwapVersions(v, last)
	}
	s.versions = s.versions[:last]
}

// Renumber replaces dst's content with src's, then removes src. This is
// how the driver folds a fresh reduction result back onto the version
// slot that triggered it while any *other* reduction results created
// alongside it (see advance) remain as independent forked versions.
func (s *Stack) Renumber(src, dst Version) {
	if src == dst {
		return
	}
	*s.at(dst) = *s.at(src)
	s.RemoveVersion(src)
}

// mergeKey identifies when two versions represent the same logical
// position in the grammar and may be condensed into one, matching
// ts_stack_can_merge: same top state, same input position, and
// byte-identical external scanner state.
type mergeKey struct {
	state     StateID
	pos       Position
	extBytes  string
}

func (s *Stack) mergeKeyOf(v Version) mergeKey {
	st := s.at(v)
	return mergeKey{
		state:    st.top().state,
		pos:      st.pos,
		extBytes: externalTokenStateBytes(st.lastExternalToken),
	}
}

// CanMerge reports whether a and b share a merge key.
func (s *Stack) CanMerge(a, b Version) bool { return s.mergeKeyOf(a) == s.mergeKeyOf(b) }

// externalTokenStateBytes returns the serialized external scanner state
// carried by n, or "" if n carries none. Comparing these strings is how
// externalTokenStateEqual (ts_stack_can_merge's byte-equality check) is
// implemented without exposing the scanner payload type.
func externalTokenStateBytes(n *Node) string {
	if n == nil {
		return ""
	}
	return string(n.externalTokenState)
}

// externalTokenStateEqual reports whether a and b carry bit-identical
// external scanner state, the extra condition ts_stack_can_merge applies
// beyond matching (state, position).
func externalTokenStateEqual(a, b *Node) bool {
	return externalTokenStateBytes(a) == externalTokenStateBytes(b)
}

// Merge attempts to fold b into a when they share a merge key, keeping
// whichever version select_tree prefers and discarding the other.
// Reports whether a merge happened.
func (s *Stack) Merge(a, b Version) bool {
	if !s.CanMerge(a, b) {
		return false
	}
	if betterVersion(s, a, b) == b {
		s.SwapVersions(a, b)
	}
	for _, n := range s.PopAll(b) {
		n.Release()
	}
	s.RemoveVersion(b)
	return true
}

// Clear resets the stack to a single version at the given initial state.
func (s *Stack) Clear(initial StateID) {
	s.versions = []glrStack{newGLRStack(initial)}
}

// Pending returns every version that is neither halted nor accepted yet,
// i.e. still has work left for the driver.
func (s *Stack) Pending() []Version {
	var out []Version
	for i := range s.versions {
		v := Version(i)
		if !s.IsHalted(v) && !s.at(v).accepted {
			out = append(out, v)
		}
	}
	return out
}

// Accepted returns every version that has reached a ParseActionAccept.
func (s *Stack) Accepted() []Version {
	var out []Version
	for i := range s.versions {
		v := Version(i)
		if s.at(v).accepted {
			out = append(out, v)
		}
	}
	return out
}
