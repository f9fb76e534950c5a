package gotreesitter

import "fmt"

// Parser drives an LR(1) parse table over a token stream, forking into
// multiple versions of a Stack whenever the table hands back more than
// one action for a (state, symbol) pair and recovering from dead ends
// with a small cost model instead of failing outright. This is the core
// of the runtime: everything else (incremental reuse, the CLI, external
// scanners) sits on top of Parse/ParseIncremental.
type Parser struct {
	language    *Language
	tunables    Tunables
	logger      Logger
	haltOnError bool
}

// NewParser creates a new Parser for the given language, using
// DefaultTunables and a no-op logger until SetLogger/SetTunables is
// called.
func NewParser(lang *Language) *Parser {
	return &Parser{language: lang, tunables: DefaultTunables(), logger: noopLogger{}}
}

// SetTunables replaces the parser's version-count and recovery-search
// limits.
func (p *Parser) SetTunables(t Tunables) { p.tunables = t }

// SetLogger installs a sink for parse-time diagnostics. A nil logger
// installs the no-op sink.
func (p *Parser) SetLogger(l Logger) {
	if l == nil {
		l = noopLogger{}
	}
	p.logger = l
}

// SetHaltOnError controls whether the driver stops at the first sign of
// trouble (any version carrying positive error cost after a condense
// sweep) instead of letting recovery run to completion. Mirrors
// spec.md's halt_on_error parse parameter.
func (p *Parser) SetHaltOnError(b bool) { p.haltOnError = b }

// stackEntry is a single entry on a version's LR stack, pairing a parser
// state with the syntax tree node that was shifted or reduced into that
// state. The bottom entry of every version always carries a nil node.
type stackEntry struct {
	state StateID
	node  *Node
}

// advanceOutcome reports what a single call to advance did to a version.
type advanceOutcome int

const (
	advanceShifted advanceOutcome = iota
	advanceAccepted
	advanceHalted
	advancePaused
)

// Parse tokenizes and parses source, returning a syntax tree. If the
// input is empty (or lexes straight to EOF, e.g. whitespace-only), it
// returns a tree with a nil root.
func (p *Parser) Parse(source []byte) *Tree {
	return p.ParseWithTokenSource(source, newDFATokenSource(p.language, source))
}

// ParseIncremental reparses source, reusing unchanged subtrees of
// oldTree wherever the edits recorded on it allow it.
func (p *Parser) ParseIncremental(source []byte, oldTree *Tree) *Tree {
	return p.ParseIncrementalWithTokenSource(source, oldTree, newDFATokenSource(p.language, source))
}

// ParseWithTokenSource parses source using a caller-supplied TokenSource
// instead of the default DFA lexer, letting tests and embedders drive
// the parser off a hand-built token stream.
func (p *Parser) ParseWithTokenSource(source []byte, ts TokenSource) *Tree {
	return p.parse(source, ts, nil)
}

// ParseIncrementalWithTokenSource combines incremental reuse with a
// caller-supplied TokenSource.
func (p *Parser) ParseIncrementalWithTokenSource(source []byte, oldTree *Tree, ts TokenSource) *Tree {
	return p.parse(source, ts, oldTree)
}

func (p *Parser) parse(source []byte, ts TokenSource, oldTree *Tree) *Tree {
	if len(p.language.LexStates) == 0 {
		return NewTree(nil, source, p.language)
	}

	stack := NewStack(p.language.InitialState)
	pool := NewPool(oldTree != nil)

	var idx *reuseIndex
	if oldTree != nil {
		idx = buildReuseIndex(oldTree, source, nil)
	}

	lookahead := p.nextLookahead(stack, 0, ts, idx)

	// A document that lexes straight to EOF with no accept action at the
	// initial state is empty (or all-whitespace): report an empty tree
	// rather than sending a single non-existent token through recovery.
	if lookahead.Symbol == EndSymbol && !p.lookupAction(stack.State(0), EndSymbol).HasActions() {
		return NewTree(nil, source, p.language)
	}

	for {
		shiftedAny := false
		n := stack.VersionCount()
		for vi := 0; vi < n; vi++ {
			v := Version(vi)
			if stack.IsHalted(v) || stack.IsPaused(v) || stack.at(v).accepted {
				continue
			}
			if p.advance(stack, v, &lookahead, ts, pool) == advanceShifted {
				shiftedAny = true
			}
			n = stack.VersionCount()
		}

		resumed := p.resumePausedVersions(stack, lookahead, pool)

		condenseStack(stack, p.tunables)

		pending := stack.Pending()
		accepted := stack.Accepted()

		if p.haltOnError {
			if v, ok := p.cheapestErroring(stack, pending); ok {
				p.logger.Log(LogParse, fmt.Sprintf("halting parse early: version %d carries error cost %d", v, stack.ErrorCost(v)))
				return p.haltParse(stack, v, source, pool)
			}
		}

		if len(pending) == 0 || (!shiftedAny && !resumed) {
			if len(accepted) == 0 {
				return NewTree(nil, source, p.language)
			}
			winner := selectTree(stack, accepted)
			return p.buildResult(stack.PopAll(winner), source, pool)
		}

		lookahead = p.nextLookahead(stack, pending[0], ts, idx)
	}
}

// resumePausedVersions tries to jump every version recovery parked via
// Pause straight to some other active version's current (state,
// position) via recoverToState, the summary-jump half of spec.md's
// pause/summary/resume recovery flow. Reports whether any version
// actually resumed, so the caller's termination check doesn't mistake a
// round that only resumed (and will shift next round) for a dead end.
func (p *Parser) resumePausedVersions(stack *Stack, lookahead Token, pool *Pool) bool {
	resumedAny := false
	n := stack.VersionCount()
	for i := 0; i < n; i++ {
		v := Version(i)
		if !stack.IsPaused(v) {
			continue
		}
		for j := 0; j < n; j++ {
			other := Version(j)
			if other == v || stack.IsHalted(other) || stack.IsPaused(other) {
				continue
			}
			if p.recoverToState(stack, v, stack.State(other), stack.Position(other), lookahead, pool) {
				resumedAny = true
				break
			}
		}
	}
	return resumedAny
}

// cheapestErroring returns the pending version with the lowest positive
// error cost, if any version has incurred one.
func (p *Parser) cheapestErroring(stack *Stack, pending []Version) (Version, bool) {
	best := Version(0)
	found := false
	var bestCost uint32
	for _, v := range pending {
		cost := stack.ErrorCost(v)
		if cost == 0 {
			continue
		}
		if !found || cost < bestCost {
			best, bestCost, found = v, cost, true
		}
	}
	return best, found
}

// haltParse drives v to the end of input with a filler ERROR node
// covering whatever bytes remain and returns v's nodes through
// buildResult, so the parse terminates with a tree rather than running
// recovery to completion. No EOF token is pushed or accepted; when v's
// stack holds a single node, that node becomes the root as it is.
func (p *Parser) haltParse(stack *Stack, v Version, source []byte, pool *Pool) *Tree {
	pos := stack.Position(v)
	if pos.Bytes < uint32(len(source)) {
		endPoint := pointAtOffset(source, len(source))
		filler := pool.makeError(pos.Bytes, uint32(len(source)), pos.Point, endPoint)
		stack.AddErrorCost(v, filler.errorCost)
		stack.Push(v, stack.State(v), filler, Position{Bytes: uint32(len(source)), Point: endPoint})
	}
	return p.buildResult(stack.PopAll(v), source, pool)
}

// nextLookahead fetches the next token for v, first giving idx a chance
// to splice in a whole reused subtree from the previous tree (skipping
// however much re-lexing and re-parsing that subtree would have taken).
func (p *Parser) nextLookahead(stack *Stack, v Version, ts TokenSource, idx *reuseIndex) Token {
	if dts, ok := ts.(*dfaTokenSource); ok {
		dts.restoreExternalScanner(stack.LastExternalToken(v))
	}
	tok := ts.Next(stack.State(v))
	if idx == nil {
		return tok
	}
	if reused, ok := p.tryReuseSubtree(stack.at(v), tok, ts, idx); ok {
		return reused
	}
	return tok
}

// advance drives version v forward by exactly one shift, or until it
// accepts or is halted, applying every reduce action encountered along
// the way in place. When the table hands back more than one action for
// v's current (state, symbol), every action but the last runs against a
// freshly cloned version (leaving v's pre-action stack untouched for its
// siblings) and the last one is applied to v directly, which is how
// ambiguity actually forks: the earlier clones survive as independent
// versions, and v itself becomes the branch matching the final action.
func (p *Parser) advance(stack *Stack, v Version, lookahead *Token, ts TokenSource, pool *Pool) advanceOutcome {
	for {
		state := stack.State(v)
		entry := p.lookupAction(state, lookahead.Symbol)
		if !entry.HasActions() {
			tok, ok := p.handleError(stack, v, *lookahead, ts, pool)
			*lookahead = tok
			if !ok {
				if stack.IsPaused(v) {
					return advancePaused
				}
				return advanceHalted
			}
			continue
		}

		lastReduceIdx := -1
		for i, act := range entry.Actions {
			if act.Type == ParseActionReduce {
				lastReduceIdx = i
			}
		}

		outcome, done := p.applyActions(stack, v, state, entry, lastReduceIdx, lookahead, pool)
		if done {
			return outcome
		}
	}
}

// applyActions walks one ParseActionEntry in table order. Shift, Accept
// and Recover end the version's turn immediately (done=true); Reduce
// leaves done=false so advance's loop retries the (now updated) state.
func (p *Parser) applyActions(stack *Stack, v Version, state StateID, entry *ParseActionEntry, lastReduceIdx int, lookahead *Token, pool *Pool) (advanceOutcome, bool) {
	for i, act := range entry.Actions {
		switch act.Type {
		case ParseActionShift:
			named := p.isNamedSymbol(lookahead.Symbol)
			leaf := pool.makeLeaf(lookahead.Symbol, named, lookahead.StartByte, lookahead.EndByte, lookahead.StartPoint, lookahead.EndPoint)
			leaf.extra = act.Extra
			leaf.parseState = state
			leaf.hasExternalTokens = lookahead.HasExternalTokens
			leaf.externalTokenState = lookahead.ExternalState
			if lookahead.BytesScanned > 0 {
				leaf.bytesScanned = lookahead.BytesScanned
			} else {
				leaf.bytesScanned = leaf.endByte - leaf.startByte
			}
			stack.Push(v, act.State, leaf, endPositionOfToken(*lookahead))
			if leaf.hasExternalTokens {
				stack.SetLastExternalToken(v, leaf)
			}
			if p.betterVersionExists(stack, v) {
				stack.Halt(v)
			}
			return advanceShifted, true

		case ParseActionReduce:
			branch := stack.CopyVersion(v)
			if i != lastReduceIdx {
				p.logger.Log(LogParse, fmt.Sprintf("version %d: forked version %d on ambiguous reduce to symbol %d", v, branch, act.Symbol))
			}
			p.reduceOn(stack, branch, act, len(entry.Actions) > 1, pool)
			if i == lastReduceIdx {
				stack.Renumber(branch, v)
			}

		case ParseActionAccept:
			stack.at(v).accepted = true
			return advanceAccepted, true

		case ParseActionRecover:
			// Table-driven recovery shift: a fixed cost, unlike the search-based
			// recover() path whose per-skip cost scales with what it discards.
			leaf := pool.makeLeaf(ErrorSymbol, false, lookahead.StartByte, lookahead.EndByte, lookahead.StartPoint, lookahead.EndPoint)
			leaf.hasError = true
			leaf.errorCost = ErrorCostPerRecovery
			leaf.parseState = state
			stack.AddErrorCost(v, leaf.errorCost)
			stack.Push(v, act.State, leaf, endPositionOfToken(*lookahead))
			return advanceShifted, true
		}
	}
	return 0, false
}

// lookupAction looks up the parse action for the given state and symbol
// using the dense parse table. Compressed (small) parse table support
// will be added in a later task.
func (p *Parser) lookupAction(state StateID, sym Symbol) *ParseActionEntry {
	if int(state) < len(p.language.ParseTable) {
		row := p.language.ParseTable[state]
		if int(sym) < len(row) {
			idx := row[sym]
			if int(idx) < len(p.language.ParseActions) {
				return &p.language.ParseActions[idx]
			}
		}
	}
	return nil
}

// lookupGoto resolves the GOTO transition for (state, sym), i.e. the
// shift action a reduced nonterminal takes. GOTOs live in the same
// dense ParseTable as ordinary shifts; this just picks the Shift action
// out of whatever entry that cell names.
func (p *Parser) lookupGoto(state StateID, sym Symbol) (StateID, bool) {
	entry := p.lookupAction(state, sym)
	if !entry.HasActions() {
		return 0, false
	}
	for _, act := range entry.Actions {
		if act.Type == ParseActionShift {
			return act.State, true
		}
	}
	return 0, false
}

// isNamedSymbol checks whether a symbol is a named symbol using the
// language's symbol metadata.
func (p *Parser) isNamedSymbol(sym Symbol) bool {
	if int(sym) < len(p.language.SymbolMetadata) {
		return p.language.SymbolMetadata[sym].Named
	}
	return false
}

// buildResult constructs the final Tree from the nodes a winning (or
// halted) version's stack held, obtained via Stack.PopAll. If more than
// one node remains (an unresolved parse abandoned mid-recovery), they
// are gathered under a synthetic error root.
func (p *Parser) buildResult(nodes []*Node, source []byte, pool *Pool) *Tree {
	if len(nodes) == 0 {
		return NewTree(nil, source, p.language)
	}

	if len(nodes) == 1 {
		return newTreeWithPool(nodes[0], source, p.language, pool)
	}

	root := pool.makeNode(ErrorSymbol, true, nodes, nil, 0)
	root.hasError = true
	return newTreeWithPool(root, source, p.language, pool)
}
