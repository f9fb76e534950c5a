package gotreesitter

import "fmt"

// handleError attempts to recover version v after the driver found no
// action for its current lookahead at v's top state. It first tries a
// single MISSING-token insertion — if some other symbol could be shifted
// right here, synthesize it without consuming input rather than
// discarding input — and
// falls back to skip-and-summarize recovery, which discards lookahead
// trees one at a time while recording (state, position) pairs so a
// cheaper version can later resume from the same point without redoing
// the search (see recoverToState).
func (p *Parser) handleError(stack *Stack, v Version, lookahead Token, ts TokenSource, pool *Pool) (Token, bool) {
	if ok := p.tryMissingToken(stack, v, lookahead, pool); ok {
		return lookahead, true
	}
	return p.recover(stack, v, lookahead, ts, pool)
}

// tryMissingToken looks for some other symbol the grammar could shift
// right now whose target state has a reduce action for the real
// lookahead and, if found, synthesizes a MISSING leaf for it instead of
// discarding the real lookahead (e.g. a forgotten semicolon). The first
// such symbol in table column order is taken.
func (p *Parser) tryMissingToken(stack *Stack, v Version, lookahead Token, pool *Pool) bool {
	state := stack.State(v)
	lang := p.language
	if int(state) >= len(lang.ParseTable) {
		return false
	}
	row := lang.ParseTable[state]
	for sym := 0; sym < len(row); sym++ {
		if Symbol(sym) == lookahead.Symbol || Symbol(sym) == ErrorSymbol || Symbol(sym) == EndSymbol {
			continue
		}
		entry := p.lookupAction(state, Symbol(sym))
		if !entry.HasActions() || entry.Actions[0].Type != ParseActionShift {
			continue
		}
		act := entry.Actions[0]
		if !p.lookupAction(act.State, lookahead.Symbol).HasReduceAction() {
			continue
		}
		pos := Position{Bytes: lookahead.StartByte, Point: lookahead.StartPoint}
		missing := pool.makeMissingLeaf(Symbol(sym), p.isNamedSymbol(Symbol(sym)), pos)
		missing.parseState = state
		stack.AddErrorCost(v, missing.errorCost)
		stack.Push(v, act.State, missing, stack.Position(v))
		p.logger.Log(LogParse, fmt.Sprintf("version %d: inserted missing symbol %d at byte %d", v, sym, lookahead.StartByte))
		return true
	}
	return false
}

// recover discards lookahead trees under an ERROR node, one at a time,
// until either the grammar has an action for the current lookahead at
// the (possibly advanced) top state, or MaxSummaryDepth entries have
// been skipped without success, in which case v is paused. Every state
// visited along the way is recorded via RecordSummary.
func (p *Parser) recover(stack *Stack, v Version, lookahead Token, ts TokenSource, pool *Pool) (Token, bool) {
	tunables := p.tunables
	for i := 0; i < tunables.MaxSummaryDepth; i++ {
		state := stack.State(v)
		stack.RecordSummary(v, state, stack.Position(v), tunables.MaxSummaryDepth)

		entry := p.lookupAction(state, lookahead.Symbol)
		if entry.HasActions() {
			return lookahead, true
		}
		if lookahead.Symbol == EndSymbol {
			break
		}

		errLeaf := pool.makeError(lookahead.StartByte, lookahead.EndByte, lookahead.StartPoint, lookahead.EndPoint)
		stack.AddErrorCost(v, errLeaf.errorCost)
		stack.Push(v, state, errLeaf, endPositionOfToken(lookahead))
		stack.ResetNodeCountSinceError(v)
		p.logger.Log(LogParse, fmt.Sprintf("version %d: skipped token at byte %d (cost %d)", v, lookahead.StartByte, errLeaf.errorCost))

		lookahead = ts.Next(state)
	}
	stack.Pause(v, lookahead.Symbol)
	p.logger.Log(LogParse, fmt.Sprintf("version %d: recovery exhausted after %d skips, pausing", v, tunables.MaxSummaryDepth))
	return lookahead, false
}

// recoverToState jumps a paused version straight to a recorded summary
// point instead of re-running recover's one-token-at-a-time search. It
// looks for an entry in v's recorded summary matching target and, if
// found, discards the ERROR/MISSING entries recover pushed past that
// point, rewinds v's position to match, drains whatever reductions are
// now available for lookahead (the same default-reduce drain
// doAllPotentialReductions provides recovery generally), and resumes v
// there so condenseStack's merge sweep can compare it against the
// version that just reached the same point cleanly.
func (p *Parser) recoverToState(stack *Stack, v Version, target StateID, pos Position, lookahead Token, pool *Pool) bool {
	for _, entry := range stack.GetSummary(v) {
		if entry.state != target || entry.pos != pos {
			continue
		}
		for _, n := range stack.PopError(v) {
			n.Release()
		}
		for _, n := range stack.PopPending(v) {
			n.Release()
		}
		stack.SetPosition(v, pos)
		p.doAllPotentialReductions(stack, v, lookahead, pool)
		stack.Resume(v)
		return true
	}
	return false
}

// doAllPotentialReductions drains every reduce action available at v's
// top state for the given lookahead; recoverToState runs it on a version
// it is about to resume, covering grammars whose error-entry rows carry only
// reduce actions (no explicit Recover action) — the default-reduce edge
// case noted as an open question: a Reduce table cell with no
// alternative is followed all the way down rather than treated as an
// immediate error.
func (p *Parser) doAllPotentialReductions(stack *Stack, v Version, lookahead Token, pool *Pool) bool {
	reduced := false
	for {
		state := stack.State(v)
		entry := p.lookupAction(state, lookahead.Symbol)
		if !entry.HasActions() {
			return reduced
		}
		act := entry.Actions[0]
		if act.Type != ParseActionReduce {
			return reduced
		}
		p.reduceOn(stack, v, act, len(entry.Actions) > 1, pool)
		reduced = true
	}
}
