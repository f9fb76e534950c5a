package gotreesitter

// reduceOn pops act.ChildCount entries off version v, builds the reduced
// parent node, and shifts it onto the GOTO state for (new top state,
// act.Symbol). fragile marks a reduction chosen from a ParseActionEntry
// that carried more than one action — the classic GLR ambiguity point —
// so the resulting node's edges are flagged as not yet safe to reuse
// across an incremental reparse until the fork is resolved by
// condenseStack/selectTree.
func (p *Parser) reduceOn(stack *Stack, v Version, act ParseAction, fragile bool, pool *Pool) {
	children := stack.PopCount(v, int(act.ChildCount))
	named := p.isNamedSymbol(act.Symbol)
	parent := pool.makeNode(act.Symbol, named, children, p.fieldIDsFor(act.ProductionID, len(children)), act.ProductionID)
	parent.dynamicPrecedence = act.DynamicPrecedence
	if fragile {
		parent.fragileLeft = true
		parent.fragileRight = true
	}
	lang := p.language
	if int(act.ProductionID) < len(lang.AliasSequences) && len(lang.AliasSequences[act.ProductionID]) > 0 {
		parent.aliasSequenceID = act.ProductionID
	}
	stack.AddDynamicPrecedence(v, int(act.DynamicPrecedence))
	if parent.hasError {
		stack.ResetNodeCountSinceError(v)
	} else {
		stack.IncrementNodeCountSinceError(v)
	}

	topState := stack.State(v)
	parent.parseState = topState
	gotoState, ok := p.lookupGoto(topState, act.Symbol)
	if !ok {
		gotoState = topState
	}
	stack.Push(v, gotoState, parent, stack.Position(v))
}

// fieldIDsFor resolves a production's field map into a per-child slice,
// or nil when the production has no named fields.
func (p *Parser) fieldIDsFor(productionID uint16, childCount int) []FieldID {
	lang := p.language
	if int(productionID) >= len(lang.FieldMapSlices) {
		return nil
	}
	slice := lang.FieldMapSlices[productionID]
	idx, length := int(slice[0]), int(slice[1])
	if length == 0 || idx+length > len(lang.FieldMapEntries) {
		return nil
	}
	fields := make([]FieldID, childCount)
	for i := 0; i < length; i++ {
		e := lang.FieldMapEntries[idx+i]
		if int(e.ChildIndex) < childCount {
			fields[e.ChildIndex] = e.FieldID
		}
	}
	return fields
}
