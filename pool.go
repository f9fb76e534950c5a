package gotreesitter

// Pool backs node allocation for one parse session with a slab arena
// (arena.go), matching how tree-sitter's ts_subtree_pool trades many
// small per-node allocations for a handful of big ones. make_leaf,
// make_error, make_missing_leaf, and make_node mirror subtree.c's
// constructors; make_copy and compare support the reuse cursor's need
// to duplicate or rank nodes without mutating one a shared tree still
// references.
type Pool struct {
	arena *nodeArena
}

// NewPool acquires a fresh arena. incremental selects the small slab
// sized for steady-state edits; a fresh full parse wants the bigger one.
func NewPool(incremental bool) *Pool {
	class := arenaClassFull
	if incremental {
		class = arenaClassIncremental
	}
	return &Pool{arena: acquireNodeArena(class)}
}

// Release drops the pool's reference to its backing arena; when that was
// the last reference, the arena's nodes are zeroed and the arena goes
// back to the shared pool. Safe to call on a nil Pool.
func (p *Pool) Release() {
	if p == nil {
		return
	}
	p.arena.Release()
}

func (p *Pool) alloc() *Node {
	if p == nil {
		return &Node{}
	}
	return p.arena.allocNode()
}

// makeLeaf builds a terminal node from the pool's arena.
func (p *Pool) makeLeaf(sym Symbol, named bool, startByte, endByte uint32, startPoint, endPoint Point) *Node {
	n := p.alloc()
	n.symbol = sym
	n.isNamed = named
	n.startByte = startByte
	n.endByte = endByte
	n.startPoint = startPoint
	n.endPoint = endPoint
	return n
}

// makeError builds an ERROR leaf covering [startByte, endByte), costed
// the way recover() charges a skipped lookahead tree.
func (p *Pool) makeError(startByte, endByte uint32, startPoint, endPoint Point) *Node {
	n := p.makeLeaf(ErrorSymbol, false, startByte, endByte, startPoint, endPoint)
	n.hasError = true
	lineCount := endPoint.Row - startPoint.Row
	n.errorCost = skippedTreeCost(endByte-startByte, lineCount)
	return n
}

// makeMissingLeaf builds a zero-width MISSING leaf for sym at pos,
// costed the way tryMissingToken charges synthesizing a token without
// consuming input instead of discarding real input.
func (p *Pool) makeMissingLeaf(sym Symbol, named bool, pos Position) *Node {
	n := p.makeLeaf(sym, named, pos.Bytes, pos.Bytes, pos.Point, pos.Point)
	n.isMissing = true
	n.hasError = true
	n.errorCost = missingTokenCost()
	return n
}

// makeNode builds a nonterminal node over children, computing its span
// from the first and last child, retaining each child, propagating
// hasError/hasExternalTokens and summing errorCost. NewParentNode, for
// unpooled callers, does only the span, parent and hasError part.
func (p *Pool) makeNode(sym Symbol, named bool, children []*Node, fieldIDs []FieldID, productionID uint16) *Node {
	n := p.alloc()
	n.symbol = sym
	n.isNamed = named
	n.children = children
	n.fieldIDs = fieldIDs
	n.productionID = productionID

	if len(children) > 0 {
		first, last := children[0], children[len(children)-1]
		n.startByte, n.endByte = first.startByte, last.endByte
		n.startPoint, n.endPoint = first.startPoint, last.endPoint

		for _, c := range children {
			c.parent = n
			c.Retain()
			if c.hasError {
				n.hasError = true
			}
			if c.hasExternalTokens {
				n.hasExternalTokens = true
			}
			n.errorCost += c.errorCost
		}
	}
	return n
}

// makeCopy duplicates n's fields into a fresh node from p, used when a
// subtree another tree still references (n.Shared()) needs a local edit
// applied without mutating the shared original.
func (p *Pool) makeCopy(n *Node) *Node {
	if n == nil {
		return nil
	}
	c := p.alloc()
	*c = *n
	c.refCount = 0
	c.parent = nil
	return c
}

// compare orders two candidate nodes the way select_tree breaks ties
// between trees that cover the same span: lower error cost wins, then
// higher dynamic precedence, then they're considered equivalent.
func compare(a, b *Node) int {
	if a == b {
		return 0
	}
	if a == nil {
		return 1
	}
	if b == nil {
		return -1
	}
	if a.errorCost != b.errorCost {
		if a.errorCost < b.errorCost {
			return -1
		}
		return 1
	}
	if a.dynamicPrecedence != b.dynamicPrecedence {
		if a.dynamicPrecedence > b.dynamicPrecedence {
			return -1
		}
		return 1
	}
	return 0
}
