package gotreesitter

import "testing"

// TestTryReuseSubtreeBreaksDownWhenWholeNodeDoesNotFit exercises the
// cursor.go breakdown-retry path directly: a previously-reduced
// "expression" node wrapping a single NUMBER can't be reused whole at a
// state that only has a shift action for NUMBER (no goto for
// expression), but its first child can.
func TestTryReuseSubtreeBreaksDownWhenWholeNodeDoesNotFit(t *testing.T) {
	lang := buildArithmeticLanguage()
	p := NewParser(lang)

	numberLeaf := &Node{symbol: 1, startByte: 2, endByte: 3}
	parentExpr := &Node{symbol: 3, children: []*Node{numberLeaf}, startByte: 2, endByte: 3}

	// State 3 ("saw expr +") has no goto for expression (symbol 3) but
	// does have a shift for NUMBER (symbol 1) -> state 4.
	s := &glrStack{entries: []stackEntry{{state: 3}}}
	lookahead := Token{Symbol: 1, StartByte: 2, EndByte: 3}
	idx := &reuseIndex{byStart: map[uint32][]*Node{2: {parentExpr}}, sourceLen: 3}

	tok, ok := p.tryReuseSubtree(s, lookahead, nil, idx)
	if !ok {
		t.Fatal("expected breakdown to find a reusable child node")
	}
	if tok.Symbol != EndSymbol || tok.StartByte != 3 {
		t.Fatalf("expected synthetic EOF at byte 3, got %+v", tok)
	}

	if len(s.entries) != 2 {
		t.Fatalf("expected one new entry pushed, got %d total entries", len(s.entries))
	}
	pushed := s.entries[1]
	if pushed.node != numberLeaf {
		t.Fatal("expected the broken-down child leaf to be spliced in, not the whole parent node")
	}
	if pushed.state != 4 {
		t.Fatalf("expected the child's shift to land on state 4, got %d", pushed.state)
	}
}

// TestTryReuseSubtreeWholeNodeFitsWithoutBreakdown is the control case:
// when the candidate's own goto is valid at the current state, the
// whole node is reused and breakdown never runs.
func TestTryReuseSubtreeWholeNodeFitsWithoutBreakdown(t *testing.T) {
	lang := buildArithmeticLanguage()
	p := NewParser(lang)

	numberLeaf := &Node{symbol: 1, startByte: 0, endByte: 1}
	parentExpr := &Node{symbol: 3, children: []*Node{numberLeaf}, startByte: 0, endByte: 1}

	// State 0 (start) does have a goto for expression -> state 2.
	s := &glrStack{entries: []stackEntry{{state: 0}}}
	lookahead := Token{Symbol: 3, StartByte: 0, EndByte: 1}
	idx := &reuseIndex{byStart: map[uint32][]*Node{0: {parentExpr}}, sourceLen: 1}

	tok, ok := p.tryReuseSubtree(s, lookahead, nil, idx)
	if !ok {
		t.Fatal("expected whole-node reuse to succeed")
	}
	if tok.Symbol != EndSymbol || tok.StartByte != 1 {
		t.Fatalf("expected synthetic EOF at byte 1, got %+v", tok)
	}

	if len(s.entries) != 2 {
		t.Fatalf("expected one new entry pushed, got %d total entries", len(s.entries))
	}
	if s.entries[1].node != parentExpr {
		t.Fatal("expected the whole parent node to be reused directly")
	}
}
