package gotreesitter

import "testing"

// hashScannerState is the per-parse payload a hashScanner carries between
// Scan calls, mirroring how a real external scanner (e.g. tracking
// indentation or template-literal depth) threads state across tokens.
type hashScannerState struct {
	count int
}

// hashScanner recognizes a run of '#' characters as a single external
// token, peeking one character past the run (without including it in the
// token span) to exercise bytesScanned accounting for lookahead that goes
// beyond the committed token.
type hashScanner struct{}

func (hashScanner) Create() interface{}                { return &hashScannerState{} }
func (hashScanner) Destroy(payload interface{})        {}
func (hashScanner) Deserialize(payload interface{}, buf []byte) {
	st := payload.(*hashScannerState)
	if len(buf) > 0 {
		st.count = int(buf[0])
	}
}
func (hashScanner) Serialize(payload interface{}, buf []byte) int {
	st := payload.(*hashScannerState)
	buf[0] = byte(st.count)
	return 1
}
func (hashScanner) Scan(payload interface{}, lexerArg interface{}, validSymbols []bool) bool {
	lexer := lexerArg.(*ExternalLexer)
	if lexer.Lookahead() != '#' {
		return false
	}
	count := 0
	for lexer.Lookahead() == '#' {
		lexer.Advance(false)
		count++
	}
	lexer.MarkEnd()
	if lexer.Lookahead() == '!' {
		lexer.Advance(false)
	}
	payload.(*hashScannerState).count = count
	lexer.SetResultSymbol(Symbol(1))
	return true
}

// buildHashLanguage wires hashScanner in as the external scanner for a
// one-production grammar: HASH (external terminal, symbol 1) -> G
// (nonterminal, symbol 2). State 0 is the only state with
// ExternalLexState set, so the scanner only runs up front.
func buildHashLanguage() *Language {
	return &Language{
		Name:              "hash",
		SymbolCount:       3,
		TokenCount:        2,
		ExternalTokenCount: 1,
		StateCount:        3,
		ProductionIDCount: 1,

		SymbolNames: []string{"EOF", "HASH", "G"},
		SymbolMetadata: []SymbolMetadata{
			{Name: "EOF", Visible: false, Named: false},
			{Name: "HASH", Visible: true, Named: true},
			{Name: "G", Visible: true, Named: true},
		},
		FieldNames: []string{""},

		ParseActions: []ParseActionEntry{
			{Actions: nil},
			{Actions: []ParseAction{{Type: ParseActionShift, State: 1}}},
			{Actions: []ParseAction{{Type: ParseActionReduce, Symbol: 2, ChildCount: 1, ProductionID: 0}}},
			{Actions: []ParseAction{{Type: ParseActionShift, State: 2}}},
			{Actions: []ParseAction{{Type: ParseActionAccept}}},
		},

		ParseTable: [][]uint16{
			// state 0: HASH -> shift(1), G -> goto(2)
			{0, 1, 3},
			// state 1: any -> reduce G->HASH
			{2, 2, 2},
			// state 2: EOF -> accept
			{4, 0, 0},
		},

		LexModes: []LexMode{
			{LexState: 0, ExternalLexState: 1},
			{LexState: 0},
			{LexState: 0},
		},
		LexStates:       []LexState{{AcceptToken: 0, Default: -1, EOF: -1}},
		ExternalScanner: hashScanner{},
	}
}

func TestExternalScannerPopulatesTokenAndNodeFields(t *testing.T) {
	lang := buildHashLanguage()
	parser := NewParser(lang)

	tree := parser.Parse([]byte("###!"))
	root := tree.RootNode()
	if root == nil {
		t.Fatal("tree has nil root")
	}
	if root.Symbol() != Symbol(2) {
		t.Fatalf("root symbol = %d, want 2 (G)", root.Symbol())
	}
	if root.ChildCount() != 1 {
		t.Fatalf("root child count = %d, want 1", root.ChildCount())
	}

	leaf := root.Child(0)
	if !leaf.hasExternalTokens {
		t.Error("leaf should carry hasExternalTokens")
	}
	if leaf.EndByte() != 3 {
		t.Errorf("leaf end byte = %d, want 3 (MarkEnd before the peeked '!')", leaf.EndByte())
	}
	if leaf.bytesScanned != 4 {
		t.Errorf("bytesScanned = %d, want 4 (includes the peeked '!')", leaf.bytesScanned)
	}
	if len(leaf.externalTokenState) != 1 || leaf.externalTokenState[0] != 3 {
		t.Errorf("externalTokenState = %v, want [3] (serialized run count)", leaf.externalTokenState)
	}
}

func TestExternalTokenLeafRoundTripsThroughLastExternalToken(t *testing.T) {
	lang := buildHashLanguage()
	ts := newDFATokenSource(lang, []byte("##"))
	tok := ts.Next(StateID(0))
	if !tok.HasExternalTokens {
		t.Fatal("token should be marked as external")
	}

	stack := NewStack(StateID(0))
	pool := NewPool(false)
	defer pool.Release()
	leaf := pool.makeLeaf(tok.Symbol, true, tok.StartByte, tok.EndByte, tok.StartPoint, tok.EndPoint)
	leaf.hasExternalTokens = tok.HasExternalTokens
	leaf.externalTokenState = tok.ExternalState
	stack.Push(Version(0), StateID(1), leaf, endPositionOfToken(tok))
	stack.SetLastExternalToken(Version(0), leaf)

	if stack.LastExternalToken(Version(0)) != leaf {
		t.Error("LastExternalToken should return the node just recorded")
	}
}
