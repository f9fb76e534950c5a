package gotreesitter

// TokenSource produces the next token given the parser state whose lex
// mode should drive the scan. The default implementation wraps the
// table-driven Lexer; hand-written sources (as used by the recovery
// tests) satisfy the same interface so the
// driver never needs to know which kind it was handed.
type TokenSource interface {
	Next(state StateID) Token
}

// ByteSkippableTokenSource additionally supports jumping straight to a
// byte offset. The driver uses this when an incrementally-reused subtree
// lets it skip already-tokenized input instead of re-lexing it one token
// at a time.
type ByteSkippableTokenSource interface {
	TokenSource
	SkipToByte(byteOffset uint32) Token
}

// dfaTokenSource is the default TokenSource, backed by the DFA-driven
// Lexer and, when the language declares one, an external scanner.
type dfaTokenSource struct {
	lexer      *Lexer
	lang       *Language
	extPayload any
	lastState  StateID
	cache      tokenCache
}

func newDFATokenSource(lang *Language, source []byte) *dfaTokenSource {
	ts := &dfaTokenSource{lang: lang}
	if len(lang.LexStates) > 0 {
		ts.lexer = NewLexer(lang.LexStates, source)
	}
	if lang.ExternalScanner != nil {
		ts.extPayload = lang.ExternalScanner.Create()
	}
	return ts
}

func (ts *dfaTokenSource) Next(state StateID) Token {
	if ts.lexer == nil {
		return Token{}
	}
	ts.lastState = state

	byteIndex := uint32(ts.lexer.pos)
	if tok, ok := ts.cache.get(byteIndex, state); ok {
		ts.lexer.pos = int(tok.EndByte)
		ts.lexer.row = tok.EndPoint.Row
		ts.lexer.col = tok.EndPoint.Column
		return tok
	}

	tok := ts.scan(state)
	ts.cache.set(byteIndex, state, tok)
	return tok
}

func (ts *dfaTokenSource) scan(state StateID) Token {
	if ts.lang.ExternalScanner != nil && int(state) < len(ts.lang.LexModes) {
		extState := ts.lang.LexModes[state].ExternalLexState
		if extState != 0 {
			el := newExternalLexer(ts.lexer.source, ts.lexer.pos, ts.lexer.row, ts.lexer.col)
			if RunExternalScanner(ts.lang, ts.extPayload, el, nil) {
				if tok, ok := el.token(); ok {
					tok.Symbol = ts.lang.mapExternalSymbol(tok.Symbol)
					tok.HasExternalTokens = true
					tok.BytesScanned = uint32(el.pos) - tok.StartByte
					tok.ExternalState = ts.serializeExternalState()
					ts.lexer.pos = int(tok.EndByte)
					ts.lexer.row = tok.EndPoint.Row
					ts.lexer.col = tok.EndPoint.Column
					return tok
				}
			}
		}
	}

	lexState := uint16(0)
	if int(state) < len(ts.lang.LexModes) {
		lexState = ts.lang.LexModes[state].LexState
	}
	return ts.maybeCaptureKeyword(state, ts.lexer.Next(lexState))
}

// maybeCaptureKeyword re-lexes an identifier-like capture token's text
// against the language's separate keyword DFA and substitutes the specific
// keyword symbol, but only when the current parser state actually has an
// action for it: some grammars accept the same spelling as a plain
// identifier in states where the keyword itself can't appear, and
// substituting unconditionally there would produce a symbol the driver
// can't shift.
func (ts *dfaTokenSource) maybeCaptureKeyword(state StateID, tok Token) Token {
	if len(ts.lang.KeywordLexStates) == 0 || tok.Symbol != ts.lang.KeywordCaptureToken || tok.Text == "" {
		return tok
	}
	kl := NewLexer(ts.lang.KeywordLexStates, []byte(tok.Text))
	kw := kl.Next(0)
	if kw.Symbol == 0 || int(kw.EndByte) != len(tok.Text) {
		return tok
	}
	if !ts.lang.HasAction(state, kw.Symbol) {
		return tok
	}
	tok.Symbol = kw.Symbol
	return tok
}

// serializeExternalState captures the external scanner's current payload
// into a byte slice suitable for Node.externalTokenState, or nil if the
// language has no external scanner or it produced nothing.
func (ts *dfaTokenSource) serializeExternalState() []byte {
	if ts.lang.ExternalScanner == nil {
		return nil
	}
	buf := make([]byte, maxExternalStateBytes)
	n := ts.lang.ExternalScanner.Serialize(ts.extPayload, buf)
	if n <= 0 {
		return nil
	}
	return buf[:n]
}

// restoreExternalScanner deserializes the external scanner's state from the
// most recent external-token node on v's path before the next scan, so a
// resumed or still-advancing version's scanner picks up where it left off.
func (ts *dfaTokenSource) restoreExternalScanner(last *Node) {
	if ts.lexer == nil {
		return
	}
	ts.lexer.restoreExternalScanner(ts.lang, ts.extPayload, last)
}

// SkipToByte jumps the underlying lexer directly to byteOffset and lexes
// from there using whatever lex state the most recent Next call saw.
// Row/column bookkeeping after a jump is approximate (recomputing it
// exactly would require rescanning the skipped span, defeating the
// purpose); callers that depend on exact points after a skip should
// avoid it.
func (ts *dfaTokenSource) SkipToByte(byteOffset uint32) Token {
	if ts.lexer == nil {
		return Token{}
	}
	if int(byteOffset) > len(ts.lexer.source) {
		byteOffset = uint32(len(ts.lexer.source))
	}
	ts.lexer.pos = int(byteOffset)
	ts.cache.invalidate()
	return ts.Next(ts.lastState)
}
