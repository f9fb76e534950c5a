package gotreesitter

// tokenCache is a single-slot memoization keyed by (byteIndex, state),
// letting a repeated lookahead request at a position the lexer has
// already scanned reuse that scan instead of re-invoking the DFA or
// external scanner. This matters most around recovery and incremental
// reuse's breakdown retries, where the driver can ask for a token at
// the same byte under more than one candidate state before settling.
type tokenCache struct {
	valid     bool
	byteIndex uint32
	state     StateID
	token     Token
}

// get returns the cached token for (byteIndex, state), if present.
func (c *tokenCache) get(byteIndex uint32, state StateID) (Token, bool) {
	if c == nil || !c.valid || c.byteIndex != byteIndex || c.state != state {
		return Token{}, false
	}
	return c.token, true
}

// set installs a fresh entry, releasing whatever was cached before it.
func (c *tokenCache) set(byteIndex uint32, state StateID, tok Token) {
	c.valid = true
	c.byteIndex = byteIndex
	c.state = state
	c.token = tok
}

// invalidate drops the cached entry. Called whenever the lexer's
// position is forced to an arbitrary byte (SkipToByte) rather than
// advanced one token at a time, since the cached entry's byteIndex no
// longer reflects where the next Next() call will actually start.
func (c *tokenCache) invalidate() {
	c.valid = false
}
