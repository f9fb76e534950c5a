package gotreesitter

// ExternalScannerState holds serialized state for an external scanner
// between incremental parse runs.
type ExternalScannerState struct {
	Data []byte
}

// maxExternalStateBytes bounds the buffer passed to ExternalScanner.Serialize,
// matching upstream tree-sitter's TREE_SITTER_SERIALIZATION_BUFFER_SIZE.
const maxExternalStateBytes = 1024

// RunExternalScanner invokes the language's external scanner if present.
// Returns true if the scanner produced a token, false otherwise.
func RunExternalScanner(lang *Language, payload any, lexer *ExternalLexer, validSymbols []bool) bool {
	if lang.ExternalScanner == nil {
		return false
	}
	return lang.ExternalScanner.Scan(payload, lexer, validSymbols)
}
