package main

import (
	"github.com/odvcencio/gotreesitter"
	"github.com/tliron/commonlog"
)

// commonlogAdapter implements gotreesitter.Logger on top of commonlog,
// translating the driver's (kind, message) pairs into named, leveled
// commonlog records. The core package never imports commonlog itself
// (see gotreesitter.Logger's doc comment) — this adapter is the one
// place in the repository that does.
type commonlogAdapter struct {
	parse commonlog.Logger
	lex   commonlog.Logger
}

func newCommonlogAdapter() *commonlogAdapter {
	return &commonlogAdapter{
		parse: commonlog.GetLogger("glrdump.parse"),
		lex:   commonlog.GetLogger("glrdump.lex"),
	}
}

func (a *commonlogAdapter) Log(kind gotreesitter.LogKind, message string) {
	switch kind {
	case gotreesitter.LogLex:
		a.lex.Debug(message)
	default:
		a.parse.Debug(message)
	}
}
