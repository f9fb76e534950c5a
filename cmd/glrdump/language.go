package main

import "github.com/odvcencio/gotreesitter"

// demoArithmeticLanguage builds a tiny hand-written grammar for
// `expr -> NUMBER | expr PLUS NUMBER`, the same shape gotreesitter's own
// parser tests exercise, so glrdump has something to parse without
// depending on a generated grammar table (the table compiler is out of
// this module's scope).
func demoArithmeticLanguage() *gotreesitter.Language {
	return &gotreesitter.Language{
		Name:              "arithmetic",
		SymbolCount:       4,
		TokenCount:        3,
		StateCount:        5,
		ProductionIDCount: 2,

		SymbolNames: []string{"EOF", "NUMBER", "+", "expression"},
		SymbolMetadata: []gotreesitter.SymbolMetadata{
			{Name: "EOF", Visible: false, Named: false},
			{Name: "NUMBER", Visible: true, Named: true},
			{Name: "+", Visible: true, Named: false},
			{Name: "expression", Visible: true, Named: true},
		},
		FieldNames: []string{""},

		ParseActions: []gotreesitter.ParseActionEntry{
			{Actions: nil},
			{Actions: []gotreesitter.ParseAction{{Type: gotreesitter.ParseActionShift, State: 1}}},
			{Actions: []gotreesitter.ParseAction{{Type: gotreesitter.ParseActionReduce, Symbol: 3, ChildCount: 1, ProductionID: 0}}},
			{Actions: []gotreesitter.ParseAction{{Type: gotreesitter.ParseActionShift, State: 2}}},
			{Actions: []gotreesitter.ParseAction{{Type: gotreesitter.ParseActionShift, State: 3}}},
			{Actions: []gotreesitter.ParseAction{{Type: gotreesitter.ParseActionAccept}}},
			{Actions: []gotreesitter.ParseAction{{Type: gotreesitter.ParseActionShift, State: 4}}},
			{Actions: []gotreesitter.ParseAction{{Type: gotreesitter.ParseActionReduce, Symbol: 3, ChildCount: 3, ProductionID: 1}}},
		},

		// ParseTable[state][symbol] -> index into ParseActions. Columns:
		// EOF(0), NUMBER(1), PLUS(2), expression(3).
		ParseTable: [][]uint16{
			{0, 1, 0, 3}, // state 0: shift NUMBER->1, goto expression->2
			{2, 2, 2, 0}, // state 1: reduce on any terminal
			{5, 0, 4, 0}, // state 2: accept on EOF, shift PLUS->3
			{0, 6, 0, 0}, // state 3: shift NUMBER->4
			{7, 7, 7, 0}, // state 4: reduce on any terminal
		},

		LexModes: []gotreesitter.LexMode{
			{LexState: 0}, {LexState: 0}, {LexState: 0}, {LexState: 0}, {LexState: 0},
		},

		// Lexer DFA for NUMBER ([0-9]+), PLUS ('+'), whitespace (skip).
		LexStates: []gotreesitter.LexState{
			{
				AcceptToken: 0,
				Default:     -1,
				EOF:         -1,
				Transitions: []gotreesitter.LexTransition{
					{Lo: '0', Hi: '9', NextState: 1},
					{Lo: '+', Hi: '+', NextState: 2},
					{Lo: ' ', Hi: ' ', NextState: 3},
					{Lo: '\t', Hi: '\t', NextState: 3},
					{Lo: '\n', Hi: '\n', NextState: 3},
				},
			},
			{
				AcceptToken: 1,
				Default:     -1,
				EOF:         -1,
				Transitions: []gotreesitter.LexTransition{
					{Lo: '0', Hi: '9', NextState: 1},
				},
			},
			{
				AcceptToken: 2,
				Default:     -1,
				EOF:         -1,
			},
			{
				AcceptToken: 0,
				Skip:        true,
				Default:     -1,
				EOF:         -1,
				Transitions: []gotreesitter.LexTransition{
					{Lo: ' ', Hi: ' ', NextState: 3},
					{Lo: '\t', Hi: '\t', NextState: 3},
					{Lo: '\n', Hi: '\n', NextState: 3},
				},
			},
		},
	}
}
