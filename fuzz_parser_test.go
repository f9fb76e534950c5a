package gotreesitter

import "testing"

func fullReplaceEdit(oldSrc, newSrc []byte) InputEdit {
	return InputEdit{
		StartByte:   0,
		OldEndByte:  uint32(len(oldSrc)),
		NewEndByte:  uint32(len(newSrc)),
		StartPoint:  Point{},
		OldEndPoint: pointAtOffset(oldSrc, len(oldSrc)),
		NewEndPoint: pointAtOffset(newSrc, len(newSrc)),
	}
}

// FuzzParseDoesNotPanic throws arbitrary byte strings at the hand-built
// arithmetic grammar looking for inputs that make the GLR driver panic
// instead of returning a tree (possibly with errors).
func FuzzParseDoesNotPanic(f *testing.F) {
	f.Add([]byte("1+2+3"))
	f.Add([]byte("++++"))
	f.Add([]byte(""))
	f.Add([]byte("   "))
	f.Add([]byte("1+"))
	f.Add([]byte("99999999999999999999+1"))

	lang := buildArithmeticLanguage()
	parser := NewParser(lang)

	f.Fuzz(func(t *testing.T, src []byte) {
		if len(src) > 1<<14 {
			t.Skip()
		}
		defer func() {
			if r := recover(); r != nil {
				t.Fatalf("panic while parsing fuzz input (%d bytes): %v", len(src), r)
			}
		}()

		tree := parser.Parse(src)
		if tree == nil {
			t.Fatal("parse returned nil tree")
		}
	})
}

// FuzzParseIncrementalDoesNotPanic exercises a full-buffer edit followed
// by an incremental reparse, the path most likely to hit an invariant
// violation in the reuse index or the GSS condense/select machinery.
func FuzzParseIncrementalDoesNotPanic(f *testing.F) {
	f.Add([]byte("1+2+3"), []byte("1+4+3"))
	f.Add([]byte("1+2"), []byte("1+2+3+4"))
	f.Add([]byte("1+2+3+4"), []byte(""))
	f.Add([]byte(""), []byte("1"))

	lang := buildArithmeticLanguage()
	parser := NewParser(lang)

	f.Fuzz(func(t *testing.T, oldSrc, newSrc []byte) {
		if len(oldSrc) > 1<<13 || len(newSrc) > 1<<13 {
			t.Skip()
		}
		defer func() {
			if r := recover(); r != nil {
				t.Fatalf("panic while incremental parsing fuzz input old=%d new=%d: %v", len(oldSrc), len(newSrc), r)
			}
		}()

		oldTree := parser.Parse(oldSrc)
		if oldTree == nil {
			t.Fatal("initial parse returned nil tree")
		}

		oldTree.Edit(fullReplaceEdit(oldSrc, newSrc))
		newTree := parser.ParseIncremental(newSrc, oldTree)
		if newTree == nil {
			t.Fatal("incremental parse returned nil tree")
		}

		if root := newTree.RootNode(); root != nil {
			_ = root.ChildCount()
		}
	})
}
