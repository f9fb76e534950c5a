package gotreesitter

// Position pairs a byte offset with its row/column point, the unit the
// parser driver advances by when shifting, reducing, or skipping bytes
// during error recovery.
type Position struct {
	Bytes uint32
	Point Point
}

// ZeroPosition is the position at the start of a source buffer.
var ZeroPosition = Position{}

// Add returns the position reached after consuming a span of the given
// byte length and point delta.
func (p Position) Add(byteLen uint32, pointDelta Point) Position {
	next := Position{Bytes: p.Bytes + byteLen}
	if pointDelta.Row > 0 {
		next.Point = Point{Row: p.Point.Row + pointDelta.Row, Column: pointDelta.Column}
	} else {
		next.Point = Point{Row: p.Point.Row, Column: p.Point.Column + pointDelta.Column}
	}
	return next
}

// Sub returns the byte and row distance from other to p (p assumed >= other).
func (p Position) Sub(other Position) (bytes uint32, rows uint32) {
	if p.Bytes < other.Bytes {
		return 0, 0
	}
	bytes = p.Bytes - other.Bytes
	if p.Point.Row > other.Point.Row {
		rows = p.Point.Row - other.Point.Row
	}
	return bytes, rows
}

// Less orders positions by byte offset, matching tree-sitter's convention
// that row/column is always a function of the byte offset within one parse.
func (p Position) Less(other Position) bool { return p.Bytes < other.Bytes }

func positionOfToken(tok Token) Position {
	return Position{Bytes: tok.StartByte, Point: tok.StartPoint}
}

func endPositionOfToken(tok Token) Position {
	return Position{Bytes: tok.EndByte, Point: tok.EndPoint}
}

// pointAtOffset walks src up to byte offset n and returns the resulting
// row/column. Used wherever a point must be synthesized for a byte
// offset that wasn't reached by the lexer's own scan, such as the
// filler error node halt_parse covers the remainder of input with.
func pointAtOffset(src []byte, n int) Point {
	if n > len(src) {
		n = len(src)
	}
	pt := Point{}
	lineStart := 0
	for i := 0; i < n; i++ {
		if src[i] == '\n' {
			pt.Row++
			lineStart = i + 1
		}
	}
	pt.Column = uint32(n - lineStart)
	return pt
}

// PointAtOffset is the exported form of pointAtOffset, for callers outside
// this package that need to build an InputEdit by hand (see cmd/glrdump).
func PointAtOffset(src []byte, n int) Point {
	return pointAtOffset(src, n)
}
