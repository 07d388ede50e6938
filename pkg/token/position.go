package token

// Position represents a location in the query text.
type Position struct {
	Line   int // 1-based line number
	Column int // 1-based column number
	Offset int // 0-based byte offset
}

// IsValid returns true if the position is valid (line > 0).
func (p Position) IsValid() bool {
	return p.Line > 0
}

// Span is the byte range a token covers in the query text. Error values
// carry spans so the boundary can quote the offending fragment verbatim.
type Span struct {
	Start Position
	End   Position
}

// NewSpan returns the span starting at start and covering length bytes.
// No token in the grammar contains a newline, so a span never crosses a
// line boundary.
func NewSpan(start Position, length int) Span {
	end := start
	end.Column += length
	end.Offset += length
	return Span{Start: start, End: end}
}

// Contains returns true if the span contains the given offset.
func (s Span) Contains(offset int) bool {
	return offset >= s.Start.Offset && offset < s.End.Offset
}

// IsValid returns true if both start and end positions are valid.
func (s Span) IsValid() bool {
	return s.Start.IsValid() && s.End.IsValid()
}

// Text returns the slice of src the span covers, or "" when the span is
// invalid, empty, or does not lie within src.
func (s Span) Text(src string) string {
	if !s.IsValid() || s.Start.Offset < 0 || s.End.Offset > len(src) || s.Start.Offset >= s.End.Offset {
		return ""
	}
	return src[s.Start.Offset:s.End.Offset]
}
