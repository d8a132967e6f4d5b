// Package diagnostics renders compiler errors against their source text
// for human-friendly reading.
package diagnostics

// Span is a byte range inside a query's source text.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// NewSpan creates a span covering [start, end).
func NewSpan(start, end int) Span {
	return Span{Start: start, End: end}
}

// EmptySpan is a zero-width span at the start of the input.
func EmptySpan() Span {
	return Span{}
}

// Contains reports whether position falls inside the span, boundaries
// included.
func (s Span) Contains(position int) bool {
	return position >= s.Start && position <= s.End
}
