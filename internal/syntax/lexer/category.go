// Package lexer provides the incremental, stateful line classifier behind
// syntax highlighting. Each line is classified independently given the carry
// state produced by the line above it, so a pass over a document can stop as
// soon as a line's carry-out matches its cached value.
package lexer

// Category is the presentation class assigned to a stretch of a line.
type Category uint8

// Span categories.
const (
	// CatNeutral is uncolored text.
	CatNeutral Category = iota

	// CatComment is a line comment run.
	CatComment

	// CatDoubleQuoted is a double-quoted string run.
	CatDoubleQuoted

	// CatSingleQuoted is a single-quoted string run.
	CatSingleQuoted

	// CatURL is a URL or mail address inside a comment.
	CatURL

	// CatURLInQuote is a URL or mail address inside a quoted run.
	CatURLInQuote
)

// String returns the string representation of a category.
func (c Category) String() string {
	switch c {
	case CatNeutral:
		return "neutral"
	case CatComment:
		return "comment"
	case CatDoubleQuoted:
		return "double-quoted"
	case CatSingleQuoted:
		return "single-quoted"
	case CatURL:
		return "url"
	case CatURLInQuote:
		return "url-in-quote"
	default:
		return "unknown"
	}
}

// Span describes one contiguous stretch of a line. The spans of a line are
// contiguous, non-overlapping, and cover the line exactly; offsets and
// lengths are in bytes.
type Span struct {
	// Start is the byte offset of the span within its line.
	Start int

	// Length is the span length in bytes. Always positive.
	Length int

	// Category is the presentation class of the span.
	Category Category
}

// End returns the byte offset one past the span.
func (s Span) End() int {
	return s.Start + s.Length
}

// compress folds a per-byte category array into the minimal span list.
// An empty array yields no spans.
func compress(cats []Category) []Span {
	if len(cats) == 0 {
		return nil
	}
	spans := make([]Span, 0, 4)
	start := 0
	cur := cats[0]
	for i := 1; i < len(cats); i++ {
		if cats[i] == cur {
			continue
		}
		spans = append(spans, Span{Start: start, Length: i - start, Category: cur})
		start = i
		cur = cats[i]
	}
	return append(spans, Span{Start: start, Length: len(cats) - start, Category: cur})
}

// NeutralSpans returns the single all-neutral span list for a line of the
// given length. Used when no grammar applies or classification failed.
func NeutralSpans(length int) []Span {
	if length == 0 {
		return nil
	}
	return []Span{{Start: 0, Length: length, Category: CatNeutral}}
}
