package lexer

// Mode is the continuation mode carried from one line into the next.
type Mode uint8

// Continuation modes.
const (
	// ModeNormal means no construct is open at the line boundary.
	ModeNormal Mode = iota

	// ModeDoubleQuote means a double quote is open across the boundary.
	ModeDoubleQuote

	// ModeSingleQuote means a single quote is open across the boundary.
	ModeSingleQuote

	// ModeDoubleQuoteAmbiguous is an open double quote whose literal quote
	// character must be re-derived by the next line, because the quote
	// survived a heredoc or another quote context.
	ModeDoubleQuoteAmbiguous

	// ModeSingleQuoteAmbiguous is the single-quote ambiguous variant.
	ModeSingleQuoteAmbiguous

	// ModeHeredoc means a here-document body continues on the next line.
	ModeHeredoc
)

// String returns the string representation of a mode.
func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "normal"
	case ModeDoubleQuote:
		return "double-quote"
	case ModeSingleQuote:
		return "single-quote"
	case ModeDoubleQuoteAmbiguous:
		return "double-quote-ambiguous"
	case ModeSingleQuoteAmbiguous:
		return "single-quote-ambiguous"
	case ModeHeredoc:
		return "heredoc"
	default:
		return "unknown"
	}
}

// QuoteKind identifies a quote character class.
type QuoteKind uint8

// Quote kinds.
const (
	QuoteNone QuoteKind = iota
	QuoteDouble
	QuoteSingle
)

// State is the carry state at a line boundary. Two states are equal only if
// every field matches, so comparing with == implements the exact-equality
// rule the rehighlight pass depends on.
type State struct {
	// Mode is the continuation mode.
	Mode Mode

	// NestDepth is the number of command-substitution groups open when a
	// heredoc started. Zero unless Mode is ModeHeredoc.
	NestDepth int

	// Resume is the quote suspended by a heredoc, resolved when its
	// terminator line is reached. QuoteNone unless Mode is ModeHeredoc.
	Resume QuoteKind
}

// Normal is the zero carry state.
var Normal = State{}

// InQuote reports whether the state denotes an open quote of either kind.
func (s State) InQuote() bool {
	switch s.Mode {
	case ModeDoubleQuote, ModeSingleQuote, ModeDoubleQuoteAmbiguous, ModeSingleQuoteAmbiguous:
		return true
	}
	return false
}

// quoteKind returns the quote class an open-quote state continues.
func (s State) quoteKind() QuoteKind {
	switch s.Mode {
	case ModeDoubleQuote, ModeDoubleQuoteAmbiguous:
		return QuoteDouble
	case ModeSingleQuote, ModeSingleQuoteAmbiguous:
		return QuoteSingle
	}
	return QuoteNone
}

// ambiguous reports whether the state is an ambiguous quote variant.
func (s State) ambiguous() bool {
	return s.Mode == ModeDoubleQuoteAmbiguous || s.Mode == ModeSingleQuoteAmbiguous
}

// Aux is the per-line auxiliary data produced alongside the carry state.
// Each line's Aux is freshly derived from the previous line's output and
// never aliases it.
type Aux struct {
	// OpenNests counts unterminated command-substitution groups at the end
	// of the line. Never negative.
	OpenNests int

	// OpenQuotes holds the nesting depths currently inside a double-quote
	// context. Only depths <= OpenNests ever appear.
	OpenQuotes map[int]struct{}

	// HeredocLabel is the pending here-document terminator, or empty.
	HeredocLabel string

	// AmbiguousQuote marks a line whose apparently unterminated quote is
	// actually resolved by an enclosing heredoc.
	AmbiguousQuote bool
}

// Clone returns a deep copy of the aux data.
func (a Aux) Clone() Aux {
	out := a
	if a.OpenQuotes != nil {
		out.OpenQuotes = make(map[int]struct{}, len(a.OpenQuotes))
		for depth := range a.OpenQuotes {
			out.OpenQuotes[depth] = struct{}{}
		}
	}
	return out
}

// Equal reports whether two aux values carry the same downstream-relevant
// data: nest count and open-quote depth set. The heredoc label and
// ambiguity flag ride along with the carry state and are compared there.
func (a Aux) Equal(b Aux) bool {
	if a.OpenNests != b.OpenNests {
		return false
	}
	if len(a.OpenQuotes) != len(b.OpenQuotes) {
		return false
	}
	for depth := range a.OpenQuotes {
		if _, ok := b.OpenQuotes[depth]; !ok {
			return false
		}
	}
	return a.HeredocLabel == b.HeredocLabel
}

// Result is the output of classifying one line.
type Result struct {
	// Spans covers the line contiguously.
	Spans []Span

	// State is the carry-out at the end of the line.
	State State

	// Aux is the line's freshly derived auxiliary data.
	Aux Aux
}
