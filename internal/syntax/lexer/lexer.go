package lexer

import (
	"strings"

	"github.com/dshills/glint/internal/syntax/grammar"
)

// Lexer classifies lines against a single grammar. A Lexer is stateless and
// safe for concurrent use; all continuation state flows through the State
// and Aux values passed between calls.
type Lexer struct {
	g *grammar.Grammar
}

// New creates a lexer for the given grammar. A nil grammar yields a lexer
// that classifies every line as neutral.
func New(g *grammar.Grammar) *Lexer {
	return &Lexer{g: g}
}

// Grammar returns the grammar the lexer was built with.
func (lx *Lexer) Grammar() *grammar.Grammar {
	return lx.g
}

// Classify maps one line plus its carry-in state and auxiliary data to the
// line's format spans, carry-out state, and fresh auxiliary data. The spans
// always cover the line exactly; classification runs in time proportional
// to the line length.
func (lx *Lexer) Classify(text string, in State, inAux Aux) Result {
	if lx.g == nil {
		return Result{Spans: NeutralSpans(len(text))}
	}
	sc := &scan{
		g:      lx.g,
		text:   text,
		cats:   make([]Category, len(text)),
		in:     in,
		nests:  inAux.OpenNests,
		quotes: cloneSet(inAux.OpenQuotes),
	}
	sc.run(inAux)
	return sc.result()
}

// scan is the working state of a single-line classification.
type scan struct {
	g    *grammar.Grammar
	text string
	cats []Category
	pos  int
	in   State

	// nests and quotes mirror the aux data while scanning.
	nests  int
	quotes map[int]struct{}

	// label is a heredoc terminator opened on this line; quote markers past
	// its operator position no longer open quote runs.
	label string

	// openSingle marks an unterminated single quote opened on this line.
	openSingle bool

	// forced short-circuits carry-out computation for lines that resolve
	// entirely inside one construct (heredoc bodies, unterminated quotes).
	forced    bool
	forcedSt  State
	forcedAux Aux
}

func cloneSet(set map[int]struct{}) map[int]struct{} {
	if len(set) == 0 {
		return nil
	}
	out := make(map[int]struct{}, len(set))
	for depth := range set {
		out[depth] = struct{}{}
	}
	return out
}

func (sc *scan) run(inAux Aux) {
	if sc.in.Mode == ModeHeredoc {
		sc.runHeredoc(inAux)
		return
	}
	if sc.in.InQuote() {
		if !sc.continueQuote() {
			return
		}
	}
	sc.scanNormal()
}

func (sc *scan) result() Result {
	sc.overlayURLs()
	spans := compress(sc.cats)
	if sc.forced {
		return Result{Spans: spans, State: sc.forcedSt, Aux: sc.forcedAux}
	}
	st, aux := sc.carryOut()
	return Result{Spans: spans, State: st, Aux: aux}
}

// forceCarry fixes the line's carry-out regardless of what the scan state
// says at end of line.
func (sc *scan) forceCarry(st State, aux Aux) {
	sc.forced = true
	sc.forcedSt = st
	sc.forcedAux = aux
	sc.pos = len(sc.text)
}

// runHeredoc handles a line whose carry-in is a here-document continuation.
// Body lines are opaque neutral text; the terminator line resumes either
// the outer context or a quote the heredoc suspended.
func (sc *scan) runHeredoc(inAux Aux) {
	label := inAux.HeredocLabel
	body := strings.TrimLeft(sc.text, "\t")
	indent := len(sc.text) - len(body)

	terminated := false
	resumeAt := len(sc.text)
	if label != "" {
		switch {
		case body == label:
			terminated = true
		case sc.in.Resume != QuoteNone && strings.HasPrefix(body, label):
			// A terminator like `EOF"` both ends the heredoc and closes
			// the quote it suspended.
			terminated = true
			resumeAt = indent + len(label)
		}
	}

	if !terminated {
		sc.forceCarry(sc.in, Aux{
			OpenNests:      inAux.OpenNests,
			OpenQuotes:     cloneSet(inAux.OpenQuotes),
			HeredocLabel:   label,
			AmbiguousQuote: inAux.AmbiguousQuote,
		})
		return
	}

	sc.pos = resumeAt
	switch sc.in.Resume {
	case QuoteDouble, QuoteSingle:
		if !sc.resumeQuote(sc.in.Resume) {
			return
		}
		// The heredoc resolved the ambiguous quote; the whole enclosing
		// construct collapses with it.
		sc.nests = 0
		sc.quotes = nil
		sc.scanNormal()
	default:
		sc.scanNormal()
	}
}

// continueQuote handles a carry-in denoting an open quote. It reports
// whether the quote closed on this line, leaving pos just past the closing
// marker.
func (sc *scan) continueQuote() bool {
	kind := sc.in.quoteKind()
	mark, cat := byte('"'), CatDoubleQuoted
	if kind == QuoteSingle {
		mark, cat = '\'', CatSingleQuoted
	}

	end := sc.findQuoteClose(mark, 0)
	if end < 0 {
		sc.fill(0, len(sc.text), cat)
		st := State{Mode: ModeDoubleQuote}
		if kind == QuoteSingle {
			st.Mode = ModeSingleQuote
		}
		if sc.in.ambiguous() {
			st.Mode = ambiguousMode(kind)
		}
		sc.forceCarry(st, Aux{OpenNests: sc.nests, OpenQuotes: sc.quotes})
		return false
	}

	sc.fill(0, end+1, cat)
	sc.pos = end + 1
	if kind == QuoteDouble {
		sc.closeDeepestQuote()
	}
	return true
}

// resumeQuote closes a quote suspended by a heredoc, starting at pos.
// Reports whether the quote closed on this line.
func (sc *scan) resumeQuote(kind QuoteKind) bool {
	mark, cat := byte('"'), CatDoubleQuoted
	if kind == QuoteSingle {
		mark, cat = '\'', CatSingleQuoted
	}

	end := sc.findQuoteClose(mark, sc.pos)
	if end < 0 {
		sc.fill(sc.pos, len(sc.text), cat)
		sc.forceCarry(State{Mode: ambiguousMode(kind)}, Aux{})
		return false
	}
	sc.fill(sc.pos, end+1, cat)
	sc.pos = end + 1
	return true
}

func ambiguousMode(kind QuoteKind) Mode {
	if kind == QuoteSingle {
		return ModeSingleQuoteAmbiguous
	}
	return ModeDoubleQuoteAmbiguous
}

// scanNormal is the main construct scan: comments, quotes, command
// substitution groups, and heredoc operators, in grammar priority order.
func (sc *scan) scanNormal() {
	g := sc.g
	for sc.pos < len(sc.text) {
		c := sc.text[sc.pos]

		if sc.inDouble() {
			sc.scanQuotedChar(c)
			continue
		}

		switch {
		case g.HasComment && c == g.CommentMark && sc.commentStarts():
			sc.fill(sc.pos, len(sc.text), CatComment)
			sc.pos = len(sc.text)

		case g.SingleQuote && c == '\'':
			sc.scanSingleQuote()

		case g.DoubleQuote && c == '"':
			sc.scanDoubleOpen()

		case g.CommandSubstitution && c == '$' &&
			sc.pos+1 < len(sc.text) && sc.text[sc.pos+1] == '(':
			sc.nests++
			sc.pos += 2

		case g.CommandSubstitution && c == ')':
			// A closer beyond depth zero is a plain neutral character.
			if sc.nests > 0 && !sc.escaped(sc.pos) {
				delete(sc.quotes, sc.nests)
				sc.nests--
			}
			sc.pos++

		case g.Heredocs && c == '<' && sc.label == "" &&
			strings.HasPrefix(sc.text[sc.pos:], "<<"):
			if m := g.HeredocDelim.FindStringSubmatch(sc.text[sc.pos:]); m != nil {
				sc.label = strings.Trim(strings.TrimPrefix(m[1], `\`), `'"`)
				sc.pos += len(m[0])
			} else {
				sc.pos++
			}

		default:
			sc.pos++
		}
	}
}

// scanQuotedChar consumes one character inside a double quote at the
// current nesting depth.
func (sc *scan) scanQuotedChar(c byte) {
	switch {
	case c == '"' && !sc.escaped(sc.pos):
		sc.cats[sc.pos] = CatDoubleQuoted
		delete(sc.quotes, sc.nests)
		sc.pos++

	case c == '$' && sc.g.CommandSubstitution &&
		sc.pos+1 < len(sc.text) && sc.text[sc.pos+1] == '(':
		// Command substitution resets quoting for its inner context.
		sc.nests++
		sc.pos += 2

	default:
		sc.cats[sc.pos] = CatDoubleQuoted
		sc.pos++
	}
}

func (sc *scan) scanSingleQuote() {
	if sc.escaped(sc.pos) || sc.label != "" {
		sc.pos++
		return
	}
	end := sc.findQuoteClose('\'', sc.pos+1)
	if end < 0 {
		sc.fill(sc.pos, len(sc.text), CatSingleQuoted)
		sc.openSingle = true
		sc.pos = len(sc.text)
		return
	}
	sc.fill(sc.pos, end+1, CatSingleQuoted)
	sc.pos = end + 1
}

func (sc *scan) scanDoubleOpen() {
	if sc.escaped(sc.pos) || sc.label != "" {
		sc.pos++
		return
	}
	if sc.quotes == nil {
		sc.quotes = make(map[int]struct{})
	}
	sc.quotes[sc.nests] = struct{}{}
	sc.cats[sc.pos] = CatDoubleQuoted
	sc.pos++
}

// carryOut derives the line's carry-out state and aux data from the final
// scan state.
func (sc *scan) carryOut() (State, Aux) {
	aux := Aux{OpenNests: sc.nests, HeredocLabel: sc.label}
	if len(sc.quotes) > 0 {
		aux.OpenQuotes = sc.quotes
	}

	var st State
	switch {
	case sc.label != "":
		st = State{Mode: ModeHeredoc, NestDepth: sc.nests}
		switch {
		case sc.openSingle:
			st.Resume = QuoteSingle
			aux.AmbiguousQuote = sc.nests > 0
		case len(sc.quotes) > 0:
			st.Resume = QuoteDouble
			aux.AmbiguousQuote = sc.nests > 0
		}

	case sc.openSingle:
		st = State{Mode: ModeSingleQuote}
		if sc.in.ambiguous() {
			st.Mode = ModeSingleQuoteAmbiguous
		}

	case sc.inDouble():
		// Only a quote open at the current depth continues onto the next
		// line as quoted text. A quote suspended behind a deeper command
		// substitution rides along in the aux set instead.
		st = State{Mode: ModeDoubleQuote}
		if sc.in.ambiguous() {
			st.Mode = ModeDoubleQuoteAmbiguous
		}
	}
	return st, aux
}

// commentStarts reports whether a comment marker at pos actually opens a
// comment: at line start or preceded by whitespace.
func (sc *scan) commentStarts() bool {
	if sc.pos == 0 {
		return true
	}
	prev := sc.text[sc.pos-1]
	return prev == ' ' || prev == '\t'
}

// inDouble reports whether the current nesting depth is inside an open
// double quote.
func (sc *scan) inDouble() bool {
	_, ok := sc.quotes[sc.nests]
	return ok
}

// closeDeepestQuote removes the innermost open double-quote depth. A quote
// continued from a previous line closes at whichever depth opened it.
func (sc *scan) closeDeepestQuote() {
	deepest, found := 0, false
	for depth := range sc.quotes {
		if !found || depth > deepest {
			deepest, found = depth, true
		}
	}
	if found {
		delete(sc.quotes, deepest)
	}
}

// findQuoteClose returns the offset of the next unescaped quote mark at or
// after from, or -1.
func (sc *scan) findQuoteClose(mark byte, from int) int {
	for i := from; i < len(sc.text); i++ {
		if sc.text[i] == mark && !sc.escaped(i) {
			return i
		}
	}
	return -1
}

// escaped reports whether the byte at i is preceded by an odd number of
// backslashes.
func (sc *scan) escaped(i int) bool {
	if !sc.g.BackslashEscapes {
		return false
	}
	n := 0
	for j := i - 1; j >= 0 && sc.text[j] == '\\'; j-- {
		n++
	}
	return n%2 == 1
}

// fill assigns a category to the half-open byte range [from, to).
func (sc *scan) fill(from, to int, cat Category) {
	if from < 0 {
		from = 0
	}
	if to > len(sc.cats) {
		to = len(sc.cats)
	}
	for i := from; i < to; i++ {
		sc.cats[i] = cat
	}
}

// overlayURLs rewrites URL matches inside comment and quoted runs with the
// corresponding URL category.
func (sc *scan) overlayURLs() {
	re := sc.g.URLPattern
	if re == nil || len(sc.cats) == 0 {
		return
	}
	i := 0
	for i < len(sc.cats) {
		cat := sc.cats[i]
		if cat != CatComment && cat != CatDoubleQuoted && cat != CatSingleQuoted {
			i++
			continue
		}
		j := i + 1
		for j < len(sc.cats) && sc.cats[j] == cat {
			j++
		}
		overlay := CatURL
		if cat != CatComment {
			overlay = CatURLInQuote
		}
		for _, m := range re.FindAllStringIndex(sc.text[i:j], -1) {
			sc.fill(i+m[0], i+m[1], overlay)
		}
		i = j
	}
}
