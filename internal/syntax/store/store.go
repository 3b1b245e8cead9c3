// Package store owns the per-document sequence of line records behind the
// syntax highlighting engine. Each record caches its line text, the carry
// state flowing across its boundaries, the line's auxiliary lexing data,
// its format spans, and a clean flag. The store is exclusively owned by one
// document; dropping it on document close is always safe.
package store

import (
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/dshills/glint/internal/syntax/lexer"
)

// record is one line's cached classification.
type record struct {
	text     string
	carryIn  lexer.State
	carryOut lexer.State
	aux      lexer.Aux
	spans    []lexer.Span
	clean    bool
}

// Store is an ordered sequence of line records. All methods are safe for
// concurrent use, though the engine drives it from a single goroutine.
type Store struct {
	mu    sync.RWMutex
	id    string
	lines []*record
	size  int64
}

// New creates an empty store with a fresh document identity.
func New() *Store {
	return &Store{id: uuid.NewString()}
}

// NewFromString creates a store holding the given text split into lines.
// Every line starts dirty.
func NewFromString(text string) *Store {
	s := New()
	s.Reset(text)
	return s
}

// ID returns the document identity, used for log correlation.
func (s *Store) ID() string {
	return s.id
}

// Reset replaces the whole document, marking every line dirty.
func (s *Store) Reset(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	texts := splitLines(text)
	s.lines = make([]*record, len(texts))
	s.size = 0
	for i, t := range texts {
		s.lines[i] = &record{text: t}
		s.size += int64(len(t))
	}
}

// splitLines splits document text into lines without terminators. An empty
// document still has one empty line.
func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.Split(text, "\n")
}

// LineCount returns the number of lines.
func (s *Store) LineCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.lines)
}

// Size returns the total byte size of the document text.
func (s *Store) Size() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.size
}

// Text returns the text of line i, or the empty string out of range.
func (s *Store) Text(i int) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i < 0 || i >= len(s.lines) {
		return ""
	}
	return s.lines[i].text
}

// SetText replaces the text of line i and marks it dirty.
func (s *Store) SetText(i int, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= len(s.lines) {
		return
	}
	rec := s.lines[i]
	s.size += int64(len(text)) - int64(len(rec.text))
	rec.text = text
	rec.clean = false
}

// Insert adds new lines before index at, marking them dirty. at may equal
// LineCount to append.
func (s *Store) Insert(at int, texts []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if at < 0 || at > len(s.lines) || len(texts) == 0 {
		return
	}
	recs := make([]*record, len(texts))
	for i, t := range texts {
		recs[i] = &record{text: t}
		s.size += int64(len(t))
	}
	s.lines = append(s.lines[:at], append(recs, s.lines[at:]...)...)
	// The line now following the insertion inherits a possibly stale
	// carry-in; it must be reclassified.
	if at+len(texts) < len(s.lines) {
		s.lines[at+len(texts)].clean = false
	}
}

// Remove deletes n lines starting at index at. The line that moves up into
// the gap is marked dirty, since its carry-in changed.
func (s *Store) Remove(at, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if at < 0 || at >= len(s.lines) || n <= 0 {
		return
	}
	end := at + n
	if end > len(s.lines) {
		end = len(s.lines)
	}
	for i := at; i < end; i++ {
		s.size -= int64(len(s.lines[i].text))
	}
	s.lines = append(s.lines[:at], s.lines[end:]...)
	if at < len(s.lines) {
		s.lines[at].clean = false
	}
}

// IsClean reports whether line i has a valid cached classification.
func (s *Store) IsClean(i int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i < 0 || i >= len(s.lines) {
		return false
	}
	return s.lines[i].clean
}

// MarkDirty invalidates line i's cached classification.
func (s *Store) MarkDirty(i int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i >= 0 && i < len(s.lines) {
		s.lines[i].clean = false
	}
}

// MarkRangeDirty invalidates the inclusive line range [first, last].
func (s *Store) MarkRangeDirty(first, last int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if first < 0 {
		first = 0
	}
	for i := first; i <= last && i < len(s.lines); i++ {
		s.lines[i].clean = false
	}
}

// MarkAllDirty invalidates every line.
func (s *Store) MarkAllDirty() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range s.lines {
		rec.clean = false
	}
}

// FirstDirty returns the index of the first dirty line at or after from, or
// -1 if every following line is clean.
func (s *Store) FirstDirty(from int) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if from < 0 {
		from = 0
	}
	for i := from; i < len(s.lines); i++ {
		if !s.lines[i].clean {
			return i
		}
	}
	return -1
}

// Spans returns the cached spans of line i along with its clean flag. A
// dirty line's spans may be stale; the caller may render a neutral
// placeholder instead.
func (s *Store) Spans(i int) ([]lexer.Span, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i < 0 || i >= len(s.lines) {
		return nil, false
	}
	return s.lines[i].spans, s.lines[i].clean
}

// CarryOut returns the cached carry-out state and aux of line i. For i ==
// -1 it returns the document-start state, so callers can uniformly ask for
// the carry-in of line 0.
func (s *Store) CarryOut(i int) (lexer.State, lexer.Aux) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i < 0 || i >= len(s.lines) {
		return lexer.Normal, lexer.Aux{}
	}
	return s.lines[i].carryOut, s.lines[i].aux.Clone()
}

// Commit stores the classification of line i and reports whether the
// newly computed carry-out differs from the previously cached one, in
// which case downstream lines must be relexed.
func (s *Store) Commit(i int, carryIn lexer.State, res lexer.Result) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= len(s.lines) {
		return false
	}
	rec := s.lines[i]
	changed := rec.carryOut != res.State || !rec.aux.Equal(res.Aux)
	rec.carryIn = carryIn
	rec.carryOut = res.State
	rec.aux = res.Aux.Clone()
	rec.spans = res.Spans
	rec.clean = true
	return changed
}

// SetNeutral replaces line i's classification with a single all-neutral
// span, preserving its cached carry-out, and marks it clean. Used when a
// line's classification failed: highlighting must never block editing, so
// the line is not retried until its text changes again.
func (s *Store) SetNeutral(i int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= len(s.lines) {
		return
	}
	rec := s.lines[i]
	rec.spans = lexer.NeutralSpans(len(rec.text))
	rec.clean = true
}

// NeutralizeAll clears every line to a single neutral span and marks it
// clean. Used when highlighting is disabled.
func (s *Store) NeutralizeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range s.lines {
		rec.spans = lexer.NeutralSpans(len(rec.text))
		rec.carryIn = lexer.Normal
		rec.carryOut = lexer.Normal
		rec.aux = lexer.Aux{}
		rec.clean = true
	}
}

// Lines returns a copy of every line's text, in order.
func (s *Store) Lines() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.lines))
	for i, rec := range s.lines {
		out[i] = rec.text
	}
	return out
}
