package store

import (
	"testing"

	"github.com/dshills/glint/internal/syntax/lexer"
)

func TestNewFromString(t *testing.T) {
	s := NewFromString("one\ntwo\nthree")

	if s.LineCount() != 3 {
		t.Fatalf("LineCount() = %d, want 3", s.LineCount())
	}
	if s.Text(1) != "two" {
		t.Errorf("Text(1) = %q, want 'two'", s.Text(1))
	}
	if s.ID() == "" {
		t.Error("ID() should not be empty")
	}
	if s.IsClean(0) {
		t.Error("fresh lines should start dirty")
	}
}

func TestNewFromStringNormalizesCRLF(t *testing.T) {
	s := NewFromString("a\r\nb")
	if s.LineCount() != 2 {
		t.Fatalf("LineCount() = %d, want 2", s.LineCount())
	}
	if s.Text(0) != "a" {
		t.Errorf("Text(0) = %q, want 'a'", s.Text(0))
	}
}

func TestEmptyDocumentHasOneLine(t *testing.T) {
	s := NewFromString("")
	if s.LineCount() != 1 {
		t.Errorf("LineCount() = %d, want 1", s.LineCount())
	}
	if s.Text(0) != "" {
		t.Errorf("Text(0) = %q, want empty", s.Text(0))
	}
}

func TestSetTextMarksDirty(t *testing.T) {
	s := NewFromString("a\nb")
	commitNeutral(s, 0)
	commitNeutral(s, 1)

	s.SetText(0, "changed")
	if s.IsClean(0) {
		t.Error("edited line should be dirty")
	}
	if !s.IsClean(1) {
		t.Error("untouched line should stay clean")
	}
	if s.Text(0) != "changed" {
		t.Errorf("Text(0) = %q, want 'changed'", s.Text(0))
	}
}

func TestInsertMarksFollowerDirty(t *testing.T) {
	s := NewFromString("a\nb\nc")
	for i := 0; i < 3; i++ {
		commitNeutral(s, i)
	}

	s.Insert(1, []string{"x", "y"})
	if s.LineCount() != 5 {
		t.Fatalf("LineCount() = %d, want 5", s.LineCount())
	}
	if s.Text(1) != "x" || s.Text(2) != "y" {
		t.Errorf("inserted lines = %q, %q", s.Text(1), s.Text(2))
	}
	if s.IsClean(1) || s.IsClean(2) {
		t.Error("inserted lines should start dirty")
	}
	// Line "b" moved down; its carry-in may have changed.
	if s.IsClean(3) {
		t.Error("line following the insertion should be dirty")
	}
	if !s.IsClean(0) {
		t.Error("line before the insertion should stay clean")
	}
}

func TestRemoveMarksFollowerDirty(t *testing.T) {
	s := NewFromString("a\nb\nc\nd")
	for i := 0; i < 4; i++ {
		commitNeutral(s, i)
	}

	s.Remove(1, 2)
	if s.LineCount() != 2 {
		t.Fatalf("LineCount() = %d, want 2", s.LineCount())
	}
	if s.Text(1) != "d" {
		t.Errorf("Text(1) = %q, want 'd'", s.Text(1))
	}
	if s.IsClean(1) {
		t.Error("line that moved up should be dirty")
	}
	if !s.IsClean(0) {
		t.Error("line before the removal should stay clean")
	}
}

func TestSizeTracking(t *testing.T) {
	s := NewFromString("abc\nde")
	if s.Size() != 5 {
		t.Fatalf("Size() = %d, want 5", s.Size())
	}
	s.SetText(0, "a")
	if s.Size() != 3 {
		t.Errorf("Size() after SetText = %d, want 3", s.Size())
	}
	s.Insert(2, []string{"fgh"})
	if s.Size() != 6 {
		t.Errorf("Size() after Insert = %d, want 6", s.Size())
	}
	s.Remove(0, 1)
	if s.Size() != 5 {
		t.Errorf("Size() after Remove = %d, want 5", s.Size())
	}
}

func TestFirstDirty(t *testing.T) {
	s := NewFromString("a\nb\nc")
	if got := s.FirstDirty(0); got != 0 {
		t.Errorf("FirstDirty(0) = %d, want 0", got)
	}
	commitNeutral(s, 0)
	commitNeutral(s, 1)
	if got := s.FirstDirty(0); got != 2 {
		t.Errorf("FirstDirty(0) = %d, want 2", got)
	}
	commitNeutral(s, 2)
	if got := s.FirstDirty(0); got != -1 {
		t.Errorf("FirstDirty(0) = %d, want -1", got)
	}
}

func TestCommitReportsCarryChange(t *testing.T) {
	s := NewFromString("a")

	res := lexer.Result{
		Spans: lexer.NeutralSpans(1),
		State: lexer.State{Mode: lexer.ModeDoubleQuote},
		Aux:   lexer.Aux{OpenQuotes: map[int]struct{}{0: {}}},
	}
	if !s.Commit(0, lexer.Normal, res) {
		t.Error("first commit with a non-zero carry should report a change")
	}
	if !s.IsClean(0) {
		t.Error("committed line should be clean")
	}

	// Same carry-out again: downstream lines need no work.
	if s.Commit(0, lexer.Normal, res) {
		t.Error("identical carry-out should report no change")
	}

	// Aux-only difference still counts.
	res2 := res
	res2.Aux = lexer.Aux{OpenNests: 1, OpenQuotes: map[int]struct{}{0: {}}}
	if !s.Commit(0, lexer.Normal, res2) {
		t.Error("aux change should report a change")
	}
}

func TestCarryOutOfDocumentStart(t *testing.T) {
	s := NewFromString("a")
	st, aux := s.CarryOut(-1)
	if st != lexer.Normal {
		t.Errorf("CarryOut(-1) state = %v, want normal", st)
	}
	if aux.OpenNests != 0 || aux.OpenQuotes != nil || aux.HeredocLabel != "" {
		t.Errorf("CarryOut(-1) aux = %+v, want zero", aux)
	}
}

func TestCarryOutIsCopied(t *testing.T) {
	s := NewFromString("a")
	s.Commit(0, lexer.Normal, lexer.Result{
		Spans: lexer.NeutralSpans(1),
		Aux:   lexer.Aux{OpenQuotes: map[int]struct{}{0: {}}},
	})

	_, aux := s.CarryOut(0)
	aux.OpenQuotes[9] = struct{}{}

	_, again := s.CarryOut(0)
	if _, ok := again.OpenQuotes[9]; ok {
		t.Error("CarryOut should return a copy of the aux data")
	}
}

func TestSetNeutralKeepsCarry(t *testing.T) {
	s := NewFromString("abc")
	res := lexer.Result{
		Spans: lexer.NeutralSpans(3),
		State: lexer.State{Mode: lexer.ModeSingleQuote},
	}
	s.Commit(0, lexer.Normal, res)

	s.MarkDirty(0)
	s.SetNeutral(0)
	if !s.IsClean(0) {
		t.Error("neutralized line should be clean")
	}
	st, _ := s.CarryOut(0)
	if st.Mode != lexer.ModeSingleQuote {
		t.Errorf("CarryOut after SetNeutral = %v, want preserved", st)
	}
	spans, _ := s.Spans(0)
	if len(spans) != 1 || spans[0].Category != lexer.CatNeutral {
		t.Errorf("spans = %v, want single neutral span", spans)
	}
}

func TestNeutralizeAll(t *testing.T) {
	s := NewFromString("a\nb")
	s.Commit(0, lexer.Normal, lexer.Result{
		Spans: lexer.NeutralSpans(1),
		State: lexer.State{Mode: lexer.ModeHeredoc},
		Aux:   lexer.Aux{HeredocLabel: "EOF"},
	})

	s.NeutralizeAll()
	for i := 0; i < 2; i++ {
		if !s.IsClean(i) {
			t.Errorf("line %d should be clean", i)
		}
		st, aux := s.CarryOut(i)
		if st != lexer.Normal || aux.HeredocLabel != "" {
			t.Errorf("line %d carry = %v %+v, want zero", i, st, aux)
		}
	}
}

func TestMarkRangeDirtyClamps(t *testing.T) {
	s := NewFromString("a\nb\nc")
	for i := 0; i < 3; i++ {
		commitNeutral(s, i)
	}
	s.MarkRangeDirty(-5, 99)
	for i := 0; i < 3; i++ {
		if s.IsClean(i) {
			t.Errorf("line %d should be dirty", i)
		}
	}
}

func TestOutOfRangeAccess(t *testing.T) {
	s := NewFromString("a")
	if s.Text(5) != "" {
		t.Error("Text out of range should be empty")
	}
	if s.IsClean(5) {
		t.Error("IsClean out of range should be false")
	}
	if spans, _ := s.Spans(-1); spans != nil {
		t.Error("Spans out of range should be nil")
	}
	s.SetText(5, "x")
	s.Remove(5, 1)
	s.Insert(9, []string{"x"})
	if s.LineCount() != 1 {
		t.Errorf("LineCount() = %d, want 1", s.LineCount())
	}
}

func commitNeutral(s *Store, i int) {
	s.Commit(i, lexer.Normal, lexer.Result{Spans: lexer.NeutralSpans(len(s.Text(i)))})
}
