// Package rehighlight decides which lines of a document must be relexed
// after an edit or a viewport change. A pass walks forward from the first
// dirty line, feeding each line's carry-out into the next line, and stops
// as soon as a line's newly computed carry state matches its cached value,
// which bounds the work done per keystroke independent of document length.
package rehighlight

import (
	"sync"

	"github.com/charmbracelet/log"

	"github.com/dshills/glint/internal/logging"
	"github.com/dshills/glint/internal/syntax/lexer"
	"github.com/dshills/glint/internal/syntax/store"
)

// Classifier is the line lexer contract the orchestrator drives.
type Classifier interface {
	Classify(text string, in lexer.State, aux lexer.Aux) lexer.Result
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the logger.
func WithLogger(logger *log.Logger) Option {
	return func(o *Orchestrator) { o.logger = logger }
}

// WithScheduler sets the function used to defer pass initiation and
// completion signals relative to the triggering event. The default runs
// deferred work on a fresh goroutine.
func WithScheduler(schedule func(func())) Option {
	return func(o *Orchestrator) { o.schedule = schedule }
}

// WithSizeLimit disables highlighting for documents larger than limit
// bytes. Zero means no limit.
func WithSizeLimit(limit int64) Option {
	return func(o *Orchestrator) { o.maxSize = limit }
}

// WithCompletion sets a hook invoked (via the scheduler) after a full pass
// finishes.
func WithCompletion(fn func()) Option {
	return func(o *Orchestrator) { o.onComplete = fn }
}

// Orchestrator owns the rehighlighting passes for one document.
type Orchestrator struct {
	mu         sync.Mutex
	store      *store.Store
	lex        Classifier
	logger     *log.Logger
	schedule   func(func())
	onComplete func()
	maxSize    int64

	// visible is the caller-supplied line range; the orchestrator never
	// queries presentation geometry itself.
	visFirst int
	visLast  int

	enabled bool
}

// New creates an orchestrator over a store and a classifier. Highlighting
// starts disabled; call Enable to schedule the initial full pass.
func New(st *store.Store, lex Classifier, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		store:    st,
		lex:      lex,
		logger:   logging.Default(),
		schedule: func(fn func()) { go fn() },
		visFirst: 0,
		visLast:  -1,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Enable turns highlighting on and schedules the initial full pass
// asynchronously relative to the caller. Documents over the size limit
// stay disabled.
func (o *Orchestrator) Enable() {
	o.mu.Lock()
	if o.enabled {
		o.mu.Unlock()
		return
	}
	if o.maxSize > 0 && o.store.Size() > o.maxSize {
		o.logger.Warn("document exceeds highlight size limit",
			logging.FieldDoc, o.store.ID(),
			logging.FieldSize, o.store.Size())
		o.mu.Unlock()
		return
	}
	o.enabled = true
	// Any cached spans predate highlighting; report them dirty until the
	// scheduled pass lands.
	o.store.MarkAllDirty()
	o.mu.Unlock()

	// ForceFull takes the lock itself, so the scheduler must run outside
	// the critical section: a synchronous scheduler re-enters immediately.
	o.schedule(o.ForceFull)
}

// Disable turns highlighting off and clears every line to neutral.
func (o *Orchestrator) Disable() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.enabled {
		return
	}
	o.enabled = false
	o.store.NeutralizeAll()
}

// Enabled reports whether highlighting is active.
func (o *Orchestrator) Enabled() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.enabled
}

// OnEdit marks the inclusive changed line range dirty and runs a pass from
// the first dirty line. The pass stops once a line's carry-out matches the
// cached value and the following line is clean.
func (o *Orchestrator) OnEdit(first, last int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.store.MarkRangeDirty(first, last)
	if !o.enabled {
		return
	}
	o.runDirty(0)
}

// OnViewportChange records the visible line range and classifies any
// visible line that is still dirty.
func (o *Orchestrator) OnViewportChange(first, last int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.visFirst, o.visLast = first, last
	if !o.enabled {
		return
	}
	for from := first; ; {
		d := o.store.FirstDirty(from)
		if d < 0 || d > last {
			return
		}
		o.runPass(d, last, false)
		from = d + 1
	}
}

// Visible returns the current visible line range.
func (o *Orchestrator) Visible() (int, int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.visFirst, o.visLast
}

// ForceFull classifies every line with the early-stop optimization
// disabled, guaranteeing full-document consistency. Used before printing
// and when highlighting is first enabled.
func (o *Orchestrator) ForceFull() {
	o.mu.Lock()
	if !o.enabled {
		o.mu.Unlock()
		return
	}
	o.runPass(0, -1, true)
	done := o.onComplete
	o.mu.Unlock()
	if done != nil {
		o.schedule(done)
	}
}

// runDirty classifies every dirty line at or after from, one contiguous
// pass at a time.
func (o *Orchestrator) runDirty(from int) {
	for {
		d := o.store.FirstDirty(from)
		if d < 0 {
			return
		}
		o.runPass(d, -1, false)
		from = d + 1
	}
}

// runPass classifies lines forward from start. Without force, the pass
// stops once a line's carry-out is unchanged and the next line is clean.
// A non-negative bound stops the pass after that line; when the carry was
// still changing there, the following line is re-marked dirty so a later
// pass picks it up.
func (o *Orchestrator) runPass(start, bound int, force bool) {
	n := o.store.LineCount()
	if start < 0 || start >= n {
		return
	}
	carry, aux := o.carryInFor(start)
	for i := start; i < n; i++ {
		changed := o.classifyLine(i, &carry, &aux)
		if force {
			continue
		}
		next := i + 1
		if next >= n {
			return
		}
		if !changed && o.store.IsClean(next) {
			return
		}
		if bound >= 0 && i >= bound {
			if changed {
				o.store.MarkDirty(next)
			}
			return
		}
	}
}

// classifyLine classifies one line, commits it, and advances the carry
// values. A panic during classification leaves the line all-neutral and
// clean so that editing never blocks on a highlighting failure.
func (o *Orchestrator) classifyLine(i int, carry *lexer.State, aux *lexer.Aux) bool {
	res, ok := o.classify(i, *carry, *aux)
	if !ok {
		o.store.SetNeutral(i)
		*carry, *aux = o.store.CarryOut(i)
		return false
	}
	changed := o.store.Commit(i, *carry, res)
	*carry = res.State
	*aux = res.Aux.Clone()
	return changed
}

func (o *Orchestrator) classify(i int, in lexer.State, aux lexer.Aux) (res lexer.Result, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("line classification failed",
				logging.FieldDoc, o.store.ID(),
				logging.FieldLine, i,
				logging.FieldError, r)
			ok = false
		}
	}()
	res = o.lex.Classify(o.store.Text(i), in, aux)
	return res, true
}

// carryInFor derives the carry-in of line i, walking backward to the
// nearest clean ancestor and classifying forward from there if needed.
func (o *Orchestrator) carryInFor(i int) (lexer.State, lexer.Aux) {
	if i <= 0 {
		return lexer.Normal, lexer.Aux{}
	}
	j := i - 1
	for j >= 0 && !o.store.IsClean(j) {
		j--
	}
	carry, aux := o.store.CarryOut(j)
	for k := j + 1; k < i; k++ {
		o.classifyLine(k, &carry, &aux)
	}
	return carry, aux
}
