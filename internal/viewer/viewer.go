// Package viewer is a read-only terminal document viewer built on the
// syntax engine. Scrolling feeds viewport notifications to the rehighlight
// orchestrator and file changes on disk are re-fed as edit notifications,
// so the viewer doubles as the engine's reference integration.
package viewer

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"github.com/gdamore/tcell/v2"

	"github.com/dshills/glint/internal/config"
	"github.com/dshills/glint/internal/filetype"
	"github.com/dshills/glint/internal/logging"
	"github.com/dshills/glint/internal/syntax/grammar"
	"github.com/dshills/glint/internal/syntax/lexer"
	"github.com/dshills/glint/internal/syntax/rehighlight"
	"github.com/dshills/glint/internal/syntax/store"
)

// Viewer displays one document. All engine work runs on the event loop
// goroutine; background sources only post tasks into it.
type Viewer struct {
	screen tcell.Screen
	st     *store.Store
	orch   *rehighlight.Orchestrator
	styles map[lexer.Category]tcell.Style
	logger *log.Logger

	path string
	tag  grammar.Tag

	top    int
	width  int
	height int

	// tasks carries deferred engine work (pass initiation, completion
	// signals) onto the event loop.
	tasks chan func()
}

// New loads the document at path and prepares a viewer for it.
func New(path string, cfg *config.Config, logger *log.Logger) (*Viewer, error) {
	if logger == nil {
		logger = logging.Default()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}

	id := filetype.Sniff(path)
	tag := filetype.Classify(id)
	g, _ := grammar.Lookup(tag)

	v := &Viewer{
		st:     store.NewFromString(string(data)),
		styles: buildStyles(cfg.Theme),
		logger: logger,
		path:   path,
		tag:    tag,
		tasks:  make(chan func(), 64),
	}

	v.orch = rehighlight.New(v.st, lexer.New(g),
		rehighlight.WithLogger(logger),
		rehighlight.WithScheduler(v.post),
		rehighlight.WithSizeLimit(cfg.MaxHighlightBytes),
		rehighlight.WithCompletion(func() { v.draw() }),
	)

	logger.Info("document opened",
		logging.FieldPath, path,
		logging.FieldTag, string(tag),
		logging.FieldDoc, v.st.ID(),
		logging.FieldLines, v.st.LineCount())

	if cfg.Highlight {
		v.orch.Enable()
	}
	return v, nil
}

// post schedules fn onto the event loop.
func (v *Viewer) post(fn func()) {
	select {
	case v.tasks <- fn:
	default:
		go func() { v.tasks <- fn }()
	}
}

// Run owns the terminal until the user quits.
func (v *Viewer) Run() error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("creating screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("initializing screen: %w", err)
	}
	v.screen = screen
	defer screen.Fini()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()
	if err := watcher.Add(v.path); err != nil {
		v.logger.Warn("file watch unavailable",
			logging.FieldPath, v.path, logging.FieldError, err)
	}

	events := make(chan tcell.Event, 8)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	}()

	v.width, v.height = screen.Size()
	v.syncViewport()
	v.draw()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if quit := v.handleEvent(ev); quit {
				return nil
			}

		case fsEv := <-watcher.Events:
			if fsEv.Has(fsnotify.Write) || fsEv.Has(fsnotify.Create) {
				v.reload()
			}

		case err := <-watcher.Errors:
			v.logger.Warn("file watch error", logging.FieldError, err)

		case fn := <-v.tasks:
			fn()
		}
	}
}

// handleEvent processes one terminal event; it reports whether the viewer
// should exit.
func (v *Viewer) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		v.width, v.height = ev.Size()
		v.screen.Sync()
		v.syncViewport()
		v.draw()

	case *tcell.EventKey:
		switch {
		case ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
			(ev.Key() == tcell.KeyRune && ev.Rune() == 'q'):
			return true
		case ev.Key() == tcell.KeyUp:
			v.scrollTo(v.top - 1)
		case ev.Key() == tcell.KeyDown:
			v.scrollTo(v.top + 1)
		case ev.Key() == tcell.KeyPgUp:
			v.scrollTo(v.top - v.contentHeight())
		case ev.Key() == tcell.KeyPgDn || (ev.Key() == tcell.KeyRune && ev.Rune() == ' '):
			v.scrollTo(v.top + v.contentHeight())
		case ev.Key() == tcell.KeyHome || (ev.Key() == tcell.KeyRune && ev.Rune() == 'g'):
			v.scrollTo(0)
		case ev.Key() == tcell.KeyEnd || (ev.Key() == tcell.KeyRune && ev.Rune() == 'G'):
			v.scrollTo(v.st.LineCount())
		case ev.Key() == tcell.KeyRune && ev.Rune() == 'h':
			v.toggleHighlight()
		case ev.Key() == tcell.KeyCtrlL:
			v.orch.ForceFull()
			v.screen.Sync()
			v.draw()
		}
	}
	return false
}

// toggleHighlight flips highlighting on or off at runtime.
func (v *Viewer) toggleHighlight() {
	if v.orch.Enabled() {
		v.orch.Disable()
	} else {
		v.orch.Enable()
		v.syncViewport()
	}
	v.draw()
}

// scrollTo moves the viewport so line becomes the top line, clamped to the
// document.
func (v *Viewer) scrollTo(line int) {
	maxTop := v.st.LineCount() - v.contentHeight()
	if line > maxTop {
		line = maxTop
	}
	if line < 0 {
		line = 0
	}
	if line == v.top {
		return
	}
	v.top = line
	v.syncViewport()
	v.draw()
}

// contentHeight is the number of document rows, excluding the status line.
func (v *Viewer) contentHeight() int {
	if v.height <= 1 {
		return v.height
	}
	return v.height - 1
}

// syncViewport tells the orchestrator which lines are visible.
func (v *Viewer) syncViewport() {
	last := v.top + v.contentHeight() - 1
	v.orch.OnViewportChange(v.top, last)
}
