package viewer

import (
	"os"
	"strings"

	"github.com/dshills/glint/internal/logging"
)

// reload re-reads the file from disk, applies the difference to the store
// as line edits, and notifies the orchestrator. Unchanged leading and
// trailing lines keep their cached classification.
func (v *Viewer) reload() {
	data, err := os.ReadFile(v.path)
	if err != nil {
		v.logger.Warn("reload failed",
			logging.FieldPath, v.path, logging.FieldError, err)
		return
	}

	old := v.st.Lines()
	next := strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")

	// Common prefix.
	p := 0
	for p < len(old) && p < len(next) && old[p] == next[p] {
		p++
	}
	if p == len(old) && p == len(next) {
		return
	}

	// Common suffix, not crossing the prefix.
	oldEnd, newEnd := len(old), len(next)
	for oldEnd > p && newEnd > p && old[oldEnd-1] == next[newEnd-1] {
		oldEnd--
		newEnd--
	}

	shared := oldEnd - p
	if newEnd-p < shared {
		shared = newEnd - p
	}
	for i := 0; i < shared; i++ {
		v.st.SetText(p+i, next[p+i])
	}
	if oldEnd-p > newEnd-p {
		v.st.Remove(p+shared, (oldEnd-p)-(newEnd-p))
	} else if newEnd-p > oldEnd-p {
		v.st.Insert(p+shared, next[p+shared:newEnd])
	}

	last := newEnd - 1
	if last < p {
		last = p
	}
	v.logger.Debug("document reloaded",
		logging.FieldPath, v.path,
		logging.FieldLines, v.st.LineCount())

	v.orch.OnEdit(p, last)
	v.scrollTo(v.top)
	v.syncViewport()
	v.draw()
}
