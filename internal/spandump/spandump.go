// Package spandump prints a document's classified spans as text, one line
// per span. It drives the same engine as the interactive viewer but runs a
// forced full pass first, so the output reflects a fully consistent
// document rather than whatever a lazy viewport pass has reached.
package spandump

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/dshills/glint/internal/logging"
	"github.com/dshills/glint/internal/syntax/grammar"
	"github.com/dshills/glint/internal/syntax/lexer"
	"github.com/dshills/glint/internal/syntax/rehighlight"
	"github.com/dshills/glint/internal/syntax/store"
)

// Dump classifies the file at path under the given grammar tag and writes
// its spans to w.
func Dump(w io.Writer, path string, tag grammar.Tag) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}

	g, _ := grammar.Lookup(tag)
	st := store.NewFromString(string(data))

	orch := rehighlight.New(st, lexer.New(g),
		rehighlight.WithLogger(logging.Discard()),
		rehighlight.WithScheduler(func(fn func()) { fn() }),
	)
	orch.Enable()

	bw := bufio.NewWriter(w)
	for i := 0; i < st.LineCount(); i++ {
		text := st.Text(i)
		spans, _ := st.Spans(i)
		for _, span := range spans {
			fmt.Fprintf(bw, "%d:%d-%d\t%s\t%q\n",
				i+1, span.Start, span.End(), span.Category, text[span.Start:span.End()])
		}
	}
	return bw.Flush()
}
