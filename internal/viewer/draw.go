package viewer

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/dshills/glint/internal/config"
	"github.com/dshills/glint/internal/syntax/lexer"
)

// tabWidth is the rendered width of a tab stop.
const tabWidth = 8

// buildStyles resolves a theme's color names into per-category styles.
// Unset theme entries fall back to the terminal default.
func buildStyles(theme config.Theme) map[lexer.Category]tcell.Style {
	styles := make(map[lexer.Category]tcell.Style, 6)
	set := func(cat lexer.Category, color string) {
		style := tcell.StyleDefault
		if color != "" {
			style = style.Foreground(tcell.GetColor(color))
		}
		styles[cat] = style
	}
	set(lexer.CatNeutral, theme.Neutral)
	set(lexer.CatComment, theme.Comment)
	set(lexer.CatDoubleQuoted, theme.DoubleQuoted)
	set(lexer.CatSingleQuoted, theme.SingleQuoted)
	set(lexer.CatURL, theme.URL)
	set(lexer.CatURLInQuote, theme.URLInQuote)
	return styles
}

// draw repaints the whole screen from the store's cached spans.
func (v *Viewer) draw() {
	if v.screen == nil {
		return
	}
	v.screen.Clear()

	rows := v.contentHeight()
	for row := 0; row < rows; row++ {
		v.drawLine(row, v.top+row)
	}
	v.drawStatus()
	v.screen.Show()
}

// drawLine renders document line i on screen row. Dirty lines render in
// the neutral style until their pass lands.
func (v *Viewer) drawLine(row, i int) {
	if i >= v.st.LineCount() {
		return
	}
	text := v.st.Text(i)
	spans, clean := v.st.Spans(i)
	if !clean || len(spans) == 0 {
		spans = lexer.NeutralSpans(len(text))
	}

	col := 0
	for _, span := range spans {
		style := v.style(span.Category)
		for _, r := range text[span.Start:span.End()] {
			if col >= v.width {
				return
			}
			if r == '\t' {
				next := (col/tabWidth + 1) * tabWidth
				for ; col < next && col < v.width; col++ {
					v.screen.SetContent(col, row, ' ', nil, style)
				}
				continue
			}
			v.screen.SetContent(col, row, r, nil, style)
			col += runewidth.RuneWidth(r)
		}
	}
}

// drawStatus paints the bottom status line.
func (v *Viewer) drawStatus() {
	if v.height < 2 {
		return
	}
	row := v.height - 1
	style := tcell.StyleDefault.Reverse(true)

	hl := "off"
	if v.orch.Enabled() {
		hl = string(v.tag)
	}
	status := fmt.Sprintf(" %s  [%s]  line %d/%d ",
		v.path, hl, v.top+1, v.st.LineCount())
	status = runewidth.Truncate(status, v.width, "")
	status = runewidth.FillRight(status, v.width)

	col := 0
	for _, r := range status {
		v.screen.SetContent(col, row, r, nil, style)
		col += runewidth.RuneWidth(r)
	}
}

func (v *Viewer) style(cat lexer.Category) tcell.Style {
	if style, ok := v.styles[cat]; ok {
		return style
	}
	return tcell.StyleDefault
}
