package buffer

import (
	"strings"

	"miter/highlight"
)

// Row is one line of text plus its derived render form and highlight
// tags. The render form has tabs expanded to the buffer tab stop; both
// it and the tags are regenerated immediately after any mutation of
// chars, so readers never see them stale.
type Row struct {
	chars  []rune
	render string
	tags   []highlight.Tag
	index  int
	dirty  bool
}

func newRow(index int, text string) *Row {
	return &Row{chars: []rune(text), index: index, dirty: true}
}

func (r *Row) Text() string { return string(r.chars) }

func (r *Row) Len() int { return len(r.chars) }

// Render returns the tab-expanded form of the row.
func (r *Row) Render() string { return r.render }

// Tags returns one highlight tag per render rune.
func (r *Row) Tags() []highlight.Tag { return r.tags }

func (r *Row) Index() int { return r.index }

func (r *Row) IsDirty() bool { return r.dirty }

// update regenerates the render form and highlight tags.
func (r *Row) update(tabStop int, lang string) {
	var sb strings.Builder
	col := 0
	for _, ch := range r.chars {
		if ch == '\t' {
			sb.WriteRune(' ')
			col++
			for col%tabStop != 0 {
				sb.WriteRune(' ')
				col++
			}
		} else {
			sb.WriteRune(ch)
			col++
		}
	}
	r.render = sb.String()
	r.tags = highlight.ScanLine(lang, r.render)
	r.dirty = true
}

// CxToRx maps a chars column to the corresponding render column.
func (r *Row) CxToRx(cx, tabStop int) int {
	rx := 0
	for i, ch := range r.chars {
		if i >= cx {
			break
		}
		if ch == '\t' {
			rx += (tabStop - 1) - (rx % tabStop)
		}
		rx++
	}
	return rx
}

// RxToCx maps a render column back to a chars column.
func (r *Row) RxToCx(rx, tabStop int) int {
	cur := 0
	for cx, ch := range r.chars {
		if ch == '\t' {
			cur += (tabStop - 1) - (cur % tabStop)
		}
		cur++
		if cur > rx {
			return cx
		}
	}
	return len(r.chars)
}

func (r *Row) indentation() int {
	n := 0
	for _, ch := range r.chars {
		if ch != ' ' && ch != '\t' {
			break
		}
		n++
	}
	return n
}

func (r *Row) firstNonWhitespace() int {
	for i, ch := range r.chars {
		if ch != ' ' && ch != '\t' {
			return i
		}
	}
	return 0
}

func isSpace(ch rune) bool {
	return ch == ' ' || ch == '\t'
}
