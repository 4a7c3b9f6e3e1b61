package editor

import (
	"fmt"

	"miter/buffer"
	"miter/highlight"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// textHeight is the number of rows available for buffer text.
func (e *Editor) textHeight() int {
	_, h := e.screen.Size()
	return h - 1
}

// gutterWidth is the width of the line number gutter, 0 when line
// numbers are off.
func (e *Editor) gutterWidth() int {
	if !e.cfg.LineNumbers {
		return 0
	}
	digits := 1
	for n := e.buf.RowCount(); n >= 10; n /= 10 {
		digits++
	}
	if digits < 3 {
		digits = 3
	}
	return digits + 1
}

// ensureCursorVisible scrolls the view so the primary cursor stays on
// screen. Wheel scrolling suppresses the snap until the next keypress.
func (e *Editor) ensureCursorVisible() {
	if e.mouseScrolling {
		return
	}
	w, _ := e.screen.Size()
	h := e.textHeight()
	cur := e.buf.Cursors.Primary

	if cur.Line < e.scrollY {
		e.scrollY = cur.Line
	}
	if cur.Line >= e.scrollY+h {
		e.scrollY = cur.Line - h + 1
	}

	rx := 0
	if r := e.buf.Row(cur.Line); r != nil {
		rx = r.CxToRx(cur.Col, e.buf.TabStop)
	}
	textW := w - e.gutterWidth()
	if textW < 1 {
		textW = 1
	}
	if rx < e.scrollX {
		e.scrollX = rx
	}
	if rx >= e.scrollX+textW {
		e.scrollX = rx - textW + 1
	}
}

func (e *Editor) render() {
	theme := e.cfg.GetTheme()
	defaultStyle := tcell.StyleDefault.Background(theme.Background).Foreground(theme.Foreground)
	e.screen.SetStyle(defaultStyle)
	e.screen.Clear()

	e.ensureCursorVisible()

	screenW, screenH := e.screen.Size()
	gutter := e.gutterWidth()
	buf := e.buf

	var selStart, selEnd buffer.Cursor
	hasSel := buf.HasSelection()
	if hasSel {
		selStart, selEnd = buf.Selection.Normalized()
	}

	// Secondary carets by line, in render columns.
	extraCarets := map[int][]int{}
	for _, c := range buf.Cursors.Extras {
		if r := buf.Row(c.Line); r != nil {
			extraCarets[c.Line] = append(extraCarets[c.Line], r.CxToRx(c.Col, buf.TabStop))
		}
	}

	numStyle := defaultStyle.Foreground(theme.LineNumber)
	numActiveStyle := defaultStyle.Foreground(theme.LineNumberActive).Bold(true)
	selStyle := defaultStyle.Background(theme.Selection)
	caretStyle := defaultStyle.Background(theme.SecondaryCursor).Foreground(theme.Background)

	for y := 0; y < screenH-1; y++ {
		line := y + e.scrollY
		r := buf.Row(line)
		if r == nil {
			if gutter > 0 {
				e.screen.SetContent(gutter-2, y, '~', nil, numStyle)
			}
			continue
		}

		if gutter > 0 {
			style := numStyle
			if line == buf.Cursors.Primary.Line {
				style = numActiveStyle
			}
			num := fmt.Sprintf("%*d", gutter-1, line+1)
			for i, ch := range num {
				e.screen.SetContent(i, y, ch, nil, style)
			}
		}

		// Selection bounds for this line, in render columns.
		selFrom, selTo := -1, -1
		if hasSel && line >= selStart.Line && line <= selEnd.Line {
			selFrom, selTo = 0, r.CxToRx(r.Len(), buf.TabStop)
			if line == selStart.Line {
				selFrom = r.CxToRx(selStart.Col, buf.TabStop)
			}
			if line == selEnd.Line {
				selTo = r.CxToRx(selEnd.Col, buf.TabStop)
			}
		}

		renderRunes := []rune(r.Render())
		tags := r.Tags()
		x := gutter
		for rx := e.scrollX; rx < len(renderRunes) && x < screenW; rx++ {
			ch := renderRunes[rx]
			style := defaultStyle
			if rx < len(tags) {
				style = e.tagStyle(tags[rx], defaultStyle)
			}
			if selFrom >= 0 && rx >= selFrom && rx < selTo {
				style = selStyle.Foreground(theme.Foreground)
			}
			if caretAt(extraCarets[line], rx) {
				style = caretStyle
			}
			e.screen.SetContent(x, y, ch, nil, style)
			x += runewidth.RuneWidth(ch)
		}

		// Carets past the end of the line.
		endRx := len(renderRunes)
		if caretAt(extraCarets[line], endRx) && x < screenW {
			e.screen.SetContent(x, y, ' ', nil, caretStyle)
		}
		// Selections spanning the newline highlight one trailing cell.
		if hasSel && line >= selStart.Line && line < selEnd.Line && x < screenW {
			e.screen.SetContent(x, y, ' ', nil, selStyle)
		}
	}

	e.statusBar.Theme = theme
	e.statusBar.Render(e.screen, 0, screenH-1, screenW, 1)

	// Hardware cursor on the primary position.
	cur := buf.Cursors.Primary
	if r := buf.Row(cur.Line); r != nil {
		rx := r.CxToRx(cur.Col, buf.TabStop)
		e.screen.ShowCursor(gutter+rx-e.scrollX, cur.Line-e.scrollY)
	} else {
		e.screen.HideCursor()
	}

	e.screen.Show()
}

func caretAt(carets []int, rx int) bool {
	for _, c := range carets {
		if c == rx {
			return true
		}
	}
	return false
}

// tagStyle layers a syntax tag's foreground and attributes over the
// theme background.
func (e *Editor) tagStyle(tag highlight.Tag, base tcell.Style) tcell.Style {
	fg, _, attr := highlight.StyleFor(tag).Decompose()
	s := base.Foreground(fg)
	if attr&tcell.AttrBold != 0 {
		s = s.Bold(true)
	}
	if attr&tcell.AttrItalic != 0 {
		s = s.Italic(true)
	}
	return s
}
