package buffer

import (
	"sort"
	"strings"
)

// cursorLines returns the distinct lines holding a cursor, sorted
// descending so row edits can apply without invalidating later ones.
func (b *Buffer) cursorLines() []int {
	seen := map[int]bool{b.Cursors.Primary.Line: true}
	for _, c := range b.Cursors.Extras {
		seen[c.Line] = true
	}
	lines := make([]int, 0, len(seen))
	for l := range seen {
		if l >= 0 && l < b.RowCount() {
			lines = append(lines, l)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(lines)))
	return lines
}

// forEachCursor applies fn to the primary and every secondary cursor.
func (cs *CursorSet) forEachCursor(fn func(c Cursor) Cursor) {
	cs.Primary = fn(cs.Primary)
	for i, c := range cs.Extras {
		cs.Extras[i] = fn(c)
	}
}

// DuplicateLines copies every cursor line below itself. Cursors move
// onto the duplicates.
func (b *Buffer) DuplicateLines() {
	lines := b.cursorLines()
	for _, l := range lines {
		b.InsertRow(l+1, b.RowText(l))
	}
	b.Cursors.forEachCursor(func(c Cursor) Cursor {
		shift := 0
		for _, l := range lines {
			if l <= c.Line {
				shift++
			}
		}
		return Cursor{Line: c.Line + shift, Col: c.Col}
	})
	b.Cursors.RemoveDuplicates()
}

// DeleteLines removes every cursor line. Deleting the last remaining
// line leaves a single empty row.
func (b *Buffer) DeleteLines() {
	lines := b.cursorLines()
	for _, l := range lines {
		if b.RowCount() == 1 {
			r := b.rows[0]
			r.chars = r.chars[:0]
			r.update(b.TabStop, b.Language)
			b.Dirty++
			break
		}
		b.DeleteRow(l)
	}
	b.Cursors.forEachCursor(func(c Cursor) Cursor {
		shift := 0
		for _, l := range lines {
			if l < c.Line {
				shift++
			}
		}
		return b.clampPos(Cursor{Line: c.Line - shift, Col: c.Col})
	})
	b.Cursors.RemoveDuplicates()
	b.Selection = nil
}

// MoveLinesUp swaps every cursor line with the one above it, walking
// top to bottom so adjacent lines move as a block.
func (b *Buffer) MoveLinesUp() {
	lines := b.cursorLines()
	sort.Ints(lines)
	if len(lines) == 0 || lines[0] == 0 {
		return
	}
	for _, l := range lines {
		b.SwapRows(l-1, l)
		b.Cursors.forEachCursor(func(c Cursor) Cursor {
			switch c.Line {
			case l:
				c.Line = l - 1
			case l - 1:
				c.Line = l
			}
			return c
		})
	}
}

// MoveLinesDown swaps every cursor line with the one below it, walking
// bottom to top.
func (b *Buffer) MoveLinesDown() {
	lines := b.cursorLines()
	if len(lines) == 0 || lines[0] >= b.RowCount()-1 {
		return
	}
	for _, l := range lines {
		b.SwapRows(l, l+1)
		b.Cursors.forEachCursor(func(c Cursor) Cursor {
			switch c.Line {
			case l:
				c.Line = l + 1
			case l + 1:
				c.Line = l
			}
			return c
		})
	}
}

// JoinLines merges each cursor line with the line below it, inserting
// a single space when neither side supplies one. Cursors that sat on
// the pulled-up line keep their place in the merged text.
func (b *Buffer) JoinLines() {
	lines := b.cursorLines()
	for _, l := range lines {
		if l >= b.RowCount()-1 {
			continue
		}
		cur := b.Row(l)
		next := b.RowText(l + 1)
		joinAt := len(cur.chars)
		needSpace := joinAt > 0 && len(next) > 0 &&
			!isSpace(cur.chars[joinAt-1]) && !isSpace([]rune(next)[0])
		if needSpace {
			b.RowAppend(l, " ")
			joinAt++
		}
		b.RowAppend(l, next)
		b.DeleteRow(l + 1)

		b.Cursors.forEachCursor(func(c Cursor) Cursor {
			switch {
			case c.Line == l+1:
				return Cursor{Line: l, Col: c.Col + joinAt}
			case c.Line > l+1:
				return Cursor{Line: c.Line - 1, Col: c.Col}
			}
			return c
		})
	}
	b.Cursors.RemoveDuplicates()
}

// IndentLines shifts every cursor line right by one indent level.
func (b *Buffer) IndentLines() {
	pad := strings.Repeat(" ", b.IndentWidth)
	for _, l := range b.cursorLines() {
		r := b.Row(l)
		r.chars = append([]rune(pad), r.chars...)
		r.update(b.TabStop, b.Language)
		b.Dirty++

		b.Cursors.forEachCursor(func(c Cursor) Cursor {
			if c.Line == l {
				c.Col += b.IndentWidth
			}
			return c
		})
	}
}

// UnindentLines shifts every cursor line left by up to one indent
// level of leading spaces.
func (b *Buffer) UnindentLines() {
	for _, l := range b.cursorLines() {
		r := b.Row(l)
		remove := 0
		for remove < b.IndentWidth && remove < len(r.chars) && r.chars[remove] == ' ' {
			remove++
		}
		if remove == 0 {
			continue
		}
		r.chars = r.chars[remove:]
		r.update(b.TabStop, b.Language)
		b.Dirty++

		b.Cursors.forEachCursor(func(c Cursor) Cursor {
			if c.Line == l {
				c.Col -= remove
				if c.Col < 0 {
					c.Col = 0
				}
			}
			return c
		})
	}
}

// ToggleLineComments comments every cursor line with the language's
// line marker, or uncomments when every non-blank cursor line already
// carries it.
func (b *Buffer) ToggleLineComments() {
	if b.LineComment == "" {
		return
	}
	lines := b.cursorLines()

	allCommented := true
	anyText := false
	for _, l := range lines {
		text := strings.TrimLeft(b.RowText(l), " \t")
		if text == "" {
			continue
		}
		anyText = true
		if !strings.HasPrefix(text, b.LineComment) {
			allCommented = false
		}
	}
	if !anyText {
		return
	}

	marker := []rune(b.LineComment)
	for _, l := range lines {
		r := b.Row(l)
		idx := r.firstNonWhitespace()
		rest := r.chars[idx:]
		if len(rest) == 0 || onlyWhitespace(rest) {
			continue
		}

		if allCommented {
			if !strings.HasPrefix(string(rest), b.LineComment) {
				continue
			}
			remove := len(marker)
			if len(rest) > remove && rest[remove] == ' ' {
				remove++
			}
			r.chars = append(r.chars[:idx], rest[remove:]...)
			r.update(b.TabStop, b.Language)
			b.Dirty++
			b.shiftColsOnLine(l, idx, -remove)
			continue
		}

		ins := append(append([]rune{}, marker...), ' ')
		r.chars = append(r.chars[:idx], append(ins, rest...)...)
		r.update(b.TabStop, b.Language)
		b.Dirty++
		b.shiftColsOnLine(l, idx, len(ins))
	}
	b.clampCursor()
}

// shiftColsOnLine moves every cursor on line that sits at or past col
// by delta, flooring at zero.
func (b *Buffer) shiftColsOnLine(line, col, delta int) {
	b.Cursors.forEachCursor(func(c Cursor) Cursor {
		if c.Line == line && c.Col >= col {
			c.Col += delta
			if c.Col < 0 {
				c.Col = 0
			}
		}
		return c
	})
}

// ToggleBlockComment wraps the selection, or the current line when
// nothing is selected, in the language's block comment markers. An
// already wrapped range is unwrapped instead.
func (b *Buffer) ToggleBlockComment() {
	if b.BlockCommentStart == "" || b.BlockCommentEnd == "" {
		return
	}

	var start, end Cursor
	if b.HasSelection() {
		start, end = b.Selection.Normalized()
	} else {
		line := b.clampPos(b.Cursors.Primary).Line
		r := b.Row(line)
		if r == nil {
			return
		}
		start = Cursor{Line: line, Col: r.firstNonWhitespace()}
		end = Cursor{Line: line, Col: len(r.chars)}
	}

	text := b.textInRange(start, end)
	opener, closer := b.BlockCommentStart+" ", " "+b.BlockCommentEnd
	if strings.HasPrefix(text, b.BlockCommentStart) && strings.HasSuffix(text, b.BlockCommentEnd) {
		inner := strings.TrimPrefix(text, b.BlockCommentStart)
		inner = strings.TrimSuffix(inner, b.BlockCommentEnd)
		inner = strings.TrimPrefix(inner, " ")
		inner = strings.TrimSuffix(inner, " ")
		b.removeRange(start, end)
		newEnd := b.insertTextAt(start, inner)
		b.setBlockSelection(start, newEnd)
		return
	}

	b.insertTextAt(end, closer)
	b.insertTextAt(start, opener)
	newEnd := end
	if start.Line == end.Line {
		newEnd.Col += len([]rune(opener))
	}
	newEnd.Col += len([]rune(closer))
	b.setBlockSelection(start, newEnd)
}

func (b *Buffer) setBlockSelection(start, end Cursor) {
	b.Selection = &Selection{Anchor: start, Live: end}
	b.Cursors.Primary = end
	b.Cursors.ClearExtras()
	b.clampCursor()
}
