package buffer

import "sort"

// CursorSet holds the primary cursor plus any secondary cursors.
// followPrimary controls whether movement drags the secondaries along;
// allowPrimaryOverlap lets exactly one secondary share the primary's
// position through the next dedupe pass. Both are one-shot flags
// managed by the add/move operations.
type CursorSet struct {
	Primary Cursor
	Extras  []Cursor

	followPrimary       bool
	allowPrimaryOverlap bool
}

func (cs *CursorSet) Count() int      { return 1 + len(cs.Extras) }
func (cs *CursorSet) HasExtras() bool { return len(cs.Extras) > 0 }

func (cs *CursorSet) ClearExtras() {
	cs.Extras = cs.Extras[:0]
	cs.followPrimary = true
	cs.allowPrimaryOverlap = false
}

// markedCursor is a snapshot entry from collect: a cursor position
// plus whether it was the primary, so restore can put it back.
type markedCursor struct {
	Pos       Cursor
	IsPrimary bool
}

// collect snapshots every cursor sorted descending by position.
// Descending order lets batch edits apply without earlier edits
// shifting later targets.
func (cs *CursorSet) collect() []markedCursor {
	all := make([]markedCursor, 0, cs.Count())
	all = append(all, markedCursor{Pos: cs.Primary, IsPrimary: true})
	for _, c := range cs.Extras {
		all = append(all, markedCursor{Pos: c})
	}
	sort.Slice(all, func(i, j int) bool {
		return all[j].Pos.Before(all[i].Pos)
	})
	return all
}

// restore writes recomputed positions back, routing the marked entry
// to the primary slot and the rest to the secondaries.
func (cs *CursorSet) restore(marked []markedCursor) {
	cs.Extras = cs.Extras[:0]
	for _, m := range marked {
		if m.IsPrimary {
			cs.Primary = m.Pos
		} else {
			cs.Extras = append(cs.Extras, m.Pos)
		}
	}
}

// RemoveDuplicates drops secondaries that collide. A secondary sitting
// on the primary survives only while allowPrimaryOverlap is set, and
// only one of them.
func (cs *CursorSet) RemoveDuplicates() {
	kept := cs.Extras[:0]
	overlapUsed := false
	for _, c := range cs.Extras {
		if c.Equal(cs.Primary) {
			if cs.allowPrimaryOverlap && !overlapUsed {
				overlapUsed = true
				kept = append(kept, c)
			}
			continue
		}
		kept = append(kept, c)
	}
	cs.Extras = kept

	sort.Slice(cs.Extras, func(i, j int) bool {
		return cs.Extras[i].Before(cs.Extras[j])
	})
	dedup := cs.Extras[:0]
	for i, c := range cs.Extras {
		if i > 0 && c.Equal(cs.Extras[i-1]) {
			continue
		}
		dedup = append(dedup, c)
	}
	cs.Extras = dedup
}

// AddCursorAbove places a secondary one line above the topmost cursor,
// at the primary's column.
func (b *Buffer) AddCursorAbove() {
	cs := &b.Cursors
	top := cs.Primary.Line
	for _, c := range cs.Extras {
		if c.Line < top {
			top = c.Line
		}
	}
	if top == 0 {
		return
	}
	pos := b.clampPos(Cursor{Line: top - 1, Col: cs.Primary.Col})
	cs.Extras = append(cs.Extras, pos)
	cs.followPrimary = true
	cs.allowPrimaryOverlap = false
	cs.RemoveDuplicates()
}

// AddCursorBelow places a secondary one line below the bottommost
// cursor, at the primary's column.
func (b *Buffer) AddCursorBelow() {
	cs := &b.Cursors
	bottom := cs.Primary.Line
	for _, c := range cs.Extras {
		if c.Line > bottom {
			bottom = c.Line
		}
	}
	if bottom >= b.RowCount()-1 {
		return
	}
	pos := b.clampPos(Cursor{Line: bottom + 1, Col: cs.Primary.Col})
	cs.Extras = append(cs.Extras, pos)
	cs.followPrimary = true
	cs.allowPrimaryOverlap = false
	cs.RemoveDuplicates()
}

// AddCursorAtPrimary leaves a secondary at the primary's position. The
// next movement detaches the primary from it.
func (b *Buffer) AddCursorAtPrimary() {
	cs := &b.Cursors
	cs.Extras = append(cs.Extras, cs.Primary)
	cs.followPrimary = false
	cs.allowPrimaryOverlap = true
	cs.RemoveDuplicates()
}

// AddCursorAtPrimaryAndAdvance leaves a secondary behind and moves the
// primary to the next line.
func (b *Buffer) AddCursorAtPrimaryAndAdvance() {
	cs := &b.Cursors
	if cs.Primary.Line >= b.RowCount()-1 {
		return
	}
	cs.Extras = append(cs.Extras, cs.Primary)
	cs.Primary = b.clampPos(Cursor{Line: cs.Primary.Line + 1, Col: cs.Primary.Col})
	cs.followPrimary = true
	cs.allowPrimaryOverlap = false
	cs.RemoveDuplicates()
}

// moveCursors runs one movement step. When followPrimary is off only
// the primary moves, detaching it from an overlapped secondary, and
// the flag rearms.
func (b *Buffer) moveCursors(step func(Cursor) Cursor) {
	cs := &b.Cursors
	cs.Primary = step(cs.Primary)
	if cs.followPrimary {
		for i, c := range cs.Extras {
			cs.Extras[i] = step(c)
		}
	}
	cs.followPrimary = true
	cs.allowPrimaryOverlap = false
	cs.RemoveDuplicates()
}

func (b *Buffer) MoveLeft() {
	b.moveCursors(func(c Cursor) Cursor {
		if c.Col > 0 {
			return Cursor{Line: c.Line, Col: c.Col - 1}
		}
		if c.Line > 0 {
			return Cursor{Line: c.Line - 1, Col: b.rowLen(c.Line - 1)}
		}
		return c
	})
}

func (b *Buffer) MoveRight() {
	b.moveCursors(func(c Cursor) Cursor {
		if c.Col < b.rowLen(c.Line) {
			return Cursor{Line: c.Line, Col: c.Col + 1}
		}
		if c.Line < b.RowCount()-1 {
			return Cursor{Line: c.Line + 1, Col: 0}
		}
		return c
	})
}

func (b *Buffer) MoveUp() {
	b.moveCursors(func(c Cursor) Cursor {
		if c.Line == 0 {
			return c
		}
		return b.clampPos(Cursor{Line: c.Line - 1, Col: c.Col})
	})
}

func (b *Buffer) MoveDown() {
	b.moveCursors(func(c Cursor) Cursor {
		if c.Line >= b.RowCount()-1 {
			return c
		}
		return b.clampPos(Cursor{Line: c.Line + 1, Col: c.Col})
	})
}

// MoveLineStart toggles between the first non-whitespace column and
// column zero.
func (b *Buffer) MoveLineStart() {
	b.moveCursors(func(c Cursor) Cursor {
		r := b.Row(c.Line)
		if r == nil {
			return Cursor{Line: c.Line}
		}
		first := r.firstNonWhitespace()
		if c.Col == first {
			return Cursor{Line: c.Line}
		}
		return Cursor{Line: c.Line, Col: first}
	})
}

func (b *Buffer) MoveLineEnd() {
	b.moveCursors(func(c Cursor) Cursor {
		return Cursor{Line: c.Line, Col: b.rowLen(c.Line)}
	})
}

func (b *Buffer) MoveWordLeft() {
	b.moveCursors(b.wordLeftFrom)
}

func (b *Buffer) MoveWordRight() {
	b.moveCursors(b.wordRightFrom)
}

func (b *Buffer) wordLeftFrom(c Cursor) Cursor {
	if c.Col == 0 {
		if c.Line == 0 {
			return c
		}
		return Cursor{Line: c.Line - 1, Col: b.rowLen(c.Line - 1)}
	}
	r := b.Row(c.Line)
	col := c.Col
	for col > 0 && !isWordChar(r.chars[col-1]) {
		col--
	}
	for col > 0 && isWordChar(r.chars[col-1]) {
		col--
	}
	return Cursor{Line: c.Line, Col: col}
}

func (b *Buffer) wordRightFrom(c Cursor) Cursor {
	n := b.rowLen(c.Line)
	if c.Col >= n {
		if c.Line >= b.RowCount()-1 {
			return c
		}
		return Cursor{Line: c.Line + 1, Col: 0}
	}
	r := b.Row(c.Line)
	col := c.Col
	for col < n && isWordChar(r.chars[col]) {
		col++
	}
	for col < n && !isWordChar(r.chars[col]) {
		col++
	}
	return Cursor{Line: c.Line, Col: col}
}

// insertCharMulti types ch at every cursor as one undo group. Edits
// apply in descending document order so earlier targets stay valid;
// final positions are recomputed from the snapshot: each cursor gains
// one column per same-line cursor at or before it, itself included.
// A '}' on an otherwise blank line head pulls that line back one
// indent level, once per line, shifting every sibling on it.
func (b *Buffer) insertCharMulti(ch rune) {
	marked := b.Cursors.collect()
	group := b.History.NewGroup()

	unindented := map[int]bool{}
	for i := range marked {
		pos := marked[i].Pos
		if ch == '}' && !unindented[pos.Line] {
			if r := b.Row(pos.Line); r != nil && pos.Col <= len(r.chars) && onlyWhitespace(r.chars[:pos.Col]) {
				unindented[pos.Line] = true
				remove := 0
				for remove < b.IndentWidth && remove < pos.Col && r.chars[remove] == ' ' {
					remove++
				}
				for k := 0; k < remove; k++ {
					b.History.LogGrouped(Entry{
						Kind:   OpCharDelete,
						Cursor: pos,
						Row:    pos.Line,
						Col:    0,
						Ch:     ' ',
					}, group)
					b.CharDelete(pos.Line, 0)
				}
				for j := range marked {
					if marked[j].Pos.Line == pos.Line {
						marked[j].Pos.Col -= remove
						if marked[j].Pos.Col < 0 {
							marked[j].Pos.Col = 0
						}
					}
				}
				pos = marked[i].Pos
			}
		}
		b.CharInsert(pos.Line, pos.Col, ch)
		b.History.LogGrouped(Entry{
			Kind:   OpCharInsert,
			Cursor: pos,
			Row:    pos.Line,
			Col:    pos.Col,
			Ch:     ch,
		}, group)
	}

	for i := range marked {
		mine := marked[i].Pos
		shift := 0
		for _, other := range marked {
			if other.Pos.Line == mine.Line && other.Pos.Col <= mine.Col {
				shift++
			}
		}
		marked[i].Pos = Cursor{Line: mine.Line, Col: mine.Col + shift}
	}

	b.Cursors.restore(marked)
	b.Cursors.RemoveDuplicates()
}

// deleteCharMulti backspaces at every cursor as one undo group. A
// cursor at column zero merges its line into the previous one; a
// cursor at the document start is skipped.
func (b *Buffer) deleteCharMulti() {
	marked := b.Cursors.collect()
	group := b.History.NewGroup()

	merged := make([]bool, len(marked))
	prevLens := make([]int, len(marked))
	for i, m := range marked {
		pos := m.Pos
		switch {
		case pos.Col > 0:
			r := b.Row(pos.Line)
			if r == nil || pos.Col > len(r.chars) {
				continue
			}
			ch := r.chars[pos.Col-1]
			b.CharDelete(pos.Line, pos.Col-1)
			b.History.LogGrouped(Entry{
				Kind:   OpCharDelete,
				Cursor: pos,
				Row:    pos.Line,
				Col:    pos.Col - 1,
				Ch:     ch,
			}, group)
		case pos.Line > 0:
			merged[i] = true
			prevLens[i] = b.rowLen(pos.Line - 1)
			text := b.RowText(pos.Line)
			b.History.LogGrouped(Entry{
				Kind:   OpRowDelete,
				Cursor: pos,
				Row:    pos.Line,
				Col:    prevLens[i],
				Text:   text,
			}, group)
			b.RowAppend(pos.Line-1, text)
			b.DeleteRow(pos.Line)
		}
	}

	for i := range marked {
		mine := marked[i].Pos
		lineShift := 0
		for j, other := range marked {
			if j == i || !merged[j] {
				continue
			}
			if other.Pos.Before(mine) {
				lineShift++
			}
		}
		if merged[i] {
			marked[i].Pos = Cursor{Line: mine.Line - 1 - lineShift, Col: prevLens[i]}
			continue
		}
		colShift := 0
		for j, other := range marked {
			if j == i || merged[j] {
				continue
			}
			if other.Pos.Line == mine.Line && other.Pos.Col > 0 && other.Pos.Col <= mine.Col {
				colShift++
			}
		}
		col := mine.Col
		if col > 0 {
			col = col - 1 - colShift
			if col < 0 {
				col = 0
			}
		}
		marked[i].Pos = Cursor{Line: mine.Line - lineShift, Col: col}
	}

	b.Cursors.restore(marked)
	b.Cursors.RemoveDuplicates()
	b.clampCursor()
}

// insertNewlineMulti splits the line at every cursor as one undo
// group. Indentation for each new line is computed from the snapshot
// before any mutation so earlier splits cannot skew it.
func (b *Buffer) insertNewlineMulti() {
	marked := b.Cursors.collect()
	group := b.History.NewGroup()

	indents := make([]string, len(marked))
	for i, m := range marked {
		indents[i] = b.autoIndentFor(m.Pos)
	}

	for i, m := range marked {
		pos := m.Pos
		if pos.Col == 0 {
			b.InsertRow(pos.Line, "")
			b.History.LogGrouped(Entry{
				Kind:   OpRowInsert,
				Cursor: pos,
				Row:    pos.Line,
			}, group)
			continue
		}
		b.RowSplit(pos.Line, pos.Col)
		if indents[i] != "" {
			b.insertTextAt(Cursor{Line: pos.Line + 1}, indents[i])
		}
		b.History.LogGrouped(Entry{
			Kind:   OpRowSplit,
			Cursor: pos,
			Row:    pos.Line,
			Col:    pos.Col,
			Text:   indents[i],
		}, group)
	}

	for i := range marked {
		mine := marked[i].Pos
		before := 0
		for j, other := range marked {
			if j != i && other.Pos.Before(mine) {
				before++
			}
		}
		col := 0
		if mine.Col > 0 {
			col = len([]rune(indents[i]))
		}
		marked[i].Pos = Cursor{Line: mine.Line + 1 + before, Col: col}
	}

	b.Cursors.restore(marked)
	b.Cursors.RemoveDuplicates()
}

// deleteWordBackwardMulti erases the word before each cursor in place.
// Merges at column zero shift the lines of cursors already settled, so
// their positions are compensated as the pass runs.
func (b *Buffer) deleteWordBackwardMulti() {
	marked := b.Cursors.collect()

	for i, m := range marked {
		pos := b.clampPos(m.Pos)
		var start Cursor
		if pos.Col == 0 {
			if pos.Line == 0 {
				marked[i].Pos = pos
				continue
			}
			start = Cursor{Line: pos.Line - 1, Col: b.rowLen(pos.Line - 1)}
			b.removeRange(start, pos)
			for j := 0; j < i; j++ {
				switch {
				case marked[j].Pos.Line == pos.Line:
					// Relocated onto the merged line: keep the offset into
					// the pulled-up text.
					marked[j].Pos = Cursor{Line: start.Line, Col: start.Col + marked[j].Pos.Col}
				case marked[j].Pos.Line > pos.Line:
					marked[j].Pos.Line--
				}
			}
		} else {
			start = b.wordLeftFrom(pos)
			b.removeRange(start, pos)
		}
		marked[i].Pos = start
	}

	b.Cursors.restore(marked)
	b.Cursors.RemoveDuplicates()
	b.clampCursor()
}

// deleteWordForwardMulti erases the word after each cursor in place.
func (b *Buffer) deleteWordForwardMulti() {
	marked := b.Cursors.collect()

	for i, m := range marked {
		pos := b.clampPos(m.Pos)
		if pos.Col >= b.rowLen(pos.Line) {
			if pos.Line >= b.RowCount()-1 {
				marked[i].Pos = pos
				continue
			}
			b.removeRange(pos, Cursor{Line: pos.Line + 1})
			for j := 0; j < i; j++ {
				switch {
				case marked[j].Pos.Line == pos.Line+1:
					marked[j].Pos = Cursor{Line: pos.Line, Col: pos.Col + marked[j].Pos.Col}
				case marked[j].Pos.Line > pos.Line+1:
					marked[j].Pos.Line--
				}
			}
		} else {
			b.removeRange(pos, b.wordRightFrom(pos))
		}
		marked[i].Pos = pos
	}

	b.Cursors.restore(marked)
	b.Cursors.RemoveDuplicates()
	b.clampCursor()
}
