package buffer

import "strings"

// ensureRow guarantees at least one row exists before a text edit.
func (b *Buffer) ensureRow() {
	if len(b.rows) == 0 {
		b.InsertRow(0, "")
		b.Dirty--
	}
}

// autoIndentFor returns the indentation a new line opened at pos
// should start with: the current line's leading whitespace, widened by
// one level when the text before the cursor ends with an opening brace.
func (b *Buffer) autoIndentFor(pos Cursor) string {
	r := b.Row(pos.Line)
	if r == nil {
		return ""
	}
	indent := string(r.chars[:r.indentation()])
	col := pos.Col
	if col > len(r.chars) {
		col = len(r.chars)
	}
	head := strings.TrimRight(string(r.chars[:col]), " \t")
	if strings.HasSuffix(head, "{") {
		indent += strings.Repeat(" ", b.IndentWidth)
	}
	return indent
}

// InsertChar types ch at every cursor. An active selection is replaced
// first. Typing '}' on an otherwise blank line head pulls the line
// back one indent level.
func (b *Buffer) InsertChar(ch rune) {
	if b.HasSelection() {
		b.DeleteSelection()
	}
	b.ensureRow()
	if b.Cursors.HasExtras() {
		b.insertCharMulti(ch)
		return
	}

	pos := b.clampPos(b.Cursors.Primary)

	if ch == '}' {
		if r := b.Row(pos.Line); r != nil && onlyWhitespace(r.chars[:pos.Col]) {
			b.insertClosingBrace(pos)
			return
		}
	}

	b.CharInsert(pos.Line, pos.Col, ch)
	b.History.Log(Entry{
		Kind:   OpCharInsert,
		Cursor: pos,
		Row:    pos.Line,
		Col:    pos.Col,
		Ch:     ch,
	})
	b.Cursors.Primary = Cursor{Line: pos.Line, Col: pos.Col + 1}
}

// insertClosingBrace removes one indent level before inserting the
// brace, all in one undo group.
func (b *Buffer) insertClosingBrace(pos Cursor) {
	r := b.Row(pos.Line)
	remove := 0
	for remove < b.IndentWidth && remove < pos.Col && r.chars[remove] == ' ' {
		remove++
	}

	group := b.History.NewGroup()
	for i := 0; i < remove; i++ {
		b.History.LogGrouped(Entry{
			Kind:   OpCharDelete,
			Cursor: pos,
			Row:    pos.Line,
			Col:    0,
			Ch:     ' ',
		}, group)
		b.CharDelete(pos.Line, 0)
	}
	col := pos.Col - remove
	b.CharInsert(pos.Line, col, '}')
	b.History.LogGrouped(Entry{
		Kind:   OpCharInsert,
		Cursor: pos,
		Row:    pos.Line,
		Col:    col,
		Ch:     '}',
	}, group)
	b.Cursors.Primary = Cursor{Line: pos.Line, Col: col + 1}
}

// InsertNewline splits the line at every cursor, carrying indentation
// over to the new line.
func (b *Buffer) InsertNewline() {
	if b.HasSelection() {
		b.DeleteSelection()
	}
	b.ensureRow()
	if b.Cursors.HasExtras() {
		b.insertNewlineMulti()
		return
	}

	pos := b.clampPos(b.Cursors.Primary)
	if pos.Col == 0 {
		b.InsertRow(pos.Line, "")
		b.History.Log(Entry{
			Kind:   OpRowInsert,
			Cursor: pos,
			Row:    pos.Line,
		})
		b.Cursors.Primary = Cursor{Line: pos.Line + 1}
		return
	}

	indent := b.autoIndentFor(pos)
	b.RowSplit(pos.Line, pos.Col)
	if indent != "" {
		b.insertTextAt(Cursor{Line: pos.Line + 1}, indent)
	}
	b.History.Log(Entry{
		Kind:   OpRowSplit,
		Cursor: pos,
		Row:    pos.Line,
		Col:    pos.Col,
		Text:   indent,
	})
	b.Cursors.Primary = Cursor{Line: pos.Line + 1, Col: len([]rune(indent))}
}

// DeleteChar erases the character before each cursor. At column zero
// the line merges into the one above.
func (b *Buffer) DeleteChar() {
	if b.HasSelection() {
		b.DeleteSelection()
		return
	}
	if b.Cursors.HasExtras() {
		b.deleteCharMulti()
		return
	}

	pos := b.clampPos(b.Cursors.Primary)
	if pos.Col > 0 {
		r := b.Row(pos.Line)
		ch := r.chars[pos.Col-1]
		b.CharDelete(pos.Line, pos.Col-1)
		b.History.Log(Entry{
			Kind:   OpCharDelete,
			Cursor: pos,
			Row:    pos.Line,
			Col:    pos.Col - 1,
			Ch:     ch,
		})
		b.Cursors.Primary = Cursor{Line: pos.Line, Col: pos.Col - 1}
		return
	}
	if pos.Line == 0 {
		return
	}

	prevLen := b.rowLen(pos.Line - 1)
	text := b.RowText(pos.Line)
	b.History.Log(Entry{
		Kind:   OpRowDelete,
		Cursor: pos,
		Row:    pos.Line,
		Col:    prevLen,
		Text:   text,
	})
	b.RowAppend(pos.Line-1, text)
	b.DeleteRow(pos.Line)
	b.Cursors.Primary = Cursor{Line: pos.Line - 1, Col: prevLen}
}

// DeleteCharForward erases the character under each cursor. At the end
// of a line the next line merges up.
func (b *Buffer) DeleteCharForward() {
	if b.HasSelection() {
		b.DeleteSelection()
		return
	}
	if b.Cursors.HasExtras() {
		b.deleteCharForwardMulti()
		return
	}

	pos := b.clampPos(b.Cursors.Primary)
	r := b.Row(pos.Line)
	if r == nil {
		return
	}
	if pos.Col < len(r.chars) {
		ch := r.chars[pos.Col]
		b.CharDelete(pos.Line, pos.Col)
		b.History.Log(Entry{
			Kind:   OpCharDeleteForward,
			Cursor: pos,
			Row:    pos.Line,
			Col:    pos.Col,
			Ch:     ch,
		})
		return
	}
	if pos.Line >= b.RowCount()-1 {
		return
	}

	text := b.RowText(pos.Line + 1)
	b.History.Log(Entry{
		Kind:   OpRowDelete,
		Cursor: pos,
		Row:    pos.Line + 1,
		Col:    len(r.chars),
		Text:   text,
	})
	b.RowAppend(pos.Line, text)
	b.DeleteRow(pos.Line + 1)
}

// deleteCharForwardMulti runs forward delete at every cursor as one
// undo group, descending so pending targets stay valid.
func (b *Buffer) deleteCharForwardMulti() {
	marked := b.Cursors.collect()
	group := b.History.NewGroup()

	for i, m := range marked {
		pos := b.clampPos(m.Pos)
		r := b.Row(pos.Line)
		if r == nil {
			marked[i].Pos = pos
			continue
		}
		if pos.Col < len(r.chars) {
			ch := r.chars[pos.Col]
			b.CharDelete(pos.Line, pos.Col)
			b.History.LogGrouped(Entry{
				Kind:   OpCharDeleteForward,
				Cursor: pos,
				Row:    pos.Line,
				Col:    pos.Col,
				Ch:     ch,
			}, group)
			marked[i].Pos = pos
			continue
		}
		if pos.Line >= b.RowCount()-1 {
			marked[i].Pos = pos
			continue
		}
		oldLen := len(r.chars)
		text := b.RowText(pos.Line + 1)
		b.History.LogGrouped(Entry{
			Kind:   OpRowDelete,
			Cursor: pos,
			Row:    pos.Line + 1,
			Col:    oldLen,
			Text:   text,
		}, group)
		b.RowAppend(pos.Line, text)
		b.DeleteRow(pos.Line + 1)
		for j := 0; j < i; j++ {
			if marked[j].Pos.Line == pos.Line+1 {
				marked[j].Pos = Cursor{Line: pos.Line, Col: oldLen + marked[j].Pos.Col}
			} else if marked[j].Pos.Line > pos.Line+1 {
				marked[j].Pos.Line--
			}
		}
		marked[i].Pos = pos
	}

	b.Cursors.restore(marked)
	b.Cursors.RemoveDuplicates()
	b.clampCursor()
}

// DeleteWordBackward erases from each cursor to the start of the
// previous word.
func (b *Buffer) DeleteWordBackward() {
	if b.HasSelection() {
		b.DeleteSelection()
		return
	}
	if b.Cursors.HasExtras() {
		b.deleteWordBackwardMulti()
		return
	}

	pos := b.clampPos(b.Cursors.Primary)
	if pos.Col == 0 {
		if pos.Line == 0 {
			return
		}
		start := Cursor{Line: pos.Line - 1, Col: b.rowLen(pos.Line - 1)}
		b.removeRange(start, pos)
		b.Cursors.Primary = start
		return
	}
	start := b.wordLeftFrom(pos)
	b.removeRange(start, pos)
	b.Cursors.Primary = start
}

// DeleteWordForward erases from each cursor to the start of the next
// word.
func (b *Buffer) DeleteWordForward() {
	if b.HasSelection() {
		b.DeleteSelection()
		return
	}
	if b.Cursors.HasExtras() {
		b.deleteWordForwardMulti()
		return
	}

	pos := b.clampPos(b.Cursors.Primary)
	if pos.Col >= b.rowLen(pos.Line) {
		if pos.Line >= b.RowCount()-1 {
			return
		}
		b.removeRange(pos, Cursor{Line: pos.Line + 1})
		return
	}
	b.removeRange(pos, b.wordRightFrom(pos))
}

func (b *Buffer) HasSelection() bool {
	return b.Selection != nil && !b.Selection.Empty()
}

// StartSelection anchors a selection at the primary cursor if none is
// active.
func (b *Buffer) StartSelection() {
	if b.Selection == nil {
		b.Selection = &Selection{Anchor: b.Cursors.Primary, Live: b.Cursors.Primary}
	}
}

// UpdateSelection moves the live end of the selection to the primary
// cursor.
func (b *Buffer) UpdateSelection() {
	if b.Selection != nil {
		b.Selection.Live = b.Cursors.Primary
	}
}

func (b *Buffer) ClearSelection() {
	b.Selection = nil
}

func (b *Buffer) SelectedText() string {
	if b.Selection == nil {
		return ""
	}
	start, end := b.Selection.Normalized()
	return b.textInRange(start, end)
}

// DeleteSelection removes the selected text as a single undo entry and
// collapses the cursor set to the selection start.
func (b *Buffer) DeleteSelection() {
	if !b.HasSelection() {
		return
	}
	start, end := b.Selection.Normalized()
	before := b.Cursors.Primary
	text := b.removeRange(start, end)
	b.History.Log(Entry{
		Kind:   OpSelectionDelete,
		Cursor: before,
		Row:    start.Line,
		Col:    start.Col,
		Text:   text,
		End:    end,
	})
	b.Cursors.Primary = start
	b.Cursors.ClearExtras()
	b.Selection = nil
}

// SelectWord selects the word under the primary cursor.
func (b *Buffer) SelectWord() {
	pos := b.clampPos(b.Cursors.Primary)
	r := b.Row(pos.Line)
	if r == nil || len(r.chars) == 0 {
		return
	}
	col := pos.Col
	if col >= len(r.chars) {
		col = len(r.chars) - 1
	}
	if !isWordChar(r.chars[col]) {
		return
	}
	start := col
	for start > 0 && isWordChar(r.chars[start-1]) {
		start--
	}
	end := col
	for end < len(r.chars) && isWordChar(r.chars[end]) {
		end++
	}
	b.Selection = &Selection{
		Anchor: Cursor{Line: pos.Line, Col: start},
		Live:   Cursor{Line: pos.Line, Col: end},
	}
	b.Cursors.Primary = Cursor{Line: pos.Line, Col: end}
}

// SelectLine selects the primary cursor's whole line including its
// trailing newline when one exists.
func (b *Buffer) SelectLine() {
	pos := b.clampPos(b.Cursors.Primary)
	anchor := Cursor{Line: pos.Line}
	live := Cursor{Line: pos.Line, Col: b.rowLen(pos.Line)}
	if pos.Line < b.RowCount()-1 {
		live = Cursor{Line: pos.Line + 1}
	}
	b.Selection = &Selection{Anchor: anchor, Live: live}
	b.Cursors.Primary = live
}

func (b *Buffer) SelectAll() {
	if b.RowCount() == 0 {
		return
	}
	last := b.RowCount() - 1
	b.Selection = &Selection{
		Anchor: Cursor{},
		Live:   Cursor{Line: last, Col: b.rowLen(last)},
	}
	b.Cursors.Primary = b.Selection.Live
	b.Cursors.ClearExtras()
}

// CopyText returns the text a copy should capture: the selection, or
// the current line with its newline when nothing is selected.
func (b *Buffer) CopyText() string {
	if b.HasSelection() {
		return b.SelectedText()
	}
	return b.RowText(b.Cursors.Primary.Line) + "\n"
}

// CutText captures like CopyText, then deletes the captured range as
// one undoable edit.
func (b *Buffer) CutText() string {
	if !b.HasSelection() {
		b.SelectLine()
	}
	text := b.SelectedText()
	b.DeleteSelection()
	return text
}

// PasteText inserts text literally at the primary cursor as a single
// undo entry. Secondary cursors are dropped first.
func (b *Buffer) PasteText(text string) {
	if text == "" {
		return
	}
	if b.HasSelection() {
		b.DeleteSelection()
	}
	b.ensureRow()
	b.Cursors.ClearExtras()
	pos := b.clampPos(b.Cursors.Primary)
	end := b.insertTextAt(pos, text)
	b.History.Log(Entry{
		Kind:   OpPaste,
		Cursor: pos,
		Row:    pos.Line,
		Col:    pos.Col,
		Text:   text,
		End:    end,
	})
	b.Cursors.Primary = end
}

func onlyWhitespace(chars []rune) bool {
	for _, ch := range chars {
		if ch != ' ' && ch != '\t' {
			return false
		}
	}
	return true
}
