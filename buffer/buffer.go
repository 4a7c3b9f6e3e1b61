package buffer

import (
	"os"
	"strings"
	"time"

	"miter/highlight"
)

// Buffer owns the ordered row sequence plus the cursor set and undo
// log that edit against it. Dirty is a mutation counter, zero only
// when the buffer matches what was last loaded or saved.
type Buffer struct {
	rows []*Row

	Path     string
	Language string
	Dirty    int

	Cursors   CursorSet
	Selection *Selection
	History   *UndoLog

	TabStop      int
	IndentWidth  int
	FinalNewline bool

	LineComment       string
	BlockCommentStart string
	BlockCommentEnd   string

	LastSaveTime time.Time
}

func NewBuffer(tabStop int) *Buffer {
	if tabStop <= 0 {
		tabStop = 8
	}
	b := &Buffer{
		TabStop:           tabStop,
		IndentWidth:       4,
		FinalNewline:      true,
		LineComment:       "//",
		BlockCommentStart: "/*",
		BlockCommentEnd:   "*/",
		History:           NewUndoLog(0, 0),
	}
	b.Cursors.followPrimary = true
	return b
}

func NewBufferFromFile(path string, tabStop int) (*Buffer, error) {
	b := NewBuffer(tabStop)
	b.Path = path
	b.Language = highlight.DetectLanguage(path)
	b.LineComment, b.BlockCommentStart, b.BlockCommentEnd = highlight.CommentMarkers(b.Language)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			b.Load([]string{""})
			return b, nil
		}
		return nil, err
	}
	text := strings.TrimSuffix(string(data), "\n")
	b.Load(strings.Split(text, "\n"))
	return b, nil
}

// Load replaces the buffer contents with the given lines. Loading is
// not an undoable edit: the log is reset and the dirty counter cleared.
func (b *Buffer) Load(lines []string) {
	b.rows = b.rows[:0]
	for i, line := range lines {
		r := newRow(i, line)
		r.update(b.TabStop, b.Language)
		r.dirty = false
		b.rows = append(b.rows, r)
	}
	b.Dirty = 0
	b.Selection = nil
	b.Cursors = CursorSet{followPrimary: true}
	b.History = NewUndoLog(b.History.groupTimeout, b.History.maxEntries)
}

// Contents flattens the buffer to a newline-joined string.
func (b *Buffer) Contents() string {
	parts := make([]string, len(b.rows))
	for i, r := range b.rows {
		parts[i] = r.Text()
	}
	return strings.Join(parts, "\n")
}

func (b *Buffer) Save() error {
	if b.Path == "" {
		return os.ErrInvalid
	}
	content := b.Contents()
	if b.FinalNewline && len(content) > 0 && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	if err := os.WriteFile(b.Path, []byte(content), 0644); err != nil {
		return err
	}
	b.Dirty = 0
	b.LastSaveTime = time.Now()
	for _, r := range b.rows {
		r.dirty = false
	}
	return nil
}

func (b *Buffer) RowCount() int { return len(b.rows) }

// Row returns the row at idx, or nil if idx is out of range.
func (b *Buffer) Row(idx int) *Row {
	if idx < 0 || idx >= len(b.rows) {
		return nil
	}
	return b.rows[idx]
}

func (b *Buffer) RowText(idx int) string {
	if r := b.Row(idx); r != nil {
		return r.Text()
	}
	return ""
}

// RowLen returns the number of characters in row idx, 0 when out of
// range.
func (b *Buffer) RowLen(idx int) int { return b.rowLen(idx) }

func (b *Buffer) rowLen(idx int) int {
	if r := b.Row(idx); r != nil {
		return len(r.chars)
	}
	return 0
}

// InsertRow inserts a row at position at. Rows at and below shift down
// and are renumbered before the call returns.
func (b *Buffer) InsertRow(at int, text string) {
	if at < 0 || at > len(b.rows) {
		return
	}
	r := newRow(at, text)
	r.update(b.TabStop, b.Language)
	b.rows = append(b.rows, nil)
	copy(b.rows[at+1:], b.rows[at:])
	b.rows[at] = r
	for i := at + 1; i < len(b.rows); i++ {
		b.rows[i].index = i
	}
	b.Dirty++
}

// DeleteRow removes the row at position at and renumbers the rest.
func (b *Buffer) DeleteRow(at int) {
	if at < 0 || at >= len(b.rows) {
		return
	}
	b.rows = append(b.rows[:at], b.rows[at+1:]...)
	for i := at; i < len(b.rows); i++ {
		b.rows[i].index = i
	}
	b.Dirty++
}

// SwapRows exchanges two rows and fixes their indices.
func (b *Buffer) SwapRows(a, c int) {
	if a < 0 || a >= len(b.rows) || c < 0 || c >= len(b.rows) || a == c {
		return
	}
	b.rows[a], b.rows[c] = b.rows[c], b.rows[a]
	b.rows[a].index = a
	b.rows[c].index = c
	b.Dirty++
}

// RowAppend appends text to the end of row at (used when joining lines).
func (b *Buffer) RowAppend(at int, text string) {
	r := b.Row(at)
	if r == nil {
		return
	}
	r.chars = append(r.chars, []rune(text)...)
	r.update(b.TabStop, b.Language)
	b.Dirty++
}

// RowSplit breaks row at into two rows at column col. The tail moves
// to a new row at at+1.
func (b *Buffer) RowSplit(at, col int) {
	r := b.Row(at)
	if r == nil {
		return
	}
	if col < 0 || col > len(r.chars) {
		return
	}
	tail := string(r.chars[col:])
	r.chars = r.chars[:col]
	r.update(b.TabStop, b.Language)
	b.InsertRow(at+1, tail)
}

// CharInsert inserts ch into row at column col. A col past the end
// appends.
func (b *Buffer) CharInsert(row, col int, ch rune) {
	r := b.Row(row)
	if r == nil {
		return
	}
	if col < 0 || col > len(r.chars) {
		col = len(r.chars)
	}
	r.chars = append(r.chars, 0)
	copy(r.chars[col+1:], r.chars[col:])
	r.chars[col] = ch
	r.update(b.TabStop, b.Language)
	b.Dirty++
}

// CharDelete removes the character at column col of row. Out-of-range
// calls are no-ops.
func (b *Buffer) CharDelete(row, col int) {
	r := b.Row(row)
	if r == nil {
		return
	}
	if col < 0 || col >= len(r.chars) {
		return
	}
	r.chars = append(r.chars[:col], r.chars[col+1:]...)
	r.update(b.TabStop, b.Language)
	b.Dirty++
}

// insertTextAt inserts text literally at pos, splitting rows at
// newlines, and returns the position just past the inserted text.
// Nothing is logged; callers own undo bookkeeping.
func (b *Buffer) insertTextAt(pos Cursor, text string) Cursor {
	if len(b.rows) == 0 {
		b.InsertRow(0, "")
	}
	if pos.Line < 0 || pos.Line >= len(b.rows) {
		return pos
	}
	r := b.rows[pos.Line]
	col := pos.Col
	if col < 0 || col > len(r.chars) {
		col = len(r.chars)
	}

	lines := strings.Split(text, "\n")
	if len(lines) == 1 {
		head := string(r.chars[:col])
		tail := string(r.chars[col:])
		r.chars = []rune(head + lines[0] + tail)
		r.update(b.TabStop, b.Language)
		b.Dirty++
		return Cursor{Line: pos.Line, Col: col + len([]rune(lines[0]))}
	}

	tail := string(r.chars[col:])
	r.chars = append(r.chars[:col], []rune(lines[0])...)
	r.update(b.TabStop, b.Language)
	b.Dirty++
	at := pos.Line
	for _, mid := range lines[1 : len(lines)-1] {
		at++
		b.InsertRow(at, mid)
	}
	last := lines[len(lines)-1]
	at++
	b.InsertRow(at, last+tail)
	return Cursor{Line: at, Col: len([]rune(last))}
}

// removeRange deletes the text between start and end (document order)
// and returns what was removed. Nothing is logged.
func (b *Buffer) removeRange(start, end Cursor) string {
	start = b.clampPos(start)
	end = b.clampPos(end)
	if end.Before(start) {
		start, end = end, start
	}
	removed := b.textInRange(start, end)

	if start.Line == end.Line {
		r := b.Row(start.Line)
		if r != nil && end.Col <= len(r.chars) {
			r.chars = append(r.chars[:start.Col], r.chars[end.Col:]...)
			r.update(b.TabStop, b.Language)
			b.Dirty++
		}
		return removed
	}

	first := b.Row(start.Line)
	last := b.Row(end.Line)
	if first == nil || last == nil {
		return removed
	}
	first.chars = append(first.chars[:start.Col], last.chars[end.Col:]...)
	first.update(b.TabStop, b.Language)
	for line := end.Line; line > start.Line; line-- {
		b.DeleteRow(line)
	}
	b.Dirty++
	return removed
}

func (b *Buffer) textInRange(start, end Cursor) string {
	if end.Before(start) {
		start, end = end, start
	}
	var sb strings.Builder
	for line := start.Line; line <= end.Line && line < len(b.rows); line++ {
		r := b.rows[line]
		from, to := 0, len(r.chars)
		if line == start.Line {
			from = start.Col
		}
		if line == end.Line {
			to = end.Col
		}
		if from < 0 {
			from = 0
		}
		if to > len(r.chars) {
			to = len(r.chars)
		}
		if from < to {
			sb.WriteString(string(r.chars[from:to]))
		}
		if line < end.Line {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// TrimTrailingSpace strips trailing whitespace from every row,
// keeping cursors clamped to the shortened lines.
func (b *Buffer) TrimTrailingSpace() {
	changed := false
	for _, r := range b.rows {
		n := len(r.chars)
		for n > 0 && isSpace(r.chars[n-1]) {
			n--
		}
		if n == len(r.chars) {
			continue
		}
		r.chars = r.chars[:n]
		r.update(b.TabStop, b.Language)
		changed = true
	}
	if changed {
		b.Dirty++
		b.Cursors.forEachCursor(b.clampPos)
		b.Cursors.RemoveDuplicates()
	}
}

func (b *Buffer) clampPos(pos Cursor) Cursor {
	if len(b.rows) == 0 {
		return Cursor{}
	}
	if pos.Line < 0 {
		pos.Line = 0
	}
	if pos.Line >= len(b.rows) {
		pos.Line = len(b.rows) - 1
	}
	if pos.Col < 0 {
		pos.Col = 0
	}
	if n := len(b.rows[pos.Line].chars); pos.Col > n {
		pos.Col = n
	}
	return pos
}

// ClampCursors revalidates every cursor against the current rows.
func (b *Buffer) ClampCursors() {
	b.Cursors.forEachCursor(b.clampPos)
	b.Cursors.RemoveDuplicates()
	b.clampCursor()
}

// clampCursor revalidates the primary cursor against the current rows.
func (b *Buffer) clampCursor() {
	cy, cx := b.Cursors.Primary.Line, b.Cursors.Primary.Col
	if cy >= len(b.rows) {
		if len(b.rows) > 0 {
			cy = len(b.rows) - 1
		} else {
			cy = 0
		}
	}
	if cy < 0 {
		cy = 0
	}
	if cy < len(b.rows) {
		if n := len(b.rows[cy].chars); cx > n {
			cx = n
		}
	} else {
		cx = 0
	}
	if cx < 0 {
		cx = 0
	}
	b.Cursors.Primary = Cursor{Line: cy, Col: cx}
}

func isWordChar(ch rune) bool {
	return ch == '_' ||
		('a' <= ch && ch <= 'z') ||
		('A' <= ch && ch <= 'Z') ||
		('0' <= ch && ch <= '9')
}
