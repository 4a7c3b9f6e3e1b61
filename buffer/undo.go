package buffer

import (
	"errors"
	"time"
)

var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

type EntryKind int

const (
	OpCharInsert EntryKind = iota
	OpCharDelete
	OpCharDeleteForward
	OpRowInsert
	OpRowDelete
	OpRowSplit
	OpSelectionDelete
	OpPaste
)

// forcesGroup reports whether an entry kind always starts its own undo
// group instead of coalescing with recent typing.
func (k EntryKind) forcesGroup() bool {
	switch k {
	case OpRowInsert, OpRowDelete, OpRowSplit, OpSelectionDelete, OpPaste:
		return true
	}
	return false
}

// Entry is one logged edit. Cursor is the primary cursor position
// before the edit, used to restore it on undo. Row/Col locate the
// edit itself; Ch, Text and End carry kind-specific payload.
type Entry struct {
	Group  int
	Kind   EntryKind
	Cursor Cursor
	Row    int
	Col    int
	Ch     rune
	Text   string
	End    Cursor
	Time   time.Time
}

// UndoLog is a flat, append-only log of edits partitioned into groups.
// position is the group id of the most recently applied group: entries
// with a larger group id are the redo tail. Group ids are absolute and
// survive eviction, so gaps in the id sequence are normal.
type UndoLog struct {
	entries  []Entry
	groupID  int
	position int

	replaying bool
	lastEdit  time.Time

	groupTimeout time.Duration
	maxEntries   int
}

const (
	defaultGroupTimeout = 500 * time.Millisecond
	defaultMaxEntries   = 10000
)

func NewUndoLog(timeout time.Duration, maxEntries int) *UndoLog {
	if timeout <= 0 {
		timeout = defaultGroupTimeout
	}
	if maxEntries <= 0 {
		maxEntries = defaultMaxEntries
	}
	return &UndoLog{groupTimeout: timeout, maxEntries: maxEntries}
}

// Log appends an entry, assigning it to the current group or opening a
// new one. Logging is suppressed while a replay is in progress.
func (u *UndoLog) Log(e Entry) {
	if u.replaying {
		return
	}
	u.clearRedo()

	now := time.Now()
	if e.Kind.forcesGroup() || now.Sub(u.lastEdit) > u.groupTimeout || u.groupID == 0 {
		u.groupID++
	}
	u.lastEdit = now

	e.Group = u.groupID
	e.Time = now
	u.append(e)
	u.position = u.groupID
}

// NewGroup opens a fresh group and returns its id. Batched edits use
// LogGrouped with the returned id so the whole batch undoes at once.
func (u *UndoLog) NewGroup() int {
	u.clearRedo()
	u.groupID++
	u.lastEdit = time.Now()
	return u.groupID
}

// LogGrouped appends an entry into an explicit group.
func (u *UndoLog) LogGrouped(e Entry, group int) {
	if u.replaying {
		return
	}
	u.clearRedo()
	e.Group = group
	e.Time = time.Now()
	u.append(e)
	u.position = group
}

func (u *UndoLog) append(e Entry) {
	if len(u.entries) >= u.maxEntries {
		// Evict the oldest quarter wholesale. Groups straddling the
		// cut lose their head entries, which makes those undos lossy.
		drop := len(u.entries) / 4
		if drop < 1 {
			drop = 1
		}
		u.entries = append(u.entries[:0], u.entries[drop:]...)
	}
	u.entries = append(u.entries, e)
}

// clearRedo drops the redo tail: every entry logged after the current
// position. The next group id continues from the position so redo ids
// are reused.
func (u *UndoLog) clearRedo() {
	n := len(u.entries)
	for n > 0 && u.entries[n-1].Group > u.position {
		n--
	}
	u.entries = u.entries[:n]
	u.groupID = u.position
}

func (u *UndoLog) CanUndo() bool {
	for i := len(u.entries) - 1; i >= 0; i-- {
		if u.entries[i].Group <= u.position {
			return true
		}
	}
	return false
}

func (u *UndoLog) CanRedo() bool {
	return len(u.entries) > 0 && u.entries[len(u.entries)-1].Group > u.position
}

func (u *UndoLog) Len() int { return len(u.entries) }

// undoTarget returns the id of the newest group at or below position,
// or 0 when there is nothing left to undo.
func (u *UndoLog) undoTarget() int {
	for i := len(u.entries) - 1; i >= 0; i-- {
		if g := u.entries[i].Group; g <= u.position {
			return g
		}
	}
	return 0
}

// redoTarget returns the id of the oldest group above position, or 0.
func (u *UndoLog) redoTarget() int {
	best := 0
	for i := len(u.entries) - 1; i >= 0; i-- {
		g := u.entries[i].Group
		if g <= u.position {
			break
		}
		best = g
	}
	return best
}

// Undo reverses the newest applied group and returns how many entries
// it replayed. The primary cursor is restored from the group's
// earliest entry, then clamped against the resulting rows.
func (b *Buffer) Undo() (int, error) {
	u := b.History
	target := u.undoTarget()
	if target == 0 {
		return 0, ErrNothingToUndo
	}

	u.replaying = true
	defer func() { u.replaying = false }()

	count := 0
	for i := len(u.entries) - 1; i >= 0; i-- {
		e := u.entries[i]
		if e.Group > target {
			continue
		}
		if e.Group < target {
			break
		}
		b.revert(e)
		// The walk ends on the group's earliest entry, whose
		// before-cursor is where the whole group started.
		b.Cursors.Primary = e.Cursor
		count++
	}
	b.Cursors.ClearExtras()
	b.clampCursor()
	u.position = target - 1
	return count, nil
}

// Redo re-applies the oldest undone group.
func (b *Buffer) Redo() (int, error) {
	u := b.History
	target := u.redoTarget()
	if target == 0 {
		return 0, ErrNothingToRedo
	}

	u.replaying = true
	defer func() { u.replaying = false }()

	count := 0
	var after Cursor
	for i := 0; i < len(u.entries); i++ {
		e := u.entries[i]
		if e.Group < target {
			continue
		}
		if e.Group > target {
			break
		}
		after = b.reapply(e)
		count++
	}
	b.Cursors.Primary = after
	b.Cursors.ClearExtras()
	b.clampCursor()
	u.position = target
	return count, nil
}

// revert applies the inverse of a single entry.
func (b *Buffer) revert(e Entry) {
	switch e.Kind {
	case OpCharInsert:
		b.CharDelete(e.Row, e.Col)
	case OpCharDelete, OpCharDeleteForward:
		b.CharInsert(e.Row, e.Col, e.Ch)
	case OpRowInsert:
		b.DeleteRow(e.Row)
	case OpRowDelete:
		// The deleted row's text was appended to the previous row; Col
		// holds that row's length from before the merge.
		if prev := b.Row(e.Row - 1); prev != nil && e.Col <= len(prev.chars) {
			prev.chars = prev.chars[:e.Col]
			prev.update(b.TabStop, b.Language)
		}
		b.InsertRow(e.Row, e.Text)
	case OpRowSplit:
		// Text is the indent seeded into the head of the new row; strip
		// it before merging the tail back.
		next := b.Row(e.Row + 1)
		if next == nil {
			return
		}
		tail := next.chars
		if n := len([]rune(e.Text)); n <= len(tail) {
			tail = tail[n:]
		}
		b.RowAppend(e.Row, string(tail))
		b.DeleteRow(e.Row + 1)
	case OpSelectionDelete:
		b.insertTextAt(Cursor{Line: e.Row, Col: e.Col}, e.Text)
	case OpPaste:
		b.removeRange(Cursor{Line: e.Row, Col: e.Col}, e.End)
	}
}

// reapply re-runs a single entry forward and returns where the primary
// cursor lands afterwards.
func (b *Buffer) reapply(e Entry) Cursor {
	switch e.Kind {
	case OpCharInsert:
		b.CharInsert(e.Row, e.Col, e.Ch)
		return Cursor{Line: e.Row, Col: e.Col + 1}
	case OpCharDelete, OpCharDeleteForward:
		b.CharDelete(e.Row, e.Col)
		return Cursor{Line: e.Row, Col: e.Col}
	case OpRowInsert:
		b.InsertRow(e.Row, e.Text)
		return Cursor{Line: e.Row + 1, Col: 0}
	case OpRowDelete:
		b.RowAppend(e.Row-1, b.RowText(e.Row))
		b.DeleteRow(e.Row)
		return Cursor{Line: e.Row - 1, Col: e.Col}
	case OpRowSplit:
		b.RowSplit(e.Row, e.Col)
		b.insertTextAt(Cursor{Line: e.Row + 1, Col: 0}, e.Text)
		return Cursor{Line: e.Row + 1, Col: len([]rune(e.Text))}
	case OpSelectionDelete:
		b.removeRange(Cursor{Line: e.Row, Col: e.Col}, e.End)
		return Cursor{Line: e.Row, Col: e.Col}
	case OpPaste:
		return b.insertTextAt(Cursor{Line: e.Row, Col: e.Col}, e.Text)
	}
	return e.Cursor
}
