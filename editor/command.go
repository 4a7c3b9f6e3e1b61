package editor

import (
	"fmt"

	"miter/buffer"
	"miter/clipboardx"
)

// Command is one editor action. Key events translate to commands and
// Apply dispatches them, so bindings stay separate from behavior.
type Command int

const (
	CmdNone Command = iota

	CmdQuit
	CmdSave
	CmdReload

	CmdUndo
	CmdRedo

	CmdMoveLeft
	CmdMoveRight
	CmdMoveUp
	CmdMoveDown
	CmdMoveWordLeft
	CmdMoveWordRight
	CmdMoveLineStart
	CmdMoveLineEnd
	CmdMovePageUp
	CmdMovePageDown
	CmdMoveDocStart
	CmdMoveDocEnd

	CmdSelectLeft
	CmdSelectRight
	CmdSelectUp
	CmdSelectDown
	CmdSelectWordLeft
	CmdSelectWordRight
	CmdSelectLineStart
	CmdSelectLineEnd
	CmdSelectPageUp
	CmdSelectPageDown
	CmdSelectAll
	CmdSelectWord
	CmdSelectLine

	CmdInsertNewline
	CmdInsertTab
	CmdDeleteBack
	CmdDeleteForward
	CmdDeleteWordBack
	CmdDeleteWordForward

	CmdCopy
	CmdCut
	CmdPaste

	CmdDuplicateLines
	CmdDeleteLines
	CmdMoveLinesUp
	CmdMoveLinesDown
	CmdJoinLines
	CmdIndentLines
	CmdUnindentLines
	CmdToggleComment
	CmdToggleBlockComment

	CmdAddCursorAbove
	CmdAddCursorBelow
	CmdAddCursorAtPrimary
	CmdAddCursorAndAdvance
	CmdClearCursors
)

// Apply runs one command against the active buffer. The switch is
// exhaustive over the command set; unknown values fall through as
// no-ops.
func (e *Editor) Apply(cmd Command) {
	buf := e.buf
	switch cmd {
	case CmdNone:

	case CmdQuit:
		e.requestQuit()
	case CmdSave:
		e.saveFile()
	case CmdReload:
		e.reloadFile()

	case CmdUndo:
		count, err := buf.Undo()
		if err != nil {
			e.setTemporaryMessage("Nothing to undo")
		} else {
			e.setTemporaryMessage(fmt.Sprintf("Undid %d change(s)", count))
		}
	case CmdRedo:
		count, err := buf.Redo()
		if err != nil {
			e.setTemporaryMessage("Nothing to redo")
		} else {
			e.setTemporaryMessage(fmt.Sprintf("Redid %d change(s)", count))
		}

	case CmdMoveLeft:
		e.move(buf.MoveLeft)
	case CmdMoveRight:
		e.move(buf.MoveRight)
	case CmdMoveUp:
		e.move(buf.MoveUp)
	case CmdMoveDown:
		e.move(buf.MoveDown)
	case CmdMoveWordLeft:
		e.move(buf.MoveWordLeft)
	case CmdMoveWordRight:
		e.move(buf.MoveWordRight)
	case CmdMoveLineStart:
		e.move(buf.MoveLineStart)
	case CmdMoveLineEnd:
		e.move(buf.MoveLineEnd)
	case CmdMovePageUp:
		e.move(func() { e.movePage(-1) })
	case CmdMovePageDown:
		e.move(func() { e.movePage(1) })
	case CmdMoveDocStart:
		e.move(func() { e.moveDocEdge(false) })
	case CmdMoveDocEnd:
		e.move(func() { e.moveDocEdge(true) })

	case CmdSelectLeft:
		e.extend(buf.MoveLeft)
	case CmdSelectRight:
		e.extend(buf.MoveRight)
	case CmdSelectUp:
		e.extend(buf.MoveUp)
	case CmdSelectDown:
		e.extend(buf.MoveDown)
	case CmdSelectWordLeft:
		e.extend(buf.MoveWordLeft)
	case CmdSelectWordRight:
		e.extend(buf.MoveWordRight)
	case CmdSelectLineStart:
		e.extend(buf.MoveLineStart)
	case CmdSelectLineEnd:
		e.extend(buf.MoveLineEnd)
	case CmdSelectPageUp:
		e.extend(func() { e.movePage(-1) })
	case CmdSelectPageDown:
		e.extend(func() { e.movePage(1) })
	case CmdSelectAll:
		buf.SelectAll()
	case CmdSelectWord:
		buf.SelectWord()
	case CmdSelectLine:
		buf.SelectLine()

	case CmdInsertNewline:
		buf.InsertNewline()
	case CmdInsertTab:
		if buf.HasSelection() {
			buf.IndentLines()
		} else {
			for i := 0; i < buf.IndentWidth; i++ {
				buf.InsertChar(' ')
			}
		}
	case CmdDeleteBack:
		buf.DeleteChar()
	case CmdDeleteForward:
		buf.DeleteCharForward()
	case CmdDeleteWordBack:
		buf.DeleteWordBackward()
	case CmdDeleteWordForward:
		buf.DeleteWordForward()

	case CmdCopy:
		text := buf.CopyText()
		if clipboardx.Write(text) {
			e.setTemporaryMessage("Copied")
		} else {
			e.setTemporaryMessage("Copied (internal clipboard)")
		}
	case CmdCut:
		text := buf.CutText()
		clipboardx.Write(text)
		e.setTemporaryMessage("Cut")
	case CmdPaste:
		buf.PasteText(clipboardx.Read())

	case CmdDuplicateLines:
		buf.DuplicateLines()
	case CmdDeleteLines:
		buf.DeleteLines()
	case CmdMoveLinesUp:
		buf.MoveLinesUp()
	case CmdMoveLinesDown:
		buf.MoveLinesDown()
	case CmdJoinLines:
		buf.JoinLines()
	case CmdIndentLines:
		buf.IndentLines()
	case CmdUnindentLines:
		buf.UnindentLines()
	case CmdToggleComment:
		buf.ToggleLineComments()
	case CmdToggleBlockComment:
		buf.ToggleBlockComment()

	case CmdAddCursorAbove:
		buf.AddCursorAbove()
	case CmdAddCursorBelow:
		buf.AddCursorBelow()
	case CmdAddCursorAtPrimary:
		buf.AddCursorAtPrimary()
	case CmdAddCursorAndAdvance:
		buf.AddCursorAtPrimaryAndAdvance()
	case CmdClearCursors:
		buf.Cursors.ClearExtras()
		buf.ClearSelection()
	}
}

// move runs a movement with any selection dropped first.
func (e *Editor) move(step func()) {
	e.buf.ClearSelection()
	step()
}

// extend runs a movement while growing the selection from the primary
// cursor.
func (e *Editor) extend(step func()) {
	e.buf.StartSelection()
	step()
	e.buf.UpdateSelection()
}

// movePage shifts every cursor by one screen of lines.
func (e *Editor) movePage(dir int) {
	page := e.textHeight()
	if page < 1 {
		page = 1
	}
	for i := 0; i < page; i++ {
		if dir < 0 {
			e.buf.MoveUp()
		} else {
			e.buf.MoveDown()
		}
	}
}

func (e *Editor) moveDocEdge(end bool) {
	buf := e.buf
	buf.Cursors.ClearExtras()
	if end {
		last := buf.RowCount() - 1
		if last < 0 {
			last = 0
		}
		buf.Cursors.Primary = buffer.Cursor{Line: last, Col: buf.RowLen(last)}
	} else {
		buf.Cursors.Primary = buffer.Cursor{}
	}
}
