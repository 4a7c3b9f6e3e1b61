package editor

import (
	"github.com/gdamore/tcell/v2"

	"miter/buffer"
)

// translateKey maps a key event to a command. Plain runes return
// CmdNone with ok=false so the caller inserts them as text.
func translateKey(ev *tcell.EventKey) (Command, bool) {
	mod := ev.Modifiers()
	shift := mod&tcell.ModShift != 0
	ctrl := mod&tcell.ModCtrl != 0
	alt := mod&tcell.ModAlt != 0

	switch ev.Key() {
	case tcell.KeyLeft:
		switch {
		case ctrl && shift:
			return CmdSelectWordLeft, true
		case ctrl:
			return CmdMoveWordLeft, true
		case shift:
			return CmdSelectLeft, true
		}
		return CmdMoveLeft, true
	case tcell.KeyRight:
		switch {
		case ctrl && shift:
			return CmdSelectWordRight, true
		case ctrl:
			return CmdMoveWordRight, true
		case shift:
			return CmdSelectRight, true
		}
		return CmdMoveRight, true
	case tcell.KeyUp:
		switch {
		case alt && shift:
			return CmdAddCursorAbove, true
		case alt:
			return CmdMoveLinesUp, true
		case shift:
			return CmdSelectUp, true
		}
		return CmdMoveUp, true
	case tcell.KeyDown:
		switch {
		case alt && shift:
			return CmdAddCursorBelow, true
		case alt:
			return CmdMoveLinesDown, true
		case shift:
			return CmdSelectDown, true
		}
		return CmdMoveDown, true

	case tcell.KeyHome:
		if ctrl {
			return CmdMoveDocStart, true
		}
		if shift {
			return CmdSelectLineStart, true
		}
		return CmdMoveLineStart, true
	case tcell.KeyEnd:
		if ctrl {
			return CmdMoveDocEnd, true
		}
		if shift {
			return CmdSelectLineEnd, true
		}
		return CmdMoveLineEnd, true
	case tcell.KeyPgUp:
		if shift {
			return CmdSelectPageUp, true
		}
		return CmdMovePageUp, true
	case tcell.KeyPgDn:
		if shift {
			return CmdSelectPageDown, true
		}
		return CmdMovePageDown, true

	case tcell.KeyEnter:
		return CmdInsertNewline, true
	case tcell.KeyTab:
		return CmdInsertTab, true
	case tcell.KeyBacktab:
		return CmdUnindentLines, true
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if ctrl || alt {
			return CmdDeleteWordBack, true
		}
		return CmdDeleteBack, true
	case tcell.KeyDelete:
		if ctrl || alt {
			return CmdDeleteWordForward, true
		}
		return CmdDeleteForward, true
	case tcell.KeyEsc:
		return CmdClearCursors, true

	case tcell.KeyCtrlQ:
		return CmdQuit, true
	case tcell.KeyCtrlS:
		return CmdSave, true
	case tcell.KeyCtrlR:
		return CmdReload, true
	case tcell.KeyCtrlZ:
		return CmdUndo, true
	case tcell.KeyCtrlY:
		return CmdRedo, true
	case tcell.KeyCtrlC:
		return CmdCopy, true
	case tcell.KeyCtrlX:
		return CmdCut, true
	case tcell.KeyCtrlV:
		return CmdPaste, true
	case tcell.KeyCtrlA:
		return CmdSelectAll, true
	case tcell.KeyCtrlW:
		return CmdSelectWord, true
	case tcell.KeyCtrlL:
		return CmdSelectLine, true
	case tcell.KeyCtrlD:
		return CmdAddCursorAndAdvance, true
	case tcell.KeyCtrlE:
		return CmdAddCursorAtPrimary, true
	case tcell.KeyCtrlK:
		return CmdDeleteLines, true
	case tcell.KeyCtrlJ:
		return CmdJoinLines, true
	case tcell.KeyCtrlUnderscore:
		return CmdToggleComment, true
	case tcell.KeyCtrlB:
		return CmdToggleBlockComment, true
	case tcell.KeyCtrlP:
		return CmdDuplicateLines, true
	}

	return CmdNone, false
}

func (e *Editor) handleKey(ev *tcell.EventKey) {
	if ev.Key() != tcell.KeyCtrlQ {
		e.quitPending = false
	}
	if cmd, ok := translateKey(ev); ok {
		e.Apply(cmd)
		return
	}
	if ev.Key() == tcell.KeyRune && ev.Modifiers()&(tcell.ModCtrl|tcell.ModAlt) == 0 {
		e.buf.InsertChar(ev.Rune())
	}
}

func (e *Editor) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	buttons := ev.Buttons()

	switch {
	case buttons&tcell.WheelUp != 0:
		e.scrollY -= 3
		if e.scrollY < 0 {
			e.scrollY = 0
		}
		e.mouseScrolling = true
		return
	case buttons&tcell.WheelDown != 0:
		e.scrollY += 3
		if max := e.buf.RowCount() - 1; e.scrollY > max {
			e.scrollY = max
		}
		e.mouseScrolling = true
		return
	}

	pos, ok := e.positionAt(x, y)
	if !ok {
		e.mouseDown = false
		return
	}

	switch {
	case buttons&tcell.Button1 != 0:
		if ev.Modifiers()&tcell.ModAlt != 0 && !e.mouseDown {
			// Alt+click drops an extra cursor where the primary was.
			e.buf.AddCursorAtPrimary()
			e.buf.Cursors.Primary = pos
			e.buf.Cursors.RemoveDuplicates()
			e.mouseDown = true
			return
		}
		if !e.mouseDown {
			e.mouseDown = true
			e.buf.Cursors.ClearExtras()
			e.buf.ClearSelection()
			e.buf.Cursors.Primary = pos
			e.buf.StartSelection()
			return
		}
		// Drag extends the selection.
		e.buf.Cursors.Primary = pos
		e.buf.UpdateSelection()
	case buttons == tcell.ButtonNone:
		if e.mouseDown {
			e.mouseDown = false
			if sel := e.buf.Selection; sel != nil && sel.Empty() {
				e.buf.ClearSelection()
			}
		}
	}
}

// positionAt converts screen coordinates to a buffer position,
// reporting false for clicks outside the text area.
func (e *Editor) positionAt(x, y int) (buffer.Cursor, bool) {
	line := y + e.scrollY
	if line < 0 || line >= e.buf.RowCount() {
		return buffer.Cursor{}, false
	}
	tx := x - e.gutterWidth()
	if tx < 0 {
		tx = 0
	}
	r := e.buf.Row(line)
	col := r.RxToCx(tx+e.scrollX, e.buf.TabStop)
	return buffer.Cursor{Line: line, Col: col}, true
}
