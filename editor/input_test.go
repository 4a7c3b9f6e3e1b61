package editor

import (
	"testing"

	"github.com/gdamore/tcell/v2"
)

func TestTranslateKeyArrows(t *testing.T) {
	cases := []struct {
		key  tcell.Key
		mod  tcell.ModMask
		want Command
	}{
		{tcell.KeyLeft, 0, CmdMoveLeft},
		{tcell.KeyLeft, tcell.ModShift, CmdSelectLeft},
		{tcell.KeyLeft, tcell.ModCtrl, CmdMoveWordLeft},
		{tcell.KeyLeft, tcell.ModCtrl | tcell.ModShift, CmdSelectWordLeft},
		{tcell.KeyRight, 0, CmdMoveRight},
		{tcell.KeyRight, tcell.ModCtrl, CmdMoveWordRight},
		{tcell.KeyUp, 0, CmdMoveUp},
		{tcell.KeyUp, tcell.ModAlt, CmdMoveLinesUp},
		{tcell.KeyUp, tcell.ModAlt | tcell.ModShift, CmdAddCursorAbove},
		{tcell.KeyDown, tcell.ModAlt, CmdMoveLinesDown},
		{tcell.KeyDown, tcell.ModAlt | tcell.ModShift, CmdAddCursorBelow},
		{tcell.KeyDown, tcell.ModShift, CmdSelectDown},
	}
	for _, c := range cases {
		cmd, ok := translateKey(tcell.NewEventKey(c.key, 0, c.mod))
		if !ok || cmd != c.want {
			t.Fatalf("key %v mod %v: got %v ok=%v, want %v", c.key, c.mod, cmd, ok, c.want)
		}
	}
}

func TestTranslateKeyEditing(t *testing.T) {
	cases := []struct {
		key  tcell.Key
		mod  tcell.ModMask
		want Command
	}{
		{tcell.KeyEnter, 0, CmdInsertNewline},
		{tcell.KeyTab, 0, CmdInsertTab},
		{tcell.KeyBacktab, 0, CmdUnindentLines},
		{tcell.KeyBackspace2, 0, CmdDeleteBack},
		{tcell.KeyBackspace2, tcell.ModAlt, CmdDeleteWordBack},
		{tcell.KeyDelete, 0, CmdDeleteForward},
		{tcell.KeyDelete, tcell.ModCtrl, CmdDeleteWordForward},
		{tcell.KeyEsc, 0, CmdClearCursors},
		{tcell.KeyHome, tcell.ModCtrl, CmdMoveDocStart},
		{tcell.KeyEnd, 0, CmdMoveLineEnd},
		{tcell.KeyPgUp, tcell.ModShift, CmdSelectPageUp},
	}
	for _, c := range cases {
		cmd, ok := translateKey(tcell.NewEventKey(c.key, 0, c.mod))
		if !ok || cmd != c.want {
			t.Fatalf("key %v mod %v: got %v ok=%v, want %v", c.key, c.mod, cmd, ok, c.want)
		}
	}
}

func TestTranslateKeyControlChords(t *testing.T) {
	cases := []struct {
		key  tcell.Key
		want Command
	}{
		{tcell.KeyCtrlQ, CmdQuit},
		{tcell.KeyCtrlS, CmdSave},
		{tcell.KeyCtrlZ, CmdUndo},
		{tcell.KeyCtrlY, CmdRedo},
		{tcell.KeyCtrlC, CmdCopy},
		{tcell.KeyCtrlX, CmdCut},
		{tcell.KeyCtrlV, CmdPaste},
		{tcell.KeyCtrlA, CmdSelectAll},
		{tcell.KeyCtrlD, CmdAddCursorAndAdvance},
		{tcell.KeyCtrlE, CmdAddCursorAtPrimary},
		{tcell.KeyCtrlK, CmdDeleteLines},
		{tcell.KeyCtrlJ, CmdJoinLines},
		{tcell.KeyCtrlUnderscore, CmdToggleComment},
		{tcell.KeyCtrlP, CmdDuplicateLines},
	}
	for _, c := range cases {
		cmd, ok := translateKey(tcell.NewEventKey(c.key, 0, tcell.ModCtrl))
		if !ok || cmd != c.want {
			t.Fatalf("key %v: got %v ok=%v, want %v", c.key, cmd, ok, c.want)
		}
	}
}

func TestTranslateKeyPlainRune(t *testing.T) {
	cmd, ok := translateKey(tcell.NewEventKey(tcell.KeyRune, 'a', 0))
	if ok || cmd != CmdNone {
		t.Fatalf("plain rune should not translate, got %v ok=%v", cmd, ok)
	}
}
