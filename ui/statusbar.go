package ui

import (
	"fmt"

	"miter/config"

	"github.com/gdamore/tcell/v2"
)

type StatusBar struct {
	Mode        string
	Filename    string
	Line        int
	Col         int
	Language    string
	TabInfo     string // "Spaces: 4"
	Message     string // temporary status message
	Theme       *config.ColorScheme
	Dirty       bool
	SelChars    int // number of selected characters (0 = no selection)
	SelLines    int
	CursorCount int
}

func NewStatusBar() *StatusBar {
	return &StatusBar{Mode: "EDIT"}
}

func (s *StatusBar) Render(screen tcell.Screen, x, y, width, height int) {
	theme := s.Theme
	if theme == nil {
		theme = config.Themes["monokai"]
	}

	style := tcell.StyleDefault.Background(theme.StatusBarBg).Foreground(theme.StatusBarFg)
	modeStyle := tcell.StyleDefault.Background(theme.StatusBarModeBg).Foreground(tcell.ColorWhite).Bold(true)

	// Clear the line
	for cx := x; cx < x+width; cx++ {
		screen.SetContent(cx, y, ' ', nil, style)
	}

	col := x

	mode := " " + s.Mode + " "
	for _, ch := range mode {
		if col < x+width {
			screen.SetContent(col, y, ch, nil, modeStyle)
			col++
		}
	}
	if col < x+width {
		screen.SetContent(col, y, ' ', nil, style)
		col++
	}

	// A temporary message takes over the left side
	if s.Message != "" {
		for _, ch := range s.Message {
			if col < x+width {
				screen.SetContent(col, y, ch, nil, style)
				col++
			}
		}
		return
	}

	fname := s.Filename
	if fname == "" {
		fname = "untitled"
	}
	if s.Dirty {
		fname += " [+]"
	}
	for _, ch := range fname {
		if col < x+width {
			screen.SetContent(col, y, ch, nil, style)
			col++
		}
	}

	var right string
	cursorPart := ""
	if s.CursorCount > 1 {
		cursorPart = fmt.Sprintf("%d cursors │ ", s.CursorCount)
	}
	tabInfo := s.TabInfo
	if tabInfo == "" {
		tabInfo = "Spaces: 4"
	}
	lang := s.Language
	if lang == "" {
		lang = "Plain Text"
	}
	if s.SelChars > 0 {
		right = fmt.Sprintf("%sSel: %d chars, %d lines │ Ln %d, Col %d │ %s │ %s ",
			cursorPart, s.SelChars, s.SelLines, s.Line+1, s.Col+1, lang, tabInfo)
	} else {
		right = fmt.Sprintf("%sLn %d, Col %d │ %s │ %s ",
			cursorPart, s.Line+1, s.Col+1, lang, tabInfo)
	}
	rightRunes := []rune(right)
	rightStart := x + width - len(rightRunes)
	if rightStart > col+2 {
		for i, ch := range rightRunes {
			screen.SetContent(rightStart+i, y, ch, nil, style)
		}
	}
}
