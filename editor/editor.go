package editor

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"miter/buffer"
	"miter/config"
	"miter/ui"

	"github.com/fsnotify/fsnotify"
	"github.com/gdamore/tcell/v2"
)

// Editor owns the terminal screen, the buffer being edited, and the
// view state around it.
type Editor struct {
	screen tcell.Screen
	buf    *buffer.Buffer
	cfg    *config.Config

	statusBar *ui.StatusBar

	scrollX int
	scrollY int

	quit        bool
	quitPending bool // true after first Ctrl+Q with unsaved changes

	mouseDown      bool
	mouseScrolling bool // wheel scroll skips snapping the view to the cursor

	fileWatcher *fsnotify.Watcher
	logger      *slog.Logger
	logFile     *os.File

	statusMessageTime    time.Time
	statusMessageIsError bool
}

// FileWatchEvent carries file system change notifications to the main
// event loop.
type FileWatchEvent struct {
	tcell.EventTime
	Path string
	Op   fsnotify.Op
}

func New(cfg *config.Config) *Editor {
	e := &Editor{
		cfg:       cfg,
		statusBar: ui.NewStatusBar(),
	}
	e.setupLogger()
	return e
}

// setupLogger opens the debug log next to the settings file when the
// config asks for one; otherwise log records are discarded.
func (e *Editor) setupLogger() {
	if e.cfg.DebugLog {
		path := filepath.Join(filepath.Dir(config.ConfigPath()), "debug.log")
		if f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644); err == nil {
			e.logFile = f
			e.logger = slog.New(slog.NewTextHandler(f, nil))
			return
		}
	}
	e.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Run opens path (or an empty scratch buffer when path is "") and
// drives the event loop until quit.
func (e *Editor) Run(path string) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}

	screen.EnableMouse()
	screen.EnablePaste()
	screen.SetStyle(tcell.StyleDefault)
	screen.Clear()
	e.screen = screen

	e.statusBar.Theme = e.cfg.GetTheme()

	if err := e.openFile(path); err != nil {
		screen.Fini()
		return err
	}
	e.setupFileWatcher(screen)

	for !e.quit {
		e.clearExpiredMessages()
		e.updateStatus()
		e.render()

		ev := screen.PollEvent()
		switch ev := ev.(type) {
		case *tcell.EventResize:
			screen.Sync()
		case *tcell.EventKey:
			e.mouseScrolling = false
			e.handleKey(ev)
		case *tcell.EventMouse:
			e.handleMouse(ev)
		case *tcell.EventPaste:
			// Bracketed paste start; the pasted runes arrive as key
			// events and group fine through the undo timeout.
		case *FileWatchEvent:
			e.handleFileWatchEvent(ev)
		}
	}

	if e.fileWatcher != nil {
		e.fileWatcher.Close()
	}
	if e.logFile != nil {
		e.logFile.Close()
	}
	screen.Clear()
	screen.Fini()
	return nil
}

func (e *Editor) openFile(path string) error {
	if path == "" {
		e.buf = buffer.NewBuffer(e.cfg.TabSize)
		e.buf.IndentWidth = e.cfg.IndentWidth
		e.buf.History = buffer.NewUndoLog(
			time.Duration(e.cfg.UndoTimeoutMs)*time.Millisecond, e.cfg.UndoMaxEntries)
		e.buf.Load([]string{""})
		return nil
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	fileExists := true
	if _, err := os.Stat(absPath); os.IsNotExist(err) {
		fileExists = false
	}

	buf, err := buffer.NewBufferFromFile(absPath, e.cfg.TabSize)
	if err != nil {
		return err
	}
	e.buf = buf
	e.applyFileSettings(buf)

	if !fileExists {
		e.setTemporaryMessage(fmt.Sprintf("New file: %s", filepath.Base(absPath)))
	}
	return nil
}

// applyFileSettings resolves tab and indent widths for the buffer:
// .editorconfig wins over per-language defaults, which win over the
// user config.
func (e *Editor) applyFileSettings(buf *buffer.Buffer) {
	buf.TabStop = e.cfg.LanguageTabSize(buf.Language)
	buf.IndentWidth = e.cfg.IndentWidth
	buf.History = buffer.NewUndoLog(
		time.Duration(e.cfg.UndoTimeoutMs)*time.Millisecond, e.cfg.UndoMaxEntries)
	buf.FinalNewline = e.cfg.InsertFinalNewline

	if ec := config.FindEditorConfig(buf.Path); ec != nil {
		if ec.TabWidth > 0 {
			buf.TabStop = ec.TabWidth
		}
		if ec.IndentSize > 0 {
			buf.IndentWidth = ec.IndentSize
			if ec.TabWidth == 0 {
				buf.TabStop = ec.IndentSize
			}
		}
		if ec.InsertFinalNewline {
			buf.FinalNewline = true
		}
		if ec.TrimTrailingSpace {
			e.cfg.TrimTrailingSpace = true
		}
	}
}

func (e *Editor) saveFile() {
	if e.buf.Path == "" {
		e.setTemporaryError("No filename")
		return
	}
	if e.cfg.TrimTrailingSpace {
		e.buf.TrimTrailingSpace()
	}
	if err := e.buf.Save(); err != nil {
		e.setTemporaryError("Save failed: " + err.Error())
		return
	}
	e.setTemporaryMessage(fmt.Sprintf("Saved %s", filepath.Base(e.buf.Path)))
}

// reloadFile re-reads the file from disk, dropping unsaved changes and
// the undo history but keeping the cursor near its old position.
func (e *Editor) reloadFile() {
	path := e.buf.Path
	if path == "" {
		return
	}
	oldCursor := e.buf.Cursors.Primary
	buf, err := buffer.NewBufferFromFile(path, e.buf.TabStop)
	if err != nil {
		e.setTemporaryError("Reload failed: " + err.Error())
		return
	}
	e.applyFileSettings(buf)
	buf.Cursors.Primary = oldCursor
	buf.ClampCursors()
	e.buf = buf
	e.setTemporaryMessage("Reloaded " + filepath.Base(path))
}

func (e *Editor) requestQuit() {
	if e.buf.Dirty > 0 && !e.quitPending {
		e.quitPending = true
		e.setTemporaryError("Unsaved changes! Press Ctrl+Q again to quit")
		return
	}
	e.quit = true
}

func (e *Editor) setupFileWatcher(screen tcell.Screen) {
	if e.buf.Path == "" {
		return
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		e.logger.Error("file watcher init", "err", err)
		return
	}
	e.fileWatcher = watcher

	// Watch the directory: editors that write via rename replace the
	// inode, which a direct file watch would lose.
	watcher.Add(filepath.Dir(e.buf.Path))

	go func() {
		debounce := time.NewTimer(100 * time.Millisecond)
		debounce.Stop()
		var pending []fsnotify.Event

		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Name != e.buf.Path {
					continue
				}
				pending = append(pending, event)
				debounce.Reset(100 * time.Millisecond)

			case <-debounce.C:
				for _, event := range pending {
					ev := &FileWatchEvent{
						Path: event.Name,
						Op:   event.Op,
					}
					ev.SetEventNow()
					screen.PostEvent(ev)
				}
				pending = nil

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				e.logger.Error("file watcher", "err", err)
			}
		}
	}()
}

func (e *Editor) handleFileWatchEvent(ev *FileWatchEvent) {
	if ev.Path != e.buf.Path {
		return
	}

	switch {
	case ev.Op&fsnotify.Remove != 0:
		e.setTemporaryError("Warning: " + filepath.Base(ev.Path) + " was deleted externally")

	case ev.Op&fsnotify.Write != 0 || ev.Op&fsnotify.Create != 0:
		info, err := os.Stat(ev.Path)
		if err != nil {
			return
		}
		// Allow a grace period after our own save so it does not read
		// back as an external change.
		if !e.buf.LastSaveTime.IsZero() && info.ModTime().Sub(e.buf.LastSaveTime) <= time.Second {
			return
		}
		e.logger.Info("file changed on disk", "path", ev.Path)
		if e.buf.Dirty > 0 {
			e.setTemporaryError(filepath.Base(ev.Path) + " was modified externally! (unsaved changes)")
			return
		}
		e.setTemporaryMessage(filepath.Base(ev.Path) + " changed on disk (Ctrl+R to reload)")
	}
}

func (e *Editor) updateStatus() {
	buf := e.buf
	e.statusBar.Filename = filepath.Base(buf.Path)
	if e.statusBar.Filename == "." || buf.Path == "" {
		e.statusBar.Filename = "untitled"
	}
	e.statusBar.Line = buf.Cursors.Primary.Line
	e.statusBar.Col = buf.Cursors.Primary.Col
	e.statusBar.Language = buf.Language
	e.statusBar.Dirty = buf.Dirty > 0
	e.statusBar.CursorCount = buf.Cursors.Count()
	e.statusBar.TabInfo = fmt.Sprintf("Spaces: %d", buf.IndentWidth)

	if buf.HasSelection() {
		text := buf.SelectedText()
		start, end := buf.Selection.Normalized()
		e.statusBar.SelChars = len([]rune(text))
		e.statusBar.SelLines = end.Line - start.Line + 1
	} else {
		e.statusBar.SelChars = 0
		e.statusBar.SelLines = 0
	}
}

// setTemporaryMessage sets a status message that auto-clears after 5
// seconds.
func (e *Editor) setTemporaryMessage(msg string) {
	e.statusBar.Message = msg
	e.statusMessageTime = time.Now()
	e.statusMessageIsError = false
}

func (e *Editor) setTemporaryError(msg string) {
	e.statusBar.Message = msg
	e.statusMessageTime = time.Now()
	e.statusMessageIsError = true
}

func (e *Editor) clearExpiredMessages() {
	if !e.statusMessageTime.IsZero() && time.Since(e.statusMessageTime) > 5*time.Second {
		e.statusBar.Message = ""
		e.statusMessageTime = time.Time{}
		e.statusMessageIsError = false
	}
}
