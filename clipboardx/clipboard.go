// Package clipboardx bridges the system clipboard with fallbacks for
// terminals where no native clipboard is reachable: external tools,
// OSC 52, and finally an in-process buffer so copy/paste keeps working
// inside a single session.
package clipboardx

import (
	"encoding/base64"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/atotto/clipboard"
)

var fallback string

type tool struct {
	name string
	args []string
}

var writeTools = []tool{
	{name: "wl-copy"},
	{name: "xclip", args: []string{"-selection", "clipboard"}},
	{name: "xsel", args: []string{"--clipboard", "--input"}},
	{name: "pbcopy"},
	{name: "clip.exe"},
}

var readTools = []tool{
	{name: "wl-paste", args: []string{"--no-newline"}},
	{name: "xclip", args: []string{"-o", "-selection", "clipboard"}},
	{name: "xsel", args: []string{"--clipboard", "--output"}},
	{name: "pbpaste"},
	{name: "powershell.exe", args: []string{"-NoProfile", "-Command", "Get-Clipboard"}},
}

// Write pushes text to every clipboard channel that works and reports
// whether at least one external channel accepted it.
func Write(text string) bool {
	fallback = text
	ok := false

	if err := clipboard.WriteAll(text); err == nil {
		ok = true
	}
	for _, t := range writeTools {
		if _, err := exec.LookPath(t.name); err != nil {
			continue
		}
		cmd := exec.Command(t.name, t.args...)
		cmd.Stdin = strings.NewReader(text)
		if err := cmd.Run(); err == nil {
			ok = true
		}
	}
	if writeOSC52(text) {
		ok = true
	}
	return ok
}

// Read returns the clipboard contents, trying the native clipboard,
// then external tools, then the in-process buffer.
func Read() string {
	if text, err := clipboard.ReadAll(); err == nil && text != "" {
		return text
	}
	for _, t := range readTools {
		if _, err := exec.LookPath(t.name); err != nil {
			continue
		}
		out, err := exec.Command(t.name, t.args...).Output()
		if err == nil && len(out) > 0 {
			return string(out)
		}
	}
	return fallback
}

// writeOSC52 escapes the text to the terminal itself, which forwards
// it to the host clipboard over SSH sessions that support OSC 52.
func writeOSC52(text string) bool {
	if text == "" {
		return false
	}
	if fi, err := os.Stdout.Stat(); err != nil || (fi.Mode()&os.ModeCharDevice) == 0 {
		return false
	}
	encoded := base64.StdEncoding.EncodeToString([]byte(text))
	_, err := fmt.Fprintf(os.Stdout, "\x1b]52;c;%s\x07", encoded)
	return err == nil
}
