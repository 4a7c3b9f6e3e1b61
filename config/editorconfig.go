package config

import (
	"bufio"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// EditorConfigSettings carries the subset of .editorconfig properties
// the editor honors. Zero values mean unset.
type EditorConfigSettings struct {
	IndentStyle        string
	IndentSize         int
	TabWidth           int
	TrimTrailingSpace  bool
	InsertFinalNewline bool
}

// FindEditorConfig walks from the file's directory upward collecting
// .editorconfig sections that match its name, with the closest file
// taking precedence. Returns nil when nothing matches.
func FindEditorConfig(filePath string) *EditorConfigSettings {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return nil
	}

	fileName := filepath.Base(absPath)
	dir := filepath.Dir(absPath)

	var layers []map[string]string
	for {
		ecPath := filepath.Join(dir, ".editorconfig")
		props, isRoot := parseEditorConfig(ecPath, fileName)
		if props != nil {
			layers = append(layers, props)
		}
		if isRoot {
			break
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	if len(layers) == 0 {
		return nil
	}

	merged := make(map[string]string)
	for i := len(layers) - 1; i >= 0; i-- {
		for k, v := range layers[i] {
			merged[k] = v
		}
	}
	return settingsFromMap(merged)
}

// parseEditorConfig returns the merged properties of sections matching
// fileName, plus whether the file declared root = true.
func parseEditorConfig(path, fileName string) (map[string]string, bool) {
	f, err := os.Open(path)
	if err != nil {
		return nil, false
	}
	defer f.Close()

	props := make(map[string]string)
	isRoot := false
	inMatchingSection := false
	inPreamble := true

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '#' || line[0] == ';' {
			continue
		}

		if line[0] == '[' && line[len(line)-1] == ']' {
			inPreamble = false
			inMatchingSection = matchPattern(line[1:len(line)-1], fileName)
			continue
		}

		eqIdx := strings.IndexByte(line, '=')
		if eqIdx < 0 {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(line[:eqIdx]))
		value := strings.ToLower(strings.TrimSpace(line[eqIdx+1:]))

		if inPreamble && key == "root" && value == "true" {
			isRoot = true
			continue
		}
		if inMatchingSection {
			props[key] = value
		}
	}

	if len(props) == 0 {
		return nil, isRoot
	}
	return props, isRoot
}

// matchPattern checks fileName against an editorconfig glob, expanding
// one level of {a,b} alternation.
func matchPattern(pattern, fileName string) bool {
	for _, p := range expandBraces(pattern) {
		if matched, _ := filepath.Match(p, fileName); matched {
			return true
		}
	}
	return false
}

func expandBraces(pattern string) []string {
	braceStart := strings.IndexByte(pattern, '{')
	if braceStart < 0 {
		return []string{pattern}
	}

	braceEnd := -1
	depth := 0
	for i := braceStart; i < len(pattern) && braceEnd < 0; i++ {
		switch pattern[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				braceEnd = i
			}
		}
	}
	if braceEnd < 0 {
		return []string{pattern}
	}

	prefix := pattern[:braceStart]
	suffix := pattern[braceEnd+1:]
	var results []string
	for _, alt := range splitBraceAlternatives(pattern[braceStart+1 : braceEnd]) {
		results = append(results, expandBraces(prefix+alt+suffix)...)
	}
	return results
}

func splitBraceAlternatives(s string) []string {
	var parts []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}

func settingsFromMap(m map[string]string) *EditorConfigSettings {
	s := &EditorConfigSettings{}
	hasAny := false

	if v, ok := m["indent_style"]; ok {
		s.IndentStyle = v
		hasAny = true
	}
	if v, ok := m["indent_size"]; ok {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			s.IndentSize = n
			hasAny = true
		}
	}
	if v, ok := m["tab_width"]; ok {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			s.TabWidth = n
			hasAny = true
		}
	}
	if v, ok := m["trim_trailing_whitespace"]; ok {
		s.TrimTrailingSpace = v == "true"
		hasAny = true
	}
	if v, ok := m["insert_final_newline"]; ok {
		s.InsertFinalNewline = v == "true"
		hasAny = true
	}

	if !hasAny {
		return nil
	}
	return s
}
