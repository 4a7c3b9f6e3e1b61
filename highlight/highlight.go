package highlight

import (
	"sync"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/gdamore/tcell/v2"
)

// Tag classifies one rendered character for display.
type Tag uint8

const (
	TagNormal Tag = iota
	TagKeyword
	TagBuiltin
	TagString
	TagComment
	TagNumber
	TagFunction
	TagType
	TagOperator
	TagPunctuation
)

var (
	lexerMu    sync.Mutex
	lexerCache = map[string]chroma.Lexer{}
)

func lexerFor(lang string) chroma.Lexer {
	lexerMu.Lock()
	defer lexerMu.Unlock()
	if lx, ok := lexerCache[lang]; ok {
		return lx
	}
	lx := lexers.Get(lang)
	if lx == nil {
		lx = lexers.Fallback
	}
	lx = chroma.Coalesce(lx)
	lexerCache[lang] = lx
	return lx
}

// ScanLine tokenizes a single rendered line and returns one tag per
// rune. Tokenizing line by line loses multi-line constructs like raw
// strings spanning rows, which is the tradeoff for rescanning only
// rows that changed.
func ScanLine(lang, line string) []Tag {
	runes := []rune(line)
	tags := make([]Tag, len(runes))
	if len(runes) == 0 {
		return tags
	}

	iter, err := lexerFor(lang).Tokenise(nil, line)
	if err != nil {
		return tags
	}

	pos := 0
	for _, tok := range iter.Tokens() {
		tag := tagFor(tok.Type)
		for range tok.Value {
			if pos >= len(tags) {
				return tags
			}
			tags[pos] = tag
			pos++
		}
	}
	return tags
}

// DetectLanguage maps a filename to a chroma lexer name, or "" when
// nothing matches.
func DetectLanguage(filename string) string {
	lexer := lexers.Match(filename)
	if lexer == nil {
		return ""
	}
	config := lexer.Config()
	if config == nil {
		return ""
	}
	return config.Name
}

// CommentMarkers returns the line and block comment markers for a
// detected language. Unknown languages fall back to C-style markers.
func CommentMarkers(lang string) (line, blockStart, blockEnd string) {
	switch lang {
	case "Python":
		return "#", `"""`, `"""`
	case "Ruby":
		return "#", "=begin", "=end"
	case "Shell", "Bash", "YAML", "TOML", "Makefile", "Dockerfile":
		return "#", "", ""
	case "Lua":
		return "--", "--[[", "]]"
	case "SQL":
		return "--", "/*", "*/"
	case "HTML", "XML", "Markdown":
		return "", "<!--", "-->"
	case "Lisp", "Scheme", "Clojure":
		return ";;", "", ""
	case "Haskell":
		return "--", "{-", "-}"
	}
	return "//", "/*", "*/"
}

func tagFor(t chroma.TokenType) Tag {
	switch {
	case t.InCategory(chroma.Keyword):
		if t == chroma.KeywordType {
			return TagType
		}
		return TagKeyword
	case t == chroma.NameBuiltin || t == chroma.NameBuiltinPseudo:
		return TagBuiltin
	case t == chroma.LiteralString || t.InSubCategory(chroma.LiteralString):
		return TagString
	case t.InCategory(chroma.Comment):
		return TagComment
	case t == chroma.LiteralNumber || t.InSubCategory(chroma.LiteralNumber):
		return TagNumber
	case t == chroma.NameFunction || t == chroma.NameFunctionMagic:
		return TagFunction
	case t == chroma.NameClass || t == chroma.NameException || t == chroma.NameDecorator:
		return TagType
	case t.InCategory(chroma.Operator):
		return TagOperator
	case t == chroma.Punctuation:
		return TagPunctuation
	}
	return TagNormal
}

// StyleFor is the default style mapping, used when the active theme
// has no override for a tag.
func StyleFor(tag Tag) tcell.Style {
	base := tcell.StyleDefault
	switch tag {
	case TagKeyword:
		return base.Foreground(tcell.ColorBlue).Bold(true)
	case TagBuiltin:
		return base.Foreground(tcell.ColorBlue)
	case TagString:
		return base.Foreground(tcell.ColorGreen)
	case TagComment:
		return base.Foreground(tcell.ColorGray).Italic(true)
	case TagNumber:
		return base.Foreground(tcell.ColorDarkCyan)
	case TagFunction:
		return base.Foreground(tcell.ColorYellow)
	case TagType:
		return base.Foreground(tcell.ColorFuchsia)
	case TagOperator, TagPunctuation:
		return base.Foreground(tcell.ColorWhite)
	}
	return base.Foreground(tcell.ColorWhite)
}
