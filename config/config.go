package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/gdamore/tcell/v2"
)

type Config struct {
	TabSize            int    `json:"tab_size"`
	IndentWidth        int    `json:"indent_width"`
	Theme              string `json:"theme"`
	LineNumbers        bool   `json:"line_numbers"`
	UndoTimeoutMs      int    `json:"undo_timeout_ms"`
	UndoMaxEntries     int    `json:"undo_max_entries"`
	TrimTrailingSpace  bool   `json:"trim_trailing_whitespace"`
	InsertFinalNewline bool   `json:"insert_final_newline"`
	DebugLog           bool   `json:"debug_log"`
}

// LanguageTabSize returns the display tab width for a language,
// falling back to the configured default.
func (c *Config) LanguageTabSize(language string) int {
	switch language {
	case "JavaScript", "TypeScript", "JSON", "HTML", "CSS", "SCSS",
		"YAML", "Vue", "Svelte", "JSX", "TSX", "TOML":
		return 2
	case "Go", "Python", "Java", "C", "C++", "Rust", "C#", "PHP":
		return 4
	case "Makefile":
		return 8
	default:
		return c.TabSize
	}
}

type ColorScheme struct {
	Name             string
	Background       tcell.Color
	Foreground       tcell.Color
	Selection        tcell.Color
	SecondaryCursor  tcell.Color
	LineNumber       tcell.Color
	LineNumberActive tcell.Color
	StatusBarBg      tcell.Color
	StatusBarFg      tcell.Color
	StatusBarModeBg  tcell.Color
}

var Themes = map[string]*ColorScheme{
	"dark": {
		Name:             "Dark",
		Background:       tcell.ColorBlack,
		Foreground:       tcell.ColorWhite,
		Selection:        tcell.ColorDarkBlue,
		SecondaryCursor:  tcell.ColorDarkOrange,
		LineNumber:       tcell.ColorGray,
		LineNumberActive: tcell.ColorWhite,
		StatusBarBg:      tcell.ColorDarkBlue,
		StatusBarFg:      tcell.ColorWhite,
		StatusBarModeBg:  tcell.ColorBlue,
	},
	"light": {
		Name:             "Light",
		Background:       tcell.ColorWhite,
		Foreground:       tcell.ColorBlack,
		Selection:        tcell.ColorLightBlue,
		SecondaryCursor:  tcell.ColorDarkOrange,
		LineNumber:       tcell.ColorGray,
		LineNumberActive: tcell.ColorBlack,
		StatusBarBg:      tcell.ColorLightBlue,
		StatusBarFg:      tcell.ColorBlack,
		StatusBarModeBg:  tcell.ColorBlue,
	},
	"monokai": {
		Name:             "Monokai",
		Background:       tcell.NewRGBColor(39, 40, 34),
		Foreground:       tcell.NewRGBColor(248, 248, 242),
		Selection:        tcell.NewRGBColor(73, 72, 62),
		SecondaryCursor:  tcell.NewRGBColor(253, 151, 31),
		LineNumber:       tcell.NewRGBColor(144, 144, 128),
		LineNumberActive: tcell.NewRGBColor(248, 248, 242),
		StatusBarBg:      tcell.NewRGBColor(73, 72, 62),
		StatusBarFg:      tcell.NewRGBColor(248, 248, 242),
		StatusBarModeBg:  tcell.NewRGBColor(102, 217, 239),
	},
	"nord": {
		Name:             "Nord",
		Background:       tcell.NewRGBColor(46, 52, 64),
		Foreground:       tcell.NewRGBColor(236, 239, 244),
		Selection:        tcell.NewRGBColor(67, 76, 94),
		SecondaryCursor:  tcell.NewRGBColor(235, 203, 139),
		LineNumber:       tcell.NewRGBColor(76, 86, 106),
		LineNumberActive: tcell.NewRGBColor(236, 239, 244),
		StatusBarBg:      tcell.NewRGBColor(67, 76, 94),
		StatusBarFg:      tcell.NewRGBColor(236, 239, 244),
		StatusBarModeBg:  tcell.NewRGBColor(136, 192, 208),
	},
	"gruvbox": {
		Name:             "Gruvbox Dark",
		Background:       tcell.NewRGBColor(40, 40, 40),
		Foreground:       tcell.NewRGBColor(235, 219, 178),
		Selection:        tcell.NewRGBColor(60, 56, 54),
		SecondaryCursor:  tcell.NewRGBColor(254, 128, 25),
		LineNumber:       tcell.NewRGBColor(146, 131, 116),
		LineNumberActive: tcell.NewRGBColor(251, 241, 199),
		StatusBarBg:      tcell.NewRGBColor(60, 56, 54),
		StatusBarFg:      tcell.NewRGBColor(235, 219, 178),
		StatusBarModeBg:  tcell.NewRGBColor(184, 187, 38),
	},
	"dracula": {
		Name:             "Dracula",
		Background:       tcell.NewRGBColor(40, 42, 54),
		Foreground:       tcell.NewRGBColor(248, 248, 242),
		Selection:        tcell.NewRGBColor(68, 71, 90),
		SecondaryCursor:  tcell.NewRGBColor(255, 121, 198),
		LineNumber:       tcell.NewRGBColor(98, 114, 164),
		LineNumberActive: tcell.NewRGBColor(248, 248, 242),
		StatusBarBg:      tcell.NewRGBColor(68, 71, 90),
		StatusBarFg:      tcell.NewRGBColor(248, 248, 242),
		StatusBarModeBg:  tcell.NewRGBColor(189, 147, 249),
	},
}

func Default() *Config {
	return &Config{
		TabSize:            4,
		IndentWidth:        4,
		Theme:              "monokai",
		LineNumbers:        true,
		UndoTimeoutMs:      500,
		UndoMaxEntries:     10000,
		TrimTrailingSpace:  false,
		InsertFinalNewline: true,
	}
}

func (c *Config) GetTheme() *ColorScheme {
	theme, ok := Themes[c.Theme]
	if !ok {
		return Themes["monokai"]
	}
	return theme
}

func ConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "miter", "settings.json")
}

func Load() (*Config, error) {
	path := ConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// First run: seed the settings file so there is something
			// to edit. Failing to write it is not fatal.
			cfg := Default()
			cfg.Save()
			return cfg, nil
		}
		return nil, err
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Save() error {
	path := ConfigPath()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
