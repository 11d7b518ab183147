// Package theme provides color themes for the board.
package theme

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/pelletier/go-toml/v2"
)

//go:embed embedded/*.toml
var embeddedThemes embed.FS

// DefaultName is used when no theme is configured or the name is unknown.
const DefaultName = "mocha"

// Theme holds the board colors. Booking blocks take their colors from the
// booking status, not from the theme.
type Theme struct {
	Name     string `toml:"name"`
	Bg       string `toml:"bg"`        // board background
	Surface  string `toml:"surface"`   // header, footer, odd hour rows
	Hover    string `toml:"hover"`     // drop target band
	Fg       string `toml:"fg"`        // primary text
	FgMuted  string `toml:"fg_muted"`  // half-hour labels, hints
	Accent   string `toml:"accent"`    // date title, full-hour labels
	NowLine  string `toml:"now_line"`  // current time marker
	Ghost    string `toml:"ghost"`     // floating drag preview
	GridLine string `toml:"grid_line"` // alternate hour shading

	BaseBg      string `toml:"base_bg"`
	ModalBorder string `toml:"modal_border"`
}

// Color returns a lipgloss.Color for the given hex string.
func Color(hex string) lipgloss.Color {
	return lipgloss.Color(hex)
}

// Load loads a theme by name from the embedded files. Unknown names fall
// back to DefaultName.
func Load(name string) (*Theme, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = DefaultName
	}

	data, err := embeddedThemes.ReadFile(path.Join("embedded", name+".toml"))
	if err != nil {
		if name != DefaultName {
			return Load(DefaultName)
		}
		return nil, fmt.Errorf("loading theme %q: %w", name, err)
	}

	var t Theme
	if err := toml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parsing theme %q: %w", name, err)
	}
	if t.Name == "" {
		t.Name = name
	}
	t.applyDefaults()
	return &t, nil
}

func (t *Theme) applyDefaults() {
	t.Surface = coalesce(t.Surface, t.Bg)
	t.Hover = coalesce(t.Hover, t.Surface)
	t.FgMuted = coalesce(t.FgMuted, t.Fg)
	t.Accent = coalesce(t.Accent, t.Fg)
	t.NowLine = coalesce(t.NowLine, t.Accent)
	t.Ghost = coalesce(t.Ghost, t.Accent)
	t.GridLine = coalesce(t.GridLine, t.Bg)
	t.BaseBg = coalesce(t.BaseBg, t.Surface)
	t.ModalBorder = coalesce(t.ModalBorder, t.Accent)
}

func coalesce(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// Available returns the embedded theme names, sorted.
func Available() []string {
	entries, err := fs.ReadDir(embeddedThemes, "embedded")
	if err != nil {
		return []string{DefaultName}
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if name, ok := strings.CutSuffix(e.Name(), ".toml"); ok {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}

// IsAvailable reports whether a theme name is available.
func IsAvailable(name string) bool {
	return slices.Contains(Available(), strings.ToLower(name))
}
