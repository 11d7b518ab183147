package theme

import (
	"math"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/stretchlp/stretchboard/internal/booking"
)

const (
	lightText = "#ffffff"
	darkText  = "#11111b"
)

// BlockColors are the fill and text colors of one booking block.
type BlockColors struct {
	Bg      lipgloss.Color
	Fg      lipgloss.Color
	Pending lipgloss.Color // fill while a reschedule is in flight
}

// Palette holds colors derived from a Theme.
type Palette struct {
	Bg       lipgloss.Color
	Surface  lipgloss.Color
	Hover    lipgloss.Color
	Fg       lipgloss.Color
	FgMuted  lipgloss.Color
	Accent   lipgloss.Color
	NowLine  lipgloss.Color
	GridLine lipgloss.Color

	Ghost     lipgloss.Color
	GhostText lipgloss.Color

	ModalBg       lipgloss.Color
	ModalBorder   lipgloss.Color
	ModalBackdrop lipgloss.Color

	blocks   map[booking.Status]BlockColors
	fallback BlockColors
}

// NewPalette derives a Palette from t. A nil theme uses DefaultName.
func NewPalette(t *Theme) *Palette {
	if t == nil {
		t, _ = Load(DefaultName)
	}
	light := IsLight(t.Bg)

	p := &Palette{
		Bg:            lipgloss.Color(t.Bg),
		Surface:       lipgloss.Color(t.Surface),
		Hover:         lipgloss.Color(t.Hover),
		Fg:            lipgloss.Color(t.Fg),
		FgMuted:       lipgloss.Color(t.FgMuted),
		Accent:        lipgloss.Color(t.Accent),
		NowLine:       lipgloss.Color(t.NowLine),
		GridLine:      lipgloss.Color(t.GridLine),
		Ghost:         lipgloss.Color(t.Ghost),
		GhostText:     lipgloss.Color(TextOn(t.Ghost)),
		ModalBg:       lipgloss.Color(t.BaseBg),
		ModalBorder:   lipgloss.Color(t.ModalBorder),
		ModalBackdrop: lipgloss.Color(t.Surface),
		blocks:        make(map[booking.Status]BlockColors, len(booking.Statuses)),
	}

	for _, s := range booking.Statuses {
		p.blocks[s] = blockColors(s.Color(), t.Bg, light)
	}
	p.fallback = blockColors(booking.DefaultColor, t.Bg, light)
	return p
}

// Block returns the colors for a booking with status s.
func (p *Palette) Block(s booking.Status) BlockColors {
	if c, ok := p.blocks[s]; ok {
		return c
	}
	return p.fallback
}

func blockColors(hex, bg string, light bool) BlockColors {
	ratio := 0.55
	if light {
		ratio = 0.45
	}
	pending := Blend(hex, bg, ratio)
	return BlockColors{
		Bg:      lipgloss.Color(hex),
		Fg:      lipgloss.Color(TextOn(hex)),
		Pending: lipgloss.Color(pending),
	}
}

// IsLight reports whether a background reads as light.
func IsLight(bg string) bool {
	return Luminance(bg) > 0.55
}

// TextOn picks whichever of white or near-black contrasts more with bg.
func TextOn(bg string) string {
	if Contrast(bg, lightText) >= Contrast(bg, darkText) {
		return lightText
	}
	return darkText
}

// Blend mixes a toward b by ratio in [0, 1]. Invalid colors return a.
func Blend(a, b string, ratio float64) string {
	ca, err := colorful.Hex(a)
	if err != nil {
		return a
	}
	cb, err := colorful.Hex(b)
	if err != nil {
		return a
	}
	ratio = math.Max(0, math.Min(1, ratio))
	return ca.BlendRgb(cb, ratio).Clamped().Hex()
}

// Luminance returns the WCAG relative luminance of hex, 0 for invalid input.
func Luminance(hex string) float64 {
	c, err := colorful.Hex(hex)
	if err != nil {
		return 0
	}
	r, g, b := c.LinearRgb()
	return 0.2126*r + 0.7152*g + 0.0722*b
}

// Contrast returns the WCAG contrast ratio between two colors.
func Contrast(a, b string) float64 {
	la, lb := Luminance(a), Luminance(b)
	if la < lb {
		la, lb = lb, la
	}
	return (la + 0.05) / (lb + 0.05)
}
