package theme

import (
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/stretchlp/stretchboard/internal/booking"
)

func TestNewPalette_BlocksUseStatusColors(t *testing.T) {
	p := NewPalette(nil)

	for _, s := range booking.Statuses {
		if got := p.Block(s).Bg; got != lipgloss.Color(s.Color()) {
			t.Errorf("Block(%s).Bg = %q, want %q", s, got, s.Color())
		}
	}
	if got := p.Block("").Bg; got != lipgloss.Color(booking.DefaultColor) {
		t.Errorf("Block(empty).Bg = %q, want default %q", got, booking.DefaultColor)
	}
	if got := p.Block("WAITLIST").Bg; got != lipgloss.Color(booking.DefaultColor) {
		t.Errorf("Block(unknown).Bg = %q, want default", got)
	}
}

func TestNewPalette_PendingIsDimmer(t *testing.T) {
	dark := NewPalette(&Theme{Bg: "#101010", Fg: "#ffffff"})
	c := dark.Block(booking.StatusConfirmed)
	if Luminance(string(c.Pending)) >= Luminance(string(c.Bg)) {
		t.Errorf("pending %q should be darker than %q on a dark theme", c.Pending, c.Bg)
	}

	light := NewPalette(&Theme{Bg: "#fafafa", Fg: "#111111"})
	c = light.Block(booking.StatusConfirmed)
	if Luminance(string(c.Pending)) <= Luminance(string(c.Bg)) {
		t.Errorf("pending %q should be lighter than %q on a light theme", c.Pending, c.Bg)
	}
}

func TestTextOn(t *testing.T) {
	tests := []struct {
		bg   string
		want string
	}{
		{"#f0f0f0", darkText},
		{"#101010", lightText},
		{"#1d4ed8", lightText},
		{"#f59e0b", darkText},
	}
	for _, tt := range tests {
		if got := TextOn(tt.bg); got != tt.want {
			t.Errorf("TextOn(%q) = %q, want %q", tt.bg, got, tt.want)
		}
	}
}

func TestBlend(t *testing.T) {
	if got := Blend("#000000", "#ffffff", 0); got != "#000000" {
		t.Errorf("ratio 0 = %q", got)
	}
	if got := Blend("#000000", "#ffffff", 1); got != "#ffffff" {
		t.Errorf("ratio 1 = %q", got)
	}
	if got := Blend("#000000", "#ffffff", 2); got != "#ffffff" {
		t.Errorf("ratio clamps above 1, got %q", got)
	}
	if got := Blend("nope", "#ffffff", 0.5); got != "nope" {
		t.Errorf("invalid input = %q, want unchanged", got)
	}
}

func TestIsLight(t *testing.T) {
	if !IsLight("#eff1f5") {
		t.Error("latte bg should be light")
	}
	if IsLight("#1e1e2e") {
		t.Error("mocha bg should be dark")
	}
	if IsLight("bad") {
		t.Error("invalid color should not be light")
	}
}
