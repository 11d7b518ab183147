package theme

import (
	"slices"
	"testing"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name      string
		themeName string
		wantName  string
	}{
		{name: "mocha", themeName: "mocha", wantName: "mocha"},
		{name: "macchiato", themeName: "macchiato", wantName: "macchiato"},
		{name: "frappe", themeName: "frappe", wantName: "frappe"},
		{name: "latte", themeName: "latte", wantName: "latte"},
		{name: "light", themeName: "light", wantName: "light"},
		{name: "case insensitive", themeName: " Latte ", wantName: "latte"},
		{name: "empty name defaults to mocha", themeName: "", wantName: "mocha"},
		{name: "unknown falls back to mocha", themeName: "nonexistent", wantName: "mocha"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			theme, err := Load(tt.themeName)
			if err != nil {
				t.Fatalf("Load(%q) error = %v", tt.themeName, err)
			}
			if theme.Name != tt.wantName {
				t.Errorf("Name = %q, want %q", theme.Name, tt.wantName)
			}
			if theme.Bg == "" || theme.Fg == "" {
				t.Errorf("theme %q has empty base colors", theme.Name)
			}
		})
	}
}

func TestLoad_AppliesDefaults(t *testing.T) {
	theme, err := Load("frappe")
	if err != nil {
		t.Fatal(err)
	}
	if theme.BaseBg != theme.Surface {
		t.Errorf("BaseBg = %q, want surface %q", theme.BaseBg, theme.Surface)
	}
	if theme.ModalBorder != theme.Accent {
		t.Errorf("ModalBorder = %q, want accent %q", theme.ModalBorder, theme.Accent)
	}
}

func TestApplyDefaults_Chain(t *testing.T) {
	th := &Theme{Bg: "#000000", Fg: "#ffffff"}
	th.applyDefaults()

	if th.Surface != "#000000" || th.Hover != "#000000" {
		t.Errorf("surface/hover = %q/%q, want bg", th.Surface, th.Hover)
	}
	if th.Accent != "#ffffff" || th.NowLine != "#ffffff" || th.Ghost != "#ffffff" {
		t.Errorf("accent chain not derived from fg: %+v", th)
	}
}

func TestAvailable(t *testing.T) {
	names := Available()
	for _, want := range []string{"frappe", "latte", "light", "macchiato", "mocha"} {
		if !slices.Contains(names, want) {
			t.Errorf("Available() = %v, missing %q", names, want)
		}
	}
	if !slices.IsSorted(names) {
		t.Errorf("Available() = %v, want sorted", names)
	}
}

func TestIsAvailable(t *testing.T) {
	if !IsAvailable("MOCHA") {
		t.Error("IsAvailable(MOCHA) = false")
	}
	if IsAvailable("solarized") {
		t.Error("IsAvailable(solarized) = true")
	}
}
