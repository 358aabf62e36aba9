package core

import (
	"testing"
)

func TestColorDefault(t *testing.T) {
	c := ColorDefault
	if !c.IsDefault() {
		t.Error("ColorDefault should be default")
	}
	if c.String() != "default" {
		t.Errorf("expected \"default\", got %q", c.String())
	}
}

func TestColorFromRGB(t *testing.T) {
	c := ColorFromRGB(255, 128, 64)

	if c.R != 255 || c.G != 128 || c.B != 64 {
		t.Errorf("expected (255,128,64), got (%d,%d,%d)", c.R, c.G, c.B)
	}
	if c.IsDefault() {
		t.Error("RGB color should not be default")
	}
	if c.String() != "#FF8040" {
		t.Errorf("expected #FF8040, got %s", c.String())
	}
}

func TestColorFromHex(t *testing.T) {
	tests := []struct {
		hex     string
		r, g, b uint8
		wantErr bool
	}{
		{"#FF8040", 255, 128, 64, false},
		{"#ff8040", 255, 128, 64, false},
		{"FF8040", 255, 128, 64, false},
		{"#0070C0", 0, 112, 192, false},
		{"#FFF", 255, 255, 255, false},
		{"#000", 0, 0, 0, false},
		{"invalid", 0, 0, 0, true},
		{"#GGG", 0, 0, 0, true},
	}

	for _, tt := range tests {
		c, err := ColorFromHex(tt.hex)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ColorFromHex(%q) expected error, got nil", tt.hex)
			}
			continue
		}
		if err != nil {
			t.Errorf("ColorFromHex(%q) unexpected error: %v", tt.hex, err)
			continue
		}
		if c.R != tt.r || c.G != tt.g || c.B != tt.b {
			t.Errorf("ColorFromHex(%q) = (%d,%d,%d), want (%d,%d,%d)",
				tt.hex, c.R, c.G, c.B, tt.r, tt.g, tt.b)
		}
	}
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("Default")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !c.IsDefault() {
		t.Error("\"Default\" should parse to the default color")
	}

	c, err = ParseColor(" #C00000 ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !c.Equals(ColorFromRGB(0xC0, 0, 0)) {
		t.Errorf("expected #C00000, got %s", c)
	}
}

func TestStyleEquals(t *testing.T) {
	a := NewStyle(ColorFromRGB(1, 2, 3))
	b := DefaultStyle().WithForeground(ColorFromRGB(1, 2, 3))
	if !a.Equals(b) {
		t.Error("styles with the same foreground should be equal")
	}
	if a.Equals(a.WithAttributes(AttrBold)) {
		t.Error("attributes should participate in equality")
	}
	if a.Equals(DefaultStyle()) {
		t.Error("default style should differ from colored style")
	}
}

func TestStyleSpanEnd(t *testing.T) {
	s := StyleSpan{Start: 3, Length: 4}
	if s.End() != 7 {
		t.Errorf("expected end 7, got %d", s.End())
	}
}
