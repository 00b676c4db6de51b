package sticker

import (
	"testing"

	"github.com/mlehnert/stickerforge/pkg/geo"
)

func TestNew(t *testing.T) {
	m := New("🔥", geo.Pos{X: 25, Y: 75})

	if m.ID == "" {
		t.Error("New() produced empty ID")
	}
	if m.Tag != "🔥" {
		t.Errorf("Tag = %q, want 🔥", m.Tag)
	}
	if m.Size != DefaultSize {
		t.Errorf("Size = %v, want %v", m.Size, float64(DefaultSize))
	}
	if m.Rotation != 0 {
		t.Errorf("Rotation = %v, want 0", m.Rotation)
	}
	if m.Impact != DefaultImpact {
		t.Errorf("Impact = %v, want %v", m.Impact, DefaultImpact)
	}
}

func TestNewIDUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := NewID()
		if seen[id] {
			t.Fatalf("NewID() produced duplicate %q", id)
		}
		seen[id] = true
	}
}

func TestClampSize(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"below minimum", 4, MinSize},
		{"at minimum", MinSize, MinSize},
		{"inside", 48, 48},
		{"at maximum", MaxSize, MaxSize},
		{"above maximum", 548, MaxSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClampSize(tt.in); got != tt.want {
				t.Errorf("ClampSize(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestCategorize(t *testing.T) {
	tests := []struct {
		size float64
		want SizeCategory
	}{
		{16, SizeTiny},
		{31.9, SizeTiny},
		{32, SizeSmall},
		{63.9, SizeSmall},
		{64, SizeMedium},
		{127.9, SizeMedium},
		{128, SizeLarge},
		{179.9, SizeLarge},
		{180, SizeHuge},
		{200, SizeHuge},
	}
	for _, tt := range tests {
		if got := Categorize(tt.size); got != tt.want {
			t.Errorf("Categorize(%v) = %v, want %v", tt.size, got, tt.want)
		}
	}
}

func TestImpactNext(t *testing.T) {
	if got := ImpactSubtle.Next(); got != ImpactArtistic {
		t.Errorf("subtle.Next() = %v, want artistic", got)
	}
	if got := ImpactArtistic.Next(); got != ImpactTotal {
		t.Errorf("artistic.Next() = %v, want total", got)
	}
	if got := ImpactTotal.Next(); got != ImpactSubtle {
		t.Errorf("total.Next() = %v, want subtle", got)
	}
}

func TestImpactValid(t *testing.T) {
	for _, level := range []Impact{ImpactSubtle, ImpactArtistic, ImpactTotal} {
		if !level.Valid() {
			t.Errorf("%v.Valid() = false", level)
		}
	}
	if Impact("extreme").Valid() {
		t.Error(`Impact("extreme").Valid() = true`)
	}
}
