package render

import (
	"testing"

	"github.com/mlehnert/stickerforge/pkg/errors"
	"github.com/mlehnert/stickerforge/pkg/geo"
	"github.com/mlehnert/stickerforge/pkg/relate"
	"github.com/mlehnert/stickerforge/pkg/sticker"
)

func TestCompose(t *testing.T) {
	artifact := checkerArtifact(t, 80, 60)
	markers := []sticker.Marker{
		{ID: "a", Tag: "🔥", Pos: geo.Pos{X: 25, Y: 25}, Size: 48, Impact: sticker.ImpactSubtle},
		{ID: "b", Tag: "⭐", Pos: geo.Pos{X: 26, Y: 25}, Size: 48, Rotation: 45, Impact: sticker.ImpactSubtle},
		{ID: "c", Tag: "🌊", Pos: geo.Pos{X: 75, Y: 75}, Size: 48, Impact: sticker.ImpactSubtle},
		{ID: "d", Tag: "🌊", Pos: geo.Pos{X: 80, Y: 75}, Size: 48, Impact: sticker.ImpactSubtle},
	}
	rel := relate.Result{
		Fusions: []relate.Component{{"a", "b"}},
		Chains:  []relate.Component{{"c", "d"}},
	}

	out, err := Compose(artifact, markers, rel)
	if err != nil {
		t.Fatalf("Compose() error: %v", err)
	}

	img := decodePNG(t, out)
	if img.Bounds().Dx() != 80 || img.Bounds().Dy() != 60 {
		t.Errorf("composed bounds = %v, want source dimensions", img.Bounds())
	}
}

func TestComposeNoMarkers(t *testing.T) {
	artifact := checkerArtifact(t, 20, 20)

	out, err := Compose(artifact, nil, relate.Result{})
	if err != nil {
		t.Fatalf("Compose() error: %v", err)
	}
	if img := decodePNG(t, out); img.Bounds().Dx() != 20 {
		t.Errorf("composed bounds = %v, want 20x20", img.Bounds())
	}
}

func TestComposeRejectsUndecodableArtifact(t *testing.T) {
	_, err := Compose([]byte("junk"), nil, relate.Result{})
	if !errors.Is(err, errors.ErrCodeDecode) {
		t.Errorf("Compose() error = %v, want %s", err, errors.ErrCodeDecode)
	}
}
