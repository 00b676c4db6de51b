package render

import (
	"bytes"
	"image"

	"github.com/fogleman/gg"

	"github.com/mlehnert/stickerforge/pkg/errors"
	"github.com/mlehnert/stickerforge/pkg/geo"
	"github.com/mlehnert/stickerforge/pkg/relate"
	"github.com/mlehnert/stickerforge/pkg/sticker"
)

// Compose draws the marker set over the artifact for preview export:
// each marker as a rotated circle with its tag label, fusion members
// highlighted, chain members joined by dashed lines in member order.
// Returns the preview encoded as PNG.
func Compose(artifact []byte, markers []sticker.Marker, rel relate.Result) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(artifact))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDecode, err, "cannot decode image")
	}

	bounds := src.Bounds()
	c := geo.Container{Width: float64(bounds.Dx()), Height: float64(bounds.Dy())}
	dc := gg.NewContextForImage(src)

	byID := make(map[string]sticker.Marker, len(markers))
	for _, m := range markers {
		byID[m.ID] = m
	}

	// Chain paths go underneath the markers.
	for _, chain := range rel.Chains {
		dc.SetRGBA(0.27, 0.51, 0.71, 0.9)
		dc.SetLineWidth(2)
		dc.SetDash(6, 4)
		for i := 1; i < len(chain); i++ {
			a, okA := byID[chain[i-1]]
			b, okB := byID[chain[i]]
			if !okA || !okB {
				continue
			}
			ax, ay := c.Pixels(a.Pos)
			bx, by := c.Pixels(b.Pos)
			dc.DrawLine(ax, ay, bx, by)
			dc.Stroke()
		}
		dc.SetDash()
	}

	fused := make(map[string]bool)
	for _, f := range rel.Fusions {
		for _, id := range f {
			fused[id] = true
		}
	}

	for _, m := range markers {
		x, y := c.Pixels(m.Pos)

		dc.Push()
		dc.RotateAbout(gg.Radians(m.Rotation), x, y)

		if fused[m.ID] {
			dc.SetRGBA(0.86, 0.08, 0.24, 0.35)
		} else {
			dc.SetRGBA(1, 1, 1, 0.35)
		}
		dc.DrawCircle(x, y, m.Size/2)
		dc.Fill()

		dc.SetRGBA(0, 0, 0, 0.8)
		dc.SetLineWidth(1.5)
		dc.DrawCircle(x, y, m.Size/2)
		dc.Stroke()

		dc.DrawStringAnchored(m.Tag, x, y, 0.5, 0.5)
		dc.Pop()
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode preview")
	}
	return buf.Bytes(), nil
}
