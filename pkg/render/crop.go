// Package render provides the bitmap collaborators for the editor core:
// crop extraction in source-pixel space and marker-overlay compositing
// for previews.
package render

import (
	"bytes"
	"image"
	_ "image/jpeg" // register decoders for artifact ingestion
	"image/png"

	xdraw "golang.org/x/image/draw"

	"github.com/mlehnert/stickerforge/pkg/errors"
)

// DisplayToSource maps a crop rectangle from display space to source-image
// pixel space. scale is the ratio sourceWidth/displayWidth (the device
// pixel ratio when the image is shown 1:1 in CSS pixels).
func DisplayToSource(x, y, w, h, scale float64) image.Rectangle {
	return image.Rect(
		int(x*scale+0.5),
		int(y*scale+0.5),
		int((x+w)*scale+0.5),
		int((y+h)*scale+0.5),
	)
}

// Crop decodes the artifact, extracts the given rectangle in source-image
// pixel space, and returns the result encoded as PNG.
//
// A degenerate rectangle (zero or negative extent) or one that falls
// entirely outside the image is rejected with ErrCodeInvalidRegion before
// any pixel work.
func Crop(artifact []byte, r image.Rectangle) ([]byte, error) {
	if r.Dx() <= 0 || r.Dy() <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidRegion, "crop region is empty")
	}

	src, _, err := image.Decode(bytes.NewReader(artifact))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDecode, err, "cannot decode image")
	}

	r = r.Intersect(src.Bounds())
	if r.Dx() <= 0 || r.Dy() <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidRegion, "crop region is outside the image")
	}

	dst := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	xdraw.Draw(dst, dst.Bounds(), src, r.Min, xdraw.Src)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode cropped image")
	}
	return buf.Bytes(), nil
}

// Scale resamples the artifact to the given pixel dimensions using
// Catmull-Rom interpolation and returns it encoded as PNG. Used for
// device-pixel-ratio adjustments on export.
func Scale(artifact []byte, width, height int) ([]byte, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidRegion, "target dimensions must be positive")
	}

	src, _, err := image.Decode(bytes.NewReader(artifact))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDecode, err, "cannot decode image")
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Over, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode scaled image")
	}
	return buf.Bytes(), nil
}
