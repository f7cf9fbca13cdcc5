package raster

import (
	"math"

	"github.com/ironsheep/dxf-analysis-mcp/internal/dxf"
)

// Transform maps CAD coordinates to pixel coordinates. The mapping is a
// uniform scale plus a translation, with the Y axis flipped so that CAD
// +Y points up on screen.
//
// Pixel coordinates are computed as:
//
//	px = x*Scale + OffsetX
//	py = Height - (y*Scale + OffsetY)
type Transform struct {
	Scale   float64 `json:"scale"`
	OffsetX float64 `json:"offset_x"`
	OffsetY float64 `json:"offset_y"`

	// Height is the canvas height in pixels, needed for the Y flip.
	Height int `json:"height"`
}

// FitTransform computes the transform that fits the given extents into a
// width x height canvas, keeping margin pixels free on every side and
// centering the drawing. The extents must not be degenerate.
func FitTransform(ext dxf.Extents, width, height, margin int) Transform {
	w := float64(width)
	h := float64(height)
	m := float64(margin)

	scale := math.Min((w-2*m)/ext.Width(), (h-2*m)/ext.Height())
	return Transform{
		Scale:   scale,
		OffsetX: (w-ext.Width()*scale)/2 - ext.MinX*scale,
		OffsetY: (h-ext.Height()*scale)/2 - ext.MinY*scale,
		Height:  height,
	}
}

// Apply converts a CAD point to pixel coordinates.
func (t Transform) Apply(p dxf.Point) (float64, float64) {
	return p.X*t.Scale + t.OffsetX, float64(t.Height) - (p.Y*t.Scale + t.OffsetY)
}

// Invert converts pixel coordinates back to a CAD point.
func (t Transform) Invert(px, py float64) dxf.Point {
	return dxf.Point{
		X: (px - t.OffsetX) / t.Scale,
		Y: (float64(t.Height) - py - t.OffsetY) / t.Scale,
	}
}

// Distance converts a length in pixels to drawing units.
func (t Transform) Distance(pixels float64) float64 {
	return pixels / t.Scale
}
