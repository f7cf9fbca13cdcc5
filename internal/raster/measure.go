package raster

import (
	"math"

	"github.com/ironsheep/dxf-analysis-mcp/internal/dxf"
)

// DistanceResult reports a measurement between two pixels of a render,
// converted back to drawing units through the render's transform.
type DistanceResult struct {
	DistancePixels float64 `json:"distance_pixels"`
	DistanceUnits  float64 `json:"distance_units"`

	// DeltaX and DeltaY are the separations in drawing units.
	DeltaX float64 `json:"delta_x"`
	DeltaY float64 `json:"delta_y"`

	// AngleDegrees is measured in CAD space: 0 points along +X,
	// positive angles turn counterclockwise.
	AngleDegrees float64 `json:"angle_degrees"`

	// From and To are the endpoints in drawing coordinates.
	From dxf.Point `json:"from"`
	To   dxf.Point `json:"to"`
}

// MeasureDistance measures between two pixel positions on the render.
func (im *Image) MeasureDistance(x1, y1, x2, y2 int) *DistanceResult {
	from := im.Transform.Invert(float64(x1), float64(y1))
	to := im.Transform.Invert(float64(x2), float64(y2))

	dx := to.X - from.X
	dy := to.Y - from.Y
	pixels := math.Hypot(float64(x2-x1), float64(y2-y1))
	units := math.Hypot(dx, dy)
	angle := math.Atan2(dy, dx) * 180 / math.Pi

	return &DistanceResult{
		DistancePixels: math.Round(pixels*100) / 100,
		DistanceUnits:  math.Round(units*100) / 100,
		DeltaX:         math.Round(dx*100) / 100,
		DeltaY:         math.Round(dy*100) / 100,
		AngleDegrees:   math.Round(angle*10) / 10,
		From:           from,
		To:             to,
	}
}
