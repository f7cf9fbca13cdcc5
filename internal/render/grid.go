package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"strconv"

	"github.com/ironsheep/dxf-analysis-mcp/internal/dxf"
	"github.com/ironsheep/dxf-analysis-mcp/internal/raster"
)

// GridResult is a render with a drawing-unit reference grid on top.
type GridResult struct {
	EncodedImage

	// SpacingUnits is the grid step in drawing units.
	SpacingUnits float64 `json:"spacing_units"`

	// SpacingPixels is the same step measured on the canvas.
	SpacingPixels float64 `json:"spacing_pixels"`
}

// Grid overlays grid lines at drawing-unit intervals, anchored to the
// CAD origin rather than the pixel origin so lines land on round
// coordinates. Spacing 0 picks a step that gives the drawing roughly
// ten divisions. Coordinate labels print along the left and bottom
// edges in drawing units.
func Grid(rimg *raster.Image, spacing float64, showCoords bool, gridColorHex string) (*GridResult, error) {
	pen, err := raster.ParseHexColor(gridColorHex)
	if err != nil {
		pen = color.RGBA{255, 0, 0, 128}
	}

	if spacing <= 0 {
		spacing = niceStep(rimg.Extents.Width() / 10)
	}

	b := rimg.RGBA.Bounds()
	img := image.NewRGBA(b)
	draw.Draw(img, b, rimg.RGBA, b.Min, draw.Src)

	tr := rimg.Transform
	ext := rimg.Extents

	// Vertical lines at CAD x = k*spacing.
	for x := math.Floor(ext.MinX/spacing) * spacing; x <= ext.MaxX+spacing/2; x += spacing {
		px, _ := tr.Apply(dxf.Point{X: x, Y: ext.MinY})
		col := int(math.Round(px))
		if col < 0 || col >= rimg.Width {
			continue
		}
		for y := 0; y < rimg.Height; y++ {
			blend(img, col, y, pen)
		}
		if showCoords {
			raster.DrawText(img, col+2, rimg.Height-4, formatCoord(x), pen)
		}
	}

	// Horizontal lines at CAD y = k*spacing.
	for y := math.Floor(ext.MinY/spacing) * spacing; y <= ext.MaxY+spacing/2; y += spacing {
		_, py := tr.Apply(dxf.Point{X: ext.MinX, Y: y})
		row := int(math.Round(py))
		if row < 0 || row >= rimg.Height {
			continue
		}
		for x := 0; x < rimg.Width; x++ {
			blend(img, x, row, pen)
		}
		if showCoords {
			raster.DrawText(img, 2, row-2, formatCoord(y), pen)
		}
	}

	enc, err := Encode(img)
	if err != nil {
		return nil, err
	}
	return &GridResult{
		EncodedImage:  *enc,
		SpacingUnits:  spacing,
		SpacingPixels: spacing * tr.Scale,
	}, nil
}

// niceStep rounds raw up to the nearest 1, 2 or 5 times a power of ten.
func niceStep(raw float64) float64 {
	if raw <= 0 {
		return 1
	}
	mag := math.Pow(10, math.Floor(math.Log10(raw)))
	switch norm := raw / mag; {
	case norm <= 1:
		return mag
	case norm <= 2:
		return 2 * mag
	case norm <= 5:
		return 5 * mag
	default:
		return 10 * mag
	}
}

func formatCoord(v float64) string {
	// Snap values like 9.999999999 that come from stepping in floats.
	r := math.Round(v*1e6) / 1e6
	return strconv.FormatFloat(r, 'g', -1, 64)
}

// blend paints a grid pixel, respecting the pen's alpha so the drawing
// stays visible underneath.
func blend(img *image.RGBA, x, y int, pen color.RGBA) {
	b := img.Bounds()
	if x < b.Min.X || x >= b.Max.X || y < b.Min.Y || y >= b.Max.Y {
		return
	}
	if pen.A == 255 {
		img.SetRGBA(x, y, pen)
		return
	}
	old := img.RGBAAt(x, y)
	a := uint32(pen.A)
	inv := 255 - a
	img.SetRGBA(x, y, color.RGBA{
		R: uint8((uint32(pen.R)*a + uint32(old.R)*inv) / 255),
		G: uint8((uint32(pen.G)*a + uint32(old.G)*inv) / 255),
		B: uint8((uint32(pen.B)*a + uint32(old.B)*inv) / 255),
		A: 255,
	})
}
