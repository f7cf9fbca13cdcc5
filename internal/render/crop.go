package render

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/dxf-analysis-mcp/internal/dxf"
	"github.com/ironsheep/dxf-analysis-mcp/internal/raster"
)

// CropResult is a cut-out of a render, with the region it came from in
// both coordinate systems.
type CropResult struct {
	EncodedImage

	// X1, Y1, X2, Y2 are the extracted pixel rectangle on the source
	// render.
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`

	// Min and Max are the drawing-unit corners of the same rectangle.
	Min dxf.Point `json:"min"`
	Max dxf.Point `json:"max"`
}

// CropRegion extracts a pixel rectangle from a render. Scale resizes
// the result with Lanczos resampling; 1.0 keeps it as cut.
func CropRegion(rimg *raster.Image, x1, y1, x2, y2 int, scale float64) (*CropResult, error) {
	bounds := rimg.RGBA.Bounds()
	if x1 < bounds.Min.X || y1 < bounds.Min.Y || x2 > bounds.Max.X || y2 > bounds.Max.Y {
		return nil, fmt.Errorf("crop region (%d,%d)-(%d,%d) outside render bounds (%d,%d)-(%d,%d)",
			x1, y1, x2, y2, bounds.Min.X, bounds.Min.Y, bounds.Max.X, bounds.Max.Y)
	}
	if x1 >= x2 || y1 >= y2 {
		return nil, fmt.Errorf("invalid crop region: x1 must be < x2, y1 must be < y2")
	}

	cropped := imaging.Crop(rimg.RGBA, image.Rect(x1, y1, x2, y2))
	if scale != 1.0 && scale > 0 {
		w := int(float64(cropped.Bounds().Dx()) * scale)
		h := int(float64(cropped.Bounds().Dy()) * scale)
		cropped = imaging.Resize(cropped, w, h, imaging.Lanczos)
	}

	enc, err := Encode(cropped)
	if err != nil {
		return nil, err
	}

	// Pixel Y grows downward, so the top-left pixel corner is the
	// drawing's top-left too; normalize to min/max in drawing units.
	a := rimg.Transform.Invert(float64(x1), float64(y2))
	b := rimg.Transform.Invert(float64(x2), float64(y1))
	return &CropResult{
		EncodedImage: *enc,
		X1:           x1,
		Y1:           y1,
		X2:           x2,
		Y2:           y2,
		Min:          a,
		Max:          b,
	}, nil
}

// CropDrawing extracts the region between two drawing-unit corners,
// clamped to the canvas.
func CropDrawing(rimg *raster.Image, min, max dxf.Point, scale float64) (*CropResult, error) {
	if min.X >= max.X || min.Y >= max.Y {
		return nil, fmt.Errorf("invalid drawing region: min (%g,%g) must be below max (%g,%g)",
			min.X, min.Y, max.X, max.Y)
	}

	// The Y flip swaps which corner is on top.
	x1f, y1f := rimg.Transform.Apply(dxf.Point{X: min.X, Y: max.Y})
	x2f, y2f := rimg.Transform.Apply(dxf.Point{X: max.X, Y: min.Y})

	x1, y1 := clamp(int(x1f), 0, rimg.Width), clamp(int(y1f), 0, rimg.Height)
	x2, y2 := clamp(int(x2f)+1, 0, rimg.Width), clamp(int(y2f)+1, 0, rimg.Height)
	if x1 >= x2 || y1 >= y2 {
		return nil, fmt.Errorf("drawing region (%g,%g)-(%g,%g) lies outside the render",
			min.X, min.Y, max.X, max.Y)
	}
	return CropRegion(rimg, x1, y1, x2, y2, scale)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
