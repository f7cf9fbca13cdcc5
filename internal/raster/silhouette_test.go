package raster

import (
	"image"
	"image/color"
	"testing"

	"github.com/ironsheep/dxf-analysis-mcp/internal/dxf"
)

var (
	ink    = color.RGBA{0, 0, 0, 255}
	whiteB = color.RGBA{255, 255, 255, 255}
)

func silhouetteOpts() Options {
	return Options{
		Width:      200,
		Height:     200,
		Silhouette: true,
		Background: whiteB,
		Pen:        ink,
	}
}

func TestRasterize_SilhouetteFillsCircle(t *testing.T) {
	img, err := Rasterize(circleDoc(10), silhouetteOpts())
	if err != nil {
		t.Fatalf("Rasterize failed: %v", err)
	}

	// The disk interior is solid ink, unlike the stroked view.
	if got := img.RGBA.RGBAAt(100, 100); got != ink {
		t.Errorf("disk center: got %v, want ink", got)
	}
	// Outside the disk stays paper.
	if got := img.RGBA.RGBAAt(45, 45); got != whiteB {
		t.Errorf("corner: got %v, want paper", got)
	}
}

func TestRasterize_SilhouettePunchesHole(t *testing.T) {
	doc := &dxf.Document{Entities: []dxf.Entity{
		&dxf.Circle{Center: dxf.Point{}, Radius: 10},
		&dxf.Circle{Center: dxf.Point{}, Radius: 5},
	}}

	img, err := Rasterize(doc, silhouetteOpts())
	if err != nil {
		t.Fatalf("Rasterize failed: %v", err)
	}

	// Center sits inside both circles: even-odd makes it a hole.
	if got := img.RGBA.RGBAAt(100, 100); got != whiteB {
		t.Errorf("hole center: got %v, want paper", got)
	}
	// Between the circles is ink. Scale is 6 px/unit, so CAD (7.5, 0)
	// lands at pixel (145, 100).
	if got := img.RGBA.RGBAAt(145, 100); got != ink {
		t.Errorf("annulus: got %v, want ink", got)
	}
}

func TestRasterize_SilhouetteSkipsAnnotations(t *testing.T) {
	doc := &dxf.Document{Entities: []dxf.Entity{
		&dxf.Circle{Center: dxf.Point{}, Radius: 10},
		&dxf.Text{Insert: dxf.Point{X: -8, Y: 12}, Value: "PART-7", Height: 2},
	}}

	img, err := Rasterize(doc, silhouetteOpts())
	if err != nil {
		t.Fatalf("Rasterize failed: %v", err)
	}

	// The text insert point widens the extents, but no glyph pixels are
	// drawn above the disk.
	for y := 0; y < 40; y++ {
		for x := 0; x < img.Width; x++ {
			if img.RGBA.RGBAAt(x, y) == ink {
				t.Fatalf("annotation ink at (%d,%d) in silhouette", x, y)
			}
		}
	}
}

func TestRasterize_TextDrawn(t *testing.T) {
	doc := &dxf.Document{Entities: []dxf.Entity{
		&dxf.Line{Start: dxf.Point{X: 0, Y: 0}, End: dxf.Point{X: 10, Y: 10}},
		&dxf.Text{Insert: dxf.Point{X: 5, Y: 5}, Value: "A1", Height: 2},
	}}

	img, err := Rasterize(doc, Options{Width: 200, Height: 200})
	if err != nil {
		t.Fatalf("Rasterize failed: %v", err)
	}

	// TEXT uses the yellow kind pen; some glyph pixels must land near
	// the insert point.
	yellow := color.RGBA{255, 255, 0, 255}
	found := false
	for y := 0; y < img.Height && !found; y++ {
		for x := 0; x < img.Width; x++ {
			if img.RGBA.RGBAAt(x, y) == yellow {
				found = true
				break
			}
		}
	}
	if !found {
		t.Error("no text pixels drawn")
	}
}

func TestDrawText_Multiline(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 100, 60))
	DrawText(img, 5, 15, "AB\nCD", color.RGBA{255, 0, 0, 255})

	countRed := func(y0, y1 int) int {
		n := 0
		for y := y0; y < y1; y++ {
			for x := 0; x < 100; x++ {
				if img.RGBAAt(x, y).R == 255 && img.RGBAAt(x, y).G == 0 {
					n++
				}
			}
		}
		return n
	}

	if countRed(0, 20) == 0 {
		t.Error("first line not drawn")
	}
	if countRed(20, 40) == 0 {
		t.Error("second line not drawn")
	}
}

func TestTextWidth(t *testing.T) {
	if TextWidth("") != 0 {
		t.Errorf("empty width: got %d", TextWidth(""))
	}
	// Face7x13 advances 7 pixels per glyph.
	if got := TextWidth("1234"); got != 28 {
		t.Errorf("width of 4 glyphs: got %d, want 28", got)
	}
}

func TestCanvas_Cross(t *testing.T) {
	doc := &dxf.Document{Entities: []dxf.Entity{
		&dxf.Line{Start: dxf.Point{X: -10, Y: -10}, End: dxf.Point{X: 10, Y: 10}},
		&dxf.PointEntity{Location: dxf.Point{X: 0, Y: 5}},
	}}

	img, err := Rasterize(doc, Options{Width: 200, Height: 200})
	if err != nil {
		t.Fatalf("Rasterize failed: %v", err)
	}

	// POINT has no kind color of its own: the default pen applies.
	// CAD (0,5) maps to pixel (100, 70) at scale 6.
	if got := img.RGBA.RGBAAt(100, 70); got != defaultPen {
		t.Errorf("cross center: got %v, want default pen", got)
	}
	if got := img.RGBA.RGBAAt(103, 70); got != defaultPen {
		t.Errorf("cross arm: got %v, want default pen", got)
	}
}
