package raster

import (
	"fmt"
	"image"
	"image/color"

	"github.com/ironsheep/dxf-analysis-mcp/internal/dxf"
)

// ColorMode selects how entities are assigned pen colors.
type ColorMode string

const (
	// ColorByKind gives every entity kind its own pen color.
	ColorByKind ColorMode = "kind"

	// ColorByLayer resolves each entity's ACI color, following BYLAYER
	// references through the layer table.
	ColorByLayer ColorMode = "layer"

	// Monochrome draws every entity with the same pen.
	Monochrome ColorMode = "mono"
)

// Options controls rendering. The zero value selects an 800x600 canvas
// with a 40 pixel margin, a 1 pixel pen, kind coloring, a black
// background and filled SOLID/HATCH entities.
type Options struct {
	Width  int
	Height int

	// Margin is the space kept free on every side when fitting the
	// drawing to the canvas.
	Margin int

	// Thickness is the stroke width in pixels.
	Thickness int

	Mode ColorMode

	// Background overrides the canvas color when non-zero.
	Background color.RGBA

	// Pen is the stroke color in Monochrome mode.
	Pen color.RGBA

	// OutlineOnly strokes SOLID and HATCH boundaries instead of filling
	// them.
	OutlineOnly bool

	// Silhouette renders the part for contour analysis: every closed
	// path is collected into one even-odd fill, so a circle becomes a
	// solid disk and a circle inside it punches a hole. Open paths are
	// stroked as usual; annotations and point marks, which are not part
	// of the part geometry, are left out. Implies Monochrome.
	Silhouette bool
}

func (o *Options) normalize() {
	if o.Width <= 0 {
		o.Width = 800
	}
	if o.Height <= 0 {
		o.Height = 600
	}
	if o.Margin == 0 {
		o.Margin = 40
	}
	if o.Margin < 0 || 2*o.Margin >= o.Width || 2*o.Margin >= o.Height {
		o.Margin = 0
	}
	if o.Thickness <= 0 {
		o.Thickness = 1
	}
	if o.Silhouette {
		o.Mode = Monochrome
	}
	if o.Mode == "" {
		o.Mode = ColorByKind
	}
	if o.Background == (color.RGBA{}) {
		o.Background = Background
	}
	if o.Pen == (color.RGBA{}) {
		o.Pen = color.RGBA{255, 255, 255, 255}
	}
}

// Image is a rendered document together with the mapping that produced
// it.
type Image struct {
	RGBA *image.RGBA

	// Transform converts between CAD and pixel coordinates for this
	// render.
	Transform Transform

	Width  int
	Height int

	// Extents are the CAD-space drawing extents the render was fitted
	// to.
	Extents dxf.Extents

	// EntityCount is the number of entities that were drawn.
	EntityCount int
}

// Rasterize renders the document. It returns *GeometryError when the
// document has no entities or its extents have no area.
func Rasterize(doc *dxf.Document, opts Options) (*Image, error) {
	opts.normalize()

	if len(doc.Entities) == 0 {
		return nil, &GeometryError{Reason: "document has no entities"}
	}
	ext := doc.Bounds()
	if ext.Degenerate() {
		return nil, &GeometryError{
			Reason:      fmt.Sprintf("degenerate extents (%g x %g drawing units)", ext.Width(), ext.Height()),
			EntityCount: len(doc.Entities),
		}
	}

	tr := FitTransform(ext, opts.Width, opts.Height, opts.Margin)
	canvas := NewCanvas(opts.Width, opts.Height, opts.Background, tr)

	if opts.Silhouette {
		drawSilhouette(canvas, doc, opts)
		return &Image{
			RGBA:        canvas.RGBA(),
			Transform:   tr,
			Width:       opts.Width,
			Height:      opts.Height,
			Extents:     ext,
			EntityCount: len(doc.Entities),
		}, nil
	}

	for _, e := range doc.Entities {
		pen := opts.penFor(e, doc)
		switch ent := e.(type) {
		case *dxf.Text:
			// Annotations are drawn with a bitmap face so OCR checks have
			// pixels to read; their size does not track the zoom.
			canvas.Label(ent.Insert, ent.PlainText(), pen)
		case *dxf.PointEntity:
			canvas.Cross(ent.Location, pointMarkSize, pen)
		default:
			for _, path := range Flatten(e) {
				if path.Filled && !opts.OutlineOnly {
					canvas.FillPath(path.Points, pen)
				}
				canvas.StrokePath(path.Points, path.Closed, pen, opts.Thickness)
			}
		}
	}

	return &Image{
		RGBA:        canvas.RGBA(),
		Transform:   tr,
		Width:       opts.Width,
		Height:      opts.Height,
		Extents:     ext,
		EntityCount: len(doc.Entities),
	}, nil
}

// drawSilhouette fills all closed paths of the document together with
// the even-odd rule and strokes the open ones. Nested closed shapes
// read as holes, which is what the contour classifier expects.
func drawSilhouette(canvas *Canvas, doc *dxf.Document, opts Options) {
	var rings [][]dxf.Point
	for _, e := range doc.Entities {
		for _, path := range Flatten(e) {
			if path.Closed || path.Filled {
				rings = append(rings, path.Points)
			} else {
				canvas.StrokePath(path.Points, false, opts.Pen, opts.Thickness)
			}
		}
	}
	canvas.FillPaths(rings, opts.Pen)

	// Fills stop at pixel centers; stroking the rims keeps thin features
	// from dropping out entirely.
	for _, ring := range rings {
		canvas.StrokePath(ring, true, opts.Pen, opts.Thickness)
	}
}

func (o *Options) penFor(e dxf.Entity, doc *dxf.Document) color.RGBA {
	switch o.Mode {
	case ColorByLayer:
		idx := e.ColorIndex()
		switch idx {
		case 256: // BYLAYER
			return ACIColor(doc.LayerColor(e.Layer()))
		case 0: // BYBLOCK, no block context here
			return ACIColor(7)
		default:
			return ACIColor(idx)
		}
	case Monochrome:
		return o.Pen
	default:
		return KindColor(e.Kind())
	}
}
