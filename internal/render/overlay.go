package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"sort"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/dxf-analysis-mcp/internal/contour"
	"github.com/ironsheep/dxf-analysis-mcp/internal/raster"
)

// View selects what an Overlay call draws.
type View string

const (
	// ViewClassified draws every contour, colored by nesting depth,
	// with centroid marks.
	ViewClassified View = "classified"

	// ViewOuter draws only the root contours.
	ViewOuter View = "outer"

	// ViewHoles draws only the depth-1 contours.
	ViewHoles View = "holes"

	// ViewSubHoles draws only the contours nested below the holes.
	ViewSubHoles View = "sub_holes"

	// ViewFilled paints the root contours as solid black silhouettes.
	ViewFilled View = "filled"

	// ViewMask returns the binary image the winning threshold produced.
	ViewMask View = "mask"
)

// Fixed pens for the single-class views.
var (
	outerPen   = color.RGBA{220, 30, 30, 255}
	holePen    = color.RGBA{30, 160, 30, 255}
	subHolePen = color.RGBA{30, 80, 220, 255}
	inkPen     = color.RGBA{0, 0, 0, 255}
	paper      = color.RGBA{255, 255, 255, 255}
)

// depthPen colors a contour by its nesting depth. Consecutive depths
// land on well-separated hues so adjacent levels stay distinguishable.
func depthPen(depth int) color.RGBA {
	switch depth {
	case 0:
		return outerPen
	case 1:
		return holePen
	}
	r, g, b := colorful.Hsv(math.Mod(float64(depth)*137, 360), 0.85, 0.8).RGB255()
	return color.RGBA{r, g, b, 255}
}

// Overlay draws one view of a classification result on white paper at
// the size of the analyzed image. Labels, when requested, print each
// contour's area next to its centroid.
func Overlay(res *contour.Result, view View, labels bool) (*EncodedImage, error) {
	if view == ViewMask {
		return Encode(res.Mask)
	}

	b := res.Mask.Bounds()
	img := image.NewRGBA(b)
	draw.Draw(img, b, image.NewUniform(paper), image.Point{}, draw.Src)

	f := res.Forest
	var selected []int
	switch view {
	case ViewClassified:
		for i := range f.Nodes {
			selected = append(selected, i)
		}
	case ViewOuter, ViewFilled:
		selected = f.Outer()
	case ViewHoles:
		selected = f.Holes()
	case ViewSubHoles:
		selected = f.SubHoles()
	default:
		return nil, fmt.Errorf("unknown overlay view: %s", view)
	}

	for _, i := range selected {
		node := &f.Nodes[i]
		if view == ViewFilled {
			fillPolygon(img, node.Points, inkPen)
			continue
		}

		pen := depthPen(node.Depth)
		switch view {
		case ViewOuter:
			pen = outerPen
		case ViewHoles:
			pen = holePen
		case ViewSubHoles:
			pen = subHolePen
		}
		strokeBoundary(img, node.Points, pen)
		markCentroid(img, node.Centroid, pen)
		if labels {
			labelArea(img, node)
		}
	}

	return Encode(img)
}

// strokeBoundary stamps each boundary pixel with a 3x3 brush so thin
// contours survive downscaling in a client.
func strokeBoundary(img *image.RGBA, pts []image.Point, pen color.RGBA) {
	for _, p := range pts {
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				setPixel(img, p.X+dx, p.Y+dy, pen)
			}
		}
	}
}

func markCentroid(img *image.RGBA, c contour.PointF, pen color.RGBA) {
	cx, cy := int(math.Round(c.X)), int(math.Round(c.Y))
	for dy := -2; dy <= 2; dy++ {
		for dx := -2; dx <= 2; dx++ {
			if dx*dx+dy*dy <= 4 {
				setPixel(img, cx+dx, cy+dy, pen)
			}
		}
	}
}

func labelArea(img *image.RGBA, node *contour.Contour) {
	text := fmt.Sprintf("A:%.0f", node.Area)
	x := int(math.Round(node.Centroid.X)) + 5
	y := int(math.Round(node.Centroid.Y)) - 5
	raster.DrawText(img, x, y, text, inkPen)
}

func setPixel(img *image.RGBA, x, y int, pen color.RGBA) {
	b := img.Bounds()
	if x >= b.Min.X && x < b.Max.X && y >= b.Min.Y && y < b.Max.Y {
		img.SetRGBA(x, y, pen)
	}
}

// fillPolygon scan-fills a closed pixel boundary with the even-odd
// rule, evaluated at pixel centers.
func fillPolygon(img *image.RGBA, pts []image.Point, pen color.RGBA) {
	n := len(pts)
	if n < 3 {
		strokeBoundary(img, pts, pen)
		return
	}

	minY, maxY := pts[0].Y, pts[0].Y
	for _, p := range pts {
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	b := img.Bounds()
	if minY < b.Min.Y {
		minY = b.Min.Y
	}
	if maxY > b.Max.Y-1 {
		maxY = b.Max.Y - 1
	}

	var xs []float64
	for y := minY; y <= maxY; y++ {
		yc := float64(y) + 0.5
		xs = xs[:0]
		for i := 0; i < n; i++ {
			a, c := pts[i], pts[(i+1)%n]
			y1, y2 := float64(a.Y), float64(c.Y)
			if (y1 <= yc) == (y2 <= yc) {
				continue
			}
			t := (yc - y1) / (y2 - y1)
			xs = append(xs, float64(a.X)+t*float64(c.X-a.X))
		}
		sort.Float64s(xs)
		for k := 0; k+1 < len(xs); k += 2 {
			x0 := int(math.Ceil(xs[k] - 0.5))
			x1 := int(math.Floor(xs[k+1] - 0.5))
			for x := x0; x <= x1; x++ {
				setPixel(img, x, y, pen)
			}
		}
	}

	// The traced boundary itself is part of the shape; the center-rule
	// fill stops half a pixel short of it.
	strokeBoundary(img, pts, pen)
}
