package raster

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"sort"

	"github.com/ironsheep/dxf-analysis-mcp/internal/dxf"
)

// Canvas is an RGBA drawing surface bound to a CAD-to-pixel transform.
// All drawing methods take CAD coordinates.
type Canvas struct {
	img *image.RGBA
	tr  Transform
}

// NewCanvas creates a width x height canvas filled with the background
// color, mapped through tr.
func NewCanvas(width, height int, background color.RGBA, tr Transform) *Canvas {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)
	return &Canvas{img: img, tr: tr}
}

// RGBA returns the underlying image.
func (c *Canvas) RGBA() *image.RGBA { return c.img }

// Transform returns the CAD-to-pixel mapping the canvas draws through.
func (c *Canvas) Transform() Transform { return c.tr }

// StrokePath draws the polyline through the given CAD points. Closed
// paths get an extra segment from the last point back to the first.
func (c *Canvas) StrokePath(pts []dxf.Point, closed bool, col color.RGBA, thickness int) {
	if len(pts) < 2 {
		return
	}
	for i := 1; i < len(pts); i++ {
		c.strokeSegment(pts[i-1], pts[i], col, thickness)
	}
	if closed {
		c.strokeSegment(pts[len(pts)-1], pts[0], col, thickness)
	}
}

func (c *Canvas) strokeSegment(a, b dxf.Point, col color.RGBA, thickness int) {
	ax, ay := c.tr.Apply(a)
	bx, by := c.tr.Apply(b)
	c.line(int(math.Round(ax)), int(math.Round(ay)), int(math.Round(bx)), int(math.Round(by)), col, thickness)
}

// line draws a pixel line with a square brush of the given thickness.
func (c *Canvas) line(x0, y0, x1, y1 int, col color.RGBA, thickness int) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	r := thickness / 2
	for {
		c.brush(x0, y0, r, col)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func (c *Canvas) brush(x, y, r int, col color.RGBA) {
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			c.setPixel(x+dx, y+dy, col)
		}
	}
}

func (c *Canvas) setPixel(x, y int, col color.RGBA) {
	b := c.img.Bounds()
	if x >= b.Min.X && x < b.Max.X && y >= b.Min.Y && y < b.Max.Y {
		c.img.SetRGBA(x, y, col)
	}
}

// pointMarkSize is the half-extent, in pixels, of the cross drawn for a
// POINT entity.
const pointMarkSize = 3

// Cross marks a CAD location with a small axis-aligned cross.
func (c *Canvas) Cross(at dxf.Point, size int, col color.RGBA) {
	x, y := c.tr.Apply(at)
	px, py := int(math.Round(x)), int(math.Round(y))
	for d := -size; d <= size; d++ {
		c.setPixel(px+d, py, col)
		c.setPixel(px, py+d, col)
	}
}

// FillPath scan-fills one polygon through the given CAD points using
// the even-odd rule.
func (c *Canvas) FillPath(pts []dxf.Point, col color.RGBA) {
	c.FillPaths([][]dxf.Point{pts}, col)
}

// FillPaths scan-fills several rings together with the even-odd rule,
// so a ring inside another ring reads as a hole. Intersections are
// evaluated at pixel centers so the result is independent of point
// order.
func (c *Canvas) FillPaths(rings [][]dxf.Point, col color.RGBA) {
	type edge struct {
		x1, y1, x2, y2 float64
	}
	var edges []edge
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, pts := range rings {
		if len(pts) < 3 {
			continue
		}
		px := make([]float64, len(pts))
		py := make([]float64, len(pts))
		for i, p := range pts {
			px[i], py[i] = c.tr.Apply(p)
			minY = math.Min(minY, py[i])
			maxY = math.Max(maxY, py[i])
		}
		for i := range px {
			j := (i + 1) % len(px)
			edges = append(edges, edge{px[i], py[i], px[j], py[j]})
		}
	}
	if len(edges) == 0 {
		return
	}

	b := c.img.Bounds()
	yStart := int(math.Floor(minY))
	if yStart < b.Min.Y {
		yStart = b.Min.Y
	}
	yEnd := int(math.Ceil(maxY))
	if yEnd > b.Max.Y-1 {
		yEnd = b.Max.Y - 1
	}

	var xs []float64
	for y := yStart; y <= yEnd; y++ {
		yc := float64(y) + 0.5
		xs = xs[:0]
		for _, e := range edges {
			if (e.y1 <= yc) == (e.y2 <= yc) {
				continue
			}
			t := (yc - e.y1) / (e.y2 - e.y1)
			xs = append(xs, e.x1+t*(e.x2-e.x1))
		}
		sort.Float64s(xs)
		for k := 0; k+1 < len(xs); k += 2 {
			x0 := int(math.Ceil(xs[k] - 0.5))
			x1 := int(math.Floor(xs[k+1] - 0.5))
			for x := x0; x <= x1; x++ {
				c.setPixel(x, y, col)
			}
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
