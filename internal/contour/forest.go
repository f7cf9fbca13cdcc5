package contour

import (
	"image"
	"math"
)

// Class labels a contour's role in the nesting hierarchy.
type Class string

const (
	// ClassOuter is a root contour: the outer boundary of a shape that
	// sits directly on the background.
	ClassOuter Class = "outer"

	// ClassHole is a void directly inside an outer contour.
	ClassHole Class = "hole"

	// ClassSubHole is anything nested two or more levels deep: islands
	// inside holes and their own voids.
	ClassSubHole Class = "sub_hole"
)

// PointF is a sub-pixel location on the analyzed image.
type PointF struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Contour is one node of the nesting forest. Solid nodes are ink,
// non-solid nodes are enclosed background; the two alternate along any
// root-to-leaf path.
type Contour struct {
	// Points is the traced boundary, clockwise in image coordinates.
	Points []image.Point `json:"-"`

	// Parent indexes the enclosing contour in Forest.Nodes, -1 for
	// roots.
	Parent int `json:"parent"`

	// Children indexes the directly nested contours.
	Children []int `json:"children,omitempty"`

	// Depth is the nesting level, 0 for roots.
	Depth int `json:"depth"`

	Class Class `json:"class"`

	// Solid is true for ink contours (even depth) and false for
	// enclosed background (odd depth).
	Solid bool `json:"solid"`

	// Area is the polygon area of the boundary, in square pixels.
	Area float64 `json:"area"`

	// Perimeter is the closed length of the boundary, in pixels.
	Perimeter float64 `json:"perimeter"`

	// Circularity is 4*pi*Area/Perimeter^2: 1 for a circle, smaller for
	// anything more ragged, 0 when the perimeter is degenerate.
	Circularity float64 `json:"circularity"`

	// Centroid is the polygon centroid, (0,0) when the area is
	// degenerate.
	Centroid PointF `json:"centroid"`

	// X, Y, Width, Height are the bounding box in image coordinates.
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`

	// PixelCount is the number of pixels in the traced set.
	PixelCount int `json:"pixel_count"`
}

// Forest is the complete nesting hierarchy of one analyzed image,
// stored as an arena: nodes reference each other by index, never by
// pointer.
type Forest struct {
	Nodes []Contour `json:"nodes"`

	// Roots indexes the depth-0 contours.
	Roots []int `json:"roots"`
}

// Trace extracts the contour forest from a binary mask (ink = 255).
// Components of ink become solid nodes; background areas fully enclosed
// by ink become their hole children, and so on down the nesting.
func Trace(mask *image.Gray) *Forest {
	g := newGrid(mask)
	comps, regions := g.label()

	// Arena layout: components first, then interior regions, both in
	// scan order. regionNode maps 1-based region ids to node indices.
	f := &Forest{}
	regionNode := make([]int, len(regions)+1)
	next := len(comps)
	for r := range regions {
		if regions[r].border {
			continue
		}
		regionNode[r+1] = next
		next++
	}
	f.Nodes = make([]Contour, next)

	for c := range comps {
		node := &f.Nodes[c]
		fillComponentNode(node, g, &comps[c])

		// Components under the outer background (directly, or because
		// their seed touches the canvas top) are roots.
		pid := comps[c].parent
		if pid == 0 || regions[pid-1].border {
			node.Parent = -1
			f.Roots = append(f.Roots, c)
		} else {
			node.Parent = regionNode[pid]
		}
	}
	for r := range regions {
		if regions[r].border {
			continue
		}
		node := &f.Nodes[regionNode[r+1]]
		fillRegionNode(node, g, int32(r+1), &regions[r])
		node.Parent = int(regions[r].owner) - 1
	}

	for i := range f.Nodes {
		if p := f.Nodes[i].Parent; p >= 0 {
			f.Nodes[p].Children = append(f.Nodes[p].Children, i)
		}
	}
	f.assignDepths()
	return f
}

func fillComponentNode(node *Contour, g *grid, c *component) {
	id := g.comp[c.seed.Y*g.w+c.seed.X]
	node.Points = traceBoundary(func(x, y int) bool {
		return x >= 0 && x < g.w && y >= 0 && y < g.h && g.comp[y*g.w+x] == id
	}, c.seed)
	node.X, node.Y = c.minX, c.minY
	node.Width, node.Height = c.maxX-c.minX+1, c.maxY-c.minY+1
	node.PixelCount = c.count
	node.measure()
}

func fillRegionNode(node *Contour, g *grid, id int32, r *bgRegion) {
	node.Points = traceBoundary(func(x, y int) bool {
		return x >= 0 && x < g.w && y >= 0 && y < g.h && g.region[y*g.w+x] == id
	}, r.seed)
	node.X, node.Y = r.minX, r.minY
	node.Width, node.Height = r.maxX-r.minX+1, r.maxY-r.minY+1
	node.PixelCount = r.count
	node.measure()
}

// measure computes the polygon metrics from the traced boundary.
func (c *Contour) measure() {
	pts := c.Points
	n := len(pts)
	if n == 0 {
		return
	}

	var twiceArea, perimeter float64
	var cx, cy float64
	for i := 0; i < n; i++ {
		a := pts[i]
		b := pts[(i+1)%n]
		cross := float64(a.X)*float64(b.Y) - float64(b.X)*float64(a.Y)
		twiceArea += cross
		cx += (float64(a.X) + float64(b.X)) * cross
		cy += (float64(a.Y) + float64(b.Y)) * cross
		dx := float64(b.X - a.X)
		dy := float64(b.Y - a.Y)
		perimeter += math.Hypot(dx, dy)
	}

	c.Area = math.Abs(twiceArea) / 2
	c.Perimeter = perimeter
	if perimeter > 0 {
		c.Circularity = 4 * math.Pi * c.Area / (perimeter * perimeter)
	}
	if twiceArea != 0 {
		c.Centroid = PointF{
			X: cx / (3 * twiceArea),
			Y: cy / (3 * twiceArea),
		}
	}
}

func (f *Forest) assignDepths() {
	stack := make([]int, len(f.Roots))
	copy(stack, f.Roots)
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		node := &f.Nodes[i]
		if node.Parent >= 0 {
			node.Depth = f.Nodes[node.Parent].Depth + 1
		}
		node.Solid = node.Depth%2 == 0
		node.Class = classify(node.Depth)
		stack = append(stack, node.Children...)
	}
}

func classify(depth int) Class {
	switch {
	case depth == 0:
		return ClassOuter
	case depth == 1:
		return ClassHole
	default:
		return ClassSubHole
	}
}

// Outer returns the indices of the root contours.
func (f *Forest) Outer() []int { return f.Roots }

// Holes returns the indices of the depth-1 contours.
func (f *Forest) Holes() []int {
	var holes []int
	for i := range f.Nodes {
		if f.Nodes[i].Depth == 1 {
			holes = append(holes, i)
		}
	}
	return holes
}

// SubHoles returns the indices of contours nested below the holes.
func (f *Forest) SubHoles() []int {
	var subs []int
	for i := range f.Nodes {
		if f.Nodes[i].Depth >= 2 {
			subs = append(subs, i)
		}
	}
	return subs
}

// MainExterior returns the index of the largest-area root contour, or
// -1 when the forest is empty. Drawings with one part silhouette have
// exactly one root; when stray marks add more, the biggest one is the
// part.
func (f *Forest) MainExterior() int {
	best := -1
	var bestArea float64
	for _, i := range f.Roots {
		if f.Nodes[i].Area > bestArea || best == -1 {
			best = i
			bestArea = f.Nodes[i].Area
		}
	}
	return best
}

// CountByClass tallies the nodes per classification.
func (f *Forest) CountByClass() map[Class]int {
	counts := make(map[Class]int, 3)
	for i := range f.Nodes {
		counts[f.Nodes[i].Class]++
	}
	return counts
}
