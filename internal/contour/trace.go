package contour

import (
	"image"
)

// mooreOffsets are the 8 neighbors in clockwise order starting East,
// with Y growing downward.
var mooreOffsets = [8]image.Point{
	{1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}, {0, -1}, {1, -1},
}

func dirIndex(dx, dy int) int {
	for i, o := range mooreOffsets {
		if o.X == dx && o.Y == dy {
			return i
		}
	}
	return 0
}

// grid holds the component and region labels for one mask.
//
// Foreground components (ink) are labeled with 8-connectivity and
// background regions with 4-connectivity. The mismatch is deliberate:
// it keeps a diagonal line of ink from leaking background through its
// own gaps, the usual pairing for boundary analysis.
type grid struct {
	w, h   int
	mask   []bool
	comp   []int32 // 0 = background, else 1-based component id
	region []int32 // 0 = foreground, else 1-based region id
}

func newGrid(mask *image.Gray) *grid {
	b := mask.Bounds()
	g := &grid{
		w:    b.Dx(),
		h:    b.Dy(),
		mask: make([]bool, b.Dx()*b.Dy()),
	}
	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			g.mask[i] = mask.GrayAt(x, y).Y >= 128
			i++
		}
	}
	g.comp = make([]int32, len(g.mask))
	g.region = make([]int32, len(g.mask))
	return g
}

func (g *grid) at(x, y int) bool {
	return x >= 0 && x < g.w && y >= 0 && y < g.h && g.mask[y*g.w+x]
}

// component is one 8-connected blob of ink.
type component struct {
	seed   image.Point // topmost-leftmost pixel
	count  int
	minX   int
	minY   int
	maxX   int
	maxY   int
	parent int32 // enclosing region id, 0 for the outer background
}

// bgRegion is one 4-connected area of background.
type bgRegion struct {
	seed   image.Point
	count  int
	minX   int
	minY   int
	maxX   int
	maxY   int
	border bool  // touches the image edge
	owner  int32 // enclosing component id, 0 when border
}

// label floods all components and regions and resolves who encloses
// whom.
func (g *grid) label() ([]component, []bgRegion) {
	var comps []component
	var regions []bgRegion
	queue := make([]image.Point, 0, 256)

	for y := 0; y < g.h; y++ {
		for x := 0; x < g.w; x++ {
			i := y*g.w + x
			if g.mask[i] && g.comp[i] == 0 {
				comps = append(comps, g.floodComponent(x, y, int32(len(comps)+1), &queue))
			}
			if !g.mask[i] && g.region[i] == 0 {
				regions = append(regions, g.floodRegion(x, y, int32(len(regions)+1), &queue))
			}
		}
	}

	// A component's seed is in its top row, so the pixel above the seed
	// belongs to the region that encloses the component. Off-canvas
	// counts as the outer background.
	for c := range comps {
		s := comps[c].seed
		if s.Y > 0 {
			comps[c].parent = g.region[(s.Y-1)*g.w+s.X]
		}
	}

	// Symmetrically, an interior region hangs off the component above
	// its seed. Regions touching the border are the outer background.
	for r := range regions {
		if regions[r].border {
			continue
		}
		s := regions[r].seed
		regions[r].owner = g.comp[(s.Y-1)*g.w+s.X]
	}

	return comps, regions
}

func (g *grid) floodComponent(x, y int, id int32, queue *[]image.Point) component {
	c := component{seed: image.Point{X: x, Y: y}, minX: x, minY: y, maxX: x, maxY: y}
	q := (*queue)[:0]
	q = append(q, c.seed)
	g.comp[y*g.w+x] = id

	for head := 0; head < len(q); head++ {
		p := q[head]
		c.count++
		if p.X < c.minX {
			c.minX = p.X
		}
		if p.X > c.maxX {
			c.maxX = p.X
		}
		if p.Y < c.minY {
			c.minY = p.Y
		}
		if p.Y > c.maxY {
			c.maxY = p.Y
		}

		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				nx, ny := p.X+dx, p.Y+dy
				if nx < 0 || nx >= g.w || ny < 0 || ny >= g.h {
					continue
				}
				ni := ny*g.w + nx
				if g.mask[ni] && g.comp[ni] == 0 {
					g.comp[ni] = id
					q = append(q, image.Point{X: nx, Y: ny})
				}
			}
		}
	}
	*queue = q[:0]
	return c
}

func (g *grid) floodRegion(x, y int, id int32, queue *[]image.Point) bgRegion {
	r := bgRegion{seed: image.Point{X: x, Y: y}, minX: x, minY: y, maxX: x, maxY: y}
	q := (*queue)[:0]
	q = append(q, r.seed)
	g.region[y*g.w+x] = id

	for head := 0; head < len(q); head++ {
		p := q[head]
		r.count++
		if p.X == 0 || p.X == g.w-1 || p.Y == 0 || p.Y == g.h-1 {
			r.border = true
		}
		if p.X < r.minX {
			r.minX = p.X
		}
		if p.X > r.maxX {
			r.maxX = p.X
		}
		if p.Y < r.minY {
			r.minY = p.Y
		}
		if p.Y > r.maxY {
			r.maxY = p.Y
		}

		for _, d := range [4]image.Point{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
			nx, ny := p.X+d.X, p.Y+d.Y
			if nx < 0 || nx >= g.w || ny < 0 || ny >= g.h {
				continue
			}
			ni := ny*g.w + nx
			if !g.mask[ni] && g.region[ni] == 0 {
				g.region[ni] = id
				q = append(q, image.Point{X: nx, Y: ny})
			}
		}
	}
	*queue = q[:0]
	return r
}

// traceBoundary walks the outer boundary of a connected set clockwise,
// starting from its topmost-leftmost pixel, using Moore neighbor
// tracing. isSet must be true exactly for the set's pixels.
func traceBoundary(isSet func(x, y int) bool, seed image.Point) []image.Point {
	pts := []image.Point{seed}
	cur := seed
	back := 4 // the virtual approach is from the West

	for step := 0; ; step++ {
		found := false
		d := 0
		for k := 1; k <= 8; k++ {
			d = (back + k) % 8
			n := cur.Add(mooreOffsets[d])
			if isSet(n.X, n.Y) {
				found = true
				break
			}
		}
		if !found {
			// Isolated pixel.
			return pts
		}

		prev := cur.Add(mooreOffsets[(d+7)%8])
		next := cur.Add(mooreOffsets[d])
		back = dirIndex(prev.X-next.X, prev.Y-next.Y)
		cur = next

		if cur == seed && back == 4 {
			return pts
		}
		pts = append(pts, cur)

		if step > 1<<22 {
			// Safety valve; boundaries of real masks end long before.
			return pts
		}
	}
}
