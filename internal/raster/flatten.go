package raster

import (
	"math"

	"github.com/ironsheep/dxf-analysis-mcp/internal/dxf"
)

// splineSegments is the number of chords a spline is approximated with.
const splineSegments = 100

// ellipseSegments is the number of chords a full ellipse is drawn with.
const ellipseSegments = 72

// Path is a flattened run of straight segments in CAD coordinates.
type Path struct {
	Points []dxf.Point
	Closed bool

	// Filled marks paths that come from inherently filled entities
	// (SOLID, 3DFACE, HATCH loops).
	Filled bool
}

// arcSteps returns the chord count for an arc of the given radius and
// sweep (radians). Density grows with the arc length so large arcs stay
// smooth while small ones do not waste segments.
func arcSteps(radius, sweep float64) int {
	steps := int(radius * math.Abs(sweep) * 0.5)
	if steps < 20 {
		steps = 20
	}
	return steps
}

// Flatten converts an entity into drawable paths. Entities with no
// stroke geometry (POINT, TEXT, MTEXT) return nil; their positions still
// participate in the drawing extents.
func Flatten(e dxf.Entity) []Path {
	switch ent := e.(type) {
	case *dxf.Line:
		return []Path{{Points: []dxf.Point{ent.Start, ent.End}}}
	case *dxf.Circle:
		return []Path{flattenCircle(ent)}
	case *dxf.Arc:
		return []Path{flattenArc(ent)}
	case *dxf.LWPolyline:
		return []Path{flattenLWPolyline(ent)}
	case *dxf.Polyline:
		return []Path{{Points: ent.Vertices, Closed: ent.Closed}}
	case *dxf.Spline:
		return []Path{flattenSpline(ent)}
	case *dxf.Ellipse:
		return []Path{flattenEllipse(ent)}
	case *dxf.Solid:
		return []Path{{Points: ent.Outline(), Closed: true, Filled: true}}
	case *dxf.Hatch:
		paths := make([]Path, 0, len(ent.Loops))
		for _, loop := range ent.Loops {
			paths = append(paths, Path{Points: loop.Vertices, Closed: true, Filled: true})
		}
		return paths
	default:
		return nil
	}
}

func flattenCircle(c *dxf.Circle) Path {
	steps := arcSteps(c.Radius, 2*math.Pi)
	pts := make([]dxf.Point, steps)
	for i := 0; i < steps; i++ {
		a := 2 * math.Pi * float64(i) / float64(steps)
		pts[i] = dxf.Point{
			X: c.Center.X + c.Radius*math.Cos(a),
			Y: c.Center.Y + c.Radius*math.Sin(a),
		}
	}
	return Path{Points: pts, Closed: true}
}

func flattenArc(a *dxf.Arc) Path {
	start := a.StartAngle * math.Pi / 180
	end := a.EndAngle * math.Pi / 180
	if end < start {
		end += 2 * math.Pi
	}
	sweep := end - start
	steps := arcSteps(a.Radius, sweep)
	pts := make([]dxf.Point, steps+1)
	for i := 0; i <= steps; i++ {
		ang := start + sweep*float64(i)/float64(steps)
		pts[i] = dxf.Point{
			X: a.Center.X + a.Radius*math.Cos(ang),
			Y: a.Center.Y + a.Radius*math.Sin(ang),
		}
	}
	return Path{Points: pts}
}

func flattenLWPolyline(p *dxf.LWPolyline) Path {
	if len(p.Vertices) == 0 {
		return Path{Closed: p.Closed}
	}
	pts := make([]dxf.Point, 0, len(p.Vertices))
	pts = append(pts, p.Vertices[0].Point)
	for i := 0; i < len(p.Vertices); i++ {
		v := p.Vertices[i]

		// The bulge on vertex i curves the segment from i to i+1. On the
		// last vertex it applies to the closing segment.
		next := i + 1
		if next == len(p.Vertices) {
			if !p.Closed {
				break
			}
			next = 0
		}
		to := p.Vertices[next].Point
		if v.Bulge == 0 {
			if next != 0 {
				pts = append(pts, to)
			}
			continue
		}
		arc := bulgeArc(v.Point, to, v.Bulge)
		if next == 0 && len(arc) > 0 {
			// Drop the duplicate of the first vertex on the closing arc.
			arc = arc[:len(arc)-1]
		}
		pts = append(pts, arc...)
	}
	return Path{Points: pts, Closed: p.Closed}
}

// bulgeArc expands the curved segment between p1 and p2 with the given
// bulge into chord endpoints. The result excludes p1 and ends exactly at
// p2. A bulge is tan(sweep/4); positive values curve counterclockwise.
func bulgeArc(p1, p2 dxf.Point, bulge float64) []dxf.Point {
	chord := math.Hypot(p2.X-p1.X, p2.Y-p1.Y)
	if chord == 0 {
		return nil
	}
	sweep := 4 * math.Atan(bulge)
	radius := chord * (1 + bulge*bulge) / (4 * math.Abs(bulge))

	// The center sits at a fixed angle from the chord direction, on the
	// side the sweep direction dictates.
	chordAngle := math.Atan2(p2.Y-p1.Y, p2.X-p1.X)
	perp := math.Pi / 2
	if bulge < 0 {
		perp = -math.Pi / 2
	}
	toCenter := chordAngle + perp - sweep/2
	center := dxf.Point{
		X: p1.X + radius*math.Cos(toCenter),
		Y: p1.Y + radius*math.Sin(toCenter),
	}

	start := math.Atan2(p1.Y-center.Y, p1.X-center.X)
	steps := arcSteps(radius, sweep)
	pts := make([]dxf.Point, 0, steps)
	for i := 1; i < steps; i++ {
		a := start + sweep*float64(i)/float64(steps)
		pts = append(pts, dxf.Point{
			X: center.X + radius*math.Cos(a),
			Y: center.Y + radius*math.Sin(a),
		})
	}
	return append(pts, p2)
}

func flattenEllipse(e *dxf.Ellipse) Path {
	major := e.MajorRadius()
	minor := major * e.Ratio
	rot := math.Atan2(e.MajorAxis.Y, e.MajorAxis.X)
	cosR, sinR := math.Cos(rot), math.Sin(rot)

	start := e.StartParam
	end := e.EndParam
	if end <= start {
		end += 2 * math.Pi
	}
	sweep := end - start
	full := math.Abs(sweep-2*math.Pi) < 1e-9

	steps := ellipseSegments
	pts := make([]dxf.Point, 0, steps+1)
	for i := 0; i <= steps; i++ {
		if full && i == steps {
			break
		}
		t := start + sweep*float64(i)/float64(steps)
		x := major * math.Cos(t)
		y := minor * math.Sin(t)
		pts = append(pts, dxf.Point{
			X: e.Center.X + x*cosR - y*sinR,
			Y: e.Center.Y + x*sinR + y*cosR,
		})
	}
	return Path{Points: pts, Closed: full}
}

// flattenSpline samples the B-spline when the knot vector is usable and
// falls back to the control polygon otherwise.
func flattenSpline(s *dxf.Spline) Path {
	n := len(s.ControlPoints)
	p := s.Degree
	if p < 1 || n <= p || len(s.Knots) != n+p+1 {
		return Path{Points: s.ControlPoints, Closed: s.Closed}
	}

	lo := s.Knots[p]
	hi := s.Knots[n]
	if hi <= lo {
		return Path{Points: s.ControlPoints, Closed: s.Closed}
	}

	pts := make([]dxf.Point, 0, splineSegments+1)
	for i := 0; i <= splineSegments; i++ {
		t := lo + (hi-lo)*float64(i)/float64(splineSegments)
		pts = append(pts, deBoor(t, p, s.ControlPoints, s.Knots))
	}
	return Path{Points: pts, Closed: s.Closed}
}

// deBoor evaluates the B-spline at parameter t.
func deBoor(t float64, degree int, ctrl []dxf.Point, knots []float64) dxf.Point {
	n := len(ctrl)

	// Find the knot span k with knots[k] <= t < knots[k+1].
	k := degree
	for k < n-1 && t >= knots[k+1] {
		k++
	}

	d := make([]dxf.Point, degree+1)
	copy(d, ctrl[k-degree:k+1])

	for r := 1; r <= degree; r++ {
		for j := degree; j >= r; j-- {
			i := j + k - degree
			den := knots[i+degree-r+1] - knots[i]
			var alpha float64
			if den != 0 {
				alpha = (t - knots[i]) / den
			}
			d[j] = dxf.Point{
				X: (1-alpha)*d[j-1].X + alpha*d[j].X,
				Y: (1-alpha)*d[j-1].Y + alpha*d[j].Y,
			}
		}
	}
	return d[degree]
}
