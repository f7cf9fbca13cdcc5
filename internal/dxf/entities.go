package dxf

import (
	"math"
	"strings"
)

// Entity kind names as they appear in the file.
const (
	KindLine       = "LINE"
	KindCircle     = "CIRCLE"
	KindArc        = "ARC"
	KindLWPolyline = "LWPOLYLINE"
	KindPolyline   = "POLYLINE"
	KindSpline     = "SPLINE"
	KindEllipse    = "ELLIPSE"
	KindPoint      = "POINT"
	KindText       = "TEXT"
	KindMText      = "MTEXT"
	KindSolid      = "SOLID"
	KindFace       = "3DFACE"
	KindHatch      = "HATCH"
)

// Point is a 2D location in drawing units.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Entity is one geometric primitive parsed from the ENTITIES section.
// Concrete types are Line, Circle, Arc, LWPolyline, Polyline, Spline,
// Ellipse, PointEntity, Text, Solid, and Hatch. Entities are immutable
// once parsed.
type Entity interface {
	// Kind returns the DXF type name, e.g. "LINE" or "CIRCLE".
	Kind() string

	// Layer returns the layer name the entity lives on ("0" by default).
	Layer() string

	// ColorIndex returns the AutoCAD Color Index assigned to the entity.
	// 256 means "by layer", which is also the default.
	ColorIndex() int

	// Extend grows ext to cover the entity's generating geometry, using
	// the same per-kind rules the extents computation applies everywhere:
	// circles and arcs contribute their center±radius box, text its
	// insertion point, splines their control points.
	Extend(ext *Extents)
}

// entityBase carries the attributes common to every entity record.
type entityBase struct {
	layer string
	color int
}

func (e *entityBase) Layer() string {
	if e.layer == "" {
		return "0"
	}
	return e.layer
}

func (e *entityBase) ColorIndex() int {
	if e.color == 0 {
		return 256
	}
	return e.color
}

// applyCommon consumes the group codes shared by all entities.
// It reports whether the tag was handled.
func (e *entityBase) applyCommon(t tag) (bool, error) {
	switch t.code {
	case 8:
		e.layer = strings.TrimSpace(t.value)
		return true, nil
	case 62:
		c, err := intValue(t)
		if err != nil {
			return true, err
		}
		e.color = c
		return true, nil
	case 5, 6, 48, 60, 67, 100, 330, 370:
		// Handle, linetype, scale, visibility, space flag, subclass
		// markers and owner references are not needed for analysis.
		return true, nil
	}
	return false, nil
}

// Line is a straight segment between two points.
type Line struct {
	entityBase
	Start Point
	End   Point
}

func (e *Line) Kind() string { return KindLine }

func (e *Line) Extend(ext *Extents) {
	ext.Add(e.Start)
	ext.Add(e.End)
}

// Circle is a full circle given by center and radius.
type Circle struct {
	entityBase
	Center Point
	Radius float64
}

func (e *Circle) Kind() string { return KindCircle }

func (e *Circle) Extend(ext *Extents) {
	ext.Add(Point{e.Center.X - e.Radius, e.Center.Y - e.Radius})
	ext.Add(Point{e.Center.X + e.Radius, e.Center.Y + e.Radius})
}

// Arc is a circular arc. Angles are in degrees, counterclockwise from the
// positive X axis, matching the file representation.
type Arc struct {
	entityBase
	Center     Point
	Radius     float64
	StartAngle float64
	EndAngle   float64
}

func (e *Arc) Kind() string { return KindArc }

func (e *Arc) Extend(ext *Extents) {
	ext.Add(Point{e.Center.X - e.Radius, e.Center.Y - e.Radius})
	ext.Add(Point{e.Center.X + e.Radius, e.Center.Y + e.Radius})
}

// PolyVertex is one LWPOLYLINE vertex. Bulge is the tangent of a quarter
// of the included angle of the arc segment that starts at this vertex;
// zero means a straight segment.
type PolyVertex struct {
	Point
	Bulge float64
}

// LWPolyline is a lightweight polyline: a connected sequence of line and
// arc segments in a single record.
type LWPolyline struct {
	entityBase
	Vertices []PolyVertex
	Closed   bool
}

func (e *LWPolyline) Kind() string { return KindLWPolyline }

func (e *LWPolyline) Extend(ext *Extents) {
	for _, v := range e.Vertices {
		ext.Add(v.Point)
	}
}

// Polyline is the legacy POLYLINE entity, parsed from its VERTEX/SEQEND
// record sequence.
type Polyline struct {
	entityBase
	Vertices []Point
	Closed   bool
}

func (e *Polyline) Kind() string { return KindPolyline }

func (e *Polyline) Extend(ext *Extents) {
	for _, v := range e.Vertices {
		ext.Add(v)
	}
}

// Spline is a B-spline curve given by its control polygon.
type Spline struct {
	entityBase
	Degree        int
	Closed        bool
	ControlPoints []Point
	Knots         []float64
}

func (e *Spline) Kind() string { return KindSpline }

func (e *Spline) Extend(ext *Extents) {
	for _, v := range e.ControlPoints {
		ext.Add(v)
	}
}

// Ellipse is a full or partial ellipse. MajorAxis is the endpoint of the
// major axis relative to the center; Ratio scales it to the minor axis.
// StartParam and EndParam delimit partial ellipses in radians (0 to 2π
// for a full ellipse).
type Ellipse struct {
	entityBase
	Center     Point
	MajorAxis  Point
	Ratio      float64
	StartParam float64
	EndParam   float64
}

func (e *Ellipse) Kind() string { return KindEllipse }

func (e *Ellipse) Extend(ext *Extents) {
	major := e.MajorRadius()
	minor := major * e.Ratio
	ext.Add(Point{e.Center.X - major, e.Center.Y - minor})
	ext.Add(Point{e.Center.X + major, e.Center.Y + minor})
}

// MajorRadius returns the length of the major axis vector.
func (e *Ellipse) MajorRadius() float64 {
	return math.Hypot(e.MajorAxis.X, e.MajorAxis.Y)
}

// PointEntity is a POINT record: a single marked location.
type PointEntity struct {
	entityBase
	Location Point
}

func (e *PointEntity) Kind() string { return KindPoint }

func (e *PointEntity) Extend(ext *Extents) {
	ext.Add(e.Location)
}

// Text is a TEXT or MTEXT annotation. Only the insertion point contributes
// to the drawing extents; the rendered size depends on the output scale.
type Text struct {
	entityBase
	Insert    Point
	Height    float64
	Value     string
	Rotation  float64
	Multiline bool
}

func (e *Text) Kind() string {
	if e.Multiline {
		return KindMText
	}
	return KindText
}

func (e *Text) Extend(ext *Extents) {
	ext.Add(e.Insert)
}

// PlainText returns the annotation with MTEXT inline formatting removed:
// braces are dropped, \P paragraph breaks become newlines, and other
// backslash control sequences are stripped up to their terminating
// semicolon.
func (e *Text) PlainText() string {
	if !e.Multiline {
		return e.Value
	}
	var b strings.Builder
	s := e.Value
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '{', '}':
			// formatting group markers
		case '\\':
			if i+1 >= len(s) {
				break
			}
			i++
			switch s[i] {
			case 'P', 'p':
				b.WriteByte('\n')
			case '\\', '{', '}':
				b.WriteByte(s[i])
			case 'S':
				// Stacked fraction: keep the content, drop the markers.
				for i+1 < len(s) && s[i+1] != ';' {
					i++
					if s[i] != '^' && s[i] != '#' {
						b.WriteByte(s[i])
					}
				}
				if i+1 < len(s) {
					i++
				}
			default:
				// Font, height, color and similar codes run to a semicolon.
				for i+1 < len(s) && s[i] != ';' {
					i++
				}
			}
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// Solid is a filled triangle or quadrilateral (SOLID or 3DFACE record).
// Corners holds 3 or 4 points in file order; note that SOLID stores its
// quad corners in Z-order (1, 2, 4, 3 around the outline).
type Solid struct {
	entityBase
	Corners []Point
	Face    bool
}

func (e *Solid) Kind() string {
	if e.Face {
		return KindFace
	}
	return KindSolid
}

func (e *Solid) Extend(ext *Extents) {
	for _, v := range e.Corners {
		ext.Add(v)
	}
}

// Outline returns the corners in drawing order. SOLID quads swap the last
// two corners; 3DFACE stores its corners already in outline order.
func (e *Solid) Outline() []Point {
	if e.Face || len(e.Corners) < 4 {
		return e.Corners
	}
	return []Point{e.Corners[0], e.Corners[1], e.Corners[3], e.Corners[2]}
}

// HatchLoop is one boundary path of a HATCH.
type HatchLoop struct {
	Vertices []Point
	Closed   bool
}

// Hatch is a filled region bounded by one or more loops. Only the loop
// outlines are kept; the fill pattern is irrelevant for contour analysis.
type Hatch struct {
	entityBase
	Loops []HatchLoop
}

func (e *Hatch) Kind() string { return KindHatch }

func (e *Hatch) Extend(ext *Extents) {
	for _, loop := range e.Loops {
		for _, v := range loop.Vertices {
			ext.Add(v)
		}
	}
}
