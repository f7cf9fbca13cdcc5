package dxf

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
)

// Load reads and parses the DXF file at path. All failures, including an
// unreadable path, are reported as *ParseError.
func Load(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	defer f.Close()

	doc, err := Parse(f)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Path = path
		}
		return nil, err
	}
	return doc, nil
}

// Parse parses DXF content from r. It succeeds on any structurally valid
// file, including one whose ENTITIES section is empty.
func Parse(r io.Reader) (*Document, error) {
	p := &parser{
		r:   newTagReader(r),
		doc: &Document{Counts: make(map[string]int)},
	}
	if err := p.run(); err != nil {
		return nil, err
	}
	return p.doc, nil
}

type parser struct {
	r   *tagReader
	doc *Document
}

func (p *parser) fail(err error) error {
	return &ParseError{Line: p.r.line, Err: err}
}

func (p *parser) failf(format string, args ...interface{}) error {
	return p.fail(fmt.Errorf(format, args...))
}

// unterminated converts an end-of-input error inside a section into a
// ParseError naming the section.
func (p *parser) unterminated(section string, err error) error {
	if errors.Is(err, io.EOF) {
		return p.failf("unexpected end of file in %s section", section)
	}
	return p.fail(err)
}

func (p *parser) run() error {
	sections := 0
	for {
		t, err := p.r.next()
		if errors.Is(err, io.EOF) {
			if sections == 0 {
				return p.failf("no sections found")
			}
			// A missing EOF marker is tolerated.
			return nil
		}
		if err != nil {
			return p.fail(err)
		}
		switch {
		case t.is(0, "SECTION"):
			sections++
			if err := p.section(); err != nil {
				return err
			}
		case t.is(0, "EOF"):
			return nil
		default:
			return p.failf("unexpected tag (%d, %q) between sections",
				t.code, strings.TrimSpace(t.value))
		}
	}
}

func (p *parser) section() error {
	t, err := p.r.next()
	if err != nil {
		return p.unterminated("SECTION", err)
	}
	if t.code != 2 {
		return p.failf("section name expected, got group code %d", t.code)
	}
	name := strings.TrimSpace(t.value)
	switch name {
	case "HEADER":
		return p.header()
	case "TABLES":
		return p.tables()
	case "ENTITIES":
		return p.entities()
	default:
		return p.skipSection(name)
	}
}

func (p *parser) skipSection(name string) error {
	for {
		t, err := p.r.next()
		if err != nil {
			return p.unterminated(name, err)
		}
		if t.is(0, "ENDSEC") {
			return nil
		}
	}
}

// header scans the HEADER section for $ACADVER and the $EXTMIN/$EXTMAX
// drawing extents. Every other variable is skipped.
func (p *parser) header() error {
	var name string
	var min, max Point
	var haveMin, haveMax bool
	for {
		t, err := p.r.next()
		if err != nil {
			return p.unterminated("HEADER", err)
		}
		switch {
		case t.is(0, "ENDSEC"):
			if haveMin && haveMax {
				p.doc.HeaderMin = min
				p.doc.HeaderMax = max
				p.doc.HasHeaderExtents = true
			}
			return nil
		case t.code == 9:
			name = strings.TrimSpace(t.value)
		case name == "$ACADVER" && t.code == 1:
			p.doc.Version = strings.TrimSpace(t.value)
		case name == "$EXTMIN" && (t.code == 10 || t.code == 20):
			v, err := floatValue(t)
			if err != nil {
				return p.fail(err)
			}
			if t.code == 10 {
				min.X = v
			} else {
				min.Y = v
			}
			haveMin = true
		case name == "$EXTMAX" && (t.code == 10 || t.code == 20):
			v, err := floatValue(t)
			if err != nil {
				return p.fail(err)
			}
			if t.code == 10 {
				max.X = v
			} else {
				max.Y = v
			}
			haveMax = true
		}
	}
}

// tables collects LAYER records from the TABLES section. Other table
// types (VPORT, STYLE, LTYPE, ...) are skipped.
func (p *parser) tables() error {
	for {
		t, err := p.r.next()
		if err != nil {
			return p.unterminated("TABLES", err)
		}
		switch {
		case t.is(0, "ENDSEC"):
			return nil
		case t.is(0, "LAYER"):
			if err := p.layerRecord(); err != nil {
				return err
			}
		}
	}
}

func (p *parser) layerRecord() error {
	var layer Layer
	named := false
	for {
		t, err := p.r.next()
		if err != nil {
			return p.unterminated("TABLES", err)
		}
		if t.code == 0 {
			p.r.push(t)
			if named {
				p.doc.Layers = append(p.doc.Layers, layer)
			}
			return nil
		}
		switch t.code {
		case 2:
			layer.Name = strings.TrimSpace(t.value)
			named = true
		case 62:
			c, err := intValue(t)
			if err != nil {
				return p.fail(err)
			}
			layer.Color = c
		}
	}
}

func (p *parser) entities() error {
	for {
		t, err := p.r.next()
		if err != nil {
			return p.unterminated("ENTITIES", err)
		}
		if t.is(0, "ENDSEC") {
			return nil
		}
		if t.code != 0 {
			return p.failf("entity type expected, got group code %d", t.code)
		}
		kind := strings.TrimSpace(t.value)
		p.doc.Counts[kind]++

		var ent Entity
		switch kind {
		case KindLine:
			ent, err = p.line()
		case KindCircle:
			ent, err = p.circle()
		case KindArc:
			ent, err = p.arc()
		case KindLWPolyline:
			ent, err = p.lwpolyline()
		case KindPolyline:
			ent, err = p.polyline()
		case KindSpline:
			ent, err = p.spline()
		case KindEllipse:
			ent, err = p.ellipse()
		case KindPoint:
			ent, err = p.point()
		case KindText, KindMText:
			ent, err = p.text(kind == KindMText)
		case KindSolid, KindFace:
			ent, err = p.solid(kind == KindFace)
		case KindHatch:
			ent, err = p.hatch()
		default:
			err = p.skipEntity()
		}
		if err != nil {
			return err
		}
		if ent != nil {
			p.doc.Entities = append(p.doc.Entities, ent)
		}
	}
}

// each calls fn for every tag belonging to the current entity record and
// stops at the next code-0 tag, leaving it unconsumed. Tags common to all
// entities are routed to base when it is non-nil.
func (p *parser) each(base *entityBase, fn func(t tag) error) error {
	for {
		t, err := p.r.next()
		if err != nil {
			return p.unterminated("ENTITIES", err)
		}
		if t.code == 0 {
			p.r.push(t)
			return nil
		}
		if base != nil {
			handled, err := base.applyCommon(t)
			if err != nil {
				return p.fail(err)
			}
			if handled {
				continue
			}
		}
		if err := fn(t); err != nil {
			return err
		}
	}
}

// skipEntity consumes the tags of an unsupported entity record.
func (p *parser) skipEntity() error {
	return p.each(nil, func(tag) error { return nil })
}

func (p *parser) setFloat(t tag, dst *float64) error {
	v, err := floatValue(t)
	if err != nil {
		return p.fail(err)
	}
	*dst = v
	return nil
}

func (p *parser) setInt(t tag, dst *int) error {
	v, err := intValue(t)
	if err != nil {
		return p.fail(err)
	}
	*dst = v
	return nil
}

func (p *parser) line() (Entity, error) {
	e := &Line{}
	err := p.each(&e.entityBase, func(t tag) error {
		switch t.code {
		case 10:
			return p.setFloat(t, &e.Start.X)
		case 20:
			return p.setFloat(t, &e.Start.Y)
		case 11:
			return p.setFloat(t, &e.End.X)
		case 21:
			return p.setFloat(t, &e.End.Y)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (p *parser) circle() (Entity, error) {
	e := &Circle{}
	err := p.each(&e.entityBase, func(t tag) error {
		switch t.code {
		case 10:
			return p.setFloat(t, &e.Center.X)
		case 20:
			return p.setFloat(t, &e.Center.Y)
		case 40:
			return p.setFloat(t, &e.Radius)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (p *parser) arc() (Entity, error) {
	e := &Arc{EndAngle: 360}
	err := p.each(&e.entityBase, func(t tag) error {
		switch t.code {
		case 10:
			return p.setFloat(t, &e.Center.X)
		case 20:
			return p.setFloat(t, &e.Center.Y)
		case 40:
			return p.setFloat(t, &e.Radius)
		case 50:
			return p.setFloat(t, &e.StartAngle)
		case 51:
			return p.setFloat(t, &e.EndAngle)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (p *parser) lwpolyline() (Entity, error) {
	e := &LWPolyline{}
	err := p.each(&e.entityBase, func(t tag) error {
		switch t.code {
		case 90:
			var n int
			if err := p.setInt(t, &n); err != nil {
				return err
			}
			if n > 0 && e.Vertices == nil {
				e.Vertices = make([]PolyVertex, 0, n)
			}
		case 70:
			var flags int
			if err := p.setInt(t, &flags); err != nil {
				return err
			}
			e.Closed = flags&1 != 0
		case 10:
			v, err := floatValue(t)
			if err != nil {
				return p.fail(err)
			}
			e.Vertices = append(e.Vertices, PolyVertex{Point: Point{X: v}})
		case 20:
			if len(e.Vertices) > 0 {
				return p.setFloat(t, &e.Vertices[len(e.Vertices)-1].Y)
			}
		case 42:
			if len(e.Vertices) > 0 {
				return p.setFloat(t, &e.Vertices[len(e.Vertices)-1].Bulge)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return e, nil
}

// polyline parses a POLYLINE record and the VERTEX sequence that follows
// it, through the terminating SEQEND.
func (p *parser) polyline() (Entity, error) {
	e := &Polyline{}
	err := p.each(&e.entityBase, func(t tag) error {
		if t.code == 70 {
			var flags int
			if err := p.setInt(t, &flags); err != nil {
				return err
			}
			e.Closed = flags&1 != 0
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for {
		t, err := p.r.next()
		if err != nil {
			return nil, p.unterminated("ENTITIES", err)
		}
		if t.code != 0 {
			return nil, p.failf("VERTEX record expected in POLYLINE, got group code %d", t.code)
		}
		switch strings.TrimSpace(t.value) {
		case "VERTEX":
			var v Point
			has := false
			err := p.each(nil, func(t tag) error {
				switch t.code {
				case 10:
					has = true
					return p.setFloat(t, &v.X)
				case 20:
					return p.setFloat(t, &v.Y)
				}
				return nil
			})
			if err != nil {
				return nil, err
			}
			if has {
				e.Vertices = append(e.Vertices, v)
			}
		case "SEQEND":
			if err := p.skipEntity(); err != nil {
				return nil, err
			}
			return e, nil
		default:
			// Vertex list ended without SEQEND; the record belongs to
			// the section loop.
			p.r.push(t)
			return e, nil
		}
	}
}

func (p *parser) spline() (Entity, error) {
	e := &Spline{Degree: 3}
	err := p.each(&e.entityBase, func(t tag) error {
		switch t.code {
		case 70:
			var flags int
			if err := p.setInt(t, &flags); err != nil {
				return err
			}
			e.Closed = flags&1 != 0
		case 71:
			return p.setInt(t, &e.Degree)
		case 40:
			v, err := floatValue(t)
			if err != nil {
				return p.fail(err)
			}
			e.Knots = append(e.Knots, v)
		case 10:
			v, err := floatValue(t)
			if err != nil {
				return p.fail(err)
			}
			e.ControlPoints = append(e.ControlPoints, Point{X: v})
		case 20:
			if len(e.ControlPoints) > 0 {
				return p.setFloat(t, &e.ControlPoints[len(e.ControlPoints)-1].Y)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (p *parser) ellipse() (Entity, error) {
	e := &Ellipse{Ratio: 1, EndParam: 2 * math.Pi}
	err := p.each(&e.entityBase, func(t tag) error {
		switch t.code {
		case 10:
			return p.setFloat(t, &e.Center.X)
		case 20:
			return p.setFloat(t, &e.Center.Y)
		case 11:
			return p.setFloat(t, &e.MajorAxis.X)
		case 21:
			return p.setFloat(t, &e.MajorAxis.Y)
		case 40:
			return p.setFloat(t, &e.Ratio)
		case 41:
			return p.setFloat(t, &e.StartParam)
		case 42:
			return p.setFloat(t, &e.EndParam)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (p *parser) point() (Entity, error) {
	e := &PointEntity{}
	err := p.each(&e.entityBase, func(t tag) error {
		switch t.code {
		case 10:
			return p.setFloat(t, &e.Location.X)
		case 20:
			return p.setFloat(t, &e.Location.Y)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (p *parser) text(multiline bool) (Entity, error) {
	e := &Text{Multiline: multiline}
	err := p.each(&e.entityBase, func(t tag) error {
		switch t.code {
		case 10:
			return p.setFloat(t, &e.Insert.X)
		case 20:
			return p.setFloat(t, &e.Insert.Y)
		case 40:
			return p.setFloat(t, &e.Height)
		case 50:
			return p.setFloat(t, &e.Rotation)
		case 1, 3:
			// MTEXT splits long values into code-3 chunks followed by a
			// final code-1 chunk; TEXT uses a single code-1 value.
			e.Value += t.value
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (p *parser) solid(face bool) (Entity, error) {
	e := &Solid{Face: face}
	var corners [4]Point
	seen := 0
	err := p.each(&e.entityBase, func(t tag) error {
		switch t.code {
		case 10, 11, 12, 13:
			idx := t.code - 10
			if idx+1 > seen {
				seen = idx + 1
			}
			return p.setFloat(t, &corners[idx].X)
		case 20, 21, 22, 23:
			idx := t.code - 20
			if idx+1 > seen {
				seen = idx + 1
			}
			return p.setFloat(t, &corners[idx].Y)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	e.Corners = append(e.Corners, corners[:seen]...)
	return e, nil
}

// hatch parses a HATCH record. The boundary data is positional: each loop
// starts with a code-92 type flag, so the parser reacts to 92 and reads
// one loop's worth of data from there. Pattern definition and seed point
// tags reuse low group codes, which is why they must not be interpreted
// outside a loop.
func (p *parser) hatch() (Entity, error) {
	e := &Hatch{}
	for {
		t, err := p.r.next()
		if err != nil {
			return nil, p.unterminated("ENTITIES", err)
		}
		if t.code == 0 {
			p.r.push(t)
			return e, nil
		}
		handled, err := e.applyCommon(t)
		if err != nil {
			return nil, p.fail(err)
		}
		if handled || t.code != 92 {
			continue
		}
		flag, err := intValue(t)
		if err != nil {
			return nil, p.fail(err)
		}
		loop, err := p.hatchLoop(flag)
		if err != nil {
			return nil, err
		}
		if len(loop.Vertices) > 0 {
			e.Loops = append(e.Loops, *loop)
		}
	}
}

// hatchLoop reads one boundary path. Polyline paths carry their vertices
// directly; edge paths are flattened edge by edge. Spline edges are not
// decoded; the loop is returned as collected so far and the caller
// resynchronizes at the next code-92 tag.
func (p *parser) hatchLoop(flag int) (*HatchLoop, error) {
	loop := &HatchLoop{}
	if flag&2 != 0 {
		return loop, p.hatchPolylinePath(loop)
	}
	return loop, p.hatchEdgePath(loop)
}

func (p *parser) hatchPolylinePath(loop *HatchLoop) error {
	count := 0
	hasBulge := false
	for {
		t, err := p.r.next()
		if err != nil {
			return p.unterminated("ENTITIES", err)
		}
		switch t.code {
		case 72:
			var b int
			if err := p.setInt(t, &b); err != nil {
				return err
			}
			hasBulge = b != 0
		case 73:
			var c int
			if err := p.setInt(t, &c); err != nil {
				return err
			}
			loop.Closed = c != 0
		case 93:
			if err := p.setInt(t, &count); err != nil {
				return err
			}
			for i := 0; i < count; i++ {
				var v Point
				if err := p.expectFloat(10, &v.X); err != nil {
					return err
				}
				if err := p.expectFloat(20, &v.Y); err != nil {
					return err
				}
				if hasBulge {
					var bulge float64
					if err := p.expectFloat(42, &bulge); err != nil {
						return err
					}
				}
				loop.Vertices = append(loop.Vertices, v)
			}
			return nil
		default:
			p.r.push(t)
			return nil
		}
	}
}

func (p *parser) hatchEdgePath(loop *HatchLoop) error {
	edges := 0
	t, err := p.r.next()
	if err != nil {
		return p.unterminated("ENTITIES", err)
	}
	if t.code != 93 {
		p.r.push(t)
		return nil
	}
	if err := p.setInt(t, &edges); err != nil {
		return err
	}
	for i := 0; i < edges; i++ {
		t, err := p.r.next()
		if err != nil {
			return p.unterminated("ENTITIES", err)
		}
		if t.code != 72 {
			p.r.push(t)
			return nil
		}
		var edgeType int
		if err := p.setInt(t, &edgeType); err != nil {
			return err
		}
		switch edgeType {
		case 1: // line
			var a, b Point
			if err := p.expectFloat(10, &a.X); err != nil {
				return err
			}
			if err := p.expectFloat(20, &a.Y); err != nil {
				return err
			}
			if err := p.expectFloat(11, &b.X); err != nil {
				return err
			}
			if err := p.expectFloat(21, &b.Y); err != nil {
				return err
			}
			if len(loop.Vertices) == 0 {
				loop.Vertices = append(loop.Vertices, a)
			}
			loop.Vertices = append(loop.Vertices, b)
		case 2: // circular arc
			var center Point
			var radius, start, end float64
			ccw := 1
			if err := p.expectFloat(10, &center.X); err != nil {
				return err
			}
			if err := p.expectFloat(20, &center.Y); err != nil {
				return err
			}
			if err := p.expectFloat(40, &radius); err != nil {
				return err
			}
			if err := p.expectFloat(50, &start); err != nil {
				return err
			}
			if err := p.expectFloat(51, &end); err != nil {
				return err
			}
			if t, err := p.r.next(); err == nil && t.code == 73 {
				if err := p.setInt(t, &ccw); err != nil {
					return err
				}
			} else if err == nil {
				p.r.push(t)
			} else {
				return p.unterminated("ENTITIES", err)
			}
			appendArcVertices(loop, center, radius, start, end, ccw != 0)
		default:
			// Elliptic and spline edges are not decoded; stop here and
			// let the caller resynchronize at the next loop.
			return nil
		}
	}
	loop.Closed = true
	return nil
}

// expectFloat reads the next tag, requires the given group code, and
// stores its value.
func (p *parser) expectFloat(code int, dst *float64) error {
	t, err := p.r.next()
	if err != nil {
		return p.unterminated("ENTITIES", err)
	}
	if t.code != code {
		return p.failf("HATCH boundary: expected group code %d, got %d", code, t.code)
	}
	return p.setFloat(t, dst)
}

// appendArcVertices flattens a circular arc edge into line segments using
// the same density rule the rasterizer applies to ARC entities.
func appendArcVertices(loop *HatchLoop, center Point, radius, startDeg, endDeg float64, ccw bool) {
	start := startDeg * math.Pi / 180
	end := endDeg * math.Pi / 180
	if !ccw {
		start, end = end, start
	}
	if end < start {
		end += 2 * math.Pi
	}
	sweep := end - start
	steps := int(radius * sweep * 0.5)
	if steps < 20 {
		steps = 20
	}
	for i := 0; i <= steps; i++ {
		a := start + sweep*float64(i)/float64(steps)
		v := Point{
			X: center.X + radius*math.Cos(a),
			Y: center.Y + radius*math.Sin(a),
		}
		if i == 0 && len(loop.Vertices) > 0 {
			continue
		}
		loop.Vertices = append(loop.Vertices, v)
	}
}
