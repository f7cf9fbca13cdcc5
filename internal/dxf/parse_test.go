package dxf

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// buildDXF wraps entity tag blocks in a minimal ENTITIES section.
func buildDXF(entities ...string) string {
	var b strings.Builder
	b.WriteString("0\nSECTION\n2\nENTITIES\n")
	for _, e := range entities {
		b.WriteString(e)
	}
	b.WriteString("0\nENDSEC\n0\nEOF\n")
	return b.String()
}

func lineTags(x1, y1, x2, y2 float64) string {
	return fmt.Sprintf("0\nLINE\n8\n0\n10\n%g\n20\n%g\n11\n%g\n21\n%g\n", x1, y1, x2, y2)
}

func circleTags(cx, cy, r float64) string {
	return fmt.Sprintf("0\nCIRCLE\n8\n0\n10\n%g\n20\n%g\n40\n%g\n", cx, cy, r)
}

// writeTempDXF writes content to a temp .dxf file and returns its path.
// The caller is responsible for removing the file.
func writeTempDXF(t *testing.T, content string) string {
	t.Helper()
	tmpFile, err := os.CreateTemp("", "test-drawing-*.dxf")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	if _, err := tmpFile.WriteString(content); err != nil {
		tmpFile.Close()
		os.Remove(tmpFile.Name())
		t.Fatalf("failed to write temp file: %v", err)
	}
	tmpFile.Close()
	return tmpFile.Name()
}

func TestParse_Line(t *testing.T) {
	doc, err := Parse(strings.NewReader(buildDXF(lineTags(1, 2, 3, 4))))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(doc.Entities) != 1 {
		t.Fatalf("entity count: got %d, want 1", len(doc.Entities))
	}

	line, ok := doc.Entities[0].(*Line)
	if !ok {
		t.Fatalf("entity type: got %T, want *Line", doc.Entities[0])
	}
	if line.Kind() != KindLine {
		t.Errorf("Kind: got %s, want %s", line.Kind(), KindLine)
	}
	if line.Start != (Point{1, 2}) || line.End != (Point{3, 4}) {
		t.Errorf("geometry: got %v -> %v, want (1,2) -> (3,4)", line.Start, line.End)
	}
	if line.Layer() != "0" {
		t.Errorf("Layer: got %q, want %q", line.Layer(), "0")
	}
}

func TestParse_Circle(t *testing.T) {
	doc, err := Parse(strings.NewReader(buildDXF(circleTags(5, -3, 2.5))))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	circle, ok := doc.Entities[0].(*Circle)
	if !ok {
		t.Fatalf("entity type: got %T, want *Circle", doc.Entities[0])
	}
	if circle.Center != (Point{5, -3}) {
		t.Errorf("Center: got %v, want (5,-3)", circle.Center)
	}
	if circle.Radius != 2.5 {
		t.Errorf("Radius: got %g, want 2.5", circle.Radius)
	}
}

func TestParse_Arc(t *testing.T) {
	arc := "0\nARC\n10\n0\n20\n0\n40\n10\n50\n45\n51\n180\n"
	doc, err := Parse(strings.NewReader(buildDXF(arc)))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	a, ok := doc.Entities[0].(*Arc)
	if !ok {
		t.Fatalf("entity type: got %T, want *Arc", doc.Entities[0])
	}
	if a.Radius != 10 {
		t.Errorf("Radius: got %g, want 10", a.Radius)
	}
	if a.StartAngle != 45 || a.EndAngle != 180 {
		t.Errorf("angles: got %g..%g, want 45..180", a.StartAngle, a.EndAngle)
	}
}

func TestParse_LWPolyline(t *testing.T) {
	poly := "0\nLWPOLYLINE\n90\n3\n70\n1\n10\n0\n20\n0\n10\n10\n20\n0\n42\n0.5\n10\n10\n20\n10\n"
	doc, err := Parse(strings.NewReader(buildDXF(poly)))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	p, ok := doc.Entities[0].(*LWPolyline)
	if !ok {
		t.Fatalf("entity type: got %T, want *LWPolyline", doc.Entities[0])
	}
	if !p.Closed {
		t.Error("Closed: got false, want true")
	}

	want := []PolyVertex{
		{Point: Point{0, 0}},
		{Point: Point{10, 0}, Bulge: 0.5},
		{Point: Point{10, 10}},
	}
	if diff := cmp.Diff(want, p.Vertices); diff != "" {
		t.Errorf("vertices mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_Polyline(t *testing.T) {
	poly := "0\nPOLYLINE\n70\n1\n" +
		"0\nVERTEX\n10\n0\n20\n0\n" +
		"0\nVERTEX\n10\n4\n20\n0\n" +
		"0\nVERTEX\n10\n4\n20\n3\n" +
		"0\nSEQEND\n"
	doc, err := Parse(strings.NewReader(buildDXF(poly)))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(doc.Entities) != 1 {
		t.Fatalf("entity count: got %d, want 1", len(doc.Entities))
	}

	p, ok := doc.Entities[0].(*Polyline)
	if !ok {
		t.Fatalf("entity type: got %T, want *Polyline", doc.Entities[0])
	}
	if !p.Closed {
		t.Error("Closed: got false, want true")
	}

	want := []Point{{0, 0}, {4, 0}, {4, 3}}
	if diff := cmp.Diff(want, p.Vertices); diff != "" {
		t.Errorf("vertices mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_Polyline_MissingSeqend(t *testing.T) {
	// The vertex list runs straight into the next entity.
	poly := "0\nPOLYLINE\n70\n0\n" +
		"0\nVERTEX\n10\n1\n20\n1\n" +
		"0\nVERTEX\n10\n2\n20\n2\n"
	doc, err := Parse(strings.NewReader(buildDXF(poly + circleTags(0, 0, 1))))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(doc.Entities) != 2 {
		t.Fatalf("entity count: got %d, want 2", len(doc.Entities))
	}
	if _, ok := doc.Entities[1].(*Circle); !ok {
		t.Errorf("second entity: got %T, want *Circle", doc.Entities[1])
	}
}

func TestParse_Spline(t *testing.T) {
	spline := "0\nSPLINE\n71\n3\n40\n0\n40\n0\n40\n0\n40\n0\n40\n1\n40\n1\n40\n1\n40\n1\n" +
		"10\n0\n20\n0\n10\n1\n20\n2\n10\n3\n20\n2\n10\n4\n20\n0\n"
	doc, err := Parse(strings.NewReader(buildDXF(spline)))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	s, ok := doc.Entities[0].(*Spline)
	if !ok {
		t.Fatalf("entity type: got %T, want *Spline", doc.Entities[0])
	}
	if s.Degree != 3 {
		t.Errorf("Degree: got %d, want 3", s.Degree)
	}
	if len(s.ControlPoints) != 4 {
		t.Errorf("control points: got %d, want 4", len(s.ControlPoints))
	}
	if len(s.Knots) != 8 {
		t.Errorf("knots: got %d, want 8", len(s.Knots))
	}
}

func TestParse_Ellipse(t *testing.T) {
	ellipse := "0\nELLIPSE\n10\n1\n20\n1\n11\n4\n21\n0\n40\n0.5\n"
	doc, err := Parse(strings.NewReader(buildDXF(ellipse)))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	e, ok := doc.Entities[0].(*Ellipse)
	if !ok {
		t.Fatalf("entity type: got %T, want *Ellipse", doc.Entities[0])
	}
	if e.MajorRadius() != 4 {
		t.Errorf("MajorRadius: got %g, want 4", e.MajorRadius())
	}
	if e.Ratio != 0.5 {
		t.Errorf("Ratio: got %g, want 0.5", e.Ratio)
	}
	if e.StartParam != 0 || math.Abs(e.EndParam-2*math.Pi) > 1e-12 {
		t.Errorf("params: got %g..%g, want 0..2π", e.StartParam, e.EndParam)
	}
}

func TestParse_Text(t *testing.T) {
	text := "0\nTEXT\n10\n5\n20\n6\n40\n2.5\n1\nPART-01\n"
	doc, err := Parse(strings.NewReader(buildDXF(text)))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	txt, ok := doc.Entities[0].(*Text)
	if !ok {
		t.Fatalf("entity type: got %T, want *Text", doc.Entities[0])
	}
	if txt.Kind() != KindText {
		t.Errorf("Kind: got %s, want %s", txt.Kind(), KindText)
	}
	if txt.Value != "PART-01" {
		t.Errorf("Value: got %q, want %q", txt.Value, "PART-01")
	}
	if txt.Height != 2.5 {
		t.Errorf("Height: got %g, want 2.5", txt.Height)
	}
}

func TestParse_MText_Chunks(t *testing.T) {
	// Long MTEXT values are split into code-3 chunks plus a final code-1.
	mtext := "0\nMTEXT\n10\n0\n20\n0\n40\n1\n3\nfirst \n3\nsecond \n1\nlast\n"
	doc, err := Parse(strings.NewReader(buildDXF(mtext)))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	txt, ok := doc.Entities[0].(*Text)
	if !ok {
		t.Fatalf("entity type: got %T, want *Text", doc.Entities[0])
	}
	if txt.Kind() != KindMText {
		t.Errorf("Kind: got %s, want %s", txt.Kind(), KindMText)
	}
	if txt.Value != "first second last" {
		t.Errorf("Value: got %q, want %q", txt.Value, "first second last")
	}
}

func TestText_PlainText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "HOLE 5MM", "HOLE 5MM"},
		{"paragraph", `LINE1\PLINE2`, "LINE1\nLINE2"},
		{"font code", `{\fArial;BOLT}`, "BOLT"},
		{"escaped brace", `\{M8\}`, "{M8}"},
		{"height code", `\H2.5;DIA`, "DIA"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txt := &Text{Value: tt.in, Multiline: true}
			if got := txt.PlainText(); got != tt.want {
				t.Errorf("PlainText(%q): got %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParse_Solid(t *testing.T) {
	solid := "0\nSOLID\n10\n0\n20\n0\n11\n10\n21\n0\n12\n0\n22\n10\n13\n10\n23\n10\n"
	doc, err := Parse(strings.NewReader(buildDXF(solid)))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	s, ok := doc.Entities[0].(*Solid)
	if !ok {
		t.Fatalf("entity type: got %T, want *Solid", doc.Entities[0])
	}
	if len(s.Corners) != 4 {
		t.Fatalf("corners: got %d, want 4", len(s.Corners))
	}

	// SOLID stores quads in Z-order; Outline returns drawing order.
	want := []Point{{0, 0}, {10, 0}, {10, 10}, {0, 10}}
	if diff := cmp.Diff(want, s.Outline()); diff != "" {
		t.Errorf("outline mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_Hatch_PolylinePath(t *testing.T) {
	hatch := "0\nHATCH\n91\n1\n92\n2\n72\n0\n73\n1\n93\n4\n" +
		"10\n0\n20\n0\n10\n8\n20\n0\n10\n8\n20\n6\n10\n0\n20\n6\n"
	doc, err := Parse(strings.NewReader(buildDXF(hatch)))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	h, ok := doc.Entities[0].(*Hatch)
	if !ok {
		t.Fatalf("entity type: got %T, want *Hatch", doc.Entities[0])
	}
	if len(h.Loops) != 1 {
		t.Fatalf("loops: got %d, want 1", len(h.Loops))
	}
	if !h.Loops[0].Closed {
		t.Error("loop Closed: got false, want true")
	}

	want := []Point{{0, 0}, {8, 0}, {8, 6}, {0, 6}}
	if diff := cmp.Diff(want, h.Loops[0].Vertices); diff != "" {
		t.Errorf("loop vertices mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_Hatch_LineEdges(t *testing.T) {
	hatch := "0\nHATCH\n91\n1\n92\n0\n93\n3\n" +
		"72\n1\n10\n0\n20\n0\n11\n4\n21\n0\n" +
		"72\n1\n10\n4\n20\n0\n11\n4\n21\n3\n" +
		"72\n1\n10\n4\n20\n3\n11\n0\n21\n0\n"
	doc, err := Parse(strings.NewReader(buildDXF(hatch)))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	h, ok := doc.Entities[0].(*Hatch)
	if !ok {
		t.Fatalf("entity type: got %T, want *Hatch", doc.Entities[0])
	}
	if len(h.Loops) != 1 {
		t.Fatalf("loops: got %d, want 1", len(h.Loops))
	}

	want := []Point{{0, 0}, {4, 0}, {4, 3}, {0, 0}}
	if diff := cmp.Diff(want, h.Loops[0].Vertices); diff != "" {
		t.Errorf("loop vertices mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_UnsupportedKindCounted(t *testing.T) {
	insert := "0\nINSERT\n8\n0\n2\nBLOCKNAME\n10\n5\n20\n5\n"
	doc, err := Parse(strings.NewReader(buildDXF(insert, lineTags(0, 0, 1, 1))))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(doc.Entities) != 1 {
		t.Errorf("decoded entities: got %d, want 1", len(doc.Entities))
	}
	if doc.Counts["INSERT"] != 1 {
		t.Errorf("INSERT count: got %d, want 1", doc.Counts["INSERT"])
	}
	if doc.Counts["LINE"] != 1 {
		t.Errorf("LINE count: got %d, want 1", doc.Counts["LINE"])
	}
}

func TestParse_Header(t *testing.T) {
	content := "0\nSECTION\n2\nHEADER\n" +
		"9\n$ACADVER\n1\nAC1027\n" +
		"9\n$EXTMIN\n10\n-5\n20\n-10\n30\n0\n" +
		"9\n$EXTMAX\n10\n15\n20\n20\n30\n0\n" +
		"0\nENDSEC\n" +
		buildDXF(lineTags(0, 0, 1, 1))
	doc, err := Parse(strings.NewReader(content))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if doc.Version != "AC1027" {
		t.Errorf("Version: got %q, want %q", doc.Version, "AC1027")
	}
	if doc.VersionName() != "R2013" {
		t.Errorf("VersionName: got %q, want %q", doc.VersionName(), "R2013")
	}
	if !doc.HasHeaderExtents {
		t.Fatal("HasHeaderExtents: got false, want true")
	}
	if doc.HeaderMin != (Point{-5, -10}) || doc.HeaderMax != (Point{15, 20}) {
		t.Errorf("header extents: got %v..%v, want (-5,-10)..(15,20)", doc.HeaderMin, doc.HeaderMax)
	}
}

func TestParse_Layers(t *testing.T) {
	content := "0\nSECTION\n2\nTABLES\n" +
		"0\nTABLE\n2\nLAYER\n70\n2\n" +
		"0\nLAYER\n2\nOUTLINE\n62\n1\n" +
		"0\nLAYER\n2\nHOLES\n62\n-3\n" +
		"0\nENDTAB\n0\nENDSEC\n" +
		buildDXF()
	doc, err := Parse(strings.NewReader(content))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(doc.Layers) != 2 {
		t.Fatalf("layers: got %d, want 2", len(doc.Layers))
	}
	if doc.Layers[0].Name != "OUTLINE" || doc.Layers[0].Color != 1 {
		t.Errorf("layer 0: got %+v, want {OUTLINE 1}", doc.Layers[0])
	}

	// Negative color means the layer is off; LayerColor normalizes it.
	if got := doc.LayerColor("HOLES"); got != 3 {
		t.Errorf("LayerColor(HOLES): got %d, want 3", got)
	}
	if got := doc.LayerColor("MISSING"); got != 7 {
		t.Errorf("LayerColor(MISSING): got %d, want 7", got)
	}
}

func TestParse_EmptyEntitiesSection(t *testing.T) {
	doc, err := Parse(strings.NewReader(buildDXF()))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(doc.Entities) != 0 {
		t.Errorf("entities: got %d, want 0", len(doc.Entities))
	}
	if ext := doc.Bounds(); ext.Valid() {
		t.Error("Bounds of empty document should be invalid")
	}
}

func TestParse_Garbage(t *testing.T) {
	_, err := Parse(strings.NewReader("this is not a DXF file\nat all\n"))
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("error type: got %v, want *ParseError", err)
	}
	if pe.Line != 1 {
		t.Errorf("Line: got %d, want 1", pe.Line)
	}
}

func TestParse_BinarySentinel(t *testing.T) {
	_, err := Parse(strings.NewReader("AutoCAD Binary DXF\r\n\x1a\x00garbage"))
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("error type: got %v, want *ParseError", err)
	}
	if !strings.Contains(pe.Error(), "binary") {
		t.Errorf("error should mention binary DXF, got %q", pe.Error())
	}
}

func TestParse_TruncatedSection(t *testing.T) {
	_, err := Parse(strings.NewReader("0\nSECTION\n2\nENTITIES\n0\nLINE\n10\n1\n"))
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("error type: got %v, want *ParseError", err)
	}
	if !strings.Contains(pe.Error(), "end of file") {
		t.Errorf("error should report premature end of file, got %q", pe.Error())
	}
}

func TestParse_MissingValueLine(t *testing.T) {
	_, err := Parse(strings.NewReader("0\nSECTION\n2\nENTITIES\n0\nENDSEC\n0\nEOF\n10\n"))
	if err == nil {
		// The trailing tag sits after EOF, so parsing stops before it.
		return
	}
	t.Logf("trailing data after EOF reported as: %v", err)
}

func TestParse_BadCoordinate(t *testing.T) {
	bad := "0\nCIRCLE\n10\nnot-a-number\n20\n0\n40\n1\n"
	_, err := Parse(strings.NewReader(buildDXF(bad)))
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("error type: got %v, want *ParseError", err)
	}
	if pe.Line == 0 {
		t.Error("ParseError should carry the line number")
	}
}

func TestLoad_File(t *testing.T) {
	path := writeTempDXF(t, buildDXF(circleTags(0, 0, 10)))
	defer os.Remove(path)

	doc, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(doc.Entities) != 1 {
		t.Errorf("entities: got %d, want 1", len(doc.Entities))
	}
}

func TestLoad_NonExistent(t *testing.T) {
	_, err := Load("/nonexistent/path/drawing.dxf")
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("error type: got %v, want *ParseError", err)
	}
	if pe.Path == "" {
		t.Error("ParseError should carry the path")
	}
}

func TestLoad_SetsPathOnParseError(t *testing.T) {
	path := writeTempDXF(t, "garbage content\n")
	defer os.Remove(path)

	_, err := Load(path)
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("error type: got %v, want *ParseError", err)
	}
	if pe.Path != path {
		t.Errorf("Path: got %q, want %q", pe.Path, path)
	}
}

func TestParseError_Message(t *testing.T) {
	err := &ParseError{Path: "a.dxf", Line: 12, Err: errors.New("boom")}
	msg := err.Error()
	for _, want := range []string{"a.dxf", "boom", "line 12"} {
		if !strings.Contains(msg, want) {
			t.Errorf("message %q should contain %q", msg, want)
		}
	}

	cause := errors.New("root cause")
	wrapped := &ParseError{Err: cause}
	if !errors.Is(wrapped, cause) {
		t.Error("ParseError should unwrap to its cause")
	}
}

func TestDocument_Bounds(t *testing.T) {
	doc, err := Parse(strings.NewReader(buildDXF(
		lineTags(-5, 0, 5, 0),
		circleTags(0, 10, 3),
	)))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	ext := doc.Bounds()
	if !ext.Valid() {
		t.Fatal("Bounds should be valid")
	}
	if ext.MinX != -5 || ext.MaxX != 5 {
		t.Errorf("X range: got %g..%g, want -5..5", ext.MinX, ext.MaxX)
	}

	// The circle contributes its center±radius box.
	if ext.MinY != 0 || ext.MaxY != 13 {
		t.Errorf("Y range: got %g..%g, want 0..13", ext.MinY, ext.MaxY)
	}
	if ext.Degenerate() {
		t.Error("Bounds should not be degenerate")
	}
}

func TestExtents_Degenerate(t *testing.T) {
	var ext Extents
	if !ext.Degenerate() {
		t.Error("zero Extents should be degenerate")
	}

	// A single point has zero area.
	ext.Add(Point{3, 3})
	if !ext.Degenerate() {
		t.Error("single-point Extents should be degenerate")
	}

	ext.Add(Point{5, 7})
	if ext.Degenerate() {
		t.Error("Extents with area should not be degenerate")
	}
	if ext.Width() != 2 || ext.Height() != 4 {
		t.Errorf("size: got %gx%g, want 2x4", ext.Width(), ext.Height())
	}
}

func TestParse_CRLFLineEndings(t *testing.T) {
	content := strings.ReplaceAll(buildDXF(circleTags(1, 1, 1)), "\n", "\r\n")
	doc, err := Parse(strings.NewReader(content))
	if err != nil {
		t.Fatalf("Parse failed on CRLF input: %v", err)
	}
	if len(doc.Entities) != 1 {
		t.Errorf("entities: got %d, want 1", len(doc.Entities))
	}
}

func TestParse_PaddedGroupCodes(t *testing.T) {
	// AutoCAD right-aligns group codes with leading spaces.
	content := "  0\nSECTION\n  2\nENTITIES\n  0\nCIRCLE\n 10\n1.0\n 20\n1.0\n 40\n1.0\n  0\nENDSEC\n  0\nEOF\n"
	doc, err := Parse(strings.NewReader(content))
	if err != nil {
		t.Fatalf("Parse failed on padded input: %v", err)
	}
	if len(doc.Entities) != 1 {
		t.Errorf("entities: got %d, want 1", len(doc.Entities))
	}
}

func TestParse_Comments(t *testing.T) {
	content := "999\nwritten by test\n" + buildDXF("999\ncomment inside entities\n"+lineTags(0, 0, 1, 1))
	doc, err := Parse(strings.NewReader(content))
	if err != nil {
		t.Fatalf("Parse failed with comments: %v", err)
	}
	if len(doc.Entities) != 1 {
		t.Errorf("entities: got %d, want 1", len(doc.Entities))
	}
}

func TestParse_SkipsUnknownSections(t *testing.T) {
	content := "0\nSECTION\n2\nBLOCKS\n0\nBLOCK\n2\nB1\n0\nLINE\n10\n0\n20\n0\n11\n1\n21\n1\n0\nENDBLK\n0\nENDSEC\n" +
		buildDXF(circleTags(0, 0, 5))
	doc, err := Parse(strings.NewReader(content))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	// Block contents must not leak into the modelspace entities.
	if len(doc.Entities) != 1 {
		t.Fatalf("entities: got %d, want 1", len(doc.Entities))
	}
	if _, ok := doc.Entities[0].(*Circle); !ok {
		t.Errorf("entity type: got %T, want *Circle", doc.Entities[0])
	}
}
