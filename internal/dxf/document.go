package dxf

// Extents is an axis-aligned bounding box in drawing units. The zero value
// is empty; Add grows it point by point.
type Extents struct {
	MinX, MinY float64
	MaxX, MaxY float64
	valid      bool
}

// Add grows the box to include p.
func (e *Extents) Add(p Point) {
	if !e.valid {
		e.MinX, e.MaxX = p.X, p.X
		e.MinY, e.MaxY = p.Y, p.Y
		e.valid = true
		return
	}
	if p.X < e.MinX {
		e.MinX = p.X
	}
	if p.X > e.MaxX {
		e.MaxX = p.X
	}
	if p.Y < e.MinY {
		e.MinY = p.Y
	}
	if p.Y > e.MaxY {
		e.MaxY = p.Y
	}
}

// Valid reports whether at least one point has been added.
func (e *Extents) Valid() bool { return e.valid }

// Width returns the horizontal span of the box.
func (e *Extents) Width() float64 { return e.MaxX - e.MinX }

// Height returns the vertical span of the box.
func (e *Extents) Height() float64 { return e.MaxY - e.MinY }

// Degenerate reports whether the box is empty or has zero area, which
// makes it useless as a rasterization target.
func (e *Extents) Degenerate() bool {
	return !e.valid || e.Width() <= 0 || e.Height() <= 0
}

// Layer is one entry of the LAYER table.
type Layer struct {
	// Name is the layer name.
	Name string `json:"name"`

	// Color is the layer's AutoCAD Color Index. A negative value in the
	// file means the layer is switched off; the sign is preserved here.
	Color int `json:"color"`
}

// Document is a parsed DXF file: the modelspace entities plus the header
// and table data relevant to analysis. Documents are immutable after
// parsing.
type Document struct {
	// Version is the raw $ACADVER header value, e.g. "AC1027".
	// Empty when the file carries no HEADER section.
	Version string

	// Entities holds the decoded modelspace entities in file order.
	// Unsupported kinds are counted but not represented here.
	Entities []Entity

	// Counts maps every entity kind seen in the ENTITIES section,
	// supported or not, to its number of occurrences.
	Counts map[string]int

	// Layers lists the LAYER table entries, in file order.
	Layers []Layer

	// HeaderMin and HeaderMax are the $EXTMIN/$EXTMAX drawing extents
	// recorded in the header. CAD programs do not always keep them
	// current; Bounds computes the authoritative extents from the
	// entities instead. HasHeaderExtents reports whether both were
	// present.
	HeaderMin        Point
	HeaderMax        Point
	HasHeaderExtents bool
}

// acadVersions maps $ACADVER values to release names.
var acadVersions = map[string]string{
	"AC1009": "R12",
	"AC1012": "R13",
	"AC1014": "R14",
	"AC1015": "R2000",
	"AC1018": "R2004",
	"AC1021": "R2007",
	"AC1024": "R2010",
	"AC1027": "R2013",
	"AC1032": "R2018",
}

// VersionName returns the release name for the document's $ACADVER value
// ("R2013" for "AC1027"). Unknown or missing versions are returned as-is.
func (d *Document) VersionName() string {
	if name, ok := acadVersions[d.Version]; ok {
		return name
	}
	return d.Version
}

// Bounds computes the drawing extents from the entity geometry. The result
// is invalid when the document has no supported entities; callers that
// need a drawable area must check Degenerate.
func (d *Document) Bounds() Extents {
	var ext Extents
	for _, e := range d.Entities {
		e.Extend(&ext)
	}
	return ext
}

// LayerColor returns the ACI color recorded for the named layer, or 7
// (white/black) when the layer is unknown. Negative table values are
// normalized to their positive color index.
func (d *Document) LayerColor(name string) int {
	for _, l := range d.Layers {
		if l.Name == name {
			if l.Color < 0 {
				return -l.Color
			}
			if l.Color == 0 {
				return 7
			}
			return l.Color
		}
	}
	return 7
}
