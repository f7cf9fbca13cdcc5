package raster

import "fmt"

// GeometryError reports a document that parsed correctly but cannot be
// rendered: it has no entities, or its extents are degenerate (zero
// width or height, as with a single point or one horizontal line).
type GeometryError struct {
	// Reason describes what made the document unrenderable.
	Reason string

	// EntityCount is the number of decoded entities in the document.
	EntityCount int
}

func (e *GeometryError) Error() string {
	return fmt.Sprintf("cannot rasterize drawing: %s", e.Reason)
}
