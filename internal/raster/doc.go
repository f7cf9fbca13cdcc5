// Package raster renders parsed DXF documents into in-memory RGBA images.
//
// The renderer reproduces a plotter-style view of the modelspace: the
// drawing extents are fitted to the requested canvas with a uniform
// scale and a fixed margin, the Y axis is flipped so CAD +Y points up,
// and every entity is flattened into polylines that are stroked (or, for
// filled entities, scan-filled) onto a solid background.
//
// # Coordinate Mapping
//
// A Transform carries the CAD-to-pixel mapping that was used to render
// an Image. It is retained on the Image so that measurements taken in
// pixel space can be converted back to drawing units, and so that
// overlays drawn later line up with the original render.
//
// # Determinism
//
// Rendering the same document with the same options always produces an
// identical image. Entities are drawn in file order and all flattening
// step counts are derived from the geometry alone.
//
// # Error Handling
//
// Rasterize returns *GeometryError when the document contains nothing
// drawable: no entities at all, or extents with zero width or height.
// Callers distinguish this from a parse failure, which surfaces earlier
// as *dxf.ParseError.
package raster
