// Package render produces the diagnostic images of the analysis
// pipeline: classified contour overlays, filled part silhouettes,
// reference grids in drawing units, and region crops of a render.
//
// Every function returns its image base64-encoded as PNG, ready to be
// embedded in a tool result. Inputs are the rasterizer's output
// (*raster.Image, which carries the CAD-to-pixel transform) or the
// classifier's output (*contour.Result); the drawing itself is never
// re-read here.
//
// # Views
//
// Overlay renders one of six views of a classification result: the
// combined classified view, outer boundaries only, holes only,
// sub-holes only, the filled silhouette, and the raw binary mask the
// winning threshold produced.
//
// # Coordinate Conventions
//
// Overlay views live in the pixel space of the analyzed image. Grid and
// crop operate on a render and can be addressed in drawing units, which
// are converted through the render's transform.
package render
