// Package contour extracts and classifies the nesting hierarchy of
// shapes in a rendered drawing.
//
// The pipeline is binarize, label, trace, classify. The input image
// (dark ink on a light ground) is converted to a binary mask by three
// competing methods: a fixed threshold, an adaptive local-mean
// threshold, and Otsu's method. Each mask is flood-labeled into ink
// components and enclosed background regions, and the method that
// recovers the most root contours wins the contest.
//
// # Hierarchy Model
//
// Every ink component and every fully enclosed background region is a
// contour. Containment forms a forest held in an arena (Forest.Nodes,
// linked by indices): an ink component's parent is the background
// region that surrounds it, a region's parent is the component it is a
// void of. Depth therefore alternates between solid and background
// nodes, and classification follows depth alone: roots are outer
// boundaries, depth 1 contours are holes, and anything deeper is a
// sub-hole.
//
// # Error Handling
//
// Analyze returns *AnalysisError when no binarization method finds any
// contour, for instance on a blank render. Earlier pipeline stages
// report their own failures (*dxf.ParseError, *raster.GeometryError)
// before analysis begins.
package contour
