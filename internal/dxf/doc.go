// Package dxf reads DXF CAD files into a sequence of geometric entities.
//
// DXF (Drawing Exchange Format) is a tagged text format: the file is a flat
// list of group code / value pairs, organized into sections (HEADER, TABLES,
// BLOCKS, ENTITIES, ...). This package parses the sections relevant to
// analysis and exposes the modelspace entities as typed Go values.
//
// # Supported Entities
//
// The parser decodes LINE, CIRCLE, ARC, LWPOLYLINE, POLYLINE, SPLINE,
// ELLIPSE, POINT, TEXT, MTEXT, SOLID, 3DFACE, and HATCH records. Any other
// entity kind is counted (see Document.Counts) but produces no Entity value.
// Only the 2D projection is kept: Z coordinates are read and discarded.
//
// # Coordinate System
//
// Entity coordinates are in drawing units with the Y axis pointing up, as
// stored in the file. Mapping to pixel coordinates is the rasterizer's job.
//
// # Error Handling
//
// Malformed input (bad group codes, truncated pairs, unexpected end of file,
// binary DXF) is reported as *ParseError, which records the offending line
// number and wraps the underlying cause. A structurally valid file with no
// entities parses successfully; emptiness is the caller's concern.
//
// # Thread Safety
//
// Parsed Documents are immutable and safe to share. The DocumentCache type
// is safe for concurrent use.
package dxf
