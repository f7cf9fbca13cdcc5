// Package server implements the MCP (Model Context Protocol) server for DXF contour analysis.
//
// This package provides a JSON-RPC 2.0 server that exposes the DXF
// loading, rasterization and contour classification pipeline through the
// MCP protocol, enabling AI systems to inspect CAD drawings with precision.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// The server provides 13 tools organized into categories:
//
// DXF Loading and Inspection:
//   - load_dxf: Parse a file and get version, layers, entity counts, extents
//   - dxf_entities: Per-entity listing with key parameters
//   - dxf_info: Server diagnostics (cache stats, supported kinds, OCR status)
//
// Rendering:
//   - rasterize_dxf: Render to PNG with transform parameters
//   - grid_overlay: Render with a drawing-unit reference grid
//   - export_region: Crop a pixel region from the render, optionally scaled
//   - measure_distance: Pixel points to drawing-unit distance
//
// Contour Analysis:
//   - analyze_contours: Full pipeline with per-contour metrics and hierarchy
//   - contour_hierarchy: Containment forest as a nested tree
//   - threshold_report: Per-method binarization contest scores
//   - classify_image: Run the classifier on an existing PNG/JPEG
//   - render_overlay: Diagnostic contour views (classified, outer, holes, ...)
//
// Annotation Verification:
//   - verify_annotations: OCR legibility check of TEXT/MTEXT entities
//
// # Document Caching
//
// The server maintains an in-memory cache of parsed DXF documents. Documents
// are cached by path and reused across multiple tool calls, avoiding
// redundant parsing. The cache persists for the lifetime of the server
// process.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// # Usage
//
// The server is typically started by an MCP client:
//
//	srv := server.New()
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
