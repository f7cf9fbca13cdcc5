package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// pathProperty is the "path" argument shared by every file-based tool.
func pathProperty(desc string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": desc,
	}
}

// renderSizeProperties are the optional canvas dimensions shared by the
// rendering and analysis tools.
func renderSizeProperties() map[string]interface{} {
	return map[string]interface{}{
		"width": map[string]interface{}{
			"type":        "integer",
			"description": "Canvas width in pixels (default 800)",
			"default":     800,
		},
		"height": map[string]interface{}{
			"type":        "integer",
			"description": "Canvas height in pixels (default 600)",
			"default":     600,
		},
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// DXF Loading and Inspection
		{
			Name:        "load_dxf",
			Description: "Parse a DXF file and return its format version, layers, entity counts by kind, and drawing extents. Caches the parsed document for subsequent operations.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty("Absolute path to the DXF file"),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "dxf_entities",
			Description: "List the entities of a DXF file with their key geometric parameters, optionally filtered by kind or layer.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty("Absolute path to the DXF file"),
					"kind": map[string]interface{}{
						"type":        "string",
						"description": "Only return entities of this kind (e.g. LINE, CIRCLE, LWPOLYLINE)",
					},
					"layer": map[string]interface{}{
						"type":        "string",
						"description": "Only return entities on this layer",
					},
					"limit": map[string]interface{}{
						"type":        "integer",
						"description": "Maximum number of entities to return (default 100)",
						"default":     100,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "dxf_info",
			Description: "Report server diagnostics: version, cached document count, supported entity kinds, and OCR backend availability.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},

		// Rendering
		{
			Name:        "rasterize_dxf",
			Description: "Render a DXF file to a PNG image (base64) and return the CAD-to-pixel transform parameters.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": mergeProperties(map[string]interface{}{
					"path": pathProperty("Absolute path to the DXF file"),
					"mode": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"kind", "layer", "mono"},
						"description": "Pen coloring: by entity kind, by layer ACI color, or monochrome (default kind)",
						"default":     "kind",
					},
					"thickness": map[string]interface{}{
						"type":        "integer",
						"description": "Stroke width in pixels (default 1)",
						"default":     1,
					},
					"outline_only": map[string]interface{}{
						"type":        "boolean",
						"description": "Stroke SOLID/HATCH boundaries instead of filling them",
						"default":     false,
					},
					"silhouette": map[string]interface{}{
						"type":        "boolean",
						"description": "Render closed geometry as a filled even-odd silhouette, as used for contour analysis",
						"default":     false,
					},
				}, renderSizeProperties()),
				"required": []string{"path"},
			},
		},
		{
			Name:        "grid_overlay",
			Description: "Render a DXF file with a drawing-unit reference grid overlaid, anchored to the CAD origin.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": mergeProperties(map[string]interface{}{
					"path": pathProperty("Absolute path to the DXF file"),
					"spacing": map[string]interface{}{
						"type":        "number",
						"description": "Grid spacing in drawing units. 0 picks a round step giving roughly ten divisions.",
						"default":     0,
					},
					"show_coordinates": map[string]interface{}{
						"type":        "boolean",
						"description": "Label grid lines with drawing coordinates",
						"default":     true,
					},
					"grid_color": map[string]interface{}{
						"type":        "string",
						"description": "Grid line color as hex (default #FF000080 - semi-transparent red)",
						"default":     "#FF000080",
					},
				}, renderSizeProperties()),
				"required": []string{"path"},
			},
		},
		{
			Name:        "export_region",
			Description: "Render a DXF file and crop a pixel region from the result, optionally scaled. Use this to zoom into details.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": mergeProperties(map[string]interface{}{
					"path": pathProperty("Absolute path to the DXF file"),
					"x1":   map[string]interface{}{"type": "integer", "description": "Left edge X (0-based)"},
					"y1":   map[string]interface{}{"type": "integer", "description": "Top edge Y (0-based)"},
					"x2":   map[string]interface{}{"type": "integer", "description": "Right edge X (exclusive)"},
					"y2":   map[string]interface{}{"type": "integer", "description": "Bottom edge Y (exclusive)"},
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Optional scale factor for the cropped result (e.g. 2.0 to double size). Default 1.0",
						"default":     1.0,
					},
				}, renderSizeProperties()),
				"required": []string{"path", "x1", "y1", "x2", "y2"},
			},
		},
		{
			Name:        "measure_distance",
			Description: "Measure the distance between two pixel points of a render, converted to drawing units through the render transform.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": mergeProperties(map[string]interface{}{
					"path": pathProperty("Absolute path to the DXF file"),
					"x1":   map[string]interface{}{"type": "integer", "description": "First point X"},
					"y1":   map[string]interface{}{"type": "integer", "description": "First point Y"},
					"x2":   map[string]interface{}{"type": "integer", "description": "Second point X"},
					"y2":   map[string]interface{}{"type": "integer", "description": "Second point Y"},
				}, renderSizeProperties()),
				"required": []string{"path", "x1", "y1", "x2", "y2"},
			},
		},

		// Contour Analysis
		{
			Name:        "analyze_contours",
			Description: "Run the full pipeline on a DXF file: render a filled silhouette, binarize with competing threshold methods, trace contours, and classify them as outer/hole/sub-hole. Returns per-contour metrics and the nesting hierarchy.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": mergeProperties(map[string]interface{}{
					"path": pathProperty("Absolute path to the DXF file"),
					"morphology": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"none", "close", "open"},
						"description": "Optional mask cleanup before tracing: close seals pinholes, open drops speckle",
						"default":     "none",
					},
					"include_overlay": map[string]interface{}{
						"type":        "boolean",
						"description": "Include a classified overlay image in the result",
						"default":     false,
					},
				}, renderSizeProperties()),
				"required": []string{"path"},
			},
		},
		{
			Name:        "contour_hierarchy",
			Description: "Return the contour containment hierarchy of a DXF file as a nested tree (class, depth, metrics per node).",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": mergeProperties(map[string]interface{}{
					"path": pathProperty("Absolute path to the DXF file"),
					"morphology": map[string]interface{}{
						"type":    "string",
						"enum":    []string{"none", "close", "open"},
						"default": "none",
					},
				}, renderSizeProperties()),
				"required": []string{"path"},
			},
		},
		{
			Name:        "threshold_report",
			Description: "Report how many contours each binarization method (fixed, adaptive, Otsu) recovers from a DXF render, and which method wins.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": mergeProperties(map[string]interface{}{
					"path": pathProperty("Absolute path to the DXF file"),
				}, renderSizeProperties()),
				"required": []string{"path"},
			},
		},
		{
			Name:        "classify_image",
			Description: "Run the contour classifier directly on an existing raster image file (PNG/JPEG) instead of a DXF render.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty("Absolute path to the image file"),
					"morphology": map[string]interface{}{
						"type":    "string",
						"enum":    []string{"none", "close", "open"},
						"default": "none",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "render_overlay",
			Description: "Render a diagnostic view of the analyzed contours: classified (colored by depth), outer-only, holes-only, sub-holes-only, filled silhouette, or the raw binary mask.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": mergeProperties(map[string]interface{}{
					"path": pathProperty("Absolute path to the DXF file"),
					"view": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"classified", "outer", "holes", "sub_holes", "filled", "mask"},
						"description": "Which view to render (default classified)",
						"default":     "classified",
					},
					"labels": map[string]interface{}{
						"type":        "boolean",
						"description": "Label contours with their area",
						"default":     false,
					},
				}, renderSizeProperties()),
				"required": []string{"path"},
			},
		},

		// Annotation Verification
		{
			Name:        "verify_annotations",
			Description: "Render a DXF file and check with OCR that its TEXT/MTEXT annotations are legible at the rendered resolution. Degrades gracefully when no OCR backend is built in.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": mergeProperties(map[string]interface{}{
					"path": pathProperty("Absolute path to the DXF file"),
					"language": map[string]interface{}{
						"type":        "string",
						"description": "OCR language hint (default 'eng')",
						"default":     "eng",
					},
				}, renderSizeProperties()),
				"required": []string{"path"},
			},
		},
	}
}

// mergeProperties combines tool-specific properties with a shared set.
func mergeProperties(own, shared map[string]interface{}) map[string]interface{} {
	for k, v := range shared {
		own[k] = v
	}
	return own
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
