package server

import (
	"encoding/json"
	"fmt"
	"image/color"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/dxf-analysis-mcp/internal/contour"
	"github.com/ironsheep/dxf-analysis-mcp/internal/dxf"
	"github.com/ironsheep/dxf-analysis-mcp/internal/ocr"
	"github.com/ironsheep/dxf-analysis-mcp/internal/raster"
	"github.com/ironsheep/dxf-analysis-mcp/internal/render"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "load_dxf", "analyze_contours").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies default values for optional parameters
//  3. Loads documents from cache as needed
//  4. Calls the appropriate dxf/raster/contour/render function
//  5. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// DXF Loading and Inspection
	case "load_dxf":
		return s.handleLoadDXF(args)
	case "dxf_entities":
		return s.handleDXFEntities(args)
	case "dxf_info":
		return s.handleDXFInfo(args)

	// Rendering
	case "rasterize_dxf":
		return s.handleRasterizeDXF(args)
	case "grid_overlay":
		return s.handleGridOverlay(args)
	case "export_region":
		return s.handleExportRegion(args)
	case "measure_distance":
		return s.handleMeasureDistance(args)

	// Contour Analysis
	case "analyze_contours":
		return s.handleAnalyzeContours(args)
	case "contour_hierarchy":
		return s.handleContourHierarchy(args)
	case "threshold_report":
		return s.handleThresholdReport(args)
	case "classify_image":
		return s.handleClassifyImage(args)
	case "render_overlay":
		return s.handleRenderOverlay(args)

	// Annotation Verification
	case "verify_annotations":
		return s.handleVerifyAnnotations(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// render parses a file through the cache and rasterizes it.
func (s *Server) render(path string, opts raster.Options) (*raster.Image, error) {
	doc, err := s.docs.Load(path)
	if err != nil {
		return nil, err
	}
	return raster.Rasterize(doc, opts)
}

// silhouetteOptions configures the render the classifier consumes: the
// part geometry filled black on white paper, annotations left out.
func silhouetteOptions(width, height int) raster.Options {
	return raster.Options{
		Width:      width,
		Height:     height,
		Silhouette: true,
		Background: color.RGBA{255, 255, 255, 255},
		Pen:        color.RGBA{0, 0, 0, 255},
	}
}

// parseMorphology maps the tool argument onto the classifier's modes.
func parseMorphology(m string) (string, error) {
	switch m {
	case "", "none":
		return contour.MorphNone, nil
	case "close":
		return contour.MorphClose, nil
	case "open":
		return contour.MorphOpen, nil
	default:
		return "", fmt.Errorf("unknown morphology %q (want none, close or open)", m)
	}
}

// analyze runs the full pipeline: silhouette render, binarization
// contest, contour trace.
func (s *Server) analyze(path string, width, height int, morphology string) (*raster.Image, *contour.Result, error) {
	morph, err := parseMorphology(morphology)
	if err != nil {
		return nil, nil, err
	}
	rimg, err := s.render(path, silhouetteOptions(width, height))
	if err != nil {
		return nil, nil, err
	}
	res, err := contour.Analyze(rimg.RGBA, contour.Options{
		Params:     contour.DefaultParams(),
		Morphology: morph,
	})
	if err != nil {
		return nil, nil, err
	}
	return rimg, res, nil
}

// === DXF Loading and Inspection Handlers ===

type loadDXFArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleLoadDXF(args json.RawMessage) (interface{}, error) {
	var a loadDXFArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return dxf.LoadInfo(s.docs, a.Path)
}

type dxfEntitiesArgs struct {
	Path  string `json:"path"`
	Kind  string `json:"kind"`
	Layer string `json:"layer"`
	Limit int    `json:"limit"`
}

// entityListResult is the dxf_entities response.
type entityListResult struct {
	Total    int                      `json:"total"`
	Returned int                      `json:"returned"`
	Entities []map[string]interface{} `json:"entities"`
}

func (s *Server) handleDXFEntities(args json.RawMessage) (interface{}, error) {
	var a dxfEntitiesArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Limit == 0 {
		a.Limit = 100
	}
	doc, err := s.docs.Load(a.Path)
	if err != nil {
		return nil, err
	}

	result := &entityListResult{Entities: []map[string]interface{}{}}
	for i, e := range doc.Entities {
		if a.Kind != "" && e.Kind() != a.Kind {
			continue
		}
		if a.Layer != "" && e.Layer() != a.Layer {
			continue
		}
		result.Total++
		if len(result.Entities) < a.Limit {
			result.Entities = append(result.Entities, entitySummary(i, e))
		}
	}
	result.Returned = len(result.Entities)
	return result, nil
}

// entitySummary reduces an entity to its key parameters for listing.
func entitySummary(index int, e dxf.Entity) map[string]interface{} {
	m := map[string]interface{}{
		"index": index,
		"kind":  e.Kind(),
		"layer": e.Layer(),
		"color": e.ColorIndex(),
	}
	switch ent := e.(type) {
	case *dxf.Line:
		m["start"] = ent.Start
		m["end"] = ent.End
	case *dxf.Circle:
		m["center"] = ent.Center
		m["radius"] = ent.Radius
	case *dxf.Arc:
		m["center"] = ent.Center
		m["radius"] = ent.Radius
		m["start_angle"] = ent.StartAngle
		m["end_angle"] = ent.EndAngle
	case *dxf.LWPolyline:
		m["vertices"] = len(ent.Vertices)
		m["closed"] = ent.Closed
	case *dxf.Polyline:
		m["vertices"] = len(ent.Vertices)
		m["closed"] = ent.Closed
	case *dxf.Spline:
		m["degree"] = ent.Degree
		m["control_points"] = len(ent.ControlPoints)
		m["closed"] = ent.Closed
	case *dxf.Ellipse:
		m["center"] = ent.Center
		m["major_radius"] = ent.MajorRadius()
		m["ratio"] = ent.Ratio
	case *dxf.PointEntity:
		m["location"] = ent.Location
	case *dxf.Text:
		m["insert"] = ent.Insert
		m["height"] = ent.Height
		m["text"] = ent.PlainText()
	case *dxf.Solid:
		m["corners"] = len(ent.Corners)
	case *dxf.Hatch:
		m["loops"] = len(ent.Loops)
	}
	return m
}

// supportedKinds lists the entity kinds the parser decodes.
var supportedKinds = []string{
	dxf.KindLine, dxf.KindCircle, dxf.KindArc,
	dxf.KindLWPolyline, dxf.KindPolyline, dxf.KindSpline,
	dxf.KindEllipse, dxf.KindPoint,
	dxf.KindText, dxf.KindMText,
	dxf.KindSolid, dxf.KindFace, dxf.KindHatch,
}

func (s *Server) handleDXFInfo(args json.RawMessage) (interface{}, error) {
	return map[string]interface{}{
		"name":             "dxf-analysis-mcp",
		"version":          Version,
		"cached_documents": s.docs.Len(),
		"supported_kinds":  supportedKinds,
		"ocr":              ocr.Status(),
	}, nil
}

// === Rendering Handlers ===

type rasterizeDXFArgs struct {
	Path        string `json:"path"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Mode        string `json:"mode"`
	Thickness   int    `json:"thickness"`
	OutlineOnly bool   `json:"outline_only"`
	Silhouette  bool   `json:"silhouette"`
}

// rasterizeResult is the rasterize_dxf response: the image plus the
// transform needed to convert between pixel and drawing coordinates.
type rasterizeResult struct {
	render.EncodedImage

	Transform raster.Transform `json:"transform"`

	// MinX..MaxY are the drawing extents the render was fitted to.
	MinX float64 `json:"min_x"`
	MinY float64 `json:"min_y"`
	MaxX float64 `json:"max_x"`
	MaxY float64 `json:"max_y"`

	EntityCount int `json:"entity_count"`
}

func (s *Server) handleRasterizeDXF(args json.RawMessage) (interface{}, error) {
	var a rasterizeDXFArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	opts := raster.Options{
		Width:       a.Width,
		Height:      a.Height,
		Thickness:   a.Thickness,
		OutlineOnly: a.OutlineOnly,
	}
	switch a.Mode {
	case "", "kind":
		opts.Mode = raster.ColorByKind
	case "layer":
		opts.Mode = raster.ColorByLayer
	case "mono":
		opts.Mode = raster.Monochrome
	default:
		return nil, fmt.Errorf("unknown color mode %q (want kind, layer or mono)", a.Mode)
	}
	if a.Silhouette {
		opts = silhouetteOptions(a.Width, a.Height)
	}

	rimg, err := s.render(a.Path, opts)
	if err != nil {
		return nil, err
	}
	encoded, err := render.Encode(rimg.RGBA)
	if err != nil {
		return nil, err
	}
	return &rasterizeResult{
		EncodedImage: *encoded,
		Transform:    rimg.Transform,
		MinX:         rimg.Extents.MinX,
		MinY:         rimg.Extents.MinY,
		MaxX:         rimg.Extents.MaxX,
		MaxY:         rimg.Extents.MaxY,
		EntityCount:  rimg.EntityCount,
	}, nil
}

type gridOverlayArgs struct {
	Path            string  `json:"path"`
	Width           int     `json:"width"`
	Height          int     `json:"height"`
	Spacing         float64 `json:"spacing"`
	ShowCoordinates *bool   `json:"show_coordinates"`
	GridColor       string  `json:"grid_color"`
}

func (s *Server) handleGridOverlay(args json.RawMessage) (interface{}, error) {
	var a gridOverlayArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	showCoords := true
	if a.ShowCoordinates != nil {
		showCoords = *a.ShowCoordinates
	}
	if a.GridColor == "" {
		a.GridColor = "#FF000080"
	}

	rimg, err := s.render(a.Path, raster.Options{Width: a.Width, Height: a.Height})
	if err != nil {
		return nil, err
	}
	return render.Grid(rimg, a.Spacing, showCoords, a.GridColor)
}

type exportRegionArgs struct {
	Path   string  `json:"path"`
	Width  int     `json:"width"`
	Height int     `json:"height"`
	X1     int     `json:"x1"`
	Y1     int     `json:"y1"`
	X2     int     `json:"x2"`
	Y2     int     `json:"y2"`
	Scale  float64 `json:"scale"`
}

func (s *Server) handleExportRegion(args json.RawMessage) (interface{}, error) {
	var a exportRegionArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}

	rimg, err := s.render(a.Path, raster.Options{Width: a.Width, Height: a.Height})
	if err != nil {
		return nil, err
	}
	return render.CropRegion(rimg, a.X1, a.Y1, a.X2, a.Y2, a.Scale)
}

type measureDistanceArgs struct {
	Path   string `json:"path"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	X1     int    `json:"x1"`
	Y1     int    `json:"y1"`
	X2     int    `json:"x2"`
	Y2     int    `json:"y2"`
}

func (s *Server) handleMeasureDistance(args json.RawMessage) (interface{}, error) {
	var a measureDistanceArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	rimg, err := s.render(a.Path, raster.Options{Width: a.Width, Height: a.Height})
	if err != nil {
		return nil, err
	}
	return rimg.MeasureDistance(a.X1, a.Y1, a.X2, a.Y2), nil
}

// === Contour Analysis Handlers ===

type analyzeContoursArgs struct {
	Path           string `json:"path"`
	Width          int    `json:"width"`
	Height         int    `json:"height"`
	Morphology     string `json:"morphology"`
	IncludeOverlay bool   `json:"include_overlay"`
}

// analyzeResult is the analyze_contours response.
type analyzeResult struct {
	Method contour.Method        `json:"method"`
	Counts []contour.MethodCount `json:"counts"`

	// ClassCounts maps outer/hole/sub_hole to the number of contours
	// of that class.
	ClassCounts map[contour.Class]int `json:"class_counts"`

	// MainExterior indexes the largest root contour, -1 when there is
	// none.
	MainExterior int `json:"main_exterior"`

	Contours []contour.Contour `json:"contours"`
	Roots    []int             `json:"roots"`

	Overlay *render.EncodedImage `json:"overlay,omitempty"`
}

func (s *Server) handleAnalyzeContours(args json.RawMessage) (interface{}, error) {
	var a analyzeContoursArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	_, res, err := s.analyze(a.Path, a.Width, a.Height, a.Morphology)
	if err != nil {
		return nil, err
	}

	result := &analyzeResult{
		Method:       res.Method,
		Counts:       res.Counts,
		ClassCounts:  res.Forest.CountByClass(),
		MainExterior: res.Forest.MainExterior(),
		Contours:     res.Forest.Nodes,
		Roots:        res.Forest.Roots,
	}
	if a.IncludeOverlay {
		overlay, err := render.Overlay(res, render.ViewClassified, false)
		if err != nil {
			return nil, err
		}
		result.Overlay = overlay
	}
	return result, nil
}

type contourHierarchyArgs struct {
	Path       string `json:"path"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	Morphology string `json:"morphology"`
}

// hierarchyNode is one contour in the nested contour_hierarchy tree.
type hierarchyNode struct {
	Index       int             `json:"index"`
	Class       contour.Class   `json:"class"`
	Depth       int             `json:"depth"`
	Area        float64         `json:"area"`
	Circularity float64         `json:"circularity"`
	Centroid    contour.PointF  `json:"centroid"`
	Children    []hierarchyNode `json:"children,omitempty"`
}

func buildHierarchy(forest *contour.Forest, index int) hierarchyNode {
	c := &forest.Nodes[index]
	node := hierarchyNode{
		Index:       index,
		Class:       c.Class,
		Depth:       c.Depth,
		Area:        c.Area,
		Circularity: c.Circularity,
		Centroid:    c.Centroid,
	}
	for _, child := range c.Children {
		node.Children = append(node.Children, buildHierarchy(forest, child))
	}
	return node
}

func (s *Server) handleContourHierarchy(args json.RawMessage) (interface{}, error) {
	var a contourHierarchyArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	_, res, err := s.analyze(a.Path, a.Width, a.Height, a.Morphology)
	if err != nil {
		return nil, err
	}

	trees := make([]hierarchyNode, 0, len(res.Forest.Roots))
	for _, root := range res.Forest.Roots {
		trees = append(trees, buildHierarchy(res.Forest, root))
	}
	return map[string]interface{}{
		"method": res.Method,
		"roots":  trees,
	}, nil
}

type thresholdReportArgs struct {
	Path   string `json:"path"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

func (s *Server) handleThresholdReport(args json.RawMessage) (interface{}, error) {
	var a thresholdReportArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	_, res, err := s.analyze(a.Path, a.Width, a.Height, "none")
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"winner": res.Method,
		"counts": res.Counts,
	}, nil
}

type classifyImageArgs struct {
	Path       string `json:"path"`
	Morphology string `json:"morphology"`
}

func (s *Server) handleClassifyImage(args json.RawMessage) (interface{}, error) {
	var a classifyImageArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	morph, err := parseMorphology(a.Morphology)
	if err != nil {
		return nil, err
	}

	img, err := imaging.Open(a.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to load image: %w", err)
	}

	res, err := contour.Analyze(img, contour.Options{
		Params:     contour.DefaultParams(),
		Morphology: morph,
	})
	if err != nil {
		return nil, err
	}

	return &analyzeResult{
		Method:       res.Method,
		Counts:       res.Counts,
		ClassCounts:  res.Forest.CountByClass(),
		MainExterior: res.Forest.MainExterior(),
		Contours:     res.Forest.Nodes,
		Roots:        res.Forest.Roots,
	}, nil
}

type renderOverlayArgs struct {
	Path   string `json:"path"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	View   string `json:"view"`
	Labels bool   `json:"labels"`
}

func (s *Server) handleRenderOverlay(args json.RawMessage) (interface{}, error) {
	var a renderOverlayArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.View == "" {
		a.View = string(render.ViewClassified)
	}

	_, res, err := s.analyze(a.Path, a.Width, a.Height, "none")
	if err != nil {
		return nil, err
	}
	return render.Overlay(res, render.View(a.View), a.Labels)
}

// === Annotation Verification Handlers ===

type verifyAnnotationsArgs struct {
	Path     string `json:"path"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Language string `json:"language"`
}

func (s *Server) handleVerifyAnnotations(args json.RawMessage) (interface{}, error) {
	var a verifyAnnotationsArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Language == "" {
		a.Language = "eng"
	}

	doc, err := s.docs.Load(a.Path)
	if err != nil {
		return nil, err
	}

	var want []string
	for _, e := range doc.Entities {
		if t, ok := e.(*dxf.Text); ok {
			want = append(want, t.PlainText())
		}
	}

	// High-contrast monochrome render gives OCR its best shot.
	rimg, err := raster.Rasterize(doc, raster.Options{
		Width:      a.Width,
		Height:     a.Height,
		Mode:       raster.Monochrome,
		Background: color.RGBA{255, 255, 255, 255},
		Pen:        color.RGBA{0, 0, 0, 255},
	})
	if err != nil {
		return nil, err
	}
	return ocr.VerifyAnnotations(rimg.RGBA, want, a.Language)
}
