package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"runtime"

	"github.com/anthonynsimon/bild/imgio"

	"github.com/ironsheep/pixelate/internal/imaging"
	"github.com/ironsheep/pixelate/internal/pixelate"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "image_pixelate").
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
//  3. Loads images from cache as needed
//  4. Calls the appropriate imaging/pixelate function
//  5. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Basic Image Information
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)

	// Color Operations
	case "image_sample_color":
		return s.handleImageSampleColor(args)
	case "image_block_average":
		return s.handleImageBlockAverage(args)

	// Pixelation
	case "image_partitions":
		return s.handleImagePartitions(args)
	case "image_pixelate":
		return s.handleImagePixelate(args)
	case "image_block_grid":
		return s.handleImageBlockGrid(args)

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

// === Basic Image Information Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.cache, a.Path)
}

// === Color Operation Handlers ===

type imageSampleColorArgs struct {
	Path string `json:"path"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

func (s *Server) handleImageSampleColor(args json.RawMessage) (interface{}, error) {
	var a imageSampleColorArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.SampleColor(img, a.X, a.Y)
}

type imageBlockAverageArgs struct {
	Path       string `json:"path"`
	SquareSize int    `json:"square_size"`
	Col        int    `json:"col"`
	Row        int    `json:"row"`
}

func (s *Server) handleImageBlockAverage(args json.RawMessage) (interface{}, error) {
	var a imageBlockAverageArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.BlockAverage(img, a.Col, a.Row, a.SquareSize)
}

// === Pixelation Handlers ===

type imagePartitionsArgs struct {
	Path       string `json:"path"`
	Width      int    `json:"width"`
	SquareSize int    `json:"square_size"`
	Workers    int    `json:"workers"`
}

// PartitionsResult describes the column ranges of a partitioned render.
type PartitionsResult struct {
	Width      int                  `json:"width"`
	SquareSize int                  `json:"square_size"`
	Workers    int                  `json:"workers"`
	Partitions []pixelate.Partition `json:"partitions"`
	Empty      int                  `json:"empty"`
}

func (s *Server) handleImagePartitions(args json.RawMessage) (interface{}, error) {
	var a imagePartitionsArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Path != "" {
		dims, err := imaging.GetDimensions(s.cache, a.Path)
		if err != nil {
			return nil, err
		}
		a.Width = dims.Width
	}
	if a.Workers <= 0 {
		a.Workers = runtime.NumCPU()
	}

	parts, err := pixelate.Partitions(a.Width, a.SquareSize, a.Workers)
	if err != nil {
		return nil, err
	}

	result := &PartitionsResult{
		Width:      a.Width,
		SquareSize: a.SquareSize,
		Workers:    a.Workers,
		Partitions: parts,
	}
	for _, p := range parts {
		if p.Empty() {
			result.Empty++
		}
	}
	return result, nil
}

type imagePixelateArgs struct {
	Path       string `json:"path"`
	SquareSize int    `json:"square_size"`
	Mode       string `json:"mode"`
	Workers    int    `json:"workers"`
	Output     string `json:"output"`
	Quality    int    `json:"quality"`
}

// PixelateResult reports a finished render.
type PixelateResult struct {
	JobID      string               `json:"job_id"`
	Mode       pixelate.Mode        `json:"mode"`
	SquareSize int                  `json:"square_size"`
	Width      int                  `json:"width"`
	Height     int                  `json:"height"`
	Partitions []pixelate.Partition `json:"partitions,omitempty"`
	Blocks     int                  `json:"blocks"`
	Pixels     int                  `json:"pixels"`
	Flushes    int64                `json:"flushes"`
	ElapsedMS  int64                `json:"elapsed_ms"`
	Output     string               `json:"output,omitempty"`

	// ImageBase64 holds the rendered PNG when no output file was requested.
	ImageBase64 string `json:"image_base64,omitempty"`
	MimeType    string `json:"mime_type,omitempty"`
}

// memoryTarget names in-memory renders in logs and progress events.
const memoryTarget = "memory"

func (s *Server) handleImagePixelate(args json.RawMessage) (interface{}, error) {
	var a imagePixelateArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Mode == "" {
		a.Mode = "S"
	}
	mode, err := pixelate.ParseMode(a.Mode)
	if err != nil {
		return nil, err
	}

	job := pixelate.NewRenderJob(a.SquareSize, mode, a.Output)
	job.Workers = a.Workers
	if err := job.Validate(); err != nil {
		return nil, err
	}

	var (
		store pixelate.Store
		mem   *imaging.MemoryStore
	)
	if a.Output != "" {
		fs := &imaging.FileStore{Quality: a.Quality}
		if _, err := fs.EncoderFor(a.Output); err != nil {
			return nil, err
		}
		store = fs
	} else {
		mem = imaging.NewMemoryStore()
		store = mem
		job.Target = memoryTarget
	}

	source, result, err := imaging.LoadBuffers(s.cache, a.Path)
	if err != nil {
		return nil, err
	}

	out := pixelate.NewOutputSync(job, result, store, nil)
	stats, err := pixelate.Run(context.Background(), job, source, out)
	if err != nil {
		return nil, err
	}

	res := &PixelateResult{
		JobID:      job.ID,
		Mode:       job.Mode,
		SquareSize: job.SquareSize,
		Width:      source.Width(),
		Height:     source.Height(),
		Blocks:     stats.Blocks,
		Pixels:     stats.Pixels,
		Flushes:    out.Flushes(),
		ElapsedMS:  stats.Elapsed.Milliseconds(),
		Output:     a.Output,
	}
	if mode == pixelate.ModePartitioned {
		workers := pixelate.NewConcurrentRenderer(job, source, out).Workers()
		if res.Partitions, err = pixelate.Partitions(source.Width(), job.SquareSize, workers); err != nil {
			return nil, err
		}
	}

	if mem != nil {
		var buf bytes.Buffer
		if err := imgio.PNGEncoder()(&buf, out.Result()); err != nil {
			return nil, fmt.Errorf("failed to encode result: %w", err)
		}
		res.ImageBase64 = base64.StdEncoding.EncodeToString(buf.Bytes())
		res.MimeType = "image/png"
	}
	return res, nil
}

type imageBlockGridArgs struct {
	Path            string `json:"path"`
	SquareSize      int    `json:"square_size"`
	Workers         int    `json:"workers"`
	Scale           int    `json:"scale"`
	ShowCoordinates bool   `json:"show_coordinates"`
	GridColor       string `json:"grid_color"`
	PartitionColor  string `json:"partition_color"`
}

func (s *Server) handleImageBlockGrid(args json.RawMessage) (interface{}, error) {
	var a imageBlockGridArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Scale == 0 {
		a.Scale = 1
	}
	if a.GridColor == "" {
		a.GridColor = "#FF000080"
	}
	if a.PartitionColor == "" {
		a.PartitionColor = "#FFFF00"
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	opts := imaging.BlockGridOptions{
		GridColor:       a.GridColor,
		PartitionColor:  a.PartitionColor,
		Scale:           a.Scale,
		ShowCoordinates: a.ShowCoordinates,
	}
	if a.Workers > 0 {
		opts.Partitions, err = pixelate.Partitions(img.Bounds().Dx(), a.SquareSize, a.Workers)
		if err != nil {
			return nil, err
		}
	}
	return imaging.BlockGridOverlay(img, a.SquareSize, opts)
}
