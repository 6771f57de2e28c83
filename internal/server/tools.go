package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the image file",
	}
}

func squareSizeProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "integer",
		"description": "Side of a pixelation block in pixels (must be > 0)",
	}
}

func workersProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "integer",
		"description": "Number of column partitions for partitioned mode. 0 = one per CPU",
		"default":     0,
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Basic Image Information
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions and format. Sets this as the active image for subsequent operations.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},

		// Color Operations
		{
			Name:        "image_sample_color",
			Description: "Get the exact color value at a specific pixel coordinate.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"x": map[string]interface{}{
						"type":        "integer",
						"description": "X coordinate (0-based, from left)",
					},
					"y": map[string]interface{}{
						"type":        "integer",
						"description": "Y coordinate (0-based, from top)",
					},
				},
				"required": []string{"path", "x", "y"},
			},
		},
		{
			Name:        "image_block_average",
			Description: "Compute the average color of one pixelation block, addressed by block column and row. Edge blocks are clipped to the image.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":        pathProperty(),
					"square_size": squareSizeProperty(),
					"col": map[string]interface{}{
						"type":        "integer",
						"description": "Block column (0-based, from left)",
					},
					"row": map[string]interface{}{
						"type":        "integer",
						"description": "Block row (0-based, from top)",
					},
				},
				"required": []string{"path", "square_size", "col", "row"},
			},
		},

		// Pixelation
		{
			Name:        "image_partitions",
			Description: "Show how a partitioned render splits the image into block-aligned column ranges, one per worker. Give either a path or a width.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"width": map[string]interface{}{
						"type":        "integer",
						"description": "Image width in pixels (used when no path is given)",
					},
					"square_size": squareSizeProperty(),
					"workers":     workersProperty(),
				},
				"required": []string{"square_size"},
			},
		},
		{
			Name:        "image_pixelate",
			Description: "Pixelate an image by replacing every square block with its average color. Writes to output when given, otherwise returns the result as base64-encoded PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":        pathProperty(),
					"square_size": squareSizeProperty(),
					"mode": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"S", "M"},
						"description": "S = sequential, M = partitioned across workers. Default S",
						"default":     "S",
					},
					"workers": workersProperty(),
					"output": map[string]interface{}{
						"type":        "string",
						"description": "Optional output file (.jpg, .png or .bmp), rewritten after every block",
					},
					"quality": map[string]interface{}{
						"type":        "integer",
						"description": "JPEG quality for .jpg output (1-100). Default 90",
						"default":     90,
					},
				},
				"required": []string{"path", "square_size"},
			},
		},
		{
			Name:        "image_block_grid",
			Description: "Overlay the pixelation block grid, and optionally the partition boundaries of a partitioned render, on an image.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":        pathProperty(),
					"square_size": squareSizeProperty(),
					"workers": map[string]interface{}{
						"type":        "integer",
						"description": "When > 0, also draw the partition boundaries for this many workers",
						"default":     0,
					},
					"scale": map[string]interface{}{
						"type":        "integer",
						"description": "Nearest-neighbor upscale factor applied before drawing (1-16). Default 1",
						"default":     1,
					},
					"show_coordinates": map[string]interface{}{
						"type":        "boolean",
						"description": "Label each block with its col,row",
						"default":     false,
					},
					"grid_color": map[string]interface{}{
						"type":        "string",
						"description": "Grid line color in hex. Default #FF000080",
						"default":     "#FF000080",
					},
					"partition_color": map[string]interface{}{
						"type":        "string",
						"description": "Partition boundary color in hex. Default #FFFF00",
						"default":     "#FFFF00",
					},
				},
				"required": []string{"path", "square_size"},
			},
		},
	}
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
