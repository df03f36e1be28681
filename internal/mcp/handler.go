package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/johnrirwin/fpviraq/internal/catalog"
	"github.com/johnrirwin/fpviraq/internal/compare"
	"github.com/johnrirwin/fpviraq/internal/detail"
	"github.com/johnrirwin/fpviraq/internal/logging"
	"github.com/johnrirwin/fpviraq/internal/market"
	"github.com/johnrirwin/fpviraq/internal/models"
	"github.com/johnrirwin/fpviraq/internal/news"
	"github.com/johnrirwin/fpviraq/internal/vault"
)

type Handler struct {
	catalog   *catalog.Store
	vault     *vault.Store
	converter *market.Converter
	news      *news.Hub
	logger    *logging.Logger
}

// NewHandler builds the tool set. vault and hub may be nil, which hides their tools.
func NewHandler(store *catalog.Store, projects *vault.Store, converter *market.Converter, hub *news.Hub, logger *logging.Logger) *Handler {
	return &Handler{
		catalog:   store,
		vault:     projects,
		converter: converter,
		news:      hub,
		logger:    logger,
	}
}

// Info identifies the server to MCP clients
func (h *Handler) Info() ServerInfo {
	return ServerInfo{Name: "fpv-iraq-catalog", Version: "1.0.0"}
}

// Instructions summarizes the catalog for the client's model
func (h *Handler) Instructions() string {
	categories := h.catalog.Categories()
	if len(categories) > 0 && categories[0] == models.FilterAll {
		categories = categories[1:]
	}
	return fmt.Sprintf(
		"FPV parts catalog for Iraq with %d parts (%s). Prices are in USD; convert_price quotes dinars at %v IQD per USD.",
		h.catalog.Len(), strings.Join(categories, ", "), h.converter.Rate(),
	)
}

type ToolDefinition struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"inputSchema"`
}

type SearchPartsParams struct {
	Query    string `json:"query"`
	Category string `json:"category"`
	Brand    string `json:"brand"`
	Limit    int    `json:"limit"`
	Offset   int    `json:"offset"`
}

type GetPartParams struct {
	ID string `json:"id"`
}

type ComparePartsParams struct {
	IDs []string `json:"ids"`
}

type ConvertPriceParams struct {
	USD float64 `json:"usd"`
}

type GetNewsParams struct {
	Category string `json:"category"`
	Limit    int    `json:"limit"`
}

type PartDetail struct {
	Part        models.PartRecord `json:"part"`
	Specs       []detail.SpecRow  `json:"specs"`
	Gallery     []string          `json:"gallery"`
	DisplayTags []string          `json:"displayTags"`
	RealPhoto   bool              `json:"realPhoto"`
	Local       bool              `json:"local"`
}

type Comparison struct {
	Parts      []models.PartRecord     `json:"parts"`
	Rows       []compare.Row           `json:"rows"`
	Highlights map[string]compare.Best `json:"highlights"`
}

type PriceQuote struct {
	USD          float64 `json:"usd"`
	IQD          int64   `json:"iqd"`
	Formatted    string  `json:"formatted"`
	ExchangeRate float64 `json:"exchangeRate"`
}

func (h *Handler) GetTools() []ToolDefinition {
	tools := []ToolDefinition{
		{
			Name:        "search_parts",
			Description: "Search the FPV parts catalog by name or brand, optionally narrowed to a category and brand.",
			InputSchema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"query": {
						"type": "string",
						"description": "Case-insensitive substring of the part name or brand"
					},
					"category": {
						"type": "string",
						"description": "Exact category, e.g. Motor, ESC, Flight Controller (default: All)"
					},
					"brand": {
						"type": "string",
						"description": "Exact brand, e.g. T-Motor (default: All)"
					},
					"limit": {
						"type": "integer",
						"description": "Maximum number of parts to return (default: 20)"
					},
					"offset": {
						"type": "integer",
						"description": "Number of matching parts to skip"
					}
				}
			}`),
		},
		{
			Name:        "get_part",
			Description: "Get one catalog part with its spec sheet, gallery and availability badges.",
			InputSchema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"id": {
						"type": "string",
						"description": "Part id, e.g. vtx_dji_o3"
					}
				},
				"required": ["id"]
			}`),
		},
		{
			Name:        "compare_parts",
			Description: "Compare up to 3 parts side by side and flag the best weight, current and KV.",
			InputSchema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"ids": {
						"type": "array",
						"items": {"type": "string"},
						"description": "Between 1 and 3 part ids"
					}
				},
				"required": ["ids"]
			}`),
		},
		{
			Name:        "convert_price",
			Description: "Convert a US dollar price into Iraqi dinars at the configured exchange rate.",
			InputSchema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"usd": {
						"type": "number",
						"description": "Price in US dollars"
					}
				},
				"required": ["usd"]
			}`),
		},
	}

	if h.vault != nil {
		tools = append(tools, ToolDefinition{
			Name:        "list_projects",
			Description: "List the builds saved in the project vault with their total cost.",
			InputSchema: json.RawMessage(`{
				"type": "object",
				"properties": {}
			}`),
		})
	}

	if h.news != nil {
		tools = append(tools, ToolDefinition{
			Name:        "get_news",
			Description: "Get curated FPV highlights and the latest firmware and community news.",
			InputSchema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"category": {
						"type": "string",
						"description": "Filter by category, e.g. Firmware, Hardware, Local Stock"
					},
					"limit": {
						"type": "integer",
						"description": "Maximum number of items to return (default: 20)"
					}
				}
			}`),
		})
	}

	return tools
}

func (h *Handler) HandleToolCall(ctx context.Context, name string, arguments json.RawMessage) (interface{}, error) {
	switch name {
	case "search_parts":
		return h.handleSearchParts(arguments)
	case "get_part":
		return h.handleGetPart(arguments)
	case "compare_parts":
		return h.handleCompareParts(arguments)
	case "convert_price":
		return h.handleConvertPrice(arguments)
	case "list_projects":
		if h.vault != nil {
			return h.vault.List(), nil
		}
	case "get_news":
		if h.news != nil {
			return h.handleGetNews(ctx, arguments)
		}
	}
	return nil, &ToolError{Message: "Unknown tool: " + name}
}

func decodeArgs(arguments json.RawMessage, dst interface{}) error {
	if len(arguments) == 0 {
		return nil
	}
	if err := json.Unmarshal(arguments, dst); err != nil {
		return &ToolError{Message: "Invalid arguments: " + err.Error()}
	}
	return nil
}

func (h *Handler) handleSearchParts(arguments json.RawMessage) (interface{}, error) {
	var params SearchPartsParams
	if err := decodeArgs(arguments, &params); err != nil {
		return nil, err
	}
	if params.Limit <= 0 {
		params.Limit = 20
	}

	filter := models.FilterState{
		SearchTerm: params.Query,
		Category:   params.Category,
		Brand:      params.Brand,
	}.Normalize()

	matched := h.catalog.Search(filter)
	return models.PartListResponse{
		Parts:      catalog.Page(matched, params.Limit, params.Offset),
		TotalCount: len(matched),
		Filter:     filter,
	}, nil
}

func (h *Handler) handleGetPart(arguments json.RawMessage) (interface{}, error) {
	var params GetPartParams
	if err := decodeArgs(arguments, &params); err != nil {
		return nil, err
	}
	if params.ID == "" {
		return nil, &ToolError{Message: "id is required"}
	}

	part, err := h.catalog.Get(params.ID)
	if err != nil {
		return nil, &ToolError{Message: err.Error()}
	}

	return PartDetail{
		Part:        part,
		Specs:       detail.SpecRows(part),
		Gallery:     detail.Gallery(part),
		DisplayTags: detail.DisplayTags(part),
		RealPhoto:   detail.HasRealPhoto(part),
		Local:       detail.IsLocal(part),
	}, nil
}

func (h *Handler) handleCompareParts(arguments json.RawMessage) (interface{}, error) {
	var params ComparePartsParams
	if err := decodeArgs(arguments, &params); err != nil {
		return nil, err
	}
	if len(params.IDs) == 0 {
		return nil, &ToolError{Message: "ids is required"}
	}

	set := compare.NewSet()
	for _, id := range params.IDs {
		part, err := h.catalog.Get(id)
		if err != nil {
			return nil, &ToolError{Message: err.Error()}
		}
		if set.Contains(id) {
			continue
		}
		if _, err := set.Toggle(part); err != nil {
			return nil, &ToolError{Message: err.Error()}
		}
	}

	parts := set.Parts()
	return Comparison{
		Parts:      parts,
		Rows:       compare.Table(parts),
		Highlights: compare.Highlights(parts),
	}, nil
}

func (h *Handler) handleConvertPrice(arguments json.RawMessage) (interface{}, error) {
	var params ConvertPriceParams
	if err := decodeArgs(arguments, &params); err != nil {
		return nil, err
	}
	if math.IsNaN(params.USD) || math.IsInf(params.USD, 0) {
		return nil, &ToolError{Message: "usd must be a finite number"}
	}

	return PriceQuote{
		USD:          params.USD,
		IQD:          h.converter.ToIQD(params.USD),
		Formatted:    h.converter.Format(params.USD),
		ExchangeRate: h.converter.Rate(),
	}, nil
}

func (h *Handler) handleGetNews(ctx context.Context, arguments json.RawMessage) (interface{}, error) {
	var params GetNewsParams
	if err := decodeArgs(arguments, &params); err != nil {
		return nil, err
	}
	if params.Limit == 0 {
		params.Limit = 20
	}

	return h.news.Items(ctx, models.NewsFilterParams{
		Category: params.Category,
		Limit:    params.Limit,
	}), nil
}

type ToolError struct {
	Message string
}

func (e *ToolError) Error() string {
	return e.Message
}
