package httpapi

import (
	"math"
	"net/http"
	"strconv"

	"github.com/johnrirwin/fpviraq/internal/logging"
	"github.com/johnrirwin/fpviraq/internal/market"
)

// MarketAPI serves the marketplace listing priced in dinars
type MarketAPI struct {
	converter *market.Converter
	logger    *logging.Logger
}

func NewMarketAPI(converter *market.Converter, logger *logging.Logger) *MarketAPI {
	return &MarketAPI{
		converter: converter,
		logger:    logger,
	}
}

// RegisterRoutes registers marketplace routes on the given mux
func (api *MarketAPI) RegisterRoutes(mux *http.ServeMux, corsMiddleware func(http.HandlerFunc) http.HandlerFunc) {
	mux.HandleFunc("/api/market/products", corsMiddleware(api.handleProducts))
	mux.HandleFunc("/api/market/convert", corsMiddleware(api.handleConvert))
}

type convertResponse struct {
	USD          float64 `json:"usd"`
	IQD          int64   `json:"iqd"`
	Formatted    string  `json:"formatted"`
	ExchangeRate float64 `json:"exchangeRate"`
}

func (api *MarketAPI) handleProducts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, api.converter.Listing())
}

func (api *MarketAPI) handleConvert(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	usd, err := strconv.ParseFloat(r.URL.Query().Get("usd"), 64)
	if err != nil || math.IsNaN(usd) || math.IsInf(usd, 0) {
		writeError(w, http.StatusBadRequest, "invalid_input", "usd must be a number")
		return
	}

	writeJSON(w, http.StatusOK, convertResponse{
		USD:          usd,
		IQD:          api.converter.ToIQD(usd),
		Formatted:    api.converter.Format(usd),
		ExchangeRate: api.converter.Rate(),
	})
}
