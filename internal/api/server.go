// Package api is the HTTP boundary consumed by the browser dashboard. Its
// contract toward the presentation layer: either a populated, schema-stable
// tabular result or an explicitly empty one, plus a metrics mapping that
// always contains all expected keys.
package api

import (
	"context"

	"github.com/gin-gonic/gin"

	"marketdash/internal/dashboard"
	"marketdash/internal/model"
)

const (
	ServiceName    = "market-dashboard"
	ServiceVersion = "1.0.0"
)

// Dashboard mode labels offered to the UI.
var DashboardModes = []string{"Industry Indices", "Stocks"}

// DashboardService is the surface the HTTP layer consumes.
type DashboardService interface {
	IndexHistory(ctx context.Context, symbol string) model.History
	StockOverview(ctx context.Context, symbol string) dashboard.Overview
	Financials(ctx context.Context, symbol string) model.FinancialSnapshot
	InvalidateCache() int
}

// Handler handles HTTP requests for both dashboards.
type Handler struct {
	svc     DashboardService
	indices map[string]bool
	stocks  map[string]bool

	indexList []string
	stockList []string
}

// NewHandler creates a handler serving the given fixed watchlists.
func NewHandler(svc DashboardService, indices, stocks []string) *Handler {
	h := &Handler{
		svc:       svc,
		indices:   make(map[string]bool, len(indices)),
		stocks:    make(map[string]bool, len(stocks)),
		indexList: indices,
		stockList: stocks,
	}
	for _, s := range indices {
		h.indices[s] = true
	}
	for _, s := range stocks {
		h.stocks[s] = true
	}
	return h
}

// Router builds the gin engine with all routes registered.
func (h *Handler) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", h.Health)

	v1 := r.Group("/api/v1")
	v1.GET("/watchlist", h.Watchlist)
	v1.GET("/indices/:symbol/history", h.IndexHistory)
	v1.GET("/stocks/:symbol/overview", h.StockOverview)
	v1.GET("/stocks/:symbol/financials", h.Financials)
	v1.POST("/cache/invalidate", h.InvalidateCache)

	return r
}
