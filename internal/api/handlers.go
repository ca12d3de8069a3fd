package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"marketdash/internal/model"
)

// Health handles GET /health requests.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "OK",
		"service":   ServiceName,
		"version":   ServiceVersion,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// Watchlist handles GET /api/v1/watchlist requests.
func (h *Handler) Watchlist(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"modes":   DashboardModes,
		"indices": h.indexList,
		"stocks":  h.stockList,
	})
}

// IndexHistory handles GET /api/v1/indices/:symbol/history requests.
func (h *Handler) IndexHistory(c *gin.Context) {
	symbol := c.Param("symbol")
	if !h.indices[symbol] {
		h.unknownSymbol(c, symbol)
		return
	}

	hist := h.svc.IndexHistory(c.Request.Context(), symbol)
	c.JSON(http.StatusOK, gin.H{
		"symbol": symbol,
		"empty":  hist.Empty(),
		"rows":   hist.Rows,
		"chart":  indexChart(hist),
	})
}

// StockOverview handles GET /api/v1/stocks/:symbol/overview requests.
func (h *Handler) StockOverview(c *gin.Context) {
	symbol := c.Param("symbol")
	if !h.stocks[symbol] {
		h.unknownSymbol(c, symbol)
		return
	}

	ov := h.svc.StockOverview(c.Request.Context(), symbol)
	c.JSON(http.StatusOK, gin.H{
		"symbol":  symbol,
		"empty":   ov.History.Empty(),
		"rows":    ov.History.Rows,
		"metrics": ov.Metrics,
		"chart":   closeChart(ov.History),
	})
}

// Financials handles GET /api/v1/stocks/:symbol/financials requests.
func (h *Handler) Financials(c *gin.Context) {
	symbol := c.Param("symbol")
	if !h.stocks[symbol] {
		h.unknownSymbol(c, symbol)
		return
	}

	snap := h.svc.Financials(c.Request.Context(), symbol)
	c.JSON(http.StatusOK, gin.H{
		"symbol":  symbol,
		"empty":   snap.Empty(),
		"periods": snap.Periods,
		"rows":    snap.Rows,
	})
}

// InvalidateCache handles POST /api/v1/cache/invalidate requests. The
// invalidation is global, not scoped to the selected symbol.
func (h *Handler) InvalidateCache(c *gin.Context) {
	n := h.svc.InvalidateCache()
	c.JSON(http.StatusOK, gin.H{"invalidated": n})
}

func (h *Handler) unknownSymbol(c *gin.Context, symbol string) {
	c.JSON(http.StatusNotFound, gin.H{"error": "unknown symbol: " + symbol})
}

// indexChart builds the line-chart series for an index dashboard: close
// price with the two moving averages overlaid.
func indexChart(hist model.History) gin.H {
	dates := make([]string, len(hist.Rows))
	closes := make([]float64, len(hist.Rows))
	sma := make([]*float64, len(hist.Rows))
	ema := make([]*float64, len(hist.Rows))
	for i, r := range hist.Rows {
		dates[i] = r.Date.Format("2006-01-02")
		closes[i] = r.Close
		sma[i] = r.SMA20
		ema[i] = r.EMA20
	}
	return gin.H{"dates": dates, "close": closes, "sma_20": sma, "ema_20": ema}
}

// closeChart builds the close-price series for the stock dashboard.
func closeChart(hist model.History) gin.H {
	dates := make([]string, len(hist.Rows))
	closes := make([]float64, len(hist.Rows))
	for i, r := range hist.Rows {
		dates[i] = r.Date.Format("2006-01-02")
		closes[i] = r.Close
	}
	return gin.H{"dates": dates, "close": closes}
}
