package api

import (
	"MarketPulse/internal/domain/models"
	"MarketPulse/internal/usecase"
	xhttp "MarketPulse/pkg/http"
	xlogger "MarketPulse/pkg/logger"

	"github.com/labstack/echo/v4"
)

// MarketHandler serves the market data and signal endpoints.
type MarketHandler struct {
	logger  *xlogger.Logger
	candles *usecase.CandlesUseCase
	signals *usecase.SignalsUseCase
	svc     *usecase.MarketService
}

func NewMarketHandler(logger *xlogger.Logger, candles *usecase.CandlesUseCase, signals *usecase.SignalsUseCase, svc *usecase.MarketService) *MarketHandler {
	return &MarketHandler{logger: logger, candles: candles, signals: signals, svc: svc}
}

func (h *MarketHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/candles", h.Candles)
	g.GET("/signals", h.Signals)
	g.GET("/signals/stats", h.SignalStats)
	g.GET("/signals/strategies", h.StrategyMetrics)
	g.GET("/regime", h.Regime)
	e.GET("/healthz", h.Health)
}

// Candles returns candle history for a symbol over a named period or
// an explicit from/to range.
func (h *MarketHandler) Candles(c echo.Context) error {
	req := &models.CandlesRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.candles.GetCandles(c.Request().Context(), *req)
	if err != nil {
		h.logger.Error("candles query error", xlogger.String("symbol", req.Symbol), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError(err.Error()))
	}
	return xhttp.SuccessResponse(c, res)
}

// Signals returns the active signal feed plus recently closed signals,
// optionally filtered by symbol.
func (h *MarketHandler) Signals(c echo.Context) error {
	req := &models.SignalsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	return xhttp.SuccessResponse(c, h.signals.Feed(req.Symbol))
}

// SignalStats returns aggregate signal performance.
func (h *MarketHandler) SignalStats(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.signals.Stats())
}

// StrategyMetrics returns per-strategy realized performance.
func (h *MarketHandler) StrategyMetrics(c echo.Context) error {
	metrics := h.signals.StrategyMetrics()
	return xhttp.ListResponse(c, metrics, int64(len(metrics)))
}

// Regime returns the current market regime snapshot for a symbol.
func (h *MarketHandler) Regime(c echo.Context) error {
	req := &models.RegimeRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	return xhttp.SuccessResponse(c, h.svc.Regime(req.Symbol))
}

// Health reports process liveness.
func (h *MarketHandler) Health(c echo.Context) error {
	return xhttp.SuccessResponse(c, map[string]string{"status": "ok"})
}
