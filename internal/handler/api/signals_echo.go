package api

import (
	"context"
	"time"

	models "FxSignals/internal/domain/models"
	"FxSignals/internal/service/metrics"
	xhttp "FxSignals/pkg/http"
	xlogger "FxSignals/pkg/logger"

	"github.com/labstack/echo/v4"
)

// Aggregator produces a fresh signal envelope per call.
type Aggregator interface {
	Aggregate(ctx context.Context) (*models.ResponseEnvelope, error)
}

// SignalsEchoHandler serves the ranked signal snapshot.
type SignalsEchoHandler struct {
	logger  *xlogger.Logger
	agg     Aggregator
	metrics *metrics.EndpointMetrics
}

func NewSignalsEchoHandler(logger *xlogger.Logger, agg Aggregator, m *metrics.EndpointMetrics) *SignalsEchoHandler {
	return &SignalsEchoHandler{logger: logger, agg: agg, metrics: m}
}

func (h *SignalsEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/signals", h.Signals)
	g.GET("/health", h.Health)
}

// Signals runs one aggregation. Responses are never cached.
func (h *SignalsEchoHandler) Signals(c echo.Context) error {
	start := time.Now()
	c.Response().Header().Set(echo.HeaderCacheControl, "no-store")

	env, err := h.agg.Aggregate(c.Request().Context())
	h.metrics.Observe("signals", time.Since(start).Seconds(), err != nil)
	if err != nil {
		h.logger.Error("signals usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalError("signal aggregation failed").WithError(err))
	}
	return xhttp.SuccessResponse(c, env)
}

func (h *SignalsEchoHandler) Health(c echo.Context) error {
	return xhttp.SuccessResponse(c, xhttp.StatusBody{Status: "ok"})
}
