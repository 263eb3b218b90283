package http

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler mounts a group of API routes on the shared echo instance.
type Handler interface {
	RegisterRoutes(e *echo.Echo)
}

// HandlerFunc lets a plain function act as a Handler.
type HandlerFunc func(e *echo.Echo)

func (f HandlerFunc) RegisterRoutes(e *echo.Echo) { f(e) }

// metricsHandler serves the prometheus scrape endpoint at path.
func metricsHandler(path string, g prometheus.Gatherer) Handler {
	return HandlerFunc(func(e *echo.Echo) {
		e.GET(path, echo.WrapHandler(promhttp.HandlerFor(g, promhttp.HandlerOpts{})))
	})
}
