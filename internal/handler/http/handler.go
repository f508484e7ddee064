package http

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MKhiriev/go-offline-sync/internal/logger"
	"github.com/MKhiriev/go-offline-sync/internal/service"
	"github.com/MKhiriev/go-offline-sync/models"
)

type Handler struct {
	engine    service.Engine
	buildInfo models.AppBuildInfo
	metrics   http.Handler

	// strictOptions rejects unknown keys in request options.
	strictOptions bool

	logger *logger.Logger
}

// NewHandler builds the control API over engine. gatherer backs /metrics;
// nil uses the default Prometheus registry.
func NewHandler(engine service.Engine, buildInfo models.AppBuildInfo, gatherer prometheus.Gatherer, strictOptions bool, logger *logger.Logger) *Handler {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	logger.Info().Bool("strict_options", strictOptions).Msg("http handler created")
	return &Handler{
		engine:        engine,
		buildInfo:     buildInfo,
		metrics:       promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}),
		strictOptions: strictOptions,
		logger:        logger,
	}
}
