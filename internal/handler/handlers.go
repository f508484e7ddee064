package handler

import (
	"github.com/MKhiriev/go-offline-sync/internal/config"
	"github.com/MKhiriev/go-offline-sync/internal/handler/http"
	"github.com/MKhiriev/go-offline-sync/internal/logger"
	"github.com/MKhiriev/go-offline-sync/internal/service"
	"github.com/MKhiriev/go-offline-sync/models"
	"github.com/prometheus/client_golang/prometheus"
)

// Handlers groups the transport handlers exposed by the agent.
type Handlers struct {
	HTTP *http.Handler
}

// NewHandlers builds the control API handlers on top of engine. The gatherer
// backs GET /metrics; nil falls back to the default Prometheus registry.
func NewHandlers(engine service.Engine, buildInfo models.AppBuildInfo, gatherer prometheus.Gatherer, cfg config.Server, strictOptions bool, logger *logger.Logger) (*Handlers, error) {
	logger.Info().Msg("creating new handlers...")

	if engine == nil {
		return nil, errNoEngine
	}
	if cfg.HTTPAddress == "" {
		return nil, errNoHandlersAreCreated
	}

	return &Handlers{
		HTTP: http.NewHandler(engine, buildInfo, gatherer, strictOptions, logger),
	}, nil
}
