package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)
	router.Use(middleware.Compress(5, "application/json"))

	router.Route("/api", func(r chi.Router) {
		r.Post("/queue", h.queueRequest)
		r.Delete("/queue/tags/{tag}", h.cancelRequests)

		r.Post("/sync", h.synchronize)
		r.Get("/state", h.state)

		r.Put("/cache/{key}", h.cacheData)
		r.Get("/cache/{key}", h.getCachedData)
		r.Delete("/cache/{key}", h.removeCachedData)

		r.Delete("/offline", h.clearOfflineData)

		r.Get("/version", h.getVersion)
	})
	router.Method("GET", "/metrics", h.metrics)

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
