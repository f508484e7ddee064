package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-offline-sync/internal/logger"
	"github.com/MKhiriev/go-offline-sync/internal/utils"
	"github.com/MKhiriev/go-offline-sync/models"
)

type cacheDataBody struct {
	Data json.RawMessage `json:"data"`
	// ExpirationMS overrides the default TTL when set.
	ExpirationMS *int64 `json:"expiration_ms,omitempty"`
}

type cachedDataResponse struct {
	Key  string          `json:"key"`
	Data json.RawMessage `json:"data"`
}

type clearResponse struct {
	Cleared bool `json:"cleared"`
}

func (h *Handler) cacheData(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)
	key := chi.URLParam(r, "key")

	var body cacheDataBody
	if err := decodeJSON(r, &body); err != nil {
		log.Err(err).Str("func", "*Handler.cacheData").Msg("invalid JSON was passed")
		writeError(w, statusFromError(err), err.Error())
		return
	}

	var opts models.CacheOptions
	if body.ExpirationMS != nil {
		if *body.ExpirationMS < 0 {
			writeError(w, statusFromError(ErrNegativeExpiration), ErrNegativeExpiration.Error())
			return
		}
		opts = models.WithExpiration(time.Duration(*body.ExpirationMS) * time.Millisecond)
	}

	if err := h.engine.CacheData(r.Context(), key, body.Data, opts); err != nil {
		log.Err(err).Str("func", "*Handler.cacheData").Str("key", key).Msg("error caching data")
		writeError(w, statusFromError(err), err.Error())
		return
	}

	utils.WriteNoContent(w)
}

// getCachedData answers 404 when the entry is missing or expired.
func (h *Handler) getCachedData(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)
	key := chi.URLParam(r, "key")

	data, err := h.engine.GetCachedData(r.Context(), key, nil)
	if err != nil {
		log.Err(err).Str("func", "*Handler.getCachedData").Str("key", key).Msg("error reading cache")
		writeError(w, statusFromError(err), err.Error())
		return
	}
	if data == nil {
		writeError(w, http.StatusNotFound, "no cached data for key")
		return
	}

	_, _ = utils.WriteJSON(w, cachedDataResponse{Key: key, Data: data}, http.StatusOK)
}

func (h *Handler) removeCachedData(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	if err := h.engine.RemoveCachedData(r.Context(), key); err != nil {
		logger.FromRequest(r).Err(err).Str("func", "*Handler.removeCachedData").Str("key", key).Msg("error removing cache entry")
		writeError(w, statusFromError(err), err.Error())
		return
	}

	utils.WriteNoContent(w)
}

func (h *Handler) clearOfflineData(w http.ResponseWriter, r *http.Request) {
	if err := h.engine.ClearOfflineData(r.Context()); err != nil {
		logger.FromRequest(r).Err(err).Str("func", "*Handler.clearOfflineData").Msg("error clearing offline data")
		writeError(w, statusFromError(err), err.Error())
		return
	}

	_, _ = utils.WriteJSON(w, clearResponse{Cleared: true}, http.StatusOK)
}
