package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-offline-sync/internal/logger"
	"github.com/MKhiriev/go-offline-sync/internal/utils"
	"github.com/MKhiriev/go-offline-sync/models"
)

type queueRequestBody struct {
	Endpoint string          `json:"endpoint"`
	Method   string          `json:"method"`
	Payload  json.RawMessage `json:"payload,omitempty"`
	Options  json.RawMessage `json:"options,omitempty"`
}

type cancelResponse struct {
	Cancelled int `json:"cancelled"`
}

// queueRequest answers 202 when the request was queued and 200 when it was
// delivered immediately.
func (h *Handler) queueRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var body queueRequestBody
	if err := decodeJSON(r, &body); err != nil {
		log.Err(err).Str("func", "*Handler.queueRequest").Msg("invalid JSON was passed")
		writeError(w, statusFromError(err), err.Error())
		return
	}

	var opts models.RequestOptions
	if err := decodeOptions(body.Options, &opts, h.strictOptions); err != nil {
		log.Err(err).Str("func", "*Handler.queueRequest").Msg("invalid request options")
		writeError(w, statusFromError(err), err.Error())
		return
	}

	result, err := h.engine.QueueRequest(ctx, body.Endpoint, body.Method, body.Payload, opts)
	if err != nil {
		log.Err(err).Str("func", "*Handler.queueRequest").Msg("error queueing request")
		writeError(w, statusFromError(err), err.Error())
		return
	}

	status := http.StatusOK
	if result.Queued {
		status = http.StatusAccepted
	}
	_, _ = utils.WriteJSON(w, result, status)
}

func (h *Handler) cancelRequests(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)
	tag := chi.URLParam(r, "tag")

	n, err := h.engine.CancelRequests(r.Context(), tag)
	if err != nil {
		log.Err(err).Str("func", "*Handler.cancelRequests").Str("tag", tag).Msg("error cancelling requests")
		writeError(w, statusFromError(err), err.Error())
		return
	}

	_, _ = utils.WriteJSON(w, cancelResponse{Cancelled: n}, http.StatusOK)
}
