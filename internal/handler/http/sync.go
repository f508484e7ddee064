package http

import (
	"context"
	"net/http"

	"github.com/MKhiriev/go-offline-sync/internal/logger"
	"github.com/MKhiriev/go-offline-sync/internal/utils"
	"github.com/MKhiriev/go-offline-sync/models"
)

// synchronize runs a manual pass. The SyncResult is always returned; the
// status tells a rejected pass (409 busy, 503 offline) from one that ran.
// The pass outlives a client that disconnects mid-request.
func (h *Handler) synchronize(w http.ResponseWriter, r *http.Request) {
	ctx := utils.WithSyncTrigger(context.WithoutCancel(r.Context()), utils.TriggerManual)
	result := h.engine.Synchronize(ctx)

	logger.FromRequest(r).Info().
		Bool("success", result.Success).
		Int("synced", result.SyncedCount).
		Int("failed", result.FailedCount).
		Msg("manual sync finished")

	_, _ = utils.WriteJSON(w, result, syncStatus(result))
}

func (h *Handler) state(w http.ResponseWriter, r *http.Request) {
	_, _ = utils.WriteJSON(w, h.engine.State(), http.StatusOK)
}

func syncStatus(result models.SyncResult) int {
	if result.Success {
		return http.StatusOK
	}
	if len(result.Errors) == 0 {
		return http.StatusInternalServerError
	}

	switch result.Errors[0].Reason {
	case models.ReasonSyncInProgress:
		return http.StatusConflict
	case models.ReasonOffline:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
