package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"batteryswap/backend/services/kiosk-agent/internal/flow"
	"batteryswap/backend/services/kiosk-agent/internal/journal"
	"batteryswap/backend/services/kiosk-agent/internal/swap"
)

// Kiosk is the flow surface the screen drives.
type Kiosk interface {
	Snapshot() flow.Snapshot
	Confirm(ctx context.Context) error
	Back(ctx context.Context)
	Enter()
	DismissAlert()
}

// JournalReader lists recent journal rows.
type JournalReader interface {
	Recent(ctx context.Context, stationID string, limit int) ([]journal.Entry, error)
}

// NewHealthHandler returns GET /health handler.
func NewHealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// NewStateHandler returns GET /api/kiosk/state handler.
func NewStateHandler(k Kiosk) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, k.Snapshot())
	}
}

// NewStartHandler returns POST /api/kiosk/start handler.
func NewStartHandler(k Kiosk) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		k.Enter()
		writeJSON(w, http.StatusOK, k.Snapshot())
	}
}

// NewConfirmHandler returns POST /api/kiosk/confirm handler.
func NewConfirmHandler(k Kiosk, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := k.Confirm(r.Context()); err != nil {
			if errors.Is(err, swap.ErrInvalidTransition) {
				writeError(w, http.StatusConflict, "nothing to confirm at this step")
				return
			}
			logger.Error("confirm failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "confirm failed")
			return
		}
		writeJSON(w, http.StatusOK, k.Snapshot())
	}
}

// NewBackHandler returns POST /api/kiosk/back handler.
func NewBackHandler(k Kiosk) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		k.Back(r.Context())
		writeJSON(w, http.StatusOK, k.Snapshot())
	}
}

// NewDismissAlertHandler returns POST /api/kiosk/alert/dismiss handler.
func NewDismissAlertHandler(k Kiosk) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		k.DismissAlert()
		writeJSON(w, http.StatusOK, k.Snapshot())
	}
}

// NewJournalHandler returns GET /api/kiosk/journal handler.
func NewJournalHandler(reader JournalReader, stationID string, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 50
		if raw := r.URL.Query().Get("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed <= 0 {
				writeError(w, http.StatusBadRequest, "limit must be a positive integer")
				return
			}
			limit = parsed
		}
		entries, err := reader.Recent(r.Context(), stationID, limit)
		if err != nil {
			logger.Error("journal read failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to read journal")
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"entries": entries,
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
