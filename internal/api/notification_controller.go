package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/Sagar1205/QuickTask/internal/logging"
	"github.com/Sagar1205/QuickTask/internal/model"
	"github.com/Sagar1205/QuickTask/internal/service"
)

// NotificationController is the dispatcher's HTTP boundary. It reports
// success even when individual sends failed: delivery is best-effort and
// not transactional.
type NotificationController struct {
	notifier Dispatcher
}

func (nc *NotificationController) dispatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	// a body that fails to decode is reported the same way as a failed
	// dispatch; this boundary only distinguishes 200, 404 and 500
	var ev model.NotificationEvent
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		writeErr(w, http.StatusInternalServerError, "Notification failed")
		return
	}
	if err := nc.notifier.Dispatch(ctx, ev); err != nil {
		if errors.Is(err, service.ErrListNotFound) {
			writeErr(w, http.StatusNotFound, "List not found")
			return
		}
		logging.Error(ctx, "notification dispatch failed",
			zap.String("type", string(ev.Type)), zap.Error(err))
		writeErr(w, http.StatusInternalServerError, "Notification failed")
		return
	}
	writeJSON(w, map[string]any{"success": true})
}
