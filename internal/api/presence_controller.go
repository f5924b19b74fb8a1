package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Sagar1205/QuickTask/internal/logging"
	"github.com/Sagar1205/QuickTask/internal/realtime"
)

type PresenceController struct {
	presence PresenceTracker
}

func (pc *PresenceController) join(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	listID := chi.URLParam(r, "id")
	if err := pc.presence.Join(r.Context(), listID, actor.ID, actor.Email); err != nil {
		logging.Error(r.Context(), "presence join failed", zap.Error(err))
		writeErr(w, 500, "error joining presence")
		return
	}
	writeJSON(w, map[string]any{"joined": true})
}

func (pc *PresenceController) heartbeat(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	listID := chi.URLParam(r, "id")
	if err := pc.presence.Heartbeat(r.Context(), listID, actor.ID); err != nil {
		logging.Error(r.Context(), "presence heartbeat failed", zap.Error(err))
		writeErr(w, 500, "error recording heartbeat")
		return
	}
	writeJSON(w, map[string]any{"ok": true})
}

func (pc *PresenceController) leave(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	listID := chi.URLParam(r, "id")
	if err := pc.presence.Leave(r.Context(), listID, actor.ID); err != nil {
		logging.Error(r.Context(), "presence leave failed", zap.Error(err))
		writeErr(w, 500, "error leaving presence")
		return
	}
	writeJSON(w, map[string]any{"left": true})
}

func (pc *PresenceController) snapshot(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	listID := chi.URLParam(r, "id")
	peers, err := pc.presence.Snapshot(r.Context(), listID, actor.ID)
	if err != nil {
		logging.Error(r.Context(), "presence snapshot failed", zap.Error(err))
		writeErr(w, 500, "error fetching presence")
		return
	}
	if peers == nil {
		peers = []realtime.Peer{}
	}
	writeJSON(w, peers)
}
