package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Sagar1205/QuickTask/internal/consts"
	"github.com/Sagar1205/QuickTask/internal/dao"
	"github.com/Sagar1205/QuickTask/internal/logging"
	"github.com/Sagar1205/QuickTask/internal/model"
	"github.com/Sagar1205/QuickTask/internal/service"
)

type ListController struct {
	lists    *service.ListService
	notifier Dispatcher
}

func (lc *ListController) listLists(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	lists, err := lc.lists.Visible(r.Context(), actor.ID)
	if err != nil {
		logging.Error(r.Context(), "list fetch failed", zap.Error(err))
		writeErr(w, 500, "error fetching lists")
		return
	}
	if lists == nil {
		lists = []*model.ListView{}
	}
	writeJSON(w, lists)
}

func (lc *ListController) createList(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	var req struct {
		Title string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, 400, "invalid request body")
		return
	}
	l, err := lc.lists.Create(r.Context(), actor, req.Title)
	if err != nil {
		if errors.Is(err, service.ErrEmptyTitle) {
			writeErr(w, 400, err.Error())
			return
		}
		logging.Error(r.Context(), "list create failed", zap.Error(err))
		writeErr(w, 500, "error creating list")
		return
	}
	writeJSON(w, l)
}

func (lc *ListController) renameList(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	var req struct {
		Title string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, 400, "invalid request body")
		return
	}
	if err := lc.lists.Rename(r.Context(), actor, id, req.Title); err != nil {
		lc.writeListErr(r.Context(), w, err, "error updating list")
		return
	}
	writeJSON(w, map[string]any{"updated": true})
}

func (lc *ListController) deleteList(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	if err := lc.lists.Delete(r.Context(), actor, id); err != nil {
		lc.writeListErr(r.Context(), w, err, "error deleting list")
		return
	}
	writeJSON(w, map[string]any{"deleted": true})
}

func (lc *ListController) activity(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	entries, err := lc.lists.Activity(r.Context(), id, actor.ID)
	if err != nil {
		logging.Error(r.Context(), "activity fetch failed", zap.Error(err))
		writeErr(w, 500, "error fetching activity")
		return
	}
	writeJSON(w, entries)
}

func (lc *ListController) listMembers(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	members, err := lc.lists.Members(r.Context(), id)
	if err != nil {
		logging.Error(r.Context(), "member fetch failed", zap.Error(err))
		writeErr(w, 500, "error fetching members")
		return
	}
	if members == nil {
		members = []*model.MemberProfile{}
	}
	writeJSON(w, members)
}

func (lc *ListController) addMember(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	listID := chi.URLParam(r, "id")
	var req struct {
		UserID string `json:"user_id"`
		Role   string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, 400, "invalid request body")
		return
	}
	if req.UserID == "" {
		writeErr(w, 400, "user_id is required")
		return
	}
	err := lc.lists.AddMember(r.Context(), actor, listID, req.UserID, consts.Role(req.Role))
	if err != nil {
		if errors.Is(err, service.ErrInvalidRole) {
			writeErr(w, 400, err.Error())
			return
		}
		lc.writeListErr(r.Context(), w, err, "error adding member")
		return
	}
	lc.notify(model.NotificationEvent{
		Type:         consts.EventMemberAdded,
		ListID:       listID,
		ActorUserID:  actor.ID,
		ActorEmail:   actor.Email,
		TargetUserID: req.UserID,
	})
	writeJSON(w, map[string]any{"added": true})
}

func (lc *ListController) removeMember(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	listID := chi.URLParam(r, "id")
	userID := chi.URLParam(r, "uid")
	if err := lc.lists.RemoveMember(r.Context(), actor, listID, userID); err != nil {
		lc.writeListErr(r.Context(), w, err, "error removing member")
		return
	}
	writeJSON(w, map[string]any{"removed": true})
}

func (lc *ListController) searchUsers(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	email := r.URL.Query().Get("email")
	users, err := lc.lists.SearchUsers(r.Context(), email, actor.ID)
	if err != nil {
		logging.Error(r.Context(), "user search failed", zap.Error(err))
		writeErr(w, 500, "error searching users")
		return
	}
	writeJSON(w, users)
}

func (lc *ListController) writeListErr(ctx context.Context, w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrEmptyTitle):
		writeErr(w, 400, err.Error())
	case errors.Is(err, dao.ErrNotFound):
		writeErr(w, 404, "list not found")
	default:
		logging.Error(ctx, fallback, zap.Error(err))
		writeErr(w, 500, fallback)
	}
}

func (lc *ListController) notify(ev model.NotificationEvent) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		if err := lc.notifier.Dispatch(ctx, ev); err != nil {
			logging.Error(ctx, "notification dispatch failed",
				zap.String("type", string(ev.Type)), zap.String("list_id", ev.ListID), zap.Error(err))
		}
	}()
}
