package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
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

const dueDateLayout = "2006-01-02"

type TaskController struct {
	tasks    *service.TaskService
	lists    *service.ListService
	notifier Dispatcher
}

func (tc *TaskController) listTasks(w http.ResponseWriter, r *http.Request) {
	listID := chi.URLParam(r, "id")
	tasks, err := tc.tasks.List(r.Context(), listID)
	if err != nil {
		logging.Error(r.Context(), "task list failed", zap.Error(err))
		writeErr(w, 500, "error fetching tasks")
		return
	}
	if tasks == nil {
		tasks = []*model.Task{}
	}
	writeJSON(w, tasks)
}

func (tc *TaskController) createTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	listID := chi.URLParam(r, "id")
	var req struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Priority    int    `json:"priority"`
		DueDate     string `json:"due_date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, 400, "invalid request body")
		return
	}
	in := service.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    consts.Priority(req.Priority),
	}
	if req.DueDate != "" {
		d, err := time.Parse(dueDateLayout, req.DueDate)
		if err != nil {
			writeErr(w, 400, "invalid due_date")
			return
		}
		in.DueDate = &d
	}
	t, err := tc.tasks.Create(ctx, listID, actor, in)
	if err != nil {
		if errors.Is(err, service.ErrEmptyTitle) || errors.Is(err, service.ErrInvalidPriority) {
			writeErr(w, 400, err.Error())
			return
		}
		logging.Error(ctx, "task create failed", zap.Error(err))
		writeErr(w, 500, "error creating task")
		return
	}
	tc.notify(model.NotificationEvent{
		Type:        consts.EventTaskCreated,
		ListID:      listID,
		ActorUserID: actor.ID,
		ActorEmail:  actor.Email,
		TaskTitle:   t.Title,
	})
	writeJSON(w, t)
}

func (tc *TaskController) updateTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	var req struct {
		Title        *string `json:"title"`
		Description  *string `json:"description"`
		Priority     *int    `json:"priority"`
		DueDate      *string `json:"due_date"`
		ClearDueDate bool    `json:"clear_due_date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, 400, "invalid request body")
		return
	}
	in := service.UpdateTaskInput{
		Title:        req.Title,
		Description:  req.Description,
		ClearDueDate: req.ClearDueDate,
	}
	if req.Priority != nil {
		p := consts.Priority(*req.Priority)
		in.Priority = &p
	}
	if req.DueDate != nil && *req.DueDate != "" {
		d, err := time.Parse(dueDateLayout, *req.DueDate)
		if err != nil {
			writeErr(w, 400, "invalid due_date")
			return
		}
		in.DueDate = &d
	}
	t, err := tc.tasks.Update(ctx, id, actor, in)
	if err != nil {
		tc.writeTaskErr(ctx, w, err, "error updating task")
		return
	}
	tc.notify(model.NotificationEvent{
		Type:        consts.EventTaskUpdated,
		ListID:      t.ListID,
		ActorUserID: actor.ID,
		ActorEmail:  actor.Email,
		TaskTitle:   t.Title,
	})
	writeJSON(w, t)
}

func (tc *TaskController) deleteTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	t, err := tc.tasks.Delete(ctx, id, actor)
	if err != nil {
		tc.writeTaskErr(ctx, w, err, "error deleting task")
		return
	}
	tc.notify(model.NotificationEvent{
		Type:        consts.EventTaskDeleted,
		ListID:      t.ListID,
		ActorUserID: actor.ID,
		ActorEmail:  actor.Email,
		TaskTitle:   t.Title,
	})
	writeJSON(w, t)
}

func (tc *TaskController) toggleTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	t, err := tc.tasks.Toggle(ctx, id, actor)
	if err != nil {
		tc.writeTaskErr(ctx, w, err, "error updating task status")
		return
	}
	writeJSON(w, map[string]any{"id": t.ID, "completed": t.Completed})
}

func (tc *TaskController) reorder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if _, ok := requireActor(w, r); !ok {
		return
	}
	listID := chi.URLParam(r, "id")
	var req struct {
		TaskID     string `json:"task_id"`
		OverTaskID string `json:"over_task_id"`
		Partition  string `json:"partition"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, 400, "invalid request body")
		return
	}
	if req.TaskID == "" {
		writeErr(w, 400, "task_id is required")
		return
	}
	target := service.DropTarget{
		OverTaskID: req.OverTaskID,
		Partition:  consts.Partition(req.Partition),
	}
	err := tc.tasks.Reorder(ctx, listID, req.TaskID, target)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidTarget):
			writeErr(w, 400, err.Error())
		case errors.Is(err, dao.ErrNotFound):
			writeErr(w, 404, "task not found")
		default:
			logging.Error(ctx, "reorder failed", zap.Error(err))
			writeErr(w, 500, "error reordering tasks")
		}
		return
	}
	writeJSON(w, map[string]any{"reordered": true})
}

func (tc *TaskController) writeTaskErr(ctx context.Context, w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrEmptyTitle) || errors.Is(err, service.ErrInvalidPriority):
		writeErr(w, 400, err.Error())
	case errors.Is(err, dao.ErrNotFound):
		writeErr(w, 404, "task not found")
	default:
		logging.Error(ctx, fmt.Sprintf("%s: %v", fallback, err))
		writeErr(w, 500, fallback)
	}
}

// notify is fire-and-forget: the mutation already succeeded, a dispatch
// failure must not fail the request.
func (tc *TaskController) notify(ev model.NotificationEvent) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		if err := tc.notifier.Dispatch(ctx, ev); err != nil {
			logging.Error(ctx, "notification dispatch failed",
				zap.String("type", string(ev.Type)), zap.String("list_id", ev.ListID), zap.Error(err))
		}
	}()
}
