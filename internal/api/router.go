package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Sagar1205/QuickTask/internal/metrics"
	"github.com/Sagar1205/QuickTask/internal/model"
	"github.com/Sagar1205/QuickTask/internal/realtime"
	"github.com/Sagar1205/QuickTask/internal/service"
)

// Dispatcher is the notification fan-out boundary.
type Dispatcher interface {
	Dispatch(ctx context.Context, ev model.NotificationEvent) error
}

// EventStream delivers a list's realtime events until cancel is called.
type EventStream interface {
	Subscribe(ctx context.Context, listID string) (<-chan model.ChangeEvent, func())
}

// PresenceTracker tracks which users currently have a list open.
type PresenceTracker interface {
	Join(ctx context.Context, listID, userID, email string) error
	Heartbeat(ctx context.Context, listID, userID string) error
	Leave(ctx context.Context, listID, userID string) error
	Snapshot(ctx context.Context, listID, selfID string) ([]realtime.Peer, error)
}

// Dependencies injected into the controllers.
type Dependencies struct {
	Tasks    *service.TaskService
	Lists    *service.ListService
	Notifier Dispatcher
	Stream   EventStream
	Presence PresenceTracker
	Metrics  *metrics.Metrics
	Version  string
}

func NewRouter(dep Dependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)
	if dep.Metrics != nil {
		r.Use(requestMetrics(dep.Metrics))
	}
	// no global timeout middleware: the events route holds its
	// connection open for the lifetime of the client

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/api/v1/version", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(dep.Version))
	})
	if dep.Metrics != nil {
		r.Handle("/metrics", dep.Metrics.Handler())
	}

	taskCtrl := &TaskController{tasks: dep.Tasks, lists: dep.Lists, notifier: dep.Notifier}
	listCtrl := &ListController{lists: dep.Lists, notifier: dep.Notifier}
	notifCtrl := &NotificationController{notifier: dep.Notifier}
	presCtrl := &PresenceController{presence: dep.Presence}
	streamCtrl := &StreamController{stream: dep.Stream}

	r.Route("/api/v1/lists", func(r chi.Router) {
		r.Get("/", listCtrl.listLists)
		r.Post("/", listCtrl.createList)

		r.Put("/{id}", listCtrl.renameList)
		r.Delete("/{id}", listCtrl.deleteList)
		r.Get("/{id}/logs", listCtrl.activity)

		r.Get("/{id}/members", listCtrl.listMembers)
		r.Post("/{id}/members", listCtrl.addMember)
		r.Delete("/{id}/members/{uid}", listCtrl.removeMember)

		r.Get("/{id}/tasks", taskCtrl.listTasks)
		r.Post("/{id}/tasks", taskCtrl.createTask)
		r.Post("/{id}/reorder", taskCtrl.reorder)

		r.Get("/{id}/events", streamCtrl.events)

		r.Get("/{id}/presence", presCtrl.snapshot)
		r.Post("/{id}/presence/join", presCtrl.join)
		r.Post("/{id}/presence/heartbeat", presCtrl.heartbeat)
		r.Delete("/{id}/presence", presCtrl.leave)
	})

	r.Route("/api/v1/tasks", func(r chi.Router) {
		r.Put("/{id}", taskCtrl.updateTask)
		r.Delete("/{id}", taskCtrl.deleteTask)
		r.Patch("/{id}/toggle", taskCtrl.toggleTask)
	})

	r.Get("/api/v1/users/search", listCtrl.searchUsers)
	r.Post("/api/v1/notifications", notifCtrl.dispatch)

	return r
}
