package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Sagar1205/QuickTask/internal/consts"
	"github.com/Sagar1205/QuickTask/internal/dao"
	"github.com/Sagar1205/QuickTask/internal/logging"
	"github.com/Sagar1205/QuickTask/internal/model"
)

var (
	ErrEmptyTitle      = errors.New("title is required")
	ErrInvalidPriority = errors.New("priority must be 0, 1 or 2")
)

// Actor identifies the user performing a mutation.
type Actor struct {
	ID    string
	Email string
}

// ChangePublisher pushes invalidation events to the realtime feed.
type ChangePublisher interface {
	PublishChange(ctx context.Context, table, listID, action string)
}

// TaskService owns task CRUD plus the ordering engine. Each call works on
// its own fetched copy of the list's tasks; concurrent calls against the
// same list are not coordinated.
type TaskService struct {
	tasks  dao.TaskDao
	audits dao.AuditDao
	feed   ChangePublisher
}

func NewTaskService(tasks dao.TaskDao, audits dao.AuditDao, feed ChangePublisher) *TaskService {
	return &TaskService{tasks: tasks, audits: audits, feed: feed}
}

type CreateTaskInput struct {
	Title       string
	Description string
	Priority    consts.Priority
	DueDate     *time.Time
}

type UpdateTaskInput struct {
	Title        *string
	Description  *string
	Priority     *consts.Priority
	DueDate      *time.Time
	ClearDueDate bool
}

func (s *TaskService) List(ctx context.Context, listID string) ([]*model.Task, error) {
	return s.tasks.ListByList(ctx, listID)
}

func (s *TaskService) Get(ctx context.Context, id string) (*model.Task, error) {
	return s.tasks.Get(ctx, id)
}

// Create inserts a new task at position 0. Ordering is normalized only by
// later drag gestures, matching how clients render newest-first.
func (s *TaskService) Create(ctx context.Context, listID string, actor Actor, in CreateTaskInput) (*model.Task, error) {
	if in.Title == "" {
		return nil, ErrEmptyTitle
	}
	if !in.Priority.Valid() {
		return nil, ErrInvalidPriority
	}
	t := &model.Task{
		ID:          uuid.NewString(),
		ListID:      listID,
		Title:       in.Title,
		Description: in.Description,
		Priority:    in.Priority,
		DueDate:     in.DueDate,
		Position:    0,
	}
	if err := s.tasks.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	s.audit(ctx, listID, actor, consts.AuditTaskCreated, model.TitleMetadata(t.Title))
	s.feed.PublishChange(ctx, consts.TableTasks, listID, "insert")
	return t, nil
}

func (s *TaskService) Update(ctx context.Context, id string, actor Actor, in UpdateTaskInput) (*model.Task, error) {
	fields := map[string]any{}
	if in.Title != nil {
		if *in.Title == "" {
			return nil, ErrEmptyTitle
		}
		fields["title"] = *in.Title
	}
	if in.Description != nil {
		fields["description"] = *in.Description
	}
	if in.Priority != nil {
		if !in.Priority.Valid() {
			return nil, ErrInvalidPriority
		}
		fields["priority"] = *in.Priority
	}
	if in.DueDate != nil {
		fields["due_date"] = *in.DueDate
	} else if in.ClearDueDate {
		fields["due_date"] = nil
	}
	if len(fields) == 0 {
		return s.tasks.Get(ctx, id)
	}
	if err := s.tasks.Update(ctx, id, fields); err != nil {
		return nil, err
	}
	t, err := s.tasks.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.audit(ctx, t.ListID, actor, consts.AuditTaskUpdated, model.TitleMetadata(t.Title))
	s.feed.PublishChange(ctx, consts.TableTasks, t.ListID, "update")
	return t, nil
}

// Delete removes the task outright and returns the deleted row.
func (s *TaskService) Delete(ctx context.Context, id string, actor Actor) (*model.Task, error) {
	t, err := s.tasks.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	s.audit(ctx, t.ListID, actor, consts.AuditTaskDeleted, model.TitleMetadata(t.Title))
	s.feed.PublishChange(ctx, consts.TableTasks, t.ListID, "delete")
	return t, nil
}

// Toggle flips the completed flag only. The task keeps its old position
// even though it changed partitions; the drag path is the one that
// renumbers. Kept as a separate code path on purpose.
func (s *TaskService) Toggle(ctx context.Context, id string, actor Actor) (*model.Task, error) {
	t, err := s.tasks.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.tasks.Update(ctx, id, map[string]any{"completed": !t.Completed}); err != nil {
		return nil, err
	}
	t.Completed = !t.Completed
	s.audit(ctx, t.ListID, actor, consts.AuditTaskUpdated, model.TitleMetadata(t.Title))
	s.feed.PublishChange(ctx, consts.TableTasks, t.ListID, "update")
	return t, nil
}

// Reorder applies a drag-end gesture. Sibling updates are written one row
// at a time in index order; a failure mid-way returns the error and leaves
// the earlier writes in place (no transaction wraps the renumbering).
func (s *TaskService) Reorder(ctx context.Context, listID, draggedID string, target DropTarget) error {
	tasks, err := s.tasks.ListByList(ctx, listID)
	if err != nil {
		return fmt.Errorf("fetch tasks: %w", err)
	}
	plan, err := planReorder(tasks, draggedID, target)
	if err != nil {
		return err
	}
	if len(plan) == 0 {
		return nil
	}
	for _, u := range plan {
		if err := s.tasks.Update(ctx, u.taskID, u.fields); err != nil {
			return fmt.Errorf("persist position of task %s: %w", u.taskID, err)
		}
	}
	s.feed.PublishChange(ctx, consts.TableTasks, listID, "update")
	return nil
}

// audit is best-effort: a failed trail insert is logged, never surfaced.
func (s *TaskService) audit(ctx context.Context, listID string, actor Actor, action, metadata string) {
	entry := &model.AuditLog{
		ID:         uuid.NewString(),
		ListID:     listID,
		ActorID:    actor.ID,
		Action:     action,
		EntityType: "task",
		Metadata:   metadata,
	}
	if err := s.audits.Insert(ctx, entry); err != nil {
		logging.Error(ctx, "audit insert failed",
			zap.String("action", action), zap.String("list_id", listID), zap.Error(err))
	}
}
