package service

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/Sagar1205/QuickTask/internal/consts"
	"github.com/Sagar1205/QuickTask/internal/dao"
	"github.com/Sagar1205/QuickTask/internal/model"
)

// stubTaskDao implements dao.TaskDao for ordering-engine tests and counts
// every write it receives.
type stubTaskDao struct {
	tasks   map[string]*model.Task
	updates []map[string]any
}

func (s *stubTaskDao) Create(ctx context.Context, t *model.Task) error { s.tasks[t.ID] = t; return nil }
func (s *stubTaskDao) Get(ctx context.Context, id string) (*model.Task, error) {
	t, ok := s.tasks[id]
	if !ok {
		return nil, dao.ErrNotFound
	}
	return t, nil
}
func (s *stubTaskDao) ListByList(ctx context.Context, listID string) ([]*model.Task, error) {
	var out []*model.Task
	for _, t := range s.tasks {
		if t.ListID == listID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}
func (s *stubTaskDao) Update(ctx context.Context, id string, fields map[string]any) error {
	t, ok := s.tasks[id]
	if !ok {
		return dao.ErrNotFound
	}
	if v, ok := fields["position"]; ok {
		t.Position = v.(int)
	}
	if v, ok := fields["completed"]; ok {
		t.Completed = v.(bool)
	}
	rec := map[string]any{"id": id}
	for k, v := range fields {
		rec[k] = v
	}
	s.updates = append(s.updates, rec)
	return nil
}
func (s *stubTaskDao) Delete(ctx context.Context, id string) (*model.Task, error) {
	t, ok := s.tasks[id]
	if !ok {
		return nil, dao.ErrNotFound
	}
	delete(s.tasks, id)
	return t, nil
}

type stubFeed struct{ published int }

func (f *stubFeed) PublishChange(ctx context.Context, table, listID, action string) { f.published++ }

type stubAuditDao struct{ entries []*model.AuditLog }

func (s *stubAuditDao) Insert(ctx context.Context, e *model.AuditLog) error {
	s.entries = append(s.entries, e)
	return nil
}
func (s *stubAuditDao) ListByList(ctx context.Context, listID string, limit int) ([]*model.AuditLog, error) {
	return s.entries, nil
}

func newOrderingFixture(tasks ...*model.Task) (*TaskService, *stubTaskDao, *stubFeed) {
	da := &stubTaskDao{tasks: map[string]*model.Task{}}
	for _, t := range tasks {
		da.tasks[t.ID] = t
	}
	feed := &stubFeed{}
	return NewTaskService(da, &stubAuditDao{}, feed), da, feed
}

func TestSamePartitionReorder(t *testing.T) {
	svc, da, _ := newOrderingFixture(
		&model.Task{ID: "1", ListID: "L", Position: 0},
		&model.Task{ID: "2", ListID: "L", Position: 1},
		&model.Task{ID: "3", ListID: "L", Position: 0, Completed: true},
	)
	if err := svc.Reorder(context.Background(), "L", "1", DropTarget{OverTaskID: "2"}); err != nil {
		t.Fatalf("reorder failed: %v", err)
	}
	if da.tasks["2"].Position != 0 || da.tasks["1"].Position != 1 {
		t.Fatalf("expected [2,1], got 1@%d 2@%d", da.tasks["1"].Position, da.tasks["2"].Position)
	}
	if da.tasks["3"].Position != 0 || !da.tasks["3"].Completed {
		t.Fatalf("completed partition should be untouched")
	}
	if len(da.updates) != 2 {
		t.Fatalf("expected one update per changed sibling, got %d", len(da.updates))
	}
}

func TestSamePartitionRenumberIsDense(t *testing.T) {
	svc, da, _ := newOrderingFixture(
		&model.Task{ID: "a", ListID: "L", Position: 0},
		&model.Task{ID: "b", ListID: "L", Position: 1},
		&model.Task{ID: "c", ListID: "L", Position: 2},
		&model.Task{ID: "d", ListID: "L", Position: 3},
	)
	// move the last task to the front: every row shifts
	if err := svc.Reorder(context.Background(), "L", "d", DropTarget{OverTaskID: "a"}); err != nil {
		t.Fatalf("reorder failed: %v", err)
	}
	want := map[string]int{"d": 0, "a": 1, "b": 2, "c": 3}
	for id, pos := range want {
		if da.tasks[id].Position != pos {
			t.Fatalf("task %s: expected position %d, got %d", id, pos, da.tasks[id].Position)
		}
	}
	if len(da.updates) != 4 {
		t.Fatalf("expected 4 updates, got %d", len(da.updates))
	}
}

func TestCrossPartitionMarkerDropAppends(t *testing.T) {
	svc, da, _ := newOrderingFixture(
		&model.Task{ID: "1", ListID: "L", Position: 0},
		&model.Task{ID: "2", ListID: "L", Position: 1},
		&model.Task{ID: "3", ListID: "L", Position: 0, Completed: true},
	)
	if err := svc.Reorder(context.Background(), "L", "1", DropTarget{Partition: consts.PartitionCompleted}); err != nil {
		t.Fatalf("reorder failed: %v", err)
	}
	if !da.tasks["1"].Completed || da.tasks["1"].Position != 1 {
		t.Fatalf("expected {completed:true, position:1}, got {%v, %d}",
			da.tasks["1"].Completed, da.tasks["1"].Position)
	}
	// source partition keeps its gap: id 2 stays at its old position
	if da.tasks["2"].Position != 1 || da.tasks["2"].Completed {
		t.Fatalf("source partition must not be renumbered")
	}
	if len(da.updates) != 1 {
		t.Fatalf("cross-partition move should be a single update, got %d", len(da.updates))
	}
}

func TestDropOntoTaskInOtherPartition(t *testing.T) {
	svc, da, _ := newOrderingFixture(
		&model.Task{ID: "1", ListID: "L", Position: 0},
		&model.Task{ID: "2", ListID: "L", Position: 1},
		&model.Task{ID: "3", ListID: "L", Position: 0, Completed: true},
	)
	// dropping onto any task counts as dropping into that task's partition
	if err := svc.Reorder(context.Background(), "L", "3", DropTarget{OverTaskID: "1"}); err != nil {
		t.Fatalf("reorder failed: %v", err)
	}
	if da.tasks["3"].Completed || da.tasks["3"].Position != 2 {
		t.Fatalf("expected append at position 2, got {%v, %d}",
			da.tasks["3"].Completed, da.tasks["3"].Position)
	}
}

func TestDropOnSelfIsNoop(t *testing.T) {
	svc, da, feed := newOrderingFixture(
		&model.Task{ID: "1", ListID: "L", Position: 0},
		&model.Task{ID: "2", ListID: "L", Position: 1},
	)
	if err := svc.Reorder(context.Background(), "L", "1", DropTarget{OverTaskID: "1"}); err != nil {
		t.Fatalf("self-drop must not fail: %v", err)
	}
	if len(da.updates) != 0 {
		t.Fatalf("self-drop issued %d persistence calls", len(da.updates))
	}
	if feed.published != 0 {
		t.Fatalf("self-drop must not publish a change event")
	}
}

func TestReorderUnknownTask(t *testing.T) {
	svc, _, _ := newOrderingFixture(&model.Task{ID: "1", ListID: "L", Position: 0})
	err := svc.Reorder(context.Background(), "L", "missing", DropTarget{OverTaskID: "1"})
	if !errors.Is(err, dao.ErrNotFound) {
		t.Fatalf("expected not-found, got %v", err)
	}
}

func TestReorderInvalidTarget(t *testing.T) {
	svc, _, _ := newOrderingFixture(&model.Task{ID: "1", ListID: "L", Position: 0})
	err := svc.Reorder(context.Background(), "L", "1", DropTarget{})
	if !errors.Is(err, ErrInvalidTarget) {
		t.Fatalf("expected invalid target, got %v", err)
	}
	err = svc.Reorder(context.Background(), "L", "1", DropTarget{OverTaskID: "1", Partition: consts.PartitionActive})
	if !errors.Is(err, ErrInvalidTarget) {
		t.Fatalf("expected invalid target for both fields set, got %v", err)
	}
}

func TestToggleKeepsPosition(t *testing.T) {
	svc, da, _ := newOrderingFixture(
		&model.Task{ID: "1", ListID: "L", Position: 3},
	)
	out, err := svc.Toggle(context.Background(), "1", Actor{ID: "u"})
	if err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	if !out.Completed {
		t.Fatalf("expected completed after toggle")
	}
	// the toggle path never renumbers: position survives the partition change
	if da.tasks["1"].Position != 3 {
		t.Fatalf("toggle must not touch position, got %d", da.tasks["1"].Position)
	}
}
