package service

import (
	"errors"

	"github.com/Sagar1205/QuickTask/internal/consts"
	"github.com/Sagar1205/QuickTask/internal/dao"
	"github.com/Sagar1205/QuickTask/internal/model"
)

// ErrInvalidTarget is returned when a drop target names neither a sibling
// task nor a partition marker.
var ErrInvalidTarget = errors.New("drop target must be a task or a partition")

// DropTarget is where a dragged task lands: either over a concrete sibling
// or over one of the two partition markers. Exactly one field is set.
type DropTarget struct {
	OverTaskID string
	Partition  consts.Partition
}

func (t DropTarget) valid() bool {
	if t.OverTaskID != "" {
		return t.Partition == ""
	}
	return t.Partition.Valid()
}

// positionUpdate is one pending write against a task row.
type positionUpdate struct {
	taskID string
	fields map[string]any
}

// planReorder turns a drag-end gesture into the minimal set of row writes.
// tasks must be the list's tasks ordered by position. An empty plan means
// the gesture is a no-op and nothing should be persisted.
//
// Same-partition drops over a sibling renumber that partition densely
// 0..n-1. Cross-partition drops (and drops onto a partition marker) append
// the dragged task to the end of the target partition and leave the source
// partition with a gap.
func planReorder(tasks []*model.Task, draggedID string, target DropTarget) ([]positionUpdate, error) {
	if !target.valid() {
		return nil, ErrInvalidTarget
	}
	if target.OverTaskID == draggedID {
		return nil, nil
	}

	var dragged *model.Task
	for _, t := range tasks {
		if t.ID == draggedID {
			dragged = t
			break
		}
	}
	if dragged == nil {
		return nil, dao.ErrNotFound
	}

	targetCompleted := target.Partition.Completed()
	if target.OverTaskID != "" {
		var over *model.Task
		for _, t := range tasks {
			if t.ID == target.OverTaskID {
				over = t
				break
			}
		}
		if over == nil {
			return nil, dao.ErrNotFound
		}
		// dropping onto any task counts as dropping into its partition
		targetCompleted = over.Completed

		if targetCompleted == dragged.Completed {
			return planSamePartitionMove(tasks, dragged, over), nil
		}
	}

	// cross-partition move or drop onto a partition marker: append to the
	// end of the target partition, source keeps its gap
	n := 0
	for _, t := range tasks {
		if t.ID != dragged.ID && t.Completed == targetCompleted {
			n++
		}
	}
	return []positionUpdate{{
		taskID: dragged.ID,
		fields: map[string]any{"completed": targetCompleted, "position": n},
	}}, nil
}

func planSamePartitionMove(tasks []*model.Task, dragged, over *model.Task) []positionUpdate {
	partition := make([]*model.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Completed == dragged.Completed {
			partition = append(partition, t)
		}
	}
	oldIdx, newIdx := -1, -1
	for i, t := range partition {
		if t.ID == dragged.ID {
			oldIdx = i
		}
		if t.ID == over.ID {
			newIdx = i
		}
	}
	if oldIdx == newIdx {
		return nil
	}
	moved := arrayMove(partition, oldIdx, newIdx)

	var plan []positionUpdate
	for i, t := range moved {
		if t.Position != i {
			plan = append(plan, positionUpdate{taskID: t.ID, fields: map[string]any{"position": i}})
		}
	}
	return plan
}

// arrayMove removes the element at from and reinserts it at to,
// shifting the elements in between by one.
func arrayMove(s []*model.Task, from, to int) []*model.Task {
	out := make([]*model.Task, 0, len(s))
	out = append(out, s[:from]...)
	out = append(out, s[from+1:]...)
	out = append(out[:to], append([]*model.Task{s[from]}, out[to:]...)...)
	return out
}
