package model

import (
	"time"

	"github.com/Sagar1205/QuickTask/internal/consts"
)

// Task is one item of a list. Position orders tasks inside their
// partition (completed vs not); it is dense only as long as the ordering
// engine caused the last structural change.
type Task struct {
	ID          string          `json:"id" gorm:"primaryKey;size:36"`
	ListID      string          `json:"list_id" gorm:"size:36;index"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Priority    consts.Priority `json:"priority"`
	DueDate     *time.Time      `json:"due_date" gorm:"type:date"`
	Completed   bool            `json:"completed"`
	Position    int             `json:"position"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func (Task) TableName() string { return "tasks" }

// Partition returns the column the task currently belongs to.
func (t *Task) Partition() consts.Partition {
	if t.Completed {
		return consts.PartitionCompleted
	}
	return consts.PartitionActive
}
