package dao

import (
	"context"

	"gorm.io/gorm"

	"github.com/Sagar1205/QuickTask/internal/model"
)

type TaskDao interface {
	Create(ctx context.Context, t *model.Task) error
	Get(ctx context.Context, id string) (*model.Task, error)
	// ListByList returns the list's tasks ordered by position.
	ListByList(ctx context.Context, listID string) ([]*model.Task, error)
	// Update writes an arbitrary subset of columns.
	Update(ctx context.Context, id string, fields map[string]any) error
	// Delete removes the task and returns the deleted row.
	Delete(ctx context.Context, id string) (*model.Task, error)
}

type taskDaoImpl struct{ db *gorm.DB }

func NewTaskDao(db *gorm.DB) TaskDao { return &taskDaoImpl{db: db} }

func (r *taskDaoImpl) Create(ctx context.Context, t *model.Task) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *taskDaoImpl) Get(ctx context.Context, id string) (*model.Task, error) {
	var t model.Task
	if err := r.db.WithContext(ctx).Where("id=?", id).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *taskDaoImpl) ListByList(ctx context.Context, listID string) ([]*model.Task, error) {
	var list []*model.Task
	if err := r.db.WithContext(ctx).Where("list_id=?", listID).Order("position").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *taskDaoImpl) Update(ctx context.Context, id string, fields map[string]any) error {
	res := r.db.WithContext(ctx).Model(&model.Task{}).Where("id=?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *taskDaoImpl) Delete(ctx context.Context, id string) (*model.Task, error) {
	t, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Delete(&model.Task{}, "id=?", id).Error; err != nil {
		return nil, err
	}
	return t, nil
}
