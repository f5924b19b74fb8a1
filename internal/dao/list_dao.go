package dao

import (
	"context"

	"gorm.io/gorm"

	"github.com/Sagar1205/QuickTask/internal/model"
)

type ListDao interface {
	Create(ctx context.Context, l *model.TaskList) error
	Get(ctx context.Context, id string) (*model.TaskList, error)
	Rename(ctx context.Context, id, title string) error
	Delete(ctx context.Context, id string) error
	// ListVisible returns lists the user owns or is a member of, with
	// their membership rows attached.
	ListVisible(ctx context.Context, userID string) ([]*model.ListView, error)
}

type listDaoImpl struct{ db *gorm.DB }

func NewListDao(db *gorm.DB) ListDao { return &listDaoImpl{db: db} }

func (r *listDaoImpl) Create(ctx context.Context, l *model.TaskList) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *listDaoImpl) Get(ctx context.Context, id string) (*model.TaskList, error) {
	var l model.TaskList
	if err := r.db.WithContext(ctx).Where("id=?", id).First(&l).Error; err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *listDaoImpl) Rename(ctx context.Context, id, title string) error {
	res := r.db.WithContext(ctx).Model(&model.TaskList{}).Where("id=?", id).Update("title", title)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *listDaoImpl) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&model.TaskList{}, "id=?", id).Error
}

func (r *listDaoImpl) ListVisible(ctx context.Context, userID string) ([]*model.ListView, error) {
	var lists []*model.TaskList
	sub := r.db.Model(&model.ListMember{}).Select("list_id").Where("user_id=?", userID)
	if err := r.db.WithContext(ctx).
		Where("owner_id=? OR id IN (?)", userID, sub).
		Order("created_at").
		Find(&lists).Error; err != nil {
		return nil, err
	}
	out := make([]*model.ListView, 0, len(lists))
	for _, l := range lists {
		var members []model.ListMember
		if err := r.db.WithContext(ctx).Where("list_id=?", l.ID).Find(&members).Error; err != nil {
			return nil, err
		}
		out = append(out, &model.ListView{TaskList: *l, Members: members})
	}
	return out, nil
}
