package dao

import (
	"context"

	"gorm.io/gorm"

	"github.com/Sagar1205/QuickTask/internal/model"
)

type MemberDao interface {
	Add(ctx context.Context, m *model.ListMember) error
	Remove(ctx context.Context, listID, userID string) error
	// ListByList returns membership rows joined with profile emails, in
	// insertion order.
	ListByList(ctx context.Context, listID string) ([]*model.MemberProfile, error)
}

type memberDaoImpl struct{ db *gorm.DB }

func NewMemberDao(db *gorm.DB) MemberDao { return &memberDaoImpl{db: db} }

func (r *memberDaoImpl) Add(ctx context.Context, m *model.ListMember) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *memberDaoImpl) Remove(ctx context.Context, listID, userID string) error {
	res := r.db.WithContext(ctx).
		Delete(&model.ListMember{}, "list_id=? AND user_id=?", listID, userID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *memberDaoImpl) ListByList(ctx context.Context, listID string) ([]*model.MemberProfile, error) {
	var out []*model.MemberProfile
	err := r.db.WithContext(ctx).
		Table("list_members").
		Select("list_members.user_id, list_members.role, profiles.email").
		Joins("LEFT JOIN profiles ON profiles.id = list_members.user_id").
		Where("list_members.list_id=?", listID).
		Order("list_members.created_at").
		Scan(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
