package dao

import (
	"context"

	"gorm.io/gorm"

	"github.com/Sagar1205/QuickTask/internal/model"
)

type AuditDao interface {
	Insert(ctx context.Context, entry *model.AuditLog) error
	// ListByList returns newest-first entries for the list.
	ListByList(ctx context.Context, listID string, limit int) ([]*model.AuditLog, error)
}

type auditDaoImpl struct{ db *gorm.DB }

func NewAuditDao(db *gorm.DB) AuditDao { return &auditDaoImpl{db: db} }

func (r *auditDaoImpl) Insert(ctx context.Context, entry *model.AuditLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *auditDaoImpl) ListByList(ctx context.Context, listID string, limit int) ([]*model.AuditLog, error) {
	var out []*model.AuditLog
	q := r.db.WithContext(ctx).Where("list_id=?", listID).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
