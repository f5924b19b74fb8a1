package dao

import (
	"context"

	"gorm.io/gorm"

	"github.com/Sagar1205/QuickTask/internal/model"
)

type ProfileDao interface {
	Get(ctx context.Context, id string) (*model.Profile, error)
	ListByIDs(ctx context.Context, ids []string) ([]*model.Profile, error)
	// Search matches emails by substring, excluding one user, capped at limit.
	Search(ctx context.Context, emailLike, excludeID string, limit int) ([]*model.Profile, error)
}

type profileDaoImpl struct{ db *gorm.DB }

func NewProfileDao(db *gorm.DB) ProfileDao { return &profileDaoImpl{db: db} }

func (r *profileDaoImpl) Get(ctx context.Context, id string) (*model.Profile, error) {
	var p model.Profile
	if err := r.db.WithContext(ctx).Where("id=?", id).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *profileDaoImpl) ListByIDs(ctx context.Context, ids []string) ([]*model.Profile, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var out []*model.Profile
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *profileDaoImpl) Search(ctx context.Context, emailLike, excludeID string, limit int) ([]*model.Profile, error) {
	var out []*model.Profile
	err := r.db.WithContext(ctx).
		Where("email LIKE ?", "%"+emailLike+"%").
		Where("id <> ?", excludeID).
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
