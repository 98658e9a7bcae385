package repositories

import (
	"context"

	"sfa-welfarehub/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// mirrorRepository implements MirrorRepository
type mirrorRepository struct {
	db *gorm.DB
}

// NewMirrorRepository creates a new mirror repository
func NewMirrorRepository(db *gorm.DB) MirrorRepository {
	return &mirrorRepository{db: db}
}

// Create creates a mirror profile
func (r *mirrorRepository) Create(ctx context.Context, mirror *models.MemberMirror) error {
	return r.db.WithContext(ctx).Create(mirror).Error
}

// GetByUID gets a mirror profile by auth UID
func (r *mirrorRepository) GetByUID(ctx context.Context, uid string) (*models.MemberMirror, error) {
	var mirror models.MemberMirror
	err := r.db.WithContext(ctx).Where("uid = ?", uid).First(&mirror).Error
	if err != nil {
		return nil, err
	}
	return &mirror, nil
}

// Update updates a mirror profile
func (r *mirrorRepository) Update(ctx context.Context, mirror *models.MemberMirror) error {
	return r.db.WithContext(ctx).Save(mirror).Error
}

// DeleteByUID hard deletes a mirror profile
func (r *mirrorRepository) DeleteByUID(ctx context.Context, uid string) error {
	return r.db.WithContext(ctx).Where("uid = ?", uid).Delete(&models.MemberMirror{}).Error
}
