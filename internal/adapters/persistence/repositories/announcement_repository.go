package repositories

import (
	"context"

	"sfa-welfarehub/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// announcementRepository implements AnnouncementRepository
type announcementRepository struct {
	db *gorm.DB
}

// NewAnnouncementRepository creates a new announcement repository
func NewAnnouncementRepository(db *gorm.DB) AnnouncementRepository {
	return &announcementRepository{db: db}
}

// Create creates an announcement
func (r *announcementRepository) Create(ctx context.Context, a *models.Announcement) error {
	return r.db.WithContext(ctx).Create(a).Error
}

// GetByID gets an announcement by ID
func (r *announcementRepository) GetByID(ctx context.Context, id uint) (*models.Announcement, error) {
	var a models.Announcement
	err := r.db.WithContext(ctx).First(&a, id).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Update updates an announcement
func (r *announcementRepository) Update(ctx context.Context, a *models.Announcement) error {
	return r.db.WithContext(ctx).Save(a).Error
}

// Delete soft deletes an announcement
func (r *announcementRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Announcement{}, id).Error
}

// ListActive lists active announcements, newest first
func (r *announcementRepository) ListActive(ctx context.Context) ([]*models.Announcement, error) {
	var announcements []*models.Announcement
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("created_at DESC").
		Find(&announcements).Error
	return announcements, err
}

// List lists all announcements with pagination
func (r *announcementRepository) List(ctx context.Context, offset, limit int) ([]*models.Announcement, int64, error) {
	var announcements []*models.Announcement
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Announcement{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&announcements).Error; err != nil {
		return nil, 0, err
	}

	return announcements, total, nil
}
