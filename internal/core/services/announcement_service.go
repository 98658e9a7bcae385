package services

import (
	"context"
	"errors"
	"log"

	"sfa-welfarehub/internal/adapters/persistence/models"
	"sfa-welfarehub/internal/adapters/persistence/repositories"
	"sfa-welfarehub/internal/core/domain"
	"sfa-welfarehub/internal/pkg/pagination"

	"gorm.io/gorm"
)

// AnnouncementService handles association-wide notices
type AnnouncementService struct {
	announcementRepo repositories.AnnouncementRepository
}

// NewAnnouncementService creates a new announcement service
func NewAnnouncementService(announcementRepo repositories.AnnouncementRepository) *AnnouncementService {
	return &AnnouncementService{announcementRepo: announcementRepo}
}

// CreateAnnouncementInput represents announcement creation input
type CreateAnnouncementInput struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Create publishes a new announcement
func (s *AnnouncementService) Create(ctx context.Context, createdBy string, input *CreateAnnouncementInput) (*models.Announcement, error) {
	if input.Title == "" || input.Body == "" {
		return nil, domain.ErrInvalidInput
	}

	a := &models.Announcement{
		Title:     input.Title,
		Body:      input.Body,
		IsActive:  true,
		CreatedBy: createdBy,
	}
	if err := s.announcementRepo.Create(ctx, a); err != nil {
		return nil, err
	}

	log.Printf("✅ Announcement published: %s", a.Title)
	return a, nil
}

// UpdateAnnouncementInput represents announcement update input
type UpdateAnnouncementInput struct {
	Title    string `json:"title"`
	Body     string `json:"body"`
	IsActive *bool  `json:"is_active"`
}

// Update edits an existing announcement
func (s *AnnouncementService) Update(ctx context.Context, id uint, input *UpdateAnnouncementInput) (*models.Announcement, error) {
	a, err := s.announcementRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	if input.Title != "" {
		a.Title = input.Title
	}
	if input.Body != "" {
		a.Body = input.Body
	}
	if input.IsActive != nil {
		a.IsActive = *input.IsActive
	}

	if err := s.announcementRepo.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Delete soft-deletes an announcement
func (s *AnnouncementService) Delete(ctx context.Context, id uint) error {
	if _, err := s.announcementRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrNotFound
		}
		return err
	}
	return s.announcementRepo.Delete(ctx, id)
}

// ListActive returns currently visible announcements
func (s *AnnouncementService) ListActive(ctx context.Context) ([]*models.Announcement, error) {
	return s.announcementRepo.ListActive(ctx)
}

// List returns all announcements with pagination
func (s *AnnouncementService) List(ctx context.Context, params *pagination.Params) ([]*models.Announcement, *pagination.Meta, error) {
	items, total, err := s.announcementRepo.List(ctx, params.Offset, params.Limit)
	if err != nil {
		return nil, nil, err
	}
	return items, pagination.GetMeta(params, total), nil
}
