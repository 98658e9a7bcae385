package repositories

import (
	"context"
	"time"

	"sfa-welfarehub/internal/adapters/persistence/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// beneficiaryRepository implements BeneficiaryRepository
type beneficiaryRepository struct {
	db *gorm.DB
}

// NewBeneficiaryRepository creates a new beneficiary repository
func NewBeneficiaryRepository(db *gorm.DB) BeneficiaryRepository {
	return &beneficiaryRepository{db: db}
}

// Create creates a new beneficiary request
func (r *beneficiaryRepository) Create(ctx context.Context, req *models.BeneficiaryRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

// GetByID gets a request by ID
func (r *beneficiaryRepository) GetByID(ctx context.Context, id uint) (*models.BeneficiaryRequest, error) {
	var req models.BeneficiaryRequest
	err := r.db.WithContext(ctx).First(&req, id).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// List lists all requests, newest first, with pagination
func (r *beneficiaryRepository) List(ctx context.Context, offset, limit int) ([]*models.BeneficiaryRequest, int64, error) {
	var requests []*models.BeneficiaryRequest
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.BeneficiaryRequest{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&requests).Error; err != nil {
		return nil, 0, err
	}

	return requests, total, nil
}

// ListByRequester lists a member's own requests, newest first
func (r *beneficiaryRepository) ListByRequester(ctx context.Context, uid string) ([]*models.BeneficiaryRequest, error) {
	var requests []*models.BeneficiaryRequest
	err := r.db.WithContext(ctx).
		Where("requester_uid = ?", uid).
		Order("created_at DESC").
		Find(&requests).Error
	return requests, err
}

// CastVote runs one admin vote as a single transaction: the request row is
// loaded FOR UPDATE, apply mutates it and returns the approval audit record,
// then both writes happen atomically. Two concurrent votes on the same
// request serialize on the row lock, so counts are never lost; an error from
// apply rolls the whole vote back.
func (r *beneficiaryRepository) CastVote(ctx context.Context, id uint, apply func(req *models.BeneficiaryRequest) (*models.BeneficiaryApproval, error)) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var req models.BeneficiaryRequest
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&req, id).Error; err != nil {
			return err
		}

		approval, err := apply(&req)
		if err != nil {
			return err
		}

		if err := tx.Save(&req).Error; err != nil {
			return err
		}
		return tx.Create(approval).Error
	})
}

// ListPendingBefore lists pending requests created before cutoff (for the
// daily stale-request digest)
func (r *beneficiaryRepository) ListPendingBefore(ctx context.Context, cutoff time.Time) ([]*models.BeneficiaryRequest, error) {
	var requests []*models.BeneficiaryRequest
	err := r.db.WithContext(ctx).
		Where("status = ? AND created_at < ?", models.RequestStatusPending, cutoff).
		Order("created_at ASC").
		Find(&requests).Error
	return requests, err
}

// ListApprovals lists the vote audit records for a request, newest first
func (r *beneficiaryRepository) ListApprovals(ctx context.Context, requestID uint) ([]*models.BeneficiaryApproval, error) {
	var approvals []*models.BeneficiaryApproval
	err := r.db.WithContext(ctx).
		Where("request_id = ?", requestID).
		Order("created_at DESC").
		Find(&approvals).Error
	return approvals, err
}
