package repositories

import (
	"context"

	"sfa-welfarehub/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// paymentRepository implements PaymentRepository
type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

// Create records a single payment
func (r *paymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

// CreateBatch records multiple payments in one insert (CSV import)
func (r *paymentRepository) CreateBatch(ctx context.Context, payments []*models.Payment) error {
	if len(payments) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(payments, 100).Error
}

// ListBySfaID lists a member's payments, newest first
func (r *paymentRepository) ListBySfaID(ctx context.Context, sfaID string) ([]*models.Payment, error) {
	var payments []*models.Payment
	err := r.db.WithContext(ctx).
		Where("sfa_id = ?", sfaID).
		Order("month DESC, created_at DESC").
		Find(&payments).Error
	return payments, err
}

// List lists payments, optionally filtered by month, with pagination
func (r *paymentRepository) List(ctx context.Context, month string, offset, limit int) ([]*models.Payment, int64, error) {
	var payments []*models.Payment
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Payment{})
	if month != "" {
		query = query.Where("month = ?", month)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&payments).Error; err != nil {
		return nil, 0, err
	}

	return payments, total, nil
}

// MonthTotal returns the confirmed payment total and count for a month
func (r *paymentRepository) MonthTotal(ctx context.Context, month string) (float64, int64, error) {
	type result struct {
		Total float64
		Count int64
	}
	var res result

	err := r.db.WithContext(ctx).Model(&models.Payment{}).
		Select("COALESCE(SUM(amount), 0) as total, COUNT(*) as count").
		Where("month = ? AND status = ?", month, models.PaymentStatusConfirmed).
		Scan(&res).Error

	return res.Total, res.Count, err
}
