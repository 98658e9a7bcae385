package repositories

import (
	"context"
	"time"

	"sfa-welfarehub/internal/adapters/persistence/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// counterRepository implements CounterRepository
type counterRepository struct {
	db *gorm.DB
}

// NewCounterRepository creates a new counter repository
func NewCounterRepository(db *gorm.DB) CounterRepository {
	return &counterRepository{db: db}
}

// Create creates the singleton counter row. The name column is the primary
// key, so a concurrent duplicate create fails at the database.
func (r *counterRepository) Create(ctx context.Context, counter *models.SfaIDCounter) error {
	return r.db.WithContext(ctx).Create(counter).Error
}

// Get returns the counter row, or gorm.ErrRecordNotFound when uninitialized
func (r *counterRepository) Get(ctx context.Context) (*models.SfaIDCounter, error) {
	var counter models.SfaIDCounter
	err := r.db.WithContext(ctx).Where("name = ?", models.SfaIDCounterName).First(&counter).Error
	if err != nil {
		return nil, err
	}
	return &counter, nil
}

// Allocate increments the counter inside a row-locked transaction and
// returns the new value. SELECT ... FOR UPDATE serializes concurrent
// allocations so no two callers observe the same value.
func (r *counterRepository) Allocate(ctx context.Context) (int64, error) {
	var next int64

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var counter models.SfaIDCounter
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("name = ?", models.SfaIDCounterName).
			First(&counter).Error; err != nil {
			return err
		}

		next = counter.Current + 1
		counter.Current = next
		counter.LastUpdated = time.Now()

		return tx.Save(&counter).Error
	})

	if err != nil {
		return 0, err
	}
	return next, nil
}
