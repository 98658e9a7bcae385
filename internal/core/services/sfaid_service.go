package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"sfa-welfarehub/internal/adapters/persistence/models"
	"sfa-welfarehub/internal/adapters/persistence/repositories"
	"sfa-welfarehub/internal/core/domain"
	"sfa-welfarehub/internal/pkg/sfaid"

	"gorm.io/gorm"
)

// SfaIDService hands out uniquely-reserved member SFA-IDs from the
// singleton counter. All increments go through the repository's row-locked
// transaction; this service never does a plain read+write on the counter.
type SfaIDService struct {
	counterRepo repositories.CounterRepository
	auditRepo   repositories.AuditLogRepository
}

// NewSfaIDService creates a new SFA-ID allocator service
func NewSfaIDService(
	counterRepo repositories.CounterRepository,
	auditRepo repositories.AuditLogRepository,
) *SfaIDService {
	return &SfaIDService{
		counterRepo: counterRepo,
		auditRepo:   auditRepo,
	}
}

// Initialize creates the counter with current = startingNumber. The
// existence check is a convenience guard; the counter name primary key is
// what actually stops a racing double-initialize.
func (s *SfaIDService) Initialize(ctx context.Context, startingNumber int64, initializedBy string) error {
	if startingNumber < 0 {
		return domain.ErrInvalidInput
	}

	_, err := s.counterRepo.Get(ctx)
	if err == nil {
		return domain.ErrCounterAlreadyInitialized
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	now := time.Now()
	counter := &models.SfaIDCounter{
		Name:          models.SfaIDCounterName,
		Current:       startingNumber,
		LastUpdated:   now,
		InitializedAt: now,
		InitializedBy: initializedBy,
	}

	if err := s.counterRepo.Create(ctx, counter); err != nil {
		return err
	}

	entry := &models.AuditLog{
		Action:      models.AuditActionInitCounter,
		PerformedBy: initializedBy,
		Detail:      fmt.Sprintf("counter initialized at %d", startingNumber),
	}
	if err := s.auditRepo.Create(ctx, entry); err != nil {
		log.Printf("⚠️ Failed to write counter init audit entry: %v", err)
	}

	log.Printf("✅ SFA-ID counter initialized at %d", startingNumber)
	return nil
}

// Allocate reserves and returns the next SFA-ID. Failures are retryable:
// the transaction either fully applied or not at all.
func (s *SfaIDService) Allocate(ctx context.Context) (string, error) {
	next, err := s.counterRepo.Allocate(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", domain.ErrCounterNotInitialized
		}
		return "", err
	}
	return sfaid.Format(next), nil
}

// CurrentValue returns the last issued sequence number, or nil when the
// counter has not been initialized
func (s *SfaIDService) CurrentValue(ctx context.Context) (*int64, error) {
	counter, err := s.counterRepo.Get(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	current := counter.Current
	return &current, nil
}
