package services

import (
	"context"
	"log"
	"time"

	"sfa-welfarehub/internal/adapters/persistence/repositories"

	"github.com/robfig/cron/v3"
)

// stalePendingAge is how old a PENDING beneficiary request must be
// before it appears in the daily reminder digest
const stalePendingAge = 7 * 24 * time.Hour

// CronService runs scheduled maintenance jobs
type CronService struct {
	cron             *cron.Cron
	refreshTokenRepo repositories.RefreshTokenRepository
	beneficiaryRepo  repositories.BeneficiaryRepository
}

// NewCronService creates a new cron service
func NewCronService(
	refreshTokenRepo repositories.RefreshTokenRepository,
	beneficiaryRepo repositories.BeneficiaryRepository,
) *CronService {
	return &CronService{
		cron:             cron.New(),
		refreshTokenRepo: refreshTokenRepo,
		beneficiaryRepo:  beneficiaryRepo,
	}
}

// Start registers and starts all scheduled jobs
func (s *CronService) Start() {
	// Daily at 3:00 AM - clean up expired refresh tokens
	_, err := s.cron.AddFunc("0 3 * * *", s.cleanupExpiredTokens)
	if err != nil {
		log.Printf("❌ Failed to schedule token cleanup job: %v", err)
	}

	// Daily at 8:30 AM - log stale pending beneficiary requests
	_, err = s.cron.AddFunc("30 8 * * *", s.reportStalePendingRequests)
	if err != nil {
		log.Printf("❌ Failed to schedule pending request digest job: %v", err)
	}

	s.cron.Start()
	log.Println("🚀 Cron jobs started")
}

// Stop stops the cron scheduler
func (s *CronService) Stop() {
	s.cron.Stop()
	log.Println("Cron jobs stopped")
}

// cleanupExpiredTokens removes expired refresh tokens
func (s *CronService) cleanupExpiredTokens() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	deleted, err := s.refreshTokenRepo.DeleteExpired(ctx)
	if err != nil {
		log.Printf("❌ Token cleanup failed: %v", err)
		return
	}
	if deleted > 0 {
		log.Printf("✅ Token cleanup: removed %d expired refresh tokens", deleted)
	}
}

// reportStalePendingRequests logs beneficiary requests that have been
// waiting for votes for more than a week, so admins can follow up
func (s *CronService) reportStalePendingRequests() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	cutoff := time.Now().Add(-stalePendingAge)
	stale, err := s.beneficiaryRepo.ListPendingBefore(ctx, cutoff)
	if err != nil {
		log.Printf("❌ Pending request digest failed: %v", err)
		return
	}
	if len(stale) == 0 {
		return
	}

	log.Printf("⚠️ %d beneficiary requests pending for over a week:", len(stale))
	for _, req := range stale {
		log.Printf("  - request #%d by %s (%d/%d approvals, created %s)",
			req.ID, req.RequesterName, req.ApprovalCount, req.TotalApprovals,
			req.CreatedAt.Format("2006-01-02"))
	}
}
