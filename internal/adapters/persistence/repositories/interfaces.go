package repositories

import (
	"context"
	"time"

	"sfa-welfarehub/internal/adapters/persistence/models"
)

// MemberRepository defines the primary member profile repository interface.
// Deletes are hard deletes: the account mutation boundary must remove rows.
type MemberRepository interface {
	Create(ctx context.Context, member *models.Member) error
	GetByUID(ctx context.Context, uid string) (*models.Member, error)
	GetByMemberID(ctx context.Context, memberID string) (*models.Member, error)
	GetBySfaID(ctx context.Context, sfaID string) (*models.Member, error)
	Update(ctx context.Context, member *models.Member) error
	DeleteByMemberID(ctx context.Context, memberID string) error
	List(ctx context.Context, offset, limit int) ([]*models.Member, int64, error)
	CountAdmins(ctx context.Context) (int64, error)
	ExistsByMemberID(ctx context.Context, memberID string) (bool, error)
}

// MirrorRepository defines the mirror profile repository interface
// (member_mirrors table, keyed by auth UID)
type MirrorRepository interface {
	Create(ctx context.Context, mirror *models.MemberMirror) error
	GetByUID(ctx context.Context, uid string) (*models.MemberMirror, error)
	Update(ctx context.Context, mirror *models.MemberMirror) error
	DeleteByUID(ctx context.Context, uid string) error
}

// RefreshTokenRepository defines the refresh token repository interface
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, id uint) error
	RevokeByTokenHash(ctx context.Context, tokenHash string) error
	RevokeAllByUID(ctx context.Context, uid string) error
	DeleteExpired(ctx context.Context) (int64, error)
}

// CounterRepository defines the SFA-ID counter repository interface.
// Allocate runs the increment as a single row-locked transaction so that
// concurrent callers never receive the same value.
type CounterRepository interface {
	Create(ctx context.Context, counter *models.SfaIDCounter) error
	Get(ctx context.Context) (*models.SfaIDCounter, error)
	Allocate(ctx context.Context) (int64, error)
}

// BeneficiaryRepository defines the beneficiary request repository interface.
// CastVote loads the request row under a FOR UPDATE lock, invokes apply to
// mutate it, and appends the returned approval record, all in one
// transaction; apply returning an error rolls everything back.
type BeneficiaryRepository interface {
	Create(ctx context.Context, req *models.BeneficiaryRequest) error
	GetByID(ctx context.Context, id uint) (*models.BeneficiaryRequest, error)
	List(ctx context.Context, offset, limit int) ([]*models.BeneficiaryRequest, int64, error)
	ListByRequester(ctx context.Context, uid string) ([]*models.BeneficiaryRequest, error)
	CastVote(ctx context.Context, id uint, apply func(req *models.BeneficiaryRequest) (*models.BeneficiaryApproval, error)) error
	ListApprovals(ctx context.Context, requestID uint) ([]*models.BeneficiaryApproval, error)
	ListPendingBefore(ctx context.Context, cutoff time.Time) ([]*models.BeneficiaryRequest, error)
}

// AuditLogRepository defines the append-only audit log repository interface
type AuditLogRepository interface {
	Create(ctx context.Context, entry *models.AuditLog) error
	List(ctx context.Context, offset, limit int) ([]*models.AuditLog, int64, error)
}

// PaymentRepository defines the payment repository interface
type PaymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) error
	CreateBatch(ctx context.Context, payments []*models.Payment) error
	ListBySfaID(ctx context.Context, sfaID string) ([]*models.Payment, error)
	List(ctx context.Context, month string, offset, limit int) ([]*models.Payment, int64, error)
	MonthTotal(ctx context.Context, month string) (float64, int64, error)
}

// AnnouncementRepository defines the announcement repository interface
type AnnouncementRepository interface {
	Create(ctx context.Context, a *models.Announcement) error
	GetByID(ctx context.Context, id uint) (*models.Announcement, error)
	Update(ctx context.Context, a *models.Announcement) error
	Delete(ctx context.Context, id uint) error
	ListActive(ctx context.Context) ([]*models.Announcement, error)
	List(ctx context.Context, offset, limit int) ([]*models.Announcement, int64, error)
}
