package models

import (
	"time"

	"gorm.io/gorm"
)

// ============================================================
// Roles
// ============================================================

// Member roles (closed set, checked at route and service boundaries)
const (
	RoleMember  = "MEMBER"
	RoleAdmin   = "ADMIN"
	RoleFounder = "FOUNDER"
)

// IsValidRole reports whether role is one of the known roles
func IsValidRole(role string) bool {
	return role == RoleMember || role == RoleAdmin || role == RoleFounder
}

// ============================================================
// Auth & Member Tables
// ============================================================

// AuthCredential represents the credential store (auth_credentials table).
// It stands in for the external auth provider: mutations on it are never
// wrapped in the same transaction as the member profile tables.
type AuthCredential struct {
	UID          string    `gorm:"primaryKey;size:36" json:"uid"`
	Email        string    `gorm:"uniqueIndex;size:100;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Disabled     bool      `gorm:"default:false" json:"disabled"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (AuthCredential) TableName() string {
	return "auth_credentials"
}

// Member represents the primary member profile (members table, keyed by
// member number). Deletions here are hard deletes: the account mutation
// boundary must actually remove the row.
type Member struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	MemberID  string    `gorm:"uniqueIndex;size:30;not null" json:"member_id"`
	UID       string    `gorm:"uniqueIndex;size:36;not null" json:"uid"`
	SfaID     string    `gorm:"uniqueIndex;size:20;not null" json:"sfa_id"`
	Email     string    `gorm:"size:100;not null" json:"email"`
	FullName  string    `gorm:"size:120;not null" json:"full_name"`
	Lobby     string    `gorm:"size:80" json:"lobby"`
	Phone     string    `gorm:"size:30" json:"phone"`
	Role      string    `gorm:"size:20;default:'MEMBER'" json:"role"`
	IsActive  bool      `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Member) TableName() string {
	return "members"
}

// IsAdmin reports whether the member holds admin or founder role
func (m *Member) IsAdmin() bool {
	return m.Role == RoleAdmin || m.Role == RoleFounder
}

// IsFounder reports whether the member holds founder role
func (m *Member) IsFounder() bool {
	return m.Role == RoleFounder
}

// MemberResponse DTO
type MemberResponse struct {
	ID        uint      `json:"id"`
	MemberID  string    `json:"member_id"`
	UID       string    `json:"uid"`
	SfaID     string    `json:"sfa_id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Lobby     string    `json:"lobby,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func (m *Member) ToResponse() *MemberResponse {
	return &MemberResponse{
		ID:        m.ID,
		MemberID:  m.MemberID,
		UID:       m.UID,
		SfaID:     m.SfaID,
		Email:     m.Email,
		FullName:  m.FullName,
		Lobby:     m.Lobby,
		Phone:     m.Phone,
		Role:      m.Role,
		IsActive:  m.IsActive,
		CreatedAt: m.CreatedAt,
	}
}

// MemberMirror represents the mirror profile keyed by auth UID
// (member_mirrors table). Kept in sync with Member by the account
// mutation boundary.
type MemberMirror struct {
	UID       string    `gorm:"primaryKey;size:36" json:"uid"`
	MemberID  string    `gorm:"uniqueIndex;size:30;not null" json:"member_id"`
	SfaID     string    `gorm:"size:20;not null" json:"sfa_id"`
	Email     string    `gorm:"size:100;not null" json:"email"`
	FullName  string    `gorm:"size:120;not null" json:"full_name"`
	Role      string    `gorm:"size:20;default:'MEMBER'" json:"role"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (MemberMirror) TableName() string {
	return "member_mirrors"
}

// RefreshToken represents refresh_tokens table
type RefreshToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UID       string     `gorm:"index;size:36;not null" json:"uid"`
	TokenHash string     `gorm:"size:255;not null;index" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RevokedAt *time.Time `gorm:"index" json:"revoked_at"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// ============================================================
// SFA-ID Counter
// ============================================================

// SfaIDCounterName is the singleton counter row key
const SfaIDCounterName = "sfa_id_counter"

// SfaIDCounter stores the last issued sequence number for member SFA-IDs.
// Name is the primary key, so a racing double-initialize fails on
// duplicate key instead of overwriting.
type SfaIDCounter struct {
	Name          string    `gorm:"primaryKey;size:64" json:"name"`
	Current       int64     `gorm:"not null" json:"current"`
	LastUpdated   time.Time `gorm:"not null" json:"last_updated"`
	InitializedAt time.Time `gorm:"not null" json:"initialized_at"`
	InitializedBy string    `gorm:"size:36" json:"initialized_by"`
}

func (SfaIDCounter) TableName() string {
	return "sfa_id_counters"
}

// ============================================================
// Beneficiary Workflow Tables
// ============================================================

// Beneficiary request statuses
const (
	RequestStatusPending  = "PENDING"
	RequestStatusApproved = "APPROVED"
	RequestStatusRejected = "REJECTED"
)

// Vote actions
const (
	VoteActionApproved = "APPROVED"
	VoteActionRejected = "REJECTED"
)

// BeneficiaryRequest represents one member's assistance application.
// Rows are never deleted; vote mutation goes exclusively through the
// row-locked repository transaction.
type BeneficiaryRequest struct {
	ID                 uint       `gorm:"primaryKey" json:"id"`
	RequesterUID       string     `gorm:"index;size:36;not null" json:"requester_uid"`
	RequesterName      string     `gorm:"size:120;not null" json:"requester_name"`
	MemberID           string     `gorm:"index;size:30;not null" json:"member_id"`
	SfaID              string     `gorm:"size:20;not null" json:"sfa_id"`
	Lobby              string     `gorm:"size:80" json:"lobby"`
	Email              string     `gorm:"size:100" json:"email"`
	Phone              string     `gorm:"size:30" json:"phone"`
	Description        string     `gorm:"type:text" json:"description"`
	VerificationDocURL string     `gorm:"size:500;not null" json:"verification_doc_url"`
	PaySlipURL         string     `gorm:"size:500;not null" json:"pay_slip_url"`
	ApplicationFormURL string     `gorm:"size:500;not null" json:"application_form_url"`
	Status             string     `gorm:"size:20;not null;default:'PENDING';index" json:"status"`
	ApprovalCount      int        `gorm:"not null;default:0" json:"approval_count"`
	TotalApprovals     int        `gorm:"not null" json:"total_approvals"`
	ApprovedBy         StringList `gorm:"type:text" json:"approved_by"`
	RejectedBy         StringList `gorm:"type:text" json:"rejected_by"`
	CreatedAt          time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt          time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (BeneficiaryRequest) TableName() string {
	return "beneficiary_requests"
}

// IsFinal reports whether the request has reached a terminal status
func (r *BeneficiaryRequest) IsFinal() bool {
	return r.Status == RequestStatusApproved || r.Status == RequestStatusRejected
}

// HasVoted reports whether adminUID appears in either vote set
func (r *BeneficiaryRequest) HasVoted(adminUID string) bool {
	return r.ApprovedBy.Contains(adminUID) || r.RejectedBy.Contains(adminUID)
}

// BeneficiaryApproval is the immutable audit record of one admin's vote.
// Append-only: never updated or deleted.
type BeneficiaryApproval struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	RequestID uint      `gorm:"not null;index" json:"request_id"`
	AdminUID  string    `gorm:"size:36;not null" json:"admin_uid"`
	AdminName string    `gorm:"size:120;not null" json:"admin_name"`
	Action    string    `gorm:"size:20;not null" json:"action"`
	Remarks   string    `gorm:"type:text" json:"remarks"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (BeneficiaryApproval) TableName() string {
	return "beneficiary_approvals"
}

// ============================================================
// Audit Log
// ============================================================

// Audit actions
const (
	AuditActionDeleteAccount = "DELETE_ACCOUNT"
	AuditActionUpdateEmail   = "UPDATE_EMAIL"
	AuditActionCastVote      = "CAST_VOTE"
	AuditActionInitCounter   = "INIT_COUNTER"
)

// AuditLog is the append-only audit trail for privileged operations
type AuditLog struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Action         string    `gorm:"size:40;not null;index" json:"action"`
	PerformedBy    string    `gorm:"size:36;not null;index" json:"performed_by"`
	TargetUID      string    `gorm:"size:36" json:"target_uid"`
	TargetMemberID string    `gorm:"size:30" json:"target_member_id"`
	TargetSfaID    string    `gorm:"size:20" json:"target_sfa_id"`
	Detail         string    `gorm:"type:text" json:"detail"`
	CreatedAt      time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

// ============================================================
// Payments
// ============================================================

// Payment methods
const (
	PaymentMethodMpesa    = "MPESA"
	PaymentMethodBank     = "BANK"
	PaymentMethodCash     = "CASH"
	PaymentMethodImported = "IMPORTED"
)

// Payment statuses
const (
	PaymentStatusPending   = "PENDING"
	PaymentStatusConfirmed = "CONFIRMED"
)

// Payment represents a member's monthly contribution record
type Payment struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	MemberID   string    `gorm:"index;size:30;not null" json:"member_id"`
	SfaID      string    `gorm:"index;size:20;not null" json:"sfa_id"`
	Month      string    `gorm:"size:7;not null;index" json:"month"` // YYYY-MM
	Amount     float64   `gorm:"type:decimal(12,2);not null" json:"amount"`
	Method     string    `gorm:"size:20;not null" json:"method"`
	Reference  string    `gorm:"size:100" json:"reference"`
	Status     string    `gorm:"size:20;not null;default:'CONFIRMED'" json:"status"`
	RecordedBy string    `gorm:"size:36;not null" json:"recorded_by"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Payment) TableName() string {
	return "payments"
}

// ============================================================
// Announcements
// ============================================================

// Announcement represents an association-wide notice
type Announcement struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Title     string         `gorm:"size:200;not null" json:"title"`
	Body      string         `gorm:"type:text;not null" json:"body"`
	IsActive  bool           `gorm:"default:true" json:"is_active"`
	CreatedBy string         `gorm:"size:36;not null" json:"created_by"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Announcement) TableName() string {
	return "announcements"
}

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&AuthCredential{},
		&Member{},
		&MemberMirror{},
		&RefreshToken{},
		&SfaIDCounter{},
		&BeneficiaryRequest{},
		&BeneficiaryApproval{},
		&AuditLog{},
		&Payment{},
		&Announcement{},
	)
}
