package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"sfa-welfarehub/internal/adapters/persistence/models"
	"sfa-welfarehub/internal/adapters/persistence/repositories"
	"sfa-welfarehub/internal/core/domain"

	"gorm.io/gorm"
)

// Beneficiary service errors
var (
	ErrMissingDocuments = errors.New("verification document, pay slip and application form are all required")
	ErrNoAdmins         = errors.New("no active admins available to review requests")
	ErrInvalidVote      = errors.New("vote action must be approve or reject")
)

// Vote actions accepted by CastVote
const (
	VoteApprove = "approve"
	VoteReject  = "reject"
)

// BeneficiaryService manages assistance requests through the
// pending -> approved/rejected lifecycle. Approval needs every admin
// counted in the request's quorum snapshot; a single rejection is
// terminal. That asymmetry is policy: one admin can halt a claim, no
// single admin can authorize a payout.
type BeneficiaryService struct {
	beneficiaryRepo repositories.BeneficiaryRepository
	memberRepo      repositories.MemberRepository
	auditRepo       repositories.AuditLogRepository
}

// NewBeneficiaryService creates a new beneficiary service
func NewBeneficiaryService(
	beneficiaryRepo repositories.BeneficiaryRepository,
	memberRepo repositories.MemberRepository,
	auditRepo repositories.AuditLogRepository,
) *BeneficiaryService {
	return &BeneficiaryService{
		beneficiaryRepo: beneficiaryRepo,
		memberRepo:      memberRepo,
		auditRepo:       auditRepo,
	}
}

// CreateRequestInput represents a new assistance application
type CreateRequestInput struct {
	RequesterUID       string `json:"requester_uid"`
	RequesterName      string `json:"requester_name"`
	MemberID           string `json:"member_id"`
	SfaID              string `json:"sfa_id"`
	Lobby              string `json:"lobby"`
	Email              string `json:"email"`
	Phone              string `json:"phone"`
	Description        string `json:"description"`
	VerificationDocURL string `json:"verification_doc_url"`
	PaySlipURL         string `json:"pay_slip_url"`
	ApplicationFormURL string `json:"application_form_url"`
}

// CreateRequest creates a pending request. The quorum (totalApprovals) is a
// snapshot of the current admin headcount; later admin changes never
// retarget an in-flight request.
func (s *BeneficiaryService) CreateRequest(ctx context.Context, input *CreateRequestInput) (*models.BeneficiaryRequest, error) {
	if input.RequesterUID == "" || input.MemberID == "" || input.Description == "" {
		return nil, domain.ErrInvalidInput
	}
	if input.VerificationDocURL == "" || input.PaySlipURL == "" || input.ApplicationFormURL == "" {
		return nil, ErrMissingDocuments
	}

	adminCount, err := s.memberRepo.CountAdmins(ctx)
	if err != nil {
		return nil, err
	}
	if adminCount < 1 {
		return nil, ErrNoAdmins
	}

	req := &models.BeneficiaryRequest{
		RequesterUID:       input.RequesterUID,
		RequesterName:      input.RequesterName,
		MemberID:           input.MemberID,
		SfaID:              input.SfaID,
		Lobby:              input.Lobby,
		Email:              input.Email,
		Phone:              input.Phone,
		Description:        input.Description,
		VerificationDocURL: input.VerificationDocURL,
		PaySlipURL:         input.PaySlipURL,
		ApplicationFormURL: input.ApplicationFormURL,
		Status:             models.RequestStatusPending,
		ApprovalCount:      0,
		TotalApprovals:     int(adminCount),
		ApprovedBy:         models.StringList{},
		RejectedBy:         models.StringList{},
	}

	if err := s.beneficiaryRepo.Create(ctx, req); err != nil {
		return nil, err
	}

	log.Printf("✅ Beneficiary request %d created by %s (quorum: %d)", req.ID, input.SfaID, req.TotalApprovals)
	return req, nil
}

// CastVote records one admin's vote. The duplicate check, terminal-state
// check, audit append and count mutation all happen under the request's
// row lock; concurrent votes by different admins serialize, concurrent
// votes by the same admin yield exactly one recorded vote.
func (s *BeneficiaryService) CastVote(ctx context.Context, requestID uint, adminUID, adminName, action, remarks string) (*models.BeneficiaryRequest, error) {
	if adminUID == "" {
		return nil, domain.ErrInvalidInput
	}
	if action != VoteApprove && action != VoteReject {
		return nil, ErrInvalidVote
	}

	var updated *models.BeneficiaryRequest

	err := s.beneficiaryRepo.CastVote(ctx, requestID, func(req *models.BeneficiaryRequest) (*models.BeneficiaryApproval, error) {
		if req.IsFinal() {
			return nil, domain.ErrRequestFinalized
		}
		if req.HasVoted(adminUID) {
			return nil, domain.ErrAlreadyVoted
		}

		approval := &models.BeneficiaryApproval{
			RequestID: req.ID,
			AdminUID:  adminUID,
			AdminName: adminName,
			Remarks:   remarks,
		}

		switch action {
		case VoteApprove:
			approval.Action = models.VoteActionApproved
			req.ApprovedBy = append(req.ApprovedBy, adminUID)
			req.ApprovalCount = len(req.ApprovedBy)
			if req.ApprovalCount >= req.TotalApprovals {
				req.Status = models.RequestStatusApproved
			}
		case VoteReject:
			approval.Action = models.VoteActionRejected
			req.RejectedBy = append(req.RejectedBy, adminUID)
			req.Status = models.RequestStatusRejected
		}

		updated = req
		return approval, nil
	})

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRequestNotFound
		}
		return nil, err
	}

	entry := &models.AuditLog{
		Action:      models.AuditActionCastVote,
		PerformedBy: adminUID,
		TargetSfaID: updated.SfaID,
		Detail:      fmt.Sprintf("request %d: %s (%d/%d approvals, status %s)", requestID, action, updated.ApprovalCount, updated.TotalApprovals, updated.Status),
	}
	if err := s.auditRepo.Create(ctx, entry); err != nil {
		log.Printf("⚠️ Failed to write vote audit entry: %v", err)
	}

	log.Printf("✅ Vote recorded on request %d by %s: %s -> %s", requestID, adminUID, action, updated.Status)
	return updated, nil
}

// ListRequestsOutput represents a paginated request listing
type ListRequestsOutput struct {
	Requests   []*models.BeneficiaryRequest `json:"requests"`
	Total      int64                        `json:"total"`
	Page       int                          `json:"page"`
	Limit      int                          `json:"limit"`
	TotalPages int                          `json:"total_pages"`
}

// ListRequests lists all requests, newest first (admin scope)
func (s *BeneficiaryService) ListRequests(ctx context.Context, page, limit int) (*ListRequestsOutput, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	offset := (page - 1) * limit
	requests, total, err := s.beneficiaryRepo.List(ctx, offset, limit)
	if err != nil {
		return nil, err
	}

	totalPages := int(total) / limit
	if int(total)%limit > 0 {
		totalPages++
	}

	return &ListRequestsOutput{
		Requests:   requests,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}, nil
}

// ListMyRequests lists the caller's own requests, newest first
func (s *BeneficiaryService) ListMyRequests(ctx context.Context, uid string) ([]*models.BeneficiaryRequest, error) {
	return s.beneficiaryRepo.ListByRequester(ctx, uid)
}

// GetRequest gets a request by ID
func (s *BeneficiaryService) GetRequest(ctx context.Context, id uint) (*models.BeneficiaryRequest, error) {
	req, err := s.beneficiaryRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRequestNotFound
		}
		return nil, err
	}
	return req, nil
}

// ApprovalHistory lists the vote audit records for a request, newest first
func (s *BeneficiaryService) ApprovalHistory(ctx context.Context, requestID uint) ([]*models.BeneficiaryApproval, error) {
	if _, err := s.GetRequest(ctx, requestID); err != nil {
		return nil, err
	}
	return s.beneficiaryRepo.ListApprovals(ctx, requestID)
}
