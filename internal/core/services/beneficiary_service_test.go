package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"sfa-welfarehub/internal/adapters/persistence/models"
	"sfa-welfarehub/internal/core/domain"
)

func admins(n int) []*models.Member {
	var out []*models.Member
	for i := 0; i < n; i++ {
		out = append(out, &models.Member{
			MemberID: fmt.Sprintf("M%03d", i+1),
			UID:      fmt.Sprintf("admin-uid-%d", i+1),
			SfaID:    fmt.Sprintf("SFA%04d", i+1),
			Role:     models.RoleAdmin,
			IsActive: true,
		})
	}
	return out
}

func validCreateInput() *CreateRequestInput {
	return &CreateRequestInput{
		RequesterUID:       "requester-uid",
		RequesterName:      "Jane Member",
		MemberID:           "M100",
		SfaID:              "SFA0100",
		Description:        "medical assistance",
		VerificationDocURL: "/files/v.pdf",
		PaySlipURL:         "/files/p.pdf",
		ApplicationFormURL: "/files/a.pdf",
	}
}

func newBeneficiaryServiceForTest(adminCount int) (*BeneficiaryService, *fakeBeneficiaryRepo, *fakeAuditRepo) {
	beneficiaryRepo := newFakeBeneficiaryRepo()
	memberRepo := newFakeMemberRepo(admins(adminCount)...)
	auditRepo := &fakeAuditRepo{}
	return NewBeneficiaryService(beneficiaryRepo, memberRepo, auditRepo), beneficiaryRepo, auditRepo
}

func TestCreateRequestRequiresAllDocuments(t *testing.T) {
	svc, _, _ := newBeneficiaryServiceForTest(2)

	tests := []struct {
		name   string
		mutate func(*CreateRequestInput)
	}{
		{"missing verification doc", func(in *CreateRequestInput) { in.VerificationDocURL = "" }},
		{"missing pay slip", func(in *CreateRequestInput) { in.PaySlipURL = "" }},
		{"missing application form", func(in *CreateRequestInput) { in.ApplicationFormURL = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validCreateInput()
			tt.mutate(input)
			_, err := svc.CreateRequest(context.Background(), input)
			if !errors.Is(err, ErrMissingDocuments) {
				t.Fatalf("expected ErrMissingDocuments, got %v", err)
			}
		})
	}
}

func TestCreateRequestSnapshotsQuorum(t *testing.T) {
	svc, _, _ := newBeneficiaryServiceForTest(3)

	req, err := svc.CreateRequest(context.Background(), validCreateInput())
	if err != nil {
		t.Fatalf("CreateRequest failed: %v", err)
	}

	if req.Status != models.RequestStatusPending {
		t.Errorf("status = %q, want PENDING", req.Status)
	}
	if req.TotalApprovals != 3 {
		t.Errorf("quorum = %d, want 3", req.TotalApprovals)
	}
	if req.ApprovalCount != 0 {
		t.Errorf("approval count = %d, want 0", req.ApprovalCount)
	}
}

func TestCreateRequestWithoutAdmins(t *testing.T) {
	svc, _, _ := newBeneficiaryServiceForTest(0)

	_, err := svc.CreateRequest(context.Background(), validCreateInput())
	if !errors.Is(err, ErrNoAdmins) {
		t.Fatalf("expected ErrNoAdmins, got %v", err)
	}
}

func TestApprovalReachesQuorum(t *testing.T) {
	svc, _, auditRepo := newBeneficiaryServiceForTest(2)
	ctx := context.Background()

	req, err := svc.CreateRequest(ctx, validCreateInput())
	if err != nil {
		t.Fatalf("CreateRequest failed: %v", err)
	}

	// First approval: still pending, one short of quorum
	updated, err := svc.CastVote(ctx, req.ID, "admin-uid-1", "Admin One", VoteApprove, "")
	if err != nil {
		t.Fatalf("first vote failed: %v", err)
	}
	if updated.Status != models.RequestStatusPending {
		t.Fatalf("after 1/2 approvals status = %q, want PENDING", updated.Status)
	}
	if updated.ApprovalCount != 1 {
		t.Fatalf("approval count = %d, want 1", updated.ApprovalCount)
	}

	// Second approval completes the quorum
	updated, err = svc.CastVote(ctx, req.ID, "admin-uid-2", "Admin Two", VoteApprove, "")
	if err != nil {
		t.Fatalf("second vote failed: %v", err)
	}
	if updated.Status != models.RequestStatusApproved {
		t.Fatalf("after 2/2 approvals status = %q, want APPROVED", updated.Status)
	}

	if auditRepo.count() != 2 {
		t.Fatalf("expected 2 vote audit entries, got %d", auditRepo.count())
	}
}

func TestSingleRejectionIsTerminal(t *testing.T) {
	svc, _, _ := newBeneficiaryServiceForTest(3)
	ctx := context.Background()

	req, err := svc.CreateRequest(ctx, validCreateInput())
	if err != nil {
		t.Fatalf("CreateRequest failed: %v", err)
	}

	// Two approvals first, then one rejection still sinks the request
	if _, err := svc.CastVote(ctx, req.ID, "admin-uid-1", "Admin One", VoteApprove, ""); err != nil {
		t.Fatalf("vote failed: %v", err)
	}
	if _, err := svc.CastVote(ctx, req.ID, "admin-uid-2", "Admin Two", VoteApprove, ""); err != nil {
		t.Fatalf("vote failed: %v", err)
	}

	updated, err := svc.CastVote(ctx, req.ID, "admin-uid-3", "Admin Three", VoteReject, "documents unclear")
	if err != nil {
		t.Fatalf("rejection failed: %v", err)
	}
	if updated.Status != models.RequestStatusRejected {
		t.Fatalf("status = %q, want REJECTED", updated.Status)
	}
}

func TestVoteOnFinalizedRequest(t *testing.T) {
	svc, _, _ := newBeneficiaryServiceForTest(2)
	ctx := context.Background()

	req, err := svc.CreateRequest(ctx, validCreateInput())
	if err != nil {
		t.Fatalf("CreateRequest failed: %v", err)
	}

	if _, err := svc.CastVote(ctx, req.ID, "admin-uid-1", "Admin One", VoteReject, ""); err != nil {
		t.Fatalf("rejection failed: %v", err)
	}

	// A later approval cannot resurrect a rejected request
	_, err = svc.CastVote(ctx, req.ID, "admin-uid-2", "Admin Two", VoteApprove, "")
	if !errors.Is(err, domain.ErrRequestFinalized) {
		t.Fatalf("expected ErrRequestFinalized, got %v", err)
	}
}

func TestDuplicateVoteRejected(t *testing.T) {
	svc, repo, _ := newBeneficiaryServiceForTest(3)
	ctx := context.Background()

	req, err := svc.CreateRequest(ctx, validCreateInput())
	if err != nil {
		t.Fatalf("CreateRequest failed: %v", err)
	}

	if _, err := svc.CastVote(ctx, req.ID, "admin-uid-1", "Admin One", VoteApprove, ""); err != nil {
		t.Fatalf("first vote failed: %v", err)
	}

	// Same admin cannot vote twice, regardless of direction
	if _, err := svc.CastVote(ctx, req.ID, "admin-uid-1", "Admin One", VoteApprove, ""); !errors.Is(err, domain.ErrAlreadyVoted) {
		t.Fatalf("expected ErrAlreadyVoted on repeat approve, got %v", err)
	}
	if _, err := svc.CastVote(ctx, req.ID, "admin-uid-1", "Admin One", VoteReject, ""); !errors.Is(err, domain.ErrAlreadyVoted) {
		t.Fatalf("expected ErrAlreadyVoted on flipped vote, got %v", err)
	}

	stored, err := repo.GetByID(ctx, req.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if stored.ApprovalCount != 1 {
		t.Fatalf("approval count = %d after duplicate votes, want 1", stored.ApprovalCount)
	}

	approvals, err := repo.ListApprovals(ctx, req.ID)
	if err != nil {
		t.Fatalf("ListApprovals failed: %v", err)
	}
	if len(approvals) != 1 {
		t.Fatalf("expected exactly 1 recorded vote, got %d", len(approvals))
	}
}

func TestVoteValidation(t *testing.T) {
	svc, _, _ := newBeneficiaryServiceForTest(2)
	ctx := context.Background()

	req, err := svc.CreateRequest(ctx, validCreateInput())
	if err != nil {
		t.Fatalf("CreateRequest failed: %v", err)
	}

	if _, err := svc.CastVote(ctx, req.ID, "admin-uid-1", "Admin One", "maybe", ""); !errors.Is(err, ErrInvalidVote) {
		t.Fatalf("expected ErrInvalidVote, got %v", err)
	}
	if _, err := svc.CastVote(ctx, 9999, "admin-uid-1", "Admin One", VoteApprove, ""); !errors.Is(err, domain.ErrRequestNotFound) {
		t.Fatalf("expected ErrRequestNotFound, got %v", err)
	}
}

func TestApprovalHistory(t *testing.T) {
	svc, _, _ := newBeneficiaryServiceForTest(2)
	ctx := context.Background()

	req, err := svc.CreateRequest(ctx, validCreateInput())
	if err != nil {
		t.Fatalf("CreateRequest failed: %v", err)
	}

	if _, err := svc.CastVote(ctx, req.ID, "admin-uid-1", "Admin One", VoteApprove, "looks fine"); err != nil {
		t.Fatalf("vote failed: %v", err)
	}

	history, err := svc.ApprovalHistory(ctx, req.ID)
	if err != nil {
		t.Fatalf("ApprovalHistory failed: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("expected 1 history record, got %d", len(history))
	}
	if history[0].Action != models.VoteActionApproved {
		t.Errorf("action = %q, want %q", history[0].Action, models.VoteActionApproved)
	}
	if history[0].Remarks != "looks fine" {
		t.Errorf("remarks = %q, want %q", history[0].Remarks, "looks fine")
	}

	if _, err := svc.ApprovalHistory(ctx, 9999); !errors.Is(err, domain.ErrRequestNotFound) {
		t.Fatalf("expected ErrRequestNotFound for unknown request, got %v", err)
	}
}
