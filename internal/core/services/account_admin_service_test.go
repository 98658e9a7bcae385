package services

import (
	"context"
	"errors"
	"testing"

	"sfa-welfarehub/internal/adapters/persistence/models"
	"sfa-welfarehub/internal/core/domain"
)

func accountAdminFixture() (*AccountAdminService, *fakeMemberRepo, *fakeMirrorRepo, *fakeCredentialStore, *fakeAuditRepo) {
	founder := &models.Member{
		MemberID: "M001",
		UID:      "founder-uid",
		SfaID:    "SFA0000",
		Email:    "founder@example.org",
		FullName: "The Founder",
		Role:     models.RoleFounder,
		IsActive: true,
	}
	target := &models.Member{
		MemberID: "M042",
		UID:      "target-uid",
		SfaID:    "SFA0042",
		Email:    "target@example.org",
		FullName: "Target Member",
		Role:     models.RoleMember,
		IsActive: true,
	}
	other := &models.Member{
		MemberID: "M050",
		UID:      "other-uid",
		SfaID:    "SFA0050",
		Email:    "other@example.org",
		FullName: "Other Member",
		Role:     models.RoleAdmin,
		IsActive: true,
	}

	memberRepo := newFakeMemberRepo(founder, target, other)
	mirrorRepo := newFakeMirrorRepo(
		&models.MemberMirror{UID: "founder-uid", MemberID: "M001", SfaID: "SFA0000", Email: "founder@example.org"},
		&models.MemberMirror{UID: "target-uid", MemberID: "M042", SfaID: "SFA0042", Email: "target@example.org"},
		&models.MemberMirror{UID: "other-uid", MemberID: "M050", SfaID: "SFA0050", Email: "other@example.org"},
	)
	credStore := newFakeCredentialStore(
		&models.AuthCredential{UID: "founder-uid", Email: "founder@example.org"},
		&models.AuthCredential{UID: "target-uid", Email: "target@example.org"},
		&models.AuthCredential{UID: "other-uid", Email: "other@example.org"},
	)
	auditRepo := &fakeAuditRepo{}

	svc := NewAccountAdminService(memberRepo, mirrorRepo, credStore, auditRepo)
	return svc, memberRepo, mirrorRepo, credStore, auditRepo
}

func TestDeleteAccountRequiresFounder(t *testing.T) {
	svc, memberRepo, mirrorRepo, credStore, auditRepo := accountAdminFixture()
	ctx := context.Background()

	tests := []struct {
		name      string
		callerUID string
		wantErr   error
	}{
		{"empty caller", "", domain.ErrUnauthenticated},
		{"unknown caller", "nobody-uid", domain.ErrPermissionDenied},
		{"admin is not enough", "other-uid", domain.ErrPermissionDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.DeleteUserAccount(ctx, tt.callerUID, "M042", "SFA0042", "left association")
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}

	// Denied calls must leave every store untouched
	if _, err := memberRepo.GetByMemberID(ctx, "M042"); err != nil {
		t.Fatal("member profile was mutated by a denied call")
	}
	if _, err := mirrorRepo.GetByUID(ctx, "target-uid"); err != nil {
		t.Fatal("mirror was mutated by a denied call")
	}
	if _, err := credStore.GetByUID(ctx, "target-uid"); err != nil {
		t.Fatal("credential was mutated by a denied call")
	}
	if auditRepo.count() != 0 {
		t.Fatalf("denied calls wrote %d audit entries", auditRepo.count())
	}
}

func TestDeleteAccountRemovesAllThreeStores(t *testing.T) {
	svc, memberRepo, mirrorRepo, credStore, auditRepo := accountAdminFixture()
	ctx := context.Background()

	result, err := svc.DeleteUserAccount(ctx, "founder-uid", "M042", "SFA0042", "left association")
	if err != nil {
		t.Fatalf("DeleteUserAccount failed: %v", err)
	}

	if result.MemberID != "M042" || result.SfaID != "SFA0042" || result.Email != "target@example.org" {
		t.Errorf("unexpected result: %+v", result)
	}

	if _, err := credStore.GetByUID(ctx, "target-uid"); err == nil {
		t.Error("credential still present after delete")
	}
	if _, err := memberRepo.GetByMemberID(ctx, "M042"); err == nil {
		t.Error("member profile still present after delete")
	}
	if _, err := mirrorRepo.GetByUID(ctx, "target-uid"); err == nil {
		t.Error("mirror still present after delete")
	}

	if auditRepo.count() != 1 {
		t.Fatalf("expected 1 audit entry, got %d", auditRepo.count())
	}
	entry := auditRepo.entries[0]
	if entry.Action != models.AuditActionDeleteAccount || entry.TargetMemberID != "M042" {
		t.Errorf("unexpected audit entry: %+v", entry)
	}
}

func TestDeleteAccountToleratesAbsentCredential(t *testing.T) {
	svc, memberRepo, mirrorRepo, credStore, _ := accountAdminFixture()
	ctx := context.Background()

	// Simulate a retry after a partial failure: credential already gone
	if err := credStore.Delete(ctx, "target-uid"); err != nil {
		t.Fatalf("setup delete failed: %v", err)
	}

	if _, err := svc.DeleteUserAccount(ctx, "founder-uid", "M042", "SFA0042", "retry"); err != nil {
		t.Fatalf("retry after partial failure should succeed, got %v", err)
	}
	if _, err := memberRepo.GetByMemberID(ctx, "M042"); err == nil {
		t.Error("member profile still present after retry")
	}
	if _, err := mirrorRepo.GetByUID(ctx, "target-uid"); err == nil {
		t.Error("mirror still present after retry")
	}
}

func TestDeleteAccountReportsPartialFailure(t *testing.T) {
	svc, memberRepo, _, credStore, auditRepo := accountAdminFixture()
	ctx := context.Background()

	memberRepo.deleteErr = errors.New("db unavailable")

	_, err := svc.DeleteUserAccount(ctx, "founder-uid", "M042", "SFA0042", "cleanup")
	if err == nil {
		t.Fatal("expected error when profile deletion fails")
	}

	// The credential was already removed before the failing step
	if _, gerr := credStore.GetByUID(ctx, "target-uid"); gerr == nil {
		t.Error("credential should have been removed before the failure")
	}
	if auditRepo.count() != 0 {
		t.Error("partial failure must not write a success audit entry")
	}
}

func TestDeleteAccountUnknownTarget(t *testing.T) {
	svc, _, _, _, _ := accountAdminFixture()

	_, err := svc.DeleteUserAccount(context.Background(), "founder-uid", "M999", "SFA0999", "")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateEmailHappyPath(t *testing.T) {
	svc, memberRepo, mirrorRepo, credStore, auditRepo := accountAdminFixture()
	ctx := context.Background()

	result, err := svc.UpdateUserEmail(ctx, "founder-uid", "M042", "new@example.org")
	if err != nil {
		t.Fatalf("UpdateUserEmail failed: %v", err)
	}

	if result.OldEmail != "target@example.org" || result.NewEmail != "new@example.org" {
		t.Errorf("unexpected result: %+v", result)
	}

	cred, _ := credStore.GetByUID(ctx, "target-uid")
	if cred.Email != "new@example.org" {
		t.Errorf("credential email = %q", cred.Email)
	}
	member, _ := memberRepo.GetByMemberID(ctx, "M042")
	if member.Email != "new@example.org" {
		t.Errorf("profile email = %q", member.Email)
	}
	mirror, _ := mirrorRepo.GetByUID(ctx, "target-uid")
	if mirror.Email != "new@example.org" {
		t.Errorf("mirror email = %q", mirror.Email)
	}

	if auditRepo.count() != 1 {
		t.Fatalf("expected 1 audit entry, got %d", auditRepo.count())
	}
	if auditRepo.entries[0].Action != models.AuditActionUpdateEmail {
		t.Errorf("audit action = %q", auditRepo.entries[0].Action)
	}
}

func TestUpdateEmailRejectsTakenAddress(t *testing.T) {
	svc, _, _, credStore, _ := accountAdminFixture()
	ctx := context.Background()

	_, err := svc.UpdateUserEmail(ctx, "founder-uid", "M042", "other@example.org")
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}

	// Nothing changed
	cred, _ := credStore.GetByUID(ctx, "target-uid")
	if cred.Email != "target@example.org" {
		t.Errorf("credential email was mutated: %q", cred.Email)
	}
}

func TestUpdateEmailToOwnAddressIsIdempotent(t *testing.T) {
	svc, _, _, _, _ := accountAdminFixture()

	// Setting the target's current email is not a conflict
	result, err := svc.UpdateUserEmail(context.Background(), "founder-uid", "M042", "target@example.org")
	if err != nil {
		t.Fatalf("expected success for unchanged email, got %v", err)
	}
	if result.NewEmail != "target@example.org" {
		t.Errorf("unexpected result: %+v", result)
	}
}

func TestUpdateEmailValidation(t *testing.T) {
	svc, _, _, _, _ := accountAdminFixture()
	ctx := context.Background()

	tests := []struct {
		name     string
		memberID string
		email    string
	}{
		{"empty member ID", "", "new@example.org"},
		{"empty email", "M042", ""},
		{"malformed email", "M042", "not-an-email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.UpdateUserEmail(ctx, "founder-uid", tt.memberID, tt.email)
			if !errors.Is(err, domain.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestUpdateEmailRequiresFounder(t *testing.T) {
	svc, _, _, credStore, _ := accountAdminFixture()
	ctx := context.Background()

	_, err := svc.UpdateUserEmail(ctx, "other-uid", "M042", "new@example.org")
	if !errors.Is(err, domain.ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}

	cred, _ := credStore.GetByUID(ctx, "target-uid")
	if cred.Email != "target@example.org" {
		t.Errorf("credential email was mutated by denied call: %q", cred.Email)
	}
}
