package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/mail"

	"sfa-welfarehub/internal/adapters/authprovider"
	"sfa-welfarehub/internal/adapters/persistence/models"
	"sfa-welfarehub/internal/adapters/persistence/repositories"
	"sfa-welfarehub/internal/core/domain"

	"gorm.io/gorm"
)

// AccountAdminService is the privileged account mutation boundary: delete
// account and update email, founder-only. Each operation mutates the
// credential store and the two profile tables sequentially; the stores are
// independent systems, so there is no cross-store transaction and no
// automatic rollback. Errors after the credential step name which steps
// completed so operators can reconcile by hand.
type AccountAdminService struct {
	memberRepo repositories.MemberRepository
	mirrorRepo repositories.MirrorRepository
	credStore  authprovider.CredentialStore
	auditRepo  repositories.AuditLogRepository
}

// NewAccountAdminService creates a new account admin service
func NewAccountAdminService(
	memberRepo repositories.MemberRepository,
	mirrorRepo repositories.MirrorRepository,
	credStore authprovider.CredentialStore,
	auditRepo repositories.AuditLogRepository,
) *AccountAdminService {
	return &AccountAdminService{
		memberRepo: memberRepo,
		mirrorRepo: mirrorRepo,
		credStore:  credStore,
		auditRepo:  auditRepo,
	}
}

// requireFounder loads the caller's own profile and checks founder role.
// Routes also gate on role, but the check is repeated here so the service
// is safe regardless of transport.
func (s *AccountAdminService) requireFounder(ctx context.Context, callerUID string) (*models.Member, error) {
	if callerUID == "" {
		return nil, domain.ErrUnauthenticated
	}

	caller, err := s.memberRepo.GetByUID(ctx, callerUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPermissionDenied
		}
		return nil, err
	}
	if !caller.IsFounder() {
		return nil, domain.ErrPermissionDenied
	}
	return caller, nil
}

// DeleteAccountResult represents a successful account deletion
type DeleteAccountResult struct {
	MemberID string `json:"member_id"`
	SfaID    string `json:"sfa_id"`
	Email    string `json:"email"`
}

// DeleteUserAccount removes the target's auth credential, primary profile
// and mirror profile, in that order. An already-absent credential is
// non-fatal (logged and skipped) so a retry after partial failure is safe
// for that step.
func (s *AccountAdminService) DeleteUserAccount(ctx context.Context, callerUID, targetMemberID, targetSfaID, reason string) (*DeleteAccountResult, error) {
	caller, err := s.requireFounder(ctx, callerUID)
	if err != nil {
		return nil, err
	}
	if targetMemberID == "" || targetSfaID == "" {
		return nil, domain.ErrInvalidInput
	}

	// Pre-deletion snapshot for the audit trail
	target, err := s.memberRepo.GetByMemberID(ctx, targetMemberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	// Step 1: auth credential. Absent credential means a previous attempt
	// already removed it; continue so document cleanup still happens.
	if err := s.credStore.Delete(ctx, target.UID); err != nil {
		if errors.Is(err, authprovider.ErrCredentialNotFound) {
			log.Printf("⚠️ Credential for %s already absent, continuing with document deletion", targetMemberID)
		} else {
			return nil, fmt.Errorf("delete account %s: credential deletion failed, no documents removed: %w", targetMemberID, err)
		}
	}

	// Step 2: primary profile. From here on the credential is gone;
	// a failure leaves document state uncertain and needs manual
	// reconciliation.
	if err := s.memberRepo.DeleteByMemberID(ctx, targetMemberID); err != nil {
		return nil, fmt.Errorf("delete account %s: credential removed but member profile deletion failed, manual reconciliation required: %w", targetMemberID, err)
	}

	// Step 3: mirror profile
	if err := s.mirrorRepo.DeleteByUID(ctx, target.UID); err != nil {
		return nil, fmt.Errorf("delete account %s: credential and profile removed but mirror deletion failed, manual reconciliation required: %w", targetMemberID, err)
	}

	entry := &models.AuditLog{
		Action:         models.AuditActionDeleteAccount,
		PerformedBy:    caller.UID,
		TargetUID:      target.UID,
		TargetMemberID: target.MemberID,
		TargetSfaID:    target.SfaID,
		Detail:         fmt.Sprintf("deleted account of %s <%s>; reason: %s", target.FullName, target.Email, reason),
	}
	if err := s.auditRepo.Create(ctx, entry); err != nil {
		log.Printf("⚠️ Account %s deleted but audit entry failed: %v", targetMemberID, err)
	}

	log.Printf("✅ Account deleted: %s (%s) by founder %s", target.MemberID, target.SfaID, caller.UID)
	return &DeleteAccountResult{
		MemberID: target.MemberID,
		SfaID:    target.SfaID,
		Email:    target.Email,
	}, nil
}

// UpdateEmailResult represents a successful email change
type UpdateEmailResult struct {
	MemberID string `json:"member_id"`
	OldEmail string `json:"old_email"`
	NewEmail string `json:"new_email"`
}

// UpdateUserEmail changes the target's email in the credential store, the
// primary profile and the mirror profile, in that order. The same
// non-transactional caveat applies: a failure after the credential update
// leaves the documents stale.
func (s *AccountAdminService) UpdateUserEmail(ctx context.Context, callerUID, targetMemberID, newEmail string) (*UpdateEmailResult, error) {
	caller, err := s.requireFounder(ctx, callerUID)
	if err != nil {
		return nil, err
	}
	if targetMemberID == "" || newEmail == "" {
		return nil, domain.ErrInvalidInput
	}
	if _, err := mail.ParseAddress(newEmail); err != nil {
		return nil, domain.ErrInvalidInput
	}

	target, err := s.memberRepo.GetByMemberID(ctx, targetMemberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	// Existence probe: "not found" means the email is free; any other
	// lookup failure propagates.
	owner, err := s.credStore.GetByEmail(ctx, newEmail)
	if err != nil && !errors.Is(err, authprovider.ErrCredentialNotFound) {
		return nil, err
	}
	if owner != nil && owner.UID != target.UID {
		return nil, domain.ErrAlreadyExists
	}

	oldEmail := target.Email

	// Step 1: credential store
	if err := s.credStore.UpdateEmail(ctx, target.UID, newEmail); err != nil {
		return nil, fmt.Errorf("update email for %s: credential update failed, no documents changed: %w", targetMemberID, err)
	}

	// Step 2: primary profile
	target.Email = newEmail
	if err := s.memberRepo.Update(ctx, target); err != nil {
		return nil, fmt.Errorf("update email for %s: credential updated but member profile is stale, manual reconciliation required: %w", targetMemberID, err)
	}

	// Step 3: mirror profile. A missing mirror is repaired lazily, not fatal.
	mirror, err := s.mirrorRepo.GetByUID(ctx, target.UID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("⚠️ Mirror for %s missing during email change, skipping", targetMemberID)
		} else {
			return nil, fmt.Errorf("update email for %s: credential and profile updated but mirror is stale, manual reconciliation required: %w", targetMemberID, err)
		}
	} else {
		mirror.Email = newEmail
		if err := s.mirrorRepo.Update(ctx, mirror); err != nil {
			return nil, fmt.Errorf("update email for %s: credential and profile updated but mirror is stale, manual reconciliation required: %w", targetMemberID, err)
		}
	}

	entry := &models.AuditLog{
		Action:         models.AuditActionUpdateEmail,
		PerformedBy:    caller.UID,
		TargetUID:      target.UID,
		TargetMemberID: target.MemberID,
		TargetSfaID:    target.SfaID,
		Detail:         fmt.Sprintf("email changed from %s to %s", oldEmail, newEmail),
	}
	if err := s.auditRepo.Create(ctx, entry); err != nil {
		log.Printf("⚠️ Email for %s updated but audit entry failed: %v", targetMemberID, err)
	}

	log.Printf("✅ Email updated for %s: %s -> %s by founder %s", target.MemberID, oldEmail, newEmail, caller.UID)
	return &UpdateEmailResult{
		MemberID: target.MemberID,
		OldEmail: oldEmail,
		NewEmail: newEmail,
	}, nil
}
