package services

import (
	"context"
	"errors"
	"log"

	"sfa-welfarehub/internal/adapters/authprovider"
	"sfa-welfarehub/internal/adapters/persistence/models"
	"sfa-welfarehub/internal/adapters/persistence/repositories"
	"sfa-welfarehub/internal/core/domain"
	"sfa-welfarehub/internal/pkg/pagination"
	"sfa-welfarehub/internal/pkg/password"

	"gorm.io/gorm"
)

var (
	ErrInvalidRole      = errors.New("invalid role")
	ErrCannotChangeOwn  = errors.New("cannot change own role")
	ErrWrongOldPassword = errors.New("old password is incorrect")
)

// UserService handles member directory and profile operations
type UserService struct {
	memberRepo repositories.MemberRepository
	mirrorRepo repositories.MirrorRepository
	credStore  authprovider.CredentialStore
}

// NewUserService creates a new user service
func NewUserService(
	memberRepo repositories.MemberRepository,
	mirrorRepo repositories.MirrorRepository,
	credStore authprovider.CredentialStore,
) *UserService {
	return &UserService{
		memberRepo: memberRepo,
		mirrorRepo: mirrorRepo,
		credStore:  credStore,
	}
}

// List returns members with pagination
func (s *UserService) List(ctx context.Context, params *pagination.Params) ([]models.MemberResponse, *pagination.Meta, error) {
	members, total, err := s.memberRepo.List(ctx, params.Offset, params.Limit)
	if err != nil {
		return nil, nil, err
	}

	responses := make([]models.MemberResponse, 0, len(members))
	for i := range members {
		responses = append(responses, *members[i].ToResponse())
	}

	return responses, pagination.GetMeta(params, total), nil
}

// GetByMemberID returns a member by association member number
func (s *UserService) GetByMemberID(ctx context.Context, memberID string) (*models.MemberResponse, error) {
	member, err := s.memberRepo.GetByMemberID(ctx, memberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return member.ToResponse(), nil
}

// UpdateRoleInput represents a role change
type UpdateRoleInput struct {
	Role string `json:"role"`
}

// UpdateRole changes a member's role. Callers cannot change their own
// role, which guarantees at least one founder always remains.
func (s *UserService) UpdateRole(ctx context.Context, callerUID, memberID string, input *UpdateRoleInput) (*models.MemberResponse, error) {
	if !models.IsValidRole(input.Role) {
		return nil, ErrInvalidRole
	}

	member, err := s.memberRepo.GetByMemberID(ctx, memberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	if member.UID == callerUID {
		return nil, ErrCannotChangeOwn
	}

	member.Role = input.Role
	if err := s.memberRepo.Update(ctx, member); err != nil {
		return nil, err
	}

	// Keep the mirror row in step with the profile
	if mirror, merr := s.mirrorRepo.GetByUID(ctx, member.UID); merr == nil {
		mirror.Role = input.Role
		if uerr := s.mirrorRepo.Update(ctx, mirror); uerr != nil {
			log.Printf("⚠️ Mirror role update failed for %s: %v", member.MemberID, uerr)
		}
	}

	log.Printf("✅ Role updated for %s -> %s", member.MemberID, input.Role)
	return member.ToResponse(), nil
}

// SetActive enables or disables a member account
func (s *UserService) SetActive(ctx context.Context, memberID string, active bool) (*models.MemberResponse, error) {
	member, err := s.memberRepo.GetByMemberID(ctx, memberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	member.IsActive = active
	if err := s.memberRepo.Update(ctx, member); err != nil {
		return nil, err
	}

	return member.ToResponse(), nil
}

// GetProfile returns the caller's own profile
func (s *UserService) GetProfile(ctx context.Context, uid string) (*models.MemberResponse, error) {
	member, err := s.memberRepo.GetByUID(ctx, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return member.ToResponse(), nil
}

// UpdateProfileInput represents self-service profile fields. Email is
// deliberately absent: email changes go through the founder-only
// account mutation endpoint so the credential store stays consistent.
type UpdateProfileInput struct {
	FullName string `json:"full_name"`
	Lobby    string `json:"lobby"`
	Phone    string `json:"phone"`
}

// UpdateProfile updates the caller's own profile
func (s *UserService) UpdateProfile(ctx context.Context, uid string, input *UpdateProfileInput) (*models.MemberResponse, error) {
	member, err := s.memberRepo.GetByUID(ctx, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	if input.FullName != "" {
		member.FullName = input.FullName
	}
	if input.Lobby != "" {
		member.Lobby = input.Lobby
	}
	if input.Phone != "" {
		member.Phone = input.Phone
	}

	if err := s.memberRepo.Update(ctx, member); err != nil {
		return nil, err
	}

	if input.FullName != "" {
		if mirror, merr := s.mirrorRepo.GetByUID(ctx, uid); merr == nil {
			mirror.FullName = member.FullName
			if uerr := s.mirrorRepo.Update(ctx, mirror); uerr != nil {
				log.Printf("⚠️ Mirror name update failed for %s: %v", member.MemberID, uerr)
			}
		}
	}

	return member.ToResponse(), nil
}

// ChangePasswordInput represents a password change
type ChangePasswordInput struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// ChangePassword verifies the old password and stores a new hash
func (s *UserService) ChangePassword(ctx context.Context, uid string, input *ChangePasswordInput) error {
	if !password.Acceptable(input.NewPassword) {
		return ErrWeakPassword
	}

	cred, err := s.credStore.GetByUID(ctx, uid)
	if err != nil {
		if errors.Is(err, authprovider.ErrCredentialNotFound) {
			return domain.ErrNotFound
		}
		return err
	}

	if !password.Verify(input.OldPassword, cred.PasswordHash) {
		return ErrWrongOldPassword
	}

	hashed, err := password.Hash(input.NewPassword)
	if err != nil {
		return err
	}

	return s.credStore.UpdatePasswordHash(ctx, uid, hashed)
}
