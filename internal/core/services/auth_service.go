package services

import (
	"context"
	"errors"
	"log"
	"net/mail"

	"sfa-welfarehub/internal/adapters/authprovider"
	"sfa-welfarehub/internal/adapters/persistence/models"
	"sfa-welfarehub/internal/adapters/persistence/repositories"
	"sfa-welfarehub/internal/config"
	"sfa-welfarehub/internal/core/domain"
	"sfa-welfarehub/internal/pkg/jwt"
	"sfa-welfarehub/internal/pkg/password"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Auth errors
var (
	ErrMemberNotFound          = errors.New("member not found")
	ErrMemberAlreadyRegistered = errors.New("member number already registered")
	ErrEmailAlreadyExists      = errors.New("email already registered")
	ErrInvalidCredentials      = errors.New("invalid credentials")
	ErrInvalidToken            = errors.New("invalid token")
	ErrTokenExpired            = errors.New("token expired")
	ErrTokenRevoked            = errors.New("token revoked")
	ErrMemberInactive          = errors.New("member account is inactive")
	ErrWeakPassword            = errors.New("password does not meet requirements")
)

// AuthService handles registration and authentication. Registration
// creates the auth credential first, then allocates the SFA-ID; if
// allocation fails the credential is deleted again (compensating action,
// not a two-phase commit) so no half-registered account survives.
type AuthService struct {
	memberRepo       repositories.MemberRepository
	mirrorRepo       repositories.MirrorRepository
	refreshTokenRepo repositories.RefreshTokenRepository
	credStore        authprovider.CredentialStore
	sfaIDService     *SfaIDService
	cfg              *config.Config
}

// NewAuthService creates a new auth service
func NewAuthService(
	memberRepo repositories.MemberRepository,
	mirrorRepo repositories.MirrorRepository,
	refreshTokenRepo repositories.RefreshTokenRepository,
	credStore authprovider.CredentialStore,
	sfaIDService *SfaIDService,
	cfg *config.Config,
) *AuthService {
	return &AuthService{
		memberRepo:       memberRepo,
		mirrorRepo:       mirrorRepo,
		refreshTokenRepo: refreshTokenRepo,
		credStore:        credStore,
		sfaIDService:     sfaIDService,
		cfg:              cfg,
	}
}

// RegisterInput represents registration input
type RegisterInput struct {
	MemberID string `json:"member_id"`
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Lobby    string `json:"lobby"`
	Phone    string `json:"phone"`
}

// TokenPair represents access and refresh tokens
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	Member       *models.MemberResponse `json:"member"`
	AccessToken  string                 `json:"access_token"`
	RefreshToken string                 `json:"refresh_token"`
}

// Register registers a new member: credential first, then SFA-ID
// allocation, then the two profile documents
func (s *AuthService) Register(ctx context.Context, input *RegisterInput) (*AuthResponse, error) {
	// 1. Validate input
	if input.MemberID == "" || input.Email == "" || input.FullName == "" {
		return nil, domain.ErrInvalidInput
	}
	if _, err := mail.ParseAddress(input.Email); err != nil {
		return nil, domain.ErrInvalidInput
	}
	if !password.Acceptable(input.Password) {
		return nil, ErrWeakPassword
	}

	// 2. Check member number not already registered
	exists, err := s.memberRepo.ExistsByMemberID(ctx, input.MemberID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrMemberAlreadyRegistered
	}

	// 3. Check email availability in the credential store
	if _, err := s.credStore.GetByEmail(ctx, input.Email); err == nil {
		return nil, ErrEmailAlreadyExists
	} else if !errors.Is(err, authprovider.ErrCredentialNotFound) {
		return nil, err
	}

	// 4. Create the credential
	hashed, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	cred := &models.AuthCredential{
		UID:          uuid.New().String(),
		Email:        input.Email,
		PasswordHash: hashed,
	}
	if err := s.credStore.Create(ctx, cred); err != nil {
		return nil, err
	}

	// 5. Allocate the SFA-ID. On failure the credential is rolled back:
	// a member record must never exist without a reserved SFA-ID.
	sfaID, err := s.sfaIDService.Allocate(ctx)
	if err != nil {
		s.rollbackCredential(ctx, cred.UID)
		return nil, err
	}

	// 6. Create profile and mirror documents
	member := &models.Member{
		MemberID: input.MemberID,
		UID:      cred.UID,
		SfaID:    sfaID,
		Email:    input.Email,
		FullName: input.FullName,
		Lobby:    input.Lobby,
		Phone:    input.Phone,
		Role:     models.RoleMember,
		IsActive: true,
	}
	if err := s.memberRepo.Create(ctx, member); err != nil {
		s.rollbackCredential(ctx, cred.UID)
		return nil, err
	}

	mirror := &models.MemberMirror{
		UID:      cred.UID,
		MemberID: input.MemberID,
		SfaID:    sfaID,
		Email:    input.Email,
		FullName: input.FullName,
		Role:     models.RoleMember,
	}
	if err := s.mirrorRepo.Create(ctx, mirror); err != nil {
		log.Printf("⚠️ Mirror creation failed for %s, profile exists without mirror: %v", input.MemberID, err)
	}

	// 7. Issue tokens
	tokens, err := s.generateTokens(member)
	if err != nil {
		return nil, err
	}
	if err := s.storeRefreshToken(ctx, member.UID, tokens.RefreshToken); err != nil {
		return nil, err
	}

	log.Printf("✅ Member registered: %s (%s)", member.MemberID, member.SfaID)

	return &AuthResponse{
		Member:       member.ToResponse(),
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}, nil
}

// rollbackCredential compensates a failed registration by removing the
// just-created credential
func (s *AuthService) rollbackCredential(ctx context.Context, uid string) {
	if err := s.credStore.Delete(ctx, uid); err != nil && !errors.Is(err, authprovider.ErrCredentialNotFound) {
		log.Printf("⚠️ Failed to roll back credential %s after registration failure: %v", uid, err)
	}
}

// LoginInput represents login input
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates a member by email and password
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*AuthResponse, error) {
	cred, err := s.credStore.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, authprovider.ErrCredentialNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if cred.Disabled {
		return nil, ErrMemberInactive
	}
	if !password.Verify(input.Password, cred.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	member, err := s.memberRepo.GetByUID(ctx, cred.UID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}
	if !member.IsActive {
		return nil, ErrMemberInactive
	}

	tokens, err := s.generateTokens(member)
	if err != nil {
		return nil, err
	}
	if err := s.storeRefreshToken(ctx, member.UID, tokens.RefreshToken); err != nil {
		return nil, err
	}

	log.Printf("✅ Member logged in: %s", member.SfaID)

	return &AuthResponse{
		Member:       member.ToResponse(),
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}, nil
}

// RefreshToken rotates the refresh token and issues a new access token
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	claims, err := jwt.ValidateRefreshToken(refreshToken, s.cfg.JWT.RefreshSecret)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	tokenHash := password.HashToken(refreshToken)
	storedToken, err := s.refreshTokenRepo.GetByTokenHash(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	if storedToken.IsRevoked() {
		return nil, ErrTokenRevoked
	}
	if storedToken.IsExpired() {
		return nil, ErrTokenExpired
	}

	member, err := s.memberRepo.GetByUID(ctx, claims.UID)
	if err != nil {
		return nil, ErrMemberNotFound
	}
	if !member.IsActive {
		return nil, ErrMemberInactive
	}

	// Token rotation: revoke the old one before issuing a new pair
	if err := s.refreshTokenRepo.Revoke(ctx, storedToken.ID); err != nil {
		return nil, err
	}

	tokens, err := s.generateTokens(member)
	if err != nil {
		return nil, err
	}
	if err := s.storeRefreshToken(ctx, member.UID, tokens.RefreshToken); err != nil {
		return nil, err
	}

	return &AuthResponse{
		Member:       member.ToResponse(),
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}, nil
}

// Logout revokes the given refresh token
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	tokenHash := password.HashToken(refreshToken)
	return s.refreshTokenRepo.RevokeByTokenHash(ctx, tokenHash)
}

// LogoutAll revokes all refresh tokens for a member
func (s *AuthService) LogoutAll(ctx context.Context, uid string) error {
	return s.refreshTokenRepo.RevokeAllByUID(ctx, uid)
}

// GetMemberByUID gets a member by auth UID
func (s *AuthService) GetMemberByUID(ctx context.Context, uid string) (*models.Member, error) {
	member, err := s.memberRepo.GetByUID(ctx, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}
	return member, nil
}

// generateTokens generates an access and refresh token pair
func (s *AuthService) generateTokens(member *models.Member) (*TokenPair, error) {
	accessToken, err := jwt.GenerateAccessToken(
		member.UID,
		member.MemberID,
		member.SfaID,
		member.Role,
		s.cfg.JWT.Secret,
		s.cfg.JWT.AccessTokenMins,
	)
	if err != nil {
		return nil, err
	}

	refreshToken, err := jwt.GenerateRefreshToken(
		member.UID,
		uuid.New().String(),
		s.cfg.JWT.RefreshSecret,
		s.cfg.JWT.RefreshTokenDays,
	)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// storeRefreshToken stores a hashed refresh token
func (s *AuthService) storeRefreshToken(ctx context.Context, uid, refreshToken string) error {
	token := &models.RefreshToken{
		UID:       uid,
		TokenHash: password.HashToken(refreshToken),
		ExpiresAt: jwt.GetExpiryTime(s.cfg.JWT.RefreshTokenDays),
	}
	return s.refreshTokenRepo.Create(ctx, token)
}
