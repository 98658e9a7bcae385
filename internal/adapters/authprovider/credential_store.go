// Package authprovider holds the credential store boundary. Credentials
// live in their own table and are mutated outside the member profile
// transactions: the account mutation boundary treats them as a separate
// system, so profile writes and credential writes can partially fail
// independently.
package authprovider

import (
	"context"
	"errors"

	"sfa-welfarehub/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// Credential store errors
var (
	ErrCredentialNotFound = errors.New("credential not found")
	ErrEmailTaken         = errors.New("email already in use by another credential")
)

// CredentialStore defines the credential provider contract: create,
// delete by UID, update email by UID, and an existence probe by email.
type CredentialStore interface {
	Create(ctx context.Context, cred *models.AuthCredential) error
	GetByUID(ctx context.Context, uid string) (*models.AuthCredential, error)
	GetByEmail(ctx context.Context, email string) (*models.AuthCredential, error)
	UpdateEmail(ctx context.Context, uid, newEmail string) error
	UpdatePasswordHash(ctx context.Context, uid, passwordHash string) error
	Delete(ctx context.Context, uid string) error
}

// gormCredentialStore implements CredentialStore over the auth_credentials table
type gormCredentialStore struct {
	db *gorm.DB
}

// NewCredentialStore creates a database-backed credential store
func NewCredentialStore(db *gorm.DB) CredentialStore {
	return &gormCredentialStore{db: db}
}

// Create creates a credential; a duplicate email fails on the unique index
func (s *gormCredentialStore) Create(ctx context.Context, cred *models.AuthCredential) error {
	return s.db.WithContext(ctx).Create(cred).Error
}

// GetByUID looks up a credential by UID
func (s *gormCredentialStore) GetByUID(ctx context.Context, uid string) (*models.AuthCredential, error) {
	var cred models.AuthCredential
	err := s.db.WithContext(ctx).Where("uid = ?", uid).First(&cred).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCredentialNotFound
	}
	if err != nil {
		return nil, err
	}
	return &cred, nil
}

// GetByEmail looks up a credential by email. Returns ErrCredentialNotFound
// when no credential owns the email; callers use this as the availability
// probe.
func (s *gormCredentialStore) GetByEmail(ctx context.Context, email string) (*models.AuthCredential, error) {
	var cred models.AuthCredential
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&cred).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCredentialNotFound
	}
	if err != nil {
		return nil, err
	}
	return &cred, nil
}

// UpdateEmail updates a credential's email by UID
func (s *gormCredentialStore) UpdateEmail(ctx context.Context, uid, newEmail string) error {
	result := s.db.WithContext(ctx).Model(&models.AuthCredential{}).
		Where("uid = ?", uid).
		Update("email", newEmail)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCredentialNotFound
	}
	return nil
}

// UpdatePasswordHash updates a credential's password hash by UID
func (s *gormCredentialStore) UpdatePasswordHash(ctx context.Context, uid, passwordHash string) error {
	result := s.db.WithContext(ctx).Model(&models.AuthCredential{}).
		Where("uid = ?", uid).
		Update("password_hash", passwordHash)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCredentialNotFound
	}
	return nil
}

// Delete removes a credential by UID. Returns ErrCredentialNotFound when
// the credential is already gone so callers can treat that as non-fatal.
func (s *gormCredentialStore) Delete(ctx context.Context, uid string) error {
	result := s.db.WithContext(ctx).Where("uid = ?", uid).Delete(&models.AuthCredential{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCredentialNotFound
	}
	return nil
}
