package repositories

import (
	"context"

	"sfa-welfarehub/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// memberRepository implements MemberRepository
type memberRepository struct {
	db *gorm.DB
}

// NewMemberRepository creates a new member repository
func NewMemberRepository(db *gorm.DB) MemberRepository {
	return &memberRepository{db: db}
}

// Create creates a new member profile
func (r *memberRepository) Create(ctx context.Context, member *models.Member) error {
	return r.db.WithContext(ctx).Create(member).Error
}

// GetByUID gets a member by auth UID
func (r *memberRepository) GetByUID(ctx context.Context, uid string) (*models.Member, error) {
	var member models.Member
	err := r.db.WithContext(ctx).Where("uid = ?", uid).First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// GetByMemberID gets a member by member number
func (r *memberRepository) GetByMemberID(ctx context.Context, memberID string) (*models.Member, error) {
	var member models.Member
	err := r.db.WithContext(ctx).Where("member_id = ?", memberID).First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// GetBySfaID gets a member by SFA-ID
func (r *memberRepository) GetBySfaID(ctx context.Context, sfaID string) (*models.Member, error) {
	var member models.Member
	err := r.db.WithContext(ctx).Where("sfa_id = ?", sfaID).First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// Update updates a member profile
func (r *memberRepository) Update(ctx context.Context, member *models.Member) error {
	return r.db.WithContext(ctx).Save(member).Error
}

// DeleteByMemberID hard deletes a member profile by member number
func (r *memberRepository) DeleteByMemberID(ctx context.Context, memberID string) error {
	return r.db.WithContext(ctx).Where("member_id = ?", memberID).Delete(&models.Member{}).Error
}

// List lists members with pagination
func (r *memberRepository) List(ctx context.Context, offset, limit int) ([]*models.Member, int64, error) {
	var members []*models.Member
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Member{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := r.db.WithContext(ctx).Order("created_at DESC").Offset(offset).Limit(limit).Find(&members).Error; err != nil {
		return nil, 0, err
	}

	return members, total, nil
}

// CountAdmins counts members holding admin or founder role.
// The beneficiary quorum snapshot reads this at request creation time.
func (r *memberRepository) CountAdmins(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Member{}).
		Where("role IN ? AND is_active = ?", []string{models.RoleAdmin, models.RoleFounder}, true).
		Count(&count).Error
	return count, err
}

// ExistsByMemberID checks if a member number is already registered
func (r *memberRepository) ExistsByMemberID(ctx context.Context, memberID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Member{}).Where("member_id = ?", memberID).Count(&count).Error
	return count > 0, err
}
