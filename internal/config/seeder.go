package config

import (
	"fmt"
	"log"

	"sfa-welfarehub/internal/adapters/persistence/models"
	"sfa-welfarehub/internal/pkg/password"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Seeder handles database seeding
type Seeder struct {
	db  *gorm.DB
	cfg *Config
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB, cfg *Config) *Seeder {
	return &Seeder{db: db, cfg: cfg}
}

// Run executes all seeders
func (s *Seeder) Run() error {
	log.Println("🌱 Running database seeders...")

	if err := s.seedFounder(); err != nil {
		log.Printf("⚠️ Founder seeder skipped: %v", err)
	}

	log.Println("✅ Database seeding completed")
	return nil
}

// seedFounder creates the initial founder account from environment
// configuration. Without a founder the privileged account mutation
// endpoints are unreachable, so a fresh deployment needs this once.
func (s *Seeder) seedFounder() error {
	var count int64
	s.db.Model(&models.Member{}).Where("role = ?", models.RoleFounder).Count(&count)
	if count > 0 {
		return nil // Founder already exists
	}

	if s.cfg.Seed.FounderEmail == "" || s.cfg.Seed.FounderPassword == "" {
		return fmt.Errorf("SEED_FOUNDER_EMAIL / SEED_FOUNDER_PASSWORD not set")
	}

	hashedPassword, err := password.Hash(s.cfg.Seed.FounderPassword)
	if err != nil {
		return err
	}

	uid := uuid.New().String()

	cred := &models.AuthCredential{
		UID:          uid,
		Email:        s.cfg.Seed.FounderEmail,
		PasswordHash: hashedPassword,
	}
	if err := s.db.Create(cred).Error; err != nil {
		return err
	}

	// The founder is seeded before the counter is initialized, so it
	// carries a fixed SFA-ID outside the allocated range
	member := &models.Member{
		MemberID: s.cfg.Seed.FounderMemberID,
		UID:      uid,
		SfaID:    "SFA0000",
		Email:    s.cfg.Seed.FounderEmail,
		FullName: s.cfg.Seed.FounderName,
		Role:     models.RoleFounder,
		IsActive: true,
	}
	if err := s.db.Create(member).Error; err != nil {
		return err
	}

	mirror := &models.MemberMirror{
		UID:      uid,
		MemberID: member.MemberID,
		SfaID:    member.SfaID,
		Email:    member.Email,
		FullName: member.FullName,
		Role:     models.RoleFounder,
	}
	if err := s.db.Create(mirror).Error; err != nil {
		return err
	}

	log.Printf("✅ Founder account created: %s", member.Email)
	return nil
}
