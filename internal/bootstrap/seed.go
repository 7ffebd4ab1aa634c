package bootstrap

import (
	"context"
	"strings"

	"anoa.com/studentprofile/internal/entity"
	"anoa.com/studentprofile/pkg/password"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// AutoMigrate creates the schema straight from the entities for the SQLite
// test databases. The server always applies the SQL migrations.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(entity.All()...)
}

// SeedTeacher creates a teacher account for local development when it does
// not exist yet.
func SeedTeacher(ctx context.Context, db *gorm.DB, email, plain string, log zerolog.Logger) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || plain == "" {
		log.Debug().Msg("seed teacher credentials not configured, skipping seed")
		return nil
	}

	var count int64
	if err := db.WithContext(ctx).Model(&entity.Teacher{}).
		Where("email = ?", email).
		Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Info().Str("email", email).Msg("teacher already exists, skipping seed")
		return nil
	}

	hash, err := password.Hash(plain)
	if err != nil {
		return err
	}

	teacher := entity.Teacher{
		Email:        email,
		PasswordHash: hash,
		FirstName:    "Demo",
		LastName:     "Teacher",
		Role:         entity.RoleTeacher,
	}
	if err := db.WithContext(ctx).Create(&teacher).Error; err != nil {
		return err
	}

	log.Info().Str("email", email).Msg("teacher seeded successfully")
	return nil
}
