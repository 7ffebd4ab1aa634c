// Package testutil builds throwaway databases and accounts for package tests.
package testutil

import (
	"fmt"
	"testing"

	"anoa.com/studentprofile/internal/bootstrap"
	"anoa.com/studentprofile/internal/entity"
	"anoa.com/studentprofile/pkg/password"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a private in-memory SQLite database with the full schema.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, bootstrap.AutoMigrate(db))
	return db
}

func CreateStudent(t testing.TB, db *gorm.DB, email string) *entity.Student {
	t.Helper()

	hash, err := password.Hash("password123")
	require.NoError(t, err)

	student := &entity.Student{Email: email, PasswordHash: hash, IsFirstLogin: true}
	require.NoError(t, db.Create(student).Error)
	return student
}

func CreateTeacher(t testing.TB, db *gorm.DB, email string) *entity.Teacher {
	t.Helper()

	hash, err := password.Hash("password123")
	require.NoError(t, err)

	teacher := &entity.Teacher{Email: email, PasswordHash: hash, FirstName: "Tina", LastName: "Teach"}
	require.NoError(t, db.Create(teacher).Error)
	return teacher
}

func Ptr[T any](v T) *T {
	return &v
}
