package repository

import (
	"context"
	"time"

	"anoa.com/studentprofile/internal/entity"
	"anoa.com/studentprofile/pkg/database"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AuthRepository interface {
	FindStudentByEmail(ctx context.Context, email string) (*entity.Student, error)
	FindTeacherByEmail(ctx context.Context, email string) (*entity.Teacher, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	CreateStudentWithProfile(ctx context.Context, student *entity.Student) error
	CreateTeacher(ctx context.Context, teacher *entity.Teacher) error
	TouchLastLogin(ctx context.Context, role string, id uuid.UUID, at time.Time) error
	UpdatePasswordHash(ctx context.Context, role string, id uuid.UUID, hash string) error
}

type authRepository struct {
	db *gorm.DB
}

func NewAuthRepository(db *gorm.DB) AuthRepository {
	return &authRepository{db: db}
}

func (r *authRepository) FindStudentByEmail(ctx context.Context, email string) (*entity.Student, error) {
	var student entity.Student
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&student).Error; err != nil {
		return nil, database.TranslateError(err)
	}
	return &student, nil
}

func (r *authRepository) FindTeacherByEmail(ctx context.Context, email string) (*entity.Teacher, error) {
	var teacher entity.Teacher
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&teacher).Error; err != nil {
		return nil, database.TranslateError(err)
	}
	return &teacher, nil
}

// EmailExists checks both account tables.
func (r *authRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entity.Student{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return true, nil
	}
	if err := r.db.WithContext(ctx).Model(&entity.Teacher{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CreateStudentWithProfile inserts the account and its empty profile together.
func (r *authRepository) CreateStudentWithProfile(ctx context.Context, student *entity.Student) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(student).Error; err != nil {
			return err
		}
		return tx.Create(&entity.StudentProfile{StudentID: student.ID}).Error
	})
	return database.TranslateError(err)
}

func (r *authRepository) CreateTeacher(ctx context.Context, teacher *entity.Teacher) error {
	return database.TranslateError(r.db.WithContext(ctx).Create(teacher).Error)
}

func (r *authRepository) TouchLastLogin(ctx context.Context, role string, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).Model(accountModel(role)).Where("id = ?", id).Update("last_login", at).Error
}

func (r *authRepository) UpdatePasswordHash(ctx context.Context, role string, id uuid.UUID, hash string) error {
	return r.db.WithContext(ctx).Model(accountModel(role)).Where("id = ?", id).Update("password_hash", hash).Error
}

func accountModel(role string) interface{} {
	if role == entity.RoleTeacher {
		return &entity.Teacher{}
	}
	return &entity.Student{}
}
