package repository

import (
	"context"

	"anoa.com/studentprofile/internal/entity"
	"anoa.com/studentprofile/pkg/apperror"
	"anoa.com/studentprofile/pkg/database"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MoocRepository interface {
	FindProfileID(ctx context.Context, studentID uuid.UUID) (uuid.UUID, error)
	Create(ctx context.Context, cert *entity.MoocCertificate) error
	ListByStudent(ctx context.Context, studentID uuid.UUID) ([]entity.MoocCertificate, error)
	ListByProfile(ctx context.Context, profileID uuid.UUID) ([]entity.MoocCertificate, error)
	FindOwned(ctx context.Context, id, studentID uuid.UUID) (*entity.MoocCertificate, error)
	Update(ctx context.Context, cert *entity.MoocCertificate) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type moocRepository struct {
	db *gorm.DB
}

func NewMoocRepository(db *gorm.DB) MoocRepository {
	return &moocRepository{db: db}
}

func (r *moocRepository) FindProfileID(ctx context.Context, studentID uuid.UUID) (uuid.UUID, error) {
	var profile entity.StudentProfile
	err := r.db.WithContext(ctx).
		Select("id").
		Where("student_id = ?", studentID).
		First(&profile).Error
	if err != nil {
		return uuid.Nil, database.TranslateError(err)
	}
	return profile.ID, nil
}

func (r *moocRepository) Create(ctx context.Context, cert *entity.MoocCertificate) error {
	return database.TranslateError(r.db.WithContext(ctx).Create(cert).Error)
}

func (r *moocRepository) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]entity.MoocCertificate, error) {
	certs := []entity.MoocCertificate{}
	err := r.db.WithContext(ctx).
		Joins("JOIN student_profiles ON student_profiles.id = mooc_certificates.student_profile_id").
		Where("student_profiles.student_id = ?", studentID).
		Order("mooc_certificates.created_at DESC").
		Find(&certs).Error
	if err != nil {
		return nil, err
	}
	return certs, nil
}

func (r *moocRepository) ListByProfile(ctx context.Context, profileID uuid.UUID) ([]entity.MoocCertificate, error) {
	certs := []entity.MoocCertificate{}
	err := r.db.WithContext(ctx).
		Where("student_profile_id = ?", profileID).
		Order("end_date DESC").
		Find(&certs).Error
	if err != nil {
		return nil, err
	}
	return certs, nil
}

func (r *moocRepository) FindOwned(ctx context.Context, id, studentID uuid.UUID) (*entity.MoocCertificate, error) {
	var cert entity.MoocCertificate
	err := r.db.WithContext(ctx).
		Joins("JOIN student_profiles ON student_profiles.id = mooc_certificates.student_profile_id").
		Where("mooc_certificates.id = ? AND student_profiles.student_id = ?", id, studentID).
		First(&cert).Error
	if err != nil {
		return nil, database.TranslateError(err)
	}
	return &cert, nil
}

func (r *moocRepository) Update(ctx context.Context, cert *entity.MoocCertificate) error {
	res := r.db.WithContext(ctx).
		Model(&entity.MoocCertificate{}).
		Where("id = ?", cert.ID).
		Select("semester", "platform", "title", "start_date", "end_date", "hours_per_week", "certificate_url").
		Updates(cert)
	if res.Error != nil {
		return database.TranslateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("certificate not found")
	}
	return nil
}

func (r *moocRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&entity.MoocCertificate{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("certificate not found")
	}
	return nil
}
