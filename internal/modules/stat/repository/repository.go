package repository

import (
	"context"

	"anoa.com/studentprofile/internal/entity"
	"gorm.io/gorm"
)

type StatRepository interface {
	CountStudents(ctx context.Context) (int64, error)
	CountCompletedProfiles(ctx context.Context) (int64, error)
	CountFirstLoginPending(ctx context.Context) (int64, error)
	CountProjects(ctx context.Context) (int64, error)
	CountCertificates(ctx context.Context) (int64, error)
	CountFiles(ctx context.Context) (int64, error)
}

type statRepository struct {
	db *gorm.DB
}

func NewStatRepository(db *gorm.DB) StatRepository {
	return &statRepository{db: db}
}

func (r *statRepository) count(ctx context.Context, model interface{}, query ...interface{}) (int64, error) {
	var n int64
	q := r.db.WithContext(ctx).Model(model)
	if len(query) > 0 {
		q = q.Where(query[0], query[1:]...)
	}
	err := q.Count(&n).Error
	return n, err
}

func (r *statRepository) CountStudents(ctx context.Context) (int64, error) {
	return r.count(ctx, &entity.Student{})
}

func (r *statRepository) CountCompletedProfiles(ctx context.Context) (int64, error) {
	return r.count(ctx, &entity.StudentProfile{}, "profile_completed = ?", true)
}

func (r *statRepository) CountFirstLoginPending(ctx context.Context) (int64, error) {
	return r.count(ctx, &entity.Student{}, "is_first_login = ?", true)
}

func (r *statRepository) CountProjects(ctx context.Context) (int64, error) {
	return r.count(ctx, &entity.Project{})
}

func (r *statRepository) CountCertificates(ctx context.Context) (int64, error) {
	return r.count(ctx, &entity.MoocCertificate{})
}

func (r *statRepository) CountFiles(ctx context.Context) (int64, error) {
	return r.count(ctx, &entity.UserFile{})
}
