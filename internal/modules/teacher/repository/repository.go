package repository

import (
	"context"
	"strings"

	"anoa.com/studentprofile/internal/modules/teacher/dto"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StudentDirectoryRepository interface {
	ListStudents(ctx context.Context) ([]dto.StudentSummary, error)
	SearchStudents(ctx context.Context, term string) ([]dto.StudentSummary, error)
	FindStudents(ctx context.Context, ids []uuid.UUID) ([]dto.StudentSummary, error)
}

type studentDirectoryRepository struct {
	db *gorm.DB
}

func NewStudentDirectoryRepository(db *gorm.DB) StudentDirectoryRepository {
	return &studentDirectoryRepository{db: db}
}

func (r *studentDirectoryRepository) base(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("students AS s").
		Select("s.id AS student_id, s.email, COALESCE(p.first_name, '') AS first_name, COALESCE(p.last_name, '') AS last_name, p.usn").
		Joins("LEFT JOIN student_profiles AS p ON p.student_id = s.id").
		Order("last_name, first_name, s.id")
}

func (r *studentDirectoryRepository) ListStudents(ctx context.Context) ([]dto.StudentSummary, error) {
	students := []dto.StudentSummary{}
	err := r.base(ctx).Scan(&students).Error
	return students, err
}

// SearchStudents is the fallback when no search index is configured.
func (r *studentDirectoryRepository) SearchStudents(ctx context.Context, term string) ([]dto.StudentSummary, error) {
	like := "%" + strings.ToLower(term) + "%"
	students := []dto.StudentSummary{}
	err := r.base(ctx).
		Where("LOWER(s.email) LIKE ? OR LOWER(p.first_name) LIKE ? OR LOWER(p.last_name) LIKE ? OR LOWER(p.usn) LIKE ?", like, like, like, like).
		Scan(&students).Error
	return students, err
}

// FindStudents loads the given students and keeps them in the order of ids.
// Ids with no matching account are dropped.
func (r *studentDirectoryRepository) FindStudents(ctx context.Context, ids []uuid.UUID) ([]dto.StudentSummary, error) {
	students := []dto.StudentSummary{}
	if len(ids) == 0 {
		return students, nil
	}
	if err := r.base(ctx).Where("s.id IN ?", ids).Scan(&students).Error; err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]dto.StudentSummary, len(students))
	for _, st := range students {
		byID[st.StudentID] = st
	}
	ordered := make([]dto.StudentSummary, 0, len(students))
	for _, id := range ids {
		if st, ok := byID[id]; ok {
			ordered = append(ordered, st)
			delete(byID, id)
		}
	}
	return ordered, nil
}
