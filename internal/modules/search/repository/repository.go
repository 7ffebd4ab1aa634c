package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StudentRow is one student joined with its profile, if any.
type StudentRow struct {
	StudentID        uuid.UUID
	Email            string
	FirstName        *string
	LastName         *string
	USN              *string
	CreatedAt        time.Time
	ProfileUpdatedAt *time.Time
}

// LastChanged is the profile update time, or the account creation time for
// students that never saved a profile.
func (r StudentRow) LastChanged() time.Time {
	if r.ProfileUpdatedAt != nil {
		return *r.ProfileUpdatedAt
	}
	return r.CreatedAt
}

type SearchSourceRepository interface {
	ListStudentRows(ctx context.Context, offset, limit int) ([]StudentRow, error)
}

type searchSourceRepository struct {
	db *gorm.DB
}

func NewSearchSourceRepository(db *gorm.DB) SearchSourceRepository {
	return &searchSourceRepository{db: db}
}

// ListStudentRows returns one page of students in creation order.
func (r *searchSourceRepository) ListStudentRows(ctx context.Context, offset, limit int) ([]StudentRow, error) {
	rows := []StudentRow{}
	err := r.db.WithContext(ctx).
		Table("students AS s").
		Select("s.id AS student_id, s.email, p.first_name, p.last_name, p.usn, s.created_at, p.updated_at AS profile_updated_at").
		Joins("LEFT JOIN student_profiles AS p ON p.student_id = s.id").
		Order("s.created_at, s.id").
		Offset(offset).
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}
