package repository

import (
	"context"

	"anoa.com/studentprofile/internal/entity"
	"anoa.com/studentprofile/pkg/apperror"
	"anoa.com/studentprofile/pkg/database"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProjectRepository interface {
	Create(ctx context.Context, project *entity.Project) error
	ListByStudent(ctx context.Context, studentID uuid.UUID) ([]entity.Project, error)
	FindOwned(ctx context.Context, id, studentID uuid.UUID) (*entity.Project, error)
	Update(ctx context.Context, project *entity.Project) error
	DeleteOwned(ctx context.Context, id, studentID uuid.UUID) error
}

type projectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{db: db}
}

func (r *projectRepository) Create(ctx context.Context, project *entity.Project) error {
	return database.TranslateError(r.db.WithContext(ctx).Create(project).Error)
}

func (r *projectRepository) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]entity.Project, error) {
	projects := []entity.Project{}
	if err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("created_at DESC").
		Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// FindOwned scopes the lookup to the owner so another student's project
// looks exactly like a missing one.
func (r *projectRepository) FindOwned(ctx context.Context, id, studentID uuid.UUID) (*entity.Project, error) {
	var project entity.Project
	if err := r.db.WithContext(ctx).
		Where("id = ? AND student_id = ?", id, studentID).
		First(&project).Error; err != nil {
		return nil, database.TranslateError(err)
	}
	return &project, nil
}

func (r *projectRepository) Update(ctx context.Context, project *entity.Project) error {
	res := r.db.WithContext(ctx).
		Model(&entity.Project{}).
		Where("id = ? AND student_id = ?", project.ID, project.StudentID).
		Select("title", "description", "technologies", "project_url", "image_url", "updated_at").
		Updates(project)
	if res.Error != nil {
		return database.TranslateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("project not found")
	}
	return nil
}

func (r *projectRepository) DeleteOwned(ctx context.Context, id, studentID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND student_id = ?", id, studentID).
		Delete(&entity.Project{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("project not found")
	}
	return nil
}
