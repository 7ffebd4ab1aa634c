package service

import (
	"context"
	"time"

	"anoa.com/studentprofile/internal/entity"
	"anoa.com/studentprofile/internal/modules/project/dto"
	"anoa.com/studentprofile/internal/modules/project/repository"
	"anoa.com/studentprofile/pkg/apperror"
	"anoa.com/studentprofile/pkg/sanitize"
	"github.com/google/uuid"
)

type ProjectService interface {
	ListProjects(ctx context.Context, studentID uuid.UUID) ([]dto.ProjectResponse, error)
	CreateProject(ctx context.Context, studentID uuid.UUID, req dto.ProjectRequest) (*dto.ProjectResponse, error)
	UpdateProject(ctx context.Context, studentID, projectID uuid.UUID, req dto.ProjectRequest) (*dto.ProjectResponse, error)
	DeleteProject(ctx context.Context, studentID, projectID uuid.UUID) error
}

type projectService struct {
	repo repository.ProjectRepository
}

func NewProjectService(repo repository.ProjectRepository) ProjectService {
	return &projectService{repo: repo}
}

func (s *projectService) ListProjects(ctx context.Context, studentID uuid.UUID) ([]dto.ProjectResponse, error) {
	projects, err := s.repo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	return dto.NewProjectResponses(projects), nil
}

func (s *projectService) CreateProject(ctx context.Context, studentID uuid.UUID, req dto.ProjectRequest) (*dto.ProjectResponse, error) {
	project := &entity.Project{StudentID: studentID}
	if err := applyRequest(project, req); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, project); err != nil {
		return nil, err
	}

	resp := dto.NewProjectResponse(project)
	return &resp, nil
}

func (s *projectService) UpdateProject(ctx context.Context, studentID, projectID uuid.UUID, req dto.ProjectRequest) (*dto.ProjectResponse, error) {
	project, err := s.repo.FindOwned(ctx, projectID, studentID)
	if err != nil {
		return nil, err
	}

	if err := applyRequest(project, req); err != nil {
		return nil, err
	}
	project.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, project); err != nil {
		return nil, err
	}

	resp := dto.NewProjectResponse(project)
	return &resp, nil
}

func (s *projectService) DeleteProject(ctx context.Context, studentID, projectID uuid.UUID) error {
	return s.repo.DeleteOwned(ctx, projectID, studentID)
}

func applyRequest(project *entity.Project, req dto.ProjectRequest) error {
	title := sanitize.Text(req.Title)
	description := sanitize.Text(req.Description)
	if title == "" || description == "" {
		return apperror.Validation("title and description are required")
	}

	project.Title = title
	project.Description = description
	project.Technologies = sanitize.TextPtr(req.Technologies)
	project.ProjectURL = req.ProjectURL
	project.ImageURL = req.ImageURL
	return nil
}
