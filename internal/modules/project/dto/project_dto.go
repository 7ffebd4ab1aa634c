package dto

import (
	"time"

	"anoa.com/studentprofile/internal/entity"
	"github.com/google/uuid"
)

type ProjectRequest struct {
	Title        string  `json:"title" binding:"required,max=255"`
	Description  string  `json:"description" binding:"required"`
	Technologies *string `json:"technologies"`
	ProjectURL   *string `json:"project_url"`
	ImageURL     *string `json:"image_url"`
}

type ProjectIDParam struct {
	ProjectID string `uri:"projectId" binding:"required,uuid"`
}

type ProjectResponse struct {
	ID           uuid.UUID `json:"id"`
	StudentID    uuid.UUID `json:"student_id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Technologies *string   `json:"technologies"`
	ProjectURL   *string   `json:"project_url"`
	ImageURL     *string   `json:"image_url"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func NewProjectResponse(p *entity.Project) ProjectResponse {
	return ProjectResponse{
		ID:           p.ID,
		StudentID:    p.StudentID,
		Title:        p.Title,
		Description:  p.Description,
		Technologies: p.Technologies,
		ProjectURL:   p.ProjectURL,
		ImageURL:     p.ImageURL,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func NewProjectResponses(projects []entity.Project) []ProjectResponse {
	out := make([]ProjectResponse, 0, len(projects))
	for i := range projects {
		out = append(out, NewProjectResponse(&projects[i]))
	}
	return out
}
