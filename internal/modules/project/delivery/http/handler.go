package handler

import (
	"net/http"

	"anoa.com/studentprofile/internal/modules/project/dto"
	project "anoa.com/studentprofile/internal/modules/project/service"
	"anoa.com/studentprofile/pkg/response"
	"anoa.com/studentprofile/pkg/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ProjectHandler struct {
	service project.ProjectService
}

func NewProjectHandler(service project.ProjectService) *ProjectHandler {
	return &ProjectHandler{service: service}
}

func (h *ProjectHandler) ListProjects(c *gin.Context) {
	studentID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	projects, err := h.service.ListProjects(c.Request.Context(), studentID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, projects)
}

func (h *ProjectHandler) CreateProject(c *gin.Context) {
	studentID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req dto.ProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	created, err := h.service.CreateProject(c.Request.Context(), studentID, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	studentID, projectID, ok := h.ids(c)
	if !ok {
		return
	}

	var req dto.ProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	updated, err := h.service.UpdateProject(c.Request.Context(), studentID, projectID, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	studentID, projectID, ok := h.ids(c)
	if !ok {
		return
	}

	if err := h.service.DeleteProject(c.Request.Context(), studentID, projectID); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Project deleted successfully"})
}

func (h *ProjectHandler) ids(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	studentID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return uuid.Nil, uuid.Nil, false
	}

	var param dto.ProjectIDParam
	if err := c.ShouldBindUri(&param); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return uuid.Nil, uuid.Nil, false
	}

	return studentID, uuid.MustParse(param.ProjectID), true
}
