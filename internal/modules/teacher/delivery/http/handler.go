package handler

import (
	"net/http"

	"anoa.com/studentprofile/internal/modules/teacher/dto"
	teacher "anoa.com/studentprofile/internal/modules/teacher/service"
	"anoa.com/studentprofile/pkg/response"
	"anoa.com/studentprofile/pkg/validator"
	"github.com/gin-gonic/gin"
)

type TeacherHandler struct {
	service teacher.TeacherService
}

func NewTeacherHandler(service teacher.TeacherService) *TeacherHandler {
	return &TeacherHandler{service: service}
}

func (h *TeacherHandler) ListStudents(c *gin.Context) {
	var query dto.StudentListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	students, err := h.service.ListStudents(c.Request.Context(), query.Search)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, students)
}
