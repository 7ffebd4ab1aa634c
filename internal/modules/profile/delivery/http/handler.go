package handler

import (
	"net/http"

	profileDto "anoa.com/studentprofile/internal/modules/profile/dto"
	profile "anoa.com/studentprofile/internal/modules/profile/service"
	"anoa.com/studentprofile/pkg/apperror"
	"anoa.com/studentprofile/pkg/response"
	"anoa.com/studentprofile/pkg/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ProfileHandler struct {
	profileService profile.ProfileService
}

func NewProfileHandler(profileService profile.ProfileService) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
	}
}

func (h *ProfileHandler) UpsertProfile(c *gin.Context) {
	claims, ok := response.GetClaims(c)
	if !ok {
		response.ResponseError(c, apperror.ErrUnauthorized)
		return
	}

	var req profileDto.UpsertProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	result, err := h.profileService.UpsertProfile(c.Request.Context(), claims, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}
	c.JSON(status, result)
}

func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	claims, ok := response.GetClaims(c)
	if !ok {
		response.ResponseError(c, apperror.ErrUnauthorized)
		return
	}

	var req profileDto.PatchProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	updated, err := h.profileService.PatchProfile(c.Request.Context(), claims, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Profile updated successfully",
		"profile": updated,
	})
}

func (h *ProfileHandler) GetProfile(c *gin.Context) {
	claims, ok := response.GetClaims(c)
	if !ok {
		response.ResponseError(c, apperror.ErrUnauthorized)
		return
	}

	var param profileDto.StudentIDParam
	if err := c.ShouldBindUri(&param); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	doc, err := h.profileService.GetProfile(c.Request.Context(), claims, uuid.MustParse(param.StudentID))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, doc)
}
