package handler

import (
	"net/http"

	"anoa.com/studentprofile/internal/modules/mooc/dto"
	mooc "anoa.com/studentprofile/internal/modules/mooc/service"
	"anoa.com/studentprofile/pkg/apperror"
	"anoa.com/studentprofile/pkg/response"
	"anoa.com/studentprofile/pkg/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type MoocHandler struct {
	service mooc.MoocService
}

func NewMoocHandler(service mooc.MoocService) *MoocHandler {
	return &MoocHandler{service: service}
}

func (h *MoocHandler) ListCertificates(c *gin.Context) {
	claims, ok := response.GetClaims(c)
	if !ok {
		response.ResponseError(c, apperror.ErrUnauthorized)
		return
	}

	var param dto.StudentIDParam
	if err := c.ShouldBindUri(&param); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	certs, err := h.service.ListCertificates(c.Request.Context(), claims, uuid.MustParse(param.StudentID))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, certs)
}

func (h *MoocHandler) CreateCertificate(c *gin.Context) {
	claims, ok := response.GetClaims(c)
	if !ok {
		response.ResponseError(c, apperror.ErrUnauthorized)
		return
	}

	var req dto.CreateCertificateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	cert, err := h.service.CreateCertificate(c.Request.Context(), claims, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, cert)
}

func (h *MoocHandler) UpdateCertificate(c *gin.Context) {
	claims, ok := response.GetClaims(c)
	if !ok {
		response.ResponseError(c, apperror.ErrUnauthorized)
		return
	}

	var param dto.CertificateIDParam
	if err := c.ShouldBindUri(&param); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	var req dto.CertificateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	cert, err := h.service.UpdateCertificate(c.Request.Context(), claims, uuid.MustParse(param.CertificateID), req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, cert)
}

func (h *MoocHandler) DeleteCertificate(c *gin.Context) {
	claims, ok := response.GetClaims(c)
	if !ok {
		response.ResponseError(c, apperror.ErrUnauthorized)
		return
	}

	var param dto.CertificateIDParam
	if err := c.ShouldBindUri(&param); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	if err := h.service.DeleteCertificate(c.Request.Context(), claims, uuid.MustParse(param.CertificateID)); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Certificate deleted successfully"})
}
