package handler

import (
	"errors"
	"net/http"
	"strings"

	"anoa.com/studentprofile/internal/modules/file/dto"
	file "anoa.com/studentprofile/internal/modules/file/service"
	"anoa.com/studentprofile/pkg/response"
	"anoa.com/studentprofile/pkg/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// multipart framing allowance on top of the file itself
const formOverhead = 1 << 20

type FileHandler struct {
	service       file.FileService
	maxUploadSize int64
}

func NewFileHandler(service file.FileService, maxUploadSize int64) *FileHandler {
	return &FileHandler{service: service, maxUploadSize: maxUploadSize}
}

func (h *FileHandler) UploadFile(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var param dto.FileTypeParam
	if err := c.ShouldBindUri(&param); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid file type, use 'profile' or 'certificate'"})
		return
	}

	if h.maxUploadSize > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadSize+formOverhead)
	}

	header, err := c.FormFile("file")
	if err != nil {
		if isTooLarge(err) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file is too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	uploaded, err := h.service.Upload(c.Request.Context(), userID, param.FileType(), c.PostForm("semester"), header)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.UploadFileResponse{
		Message: "File uploaded successfully",
		File:    *uploaded,
	})
}

func (h *FileHandler) ListFiles(c *gin.Context) {
	userID, param, query, ok := h.bind(c)
	if !ok {
		return
	}

	files, err := h.service.List(c.Request.Context(), userID, param.FileType(), query.Semester)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, files)
}

func (h *FileHandler) DeleteFile(c *gin.Context) {
	userID, param, query, ok := h.bind(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), userID, param.FileType(), query.Semester); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "File deleted successfully"})
}

func (h *FileHandler) bind(c *gin.Context) (userID uuid.UUID, param dto.FileTypeParam, query dto.SemesterQuery, ok bool) {
	id, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	if err := c.ShouldBindUri(&param); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid file type, use 'profile' or 'certificate'"})
		return
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	return id, param, query, true
}

func isTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr) || strings.Contains(err.Error(), "request body too large")
}
