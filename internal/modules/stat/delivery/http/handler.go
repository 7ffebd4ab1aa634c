package handler

import (
	"net/http"

	statService "anoa.com/studentprofile/internal/modules/stat/service"
	"anoa.com/studentprofile/pkg/response"
	"github.com/gin-gonic/gin"
)

type StatHandler struct {
	statService statService.StatService
}

func NewStatHandler(statService statService.StatService) *StatHandler {
	return &StatHandler{
		statService: statService,
	}
}

func (h *StatHandler) Overview(c *gin.Context) {
	overview, err := h.statService.Overview(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, overview)
}
