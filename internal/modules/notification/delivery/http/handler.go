package handler

import (
	"net/http"

	"anoa.com/studentprofile/internal/modules/notification/dto"
	notifService "anoa.com/studentprofile/internal/modules/notification/service"
	"anoa.com/studentprofile/pkg/response"
	"anoa.com/studentprofile/pkg/validator"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

type FeedHandler struct {
	service  notifService.FeedService
	log      zerolog.Logger
	upgrader websocket.Upgrader
}

func NewFeedHandler(service notifService.FeedService, log zerolog.Logger) *FeedHandler {
	return &FeedHandler{
		service: service,
		log:     log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

func (h *FeedHandler) RecentEvents(c *gin.Context) {
	var query dto.RecentQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	events, err := h.service.Recent(c.Request.Context(), query.Limit)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, events)
}

// StreamFeed upgrades to a websocket and forwards every feed event as a
// text frame until either side goes away.
func (h *FeedHandler) StreamFeed(c *gin.Context) {
	ctx := c.Request.Context()

	// Subscribe before upgrading so a missing Redis is still a plain HTTP error.
	pubsub, err := h.service.Subscribe(ctx)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	defer pubsub.Close()

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("failed to upgrade websocket")
		return
	}
	defer conn.Close()

	ch := pubsub.Channel()
	clientClosed := make(chan struct{})

	go func() {
		defer close(clientClosed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, []byte(msg.Payload)); err != nil {
				h.log.Debug().Err(err).Msg("failed to write feed message")
				return
			}
		case <-clientClosed:
			return
		case <-ctx.Done():
			return
		}
	}
}
