package handler

import (
	"tutormatch/backend/internal/api/response"
	"tutormatch/backend/internal/apperr"
	"tutormatch/backend/internal/dto"

	"github.com/gin-gonic/gin"
)

// channelREST labels messages sent over HTTP in the messages metric.
const channelREST = "rest"

func (h *Handler) SendMessage(c *gin.Context) {
	me, err := currentUser(c)
	if err != nil {
		response.Fail(c, err)
		return
	}
	var req dto.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, apperr.ErrInvalidInput)
		return
	}

	msg, err := h.Messages.Send(c.Request.Context(), me, req.ReceiverID, req.Content, channelREST)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Created(c, "message_sent", msg)
}

// Chat returns the history with :userId, oldest first.
func (h *Handler) Chat(c *gin.Context) {
	me, err := currentUser(c)
	if err != nil {
		response.Fail(c, err)
		return
	}
	other, err := idParam(c, "userId")
	if err != nil {
		response.Fail(c, err)
		return
	}

	msgs, err := h.Messages.Chat(c.Request.Context(), me, other)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, "ok", orEmpty(msgs))
}

func (h *Handler) Conversations(c *gin.Context) {
	me, err := currentUser(c)
	if err != nil {
		response.Fail(c, err)
		return
	}

	convs, err := h.Messages.Conversations(c.Request.Context(), me)
	if err != nil {
		response.Fail(c, err)
		return
	}
	if h.Hub != nil {
		for i := range convs {
			convs[i].Online = h.Hub.IsOnline(convs[i].UserID)
		}
	}
	response.OK(c, "ok", orEmpty(convs))
}
