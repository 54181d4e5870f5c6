package handler

import (
	"context"

	"tutormatch/backend/internal/api/response"
	"tutormatch/backend/internal/apperr"
	"tutormatch/backend/internal/dto"
	"tutormatch/backend/internal/models"

	"github.com/gin-gonic/gin"
)

// ProposeMatch: POST /api/matches {to_user}
func (h *Handler) ProposeMatch(c *gin.Context) {
	me, err := currentUser(c)
	if err != nil {
		response.Fail(c, err)
		return
	}

	var req dto.ProposeMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, apperr.ErrInvalidInput)
		return
	}

	m, err := h.Matches.Propose(c.Request.Context(), me, req.ToUser)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Created(c, "match_proposed", m)
}

func (h *Handler) ListMatches(c *gin.Context) {
	me, err := currentUser(c)
	if err != nil {
		response.Fail(c, err)
		return
	}

	views, err := h.Matches.List(c.Request.Context(), me)
	if err != nil {
		response.Fail(c, err)
		return
	}
	if views == nil {
		views = []models.MatchView{}
	}
	response.OK(c, "ok", views)
}

func (h *Handler) CheckMatch(c *gin.Context) {
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

	matched, err := h.Matches.Check(c.Request.Context(), me, other)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, "ok", dto.CheckMatchResponse{Matched: matched})
}

func (h *Handler) AcceptMatch(c *gin.Context) {
	h.transition(c, h.Matches.Accept, "match_accepted")
}

func (h *Handler) RejectMatch(c *gin.Context) {
	h.transition(c, h.Matches.Reject, "match_rejected")
}

func (h *Handler) CloseMatch(c *gin.Context) {
	h.transition(c, h.Matches.Close, "match_closed")
}

type transitionFunc func(ctx context.Context, matchID, actorID uint) (*models.Match, error)

func (h *Handler) transition(c *gin.Context, fn transitionFunc, messageKey string) {
	me, err := currentUser(c)
	if err != nil {
		response.Fail(c, err)
		return
	}
	id, err := idParam(c, "id")
	if err != nil {
		response.Fail(c, err)
		return
	}

	m, err := fn(c.Request.Context(), id, me)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, messageKey, m)
}
