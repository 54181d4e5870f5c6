package handler

import (
	"strconv"

	"tutormatch/backend/internal/api/middleware"
	"tutormatch/backend/internal/apperr"
	"tutormatch/backend/internal/chathub"
	"tutormatch/backend/internal/listing"
	"tutormatch/backend/internal/match"
	"tutormatch/backend/internal/message"
	"tutormatch/backend/internal/user"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler містить посилання на сервіси та ChatHub
type Handler struct {
	Users    user.Service
	Matches  match.Service
	Listings listing.Service
	Messages message.Service
	Hub      *chathub.Hub
	Tokens   middleware.TokenParser
	Logger   *zap.Logger
}

func NewHandler(
	users user.Service,
	matches match.Service,
	listings listing.Service,
	messages message.Service,
	hub *chathub.Hub,
	tokens middleware.TokenParser,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		Users:    users,
		Matches:  matches,
		Listings: listings,
		Messages: messages,
		Hub:      hub,
		Tokens:   tokens,
		Logger:   logger.Named("http"),
	}
}

// idParam parses a positive numeric path parameter.
func idParam(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, apperr.ErrInvalidInput
	}
	return uint(id), nil
}

// currentUser returns the id stored by middleware.Auth.
func currentUser(c *gin.Context) (uint, error) {
	id, ok := middleware.UserID(c)
	if !ok {
		return 0, apperr.ErrUnauthorized
	}
	return id, nil
}

func currentActor(c *gin.Context) (listing.Actor, error) {
	id, err := currentUser(c)
	if err != nil {
		return listing.Actor{}, err
	}
	role, _ := middleware.Role(c)
	return listing.Actor{ID: id, Role: role}, nil
}
