package handler

import (
	"tutormatch/backend/internal/api/response"
	"tutormatch/backend/internal/apperr"
	"tutormatch/backend/internal/dto"

	"github.com/gin-gonic/gin"
)

// Login перевіряє телефон і пароль та повертає JWT
func (h *Handler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, apperr.ErrInvalidInput)
		return
	}

	res, err := h.Users.Login(c.Request.Context(), &req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, "login_success", res)
}

func (h *Handler) RegisterParent(c *gin.Context) {
	var req dto.RegisterParentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, apperr.ErrInvalidInput)
		return
	}

	u, err := h.Users.RegisterParent(c.Request.Context(), &req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Created(c, "register_success", u)
}

func (h *Handler) RegisterStudent(c *gin.Context) {
	var req dto.RegisterStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, apperr.ErrInvalidInput)
		return
	}

	u, err := h.Users.RegisterStudent(c.Request.Context(), &req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Created(c, "register_success", u)
}

// Me returns the profile of the token's owner.
func (h *Handler) Me(c *gin.Context) {
	id, err := currentUser(c)
	if err != nil {
		response.Fail(c, err)
		return
	}

	u, err := h.Users.Me(c.Request.Context(), id)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, "ok", u)
}
