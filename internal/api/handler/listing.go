package handler

import (
	"tutormatch/backend/internal/api/response"
	"tutormatch/backend/internal/apperr"
	"tutormatch/backend/internal/dto"

	"github.com/gin-gonic/gin"
)

// orEmpty keeps empty lists serialized as [] rather than null.
func orEmpty[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

// ---- tutoring offers (/api/tutors) ----

func (h *Handler) CreateOffer(c *gin.Context) {
	actor, err := currentActor(c)
	if err != nil {
		response.Fail(c, err)
		return
	}
	var in dto.OfferInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Fail(c, apperr.ErrInvalidInput)
		return
	}

	offer, err := h.Listings.CreateOffer(c.Request.Context(), actor, &in)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Created(c, "listing_created", offer)
}

func (h *Handler) UpdateOffer(c *gin.Context) {
	actor, err := currentActor(c)
	if err != nil {
		response.Fail(c, err)
		return
	}
	id, err := idParam(c, "id")
	if err != nil {
		response.Fail(c, err)
		return
	}
	var in dto.OfferInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Fail(c, apperr.ErrInvalidInput)
		return
	}

	offer, err := h.Listings.UpdateOffer(c.Request.Context(), actor, id, &in)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, "listing_updated", offer)
}

func (h *Handler) DeleteOffer(c *gin.Context) {
	actor, err := currentActor(c)
	if err != nil {
		response.Fail(c, err)
		return
	}
	id, err := idParam(c, "id")
	if err != nil {
		response.Fail(c, err)
		return
	}

	if err := h.Listings.DeleteOffer(c.Request.Context(), actor, id); err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, "listing_deleted", nil)
}

func (h *Handler) MyOffers(c *gin.Context) {
	actor, err := currentActor(c)
	if err != nil {
		response.Fail(c, err)
		return
	}
	offers, err := h.Listings.MyOffers(c.Request.Context(), actor)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, "ok", orEmpty(offers))
}

func (h *Handler) PublicOffers(c *gin.Context) {
	offers, err := h.Listings.PublicOffers(c.Request.Context())
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, "ok", orEmpty(offers))
}

// FilterListings: GET /api/tutors/filter?type=do|find&subjects=a,b&district=&minSalary=
func (h *Handler) FilterListings(c *gin.Context) {
	var q dto.FilterQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Fail(c, apperr.ErrInvalidInput)
		return
	}

	result, err := h.Listings.Filter(c.Request.Context(), &q)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, "ok", result)
}

// ---- tutoring requests (/api/find-tutors) ----

func (h *Handler) CreateRequest(c *gin.Context) {
	actor, err := currentActor(c)
	if err != nil {
		response.Fail(c, err)
		return
	}
	var in dto.RequestInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Fail(c, apperr.ErrInvalidInput)
		return
	}

	req, err := h.Listings.CreateRequest(c.Request.Context(), actor, &in)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Created(c, "listing_created", req)
}

func (h *Handler) UpdateRequest(c *gin.Context) {
	actor, err := currentActor(c)
	if err != nil {
		response.Fail(c, err)
		return
	}
	id, err := idParam(c, "id")
	if err != nil {
		response.Fail(c, err)
		return
	}
	var in dto.RequestInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Fail(c, apperr.ErrInvalidInput)
		return
	}

	req, err := h.Listings.UpdateRequest(c.Request.Context(), actor, id, &in)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, "listing_updated", req)
}

func (h *Handler) DeleteRequest(c *gin.Context) {
	actor, err := currentActor(c)
	if err != nil {
		response.Fail(c, err)
		return
	}
	id, err := idParam(c, "id")
	if err != nil {
		response.Fail(c, err)
		return
	}

	if err := h.Listings.DeleteRequest(c.Request.Context(), actor, id); err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, "listing_deleted", nil)
}

func (h *Handler) MyRequests(c *gin.Context) {
	actor, err := currentActor(c)
	if err != nil {
		response.Fail(c, err)
		return
	}
	reqs, err := h.Listings.MyRequests(c.Request.Context(), actor)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, "ok", orEmpty(reqs))
}

func (h *Handler) PublicRequests(c *gin.Context) {
	reqs, err := h.Listings.PublicRequests(c.Request.Context())
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, "ok", orEmpty(reqs))
}
