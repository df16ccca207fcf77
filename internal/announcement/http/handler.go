package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Hurtuk18/server-announcements-be/internal/announcement"
	"github.com/Hurtuk18/server-announcements-be/internal/pkg/apperror"
	"github.com/Hurtuk18/server-announcements-be/internal/pkg/request"
	"github.com/Hurtuk18/server-announcements-be/internal/pkg/response"
)

type Handler struct {
	service announcement.Service
}

func NewHandler(service announcement.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) List(c *gin.Context) {
	var query ListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, apperror.Validation("invalid query parameters", err.Error()))
		return
	}

	filter := announcement.Filter{
		Search:     query.Search,
		Categories: query.Categories,
		SortBy:     announcement.SortField(query.Sort),
		Descending: query.Order != "asc",
	}
	if query.Sort == "" {
		filter.SortBy = announcement.SortByLastUpdate
	}

	list, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]AnnouncementResponse, len(list))
	for i, a := range list {
		items[i] = NewListItemResponse(a)
	}

	c.JSON(http.StatusOK, ListResponse{Items: items, Total: total})
}

func (h *Handler) Get(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.Error(c, apperror.Validation("invalid announcement id", err.Error()))
		return
	}

	a, err := h.service.GetByID(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewFullResponse(a))
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, apperror.Validation("invalid request body", err.Error()))
		return
	}

	a, err := h.service.Create(c.Request.Context(), announcement.CreateRequest{
		Title:           body.Title,
		Content:         body.Content,
		PublicationDate: body.PublicationDate,
		Categories:      body.Categories,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewFullResponse(a))
}

func (h *Handler) Update(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.Error(c, apperror.Validation("invalid announcement id", err.Error()))
		return
	}

	var body UpdateRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, apperror.Validation("invalid request body", err.Error()))
		return
	}

	a, err := h.service.Update(c.Request.Context(), uri.ID, announcement.UpdateRequest{
		Title:      body.Title,
		Content:    body.Content,
		Categories: body.Categories,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewFullResponse(a))
}

func (h *Handler) Delete(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.Error(c, apperror.Validation("invalid announcement id", err.Error()))
		return
	}

	a, err := h.service.Delete(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	// The deleted entity's prior representation is returned.
	c.JSON(http.StatusOK, NewFullResponse(a))
}

func (h *Handler) Definitions(c *gin.Context) {
	doc, err := h.service.Definitions()
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, doc)
}
