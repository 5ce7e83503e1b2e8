package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/raditya/storefront-api/internal/dto"
	"github.com/raditya/storefront-api/internal/service"
)

type GuestMessageHandler struct {
	messageService *service.GuestMessageService
}

func NewGuestMessageHandler(messageService *service.GuestMessageService) *GuestMessageHandler {
	return &GuestMessageHandler{messageService: messageService}
}

// Create is the only unauthenticated write in the API.
func (h *GuestMessageHandler) Create(c *gin.Context) {
	var req dto.CreateGuestMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	msg, err := h.messageService.Create(c.Request.Context(), req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respond(c, http.StatusCreated, "Message sent successfully", service.ToGuestMessageResponse(msg))
}

func (h *GuestMessageHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	msg, err := h.messageService.GetByID(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, "Message retrieved successfully", service.ToGuestMessageResponse(msg))
}

func (h *GuestMessageHandler) List(c *gin.Context) {
	var req dto.ListGuestMessagesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	messages, total, err := h.messageService.List(c.Request.Context(), req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	items := make([]dto.GuestMessageResponse, 0, len(messages))
	for i := range messages {
		items = append(items, service.ToGuestMessageResponse(&messages[i]))
	}
	page := dto.NewPage(items, req.Page, req.PerPage, total)
	respond(c, http.StatusOK, "Messages retrieved successfully", page)
}

func (h *GuestMessageHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req dto.UpdateGuestMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	msg, err := h.messageService.SetRead(c.Request.Context(), id, *req.IsRead)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, "Message updated successfully", service.ToGuestMessageResponse(msg))
}

func (h *GuestMessageHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.messageService.Delete(c.Request.Context(), id); err != nil {
		handleServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, "Message deleted successfully", nil)
}

func (h *GuestMessageHandler) Stats(c *gin.Context) {
	stats, err := h.messageService.Stats(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, "Message statistics retrieved successfully", stats)
}
