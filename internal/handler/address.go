package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/raditya/storefront-api/internal/dto"
	"github.com/raditya/storefront-api/internal/middleware"
	"github.com/raditya/storefront-api/internal/service"
)

type AddressHandler struct {
	addressService *service.AddressService
}

func NewAddressHandler(addressService *service.AddressService) *AddressHandler {
	return &AddressHandler{addressService: addressService}
}

func (h *AddressHandler) Create(c *gin.Context) {
	var req dto.CreateAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	address, err := h.addressService.Create(c.Request.Context(), middleware.GetUserID(c), req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respond(c, http.StatusCreated, "Address created successfully", addressResponse(address))
}

func (h *AddressHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	address, err := h.addressService.GetByID(c.Request.Context(), middleware.GetUserID(c), id, middleware.IsAdmin(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, "Address retrieved successfully", addressResponse(address))
}

// List returns the caller's addresses, default first. Admins may pass
// ?user_id= to inspect another user, or nothing for all addresses.
func (h *AddressHandler) List(c *gin.Context) {
	if middleware.IsAdmin(c) {
		h.adminList(c)
		return
	}

	addresses, err := h.addressService.ListByUser(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, "Addresses retrieved successfully", addressResponses(addresses))
}

func (h *AddressHandler) adminList(c *gin.Context) {
	var req dto.PageRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	var userID *uuid.UUID
	if v, ok := c.GetQuery("user_id"); ok {
		parsed, err := uuid.Parse(v)
		if err != nil {
			respondError(c, http.StatusUnprocessableEntity, "user_id must be a valid UUID")
			return
		}
		userID = &parsed
	}

	addresses, total, err := h.addressService.List(c.Request.Context(), userID, req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	page := dto.NewPage(addressResponses(addresses), req.Page, req.PerPage, total)
	respond(c, http.StatusOK, "Addresses retrieved successfully", page)
}

// ListMine always lists the caller's own addresses, even for admins.
func (h *AddressHandler) ListMine(c *gin.Context) {
	addresses, err := h.addressService.ListByUser(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, "Addresses retrieved successfully", addressResponses(addresses))
}

func (h *AddressHandler) GetDefault(c *gin.Context) {
	address, err := h.addressService.GetDefault(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, "Default address retrieved successfully", addressResponse(address))
}

func (h *AddressHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req dto.UpdateAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	address, err := h.addressService.Update(c.Request.Context(), middleware.GetUserID(c), id, middleware.IsAdmin(c), req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, "Address updated successfully", addressResponse(address))
}

// SetDefault makes the address the caller's single default.
func (h *AddressHandler) SetDefault(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	address, err := h.addressService.SetAsDefault(c.Request.Context(), middleware.GetUserID(c), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, "Default address set successfully", addressResponse(address))
}

func (h *AddressHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.addressService.Delete(c.Request.Context(), middleware.GetUserID(c), id, middleware.IsAdmin(c)); err != nil {
		handleServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, "Address deleted successfully", nil)
}
