package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/raditya/storefront-api/internal/dto"
	"github.com/raditya/storefront-api/internal/middleware"
	"github.com/raditya/storefront-api/internal/service"
)

type CartHandler struct {
	cartService *service.CartService
}

func NewCartHandler(cartService *service.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

// Add creates a cart line or merges into an existing one for the same
// product. Merges answer 200, fresh lines 201.
func (h *CartHandler) Add(c *gin.Context) {
	var req dto.AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	userID := middleware.GetUserID(c)
	line, merged, err := h.cartService.AddToCart(c.Request.Context(), userID, req.ProductID, req.Quantity)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	if merged {
		respond(c, http.StatusOK, "Cart item quantity updated", cartLineResponse(line))
		return
	}
	respond(c, http.StatusCreated, "Item added to cart", cartLineResponse(line))
}

func (h *CartHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	line, err := h.cartService.GetLine(c.Request.Context(), middleware.GetUserID(c), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, "Cart item retrieved successfully", cartLineResponse(line))
}

func (h *CartHandler) List(c *gin.Context) {
	var req dto.PageRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	lines, total, err := h.cartService.ListCart(c.Request.Context(), middleware.GetUserID(c), req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	page := dto.NewPage(cartLineResponses(lines), req.Page, req.PerPage, total)
	respond(c, http.StatusOK, "Cart items retrieved successfully", page)
}

// MyCart returns every line the caller has, plus the summary block.
func (h *CartHandler) MyCart(c *gin.Context) {
	lines, summary, err := h.cartService.MyCart(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	resp := dto.MyCartResponse{
		Items: cartLineResponses(lines),
		Summary: dto.CartSummaryResponse{
			TotalItems: summary.TotalItems,
			TotalPrice: summary.TotalPrice,
			ItemsCount: summary.ItemsCount,
		},
	}
	respond(c, http.StatusOK, "Cart retrieved successfully", resp)
}

func (h *CartHandler) Increment(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	req := dto.CartAmountRequest{Amount: 1}
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		bindError(c, err)
		return
	}
	if req.Amount == 0 {
		req.Amount = 1
	}

	line, err := h.cartService.IncrementQuantity(c.Request.Context(), middleware.GetUserID(c), id, req.Amount)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, "Cart item quantity incremented", cartLineResponse(line))
}

func (h *CartHandler) Decrement(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	req := dto.CartAmountRequest{Amount: 1}
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		bindError(c, err)
		return
	}
	if req.Amount == 0 {
		req.Amount = 1
	}

	line, err := h.cartService.DecrementQuantity(c.Request.Context(), middleware.GetUserID(c), id, req.Amount)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	if line == nil {
		respond(c, http.StatusOK, "Cart item removed", nil)
		return
	}
	respond(c, http.StatusOK, "Cart item quantity decremented", cartLineResponse(line))
}

// SetQuantity sets the exact quantity; zero or below removes the line.
func (h *CartHandler) SetQuantity(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req dto.SetQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	line, err := h.cartService.SetQuantity(c.Request.Context(), middleware.GetUserID(c), id, *req.Quantity)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	if line == nil {
		respond(c, http.StatusOK, "Cart item removed", nil)
		return
	}
	respond(c, http.StatusOK, "Cart item quantity updated", cartLineResponse(line))
}

func (h *CartHandler) Remove(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.cartService.RemoveLine(c.Request.Context(), middleware.GetUserID(c), id); err != nil {
		handleServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, "Cart item removed", nil)
}

// AdminList pages cart lines across all users; ?user_id= narrows to one.
func (h *CartHandler) AdminList(c *gin.Context) {
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

	lines, total, err := h.cartService.AdminList(c.Request.Context(), userID, req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	page := dto.NewPage(cartLineResponses(lines), req.Page, req.PerPage, total)
	respond(c, http.StatusOK, "Cart items retrieved successfully", page)
}

func (h *CartHandler) AdminGet(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	line, err := h.cartService.AdminGetLine(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, "Cart item retrieved successfully", cartLineResponse(line))
}

func (h *CartHandler) Clear(c *gin.Context) {
	deleted, err := h.cartService.ClearCart(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, "Cart cleared successfully", dto.ClearCartResponse{DeletedItems: deleted})
}
