package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/raditya/storefront-api/internal/dto"
	"github.com/raditya/storefront-api/internal/middleware"
	"github.com/raditya/storefront-api/internal/service"
)

type OrderHandler struct {
	orderService *service.OrderService
}

func NewOrderHandler(orderService *service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

func (h *OrderHandler) Create(c *gin.Context) {
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	order, err := h.orderService.Create(c.Request.Context(), middleware.GetUserID(c), req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respond(c, http.StatusCreated, "Order created successfully", orderResponse(order))
}

// CreateFromCart converts the referenced cart lines into a pending order with
// prices frozen at conversion time.
func (h *OrderHandler) CreateFromCart(c *gin.Context) {
	var req dto.CreateOrderFromCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	order, err := h.orderService.CreateFromCart(c.Request.Context(), middleware.GetUserID(c), req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respond(c, http.StatusCreated, "Order created from cart successfully", orderResponse(order))
}

func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	order, err := h.orderService.GetByID(c.Request.Context(), id, middleware.GetUserID(c), middleware.IsAdmin(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, "Order retrieved successfully", orderResponse(order))
}

// Details returns the order's snapshot lines, owner or admin only.
func (h *OrderHandler) Details(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	details, err := h.orderService.DetailsByOrder(c.Request.Context(), id, middleware.GetUserID(c), middleware.IsAdmin(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, "Order details retrieved successfully", orderDetailLineResponses(details))
}

// DetailsByProduct pages the order lines that reference a product.
func (h *OrderHandler) DetailsByProduct(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req dto.PageRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	details, total, err := h.orderService.DetailsByProduct(c.Request.Context(), id, req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	page := dto.NewPage(orderDetailLineResponses(details), req.Page, req.PerPage, total)
	respond(c, http.StatusOK, "Product order details retrieved successfully", page)
}

// List is filterable by user and status; non-admin callers only ever see
// their own orders.
func (h *OrderHandler) List(c *gin.Context) {
	var req dto.ListOrdersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}
	if middleware.IsAdmin(c) {
		if v, ok := c.GetQuery("user_id"); ok && v != "" {
			userID, err := uuid.Parse(v)
			if err != nil {
				respondError(c, http.StatusUnprocessableEntity, "user_id must be a valid UUID")
				return
			}
			req.UserID = &userID
		}
	} else {
		userID := middleware.GetUserID(c)
		req.UserID = &userID
	}

	orders, total, err := h.orderService.List(c.Request.Context(), req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	page := dto.NewPage(orderResponses(orders), req.Page, req.PerPage, total)
	respond(c, http.StatusOK, "Orders retrieved successfully", page)
}

func (h *OrderHandler) MyOrders(c *gin.Context) {
	var status *string
	if v, ok := c.GetQuery("status"); ok {
		status = &v
	}

	orders, err := h.orderService.ListByUser(c.Request.Context(), middleware.GetUserID(c), status)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, "Orders retrieved successfully", orderResponses(orders))
}

func (h *OrderHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req dto.UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	order, err := h.orderService.Update(c.Request.Context(), id, middleware.GetUserID(c), middleware.IsAdmin(c), req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, "Order updated successfully", orderResponse(order))
}

func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req dto.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	order, err := h.orderService.UpdateStatus(c.Request.Context(), id, middleware.GetUserID(c), middleware.IsAdmin(c), req.Status)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, "Order status updated successfully", orderResponse(order))
}

func (h *OrderHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.orderService.Delete(c.Request.Context(), id, middleware.GetUserID(c), middleware.IsAdmin(c)); err != nil {
		handleServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, "Order deleted successfully", nil)
}
