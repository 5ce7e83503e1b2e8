package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/raditya/storefront-api/internal/dto"
	"github.com/raditya/storefront-api/internal/service"
)

type StatsHandler struct {
	statsService *service.StatsService
}

func NewStatsHandler(statsService *service.StatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

func (h *StatsHandler) Overview(c *gin.Context) {
	overview, err := h.statsService.Overview(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, "Statistics overview retrieved successfully", overview)
}

func (h *StatsHandler) Dashboard(c *gin.Context) {
	dashboard, err := h.statsService.Dashboard(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, "Dashboard statistics retrieved successfully", dashboard)
}

func (h *StatsHandler) Users(c *gin.Context) {
	stats, err := h.statsService.Users(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, "User statistics retrieved successfully", stats)
}

func (h *StatsHandler) Products(c *gin.Context) {
	stats, err := h.statsService.Products(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, "Product statistics retrieved successfully", stats)
}

func (h *StatsHandler) Orders(c *gin.Context) {
	stats, err := h.statsService.Orders(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, "Order statistics retrieved successfully", stats)
}

func (h *StatsHandler) OrderDetails(c *gin.Context) {
	stats, err := h.statsService.OrderDetails(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, "Order detail statistics retrieved successfully", stats)
}

// Revenue accepts optional ?start_date=YYYY-MM-DD&end_date=YYYY-MM-DD,
// defaulting to the trailing month.
func (h *StatsHandler) Revenue(c *gin.Context) {
	var req dto.RevenueRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	report, err := h.statsService.Revenue(c.Request.Context(), req.StartDate, req.EndDate)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, "Revenue report retrieved successfully", report)
}
