package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/jengzang/iceberg-dashboard/internal/service"
	"github.com/jengzang/iceberg-dashboard/pkg/response"
)

// DashboardHandler serves the statistics dashboard
type DashboardHandler struct {
	dashboardService *service.DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// Get handles GET /api/v1/dashboard. Failed charts come back as error panels,
// so this always answers 200.
func (h *DashboardHandler) Get(c *gin.Context) {
	response.Success(c, h.dashboardService.Load(c.Request.Context()))
}
