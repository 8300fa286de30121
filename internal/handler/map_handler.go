package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/jengzang/iceberg-dashboard/internal/middleware"
	"github.com/jengzang/iceberg-dashboard/internal/models"
	"github.com/jengzang/iceberg-dashboard/internal/navigation"
	"github.com/jengzang/iceberg-dashboard/internal/service"
	"github.com/jengzang/iceberg-dashboard/internal/viewstate"
	"github.com/jengzang/iceberg-dashboard/pkg/response"
)

// MapHandler exposes the session's map view
type MapHandler struct {
	mapService *service.MapService
}

// NewMapHandler creates a new map handler
func NewMapHandler(mapService *service.MapService) *MapHandler {
	return &MapHandler{mapService: mapService}
}

type modeRequest struct {
	Mode viewstate.Mode `json:"mode" binding:"required"`
}

type heatmapRequest struct {
	Bounds *models.Bounds `json:"bounds"`
}

// Get handles GET /api/v1/map
func (h *MapHandler) Get(c *gin.Context) {
	h.reply(c, h.mapService.View(middleware.CurrentSession(c)))
}

// Focus handles POST /api/v1/map/focus. The id may come as a query parameter
// or in the JSON body.
func (h *MapHandler) Focus(c *gin.Context) {
	var p navigation.Params
	if err := c.ShouldBindQuery(&p); err != nil {
		response.BadRequest(c, "Invalid navigation parameters")
		return
	}
	if p.IcebergID == "" && c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&p); err != nil {
			response.BadRequest(c, "Invalid navigation parameters")
			return
		}
	}

	view, err := h.mapService.Focus(c.Request.Context(), middleware.CurrentSession(c), p)
	if err != nil {
		respondError(c, "Invalid Iceberg", err)
		return
	}
	h.reply(c, view)
}

// Search handles POST /api/v1/map/search
func (h *MapHandler) Search(c *gin.Context) {
	var criteria models.SearchCriteria
	if err := c.ShouldBindJSON(&criteria); err != nil {
		response.BadRequest(c, "Invalid search criteria")
		return
	}

	view, err := h.mapService.Search(c.Request.Context(), middleware.CurrentSession(c), criteria)
	if err != nil {
		respondError(c, "Search Failed", err)
		return
	}
	h.reply(c, view)
}

// SetMode handles POST /api/v1/map/mode
func (h *MapHandler) SetMode(c *gin.Context) {
	var req modeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Mode is required")
		return
	}

	view, err := h.mapService.SetMode(c.Request.Context(), middleware.CurrentSession(c), req.Mode)
	if err != nil {
		respondError(c, "Invalid Mode", err)
		return
	}
	h.reply(c, view)
}

// ReportViewport handles POST /api/v1/map/viewport
func (h *MapHandler) ReportViewport(c *gin.Context) {
	var report service.ViewportReport
	if err := c.ShouldBindJSON(&report); err != nil {
		response.BadRequest(c, "Invalid viewport")
		return
	}

	view, err := h.mapService.ReportViewport(middleware.CurrentSession(c), report)
	if err != nil {
		respondError(c, "Invalid Viewport", err)
		return
	}
	h.reply(c, view)
}

// Heatmap handles POST /api/v1/map/heatmap. Without bounds the last reported
// viewport is used.
func (h *MapHandler) Heatmap(c *gin.Context) {
	var req heatmapRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, "Invalid heatmap request")
			return
		}
	}

	view, err := h.mapService.Heatmap(c.Request.Context(), middleware.CurrentSession(c), req.Bounds)
	if err != nil {
		respondError(c, "Heatmap Unavailable", err)
		return
	}
	h.reply(c, view)
}

// Clear handles POST /api/v1/map/clear
func (h *MapHandler) Clear(c *gin.Context) {
	h.reply(c, h.mapService.Clear(c.Request.Context(), middleware.CurrentSession(c)))
}

func (h *MapHandler) reply(c *gin.Context, view service.MapView) {
	notes := view.Notifications
	view.Notifications = nil
	response.Success(c, view, notes...)
}
