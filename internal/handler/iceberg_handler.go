package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/iceberg-dashboard/internal/middleware"
	"github.com/jengzang/iceberg-dashboard/internal/models"
	"github.com/jengzang/iceberg-dashboard/internal/navigation"
	"github.com/jengzang/iceberg-dashboard/internal/service"
	"github.com/jengzang/iceberg-dashboard/internal/validation"
	"github.com/jengzang/iceberg-dashboard/pkg/response"
)

// IcebergHandler handles the listing, detail and comment endpoints
type IcebergHandler struct {
	listingService *service.ListingService
	detailService  *service.DetailService
	commentService *service.CommentService
}

// NewIcebergHandler creates a new iceberg handler
func NewIcebergHandler(listing *service.ListingService, detail *service.DetailService, comments *service.CommentService) *IcebergHandler {
	return &IcebergHandler{
		listingService: listing,
		detailService:  detail,
		commentService: comments,
	}
}

// List handles GET /api/v1/icebergs
func (h *IcebergHandler) List(c *gin.Context) {
	var q service.ListingQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}
	if err := validation.ValidateStruct(&q); err != nil {
		respondError(c, "Search Failed", err)
		return
	}

	listing, err := h.listingService.Load(c.Request.Context(), q)
	if err != nil {
		respondError(c, "Loading Icebergs Failed", err)
		return
	}

	var notes []models.Notification
	if q.Search != "" && len(listing.Rows) == 0 {
		notes = append(notes, models.InfoNotification("No Icebergs Found", "No iceberg matches \""+listing.Search+"\"."))
	}
	response.Success(c, listing, notes...)
}

// Get handles GET /api/v1/icebergs/:id
func (h *IcebergHandler) Get(c *gin.Context) {
	p, err := navigation.ForIceberg(c.Param("id"))
	if err != nil {
		respondError(c, "Invalid Iceberg", err)
		return
	}

	detail, err := h.detailService.Load(c.Request.Context(), middleware.CurrentSession(c), p.IcebergID)
	if err != nil {
		respondError(c, "Error Loading Iceberg", err)
		return
	}
	response.Success(c, detail, detail.Notifications...)
}

// ListComments handles GET /api/v1/icebergs/:id/comments?order=asc|desc
func (h *IcebergHandler) ListComments(c *gin.Context) {
	p, err := navigation.ForIceberg(c.Param("id"))
	if err != nil {
		respondError(c, "Invalid Iceberg", err)
		return
	}

	comments, err := h.commentService.List(c.Request.Context(), middleware.CurrentSession(c), p.IcebergID, c.Query("order") == "asc")
	if err != nil {
		respondError(c, "Error Loading Comments", err)
		return
	}
	response.Success(c, comments)
}

// SubmitComment handles POST /api/v1/icebergs/:id/comments
func (h *IcebergHandler) SubmitComment(c *gin.Context) {
	p, err := navigation.ForIceberg(c.Param("id"))
	if err != nil {
		respondError(c, "Invalid Iceberg", err)
		return
	}

	var in service.CommentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, "Invalid comment")
		return
	}

	comment, err := h.commentService.Submit(c.Request.Context(), middleware.CurrentSession(c), p.IcebergID, in)
	if err != nil {
		respondError(c, "Comment Not Submitted", err)
		return
	}
	response.Created(c, comment, models.InfoNotification("Comment Submitted", "Thanks for your suggestion!"))
}

// DeleteComment handles DELETE /api/v1/comments/:commentId
func (h *IcebergHandler) DeleteComment(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("commentId"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, "Invalid comment id")
		return
	}

	if err := h.commentService.Delete(c.Request.Context(), middleware.CurrentSession(c), id); err != nil {
		respondError(c, "Comment not Found", err)
		return
	}
	response.Success(c, gin.H{"comment_id": id}, models.InfoNotification("Comment Deleted", "The comment was removed."))
}
