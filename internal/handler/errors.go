package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/iceberg-dashboard/internal/icebergapi"
	"github.com/jengzang/iceberg-dashboard/internal/logging"
	"github.com/jengzang/iceberg-dashboard/internal/models"
	"github.com/jengzang/iceberg-dashboard/internal/navigation"
	"github.com/jengzang/iceberg-dashboard/internal/service"
	"github.com/jengzang/iceberg-dashboard/internal/spatial"
	"github.com/jengzang/iceberg-dashboard/internal/validation"
	"github.com/jengzang/iceberg-dashboard/internal/viewstate"
	"github.com/jengzang/iceberg-dashboard/pkg/response"
)

// respondError maps err to a status and writes it with a notification titled title.
func respondError(c *gin.Context, title string, err error) {
	status, msg := classify(err)
	if status >= http.StatusInternalServerError {
		logging.Ctx(c.Request.Context()).Error().Err(err).Str("action", title).Msg("request failed")
	}
	_ = c.Error(err)
	response.Error(c, status, msg, models.ErrorNotification(title, msg))
}

func classify(err error) (int, string) {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, verr.Error()
	case errors.Is(err, navigation.ErrInvalidParams),
		errors.Is(err, service.ErrInvalidMode),
		errors.Is(err, spatial.ErrInvalidBounds):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, viewstate.ErrMapNotReady):
		return http.StatusConflict, "The map has not reported its viewport yet."
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden, "Only administrators can do that."
	case errors.Is(err, service.ErrCommentNotFound):
		return http.StatusNotFound, "Comment not Found"
	case errors.Is(err, icebergapi.ErrUnavailable):
		return http.StatusServiceUnavailable, "The iceberg service is temporarily unavailable."
	}

	if status := icebergapi.StatusCode(err); status > 0 {
		if status < http.StatusInternalServerError {
			return status, icebergapi.Message(err)
		}
		return http.StatusBadGateway, icebergapi.Message(err)
	}
	if errors.Is(err, icebergapi.ErrTransport) {
		return http.StatusBadGateway, "The iceberg service could not be reached."
	}
	return http.StatusInternalServerError, "Internal server error"
}
