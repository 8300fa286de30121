package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/iceberg-dashboard/internal/models"
)

// Response represents a standard API response
type Response struct {
	Code          int                   `json:"code"`
	Message       string                `json:"message"`
	Data          interface{}           `json:"data,omitempty"`
	Notifications []models.Notification `json:"notifications,omitempty"`
}

// Success sends a successful response
func Success(c *gin.Context, data interface{}, notes ...models.Notification) {
	c.JSON(http.StatusOK, Response{
		Code:          0,
		Message:       "success",
		Data:          data,
		Notifications: notes,
	})
}

// Created sends a 201 response
func Created(c *gin.Context, data interface{}, notes ...models.Notification) {
	c.JSON(http.StatusCreated, Response{
		Code:          0,
		Message:       "created",
		Data:          data,
		Notifications: notes,
	})
}

// Error sends an error response
func Error(c *gin.Context, code int, message string, notes ...models.Notification) {
	c.AbortWithStatusJSON(code, Response{
		Code:          code,
		Message:       message,
		Notifications: notes,
	})
}

// BadRequest sends a 400 bad request response
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

// Unauthorized sends a 401 response
func Unauthorized(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, message)
}

// NotFound sends a 404 not found response
func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message)
}

// TooManyRequests sends a 429 response
func TooManyRequests(c *gin.Context, message string) {
	Error(c, http.StatusTooManyRequests, message)
}

// InternalError sends a 500 internal server error response
func InternalError(c *gin.Context, message string) {
	Error(c, http.StatusInternalServerError, message)
}
