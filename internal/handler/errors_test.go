package handler

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jengzang/iceberg-dashboard/internal/icebergapi"
	"github.com/jengzang/iceberg-dashboard/internal/navigation"
	"github.com/jengzang/iceberg-dashboard/internal/service"
	"github.com/jengzang/iceberg-dashboard/internal/validation"
	"github.com/jengzang/iceberg-dashboard/internal/viewstate"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"validation", &validation.Error{Fields: []validation.FieldError{{Field: "username", Tag: "required", Message: "username is required"}}}, http.StatusBadRequest, "username is required"},
		{"navigation", fmt.Errorf("%w: iceberg id is required", navigation.ErrInvalidParams), http.StatusBadRequest, ""},
		{"mode", service.ErrInvalidMode, http.StatusBadRequest, ""},
		{"not ready", viewstate.ErrMapNotReady, http.StatusConflict, ""},
		{"forbidden", service.ErrForbidden, http.StatusForbidden, ""},
		{"comment", fmt.Errorf("%w: %w", service.ErrCommentNotFound, &icebergapi.APIError{Status: 404}), http.StatusNotFound, "Comment not Found"},
		{"upstream 401", &icebergapi.APIError{Status: 401, Message: "Bad Credentials"}, http.StatusUnauthorized, "Bad Credentials"},
		{"upstream 404", &icebergapi.APIError{Status: 404, Message: "Iceberg not found"}, http.StatusNotFound, "Iceberg not found"},
		{"upstream 500", &icebergapi.APIError{Status: 500, Message: "boom"}, http.StatusBadGateway, "boom"},
		{"breaker", icebergapi.ErrUnavailable, http.StatusServiceUnavailable, ""},
		{"transport", fmt.Errorf("%w: dial tcp: refused", icebergapi.ErrTransport), http.StatusBadGateway, ""},
		{"other", errors.New("disk full"), http.StatusInternalServerError, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, msg := classify(tt.err)
			assert.Equal(t, tt.status, status)
			assert.NotEmpty(t, msg)
			if tt.message != "" {
				assert.Equal(t, tt.message, msg)
			}
		})
	}
}
