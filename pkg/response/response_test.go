package response

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/iceberg-dashboard/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decode(t *testing.T, w *httptest.ResponseRecorder) Response {
	t.Helper()
	var r Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &r))
	return r
}

func TestSuccessCarriesNotifications(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Success(c, map[string]int{"n": 1}, models.InfoNotification("Hi", "there"))

	assert.Equal(t, http.StatusOK, w.Code)
	r := decode(t, w)
	assert.Zero(t, r.Code)
	assert.Equal(t, "success", r.Message)
	require.Len(t, r.Notifications, 1)
	assert.Equal(t, "Hi", r.Notifications[0].Title)
}

func TestErrorAborts(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	NotFound(c, "Iceberg not found")

	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusNotFound, w.Code)
	r := decode(t, w)
	assert.Equal(t, 404, r.Code)
	assert.Equal(t, "Iceberg not found", r.Message)
	assert.Nil(t, r.Data)
}

func TestCreated(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	Created(c, gin.H{"id": 3})
	assert.Equal(t, http.StatusCreated, w.Code)
}
