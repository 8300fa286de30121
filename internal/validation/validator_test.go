package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/iceberg-dashboard/internal/models"
)

func TestIsIcebergID(t *testing.T) {
	for _, id := range []string{"A23A", "a68a", "B-22", "C21_b"} {
		assert.True(t, IsIcebergID(id), id)
	}
	for _, id := range []string{"", "-A", "A 23", "../etc", "A23A?x=1"} {
		assert.False(t, IsIcebergID(id), id)
	}
}

func TestValidateStructMessages(t *testing.T) {
	err := ValidateStruct(&models.Registration{Username: "a", Password: "123", Email: "nope"})
	require.Error(t, err)

	var verr *Error
	require.True(t, errors.As(err, &verr))
	assert.Len(t, verr.Fields, 3)
	assert.Contains(t, err.Error(), "Username must be at least 2")
	assert.Contains(t, err.Error(), "Email must be a valid email address")
}

func TestValidateBounds(t *testing.T) {
	ok := models.Bounds{MinLat: -70, MaxLat: -60, MinLon: -50, MaxLon: -40}
	assert.NoError(t, ValidateStruct(&ok))

	bad := models.Bounds{MinLat: -60, MaxLat: -70, MinLon: -50, MaxLon: -40}
	err := ValidateStruct(&bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MaxLat must not be less than MinLat")
}

func TestValidateCriteria(t *testing.T) {
	assert.NoError(t, ValidateStruct(&models.SearchCriteria{}))
	err := ValidateStruct(&models.SearchCriteria{MinLat: models.Float(-95)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "latitude")
}
