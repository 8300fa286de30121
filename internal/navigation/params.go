// Package navigation defines the typed parameters screens hand to each other.
package navigation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jengzang/iceberg-dashboard/internal/validation"
)

// ErrInvalidParams wraps every rejection from Parse and Validate.
var ErrInvalidParams = errors.New("invalid navigation parameters")

// Params travel with a screen transition. Every field is optional; a zero
// value means "not provided".
type Params struct {
	IcebergID   string `form:"iceberg_id" json:"iceberg_id,omitempty" validate:"omitempty,iceberg_id"`
	UserName    string `form:"user_name" json:"user_name,omitempty" validate:"omitempty,min=2,max=64"`
	IsSuperuser bool   `form:"is_superuser" json:"is_superuser,omitempty"`
}

// Validate checks the parameters at the receiving screen.
func (p Params) Validate() error {
	if err := validation.ValidateStruct(&p); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidParams, err)
	}
	return nil
}

// HasIceberg reports whether the transition targets a specific iceberg.
func (p Params) HasIceberg() bool {
	return p.IcebergID != ""
}

// Normalize trims whitespace from the string fields.
func (p Params) Normalize() Params {
	p.IcebergID = strings.TrimSpace(p.IcebergID)
	p.UserName = strings.TrimSpace(p.UserName)
	return p
}

// Parse normalizes and validates raw values.
func Parse(icebergID, userName string, isSuperuser bool) (Params, error) {
	p := Params{IcebergID: icebergID, UserName: userName, IsSuperuser: isSuperuser}.Normalize()
	if err := p.Validate(); err != nil {
		return Params{}, err
	}
	return p, nil
}

// ForIceberg builds the parameters for opening an iceberg on the map or detail screen.
func ForIceberg(id string) (Params, error) {
	if strings.TrimSpace(id) == "" {
		return Params{}, fmt.Errorf("%w: iceberg id is required", ErrInvalidParams)
	}
	return Parse(id, "", false)
}
