package service

import "errors"

var (
	// ErrForbidden is returned when the signed-in user may not perform an action.
	ErrForbidden = errors.New("forbidden")
	// ErrCommentNotFound is returned when deleting a comment the backend does not know.
	ErrCommentNotFound = errors.New("comment not found")
	// ErrInvalidMode is returned for a mode that cannot be entered directly.
	ErrInvalidMode = errors.New("invalid view mode")
)
