package models

import (
	"sort"
	"time"
)

// Comment is a user suggestion attached to an iceberg
type Comment struct {
	CommentID      int64  `json:"comment_id"`
	UserName       string `json:"user_name"`
	SuggestionText string `json:"suggestion"`
	SuggestionTime string `json:"suggestion_time"`
}

// NewComment is the body of POST /iceberg/comments
type NewComment struct {
	IcebergID      string `json:"iceberg_id" validate:"required"`
	SuggestionText string `json:"suggestion" validate:"required,max=2000"`
	UserName       string `json:"user_name" validate:"required"`
	SuggestionTime string `json:"suggestion_time"` // ISO-8601
}

// CommentCreated is the upstream reply to a submitted comment
type CommentCreated struct {
	Message   string `json:"message"`
	CommentID int64  `json:"comment_id"`
}

// SortCommentsNewestFirst orders comments by submission time, newest first.
// Unparseable times sort last; ties keep their original order.
func SortCommentsNewestFirst(comments []Comment) {
	sort.SliceStable(comments, func(i, j int) bool {
		ti, okI := ParseObservationTime(comments[i].SuggestionTime)
		tj, okJ := ParseObservationTime(comments[j].SuggestionTime)
		switch {
		case okI && okJ:
			return ti.After(tj)
		case okI:
			return true
		default:
			return false
		}
	})
}

// SortCommentsOldestFirst orders comments by submission time, oldest first.
func SortCommentsOldestFirst(comments []Comment) {
	sort.SliceStable(comments, func(i, j int) bool {
		ti, okI := ParseObservationTime(comments[i].SuggestionTime)
		tj, okJ := ParseObservationTime(comments[j].SuggestionTime)
		switch {
		case okI && okJ:
			return ti.Before(tj)
		case okI:
			return true
		default:
			return false
		}
	})
}

// FormatCommentTime renders t the way the comments endpoint expects.
func FormatCommentTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05")
}
