package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jengzang/iceberg-dashboard/internal/icebergapi"
	"github.com/jengzang/iceberg-dashboard/internal/logging"
	"github.com/jengzang/iceberg-dashboard/internal/models"
	"github.com/jengzang/iceberg-dashboard/internal/session"
	"github.com/jengzang/iceberg-dashboard/internal/validation"
)

// CommentAPI is the part of the iceberg API that manages comments.
type CommentAPI interface {
	Comments(ctx context.Context, icebergID string) ([]models.Comment, error)
	SubmitComment(ctx context.Context, c models.NewComment) (*models.CommentCreated, error)
	DeleteComment(ctx context.Context, commentID int64) error
}

// CommentInput is the body a user submits
type CommentInput struct {
	Suggestion string `json:"suggestion" validate:"required,max=2000"`
}

// CommentService handles user suggestions
type CommentService struct {
	api CommentAPI
	now func() time.Time
}

// NewCommentService creates a comment service
func NewCommentService(api CommentAPI) *CommentService {
	return &CommentService{api: api, now: time.Now}
}

// List returns every comment on an iceberg, newest first unless oldestFirst is set.
func (s *CommentService) List(ctx context.Context, sess *session.Session, icebergID string, oldestFirst bool) ([]models.Comment, error) {
	ctx = icebergapi.WithAccessToken(ctx, sess.UpstreamToken)
	comments, err := s.api.Comments(ctx, icebergID)
	if err != nil {
		return nil, fmt.Errorf("failed to load comments for %s: %w", icebergID, err)
	}
	if oldestFirst {
		models.SortCommentsOldestFirst(comments)
	} else {
		models.SortCommentsNewestFirst(comments)
	}
	return comments, nil
}

// Submit posts a suggestion as the session's user, stamped with the current time.
func (s *CommentService) Submit(ctx context.Context, sess *session.Session, icebergID string, in CommentInput) (*models.Comment, error) {
	c := models.NewComment{
		IcebergID:      icebergID,
		SuggestionText: strings.TrimSpace(in.Suggestion),
		UserName:       sess.User.Username,
		SuggestionTime: models.FormatCommentTime(s.now()),
	}
	if err := validation.ValidateStruct(&c); err != nil {
		return nil, err
	}

	ctx = icebergapi.WithAccessToken(ctx, sess.UpstreamToken)
	created, err := s.api.SubmitComment(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("failed to submit comment: %w", err)
	}

	logging.Ctx(ctx).Info().
		Str("iceberg", icebergID).
		Int64("comment_id", created.CommentID).
		Str("user", c.UserName).
		Msg("comment submitted")

	return &models.Comment{
		CommentID:      created.CommentID,
		UserName:       c.UserName,
		SuggestionText: c.SuggestionText,
		SuggestionTime: c.SuggestionTime,
	}, nil
}

// Delete removes a comment. Only superusers may delete.
func (s *CommentService) Delete(ctx context.Context, sess *session.Session, commentID int64) error {
	if !sess.User.IsSuperuser {
		return ErrForbidden
	}

	ctx = icebergapi.WithAccessToken(ctx, sess.UpstreamToken)
	if err := s.api.DeleteComment(ctx, commentID); err != nil {
		if icebergapi.IsNotFound(err) {
			return fmt.Errorf("%w: %w", ErrCommentNotFound, err)
		}
		return fmt.Errorf("failed to delete comment %d: %w", commentID, err)
	}

	logging.Ctx(ctx).Info().Int64("comment_id", commentID).Str("user", sess.User.Username).Msg("comment deleted")
	return nil
}
