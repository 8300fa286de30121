package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/iceberg-dashboard/internal/logging"
	"github.com/jengzang/iceberg-dashboard/internal/session"
	"github.com/jengzang/iceberg-dashboard/pkg/response"
)

// SessionCookie is read when no Authorization header is sent
const SessionCookie = "iceberg_session"

const sessionKey = "session"

// SessionResolver turns a bearer token into a session. *session.Manager implements it.
type SessionResolver interface {
	Lookup(ctx context.Context, token string) (*session.Session, error)
}

// RequireSession rejects requests without a valid session with 401 and stores
// the session for CurrentSession.
func RequireSession(sessions SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			response.Unauthorized(c, "Log in to access more iceberg info!")
			return
		}

		sess, err := sessions.Lookup(c.Request.Context(), token)
		if err != nil {
			msg := "Session is invalid, please log in again."
			if errors.Is(err, session.ErrExpired) {
				msg = "Session expired, please log in again."
			}
			logging.Ctx(c.Request.Context()).Debug().Err(err).Msg("session rejected")
			response.Unauthorized(c, msg)
			return
		}

		c.Set(sessionKey, sess)
		c.Request = c.Request.WithContext(logging.ContextWithSessionID(c.Request.Context(), sess.ID))
		c.Next()
	}
}

// CurrentSession returns the session stored by RequireSession, or nil.
func CurrentSession(c *gin.Context) *session.Session {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil
	}
	sess, _ := v.(*session.Session)
	return sess
}

func bearerToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		if tok, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(tok)
		}
		return ""
	}
	if cookie, err := c.Cookie(SessionCookie); err == nil {
		return cookie
	}
	return ""
}
