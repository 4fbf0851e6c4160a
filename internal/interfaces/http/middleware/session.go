package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/webgarden/platform/internal/infrastructure/config"
	"github.com/webgarden/platform/internal/interfaces/http/dto"
)

// Session keys
const (
	sessionAccountID = "account_id"
	sessionUsername  = "username"
	sessionRole      = "role"
)

// NewSessionStore builds the cookie-backed session store
func NewSessionStore(cfg config.SessionConfig) sessions.Store {
	store := cookie.NewStore([]byte(cfg.Secret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.MaxAge.Seconds()),
		Secure:   cfg.Secure,
		HttpOnly: true,
		SameSite: parseSameSite(cfg.SameSite),
	})
	return store
}

// Sessions returns the session middleware
func Sessions(cfg config.SessionConfig) gin.HandlerFunc {
	name := cfg.Name
	if name == "" {
		name = "webgarden_session"
	}
	return sessions.Sessions(name, NewSessionStore(cfg))
}

func parseSameSite(mode string) http.SameSite {
	switch strings.ToLower(mode) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}

// SignIn records the authenticated account in the session
func SignIn(c *gin.Context, accountID uuid.UUID, username, role string) error {
	session := sessions.Default(c)
	session.Set(sessionAccountID, accountID.String())
	session.Set(sessionUsername, username)
	session.Set(sessionRole, role)
	return session.Save()
}

// SignOut clears the session
func SignOut(c *gin.Context) error {
	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	return session.Save()
}

// CurrentAccountID returns the signed-in account's ID, if any
func CurrentAccountID(c *gin.Context) (uuid.UUID, bool) {
	session := sessions.Default(c)
	raw, ok := session.Get(sessionAccountID).(string)
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// CurrentUsername returns the signed-in account's username, if any
func CurrentUsername(c *gin.Context) string {
	session := sessions.Default(c)
	name, _ := session.Get(sessionUsername).(string)
	return name
}

// CurrentRole returns the signed-in account's role, if any
func CurrentRole(c *gin.Context) string {
	session := sessions.Default(c)
	role, _ := session.Get(sessionRole).(string)
	return role
}

// RequireAuth rejects requests without a signed-in account. Browser
// requests are redirected to the login page, API requests get JSON.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentAccountID(c); !ok {
			if wantsJSON(c) {
				c.AbortWithStatusJSON(http.StatusUnauthorized,
					dto.NewErrorResponse(dto.ErrCodeUnauthorized, "Sign in required"))
				return
			}
			c.Redirect(http.StatusFound, "/admin/login?next="+c.Request.URL.Path)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAdmin rejects requests from non-admin accounts
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentRole(c) != "admin" {
			if wantsJSON(c) {
				c.AbortWithStatusJSON(http.StatusForbidden,
					dto.NewErrorResponse(dto.ErrCodeForbidden, "Administrator access required"))
				return
			}
			c.AbortWithStatus(http.StatusForbidden)
			return
		}
		c.Next()
	}
}

func wantsJSON(c *gin.Context) bool {
	if strings.HasPrefix(c.Request.URL.Path, "/admin/api/") {
		return true
	}
	accept := c.GetHeader("Accept")
	return strings.Contains(accept, "application/json") && !strings.Contains(accept, "text/html")
}
