package middleware

import (
	"net/http"

	csrf "github.com/utrack/gin-csrf"

	"github.com/gin-gonic/gin"

	"github.com/webgarden/platform/internal/interfaces/http/dto"
)

const csrfActiveKey = "csrf_active"

// CSRF protects session-authenticated form posts. It must run after the
// session middleware.
func CSRF(secret string) gin.HandlerFunc {
	inner := csrf.Middleware(csrf.Options{
		Secret: secret,
		ErrorFunc: func(c *gin.Context) {
			if wantsJSON(c) {
				c.AbortWithStatusJSON(http.StatusForbidden,
					dto.NewErrorResponse("CSRF_MISMATCH", "CSRF token mismatch"))
				return
			}
			c.String(http.StatusForbidden, "CSRF token mismatch")
			c.Abort()
		},
	})
	return func(c *gin.Context) {
		c.Set(csrfActiveKey, true)
		inner(c)
	}
}

// CSRFToken returns the token to embed in forms for the current
// session. Empty when the route is not CSRF-protected.
func CSRFToken(c *gin.Context) string {
	if !c.GetBool(csrfActiveKey) {
		return ""
	}
	return csrf.GetToken(c)
}
