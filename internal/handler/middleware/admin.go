package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"wedding/site/internal/auth"
	"wedding/site/internal/guard"
	"wedding/site/pkg/response"
)

// AdminOnly rejects callers without the admin role. Must be used after Session.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		s := auth.Get(c)
		if s.IsAdmin() {
			c.Next()
			return
		}

		if isAPI(c.Request.URL.Path) {
			if s == nil {
				response.Abort(c, http.StatusUnauthorized, "missing authentication")
			} else {
				response.Abort(c, http.StatusForbidden, "admin access required")
			}
			return
		}

		if s == nil {
			c.Redirect(http.StatusFound, guard.SignInURL(c.Request.URL.RequestURI()))
		} else {
			c.Redirect(http.StatusFound, guard.HomePath)
		}
		c.Abort()
	}
}
