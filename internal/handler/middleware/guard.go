package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"wedding/site/internal/auth"
	"wedding/site/internal/guard"
	"wedding/site/pkg/response"
)

// Guard applies the route guard to every request. Pages are redirected;
// API calls get a 401 or 403 envelope instead.
func Guard() gin.HandlerFunc {
	return func(c *gin.Context) {
		d := guard.Evaluate(c.Request.URL, auth.Get(c).Subject())
		if d.Action == guard.Allow {
			c.Next()
			return
		}

		if isAPI(c.Request.URL.Path) {
			if d.Action == guard.RedirectSignIn {
				response.Abort(c, http.StatusUnauthorized, "authentication required")
			} else {
				response.Abort(c, http.StatusForbidden, "admin access required")
			}
			return
		}

		c.Redirect(http.StatusFound, d.Location)
		c.Abort()
	}
}

func isAPI(path string) bool {
	return strings.HasPrefix(path, "/api/")
}
