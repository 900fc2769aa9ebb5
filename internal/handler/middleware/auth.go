package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"wedding/site/internal/auth"
	"wedding/site/internal/service"
)

const (
	AccessTokenCookie  = "access_token"
	RefreshTokenCookie = "refresh_token"
)

// CookieConfig controls the auth cookies.
type CookieConfig struct {
	Secure     bool
	Domain     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// Session resolves the caller into an auth.Session. The access token comes
// from the Authorization header or the access_token cookie; when it is missing
// or expired the refresh_token cookie is rotated instead. Anonymous requests
// pass through with no session; the guard decides what they may see.
func Session(authService service.AuthService, cookies CookieConfig, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		if token := accessToken(c); token != "" {
			profile, err := authService.Authenticate(ctx, token)
			if err == nil {
				auth.Set(c, auth.NewSession(profile))
				c.Next()
				return
			}
			if !errors.Is(err, service.ErrAccessTokenInvalid) && !errors.Is(err, service.ErrProfileNotFound) {
				logger.Error("failed to authenticate request", zap.Error(err))
			}
		}

		if refresh, err := c.Cookie(RefreshTokenCookie); err == nil && refresh != "" {
			profile, tokens, err := authService.Refresh(ctx, refresh)
			switch {
			case err == nil:
				SetAuthCookies(c, cookies, tokens)
				auth.Set(c, auth.NewSession(profile))
			case errors.Is(err, service.ErrRefreshTokenInvalid), errors.Is(err, service.ErrProfileNotFound):
				ClearAuthCookies(c, cookies)
			default:
				logger.Error("failed to refresh session", zap.Error(err))
			}
		}

		c.Next()
	}
}

func accessToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
		return ""
	}
	token, _ := c.Cookie(AccessTokenCookie)
	return token
}

func SetAuthCookies(c *gin.Context, cfg CookieConfig, tokens *service.TokenSet) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(AccessTokenCookie, tokens.AccessToken, int(cfg.AccessTTL.Seconds()), "/", cfg.Domain, cfg.Secure, true)
	c.SetCookie(RefreshTokenCookie, tokens.RefreshToken, int(cfg.RefreshTTL.Seconds()), "/", cfg.Domain, cfg.Secure, true)
}

func ClearAuthCookies(c *gin.Context, cfg CookieConfig) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(AccessTokenCookie, "", -1, "/", cfg.Domain, cfg.Secure, true)
	c.SetCookie(RefreshTokenCookie, "", -1, "/", cfg.Domain, cfg.Secure, true)
}
