package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"wedding/site/internal/guard"
	"wedding/site/internal/handler/middleware"
	"wedding/site/internal/model"
	"wedding/site/internal/service"
	"wedding/site/internal/view"
	"wedding/site/pkg/response"
)

type AuthHandler struct {
	authService service.AuthService
	cookies     middleware.CookieConfig
	pages       *Renderer
	passkeys    bool
}

func NewAuthHandler(authService service.AuthService, cookies middleware.CookieConfig, pages *Renderer, passkeys bool) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cookies:     cookies,
		pages:       pages,
		passkeys:    passkeys,
	}
}

type SignInRequest struct {
	Email          string `json:"email" form:"email" binding:"required"`
	Password       string `json:"password" form:"password" binding:"required"`
	RedirectedFrom string `json:"-" form:"redirectedFrom"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type authResult struct {
	Profile *model.Profile    `json:"profile"`
	Tokens  *service.TokenSet `json:"tokens"`
}

func (h *AuthHandler) ShowSignIn(c *gin.Context) {
	c.HTML(http.StatusOK, view.PageSignIn, view.SignInPage{
		Layout:         h.pages.Layout(c, "Sign in"),
		RedirectedFrom: c.Query(guard.RedirectKey),
		Passkeys:       h.passkeys,
	})
}

func (h *AuthHandler) ShowSignUp(c *gin.Context) {
	c.HTML(http.StatusOK, view.PageSignUp, view.SignUpPage{
		Layout:         h.pages.Layout(c, "Sign up"),
		RedirectedFrom: c.Query(guard.RedirectKey),
	})
}

// SignIn handles the sign-in form.
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req SignInRequest
	if err := c.ShouldBind(&req); err != nil {
		redirectWithFlash(c, retryURL(guard.SignInPath, c.PostForm(guard.RedirectKey)), view.FlashError, "Please enter your email and password.")
		return
	}

	profile, tokens, err := h.authService.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		flashError(c, retryURL(guard.SignInPath, req.RedirectedFrom), err)
		return
	}

	middleware.SetAuthCookies(c, h.cookies, tokens)
	redirectWithFlash(c, guard.AfterSignIn(req.RedirectedFrom, profile.Role), view.FlashSuccess, "Welcome back, "+displayName(profile)+"!")
}

// SignUp handles the sign-up form. The new guest is signed in straight away.
func (h *AuthHandler) SignUp(c *gin.Context) {
	var in service.SignUpInput
	if err := c.ShouldBind(&in); err != nil {
		redirectWithFlash(c, retryURL(guard.SignUpPath, c.PostForm(guard.RedirectKey)), view.FlashError, "Please fill in every field.")
		return
	}
	redirectedFrom := c.PostForm(guard.RedirectKey)

	profile, tokens, err := h.authService.SignUp(c.Request.Context(), in)
	if err != nil {
		flashError(c, retryURL(guard.SignUpPath, redirectedFrom), err)
		return
	}

	middleware.SetAuthCookies(c, h.cookies, tokens)
	redirectWithFlash(c, guard.AfterSignIn(redirectedFrom, profile.Role), view.FlashSuccess, "Welcome, "+displayName(profile)+"!")
}

func (h *AuthHandler) SignOut(c *gin.Context) {
	h.revoke(c)
	middleware.ClearAuthCookies(c, h.cookies)
	redirectWithFlash(c, guard.HomePath, view.FlashSuccess, "You have been signed out.")
}

// APISignUp is the JSON sign-up.
func (h *AuthHandler) APISignUp(c *gin.Context) {
	var in service.SignUpInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	profile, tokens, err := h.authService.SignUp(c.Request.Context(), in)
	if err != nil {
		apiError(c, err, "sign-up failed")
		return
	}

	middleware.SetAuthCookies(c, h.cookies, tokens)
	response.Created(c, "ok", authResult{Profile: profile, Tokens: tokens})
}

func (h *AuthHandler) APISignIn(c *gin.Context) {
	var req SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	profile, tokens, err := h.authService.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		apiError(c, err, "sign-in failed")
		return
	}

	middleware.SetAuthCookies(c, h.cookies, tokens)
	response.Success(c, authResult{Profile: profile, Tokens: tokens})
}

// APIRefresh rotates the refresh token taken from the body or, failing that, the cookie.
func (h *AuthHandler) APIRefresh(c *gin.Context) {
	token := refreshTokenFrom(c)
	if token == "" {
		response.BadRequest(c, "missing refresh_token")
		return
	}

	profile, tokens, err := h.authService.Refresh(c.Request.Context(), token)
	if err != nil {
		apiError(c, err, "token refresh failed")
		return
	}

	middleware.SetAuthCookies(c, h.cookies, tokens)
	response.Success(c, authResult{Profile: profile, Tokens: tokens})
}

func (h *AuthHandler) APISignOut(c *gin.Context) {
	token := refreshTokenFrom(c)
	if token != "" {
		if err := h.authService.SignOut(c.Request.Context(), token); err != nil && !errors.Is(err, service.ErrRefreshTokenInvalid) {
			apiError(c, err, "sign-out failed")
			return
		}
	}
	middleware.ClearAuthCookies(c, h.cookies)
	response.Success(c, nil)
}

func (h *AuthHandler) revoke(c *gin.Context) {
	token, err := c.Cookie(middleware.RefreshTokenCookie)
	if err != nil || token == "" {
		return
	}
	if err := h.authService.SignOut(c.Request.Context(), token); err != nil && !errors.Is(err, service.ErrRefreshTokenInvalid) {
		_ = c.Error(err)
	}
}

func refreshTokenFrom(c *gin.Context) string {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err == nil && req.RefreshToken != "" {
		return req.RefreshToken
	}
	token, _ := c.Cookie(middleware.RefreshTokenCookie)
	return token
}

// retryURL sends the visitor back to a form, keeping where they were headed.
func retryURL(path, redirectedFrom string) string {
	if redirectedFrom == "" {
		return path
	}
	q := url.Values{}
	q.Set(guard.RedirectKey, redirectedFrom)
	return path + "?" + q.Encode()
}

func displayName(p *model.Profile) string {
	if p.FullName != "" {
		return p.FullName
	}
	return p.Email
}
