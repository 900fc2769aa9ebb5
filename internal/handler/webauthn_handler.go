package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"wedding/site/internal/auth"
	"wedding/site/internal/handler/middleware"
	"wedding/site/internal/service"
	"wedding/site/pkg/response"
)

type WebAuthnHandler struct {
	webAuthnService service.WebAuthnService
	cookies         middleware.CookieConfig
}

func NewWebAuthnHandler(webAuthnService service.WebAuthnService, cookies middleware.CookieConfig) *WebAuthnHandler {
	return &WebAuthnHandler{webAuthnService: webAuthnService, cookies: cookies}
}

// BeginRegistration starts passkey registration for the signed-in guest.
func (h *WebAuthnHandler) BeginRegistration(c *gin.Context) {
	s := auth.Get(c)
	if s == nil {
		response.Unauthorized(c, "authentication required")
		return
	}

	creation, sessionID, err := h.webAuthnService.BeginRegistration(c.Request.Context(), s.ProfileID)
	if err != nil {
		apiError(c, err, "failed to begin passkey registration")
		return
	}

	response.Success(c, gin.H{
		"options":    creation,
		"session_id": sessionID,
	})
}

// FinishRegistration completes passkey registration. The attestation is the
// request body and session_id travels as a query parameter.
func (h *WebAuthnHandler) FinishRegistration(c *gin.Context) {
	s := auth.Get(c)
	if s == nil {
		response.Unauthorized(c, "authentication required")
		return
	}

	sessionID := c.Query("session_id")
	if sessionID == "" {
		response.BadRequest(c, "missing session_id")
		return
	}

	if err := h.webAuthnService.FinishRegistration(c.Request.Context(), s.ProfileID, sessionID, c.Request); err != nil {
		if statusFor(err) == http.StatusInternalServerError {
			response.BadRequest(c, "passkey registration failed: "+err.Error())
			return
		}
		apiError(c, err, "")
		return
	}

	response.Success(c, nil)
}

// BeginLogin starts a discoverable passkey sign-in.
func (h *WebAuthnHandler) BeginLogin(c *gin.Context) {
	assertion, sessionID, err := h.webAuthnService.BeginLogin(c.Request.Context())
	if err != nil {
		apiError(c, err, "failed to begin passkey sign-in")
		return
	}

	response.Success(c, gin.H{
		"options":    assertion,
		"session_id": sessionID,
	})
}

// FinishLogin completes passkey sign-in and sets the auth cookies.
func (h *WebAuthnHandler) FinishLogin(c *gin.Context) {
	sessionID := c.Query("session_id")
	if sessionID == "" {
		response.BadRequest(c, "missing session_id")
		return
	}

	profile, tokens, err := h.webAuthnService.FinishLogin(c.Request.Context(), sessionID, c.Request)
	if err != nil {
		if statusFor(err) == http.StatusInternalServerError {
			response.Unauthorized(c, "passkey sign-in failed: "+err.Error())
			return
		}
		apiError(c, err, "")
		return
	}

	middleware.SetAuthCookies(c, h.cookies, tokens)
	response.Success(c, authResult{Profile: profile, Tokens: tokens})
}
