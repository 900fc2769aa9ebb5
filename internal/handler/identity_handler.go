package handler

import (
	"github.com/gin-gonic/gin"

	"wedding/site/internal/auth"
	"wedding/site/internal/service"
	"wedding/site/pkg/response"
)

// IdentityHandler serves the signed-in caller's own account.
type IdentityHandler struct {
	identityService service.IdentityService
	rsvpService     service.RSVPService
}

func NewIdentityHandler(identityService service.IdentityService, rsvpService service.RSVPService) *IdentityHandler {
	return &IdentityHandler{identityService: identityService, rsvpService: rsvpService}
}

// Me returns the caller's profile, RSVP and claimed gift.
func (h *IdentityHandler) Me(c *gin.Context) {
	s := auth.Get(c)
	if s == nil {
		response.Unauthorized(c, "authentication required")
		return
	}

	status, err := h.rsvpService.Status(c.Request.Context(), s.ProfileID)
	if err != nil {
		apiError(c, err, "failed to load profile")
		return
	}

	response.Success(c, status)
}

// List returns the caller's sign-in methods.
func (h *IdentityHandler) List(c *gin.Context) {
	s := auth.Get(c)
	if s == nil {
		response.Unauthorized(c, "authentication required")
		return
	}

	methods, err := h.identityService.ListSignInMethods(c.Request.Context(), s.ProfileID)
	if err != nil {
		apiError(c, err, "list identities failed")
		return
	}

	response.Success(c, methods)
}
