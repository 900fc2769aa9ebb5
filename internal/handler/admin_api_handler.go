package handler

import (
	"github.com/gin-gonic/gin"

	"wedding/site/internal/model"
	"wedding/site/internal/service"
	"wedding/site/pkg/response"
)

// JSON mirror of the dashboard under /api/v1/admin.

func (h *AdminHandler) APIListRSVPs(c *gin.Context) {
	rows, err := h.adminService.ListRSVPs(c.Request.Context())
	if err != nil {
		apiError(c, err, "failed to list RSVPs")
		return
	}
	response.Success(c, rows)
}

func (h *AdminHandler) APIUpdateRSVP(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		response.BadRequest(c, "invalid RSVP id")
		return
	}
	var in service.RSVPUpdate
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	rsvp, err := h.adminService.UpdateRSVP(c.Request.Context(), id, in)
	if err != nil {
		apiError(c, err, "failed to update RSVP")
		return
	}
	response.Success(c, rsvp)
}

func (h *AdminHandler) APIDeleteRSVP(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		response.BadRequest(c, "invalid RSVP id")
		return
	}
	if err := h.adminService.DeleteRSVP(c.Request.Context(), id); err != nil {
		apiError(c, err, "failed to delete RSVP")
		return
	}
	response.Success(c, nil)
}

func (h *AdminHandler) APIStats(c *gin.Context) {
	stats, err := h.adminService.Stats(c.Request.Context())
	if err != nil {
		apiError(c, err, "failed to compute stats")
		return
	}
	response.Success(c, stats)
}

type profileSummary struct {
	ID       string     `json:"id"`
	FullName string     `json:"full_name"`
	Email    string     `json:"email"`
	Role     model.Role `json:"role"`
}

func (h *AdminHandler) APIListProfiles(c *gin.Context) {
	profiles, err := h.adminService.ListProfiles(c.Request.Context())
	if err != nil {
		apiError(c, err, "failed to list profiles")
		return
	}
	out := make([]profileSummary, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, profileSummary{ID: p.ID.String(), FullName: p.FullName, Email: p.Email, Role: p.Role})
	}
	response.Success(c, out)
}

type setRoleRequest struct {
	Email string     `json:"email" binding:"required"`
	Role  model.Role `json:"role" binding:"required"`
}

func (h *AdminHandler) APISetRole(c *gin.Context) {
	var req setRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	profile, err := h.adminService.SetRole(c.Request.Context(), req.Email, req.Role)
	if err != nil {
		apiError(c, err, "failed to update role")
		return
	}
	response.Success(c, profile)
}

func (h *AdminHandler) APIListGifts(c *gin.Context) {
	gifts, err := h.giftService.ListAll(c.Request.Context())
	if err != nil {
		apiError(c, err, "failed to list gifts")
		return
	}
	response.Success(c, gifts)
}

func (h *AdminHandler) APICreateGift(c *gin.Context) {
	image, err := formUpload(c, "image")
	if err != nil {
		response.BadRequest(c, "invalid image upload")
		return
	}
	defer closeUpload(image)

	gift, err := h.giftService.Create(c.Request.Context(), c.PostForm("name"), image)
	if err != nil {
		apiError(c, err, "failed to create gift")
		return
	}
	response.Created(c, "gift created", gift)
}

func (h *AdminHandler) APIDeleteGift(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		response.BadRequest(c, "invalid gift id")
		return
	}
	if err := h.giftService.Delete(c.Request.Context(), id); err != nil {
		apiError(c, err, "failed to delete gift")
		return
	}
	response.Success(c, nil)
}

func (h *AdminHandler) APIReleaseGift(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		response.BadRequest(c, "invalid gift id")
		return
	}
	if err := h.giftService.Release(c.Request.Context(), id); err != nil {
		apiError(c, err, "failed to release gift")
		return
	}
	response.Success(c, nil)
}

func (h *AdminHandler) APIListCrew(c *gin.Context) {
	members, err := h.crewService.List(c.Request.Context())
	if err != nil {
		apiError(c, err, "failed to list crew")
		return
	}
	response.Success(c, members)
}

func (h *AdminHandler) APICreateCrewMember(c *gin.Context) {
	var in service.CrewInput
	if err := c.ShouldBind(&in); err != nil {
		response.BadRequest(c, service.ErrCrewFieldsRequired.Error())
		return
	}
	headshot, err := formUpload(c, "headshot")
	if err != nil {
		response.BadRequest(c, "invalid headshot upload")
		return
	}
	defer closeUpload(headshot)

	member, err := h.crewService.Create(c.Request.Context(), in, headshot)
	if err != nil {
		apiError(c, err, "failed to create crew member")
		return
	}
	response.Created(c, "crew member created", member)
}

func (h *AdminHandler) APIDeleteCrewMember(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		response.BadRequest(c, "invalid crew member id")
		return
	}
	if err := h.crewService.Delete(c.Request.Context(), id); err != nil {
		apiError(c, err, "failed to delete crew member")
		return
	}
	response.Success(c, nil)
}
