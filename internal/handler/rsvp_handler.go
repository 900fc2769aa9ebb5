package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"wedding/site/internal/auth"
	"wedding/site/internal/guard"
	"wedding/site/internal/model"
	"wedding/site/internal/rsvpflow"
	"wedding/site/internal/service"
	"wedding/site/internal/view"
	"wedding/site/pkg/response"
)

// Wizard buttons.
const (
	actionNext   = "next"
	actionBack   = "back"
	actionUpdate = "update"
)

type RSVPHandler struct {
	rsvpService service.RSVPService
	giftService service.GiftService
	pages       *Renderer
}

func NewRSVPHandler(rsvpService service.RSVPService, giftService service.GiftService, pages *Renderer) *RSVPHandler {
	return &RSVPHandler{rsvpService: rsvpService, giftService: giftService, pages: pages}
}

// Show renders the wizard, or the confirmation once an RSVP exists.
func (h *RSVPHandler) Show(c *gin.Context) {
	ctx := c.Request.Context()
	s := auth.Get(c)

	status, err := h.rsvpService.Status(ctx, s.ProfileID)
	if err != nil {
		_ = c.Error(err)
		h.pages.Error(c, http.StatusInternalServerError, genericFailure)
		return
	}

	if status.Submitted() {
		c.HTML(http.StatusOK, view.PageRSVPDone, view.RSVPDonePage{
			Layout:    h.pages.Layout(c, "RSVP"),
			Status:    status,
			PartyLink: h.rsvpService.PartyLink(status.RSVP.PartyChoice),
		})
		return
	}

	flow, err := h.rsvpService.LoadDraft(ctx, status.Profile)
	if err != nil {
		_ = c.Error(err)
		h.pages.Error(c, http.StatusInternalServerError, genericFailure)
		return
	}
	gifts, err := h.giftService.ListAvailable(ctx)
	if err != nil {
		_ = c.Error(err)
		h.pages.Error(c, http.StatusInternalServerError, genericFailure)
		return
	}

	c.HTML(http.StatusOK, view.PageRSVP, view.RSVPPage{
		Layout:       h.pages.Layout(c, "RSVP"),
		Flow:         flow,
		Steps:        view.StepViews(flow),
		GuestOptions: guestOptions(flow.Options.MaxGuests),
		Gifts:        gifts,
		CanContinue:  flow.CanContinue(),
		PartyLink:    h.rsvpService.PartyLink(flow.Form.PartyChoice),
	})
}

// Step applies the posted fields of the current step and moves the wizard.
func (h *RSVPHandler) Step(c *gin.Context) {
	ctx := c.Request.Context()
	s := auth.Get(c)

	flow, ok := h.loadOpenFlow(c, s)
	if !ok {
		return
	}

	// 1. Apply what the visitor typed on this step
	stepErr := applyStep(c, flow)

	// 2. Move
	if stepErr == nil {
		switch c.PostForm("action") {
		case actionNext:
			stepErr = flow.Next()
		case actionBack:
			stepErr = flow.Back()
		case actionUpdate:
		}
	}

	// 3. Keep the draft either way so nothing typed is lost
	if err := h.rsvpService.SaveDraft(ctx, s.ProfileID, flow); err != nil {
		flashError(c, guard.RSVPPath, err)
		return
	}
	if stepErr != nil {
		flashError(c, guard.RSVPPath, stepErr)
		return
	}
	c.Redirect(http.StatusSeeOther, guard.RSVPPath)
}

// Submit stores the RSVP. A gift that could not be claimed does not fail the
// submission; the guest is warned instead.
func (h *RSVPHandler) Submit(c *gin.Context) {
	ctx := c.Request.Context()
	s := auth.Get(c)

	flow, ok := h.loadOpenFlow(c, s)
	if !ok {
		return
	}

	// 1. Fields of the final step
	if err := applyStep(c, flow); err != nil {
		flashError(c, guard.RSVPPath, err)
		return
	}

	// 2. Validate the whole form and close the wizard
	sub, err := flow.Submit()
	if err != nil {
		if saveErr := h.rsvpService.SaveDraft(ctx, s.ProfileID, flow); saveErr != nil {
			_ = c.Error(saveErr)
		}
		flashError(c, guard.RSVPPath, err)
		return
	}

	// 3. Persist
	result, err := h.rsvpService.Submit(ctx, s.ProfileID, sub)
	if err != nil {
		if errors.Is(err, service.ErrRSVPAlreadySubmitted) {
			redirectWithFlash(c, guard.RSVPPath, view.FlashWarning, "You have already submitted your RSVP.")
			return
		}
		flashError(c, guard.RSVPPath, err)
		return
	}

	addFlash(c, view.FlashSuccess, "Thank you! Your RSVP has been received.")
	if result.GiftErr != nil {
		_ = c.Error(result.GiftErr)
		addFlash(c, view.FlashWarning, "Your RSVP was saved, but the gift could not be reserved: "+messageFor(result.GiftErr, "please try another gift later."))
	}
	c.Redirect(http.StatusSeeOther, guard.RSVPPath)
}

// loadOpenFlow loads the caller's draft. Callers that already answered are
// sent back to the confirmation.
func (h *RSVPHandler) loadOpenFlow(c *gin.Context, s *auth.Session) (*rsvpflow.Flow, bool) {
	ctx := c.Request.Context()

	status, err := h.rsvpService.Status(ctx, s.ProfileID)
	if err != nil {
		flashError(c, guard.RSVPPath, err)
		return nil, false
	}
	if status.Submitted() {
		redirectWithFlash(c, guard.RSVPPath, view.FlashWarning, "You have already submitted your RSVP.")
		return nil, false
	}

	flow, err := h.rsvpService.LoadDraft(ctx, status.Profile)
	if err != nil {
		flashError(c, guard.RSVPPath, err)
		return nil, false
	}
	return flow, true
}

// applyStep copies the posted fields into the form. A post from a stale page
// (its hidden step differs from the draft) changes nothing.
func applyStep(c *gin.Context, flow *rsvpflow.Flow) error {
	posted, err := strconv.Atoi(c.PostForm("step"))
	if err != nil || rsvpflow.Step(posted) != flow.Step {
		return nil
	}
	form := &flow.Form

	switch flow.Step {
	case rsvpflow.StepPersonalInfo:
		form.FullName = c.PostForm("full_name")
		form.Phone = c.PostForm("phone")

	case rsvpflow.StepAttendance:
		switch c.PostForm("attending") {
		case "yes":
			form.SetAttending(true)
		case "no":
			form.SetAttending(false)
		}
		if !form.IsAttending() {
			return nil
		}
		for i := range form.AdditionalGuests {
			fullName, ok := c.GetPostForm(fmt.Sprintf("guest_full_name_%d", i))
			if !ok {
				continue
			}
			form.SetGuest(i, fullName, c.PostForm(fmt.Sprintf("guest_surname_%d", i)))
		}
		if n, err := strconv.Atoi(c.PostForm("guest_count")); err == nil {
			form.SetGuestCount(n)
		}

	case rsvpflow.StepPartySelection:
		if g := c.PostForm("gender"); g != "" && (form.Gender == nil || string(*form.Gender) != g) {
			if err := form.ChooseGender(model.Gender(g)); err != nil {
				return err
			}
		}
		if join := c.PostForm("join_party"); join != "" && form.Gender != nil {
			if err := form.JoinParty(join == "yes"); err != nil {
				return err
			}
		}

	case rsvpflow.StepAdditionalInfo:
		form.SongRequest = c.PostForm("song_request")
		if !form.IsAttending() {
			return nil
		}
		form.DietaryRestrictions = c.PostForm("dietary_restrictions")
		form.HalaalPreference = c.PostForm("halaal_preference") == "yes"
		form.SelectedGift = nil
		if id, err := strconv.ParseUint(c.PostForm("selected_gift"), 10, 64); err == nil && id > 0 {
			gift := uint(id)
			form.SelectedGift = &gift
		}
	}
	return nil
}

func guestOptions(max int) []int {
	opts := make([]int, 0, max)
	for i := 1; i <= max; i++ {
		opts = append(opts, i)
	}
	return opts
}

// APIStatus returns the caller's RSVP status.
func (h *RSVPHandler) APIStatus(c *gin.Context) {
	status, err := h.rsvpService.Status(c.Request.Context(), auth.Get(c).ProfileID)
	if err != nil {
		apiError(c, err, "failed to load RSVP")
		return
	}
	response.Success(c, status)
}

type submitResponse struct {
	RSVP        *model.RSVP `json:"rsvp"`
	GiftClaimed bool        `json:"gift_claimed"`
	GiftError   string      `json:"gift_error,omitempty"`
}

// APISubmit accepts a whole submission at once.
func (h *RSVPHandler) APISubmit(c *gin.Context) {
	var sub rsvpflow.Submission
	if err := c.ShouldBindJSON(&sub); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	result, err := h.rsvpService.Submit(c.Request.Context(), auth.Get(c).ProfileID, sub)
	if err != nil {
		apiError(c, err, "failed to submit RSVP")
		return
	}

	resp := submitResponse{RSVP: result.RSVP, GiftClaimed: result.GiftClaimed}
	if result.GiftErr != nil {
		resp.GiftError = messageFor(result.GiftErr, "gift could not be reserved")
	}
	response.Created(c, "RSVP received", resp)
}
