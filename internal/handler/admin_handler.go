package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"wedding/site/internal/model"
	"wedding/site/internal/service"
	"wedding/site/internal/view"
)

// Dashboard tabs.
const (
	tabRSVPs = "rsvps"
	tabGifts = "gifts"
	tabCrew  = "crew"
)

type AdminHandler struct {
	adminService service.AdminService
	giftService  service.GiftService
	crewService  service.CrewService
	pages        *Renderer
}

func NewAdminHandler(
	adminService service.AdminService,
	giftService service.GiftService,
	crewService service.CrewService,
	pages *Renderer,
) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
		giftService:  giftService,
		crewService:  crewService,
		pages:        pages,
	}
}

// Dashboard renders one tab of the admin page. Stats are shown on every tab.
func (h *AdminHandler) Dashboard(c *gin.Context) {
	ctx := c.Request.Context()
	page := view.AdminPage{Tab: c.DefaultQuery("tab", tabRSVPs)}

	stats, err := h.adminService.Stats(ctx)
	if err != nil {
		h.fail(c, err)
		return
	}
	page.Stats = *stats

	switch page.Tab {
	case tabGifts:
		page.Gifts, err = h.giftService.ListAll(ctx)
	case tabCrew:
		page.Crew, err = h.crewService.List(ctx)
	default:
		page.Tab = tabRSVPs
		page.RSVPs, err = h.adminService.ListRSVPs(ctx)
	}
	if err != nil {
		h.fail(c, err)
		return
	}

	page.Layout = h.pages.Layout(c, "Admin")
	c.HTML(http.StatusOK, view.PageAdmin, page)
}

func (h *AdminHandler) UpdateRSVP(c *gin.Context) {
	back := tabURL(tabRSVPs)
	id, ok := uuidParam(c, "id")
	if !ok {
		redirectWithFlash(c, back, view.FlashError, "Invalid RSVP id.")
		return
	}

	in, err := rsvpUpdateFromForm(c)
	if err != nil {
		redirectWithFlash(c, back, view.FlashError, err.Error())
		return
	}
	if _, err := h.adminService.UpdateRSVP(c.Request.Context(), id, in); err != nil {
		flashError(c, back, err)
		return
	}
	redirectWithFlash(c, back, view.FlashSuccess, "RSVP updated.")
}

func (h *AdminHandler) DeleteRSVP(c *gin.Context) {
	back := tabURL(tabRSVPs)
	id, ok := uuidParam(c, "id")
	if !ok {
		redirectWithFlash(c, back, view.FlashError, "Invalid RSVP id.")
		return
	}

	if err := h.adminService.DeleteRSVP(c.Request.Context(), id); err != nil {
		flashError(c, back, err)
		return
	}
	redirectWithFlash(c, back, view.FlashSuccess, "RSVP deleted.")
}

func (h *AdminHandler) CreateGift(c *gin.Context) {
	back := tabURL(tabGifts)
	image, err := formUpload(c, "image")
	if err != nil {
		redirectWithFlash(c, back, view.FlashError, "Could not read the uploaded image.")
		return
	}
	defer closeUpload(image)

	gift, err := h.giftService.Create(c.Request.Context(), c.PostForm("name"), image)
	if err != nil {
		flashError(c, back, err)
		return
	}
	redirectWithFlash(c, back, view.FlashSuccess, fmt.Sprintf("Added %q to the registry.", gift.Name))
}

func (h *AdminHandler) DeleteGift(c *gin.Context) {
	back := tabURL(tabGifts)
	id, ok := uintParam(c, "id")
	if !ok {
		redirectWithFlash(c, back, view.FlashError, "Invalid gift id.")
		return
	}

	if err := h.giftService.Delete(c.Request.Context(), id); err != nil {
		flashError(c, back, err)
		return
	}
	redirectWithFlash(c, back, view.FlashSuccess, "Gift deleted.")
}

func (h *AdminHandler) ReleaseGift(c *gin.Context) {
	back := tabURL(tabGifts)
	id, ok := uintParam(c, "id")
	if !ok {
		redirectWithFlash(c, back, view.FlashError, "Invalid gift id.")
		return
	}

	if err := h.giftService.Release(c.Request.Context(), id); err != nil {
		flashError(c, back, err)
		return
	}
	redirectWithFlash(c, back, view.FlashSuccess, "Gift is available again.")
}

func (h *AdminHandler) CreateCrewMember(c *gin.Context) {
	back := tabURL(tabCrew)
	var in service.CrewInput
	if err := c.ShouldBind(&in); err != nil {
		redirectWithFlash(c, back, view.FlashError, service.ErrCrewFieldsRequired.Error())
		return
	}
	headshot, err := formUpload(c, "headshot")
	if err != nil {
		redirectWithFlash(c, back, view.FlashError, "Could not read the uploaded headshot.")
		return
	}
	defer closeUpload(headshot)

	member, err := h.crewService.Create(c.Request.Context(), in, headshot)
	if err != nil {
		flashError(c, back, err)
		return
	}
	redirectWithFlash(c, back, view.FlashSuccess, fmt.Sprintf("Added %s to the bridal crew.", member.Name))
}

func (h *AdminHandler) DeleteCrewMember(c *gin.Context) {
	back := tabURL(tabCrew)
	id, ok := uintParam(c, "id")
	if !ok {
		redirectWithFlash(c, back, view.FlashError, "Invalid crew member id.")
		return
	}

	if err := h.crewService.Delete(c.Request.Context(), id); err != nil {
		flashError(c, back, err)
		return
	}
	redirectWithFlash(c, back, view.FlashSuccess, "Crew member removed.")
}

func (h *AdminHandler) fail(c *gin.Context, err error) {
	_ = c.Error(err)
	h.pages.Error(c, http.StatusInternalServerError, genericFailure)
}

func tabURL(tab string) string {
	return "/admin?tab=" + tab
}

// rsvpUpdateFromForm reads the inline edit form of the RSVP table.
func rsvpUpdateFromForm(c *gin.Context) (service.RSVPUpdate, error) {
	in := service.RSVPUpdate{
		Attending:           c.PostForm("attending") == "yes",
		DietaryRestrictions: optionalForm(c, "dietary_restrictions"),
		SongRequest:         optionalForm(c, "song_request"),
		PartyChoice:         model.PartyChoice(c.DefaultPostForm("party_choice", string(model.PartyNone))),
	}
	halaal := c.PostForm("halaal_preference") == "yes"
	in.HalaalPreference = &halaal

	if g := c.PostForm("gender"); g != "" {
		gender := model.Gender(g)
		if !gender.Valid() {
			return in, fmt.Errorf("unknown gender %q", g)
		}
		in.Gender = &gender
	}

	if !in.Attending {
		return in, nil
	}
	count, err := strconv.Atoi(c.PostForm("guest_count"))
	if err != nil {
		return in, fmt.Errorf("guest count must be a number")
	}
	in.GuestCount = count
	for i := 0; i < count-1; i++ {
		in.AdditionalGuests = append(in.AdditionalGuests, model.AdditionalGuest{
			FullName: strings.TrimSpace(c.PostForm(fmt.Sprintf("guest_full_name_%d", i))),
			Surname:  strings.TrimSpace(c.PostForm(fmt.Sprintf("guest_surname_%d", i))),
		})
	}
	return in, nil
}

func optionalForm(c *gin.Context, field string) *string {
	v := strings.TrimSpace(c.PostForm(field))
	if v == "" {
		return nil
	}
	return &v
}
