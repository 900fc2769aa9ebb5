package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"wedding/site/internal/service"
	"wedding/site/internal/storage"
	"wedding/site/internal/view"
	"wedding/site/pkg/response"
)

// Number of gifts and crew members previewed on the home page.
const homePreviewSize = 4

type PageHandler struct {
	siteService service.SiteService
	giftService service.GiftService
	crewService service.CrewService
	objects     *storage.MemoryStore
	pages       *Renderer
	now         func() time.Time
}

// NewPageHandler wires the public pages. objects may be nil when uploads live in S3.
func NewPageHandler(
	siteService service.SiteService,
	giftService service.GiftService,
	crewService service.CrewService,
	objects *storage.MemoryStore,
	pages *Renderer,
) *PageHandler {
	return &PageHandler{
		siteService: siteService,
		giftService: giftService,
		crewService: crewService,
		objects:     objects,
		pages:       pages,
		now:         time.Now,
	}
}

func (h *PageHandler) Home(c *gin.Context) {
	ctx := c.Request.Context()

	gifts, err := h.giftService.ListAvailable(ctx)
	if err != nil {
		_ = c.Error(err)
		h.pages.Error(c, http.StatusInternalServerError, genericFailure)
		return
	}
	crew, err := h.crewService.List(ctx)
	if err != nil {
		_ = c.Error(err)
		h.pages.Error(c, http.StatusInternalServerError, genericFailure)
		return
	}

	c.HTML(http.StatusOK, view.PageHome, view.HomePage{
		Layout:    h.pages.Layout(c, "Home"),
		Details:   h.siteService.Details(),
		Countdown: h.siteService.Countdown(h.now()),
		Timeline:  h.siteService.Timeline(),
		Gifts:     preview(gifts),
		Crew:      preview(crew),
	})
}

// InviteQR serves a PNG QR code linking to the RSVP page.
func (h *PageHandler) InviteQR(c *gin.Context) {
	size := 0
	if raw := c.Query("size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			c.String(http.StatusBadRequest, service.ErrInvalidQRSize.Error())
			return
		}
		size = n
	}

	png, err := h.siteService.InviteQRCode(size)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			_ = c.Error(err)
		}
		c.String(status, messageFor(err, "failed to render QR code"))
		return
	}

	c.Header("Cache-Control", "public, max-age=3600")
	c.Data(http.StatusOK, "image/png", png)
}

// PublicObject serves uploads held by the in-memory store.
func (h *PageHandler) PublicObject(c *gin.Context) {
	if h.objects == nil {
		c.Status(http.StatusNotFound)
		return
	}
	key := c.Param("key")
	if len(key) > 0 && key[0] == '/' {
		key = key[1:]
	}

	obj, err := h.objects.Get(c.Param("bucket"), key)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			c.Status(http.StatusNotFound)
			return
		}
		_ = c.Error(err)
		c.Status(http.StatusInternalServerError)
		return
	}
	c.Data(http.StatusOK, obj.ContentType, obj.Body)
}

type siteResponse struct {
	Details   service.Details         `json:"details"`
	Countdown service.TimeLeft        `json:"countdown"`
	Timeline  []service.TimelineEntry `json:"timeline"`
	RSVPURL   string                  `json:"rsvp_url"`
}

// APISite returns the wedding details shown on the home page.
func (h *PageHandler) APISite(c *gin.Context) {
	response.Success(c, siteResponse{
		Details:   h.siteService.Details(),
		Countdown: h.siteService.Countdown(h.now()),
		Timeline:  h.siteService.Timeline(),
		RSVPURL:   h.siteService.RSVPURL(),
	})
}

func (h *PageHandler) NotFound(c *gin.Context) {
	if isAPIPath(c.Request.URL.Path) {
		response.NotFound(c, "not found")
		return
	}
	h.pages.Error(c, http.StatusNotFound, "We couldn't find that page.")
}

func preview[T any](items []T) []T {
	if len(items) > homePreviewSize {
		return items[:homePreviewSize]
	}
	return items
}
