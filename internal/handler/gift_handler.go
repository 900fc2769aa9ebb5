package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"wedding/site/internal/model"
	"wedding/site/internal/service"
	"wedding/site/internal/view"
	"wedding/site/pkg/response"
)

type GiftHandler struct {
	giftService service.GiftService
	pages       *Renderer
}

func NewGiftHandler(giftService service.GiftService, pages *Renderer) *GiftHandler {
	return &GiftHandler{giftService: giftService, pages: pages}
}

// Registry shows every gift, split into available and claimed.
func (h *GiftHandler) Registry(c *gin.Context) {
	gifts, err := h.giftService.ListAll(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		h.pages.Error(c, http.StatusInternalServerError, genericFailure)
		return
	}

	page := view.GiftsPage{Layout: h.pages.Layout(c, "Gift Registry")}
	page.Available, page.Claimed = splitGifts(gifts)
	c.HTML(http.StatusOK, view.PageGifts, page)
}

func (h *GiftHandler) APIList(c *gin.Context) {
	var (
		gifts []model.Gift
		err   error
	)
	if c.Query("all") == "true" {
		gifts, err = h.giftService.ListAll(c.Request.Context())
	} else {
		gifts, err = h.giftService.ListAvailable(c.Request.Context())
	}
	if err != nil {
		apiError(c, err, "failed to list gifts")
		return
	}
	response.Success(c, gifts)
}

// AddGift is the multipart endpoint kept for existing admin tooling. It
// answers with a bare {error} or {message} body rather than the envelope.
func (h *GiftHandler) AddGift(c *gin.Context) {
	name := c.PostForm("name")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Gift name is required"})
		return
	}

	image, err := formUpload(c, "image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer closeUpload(image)

	if _, err := h.giftService.Create(c.Request.Context(), name, image); err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			_ = c.Error(err)
		}
		c.JSON(status, gin.H{"error": messageFor(err, "Failed to add gift")})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Gift added successfully"})
}

func splitGifts(gifts []model.Gift) (available, claimed []model.Gift) {
	for _, g := range gifts {
		if g.Available {
			available = append(available, g)
		} else {
			claimed = append(claimed, g)
		}
	}
	return available, claimed
}
