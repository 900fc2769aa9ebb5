package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"wedding/site/internal/service"
	"wedding/site/internal/view"
	"wedding/site/pkg/response"
)

type CrewHandler struct {
	crewService service.CrewService
	pages       *Renderer
}

func NewCrewHandler(crewService service.CrewService, pages *Renderer) *CrewHandler {
	return &CrewHandler{crewService: crewService, pages: pages}
}

func (h *CrewHandler) Show(c *gin.Context) {
	members, err := h.crewService.List(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		h.pages.Error(c, http.StatusInternalServerError, genericFailure)
		return
	}

	c.HTML(http.StatusOK, view.PageCrew, view.CrewPage{
		Layout:  h.pages.Layout(c, "Bridal Crew"),
		Members: members,
	})
}

func (h *CrewHandler) APIList(c *gin.Context) {
	members, err := h.crewService.List(c.Request.Context())
	if err != nil {
		apiError(c, err, "failed to list crew")
		return
	}
	response.Success(c, members)
}
