package handler

import (
	"errors"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"wedding/site/internal/auth"
	"wedding/site/internal/rsvpflow"
	"wedding/site/internal/service"
	"wedding/site/internal/view"
	"wedding/site/pkg/response"
)

const genericFailure = "Something went wrong. Please try again."

// Renderer builds the shared page layout and renders templates.
type Renderer struct {
	couple string
}

func NewRenderer(couple string) *Renderer {
	return &Renderer{couple: couple}
}

// Layout pops pending flash messages, so it must run before anything is written.
func (r *Renderer) Layout(c *gin.Context, title string) view.Layout {
	l := view.Layout{Title: title, Couple: r.couple, Flashes: popFlashes(c)}
	if s := auth.Get(c); s != nil {
		l.Nav = view.Nav{SignedIn: true, IsAdmin: s.IsAdmin(), FullName: s.FullName}
	}
	return l
}

func (r *Renderer) Error(c *gin.Context, status int, message string) {
	c.HTML(status, view.PageError, view.ErrorPage{
		Layout:  r.Layout(c, http.StatusText(status)),
		Status:  status,
		Message: message,
	})
}

// Flash messages are kept per kind as []string, a type the cookie codec
// (encoding/gob) knows without registration.
func flashKey(kind string) string { return "flash_" + kind }

func addFlash(c *gin.Context, kind, text string) {
	s := sessions.Default(c)
	pending, _ := s.Get(flashKey(kind)).([]string)
	s.Set(flashKey(kind), append(pending, text))
	if err := s.Save(); err != nil {
		_ = c.Error(err)
	}
}

func popFlashes(c *gin.Context) []view.Flash {
	s := sessions.Default(c)
	var out []view.Flash
	for _, kind := range view.FlashKinds {
		pending, ok := s.Get(flashKey(kind)).([]string)
		if !ok {
			continue
		}
		for _, text := range pending {
			out = append(out, view.Flash{Kind: kind, Text: text})
		}
		s.Delete(flashKey(kind))
	}
	if len(out) > 0 {
		if err := s.Save(); err != nil {
			_ = c.Error(err)
		}
	}
	return out
}

// redirectWithFlash is the post/redirect/get exit of every form handler.
func redirectWithFlash(c *gin.Context, location, kind, text string) {
	addFlash(c, kind, text)
	c.Redirect(http.StatusSeeOther, location)
}

// formUpload reads an optional file field. A missing or empty file is not an error.
func formUpload(c *gin.Context, field string) (*service.Upload, error) {
	fh, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if fh.Size == 0 {
		return nil, nil
	}

	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	contentType := fh.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		if byExt := mime.TypeByExtension(filepath.Ext(fh.Filename)); byExt != "" {
			contentType = byExt
		}
	}
	return &service.Upload{Filename: fh.Filename, ContentType: contentType, Body: f}, nil
}

func closeUpload(up *service.Upload) {
	if up == nil {
		return
	}
	if closer, ok := up.Body.(interface{ Close() error }); ok {
		_ = closer.Close()
	}
}

func uintParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// Errors whose message is safe to show to the visitor as is.
var clientErrors = []error{
	service.ErrInvalidEmail,
	service.ErrPasswordTooShort,
	service.ErrPasswordTooLong,
	service.ErrInvalidRole,
	service.ErrGiftNameRequired,
	service.ErrCrewFieldsRequired,
	service.ErrUnsupportedImage,
	service.ErrInvalidQRSize,
	rsvpflow.ErrNameRequired,
	rsvpflow.ErrAttendanceRequired,
	rsvpflow.ErrGuestCountOutOfRange,
	rsvpflow.ErrGuestDetailsIncomplete,
	rsvpflow.ErrGenderRequired,
	rsvpflow.ErrInvalidGender,
	rsvpflow.ErrAlreadySubmitted,
	rsvpflow.ErrFinalStep,
	rsvpflow.ErrNotFinalStep,
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrIdentityAlreadyExists),
		errors.Is(err, service.ErrRSVPAlreadySubmitted),
		errors.Is(err, service.ErrGiftUnavailable),
		errors.Is(err, service.ErrGiftAlreadyHeld):
		return http.StatusConflict
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrRefreshTokenInvalid),
		errors.Is(err, service.ErrAccessTokenInvalid),
		errors.Is(err, service.ErrPasskeySessionExpired):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrProfileNotFound),
		errors.Is(err, service.ErrIdentityNotFound),
		errors.Is(err, service.ErrRSVPNotFound),
		errors.Is(err, service.ErrGiftNotFound),
		errors.Is(err, service.ErrCrewMemberNotFound):
		return http.StatusNotFound
	}
	for _, target := range clientErrors {
		if errors.Is(err, target) {
			return http.StatusBadRequest
		}
	}
	return http.StatusInternalServerError
}

// messageFor returns what a visitor may read about err.
func messageFor(err error, fallback string) string {
	if statusFor(err) == http.StatusInternalServerError {
		return fallback
	}
	return err.Error()
}

// apiError writes the envelope for err. Unexpected errors are attached to the
// context for the request logger and replaced by fallback.
func apiError(c *gin.Context, err error, fallback string) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
	}
	response.Fail(c, status, messageFor(err, fallback))
}

// flashError is apiError for pages.
func flashError(c *gin.Context, location string, err error) {
	if statusFor(err) == http.StatusInternalServerError {
		_ = c.Error(err)
	}
	redirectWithFlash(c, location, view.FlashError, messageFor(err, genericFailure))
}

func isAPIPath(path string) bool {
	return strings.HasPrefix(path, "/api/")
}
