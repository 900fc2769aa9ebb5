// Package view holds the server-rendered pages and the data each one expects.
package view

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"strings"

	"wedding/site/internal/model"
	"wedding/site/internal/rsvpflow"
	"wedding/site/internal/service"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Page template names.
const (
	PageHome     = "home"
	PageGifts    = "gifts"
	PageCrew     = "crew"
	PageSignIn   = "signin"
	PageSignUp   = "signup"
	PageRSVP     = "rsvp"
	PageRSVPDone = "rsvp_done"
	PageAdmin    = "admin"
	PageError    = "error"
)

// Flash kinds.
const (
	FlashSuccess = "success"
	FlashError   = "error"
	FlashWarning = "warning"
)

var FlashKinds = []string{FlashSuccess, FlashWarning, FlashError}

type Flash struct {
	Kind string
	Text string
}

type Nav struct {
	SignedIn bool
	IsAdmin  bool
	FullName string
}

// Layout is embedded by every page.
type Layout struct {
	Title   string
	Couple  string
	Nav     Nav
	Flashes []Flash
}

type HomePage struct {
	Layout
	Details   service.Details
	Countdown service.TimeLeft
	Timeline  []service.TimelineEntry
	Gifts     []model.Gift
	Crew      []model.CrewMember
}

type GiftsPage struct {
	Layout
	Available []model.Gift
	Claimed   []model.Gift
}

type CrewPage struct {
	Layout
	Members []model.CrewMember
}

type SignInPage struct {
	Layout
	Email          string
	RedirectedFrom string
	Passkeys       bool
}

type SignUpPage struct {
	Layout
	Email          string
	FullName       string
	RedirectedFrom string
}

type StepView struct {
	Number  int
	Label   string
	Current bool
	Done    bool
}

type RSVPPage struct {
	Layout
	Flow         *rsvpflow.Flow
	Steps        []StepView
	GuestOptions []int
	Gifts        []model.Gift
	CanContinue  bool
	PartyLink    string
}

type RSVPDonePage struct {
	Layout
	Status    *service.RSVPStatus
	PartyLink string
}

type AdminPage struct {
	Layout
	Tab   string
	Stats service.Stats
	RSVPs []service.RSVPRow
	Gifts []model.Gift
	Crew  []model.CrewMember
}

type ErrorPage struct {
	Layout
	Status  int
	Message string
}

// StepViews renders the progress indicator for a flow.
func StepViews(f *rsvpflow.Flow) []StepView {
	pos := f.Position()
	steps := f.Steps()
	out := make([]StepView, 0, len(steps))
	for i, s := range steps {
		out = append(out, StepView{
			Number:  i + 1,
			Label:   s.String(),
			Current: i+1 == pos,
			Done:    pos > 0 && i+1 < pos,
		})
	}
	return out
}

var stepNames = map[string]rsvpflow.Step{
	"personal":   rsvpflow.StepPersonalInfo,
	"attendance": rsvpflow.StepAttendance,
	"party":      rsvpflow.StepPartySelection,
	"additional": rsvpflow.StepAdditionalInfo,
	"submitted":  rsvpflow.StepSubmitted,
}

func stepNamed(name string) rsvpflow.Step { return stepNames[name] }

var funcs = template.FuncMap{
	"isTrue":  func(b *bool) bool { return b != nil && *b },
	"isFalse": func(b *bool) bool { return b != nil && !*b },
	"str": func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	},
	"add": func(a, b int) int { return a + b },
	"gender": func(g *model.Gender) string {
		if g == nil {
			return ""
		}
		return string(*g)
	},
	"giftSelected": func(selected *uint, id uint) bool { return selected != nil && *selected == id },
	"step":         stepNamed,
	"lower":        strings.ToLower,
}

// Templates parses every embedded page. Each file defines one named template.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
}

// MustTemplates panics when the embedded templates do not parse.
func MustTemplates() *template.Template {
	return template.Must(Templates())
}

// Static serves the stylesheet and other assets under /static.
func Static() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}
