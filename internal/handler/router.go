package handler

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"wedding/site/internal/config"
	"wedding/site/internal/handler/middleware"
	"wedding/site/internal/service"
	"wedding/site/internal/view"
)

// Handlers groups everything SetupRouter mounts. WebAuthn may be nil when
// passkeys are not configured.
type Handlers struct {
	Auth     *AuthHandler
	WebAuthn *WebAuthnHandler
	Identity *IdentityHandler
	RSVP     *RSVPHandler
	Gift     *GiftHandler
	Crew     *CrewHandler
	Admin    *AdminHandler
	Page     *PageHandler
}

func SetupRouter(
	cfg *config.Config,
	logger *zap.Logger,
	sessionSecret []byte,
	authService service.AuthService,
	cookies middleware.CookieConfig,
	h Handlers,
) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.SetHTMLTemplate(view.MustTemplates())
	if cfg.Server.MaxUploadBytes > 0 {
		r.MaxMultipartMemory = cfg.Server.MaxUploadBytes
	}

	flashStore := cookie.NewStore(sessionSecret)
	flashStore.Options(sessions.Options{
		Path:     "/",
		Domain:   cfg.Session.Domain,
		MaxAge:   3600,
		Secure:   cfg.Session.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	// Global middleware. The guard runs after the session is resolved.
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.Metrics())
	if cors := middleware.CORS(cfg.CORS); cors != nil {
		r.Use(cors)
	}
	r.Use(sessions.Sessions(cfg.Session.Name, flashStore))
	r.Use(middleware.Session(authService, cookies, logger))
	r.Use(middleware.Guard())

	r.NoRoute(h.Page.NotFound)

	// Health and metrics
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Public pages
	r.StaticFS("/static", view.Static())
	r.GET("/", h.Page.Home)
	r.GET("/gifts", h.Gift.Registry)
	r.GET("/bridal-crew", h.Crew.Show)
	r.GET("/invite/qr.png", h.Page.InviteQR)
	r.GET("/public/:bucket/*key", h.Page.PublicObject)

	authPages := r.Group("/auth")
	{
		authPages.GET("/signin", h.Auth.ShowSignIn)
		authPages.POST("/signin", h.Auth.SignIn)
		authPages.GET("/signup", h.Auth.ShowSignUp)
		authPages.POST("/signup", h.Auth.SignUp)
		authPages.POST("/signout", h.Auth.SignOut)
	}

	// Signed-in pages
	r.GET("/rsvp", h.RSVP.Show)
	r.POST("/rsvp/step", h.RSVP.Step)
	r.POST("/rsvp/submit", h.RSVP.Submit)

	upload := middleware.BodyLimit(cfg.Server.MaxUploadBytes)

	adminPages := r.Group("/admin", middleware.AdminOnly())
	{
		adminPages.GET("", h.Admin.Dashboard)
		adminPages.POST("/rsvps/:id", h.Admin.UpdateRSVP)
		adminPages.POST("/rsvps/:id/delete", h.Admin.DeleteRSVP)
		adminPages.POST("/gifts", upload, h.Admin.CreateGift)
		adminPages.POST("/gifts/:id/delete", h.Admin.DeleteGift)
		adminPages.POST("/gifts/:id/release", h.Admin.ReleaseGift)
		adminPages.POST("/crew", upload, h.Admin.CreateCrewMember)
		adminPages.POST("/crew/:id/delete", h.Admin.DeleteCrewMember)
	}

	r.POST("/api/add-gift", middleware.AdminOnly(), upload, h.Gift.AddGift)

	v1 := r.Group("/api/v1")
	{
		v1.GET("/site", h.Page.APISite)
		v1.GET("/gifts", h.Gift.APIList)
		v1.GET("/crew", h.Crew.APIList)
	}

	authAPI := v1.Group("/auth")
	{
		authAPI.POST("/signup", h.Auth.APISignUp)
		authAPI.POST("/signin", h.Auth.APISignIn)
		authAPI.POST("/refresh", h.Auth.APIRefresh)
		authAPI.POST("/signout", h.Auth.APISignOut)

		if h.WebAuthn != nil {
			authAPI.POST("/passkey/login/begin", h.WebAuthn.BeginLogin)
			authAPI.POST("/passkey/login/finish", h.WebAuthn.FinishLogin)
		}
	}

	me := v1.Group("/me")
	{
		me.GET("", h.Identity.Me)
		me.GET("/identities", h.Identity.List)

		if h.WebAuthn != nil {
			me.POST("/passkeys/begin", h.WebAuthn.BeginRegistration)
			me.POST("/passkeys/finish", h.WebAuthn.FinishRegistration)
		}
	}

	v1.GET("/rsvp", h.RSVP.APIStatus)
	v1.POST("/rsvp", h.RSVP.APISubmit)

	adminAPI := v1.Group("/admin", middleware.AdminOnly())
	{
		adminAPI.GET("/stats", h.Admin.APIStats)
		adminAPI.GET("/profiles", h.Admin.APIListProfiles)
		adminAPI.PUT("/profiles/role", h.Admin.APISetRole)

		adminAPI.GET("/rsvps", h.Admin.APIListRSVPs)
		adminAPI.PUT("/rsvps/:id", h.Admin.APIUpdateRSVP)
		adminAPI.DELETE("/rsvps/:id", h.Admin.APIDeleteRSVP)

		adminAPI.GET("/gifts", h.Admin.APIListGifts)
		adminAPI.POST("/gifts", upload, h.Admin.APICreateGift)
		adminAPI.DELETE("/gifts/:id", h.Admin.APIDeleteGift)
		adminAPI.POST("/gifts/:id/release", h.Admin.APIReleaseGift)

		adminAPI.GET("/crew", h.Admin.APIListCrew)
		adminAPI.POST("/crew", upload, h.Admin.APICreateCrewMember)
		adminAPI.DELETE("/crew/:id", h.Admin.APIDeleteCrewMember)
	}

	return r
}
