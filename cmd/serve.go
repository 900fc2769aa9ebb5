package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"wedding/site/internal/config"
	"wedding/site/internal/handler"
	"wedding/site/internal/handler/middleware"
	"wedding/site/internal/repository"
	"wedding/site/internal/rsvpflow"
	"wedding/site/internal/service"
	"wedding/site/pkg/crypto"
	jwtpkg "wedding/site/pkg/jwt"
)

func serve(configPath string) error {
	// 1. Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Initialize logger
	logger, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer logger.Sync()

	// 3. Connect to the database, migrating if enabled
	db, err := openDatabase(cfg.Database, logger, cfg.Database.AutoMigrate)
	if err != nil {
		return err
	}

	// 4. State store and object storage
	stateStore, err := newStateStore(cfg, logger)
	if err != nil {
		return err
	}
	objectStore, memoryStore, err := newObjectStore(cfg, logger)
	if err != nil {
		return err
	}

	// 5. Initialize repositories
	profileRepo := repository.NewProfileRepository(db)
	identityRepo := repository.NewIdentityRepository(db)
	rsvpRepo := repository.NewRSVPRepository(db)
	giftRepo := repository.NewGiftRepository(db)
	crewRepo := repository.NewCrewRepository(db)

	// 6. Initialize JWT manager
	jwtManager := jwtpkg.NewManager(
		cfg.JWT.SigningKey,
		cfg.JWT.Issuer,
		cfg.JWT.AccessTokenTTL,
		cfg.JWT.RefreshTokenTTL,
	)

	// 7. Initialize services
	authService := service.NewAuthService(profileRepo, identityRepo, stateStore, jwtManager)
	identityService := service.NewIdentityService(identityRepo)
	rsvpService := service.NewRSVPService(profileRepo, rsvpRepo, giftRepo, stateStore, service.RSVPOptions{
		Flow: rsvpflow.Options{
			PartySelection: cfg.RSVP.PartySelection,
			MaxGuests:      cfg.RSVP.MaxGuests,
		},
		DraftTTL:   cfg.RSVP.DraftTTL,
		PartyLinks: cfg.RSVP.PartyLinks,
	}, logger)
	giftService := service.NewGiftService(giftRepo, rsvpRepo, objectStore, cfg.Storage.Buckets.Gifts, logger)
	crewService := service.NewCrewService(crewRepo, objectStore, cfg.Storage.Buckets.Crew, logger)
	adminService := service.NewAdminService(profileRepo, rsvpRepo, giftRepo, cfg.RSVP.MaxGuests, logger)
	siteService := service.NewSiteService(cfg.Wedding, cfg.Site.BaseURL, nil)

	var webAuthnService service.WebAuthnService
	if cfg.WebAuthn.RPID != "" {
		webAuthnService, err = service.NewWebAuthnService(cfg.WebAuthn, profileRepo, identityRepo, stateStore, authService, logger)
		if err != nil {
			return fmt.Errorf("init webauthn service: %w", err)
		}
		logger.Info("WebAuthn service initialized", zap.String("rp_id", cfg.WebAuthn.RPID))
	}

	// 8. Initialize handlers
	cookies := middleware.CookieConfig{
		Secure:     cfg.Session.Secure,
		Domain:     cfg.Session.Domain,
		AccessTTL:  cfg.JWT.AccessTokenTTL,
		RefreshTTL: cfg.JWT.RefreshTokenTTL,
	}
	pages := handler.NewRenderer(cfg.Wedding.Couple)
	handlers := handler.Handlers{
		Auth:     handler.NewAuthHandler(authService, cookies, pages, webAuthnService != nil),
		Identity: handler.NewIdentityHandler(identityService, rsvpService),
		RSVP:     handler.NewRSVPHandler(rsvpService, giftService, pages),
		Gift:     handler.NewGiftHandler(giftService, pages),
		Crew:     handler.NewCrewHandler(crewService, pages),
		Admin:    handler.NewAdminHandler(adminService, giftService, crewService, pages),
		Page:     handler.NewPageHandler(siteService, giftService, crewService, memoryStore, pages),
	}
	if webAuthnService != nil {
		handlers.WebAuthn = handler.NewWebAuthnHandler(webAuthnService, cookies)
	}

	// 9. Flash cookie secret
	sessionSecret := []byte(cfg.Session.Secret)
	if len(sessionSecret) == 0 {
		sessionSecret, err = crypto.GenerateSessionSecret()
		if err != nil {
			return err
		}
		logger.Warn("session.secret not set; flash cookies will not survive a restart")
	}

	// 10. Setup router
	router := handler.SetupRouter(cfg, logger, sessionSecret, authService, cookies, handlers)

	// 11. Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// 12. Start server with graceful shutdown
	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server starting", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// 13. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-quit:
	}
	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.GracefulShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	logger.Info("server exited gracefully")
	return nil
}
