// Package fiber exposes the authentication and profile services over
// HTTP. Handlers stay thin: decode, delegate, map errors to status
// codes. Session tokens travel as a Bearer header or the auth_token
// cookie.
package fiber

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/linkvault-app/linkvault/core"
)

type Adapter struct {
	app          *fiber.App
	auth         core.AuthProvider
	profiles     core.ProfileProvider
	logger       *slog.Logger
	cookieMaxAge time.Duration
}

type Config struct {
	Auth         core.AuthProvider
	Profiles     core.ProfileProvider
	Logger       *slog.Logger
	CookieMaxAge time.Duration
}

func New(app *fiber.App, cfg Config) *Adapter {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cookieMaxAge := cfg.CookieMaxAge
	if cookieMaxAge == 0 {
		cookieMaxAge = 24 * time.Hour
	}
	return &Adapter{
		app:          app,
		auth:         cfg.Auth,
		profiles:     cfg.Profiles,
		logger:       logger,
		cookieMaxAge: cookieMaxAge,
	}
}

func (a *Adapter) RegisterRoutes() {
	api := a.app.Group("/api")

	// Public routes
	api.Post("/register", a.register)
	api.Post("/login", a.login)
	api.Post("/reset-password", a.resetPassword)
	api.Get("/profile/:username", a.publicProfile)

	// Protected routes
	api.Post("/logout", a.requireAuth, a.logout)
	api.Get("/session", a.requireAuth, a.session)
	api.Post("/recovery-key", a.requireAuth, a.rotateRecoveryKey)
	api.Post("/password", a.requireAuth, a.changePassword)
	api.Patch("/profile", a.requireAuth, a.updateProfile)
}
