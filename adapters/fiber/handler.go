package fiber

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/linkvault-app/linkvault/core"
)

func (a *Adapter) register(c fiber.Ctx) error {
	var input core.RegisterInput
	if err := c.Bind().Body(&input); err != nil {
		return badRequest(c, "invalid request body")
	}

	result, err := a.auth.Register(c.Context(), input, c.IP(), c.Get(fiber.HeaderUserAgent))
	if err != nil {
		return a.handleAuthError(c, err)
	}

	a.setSessionCookie(c, result.Token)

	// result carries the recovery key plaintext. This response is the
	// only place it ever leaves the server; it must not be logged.
	return c.Status(fiber.StatusCreated).JSON(result)
}

func (a *Adapter) login(c fiber.Ctx) error {
	var input core.LoginInput
	if err := c.Bind().Body(&input); err != nil {
		return badRequest(c, "invalid request body")
	}

	result, err := a.auth.Login(c.Context(), input, c.IP(), c.Get(fiber.HeaderUserAgent))
	if err != nil {
		return a.handleAuthError(c, err)
	}

	a.setSessionCookie(c, result.Token)

	return c.Status(fiber.StatusOK).JSON(result)
}

func (a *Adapter) logout(c fiber.Ctx) error {
	token, _ := c.Locals(localToken).(string)

	if err := a.auth.Logout(c.Context(), token); err != nil && !errors.Is(err, core.ErrSessionNotFound) {
		return a.handleAuthError(c, err)
	}

	a.clearSessionCookie(c)

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "logged out successfully",
	})
}

func (a *Adapter) session(c fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(core.SessionData{
		Account: currentAccount(c),
		Session: c.Locals(localSession).(*core.Session),
	})
}

func (a *Adapter) resetPassword(c fiber.Ctx) error {
	var input core.ResetPasswordInput
	if err := c.Bind().Body(&input); err != nil {
		return badRequest(c, "invalid request body")
	}

	result, err := a.auth.ResetPassword(c.Context(), input)
	if err != nil {
		return a.handleAuthError(c, err)
	}

	// One-time disclosure of the replacement key. No session is issued;
	// the client decides whether to prompt a fresh login.
	return c.Status(fiber.StatusOK).JSON(result)
}

func (a *Adapter) rotateRecoveryKey(c fiber.Ctx) error {
	account := currentAccount(c)

	result, err := a.auth.RotateRecoveryKey(c.Context(), account.ID)
	if err != nil {
		return a.handleAuthError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

func (a *Adapter) changePassword(c fiber.Ctx) error {
	var input core.ChangePasswordInput
	if err := c.Bind().Body(&input); err != nil {
		return badRequest(c, "invalid request body")
	}

	account := currentAccount(c)

	if err := a.auth.ChangePassword(c.Context(), account.ID, input); err != nil {
		return a.handleAuthError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "password changed successfully",
	})
}

func (a *Adapter) publicProfile(c fiber.Ctx) error {
	profile, err := a.profiles.PublicProfile(c.Context(), c.Params("username"))
	if err != nil {
		if errors.Is(err, core.ErrAccountNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": core.ErrAccountNotFound.Error(),
			})
		}
		return a.handleAuthError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(profile)
}

func (a *Adapter) updateProfile(c fiber.Ctx) error {
	var update core.ProfileUpdate
	if err := c.Bind().Body(&update); err != nil {
		return badRequest(c, "invalid request body")
	}

	account := currentAccount(c)

	updated, err := a.profiles.UpdateProfile(c.Context(), account.ID, update)
	if err != nil {
		return a.handleAuthError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(updated)
}

func (a *Adapter) setSessionCookie(c fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     cookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(a.cookieMaxAge),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func (a *Adapter) clearSessionCookie(c fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     cookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func badRequest(c fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": message,
	})
}

// handleAuthError maps service errors to appropriate HTTP responses
func (a *Adapter) handleAuthError(c fiber.Ctx, err error) error {
	status := mapErrorToStatus(err)

	if status == fiber.StatusInternalServerError {
		a.logger.Error("request failed",
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.String("error", err.Error()),
		)
		// Transient storage failures and the like: generic message, the
		// client may retry.
		return c.Status(status).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}

// mapErrorToStatus maps service error types to HTTP status codes
func mapErrorToStatus(err error) int {
	if err == nil {
		return fiber.StatusOK
	}

	switch {
	case errors.Is(err, core.ErrInvalidCredentials),
		errors.Is(err, core.ErrInvalidToken),
		errors.Is(err, core.ErrSessionNotFound),
		errors.Is(err, core.ErrSessionExpired):
		return fiber.StatusUnauthorized

	case errors.Is(err, core.ErrUsernameTaken):
		return fiber.StatusConflict

	case errors.Is(err, core.ErrUsernameRequired),
		errors.Is(err, core.ErrUsernameTooShort),
		errors.Is(err, core.ErrUsernameTooLong),
		errors.Is(err, core.ErrUsernameInvalid),
		errors.Is(err, core.ErrPasswordRequired),
		errors.Is(err, core.ErrPasswordTooShort),
		errors.Is(err, core.ErrPasswordTooLong),
		errors.Is(err, core.ErrRecoveryKeyRequired):
		return fiber.StatusBadRequest

	default:
		return fiber.StatusInternalServerError
	}
}
