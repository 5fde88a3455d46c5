package fiber

import (
	"github.com/gofiber/fiber/v3"

	"github.com/linkvault-app/linkvault/core"
)

const (
	cookieName = "auth_token"

	localAccount = "account"
	localSession = "session"
	localToken   = "token"
)

// requireAuth validates the session token and stores account and session
// in the request locals for downstream handlers.
func (a *Adapter) requireAuth(c fiber.Ctx) error {
	token := extractToken(c)
	if token == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": core.ErrMissingAuthHeader.Error(),
		})
	}

	sessionData, err := a.auth.GetSession(c.Context(), token)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	c.Locals(localAccount, sessionData.Account)
	c.Locals(localSession, sessionData.Session)
	c.Locals(localToken, token)

	return c.Next()
}

// extractToken extracts the authentication token from the request.
// Checks Authorization header (Bearer token) first, then falls back to cookie.
func extractToken(c fiber.Ctx) string {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
		return authHeader[7:]
	}

	return c.Cookies(cookieName)
}

// currentAccount returns the account stored by requireAuth.
func currentAccount(c fiber.Ctx) *core.Account {
	account, _ := c.Locals(localAccount).(*core.Account)
	return account
}
