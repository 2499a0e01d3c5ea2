package middleware

import (
	"net/http"
	"slices"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/meneric/pkg/tokens"
)

// JWTMiddleware reads the access cookie and puts the caller into the echo
// context as "user_id", "role" and "name".
type JWTMiddleware struct {
	JWTSecret []byte

	// SecureCookies marks the cookie cleared on a bad token as Secure.
	SecureCookies bool
}

func NewJWTMiddleware(secret []byte) *JWTMiddleware {
	return &JWTMiddleware{JWTSecret: secret}
}

type ValidatorFunc func(claims *tokens.AccessClaims) error

func (m *JWTMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return m.requireAuthWithValidator(next, nil)
}

// RequireRole lets through only callers holding one of roles.
func (m *JWTMiddleware) RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return m.requireAuthWithValidator(next, func(claims *tokens.AccessClaims) error {
			if !slices.Contains(roles, claims.Role) {
				return echo.NewHTTPError(http.StatusForbidden, "insufficient role")
			}
			return nil
		})
	}
}

// Optional attaches the caller when a valid cookie is present and never rejects.
func (m *JWTMiddleware) Optional(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if cookie, err := c.Cookie(tokens.AccessCookie); err == nil && cookie.Value != "" {
			if claims, err := tokens.AccessClaimsFromToken(cookie.Value, m.JWTSecret); err == nil {
				setUserContext(c, claims)
			}
		}
		return next(c)
	}
}

func (m *JWTMiddleware) requireAuthWithValidator(next echo.HandlerFunc, validator ValidatorFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		accessCookie, err := c.Cookie(tokens.AccessCookie)
		if err != nil || accessCookie.Value == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
		}

		claims, err := tokens.AccessClaimsFromToken(accessCookie.Value, m.JWTSecret)
		if err != nil {
			ClearAuthCookies(c, m.SecureCookies)
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid access token")
		}

		if validator != nil {
			if validationErr := validator(claims); validationErr != nil {
				return validationErr
			}
		}

		setUserContext(c, claims)
		return next(c)
	}
}

func ClearAuthCookies(c echo.Context, secure bool) {
	c.SetCookie(tokens.DeleteCookie(tokens.AccessCookie, "/", secure))
}

func setUserContext(c echo.Context, claims *tokens.AccessClaims) {
	c.Set("user_id", claims.Subject)
	c.Set("role", claims.Role)
	c.Set("name", claims.Name)
}
