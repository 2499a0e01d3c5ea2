package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/meneric/internal/auth"
	"github.com/Skotchmaster/meneric/internal/transport"
	"github.com/Skotchmaster/meneric/pkg/logging"
	middleware "github.com/Skotchmaster/meneric/pkg/middleware/auth"
	"github.com/Skotchmaster/meneric/pkg/tokens"
)

type AuthHTTP struct {
	Svc *auth.Service

	// SecureCookies controls the Secure flag of the access cookie.
	SecureCookies bool
}

func (h *AuthHTTP) startSession(c echo.Context, sess auth.Session) error {
	c.SetCookie(tokens.CreateCookie(tokens.AccessCookie, sess.Token, "/", sess.ExpiresAt, h.SecureCookies))
	return c.JSON(http.StatusOK, transport.SessionResponse{
		User:      transport.NewUserResponse(sess.User),
		ExpiresAt: sess.ExpiresAt,
	})
}

func (h *AuthHTTP) SendOTP(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.send_otp")

	var req transport.SendOTPRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "send_otp", "invalid body", err)
	}

	code, err := h.Svc.SendOTP(ctx, req.Phone)
	if err != nil {
		return fail(l, "send_otp", err)
	}

	l.Info("send_otp_success")
	return c.JSON(http.StatusOK, transport.SendOTPResponse{
		Message:         "OTP sent to +91 " + req.Phone,
		Code:            code,
		ResendAfterSecs: int(auth.OTPCooldown.Seconds()),
	})
}

func (h *AuthHTTP) VerifyOTP(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.verify_otp")

	var req transport.VerifyOTPRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "verify_otp", "invalid body", err)
	}

	sess, err := h.Svc.VerifyOTP(ctx, req.Phone, req.Code)
	if err != nil {
		return fail(l, "verify_otp", err)
	}

	l.Info("verify_otp_success", "user_id", sess.User.ID)
	return h.startSession(c, sess)
}

func (h *AuthHTTP) VendorLogin(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.vendor_login")

	var req transport.VendorLoginRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "vendor_login", "invalid body", err)
	}

	sess, err := h.Svc.VendorLogin(ctx, req.Login, req.Password)
	if err != nil {
		return fail(l, "vendor_login", err)
	}

	l.Info("vendor_login_success", "user_id", sess.User.ID)
	return h.startSession(c, sess)
}

func (h *AuthHTTP) AdminLogin(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.admin_login")

	var req transport.AdminLoginRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "admin_login", "invalid body", err)
	}

	sess, err := h.Svc.AdminLogin(ctx, req.Email, req.Password)
	if err != nil {
		return fail(l, "admin_login", err)
	}

	l.Info("admin_login_success", "user_id", sess.User.ID)
	return h.startSession(c, sess)
}

func (h *AuthHTTP) VendorReset(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.vendor_reset")

	var req transport.ResetRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "vendor_reset", "invalid body", err)
	}

	if err := h.Svc.RequestVendorReset(ctx, req.Email); err != nil {
		return fail(l, "vendor_reset", err)
	}

	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "Reset link sent to " + req.Email})
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.logout")

	if err := h.Svc.Logout(ctx, actorFrom(c).ID); err != nil {
		return fail(l, "logout", err)
	}
	middleware.ClearAuthCookies(c, h.SecureCookies)

	l.Info("logout_success")
	return c.NoContent(http.StatusNoContent)
}

// Me returns the signed-in user when the token still matches the store session.
func (h *AuthHTTP) Me(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.me")

	actor := actorFrom(c)
	u, ok := h.Svc.Store.CurrentUser()
	if !ok || u.ID != actor.ID {
		l.Warn("me_error", "status", http.StatusUnauthorized, "reason", "session ended")
		middleware.ClearAuthCookies(c, h.SecureCookies)
		return echo.NewHTTPError(http.StatusUnauthorized, "session ended")
	}
	return c.JSON(http.StatusOK, transport.NewUserResponse(u))
}
