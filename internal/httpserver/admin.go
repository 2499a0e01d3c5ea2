package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/meneric/internal/service"
	"github.com/Skotchmaster/meneric/internal/transport"
	"github.com/Skotchmaster/meneric/pkg/logging"
)

func (h *ShopHTTP) AdminOverview(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.overview")

	ov, err := h.Svc.AdminOverview(ctx, actorFrom(c))
	if err != nil {
		return fail(l, "admin_overview", err)
	}
	return c.JSON(http.StatusOK, ov)
}

func (h *ShopHTTP) GetVendors(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.get_vendors")

	vendors, err := h.Svc.Vendors(ctx, actorFrom(c))
	if err != nil {
		return fail(l, "get_vendors", err)
	}
	return c.JSON(http.StatusOK, transport.NewUserResponses(vendors))
}

func (h *ShopHTTP) SetVendorApproval(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.vendor_approval")

	var req transport.ApprovalRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "vendor_approval", "invalid body", err)
	}

	v, err := h.Svc.SetVendorApproval(ctx, actorFrom(c), c.Param("id"), req.Approved)
	if err != nil {
		return fail(l, "vendor_approval", err)
	}

	l.Info("vendor_approval_success", "vendor_id", v.ID, "approved", req.Approved)
	return c.JSON(http.StatusOK, transport.NewUserResponse(v))
}

func (h *ShopHTTP) GetAdmins(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.get_admins")

	admins, err := h.Svc.Admins(ctx, actorFrom(c))
	if err != nil {
		return fail(l, "get_admins", err)
	}
	return c.JSON(http.StatusOK, transport.NewUserResponses(admins))
}

func (h *ShopHTTP) CreateAdmin(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.create_admin")

	var req transport.CreateAdminRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "create_admin", "invalid body", err)
	}

	a, err := h.Svc.AddAdmin(ctx, actorFrom(c), service.AdminInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return fail(l, "create_admin", err)
	}

	l.Info("create_admin_success", "admin_id", a.ID)
	return c.JSON(http.StatusCreated, transport.NewUserResponse(a))
}

func (h *ShopHTTP) DeleteAdmin(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.delete_admin")

	if err := h.Svc.RemoveAdmin(ctx, actorFrom(c), c.Param("id")); err != nil {
		return fail(l, "delete_admin", err)
	}
	return c.NoContent(http.StatusNoContent)
}
