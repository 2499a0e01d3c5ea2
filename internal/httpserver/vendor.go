package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/meneric/internal/service"
	"github.com/Skotchmaster/meneric/internal/transport"
	"github.com/Skotchmaster/meneric/pkg/logging"
)

func (h *ShopHTTP) RegisterVendor(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "vendor.register")

	var req transport.VendorRegistrationRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "register_vendor", "invalid body", err)
	}

	v, err := h.Svc.RegisterVendor(ctx, service.VendorRegistration{
		Name:      req.Name,
		StoreName: req.StoreName,
		Email:     req.Email,
		Phone:     req.Phone,
		Password:  req.Password,
	})
	if err != nil {
		return fail(l, "register_vendor", err)
	}

	l.Info("register_vendor_success", "vendor_id", v.ID)
	return c.JSON(http.StatusCreated, transport.NewUserResponse(v))
}

func (h *ShopHTTP) VendorDashboard(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "vendor.dashboard")

	d, err := h.Svc.VendorDashboard(ctx, actorFrom(c))
	if err != nil {
		return fail(l, "vendor_dashboard", err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"vendor":   transport.NewUserResponse(d.Vendor),
		"stats":    d.Stats,
		"products": d.Products,
	})
}

func (h *ShopHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "vendor.create_product")

	var req transport.CreateProductRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "product_create", "invalid body", err)
	}

	p, err := h.Svc.CreateProduct(ctx, actorFrom(c), service.ProductInput{
		ID:          req.ID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Image:       req.Image,
		Stock:       req.Stock,
	})
	if err != nil {
		return fail(l, "product_create", err)
	}

	l.Info("create_product_success", "product_id", p.ID)
	return c.JSON(http.StatusCreated, p)
}

func (h *ShopHTTP) PatchProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "vendor.patch_product")

	var req transport.PatchProductRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "product_patch", "invalid body", err)
	}

	p, err := h.Svc.UpdateProduct(ctx, actorFrom(c), c.Param("id"), service.ProductChanges{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Image:       req.Image,
		Stock:       req.Stock,
	})
	if err != nil {
		return fail(l, "product_patch", err)
	}

	l.Info("patch_product_success", "product_id", p.ID)
	return c.JSON(http.StatusOK, p)
}

func (h *ShopHTTP) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "vendor.delete_product")

	if err := h.Svc.DeleteProduct(ctx, actorFrom(c), c.Param("id")); err != nil {
		return fail(l, "product_delete", err)
	}

	l.Info("delete_product_success", "product_id", c.Param("id"))
	return c.NoContent(http.StatusNoContent)
}

func (h *ShopHTTP) DescribeProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "vendor.describe_product")

	var req transport.DescribeRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "describe_product", "invalid body", err)
	}

	desc, err := h.Svc.DescribeProduct(ctx, actorFrom(c), req.Name, req.Category)
	if err != nil {
		return fail(l, "describe_product", err)
	}
	return c.JSON(http.StatusOK, transport.DescribeResponse{Description: desc})
}
