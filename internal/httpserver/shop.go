package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/meneric/internal/service"
	"github.com/Skotchmaster/meneric/internal/transport"
	"github.com/Skotchmaster/meneric/internal/util"
	"github.com/Skotchmaster/meneric/pkg/logging"
)

type ShopHTTP struct {
	Svc *service.ShopService
}

func (h *ShopHTTP) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_products")

	q := service.ProductQuery{
		Query:    c.QueryParam("q"),
		Category: c.QueryParam("category"),
		VendorID: c.QueryParam("vendor"),
		Page:     util.ParseIntDefault(c.QueryParam("page"), 1),
		Size:     util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize),
	}

	page, err := h.Svc.ListProducts(ctx, q)
	if err != nil {
		return fail(l, "get_products", err)
	}

	totalPages := (page.Total + page.Size - 1) / page.Size
	return c.JSON(http.StatusOK, map[string]any{
		"data": page.Items,
		"meta": map[string]any{
			"page":        page.Page,
			"size":        page.Size,
			"total":       page.Total,
			"total_pages": totalPages,
			"has_prev":    page.Page > 1,
			"has_next":    page.Page < totalPages,
		},
	})
}

func (h *ShopHTTP) GetCategories(c echo.Context) error {
	return c.JSON(http.StatusOK, service.Categories)
}

func (h *ShopHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_product")

	p, err := h.Svc.GetProduct(ctx, c.Param("id"))
	if err != nil {
		return fail(l, "get_product", err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"product":       p,
		"averageRating": p.AverageRating(),
		"reviewCount":   len(p.Reviews),
	})
}

func (h *ShopHTTP) AddReview(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.add_review")

	var req transport.ReviewRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "add_review", "invalid body", err)
	}

	p, err := h.Svc.AddReview(ctx, actorFrom(c), c.Param("id"), req.Rating, req.Comment)
	if err != nil {
		return fail(l, "add_review", err)
	}

	l.Info("add_review_success", "product_id", p.ID)
	return c.JSON(http.StatusCreated, p)
}

func (h *ShopHTTP) GetCart(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Svc.Cart(c.Request().Context()))
}

func (h *ShopHTTP) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add_to_cart")

	var req transport.AddToCartRequest
	if err := c.Bind(&req); err != nil || req.ProductID == "" {
		return badRequest(l, "add_to_cart", "productId is required", err)
	}

	line, err := h.Svc.AddToCart(ctx, actorFrom(c), req.ProductID)
	if err != nil {
		return fail(l, "add_to_cart", err)
	}

	l.Info("add_to_cart_success", "product_id", req.ProductID, "quantity", line.Quantity)
	return c.JSON(http.StatusOK, line)
}

func (h *ShopHTTP) UpdateCartQuantity(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.update_quantity")

	var req transport.UpdateQuantityRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "update_quantity", "invalid body", err)
	}

	line, err := h.Svc.UpdateCartQuantity(ctx, actorFrom(c), c.Param("id"), req.Delta)
	if err != nil {
		return fail(l, "update_quantity", err)
	}
	return c.JSON(http.StatusOK, line)
}

func (h *ShopHTTP) RemoveFromCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.remove_from_cart")

	if err := h.Svc.RemoveFromCart(ctx, actorFrom(c), c.Param("id")); err != nil {
		return fail(l, "remove_from_cart", err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *ShopHTTP) Checkout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.checkout")

	order, err := h.Svc.Checkout(ctx, actorFrom(c))
	if err != nil {
		return fail(l, "checkout", err)
	}

	l.Info("checkout_success", "order_id", order.ID, "total", order.Total)
	return c.JSON(http.StatusCreated, order)
}

func (h *ShopHTTP) GetWishlist(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Svc.Wishlist(c.Request().Context()))
}

func (h *ShopHTTP) ToggleWishlist(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "wishlist.toggle")

	id := c.Param("id")
	added, err := h.Svc.ToggleWishlist(ctx, actorFrom(c), id)
	if err != nil {
		return fail(l, "toggle_wishlist", err)
	}
	return c.JSON(http.StatusOK, transport.WishlistToggleResponse{ProductID: id, InWishlist: added})
}

func (h *ShopHTTP) GetOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get_orders")

	orders, err := h.Svc.Orders(ctx, actorFrom(c))
	if err != nil {
		return fail(l, "get_orders", err)
	}
	return c.JSON(http.StatusOK, orders)
}
