package httpserver

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/meneric/internal/events"
	middleware "github.com/Skotchmaster/meneric/pkg/middleware/auth"
)

type Deps struct {
	ShopHandler *ShopHTTP
	AuthHandler *AuthHTTP
	Hub         *events.Hub
	JWTSecret   []byte

	// SecureCookies marks auth cookies Secure; off for plain-http deployments.
	SecureCookies bool
	// Ready reports whether storage is reachable; nil means always ready.
	Ready         func(ctx context.Context) error
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Ready != nil {
			if err := d.Ready(c.Request().Context()); err != nil {
				return echo.NewHTTPError(http.StatusServiceUnavailable, "storage unavailable")
			}
		}
		return c.NoContent(http.StatusOK)
	})

	if d.Hub != nil {
		e.GET("/ws/events", func(c echo.Context) error {
			return d.Hub.ServeWS(c.Response(), c.Request())
		})
	}

	authMW := middleware.NewJWTMiddleware(d.JWTSecret)
	authMW.SecureCookies = d.SecureCookies
	shop := d.ShopHandler

	v1 := e.Group("/api/v1")

	a := v1.Group("/auth")
	a.POST("/otp", d.AuthHandler.SendOTP)
	a.POST("/otp/verify", d.AuthHandler.VerifyOTP)
	a.POST("/vendor/login", d.AuthHandler.VendorLogin)
	a.POST("/vendor/reset", d.AuthHandler.VendorReset)
	a.POST("/admin/login", d.AuthHandler.AdminLogin)
	a.POST("/logout", d.AuthHandler.Logout, authMW.RequireAuth)
	a.GET("/me", d.AuthHandler.Me, authMW.RequireAuth)

	products := v1.Group("/products")
	products.GET("", shop.GetProducts)
	products.GET("/categories", shop.GetCategories)
	products.GET("/:id", shop.GetProduct)
	products.POST("/:id/reviews", shop.AddReview, authMW.RequireAuth)

	cart := v1.Group("/cart", authMW.Optional)
	cart.GET("", shop.GetCart)
	cart.POST("", shop.AddToCart)
	cart.PATCH("/:id", shop.UpdateCartQuantity)
	cart.DELETE("/:id", shop.RemoveFromCart)
	cart.POST("/checkout", shop.Checkout, authMW.RequireAuth)

	wishlist := v1.Group("/wishlist", authMW.Optional)
	wishlist.GET("", shop.GetWishlist)
	wishlist.POST("/:id", shop.ToggleWishlist)

	v1.GET("/orders", shop.GetOrders, authMW.RequireAuth)
	v1.POST("/vendors/register", shop.RegisterVendor)

	vendor := v1.Group("/vendor", authMW.RequireRole("VENDOR"))
	vendor.GET("/dashboard", shop.VendorDashboard)
	vendor.POST("/products", shop.CreateProduct)
	vendor.PATCH("/products/:id", shop.PatchProduct)
	vendor.DELETE("/products/:id", shop.DeleteProduct)
	vendor.POST("/describe", shop.DescribeProduct)

	admin := v1.Group("/admin", authMW.RequireRole("ADMIN"))
	admin.GET("/overview", shop.AdminOverview)
	admin.GET("/vendors", shop.GetVendors)
	admin.PATCH("/vendors/:id/approval", shop.SetVendorApproval)
	admin.GET("/admins", shop.GetAdmins)
	admin.POST("/admins", shop.CreateAdmin)
	admin.DELETE("/admins/:id", shop.DeleteAdmin)
}
