package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/meneric/internal/describe"
	"github.com/Skotchmaster/meneric/internal/events"
	"github.com/Skotchmaster/meneric/internal/hash"
	"github.com/Skotchmaster/meneric/internal/models"
	"github.com/Skotchmaster/meneric/internal/search"
	"github.com/Skotchmaster/meneric/internal/store"
)

type recorder struct {
	events []map[string]any
	err    error
}

func (r *recorder) Publish(_ context.Context, topic, key string, event map[string]any) error {
	e := map[string]any{"topic": topic, "key": key}
	for k, v := range event {
		e[k] = v
	}
	r.events = append(r.events, e)
	return r.err
}

func (r *recorder) types() []string {
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e["type"].(string)
	}
	return out
}

type fakeDescriber struct{ calls int }

func (f *fakeDescriber) Generate(_ context.Context, name, category string) string {
	f.calls++
	return "Lovely " + name + " for " + category
}

var (
	customer    = Actor{ID: "u1", Role: models.RoleCustomer, Name: "Meneric Shopper"}
	vendor1     = Actor{ID: "v1", Role: models.RoleVendor, Name: "John Doe"}
	vendor2     = Actor{ID: "v2", Role: models.RoleVendor, Name: "Jane Smith"}
	vendor3     = Actor{ID: "v3", Role: models.RoleVendor, Name: "Mike Ross"}
	masterAdmin = Actor{ID: "admin-master", Role: models.RoleAdmin, Name: "Master Admin"}
)

func fixture() models.AppState {
	return models.AppState{
		Products: []models.Product{
			{ID: "1", VendorID: "v1", VendorName: "Fab Fashions", Name: "Floral Print Saree", Description: "Beautiful georgette saree.", Price: 499, Category: "Ethnic Wear", Stock: 50, Views: 100, SalesCount: 10, Reviews: []models.Review{}},
			{ID: "2", VendorID: "v1", VendorName: "Fab Fashions", Name: "Cotton Kurti Set", Description: "Daily wear cotton kurti.", Price: 350, Category: "Ethnic Wear", Stock: 30, Views: 20, SalesCount: 2, Reviews: []models.Review{}},
			{ID: "3", VendorID: "v2", VendorName: "TechHub", Name: "Wireless Earbuds", Description: "Bass earbuds with 20h battery.", Price: 899, Category: "Electronics", Stock: 100, Reviews: []models.Review{}},
		},
		Vendors: []models.User{
			{ID: "v1", Name: "John Doe", Role: models.RoleVendor, StoreName: "Fab Fashions", IsApproved: models.Bool(true)},
			{ID: "v2", Name: "Jane Smith", Role: models.RoleVendor, StoreName: "TechHub", IsApproved: models.Bool(true)},
			{ID: "v3", Name: "Mike Ross", Role: models.RoleVendor, StoreName: "HomeDecor Co", IsApproved: models.Bool(false)},
		},
		Admins: []models.User{
			{ID: "admin-master", Name: "Master Admin", Email: "admin@meneric.com", Role: models.RoleAdmin},
		},
	}
}

func newTestService(t *testing.T) (*ShopService, *recorder) {
	t.Helper()
	rec := &recorder{}
	svc := NewShopService(store.New(fixture()), rec, search.NewMemory(), &fakeDescriber{})
	svc.now = func() time.Time { return time.Date(2024, 3, 20, 9, 30, 0, 0, time.UTC) }
	require.NoError(t, svc.Reindex(context.Background()))
	return svc, rec
}

func TestListProducts(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		q     ProductQuery
		total int
		ids   []string
	}{
		{"all", ProductQuery{}, 3, []string{"1", "2", "3"}},
		{"all category", ProductQuery{Category: CategoryAll}, 3, []string{"1", "2", "3"}},
		{"category", ProductQuery{Category: "Electronics"}, 1, []string{"3"}},
		{"vendor", ProductQuery{VendorID: "v1"}, 2, []string{"1", "2"}},
		{"search", ProductQuery{Query: "kurti"}, 1, []string{"2"}},
		{"search and category", ProductQuery{Query: "e", Category: "Electronics"}, 1, []string{"3"}},
		{"paged", ProductQuery{Page: 2, Size: 2}, 3, []string{"3"}},
		{"past end", ProductQuery{Page: 5, Size: 2}, 3, []string{}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			page, err := svc.ListProducts(ctx, tt.q)
			require.NoError(t, err)
			assert.Equal(t, tt.total, page.Total)
			ids := make([]string, len(page.Items))
			for i, p := range page.Items {
				ids[i] = p.ID
			}
			assert.Equal(t, tt.ids, ids)
		})
	}
}

func TestCreateProduct(t *testing.T) {
	t.Parallel()
	svc, rec := newTestService(t)
	ctx := context.Background()

	p, err := svc.CreateProduct(ctx, vendor1, ProductInput{Name: "Silk Dupatta", Price: 299, Category: "Accessories", Stock: 5})
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "v1", p.VendorID)
	assert.Equal(t, "Fab Fashions", p.VendorName)
	assert.Equal(t, DefaultProductImage, p.Image)
	assert.Zero(t, p.Views)

	page, err := svc.ListProducts(ctx, ProductQuery{Query: "dupatta"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, p.ID, page.Items[0].ID)
	assert.Equal(t, []string{events.ProductCreated}, rec.types())
	assert.Equal(t, events.TopicProduct, rec.events[0]["topic"])
}

func TestCreateProduct_Rules(t *testing.T) {
	t.Parallel()
	valid := ProductInput{Name: "Lamp", Price: 100, Category: "Home & Kitchen", Stock: 1}

	tests := []struct {
		name  string
		actor Actor
		in    ProductInput
		want  error
	}{
		{"anonymous", Actor{}, valid, ErrNotAuthenticated},
		{"customer", customer, valid, ErrForbidden},
		{"admin", masterAdmin, valid, ErrForbidden},
		{"unapproved vendor", vendor3, valid, ErrForbidden},
		{"zero price", vendor1, ProductInput{Name: "Lamp", Price: 0, Category: "Beauty"}, ErrValidation},
		{"negative stock", vendor1, ProductInput{Name: "Lamp", Price: 10, Category: "Beauty", Stock: -1}, ErrValidation},
		{"no name", vendor1, ProductInput{Price: 10, Category: "Beauty"}, ErrValidation},
		{"duplicate id", vendor1, ProductInput{ID: "1", Name: "Lamp", Price: 10, Category: "Beauty"}, ErrConflict},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc, rec := newTestService(t)
			_, err := svc.CreateProduct(context.Background(), tt.actor, tt.in)
			require.ErrorIs(t, err, tt.want)
			assert.Empty(t, rec.events)
		})
	}
}

func TestUpdateProduct_Ownership(t *testing.T) {
	t.Parallel()
	svc, rec := newTestService(t)
	ctx := context.Background()
	price := int64(549)

	_, err := svc.UpdateProduct(ctx, vendor2, "1", ProductChanges{Price: &price})
	require.ErrorIs(t, err, ErrForbidden)

	_, err = svc.UpdateProduct(ctx, vendor1, "404", ProductChanges{Price: &price})
	require.ErrorIs(t, err, ErrNotFound)

	bad := int64(-1)
	_, err = svc.UpdateProduct(ctx, vendor1, "1", ProductChanges{Price: &bad})
	require.ErrorIs(t, err, ErrValidation)

	p, err := svc.UpdateProduct(ctx, vendor1, "1", ProductChanges{Price: &price})
	require.NoError(t, err)
	assert.Equal(t, int64(549), p.Price)
	assert.Equal(t, 100, p.Views)
	assert.Equal(t, []string{events.ProductUpdated}, rec.types())
}

func TestDeleteProduct(t *testing.T) {
	t.Parallel()
	svc, rec := newTestService(t)
	ctx := context.Background()

	require.ErrorIs(t, svc.DeleteProduct(ctx, vendor2, "1"), ErrForbidden)
	require.NoError(t, svc.DeleteProduct(ctx, vendor1, "1"))
	require.ErrorIs(t, svc.DeleteProduct(ctx, vendor1, "1"), ErrNotFound)

	page, err := svc.ListProducts(ctx, ProductQuery{Query: "saree"})
	require.NoError(t, err)
	assert.Zero(t, page.Total)
	assert.Equal(t, []string{events.ProductDeleted}, rec.types())
}

func TestVendorDashboard(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)

	d, err := svc.VendorDashboard(context.Background(), vendor1)
	require.NoError(t, err)
	assert.Equal(t, 2, d.Stats.Products)
	assert.Equal(t, 120, d.Stats.TotalViews)
	assert.Equal(t, int64(10*499+2*350), d.Stats.TotalSales)
	assert.Equal(t, "Fab Fashions", d.Vendor.StoreName)

	_, err = svc.VendorDashboard(context.Background(), customer)
	require.ErrorIs(t, err, ErrForbidden)
}

func TestDescribeProduct(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)
	ctx := context.Background()

	out, err := svc.DescribeProduct(ctx, vendor1, "Smart Watch Pro", "Electronics")
	require.NoError(t, err)
	assert.Equal(t, "Lovely Smart Watch Pro for Electronics", out)

	_, err = svc.DescribeProduct(ctx, vendor1, " ", "Electronics")
	require.ErrorIs(t, err, ErrValidation)

	svc.Describer = nil
	out, err = svc.DescribeProduct(ctx, vendor1, "Smart Watch Pro", "Electronics")
	require.NoError(t, err)
	assert.Equal(t, describe.FallbackError, out)
}

func TestAddReview(t *testing.T) {
	t.Parallel()
	svc, rec := newTestService(t)
	ctx := context.Background()

	p, err := svc.AddReview(ctx, customer, "3", 9, "  Great bass.  ")
	require.NoError(t, err)
	require.Len(t, p.Reviews, 1)
	r := p.Reviews[0]
	assert.Equal(t, 5, r.Rating)
	assert.Equal(t, "Great bass.", r.Comment)
	assert.Equal(t, "Meneric Shopper", r.UserName)
	assert.Equal(t, "2024-03-20", r.Date)
	assert.NotEmpty(t, r.ID)

	p, err = svc.AddReview(ctx, customer, "3", -2, "Broke in a week")
	require.NoError(t, err)
	assert.Equal(t, 1, p.Reviews[0].Rating)

	_, err = svc.AddReview(ctx, customer, "3", 4, "   ")
	require.ErrorIs(t, err, ErrValidation)
	_, err = svc.AddReview(ctx, Actor{}, "3", 4, "nice")
	require.ErrorIs(t, err, ErrNotAuthenticated)
	_, err = svc.AddReview(ctx, customer, "404", 4, "nice")
	require.ErrorIs(t, err, ErrNotFound)

	assert.Equal(t, []string{events.ReviewAdded, events.ReviewAdded}, rec.types())
}

func TestCartAndCheckout(t *testing.T) {
	t.Parallel()
	svc, rec := newTestService(t)
	ctx := context.Background()

	_, err := svc.AddToCart(ctx, customer, "404")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = svc.AddToCart(ctx, customer, "1")
	require.NoError(t, err)
	line, err := svc.UpdateCartQuantity(ctx, customer, "1", 1)
	require.NoError(t, err)
	assert.Equal(t, 2, line.Quantity)

	view := svc.Cart(ctx)
	assert.Equal(t, int64(998), view.Summary.Subtotal)
	assert.Zero(t, view.Summary.DeliveryFee)

	_, err = svc.Checkout(ctx, customer)
	require.ErrorIs(t, err, ErrNotAuthenticated, "no session in the store yet")

	require.NoError(t, svc.Store.Login(ctx, models.User{ID: "u1", Name: "Meneric Shopper", Role: models.RoleCustomer}))
	order, err := svc.Checkout(ctx, customer)
	require.NoError(t, err)
	assert.Equal(t, int64(998), order.Total)
	assert.Empty(t, svc.Cart(ctx).Items)

	_, err = svc.Checkout(ctx, customer)
	require.ErrorIs(t, err, ErrEmptyCart)

	require.NoError(t, svc.Store.Login(ctx, models.User{ID: "u2", Role: models.RoleCustomer}))
	_, err = svc.AddToCart(ctx, customer, "1")
	require.NoError(t, err)
	_, err = svc.Checkout(ctx, customer)
	require.ErrorIs(t, err, ErrNotAuthenticated, "session moved to another user")
	assert.Len(t, svc.Cart(ctx).Items, 1)

	orders, err := svc.Orders(ctx, customer)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	others, err := svc.Orders(ctx, vendor1)
	require.NoError(t, err)
	assert.Empty(t, others)
	all, err := svc.Orders(ctx, masterAdmin)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	assert.Equal(t, []string{events.CartItemAdded, events.CartQuantityUpdated, events.OrderCreated, events.CartItemAdded}, rec.types())
}

func TestToggleWishlist(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.ToggleWishlist(ctx, customer, "404")
	require.ErrorIs(t, err, ErrNotFound)

	added, err := svc.ToggleWishlist(ctx, customer, "2")
	require.NoError(t, err)
	assert.True(t, added)
	require.Len(t, svc.Wishlist(ctx), 1)

	added, err = svc.ToggleWishlist(ctx, customer, "2")
	require.NoError(t, err)
	assert.False(t, added)
	assert.Empty(t, svc.Wishlist(ctx))
}

func TestPublishFailureDoesNotFailTransition(t *testing.T) {
	t.Parallel()
	svc, rec := newTestService(t)
	rec.err = errors.New("broker down")

	_, err := svc.AddToCart(context.Background(), customer, "1")
	require.NoError(t, err)
	assert.Len(t, svc.Cart(context.Background()).Items, 1)
}

func TestRegisterVendor(t *testing.T) {
	t.Parallel()
	svc, rec := newTestService(t)
	ctx := context.Background()

	v, err := svc.RegisterVendor(ctx, VendorRegistration{Name: "Asha", StoreName: "Asha Crafts", Email: "asha@crafts.in", Password: "pw12345"})
	require.NoError(t, err)
	assert.Equal(t, "v1710927000000", v.ID)
	assert.False(t, v.Approved())
	assert.True(t, hash.Matches(v.PasswordHash, "pw12345"))

	_, err = svc.RegisterVendor(ctx, VendorRegistration{Name: "Asha"})
	require.ErrorIs(t, err, ErrValidation)
	_, err = svc.RegisterVendor(ctx, VendorRegistration{Name: "Asha", StoreName: "Asha Crafts", Email: "asha@crafts.in"})
	require.ErrorIs(t, err, ErrConflict, "same millisecond id")

	assert.Equal(t, []string{events.VendorRegistered}, rec.types())
}

func TestVendorApproval(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.SetVendorApproval(ctx, vendor1, "v3", true)
	require.ErrorIs(t, err, ErrForbidden)

	v, err := svc.SetVendorApproval(ctx, masterAdmin, "v3", true)
	require.NoError(t, err)
	assert.True(t, v.Approved())

	_, err = svc.CreateProduct(ctx, vendor3, ProductInput{Name: "Candle", Price: 250, Category: "Home & Kitchen", Stock: 40})
	require.NoError(t, err)

	_, err = svc.SetVendorApproval(ctx, masterAdmin, "v404", true)
	require.ErrorIs(t, err, ErrNotFound)

	ov, err := svc.AdminOverview(ctx, masterAdmin)
	require.NoError(t, err)
	assert.Equal(t, 3, ov.Vendors)
	assert.Zero(t, ov.PendingVendors)
	assert.Equal(t, 4, ov.Products)
}

func TestAdmins(t *testing.T) {
	t.Parallel()
	svc, rec := newTestService(t)
	ctx := context.Background()

	a, err := svc.AddAdmin(ctx, masterAdmin, AdminInput{Name: "Ops", Email: "ops@meneric.com", Password: "hunter22"})
	require.NoError(t, err)
	assert.Regexp(t, `^admin-[a-z0-9]{9}$`, a.ID)
	assert.True(t, hash.Matches(a.PasswordHash, "hunter22"))

	_, err = svc.AddAdmin(ctx, masterAdmin, AdminInput{Name: "Ops 2", Email: "OPS@meneric.com", Password: "x"})
	require.ErrorIs(t, err, ErrConflict)
	_, err = svc.AddAdmin(ctx, masterAdmin, AdminInput{Name: "No Pass", Email: "np@meneric.com"})
	require.ErrorIs(t, err, ErrValidation)
	_, err = svc.AddAdmin(ctx, customer, AdminInput{Name: "X", Email: "x@x", Password: "x"})
	require.ErrorIs(t, err, ErrForbidden)

	admins, err := svc.Admins(ctx, masterAdmin)
	require.NoError(t, err)
	assert.Len(t, admins, 2)

	require.ErrorIs(t, svc.RemoveAdmin(ctx, masterAdmin, MasterAdminID), ErrForbidden)
	require.NoError(t, svc.RemoveAdmin(ctx, masterAdmin, a.ID))
	require.NoError(t, svc.RemoveAdmin(ctx, masterAdmin, "admin-unknown"))

	admins, err = svc.Admins(ctx, masterAdmin)
	require.NoError(t, err)
	assert.Len(t, admins, 1)
	assert.Equal(t, []string{events.AdminAdded, events.AdminRemoved, events.AdminRemoved}, rec.types())
}
