// Package store holds the storefront state tree and the only sanctioned
// transitions on it. Each transition works on a deep copy of the current tree
// and the copy replaces the tree only after it has been persisted.
package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Skotchmaster/meneric/internal/models"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("conflict")
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrEmptyCart        = errors.New("cart is empty")
)

// errNoChange marks a transition that is a silent no-op: nothing is persisted.
var errNoChange = errors.New("no change")

// Persister receives the full tree after every committed transition.
type Persister interface {
	Persist(ctx context.Context, state models.AppState) error
}

// Fulfillment moves an order out of Processing. Nothing in this build
// implements it; order status only ever gets the creation transition.
type Fulfillment interface {
	AdvanceOrder(ctx context.Context, orderID string, to models.OrderStatus) error
}

type Option func(*Store)

func WithPersister(p Persister) Option {
	return func(s *Store) { s.persister = p }
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithOrderIDs overrides the order id generator. The generator is retried
// until it yields an id no existing order uses.
func WithOrderIDs(gen func() string) Option {
	return func(s *Store) { s.newOrderID = gen }
}

type Store struct {
	mu         sync.Mutex
	state      models.AppState
	persister  Persister
	now        func() time.Time
	newOrderID func() string
}

func New(initial models.AppState, opts ...Option) *Store {
	s := &Store{
		state:      initial.Clone(),
		now:        time.Now,
		newOrderID: randomOrderID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) apply(ctx context.Context, fn func(st *models.AppState) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.Clone()
	if err := fn(&next); err != nil {
		if errors.Is(err, errNoChange) {
			return nil
		}
		return err
	}

	if s.persister != nil {
		if err := s.persister.Persist(ctx, next); err != nil {
			return fmt.Errorf("persist state: %w", err)
		}
	}
	s.state = next
	return nil
}

func (s *Store) view(fn func(st *models.AppState)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.state)
}

func (s *Store) Login(ctx context.Context, user models.User) error {
	return s.apply(ctx, func(st *models.AppState) error {
		u := user.Clone()
		st.CurrentUser = &u
		return nil
	})
}

func (s *Store) Logout(ctx context.Context) error {
	return s.apply(ctx, func(st *models.AppState) error {
		st.CurrentUser = nil
		return nil
	})
}

// LogoutUser ends the session only when userID holds it and reports whether
// it did.
func (s *Store) LogoutUser(ctx context.Context, userID string) (bool, error) {
	var ended bool
	err := s.apply(ctx, func(st *models.AppState) error {
		if userID == "" || st.CurrentUser == nil || st.CurrentUser.ID != userID {
			return errNoChange
		}
		st.CurrentUser = nil
		ended = true
		return nil
	})
	return ended, err
}

// AddToCart merges into an existing line for the product or appends a new
// line holding the product snapshot with quantity 1.
func (s *Store) AddToCart(ctx context.Context, product models.Product) (models.CartItem, error) {
	var line models.CartItem
	err := s.apply(ctx, func(st *models.AppState) error {
		if i := cartIndex(st.Cart, product.ID); i >= 0 {
			st.Cart[i].Quantity++
			line = st.Cart[i].Clone()
			return nil
		}
		line = models.CartItem{Product: product.Clone(), Quantity: 1}
		st.Cart = append(st.Cart, line.Clone())
		return nil
	})
	return line, err
}

// RemoveFromCart is idempotent: removing a missing line is not an error.
func (s *Store) RemoveFromCart(ctx context.Context, productID string) error {
	return s.apply(ctx, func(st *models.AppState) error {
		i := cartIndex(st.Cart, productID)
		if i < 0 {
			return errNoChange
		}
		st.Cart = append(st.Cart[:i], st.Cart[i+1:]...)
		return nil
	})
}

// UpdateCartQuantity adds delta to the line quantity, never going below 1.
func (s *Store) UpdateCartQuantity(ctx context.Context, productID string, delta int) (models.CartItem, error) {
	var line models.CartItem
	err := s.apply(ctx, func(st *models.AppState) error {
		i := cartIndex(st.Cart, productID)
		if i < 0 {
			return fmt.Errorf("cart line %q: %w", productID, ErrNotFound)
		}
		st.Cart[i].Quantity = max(1, st.Cart[i].Quantity+delta)
		line = st.Cart[i].Clone()
		return nil
	})
	return line, err
}

// ToggleWishlist flips membership of productID and reports the new membership.
func (s *Store) ToggleWishlist(ctx context.Context, productID string) (bool, error) {
	var added bool
	err := s.apply(ctx, func(st *models.AppState) error {
		for i, id := range st.Wishlist {
			if id == productID {
				st.Wishlist = append(st.Wishlist[:i], st.Wishlist[i+1:]...)
				added = false
				return nil
			}
		}
		st.Wishlist = append(st.Wishlist, productID)
		added = true
		return nil
	})
	return added, err
}

// AddProduct prepends the product with fresh counters and no reviews.
func (s *Store) AddProduct(ctx context.Context, product models.Product) (models.Product, error) {
	p := product.Clone()
	p.Views = 0
	p.SalesCount = 0
	p.Reviews = []models.Review{}

	err := s.apply(ctx, func(st *models.AppState) error {
		if productIndex(st.Products, p.ID) >= 0 {
			return fmt.Errorf("product %q: %w", p.ID, ErrConflict)
		}
		st.Products = append([]models.Product{p.Clone()}, st.Products...)
		return nil
	})
	if err != nil {
		return models.Product{}, err
	}
	return p, nil
}

// ProductPatch carries the fields to overwrite; nil fields keep the old value.
type ProductPatch struct {
	ID          string
	VendorID    *string
	VendorName  *string
	Name        *string
	Description *string
	Price       *int64
	Category    *string
	Image       *string
	Stock       *int
	Views       *int
	SalesCount  *int
	Reviews     []models.Review
}

func (pp ProductPatch) applyTo(p *models.Product) {
	if pp.VendorID != nil {
		p.VendorID = *pp.VendorID
	}
	if pp.VendorName != nil {
		p.VendorName = *pp.VendorName
	}
	if pp.Name != nil {
		p.Name = *pp.Name
	}
	if pp.Description != nil {
		p.Description = *pp.Description
	}
	if pp.Price != nil {
		p.Price = *pp.Price
	}
	if pp.Category != nil {
		p.Category = *pp.Category
	}
	if pp.Image != nil {
		p.Image = *pp.Image
	}
	if pp.Stock != nil {
		p.Stock = *pp.Stock
	}
	if pp.Views != nil {
		p.Views = *pp.Views
	}
	if pp.SalesCount != nil {
		p.SalesCount = *pp.SalesCount
	}
	if pp.Reviews != nil {
		p.Reviews = append([]models.Review{}, pp.Reviews...)
	}
}

func (s *Store) UpdateProduct(ctx context.Context, patch ProductPatch) (models.Product, error) {
	var updated models.Product
	err := s.apply(ctx, func(st *models.AppState) error {
		i := productIndex(st.Products, patch.ID)
		if i < 0 {
			return fmt.Errorf("product %q: %w", patch.ID, ErrNotFound)
		}
		patch.applyTo(&st.Products[i])
		updated = st.Products[i].Clone()
		return nil
	})
	return updated, err
}

// DeleteProduct does not cascade: cart lines, wishlist entries and order
// snapshots that mention the id are left alone.
func (s *Store) DeleteProduct(ctx context.Context, productID string) error {
	return s.apply(ctx, func(st *models.AppState) error {
		i := productIndex(st.Products, productID)
		if i < 0 {
			return fmt.Errorf("product %q: %w", productID, ErrNotFound)
		}
		st.Products = append(st.Products[:i], st.Products[i+1:]...)
		return nil
	})
}

// AddReview puts the review at the head of the product's reviews. Ratings are
// taken as given.
func (s *Store) AddReview(ctx context.Context, productID string, review models.Review) (models.Product, error) {
	var updated models.Product
	err := s.apply(ctx, func(st *models.AppState) error {
		i := productIndex(st.Products, productID)
		if i < 0 {
			return fmt.Errorf("product %q: %w", productID, ErrNotFound)
		}
		st.Products[i].Reviews = append([]models.Review{review}, st.Products[i].Reviews...)
		updated = st.Products[i].Clone()
		return nil
	})
	return updated, err
}

func (s *Store) UpdateVendorApproval(ctx context.Context, vendorID string, approved bool) (models.User, error) {
	var vendor models.User
	err := s.apply(ctx, func(st *models.AppState) error {
		i := userIndex(st.Vendors, vendorID)
		if i < 0 {
			return fmt.Errorf("vendor %q: %w", vendorID, ErrNotFound)
		}
		st.Vendors[i].IsApproved = models.Bool(approved)
		vendor = st.Vendors[i].Clone()
		return nil
	})
	return vendor, err
}

// RegisterVendor appends a vendor account awaiting approval.
func (s *Store) RegisterVendor(ctx context.Context, vendor models.User) (models.User, error) {
	v := vendor.Clone()
	v.Role = models.RoleVendor
	v.IsApproved = models.Bool(false)

	err := s.apply(ctx, func(st *models.AppState) error {
		if userIndex(st.Vendors, v.ID) >= 0 {
			return fmt.Errorf("vendor %q: %w", v.ID, ErrConflict)
		}
		st.Vendors = append(st.Vendors, v.Clone())
		return nil
	})
	if err != nil {
		return models.User{}, err
	}
	return v, nil
}

func (s *Store) AddAdmin(ctx context.Context, admin models.User) error {
	a := admin.Clone()
	return s.apply(ctx, func(st *models.AppState) error {
		if userIndex(st.Admins, a.ID) >= 0 {
			return fmt.Errorf("admin %q: %w", a.ID, ErrConflict)
		}
		st.Admins = append(st.Admins, a)
		return nil
	})
}

// RemoveAdmin ignores unknown ids.
func (s *Store) RemoveAdmin(ctx context.Context, adminID string) error {
	return s.apply(ctx, func(st *models.AppState) error {
		i := userIndex(st.Admins, adminID)
		if i < 0 {
			return errNoChange
		}
		st.Admins = append(st.Admins[:i], st.Admins[i+1:]...)
		return nil
	})
}

// PlaceOrder checks out the live cart for the current user. Lines whose
// product has been deleted are dropped from the order. When no line is live
// ErrEmptyCart is returned and the cart is left as it was.
func (s *Store) PlaceOrder(ctx context.Context) (models.Order, error) {
	return s.placeOrder(ctx, "")
}

// PlaceOrderFor is PlaceOrder guarded by the session owner: it fails with
// ErrNotAuthenticated unless customerID is the current user when the
// transition runs.
func (s *Store) PlaceOrderFor(ctx context.Context, customerID string) (models.Order, error) {
	if customerID == "" {
		return models.Order{}, ErrNotAuthenticated
	}
	return s.placeOrder(ctx, customerID)
}

func (s *Store) placeOrder(ctx context.Context, customerID string) (models.Order, error) {
	var order models.Order
	err := s.apply(ctx, func(st *models.AppState) error {
		if st.CurrentUser == nil {
			return ErrNotAuthenticated
		}
		if customerID != "" && st.CurrentUser.ID != customerID {
			return fmt.Errorf("session does not belong to %s: %w", customerID, ErrNotAuthenticated)
		}
		items := liveCart(st)
		if len(items) == 0 {
			return ErrEmptyCart
		}

		id, err := s.uniqueOrderID(st.Orders)
		if err != nil {
			return err
		}
		summary := Price(items)
		order = models.Order{
			ID:         id,
			CustomerID: st.CurrentUser.ID,
			Items:      items,
			Date:       s.now().UTC().Format(models.TimestampLayout),
			Total:      summary.Total,
			Status:     models.OrderStatusProcessing,
		}
		st.Orders = append([]models.Order{order.Clone()}, st.Orders...)
		st.Cart = []models.CartItem{}
		return nil
	})
	if err != nil {
		return models.Order{}, err
	}
	return order, nil
}

// maxOrderIDAttempts bounds how often a colliding order id is regenerated.
const maxOrderIDAttempts = 100

var ErrOrderID = errors.New("no free order id")

func (s *Store) uniqueOrderID(orders []models.Order) (string, error) {
	taken := make(map[string]struct{}, len(orders))
	for _, o := range orders {
		taken[o.ID] = struct{}{}
	}
	for range maxOrderIDAttempts {
		id := s.newOrderID()
		if _, dup := taken[id]; !dup {
			return id, nil
		}
	}
	return "", fmt.Errorf("%d attempts: %w", maxOrderIDAttempts, ErrOrderID)
}

func cartIndex(cart []models.CartItem, productID string) int {
	for i := range cart {
		if cart[i].ID == productID {
			return i
		}
	}
	return -1
}

func productIndex(products []models.Product, id string) int {
	for i := range products {
		if products[i].ID == id {
			return i
		}
	}
	return -1
}

func userIndex(users []models.User, id string) int {
	for i := range users {
		if users[i].ID == id {
			return i
		}
	}
	return -1
}
