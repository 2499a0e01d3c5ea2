package store

import (
	"fmt"

	"github.com/Skotchmaster/meneric/internal/models"
)

// State returns a deep copy of the whole tree, dangling references included.
func (s *Store) State() models.AppState {
	var out models.AppState
	s.view(func(st *models.AppState) { out = st.Clone() })
	return out
}

func (s *Store) CurrentUser() (models.User, bool) {
	var (
		u  models.User
		ok bool
	)
	s.view(func(st *models.AppState) {
		if st.CurrentUser != nil {
			u = st.CurrentUser.Clone()
			ok = true
		}
	})
	return u, ok
}

func (s *Store) Products() []models.Product {
	var out []models.Product
	s.view(func(st *models.AppState) { out = st.Clone().Products })
	return out
}

func (s *Store) Product(id string) (models.Product, error) {
	var (
		p   models.Product
		err error
	)
	s.view(func(st *models.AppState) {
		i := productIndex(st.Products, id)
		if i < 0 {
			err = fmt.Errorf("product %q: %w", id, ErrNotFound)
			return
		}
		p = st.Products[i].Clone()
	})
	return p, err
}

// Cart returns the cart lines whose product still exists.
func (s *Store) Cart() []models.CartItem {
	var out []models.CartItem
	s.view(func(st *models.AppState) { out = liveCart(st) })
	return out
}

// Wishlist returns wishlisted ids whose product still exists, in insertion order.
func (s *Store) Wishlist() []string {
	var out []string
	s.view(func(st *models.AppState) {
		out = make([]string, 0, len(st.Wishlist))
		for _, id := range st.Wishlist {
			if productIndex(st.Products, id) >= 0 {
				out = append(out, id)
			}
		}
	})
	return out
}

func (s *Store) CartSummary() Summary {
	return Price(s.Cart())
}

// Orders returns every order, newest first. Snapshots are never filtered.
func (s *Store) Orders() []models.Order {
	var out []models.Order
	s.view(func(st *models.AppState) { out = st.Clone().Orders })
	return out
}

func (s *Store) OrdersFor(customerID string) []models.Order {
	var out []models.Order
	s.view(func(st *models.AppState) {
		out = []models.Order{}
		for _, o := range st.Orders {
			if o.CustomerID == customerID {
				out = append(out, o.Clone())
			}
		}
	})
	return out
}

func (s *Store) Vendors() []models.User {
	var out []models.User
	s.view(func(st *models.AppState) { out = st.Clone().Vendors })
	return out
}

func (s *Store) Admins() []models.User {
	var out []models.User
	s.view(func(st *models.AppState) { out = st.Clone().Admins })
	return out
}

func liveCart(st *models.AppState) []models.CartItem {
	out := make([]models.CartItem, 0, len(st.Cart))
	for _, it := range st.Cart {
		if productIndex(st.Products, it.ID) >= 0 {
			out = append(out, it.Clone())
		}
	}
	return out
}
