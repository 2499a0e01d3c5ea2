package service

import (
	"context"

	"github.com/Skotchmaster/meneric/internal/events"
	"github.com/Skotchmaster/meneric/internal/models"
	"github.com/Skotchmaster/meneric/internal/store"
)

type CartView struct {
	Items   []models.CartItem `json:"items"`
	Summary store.Summary     `json:"summary"`
}

func cartKey(actor Actor) string {
	if actor.ID == "" {
		return "guest"
	}
	return actor.ID
}

func (s *ShopService) Cart(ctx context.Context) CartView {
	items := s.Store.Cart()
	return CartView{Items: items, Summary: store.Price(items)}
}

func (s *ShopService) AddToCart(ctx context.Context, actor Actor, productID string) (models.CartItem, error) {
	p, err := s.Store.Product(productID)
	if err != nil {
		return models.CartItem{}, err
	}
	line, err := s.Store.AddToCart(ctx, p)
	if err != nil {
		return models.CartItem{}, err
	}

	s.publish(ctx, events.TopicCart, cartKey(actor), map[string]any{
		"type":      events.CartItemAdded,
		"userID":    actor.ID,
		"productID": productID,
		"quantity":  line.Quantity,
	})
	return line, nil
}

func (s *ShopService) RemoveFromCart(ctx context.Context, actor Actor, productID string) error {
	if err := s.Store.RemoveFromCart(ctx, productID); err != nil {
		return err
	}
	s.publish(ctx, events.TopicCart, cartKey(actor), map[string]any{
		"type":      events.CartItemRemoved,
		"userID":    actor.ID,
		"productID": productID,
	})
	return nil
}

func (s *ShopService) UpdateCartQuantity(ctx context.Context, actor Actor, productID string, delta int) (models.CartItem, error) {
	line, err := s.Store.UpdateCartQuantity(ctx, productID, delta)
	if err != nil {
		return models.CartItem{}, err
	}
	s.publish(ctx, events.TopicCart, cartKey(actor), map[string]any{
		"type":      events.CartQuantityUpdated,
		"userID":    actor.ID,
		"productID": productID,
		"quantity":  line.Quantity,
	})
	return line, nil
}

// ToggleWishlist adds only products that exist; removal always succeeds.
func (s *ShopService) ToggleWishlist(ctx context.Context, actor Actor, productID string) (bool, error) {
	inList := false
	for _, id := range s.Store.State().Wishlist {
		if id == productID {
			inList = true
			break
		}
	}
	if !inList {
		if _, err := s.Store.Product(productID); err != nil {
			return false, err
		}
	}

	added, err := s.Store.ToggleWishlist(ctx, productID)
	if err != nil {
		return false, err
	}
	s.publish(ctx, events.TopicCart, cartKey(actor), map[string]any{
		"type":      events.WishlistToggled,
		"userID":    actor.ID,
		"productID": productID,
		"added":     added,
	})
	return added, nil
}

func (s *ShopService) Wishlist(ctx context.Context) []models.Product {
	out := []models.Product{}
	for _, id := range s.Store.Wishlist() {
		if p, err := s.Store.Product(id); err == nil {
			out = append(out, p)
		}
	}
	return out
}

// Checkout places an order for the signed-in user from the current cart.
func (s *ShopService) Checkout(ctx context.Context, actor Actor) (models.Order, error) {
	if !actor.Authenticated() {
		return models.Order{}, ErrNotAuthenticated
	}
	order, err := s.Store.PlaceOrderFor(ctx, actor.ID)
	if err != nil {
		return models.Order{}, err
	}

	productIDs := make([]string, len(order.Items))
	for i, it := range order.Items {
		productIDs[i] = it.ID
	}
	s.publish(ctx, events.TopicOrder, order.ID, map[string]any{
		"type":       events.OrderCreated,
		"orderID":    order.ID,
		"userID":     order.CustomerID,
		"total":      order.Total,
		"productIDs": productIDs,
	})
	return order, nil
}

// Orders lists the actor's own orders; admins see every order.
func (s *ShopService) Orders(ctx context.Context, actor Actor) ([]models.Order, error) {
	if !actor.Authenticated() {
		return nil, ErrNotAuthenticated
	}
	if actor.Role == models.RoleAdmin {
		return s.Store.Orders(), nil
	}
	return s.Store.OrdersFor(actor.ID), nil
}
