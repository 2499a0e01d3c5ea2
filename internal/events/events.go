// Package events publishes storefront domain events.
package events

import (
	"context"
	"errors"
	"time"
)

const (
	TopicCart    = "cart_events"
	TopicProduct = "product_events"
	TopicOrder   = "order_events"
	TopicAdmin   = "admin_events"
	TopicUser    = "user_events"
)

const (
	CartItemAdded         = "cart_item_added"
	CartItemRemoved       = "cart_item_removed"
	CartQuantityUpdated   = "cart_quantity_updated"
	WishlistToggled       = "wishlist_toggled"
	ProductCreated        = "product_created"
	ProductUpdated        = "product_updated"
	ProductDeleted        = "product_deleted"
	ReviewAdded           = "review_added"
	VendorRegistered      = "vendor_registered"
	VendorApprovalUpdated = "vendor_approval_updated"
	AdminAdded            = "admin_added"
	AdminRemoved          = "admin_removed"
	OrderCreated          = "order_created"
	UserLoggedIn          = "user_logged_in"
	UserLoggedOut         = "user_logged_out"
)

// PublishTimeout bounds a single publish issued after a transition.
const PublishTimeout = 5 * time.Second

type Publisher interface {
	Publish(ctx context.Context, topic, key string, event map[string]any) error
}

type Nop struct{}

func (Nop) Publish(context.Context, string, string, map[string]any) error { return nil }

// Multi publishes to every publisher and joins their errors.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, topic, key string, event map[string]any) error {
	var errs []error
	for _, p := range m {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, topic, key, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
