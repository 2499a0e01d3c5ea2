// Package service enforces who may do what to the storefront and keeps the
// event stream and the search index in step with the store.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/Skotchmaster/meneric/internal/describe"
	"github.com/Skotchmaster/meneric/internal/events"
	"github.com/Skotchmaster/meneric/internal/models"
	"github.com/Skotchmaster/meneric/internal/search"
	"github.com/Skotchmaster/meneric/internal/store"
	"github.com/Skotchmaster/meneric/pkg/logging"
)

var (
	ErrValidation = errors.New("validation")
	ErrForbidden  = errors.New("forbidden")

	ErrNotFound         = store.ErrNotFound
	ErrConflict         = store.ErrConflict
	ErrNotAuthenticated = store.ErrNotAuthenticated
	ErrEmptyCart        = store.ErrEmptyCart
)

// Actor is the caller as proven by the access token.
type Actor struct {
	ID   string
	Role models.Role
	Name string
}

func (a Actor) Authenticated() bool { return a.ID != "" }

type ShopService struct {
	Store     *store.Store
	Events    events.Publisher
	Search    search.Index
	Describer describe.Generator

	now func() time.Time
}

func NewShopService(st *store.Store, pub events.Publisher, idx search.Index, gen describe.Generator) *ShopService {
	if pub == nil {
		pub = events.Nop{}
	}
	if idx == nil {
		idx = search.NewMemory()
	}
	return &ShopService{Store: st, Events: pub, Search: idx, Describer: gen, now: time.Now}
}

// Reindex loads every product currently in the store into the search index.
func (s *ShopService) Reindex(ctx context.Context) error {
	var errs []error
	for _, p := range s.Store.Products() {
		if err := s.Search.Index(ctx, p); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *ShopService) publish(ctx context.Context, topic, key string, event map[string]any) {
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), events.PublishTimeout)
	defer cancel()
	if err := s.Events.Publish(pctx, topic, key, event); err != nil {
		logging.FromContext(ctx).Error("publish_error", "topic", topic, "type", event["type"], "error", err)
	}
}

func (s *ShopService) indexProduct(ctx context.Context, p models.Product) {
	ictx, cancel := context.WithTimeout(context.WithoutCancel(ctx), events.PublishTimeout)
	defer cancel()
	if err := s.Search.Index(ictx, p); err != nil {
		logging.FromContext(ctx).Error("search_index_error", "product_id", p.ID, "error", err)
	}
}

func (s *ShopService) unindexProduct(ctx context.Context, id string) {
	ictx, cancel := context.WithTimeout(context.WithoutCancel(ctx), events.PublishTimeout)
	defer cancel()
	if err := s.Search.Delete(ictx, id); err != nil {
		logging.FromContext(ctx).Error("search_delete_error", "product_id", id, "error", err)
	}
}

func requireRole(a Actor, roles ...models.Role) error {
	if !a.Authenticated() {
		return ErrNotAuthenticated
	}
	for _, r := range roles {
		if a.Role == r {
			return nil
		}
	}
	return ErrForbidden
}
