// Package seed builds the storefront tree used when nothing has been persisted yet.
package seed

import (
	_ "embed"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/Skotchmaster/meneric/internal/hash"
	"github.com/Skotchmaster/meneric/internal/models"
	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var catalogueYAML []byte

const (
	maxViews = 500
	maxSales = 50
)

type admin struct {
	models.User `yaml:",inline"`
	Password    string `yaml:"password"`
}

type order struct {
	ID         string             `yaml:"id"`
	CustomerID string             `yaml:"customerId"`
	ProductIDs []string           `yaml:"productIds"`
	DaysAgo    int                `yaml:"daysAgo"`
	Total      int64              `yaml:"total"`
	Status     models.OrderStatus `yaml:"status"`
}

type catalogue struct {
	Products []models.Product `yaml:"products"`
	Vendors  []models.User    `yaml:"vendors"`
	Admins   []admin          `yaml:"admins"`
	Orders   []order          `yaml:"orders"`
}

// State returns the initial tree. Counters are randomised and the demo order
// is dated relative to now.
func State(now time.Time) (models.AppState, error) {
	return build(catalogueYAML, now)
}

func build(raw []byte, now time.Time) (models.AppState, error) {
	var c catalogue
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return models.AppState{}, fmt.Errorf("parse seed: %w", err)
	}

	st := models.AppState{
		Products: make([]models.Product, 0, len(c.Products)),
		Cart:     []models.CartItem{},
		Vendors:  c.Vendors,
		Admins:   make([]models.User, 0, len(c.Admins)),
		Wishlist: []string{},
		Orders:   make([]models.Order, 0, len(c.Orders)),
	}

	byID := make(map[string]models.Product, len(c.Products))
	for _, p := range c.Products {
		if p.Reviews == nil {
			p.Reviews = []models.Review{}
		}
		p.Views = rand.IntN(maxViews)
		p.SalesCount = rand.IntN(maxSales)
		st.Products = append(st.Products, p)
		byID[p.ID] = p
	}

	for _, a := range c.Admins {
		u := a.User
		u.Role = models.RoleAdmin
		h, err := hash.Password(a.Password)
		if err != nil {
			return models.AppState{}, fmt.Errorf("hash admin %q password: %w", u.ID, err)
		}
		u.PasswordHash = h
		st.Admins = append(st.Admins, u)
	}

	for _, o := range c.Orders {
		items := make([]models.CartItem, 0, len(o.ProductIDs))
		for _, id := range o.ProductIDs {
			p, ok := byID[id]
			if !ok {
				return models.AppState{}, fmt.Errorf("seed order %q: unknown product %q", o.ID, id)
			}
			items = append(items, models.CartItem{Product: p.Clone(), Quantity: 1})
		}
		st.Orders = append(st.Orders, models.Order{
			ID:         o.ID,
			CustomerID: o.CustomerID,
			Items:      items,
			Date:       now.AddDate(0, 0, -o.DaysAgo).UTC().Format(models.TimestampLayout),
			Total:      o.Total,
			Status:     o.Status,
		})
	}

	return st, nil
}
