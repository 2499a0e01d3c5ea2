package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Skotchmaster/meneric/internal/describe"
	"github.com/Skotchmaster/meneric/internal/events"
	"github.com/Skotchmaster/meneric/internal/hash"
	"github.com/Skotchmaster/meneric/internal/models"
	"github.com/Skotchmaster/meneric/internal/store"
)

const DefaultProductImage = "https://picsum.photos/seed/meneric/400/500"

func newID() string { return uuid.NewString() }

type ProductInput struct {
	ID          string
	Name        string
	Description string
	Price       int64
	Category    string
	Image       string
	Stock       int
}

func (in ProductInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("name is required: %w", ErrValidation)
	}
	if in.Price <= 0 {
		return fmt.Errorf("price must be positive: %w", ErrValidation)
	}
	if in.Stock < 0 {
		return fmt.Errorf("stock cannot be negative: %w", ErrValidation)
	}
	if strings.TrimSpace(in.Category) == "" {
		return fmt.Errorf("category is required: %w", ErrValidation)
	}
	return nil
}

// ProductChanges holds the vendor-editable fields; nil means unchanged.
type ProductChanges struct {
	Name        *string
	Description *string
	Price       *int64
	Category    *string
	Image       *string
	Stock       *int
}

func (c ProductChanges) validate() error {
	if c.Name != nil && strings.TrimSpace(*c.Name) == "" {
		return fmt.Errorf("name cannot be empty: %w", ErrValidation)
	}
	if c.Price != nil && *c.Price <= 0 {
		return fmt.Errorf("price must be positive: %w", ErrValidation)
	}
	if c.Stock != nil && *c.Stock < 0 {
		return fmt.Errorf("stock cannot be negative: %w", ErrValidation)
	}
	if c.Category != nil && strings.TrimSpace(*c.Category) == "" {
		return fmt.Errorf("category cannot be empty: %w", ErrValidation)
	}
	return nil
}

// vendorRecord resolves the acting vendor, falling back to the signed-in
// user for accounts that are not in the vendor list (the demo vendor).
func (s *ShopService) vendorRecord(actor Actor) (models.User, error) {
	for _, v := range s.Store.Vendors() {
		if v.ID == actor.ID {
			return v, nil
		}
	}
	if u, ok := s.Store.CurrentUser(); ok && u.ID == actor.ID && u.Role == models.RoleVendor {
		return u, nil
	}
	return models.User{}, fmt.Errorf("vendor %q: %w", actor.ID, ErrNotFound)
}

func (s *ShopService) ownedProduct(actor Actor, id string) (models.Product, error) {
	p, err := s.Store.Product(id)
	if err != nil {
		return models.Product{}, err
	}
	if p.VendorID != actor.ID {
		return models.Product{}, fmt.Errorf("product %q belongs to another vendor: %w", id, ErrForbidden)
	}
	return p, nil
}

func (s *ShopService) CreateProduct(ctx context.Context, actor Actor, in ProductInput) (models.Product, error) {
	if err := requireRole(actor, models.RoleVendor); err != nil {
		return models.Product{}, err
	}
	if err := in.validate(); err != nil {
		return models.Product{}, err
	}
	vendor, err := s.vendorRecord(actor)
	if err != nil {
		return models.Product{}, err
	}
	if !vendor.Approved() {
		return models.Product{}, fmt.Errorf("vendor %q is awaiting approval: %w", vendor.ID, ErrForbidden)
	}

	id := strings.TrimSpace(in.ID)
	if id == "" {
		id = newID()
	}
	image := strings.TrimSpace(in.Image)
	if image == "" {
		image = DefaultProductImage
	}

	p, err := s.Store.AddProduct(ctx, models.Product{
		ID:          id,
		VendorID:    vendor.ID,
		VendorName:  vendor.DisplayStore(),
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Price:       in.Price,
		Category:    in.Category,
		Image:       image,
		Stock:       in.Stock,
	})
	if err != nil {
		return models.Product{}, err
	}

	s.indexProduct(ctx, p)
	s.publish(ctx, events.TopicProduct, p.ID, map[string]any{
		"type":      events.ProductCreated,
		"productID": p.ID,
		"vendorID":  p.VendorID,
		"userID":    actor.ID,
	})
	return p, nil
}

func (s *ShopService) UpdateProduct(ctx context.Context, actor Actor, id string, changes ProductChanges) (models.Product, error) {
	if err := requireRole(actor, models.RoleVendor); err != nil {
		return models.Product{}, err
	}
	if err := changes.validate(); err != nil {
		return models.Product{}, err
	}
	if _, err := s.ownedProduct(actor, id); err != nil {
		return models.Product{}, err
	}

	p, err := s.Store.UpdateProduct(ctx, store.ProductPatch{
		ID:          id,
		Name:        changes.Name,
		Description: changes.Description,
		Price:       changes.Price,
		Category:    changes.Category,
		Image:       changes.Image,
		Stock:       changes.Stock,
	})
	if err != nil {
		return models.Product{}, err
	}

	s.indexProduct(ctx, p)
	s.publish(ctx, events.TopicProduct, p.ID, map[string]any{
		"type":      events.ProductUpdated,
		"productID": p.ID,
		"userID":    actor.ID,
	})
	return p, nil
}

func (s *ShopService) DeleteProduct(ctx context.Context, actor Actor, id string) error {
	if err := requireRole(actor, models.RoleVendor); err != nil {
		return err
	}
	if _, err := s.ownedProduct(actor, id); err != nil {
		return err
	}
	if err := s.Store.DeleteProduct(ctx, id); err != nil {
		return err
	}

	s.unindexProduct(ctx, id)
	s.publish(ctx, events.TopicProduct, id, map[string]any{
		"type":      events.ProductDeleted,
		"productID": id,
		"userID":    actor.ID,
	})
	return nil
}

type VendorStats struct {
	Products   int   `json:"products"`
	TotalViews int   `json:"totalViews"`
	TotalSales int64 `json:"totalSales"`
}

type VendorDashboard struct {
	Vendor   models.User      `json:"vendor"`
	Stats    VendorStats      `json:"stats"`
	Products []models.Product `json:"products"`
}

func (s *ShopService) VendorDashboard(ctx context.Context, actor Actor) (VendorDashboard, error) {
	if err := requireRole(actor, models.RoleVendor); err != nil {
		return VendorDashboard{}, err
	}
	vendor, err := s.vendorRecord(actor)
	if err != nil {
		return VendorDashboard{}, err
	}

	out := VendorDashboard{Vendor: vendor, Products: []models.Product{}}
	for _, p := range s.Store.Products() {
		if p.VendorID != actor.ID {
			continue
		}
		out.Products = append(out.Products, p)
		out.Stats.Products++
		out.Stats.TotalViews += p.Views
		out.Stats.TotalSales += int64(p.SalesCount) * p.Price
	}
	return out, nil
}

// DescribeProduct drafts marketing copy. The generator never fails; its
// fallback text is returned as is.
func (s *ShopService) DescribeProduct(ctx context.Context, actor Actor, name, category string) (string, error) {
	if err := requireRole(actor, models.RoleVendor); err != nil {
		return "", err
	}
	if strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("enter product name first: %w", ErrValidation)
	}
	if s.Describer == nil {
		return describe.FallbackError, nil
	}
	return s.Describer.Generate(ctx, name, category), nil
}

type VendorRegistration struct {
	Name      string
	StoreName string
	Email     string
	Phone     string
	Password  string
}

func (s *ShopService) RegisterVendor(ctx context.Context, reg VendorRegistration) (models.User, error) {
	if strings.TrimSpace(reg.Name) == "" || strings.TrimSpace(reg.StoreName) == "" {
		return models.User{}, fmt.Errorf("name and store name are required: %w", ErrValidation)
	}
	if reg.Email == "" && reg.Phone == "" {
		return models.User{}, fmt.Errorf("email or phone is required: %w", ErrValidation)
	}

	v := models.User{
		ID:        fmt.Sprintf("v%d", s.now().UnixMilli()),
		Name:      strings.TrimSpace(reg.Name),
		StoreName: strings.TrimSpace(reg.StoreName),
		Email:     strings.TrimSpace(reg.Email),
		Phone:     strings.TrimSpace(reg.Phone),
	}
	if reg.Password != "" {
		h, err := hash.Password(reg.Password)
		if err != nil {
			return models.User{}, fmt.Errorf("hash password: %w", err)
		}
		v.PasswordHash = h
	}

	v, err := s.Store.RegisterVendor(ctx, v)
	if err != nil {
		return models.User{}, err
	}
	s.publish(ctx, events.TopicAdmin, v.ID, map[string]any{
		"type":     events.VendorRegistered,
		"vendorID": v.ID,
	})
	return v, nil
}
