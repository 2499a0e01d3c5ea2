package service

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/Skotchmaster/meneric/internal/events"
	"github.com/Skotchmaster/meneric/internal/hash"
	"github.com/Skotchmaster/meneric/internal/models"
)

// MasterAdminID names the seeded admin account, which cannot be removed.
const MasterAdminID = "admin-master"

const idAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

func adminID() string {
	b := make([]byte, 9)
	for i := range b {
		b[i] = idAlphabet[rand.IntN(len(idAlphabet))]
	}
	return "admin-" + string(b)
}

type AdminOverview struct {
	Vendors        int `json:"vendors"`
	PendingVendors int `json:"pendingVendors"`
	Products       int `json:"products"`
	Admins         int `json:"admins"`
	Orders         int `json:"orders"`
}

func (s *ShopService) AdminOverview(ctx context.Context, actor Actor) (AdminOverview, error) {
	if err := requireRole(actor, models.RoleAdmin); err != nil {
		return AdminOverview{}, err
	}
	st := s.Store.State()
	out := AdminOverview{
		Vendors:  len(st.Vendors),
		Products: len(st.Products),
		Admins:   len(st.Admins),
		Orders:   len(st.Orders),
	}
	for _, v := range st.Vendors {
		if !v.Approved() {
			out.PendingVendors++
		}
	}
	return out, nil
}

func (s *ShopService) Vendors(ctx context.Context, actor Actor) ([]models.User, error) {
	if err := requireRole(actor, models.RoleAdmin); err != nil {
		return nil, err
	}
	return s.Store.Vendors(), nil
}

func (s *ShopService) SetVendorApproval(ctx context.Context, actor Actor, vendorID string, approved bool) (models.User, error) {
	if err := requireRole(actor, models.RoleAdmin); err != nil {
		return models.User{}, err
	}
	v, err := s.Store.UpdateVendorApproval(ctx, vendorID, approved)
	if err != nil {
		return models.User{}, err
	}
	s.publish(ctx, events.TopicAdmin, vendorID, map[string]any{
		"type":     events.VendorApprovalUpdated,
		"vendorID": vendorID,
		"approved": approved,
		"userID":   actor.ID,
	})
	return v, nil
}

func (s *ShopService) Admins(ctx context.Context, actor Actor) ([]models.User, error) {
	if err := requireRole(actor, models.RoleAdmin); err != nil {
		return nil, err
	}
	return s.Store.Admins(), nil
}

type AdminInput struct {
	Name     string
	Email    string
	Password string
}

func (s *ShopService) AddAdmin(ctx context.Context, actor Actor, in AdminInput) (models.User, error) {
	if err := requireRole(actor, models.RoleAdmin); err != nil {
		return models.User{}, err
	}
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Email) == "" || in.Password == "" {
		return models.User{}, fmt.Errorf("name, email and password are required: %w", ErrValidation)
	}
	for _, a := range s.Store.Admins() {
		if strings.EqualFold(a.Email, strings.TrimSpace(in.Email)) {
			return models.User{}, fmt.Errorf("admin email %q: %w", in.Email, ErrConflict)
		}
	}

	h, err := hash.Password(in.Password)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}
	admin := models.User{
		ID:           adminID(),
		Name:         strings.TrimSpace(in.Name),
		Email:        strings.TrimSpace(in.Email),
		Role:         models.RoleAdmin,
		PasswordHash: h,
	}
	if err := s.Store.AddAdmin(ctx, admin); err != nil {
		return models.User{}, err
	}

	s.publish(ctx, events.TopicAdmin, admin.ID, map[string]any{
		"type":    events.AdminAdded,
		"adminID": admin.ID,
		"userID":  actor.ID,
	})
	return admin, nil
}

// RemoveAdmin ignores unknown ids. The master account is protected.
func (s *ShopService) RemoveAdmin(ctx context.Context, actor Actor, id string) error {
	if err := requireRole(actor, models.RoleAdmin); err != nil {
		return err
	}
	if id == MasterAdminID {
		return fmt.Errorf("master admin cannot be removed: %w", ErrForbidden)
	}
	if err := s.Store.RemoveAdmin(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, events.TopicAdmin, id, map[string]any{
		"type":    events.AdminRemoved,
		"adminID": id,
		"userID":  actor.ID,
	})
	return nil
}
