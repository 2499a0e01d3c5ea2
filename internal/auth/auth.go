// Package auth implements the storefront's simulated sign-in flows: phone OTP
// for shoppers, password login for vendors and admins.
package auth

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/Skotchmaster/meneric/internal/events"
	"github.com/Skotchmaster/meneric/internal/hash"
	"github.com/Skotchmaster/meneric/internal/models"
	"github.com/Skotchmaster/meneric/internal/store"
	"github.com/Skotchmaster/meneric/pkg/logging"
	"github.com/Skotchmaster/meneric/pkg/tokens"
)

var (
	ErrInvalidPhone       = errors.New("invalid phone")
	ErrOTPCooldown        = errors.New("otp requested too recently")
	ErrInvalidOTP         = errors.New("invalid otp")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotFound           = errors.New("not found")
)

const (
	OTPTTL      = 5 * time.Minute
	OTPCooldown = 30 * time.Second

	DemoVendorEmail = "vendor@meneric.com"
	DemoPassword    = "admin123"
)

var (
	shopper = models.User{ID: "u1", Name: "Meneric Shopper", Role: models.RoleCustomer}

	demoVendor = models.User{
		ID:         "v1",
		Name:       "Demo Vendor",
		Role:       models.RoleVendor,
		StoreName:  "Fab Fashions",
		IsApproved: models.Bool(true),
	}
)

type otpEntry struct {
	code      string
	expiresAt time.Time
	sentAt    time.Time
}

// Session is a signed-in user with the access token that proves it.
type Session struct {
	User      models.User
	Token     string
	ExpiresAt time.Time
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithCodes(gen func() string) Option {
	return func(s *Service) { s.newCode = gen }
}

type Service struct {
	Store     *store.Store
	JWTSecret []byte
	Events    events.Publisher

	now     func() time.Time
	newCode func() string

	mu   sync.Mutex
	otps map[string]otpEntry
}

func NewService(st *store.Store, secret []byte, pub events.Publisher, opts ...Option) *Service {
	if pub == nil {
		pub = events.Nop{}
	}
	s := &Service{
		Store:     st,
		JWTSecret: secret,
		Events:    pub,
		now:       time.Now,
		newCode:   randomCode,
		otps:      make(map[string]otpEntry),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func randomCode() string {
	return fmt.Sprintf("%06d", rand.IntN(900000)+100000)
}

func validPhone(phone string) bool {
	if len(phone) != 10 {
		return false
	}
	for _, r := range phone {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// SendOTP issues a fresh code for phone and returns it; delivery is simulated.
func (s *Service) SendOTP(ctx context.Context, phone string) (string, error) {
	l := logging.FromContext(ctx).With("svc", "auth.send_otp")

	if !validPhone(phone) {
		return "", fmt.Errorf("phone must be 10 digits: %w", ErrInvalidPhone)
	}

	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.otps[phone]; ok && now.Sub(prev.sentAt) < OTPCooldown {
		wait := OTPCooldown - now.Sub(prev.sentAt)
		return "", fmt.Errorf("retry in %s: %w", wait.Round(time.Second), ErrOTPCooldown)
	}

	code := s.newCode()
	s.otps[phone] = otpEntry{code: code, sentAt: now, expiresAt: now.Add(OTPTTL)}
	l.Info("otp_sent", "phone_suffix", phone[len(phone)-4:])
	return code, nil
}

// VerifyOTP consumes the code and signs the shopper in.
func (s *Service) VerifyOTP(ctx context.Context, phone, code string) (Session, error) {
	now := s.now()

	s.mu.Lock()
	entry, ok := s.otps[phone]
	valid := ok && entry.code == code && now.Before(entry.expiresAt)
	if valid || (ok && !now.Before(entry.expiresAt)) {
		delete(s.otps, phone)
	}
	s.mu.Unlock()

	if !valid {
		return Session{}, ErrInvalidOTP
	}

	u := shopper
	u.Phone = phone
	return s.login(ctx, u)
}

// VendorLogin matches a vendor by email or phone. Vendors without a stored
// password accept the demo password.
func (s *Service) VendorLogin(ctx context.Context, login, password string) (Session, error) {
	login = strings.TrimSpace(login)
	if login == "" {
		return Session{}, ErrInvalidCredentials
	}

	for _, v := range s.Store.Vendors() {
		if v.Email != login && v.Phone != login {
			continue
		}
		if vendorPasswordOK(v, password) {
			return s.login(ctx, v)
		}
		break
	}

	if strings.EqualFold(login, DemoVendorEmail) && password == DemoPassword {
		u := demoVendor.Clone()
		u.Email = DemoVendorEmail
		return s.login(ctx, u)
	}
	return Session{}, ErrInvalidCredentials
}

func vendorPasswordOK(v models.User, password string) bool {
	if v.PasswordHash == "" {
		return password == DemoPassword
	}
	return hash.Matches(v.PasswordHash, password)
}

func (s *Service) AdminLogin(ctx context.Context, email, password string) (Session, error) {
	email = strings.TrimSpace(email)
	for _, a := range s.Store.Admins() {
		if email != "" && strings.EqualFold(a.Email, email) && hash.Matches(a.PasswordHash, password) {
			return s.login(ctx, a)
		}
	}
	return Session{}, ErrInvalidCredentials
}

// RequestVendorReset reports whether a reset link would be sent to email.
func (s *Service) RequestVendorReset(ctx context.Context, email string) error {
	l := logging.FromContext(ctx).With("svc", "auth.vendor_reset")

	email = strings.TrimSpace(email)
	if strings.EqualFold(email, DemoVendorEmail) {
		l.Info("reset_link_sent", "email", email)
		return nil
	}
	for _, v := range s.Store.Vendors() {
		if email != "" && strings.EqualFold(v.Email, email) {
			l.Info("reset_link_sent", "email", email)
			return nil
		}
	}
	return fmt.Errorf("vendor %q: %w", email, ErrNotFound)
}

// Logout ends the store session when userID owns it. Another user's session
// is left alone.
func (s *Service) Logout(ctx context.Context, userID string) error {
	ended, err := s.Store.LogoutUser(ctx, userID)
	if err != nil {
		return err
	}
	if ended {
		s.publish(ctx, events.TopicUser, userID, map[string]any{
			"type":   events.UserLoggedOut,
			"userID": userID,
		})
	}
	return nil
}

func (s *Service) login(ctx context.Context, u models.User) (Session, error) {
	if err := s.Store.Login(ctx, u); err != nil {
		return Session{}, err
	}

	exp := time.Now().Add(tokens.AccessTTL)
	tok, err := tokens.SignAccess(u.ID, string(u.Role), u.Name, exp, s.JWTSecret)
	if err != nil {
		return Session{}, fmt.Errorf("sign access token: %w", err)
	}

	s.publish(ctx, events.TopicUser, u.ID, map[string]any{
		"type":   events.UserLoggedIn,
		"userID": u.ID,
		"role":   string(u.Role),
	})
	return Session{User: u, Token: tok, ExpiresAt: exp}, nil
}

func (s *Service) publish(ctx context.Context, topic, key string, event map[string]any) {
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), events.PublishTimeout)
	defer cancel()
	if err := s.Events.Publish(pctx, topic, key, event); err != nil {
		logging.FromContext(ctx).Error("publish_error", "topic", topic, "error", err)
	}
}
