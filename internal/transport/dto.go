package transport

import (
	"time"

	"github.com/Skotchmaster/meneric/internal/models"
)

// UserResponse is a user as shown to clients; password hashes never leave
// the service.
type UserResponse struct {
	ID         string      `json:"id"`
	Phone      string      `json:"phone,omitempty"`
	Email      string      `json:"email,omitempty"`
	Name       string      `json:"name"`
	Role       models.Role `json:"role"`
	StoreName  string      `json:"storeName,omitempty"`
	IsApproved *bool       `json:"isApproved,omitempty"`
}

func NewUserResponse(u models.User) UserResponse {
	return UserResponse{
		ID:         u.ID,
		Phone:      u.Phone,
		Email:      u.Email,
		Name:       u.Name,
		Role:       u.Role,
		StoreName:  u.StoreName,
		IsApproved: u.IsApproved,
	}
}

func NewUserResponses(us []models.User) []UserResponse {
	out := make([]UserResponse, len(us))
	for i, u := range us {
		out[i] = NewUserResponse(u)
	}
	return out
}

type SessionResponse struct {
	User      UserResponse `json:"user"`
	ExpiresAt time.Time    `json:"expiresAt"`
}

type SendOTPRequest struct {
	Phone string `json:"phone"`
}

type SendOTPResponse struct {
	Message         string `json:"message"`
	Code            string `json:"code"`
	ResendAfterSecs int    `json:"resendAfterSeconds"`
}

type VerifyOTPRequest struct {
	Phone string `json:"phone"`
	Code  string `json:"code"`
}

type VendorLoginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type AdminLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ResetRequest struct {
	Email string `json:"email"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type AddToCartRequest struct {
	ProductID string `json:"productId"`
}

type UpdateQuantityRequest struct {
	Delta int `json:"delta"`
}

type WishlistToggleResponse struct {
	ProductID  string `json:"productId"`
	InWishlist bool   `json:"inWishlist"`
}

type CreateProductRequest struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	Category    string `json:"category"`
	Image       string `json:"image"`
	Stock       int    `json:"stock"`
}

type PatchProductRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Price       *int64  `json:"price"`
	Category    *string `json:"category"`
	Image       *string `json:"image"`
	Stock       *int    `json:"stock"`
}

type ReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

type DescribeRequest struct {
	Name     string `json:"name"`
	Category string `json:"category"`
}

type DescribeResponse struct {
	Description string `json:"description"`
}

type VendorRegistrationRequest struct {
	Name      string `json:"name"`
	StoreName string `json:"storeName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Password  string `json:"password"`
}

type ApprovalRequest struct {
	Approved bool `json:"approved"`
}

type CreateAdminRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}
