package models

type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleVendor   Role = "VENDOR"
	RoleAdmin    Role = "ADMIN"
)

type OrderStatus string

const (
	OrderStatusProcessing OrderStatus = "Processing"
	OrderStatusShipped    OrderStatus = "Shipped"
	OrderStatusDelivered  OrderStatus = "Delivered"
	OrderStatusCancelled  OrderStatus = "Cancelled"
)

// TimestampLayout matches the millisecond ISO form the persisted blob has
// always used for order dates. Review dates use DateLayout.
const (
	TimestampLayout = "2006-01-02T15:04:05.000Z07:00"
	DateLayout      = "2006-01-02"
)

type User struct {
	ID           string `json:"id"                     yaml:"id"`
	Phone        string `json:"phone,omitempty"        yaml:"phone"`
	Email        string `json:"email,omitempty"        yaml:"email"`
	Name         string `json:"name"                   yaml:"name"`
	Role         Role   `json:"role"                   yaml:"role"`
	StoreName    string `json:"storeName,omitempty"    yaml:"storeName"`
	IsApproved   *bool  `json:"isApproved,omitempty"   yaml:"isApproved"`
	PasswordHash string `json:"passwordHash,omitempty" yaml:"-"`
}

// Approved reports the vendor approval flag. Non-vendors are never approved.
func (u User) Approved() bool {
	return u.Role == RoleVendor && u.IsApproved != nil && *u.IsApproved
}

// DisplayStore is the name shown next to a vendor's products.
func (u User) DisplayStore() string {
	if u.StoreName != "" {
		return u.StoreName
	}
	return u.Name
}

type Review struct {
	ID       string `json:"id"       yaml:"id"`
	UserName string `json:"userName" yaml:"userName"`
	Rating   int    `json:"rating"   yaml:"rating"`
	Comment  string `json:"comment"  yaml:"comment"`
	Date     string `json:"date"     yaml:"date"`
}

type Product struct {
	ID          string   `json:"id"          yaml:"id"`
	VendorID    string   `json:"vendorId"    yaml:"vendorId"`
	VendorName  string   `json:"vendorName"  yaml:"vendorName"`
	Name        string   `json:"name"        yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	Price       int64    `json:"price"       yaml:"price"`
	Category    string   `json:"category"    yaml:"category"`
	Image       string   `json:"image"       yaml:"image"`
	Stock       int      `json:"stock"       yaml:"stock"`
	Views       int      `json:"views"       yaml:"views"`
	SalesCount  int      `json:"salesCount"  yaml:"salesCount"`
	Reviews     []Review `json:"reviews"     yaml:"reviews"`
}

// Clone returns a copy that shares no review storage with p.
func (p Product) Clone() Product {
	out := p
	if p.Reviews != nil {
		out.Reviews = make([]Review, len(p.Reviews))
		copy(out.Reviews, p.Reviews)
	}
	return out
}

// AverageRating is the mean review rating, 0 without reviews.
func (p Product) AverageRating() float64 {
	if len(p.Reviews) == 0 {
		return 0
	}
	sum := 0
	for _, r := range p.Reviews {
		sum += r.Rating
	}
	return float64(sum) / float64(len(p.Reviews))
}

type CartItem struct {
	Product  `yaml:",inline"`
	Quantity int `json:"quantity" yaml:"quantity"`
}

func (c CartItem) Clone() CartItem {
	return CartItem{Product: c.Product.Clone(), Quantity: c.Quantity}
}

func (c CartItem) LineTotal() int64 {
	return c.Price * int64(c.Quantity)
}

type Order struct {
	ID         string      `json:"id"         yaml:"id"`
	CustomerID string      `json:"customerId" yaml:"customerId"`
	Items      []CartItem  `json:"items"      yaml:"items"`
	Date       string      `json:"date"       yaml:"date"`
	Total      int64       `json:"total"      yaml:"total"`
	Status     OrderStatus `json:"status"     yaml:"status"`
}

func (o Order) Clone() Order {
	out := o
	out.Items = make([]CartItem, len(o.Items))
	for i, it := range o.Items {
		out.Items[i] = it.Clone()
	}
	return out
}

// AppState is the whole storefront tree, persisted as one blob.
type AppState struct {
	CurrentUser *User      `json:"currentUser"`
	Products    []Product  `json:"products"`
	Cart        []CartItem `json:"cart"`
	Vendors     []User     `json:"vendors"`
	Admins      []User     `json:"admins"`
	Wishlist    []string   `json:"wishlist"`
	Orders      []Order    `json:"orders"`
}

// Clone deep-copies the tree. Nil collections come back as empty slices.
func (s AppState) Clone() AppState {
	out := AppState{
		Products: make([]Product, len(s.Products)),
		Cart:     make([]CartItem, len(s.Cart)),
		Vendors:  cloneUsers(s.Vendors),
		Admins:   cloneUsers(s.Admins),
		Wishlist: append([]string{}, s.Wishlist...),
		Orders:   make([]Order, len(s.Orders)),
	}
	if s.CurrentUser != nil {
		u := s.CurrentUser.Clone()
		out.CurrentUser = &u
	}
	for i, p := range s.Products {
		out.Products[i] = p.Clone()
	}
	for i, c := range s.Cart {
		out.Cart[i] = c.Clone()
	}
	for i, o := range s.Orders {
		out.Orders[i] = o.Clone()
	}
	return out
}

func (u User) Clone() User {
	if u.IsApproved != nil {
		v := *u.IsApproved
		u.IsApproved = &v
	}
	return u
}

func cloneUsers(in []User) []User {
	out := make([]User, len(in))
	for i, u := range in {
		out[i] = u.Clone()
	}
	return out
}

// Bool is a helper for optional flags.
func Bool(v bool) *bool { return &v }
