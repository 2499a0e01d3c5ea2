package store

import (
	"fmt"
	"math/rand/v2"

	"github.com/Skotchmaster/meneric/internal/models"
)

const (
	// Orders with a subtotal strictly above this ship for free.
	FreeDeliveryThreshold int64 = 500
	DeliveryFee           int64 = 49
)

type Summary struct {
	Items       int   `json:"items"`
	Subtotal    int64 `json:"subtotal"`
	DeliveryFee int64 `json:"deliveryFee"`
	Total       int64 `json:"total"`
}

// Price applies the checkout rule to cart lines. An empty cart costs nothing.
func Price(items []models.CartItem) Summary {
	if len(items) == 0 {
		return Summary{}
	}

	var sum Summary
	for _, it := range items {
		sum.Items += it.Quantity
		sum.Subtotal += it.LineTotal()
	}
	if sum.Subtotal <= FreeDeliveryThreshold {
		sum.DeliveryFee = DeliveryFee
	}
	sum.Total = sum.Subtotal + sum.DeliveryFee
	return sum
}

func randomOrderID() string {
	return fmt.Sprintf("ORD-%d", rand.IntN(90000)+10000)
}
