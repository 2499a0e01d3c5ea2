package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Skotchmaster/meneric/internal/events"
	"github.com/Skotchmaster/meneric/internal/models"
	"github.com/Skotchmaster/meneric/internal/util"
)

const CategoryAll = "All"

// Categories is the fixed browse list shown on the home page.
var Categories = []string{CategoryAll, "Ethnic Wear", "Electronics", "Home & Kitchen", "Accessories", "Beauty"}

// maxSearchHits bounds how many ids one search pulls from the index before
// filtering and paging.
const maxSearchHits = 1000

type ProductQuery struct {
	Query    string
	Category string
	VendorID string
	Page     int
	Size     int
}

type ProductPage struct {
	Total int              `json:"total"`
	Page  int              `json:"page"`
	Size  int              `json:"size"`
	Items []models.Product `json:"items"`
}

func (s *ShopService) ListProducts(ctx context.Context, q ProductQuery) (ProductPage, error) {
	products := s.Store.Products()

	if query := strings.TrimSpace(q.Query); query != "" {
		_, ids, err := s.Search.Search(ctx, query, 0, maxSearchHits)
		if err != nil {
			return ProductPage{}, fmt.Errorf("search products: %w", err)
		}
		byID := make(map[string]models.Product, len(products))
		for _, p := range products {
			byID[p.ID] = p
		}
		products = products[:0:0]
		for _, id := range ids {
			if p, ok := byID[id]; ok {
				products = append(products, p)
			}
		}
	}

	filtered := make([]models.Product, 0, len(products))
	for _, p := range products {
		if q.Category != "" && q.Category != CategoryAll && p.Category != q.Category {
			continue
		}
		if q.VendorID != "" && p.VendorID != q.VendorID {
			continue
		}
		filtered = append(filtered, p)
	}

	offset, limit := util.Calculate(q.Page, q.Size)
	start, end := util.Window(len(filtered), offset, limit)
	return ProductPage{
		Total: len(filtered),
		Page:  offset/limit + 1,
		Size:  limit,
		Items: filtered[start:end],
	}, nil
}

func (s *ShopService) GetProduct(ctx context.Context, id string) (models.Product, error) {
	return s.Store.Product(id)
}

// AddReview attaches a review written by the actor. Ratings outside 1..5 are
// clamped.
func (s *ShopService) AddReview(ctx context.Context, actor Actor, productID string, rating int, comment string) (models.Product, error) {
	if !actor.Authenticated() {
		return models.Product{}, ErrNotAuthenticated
	}
	comment = strings.TrimSpace(comment)
	if comment == "" {
		return models.Product{}, fmt.Errorf("comment is required: %w", ErrValidation)
	}

	name := actor.Name
	if u, ok := s.Store.CurrentUser(); ok && u.ID == actor.ID && u.Name != "" {
		name = u.Name
	}

	review := models.Review{
		ID:       newID(),
		UserName: name,
		Rating:   min(max(rating, 1), 5),
		Comment:  comment,
		Date:     s.now().UTC().Format(models.DateLayout),
	}
	p, err := s.Store.AddReview(ctx, productID, review)
	if err != nil {
		return models.Product{}, err
	}

	s.publish(ctx, events.TopicProduct, productID, map[string]any{
		"type":      events.ReviewAdded,
		"productID": productID,
		"reviewID":  review.ID,
		"rating":    review.Rating,
		"userID":    actor.ID,
	})
	return p, nil
}
