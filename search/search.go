// Package search provides substring matching over product names and review
// titles for the search box and its type-ahead suggestions.
package search

import (
	"context"
	"log/slog"

	"github.com/pellesoderberg/product-review-crew/store"
)

const (
	suggestionLimit = 3
	productLimit    = 10
	reviewLimit     = 5
)

// Store is the slice of the document store the suggester needs.
type Store interface {
	SearchProducts(ctx context.Context, query string, limit int) ([]store.Product, error)
	SearchReviews(ctx context.Context, query string, limit int) ([]store.Review, error)
}

// Suggestion is a single type-ahead entry.
type Suggestion struct {
	Text string `json:"text"`
	Type string `json:"type"`
}

const (
	TypeProduct = "PRODUCT"
	TypeReview  = "REVIEW"
)

type Suggester struct {
	store Store
	log   *slog.Logger
}

func New(s Store, log *slog.Logger) *Suggester {
	if log == nil {
		log = slog.Default()
	}
	return &Suggester{store: s, log: log}
}

// Suggest returns up to three matching titles per resource kind for a
// partial query. Store failures degrade to an empty list.
func (s *Suggester) Suggest(ctx context.Context, query string) []Suggestion {
	suggestions := []Suggestion{}

	products, err := s.store.SearchProducts(ctx, query, suggestionLimit)
	if err != nil {
		s.log.Error("product suggestion search failed", "query", query, "error", err)
	}
	for _, p := range products {
		suggestions = append(suggestions, Suggestion{Text: p.ProductName, Type: TypeProduct})
	}

	reviews, err := s.store.SearchReviews(ctx, query, suggestionLimit)
	if err != nil {
		s.log.Error("review suggestion search failed", "query", query, "error", err)
	}
	for _, r := range reviews {
		suggestions = append(suggestions, Suggestion{Text: r.ReviewTitle, Type: TypeReview})
	}

	return suggestions
}

// Search returns full matching documents, capped per kind.
func (s *Suggester) Search(ctx context.Context, query string) ([]store.Product, []store.Review) {
	products, err := s.store.SearchProducts(ctx, query, productLimit)
	if err != nil {
		s.log.Error("product search failed", "query", query, "error", err)
		products = nil
	}

	reviews, err := s.store.SearchReviews(ctx, query, reviewLimit)
	if err != nil {
		s.log.Error("review search failed", "query", query, "error", err)
		reviews = nil
	}

	if products == nil {
		products = []store.Product{}
	}
	if reviews == nil {
		reviews = []store.Review{}
	}
	return products, reviews
}
