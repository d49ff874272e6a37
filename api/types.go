package api

import (
	"github.com/pellesoderberg/product-review-crew/search"
	"github.com/pellesoderberg/product-review-crew/store"
)

type ReviewResponse struct {
	Review   *store.Review   `json:"review"`
	Products []store.Product `json:"products"`
}

type CategoryResponse struct {
	Reviews []store.Review `json:"reviews"`
}

type SearchResponse struct {
	Products []store.Product `json:"products"`
	Reviews  []store.Review  `json:"reviews"`
}

type SuggestionsResponse struct {
	Suggestions []search.Suggestion `json:"suggestions"`
}

type ReviewForProductResponse struct {
	ReviewSlug  string `json:"reviewSlug"`
	ReviewTitle string `json:"reviewTitle"`
}
