// Package resolver maps user-supplied identifiers (slugs, raw store IDs,
// category-derived phrases) to canonical review and product documents,
// applying an ordered chain of fallback strategies.
package resolver

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/pellesoderberg/product-review-crew/store"
)

// categoryProductLimit caps the fallback product lookup for reviews that
// carry no product references.
const categoryProductLimit = 3

// Store is the slice of the document store the resolver needs.
type Store interface {
	ReviewBySlug(ctx context.Context, slug string) (*store.Review, error)
	ReviewBySlugSubstring(ctx context.Context, text string) (*store.Review, error)
	ReviewByID(ctx context.Context, id primitive.ObjectID) (*store.Review, error)
	ReviewByCategorySubstring(ctx context.Context, text string) (*store.Review, error)
	ReviewByCategory(ctx context.Context, category string) (*store.Review, error)
	ReviewContainingProduct(ctx context.Context, productID string) (*store.Review, error)
	ReviewsByCategory(ctx context.Context, category string, exclude primitive.ObjectID, limit int) ([]store.Review, error)
	LatestReviews(ctx context.Context, excludeCategory string, limit int) ([]store.Review, error)
	SetReviewSlug(ctx context.Context, id primitive.ObjectID, slug string) error
	ProductBySlug(ctx context.Context, slug string) (*store.Product, error)
	ProductByNamePattern(ctx context.Context, pattern string) (*store.Product, error)
	ProductsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]store.Product, error)
	ProductsByCategory(ctx context.Context, category string, limit int) ([]store.Product, error)
}

// Kind tells the caller what a resolution produced.
type Kind int

const (
	// NotFound means no strategy matched.
	NotFound Kind = iota
	// Found carries the review and its product list.
	Found
	// Redirect means the caller must redirect to the canonical slug path
	// instead of rendering at the identifier it was given.
	Redirect
)

// Resolution is the outcome of resolving a review identifier.
type Resolution struct {
	Kind     Kind
	Review   *store.Review
	Products []store.Product
	// CanonicalSlug is set for Redirect outcomes.
	CanonicalSlug string
}

type Resolver struct {
	store Store
	log   *slog.Logger
}

func New(s Store, log *slog.Logger) *Resolver {
	if log == nil {
		log = slog.Default()
	}
	return &Resolver{store: s, log: log}
}

// ResolveReview tries, in order: exact slug, slug substring, store ID,
// inferred category. A review found by ID that carries a slug yields a
// Redirect so the slug path stays the one canonical URL. Store failures
// degrade to NotFound.
func (r *Resolver) ResolveReview(ctx context.Context, identifier string) Resolution {
	review, err := r.store.ReviewBySlug(ctx, identifier)
	if err != nil {
		r.log.Error("review lookup by slug failed", "identifier", identifier, "error", err)
		return Resolution{Kind: NotFound}
	}

	if review == nil {
		review, err = r.store.ReviewBySlugSubstring(ctx, identifier)
		if err != nil {
			r.log.Error("review lookup by slug substring failed", "identifier", identifier, "error", err)
			return Resolution{Kind: NotFound}
		}
	}

	if review == nil {
		if id, idErr := primitive.ObjectIDFromHex(identifier); idErr == nil {
			review, err = r.store.ReviewByID(ctx, id)
			if err != nil {
				r.log.Error("review lookup by id failed", "identifier", identifier, "error", err)
				return Resolution{Kind: NotFound}
			}
			if review != nil && review.Slug != "" {
				return Resolution{Kind: Redirect, CanonicalSlug: review.Slug}
			}
		}
	}

	if review == nil {
		phrase := InferCategory(identifier)
		review, err = r.store.ReviewByCategorySubstring(ctx, phrase)
		if err != nil {
			r.log.Error("review lookup by category failed", "identifier", identifier, "category", phrase, "error", err)
			return Resolution{Kind: NotFound}
		}
	}

	if review == nil {
		return Resolution{Kind: NotFound}
	}

	return Resolution{
		Kind:     Found,
		Review:   review,
		Products: r.productsForReview(ctx, review),
	}
}

// productsForReview fetches the products a review references, dropping
// malformed and dangling IDs, or falls back to same-category products when
// the review references none. The result is always stable-sorted by
// ranking, unranked last.
func (r *Resolver) productsForReview(ctx context.Context, review *store.Review) []store.Product {
	var products []store.Product

	if len(review.Products) > 0 {
		ids := make([]primitive.ObjectID, 0, len(review.Products))
		for _, ref := range review.Products {
			id, err := primitive.ObjectIDFromHex(ref.ProductID)
			if err != nil {
				continue
			}
			ids = append(ids, id)
		}
		found, err := r.store.ProductsByIDs(ctx, ids)
		if err != nil {
			r.log.Error("referenced product fetch failed", "review", review.ID.Hex(), "error", err)
		} else {
			products = found
		}
	} else {
		found, err := r.store.ProductsByCategory(ctx, review.Category, categoryProductLimit)
		if err != nil {
			r.log.Error("category product fetch failed", "review", review.ID.Hex(), "error", err)
		} else {
			products = found
		}
	}

	if products == nil {
		products = []store.Product{}
	}
	sort.SliceStable(products, func(i, j int) bool {
		return products[i].RankOrder() < products[j].RankOrder()
	})
	return products
}

// ResolveProduct finds a product by exact slug, falling back to a
// dash-wildcard match against the product name. The fallback is lossy;
// the store breaks ties by oldest creation time.
func (r *Resolver) ResolveProduct(ctx context.Context, slug string) *store.Product {
	product, err := r.store.ProductBySlug(ctx, slug)
	if err != nil {
		r.log.Error("product lookup by slug failed", "slug", slug, "error", err)
		return nil
	}
	if product != nil {
		return product
	}

	pattern := strings.ReplaceAll(slug, "-", ".*")
	product, err = r.store.ProductByNamePattern(ctx, pattern)
	if err != nil {
		r.log.Error("product lookup by name pattern failed", "slug", slug, "error", err)
		return nil
	}
	return product
}

// ReviewPathForProduct returns the path segment of the review a product
// page should link back to: a review referencing the product, else one in
// the same category, else a synthesized best-<category>-compared slug. The
// synthesized path may not resolve; that is accepted.
func (r *Resolver) ReviewPathForProduct(ctx context.Context, product *store.Product) string {
	review, err := r.store.ReviewContainingProduct(ctx, product.ID.Hex())
	if err != nil {
		r.log.Error("review lookup by product reference failed", "product", product.ID.Hex(), "error", err)
	}

	if review == nil && product.Category != "" {
		review, err = r.store.ReviewByCategory(ctx, product.Category)
		if err != nil {
			r.log.Error("review lookup by product category failed", "product", product.ID.Hex(), "error", err)
		}
	}

	if review != nil {
		if review.Slug != "" {
			return review.Slug
		}
		return review.ID.Hex()
	}

	category := product.Category
	if category == "" {
		category = "products"
	}
	return "best-" + Slugify(category) + "-compared"
}

// EnsureSlug returns the review's slug, deriving one from the title and
// persisting it when absent. Derivation is deterministic and the write is
// an idempotent overwrite, so concurrent callers need no coordination.
func (r *Resolver) EnsureSlug(ctx context.Context, review *store.Review) string {
	if review.Slug != "" {
		return review.Slug
	}

	slug := Slugify(review.ReviewTitle)
	if slug == "" {
		return review.ID.Hex()
	}

	if err := r.store.SetReviewSlug(ctx, review.ID, slug); err != nil {
		r.log.Error("slug persist failed", "review", review.ID.Hex(), "slug", slug, "error", err)
	}
	review.Slug = slug
	return slug
}

// RelatedReviews returns up to limit reviews in the same category,
// excluding the given review. Order is store-native.
func (r *Resolver) RelatedReviews(ctx context.Context, category string, excludeID primitive.ObjectID, limit int) []store.Review {
	reviews, err := r.store.ReviewsByCategory(ctx, category, excludeID, limit)
	if err != nil {
		r.log.Error("related review lookup failed", "category", category, "error", err)
		return nil
	}
	return reviews
}

// LatestReviews returns up to limit reviews outside the given category,
// newest first.
func (r *Resolver) LatestReviews(ctx context.Context, excludeCategory string, limit int) []store.Review {
	reviews, err := r.store.LatestReviews(ctx, excludeCategory, limit)
	if err != nil {
		r.log.Error("latest review lookup failed", "excludeCategory", excludeCategory, "error", err)
		return nil
	}
	return reviews
}
