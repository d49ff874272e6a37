package api

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/time/rate"

	"github.com/pellesoderberg/product-review-crew/cache"
	"github.com/pellesoderberg/product-review-crew/resolver"
	"github.com/pellesoderberg/product-review-crew/search"
	"github.com/pellesoderberg/product-review-crew/store"
)

// Store is the slice of the document store the handlers query directly;
// everything else goes through the resolver.
type Store interface {
	ReviewsByCategoryPattern(ctx context.Context, category string) ([]store.Review, error)
	ReviewByTitle(ctx context.Context, title string) (*store.Review, error)
	ReviewByCategory(ctx context.Context, category string) (*store.Review, error)
	ReviewContainingProduct(ctx context.Context, productID string) (*store.Review, error)
	ProductByID(ctx context.Context, id primitive.ObjectID) (*store.Product, error)
}

type Deps struct {
	Resolver  *resolver.Resolver
	Suggester *search.Suggester
	Store     Store
	Cache     cache.Cache
	Logger    *slog.Logger
	RateLimit float64
	RateBurst int
}

type API struct {
	engine *gin.Engine
}

func setupRouter(d Deps) *gin.Engine {
	r := gin.Default()

	if d.RateLimit > 0 {
		limiter := rate.NewLimiter(rate.Limit(d.RateLimit), d.RateBurst)
		r.Use(func(c *gin.Context) {
			if !limiter.Allow() {
				c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests"})
				return
			}
			c.Next()
		})
	}

	// Ping test
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	// Resolve a review by slug, store ID or category phrase
	r.GET("/api/review/:identifier", func(c *gin.Context) {
		identifier := strings.TrimSpace(c.Params.ByName("identifier"))
		if identifier == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Review identifier is required"})
			return
		}

		if cached, ok := d.Cache.Get(identifier); ok {
			c.JSON(http.StatusOK, cached)
			return
		}

		res := d.Resolver.ResolveReview(c.Request.Context(), identifier)
		switch res.Kind {
		case resolver.Redirect:
			// One canonical URL per review: never serve content at the
			// ID path when a slug exists.
			c.Redirect(http.StatusMovedPermanently, "/api/review/"+url.PathEscape(res.CanonicalSlug))
		case resolver.Found:
			response := ReviewResponse{Review: res.Review, Products: res.Products}
			d.Cache.Set(identifier, response)
			c.JSON(http.StatusOK, response)
		default:
			c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
		}
	})

	// List reviews in a category
	r.GET("/api/category/:category", func(c *gin.Context) {
		category := strings.TrimSpace(c.Params.ByName("category"))
		if category == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Category parameter is required"})
			return
		}

		reviews, err := d.Store.ReviewsByCategoryPattern(c.Request.Context(), category)
		if err != nil {
			d.Logger.Error("category lookup failed", "category", category, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch category data"})
			return
		}
		if reviews == nil {
			reviews = []store.Review{}
		}
		c.JSON(http.StatusOK, CategoryResponse{Reviews: reviews})
	})

	// Search products and reviews, optionally as type-ahead suggestions
	r.GET("/api/search", func(c *gin.Context) {
		query := strings.TrimSpace(c.Query("q"))
		suggestions := c.Query("suggestions") == "true"

		if suggestions {
			response := SuggestionsResponse{Suggestions: []search.Suggestion{}}
			if query != "" {
				response.Suggestions = d.Suggester.Suggest(c.Request.Context(), query)
			}
			c.JSON(http.StatusOK, response)
			return
		}

		response := SearchResponse{Products: []store.Product{}, Reviews: []store.Review{}}
		if query != "" {
			response.Products, response.Reviews = d.Suggester.Search(c.Request.Context(), query)
		}
		c.JSON(http.StatusOK, response)
	})

	// Find the comparison review a product belongs to
	r.GET("/api/find-review-for-product", func(c *gin.Context) {
		productID := c.Query("productId")
		if productID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Product ID is required"})
			return
		}

		var product *store.Product
		if id, err := primitive.ObjectIDFromHex(productID); err == nil {
			var lookupErr error
			product, lookupErr = d.Store.ProductByID(c.Request.Context(), id)
			if lookupErr != nil {
				d.Logger.Error("product lookup failed", "productId", productID, "error", lookupErr)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
				return
			}
		}
		if product == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}

		review, err := d.Store.ReviewByCategory(c.Request.Context(), product.Category)
		if err != nil {
			d.Logger.Error("review lookup failed", "category", product.Category, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
			return
		}
		if review == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "No review found for this product"})
			return
		}

		slug := review.Slug
		if slug == "" {
			slug = review.ID.Hex()
		}
		c.JSON(http.StatusOK, ReviewForProductResponse{
			ReviewSlug:  slug,
			ReviewTitle: review.ReviewTitle,
		})
	})

	// Redirect to the review containing a product, anchored on the product
	r.GET("/api/redirect-to-review", func(c *gin.Context) {
		productID := c.Query("productId")
		if productID == "" {
			c.Redirect(http.StatusFound, "/search")
			return
		}

		review, err := d.Store.ReviewContainingProduct(c.Request.Context(), productID)
		if err != nil {
			d.Logger.Error("review lookup by product failed", "productId", productID, "error", err)
			c.Redirect(http.StatusFound, "/search")
			return
		}
		if review == nil {
			c.Redirect(http.StatusFound, "/search?q="+url.QueryEscape(productID))
			return
		}

		slug := d.Resolver.EnsureSlug(c.Request.Context(), review)
		c.Redirect(http.StatusFound, "/review/"+url.PathEscape(slug)+"#product-"+productID)
	})

	// Legacy title lookup: redirect to the review's canonical slug path
	r.GET("/api/search/getReviewByTitle", func(c *gin.Context) {
		title := c.Query("title")
		if title == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Title parameter is required"})
			return
		}

		review, err := d.Store.ReviewByTitle(c.Request.Context(), title)
		if err != nil {
			d.Logger.Error("review lookup by title failed", "title", title, "error", err)
		}
		if review == nil {
			c.Redirect(http.StatusFound, "/search?q="+url.QueryEscape(title))
			return
		}

		slug := d.Resolver.EnsureSlug(c.Request.Context(), review)
		c.Redirect(http.StatusFound, "/review/"+url.PathEscape(slug))
	})

	return r
}

func New(deps Deps) (*API, error) {
	if deps.Cache == nil {
		deps.Cache = cache.Noop{}
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &API{
		engine: setupRouter(deps),
	}, nil
}

func (a *API) Run(port string) {
	a.engine.Run(":" + port)
}

// Handler exposes the router for tests.
func (a *API) Handler() http.Handler {
	return a.engine
}
