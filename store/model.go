package store

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UnrankedSentinel is the sort key substituted for products without a
// ranking so they always order after ranked ones.
const UnrankedSentinel = 999

// Product is a single reviewed product from the product_reviews collection.
type Product struct {
	ID            primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Slug          string             `json:"slug,omitempty" bson:"slug,omitempty"`
	ProductName   string             `json:"productName" bson:"productName"`
	Category      string             `json:"category,omitempty" bson:"category,omitempty"`
	Award         string             `json:"award,omitempty" bson:"award,omitempty"`
	Ranking       *int               `json:"ranking,omitempty" bson:"ranking,omitempty"`
	Image         string             `json:"image,omitempty" bson:"image,omitempty"`
	Link          string             `json:"link,omitempty" bson:"link,omitempty"`
	AffiliateLink string             `json:"affiliateLink,omitempty" bson:"affiliateLink,omitempty"`
	Price         string             `json:"price,omitempty" bson:"price,omitempty"`
	PriceRange    string             `json:"priceRange,omitempty" bson:"priceRange,omitempty"`
	ShortSummary  string             `json:"shortSummary,omitempty" bson:"shortSummary,omitempty"`
	ReviewText    string             `json:"review,omitempty" bson:"review,omitempty"`
	Pros          []string           `json:"pros" bson:"pros,omitempty"`
	Cons          []string           `json:"cons" bson:"cons,omitempty"`
	SearchString  string             `json:"productSearchString,omitempty" bson:"productSearchString,omitempty"`
	CreatedAt     time.Time          `json:"createdAt,omitempty" bson:"createdAt,omitempty"`
	UpdatedAt     time.Time          `json:"updatedAt,omitempty" bson:"updatedAt,omitempty"`
}

// RankOrder returns the product's sort key, substituting the sentinel when
// no ranking is stored.
func (p *Product) RankOrder() int {
	if p.Ranking == nil {
		return UnrankedSentinel
	}
	return *p.Ranking
}

// Normalize defaults the optional list fields so callers never see nil.
func (p *Product) Normalize() {
	if p.Pros == nil {
		p.Pros = []string{}
	}
	if p.Cons == nil {
		p.Cons = []string{}
	}
}

// ProductRef is the loosely typed product reference embedded in a review.
// The referenced product may not exist; resolution drops dangling entries.
type ProductRef struct {
	ProductID string `json:"productId" bson:"productId"`
}

// Review is a comparison review from the comparison_reviews collection.
type Review struct {
	ID               primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Slug             string             `json:"slug,omitempty" bson:"slug,omitempty"`
	ReviewTitle      string             `json:"reviewTitle" bson:"reviewTitle"`
	ReviewSummary    string             `json:"reviewSummary,omitempty" bson:"reviewSummary,omitempty"`
	Category         string             `json:"category,omitempty" bson:"category,omitempty"`
	ComparisonReview string             `json:"comparisonReview,omitempty" bson:"comparisonReview,omitempty"`
	Products         []ProductRef       `json:"products" bson:"products,omitempty"`
	Tags             []string           `json:"tags,omitempty" bson:"tags,omitempty"`
	MetaTitle        string             `json:"metaTitle,omitempty" bson:"metaTitle,omitempty"`
	MetaDescription  string             `json:"metaDescription,omitempty" bson:"metaDescription,omitempty"`
	CreatedAt        time.Time          `json:"createdAt,omitempty" bson:"createdAt,omitempty"`
	UpdatedAt        time.Time          `json:"updatedAt,omitempty" bson:"updatedAt,omitempty"`
}

func (r *Review) Normalize() {
	if r.Products == nil {
		r.Products = []ProductRef{}
	}
	if r.Tags == nil {
		r.Tags = []string{}
	}
}
