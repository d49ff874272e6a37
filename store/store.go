package store

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	productCollection = "product_reviews"
	reviewCollection  = "comparison_reviews"

	connectTimeout = 10 * time.Second
	socketTimeout  = 45 * time.Second
	maxPoolSize    = 10
	minPoolSize    = 5
)

type Store struct {
	client   *mongo.Client
	products *mongo.Collection
	reviews  *mongo.Collection
}

func New(ctx context.Context, uri, database string) (*Store, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetMaxPoolSize(maxPoolSize).
		SetMinPoolSize(minPoolSize).
		SetConnectTimeout(connectTimeout).
		SetSocketTimeout(socketTimeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db := client.Database(database)
	return &Store{
		client:   client,
		products: db.Collection(productCollection),
		reviews:  db.Collection(reviewCollection),
	}, nil
}

func (s *Store) Close(ctx context.Context) error {
	if err := s.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}

func (s *Store) findOneReview(ctx context.Context, filter bson.M) (*Review, error) {
	var review Review
	err := s.reviews.FindOne(ctx, filter).Decode(&review)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get review: %w", err)
	}
	review.Normalize()
	return &review, nil
}

func (s *Store) findReviews(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]Review, error) {
	cursor, err := s.reviews.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to get reviews: %w", err)
	}
	defer cursor.Close(ctx)

	var reviews []Review
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, fmt.Errorf("failed to decode reviews: %w", err)
	}
	for i := range reviews {
		reviews[i].Normalize()
	}
	return reviews, nil
}

func (s *Store) findOneProduct(ctx context.Context, filter bson.M, opts *options.FindOneOptions) (*Product, error) {
	var product Product
	err := s.products.FindOne(ctx, filter, opts).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	product.Normalize()
	return &product, nil
}

func (s *Store) findProducts(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]Product, error) {
	cursor, err := s.products.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to get products: %w", err)
	}
	defer cursor.Close(ctx)

	var products []Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	for i := range products {
		products[i].Normalize()
	}
	return products, nil
}

func (s *Store) ReviewBySlug(ctx context.Context, slug string) (*Review, error) {
	return s.findOneReview(ctx, bson.M{"slug": slug})
}

// ReviewBySlugSubstring matches reviews whose slug contains the given text,
// case-insensitively. The input is quoted so it cannot act as a pattern.
func (s *Store) ReviewBySlugSubstring(ctx context.Context, text string) (*Review, error) {
	return s.findOneReview(ctx, bson.M{
		"slug": primitive.Regex{Pattern: regexp.QuoteMeta(text), Options: "i"},
	})
}

func (s *Store) ReviewByID(ctx context.Context, id primitive.ObjectID) (*Review, error) {
	return s.findOneReview(ctx, bson.M{"_id": id})
}

func (s *Store) ReviewByCategorySubstring(ctx context.Context, text string) (*Review, error) {
	return s.findOneReview(ctx, bson.M{
		"category": primitive.Regex{Pattern: regexp.QuoteMeta(text), Options: "i"},
	})
}

func (s *Store) ReviewByCategory(ctx context.Context, category string) (*Review, error) {
	return s.findOneReview(ctx, bson.M{"category": category})
}

func (s *Store) ReviewByTitle(ctx context.Context, title string) (*Review, error) {
	return s.findOneReview(ctx, bson.M{"reviewTitle": title})
}

// ReviewContainingProduct finds a review whose products list references the
// given product ID string.
func (s *Store) ReviewContainingProduct(ctx context.Context, productID string) (*Review, error) {
	return s.findOneReview(ctx, bson.M{
		"products": bson.M{"$elemMatch": bson.M{"productId": productID}},
	})
}

func (s *Store) ReviewsByCategory(ctx context.Context, category string, exclude primitive.ObjectID, limit int) ([]Review, error) {
	filter := bson.M{
		"category": category,
		"_id":      bson.M{"$ne": exclude},
	}
	return s.findReviews(ctx, filter, options.Find().SetLimit(int64(limit)))
}

func (s *Store) LatestReviews(ctx context.Context, excludeCategory string, limit int) ([]Review, error) {
	filter := bson.M{"category": bson.M{"$ne": excludeCategory}}
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(int64(limit))
	return s.findReviews(ctx, filter, opts)
}

func (s *Store) ReviewsByCategoryPattern(ctx context.Context, category string) ([]Review, error) {
	filter := bson.M{
		"category": primitive.Regex{Pattern: regexp.QuoteMeta(category), Options: "i"},
	}
	return s.findReviews(ctx, filter, nil)
}

// SetReviewSlug persists a derived slug onto a review. The write is an
// idempotent overwrite, safe for concurrent callers deriving the same slug.
func (s *Store) SetReviewSlug(ctx context.Context, id primitive.ObjectID, slug string) error {
	_, err := s.reviews.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"slug": slug}},
	)
	if err != nil {
		return fmt.Errorf("failed to update review slug: %w", err)
	}
	return nil
}

func (s *Store) SearchReviews(ctx context.Context, query string, limit int) ([]Review, error) {
	filter := bson.M{
		"reviewTitle": primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"},
	}
	return s.findReviews(ctx, filter, options.Find().SetLimit(int64(limit)))
}

func (s *Store) ProductBySlug(ctx context.Context, slug string) (*Product, error) {
	return s.findOneProduct(ctx, bson.M{"slug": slug}, nil)
}

// ProductByNamePattern matches productName against a caller-built regex.
// Multiple products can match; the oldest by creation time wins so the
// pick does not depend on collection order.
func (s *Store) ProductByNamePattern(ctx context.Context, pattern string) (*Product, error) {
	filter := bson.M{
		"productName": primitive.Regex{Pattern: pattern, Options: "i"},
	}
	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	return s.findOneProduct(ctx, filter, opts)
}

func (s *Store) ProductByID(ctx context.Context, id primitive.ObjectID) (*Product, error) {
	return s.findOneProduct(ctx, bson.M{"_id": id}, nil)
}

func (s *Store) ProductsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return s.findProducts(ctx, bson.M{"_id": bson.M{"$in": ids}}, nil)
}

func (s *Store) ProductsByCategory(ctx context.Context, category string, limit int) ([]Product, error) {
	return s.findProducts(ctx, bson.M{"category": category}, options.Find().SetLimit(int64(limit)))
}

func (s *Store) SearchProducts(ctx context.Context, query string, limit int) ([]Product, error) {
	filter := bson.M{
		"productName": primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"},
	}
	return s.findProducts(ctx, filter, options.Find().SetLimit(int64(limit)))
}
