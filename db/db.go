package db

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
)

const (
	ServiceCollection = "services"
	BookingCollection = "bookings"
	UserCollection    = "users"
	DoctorCollection  = "doctors"
	PaymentCollection = "payments"
)

var (
	ErrNoDocuments  = errors.New("db: no documents in result")
	ErrDuplicateKey = errors.New("db: duplicate key")
)

// Store hands out named collections. One Store is built at start-up and
// injected into every service.
type Store interface {
	Collection(name string) Collection
}

// Collection is the subset of document-store operations the portal needs.
// Filters are field-equality predicates or {"$ne": v}; updates use "$set".
type Collection interface {
	// Find decodes every matching document into out, which must be a pointer
	// to a slice. When projection is non-empty only those fields and _id are
	// returned.
	Find(ctx context.Context, filter bson.M, out interface{}, projection ...string) error
	// FindOne decodes the first match into out or returns ErrNoDocuments.
	FindOne(ctx context.Context, filter bson.M, out interface{}) error
	InsertOne(ctx context.Context, doc interface{}) (*InsertResult, error)
	UpdateOne(ctx context.Context, filter, update bson.M, upsert bool) (*UpdateResult, error)
	DeleteOne(ctx context.Context, filter bson.M) (*DeleteResult, error)
	EnsureUniqueIndex(ctx context.Context, keys ...string) error
}

type InsertResult struct {
	Acknowledged bool        `json:"acknowledged"`
	InsertedID   interface{} `json:"insertedId"`
}

type UpdateResult struct {
	Acknowledged  bool        `json:"acknowledged"`
	MatchedCount  int64       `json:"matchedCount"`
	ModifiedCount int64       `json:"modifiedCount"`
	UpsertedCount int64       `json:"upsertedCount"`
	UpsertedID    interface{} `json:"upsertedId"`
}

type DeleteResult struct {
	Acknowledged bool  `json:"acknowledged"`
	DeletedCount int64 `json:"deletedCount"`
}
