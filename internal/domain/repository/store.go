// Package repository defines the persistence interfaces for the domain
// entities. Implementations live in the mongo subpackage; tests use the
// in-memory versions under internal/testutil/mocks.
package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store is the generic persistence contract shared by every entity
// repository. Read operations carry the repository's scope filter, so
// documents outside the scope behave as if they do not exist, including
// for updates and deletes.
type Store[T any] interface {
	// Find returns all documents matching the filter under the scope.
	Find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*T, error)

	// FindByID returns the scoped document with the given ID, or ErrNotFound.
	FindByID(ctx context.Context, id primitive.ObjectID) (*T, error)

	// Create inserts the document, assigning its ID and timestamps.
	Create(ctx context.Context, doc *T) error

	// UpdateByID applies the patch as a $set, bumps the revision counter,
	// and returns the document as it stands after the update.
	UpdateByID(ctx context.Context, id primitive.ObjectID, patch bson.M) (*T, error)

	// DeleteByID removes the scoped document and returns it as it was,
	// so callers can run side effects that need the removed state.
	DeleteByID(ctx context.Context, id primitive.ObjectID) (*T, error)

	// Count returns the number of documents matching the filter under
	// the scope.
	Count(ctx context.Context, filter bson.M) (int64, error)

	// Scope returns a copy of the read-scope filter, for callers that
	// assemble their own queries.
	Scope() bson.M
}

// IndexEnsurer is implemented by repositories that maintain indexes.
// EnsureIndexes is invoked once at startup.
type IndexEnsurer interface {
	EnsureIndexes(ctx context.Context) error
}
