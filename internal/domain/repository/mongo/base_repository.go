// Package mongo provides MongoDB-backed repository implementations.
package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/trailbound/trailbound-go/internal/domain/entity"
	apperrors "github.com/trailbound/trailbound-go/pkg/errors"
)

// baseRepository implements the generic Store contract on a MongoDB
// collection. The scope filter is merged into every read, so out-of-scope
// documents are indistinguishable from absent ones.
type baseRepository[T any] struct {
	collection *mongo.Collection
	scope      bson.M
	now        func() time.Time
}

// newBaseRepository creates a repository for T, which must be a pointer
// implementation of entity.Document. Construction panics otherwise; all
// repositories are wired once at startup.
func newBaseRepository[T any](db *mongo.Database, scope bson.M) *baseRepository[T] {
	doc := any(new(T)).(entity.Document)
	return &baseRepository[T]{
		collection: db.Collection(doc.CollectionName()),
		scope:      scope,
		now:        time.Now,
	}
}

// scoped merges the read scope into filter. Scope conditions win over
// caller-supplied ones for the same field.
func (r *baseRepository[T]) scoped(filter bson.M) bson.M {
	merged := bson.M{}
	for k, v := range filter {
		merged[k] = v
	}
	for k, v := range r.scope {
		merged[k] = v
	}
	return merged
}

func (r *baseRepository[T]) Scope() bson.M {
	out := bson.M{}
	for k, v := range r.scope {
		out[k] = v
	}
	return out
}

func (r *baseRepository[T]) Find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*T, error) {
	cursor, err := r.collection.Find(ctx, r.scoped(filter), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	results := []*T{}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	return results, nil
}

func (r *baseRepository[T]) FindByID(ctx context.Context, id primitive.ObjectID) (*T, error) {
	var doc T
	err := r.collection.FindOne(ctx, r.scoped(bson.M{"_id": id})).Decode(&doc)
	if err != nil {
		return nil, mapNoDocuments(err)
	}
	return &doc, nil
}

func (r *baseRepository[T]) Create(ctx context.Context, doc *T) error {
	d := any(doc).(entity.Document)
	d.Stamp(r.now())

	res, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		d.SetID(oid)
	}
	return nil
}

func (r *baseRepository[T]) UpdateByID(ctx context.Context, id primitive.ObjectID, patch bson.M) (*T, error) {
	set := bson.M{"updatedAt": r.now()}
	for k, v := range patch {
		set[k] = v
	}
	update := bson.M{
		"$set": set,
		"$inc": bson.M{"revision": 1},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc T
	err := r.collection.FindOneAndUpdate(ctx, r.scoped(bson.M{"_id": id}), update, opts).Decode(&doc)
	if err != nil {
		return nil, mapNoDocuments(err)
	}
	return &doc, nil
}

func (r *baseRepository[T]) DeleteByID(ctx context.Context, id primitive.ObjectID) (*T, error) {
	var doc T
	err := r.collection.FindOneAndDelete(ctx, r.scoped(bson.M{"_id": id})).Decode(&doc)
	if err != nil {
		return nil, mapNoDocuments(err)
	}
	return &doc, nil
}

func (r *baseRepository[T]) Count(ctx context.Context, filter bson.M) (int64, error) {
	return r.collection.CountDocuments(ctx, r.scoped(filter))
}

// aggregate runs pipeline with the read scope prepended as a $match stage.
// A pipeline starting with $geoNear runs unscoped: the server requires
// $geoNear to lead, and geospatial reads cover the full collection.
func (r *baseRepository[T]) aggregate(ctx context.Context, pipeline mongo.Pipeline, results any) error {
	pipeline = scopedPipeline(r.scope, pipeline)

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)
	return cursor.All(ctx, results)
}

func scopedPipeline(scope bson.M, pipeline mongo.Pipeline) mongo.Pipeline {
	if len(scope) == 0 {
		return pipeline
	}
	if len(pipeline) > 0 && stageName(pipeline[0]) == "$geoNear" {
		return pipeline
	}
	match := bson.D{{Key: "$match", Value: scope}}
	return append(mongo.Pipeline{match}, pipeline...)
}

func stageName(stage bson.D) string {
	if len(stage) == 0 {
		return ""
	}
	return stage[0].Key
}

// mapNoDocuments converts the driver's miss sentinel into the application
// not-found error; everything else passes through for classification.
func mapNoDocuments(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return apperrors.ErrNotFound
	}
	return err
}
