package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/trailbound/trailbound-go/internal/domain/entity"
	"github.com/trailbound/trailbound-go/internal/domain/repository"
)

// userRepository implements repository.UserRepository. Deactivated accounts
// are outside the read scope, so they cannot authenticate or be listed.
type userRepository struct {
	*baseRepository[entity.User]
}

// NewUserRepository creates a MongoDB user repository.
func NewUserRepository(db *mongo.Database) repository.UserRepository {
	return &userRepository{
		baseRepository: newBaseRepository[entity.User](db, bson.M{"isActive": bson.M{"$ne": false}}),
	}
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var user entity.User
	err := r.collection.FindOne(ctx, r.scoped(bson.M{"email": email})).Decode(&user)
	if err != nil {
		return nil, mapNoDocuments(err)
	}
	return &user, nil
}

func (r *userRepository) FindByResetToken(ctx context.Context, digest string) (*entity.User, error) {
	var user entity.User
	err := r.collection.FindOne(ctx, r.scoped(bson.M{"passwordResetToken": digest})).Decode(&user)
	if err != nil {
		return nil, mapNoDocuments(err)
	}
	return &user, nil
}

func (r *userRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "passwordResetToken", Value: 1}}},
	})
	return err
}
