package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/offranel/storefront/internal/core/domain"
)

// UserRepository stores users keyed by their external uid.
type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{col: db.Collection(collectionUsers)}
}

type userDocument struct {
	UID       string    `bson:"_id"`
	Name      string    `bson:"name"`
	Email     string    `bson:"email,omitempty"`
	Photo     string    `bson:"photo,omitempty"`
	Role      string    `bson:"role"`
	CreatedAt time.Time `bson:"created_at"`
	LastLogin time.Time `bson:"last_login"`
}

// Touch upserts the user in a single round trip. Profile fields and role are
// only written on insert, so concurrent first logins converge on one record.
func (r *UserRepository) Touch(ctx context.Context, u *domain.User, at time.Time) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": u.UID}, touchUpdate(u, at), options.Update().SetUpsert(true))
	if err != nil {
		return false, unavailable("touch user", err)
	}
	return res.UpsertedCount > 0, nil
}

// touchUpdate keeps role out of $set: an existing record's role is never
// overwritten by a login.
func touchUpdate(u *domain.User, at time.Time) bson.M {
	return bson.M{
		"$setOnInsert": bson.M{
			"name":       u.Name,
			"email":      u.Email,
			"photo":      u.Photo,
			"role":       u.Role,
			"created_at": u.CreatedAt.UTC(),
		},
		"$set": bson.M{"last_login": at.UTC()},
	}
}

func (r *UserRepository) FindByUID(ctx context.Context, uid string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc userDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": uid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, unavailable("find user", err)
	}

	return &domain.User{
		UID:       doc.UID,
		Name:      doc.Name,
		Email:     doc.Email,
		Photo:     doc.Photo,
		Role:      doc.Role,
		CreatedAt: doc.CreatedAt,
		LastLogin: doc.LastLogin,
	}, nil
}

func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, unavailable("count users", err)
	}
	return n, nil
}
