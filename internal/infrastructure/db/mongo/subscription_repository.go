package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/offranel/storefront/internal/core/domain"
)

// SubscriptionRepository is the Mongo-backed subscription registry. The
// descriptor is kept as an opaque string; it is never parsed here.
type SubscriptionRepository struct {
	col *mongo.Collection
	now func() time.Time
}

func NewSubscriptionRepository(db *mongo.Database) *SubscriptionRepository {
	return &SubscriptionRepository{col: db.Collection(collectionSubscriptions), now: time.Now}
}

type subscriptionDocument struct {
	SubscriberID string    `bson:"_id"`
	Descriptor   string    `bson:"descriptor"`
	UpdatedAt    time.Time `bson:"updated_at"`
}

func (r *SubscriptionRepository) Upsert(ctx context.Context, subscriberID string, d domain.EndpointDescriptor) error {
	if subscriberID == "" {
		return fmt.Errorf("%w: subscriber id is required", domain.ErrInvalidInput)
	}
	if d.Empty() {
		return fmt.Errorf("%w: endpoint descriptor is empty", domain.ErrInvalidInput)
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := subscriptionDocument{
		SubscriberID: subscriberID,
		Descriptor:   string(d),
		UpdatedAt:    r.now().UTC(),
	}
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": subscriberID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return unavailable("upsert subscription", err)
	}
	return nil
}

// ListAll drains one cursor into memory, so the result is the registry as it
// was when the query ran.
func (r *SubscriptionRepository) ListAll(ctx context.Context) ([]domain.Subscription, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, unavailable("list subscriptions", err)
	}
	var docs []subscriptionDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, unavailable("list subscriptions", err)
	}

	out := make([]domain.Subscription, 0, len(docs))
	for _, doc := range docs {
		out = append(out, domain.Subscription{
			SubscriberID: doc.SubscriberID,
			Descriptor:   domain.EndpointDescriptor(doc.Descriptor),
			UpdatedAt:    doc.UpdatedAt,
		})
	}
	return out, nil
}

func (r *SubscriptionRepository) Remove(ctx context.Context, subscriberID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.DeleteOne(ctx, bson.M{"_id": subscriberID}); err != nil {
		return unavailable("remove subscription", err)
	}
	return nil
}

func (r *SubscriptionRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, unavailable("count subscriptions", err)
	}
	return n, nil
}
