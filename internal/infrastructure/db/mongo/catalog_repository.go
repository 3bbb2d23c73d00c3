package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/offranel/storefront/internal/core/domain"
	"github.com/offranel/storefront/internal/core/ports"
)

// CatalogRepository stores catalog items in the products collection.
type CatalogRepository struct {
	client *mongo.Client
	col    *mongo.Collection
}

func NewCatalogRepository(db *mongo.Database) *CatalogRepository {
	return &CatalogRepository{client: db.Client(), col: db.Collection(collectionProducts)}
}

type itemDocument struct {
	ID          primitive.ObjectID `bson:"_id"`
	domain.Item `bson:",inline"`
}

func (r *CatalogRepository) Add(ctx context.Context, item *domain.Item) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := itemDocument{ID: primitive.NewObjectID(), Item: *item}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return "", unavailable("insert item", err)
	}
	return doc.ID.Hex(), nil
}

// AddBatch writes every item inside one multi-document transaction. Ids are
// assigned before the write so a retried transaction stays idempotent.
func (r *CatalogRepository) AddBatch(ctx context.Context, items []*domain.Item) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	docs := make([]interface{}, 0, len(items))
	ids := make([]string, 0, len(items))
	for _, it := range items {
		oid := primitive.NewObjectID()
		docs = append(docs, itemDocument{ID: oid, Item: *it})
		ids = append(ids, oid.Hex())
	}

	sess, err := r.client.StartSession()
	if err != nil {
		return nil, unavailable("start session", err)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return r.col.InsertMany(sc, docs)
	})
	if err != nil {
		return nil, unavailable("insert batch", err)
	}
	return ids, nil
}

func (r *CatalogRepository) FindByID(ctx context.Context, id string) (*domain.Item, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrItemNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc itemDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrItemNotFound
		}
		return nil, unavailable("find item", err)
	}
	return doc.toDomain(), nil
}

// List returns items newest first, optionally restricted to one category.
func (r *CatalogRepository) List(ctx context.Context, f ports.CatalogFilter) ([]*domain.Item, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if f.Category != "" {
		filter["category"] = f.Category
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if f.Limit > 0 {
		opts.SetLimit(int64(f.Limit))
	}

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, unavailable("list items", err)
	}
	var docs []itemDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, unavailable("list items", err)
	}

	out := make([]*domain.Item, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}

// Delete removes the item. Unknown or malformed ids are a no-op.
func (r *CatalogRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.DeleteOne(ctx, bson.M{"_id": oid}); err != nil {
		return unavailable("delete item", err)
	}
	return nil
}

func (r *CatalogRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, unavailable("count items", err)
	}
	return n, nil
}

func (d *itemDocument) toDomain() *domain.Item {
	item := d.Item
	item.ID = d.ID.Hex()
	return &item
}
