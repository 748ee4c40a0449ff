package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/cardpress/cardpress/pkg/errors"
)

// MongoStore persists templates in a MongoDB collection.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// MongoConfig configures the mongo backend.
type MongoConfig struct {
	URI        string
	Database   string // default "cardpress"
	Collection string // default "templates"
}

// mongoRecord is the document shape. The config is stored as a raw JSON
// string rather than a nested BSON document so its bytes survive the
// round-trip untouched.
type mongoRecord struct {
	ID        string    `bson:"_id"`
	OrgID     string    `bson:"org_id"`
	Name      string    `bson:"name"`
	Category  string    `bson:"category,omitempty"`
	Config    string    `bson:"config"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// NewMongoStore connects to MongoDB and prepares the template collection,
// including the org_id index used by List.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.Database == "" {
		cfg.Database = "cardpress"
	}
	if cfg.Collection == "" {
		cfg.Collection = "templates"
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreFailed, err, "connecting to mongodb")
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreFailed, err, "pinging mongodb")
	}

	coll := client.Database(cfg.Database).Collection(cfg.Collection)
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "org_id", Value: 1}, {Key: "updated_at", Value: -1}},
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreFailed, err, "creating template index")
	}
	return &MongoStore{client: client, coll: coll}, nil
}

// Save implements Store.
func (s *MongoStore) Save(ctx context.Context, rec Record) (Record, error) {
	now := time.Now().UTC()
	if rec.ID == "" {
		rec.ID = uuid.NewString()
		rec.CreatedAt = now
	} else {
		prev, err := s.Get(ctx, rec.OrgID, rec.ID)
		switch {
		case err == nil:
			rec.CreatedAt = prev.CreatedAt
		case errors.Is(err, errors.ErrCodeTemplateNotFound):
			rec.CreatedAt = now
		default:
			return Record{}, err
		}
	}
	rec.UpdatedAt = now

	doc := mongoRecord{
		ID:        rec.ID,
		OrgID:     rec.OrgID,
		Name:      rec.Name,
		Category:  rec.Category,
		Config:    string(rec.Config),
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}
	_, err := s.coll.ReplaceOne(ctx,
		bson.M{"_id": rec.ID, "org_id": rec.OrgID},
		doc,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return Record{}, errors.Wrap(errors.ErrCodeStoreFailed, err, "saving template %s", rec.ID)
	}
	return rec, nil
}

// Get implements Store.
func (s *MongoStore) Get(ctx context.Context, orgID, id string) (Record, error) {
	var doc mongoRecord
	err := s.coll.FindOne(ctx, bson.M{"_id": id, "org_id": orgID}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, errors.Wrap(errors.ErrCodeStoreFailed, err, "loading template %s", id)
	}
	return doc.toRecord(), nil
}

// List implements Store.
func (s *MongoStore) List(ctx context.Context, orgID string) ([]Record, error) {
	cur, err := s.coll.Find(ctx, bson.M{"org_id": orgID},
		options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}}))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreFailed, err, "listing templates for %s", orgID)
	}
	defer cur.Close(ctx)

	var recs []Record
	for cur.Next(ctx) {
		var doc mongoRecord
		if err := cur.Decode(&doc); err != nil {
			return nil, errors.Wrap(errors.ErrCodeStoreFailed, err, "decoding template")
		}
		recs = append(recs, doc.toRecord())
	}
	if err := cur.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreFailed, err, "iterating templates")
	}
	return recs, nil
}

// Delete implements Store.
func (s *MongoStore) Delete(ctx context.Context, orgID, id string) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id, "org_id": orgID})
	if err != nil {
		return errors.Wrap(errors.ErrCodeStoreFailed, err, "deleting template %s", id)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Close implements Store.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (d mongoRecord) toRecord() Record {
	return Record{
		ID:        d.ID,
		OrgID:     d.OrgID,
		Name:      d.Name,
		Category:  d.Category,
		Config:    json.RawMessage(d.Config),
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

var _ Store = (*MongoStore)(nil)
