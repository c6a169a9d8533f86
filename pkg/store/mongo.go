package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kintreehq/kintree/pkg/tree"
)

const (
	peopleCollection   = "people"
	countersCollection = "counters"
	peopleCounterID    = "people_seq"
)

// personDoc is the MongoDB document shape for a person record. The seq field
// is a monotonic insertion counter so List can return creation order; Mongo
// itself makes no ordering promise for unsorted finds.
type personDoc struct {
	ID       string   `bson:"_id"`
	Seq      int64    `bson:"seq"`
	Name     string   `bson:"name"`
	Birth    string   `bson:"birth,omitempty"`
	Death    string   `bson:"death,omitempty"`
	ImageURL string   `bson:"image_url,omitempty"`
	Parents  []string `bson:"parents,omitempty"`
	Spouse   string   `bson:"spouse,omitempty"`
}

func (d personDoc) person() tree.Person {
	return tree.Person{
		ID:       d.ID,
		Name:     d.Name,
		Birth:    d.Birth,
		Death:    d.Death,
		ImageURL: d.ImageURL,
		Parents:  d.Parents,
		Spouse:   d.Spouse,
	}
}

// Mongo is a MongoDB-backed person store.
type Mongo struct {
	client   *mongo.Client
	people   *mongo.Collection
	counters *mongo.Collection
}

// NewMongo connects to the given URI and returns a store over the named
// database. The connection is verified with a ping before returning.
func NewMongo(ctx context.Context, uri, database string) (*Mongo, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	db := client.Database(database)
	return &Mongo{
		client:   client,
		people:   db.Collection(peopleCollection),
		counters: db.Collection(countersCollection),
	}, nil
}

// Close disconnects the underlying client.
func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

// List returns all people sorted by insertion sequence.
func (m *Mongo) List(ctx context.Context) ([]tree.Person, error) {
	opts := options.Find().SetSort(bson.D{{Key: "seq", Value: 1}})
	cursor, err := m.people.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list people: %w", err)
	}
	var docs []personDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode people: %w", err)
	}

	out := make([]tree.Person, len(docs))
	for i, d := range docs {
		out[i] = d.person()
	}
	return out, nil
}

// Insert stores a new person under a freshly minted uuid and the next
// insertion sequence number.
func (m *Mongo) Insert(ctx context.Context, p tree.Person) (string, error) {
	seq, err := m.nextSeq(ctx)
	if err != nil {
		return "", err
	}

	doc := personDoc{
		ID:       uuid.NewString(),
		Seq:      seq,
		Name:     p.Name,
		Birth:    p.Birth,
		Death:    p.Death,
		ImageURL: p.ImageURL,
		Parents:  p.Parents,
		Spouse:   p.Spouse,
	}
	if _, err := m.people.InsertOne(ctx, doc); err != nil {
		return "", fmt.Errorf("insert person: %w", err)
	}
	return doc.ID, nil
}

// Update replaces the record's fields, keeping its insertion sequence.
func (m *Mongo) Update(ctx context.Context, id string, p tree.Person) error {
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "name", Value: p.Name},
		{Key: "birth", Value: p.Birth},
		{Key: "death", Value: p.Death},
		{Key: "image_url", Value: p.ImageURL},
		{Key: "parents", Value: p.Parents},
		{Key: "spouse", Value: p.Spouse},
	}}}

	res, err := m.people.UpdateOne(ctx, bson.D{{Key: "_id", Value: id}}, update)
	if err != nil {
		return fmt.Errorf("update person %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// nextSeq atomically increments and returns the people insertion counter.
func (m *Mongo) nextSeq(ctx context.Context) (int64, error) {
	filter := bson.D{{Key: "_id", Value: peopleCounterID}}
	update := bson.D{{Key: "$inc", Value: bson.D{{Key: "value", Value: int64(1)}}}}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var counter struct {
		Value int64 `bson:"value"`
	}
	if err := m.counters.FindOneAndUpdate(ctx, filter, update, opts).Decode(&counter); err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return counter.Value, nil
}

var _ Store = (*Mongo)(nil)
