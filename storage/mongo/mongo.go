// Package mongo stores each record collection in a MongoDB collection of the
// same name, keyed by _id.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"recordbook/models"
	"recordbook/storage"
)

var _ storage.Store = (*MongoStore)(nil)

type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

func New(client *mongo.Client, database string) *MongoStore {
	return &MongoStore{client: client, db: client.Database(database)}
}

func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func (s *MongoStore) Create(ctx context.Context, collection string, rec *models.Record) error {
	_, err := s.db.Collection(collection).InsertOne(ctx, toDocument(rec))
	if err != nil {
		return fmt.Errorf("failed to insert record: %w", err)
	}
	return nil
}

func (s *MongoStore) Get(ctx context.Context, collection, id string) (*models.Record, error) {
	var doc bson.M
	err := s.db.Collection(collection).FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get record: %w", err)
	}
	rec := fromDocument(doc)
	return &rec, nil
}

func (s *MongoStore) List(ctx context.Context, collection string, r models.DateRange) ([]models.Record, error) {
	filter, err := rangeFilter(r)
	if err != nil {
		return nil, err
	}

	findOptions := options.Find()
	findOptions.SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}})

	cursor, err := s.db.Collection(collection).Find(ctx, filter, findOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	defer cursor.Close(ctx)

	records := []models.Record{}
	for cursor.Next(ctx) {
		var doc bson.M
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode record: %w", err)
		}
		records = append(records, fromDocument(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate records: %w", err)
	}
	return records, nil
}

func (s *MongoStore) Update(ctx context.Context, collection string, rec *models.Record) error {
	set := bson.M{"updated_at": rec.UpdatedAt}
	for k, v := range rec.Fields {
		set[k] = v
	}
	res, err := s.db.Collection(collection).UpdateOne(ctx, bson.M{"_id": rec.ID}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update record: %w", err)
	}
	if res.MatchedCount == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, collection, id string) error {
	res, err := s.db.Collection(collection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}
	if res.DeletedCount == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func rangeFilter(r models.DateRange) (bson.M, error) {
	from, to, err := r.Bounds()
	if err != nil {
		return nil, err
	}
	createdAt := bson.M{}
	if !from.IsZero() {
		createdAt["$gte"] = from
	}
	if !to.IsZero() {
		createdAt["$lt"] = to
	}
	if len(createdAt) == 0 {
		return bson.M{}, nil
	}
	return bson.M{"created_at": createdAt}, nil
}

func toDocument(rec *models.Record) bson.M {
	doc := bson.M{
		"_id":        rec.ID,
		"created_at": rec.CreatedAt,
		"updated_at": rec.UpdatedAt,
	}
	for k, v := range rec.Fields {
		doc[k] = v
	}
	return doc
}

func fromDocument(doc bson.M) models.Record {
	rec := models.Record{Fields: map[string]any{}}
	for key, value := range doc {
		switch key {
		case "_id":
			rec.ID = fmt.Sprint(value)
		case "created_at":
			if t, ok := toTime(value); ok {
				rec.CreatedAt = t
			}
		case "updated_at":
			if t, ok := toTime(value); ok {
				rec.UpdatedAt = &t
			}
		default:
			rec.Fields[key] = toScalar(value)
		}
	}
	return rec
}

func toTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case primitive.DateTime:
		return t.Time().UTC(), true
	case time.Time:
		return t.UTC(), true
	}
	return time.Time{}, false
}

// toScalar widens BSON integer types so numeric fields always surface as
// float64, matching what encoding/json produces.
func toScalar(v any) any {
	switch n := v.(type) {
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	}
	return v
}
