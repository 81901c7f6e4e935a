package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nsqtech/record-tracker/internal/core/domain"
	"github.com/nsqtech/record-tracker/internal/core/ports"
)

const collectionRecords = "records"

type RecordRepository struct {
	col *mongo.Collection
}

var _ ports.RecordRepository = (*RecordRepository)(nil)

func NewRecordRepository(db *mongo.Database) *RecordRepository {
	return &RecordRepository{col: db.Collection(collectionRecords)}
}

// Create inserts a new record document.
func (r *RecordRepository) Create(ctx context.Context, rec *domain.Record) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, rec); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrRecordExists
		}
		return fmt.Errorf("insert record: %w", err)
	}
	return nil
}

func (r *RecordRepository) FindByID(ctx context.Context, id string) (*domain.Record, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var rec domain.Record
	err := r.col.FindOne(ctx, bson.M{"record_id": id}).Decode(&rec)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRecordNotFound
		}
		return nil, fmt.Errorf("find record: %w", err)
	}
	return &rec, nil
}

// List runs the already-scoped filter; owner narrowing happens in the query.
func (r *RecordRepository) List(ctx context.Context, f ports.RecordFilter) ([]*domain.Record, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, buildRecordFilter(f), options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer cur.Close(ctx)

	records := make([]*domain.Record, 0)
	if err := cur.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}
	return records, nil
}

func buildRecordFilter(f ports.RecordFilter) bson.M {
	filter := bson.M{}
	if f.OwnerID != "" {
		filter["owner_id"] = f.OwnerID
	}
	if f.Status != "" {
		filter["status"] = string(f.Status)
	}
	if f.Priority != "" {
		filter["priority"] = string(f.Priority)
	}
	if f.Category != "" {
		filter["category"] = f.Category
	}
	return filter
}

// Update overwrites the mutable fields of a record. owner_id and created_at
// are never written.
func (r *RecordRepository) Update(ctx context.Context, rec *domain.Record) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := bson.M{
		"title":          rec.Title,
		"description":    rec.Description,
		"status":         string(rec.Status),
		"priority":       string(rec.Priority),
		"category":       rec.Category,
		"classification": string(rec.Classification),
		"assigned_to":    rec.AssignedTo,
		"metadata":       rec.Metadata,
		"updated_at":     rec.UpdatedAt,
	}

	res, err := r.col.UpdateOne(ctx, bson.M{"record_id": rec.ID}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("update record: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrRecordNotFound
	}
	return nil
}

func (r *RecordRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"record_id": id})
	if err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrRecordNotFound
	}
	return nil
}

// EnsureIndexes creates necessary indexes on the records collection.
func (r *RecordRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "record_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "classification", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
