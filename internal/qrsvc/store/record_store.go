package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/qrcodesmart/qr-services/internal/qr"
)

// RecordCollection is the records collection name, kept from the original
// deployment so existing documents keep resolving.
const RecordCollection = "Scan_count"

type RecordStore struct {
	coll *mongo.Collection
}

func NewRecordStore(db *mongo.Database) *RecordStore {
	return &RecordStore{coll: db.Collection(RecordCollection)}
}

// IncrementScanAndFetch bumps scanCount and returns the post-increment
// document in one findOneAndUpdate, which is what serializes concurrent scans
// of the same id.
func (s *RecordStore) IncrementScanAndFetch(ctx context.Context, id string) (*qr.QrRecord, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var rec qr.QrRecord
	err := s.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$inc": bson.M{"scanCount": 1}},
		opts,
	).Decode(&rec)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, qr.ErrNotFound
		}
		return nil, fmt.Errorf("increment scan count for %s: %w", id, err)
	}

	return &rec, nil
}

func (s *RecordStore) SetFields(ctx context.Context, id string, fields map[string]any) error {
	_, err := s.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M(fields)})
	if err != nil {
		return fmt.Errorf("update qr %s: %w", id, err)
	}
	return nil
}

func (s *RecordStore) Insert(ctx context.Context, rec *qr.QrRecord) error {
	_, err := s.coll.InsertOne(ctx, rec)
	if err != nil {
		return fmt.Errorf("insert qr record: %w", err)
	}
	return nil
}

func (s *RecordStore) FindByID(ctx context.Context, id string) (*qr.QrRecord, error) {
	var rec qr.QrRecord
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&rec)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, qr.ErrNotFound
		}
		return nil, fmt.Errorf("find qr %s: %w", id, err)
	}
	return &rec, nil
}

// FindByOwner lists an owner's records newest first, with the dashboard
// projection.
func (s *RecordStore) FindByOwner(ctx context.Context, ownerId primitive.ObjectID) ([]qr.QrRecord, error) {
	opts := options.Find().
		SetProjection(bson.M{
			"type":          1,
			"content":       1,
			"companyInfo":   1,
			"companySocial": 1,
			"androidLink":   1,
			"iosLink":       1,
			"scanCount":     1,
			"scanLimit":     1,
			"active":        1,
			"createdAt":     1,
		}).
		SetSort(bson.M{"createdAt": -1})

	cursor, err := s.coll.Find(ctx, bson.M{"userId": ownerId}, opts)
	if err != nil {
		return nil, fmt.Errorf("list qr records: %w", err)
	}
	defer cursor.Close(ctx)

	var records []qr.QrRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("decode qr records: %w", err)
	}
	return records, nil
}

func (s *RecordStore) CountByOwner(ctx context.Context, ownerId primitive.ObjectID) (int64, error) {
	n, err := s.coll.CountDocuments(ctx, bson.M{"userId": ownerId})
	if err != nil {
		return 0, fmt.Errorf("count qr records: %w", err)
	}
	return n, nil
}
