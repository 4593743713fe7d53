package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/qrcodesmart/qr-services/internal/qrsvc/models"
)

const CheckoutCollection = "Checkout_session"

var ErrSessionNotFound = errors.New("checkout session not found")

type CheckoutStore struct {
	coll *mongo.Collection
}

func NewCheckoutStore(db *mongo.Database) *CheckoutStore {
	return &CheckoutStore{coll: db.Collection(CheckoutCollection)}
}

func (s *CheckoutStore) Insert(ctx context.Context, session *models.CheckoutSession) error {
	_, err := s.coll.InsertOne(ctx, session)
	if err != nil {
		return fmt.Errorf("insert checkout session: %w", err)
	}
	return nil
}

func (s *CheckoutStore) FindByID(ctx context.Context, id string) (*models.CheckoutSession, error) {
	var session models.CheckoutSession
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&session)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("find checkout session %s: %w", id, err)
	}
	return &session, nil
}

// MarkCompleted flips a pending session to completed; it reports whether this
// call did the flip, so webhook redeliveries apply the credit only once.
func (s *CheckoutStore) MarkCompleted(ctx context.Context, id string) (bool, error) {
	res, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": id, "status": models.CheckoutPending},
		bson.M{"$set": bson.M{"status": models.CheckoutCompleted}},
	)
	if err != nil {
		return false, fmt.Errorf("mark checkout session %s completed: %w", id, err)
	}
	return res.ModifiedCount == 1, nil
}
