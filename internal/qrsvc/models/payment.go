package models

import (
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Pack is a purchasable bundle of scan credits.
type Pack struct {
	Name     string
	PriceUSD decimal.Decimal
	Scans    int64
}

// CheckoutSession tracks a pending provider checkout until its webhook lands.
// Documents expire through the TTL index on expires_at.
type CheckoutSession struct {
	ID          string             `bson:"_id" json:"id"`
	UserId      primitive.ObjectID `bson:"userId" json:"userId"`
	Pack        string             `bson:"pack" json:"pack"`
	AmountCents int64              `bson:"amountCents" json:"amountCents"`
	Scans       int64              `bson:"scans" json:"scans"`
	Status      string             `bson:"status" json:"status"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	ExpiresAt   time.Time          `bson:"expires_at" json:"expiresAt"`
}

const (
	CheckoutPending   = "pending"
	CheckoutCompleted = "completed"
)
