package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents an account document in the User collection.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`
	Password     string             `bson:"password" json:"-"` // bcrypt hash
	Subscription string             `bson:"subscription" json:"subscription"`
	Role         string             `bson:"role" json:"role"`
	TotalQrs     int64              `bson:"totalQrs" json:"totalQrs"`
	ScanLimit    int64              `bson:"scanLimit,omitempty" json:"scanLimit,omitempty"` // purchased scan credits
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}

const (
	SubscriptionFree    = "free"
	SubscriptionPremium = "premium"

	RoleUser  = "user"
	RoleAdmin = "admin"
)
