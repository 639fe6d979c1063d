package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Payment is an entry of the append-only payment log.
type Payment struct {
	ID            primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	BookingID     string             `json:"bookingId" bson:"bookingId"`
	TransactionID string             `json:"transactionId" bson:"transactionId"`
	Amount        float64            `json:"amount,omitempty" bson:"amount,omitempty"`
	Patient       string             `json:"patient,omitempty" bson:"patient,omitempty"`
	Reconciled    bool               `json:"reconciled,omitempty" bson:"reconciled,omitempty"`
	CreatedAt     time.Time          `json:"createdAt" bson:"createdAt"`
}

// PaymentDetails is what the client reports after the gateway confirms a charge.
type PaymentDetails struct {
	TransactionID string  `json:"transactionId" binding:"required"`
	Amount        float64 `json:"amount"`
}

// PaymentIntentRequest carries the service price in major currency units.
type PaymentIntentRequest struct {
	Price float64 `json:"price" binding:"required,gt=0"`
}
