package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type Booking struct {
	ID            primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Patient       string             `json:"patient" bson:"patient"`
	PatientName   string             `json:"patientName" bson:"patientName"`
	Phone         string             `json:"phone,omitempty" bson:"phone,omitempty"`
	Treatment     string             `json:"treatment" bson:"treatment"`
	Date          string             `json:"date" bson:"date"`
	Slot          string             `json:"slot" bson:"slot"`
	Price         float64            `json:"price,omitempty" bson:"price,omitempty"`
	Paid          bool               `json:"paid" bson:"paid"`
	TransactionID string             `json:"transactionId,omitempty" bson:"transactionId,omitempty"`
}

// BookingKey is the tuple no two bookings may share.
type BookingKey struct {
	Treatment string
	Date      string
	Patient   string
}

func (b Booking) Key() BookingKey {
	return BookingKey{Treatment: b.Treatment, Date: b.Date, Patient: b.Patient}
}
