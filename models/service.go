package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Service is one treatment offered by the clinic. Slots is the daily
// template before bookings are subtracted.
type Service struct {
	ID    primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Name  string             `json:"name" bson:"name"`
	Slots []string           `json:"slots" bson:"slots"`
	Price float64            `json:"price" bson:"price"`
}

type ServiceName struct {
	ID   primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Name string             `json:"name" bson:"name"`
}
