package models

import (
	"DoctorsPortal/role"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID    primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Email string             `json:"email" bson:"email"`
	Name  string             `json:"name,omitempty" bson:"name,omitempty"`
	Role  role.Role          `json:"role,omitempty" bson:"role,omitempty"`
}
