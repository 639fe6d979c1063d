package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"DoctorsPortal/db"
	"DoctorsPortal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type DoctorService struct {
	doctors db.Collection
}

func NewDoctorService(store db.Store) *DoctorService {
	return &DoctorService{doctors: store.Collection(db.DoctorCollection)}
}

func (s *DoctorService) List(ctx context.Context) ([]models.Doctor, error) {
	var doctors []models.Doctor
	if err := s.doctors.Find(ctx, bson.M{}, &doctors); err != nil {
		return nil, fmt.Errorf("list doctors: %w", err)
	}
	if doctors == nil {
		doctors = []models.Doctor{}
	}
	return doctors, nil
}

func (s *DoctorService) Add(ctx context.Context, d models.Doctor) (*db.InsertResult, error) {
	if strings.TrimSpace(d.Email) == "" || strings.TrimSpace(d.Name) == "" {
		return nil, fmt.Errorf("%w: name and email are required", ErrInvalidInput)
	}
	d.ID = primitive.NilObjectID
	res, err := s.doctors.InsertOne(ctx, d)
	if err != nil {
		log.Println("Error while inserting doctor:", err)
		return nil, fmt.Errorf("insert doctor: %w", err)
	}
	return res, nil
}

func (s *DoctorService) Remove(ctx context.Context, email string) (*db.DeleteResult, error) {
	res, err := s.doctors.DeleteOne(ctx, bson.M{"email": email})
	if err != nil {
		log.Println("Error while deleting doctor:", err)
		return nil, fmt.Errorf("delete doctor %s: %w", email, err)
	}
	return res, nil
}
