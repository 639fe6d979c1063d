package services

import (
	"context"
	"fmt"

	"DoctorsPortal/db"
	"DoctorsPortal/models"

	"go.mongodb.org/mongo-driver/bson"
)

type AvailabilityService struct {
	catalog  *CatalogService
	bookings db.Collection
}

func NewAvailabilityService(store db.Store, catalog *CatalogService) *AvailabilityService {
	return &AvailabilityService{catalog: catalog, bookings: store.Collection(db.BookingCollection)}
}

/*
* Load the catalog and the bookings of the day
* Return every service with its booked slots removed
 */
func (s *AvailabilityService) Available(ctx context.Context, date string) ([]models.Service, error) {
	services, err := s.catalog.All(ctx)
	if err != nil {
		return nil, err
	}
	var bookings []models.Booking
	if err := s.bookings.Find(ctx, bson.M{"date": date}, &bookings); err != nil {
		return nil, fmt.Errorf("list bookings for %q: %w", date, err)
	}
	return ComputeAvailability(services, bookings), nil
}

// ComputeAvailability removes from each service the slots taken by bookings
// for that treatment, keeping template order. bookings must all belong to
// one date. Bookings whose treatment matches no service are ignored.
func ComputeAvailability(services []models.Service, bookings []models.Booking) []models.Service {
	booked := make(map[string]map[string]struct{})
	for _, b := range bookings {
		if booked[b.Treatment] == nil {
			booked[b.Treatment] = map[string]struct{}{}
		}
		booked[b.Treatment][b.Slot] = struct{}{}
	}

	out := make([]models.Service, len(services))
	for i, svc := range services {
		out[i] = svc
		taken := booked[svc.Name]
		if len(taken) == 0 {
			continue
		}
		available := make([]string, 0, len(svc.Slots))
		for _, slot := range svc.Slots {
			if _, ok := taken[slot]; !ok {
				available = append(available, slot)
			}
		}
		out[i].Slots = available
	}
	return out
}
