package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"DoctorsPortal/db"
	"DoctorsPortal/models"
)

func slotsByName(services []models.Service) map[string][]string {
	out := map[string][]string{}
	for _, s := range services {
		out[s.Name] = s.Slots
	}
	return out
}

func TestComputeAvailabilityWithoutBookings(t *testing.T) {
	got := ComputeAvailability(catalog, nil)
	assert.Equal(t, catalog, got)
}

func TestComputeAvailabilityRemovesExactlyBookedSlots(t *testing.T) {
	bookings := []models.Booking{
		{Treatment: "Cleaning", Slot: "10.30 am - 11.00 am"},
		{Treatment: "Teeth Orthodontics", Slot: "08.00 AM - 08.30 AM"},
		{Treatment: "Teeth Orthodontics", Slot: "09.00 AM - 9.30 AM"},
	}
	got := slotsByName(ComputeAvailability(catalog, bookings))

	assert.Equal(t, []string{"10.05 am - 10.30 am", "11.05 am - 11.30 am"}, got["Cleaning"])
	assert.Equal(t, []string{"08.30 AM - 09.00 AM"}, got["Teeth Orthodontics"])
	assert.Equal(t, catalog[1].Slots, got["Cosmetic Dentistry"])
}

func TestComputeAvailabilityIgnoresOrphanedTreatments(t *testing.T) {
	bookings := []models.Booking{{Treatment: "Whitening", Slot: "08.00 AM - 08.30 AM"}}
	assert.Equal(t, catalog, ComputeAvailability(catalog, bookings))
}

func TestComputeAvailabilityDoesNotMutateInput(t *testing.T) {
	services := []models.Service{{Name: "Cleaning", Slots: []string{"a", "b"}}}
	ComputeAvailability(services, []models.Booking{{Treatment: "Cleaning", Slot: "a"}})
	assert.Equal(t, []string{"a", "b"}, services[0].Slots)
}

func TestComputeAvailabilityAllSlotsTaken(t *testing.T) {
	services := []models.Service{{Name: "Cleaning", Slots: []string{"a"}}}
	got := ComputeAvailability(services, []models.Booking{{Treatment: "Cleaning", Slot: "a"}})
	assert.NotNil(t, got[0].Slots)
	assert.Empty(t, got[0].Slots)
}

func TestAvailableFiltersByDate(t *testing.T) {
	ctx := context.Background()
	store := db.NewMemoryStore()
	seedCatalog(t, store)
	bookings := store.Collection(db.BookingCollection)
	_, err := bookings.InsertOne(ctx, models.Booking{Treatment: "Cleaning", Date: "May 14, 2022", Slot: "10.05 am - 10.30 am", Patient: "a@x.com"})
	require.NoError(t, err)
	_, err = bookings.InsertOne(ctx, models.Booking{Treatment: "Cleaning", Date: "May 15, 2022", Slot: "10.30 am - 11.00 am", Patient: "b@x.com"})
	require.NoError(t, err)

	svc := NewAvailabilityService(store, NewCatalogService(store, nil))

	got, err := svc.Available(ctx, "May 14, 2022")
	require.NoError(t, err)
	assert.Equal(t, []string{"10.30 am - 11.00 am", "11.05 am - 11.30 am"}, slotsByName(got)["Cleaning"])

	got, err = svc.Available(ctx, "May 16, 2022")
	require.NoError(t, err)
	assert.Equal(t, catalog[2].Slots, slotsByName(got)["Cleaning"])
}
