package migrations

import (
	"context"
	"log"

	"DoctorsPortal/db"
	"DoctorsPortal/models"
)

var morningSlots = []string{
	"08.00 AM - 08.30 AM",
	"08.30 AM - 09.00 AM",
	"09.00 AM - 09.30 AM",
	"09.30 AM - 10.00 AM",
	"10.00 AM - 10.30 AM",
	"10.30 AM - 11.00 AM",
	"11.00 AM - 11.30 AM",
	"11.30 AM - 12.00 PM",
}

var eveningSlots = []string{
	"05.00 PM - 05.30 PM",
	"05.30 PM - 06.00 PM",
	"06.00 PM - 06.30 PM",
	"06.30 PM - 07.00 PM",
}

// DefaultServices is the catalog written into an empty services collection.
var DefaultServices = []models.Service{
	{Name: "Teeth Orthodontics", Slots: morningSlots, Price: 45},
	{Name: "Cosmetic Dentistry", Slots: morningSlots, Price: 60},
	{Name: "Teeth Cleaning", Slots: eveningSlots, Price: 25},
	{Name: "Cavity Protection", Slots: eveningSlots, Price: 35},
	{Name: "Pediatric Dental", Slots: morningSlots, Price: 40},
	{Name: "Oral Surgery", Slots: eveningSlots, Price: 90},
}

/*
* Seed the catalog only when the collection is empty
* An existing catalog is never touched
 */
func SeedServices(ctx context.Context, store db.Store) (int, error) {
	coll := store.Collection(db.ServiceCollection)
	var existing []models.ServiceName
	if err := coll.Find(ctx, nil, &existing, "name"); err != nil {
		log.Println("Error checking the service catalog:", err)
		return 0, err
	}
	if len(existing) > 0 {
		return 0, nil
	}
	inserted := 0
	for _, svc := range DefaultServices {
		svc.Slots = append([]string(nil), svc.Slots...)
		if _, err := coll.InsertOne(ctx, svc); err != nil {
			log.Println("Error inserting service", svc.Name, ":", err)
			return inserted, err
		}
		inserted++
	}
	log.Printf("Seeded %d services\n", inserted)
	return inserted, nil
}
