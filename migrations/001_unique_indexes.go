package migrations

import (
	"context"
	"log"

	"DoctorsPortal/db"
)

// BookingKeyFields is the admission key enforced by the bookings index.
var BookingKeyFields = []string{"treatment", "date", "patient"}

func EnsureBookingIndex(ctx context.Context, store db.Store) error {
	err := store.Collection(db.BookingCollection).EnsureUniqueIndex(ctx, BookingKeyFields...)
	if err != nil {
		log.Println("Error while creating the booking index:", err)
		return err
	}
	log.Println("Booking index on", BookingKeyFields, "is in place")
	return nil
}

// EnsurePaymentIndex allows one payment log entry per booking.
func EnsurePaymentIndex(ctx context.Context, store db.Store) error {
	err := store.Collection(db.PaymentCollection).EnsureUniqueIndex(ctx, "bookingId")
	if err != nil {
		log.Println("Error while creating the payment index:", err)
		return err
	}
	log.Println("Payment index on bookingId is in place")
	return nil
}
