package jobs

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"DoctorsPortal/db"
	"DoctorsPortal/models"
	"DoctorsPortal/services"

	"github.com/robfig/cron/v3"
	"go.mongodb.org/mongo-driver/bson"
)

// Job is one scheduled task. Schedule uses the standard five-field cron syntax.
type Job struct {
	Name     string
	Schedule string
	Run      func()
}

/*
* Register every job on one cron instance and start it
* The caller stops it on shutdown
 */
func Start(jobs ...Job) (*cron.Cron, error) {
	c := cron.New()
	for _, j := range jobs {
		run := j.Run
		name := j.Name
		if _, err := c.AddFunc(j.Schedule, func() {
			log.Println("Running scheduled job", name)
			run()
		}); err != nil {
			return nil, fmt.Errorf("schedule %s %q: %w", name, j.Schedule, err)
		}
	}
	c.Start()
	return c, nil
}

type ReconcileObserver interface {
	ObserveReconciled(n int)
}

/*
* Append the payment log entry for every paid booking that has none
* This closes the window between marking a booking paid and writing its payment
 */
func ReconcilePayments(ctx context.Context, store db.Store, observer ReconcileObserver) (int, error) {
	var paid []models.Booking
	if err := store.Collection(db.BookingCollection).Find(ctx, bson.M{"paid": true}, &paid); err != nil {
		log.Println("Error while loading paid bookings:", err)
		return 0, err
	}
	if len(paid) == 0 {
		return 0, nil
	}

	payments := store.Collection(db.PaymentCollection)
	var logged []models.Payment
	if err := payments.Find(ctx, nil, &logged, "bookingId"); err != nil {
		log.Println("Error while loading payment records:", err)
		return 0, err
	}
	seen := make(map[string]bool, len(logged))
	for _, p := range logged {
		seen[p.BookingID] = true
	}

	now := time.Now()
	added := 0
	for _, b := range paid {
		if seen[b.ID.Hex()] {
			continue
		}
		record := services.NewPaymentRecord(b, 0, now)
		record.Reconciled = true
		_, err := payments.InsertOne(ctx, record)
		if errors.Is(err, db.ErrDuplicateKey) {
			// confirmation logged it after the lookup
			continue
		}
		if err != nil {
			log.Println("Error while backfilling payment for booking", b.ID.Hex(), ":", err)
			continue
		}
		added++
	}
	if added > 0 {
		log.Printf("Reconciled %d payments\n", added)
	}
	if observer != nil {
		observer.ObserveReconciled(added)
	}
	return added, nil
}
