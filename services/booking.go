package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"DoctorsPortal/db"
	"DoctorsPortal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notifier receives bookings that need a confirmation email. Calls must not
// block on delivery.
type Notifier interface {
	AppointmentConfirmed(b models.Booking)
	PaymentConfirmed(b models.Booking)
}

// Observer counts admission and payment outcomes.
type Observer interface {
	ObserveAdmission(result string)
	ObservePayment(status string)
}

// Admission is the accept/reject decision for a booking request. A rejected
// admission carries the booking that already holds the tuple.
type Admission struct {
	Accepted bool
	Booking  models.Booking
	Result   *db.InsertResult
}

type BookingService struct {
	bookings db.Collection
	payments db.Collection
	notifier Notifier
	observer Observer
	now      func() time.Time
}

func NewBookingService(store db.Store, notifier Notifier, observer Observer) *BookingService {
	return &BookingService{
		bookings: store.Collection(db.BookingCollection),
		payments: store.Collection(db.PaymentCollection),
		notifier: notifier,
		observer: observer,
		now:      time.Now,
	}
}

/*
* Validate the required fields of the request
 */
func validateBooking(b models.Booking) error {
	fields := []struct{ name, value string }{
		{"treatment", b.Treatment},
		{"date", b.Date},
		{"slot", b.Slot},
		{"patient", b.Patient},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return fmt.Errorf("%w: %s is required", ErrInvalidInput, f.name)
		}
	}
	return nil
}

func keyFilter(k models.BookingKey) bson.M {
	return bson.M{"treatment": k.Treatment, "date": k.Date, "patient": k.Patient}
}

/*
* Reject when a booking with the same treatment, date and patient exists
* Otherwise insert it and send the confirmation email without waiting
* A duplicate-key error from the unique index is the same soft rejection
 */
func (s *BookingService) Submit(ctx context.Context, b models.Booking) (*Admission, error) {
	if err := validateBooking(b); err != nil {
		return nil, err
	}
	b.ID = primitive.NilObjectID
	b.Paid = false
	b.TransactionID = ""

	existing, err := s.findByKey(ctx, b.Key())
	if err != nil {
		return nil, err
	}
	if existing != nil {
		s.observe("duplicate")
		return &Admission{Accepted: false, Booking: *existing}, nil
	}

	res, err := s.bookings.InsertOne(ctx, b)
	if errors.Is(err, db.ErrDuplicateKey) {
		existing, err = s.findByKey(ctx, b.Key())
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, fmt.Errorf("booking reported duplicate but is missing")
		}
		s.observe("duplicate")
		return &Admission{Accepted: false, Booking: *existing}, nil
	}
	if err != nil {
		log.Println("Error while inserting booking:", err)
		return nil, fmt.Errorf("insert booking: %w", err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		b.ID = id
	}
	s.observe("accepted")
	if s.notifier != nil {
		s.notifier.AppointmentConfirmed(b)
	}
	return &Admission{Accepted: true, Booking: b, Result: res}, nil
}

func (s *BookingService) findByKey(ctx context.Context, k models.BookingKey) (*models.Booking, error) {
	var existing models.Booking
	err := s.bookings.FindOne(ctx, keyFilter(k), &existing)
	if errors.Is(err, db.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		log.Println("Error while checking for an existing booking:", err)
		return nil, fmt.Errorf("find booking: %w", err)
	}
	return &existing, nil
}

func (s *BookingService) ListForPatient(ctx context.Context, patient string) ([]models.Booking, error) {
	var bookings []models.Booking
	if err := s.bookings.Find(ctx, bson.M{"patient": patient}, &bookings); err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	if bookings == nil {
		bookings = []models.Booking{}
	}
	return bookings, nil
}

func (s *BookingService) Get(ctx context.Context, id string) (*models.Booking, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	var b models.Booking
	err = s.bookings.FindOne(ctx, bson.M{"_id": oid}, &b)
	if errors.Is(err, db.ErrNoDocuments) {
		return nil, fmt.Errorf("booking %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find booking %s: %w", id, err)
	}
	return &b, nil
}

/*
* Mark the booking paid and append the payment log entry
* The two writes are independent; jobs.ReconcilePayments repairs a missing log entry
* Repeating the same transaction is a no-op, a different one is ErrAlreadyPaid
 */
func (s *BookingService) ConfirmPayment(ctx context.Context, id string, details models.PaymentDetails) (*db.UpdateResult, *models.Booking, error) {
	if strings.TrimSpace(details.TransactionID) == "" {
		return nil, nil, fmt.Errorf("%w: transactionId is required", ErrInvalidInput)
	}
	b, err := s.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.observePayment("not_found")
		}
		return nil, nil, err
	}
	if b.Paid {
		return s.alreadyPaid(b, details)
	}

	// only an unpaid booking matches, so a concurrent confirmation is never overwritten
	update := bson.M{"$set": bson.M{"paid": true, "transactionId": details.TransactionID}}
	filter := bson.M{"_id": b.ID, "paid": bson.M{"$ne": true}}
	res, err := s.bookings.UpdateOne(ctx, filter, update, false)
	if err != nil {
		log.Println("Error while marking booking paid:", err)
		return nil, nil, fmt.Errorf("update booking %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		current, err := s.Get(ctx, id)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				s.observePayment("not_found")
			}
			return nil, nil, err
		}
		return s.alreadyPaid(current, details)
	}
	b.Paid = true
	b.TransactionID = details.TransactionID

	_, err = s.payments.InsertOne(ctx, NewPaymentRecord(*b, details.Amount, s.now()))
	if errors.Is(err, db.ErrDuplicateKey) {
		log.Println("Payment for booking", id, "was already logged")
		err = nil
	}
	if err != nil {
		log.Println("Error while appending payment record:", err)
		return nil, nil, fmt.Errorf("insert payment for %s: %w", id, err)
	}
	s.observePayment("confirmed")
	if s.notifier != nil {
		s.notifier.PaymentConfirmed(*b)
	}
	return res, b, nil
}

// alreadyPaid answers a confirmation for a booking that is paid: the same
// transaction is a no-op, any other one is a conflict.
func (s *BookingService) alreadyPaid(b *models.Booking, details models.PaymentDetails) (*db.UpdateResult, *models.Booking, error) {
	if b.TransactionID == details.TransactionID {
		s.observePayment("repeated")
		return &db.UpdateResult{Acknowledged: true, MatchedCount: 1}, b, nil
	}
	s.observePayment("conflict")
	return nil, nil, ErrAlreadyPaid
}

// NewPaymentRecord builds the log entry for a paid booking. A zero amount
// falls back to the booking price.
func NewPaymentRecord(b models.Booking, amount float64, at time.Time) models.Payment {
	if amount == 0 {
		amount = b.Price
	}
	return models.Payment{
		BookingID:     b.ID.Hex(),
		TransactionID: b.TransactionID,
		Amount:        amount,
		Patient:       b.Patient,
		CreatedAt:     at.UTC(),
	}
}

func (s *BookingService) observe(result string) {
	if s.observer != nil {
		s.observer.ObserveAdmission(result)
	}
}

func (s *BookingService) observePayment(status string) {
	if s.observer != nil {
		s.observer.ObservePayment(status)
	}
}
