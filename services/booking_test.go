package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"DoctorsPortal/db"
	"DoctorsPortal/models"
)

func newBookingService(t *testing.T) (*BookingService, *db.MemoryStore, *recordingNotifier, *countingObserver) {
	t.Helper()
	store := db.NewMemoryStore()
	n := &recordingNotifier{}
	o := newCountingObserver()
	svc := NewBookingService(store, n, o)
	svc.now = func() time.Time { return time.Date(2022, 5, 14, 9, 0, 0, 0, time.UTC) }
	return svc, store, n, o
}

func request() models.Booking {
	return models.Booking{
		Treatment:   "Cleaning",
		Date:        "May 14, 2022",
		Slot:        "10.05 am - 10.30 am",
		Patient:     "a@x.com",
		PatientName: "Ada",
		Price:       25,
	}
}

func countBookings(t *testing.T, store db.Store, filter bson.M) int {
	t.Helper()
	var out []models.Booking
	require.NoError(t, store.Collection(db.BookingCollection).Find(context.Background(), filter, &out))
	return len(out)
}

func TestSubmitIsIdempotentPerTuple(t *testing.T) {
	ctx := context.Background()
	svc, store, n, o := newBookingService(t)

	first, err := svc.Submit(ctx, request())
	require.NoError(t, err)
	assert.True(t, first.Accepted)
	assert.False(t, first.Booking.ID.IsZero())
	require.NotNil(t, first.Result)
	assert.Equal(t, first.Booking.ID, first.Result.InsertedID)

	again := request()
	again.Slot = "11.05 am - 11.30 am"
	second, err := svc.Submit(ctx, again)
	require.NoError(t, err)
	assert.False(t, second.Accepted)
	assert.Equal(t, first.Booking.ID, second.Booking.ID)
	assert.Equal(t, "10.05 am - 10.30 am", second.Booking.Slot)
	assert.Nil(t, second.Result)

	assert.Equal(t, 1, countBookings(t, store, bson.M{"treatment": "Cleaning", "date": "May 14, 2022", "patient": "a@x.com"}))
	assert.Len(t, n.appointments, 1)
	assert.Equal(t, 1, o.admissions["accepted"])
	assert.Equal(t, 1, o.admissions["duplicate"])
}

func TestSubmitDifferentTuplesAreIndependent(t *testing.T) {
	ctx := context.Background()
	svc, store, _, _ := newBookingService(t)

	for _, mutate := range []func(*models.Booking){
		func(b *models.Booking) {},
		func(b *models.Booking) { b.Date = "May 15, 2022" },
		func(b *models.Booking) { b.Treatment = "Teeth Orthodontics" },
		func(b *models.Booking) { b.Patient = "b@x.com" },
	} {
		b := request()
		mutate(&b)
		adm, err := svc.Submit(ctx, b)
		require.NoError(t, err)
		assert.True(t, adm.Accepted)
	}
	assert.Equal(t, 4, countBookings(t, store, bson.M{}))
}

func TestSubmitIgnoresClientPaymentFields(t *testing.T) {
	svc, _, _, _ := newBookingService(t)
	b := request()
	b.Paid = true
	b.TransactionID = "txn_forged"
	b.ID = primitive.NewObjectID()

	adm, err := svc.Submit(context.Background(), b)
	require.NoError(t, err)
	assert.False(t, adm.Booking.Paid)
	assert.Empty(t, adm.Booking.TransactionID)
	assert.NotEqual(t, b.ID, adm.Booking.ID)
}

func TestSubmitValidates(t *testing.T) {
	svc, _, n, _ := newBookingService(t)
	b := request()
	b.Patient = " "
	_, err := svc.Submit(context.Background(), b)
	assert.True(t, errors.Is(err, ErrInvalidInput))
	assert.Empty(t, n.appointments)
}

func TestSubmitConcurrentDuplicatesWithUniqueIndex(t *testing.T) {
	ctx := context.Background()
	svc, store, n, _ := newBookingService(t)
	require.NoError(t, store.Collection(db.BookingCollection).EnsureUniqueIndex(ctx, "treatment", "date", "patient"))

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		accepted int
	)
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			adm, err := svc.Submit(ctx, request())
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			defer mu.Unlock()
			if adm.Accepted {
				accepted++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, accepted)
	assert.Equal(t, 1, countBookings(t, store, bson.M{}))
	assert.Len(t, n.appointments, 1)
}

func TestListForPatientAndGet(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _ := newBookingService(t)
	adm, err := svc.Submit(ctx, request())
	require.NoError(t, err)

	list, err := svc.ListForPatient(ctx, "a@x.com")
	require.NoError(t, err)
	require.Len(t, list, 1)

	empty, err := svc.ListForPatient(ctx, "nobody@x.com")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	got, err := svc.Get(ctx, adm.Booking.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "Cleaning", got.Treatment)

	_, err = svc.Get(ctx, primitive.NewObjectID().Hex())
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = svc.Get(ctx, "not-hex")
	assert.True(t, errors.Is(err, ErrInvalidID))
}

func paymentCount(t *testing.T, store db.Store) int {
	t.Helper()
	var out []models.Payment
	require.NoError(t, store.Collection(db.PaymentCollection).Find(context.Background(), bson.M{}, &out))
	return len(out)
}

func TestConfirmPaymentUnknownBooking(t *testing.T) {
	svc, store, n, o := newBookingService(t)

	_, _, err := svc.ConfirmPayment(context.Background(), primitive.NewObjectID().Hex(), models.PaymentDetails{TransactionID: "txn_1"})
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Zero(t, paymentCount(t, store))
	assert.Empty(t, n.payments)
	assert.Equal(t, 1, o.payments["not_found"])
}

func TestConfirmPaymentMarksPaidAndLogs(t *testing.T) {
	ctx := context.Background()
	svc, store, n, _ := newBookingService(t)
	adm, err := svc.Submit(ctx, request())
	require.NoError(t, err)
	id := adm.Booking.ID.Hex()

	res, b, err := svc.ConfirmPayment(ctx, id, models.PaymentDetails{TransactionID: "txn_1"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, res.MatchedCount)
	assert.EqualValues(t, 1, res.ModifiedCount)
	assert.True(t, b.Paid)

	stored, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.True(t, stored.Paid)
	assert.Equal(t, "txn_1", stored.TransactionID)

	var logged []models.Payment
	require.NoError(t, store.Collection(db.PaymentCollection).Find(ctx, bson.M{"bookingId": id}, &logged))
	require.Len(t, logged, 1)
	assert.Equal(t, "txn_1", logged[0].TransactionID)
	assert.Equal(t, 25.0, logged[0].Amount)
	assert.Equal(t, "a@x.com", logged[0].Patient)
	assert.Len(t, n.payments, 1)
}

func TestConfirmPaymentIsMonotonic(t *testing.T) {
	ctx := context.Background()
	svc, store, _, _ := newBookingService(t)
	adm, err := svc.Submit(ctx, request())
	require.NoError(t, err)
	id := adm.Booking.ID.Hex()

	_, _, err = svc.ConfirmPayment(ctx, id, models.PaymentDetails{TransactionID: "txn_1", Amount: 25})
	require.NoError(t, err)

	res, _, err := svc.ConfirmPayment(ctx, id, models.PaymentDetails{TransactionID: "txn_1"})
	require.NoError(t, err)
	assert.EqualValues(t, 0, res.ModifiedCount)

	_, _, err = svc.ConfirmPayment(ctx, id, models.PaymentDetails{TransactionID: "txn_2"})
	assert.True(t, errors.Is(err, ErrAlreadyPaid))

	assert.Equal(t, 1, paymentCount(t, store))
}

func TestConfirmPaymentRacingTransactions(t *testing.T) {
	ctx := context.Background()
	store := db.NewMemoryStore()
	bookings := &hookedCollection{Collection: store.Collection(db.BookingCollection)}
	svc := NewBookingService(hookedStore{Store: store, hooked: map[string]db.Collection{db.BookingCollection: bookings}}, nil, nil)
	adm, err := svc.Submit(ctx, request())
	require.NoError(t, err)
	id := adm.Booking.ID.Hex()

	// pi_A lands after pi_B has read the booking as unpaid
	var firstErr error
	bookings.beforeUpdate(func() {
		_, _, firstErr = svc.ConfirmPayment(ctx, id, models.PaymentDetails{TransactionID: "pi_A"})
	})
	_, _, err = svc.ConfirmPayment(ctx, id, models.PaymentDetails{TransactionID: "pi_B"})
	require.NoError(t, firstErr)
	assert.True(t, errors.Is(err, ErrAlreadyPaid))

	stored, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "pi_A", stored.TransactionID)
	assert.Equal(t, 1, paymentCount(t, store))

	// the same transaction racing itself is a no-op
	second, err := svc.Submit(ctx, models.Booking{Treatment: "Cleaning", Date: "May 15, 2022", Slot: "x", Patient: "a@x.com"})
	require.NoError(t, err)
	secondID := second.Booking.ID.Hex()
	bookings.beforeUpdate(func() {
		_, _, firstErr = svc.ConfirmPayment(ctx, secondID, models.PaymentDetails{TransactionID: "pi_C"})
	})
	res, _, err := svc.ConfirmPayment(ctx, secondID, models.PaymentDetails{TransactionID: "pi_C"})
	require.NoError(t, firstErr)
	require.NoError(t, err)
	assert.EqualValues(t, 0, res.ModifiedCount)
	assert.Equal(t, 2, paymentCount(t, store))
}

func TestSubmitNamesFirstMissingField(t *testing.T) {
	svc, _, _, _ := newBookingService(t)
	for i := 0; i < 10; i++ {
		_, err := svc.Submit(context.Background(), models.Booking{Patient: "a@x.com"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "treatment is required")
	}
}

func TestConfirmPaymentRequiresTransaction(t *testing.T) {
	svc, _, _, _ := newBookingService(t)
	_, _, err := svc.ConfirmPayment(context.Background(), primitive.NewObjectID().Hex(), models.PaymentDetails{})
	assert.True(t, errors.Is(err, ErrInvalidInput))
}
