package services

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"DoctorsPortal/db"
	"DoctorsPortal/models"
)

var catalog = []models.Service{
	{Name: "Teeth Orthodontics", Slots: []string{"08.00 AM - 08.30 AM", "08.30 AM - 09.00 AM", "09.00 AM - 9.30 AM"}, Price: 45},
	{Name: "Cosmetic Dentistry", Slots: []string{"08.00 AM - 08.30 AM", "08.30 AM - 09.00 AM"}, Price: 60},
	{Name: "Cleaning", Slots: []string{"10.05 am - 10.30 am", "10.30 am - 11.00 am", "11.05 am - 11.30 am"}, Price: 25},
}

func seedCatalog(t *testing.T, store db.Store) {
	t.Helper()
	for _, svc := range catalog {
		_, err := store.Collection(db.ServiceCollection).InsertOne(context.Background(), svc)
		require.NoError(t, err)
	}
}

type recordingNotifier struct {
	mu           sync.Mutex
	appointments []models.Booking
	payments     []models.Booking
}

func (n *recordingNotifier) AppointmentConfirmed(b models.Booking) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.appointments = append(n.appointments, b)
}

func (n *recordingNotifier) PaymentConfirmed(b models.Booking) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.payments = append(n.payments, b)
}

type countingObserver struct {
	mu         sync.Mutex
	admissions map[string]int
	payments   map[string]int
}

func newCountingObserver() *countingObserver {
	return &countingObserver{admissions: map[string]int{}, payments: map[string]int{}}
}

func (o *countingObserver) ObserveAdmission(result string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.admissions[result]++
}

func (o *countingObserver) ObservePayment(status string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.payments[status]++
}

// hookedCollection runs a callback once, right before the next write it sees.
type hookedCollection struct {
	db.Collection
	mu       sync.Mutex
	onUpdate func()
}

func (c *hookedCollection) beforeUpdate(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onUpdate = fn
}

func (c *hookedCollection) UpdateOne(ctx context.Context, filter, update bson.M, upsert bool) (*db.UpdateResult, error) {
	c.mu.Lock()
	fn := c.onUpdate
	c.onUpdate = nil
	c.mu.Unlock()
	if fn != nil {
		fn()
	}
	return c.Collection.UpdateOne(ctx, filter, update, upsert)
}

type hookedStore struct {
	db.Store
	hooked map[string]db.Collection
}

func (s hookedStore) Collection(name string) db.Collection {
	if c, ok := s.hooked[name]; ok {
		return c
	}
	return s.Store.Collection(name)
}
