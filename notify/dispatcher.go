package notify

import (
	"context"
	"log"
	"sync"
	"time"

	"DoctorsPortal/models"
)

const (
	KindAppointment = "appointment"
	KindPayment     = "payment"
)

// Observer records the outcome of each delivery.
type Observer interface {
	ObserveNotification(kind string, err error)
}

// Dispatcher sends confirmation emails on detached goroutines. Callers never
// wait for delivery and never see its errors; failures are logged and
// counted.
type Dispatcher struct {
	sender   EmailSender
	clinic   Clinic
	observer Observer
	timeout  time.Duration
	wg       sync.WaitGroup
}

func NewDispatcher(sender EmailSender, clinic Clinic, observer Observer) *Dispatcher {
	return &Dispatcher{sender: sender, clinic: clinic, observer: observer, timeout: 30 * time.Second}
}

func (d *Dispatcher) AppointmentConfirmed(b models.Booking) {
	d.dispatch(KindAppointment, b, AppointmentConfirmation)
}

func (d *Dispatcher) PaymentConfirmed(b models.Booking) {
	d.dispatch(KindPayment, b, PaymentConfirmation)
}

// Wait blocks until in-flight sends finish. Used on shutdown and in tests.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) dispatch(kind string, b models.Booking, build func(models.Booking, Clinic) (EmailMessage, error)) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		err := d.send(b, build)
		if err != nil {
			log.Println("Error while sending", kind, "email to", b.Patient, ":", err)
		}
		if d.observer != nil {
			d.observer.ObserveNotification(kind, err)
		}
	}()
}

func (d *Dispatcher) send(b models.Booking, build func(models.Booking, Clinic) (EmailMessage, error)) error {
	msg, err := build(b, d.clinic)
	if err != nil {
		return err
	}
	// detached from the request so a finished response does not cancel it
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()
	return d.sender.Send(ctx, msg)
}
