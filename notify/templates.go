package notify

import (
	"bytes"
	"fmt"
	"html/template"

	"DoctorsPortal/models"
)

// Clinic holds the footer shown in every email.
type Clinic struct {
	Address        []string
	UnsubscribeURL string
}

var appointmentHTML = template.Must(template.New("appointment").Parse(`
<div>
    <p>Hello {{.Booking.PatientName}}</p>
    <h3>Your Appointment for {{.Booking.Treatment}} is confirmed</h3>
    <p>Looking forward to seeing you on {{.Booking.Date}} at {{.Booking.Slot}}</p>
    <h3>Our Address</h3>
    {{range .Clinic.Address}}<p>{{.}}</p>
    {{end}}<a href="{{.Clinic.UnsubscribeURL}}">Unsubscribe</a>
</div>
`))

var paymentHTML = template.Must(template.New("payment").Parse(`
<div>
    <p>Hello {{.Booking.PatientName}}</p>
    <h3>Thank you for your payment</h3>
    <h3>We have received your payment</h3>
    <p>Looking forward to seeing you on {{.Booking.Date}} at {{.Booking.Slot}}</p>
    <h3>Our Address</h3>
    {{range .Clinic.Address}}<p>{{.}}</p>
    {{end}}<a href="{{.Clinic.UnsubscribeURL}}">Unsubscribe</a>
</div>
`))

type templateData struct {
	Booking models.Booking
	Clinic  Clinic
}

func AppointmentConfirmation(b models.Booking, clinic Clinic) (EmailMessage, error) {
	line := fmt.Sprintf("Your Appointment for %s is on %s at %s is Confirmed", b.Treatment, b.Date, b.Slot)
	return render(appointmentHTML, b, clinic, line, line)
}

func PaymentConfirmation(b models.Booking, clinic Clinic) (EmailMessage, error) {
	subject := fmt.Sprintf("We have received your payment for %s is on %s at %s is Confirmed", b.Treatment, b.Date, b.Slot)
	text := fmt.Sprintf("Your Payment for this Appointment %s is on %s at %s is Confirmed", b.Treatment, b.Date, b.Slot)
	return render(paymentHTML, b, clinic, subject, text)
}

func render(tmpl *template.Template, b models.Booking, clinic Clinic, subject, text string) (EmailMessage, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, templateData{Booking: b, Clinic: clinic}); err != nil {
		return EmailMessage{}, fmt.Errorf("notify: render %s: %w", tmpl.Name(), err)
	}
	return EmailMessage{
		To:      b.Patient,
		ToName:  b.PatientName,
		Subject: subject,
		Text:    text,
		HTML:    buf.String(),
	}, nil
}
