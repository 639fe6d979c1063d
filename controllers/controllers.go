package controllers

import (
	"errors"
	"log"
	"net/http"

	"DoctorsPortal/payments"
	"DoctorsPortal/services"

	"github.com/gin-gonic/gin"
)

// Deps is everything the route handlers need. Auth must stop requests
// without a valid token; Admin must run after Auth.
type Deps struct {
	Catalog      *services.CatalogService
	Availability *services.AvailabilityService
	Bookings     *services.BookingService
	Users        *services.UserService
	Doctors      *services.DoctorService
	Payments     *services.PaymentService

	Auth       gin.HandlerFunc
	Admin      gin.HandlerFunc
	TokenLimit gin.HandlerFunc

	DefaultDate string
}

/*
* Map service errors to a status code and a message body
* Unknown errors are logged and hidden behind a 500
 */
func failed(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrInvalidInput),
		errors.Is(err, services.ErrInvalidID),
		errors.Is(err, payments.ErrInvalidAmount):
		status = http.StatusBadRequest
	case errors.Is(err, services.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, services.ErrAlreadyPaid):
		status = http.StatusConflict
	}
	if status == http.StatusInternalServerError {
		log.Println("Error while handling", c.Request.Method, c.FullPath(), ":", err)
		c.JSON(status, gin.H{"message": "internal server error"})
		return
	}
	c.JSON(status, gin.H{"message": err.Error()})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
}

func Home(r *gin.Engine) {
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Server is Running")
	})
}
