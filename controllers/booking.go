package controllers

import (
	"net/http"

	"DoctorsPortal/authorization"
	"DoctorsPortal/models"
	"DoctorsPortal/services"

	"github.com/gin-gonic/gin"
)

type bookingController struct {
	bookings *services.BookingService
}

func Booking(r *gin.Engine, d *Deps) {
	ctl := &bookingController{bookings: d.Bookings}
	r.GET("/booking", d.Auth, ctl.ListOwn)
	r.GET("/booking/:id", d.Auth, ctl.Get)
	r.POST("/booking", ctl.Submit)
	r.PATCH("/booking/:id", d.Auth, ctl.ConfirmPayment)
}

/*
* The patient in the query must be the caller
 */
func (ctl *bookingController) ListOwn(c *gin.Context) {
	patient := c.Query("patient")
	email, ok := authorization.Email(c)
	if !ok || patient != email {
		c.JSON(http.StatusForbidden, gin.H{"message": "Forbidden Access"})
		return
	}
	bookings, err := ctl.bookings.ListForPatient(c.Request.Context(), patient)
	if err != nil {
		failed(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

func (ctl *bookingController) Get(c *gin.Context) {
	booking, err := ctl.bookings.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		failed(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

/*
* Bind the booking and pass to the admission check
* A duplicate is not an error, it answers success false with the existing booking
 */
func (ctl *bookingController) Submit(c *gin.Context) {
	var booking models.Booking
	if err := c.ShouldBindJSON(&booking); err != nil {
		badRequest(c, err)
		return
	}
	admission, err := ctl.bookings.Submit(c.Request.Context(), booking)
	if err != nil {
		failed(c, err)
		return
	}
	if !admission.Accepted {
		c.JSON(http.StatusOK, gin.H{"success": false, "booking": admission.Booking})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "result": admission.Result, "booking": admission.Booking})
}

/*
* Bind the payment details reported by the client
* Mark the booking paid and respond with the update result
 */
func (ctl *bookingController) ConfirmPayment(c *gin.Context) {
	var details models.PaymentDetails
	if err := c.ShouldBindJSON(&details); err != nil {
		badRequest(c, err)
		return
	}
	res, _, err := ctl.bookings.ConfirmPayment(c.Request.Context(), c.Param("id"), details)
	if err != nil {
		failed(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
