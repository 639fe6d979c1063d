package controllers

import (
	"net/http"

	"DoctorsPortal/models"
	"DoctorsPortal/services"

	"github.com/gin-gonic/gin"
)

type paymentController struct {
	payments *services.PaymentService
}

func Payment(r *gin.Engine, d *Deps) {
	ctl := &paymentController{payments: d.Payments}
	r.POST("/create-payment-intent", d.Auth, ctl.CreateIntent)
}

/*
* Bind the service price
* Ask the gateway for a payment intent and respond with its client secret
 */
func (ctl *paymentController) CreateIntent(c *gin.Context) {
	var req models.PaymentIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	secret, err := ctl.payments.CreateIntent(c.Request.Context(), req.Price)
	if err != nil {
		failed(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"clientSecret": secret})
}
