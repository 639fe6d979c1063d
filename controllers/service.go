package controllers

import (
	"net/http"

	"DoctorsPortal/services"

	"github.com/gin-gonic/gin"
)

type serviceController struct {
	catalog      *services.CatalogService
	availability *services.AvailabilityService
	defaultDate  string
}

func Service(r *gin.Engine, d *Deps) {
	ctl := &serviceController{catalog: d.Catalog, availability: d.Availability, defaultDate: d.DefaultDate}
	r.GET("/service", ctl.ListNames)
	r.GET("/available", ctl.Available)
}

func (ctl *serviceController) ListNames(c *gin.Context) {
	names, err := ctl.catalog.Names(c.Request.Context())
	if err != nil {
		failed(c, err)
		return
	}
	c.JSON(http.StatusOK, names)
}

/*
* Date comes from the query, falling back to the configured default
* Respond with every service and its open slots for that date
 */
func (ctl *serviceController) Available(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		date = ctl.defaultDate
	}
	available, err := ctl.availability.Available(c.Request.Context(), date)
	if err != nil {
		failed(c, err)
		return
	}
	c.JSON(http.StatusOK, available)
}
