package controllers

import (
	"net/http"

	"DoctorsPortal/models"
	"DoctorsPortal/services"

	"github.com/gin-gonic/gin"
)

type doctorController struct {
	doctors *services.DoctorService
}

func Doctor(r *gin.Engine, d *Deps) {
	ctl := &doctorController{doctors: d.Doctors}
	doctor := r.Group("/doctor", d.Auth, d.Admin)
	{
		doctor.GET("", ctl.List)
		doctor.POST("", ctl.Add)
		doctor.DELETE("/:email", ctl.Remove)
	}
}

func (ctl *doctorController) List(c *gin.Context) {
	doctors, err := ctl.doctors.List(c.Request.Context())
	if err != nil {
		failed(c, err)
		return
	}
	c.JSON(http.StatusOK, doctors)
}

/*
* Bind JSON
* And pass to the service
 */
func (ctl *doctorController) Add(c *gin.Context) {
	var doctor models.Doctor
	if err := c.ShouldBindJSON(&doctor); err != nil {
		badRequest(c, err)
		return
	}
	res, err := ctl.doctors.Add(c.Request.Context(), doctor)
	if err != nil {
		failed(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (ctl *doctorController) Remove(c *gin.Context) {
	res, err := ctl.doctors.Remove(c.Request.Context(), c.Param("email"))
	if err != nil {
		failed(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
