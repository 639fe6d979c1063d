package controllers

import (
	"errors"
	"io"
	"net/http"

	"DoctorsPortal/services"

	"github.com/gin-gonic/gin"
)

type userController struct {
	users *services.UserService
}

func User(r *gin.Engine, d *Deps) {
	ctl := &userController{users: d.Users}
	r.GET("/user", d.Auth, ctl.List)
	r.GET("/admin/:email", ctl.IsAdmin)
	r.PUT("/user/admin/:email", d.Auth, d.Admin, ctl.MakeAdmin)
	if d.TokenLimit != nil {
		r.PUT("/user/:email", d.TokenLimit, ctl.Upsert)
	} else {
		r.PUT("/user/:email", ctl.Upsert)
	}
}

func (ctl *userController) List(c *gin.Context) {
	users, err := ctl.users.List(c.Request.Context())
	if err != nil {
		failed(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (ctl *userController) IsAdmin(c *gin.Context) {
	admin, err := ctl.users.IsAdmin(c.Request.Context(), c.Param("email"))
	if err != nil {
		failed(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"admin": admin})
}

func (ctl *userController) MakeAdmin(c *gin.Context) {
	res, err := ctl.users.MakeAdmin(c.Request.Context(), c.Param("email"))
	if err != nil {
		failed(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

/*
* Bind the profile fields, an empty body is allowed
* Upsert the user and hand back the result with a fresh token
 */
func (ctl *userController) Upsert(c *gin.Context) {
	var body map[string]interface{}
	if err := c.ShouldBindJSON(&body); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, err)
		return
	}
	res, token, err := ctl.users.Upsert(c.Request.Context(), c.Param("email"), body)
	if err != nil {
		failed(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": res, "token": token})
}
