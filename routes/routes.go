package routes

import (
	"net/http"

	"DoctorsPortal/controllers"
	"DoctorsPortal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Options configures the engine around the route handlers.
type Options struct {
	AllowedOrigins []string
	// Metrics is mounted at GET /metrics when set.
	Metrics http.Handler
}

/*
* Build the engine with recovery, request ids and CORS
* Then mount every route
 */
func New(d *controllers.Deps, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), middleware.RequestID())
	r.Use(cors.New(corsConfig(opts.AllowedOrigins)))
	if opts.Metrics != nil {
		r.GET("/metrics", gin.WrapH(opts.Metrics))
	}
	Routes(r, d)
	return r
}

func Routes(r *gin.Engine, d *controllers.Deps) {
	//public and private routes are mixed per resource, each handler chain carries its own auth
	controllers.Home(r)
	controllers.Service(r, d)
	controllers.User(r, d)
	controllers.Booking(r, d)
	controllers.Doctor(r, d)
	controllers.Payment(r, d)
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders: []string{middleware.RequestIDHeader},
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}
