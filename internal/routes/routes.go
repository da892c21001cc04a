package routes

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/harentsoaR/doctors-portal/internal/handlers"
	"github.com/harentsoaR/doctors-portal/internal/middleware"
	"github.com/harentsoaR/doctors-portal/internal/utils"
)

type Options struct {
	Issuer          *utils.TokenIssuer
	Access          middleware.AdminChecker
	IssuerKeyHash   string
	CORSOrigins     []string
	AllowAllOrigins bool
	RateLimitPerMin int
	Logger          *zap.Logger
}

// NewRouter builds the engine with the global middleware stack and every route.
func NewRouter(h *handlers.Handler, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Recovery(opts.Logger))
	r.Use(middleware.RequestLogger(opts.Logger))
	r.Use(middleware.RateLimitMiddleware(opts.RateLimitPerMin, opts.Logger))
	r.Use(cors.New(corsConfig(opts)))

	Register(r, h, opts)
	return r
}

func corsConfig(opts Options) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", middleware.IssuerKeyHeader, middleware.RequestIDHeader},
		ExposeHeaders: []string{middleware.RequestIDHeader},
	}
	if opts.AllowAllOrigins {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = opts.CORSOrigins
		cfg.AllowCredentials = true
	}
	return cfg
}

// Register declares each route with its guards, in the order they must run.
func Register(r gin.IRouter, h *handlers.Handler, opts Options) {
	bearer := middleware.Bearer(opts.Issuer)
	admin := middleware.Admin(opts.Access)

	authed := middleware.Guarded(opts.Logger, bearer)
	adminOnly := middleware.Guarded(opts.Logger, bearer, admin)
	issuance := middleware.Guarded(opts.Logger, middleware.IssuerKey(opts.IssuerKeyHash))

	r.GET("/", h.Home)

	// Services and availability
	r.GET("/service", h.GetServices)
	r.GET("/available", h.GetAvailable)

	// Bookings
	r.GET("/booking", authed, h.GetPatientBookings)
	r.POST("/booking", h.CreateBooking)

	// Users
	r.GET("/user", authed, h.ListUsers)
	r.GET("/admin/:email", h.CheckAdmin)
	r.PUT("/user/admin/:email", adminOnly, h.MakeAdmin)
	r.PUT("/user/:email", issuance, h.UpsertUser)
	r.DELETE("/user/:email", adminOnly, h.DeleteUser)

	// Doctors
	r.POST("/doctor", adminOnly, h.CreateDoctor)
	r.GET("/doctor", adminOnly, h.ListDoctors)
	r.DELETE("/doctor/:email", adminOnly, h.DeleteDoctor)
}
