package ginserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"

	"hotelbooking/internal/infra/config"
	"hotelbooking/internal/infra/obs"
)

type PricingHTTP interface {
	Quote(c *gin.Context)
	ListRules(c *gin.Context)
	AddRule(c *gin.Context)
	SeedDefaults(c *gin.Context)
}

type RoomHTTP interface {
	Search(c *gin.Context)
	SetAvailability(c *gin.Context)
	Release(c *gin.Context)
	JoinWaitlist(c *gin.Context)
	ListWaitlist(c *gin.Context)
}

type BookingHTTP interface {
	Create(c *gin.Context)
	Get(c *gin.Context)
	Cancel(c *gin.Context)
	Modify(c *gin.Context)
}

type AdminHTTP interface {
	UpdateBookingStatus(c *gin.Context)
}

type Handlers struct {
	Pricing        PricingHTTP
	Rooms          RoomHTTP
	Booking        BookingHTTP
	Reviews        ReviewHTTP
	Branches       BranchHTTP
	Me             MeHTTP
	Admin          AdminHTTP
	AuthMiddleware gin.HandlerFunc
	Metrics        gin.HandlerFunc
	MetricsHandler http.Handler
}

func NewServer(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *http.Server {
	return &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           NewRouter(cfg, obsMW, health, h),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func NewRouter(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *gin.Engine {
	mode := configureGinMode(cfg.Env)
	if obsMW.Logger != nil {
		obsMW.Logger.Info("gin initialized", "mode", mode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(obsMW.RequestID())
	router.Use(obsMW.AccessLog())
	if h.Metrics != nil {
		router.Use(h.Metrics)
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization", IdempotencyKeyHeader},
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Type",
			obs.RequestIDHeader,
		},
		MaxAge: 12 * time.Hour,
	}))
	if h.AuthMiddleware != nil {
		router.Use(h.AuthMiddleware)
	}

	router.GET("/livez", health.Livez)
	router.GET("/readyz", health.Readyz)
	if h.MetricsHandler != nil && cfg.MetricsEnabled {
		path := cfg.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		router.GET(path, gin.WrapH(h.MetricsHandler))
	}

	api := router.Group("/api/v1")
	if h.Pricing != nil {
		api.POST("/pricing/quote", h.Pricing.Quote)
		api.GET("/pricing/rules", h.Pricing.ListRules)
		api.POST("/pricing/rules", h.Pricing.AddRule)
		api.POST("/pricing/rules/defaults", h.Pricing.SeedDefaults)
	}
	if h.Rooms != nil {
		api.GET("/rooms", h.Rooms.Search)
		api.PUT("/rooms/:id/availability", h.Rooms.SetAvailability)
		api.POST("/rooms/:id/release", h.Rooms.Release)
		api.POST("/rooms/:id/waitlist", h.Rooms.JoinWaitlist)
		api.GET("/rooms/:id/waitlist", h.Rooms.ListWaitlist)
	}
	if h.Booking != nil {
		api.POST("/bookings", h.Booking.Create)
		api.GET("/bookings/:id", h.Booking.Get)
		api.POST("/bookings/:id/cancel", h.Booking.Cancel)
		api.PUT("/bookings/:id", h.Booking.Modify)
	}
	if h.Reviews != nil {
		api.GET("/rooms/:id/reviews", h.Reviews.ListRoom)
		api.POST("/bookings/:id/review", h.Reviews.Submit)
		api.PUT("/reviews/:id", h.Reviews.Update)
		api.GET("/me/reviews", h.Reviews.ListMine)
	}
	if h.Branches != nil {
		api.GET("/branches", h.Branches.List)
		api.GET("/branches/:id", h.Branches.Get)
		api.POST("/admin/branches", h.Branches.Add)
	}
	if h.Admin != nil {
		api.PUT("/admin/bookings/:id/status", h.Admin.UpdateBookingStatus)
	}
	if h.Me != nil {
		meGroup := api.Group("/me")
		meGroup.GET("/bookings", h.Me.ListBookings)
		meGroup.GET("/bookings/stats", h.Me.BookingStats)
		meGroup.GET("/waitlist", h.Me.ListWaitlist)
		meGroup.DELETE("/waitlist/:id", h.Me.LeaveWaitlist)
		meGroup.GET("/loyalty", h.Me.Loyalty)
		meGroup.POST("/loyalty/redeem", h.Me.Redeem)
		meGroup.GET("/notifications", h.Me.ListNotifications)
	}
	return router
}

func configureGinMode(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "debug", "dev", "local":
		gin.SetMode(gin.DebugMode)
		return gin.DebugMode
	case "test", "testing":
		gin.SetMode(gin.TestMode)
		return gin.TestMode
	default:
		gin.SetMode(gin.ReleaseMode)
		return gin.ReleaseMode
	}
}
