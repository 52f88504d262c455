package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"tourbook/internal/handler"
	"tourbook/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	BookingHandler *handler.BookingHandler
	PaymentHandler *handler.PaymentHandler
	WaiverHandler  *handler.WaiverHandler
	CheckInHandler *handler.CheckInHandler
	RedisClient    *redis.Client
	NewRelicApp    *newrelic.Application
	UploadDir      string
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORSMiddleware())

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	router.Use(middleware.IdempotencyMiddleware(deps.RedisClient))

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Uploaded slips, signatures and QR codes.
	if deps.UploadDir != "" {
		router.Static("/uploads", deps.UploadDir)
	}

	// API v1 routes.
	v1 := router.Group("/v1")
	{
		// Customer-facing routes.
		v1.POST("/bookings", deps.BookingHandler.Submit)

		track := v1.Group("/track/:token")
		{
			track.GET("", deps.BookingHandler.Track)
			track.POST("/payment-option", deps.PaymentHandler.SelectOption)
			track.POST("/payment-slip", deps.BookingHandler.UploadPaymentSlip)
			track.POST("/waivers/:idx", deps.WaiverHandler.Sign)
			track.POST("/waivers/:idx/send-link", deps.WaiverHandler.SendLink)
		}

		// Administrator routes.
		admin := v1.Group("/admin/bookings")
		{
			admin.GET("", deps.BookingHandler.GetAll)
			admin.GET("/:id", deps.BookingHandler.Get)
			admin.DELETE("/:id", deps.BookingHandler.Delete)
			admin.POST("/:id/approve", deps.BookingHandler.Approve)
			admin.POST("/:id/confirm", deps.BookingHandler.Confirm)
			admin.POST("/:id/cancel", deps.BookingHandler.Cancel)
			admin.POST("/:id/force-status", deps.BookingHandler.ForceStatus)
			admin.POST("/:id/custom-total", deps.BookingHandler.SetCustomTotal)
			admin.POST("/:id/payment", deps.PaymentHandler.MarkPaid)
			admin.POST("/:id/payment/correct", deps.PaymentHandler.Correct)
			admin.POST("/:id/checkin", deps.CheckInHandler.CheckIn)
			admin.POST("/:id/checkin/undo", deps.CheckInHandler.UndoCheckIn)
			admin.GET("/:id/activity", deps.BookingHandler.Activity)
		}

		v1.GET("/admin/customers/:email", deps.BookingHandler.Customer)
	}

	return router
}
