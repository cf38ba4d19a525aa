package app

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/sirupsen/logrus"

	"tengolugar/internal/config"
	"tengolugar/internal/handler"
	"tengolugar/internal/middleware"
	"tengolugar/internal/redis"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	JobHandler         *handler.JobHandler
	TripHandler        *handler.TripHandler
	ReservationHandler *handler.ReservationHandler
	PaymentHandler     *handler.PaymentHandler
	PayoutHandler      *handler.PayoutHandler
	ResponseCache      redis.ResponseCacheInterface
	NewRelicApp        *newrelic.Application
	Auth               config.AuthConfig
	Log                logrus.FieldLogger
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())

	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/v1")

	// Internal routes for the external cron service.
	internal := v1.Group("/internal", middleware.RequireJobToken(deps.Auth.JobToken))
	{
		internal.POST("/jobs/:name", deps.JobHandler.Run)
	}

	idempotent := middleware.IdempotencyMiddleware(deps.ResponseCache, deps.Log)

	// Driver and passenger routes.
	user := v1.Group("", middleware.Authenticate(deps.Auth.JWTSecret), idempotent)
	{
		user.POST("/trips/:id/cancel", deps.TripHandler.Cancel)

		reservations := user.Group("/reservations")
		{
			reservations.POST("/:id/approve", deps.ReservationHandler.Approve)
			reservations.POST("/:id/reject", deps.ReservationHandler.Reject)
			reservations.POST("/:id/claim", deps.ReservationHandler.ClaimSeat)
			reservations.POST("/:id/cancel", deps.ReservationHandler.Cancel)
		}

		user.POST("/payments/:id/proof", deps.PaymentHandler.SubmitProof)
	}

	// Admin routes.
	admin := v1.Group("/admin",
		middleware.Authenticate(deps.Auth.JWTSecret),
		middleware.RequireRole(middleware.RoleAdmin),
		idempotent,
	)
	{
		admin.POST("/trips/:id/cancel", deps.TripHandler.Cancel)
		admin.GET("/trips/:id/payout/calculation", deps.PayoutHandler.Calculate)
		admin.POST("/trips/:id/payout", deps.PayoutHandler.Create)

		payments := admin.Group("/payments")
		{
			payments.POST("/:id/verify", deps.PaymentHandler.Verify)
			payments.POST("/:id/reject", deps.PaymentHandler.Reject)
		}

		payouts := admin.Group("/payouts")
		{
			payouts.POST("/:id/processing", deps.PayoutHandler.MarkProcessing)
			payouts.POST("/:id/complete", deps.PayoutHandler.MarkCompleted)
			payouts.POST("/:id/fail", deps.PayoutHandler.MarkFailed)
			payouts.POST("/:id/hold", deps.PayoutHandler.Hold)
			payouts.POST("/:id/release", deps.PayoutHandler.Release)
			payouts.POST("/:id/cancel", deps.PayoutHandler.Cancel)
		}
	}

	return router
}
