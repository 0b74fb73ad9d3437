package api

import (
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"warranty-tracker-backend/config"
	"warranty-tracker-backend/internal/alerts"
	"warranty-tracker-backend/internal/mw"
	"warranty-tracker-backend/internal/store"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(s store.Store, alertSvc *alerts.Service, cfg *config.Config, webpushOptions *webpush.Options) *gin.Engine {
	r := gin.Default()

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.Server.RateLimitPerSec), cfg.Server.RateLimitBurst)
	respCache := mw.NewResponseCache(time.Duration(cfg.Server.CacheTTLSeconds) * time.Second)
	caching := respCache.Middleware()

	handler := NewHandler(s, alertSvc, respCache, webpushOptions)

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.POST("/appliances", handler.CreateAppliance)
		api.GET("/appliances", caching, handler.ListAppliances)
		api.GET("/appliances/:id", handler.GetAppliance)
		api.PATCH("/appliances/:id", handler.UpdateAppliance)
		api.DELETE("/appliances/:id", handler.DeleteAppliance)

		api.GET("/dashboard", caching, handler.GetDashboard)

		api.GET("/alerts", handler.ListAlerts)
		api.GET("/alerts/unread_count", handler.GetUnreadAlertCount)
		api.PATCH("/alerts/:id/read", handler.MarkAlertRead)
		api.POST("/alerts/read_all", handler.MarkAllAlertsRead)

		api.POST("/maintenance", handler.CreateMaintenanceTask)
		api.GET("/maintenance", caching, handler.ListUpcomingMaintenance)
		api.POST("/maintenance/:id/complete", handler.CompleteMaintenanceTask)

		api.GET("/subscriptions", handler.GetSubscription)
		api.PUT("/subscriptions", handler.PutSubscription)
		api.DELETE("/subscriptions", handler.DeleteSubscription)
		api.GET("/vapid_public_key", handler.GetVAPIDPublicKey)
	}

	return r
}
