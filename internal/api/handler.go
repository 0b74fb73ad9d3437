package api

import (
	"errors"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"

	"warranty-tracker-backend/internal/alerts"
	"warranty-tracker-backend/internal/mw"
	"warranty-tracker-backend/internal/store"
)

// dateLayout is the wire format for calendar dates.
const dateLayout = "2006-01-02"

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store   store.Store
	alerts  *alerts.Service
	cache   *mw.ResponseCache
	webpush *webpush.Options
}

// NewHandler creates a new API handler.
func NewHandler(s store.Store, alertSvc *alerts.Service, respCache *mw.ResponseCache, webpushOptions *webpush.Options) *Handler {
	return &Handler{
		store:   s,
		alerts:  alertSvc,
		cache:   respCache,
		webpush: webpushOptions,
	}
}

// invalidateCache expires cached GET responses after a write.
func (h *Handler) invalidateCache() {
	if h.cache != nil {
		h.cache.Invalidate()
	}
}

// dispatchEvaluation queues an appliance for alert evaluation.
func (h *Handler) dispatchEvaluation(applianceID string) {
	if h.alerts != nil {
		h.alerts.Dispatch(applianceID)
	}
}

// writeStoreError maps store errors onto HTTP status codes.
func writeStoreError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, store.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
