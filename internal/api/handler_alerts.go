package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"warranty-tracker-backend/internal/model"
)

type alertResponse struct {
	model.Alert
	DueDate string `json:"due_date"`
}

func newAlertResponse(a model.Alert) alertResponse {
	return alertResponse{Alert: a, DueDate: a.DueDate.Format(dateLayout)}
}

// ListAlerts handles GET /api/alerts, newest first.
func (h *Handler) ListAlerts(c *gin.Context) {
	alerts, err := h.store.ListAlerts(c.Request.Context())
	if err != nil {
		writeStoreError(c, err)
		return
	}
	responses := make([]alertResponse, 0, len(alerts))
	for _, a := range alerts {
		responses = append(responses, newAlertResponse(a))
	}
	c.JSON(http.StatusOK, responses)
}

// GetUnreadAlertCount handles GET /api/alerts/unread_count.
func (h *Handler) GetUnreadAlertCount(c *gin.Context) {
	count, err := h.store.UnreadAlertCount(c.Request.Context())
	if err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread_count": count})
}

// MarkAlertRead handles PATCH /api/alerts/:id/read.
func (h *Handler) MarkAlertRead(c *gin.Context) {
	if err := h.store.MarkAlertRead(c.Request.Context(), c.Param("id")); err != nil {
		writeStoreError(c, err)
		return
	}
	h.invalidateCache()
	c.Status(http.StatusNoContent)
}

// MarkAllAlertsRead handles POST /api/alerts/read_all.
func (h *Handler) MarkAllAlertsRead(c *gin.Context) {
	if err := h.store.MarkAllAlertsRead(c.Request.Context()); err != nil {
		writeStoreError(c, err)
		return
	}
	h.invalidateCache()
	c.Status(http.StatusNoContent)
}
