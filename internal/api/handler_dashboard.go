package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"warranty-tracker-backend/internal/warranty"
)

// dashboardResponse carries the aggregate counts for the dashboard view.
type dashboardResponse struct {
	TotalAppliances     int   `json:"total_appliances"`
	UnderWarranty       int   `json:"under_warranty"`
	ExpiringSoon        int   `json:"expiring_soon"`
	Expired             int   `json:"expired"`
	UpcomingMaintenance int   `json:"upcoming_maintenance"`
	UnreadAlerts        int64 `json:"unread_alerts"`
}

// GetDashboard handles GET /api/dashboard. Under warranty means Active or
// Expiring; upcoming maintenance counts incomplete tasks regardless of due
// date (the listing itself is due-date ordered).
func (h *Handler) GetDashboard(c *gin.Context) {
	ctx := c.Request.Context()

	appliances, err := h.store.ListAppliances(ctx)
	if err != nil {
		writeStoreError(c, err)
		return
	}

	resp := dashboardResponse{TotalAppliances: len(appliances)}
	for _, a := range appliances {
		switch a.Status {
		case warranty.StatusActive:
			resp.UnderWarranty++
		case warranty.StatusExpiring:
			resp.UnderWarranty++
			resp.ExpiringSoon++
		case warranty.StatusExpired:
			resp.Expired++
		}
	}

	tasks, err := h.store.ListUpcomingMaintenance(ctx)
	if err != nil {
		writeStoreError(c, err)
		return
	}
	resp.UpcomingMaintenance = len(tasks)

	unread, err := h.store.UnreadAlertCount(ctx)
	if err != nil {
		writeStoreError(c, err)
		return
	}
	resp.UnreadAlerts = unread

	c.JSON(http.StatusOK, resp)
}
