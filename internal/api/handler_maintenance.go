package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"warranty-tracker-backend/internal/model"
	"warranty-tracker-backend/internal/store"
)

type maintenanceRequest struct {
	ApplianceID string `json:"appliance_id" binding:"required"`
	Title       string `json:"title" binding:"required"`
	Notes       string `json:"notes"`
	DueDate     string `json:"due_date" binding:"required"`
}

type maintenanceResponse struct {
	model.MaintenanceTask
	DueDate string `json:"due_date"`
}

func newMaintenanceResponse(t model.MaintenanceTask) maintenanceResponse {
	return maintenanceResponse{MaintenanceTask: t, DueDate: t.DueDate.Format(dateLayout)}
}

// CreateMaintenanceTask handles POST /api/maintenance.
func (h *Handler) CreateMaintenanceTask(c *gin.Context) {
	var req maintenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dueDate, err := time.Parse(dateLayout, req.DueDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "due_date must be formatted as YYYY-MM-DD"})
		return
	}

	task, err := h.store.CreateMaintenanceTask(c.Request.Context(), store.MaintenanceInput{
		ApplianceID: req.ApplianceID,
		Title:       req.Title,
		Notes:       req.Notes,
		DueDate:     dueDate,
	})
	if err != nil {
		writeStoreError(c, err)
		return
	}

	h.invalidateCache()
	h.dispatchEvaluation(task.ApplianceID)
	c.JSON(http.StatusCreated, newMaintenanceResponse(task))
}

// ListUpcomingMaintenance handles GET /api/maintenance.
func (h *Handler) ListUpcomingMaintenance(c *gin.Context) {
	tasks, err := h.store.ListUpcomingMaintenance(c.Request.Context())
	if err != nil {
		writeStoreError(c, err)
		return
	}
	responses := make([]maintenanceResponse, 0, len(tasks))
	for _, t := range tasks {
		responses = append(responses, newMaintenanceResponse(t))
	}
	c.JSON(http.StatusOK, responses)
}

// CompleteMaintenanceTask handles POST /api/maintenance/:id/complete.
func (h *Handler) CompleteMaintenanceTask(c *gin.Context) {
	task, err := h.store.CompleteMaintenanceTask(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeStoreError(c, err)
		return
	}
	h.invalidateCache()
	c.JSON(http.StatusOK, newMaintenanceResponse(task))
}
