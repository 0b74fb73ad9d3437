package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"warranty-tracker-backend/internal/model"
	"warranty-tracker-backend/internal/store"
)

type applianceRequest struct {
	Name                   string   `json:"name" binding:"required"`
	Category               string   `json:"category" binding:"required"`
	Brand                  string   `json:"brand"`
	Model                  string   `json:"model"`
	SerialNumber           string   `json:"serial_number"`
	PurchaseDate           string   `json:"purchase_date" binding:"required"`
	WarrantyDurationMonths *int     `json:"warranty_duration_months" binding:"required"`
	SupplierName           string   `json:"supplier_name"`
	SupplierPhone          string   `json:"supplier_phone"`
	SupplierEmail          string   `json:"supplier_email"`
	PurchasePrice          *float64 `json:"purchase_price"`
	ReceiptFileURL         string   `json:"receipt_file_url"`
	Notes                  string   `json:"notes"`
}

type applianceUpdateRequest struct {
	Name                   *string  `json:"name"`
	Category               *string  `json:"category"`
	Brand                  *string  `json:"brand"`
	Model                  *string  `json:"model"`
	SerialNumber           *string  `json:"serial_number"`
	PurchaseDate           *string  `json:"purchase_date"`
	WarrantyDurationMonths *int     `json:"warranty_duration_months"`
	SupplierName           *string  `json:"supplier_name"`
	SupplierPhone          *string  `json:"supplier_phone"`
	SupplierEmail          *string  `json:"supplier_email"`
	PurchasePrice          *float64 `json:"purchase_price"`
	ReceiptFileURL         *string  `json:"receipt_file_url"`
	Notes                  *string  `json:"notes"`
}

// applianceResponse flattens the model with wire-format dates.
type applianceResponse struct {
	model.Appliance
	PurchaseDate   string `json:"purchase_date"`
	WarrantyExpiry string `json:"warranty_expiry"`
}

func newApplianceResponse(a model.Appliance) applianceResponse {
	return applianceResponse{
		Appliance:      a,
		PurchaseDate:   a.PurchaseDate.Format(dateLayout),
		WarrantyExpiry: a.WarrantyExpiry.Format(dateLayout),
	}
}

// CreateAppliance handles POST /api/appliances.
func (h *Handler) CreateAppliance(c *gin.Context) {
	var req applianceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	purchaseDate, err := time.Parse(dateLayout, req.PurchaseDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "purchase_date must be formatted as YYYY-MM-DD"})
		return
	}

	a, err := h.store.CreateAppliance(c.Request.Context(), store.ApplianceInput{
		Name:                   req.Name,
		Category:               model.Category(req.Category),
		Brand:                  req.Brand,
		Model:                  req.Model,
		SerialNumber:           req.SerialNumber,
		PurchaseDate:           purchaseDate,
		WarrantyDurationMonths: *req.WarrantyDurationMonths,
		SupplierName:           req.SupplierName,
		SupplierPhone:          req.SupplierPhone,
		SupplierEmail:          req.SupplierEmail,
		PurchasePrice:          req.PurchasePrice,
		ReceiptFileURL:         req.ReceiptFileURL,
		Notes:                  req.Notes,
	})
	if err != nil {
		writeStoreError(c, err)
		return
	}

	h.invalidateCache()
	h.dispatchEvaluation(a.ID)
	c.JSON(http.StatusCreated, newApplianceResponse(a))
}

// ListAppliances handles GET /api/appliances with optional category, status
// and q query parameters.
func (h *Handler) ListAppliances(c *gin.Context) {
	appliances, err := h.store.ListAppliances(c.Request.Context())
	if err != nil {
		writeStoreError(c, err)
		return
	}

	filtered := store.FilterAppliances(appliances, store.ApplianceFilter{
		Category: c.Query("category"),
		Status:   c.Query("status"),
		Query:    c.Query("q"),
	})

	responses := make([]applianceResponse, 0, len(filtered))
	for _, a := range filtered {
		responses = append(responses, newApplianceResponse(a))
	}
	c.JSON(http.StatusOK, responses)
}

// GetAppliance handles GET /api/appliances/:id.
func (h *Handler) GetAppliance(c *gin.Context) {
	a, err := h.store.GetApplianceByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, newApplianceResponse(a))
}

// UpdateAppliance handles PATCH /api/appliances/:id with a partial payload.
func (h *Handler) UpdateAppliance(c *gin.Context) {
	var req applianceUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	upd := store.ApplianceUpdate{
		Name:                   req.Name,
		Brand:                  req.Brand,
		Model:                  req.Model,
		SerialNumber:           req.SerialNumber,
		WarrantyDurationMonths: req.WarrantyDurationMonths,
		SupplierName:           req.SupplierName,
		SupplierPhone:          req.SupplierPhone,
		SupplierEmail:          req.SupplierEmail,
		PurchasePrice:          req.PurchasePrice,
		ReceiptFileURL:         req.ReceiptFileURL,
		Notes:                  req.Notes,
	}
	if req.Category != nil {
		category := model.Category(*req.Category)
		upd.Category = &category
	}
	if req.PurchaseDate != nil {
		purchaseDate, err := time.Parse(dateLayout, *req.PurchaseDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "purchase_date must be formatted as YYYY-MM-DD"})
			return
		}
		upd.PurchaseDate = &purchaseDate
	}

	a, err := h.store.UpdateAppliance(c.Request.Context(), c.Param("id"), upd)
	if err != nil {
		writeStoreError(c, err)
		return
	}

	h.invalidateCache()
	h.dispatchEvaluation(a.ID)
	c.JSON(http.StatusOK, newApplianceResponse(a))
}

// DeleteAppliance handles DELETE /api/appliances/:id.
func (h *Handler) DeleteAppliance(c *gin.Context) {
	if err := h.store.DeleteAppliance(c.Request.Context(), c.Param("id")); err != nil {
		writeStoreError(c, err)
		return
	}
	h.invalidateCache()
	c.Status(http.StatusNoContent)
}
