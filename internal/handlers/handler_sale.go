package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/aadil-nv/invoise-management/internal/core/ports/services"
	"github.com/aadil-nv/invoise-management/internal/dto"
	"github.com/aadil-nv/invoise-management/internal/middleware"
	"github.com/gin-gonic/gin"
)

const (
	msgSaleCreated       = "Sale created successfully"
	msgSaleUpdated       = "Sale updated successfully"
	msgSaleDeleted       = "Sale deleted successfully"
	msgSalePaidUpdated   = "Sale payment status updated successfully"
	msgSaleActiveUpdated = "Sale active status updated successfully"
	msgUnauthenticated   = "User not authenticated"
)

// saleHandler handles HTTP requests related to sales.
type saleHandler struct {
	saleService portssvc.SaleSvcFacade
}

// newSaleHandler creates a new saleHandler.
func newSaleHandler(ss portssvc.SaleSvcFacade) *saleHandler {
	return &saleHandler{
		saleService: ss,
	}
}

// registerSaleRoutes registers routes related to sales.
func registerSaleRoutes(rg *gin.RouterGroup, saleService portssvc.SaleSvcFacade) {
	h := newSaleHandler(saleService)

	sales := rg.Group("/sales")
	{
		sales.POST("/add-sale", h.createSale)
		sales.GET("/list-sales", h.listSales)
		sales.GET("/sale-details/:id", h.getSale)
		sales.PUT("/update-sale/:id", h.updateSale)
		sales.PATCH("/is-paid/:id", h.updateSalePaid)
		sales.PATCH("/is-active/:id", h.updateSaleActive)
		sales.DELETE("/delete-sale/:id", h.deleteSale)
	}
}

// ownerFromContext returns the authenticated owner or writes a 401.
func ownerFromContext(c *gin.Context, logger *slog.Logger) (string, bool) {
	ownerID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": msgUnauthenticated})
		return "", false
	}
	return ownerID, true
}

// createSale godoc
// @Summary Record a sale
// @Description Deducts every line item from stock and records the sale. Either all items are deducted or none.
// @Tags sales
// @Accept  json
// @Produce  json
// @Param   sale body dto.CreateSaleRequest true "Sale details"
// @Success 201 {object} dto.SaleEnvelope
// @Failure 400 {object} map[string]string "Invalid input or insufficient stock"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Product or customer not found"
// @Failure 500 {object} map[string]string "Failed to create sale"
// @Security BearerAuth
// @Router /sales/add-sale [post]
func (h *saleHandler) createSale(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ownerID, ok := ownerFromContext(c, logger)
	if !ok {
		return
	}

	var req dto.CreateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateSale", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	logger.Info("Received request to create sale", slog.Int("line_items", len(req.Products)), slog.String("payment_method", string(req.PaymentMethod)))

	sale, err := h.saleService.CreateSale(c.Request.Context(), ownerID, req)
	if err != nil {
		respondError(c, logger, err, "Failed to create sale")
		return
	}

	c.JSON(http.StatusCreated, dto.SaleEnvelope{Message: msgSaleCreated, Sale: dto.ToSaleResponse(sale)})
}

// listSales godoc
// @Summary List sales
// @Description Lists the caller's sales, newest first
// @Tags sales
// @Produce  json
// @Success 200 {object} dto.ListSalesResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list sales"
// @Security BearerAuth
// @Router /sales/list-sales [get]
func (h *saleHandler) listSales(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ownerID, ok := ownerFromContext(c, logger)
	if !ok {
		return
	}

	sales, err := h.saleService.ListSales(c.Request.Context(), ownerID)
	if err != nil {
		respondError(c, logger, err, "Failed to list sales")
		return
	}

	logger.Info("Sales listed successfully", slog.Int("count", len(sales)))
	c.JSON(http.StatusOK, dto.ListSalesResponse{Sales: dto.ToListSaleResponse(sales)})
}

// getSale godoc
// @Summary Get a sale
// @Tags sales
// @Produce  json
// @Param   id path string true "Sale ID"
// @Success 200 {object} dto.SaleEnvelope
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Sale not found"
// @Security BearerAuth
// @Router /sales/sale-details/{id} [get]
func (h *saleHandler) getSale(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ownerID, ok := ownerFromContext(c, logger)
	if !ok {
		return
	}
	saleID := c.Param("id")

	sale, err := h.saleService.GetSale(c.Request.Context(), ownerID, saleID)
	if err != nil {
		respondError(c, logger.With(slog.String("sale_id", saleID)), err, "Failed to retrieve sale")
		return
	}

	c.JSON(http.StatusOK, dto.SaleEnvelope{Sale: dto.ToSaleResponse(sale)})
}

// updateSale godoc
// @Summary Replace a sale's line items
// @Description Returns the previous items to stock and deducts the new ones. Nothing changes if any new item is rejected.
// @Tags sales
// @Accept  json
// @Produce  json
// @Param   id path string true "Sale ID"
// @Param   sale body dto.UpdateSaleRequest true "New sale details"
// @Success 200 {object} dto.SaleEnvelope
// @Failure 400 {object} map[string]string "Invalid input, unlisted product or insufficient stock"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Sale or product not found"
// @Failure 500 {object} map[string]string "Failed to update sale"
// @Security BearerAuth
// @Router /sales/update-sale/{id} [put]
func (h *saleHandler) updateSale(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ownerID, ok := ownerFromContext(c, logger)
	if !ok {
		return
	}
	saleID := c.Param("id")
	logger = logger.With(slog.String("sale_id", saleID))

	var req dto.UpdateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateSale", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	sale, err := h.saleService.UpdateSale(c.Request.Context(), ownerID, saleID, req)
	if err != nil {
		respondError(c, logger, err, "Failed to update sale")
		return
	}

	c.JSON(http.StatusOK, dto.SaleEnvelope{Message: msgSaleUpdated, Sale: dto.ToSaleResponse(sale)})
}

// updateSalePaid godoc
// @Summary Set a sale's payment status
// @Tags sales
// @Accept  json
// @Produce  json
// @Param   id path string true "Sale ID"
// @Param   status body dto.UpdateSalePaidRequest true "Payment status"
// @Success 200 {object} dto.SaleEnvelope
// @Failure 400 {object} map[string]string "isPaid must be a boolean"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Sale not found"
// @Security BearerAuth
// @Router /sales/is-paid/{id} [patch]
func (h *saleHandler) updateSalePaid(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ownerID, ok := ownerFromContext(c, logger)
	if !ok {
		return
	}
	saleID := c.Param("id")
	logger = logger.With(slog.String("sale_id", saleID))

	var req dto.UpdateSalePaidRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.IsPaid == nil {
		logger.Warn("Rejected non-boolean isPaid")
		c.JSON(http.StatusBadRequest, gin.H{"error": "isPaid must be a boolean"})
		return
	}

	sale, err := h.saleService.SetPaymentStatus(c.Request.Context(), ownerID, saleID, *req.IsPaid)
	if err != nil {
		respondError(c, logger, err, "Failed to update sale payment status")
		return
	}

	c.JSON(http.StatusOK, dto.SaleEnvelope{Message: msgSalePaidUpdated, Sale: dto.ToSaleResponse(sale)})
}

// updateSaleActive godoc
// @Summary Activate or void a sale
// @Description Stock is not adjusted.
// @Tags sales
// @Accept  json
// @Produce  json
// @Param   id path string true "Sale ID"
// @Param   status body dto.UpdateSaleActiveRequest true "Active status"
// @Success 200 {object} dto.SaleEnvelope
// @Failure 400 {object} map[string]string "isActive must be a boolean"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Sale not found"
// @Security BearerAuth
// @Router /sales/is-active/{id} [patch]
func (h *saleHandler) updateSaleActive(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ownerID, ok := ownerFromContext(c, logger)
	if !ok {
		return
	}
	saleID := c.Param("id")
	logger = logger.With(slog.String("sale_id", saleID))

	var req dto.UpdateSaleActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.IsActive == nil {
		logger.Warn("Rejected non-boolean isActive")
		c.JSON(http.StatusBadRequest, gin.H{"error": "isActive must be a boolean"})
		return
	}

	sale, err := h.saleService.SetActiveStatus(c.Request.Context(), ownerID, saleID, *req.IsActive)
	if err != nil {
		respondError(c, logger, err, "Failed to update sale active status")
		return
	}

	c.JSON(http.StatusOK, dto.SaleEnvelope{Message: msgSaleActiveUpdated, Sale: dto.ToSaleResponse(sale)})
}

// deleteSale godoc
// @Summary Delete a sale
// @Tags sales
// @Produce  json
// @Param   id path string true "Sale ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Sale not found"
// @Failure 500 {object} map[string]string "Failed to delete sale"
// @Security BearerAuth
// @Router /sales/delete-sale/{id} [delete]
func (h *saleHandler) deleteSale(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ownerID, ok := ownerFromContext(c, logger)
	if !ok {
		return
	}
	saleID := c.Param("id")

	if err := h.saleService.DeleteSale(c.Request.Context(), ownerID, saleID); err != nil {
		respondError(c, logger.With(slog.String("sale_id", saleID)), err, "Failed to delete sale")
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: msgSaleDeleted})
}
