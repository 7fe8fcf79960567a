package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/aocampo/invoicer/internal/http/middleware"
	"github.com/aocampo/invoicer/internal/model"
	"github.com/aocampo/invoicer/internal/service"
)

func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return uuid.Nil, false
	}
	return id, true
}

func principalOrAbort(c *gin.Context) (model.Principal, bool) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
	}
	return principal, ok
}

func (h *Handler) listInvoices(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}
	invoices, err := h.invoices.List(c.Request.Context(), principal.UserID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, invoices)
}

func (h *Handler) getInvoice(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	invoice, err := h.invoices.Get(c.Request.Context(), id, principal.UserID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, invoice)
}

type patchInvoiceRequest struct {
	Reason     *string  `json:"reason"`
	Tax1       *float64 `json:"tax_1"`
	Tax2       *float64 `json:"tax_2"`
	WithTaxes  *bool    `json:"with_taxes"`
	WithTables *bool    `json:"with_tables"`
}

func (h *Handler) patchInvoice(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req patchInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON"})
		return
	}
	invoice, err := h.invoices.Patch(c.Request.Context(), id, principal.UserID, service.InvoicePatch{
		Reason:     req.Reason,
		Tax1:       req.Tax1,
		Tax2:       req.Tax2,
		WithTaxes:  req.WithTaxes,
		WithTables: req.WithTables,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, invoice)
}

func (h *Handler) deleteInvoice(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.invoices.Delete(c.Request.Context(), id, principal.UserID); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) listInvoiceFiles(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	files, err := h.files.ListByInvoice(c.Request.Context(), id, principal.UserID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, files)
}

func (h *Handler) listFiles(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}
	files, err := h.files.List(c.Request.Context(), principal.UserID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, files)
}

func (h *Handler) getFile(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	file, err := h.files.Get(c.Request.Context(), id, principal.UserID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, file)
}

func (h *Handler) listFileServices(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	services, err := h.files.Services(c.Request.Context(), id, principal.UserID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, services)
}

func (h *Handler) fileDocumentURL(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	url, err := h.files.DocumentURL(c.Request.Context(), id, principal.UserID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

func (h *Handler) deleteFile(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.files.Delete(c.Request.Context(), id, principal.UserID); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type serviceRequest struct {
	Title     string    `json:"title" binding:"required"`
	Amount    float64   `json:"amount"`
	Currency  string    `json:"currency"`
	Hours     float64   `json:"hours"`
	PriceUnit float64   `json:"price_unit"`
	FileID    uuid.UUID `json:"file_id"`
	InvoiceID uuid.UUID `json:"invoice_id"`
}

func (h *Handler) createService(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}
	var req serviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON"})
		return
	}
	svc, err := h.services.Create(c.Request.Context(), principal.UserID, service.ServiceInput{
		Title:     req.Title,
		Amount:    req.Amount,
		Currency:  req.Currency,
		Hours:     req.Hours,
		PriceUnit: req.PriceUnit,
		FileID:    req.FileID,
		InvoiceID: req.InvoiceID,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, svc)
}

func (h *Handler) getService(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	svc, err := h.services.Get(c.Request.Context(), id, principal.UserID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, svc)
}

type patchServiceRequest struct {
	Title     *string  `json:"title"`
	Amount    *float64 `json:"amount"`
	Currency  *string  `json:"currency"`
	Hours     *float64 `json:"hours"`
	PriceUnit *float64 `json:"price_unit"`
}

func (h *Handler) patchService(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req patchServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON"})
		return
	}
	svc, err := h.services.Patch(c.Request.Context(), id, principal.UserID, service.ServicePatch{
		Title:     req.Title,
		Amount:    req.Amount,
		Currency:  req.Currency,
		Hours:     req.Hours,
		PriceUnit: req.PriceUnit,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, svc)
}

func (h *Handler) deleteService(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.services.Delete(c.Request.Context(), id, principal.UserID); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type customerRequest struct {
	Name string `json:"name" binding:"required"`
}

func (h *Handler) createCustomer(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}
	var req customerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON"})
		return
	}
	customer, err := h.customers.Create(c.Request.Context(), principal.UserID, req.Name)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, customer)
}

func (h *Handler) listCustomers(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}
	customers, err := h.customers.List(c.Request.Context(), principal.UserID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, customers)
}

func (h *Handler) getCustomer(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	customer, err := h.customers.Get(c.Request.Context(), id, principal.UserID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

func (h *Handler) listCustomerInvoices(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	invoices, err := h.invoices.ListByCustomer(c.Request.Context(), id, principal.UserID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, invoices)
}

func (h *Handler) renameCustomer(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req customerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON"})
		return
	}
	customer, err := h.customers.Rename(c.Request.Context(), id, principal.UserID, req.Name)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

func (h *Handler) deleteCustomer(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.customers.Delete(c.Request.Context(), id, principal.UserID); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type summaryRequest struct {
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
}

func parseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	layouts := []string{"2006-01-02", time.RFC3339}
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

func (h *Handler) customerSummary(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req summaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON"})
		return
	}
	start, ok := parseDate(req.StartDate)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start_date"})
		return
	}
	end, ok := parseDate(req.EndDate)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end_date"})
		return
	}
	result, err := h.summaries.Generate(c.Request.Context(), id, principal.UserID, start, end)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", result.Content)
}

type billToRequest struct {
	To      string `json:"to" binding:"required"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
}

func (h *Handler) createBillTo(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}
	var req billToRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON"})
		return
	}
	billTo, err := h.billTos.Create(c.Request.Context(), principal.UserID, service.BillToInput{
		To:      req.To,
		Address: req.Address,
		Phone:   req.Phone,
		Email:   req.Email,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, billTo)
}

func (h *Handler) listBillTos(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}
	billTos, err := h.billTos.List(c.Request.Context(), principal.UserID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, billTos)
}

func (h *Handler) getBillTo(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	billTo, err := h.billTos.Get(c.Request.Context(), id, principal.UserID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, billTo)
}

func (h *Handler) deleteBillTo(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.billTos.Delete(c.Request.Context(), id, principal.UserID); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) listGlobals(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}
	globals, err := h.globals.List(c.Request.Context(), principal.UserID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, globals)
}

type globalRequest struct {
	Name  string `json:"name" binding:"required"`
	Value string `json:"value"`
}

func (h *Handler) setGlobal(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}
	var req globalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON"})
		return
	}
	global, err := h.globals.Set(c.Request.Context(), principal.UserID, req.Name, req.Value)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, global)
}
