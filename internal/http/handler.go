package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/aocampo/invoicer/internal/http/middleware"
	"github.com/aocampo/invoicer/internal/pipeline"
	"github.com/aocampo/invoicer/internal/service"
)

type Handler struct {
	orchestrator *pipeline.Orchestrator
	invoices     *service.InvoiceService
	files        *service.FileService
	services     *service.ServiceService
	customers    *service.CustomerService
	billTos      *service.BillToService
	globals      *service.GlobalService
	summaries    *service.SummaryService
	log          zerolog.Logger
}

func NewHandler(
	orchestrator *pipeline.Orchestrator,
	invoices *service.InvoiceService,
	files *service.FileService,
	services *service.ServiceService,
	customers *service.CustomerService,
	billTos *service.BillToService,
	globals *service.GlobalService,
	summaries *service.SummaryService,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		orchestrator: orchestrator,
		invoices:     invoices,
		files:        files,
		services:     services,
		customers:    customers,
		billTos:      billTos,
		globals:      globals,
		summaries:    summaries,
		log:          log,
	}
}

func (h *Handler) Register(router *gin.Engine, authMiddleware gin.HandlerFunc) {
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	protected := router.Group("/")
	protected.Use(authMiddleware)

	protected.POST("/invoices/generate", h.generateInvoice)

	protected.GET("/invoices", h.listInvoices)
	protected.GET("/invoices/:id", h.getInvoice)
	protected.PATCH("/invoices/:id", h.patchInvoice)
	protected.DELETE("/invoices/:id", h.deleteInvoice)
	protected.GET("/invoices/:id/files", h.listInvoiceFiles)

	protected.GET("/files", h.listFiles)
	protected.GET("/files/:id", h.getFile)
	protected.GET("/files/:id/services", h.listFileServices)
	protected.GET("/files/:id/document", h.fileDocumentURL)
	protected.DELETE("/files/:id", h.deleteFile)
	protected.POST("/files/pages", h.listSheetNames)

	protected.POST("/services", h.createService)
	protected.GET("/services/:id", h.getService)
	protected.PATCH("/services/:id", h.patchService)
	protected.DELETE("/services/:id", h.deleteService)

	protected.POST("/customers", h.createCustomer)
	protected.GET("/customers", h.listCustomers)
	protected.GET("/customers/:id", h.getCustomer)
	protected.GET("/customers/:id/invoices", h.listCustomerInvoices)
	protected.PATCH("/customers/:id", h.renameCustomer)
	protected.DELETE("/customers/:id", h.deleteCustomer)
	protected.POST("/customers/:id/summary", h.customerSummary)

	protected.POST("/bill-tos", h.createBillTo)
	protected.GET("/bill-tos", h.listBillTos)
	protected.GET("/bill-tos/:id", h.getBillTo)
	protected.DELETE("/bill-tos/:id", h.deleteBillTo)

	protected.GET("/globals", h.listGlobals)
	protected.PUT("/globals", h.setGlobal)
}

// invoicePayload is the invoice JSON part of a generation request.
type invoicePayload struct {
	Number     int       `json:"number"`
	Reason     string    `json:"reason"`
	Tax1       *float64  `json:"tax_1"`
	Tax2       *float64  `json:"tax_2"`
	WithTaxes  bool      `json:"with_taxes"`
	WithTables bool      `json:"with_tables"`
	CustomerID uuid.UUID `json:"customer_id"`
}

type itemPayload struct {
	Title     string  `json:"title"`
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	Hours     float64 `json:"hours"`
	PriceUnit float64 `json:"price_unit"`
}

func (h *Handler) generateInvoice(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	input := pipeline.GenerateInput{Principal: principal}

	billToID, err := uuid.Parse(strings.TrimSpace(c.PostForm("bill_to_id")))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid bill_to_id"})
		return
	}
	input.BillToID = billToID

	input.UseExistingInvoice = formBool(c, "use_existing_invoice")
	if input.UseExistingInvoice {
		number, err := strconv.Atoi(strings.TrimSpace(c.PostForm("invoice_number")))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid invoice_number"})
			return
		}
		customerID, err := uuid.Parse(strings.TrimSpace(c.PostForm("invoice_customer_id")))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid invoice_customer_id"})
			return
		}
		input.ExistingNumber = number
		input.ExistingCustomerID = customerID
		input.WithTaxes = formBoolPtr(c, "with_taxes")
		input.WithTables = formBoolPtr(c, "with_tables")

		if raw := strings.TrimSpace(c.PostForm("file_id")); raw != "" {
			fileID, err := uuid.Parse(raw)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid file_id"})
				return
			}
			input.ExistingFileID = &fileID
		}
	} else {
		var payload invoicePayload
		if err := json.Unmarshal([]byte(c.PostForm("invoice")), &payload); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON"})
			return
		}
		input.Invoice = &pipeline.InvoiceFields{
			Number:     payload.Number,
			Reason:     payload.Reason,
			Tax1:       payload.Tax1,
			Tax2:       payload.Tax2,
			WithTaxes:  payload.WithTaxes,
			WithTables: payload.WithTables,
			CustomerID: payload.CustomerID,
		}
	}

	if raw := c.PostForm("items"); raw != "" {
		var payloads []itemPayload
		if err := json.Unmarshal([]byte(raw), &payloads); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON"})
			return
		}
		for _, item := range payloads {
			input.Items = append(input.Items, pipeline.LineItem(item))
		}
	}

	if raw := c.PostForm("pages"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &input.SheetNames); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON"})
			return
		}
	}

	upload, err := c.FormFile("file")
	if err == nil {
		reader, err := upload.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable upload"})
			return
		}
		defer reader.Close()
		input.Spreadsheet = reader
	} else if !errors.Is(err, http.ErrMissingFile) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable upload"})
		return
	}

	file, err := h.orchestrator.Generate(c.Request.Context(), input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, file)
}

func (h *Handler) listSheetNames(c *gin.Context) {
	upload, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	reader, err := upload.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable upload"})
		return
	}
	defer reader.Close()

	names, err := h.files.SheetNames(reader)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"pages": names})
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, pipeline.ErrInvoiceConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, pipeline.ErrInvoiceNotFound), errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, pipeline.ErrInvalidInput), errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, pipeline.ErrGeneration):
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		h.log.Error().Err(err).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func formBool(c *gin.Context, field string) bool {
	switch strings.ToLower(strings.TrimSpace(c.PostForm(field))) {
	case "true", "1", "yes":
		return true
	default:
		return false
	}
}

func formBoolPtr(c *gin.Context, field string) *bool {
	raw := strings.TrimSpace(c.PostForm(field))
	if raw == "" {
		return nil
	}
	value := formBool(c, field)
	return &value
}
