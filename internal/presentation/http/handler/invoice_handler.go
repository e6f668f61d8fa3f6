package handler

import (
	"strconv"

	"github.com/coopshop/billing-api/internal/application/service"
	"github.com/coopshop/billing-api/internal/domain/enum"
	"github.com/coopshop/billing-api/internal/domain/repository"
	"github.com/coopshop/billing-api/internal/presentation/http/dto/request"
	"github.com/coopshop/billing-api/internal/presentation/http/dto/response"
	"github.com/coopshop/billing-api/pkg/pagination"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// InvoiceHandler handles invoice HTTP requests
type InvoiceHandler struct {
	invoiceService *service.InvoiceService
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(invoiceService *service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

// Generate handles generating one subject's invoice on demand. Unlike the
// cronjob trigger this runs synchronously and returns the created invoice,
// or 200 with a nil invoice when there was nothing to bill.
// @Summary Generate an invoice
// @Tags invoices
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body request.GenerateInvoiceRequest true "Generation parameters"
// @Success 201 {object} response.APIResponse
// @Router /invoices/generate [post]
func (h *InvoiceHandler) Generate(c *gin.Context) {
	var req request.GenerateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	subjectID, err := uuid.Parse(req.SubjectID)
	if err != nil {
		response.BadRequest(c, "Invalid subject ID")
		return
	}
	runDay, err := parseRunDay(req.RunDay)
	if err != nil {
		response.BadRequest(c, "Invalid run day")
		return
	}

	actorID := GetActorID(c)
	if actorID == nil {
		response.Unauthorized(c, "Not authenticated")
		return
	}

	invoice, err := h.invoiceService.Generate(c.Request.Context(), service.GenerateInput{
		SubjectID:     subjectID,
		RunDay:        runDay,
		PaidInCash:    req.PaidInCash,
		ActorID:       *actorID,
		CorrelationID: uuid.New().String(),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	if invoice == nil {
		response.OK(c, "Nothing to invoice", nil)
		return
	}

	response.Created(c, "Invoice generated", gin.H{"invoice": invoice})
}

// List handles listing invoices with filters
// @Summary List invoices
// @Tags invoices
// @Security BearerAuth
// @Produce json
// @Param subject_id query string false "Filter by subject"
// @Param kind query string false "Filter by subject kind" Enums(customer, manufacturer)
// @Param year query int false "Filter by year"
// @Success 200 {object} response.APIResponse
// @Router /invoices [get]
func (h *InvoiceHandler) List(c *gin.Context) {
	params := &repository.InvoiceFilterParams{
		Pagination: pagination.DefaultPagination(),
	}
	if err := c.ShouldBindQuery(params.Pagination); err != nil {
		response.BadRequest(c, "Invalid pagination parameters")
		return
	}
	params.Pagination.Validate()

	if raw := c.Query("subject_id"); raw != "" {
		subjectID, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequest(c, "Invalid subject ID")
			return
		}
		params.SubjectID = &subjectID
	}
	if raw := c.Query("kind"); raw != "" {
		kind, ok := enum.ParseSubjectKind(raw)
		if !ok {
			response.BadRequest(c, "Invalid subject kind")
			return
		}
		params.Kind = &kind
	}
	if raw := c.Query("year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			response.BadRequest(c, "Invalid year")
			return
		}
		params.Year = &year
	}

	invoices, total, err := h.invoiceService.List(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	result := pagination.NewPaginatedResult(invoices,
		pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total))
	response.SuccessWithPagination(c, 200, "Invoices retrieved", result)
}

// Get handles fetching a single invoice with its tax rows
// @Summary Get invoice
// @Tags invoices
// @Security BearerAuth
// @Produce json
// @Param id path string true "Invoice ID"
// @Success 200 {object} response.APIResponse
// @Router /invoices/{id} [get]
func (h *InvoiceHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid invoice ID")
		return
	}

	invoice, err := h.invoiceService.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice retrieved", gin.H{"invoice": invoice})
}

// Download streams the invoice PDF document
// @Summary Download invoice document
// @Tags invoices
// @Security BearerAuth
// @Produce application/pdf
// @Param id path string true "Invoice ID"
// @Success 200 {file} file
// @Router /invoices/{id}/document [get]
func (h *InvoiceHandler) Download(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid invoice ID")
		return
	}

	invoice, err := h.invoiceService.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.FileAttachment(h.invoiceService.DocumentPath(invoice), invoice.Filename)
}
