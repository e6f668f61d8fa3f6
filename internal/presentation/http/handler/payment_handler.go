package handler

import (
	"github.com/coopshop/billing-api/internal/application/service"
	"github.com/coopshop/billing-api/internal/domain/enum"
	"github.com/coopshop/billing-api/internal/domain/repository"
	"github.com/coopshop/billing-api/internal/presentation/http/dto/request"
	"github.com/coopshop/billing-api/internal/presentation/http/dto/response"
	"github.com/coopshop/billing-api/pkg/pagination"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentHandler handles payment HTTP requests
type PaymentHandler struct {
	paymentService *service.PaymentService
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// Create handles payment recording
// @Summary Record a payment
// @Tags payments
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body request.CreatePaymentRequest true "Payment data"
// @Success 201 {object} response.APIResponse
// @Router /payments [post]
func (h *PaymentHandler) Create(c *gin.Context) {
	var req request.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	subjectID, err := uuid.Parse(req.SubjectID)
	if err != nil {
		response.BadRequest(c, "Invalid subject ID")
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		response.BadRequest(c, "Invalid payment amount")
		return
	}
	paymentType, _ := enum.ParsePaymentType(req.Type)

	dateAdd, err := parseRunDay(req.DateAdd)
	if err != nil {
		response.BadRequest(c, "Invalid payment date")
		return
	}

	payment, err := h.paymentService.Create(c.Request.Context(), &service.CreatePaymentInput{
		SubjectID: subjectID,
		Type:      paymentType,
		Amount:    amount,
		DateAdd:   dateAdd,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Payment recorded", gin.H{"payment": payment})
}

// UpdateApproval handles approving or rejecting a payment
// @Summary Update payment approval
// @Tags payments
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Payment ID"
// @Param request body request.UpdatePaymentApprovalRequest true "Approval status"
// @Success 200 {object} response.APIResponse
// @Router /payments/{id}/approval [put]
func (h *PaymentHandler) UpdateApproval(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid payment ID")
		return
	}

	var req request.UpdatePaymentApprovalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	approval, _ := enum.ParsePaymentApproval(req.Approval)

	actorID := GetActorID(c)
	if actorID == nil {
		response.Unauthorized(c, "Not authenticated")
		return
	}

	payment, err := h.paymentService.UpdateApproval(c.Request.Context(), id, approval, *actorID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment approval updated", gin.H{"payment": payment})
}

// List handles listing payments with filters
// @Summary List payments
// @Tags payments
// @Security BearerAuth
// @Produce json
// @Param subject_id query string false "Filter by subject"
// @Param type query string false "Filter by type" Enums(product, payback, deposit)
// @Param approval query string false "Filter by approval" Enums(pending, approved, rejected)
// @Success 200 {object} response.APIResponse
// @Router /payments [get]
func (h *PaymentHandler) List(c *gin.Context) {
	params := &repository.PaymentFilterParams{
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
	if raw := c.Query("type"); raw != "" {
		paymentType, ok := enum.ParsePaymentType(raw)
		if !ok {
			response.BadRequest(c, "Invalid payment type")
			return
		}
		params.Type = &paymentType
	}
	if raw := c.Query("approval"); raw != "" {
		approval, ok := enum.ParsePaymentApproval(raw)
		if !ok {
			response.BadRequest(c, "Invalid approval status")
			return
		}
		params.Approval = &approval
	}

	payments, total, err := h.paymentService.List(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	result := pagination.NewPaginatedResult(payments,
		pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total))
	response.SuccessWithPagination(c, 200, "Payments retrieved", result)
}
