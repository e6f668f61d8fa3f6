package handler

import (
	"github.com/coopshop/billing-api/internal/application/service"
	"github.com/coopshop/billing-api/internal/domain/enum"
	"github.com/coopshop/billing-api/internal/presentation/http/dto/request"
	"github.com/coopshop/billing-api/internal/presentation/http/dto/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SubjectHandler handles billing subject HTTP requests
type SubjectHandler struct {
	subjectService *service.SubjectService
}

// NewSubjectHandler creates a new subject handler
func NewSubjectHandler(subjectService *service.SubjectService) *SubjectHandler {
	return &SubjectHandler{subjectService: subjectService}
}

// Create handles billing subject creation
// @Summary Create billing subject
// @Tags subjects
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body request.CreateSubjectRequest true "Subject data"
// @Success 201 {object} response.APIResponse
// @Router /subjects [post]
func (h *SubjectHandler) Create(c *gin.Context) {
	var req request.CreateSubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	kind, _ := enum.ParseSubjectKind(req.Kind)
	sendInvoice := true
	if req.SendInvoice != nil {
		sendInvoice = *req.SendInvoice
	}

	subject, err := h.subjectService.Create(c.Request.Context(), &service.CreateSubjectInput{
		Kind:        kind,
		Name:        req.Name,
		Email:       req.Email,
		SendInvoice: sendInvoice,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Billing subject created", gin.H{"subject": subject})
}

// Get handles fetching a single billing subject
// @Summary Get billing subject
// @Tags subjects
// @Security BearerAuth
// @Produce json
// @Param id path string true "Subject ID"
// @Success 200 {object} response.APIResponse
// @Router /subjects/{id} [get]
func (h *SubjectHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid subject ID")
		return
	}

	subject, err := h.subjectService.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Billing subject retrieved", gin.H{"subject": subject})
}

// List handles listing active billing subjects of one kind
// @Summary List billing subjects
// @Tags subjects
// @Security BearerAuth
// @Produce json
// @Param kind query string false "Subject kind" Enums(customer, manufacturer)
// @Success 200 {object} response.APIResponse
// @Router /subjects [get]
func (h *SubjectHandler) List(c *gin.Context) {
	kind, ok := enum.ParseSubjectKind(c.DefaultQuery("kind", "customer"))
	if !ok {
		response.BadRequest(c, "Invalid subject kind")
		return
	}

	subjects, err := h.subjectService.ListActive(c.Request.Context(), kind)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Billing subjects retrieved", gin.H{"subjects": subjects})
}
