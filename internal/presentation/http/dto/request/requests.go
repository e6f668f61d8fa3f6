package request

// LoginRequest represents the admin login payload
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// CreateSubjectRequest represents the payload for creating a billing subject
type CreateSubjectRequest struct {
	Kind        string `json:"kind" binding:"required,oneof=customer manufacturer"`
	Name        string `json:"name" binding:"required,max=255"`
	Email       string `json:"email" binding:"omitempty,email"`
	SendInvoice *bool  `json:"send_invoice"`
}

// CreatePaymentRequest represents the payload for recording a payment
type CreatePaymentRequest struct {
	SubjectID string `json:"subject_id" binding:"required,uuid"`
	Type      string `json:"type" binding:"required,oneof=product payback deposit"`
	Amount    string `json:"amount" binding:"required"`
	DateAdd   string `json:"date_add" binding:"omitempty,datetime=2006-01-02"`
}

// UpdatePaymentApprovalRequest represents the payload for approving or
// rejecting a payback payment
type UpdatePaymentApprovalRequest struct {
	Approval string `json:"approval" binding:"required,oneof=pending approved rejected"`
}

// GenerateInvoiceRequest represents the payload for generating a single
// subject's invoice on demand
type GenerateInvoiceRequest struct {
	SubjectID  string `json:"subject_id" binding:"required,uuid"`
	RunDay     string `json:"run_day" binding:"omitempty,datetime=2006-01-02"`
	PaidInCash bool   `json:"paid_in_cash"`
}

// TriggerInvoiceRunRequest represents the payload of the cronjob trigger
type TriggerInvoiceRunRequest struct {
	Kind   string `json:"kind" binding:"required,oneof=customer manufacturer"`
	RunDay string `json:"run_day" binding:"omitempty,datetime=2006-01-02"`
}
