package handlers

import (
	"HospiCare/middlewares"
	"HospiCare/services"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type BillingHandler struct {
	billing *services.BillingService
}

func NewBillingHandler(billing *services.BillingService) *BillingHandler {
	return &BillingHandler{billing: billing}
}

// ListBills handles GET /bills
func (h *BillingHandler) ListBills(c *gin.Context) {
	bills, err := h.billing.ListBills(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	middlewares.RespondJSON(c, bills, http.StatusOK)
}

// GetBill handles GET /bills/:id
func (h *BillingHandler) GetBill(c *gin.Context) {
	bill, err := h.billing.GetBill(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	middlewares.RespondJSON(c, bill, http.StatusOK)
}

// PatientBills handles GET /patients/:id/bills
func (h *BillingHandler) PatientBills(c *gin.Context) {
	bills, err := h.billing.PatientBills(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	middlewares.RespondJSON(c, bills, http.StatusOK)
}

// Summary handles GET /bills/summary
func (h *BillingHandler) Summary(c *gin.Context) {
	summary, err := h.billing.Summary(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	middlewares.RespondJSON(c, summary, http.StatusOK)
}

type payRequest struct {
	PaymentMethod string `json:"payment_method"`
}

func (r payRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.PaymentMethod, validation.Required),
	)
}

// Pay handles POST /bills/:id/pay
func (h *BillingHandler) Pay(c *gin.Context) {
	var req payRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middlewares.HttpError(c, "invalid request payload", http.StatusBadRequest, err)
		return
	}
	if err := req.Validate(); err != nil {
		middlewares.HttpError(c, err.Error(), http.StatusBadRequest, err)
		return
	}

	bill, err := h.billing.Pay(c.Request.Context(), c.Param("id"), req.PaymentMethod, actorFrom(c))
	if err != nil {
		handleError(c, err)
		return
	}
	middlewares.RespondJSON(c, bill, http.StatusOK)
}

type attachPolicyRequest struct {
	PolicyID string `json:"policy_id"`
}

func (r attachPolicyRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.PolicyID, validation.Required),
	)
}

// AttachPolicy handles POST /bills/:id/policy
func (h *BillingHandler) AttachPolicy(c *gin.Context) {
	var req attachPolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middlewares.HttpError(c, "invalid request payload", http.StatusBadRequest, err)
		return
	}
	if err := req.Validate(); err != nil {
		middlewares.HttpError(c, err.Error(), http.StatusBadRequest, err)
		return
	}

	bill, err := h.billing.AttachPolicy(c.Request.Context(), c.Param("id"), req.PolicyID, actorFrom(c))
	if err != nil {
		handleError(c, err)
		return
	}
	middlewares.RespondJSON(c, bill, http.StatusOK)
}

// Reconcile handles POST /bills/reconcile
func (h *BillingHandler) Reconcile(c *gin.Context) {
	updated, err := h.billing.Reconcile(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	middlewares.RespondJSON(c, gin.H{"updated": updated}, http.StatusOK)
}
