package handlers

import (
	"HospiCare/middlewares"
	"HospiCare/models"
	"HospiCare/repositories"
	"HospiCare/services"
	"HospiCare/utils"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

type InsuranceHandler struct {
	insurance *services.InsuranceService
}

func NewInsuranceHandler(insurance *services.InsuranceService) *InsuranceHandler {
	return &InsuranceHandler{insurance: insurance}
}

type companyRequest struct {
	Name        string `json:"name"`
	Contact     string `json:"contact"`
	Email       string `json:"email"`
	Address     string `json:"address"`
	CoverageIDs []int  `json:"coverage_ids"`
}

func (r companyRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.Email, is.Email),
		validation.Field(&r.CoverageIDs, validation.Required, validation.Length(1, 0)),
	)
}

// CreateCompany handles POST /companies
func (h *InsuranceHandler) CreateCompany(c *gin.Context) {
	var req companyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middlewares.HttpError(c, "invalid request payload", http.StatusBadRequest, err)
		return
	}
	if err := req.Validate(); err != nil {
		middlewares.HttpError(c, err.Error(), http.StatusBadRequest, err)
		return
	}

	company := models.Company{
		Name:    req.Name,
		Contact: req.Contact,
		Email:   req.Email,
		Address: req.Address,
	}
	if err := h.insurance.CreateCompany(c.Request.Context(), &company, req.CoverageIDs, actorFrom(c)); err != nil {
		handleError(c, err)
		return
	}
	middlewares.RespondJSON(c, company, http.StatusCreated)
}

// GetAllCompanies handles GET /companies
func (h *InsuranceHandler) GetAllCompanies(c *gin.Context) {
	companies, err := h.insurance.GetAllCompanies(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	middlewares.RespondJSON(c, companies, http.StatusOK)
}

// GetCompanyByID handles GET /companies/:id
func (h *InsuranceHandler) GetCompanyByID(c *gin.Context) {
	company, err := h.insurance.GetCompanyByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	middlewares.RespondJSON(c, company, http.StatusOK)
}

// UpdateCompany handles PUT /companies/:id
func (h *InsuranceHandler) UpdateCompany(c *gin.Context) {
	var req companyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middlewares.HttpError(c, "invalid request payload", http.StatusBadRequest, err)
		return
	}

	company, err := h.insurance.UpdateCompany(c.Request.Context(), c.Param("id"), models.Company{
		Name:    req.Name,
		Contact: req.Contact,
		Email:   req.Email,
		Address: req.Address,
	}, req.CoverageIDs, actorFrom(c))
	if err != nil {
		handleError(c, err)
		return
	}
	middlewares.RespondJSON(c, company, http.StatusOK)
}

type createPolicyRequest struct {
	CompanyID  string    `json:"company_id"`
	PatientNIK string    `json:"patient_nik"`
	ExpiryDate time.Time `json:"expiry_date"`
	utils.NewPatientData
}

func (r createPolicyRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.CompanyID, validation.Required),
		validation.Field(&r.ExpiryDate, validation.Required),
	)
}

// CreatePolicy handles POST /policies
func (h *InsuranceHandler) CreatePolicy(c *gin.Context) {
	var req createPolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middlewares.HttpError(c, "invalid request payload", http.StatusBadRequest, err)
		return
	}
	if err := req.Validate(); err != nil {
		middlewares.HttpError(c, err.Error(), http.StatusBadRequest, err)
		return
	}

	policy, err := h.insurance.CreatePolicy(c.Request.Context(), repositories.CreatePolicyInput{
		CompanyID:  req.CompanyID,
		PatientNIK: req.PatientNIK,
		NewPatient: req.NewPatientData,
		ExpiryDate: req.ExpiryDate,
	}, actorFrom(c))
	if err != nil {
		handleError(c, err)
		return
	}
	middlewares.RespondJSON(c, policy, http.StatusCreated)
}

// GetAllPolicies handles GET /policies
func (h *InsuranceHandler) GetAllPolicies(c *gin.Context) {
	policies, err := h.insurance.GetAllPolicies(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	middlewares.RespondJSON(c, policies, http.StatusOK)
}

// GetPolicyByID handles GET /policies/:id
func (h *InsuranceHandler) GetPolicyByID(c *gin.Context) {
	policy, err := h.insurance.GetPolicyByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	middlewares.RespondJSON(c, policy, http.StatusOK)
}

type policyExpiryRequest struct {
	ExpiryDate time.Time `json:"expiry_date"`
}

func (r policyExpiryRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ExpiryDate, validation.Required),
	)
}

// UpdatePolicyExpiry handles PUT /policies/:id/expiry
func (h *InsuranceHandler) UpdatePolicyExpiry(c *gin.Context) {
	var req policyExpiryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middlewares.HttpError(c, "invalid request payload", http.StatusBadRequest, err)
		return
	}
	if err := req.Validate(); err != nil {
		middlewares.HttpError(c, err.Error(), http.StatusBadRequest, err)
		return
	}

	policy, err := h.insurance.UpdatePolicyExpiry(c.Request.Context(), c.Param("id"), req.ExpiryDate, actorFrom(c))
	if err != nil {
		handleError(c, err)
		return
	}
	middlewares.RespondJSON(c, policy, http.StatusOK)
}

// CancelPolicy handles POST /policies/:id/cancel
func (h *InsuranceHandler) CancelPolicy(c *gin.Context) {
	policy, err := h.insurance.CancelPolicy(c.Request.Context(), c.Param("id"), actorFrom(c))
	if err != nil {
		handleError(c, err)
		return
	}
	middlewares.RespondJSON(c, policy, http.StatusOK)
}

// ExpirePolicies handles POST /policies/expire-sweep
func (h *InsuranceHandler) ExpirePolicies(c *gin.Context) {
	expired, err := h.insurance.ExpireSweep(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	middlewares.RespondJSON(c, gin.H{"expired": expired}, http.StatusOK)
}
