package handlers

import (
	"HospiCare/middlewares"
	"HospiCare/models"
	"HospiCare/repositories"
	"HospiCare/services"
	"HospiCare/utils"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type PharmacyHandler struct {
	pharmacy *services.PharmacyService
}

func NewPharmacyHandler(pharmacy *services.PharmacyService) *PharmacyHandler {
	return &PharmacyHandler{pharmacy: pharmacy}
}

type medicineRequest struct {
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	Description string  `json:"description"`
}

func (r medicineRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.Price, validation.Required, validation.Min(0.0).Exclusive()),
		validation.Field(&r.Stock, validation.Min(0)),
	)
}

// CreateMedicine handles POST /medicines
func (h *PharmacyHandler) CreateMedicine(c *gin.Context) {
	var req medicineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middlewares.HttpError(c, "invalid request payload", http.StatusBadRequest, err)
		return
	}
	if err := req.Validate(); err != nil {
		middlewares.HttpError(c, err.Error(), http.StatusBadRequest, err)
		return
	}

	medicine := models.Medicine{
		Name:        req.Name,
		Price:       req.Price,
		Stock:       req.Stock,
		Description: req.Description,
	}
	if err := h.pharmacy.CreateMedicine(c.Request.Context(), &medicine, actorFrom(c)); err != nil {
		handleError(c, err)
		return
	}
	middlewares.RespondJSON(c, medicine, http.StatusCreated)
}

// GetAllMedicines handles GET /medicines
func (h *PharmacyHandler) GetAllMedicines(c *gin.Context) {
	medicines, err := h.pharmacy.GetAllMedicines(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	middlewares.RespondJSON(c, medicines, http.StatusOK)
}

// GetMedicineByID handles GET /medicines/:id
func (h *PharmacyHandler) GetMedicineByID(c *gin.Context) {
	medicine, err := h.pharmacy.GetMedicineByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	middlewares.RespondJSON(c, medicine, http.StatusOK)
}

type updateMedicineRequest struct {
	Price       float64 `json:"price"`
	Description string  `json:"description"`
}

// UpdateMedicine handles PUT /medicines/:id
func (h *PharmacyHandler) UpdateMedicine(c *gin.Context) {
	var req updateMedicineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middlewares.HttpError(c, "invalid request payload", http.StatusBadRequest, err)
		return
	}

	medicine, err := h.pharmacy.UpdateMedicine(c.Request.Context(), c.Param("id"), req.Price, req.Description, actorFrom(c))
	if err != nil {
		handleError(c, err)
		return
	}
	middlewares.RespondJSON(c, medicine, http.StatusOK)
}

type restockRequest struct {
	Quantity int `json:"quantity"`
}

// RestockMedicine handles POST /medicines/:id/restock
func (h *PharmacyHandler) RestockMedicine(c *gin.Context) {
	var req restockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middlewares.HttpError(c, "invalid request payload", http.StatusBadRequest, err)
		return
	}

	medicine, err := h.pharmacy.RestockMedicine(c.Request.Context(), c.Param("id"), req.Quantity, actorFrom(c))
	if err != nil {
		handleError(c, err)
		return
	}
	middlewares.RespondJSON(c, medicine, http.StatusOK)
}

type createPrescriptionRequest struct {
	AppointmentID string                               `json:"appointment_id"`
	PatientNIK    string                               `json:"patient_nik"`
	Lines         []repositories.PrescriptionLineInput `json:"medicines"`
	utils.NewPatientData
}

func (r createPrescriptionRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Lines, validation.Required, validation.Length(1, 0)),
	)
}

// CreatePrescription handles POST /prescriptions
func (h *PharmacyHandler) CreatePrescription(c *gin.Context) {
	var req createPrescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middlewares.HttpError(c, "invalid request payload", http.StatusBadRequest, err)
		return
	}
	if err := req.Validate(); err != nil {
		middlewares.HttpError(c, err.Error(), http.StatusBadRequest, err)
		return
	}

	prescription, err := h.pharmacy.CreatePrescription(c.Request.Context(), repositories.CreatePrescriptionInput{
		AppointmentID: req.AppointmentID,
		PatientNIK:    req.PatientNIK,
		NewPatient:    req.NewPatientData,
		Lines:         req.Lines,
	}, actorFrom(c))
	if err != nil {
		handleError(c, err)
		return
	}
	middlewares.RespondJSON(c, prescription, http.StatusCreated)
}

// GetAllPrescriptions handles GET /prescriptions
func (h *PharmacyHandler) GetAllPrescriptions(c *gin.Context) {
	prescriptions, err := h.pharmacy.GetAllPrescriptions(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	middlewares.RespondJSON(c, prescriptions, http.StatusOK)
}

// GetPrescriptionByID handles GET /prescriptions/:id
func (h *PharmacyHandler) GetPrescriptionByID(c *gin.Context) {
	prescription, err := h.pharmacy.GetPrescriptionByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	middlewares.RespondJSON(c, prescription, http.StatusOK)
}

type updatePrescriptionRequest struct {
	Lines []repositories.PrescriptionLineInput `json:"medicines"`
}

// UpdatePrescription handles PUT /prescriptions/:id
func (h *PharmacyHandler) UpdatePrescription(c *gin.Context) {
	var req updatePrescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middlewares.HttpError(c, "invalid request payload", http.StatusBadRequest, err)
		return
	}

	prescription, err := h.pharmacy.UpdatePrescriptionLines(c.Request.Context(), c.Param("id"), req.Lines, actorFrom(c))
	if err != nil {
		handleError(c, err)
		return
	}
	middlewares.RespondJSON(c, prescription, http.StatusOK)
}

// ProcessPrescription handles POST /prescriptions/:id/process
func (h *PharmacyHandler) ProcessPrescription(c *gin.Context) {
	prescription, err := h.pharmacy.ProcessPrescription(c.Request.Context(), c.Param("id"), actorFrom(c))
	if err != nil {
		handleError(c, err)
		return
	}
	middlewares.RespondJSON(c, prescription, http.StatusOK)
}

// CancelPrescription handles POST /prescriptions/:id/cancel
func (h *PharmacyHandler) CancelPrescription(c *gin.Context) {
	prescription, err := h.pharmacy.CancelPrescription(c.Request.Context(), c.Param("id"), actorFrom(c))
	if err != nil {
		handleError(c, err)
		return
	}
	middlewares.RespondJSON(c, prescription, http.StatusOK)
}
