package handlers

import (
	"HospiCare/middlewares"
	"HospiCare/repositories"
	"HospiCare/services"
	"HospiCare/utils"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type AppointmentHandler struct {
	appointments *services.AppointmentService
}

func NewAppointmentHandler(appointments *services.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{appointments: appointments}
}

type createAppointmentRequest struct {
	DoctorID   string    `json:"doctor_id"`
	Date       time.Time `json:"date"`
	PatientNIK string    `json:"patient_nik"`
	utils.NewPatientData
}

func (r createAppointmentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.DoctorID, validation.Required),
		validation.Field(&r.Date, validation.Required),
	)
}

// Create handles POST /appointments
func (h *AppointmentHandler) Create(c *gin.Context) {
	var req createAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middlewares.HttpError(c, "invalid request payload", http.StatusBadRequest, err)
		return
	}
	if err := req.Validate(); err != nil {
		middlewares.HttpError(c, err.Error(), http.StatusBadRequest, err)
		return
	}

	appointment, err := h.appointments.Create(c.Request.Context(), repositories.CreateAppointmentInput{
		DoctorID:   req.DoctorID,
		Date:       req.Date,
		PatientNIK: req.PatientNIK,
		NewPatient: req.NewPatientData,
	}, actorFrom(c))
	if err != nil {
		handleError(c, err)
		return
	}
	middlewares.RespondJSON(c, appointment, http.StatusCreated)
}

// GetAll handles GET /appointments
func (h *AppointmentHandler) GetAll(c *gin.Context) {
	appointments, err := h.appointments.GetAll(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	middlewares.RespondJSON(c, appointments, http.StatusOK)
}

// GetByID handles GET /appointments/:id
func (h *AppointmentHandler) GetByID(c *gin.Context) {
	appointment, err := h.appointments.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	middlewares.RespondJSON(c, appointment, http.StatusOK)
}

type rescheduleRequest struct {
	DoctorID string    `json:"doctor_id"`
	Date     time.Time `json:"date"`
}

func (r rescheduleRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.DoctorID, validation.Required),
		validation.Field(&r.Date, validation.Required),
	)
}

// Reschedule handles PUT /appointments/:id/schedule
func (h *AppointmentHandler) Reschedule(c *gin.Context) {
	var req rescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middlewares.HttpError(c, "invalid request payload", http.StatusBadRequest, err)
		return
	}
	if err := req.Validate(); err != nil {
		middlewares.HttpError(c, err.Error(), http.StatusBadRequest, err)
		return
	}

	appointment, err := h.appointments.UpdateSchedule(c.Request.Context(), c.Param("id"), req.DoctorID, req.Date, actorFrom(c))
	if err != nil {
		handleError(c, err)
		return
	}
	middlewares.RespondJSON(c, appointment, http.StatusOK)
}

type diagnosisRequest struct {
	Diagnosis    string `json:"diagnosis"`
	TreatmentIDs []int  `json:"treatment_ids"`
}

func (r diagnosisRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Diagnosis, validation.Required),
		validation.Field(&r.TreatmentIDs, validation.Required, validation.Length(1, 0)),
	)
}

// SetDiagnosis handles PUT /appointments/:id/diagnosis
func (h *AppointmentHandler) SetDiagnosis(c *gin.Context) {
	var req diagnosisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middlewares.HttpError(c, "invalid request payload", http.StatusBadRequest, err)
		return
	}
	if err := req.Validate(); err != nil {
		middlewares.HttpError(c, err.Error(), http.StatusBadRequest, err)
		return
	}

	appointment, err := h.appointments.SetDiagnosis(c.Request.Context(), c.Param("id"), req.Diagnosis, req.TreatmentIDs, actorFrom(c))
	if err != nil {
		handleError(c, err)
		return
	}
	middlewares.RespondJSON(c, appointment, http.StatusOK)
}

// MarkDone handles POST /appointments/:id/done
func (h *AppointmentHandler) MarkDone(c *gin.Context) {
	appointment, err := h.appointments.MarkDone(c.Request.Context(), c.Param("id"), actorFrom(c))
	if err != nil {
		handleError(c, err)
		return
	}
	middlewares.RespondJSON(c, appointment, http.StatusOK)
}

// Cancel handles POST /appointments/:id/cancel
func (h *AppointmentHandler) Cancel(c *gin.Context) {
	appointment, err := h.appointments.Cancel(c.Request.Context(), c.Param("id"), actorFrom(c))
	if err != nil {
		handleError(c, err)
		return
	}
	middlewares.RespondJSON(c, appointment, http.StatusOK)
}
