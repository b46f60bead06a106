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
)

type HospitalizationHandler struct {
	hospitalization *services.HospitalizationService
}

func NewHospitalizationHandler(hospitalization *services.HospitalizationService) *HospitalizationHandler {
	return &HospitalizationHandler{hospitalization: hospitalization}
}

type roomRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	MaxCapacity int     `json:"max_capacity"`
	PricePerDay float64 `json:"price_per_day"`
}

func (r roomRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.MaxCapacity, validation.Required, validation.Min(1)),
		validation.Field(&r.PricePerDay, validation.Required, validation.Min(0.0).Exclusive()),
	)
}

// CreateRoom handles POST /rooms
func (h *HospitalizationHandler) CreateRoom(c *gin.Context) {
	var req roomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middlewares.HttpError(c, "invalid request payload", http.StatusBadRequest, err)
		return
	}
	if err := req.Validate(); err != nil {
		middlewares.HttpError(c, err.Error(), http.StatusBadRequest, err)
		return
	}

	room := models.Room{
		Name:        req.Name,
		Description: req.Description,
		MaxCapacity: req.MaxCapacity,
		PricePerDay: req.PricePerDay,
	}
	if err := h.hospitalization.CreateRoom(c.Request.Context(), &room, actorFrom(c)); err != nil {
		handleError(c, err)
		return
	}
	middlewares.RespondJSON(c, room, http.StatusCreated)
}

// GetAllRooms handles GET /rooms
func (h *HospitalizationHandler) GetAllRooms(c *gin.Context) {
	rooms, err := h.hospitalization.GetAllRooms(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	middlewares.RespondJSON(c, rooms, http.StatusOK)
}

// GetRoomByID handles GET /rooms/:id
func (h *HospitalizationHandler) GetRoomByID(c *gin.Context) {
	room, err := h.hospitalization.GetRoomByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	middlewares.RespondJSON(c, room, http.StatusOK)
}

type facilityRequest struct {
	Name string  `json:"name"`
	Fee  float64 `json:"fee"`
}

func (r facilityRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.Fee, validation.Min(0.0)),
	)
}

// CreateFacility handles POST /facilities
func (h *HospitalizationHandler) CreateFacility(c *gin.Context) {
	var req facilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middlewares.HttpError(c, "invalid request payload", http.StatusBadRequest, err)
		return
	}
	if err := req.Validate(); err != nil {
		middlewares.HttpError(c, err.Error(), http.StatusBadRequest, err)
		return
	}

	facility := models.Facility{Name: req.Name, Fee: req.Fee}
	if err := h.hospitalization.CreateFacility(c.Request.Context(), &facility, actorFrom(c)); err != nil {
		handleError(c, err)
		return
	}
	middlewares.RespondJSON(c, facility, http.StatusCreated)
}

// GetAllFacilities handles GET /facilities
func (h *HospitalizationHandler) GetAllFacilities(c *gin.Context) {
	facilities, err := h.hospitalization.GetAllFacilities(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	middlewares.RespondJSON(c, facilities, http.StatusOK)
}

type createReservationRequest struct {
	RoomID        string    `json:"room_id"`
	AppointmentID string    `json:"appointment_id"`
	PatientNIK    string    `json:"patient_nik"`
	NurseID       string    `json:"nurse_id"`
	DateIn        time.Time `json:"date_in"`
	DateOut       time.Time `json:"date_out"`
	FacilityIDs   []string  `json:"facility_ids"`
	utils.NewPatientData
}

func (r createReservationRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.RoomID, validation.Required),
		validation.Field(&r.DateIn, validation.Required),
		validation.Field(&r.DateOut, validation.Required),
	)
}

// CreateReservation handles POST /reservations
func (h *HospitalizationHandler) CreateReservation(c *gin.Context) {
	var req createReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middlewares.HttpError(c, "invalid request payload", http.StatusBadRequest, err)
		return
	}
	if err := req.Validate(); err != nil {
		middlewares.HttpError(c, err.Error(), http.StatusBadRequest, err)
		return
	}

	reservation, err := h.hospitalization.CreateReservation(c.Request.Context(), repositories.CreateReservationInput{
		RoomID:        req.RoomID,
		AppointmentID: req.AppointmentID,
		PatientNIK:    req.PatientNIK,
		NewPatient:    req.NewPatientData,
		NurseID:       req.NurseID,
		DateIn:        req.DateIn,
		DateOut:       req.DateOut,
		FacilityIDs:   req.FacilityIDs,
	}, actorFrom(c))
	if err != nil {
		handleError(c, err)
		return
	}
	middlewares.RespondJSON(c, reservation, http.StatusCreated)
}

// GetAllReservations handles GET /reservations
func (h *HospitalizationHandler) GetAllReservations(c *gin.Context) {
	reservations, err := h.hospitalization.GetAllReservations(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	middlewares.RespondJSON(c, reservations, http.StatusOK)
}

// GetReservationByID handles GET /reservations/:id
func (h *HospitalizationHandler) GetReservationByID(c *gin.Context) {
	reservation, err := h.hospitalization.GetReservationByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	middlewares.RespondJSON(c, reservation, http.StatusOK)
}

type updateReservationRequest struct {
	RoomID      string    `json:"room_id"`
	DateIn      time.Time `json:"date_in"`
	DateOut     time.Time `json:"date_out"`
	NurseID     string    `json:"nurse_id"`
	FacilityIDs []string  `json:"facility_ids"`
}

// UpdateReservation handles PUT /reservations/:id
func (h *HospitalizationHandler) UpdateReservation(c *gin.Context) {
	var req updateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middlewares.HttpError(c, "invalid request payload", http.StatusBadRequest, err)
		return
	}

	reservation, err := h.hospitalization.UpdateReservation(c.Request.Context(), c.Param("id"), repositories.UpdateReservationInput{
		RoomID:      req.RoomID,
		DateIn:      req.DateIn,
		DateOut:     req.DateOut,
		NurseID:     req.NurseID,
		FacilityIDs: req.FacilityIDs,
	}, actorFrom(c))
	if err != nil {
		handleError(c, err)
		return
	}
	middlewares.RespondJSON(c, reservation, http.StatusOK)
}
