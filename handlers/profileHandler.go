package handlers

import (
	"HospiCare/middlewares"
	"HospiCare/models"
	"HospiCare/services"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

type ProfileHandler struct {
	profiles *services.ProfileService
}

func NewProfileHandler(profiles *services.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

type createPatientRequest struct {
	Name       string `json:"name"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Gender     bool   `json:"gender"`
	NIK        string `json:"nik"`
	BirthPlace string `json:"birth_place"`
	BirthDate  string `json:"birth_date"`
	Class      int    `json:"p_class"`
}

func (r createPatientRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.Username, validation.Required),
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 72)),
		validation.Field(&r.NIK, validation.Required),
		validation.Field(&r.BirthDate, validation.Date("2006-01-02")),
		validation.Field(&r.Class, validation.Required, validation.Min(1), validation.Max(3)),
	)
}

// CreatePatient handles POST /patients
func (h *ProfileHandler) CreatePatient(c *gin.Context) {
	var req createPatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middlewares.HttpError(c, "invalid request payload", http.StatusBadRequest, err)
		return
	}
	if err := req.Validate(); err != nil {
		middlewares.HttpError(c, err.Error(), http.StatusBadRequest, err)
		return
	}

	patient := models.Patient{
		User: models.User{
			Name:     req.Name,
			Username: req.Username,
			Email:    req.Email,
			Password: req.Password,
			Gender:   req.Gender,
		},
		NIK:        req.NIK,
		BirthPlace: req.BirthPlace,
		BirthDate:  req.BirthDate,
		Class:      req.Class,
	}
	if err := h.profiles.CreatePatient(c.Request.Context(), &patient, actorFrom(c)); err != nil {
		handleError(c, err)
		return
	}
	middlewares.RespondJSON(c, patient, http.StatusCreated)
}

// GetAllPatients handles GET /patients
func (h *ProfileHandler) GetAllPatients(c *gin.Context) {
	patients, err := h.profiles.GetAllPatients(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	middlewares.RespondJSON(c, patients, http.StatusOK)
}

// GetPatientByID handles GET /patients/:id
func (h *ProfileHandler) GetPatientByID(c *gin.Context) {
	patient, err := h.profiles.GetPatientByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	middlewares.RespondJSON(c, patient, http.StatusOK)
}

// GetPatientByNIK handles GET /patients/nik/:nik
func (h *ProfileHandler) GetPatientByNIK(c *gin.Context) {
	patient, err := h.profiles.GetPatientByNIK(c.Request.Context(), c.Param("nik"))
	if err != nil {
		handleError(c, err)
		return
	}
	middlewares.RespondJSON(c, patient, http.StatusOK)
}

type createDoctorRequest struct {
	Name              string  `json:"name"`
	Username          string  `json:"username"`
	Email             string  `json:"email"`
	Password          string  `json:"password"`
	Gender            bool    `json:"gender"`
	Specialization    int     `json:"specialization"`
	YearsOfExperience int     `json:"years_of_experience"`
	Fee               float64 `json:"fee"`
	Schedules         []int   `json:"schedules"`
}

func (r createDoctorRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.Username, validation.Required),
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 72)),
		validation.Field(&r.Specialization, validation.Min(int(models.GeneralPractitioner)), validation.Max(int(models.Urology))),
		validation.Field(&r.Fee, validation.Required, validation.Min(0.0).Exclusive()),
		validation.Field(&r.Schedules, validation.Required, validation.Length(1, 7)),
	)
}

// CreateDoctor handles POST /doctors
func (h *ProfileHandler) CreateDoctor(c *gin.Context) {
	var req createDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middlewares.HttpError(c, "invalid request payload", http.StatusBadRequest, err)
		return
	}
	if err := req.Validate(); err != nil {
		middlewares.HttpError(c, err.Error(), http.StatusBadRequest, err)
		return
	}

	doctor := models.Doctor{
		User: models.User{
			Name:     req.Name,
			Username: req.Username,
			Email:    req.Email,
			Password: req.Password,
			Gender:   req.Gender,
		},
		Specialization:    models.Specialization(req.Specialization),
		YearsOfExperience: req.YearsOfExperience,
		Fee:               req.Fee,
		Schedules:         req.Schedules,
	}
	if err := h.profiles.CreateDoctor(c.Request.Context(), &doctor, actorFrom(c)); err != nil {
		handleError(c, err)
		return
	}
	middlewares.RespondJSON(c, doctor, http.StatusCreated)
}

// GetAllDoctors handles GET /doctors
func (h *ProfileHandler) GetAllDoctors(c *gin.Context) {
	doctors, err := h.profiles.GetAllDoctors(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	middlewares.RespondJSON(c, doctors, http.StatusOK)
}

// GetDoctorByID handles GET /doctors/:id
func (h *ProfileHandler) GetDoctorByID(c *gin.Context) {
	doctor, err := h.profiles.GetDoctorByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	middlewares.RespondJSON(c, doctor, http.StatusOK)
}

type updateDoctorRequest struct {
	Fee               float64 `json:"fee"`
	YearsOfExperience int     `json:"years_of_experience"`
	Schedules         []int   `json:"schedules"`
}

// UpdateDoctor handles PUT /doctors/:id
func (h *ProfileHandler) UpdateDoctor(c *gin.Context) {
	var req updateDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middlewares.HttpError(c, "invalid request payload", http.StatusBadRequest, err)
		return
	}

	doctor, err := h.profiles.UpdateDoctor(c.Request.Context(), c.Param("id"), req.Fee, req.YearsOfExperience, req.Schedules, actorFrom(c))
	if err != nil {
		handleError(c, err)
		return
	}
	middlewares.RespondJSON(c, doctor, http.StatusOK)
}
