package repositories

import (
	"HospiCare/cache"
	"HospiCare/database"
	"HospiCare/models"
	"HospiCare/utils"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	PatientCacheExpiry = 24 * time.Hour
	patientRoleID      = 5
)

type PatientRepository struct {
	cache *cache.Cache
}

func NewPatientRepository(cache *cache.Cache) *PatientRepository {
	return &PatientRepository{cache: cache}
}

// Create registers a user with the Patient role and its patient profile.
func (r *PatientRepository) Create(ctx context.Context, patient *models.Patient, actor string) error {
	if err := utils.ValidateNIK(patient.NIK); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return database.DB.Transaction(func(tx *gorm.DB) error {
		if patient.User.ID == "" {
			patient.User.ID = uuid.New().String()
		}
		patient.User.RoleID = patientRoleID
		if err := tx.Create(&patient.User).Error; err != nil {
			return fmt.Errorf("failed to create patient user: %w", err)
		}
		patient.UserID = patient.User.ID
		if err := tx.Create(patient).Error; err != nil {
			return fmt.Errorf("failed to create patient: %w", err)
		}
		return r.invalidate(ctx, patient.UserID)
	})
}

// GetByNIK loads a patient by national id number.
func (r *PatientRepository) GetByNIK(ctx context.Context, nik string) (*models.Patient, error) {
	var patient models.Patient
	err := database.DB.Preload("User").
		Joins("JOIN users ON users.id = patient.user_id AND users.deleted_at IS NULL").
		First(&patient, "nik = ?", nik).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: patient with nik %s", ErrNotFound, nik)
		}
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}
	return &patient, nil
}

// GetByID loads a patient by user id, cache-aside.
func (r *PatientRepository) GetByID(ctx context.Context, id string) (*models.Patient, error) {
	cacheKey := r.patientCacheKey(id)
	if cached, err := r.cache.Get(ctx, cacheKey); err == nil && cached != "" {
		var patient models.Patient
		if err := json.Unmarshal([]byte(cached), &patient); err == nil {
			return &patient, nil
		}
	}

	var patient models.Patient
	err := database.DB.Preload("User").First(&patient, "user_id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: patient %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}

	if payload, err := json.Marshal(patient); err == nil {
		if err := r.cache.Set(ctx, cacheKey, payload, PatientCacheExpiry); err != nil {
			log.Printf("Failed to set patient in cache: %v", err)
		}
	}
	return &patient, nil
}

// GetAll lists all patients.
func (r *PatientRepository) GetAll(ctx context.Context) ([]models.Patient, error) {
	var patients []models.Patient
	err := database.DB.Preload("User").
		Joins("JOIN users ON users.id = patient.user_id AND users.deleted_at IS NULL").
		Order("users.created_at DESC").
		Find(&patients).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get all patients: %w", err)
	}
	return patients, nil
}

// GetOrCreateForIntake resolves a patient for the intake flows (appointment,
// prescription, reservation, policy): by NIK when given, otherwise by
// registering the inline patient data with a default password.
func (r *PatientRepository) GetOrCreateForIntake(tx *gorm.DB, nik string, data utils.NewPatientData, actor string) (*models.Patient, error) {
	if nik != "" {
		var patient models.Patient
		err := tx.Preload("User").First(&patient, "nik = ?", nik).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: patient with nik %s", ErrNotFound, nik)
			}
			return nil, fmt.Errorf("failed to get patient: %w", err)
		}
		return &patient, nil
	}

	if !data.Provided() {
		return nil, fmt.Errorf("%w: either patient_nik or complete new patient data must be provided", ErrValidation)
	}
	if err := data.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	class := data.Class
	if class == 0 {
		class = 3
	}
	user := models.User{
		ID:       uuid.New().String(),
		Name:     data.Name,
		Username: data.NIK,
		Email:    data.Email,
		Gender:   data.Gender,
		Password: "defaultpassword123",
		RoleID:   patientRoleID,
	}
	if err := tx.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to create patient user: %w", err)
	}
	patient := models.Patient{
		UserID:     user.ID,
		User:       user,
		NIK:        data.NIK,
		BirthPlace: data.BirthPlace,
		BirthDate:  data.BirthDate,
		Class:      class,
	}
	if err := tx.Create(&patient).Error; err != nil {
		return nil, fmt.Errorf("failed to create patient: %w", err)
	}
	return &patient, nil
}

func (r *PatientRepository) invalidate(ctx context.Context, id string) error {
	if err := r.cache.Delete(ctx, r.patientCacheKey(id)); err != nil {
		return fmt.Errorf("failed to delete patient cache: %w", err)
	}
	return r.cache.DeleteAll(ctx, "patients_cache")
}

func (r *PatientRepository) patientCacheKey(id string) string {
	return fmt.Sprintf("patient_cache:%s", id)
}
