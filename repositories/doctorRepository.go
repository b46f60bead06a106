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
	DoctorCacheExpiry = 24 * time.Hour
	doctorRoleID      = 2
)

type DoctorRepository struct {
	cache *cache.Cache
}

func NewDoctorRepository(cache *cache.Cache) *DoctorRepository {
	return &DoctorRepository{cache: cache}
}

// Create registers a doctor user and profile. The profile id is generated
// from the specialty code and a per-specialty sequence.
func (r *DoctorRepository) Create(ctx context.Context, doctor *models.Doctor, actor string) error {
	if doctor.Fee <= 0 {
		return fmt.Errorf("%w: doctor fee must be positive", ErrValidation)
	}
	for _, day := range doctor.Schedules {
		if day < 0 || day > 6 {
			return fmt.Errorf("%w: schedule weekdays must be in 0..6", ErrValidation)
		}
	}
	return database.DB.Transaction(func(tx *gorm.DB) error {
		if doctor.User.ID == "" {
			doctor.User.ID = uuid.New().String()
		}
		doctor.User.RoleID = doctorRoleID
		if err := tx.Create(&doctor.User).Error; err != nil {
			return fmt.Errorf("failed to create doctor user: %w", err)
		}
		doctor.UserID = doctor.User.ID

		specialty := doctor.Specialization.Code()
		seq, err := database.NextSequence(tx, fmt.Sprintf("%s:%s", database.SeqDoctor, specialty))
		if err != nil {
			return err
		}
		doctor.ID = utils.DoctorCode(specialty, seq)

		if err := tx.Create(doctor).Error; err != nil {
			return fmt.Errorf("failed to create doctor: %w", err)
		}
		return r.invalidate(ctx, doctor.ID)
	})
}

// GetByID loads a doctor by code, cache-aside.
func (r *DoctorRepository) GetByID(ctx context.Context, id string) (*models.Doctor, error) {
	cacheKey := r.doctorCacheKey(id)
	if cached, err := r.cache.Get(ctx, cacheKey); err == nil && cached != "" {
		var doctor models.Doctor
		if err := json.Unmarshal([]byte(cached), &doctor); err == nil {
			return &doctor, nil
		}
	}

	var doctor models.Doctor
	err := database.DB.Preload("User").First(&doctor, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: doctor %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to get doctor: %w", err)
	}

	if payload, err := json.Marshal(doctor); err == nil {
		if err := r.cache.Set(ctx, cacheKey, payload, DoctorCacheExpiry); err != nil {
			log.Printf("Failed to set doctor in cache: %v", err)
		}
	}
	return &doctor, nil
}

// GetAll lists all doctors.
func (r *DoctorRepository) GetAll(ctx context.Context) ([]models.Doctor, error) {
	var doctors []models.Doctor
	err := database.DB.Preload("User").Order("id").Find(&doctors).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get all doctors: %w", err)
	}
	return doctors, nil
}

// Update changes a doctor's fee, experience, or schedule days. The
// specialization and the code derived from it are fixed at creation.
func (r *DoctorRepository) Update(ctx context.Context, id string, fee float64, yearsOfExperience int, schedules []int, actor string) (*models.Doctor, error) {
	if fee <= 0 {
		return nil, fmt.Errorf("%w: doctor fee must be positive", ErrValidation)
	}
	for _, day := range schedules {
		if day < 0 || day > 6 {
			return nil, fmt.Errorf("%w: schedule weekdays must be in 0..6", ErrValidation)
		}
	}

	var doctor models.Doctor
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("User").First(&doctor, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: doctor %s", ErrNotFound, id)
			}
			return fmt.Errorf("failed to get doctor: %w", err)
		}
		doctor.Fee = fee
		doctor.YearsOfExperience = yearsOfExperience
		doctor.Schedules = schedules
		if err := tx.Save(&doctor).Error; err != nil {
			return fmt.Errorf("failed to update doctor: %w", err)
		}
		return r.invalidate(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	return &doctor, nil
}

func (r *DoctorRepository) invalidate(ctx context.Context, id string) error {
	if err := r.cache.Delete(ctx, r.doctorCacheKey(id)); err != nil {
		return fmt.Errorf("failed to delete doctor cache: %w", err)
	}
	return r.cache.DeleteAll(ctx, "doctors_cache*")
}

func (r *DoctorRepository) doctorCacheKey(id string) string {
	return fmt.Sprintf("doctor_cache:%s", id)
}
