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
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const AppointmentCacheExpiry = 1 * time.Hour

type AppointmentRepository struct {
	cache    *cache.Cache
	catalog  *models.Catalog
	patients *PatientRepository
}

func NewAppointmentRepository(cache *cache.Cache, catalog *models.Catalog, patients *PatientRepository) *AppointmentRepository {
	return &AppointmentRepository{cache: cache, catalog: catalog, patients: patients}
}

// CreateAppointmentInput carries the booking request. Either PatientNIK names
// an existing patient or NewPatient registers one inline.
type CreateAppointmentInput struct {
	DoctorID   string
	Date       time.Time
	PatientNIK string
	NewPatient utils.NewPatientData
}

// Create books an appointment: validates the doctor's schedule, allocates the
// per-doctor daily code, and opens the bill for the care episode.
func (r *AppointmentRepository) Create(ctx context.Context, input CreateAppointmentInput, actor string) (*models.Appointment, error) {
	if !input.Date.After(time.Now()) {
		return nil, fmt.Errorf("%w: appointment date must be in the future", ErrValidation)
	}

	var appointment models.Appointment
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var doctor models.Doctor
		if err := tx.First(&doctor, "id = ?", input.DoctorID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: doctor %s", ErrNotFound, input.DoctorID)
			}
			return fmt.Errorf("failed to get doctor: %w", err)
		}
		if !doctor.PracticesOn(utils.MondayWeekday(input.Date)) {
			return fmt.Errorf("%w: doctor does not practice on %s", ErrValidation, utils.DayCode(input.Date))
		}

		patient, err := r.patients.GetOrCreateForIntake(tx, input.PatientNIK, input.NewPatient, actor)
		if err != nil {
			return err
		}

		var clash int64
		err = tx.Model(&models.Appointment{}).
			Where("doctor_id = ? AND date = ? AND status <> ?", doctor.ID, input.Date, models.AppointmentCancelled).
			Count(&clash).Error
		if err != nil {
			return fmt.Errorf("failed to check doctor availability: %w", err)
		}
		if clash > 0 {
			return fmt.Errorf("%w: doctor already has an appointment at that time", ErrStateConflict)
		}

		seq, err := database.NextSequence(tx, database.AppointmentSequenceKey(doctor.ID, input.Date))
		if err != nil {
			return err
		}

		appointment = models.Appointment{
			ID:        utils.AppointmentCode(doctor.Specialization.Code(), input.Date, seq),
			DoctorID:  doctor.ID,
			Doctor:    doctor,
			PatientID: patient.UserID,
			Patient:   *patient,
			Date:      input.Date,
			Status:    models.AppointmentCreated,
		}
		appointment.Touch(actor, true)
		if err := tx.Omit("Doctor", "Patient").Create(&appointment).Error; err != nil {
			return fmt.Errorf("failed to create appointment: %w", err)
		}

		if _, err := createBillTx(tx, patient.UserID, &appointment.ID, nil, nil, actor); err != nil {
			return err
		}
		return r.invalidate(ctx, appointment.ID)
	})
	if err != nil {
		return nil, err
	}
	return &appointment, nil
}

// GetByID loads an appointment with its treatment lines, cache-aside.
func (r *AppointmentRepository) GetByID(ctx context.Context, id string) (*models.Appointment, error) {
	cacheKey := r.appointmentCacheKey(id)
	if cached, err := r.cache.Get(ctx, cacheKey); err == nil && cached != "" {
		var appointment models.Appointment
		if err := json.Unmarshal([]byte(cached), &appointment); err == nil {
			return &appointment, nil
		}
	}

	appointment, err := loadAppointment(database.DB, id)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(appointment); err == nil {
		if err := r.cache.Set(ctx, cacheKey, payload, AppointmentCacheExpiry); err != nil {
			log.Printf("Failed to set appointment in cache: %v", err)
		}
	}
	return appointment, nil
}

func loadAppointment(db *gorm.DB, id string) (*models.Appointment, error) {
	var appointment models.Appointment
	err := db.
		Preload("Doctor.User").
		Preload("Patient.User").
		Preload("Treatments", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Treatments.Treatment").
		First(&appointment, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: appointment %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return &appointment, nil
}

// GetAll lists all appointments, newest first.
func (r *AppointmentRepository) GetAll(ctx context.Context) ([]models.Appointment, error) {
	var appointments []models.Appointment
	err := database.DB.
		Preload("Doctor.User").
		Preload("Patient.User").
		Preload("Treatments.Treatment").
		Order("date DESC").
		Find(&appointments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get all appointments: %w", err)
	}
	return appointments, nil
}

// UpdateSchedule moves the appointment to another doctor and/or date. Allowed
// only while Created and more than one day before the current date. The code
// keeps its original doctor and day parts.
func (r *AppointmentRepository) UpdateSchedule(ctx context.Context, id, doctorID string, date time.Time, actor string) (*models.Appointment, error) {
	if !date.After(time.Now()) {
		return nil, fmt.Errorf("%w: appointment date must be in the future", ErrValidation)
	}

	var appointment *models.Appointment
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		appointment, err = loadAppointment(tx, id)
		if err != nil {
			return err
		}
		if appointment.Status != models.AppointmentCreated {
			return fmt.Errorf("%w: only a created appointment can be rescheduled", ErrStateConflict)
		}
		if !appointment.Reschedulable(time.Now()) {
			return fmt.Errorf("%w: appointments cannot be rescheduled within one day", ErrStateConflict)
		}

		var doctor models.Doctor
		if err := tx.First(&doctor, "id = ?", doctorID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: doctor %s", ErrNotFound, doctorID)
			}
			return fmt.Errorf("failed to get doctor: %w", err)
		}
		if !doctor.PracticesOn(utils.MondayWeekday(date)) {
			return fmt.Errorf("%w: doctor does not practice on %s", ErrValidation, utils.DayCode(date))
		}

		var clash int64
		err = tx.Model(&models.Appointment{}).
			Where("doctor_id = ? AND date = ? AND id <> ? AND status <> ?", doctorID, date, id, models.AppointmentCancelled).
			Count(&clash).Error
		if err != nil {
			return fmt.Errorf("failed to check doctor availability: %w", err)
		}
		if clash > 0 {
			return fmt.Errorf("%w: doctor already has an appointment at that time", ErrStateConflict)
		}

		appointment.DoctorID = doctorID
		appointment.Doctor = doctor
		appointment.Date = date
		appointment.Touch(actor, false)
		if err := tx.Model(appointment).Updates(map[string]interface{}{
			"doctor_id":  doctorID,
			"date":       date,
			"updated_by": actor,
		}).Error; err != nil {
			return fmt.Errorf("failed to reschedule appointment: %w", err)
		}
		return r.invalidate(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	return appointment, nil
}

// SetDiagnosis records the diagnosis and replaces the treatment lines.
// Allowed only while Created. The total fee becomes the sum of the assigned
// treatment prices.
func (r *AppointmentRepository) SetDiagnosis(ctx context.Context, id, diagnosis string, treatmentIDs []int, actor string) (*models.Appointment, error) {
	if strings.TrimSpace(diagnosis) == "" {
		return nil, fmt.Errorf("%w: diagnosis must not be empty", ErrValidation)
	}
	if len(treatmentIDs) == 0 {
		return nil, fmt.Errorf("%w: at least one treatment is required", ErrValidation)
	}

	lines := make([]models.AppointmentTreatment, 0, len(treatmentIDs))
	total := 0.0
	seen := make(map[int]bool, len(treatmentIDs))
	for _, treatmentID := range treatmentIDs {
		if seen[treatmentID] {
			continue
		}
		seen[treatmentID] = true
		treatment, ok := r.catalog.Treatment(treatmentID)
		if !ok {
			return nil, fmt.Errorf("%w: treatment %d", ErrNotFound, treatmentID)
		}
		lines = append(lines, models.AppointmentTreatment{
			ID:            uuid.New().String(),
			AppointmentID: id,
			TreatmentID:   treatment.ID,
			Treatment:     treatment,
		})
		total += treatment.Price
	}

	var appointment *models.Appointment
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		appointment, err = loadAppointment(tx, id)
		if err != nil {
			return err
		}
		if appointment.Status != models.AppointmentCreated {
			return fmt.Errorf("%w: diagnosis can only be set on a created appointment", ErrStateConflict)
		}

		if err := tx.Where("appointment_id = ?", id).Delete(&models.AppointmentTreatment{}).Error; err != nil {
			return fmt.Errorf("failed to clear treatment lines: %w", err)
		}
		if err := tx.Omit("Treatment").Create(&lines).Error; err != nil {
			return fmt.Errorf("failed to create treatment lines: %w", err)
		}

		appointment.Diagnosis = diagnosis
		appointment.TotalFee = total
		appointment.Treatments = lines
		appointment.Touch(actor, false)
		if err := tx.Model(appointment).Updates(map[string]interface{}{
			"diagnosis":  diagnosis,
			"total_fee":  total,
			"updated_by": actor,
		}).Error; err != nil {
			return fmt.Errorf("failed to update appointment: %w", err)
		}
		return r.invalidate(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	return appointment, nil
}

// MarkDone completes the appointment. Requires a recorded diagnosis with at
// least one treatment line.
func (r *AppointmentRepository) MarkDone(ctx context.Context, id, actor string) (*models.Appointment, error) {
	var appointment *models.Appointment
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		appointment, err = loadAppointment(tx, id)
		if err != nil {
			return err
		}
		if appointment.Status != models.AppointmentCreated {
			return fmt.Errorf("%w: only a created appointment can be completed", ErrStateConflict)
		}
		if strings.TrimSpace(appointment.Diagnosis) == "" || len(appointment.Treatments) == 0 {
			return fmt.Errorf("%w: diagnosis and treatments must be recorded before completion", ErrStateConflict)
		}

		appointment.Status = models.AppointmentDone
		appointment.Touch(actor, false)
		if err := tx.Model(appointment).Updates(map[string]interface{}{
			"status":     models.AppointmentDone,
			"updated_by": actor,
		}).Error; err != nil {
			return fmt.Errorf("failed to complete appointment: %w", err)
		}
		return r.invalidate(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	return appointment, nil
}

// Cancel voids the appointment. Allowed only while Created and more than one
// day before the appointment. The episode's bill is retired with it unless a
// prescription or reservation was already attached.
func (r *AppointmentRepository) Cancel(ctx context.Context, id, actor string) (*models.Appointment, error) {
	var appointment *models.Appointment
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		appointment, err = loadAppointment(tx, id)
		if err != nil {
			return err
		}
		if appointment.Status != models.AppointmentCreated {
			return fmt.Errorf("%w: only a created appointment can be cancelled", ErrStateConflict)
		}
		if !appointment.Reschedulable(time.Now()) {
			return fmt.Errorf("%w: appointments cannot be cancelled within one day", ErrStateConflict)
		}

		appointment.Status = models.AppointmentCancelled
		appointment.Touch(actor, false)
		if err := tx.Model(appointment).Updates(map[string]interface{}{
			"status":     models.AppointmentCancelled,
			"updated_by": actor,
		}).Error; err != nil {
			return fmt.Errorf("failed to cancel appointment: %w", err)
		}

		var bill models.Bill
		err = tx.Where("appointment_id = ? AND status = ?", id, models.BillTreatmentInProgress).
			First(&bill).Error
		if err == nil && bill.PrescriptionID == nil && bill.ReservationID == nil {
			if err := tx.Delete(&bill).Error; err != nil {
				return fmt.Errorf("failed to retire bill: %w", err)
			}
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to find appointment bill: %w", err)
		}
		return r.invalidate(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	return appointment, nil
}

// BillID finds the open bill of the appointment's care episode, if any.
func (r *AppointmentRepository) BillID(ctx context.Context, appointmentID string) (string, error) {
	var bill models.Bill
	err := database.DB.Select("id").
		Where("appointment_id = ? AND status <> ?", appointmentID, models.BillPaid).
		First(&bill).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("failed to find appointment bill: %w", err)
	}
	return bill.ID, nil
}

func (r *AppointmentRepository) invalidate(ctx context.Context, id string) error {
	if err := r.cache.Delete(ctx, r.appointmentCacheKey(id)); err != nil {
		return fmt.Errorf("failed to delete appointment cache: %w", err)
	}
	return r.cache.DeleteAll(ctx, "appointments_cache*")
}

func (r *AppointmentRepository) appointmentCacheKey(id string) string {
	return fmt.Sprintf("appointment_cache:%s", id)
}
