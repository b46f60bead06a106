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
	"gorm.io/gorm/clause"
)

const (
	MedicineCacheExpiry     = 12 * time.Hour
	PrescriptionCacheExpiry = 30 * time.Minute
)

type PharmacyRepository struct {
	cache    *cache.Cache
	patients *PatientRepository
}

func NewPharmacyRepository(cache *cache.Cache, patients *PatientRepository) *PharmacyRepository {
	return &PharmacyRepository{cache: cache, patients: patients}
}

// CreateMedicine registers a medicine with a generated MED code.
func (r *PharmacyRepository) CreateMedicine(ctx context.Context, medicine *models.Medicine, actor string) error {
	if medicine.Name == "" {
		return fmt.Errorf("%w: medicine name must not be empty", ErrValidation)
	}
	if medicine.Price <= 0 {
		return fmt.Errorf("%w: medicine price must be positive", ErrValidation)
	}
	if medicine.Stock < 0 {
		return fmt.Errorf("%w: medicine stock must not be negative", ErrValidation)
	}
	return database.DB.Transaction(func(tx *gorm.DB) error {
		seq, err := database.NextSequence(tx, database.SeqMedicine)
		if err != nil {
			return err
		}
		medicine.ID = utils.MedicineCode(seq)
		medicine.Touch(actor, true)
		if err := tx.Create(medicine).Error; err != nil {
			return fmt.Errorf("failed to create medicine: %w", err)
		}
		return r.invalidateMedicine(ctx, medicine.ID)
	})
}

// GetMedicineByID loads a medicine, cache-aside.
func (r *PharmacyRepository) GetMedicineByID(ctx context.Context, id string) (*models.Medicine, error) {
	cacheKey := r.medicineCacheKey(id)
	if cached, err := r.cache.Get(ctx, cacheKey); err == nil && cached != "" {
		var medicine models.Medicine
		if err := json.Unmarshal([]byte(cached), &medicine); err == nil {
			return &medicine, nil
		}
	}

	var medicine models.Medicine
	err := database.DB.First(&medicine, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: medicine %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to get medicine: %w", err)
	}

	if payload, err := json.Marshal(medicine); err == nil {
		if err := r.cache.Set(ctx, cacheKey, payload, MedicineCacheExpiry); err != nil {
			log.Printf("Failed to set medicine in cache: %v", err)
		}
	}
	return &medicine, nil
}

// GetAllMedicines lists the medicine inventory.
func (r *PharmacyRepository) GetAllMedicines(ctx context.Context) ([]models.Medicine, error) {
	var medicines []models.Medicine
	err := database.DB.Order("id").Find(&medicines).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get all medicines: %w", err)
	}
	return medicines, nil
}

// UpdateMedicine changes the price or description.
func (r *PharmacyRepository) UpdateMedicine(ctx context.Context, id string, price float64, description string, actor string) (*models.Medicine, error) {
	if price <= 0 {
		return nil, fmt.Errorf("%w: medicine price must be positive", ErrValidation)
	}
	var medicine models.Medicine
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&medicine, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: medicine %s", ErrNotFound, id)
			}
			return fmt.Errorf("failed to get medicine: %w", err)
		}
		medicine.Price = price
		medicine.Description = description
		medicine.Touch(actor, false)
		if err := tx.Save(&medicine).Error; err != nil {
			return fmt.Errorf("failed to update medicine: %w", err)
		}
		return r.invalidateMedicine(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	return &medicine, nil
}

// RestockMedicine adds stock. Quantity must be positive; stock only ever
// moves down through prescription processing.
func (r *PharmacyRepository) RestockMedicine(ctx context.Context, id string, quantity int, actor string) (*models.Medicine, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: restock quantity must be positive", ErrValidation)
	}
	var medicine models.Medicine
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&medicine, "id = ?", id).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: medicine %s", ErrNotFound, id)
			}
			return fmt.Errorf("failed to lock medicine: %w", err)
		}
		medicine.Stock += quantity
		medicine.Touch(actor, false)
		if err := tx.Model(&medicine).Updates(map[string]interface{}{
			"stock":      medicine.Stock,
			"updated_by": actor,
		}).Error; err != nil {
			return fmt.Errorf("failed to restock medicine: %w", err)
		}
		return r.invalidateMedicine(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	return &medicine, nil
}

// PrescriptionLineInput is one requested medicine with its quantity.
type PrescriptionLineInput struct {
	MedicineID string `json:"medicine_id"`
	Quantity   int    `json:"quantity"`
}

// CreatePrescriptionInput carries a prescription request. The patient comes
// from the linked appointment when one is given, otherwise by NIK or inline
// registration.
type CreatePrescriptionInput struct {
	AppointmentID string
	PatientNIK    string
	NewPatient    utils.NewPatientData
	Lines         []PrescriptionLineInput
}

// CreatePrescription opens a prescription in Created state. Duplicate
// medicine lines are merged by summing their quantities. The episode's bill
// picks the prescription up, or a standalone bill is opened.
func (r *PharmacyRepository) CreatePrescription(ctx context.Context, input CreatePrescriptionInput, actor string) (*models.Prescription, error) {
	if len(input.Lines) == 0 {
		return nil, fmt.Errorf("%w: at least one medicine line is required", ErrValidation)
	}
	merged := mergeLines(input.Lines)
	for _, line := range merged {
		if line.Quantity <= 0 {
			return nil, fmt.Errorf("%w: medicine quantities must be positive", ErrValidation)
		}
	}

	var prescription models.Prescription
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var patientID string
		var appointmentID *string
		if input.AppointmentID != "" {
			var appointment models.Appointment
			err := tx.First(&appointment, "id = ?", input.AppointmentID).Error
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: appointment %s", ErrNotFound, input.AppointmentID)
				}
				return fmt.Errorf("failed to get appointment: %w", err)
			}
			if appointment.Status == models.AppointmentCancelled {
				return fmt.Errorf("%w: cannot prescribe against a cancelled appointment", ErrStateConflict)
			}
			patientID = appointment.PatientID
			appointmentID = &appointment.ID
		} else {
			patient, err := r.patients.GetOrCreateForIntake(tx, input.PatientNIK, input.NewPatient, actor)
			if err != nil {
				return err
			}
			patientID = patient.UserID
		}

		now := time.Now()
		prescription = models.Prescription{
			ID:            utils.PrescriptionCode(len(merged), now),
			PatientID:     patientID,
			AppointmentID: appointmentID,
			Status:        models.PrescriptionCreated,
		}
		prescription.Touch(actor, true)
		if err := tx.Create(&prescription).Error; err != nil {
			return fmt.Errorf("failed to create prescription: %w", err)
		}

		for _, line := range merged {
			var medicine models.Medicine
			if err := tx.First(&medicine, "id = ?", line.MedicineID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: medicine %s", ErrNotFound, line.MedicineID)
				}
				return fmt.Errorf("failed to get medicine: %w", err)
			}
			quantity := models.MedicineQuantity{
				ID:             uuid.New().String(),
				PrescriptionID: prescription.ID,
				MedicineID:     medicine.ID,
				Quantity:       line.Quantity,
			}
			if err := tx.Create(&quantity).Error; err != nil {
				return fmt.Errorf("failed to create prescription line: %w", err)
			}
			quantity.Medicine = medicine
			prescription.Medicines = append(prescription.Medicines, quantity)
		}

		if err := attachPrescriptionTx(tx, patientID, appointmentID, prescription.ID, actor); err != nil {
			return err
		}
		return r.invalidatePrescription(ctx, prescription.ID)
	})
	if err != nil {
		return nil, err
	}
	return &prescription, nil
}

// mergeLines folds duplicate medicine ids into one line, keeping first-seen
// order.
func mergeLines(lines []PrescriptionLineInput) []PrescriptionLineInput {
	index := make(map[string]int, len(lines))
	merged := make([]PrescriptionLineInput, 0, len(lines))
	for _, line := range lines {
		if at, ok := index[line.MedicineID]; ok {
			merged[at].Quantity += line.Quantity
			continue
		}
		index[line.MedicineID] = len(merged)
		merged = append(merged, line)
	}
	return merged
}

// GetPrescriptionByID loads a prescription with its lines, cache-aside.
func (r *PharmacyRepository) GetPrescriptionByID(ctx context.Context, id string) (*models.Prescription, error) {
	cacheKey := r.prescriptionCacheKey(id)
	if cached, err := r.cache.Get(ctx, cacheKey); err == nil && cached != "" {
		var prescription models.Prescription
		if err := json.Unmarshal([]byte(cached), &prescription); err == nil {
			return &prescription, nil
		}
	}

	prescription, err := loadPrescription(database.DB, id)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(prescription); err == nil {
		if err := r.cache.Set(ctx, cacheKey, payload, PrescriptionCacheExpiry); err != nil {
			log.Printf("Failed to set prescription in cache: %v", err)
		}
	}
	return prescription, nil
}

func loadPrescription(db *gorm.DB, id string) (*models.Prescription, error) {
	var prescription models.Prescription
	err := db.
		Preload("Patient.User").
		Preload("Medicines", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Medicines.Medicine").
		First(&prescription, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: prescription %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to get prescription: %w", err)
	}
	return &prescription, nil
}

// GetAllPrescriptions lists all prescriptions, newest first.
func (r *PharmacyRepository) GetAllPrescriptions(ctx context.Context) ([]models.Prescription, error) {
	var prescriptions []models.Prescription
	err := database.DB.
		Preload("Patient.User").
		Preload("Medicines.Medicine").
		Order("created_at DESC").
		Find(&prescriptions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get all prescriptions: %w", err)
	}
	return prescriptions, nil
}

// UpdatePrescriptionLines replaces the medicine lines. Allowed only while
// Created, before any stock has been drawn.
func (r *PharmacyRepository) UpdatePrescriptionLines(ctx context.Context, id string, lines []PrescriptionLineInput, actor string) (*models.Prescription, error) {
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: at least one medicine line is required", ErrValidation)
	}
	merged := mergeLines(lines)
	for _, line := range merged {
		if line.Quantity <= 0 {
			return nil, fmt.Errorf("%w: medicine quantities must be positive", ErrValidation)
		}
	}

	var prescription *models.Prescription
	err := withLock(ctx, r.prescriptionLockKey(id), func() error {
		return database.DB.Transaction(func(tx *gorm.DB) error {
			var err error
			prescription, err = loadPrescription(tx, id)
			if err != nil {
				return err
			}
			if prescription.Status != models.PrescriptionCreated {
				return fmt.Errorf("%w: only a created prescription can be edited", ErrStateConflict)
			}

			if err := tx.Where("prescription_id = ?", id).Delete(&models.MedicineQuantity{}).Error; err != nil {
				return fmt.Errorf("failed to clear prescription lines: %w", err)
			}
			prescription.Medicines = prescription.Medicines[:0]
			for _, line := range merged {
				var medicine models.Medicine
				if err := tx.First(&medicine, "id = ?", line.MedicineID).Error; err != nil {
					if errors.Is(err, gorm.ErrRecordNotFound) {
						return fmt.Errorf("%w: medicine %s", ErrNotFound, line.MedicineID)
					}
					return fmt.Errorf("failed to get medicine: %w", err)
				}
				quantity := models.MedicineQuantity{
					ID:             uuid.New().String(),
					PrescriptionID: id,
					MedicineID:     medicine.ID,
					Quantity:       line.Quantity,
				}
				if err := tx.Create(&quantity).Error; err != nil {
					return fmt.Errorf("failed to create prescription line: %w", err)
				}
				quantity.Medicine = medicine
				prescription.Medicines = append(prescription.Medicines, quantity)
			}

			prescription.Touch(actor, false)
			if err := tx.Model(prescription).Update("updated_by", actor).Error; err != nil {
				return fmt.Errorf("failed to update prescription: %w", err)
			}
			return r.invalidatePrescription(ctx, id)
		})
	})
	if err != nil {
		return nil, err
	}
	return prescription, nil
}

// ProcessPrescription draws stock against the prescription's lines. Each line
// is fulfilled up to the available stock; full fulfillment completes the
// prescription, anything less parks it in WaitingForStock until a restock and
// another processing round. The total price tracks the fulfilled quantities.
func (r *PharmacyRepository) ProcessPrescription(ctx context.Context, id, actor string) (*models.Prescription, error) {
	var prescription *models.Prescription
	err := withLock(ctx, r.prescriptionLockKey(id), func() error {
		return database.DB.Transaction(func(tx *gorm.DB) error {
			var err error
			prescription, err = loadPrescription(tx, id)
			if err != nil {
				return err
			}
			if prescription.Status != models.PrescriptionCreated && prescription.Status != models.PrescriptionWaitingForStock {
				return fmt.Errorf("%w: prescription is already %s", ErrStateConflict, prescription.Status)
			}

			// Re-read each medicine under a row lock so two pharmacists
			// cannot draw the same stock.
			for i := range prescription.Medicines {
				line := &prescription.Medicines[i]
				err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
					First(&line.Medicine, "id = ?", line.MedicineID).Error
				if err != nil {
					return fmt.Errorf("failed to lock medicine %s: %w", line.MedicineID, err)
				}
			}

			allFulfilled := prescription.AllocateStock()

			total := 0.0
			for i := range prescription.Medicines {
				line := &prescription.Medicines[i]
				if err := tx.Model(&models.Medicine{}).
					Where("id = ?", line.MedicineID).
					Updates(map[string]interface{}{
						"stock":      line.Medicine.Stock,
						"updated_by": actor,
					}).Error; err != nil {
					return fmt.Errorf("failed to update medicine stock: %w", err)
				}
				if err := tx.Model(&models.MedicineQuantity{}).
					Where("id = ?", line.ID).
					Update("fulfilled_quantity", line.FulfilledQuantity).Error; err != nil {
					return fmt.Errorf("failed to update prescription line: %w", err)
				}
				if err := r.invalidateMedicine(ctx, line.MedicineID); err != nil {
					return err
				}
				total += line.LineTotal()
			}

			status := models.PrescriptionWaitingForStock
			if allFulfilled {
				status = models.PrescriptionDone
			}
			prescription.Status = status
			prescription.TotalPrice = total
			prescription.ProcessedBy = &actor
			prescription.Touch(actor, false)
			if err := tx.Model(prescription).Updates(map[string]interface{}{
				"status":       status,
				"total_price":  total,
				"processed_by": actor,
				"updated_by":   actor,
			}).Error; err != nil {
				return fmt.Errorf("failed to update prescription: %w", err)
			}
			return r.invalidatePrescription(ctx, id)
		})
	})
	if err != nil {
		return nil, err
	}
	return prescription, nil
}

// CancelPrescription voids a prescription before any processing.
func (r *PharmacyRepository) CancelPrescription(ctx context.Context, id, actor string) (*models.Prescription, error) {
	var prescription *models.Prescription
	err := withLock(ctx, r.prescriptionLockKey(id), func() error {
		return database.DB.Transaction(func(tx *gorm.DB) error {
			var err error
			prescription, err = loadPrescription(tx, id)
			if err != nil {
				return err
			}
			if prescription.Status != models.PrescriptionCreated {
				return fmt.Errorf("%w: only a created prescription can be cancelled", ErrStateConflict)
			}

			prescription.Status = models.PrescriptionCancelled
			prescription.Touch(actor, false)
			if err := tx.Model(prescription).Updates(map[string]interface{}{
				"status":     models.PrescriptionCancelled,
				"updated_by": actor,
			}).Error; err != nil {
				return fmt.Errorf("failed to cancel prescription: %w", err)
			}

			// A standalone prescription bill is retired with it; a shared
			// episode bill just loses the prescription component.
			var bill models.Bill
			err = tx.Where("prescription_id = ? AND status = ?", id, models.BillTreatmentInProgress).
				First(&bill).Error
			if err == nil {
				if bill.AppointmentID == nil && bill.ReservationID == nil {
					if err := tx.Delete(&bill).Error; err != nil {
						return fmt.Errorf("failed to retire bill: %w", err)
					}
				} else {
					if err := tx.Model(&bill).Updates(map[string]interface{}{
						"prescription_id": gorm.Expr("NULL"),
						"updated_by":      actor,
					}).Error; err != nil {
						return fmt.Errorf("failed to detach prescription from bill: %w", err)
					}
				}
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("failed to find prescription bill: %w", err)
			}
			return r.invalidatePrescription(ctx, id)
		})
	})
	if err != nil {
		return nil, err
	}
	return prescription, nil
}

// PrescriptionBillID finds the open bill carrying the prescription, if any.
func (r *PharmacyRepository) PrescriptionBillID(ctx context.Context, prescriptionID string) (string, error) {
	var bill models.Bill
	err := database.DB.Select("id").
		Where("prescription_id = ? AND status <> ?", prescriptionID, models.BillPaid).
		First(&bill).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("failed to find prescription bill: %w", err)
	}
	return bill.ID, nil
}

func (r *PharmacyRepository) invalidateMedicine(ctx context.Context, id string) error {
	if err := r.cache.Delete(ctx, r.medicineCacheKey(id)); err != nil {
		return fmt.Errorf("failed to delete medicine cache: %w", err)
	}
	return r.cache.DeleteAll(ctx, "medicines_cache*")
}

func (r *PharmacyRepository) invalidatePrescription(ctx context.Context, id string) error {
	if err := r.cache.Delete(ctx, r.prescriptionCacheKey(id)); err != nil {
		return fmt.Errorf("failed to delete prescription cache: %w", err)
	}
	return r.cache.DeleteAll(ctx, "prescriptions_cache*")
}

func (r *PharmacyRepository) medicineCacheKey(id string) string {
	return fmt.Sprintf("medicine_cache:%s", id)
}

func (r *PharmacyRepository) prescriptionCacheKey(id string) string {
	return fmt.Sprintf("prescription_cache:%s", id)
}

func (r *PharmacyRepository) prescriptionLockKey(id string) string {
	return fmt.Sprintf("lock:prescription:%s", id)
}
