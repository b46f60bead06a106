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
	"gorm.io/gorm/clause"
)

const BillCacheExpiry = 30 * time.Minute

type BillRepository struct {
	cache *cache.Cache
}

func NewBillRepository(cache *cache.Cache) *BillRepository {
	return &BillRepository{cache: cache}
}

// BillSummary is the aggregate view over all bills.
type BillSummary struct {
	TotalBills        int64   `json:"total_bills"`
	InProgressCount   int64   `json:"in_progress_count"`
	UnpaidCount       int64   `json:"unpaid_count"`
	UnpaidAmountDue   float64 `json:"unpaid_amount_due"`
	PaidCount         int64   `json:"paid_count"`
	PaidAmountSettled float64 `json:"paid_amount_settled"`
}

// billPreloads loads a bill with everything the status engine and the coverage
// matcher need. Treatment and coverage lines are ordered by id so repeated
// matching runs are deterministic.
func billPreloads(db *gorm.DB) *gorm.DB {
	byID := func(db *gorm.DB) *gorm.DB { return db.Order("id") }
	return db.
		Preload("Patient.User").
		Preload("Appointment").
		Preload("Appointment.Treatments", byID).
		Preload("Appointment.Treatments.Treatment").
		Preload("Prescription").
		Preload("Prescription.Medicines.Medicine").
		Preload("Reservation.Room").
		Preload("Reservation.Facilities.Facility").
		Preload("Policy").
		Preload("Policy.Coverages", byID).
		Preload("Policy.Coverages.Coverage").
		Preload("CoveredTreatments")
}

// GetByID loads one bill with all relations, cache-aside.
func (r *BillRepository) GetByID(ctx context.Context, id string) (*models.Bill, error) {
	cacheKey := r.billCacheKey(id)
	if cached, err := r.cache.Get(ctx, cacheKey); err == nil && cached != "" {
		var bill models.Bill
		if err := json.Unmarshal([]byte(cached), &bill); err == nil {
			return &bill, nil
		}
	}

	bill, err := loadBill(database.DB, id)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(bill); err == nil {
		if err := r.cache.Set(ctx, cacheKey, payload, BillCacheExpiry); err != nil {
			log.Printf("Failed to set bill in cache: %v", err)
		}
	}
	return bill, nil
}

func loadBill(db *gorm.DB, id string) (*models.Bill, error) {
	var bill models.Bill
	err := billPreloads(db).First(&bill, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: bill %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to get bill: %w", err)
	}
	return &bill, nil
}

// GetAll lists all bills, newest first.
func (r *BillRepository) GetAll(ctx context.Context) ([]models.Bill, error) {
	var bills []models.Bill
	err := billPreloads(database.DB).Order("created_at DESC").Find(&bills).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get all bills: %w", err)
	}
	return bills, nil
}

// GetByPatient lists a patient's bills, newest first.
func (r *BillRepository) GetByPatient(ctx context.Context, patientID string) ([]models.Bill, error) {
	var bills []models.Bill
	err := billPreloads(database.DB).
		Where("patient_id = ?", patientID).
		Order("created_at DESC").
		Find(&bills).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get patient bills: %w", err)
	}
	return bills, nil
}

// Summary aggregates bill counts and the unpaid/paid money totals.
func (r *BillRepository) Summary(ctx context.Context) (*BillSummary, error) {
	var summary BillSummary
	db := database.DB.Model(&models.Bill{})

	if err := db.Session(&gorm.Session{}).Count(&summary.TotalBills).Error; err != nil {
		return nil, fmt.Errorf("failed to count bills: %w", err)
	}
	if err := db.Session(&gorm.Session{}).
		Where("status = ?", models.BillTreatmentInProgress).
		Count(&summary.InProgressCount).Error; err != nil {
		return nil, fmt.Errorf("failed to count in-progress bills: %w", err)
	}

	type bucket struct {
		Count int64
		Total float64
	}
	var unpaid, paid bucket
	if err := db.Session(&gorm.Session{}).
		Select("COUNT(*) AS count, COALESCE(SUM(total_amount_due), 0) AS total").
		Where("status = ?", models.BillUnpaid).
		Scan(&unpaid).Error; err != nil {
		return nil, fmt.Errorf("failed to total unpaid bills: %w", err)
	}
	if err := db.Session(&gorm.Session{}).
		Select("COUNT(*) AS count, COALESCE(SUM(total_amount_due), 0) AS total").
		Where("status = ?", models.BillPaid).
		Scan(&paid).Error; err != nil {
		return nil, fmt.Errorf("failed to total paid bills: %w", err)
	}

	summary.UnpaidCount = unpaid.Count
	summary.UnpaidAmountDue = unpaid.Total
	summary.PaidCount = paid.Count
	summary.PaidAmountSettled = paid.Total
	return &summary, nil
}

// AttachPolicy links an insurance policy to an unpaid bill and recomputes the
// amount due. The policy must belong to the bill's patient, still be active,
// and cover at least one of the appointment's treatments.
func (r *BillRepository) AttachPolicy(ctx context.Context, billID, policyID, actor string) (*models.Bill, error) {
	var result *models.Bill
	err := withLock(ctx, r.billLockKey(billID), func() error {
		return database.DB.Transaction(func(tx *gorm.DB) error {
			bill, err := loadBill(tx, billID)
			if err != nil {
				return err
			}
			if bill.Status != models.BillUnpaid {
				return fmt.Errorf("%w: policy can only be attached to an unpaid bill", ErrStateConflict)
			}
			if bill.Appointment == nil {
				return fmt.Errorf("%w: bill has no appointment to match coverage against", ErrValidation)
			}

			var policy models.Policy
			err = tx.Preload("Coverages", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
				Preload("Coverages.Coverage").
				First(&policy, "id = ?", policyID).Error
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: policy %s", ErrNotFound, policyID)
				}
				return fmt.Errorf("failed to get policy: %w", err)
			}
			if policy.PatientID != bill.PatientID {
				return fmt.Errorf("%w: policy does not belong to the bill's patient", ErrValidation)
			}
			if derived := policy.DeriveStatus(time.Now()); !derived.Active() {
				return fmt.Errorf("%w: policy is %s and cannot be attached", ErrStateConflict, strings.ToLower(derived.String()))
			}
			matches := models.MatchCoverage(bill.Appointment.Treatments, policy.Coverages)
			if len(matches) == 0 {
				return fmt.Errorf("%w: policy covers none of the appointment's treatments", ErrValidation)
			}

			bill.PolicyID = &policy.ID
			bill.Policy = &policy
			bill.ApplyPolicyCoverage()
			bill.Touch(actor, false)
			if err := tx.Model(bill).Updates(map[string]interface{}{
				"policy_id":        bill.PolicyID,
				"total_amount_due": bill.TotalAmountDue,
				"updated_by":       actor,
			}).Error; err != nil {
				return fmt.Errorf("failed to attach policy: %w", err)
			}
			result = bill
			return r.invalidate(ctx, billID)
		})
	})
	return result, err
}

// Pay settles an unpaid bill. In one transaction it consumes the matched
// coverage lines, writes the covered-treatment snapshots, rolls the consumed
// amount into the policy, and flips the bill to Paid. The row-level lock plus
// the status guard make concurrent payments single-winner.
func (r *BillRepository) Pay(ctx context.Context, billID, paymentMethod, actor string) (*models.Bill, error) {
	method := strings.ToUpper(strings.TrimSpace(paymentMethod))
	if err := utils.ValidatePaymentMethod(method); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	var result *models.Bill
	err := withLock(ctx, r.billLockKey(billID), func() error {
		return database.DB.Transaction(func(tx *gorm.DB) error {
			var locked models.Bill
			err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&locked, "id = ?", billID).Error
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: bill %s", ErrNotFound, billID)
				}
				return fmt.Errorf("failed to lock bill: %w", err)
			}
			if locked.Status != models.BillUnpaid {
				return fmt.Errorf("%w: only an unpaid bill can be paid", ErrStateConflict)
			}

			bill, err := loadBill(tx, billID)
			if err != nil {
				return err
			}

			discount := 0.0
			if bill.Policy != nil && bill.Appointment != nil {
				matches := models.MatchCoverage(bill.Appointment.Treatments, bill.Policy.Coverages)
				for _, m := range matches {
					res := tx.Model(&models.PolicyCoverage{}).
						Where("id = ? AND used = false", m.PolicyCoverageID).
						Update("used", true)
					if res.Error != nil {
						return fmt.Errorf("failed to consume policy coverage: %w", res.Error)
					}
					if res.RowsAffected == 0 {
						return fmt.Errorf("%w: policy coverage was consumed by another bill", ErrStateConflict)
					}
					snapshot := models.BillCoveredTreatment{
						ID:             uuid.New().String(),
						BillID:         bill.ID,
						TreatmentName:  m.TreatmentName,
						TreatmentPrice: m.TreatmentPrice,
						CoverageAmount: m.CoverageAmount,
					}
					if err := tx.Create(&snapshot).Error; err != nil {
						return fmt.Errorf("failed to write covered treatment snapshot: %w", err)
					}
					discount += m.CoverageAmount
				}

				if discount > 0 {
					bill.Policy.TotalCovered += discount
					newStatus := bill.Policy.DeriveStatus(time.Now())
					if err := tx.Model(bill.Policy).Updates(map[string]interface{}{
						"total_covered": bill.Policy.TotalCovered,
						"status":        newStatus,
						"updated_by":    actor,
					}).Error; err != nil {
						return fmt.Errorf("failed to update policy claim total: %w", err)
					}
				}
			}

			res := tx.Model(&models.Bill{}).
				Where("id = ? AND status = ?", billID, models.BillUnpaid).
				Updates(map[string]interface{}{
					"status":           models.BillPaid,
					"total_amount_due": bill.Subtotal - discount,
					"payment_method":   method,
					"updated_by":       actor,
				})
			if res.Error != nil {
				return fmt.Errorf("failed to settle bill: %w", res.Error)
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("%w: only an unpaid bill can be paid", ErrStateConflict)
			}

			if err := r.invalidate(ctx, billID); err != nil {
				return err
			}
			result, err = loadBill(tx, billID)
			return err
		})
	})
	return result, err
}

// Refresh re-runs the status engine for one bill: promotes it to Unpaid when
// every linked service record is done, re-pulls the component fees into an
// already unpaid bill, then reapplies any attached policy's coverage to the
// amount due. Safe to call repeatedly. Returns true when the bill changed.
func (r *BillRepository) Refresh(ctx context.Context, billID string) (bool, error) {
	changed := false
	err := withLock(ctx, r.billLockKey(billID), func() error {
		return database.DB.Transaction(func(tx *gorm.DB) error {
			bill, err := loadBill(tx, billID)
			if err != nil {
				return err
			}
			if bill.Status == models.BillPaid {
				return nil
			}

			before := bill.TotalAmountDue
			advanced := bill.UpdateStatus()
			bill.ApplyPolicyCoverage()
			if !advanced && bill.TotalAmountDue == before {
				return nil
			}

			if err := tx.Model(bill).Updates(map[string]interface{}{
				"status":                   bill.Status,
				"appointment_total_fee":    bill.AppointmentTotalFee,
				"prescription_total_price": bill.PrescriptionTotalPrice,
				"reservation_total_fee":    bill.ReservationTotalFee,
				"subtotal":                 bill.Subtotal,
				"total_amount_due":         bill.TotalAmountDue,
			}).Error; err != nil {
				return fmt.Errorf("failed to refresh bill: %w", err)
			}
			changed = true
			return r.invalidate(ctx, billID)
		})
	})
	return changed, err
}

// UpdateComponents is the reconcile sweep: every non-paid bill is refreshed in
// its own transaction so one failure cannot poison the rest. Returns how many
// bills changed.
func (r *BillRepository) UpdateComponents(ctx context.Context) (int, error) {
	var ids []string
	err := database.DB.Model(&models.Bill{}).
		Where("status <> ?", models.BillPaid).
		Order("created_at").
		Pluck("id", &ids).Error
	if err != nil {
		return 0, fmt.Errorf("failed to list open bills: %w", err)
	}

	updated := 0
	for _, id := range ids {
		changed, err := r.Refresh(ctx, id)
		if err != nil {
			log.Printf("Failed to refresh bill %s: %v", id, err)
			continue
		}
		if changed {
			updated++
		}
	}
	return updated, nil
}

// createBillTx opens the bill for a new care episode inside the caller's
// transaction. Used by the appointment and reservation flows.
func createBillTx(tx *gorm.DB, patientID string, appointmentID, prescriptionID, reservationID *string, actor string) (*models.Bill, error) {
	bill := models.Bill{
		ID:             uuid.New().String(),
		PatientID:      patientID,
		AppointmentID:  appointmentID,
		PrescriptionID: prescriptionID,
		ReservationID:  reservationID,
		Status:         models.BillTreatmentInProgress,
	}
	bill.Touch(actor, true)
	if err := tx.Create(&bill).Error; err != nil {
		return nil, fmt.Errorf("failed to create bill: %w", err)
	}
	return &bill, nil
}

// attachPrescriptionTx links a new prescription to the open bill of its
// appointment, or opens a fresh bill when the prescription stands alone. An
// appointment bill that already reached Unpaid drops back to
// TreatmentInProgress until the prescription is processed.
func attachPrescriptionTx(tx *gorm.DB, patientID string, appointmentID *string, prescriptionID, actor string) error {
	if appointmentID != nil {
		var bill models.Bill
		err := tx.Where("appointment_id = ? AND status <> ?", *appointmentID, models.BillPaid).
			First(&bill).Error
		if err == nil {
			if bill.PrescriptionID != nil {
				return fmt.Errorf("%w: the appointment's bill already has a prescription", ErrStateConflict)
			}
			bill.AttachPrescription(prescriptionID)
			return tx.Model(&bill).Updates(map[string]interface{}{
				"prescription_id": prescriptionID,
				"status":          bill.Status,
				"updated_by":      actor,
			}).Error
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to find appointment bill: %w", err)
		}
	}
	_, err := createBillTx(tx, patientID, appointmentID, &prescriptionID, nil, actor)
	return err
}

func (r *BillRepository) invalidate(ctx context.Context, id string) error {
	if err := r.cache.Delete(ctx, r.billCacheKey(id)); err != nil {
		return fmt.Errorf("failed to delete bill cache: %w", err)
	}
	return r.cache.DeleteAll(ctx, "bills_cache*")
}

func (r *BillRepository) billCacheKey(id string) string {
	return fmt.Sprintf("bill_cache:%s", id)
}

func (r *BillRepository) billLockKey(id string) string {
	return fmt.Sprintf("lock:bill:%s", id)
}
