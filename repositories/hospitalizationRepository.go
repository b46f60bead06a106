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
	RoomCacheExpiry        = 12 * time.Hour
	ReservationCacheExpiry = 30 * time.Minute
)

type HospitalizationRepository struct {
	cache    *cache.Cache
	patients *PatientRepository
}

func NewHospitalizationRepository(cache *cache.Cache, patients *PatientRepository) *HospitalizationRepository {
	return &HospitalizationRepository{cache: cache, patients: patients}
}

// CreateRoom registers a room with a generated RM code.
func (r *HospitalizationRepository) CreateRoom(ctx context.Context, room *models.Room, actor string) error {
	if room.Name == "" {
		return fmt.Errorf("%w: room name must not be empty", ErrValidation)
	}
	if room.MaxCapacity <= 0 {
		return fmt.Errorf("%w: room capacity must be positive", ErrValidation)
	}
	if room.PricePerDay <= 0 {
		return fmt.Errorf("%w: room price per day must be positive", ErrValidation)
	}
	return database.DB.Transaction(func(tx *gorm.DB) error {
		seq, err := database.NextSequence(tx, database.SeqRoom)
		if err != nil {
			return err
		}
		room.ID = utils.RoomCode(seq)
		room.Touch(actor, true)
		if err := tx.Create(room).Error; err != nil {
			return fmt.Errorf("failed to create room: %w", err)
		}
		return r.invalidateRoom(ctx, room.ID)
	})
}

// GetRoomByID loads a room, cache-aside.
func (r *HospitalizationRepository) GetRoomByID(ctx context.Context, id string) (*models.Room, error) {
	cacheKey := r.roomCacheKey(id)
	if cached, err := r.cache.Get(ctx, cacheKey); err == nil && cached != "" {
		var room models.Room
		if err := json.Unmarshal([]byte(cached), &room); err == nil {
			return &room, nil
		}
	}

	var room models.Room
	err := database.DB.First(&room, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: room %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to get room: %w", err)
	}

	if payload, err := json.Marshal(room); err == nil {
		if err := r.cache.Set(ctx, cacheKey, payload, RoomCacheExpiry); err != nil {
			log.Printf("Failed to set room in cache: %v", err)
		}
	}
	return &room, nil
}

// GetAllRooms lists all rooms.
func (r *HospitalizationRepository) GetAllRooms(ctx context.Context) ([]models.Room, error) {
	var rooms []models.Room
	err := database.DB.Order("id").Find(&rooms).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get all rooms: %w", err)
	}
	return rooms, nil
}

// CreateFacility registers an add-on facility.
func (r *HospitalizationRepository) CreateFacility(ctx context.Context, facility *models.Facility, actor string) error {
	if facility.Name == "" {
		return fmt.Errorf("%w: facility name must not be empty", ErrValidation)
	}
	if facility.Fee < 0 {
		return fmt.Errorf("%w: facility fee must not be negative", ErrValidation)
	}
	facility.ID = uuid.New().String()
	facility.Touch(actor, true)
	if err := database.DB.Create(facility).Error; err != nil {
		return fmt.Errorf("failed to create facility: %w", err)
	}
	return nil
}

// GetAllFacilities lists all facilities.
func (r *HospitalizationRepository) GetAllFacilities(ctx context.Context) ([]models.Facility, error) {
	var facilities []models.Facility
	err := database.DB.Order("name").Find(&facilities).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get all facilities: %w", err)
	}
	return facilities, nil
}

// CreateReservationInput carries an admission request.
type CreateReservationInput struct {
	RoomID        string
	AppointmentID string
	PatientNIK    string
	NewPatient    utils.NewPatientData
	NurseID       string
	DateIn        time.Time
	DateOut       time.Time
	FacilityIDs   []string
}

// CreateReservation admits a patient to a room: checks the room's capacity
// over the overlapping date range, prices the stay, and joins the episode's
// bill (or opens one when the reservation stands alone).
func (r *HospitalizationRepository) CreateReservation(ctx context.Context, input CreateReservationInput, actor string) (*models.Reservation, error) {
	if !input.DateOut.After(input.DateIn) {
		return nil, fmt.Errorf("%w: date_out must be after date_in", ErrValidation)
	}

	var reservation models.Reservation
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var room models.Room
		if err := tx.First(&room, "id = ?", input.RoomID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: room %s", ErrNotFound, input.RoomID)
			}
			return fmt.Errorf("failed to get room: %w", err)
		}

		occupied, err := countOverlapping(tx, room.ID, "", input.DateIn, input.DateOut)
		if err != nil {
			return err
		}
		if occupied >= int64(room.MaxCapacity) {
			return fmt.Errorf("%w: room %s is fully occupied for the requested dates", ErrStateConflict, room.ID)
		}

		var patientID, patientNIK string
		var appointmentID *string
		if input.AppointmentID != "" {
			var appointment models.Appointment
			err := tx.Preload("Patient").First(&appointment, "id = ?", input.AppointmentID).Error
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: appointment %s", ErrNotFound, input.AppointmentID)
				}
				return fmt.Errorf("failed to get appointment: %w", err)
			}
			if appointment.Status == models.AppointmentCancelled {
				return fmt.Errorf("%w: cannot admit against a cancelled appointment", ErrStateConflict)
			}
			patientID = appointment.PatientID
			patientNIK = appointment.Patient.NIK
			appointmentID = &appointment.ID
		} else {
			patient, err := r.patients.GetOrCreateForIntake(tx, input.PatientNIK, input.NewPatient, actor)
			if err != nil {
				return err
			}
			patientID = patient.UserID
			patientNIK = patient.NIK
		}

		var nurseID *string
		if input.NurseID != "" {
			var nurse models.Nurse
			if err := tx.First(&nurse, "user_id = ?", input.NurseID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: nurse %s", ErrNotFound, input.NurseID)
				}
				return fmt.Errorf("failed to get nurse: %w", err)
			}
			nurseID = &nurse.UserID
		}

		seq, err := database.NextSequence(tx, database.SeqReservation)
		if err != nil {
			return err
		}

		reservation = models.Reservation{
			PatientID:     patientID,
			RoomID:        room.ID,
			Room:          room,
			AppointmentID: appointmentID,
			NurseID:       nurseID,
			DateIn:        input.DateIn,
			DateOut:       input.DateOut,
		}
		reservation.ID = utils.ReservationCode(reservation.StayDays(), input.DateIn, patientNIK, seq)

		for _, facilityID := range input.FacilityIDs {
			var facility models.Facility
			if err := tx.First(&facility, "id = ?", facilityID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: facility %s", ErrNotFound, facilityID)
				}
				return fmt.Errorf("failed to get facility: %w", err)
			}
			reservation.Facilities = append(reservation.Facilities, models.ReservationFacility{
				ID:            uuid.New().String(),
				ReservationID: reservation.ID,
				FacilityID:    facility.ID,
				Facility:      facility,
			})
		}

		reservation.TotalFee = reservation.CalculateTotalFee()
		reservation.Touch(actor, true)
		if err := tx.Omit("Room", "Facilities").Create(&reservation).Error; err != nil {
			return fmt.Errorf("failed to create reservation: %w", err)
		}
		for i := range reservation.Facilities {
			if err := tx.Omit("Facility").Create(&reservation.Facilities[i]).Error; err != nil {
				return fmt.Errorf("failed to link facility: %w", err)
			}
		}

		if err := attachReservationTx(tx, patientID, appointmentID, reservation.ID, actor); err != nil {
			return err
		}
		return r.invalidateReservation(ctx, reservation.ID)
	})
	if err != nil {
		return nil, err
	}
	return &reservation, nil
}

// countOverlapping counts reservations holding the room over any part of the
// given range. excludeID skips the reservation being updated.
func countOverlapping(tx *gorm.DB, roomID, excludeID string, dateIn, dateOut time.Time) (int64, error) {
	query := tx.Model(&models.Reservation{}).
		Where("room_id = ? AND date_in <= ? AND date_out >= ?", roomID, dateOut, dateIn)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to check room occupancy: %w", err)
	}
	return count, nil
}

// attachReservationTx links a new reservation to the open bill of its
// appointment, or opens a standalone bill.
func attachReservationTx(tx *gorm.DB, patientID string, appointmentID *string, reservationID, actor string) error {
	if appointmentID != nil {
		var bill models.Bill
		err := tx.Where("appointment_id = ? AND status <> ?", *appointmentID, models.BillPaid).
			First(&bill).Error
		if err == nil {
			if bill.ReservationID != nil {
				return fmt.Errorf("%w: the appointment's bill already has a reservation", ErrStateConflict)
			}
			return tx.Model(&bill).Updates(map[string]interface{}{
				"reservation_id": reservationID,
				"updated_by":     actor,
			}).Error
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to find appointment bill: %w", err)
		}
	}
	_, err := createBillTx(tx, patientID, appointmentID, nil, &reservationID, actor)
	return err
}

// GetReservationByID loads a reservation with its room and facilities,
// cache-aside.
func (r *HospitalizationRepository) GetReservationByID(ctx context.Context, id string) (*models.Reservation, error) {
	cacheKey := r.reservationCacheKey(id)
	if cached, err := r.cache.Get(ctx, cacheKey); err == nil && cached != "" {
		var reservation models.Reservation
		if err := json.Unmarshal([]byte(cached), &reservation); err == nil {
			return &reservation, nil
		}
	}

	reservation, err := loadReservation(database.DB, id)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(reservation); err == nil {
		if err := r.cache.Set(ctx, cacheKey, payload, ReservationCacheExpiry); err != nil {
			log.Printf("Failed to set reservation in cache: %v", err)
		}
	}
	return reservation, nil
}

func loadReservation(db *gorm.DB, id string) (*models.Reservation, error) {
	var reservation models.Reservation
	err := db.
		Preload("Patient.User").
		Preload("Room").
		Preload("Facilities", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Facilities.Facility").
		First(&reservation, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: reservation %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to get reservation: %w", err)
	}
	return &reservation, nil
}

// GetAllReservations lists all reservations, most recent admission first.
func (r *HospitalizationRepository) GetAllReservations(ctx context.Context) ([]models.Reservation, error) {
	var reservations []models.Reservation
	err := database.DB.
		Preload("Patient.User").
		Preload("Room").
		Preload("Facilities.Facility").
		Order("date_in DESC").
		Find(&reservations).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get all reservations: %w", err)
	}
	return reservations, nil
}

// UpdateReservationInput carries the changeable parts of a reservation. Nil
// slices and zero values leave the current value in place.
type UpdateReservationInput struct {
	RoomID      string
	DateIn      time.Time
	DateOut     time.Time
	NurseID     string
	FacilityIDs []string
}

// UpdateReservation moves the stay to another room, changes the dates or
// facilities, and reprices. Blocked once the episode's bill has been paid.
func (r *HospitalizationRepository) UpdateReservation(ctx context.Context, id string, input UpdateReservationInput, actor string) (*models.Reservation, error) {
	var reservation *models.Reservation
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		reservation, err = loadReservation(tx, id)
		if err != nil {
			return err
		}

		var paid int64
		err = tx.Model(&models.Bill{}).
			Where("reservation_id = ? AND status = ?", id, models.BillPaid).
			Count(&paid).Error
		if err != nil {
			return fmt.Errorf("failed to check reservation bill: %w", err)
		}
		if paid > 0 {
			return fmt.Errorf("%w: the reservation's bill has already been paid", ErrStateConflict)
		}

		if input.RoomID != "" && input.RoomID != reservation.RoomID {
			var room models.Room
			if err := tx.First(&room, "id = ?", input.RoomID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: room %s", ErrNotFound, input.RoomID)
				}
				return fmt.Errorf("failed to get room: %w", err)
			}
			reservation.RoomID = room.ID
			reservation.Room = room
		}
		if !input.DateIn.IsZero() {
			reservation.DateIn = input.DateIn
		}
		if !input.DateOut.IsZero() {
			reservation.DateOut = input.DateOut
		}
		if !reservation.DateOut.After(reservation.DateIn) {
			return fmt.Errorf("%w: date_out must be after date_in", ErrValidation)
		}

		occupied, err := countOverlapping(tx, reservation.RoomID, id, reservation.DateIn, reservation.DateOut)
		if err != nil {
			return err
		}
		if occupied >= int64(reservation.Room.MaxCapacity) {
			return fmt.Errorf("%w: room %s is fully occupied for the requested dates", ErrStateConflict, reservation.RoomID)
		}

		if input.NurseID != "" {
			var nurse models.Nurse
			if err := tx.First(&nurse, "user_id = ?", input.NurseID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: nurse %s", ErrNotFound, input.NurseID)
				}
				return fmt.Errorf("failed to get nurse: %w", err)
			}
			reservation.NurseID = &nurse.UserID
		}

		if input.FacilityIDs != nil {
			if err := tx.Where("reservation_id = ?", id).Delete(&models.ReservationFacility{}).Error; err != nil {
				return fmt.Errorf("failed to clear facility links: %w", err)
			}
			reservation.Facilities = reservation.Facilities[:0]
			for _, facilityID := range input.FacilityIDs {
				var facility models.Facility
				if err := tx.First(&facility, "id = ?", facilityID).Error; err != nil {
					if errors.Is(err, gorm.ErrRecordNotFound) {
						return fmt.Errorf("%w: facility %s", ErrNotFound, facilityID)
					}
					return fmt.Errorf("failed to get facility: %w", err)
				}
				link := models.ReservationFacility{
					ID:            uuid.New().String(),
					ReservationID: id,
					FacilityID:    facility.ID,
					Facility:      facility,
				}
				if err := tx.Omit("Facility").Create(&link).Error; err != nil {
					return fmt.Errorf("failed to link facility: %w", err)
				}
				reservation.Facilities = append(reservation.Facilities, link)
			}
		}

		reservation.TotalFee = reservation.CalculateTotalFee()
		reservation.Touch(actor, false)
		if err := tx.Model(reservation).Updates(map[string]interface{}{
			"room_id":           reservation.RoomID,
			"date_in":           reservation.DateIn,
			"date_out":          reservation.DateOut,
			"assigned_nurse_id": reservation.NurseID,
			"total_fee":         reservation.TotalFee,
			"updated_by":        actor,
		}).Error; err != nil {
			return fmt.Errorf("failed to update reservation: %w", err)
		}
		return r.invalidateReservation(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	return reservation, nil
}

// ReservationBillID finds the open bill carrying the reservation, if any.
func (r *HospitalizationRepository) ReservationBillID(ctx context.Context, reservationID string) (string, error) {
	var bill models.Bill
	err := database.DB.Select("id").
		Where("reservation_id = ? AND status <> ?", reservationID, models.BillPaid).
		First(&bill).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("failed to find reservation bill: %w", err)
	}
	return bill.ID, nil
}

func (r *HospitalizationRepository) invalidateRoom(ctx context.Context, id string) error {
	if err := r.cache.Delete(ctx, r.roomCacheKey(id)); err != nil {
		return fmt.Errorf("failed to delete room cache: %w", err)
	}
	return r.cache.DeleteAll(ctx, "rooms_cache*")
}

func (r *HospitalizationRepository) invalidateReservation(ctx context.Context, id string) error {
	if err := r.cache.Delete(ctx, r.reservationCacheKey(id)); err != nil {
		return fmt.Errorf("failed to delete reservation cache: %w", err)
	}
	return r.cache.DeleteAll(ctx, "reservations_cache*")
}

func (r *HospitalizationRepository) roomCacheKey(id string) string {
	return fmt.Sprintf("room_cache:%s", id)
}

func (r *HospitalizationRepository) reservationCacheKey(id string) string {
	return fmt.Sprintf("reservation_cache:%s", id)
}
