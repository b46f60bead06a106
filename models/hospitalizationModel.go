package models

import (
	"time"
)

// Room model. The id is a generated code: RM + sequence(4).
type Room struct {
	ID          string  `gorm:"primaryKey;column:id;size:10" json:"id"`
	Name        string  `gorm:"column:name;size:255;not null" json:"name"`
	Description string  `gorm:"column:description;type:text" json:"description"`
	MaxCapacity int     `gorm:"column:max_capacity;not null" json:"max_capacity"`
	PricePerDay float64 `gorm:"column:price_per_day;not null" json:"price_per_day"`
	UserAction
}

func (Room) TableName() string {
	return "room"
}

// Facility is an add-on service billed per reservation.
type Facility struct {
	ID   string  `gorm:"primaryKey;column:id;size:36" json:"id"`
	Name string  `gorm:"column:name;size:255;not null" json:"name"`
	Fee  float64 `gorm:"column:fee;not null" json:"fee"`
	UserAction
}

func (Facility) TableName() string {
	return "facility"
}

// Reservation model. The id is a generated code:
// RES + stay_length(2) + day(3) + nik_last4 + sequence(4).
type Reservation struct {
	ID            string                `gorm:"primaryKey;column:id;size:16" json:"id"`
	PatientID     string                `gorm:"column:patient_id;size:36;not null;index" json:"patient_id"`
	Patient       Patient               `gorm:"foreignKey:PatientID;references:UserID" json:"patient"`
	RoomID        string                `gorm:"column:room_id;size:10;not null;index" json:"room_id"`
	Room          Room                  `gorm:"foreignKey:RoomID;references:ID" json:"room"`
	AppointmentID *string               `gorm:"column:appointment_id;size:10;index" json:"appointment_id"`
	NurseID       *string               `gorm:"column:assigned_nurse_id;size:36" json:"assigned_nurse_id"`
	DateIn        time.Time             `gorm:"column:date_in;not null" json:"date_in"`
	DateOut       time.Time             `gorm:"column:date_out;not null" json:"date_out"`
	TotalFee      float64               `gorm:"column:total_fee;default:0" json:"total_fee"`
	Facilities    []ReservationFacility `gorm:"foreignKey:ReservationID;references:ID" json:"facilities"`
	UserAction
}

func (Reservation) TableName() string {
	return "reservation"
}

// ReservationFacility joins a reservation to a facility.
type ReservationFacility struct {
	ID            string   `gorm:"primaryKey;column:id;size:36" json:"id"`
	ReservationID string   `gorm:"column:reservation_id;size:16;not null;index;uniqueIndex:idx_reservation_facility" json:"reservation_id"`
	FacilityID    string   `gorm:"column:facility_id;size:36;not null;uniqueIndex:idx_reservation_facility" json:"facility_id"`
	Facility      Facility `gorm:"foreignKey:FacilityID;references:ID" json:"facility"`
}

func (ReservationFacility) TableName() string {
	return "reservation_facility"
}

// StayDays counts the inclusive number of billed days.
func (r *Reservation) StayDays() int {
	return int(r.DateOut.Sub(r.DateIn).Hours()/24) + 1
}

// CalculateTotalFee prices the stay: room days times price per day plus the
// fees of all linked facilities. Requires Room and Facilities to be loaded.
func (r *Reservation) CalculateTotalFee() float64 {
	total := r.Room.PricePerDay * float64(r.StayDays())
	for i := range r.Facilities {
		total += r.Facilities[i].Facility.Fee
	}
	return total
}
