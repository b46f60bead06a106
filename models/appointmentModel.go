package models

import (
	"time"
)

// AppointmentStatus is the lifecycle state of an appointment.
type AppointmentStatus int

const (
	AppointmentCreated AppointmentStatus = iota
	AppointmentDone
	AppointmentCancelled
)

func (s AppointmentStatus) String() string {
	switch s {
	case AppointmentCreated:
		return "Created"
	case AppointmentDone:
		return "Done"
	case AppointmentCancelled:
		return "Cancelled"
	}
	return "Unknown"
}

// Appointment model. The id is a generated code: specialty(3) + DDMM + a
// per-doctor daily sequence, e.g. RAD1503001.
type Appointment struct {
	ID         string                 `gorm:"primaryKey;column:id;size:10" json:"id"`
	DoctorID   string                 `gorm:"column:doctor_id;size:6;not null;index;uniqueIndex:idx_doctor_date" json:"doctor_id"`
	Doctor     Doctor                 `gorm:"foreignKey:DoctorID;references:ID" json:"doctor"`
	PatientID  string                 `gorm:"column:patient_id;size:36;not null;index" json:"patient_id"`
	Patient    Patient                `gorm:"foreignKey:PatientID;references:UserID" json:"patient"`
	Date       time.Time              `gorm:"column:date;not null;uniqueIndex:idx_doctor_date" json:"date"`
	Diagnosis  string                 `gorm:"column:diagnosis;type:text" json:"diagnosis"`
	Status     AppointmentStatus      `gorm:"column:status;default:0" json:"status"`
	TotalFee   float64                `gorm:"column:total_fee;default:0" json:"total_fee"`
	Treatments []AppointmentTreatment `gorm:"foreignKey:AppointmentID;references:ID" json:"treatments"`
	UserAction
}

func (Appointment) TableName() string {
	return "appointment"
}

// AppointmentTreatment joins one appointment to one catalog treatment.
type AppointmentTreatment struct {
	ID            string    `gorm:"primaryKey;column:id;size:36" json:"id"`
	AppointmentID string    `gorm:"column:appointment_id;size:10;not null;index;uniqueIndex:idx_appointment_treatment" json:"appointment_id"`
	TreatmentID   int       `gorm:"column:treatment_id;not null;uniqueIndex:idx_appointment_treatment" json:"treatment_id"`
	Treatment     Treatment `gorm:"foreignKey:TreatmentID;references:ID" json:"treatment"`
}

func (AppointmentTreatment) TableName() string {
	return "appointment_treatment"
}

// TreatmentTotal sums the linked treatment prices.
func (a *Appointment) TreatmentTotal() float64 {
	total := 0.0
	for i := range a.Treatments {
		total += a.Treatments[i].Treatment.Price
	}
	return total
}

// Reschedulable reports whether the appointment date/doctor may still change:
// not allowed within one day of the appointment.
func (a *Appointment) Reschedulable(now time.Time) bool {
	return a.Date.After(now.Add(24 * time.Hour))
}
