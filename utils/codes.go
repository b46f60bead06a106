package utils

import (
	"fmt"
	"strings"
	"time"
)

var dayCodes = [7]string{"MON", "TUE", "WED", "THU", "FRI", "SAT", "SUN"}

// MondayWeekday converts a time.Weekday (Sunday=0) to the Monday=0 indexing
// used by doctor schedules and code generation.
func MondayWeekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// DayCode returns the 3-letter day code (MON..SUN) for a date.
func DayCode(t time.Time) string {
	return dayCodes[MondayWeekday(t)]
}

// AppointmentCode builds an appointment id:
// specialty(3) + DDMM + per-doctor daily sequence(3), e.g. RAD1503001.
func AppointmentCode(specialtyCode string, date time.Time, sequence int64) string {
	return fmt.Sprintf("%s%s%03d", specialtyCode, date.Format("0201"), sequence)
}

// DoctorCode builds a doctor id: specialty(3) + sequence(3).
func DoctorCode(specialtyCode string, sequence int64) string {
	return fmt.Sprintf("%s%03d", specialtyCode, sequence)
}

// MedicineCode builds a medicine id: MED + sequence(4).
func MedicineCode(sequence int64) string {
	return fmt.Sprintf("MED%04d", sequence)
}

// RoomCode builds a room id: RM + sequence(4).
func RoomCode(sequence int64) string {
	return fmt.Sprintf("RM%04d", sequence)
}

// PrescriptionCode builds a prescription id:
// RES + medicine_count(2, last digits) + day(3) + hhmmss.
func PrescriptionCode(medicineCount int, at time.Time) string {
	count := fmt.Sprintf("%02d", medicineCount)
	if len(count) > 2 {
		count = count[len(count)-2:]
	}
	return fmt.Sprintf("RES%s%s%s", count, DayCode(at), at.Format("150405"))
}

// ReservationCode builds a reservation id:
// RES + stay_length(2, last digits) + day(3) + nik_last4 + sequence(4).
func ReservationCode(stayDays int, dateIn time.Time, nik string, sequence int64) string {
	stay := fmt.Sprintf("%02d", stayDays)
	if len(stay) > 2 {
		stay = stay[len(stay)-2:]
	}
	nikLast4 := nik
	if len(nikLast4) > 4 {
		nikLast4 = nikLast4[len(nikLast4)-4:]
	}
	return fmt.Sprintf("RES%s%s%s%04d", stay, DayCode(dateIn), nikLast4, sequence)
}

// PolicyCode builds a policy id:
// POL + patient_initials(2) + company_initials(3) + sequence(4).
// Initials come from the first and last words of the patient name, or the
// first two letters of a single-word name.
func PolicyCode(patientName, companyName string, sequence int64) string {
	return fmt.Sprintf("POL%s%s%04d", patientInitials(patientName), companyInitials(companyName), sequence)
}

func patientInitials(name string) string {
	parts := strings.Fields(strings.TrimSpace(name))
	if len(parts) == 0 {
		return "XX"
	}
	if len(parts) >= 2 {
		return strings.ToUpper(firstLetter(parts[0]) + firstLetter(parts[len(parts)-1]))
	}
	word := parts[0]
	if len(word) >= 2 {
		return strings.ToUpper(word[:2])
	}
	return strings.ToUpper(word + "X")
}

func companyInitials(name string) string {
	trimmed := strings.TrimSpace(name)
	if len(trimmed) >= 3 {
		return strings.ToUpper(trimmed[:3])
	}
	return strings.ToUpper(trimmed + strings.Repeat("X", 3-len(trimmed)))
}

func firstLetter(word string) string {
	if word == "" {
		return "X"
	}
	return word[:1]
}
