package utils

import (
	"testing"
	"time"
)

func TestMondayWeekday(t *testing.T) {
	tests := []struct {
		name string
		date time.Time
		want int
	}{
		{"monday", time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), 0},
		{"wednesday", time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC), 2},
		{"sunday", time.Date(2025, 3, 16, 0, 0, 0, 0, time.UTC), 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MondayWeekday(tt.date); got != tt.want {
				t.Errorf("MondayWeekday(%s) = %d, want %d", tt.name, got, tt.want)
			}
		})
	}
}

func TestDayCode(t *testing.T) {
	saturday := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	if got := DayCode(saturday); got != "SAT" {
		t.Errorf("DayCode(saturday) = %s, want SAT", got)
	}
}

func TestAppointmentCode(t *testing.T) {
	date := time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)
	if got := AppointmentCode("RAD", date, 1); got != "RAD1503001" {
		t.Errorf("AppointmentCode = %s, want RAD1503001", got)
	}
}

func TestDoctorCode(t *testing.T) {
	if got := DoctorCode("JPD", 12); got != "JPD012" {
		t.Errorf("DoctorCode = %s, want JPD012", got)
	}
}

func TestMedicineCode(t *testing.T) {
	if got := MedicineCode(7); got != "MED0007" {
		t.Errorf("MedicineCode = %s, want MED0007", got)
	}
}

func TestRoomCode(t *testing.T) {
	if got := RoomCode(23); got != "RM0023" {
		t.Errorf("RoomCode = %s, want RM0023", got)
	}
}

func TestPrescriptionCode(t *testing.T) {
	at := time.Date(2025, 3, 10, 14, 30, 45, 0, time.UTC)
	if got := PrescriptionCode(2, at); got != "RES02MON143045" {
		t.Errorf("PrescriptionCode = %s, want RES02MON143045", got)
	}

	// Three-digit counts keep only the last two digits.
	if got := PrescriptionCode(123, at); got != "RES23MON143045" {
		t.Errorf("PrescriptionCode = %s, want RES23MON143045", got)
	}
}

func TestReservationCode(t *testing.T) {
	dateIn := time.Date(2025, 3, 12, 9, 0, 0, 0, time.UTC)
	if got := ReservationCode(3, dateIn, "3171234567890001", 42); got != "RES03WED00010042" {
		t.Errorf("ReservationCode = %s, want RES03WED00010042", got)
	}
}

func TestPolicyCode(t *testing.T) {
	tests := []struct {
		name        string
		patientName string
		companyName string
		sequence    int64
		want        string
	}{
		{"two-word name", "John Doe", "Acme Insurance", 1, "POLJDACM0001"},
		{"three-word name uses first and last", "Siti Nur Aisyah", "Prudent Care", 7, "POLSAPRU0007"},
		{"single-word name", "Cher", "AXA", 12, "POLCHAXA0012"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PolicyCode(tt.patientName, tt.companyName, tt.sequence); got != tt.want {
				t.Errorf("PolicyCode = %s, want %s", got, tt.want)
			}
		})
	}
}
