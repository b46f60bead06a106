package models

import (
	"testing"
	"time"
)

func TestTreatmentTotal(t *testing.T) {
	appointment := Appointment{
		Treatments: []AppointmentTreatment{
			{Treatment: Treatment{Name: "X-ray", Price: 150_000}},
			{Treatment: Treatment{Name: "CT Scan", Price: 1_000_000}},
		},
	}
	if got := appointment.TreatmentTotal(); got != 1_150_000 {
		t.Errorf("expected 1150000, got %.0f", got)
	}
}

func TestReschedulable(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		date time.Time
		want bool
	}{
		{"two days out", now.AddDate(0, 0, 2), true},
		{"exactly 24h out", now.Add(24 * time.Hour), false},
		{"later today", now.Add(3 * time.Hour), false},
		{"in the past", now.Add(-2 * time.Hour), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Appointment{Date: tt.date}
			if got := a.Reschedulable(now); got != tt.want {
				t.Errorf("Reschedulable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDoctorPracticesOn(t *testing.T) {
	doctor := Doctor{Schedules: []int{0, 2, 4}}
	if !doctor.PracticesOn(2) {
		t.Error("expected the doctor to practice on Wednesday")
	}
	if doctor.PracticesOn(6) {
		t.Error("expected the doctor not to practice on Sunday")
	}
}

func TestSpecializationCodes(t *testing.T) {
	// Every enum value maps to a distinct three-letter code.
	seen := make(map[string]Specialization)
	for s := GeneralPractitioner; s <= Urology; s++ {
		code := s.Code()
		if len(code) != 3 {
			t.Errorf("%s has a code of length %d", s, len(code))
		}
		if prev, dup := seen[code]; dup {
			t.Errorf("code %s shared by %s and %s", code, prev, s)
		}
		seen[code] = s
	}
}
