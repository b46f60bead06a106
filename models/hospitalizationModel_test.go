package models

import (
	"testing"
	"time"
)

func TestStayDays(t *testing.T) {
	dateIn := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	tests := []struct {
		name    string
		dateOut time.Time
		want    int
	}{
		{"same day discharge", dateIn.Add(6 * time.Hour), 1},
		{"overnight", dateIn.AddDate(0, 0, 1), 2},
		{"three nights", dateIn.AddDate(0, 0, 3), 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Reservation{DateIn: dateIn, DateOut: tt.dateOut}
			if got := r.StayDays(); got != tt.want {
				t.Errorf("StayDays() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCalculateTotalFee(t *testing.T) {
	dateIn := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	reservation := Reservation{
		DateIn:  dateIn,
		DateOut: dateIn.AddDate(0, 0, 2),
		Room:    Room{PricePerDay: 500_000},
		Facilities: []ReservationFacility{
			{Facility: Facility{Name: "Oxygen Supply", Fee: 200_000}},
			{Facility: Facility{Name: "Private TV", Fee: 50_000}},
		},
	}
	// 3 billed days at 500k plus 250k in facilities.
	if got := reservation.CalculateTotalFee(); got != 1_750_000 {
		t.Errorf("expected 1750000, got %.0f", got)
	}
}
