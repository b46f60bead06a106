package utils

import (
	"testing"
)

func TestValidateNIK(t *testing.T) {
	tests := []struct {
		name    string
		nik     string
		wantErr bool
	}{
		{"valid 16 digits", "3171234567890001", false},
		{"too short", "317123456789", true},
		{"too long", "31712345678900011", true},
		{"non-numeric", "31712345678900ab", true},
		{"empty", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNIK(tt.nik)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateNIK(%q) error = %v, wantErr %v", tt.nik, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePaymentMethod(t *testing.T) {
	for _, method := range PaymentMethods {
		if err := ValidatePaymentMethod(method); err != nil {
			t.Errorf("ValidatePaymentMethod(%q) unexpectedly failed: %v", method, err)
		}
	}
	if err := ValidatePaymentMethod("CRYPTO"); err == nil {
		t.Error("expected CRYPTO to be rejected")
	}
}

func TestNewPatientDataValidate(t *testing.T) {
	valid := NewPatientData{
		Name:       "John Doe",
		NIK:        "3171234567890001",
		Email:      "john@example.com",
		BirthPlace: "Jakarta",
		BirthDate:  "1990-05-20",
		Class:      2,
	}

	t.Run("complete data passes", func(t *testing.T) {
		if err := valid.Validate(); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("bad nik fails", func(t *testing.T) {
		d := valid
		d.NIK = "123"
		if err := d.Validate(); err == nil {
			t.Error("expected validation error for short NIK")
		}
	})

	t.Run("bad date format fails", func(t *testing.T) {
		d := valid
		d.BirthDate = "20-05-1990"
		if err := d.Validate(); err == nil {
			t.Error("expected validation error for date format")
		}
	})

	t.Run("provided detects inline data", func(t *testing.T) {
		if (NewPatientData{}).Provided() {
			t.Error("empty data should not count as provided")
		}
		if !(NewPatientData{Name: "John"}).Provided() {
			t.Error("a filled field should count as provided")
		}
	})
}
