package utils

import (
	"errors"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// Validation errors
var (
	ErrInvalidNIK           = errors.New("nik must be exactly 16 digits")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
)

var nikRegex = regexp.MustCompile(`^\d{16}$`)

// ValidateNIK checks an Indonesian NIK: exactly 16 digits.
func ValidateNIK(nik string) error {
	if !nikRegex.MatchString(nik) {
		return ErrInvalidNIK
	}
	return nil
}

// PaymentMethods accepted by the billing endpoint.
var PaymentMethods = []string{"CASH", "CREDIT_CARD", "DEBIT_CARD", "BANK_TRANSFER", "INSURANCE"}

// ValidatePaymentMethod checks the method against the accepted set. The
// caller should upper-case the input first.
func ValidatePaymentMethod(method string) error {
	for _, m := range PaymentMethods {
		if m == method {
			return nil
		}
	}
	return ErrInvalidPaymentMethod
}

// NewPatientData carries the inline patient-registration fields accepted by
// the appointment, prescription, reservation, and policy create endpoints.
type NewPatientData struct {
	Name       string `json:"patient_name"`
	NIK        string `json:"patient_nik"`
	Email      string `json:"patient_email"`
	Gender     bool   `json:"patient_gender"`
	BirthPlace string `json:"patient_birth_place"`
	BirthDate  string `json:"patient_birth_date"`
	Class      int    `json:"patient_class"`
}

// Validate checks the inline patient data with ozzo-validation.
func (d NewPatientData) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Name, validation.Required, validation.Length(1, 255)),
		validation.Field(&d.NIK, validation.Required, validation.By(func(value interface{}) error {
			nik, _ := value.(string)
			return ValidateNIK(nik)
		})),
		validation.Field(&d.Email, validation.Required, is.Email),
		validation.Field(&d.BirthPlace, validation.Required),
		validation.Field(&d.BirthDate, validation.Required, validation.Date("2006-01-02")),
		validation.Field(&d.Class, validation.Min(0), validation.Max(3)),
	)
}

// Provided reports whether any inline patient field was filled in.
func (d NewPatientData) Provided() bool {
	return d.Name != "" || d.NIK != "" || d.Email != ""
}
