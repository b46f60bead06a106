package models

// BillStatus is the payment lifecycle state of a bill. Transitions are
// forward-only: TreatmentInProgress -> Unpaid -> Paid.
type BillStatus string

const (
	BillTreatmentInProgress BillStatus = "TREATMENT_IN_PROGRESS"
	BillUnpaid              BillStatus = "UNPAID"
	BillPaid                BillStatus = "PAID"
)

func (s BillStatus) String() string {
	switch s {
	case BillTreatmentInProgress:
		return "Treatment In Progress"
	case BillUnpaid:
		return "Unpaid"
	case BillPaid:
		return "Paid"
	}
	return "Unknown"
}

// Bill aggregates the fees of one care episode: an appointment or a
// reservation, optionally joined by a prescription, optionally discounted by
// an insurance policy.
type Bill struct {
	ID             string        `gorm:"primaryKey;column:id;size:36" json:"id"`
	PatientID      string        `gorm:"column:patient_id;size:36;not null;index" json:"patient_id"`
	Patient        Patient       `gorm:"foreignKey:PatientID;references:UserID" json:"patient"`
	AppointmentID  *string       `gorm:"column:appointment_id;size:10;index" json:"appointment_id"`
	Appointment    *Appointment  `gorm:"foreignKey:AppointmentID;references:ID" json:"appointment,omitempty"`
	PrescriptionID *string       `gorm:"column:prescription_id;size:16;index" json:"prescription_id"`
	Prescription   *Prescription `gorm:"foreignKey:PrescriptionID;references:ID" json:"prescription,omitempty"`
	ReservationID  *string       `gorm:"column:reservation_id;size:16;index" json:"reservation_id"`
	Reservation    *Reservation  `gorm:"foreignKey:ReservationID;references:ID" json:"reservation,omitempty"`
	PolicyID       *string       `gorm:"column:policy_id;size:12;index" json:"policy_id"`
	Policy         *Policy       `gorm:"foreignKey:PolicyID;references:ID" json:"policy,omitempty"`

	AppointmentTotalFee    float64 `gorm:"column:appointment_total_fee;default:0" json:"appointment_total_fee"`
	PrescriptionTotalPrice float64 `gorm:"column:prescription_total_price;default:0" json:"prescription_total_price"`
	ReservationTotalFee    float64 `gorm:"column:reservation_total_fee;default:0" json:"reservation_total_fee"`
	Subtotal               float64 `gorm:"column:subtotal;default:0" json:"subtotal"`
	TotalAmountDue         float64 `gorm:"column:total_amount_due;default:0" json:"total_amount_due"`

	Status            BillStatus             `gorm:"column:status;size:50;default:'TREATMENT_IN_PROGRESS'" json:"status"`
	PaymentMethod     string                 `gorm:"column:payment_method;size:20" json:"payment_method,omitempty"`
	CoveredTreatments []BillCoveredTreatment `gorm:"foreignKey:BillID;references:ID" json:"covered_treatments"`
	UserAction
}

func (Bill) TableName() string {
	return "bill"
}

// BillCoveredTreatment is the audit snapshot written at payment time: which
// treatment was covered, at what price, and how much coverage was applied.
// It is immutable and survives later policy mutation.
type BillCoveredTreatment struct {
	ID             string  `gorm:"primaryKey;column:id;size:36" json:"id"`
	BillID         string  `gorm:"column:bill_id;size:36;not null;index" json:"bill_id"`
	TreatmentName  string  `gorm:"column:treatment_name;size:255;not null" json:"treatment_name"`
	TreatmentPrice float64 `gorm:"column:treatment_price;not null" json:"treatment_price"`
	CoverageAmount float64 `gorm:"column:coverage_amount;not null" json:"coverage_amount"`
}

func (BillCoveredTreatment) TableName() string {
	return "bill_covered_treatment"
}

// CalculateSubtotal sums the three component fees.
func (b *Bill) CalculateSubtotal() float64 {
	return b.AppointmentTotalFee + b.PrescriptionTotalPrice + b.ReservationTotalFee
}

// CoverageMatch pairs one appointment treatment line with the policy
// coverage line that discounts it.
type CoverageMatch struct {
	PolicyCoverageID string
	TreatmentName    string
	TreatmentPrice   float64
	CoverageAmount   float64
}

// MatchCoverage runs the greedy first-unused-by-name matching between the
// appointment's treatment lines and the policy's coverage lines. Each
// coverage line is claimed by at most one treatment line per call; a
// treatment line with no remaining unused match contributes nothing. Callers
// must pass both slices in a stable order (by id) so repeated calls match
// identically. The matched contribution is min(treatment price, coverage
// amount).
func MatchCoverage(treatments []AppointmentTreatment, coverages []PolicyCoverage) []CoverageMatch {
	claimed := make(map[string]bool, len(coverages))
	var matches []CoverageMatch
	for i := range treatments {
		treatment := treatments[i].Treatment
		for j := range coverages {
			line := &coverages[j]
			if line.Used || claimed[line.ID] || line.Coverage.Name != treatment.Name {
				continue
			}
			claimed[line.ID] = true
			amount := line.Coverage.Amount
			if treatment.Price < amount {
				amount = treatment.Price
			}
			matches = append(matches, CoverageMatch{
				PolicyCoverageID: line.ID,
				TreatmentName:    treatment.Name,
				TreatmentPrice:   treatment.Price,
				CoverageAmount:   amount,
			})
			break
		}
	}
	return matches
}

// CoverageDiscount totals the matched coverage contributions.
func CoverageDiscount(matches []CoverageMatch) float64 {
	total := 0.0
	for _, m := range matches {
		total += m.CoverageAmount
	}
	return total
}

// ComputeCoverageDiscount is the discount obtainable right now from the
// bill's policy against its appointment, or zero when either is missing.
// Requires Appointment.Treatments and Policy.Coverages to be loaded.
func (b *Bill) ComputeCoverageDiscount() float64 {
	if b.Policy == nil || b.Appointment == nil {
		return 0
	}
	return CoverageDiscount(MatchCoverage(b.Appointment.Treatments, b.Policy.Coverages))
}

// ServicesDone reports whether every linked service record has reached its
// terminal-success state. A reservation is considered done from creation.
func (b *Bill) ServicesDone() bool {
	if b.AppointmentID != nil && (b.Appointment == nil || b.Appointment.Status != AppointmentDone) {
		return false
	}
	if b.PrescriptionID != nil && (b.Prescription == nil || b.Prescription.Status != PrescriptionDone) {
		return false
	}
	return true
}

// pullComponentFees copies the current fees off the loaded service records.
func (b *Bill) pullComponentFees() {
	if b.Appointment != nil {
		b.AppointmentTotalFee = b.Appointment.TotalFee
	}
	if b.Prescription != nil {
		b.PrescriptionTotalPrice = b.Prescription.TotalPrice
	}
	if b.Reservation != nil {
		b.ReservationTotalFee = b.Reservation.TotalFee
	}
}

// UpdateStatus drives the TreatmentInProgress -> Unpaid transition, and keeps
// an already unpaid bill priced from the live service records so a repriced
// reservation still reaches the amount due. The amount due is reset to the
// subtotal; coverage is reapplied separately. Returns true when the bill
// changed.
func (b *Bill) UpdateStatus() bool {
	switch b.Status {
	case BillTreatmentInProgress:
		if !b.ServicesDone() {
			return false
		}
		b.pullComponentFees()
		b.Status = BillUnpaid
		b.Subtotal = b.CalculateSubtotal()
		b.TotalAmountDue = b.Subtotal
		return true
	case BillUnpaid:
		before := b.Subtotal
		b.pullComponentFees()
		b.Subtotal = b.CalculateSubtotal()
		b.TotalAmountDue = b.Subtotal
		return b.Subtotal != before
	}
	return false
}

// AttachPrescription links the prescription into the bill. A bill that has
// already reached Unpaid drops back to TreatmentInProgress until the new
// prescription is processed, so the medicine cost cannot be skipped by an
// early payment.
func (b *Bill) AttachPrescription(prescriptionID string) {
	b.PrescriptionID = &prescriptionID
	if b.Status == BillUnpaid {
		b.Status = BillTreatmentInProgress
	}
}

// ApplyPolicyCoverage recomputes the amount due from the current unused
// coverage. Idempotent and non-destructive: nothing is consumed until
// payment. Only meaningful while the bill is Unpaid with a policy attached.
func (b *Bill) ApplyPolicyCoverage() {
	if b.Policy == nil || b.Status != BillUnpaid {
		return
	}
	b.TotalAmountDue = b.Subtotal - b.ComputeCoverageDiscount()
}
