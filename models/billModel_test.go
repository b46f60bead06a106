package models

import (
	"testing"
)

func xrayCtAppointment() *Appointment {
	return &Appointment{
		ID:        "RAD1503001",
		Status:    AppointmentDone,
		Diagnosis: "suspected fracture",
		TotalFee:  1_150_000,
		Treatments: []AppointmentTreatment{
			{ID: "at-1", TreatmentID: 3, Treatment: Treatment{ID: 3, Name: "X-ray", Price: 150_000}},
			{ID: "at-2", TreatmentID: 4, Treatment: Treatment{ID: 4, Name: "CT Scan", Price: 1_000_000}},
		},
	}
}

func xrayOnlyPolicy() *Policy {
	return &Policy{
		ID:            "POLJDACM0001",
		Status:        PolicyCreated,
		TotalCoverage: 150_000,
		Coverages: []PolicyCoverage{
			{ID: "pc-1", CoverageID: 3, Coverage: Coverage{ID: 3, Name: "X-ray", Amount: 150_000}},
		},
	}
}

func TestMatchCoverage(t *testing.T) {
	t.Run("discounts only the covered treatment", func(t *testing.T) {
		appointment := xrayCtAppointment()
		policy := xrayOnlyPolicy()

		matches := MatchCoverage(appointment.Treatments, policy.Coverages)
		if len(matches) != 1 {
			t.Fatalf("expected 1 match, got %d", len(matches))
		}
		if matches[0].TreatmentName != "X-ray" {
			t.Errorf("expected X-ray to be matched, got %s", matches[0].TreatmentName)
		}
		if got := CoverageDiscount(matches); got != 150_000 {
			t.Errorf("expected discount 150000, got %.0f", got)
		}
	})

	t.Run("contribution is capped at the treatment price", func(t *testing.T) {
		treatments := []AppointmentTreatment{
			{ID: "at-1", Treatment: Treatment{Name: "Dental Cleaning", Price: 400_000}},
		}
		coverages := []PolicyCoverage{
			{ID: "pc-1", Coverage: Coverage{Name: "Dental Cleaning", Amount: 600_000}},
		}
		matches := MatchCoverage(treatments, coverages)
		if len(matches) != 1 || matches[0].CoverageAmount != 400_000 {
			t.Fatalf("expected contribution 400000, got %+v", matches)
		}
	})

	t.Run("each coverage line claimed at most once", func(t *testing.T) {
		treatments := []AppointmentTreatment{
			{ID: "at-1", Treatment: Treatment{Name: "X-ray", Price: 150_000}},
			{ID: "at-2", Treatment: Treatment{Name: "X-ray", Price: 150_000}},
		}
		coverages := []PolicyCoverage{
			{ID: "pc-1", Coverage: Coverage{Name: "X-ray", Amount: 150_000}},
		}
		matches := MatchCoverage(treatments, coverages)
		if len(matches) != 1 {
			t.Fatalf("expected single match for one coverage line, got %d", len(matches))
		}
	})

	t.Run("used coverage lines are skipped", func(t *testing.T) {
		appointment := xrayCtAppointment()
		coverages := []PolicyCoverage{
			{ID: "pc-1", Coverage: Coverage{Name: "X-ray", Amount: 150_000}, Used: true},
		}
		if matches := MatchCoverage(appointment.Treatments, coverages); len(matches) != 0 {
			t.Fatalf("expected no matches against used lines, got %d", len(matches))
		}
	})

	t.Run("repeated calls match identically", func(t *testing.T) {
		appointment := xrayCtAppointment()
		policy := xrayOnlyPolicy()
		first := MatchCoverage(appointment.Treatments, policy.Coverages)
		second := MatchCoverage(appointment.Treatments, policy.Coverages)
		if len(first) != len(second) || first[0].PolicyCoverageID != second[0].PolicyCoverageID {
			t.Error("matching is not deterministic across calls")
		}
	})
}

func TestBillStatusEngine(t *testing.T) {
	t.Run("stays in progress until services are done", func(t *testing.T) {
		appointment := xrayCtAppointment()
		appointment.Status = AppointmentCreated
		appointmentID := appointment.ID
		bill := Bill{
			Status:        BillTreatmentInProgress,
			AppointmentID: &appointmentID,
			Appointment:   appointment,
		}
		if bill.UpdateStatus() {
			t.Fatal("bill advanced before the appointment was done")
		}
		if bill.Status != BillTreatmentInProgress {
			t.Errorf("expected status to stay in progress, got %s", bill.Status)
		}
	})

	t.Run("promotes to unpaid with the subtotal identity", func(t *testing.T) {
		appointment := xrayCtAppointment()
		appointmentID := appointment.ID
		bill := Bill{
			Status:        BillTreatmentInProgress,
			AppointmentID: &appointmentID,
			Appointment:   appointment,
		}
		if !bill.UpdateStatus() {
			t.Fatal("expected promotion to unpaid")
		}
		if bill.Status != BillUnpaid {
			t.Fatalf("expected unpaid, got %s", bill.Status)
		}
		if bill.Subtotal != bill.AppointmentTotalFee+bill.PrescriptionTotalPrice+bill.ReservationTotalFee {
			t.Errorf("subtotal %f violates the component identity", bill.Subtotal)
		}
		if bill.TotalAmountDue != 1_150_000 {
			t.Errorf("expected amount due 1150000 before coverage, got %.0f", bill.TotalAmountDue)
		}
	})

	t.Run("waits on an unfinished prescription", func(t *testing.T) {
		appointment := xrayCtAppointment()
		appointmentID := appointment.ID
		prescriptionID := "RES02MON101530"
		bill := Bill{
			Status:         BillTreatmentInProgress,
			AppointmentID:  &appointmentID,
			Appointment:    appointment,
			PrescriptionID: &prescriptionID,
			Prescription:   &Prescription{ID: prescriptionID, Status: PrescriptionWaitingForStock},
		}
		if bill.UpdateStatus() {
			t.Fatal("bill advanced with the prescription still waiting for stock")
		}
	})

	t.Run("reservation counts as done from creation", func(t *testing.T) {
		reservationID := "RES03MON67890001"
		bill := Bill{
			Status:        BillTreatmentInProgress,
			ReservationID: &reservationID,
			Reservation:   &Reservation{ID: reservationID, TotalFee: 2_400_000},
		}
		if !bill.UpdateStatus() {
			t.Fatal("expected a reservation-only bill to become payable immediately")
		}
		if bill.TotalAmountDue != 2_400_000 {
			t.Errorf("expected amount due 2400000, got %.0f", bill.TotalAmountDue)
		}
	})

	t.Run("repriced reservation reaches the unpaid amount due", func(t *testing.T) {
		reservationID := "RES03MON67890001"
		reservation := &Reservation{ID: reservationID, TotalFee: 2_400_000}
		bill := Bill{
			Status:        BillTreatmentInProgress,
			ReservationID: &reservationID,
			Reservation:   reservation,
		}
		bill.UpdateStatus()

		reservation.TotalFee = 3_600_000
		if !bill.UpdateStatus() {
			t.Fatal("expected the unpaid bill to pick up the repriced stay")
		}
		bill.ApplyPolicyCoverage()
		if bill.ReservationTotalFee != 3_600_000 || bill.TotalAmountDue != 3_600_000 {
			t.Errorf("expected component and due 3600000, got component=%.0f due=%.0f",
				bill.ReservationTotalFee, bill.TotalAmountDue)
		}
	})

	t.Run("unpaid refresh with unchanged fees reports no change", func(t *testing.T) {
		reservationID := "RES03MON67890001"
		bill := Bill{
			Status:        BillTreatmentInProgress,
			ReservationID: &reservationID,
			Reservation:   &Reservation{ID: reservationID, TotalFee: 2_400_000},
		}
		bill.UpdateStatus()
		if bill.UpdateStatus() {
			t.Fatal("expected no change when the service fees are unchanged")
		}
		if bill.TotalAmountDue != 2_400_000 {
			t.Errorf("amount due drifted to %.0f", bill.TotalAmountDue)
		}
	})
}

func TestAttachPrescription(t *testing.T) {
	t.Run("unpaid bill drops back until the prescription is done", func(t *testing.T) {
		appointment := xrayCtAppointment()
		appointmentID := appointment.ID
		bill := Bill{
			Status:        BillTreatmentInProgress,
			AppointmentID: &appointmentID,
			Appointment:   appointment,
		}
		bill.UpdateStatus()

		prescriptionID := "RES02MON101530"
		bill.AttachPrescription(prescriptionID)
		if bill.Status != BillTreatmentInProgress {
			t.Fatalf("expected the bill to drop back to in progress, got %s", bill.Status)
		}

		bill.Prescription = &Prescription{ID: prescriptionID, Status: PrescriptionCreated}
		if bill.UpdateStatus() {
			t.Fatal("bill advanced with the prescription unprocessed")
		}

		bill.Prescription.Status = PrescriptionDone
		bill.Prescription.TotalPrice = 120_000
		if !bill.UpdateStatus() {
			t.Fatal("expected promotion once the prescription completed")
		}
		if bill.TotalAmountDue != 1_270_000 {
			t.Errorf("expected the medicine cost in the amount due, got %.0f", bill.TotalAmountDue)
		}
	})

	t.Run("in-progress bill just links the prescription", func(t *testing.T) {
		appointment := xrayCtAppointment()
		appointment.Status = AppointmentCreated
		appointmentID := appointment.ID
		bill := Bill{
			Status:        BillTreatmentInProgress,
			AppointmentID: &appointmentID,
			Appointment:   appointment,
		}
		bill.AttachPrescription("RES02MON101530")
		if bill.Status != BillTreatmentInProgress {
			t.Errorf("expected status to stay in progress, got %s", bill.Status)
		}
		if bill.PrescriptionID == nil || *bill.PrescriptionID != "RES02MON101530" {
			t.Error("prescription was not linked")
		}
	})
}

func TestApplyPolicyCoverage(t *testing.T) {
	newUnpaidBill := func() Bill {
		appointment := xrayCtAppointment()
		appointmentID := appointment.ID
		bill := Bill{
			Status:        BillTreatmentInProgress,
			AppointmentID: &appointmentID,
			Appointment:   appointment,
		}
		bill.UpdateStatus()
		return bill
	}

	t.Run("x-ray coverage discounts the ct scan bill", func(t *testing.T) {
		bill := newUnpaidBill()
		policy := xrayOnlyPolicy()
		bill.PolicyID = &policy.ID
		bill.Policy = policy

		bill.ApplyPolicyCoverage()
		if bill.TotalAmountDue != 1_000_000 {
			t.Errorf("expected amount due 1000000 after coverage, got %.0f", bill.TotalAmountDue)
		}
	})

	t.Run("idempotent across repeated application", func(t *testing.T) {
		bill := newUnpaidBill()
		policy := xrayOnlyPolicy()
		bill.PolicyID = &policy.ID
		bill.Policy = policy

		bill.ApplyPolicyCoverage()
		first := bill.TotalAmountDue
		bill.ApplyPolicyCoverage()
		if bill.TotalAmountDue != first {
			t.Errorf("amount due drifted from %.0f to %.0f", first, bill.TotalAmountDue)
		}
	})

	t.Run("no-op without a policy", func(t *testing.T) {
		bill := newUnpaidBill()
		bill.ApplyPolicyCoverage()
		if bill.TotalAmountDue != bill.Subtotal {
			t.Errorf("amount due changed without a policy: %.0f", bill.TotalAmountDue)
		}
	})

	t.Run("no-op once paid", func(t *testing.T) {
		bill := newUnpaidBill()
		policy := xrayOnlyPolicy()
		bill.PolicyID = &policy.ID
		bill.Policy = policy
		bill.ApplyPolicyCoverage()
		bill.Status = BillPaid
		paidAmount := bill.TotalAmountDue

		bill.Policy.Coverages[0].Used = true
		bill.ApplyPolicyCoverage()
		if bill.TotalAmountDue != paidAmount {
			t.Errorf("paid amount mutated from %.0f to %.0f", paidAmount, bill.TotalAmountDue)
		}
	})
}
