package services

import (
	"HospiCare/models"
	"HospiCare/repositories"
	"context"
	"log"
)

type BillingService struct {
	bills *repositories.BillRepository
}

func NewBillingService(bills *repositories.BillRepository) *BillingService {
	return &BillingService{bills: bills}
}

func (s *BillingService) GetBill(ctx context.Context, id string) (*models.Bill, error) {
	return s.bills.GetByID(ctx, id)
}

func (s *BillingService) ListBills(ctx context.Context) ([]models.Bill, error) {
	return s.bills.GetAll(ctx)
}

func (s *BillingService) PatientBills(ctx context.Context, patientID string) ([]models.Bill, error) {
	return s.bills.GetByPatient(ctx, patientID)
}

func (s *BillingService) Summary(ctx context.Context) (*repositories.BillSummary, error) {
	return s.bills.Summary(ctx)
}

func (s *BillingService) AttachPolicy(ctx context.Context, billID, policyID, actor string) (*models.Bill, error) {
	return s.bills.AttachPolicy(ctx, billID, policyID, actor)
}

func (s *BillingService) Pay(ctx context.Context, billID, paymentMethod, actor string) (*models.Bill, error) {
	return s.bills.Pay(ctx, billID, paymentMethod, actor)
}

// Reconcile sweeps every open bill through the status engine.
func (s *BillingService) Reconcile(ctx context.Context) (int, error) {
	return s.bills.UpdateComponents(ctx)
}

// ServiceRecordCompleted reacts to a completed appointment or prescription by
// refreshing the episode's bill. Errors are logged, not propagated; the
// originating operation has already committed.
func (s *BillingService) ServiceRecordCompleted(ctx context.Context, billID string) {
	if billID == "" {
		return
	}
	if _, err := s.bills.Refresh(ctx, billID); err != nil {
		log.Printf("Failed to refresh bill %s after service completion: %v", billID, err)
	}
}
