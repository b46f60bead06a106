package services

import (
	"HospiCare/models"
	"HospiCare/repositories"
	"context"
	"log"
)

type PharmacyService struct {
	pharmacy *repositories.PharmacyRepository
	billing  BillRefresher
}

func NewPharmacyService(pharmacy *repositories.PharmacyRepository, billing BillRefresher) *PharmacyService {
	return &PharmacyService{pharmacy: pharmacy, billing: billing}
}

func (s *PharmacyService) CreateMedicine(ctx context.Context, medicine *models.Medicine, actor string) error {
	return s.pharmacy.CreateMedicine(ctx, medicine, actor)
}

func (s *PharmacyService) GetMedicineByID(ctx context.Context, id string) (*models.Medicine, error) {
	return s.pharmacy.GetMedicineByID(ctx, id)
}

func (s *PharmacyService) GetAllMedicines(ctx context.Context) ([]models.Medicine, error) {
	return s.pharmacy.GetAllMedicines(ctx)
}

func (s *PharmacyService) UpdateMedicine(ctx context.Context, id string, price float64, description, actor string) (*models.Medicine, error) {
	return s.pharmacy.UpdateMedicine(ctx, id, price, description, actor)
}

func (s *PharmacyService) RestockMedicine(ctx context.Context, id string, quantity int, actor string) (*models.Medicine, error) {
	return s.pharmacy.RestockMedicine(ctx, id, quantity, actor)
}

func (s *PharmacyService) CreatePrescription(ctx context.Context, input repositories.CreatePrescriptionInput, actor string) (*models.Prescription, error) {
	return s.pharmacy.CreatePrescription(ctx, input, actor)
}

func (s *PharmacyService) GetPrescriptionByID(ctx context.Context, id string) (*models.Prescription, error) {
	return s.pharmacy.GetPrescriptionByID(ctx, id)
}

func (s *PharmacyService) GetAllPrescriptions(ctx context.Context) ([]models.Prescription, error) {
	return s.pharmacy.GetAllPrescriptions(ctx)
}

func (s *PharmacyService) UpdatePrescriptionLines(ctx context.Context, id string, lines []repositories.PrescriptionLineInput, actor string) (*models.Prescription, error) {
	return s.pharmacy.UpdatePrescriptionLines(ctx, id, lines, actor)
}

// ProcessPrescription draws stock and, when the prescription completes,
// notifies billing.
func (s *PharmacyService) ProcessPrescription(ctx context.Context, id, actor string) (*models.Prescription, error) {
	prescription, err := s.pharmacy.ProcessPrescription(ctx, id, actor)
	if err != nil {
		return nil, err
	}
	if prescription.Status == models.PrescriptionDone {
		billID, err := s.pharmacy.PrescriptionBillID(ctx, id)
		if err != nil {
			log.Printf("Failed to locate bill for prescription %s: %v", id, err)
			return prescription, nil
		}
		s.billing.ServiceRecordCompleted(ctx, billID)
	}
	return prescription, nil
}

// CancelPrescription detaches the prescription from its bill. When the bill
// shares a care episode it is refreshed, so a bill held open by the cancelled
// prescription becomes payable again.
func (s *PharmacyService) CancelPrescription(ctx context.Context, id, actor string) (*models.Prescription, error) {
	billID, err := s.pharmacy.PrescriptionBillID(ctx, id)
	if err != nil {
		log.Printf("Failed to locate bill for prescription %s: %v", id, err)
	}
	prescription, err := s.pharmacy.CancelPrescription(ctx, id, actor)
	if err != nil {
		return nil, err
	}
	if prescription.AppointmentID != nil && billID != "" {
		s.billing.ServiceRecordCompleted(ctx, billID)
	}
	return prescription, nil
}
