package services

import (
	"HospiCare/models"
	"HospiCare/repositories"
	"context"
	"log"
)

type HospitalizationService struct {
	hospitalization *repositories.HospitalizationRepository
	billing         BillRefresher
}

func NewHospitalizationService(hospitalization *repositories.HospitalizationRepository, billing BillRefresher) *HospitalizationService {
	return &HospitalizationService{hospitalization: hospitalization, billing: billing}
}

func (s *HospitalizationService) CreateRoom(ctx context.Context, room *models.Room, actor string) error {
	return s.hospitalization.CreateRoom(ctx, room, actor)
}

func (s *HospitalizationService) GetRoomByID(ctx context.Context, id string) (*models.Room, error) {
	return s.hospitalization.GetRoomByID(ctx, id)
}

func (s *HospitalizationService) GetAllRooms(ctx context.Context) ([]models.Room, error) {
	return s.hospitalization.GetAllRooms(ctx)
}

func (s *HospitalizationService) CreateFacility(ctx context.Context, facility *models.Facility, actor string) error {
	return s.hospitalization.CreateFacility(ctx, facility, actor)
}

func (s *HospitalizationService) GetAllFacilities(ctx context.Context) ([]models.Facility, error) {
	return s.hospitalization.GetAllFacilities(ctx)
}

// CreateReservation admits the patient and nudges billing: a reservation
// counts as done from creation, so a standalone reservation bill is payable
// immediately.
func (s *HospitalizationService) CreateReservation(ctx context.Context, input repositories.CreateReservationInput, actor string) (*models.Reservation, error) {
	reservation, err := s.hospitalization.CreateReservation(ctx, input, actor)
	if err != nil {
		return nil, err
	}
	billID, err := s.hospitalization.ReservationBillID(ctx, reservation.ID)
	if err != nil {
		log.Printf("Failed to locate bill for reservation %s: %v", reservation.ID, err)
		return reservation, nil
	}
	s.billing.ServiceRecordCompleted(ctx, billID)
	return reservation, nil
}

func (s *HospitalizationService) GetReservationByID(ctx context.Context, id string) (*models.Reservation, error) {
	return s.hospitalization.GetReservationByID(ctx, id)
}

func (s *HospitalizationService) GetAllReservations(ctx context.Context) ([]models.Reservation, error) {
	return s.hospitalization.GetAllReservations(ctx)
}

// UpdateReservation reprices the stay and refreshes the bill so an already
// unpaid bill picks up the new fee.
func (s *HospitalizationService) UpdateReservation(ctx context.Context, id string, input repositories.UpdateReservationInput, actor string) (*models.Reservation, error) {
	reservation, err := s.hospitalization.UpdateReservation(ctx, id, input, actor)
	if err != nil {
		return nil, err
	}
	billID, err := s.hospitalization.ReservationBillID(ctx, id)
	if err != nil {
		log.Printf("Failed to locate bill for reservation %s: %v", id, err)
		return reservation, nil
	}
	s.billing.ServiceRecordCompleted(ctx, billID)
	return reservation, nil
}
