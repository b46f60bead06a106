package services

import (
	"HospiCare/models"
	"HospiCare/repositories"
	"context"
	"log"
	"time"
)

type AppointmentService struct {
	appointments *repositories.AppointmentRepository
	billing      BillRefresher
}

func NewAppointmentService(appointments *repositories.AppointmentRepository, billing BillRefresher) *AppointmentService {
	return &AppointmentService{appointments: appointments, billing: billing}
}

func (s *AppointmentService) Create(ctx context.Context, input repositories.CreateAppointmentInput, actor string) (*models.Appointment, error) {
	return s.appointments.Create(ctx, input, actor)
}

func (s *AppointmentService) GetByID(ctx context.Context, id string) (*models.Appointment, error) {
	return s.appointments.GetByID(ctx, id)
}

func (s *AppointmentService) GetAll(ctx context.Context) ([]models.Appointment, error) {
	return s.appointments.GetAll(ctx)
}

func (s *AppointmentService) UpdateSchedule(ctx context.Context, id, doctorID string, date time.Time, actor string) (*models.Appointment, error) {
	return s.appointments.UpdateSchedule(ctx, id, doctorID, date, actor)
}

func (s *AppointmentService) SetDiagnosis(ctx context.Context, id, diagnosis string, treatmentIDs []int, actor string) (*models.Appointment, error) {
	return s.appointments.SetDiagnosis(ctx, id, diagnosis, treatmentIDs, actor)
}

// MarkDone completes the appointment and notifies billing so the episode's
// bill can advance.
func (s *AppointmentService) MarkDone(ctx context.Context, id, actor string) (*models.Appointment, error) {
	appointment, err := s.appointments.MarkDone(ctx, id, actor)
	if err != nil {
		return nil, err
	}
	billID, err := s.appointments.BillID(ctx, id)
	if err != nil {
		log.Printf("Failed to locate bill for appointment %s: %v", id, err)
		return appointment, nil
	}
	s.billing.ServiceRecordCompleted(ctx, billID)
	return appointment, nil
}

func (s *AppointmentService) Cancel(ctx context.Context, id, actor string) (*models.Appointment, error) {
	return s.appointments.Cancel(ctx, id, actor)
}
