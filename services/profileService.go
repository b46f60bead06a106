package services

import (
	"HospiCare/models"
	"HospiCare/repositories"
	"context"
)

// ProfileService covers the patient and doctor directory operations.
type ProfileService struct {
	patients *repositories.PatientRepository
	doctors  *repositories.DoctorRepository
}

func NewProfileService(patients *repositories.PatientRepository, doctors *repositories.DoctorRepository) *ProfileService {
	return &ProfileService{patients: patients, doctors: doctors}
}

func (s *ProfileService) CreatePatient(ctx context.Context, patient *models.Patient, actor string) error {
	return s.patients.Create(ctx, patient, actor)
}

func (s *ProfileService) GetPatientByID(ctx context.Context, id string) (*models.Patient, error) {
	return s.patients.GetByID(ctx, id)
}

func (s *ProfileService) GetPatientByNIK(ctx context.Context, nik string) (*models.Patient, error) {
	return s.patients.GetByNIK(ctx, nik)
}

func (s *ProfileService) GetAllPatients(ctx context.Context) ([]models.Patient, error) {
	return s.patients.GetAll(ctx)
}

func (s *ProfileService) CreateDoctor(ctx context.Context, doctor *models.Doctor, actor string) error {
	return s.doctors.Create(ctx, doctor, actor)
}

func (s *ProfileService) GetDoctorByID(ctx context.Context, id string) (*models.Doctor, error) {
	return s.doctors.GetByID(ctx, id)
}

func (s *ProfileService) GetAllDoctors(ctx context.Context) ([]models.Doctor, error) {
	return s.doctors.GetAll(ctx)
}

func (s *ProfileService) UpdateDoctor(ctx context.Context, id string, fee float64, yearsOfExperience int, schedules []int, actor string) (*models.Doctor, error) {
	return s.doctors.Update(ctx, id, fee, yearsOfExperience, schedules, actor)
}
