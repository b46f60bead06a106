package services

import (
	"HospiCare/models"
	"HospiCare/repositories"
	"context"
	"time"
)

type InsuranceService struct {
	insurance *repositories.InsuranceRepository
}

func NewInsuranceService(insurance *repositories.InsuranceRepository) *InsuranceService {
	return &InsuranceService{insurance: insurance}
}

func (s *InsuranceService) CreateCompany(ctx context.Context, company *models.Company, coverageIDs []int, actor string) error {
	return s.insurance.CreateCompany(ctx, company, coverageIDs, actor)
}

func (s *InsuranceService) GetCompanyByID(ctx context.Context, id string) (*models.Company, error) {
	return s.insurance.GetCompanyByID(ctx, id)
}

func (s *InsuranceService) GetAllCompanies(ctx context.Context) ([]models.Company, error) {
	return s.insurance.GetAllCompanies(ctx)
}

func (s *InsuranceService) UpdateCompany(ctx context.Context, id string, company models.Company, coverageIDs []int, actor string) (*models.Company, error) {
	return s.insurance.UpdateCompany(ctx, id, company, coverageIDs, actor)
}

func (s *InsuranceService) CreatePolicy(ctx context.Context, input repositories.CreatePolicyInput, actor string) (*models.Policy, error) {
	return s.insurance.CreatePolicy(ctx, input, actor)
}

func (s *InsuranceService) GetPolicyByID(ctx context.Context, id string) (*models.Policy, error) {
	return s.insurance.GetPolicyByID(ctx, id)
}

func (s *InsuranceService) GetAllPolicies(ctx context.Context) ([]models.Policy, error) {
	return s.insurance.GetAllPolicies(ctx)
}

func (s *InsuranceService) UpdatePolicyExpiry(ctx context.Context, id string, expiry time.Time, actor string) (*models.Policy, error) {
	return s.insurance.UpdatePolicyExpiry(ctx, id, expiry, actor)
}

func (s *InsuranceService) CancelPolicy(ctx context.Context, id, actor string) (*models.Policy, error) {
	return s.insurance.CancelPolicy(ctx, id, actor)
}

func (s *InsuranceService) ExpireSweep(ctx context.Context) (int, error) {
	return s.insurance.ExpireSweep(ctx)
}
