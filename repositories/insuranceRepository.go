package repositories

import (
	"HospiCare/cache"
	"HospiCare/database"
	"HospiCare/models"
	"HospiCare/utils"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	CompanyCacheExpiry = 12 * time.Hour
	PolicyCacheExpiry  = 30 * time.Minute
)

type InsuranceRepository struct {
	cache    *cache.Cache
	catalog  *models.Catalog
	patients *PatientRepository
}

func NewInsuranceRepository(cache *cache.Cache, catalog *models.Catalog, patients *PatientRepository) *InsuranceRepository {
	return &InsuranceRepository{cache: cache, catalog: catalog, patients: patients}
}

// CreateCompany registers an insurance company with its coverage set.
func (r *InsuranceRepository) CreateCompany(ctx context.Context, company *models.Company, coverageIDs []int, actor string) error {
	if company.Name == "" {
		return fmt.Errorf("%w: company name must not be empty", ErrValidation)
	}
	if len(coverageIDs) == 0 {
		return fmt.Errorf("%w: a company must offer at least one coverage", ErrValidation)
	}

	links, err := r.coverageLinks(coverageIDs)
	if err != nil {
		return err
	}

	return database.DB.Transaction(func(tx *gorm.DB) error {
		company.ID = uuid.New().String()
		company.Touch(actor, true)
		if err := tx.Omit("Coverages").Create(company).Error; err != nil {
			return fmt.Errorf("failed to create company: %w", err)
		}
		for i := range links {
			links[i].CompanyID = company.ID
			if err := tx.Omit("Coverage").Create(&links[i]).Error; err != nil {
				return fmt.Errorf("failed to link company coverage: %w", err)
			}
		}
		company.Coverages = links
		return r.invalidateCompany(ctx, company.ID)
	})
}

func (r *InsuranceRepository) coverageLinks(coverageIDs []int) ([]models.CompanyCoverage, error) {
	links := make([]models.CompanyCoverage, 0, len(coverageIDs))
	seen := make(map[int]bool, len(coverageIDs))
	for _, coverageID := range coverageIDs {
		if seen[coverageID] {
			continue
		}
		seen[coverageID] = true
		coverage, ok := r.catalog.Coverage(coverageID)
		if !ok {
			return nil, fmt.Errorf("%w: coverage %d", ErrNotFound, coverageID)
		}
		links = append(links, models.CompanyCoverage{
			ID:         uuid.New().String(),
			CoverageID: coverage.ID,
			Coverage:   coverage,
		})
	}
	return links, nil
}

// GetCompanyByID loads a company with its coverages, cache-aside.
func (r *InsuranceRepository) GetCompanyByID(ctx context.Context, id string) (*models.Company, error) {
	cacheKey := r.companyCacheKey(id)
	if cached, err := r.cache.Get(ctx, cacheKey); err == nil && cached != "" {
		var company models.Company
		if err := json.Unmarshal([]byte(cached), &company); err == nil {
			return &company, nil
		}
	}

	company, err := loadCompany(database.DB, id)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(company); err == nil {
		if err := r.cache.Set(ctx, cacheKey, payload, CompanyCacheExpiry); err != nil {
			log.Printf("Failed to set company in cache: %v", err)
		}
	}
	return company, nil
}

func loadCompany(db *gorm.DB, id string) (*models.Company, error) {
	var company models.Company
	err := db.
		Preload("Coverages", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Coverages.Coverage").
		First(&company, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: company %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to get company: %w", err)
	}
	return &company, nil
}

// GetAllCompanies lists all companies with their coverages.
func (r *InsuranceRepository) GetAllCompanies(ctx context.Context) ([]models.Company, error) {
	var companies []models.Company
	err := database.DB.
		Preload("Coverages.Coverage").
		Order("name").
		Find(&companies).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get all companies: %w", err)
	}
	return companies, nil
}

// UpdateCompany changes contact details and, while no policies reference the
// company yet, its coverage set. Once a policy exists the offered coverages
// are frozen so issued policies keep their snapshot meaning.
func (r *InsuranceRepository) UpdateCompany(ctx context.Context, id string, company models.Company, coverageIDs []int, actor string) (*models.Company, error) {
	var updated *models.Company
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		existing, err := loadCompany(tx, id)
		if err != nil {
			return err
		}

		if coverageIDs != nil {
			var issued int64
			if err := tx.Model(&models.Policy{}).Where("company_id = ?", id).Count(&issued).Error; err != nil {
				return fmt.Errorf("failed to count company policies: %w", err)
			}
			if issued > 0 {
				return fmt.Errorf("%w: coverage set cannot change once policies have been issued", ErrStateConflict)
			}
			links, err := r.coverageLinks(coverageIDs)
			if err != nil {
				return err
			}
			if err := tx.Where("company_id = ?", id).Delete(&models.CompanyCoverage{}).Error; err != nil {
				return fmt.Errorf("failed to clear company coverages: %w", err)
			}
			for i := range links {
				links[i].CompanyID = id
				if err := tx.Omit("Coverage").Create(&links[i]).Error; err != nil {
					return fmt.Errorf("failed to link company coverage: %w", err)
				}
			}
			existing.Coverages = links
		}

		if company.Name != "" {
			existing.Name = company.Name
		}
		if company.Contact != "" {
			existing.Contact = company.Contact
		}
		if company.Email != "" {
			existing.Email = company.Email
		}
		if company.Address != "" {
			existing.Address = company.Address
		}
		existing.Touch(actor, false)
		if err := tx.Omit("Coverages").Save(existing).Error; err != nil {
			return fmt.Errorf("failed to update company: %w", err)
		}
		updated = existing
		return r.invalidateCompany(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// CreatePolicyInput carries a policy purchase request.
type CreatePolicyInput struct {
	CompanyID  string
	PatientNIK string
	NewPatient utils.NewPatientData
	ExpiryDate time.Time
}

// CreatePolicy issues a policy: one active policy per patient and company,
// and the company's total coverage must fit inside the patient's remaining
// class-based limit. Coverage lines are spawned from the company's offer and
// the total is snapshotted on the policy.
func (r *InsuranceRepository) CreatePolicy(ctx context.Context, input CreatePolicyInput, actor string) (*models.Policy, error) {
	if !input.ExpiryDate.After(time.Now()) {
		return nil, fmt.Errorf("%w: expiry date must be in the future", ErrValidation)
	}

	var policy models.Policy
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		company, err := loadCompany(tx, input.CompanyID)
		if err != nil {
			return err
		}

		patient, err := r.patients.GetOrCreateForIntake(tx, input.PatientNIK, input.NewPatient, actor)
		if err != nil {
			return err
		}

		var existing []models.Policy
		if err := tx.Where("patient_id = ?", patient.UserID).Find(&existing).Error; err != nil {
			return fmt.Errorf("failed to load patient policies: %w", err)
		}
		now := time.Now()
		for i := range existing {
			if existing[i].CompanyID == company.ID && existing[i].DeriveStatus(now).Active() {
				return fmt.Errorf("%w: patient already holds an active policy with this company", ErrStateConflict)
			}
		}

		total := company.TotalCoverage()
		if available := patient.AvailableInsuranceLimit(existing); total > available {
			return fmt.Errorf("%w: company coverage %.0f exceeds the patient's remaining class limit %.0f", ErrValidation, total, available)
		}

		seq, err := database.NextSequence(tx, database.SeqPolicy)
		if err != nil {
			return err
		}

		policy = models.Policy{
			ID:            utils.PolicyCode(patient.User.Name, company.Name, seq),
			PatientID:     patient.UserID,
			CompanyID:     company.ID,
			Status:        models.PolicyCreated,
			ExpiryDate:    input.ExpiryDate,
			TotalCoverage: total,
		}
		policy.Touch(actor, true)
		if err := tx.Omit("Patient", "Company", "Coverages").Create(&policy).Error; err != nil {
			return fmt.Errorf("failed to create policy: %w", err)
		}

		for i := range company.Coverages {
			line := models.PolicyCoverage{
				ID:         uuid.New().String(),
				PolicyID:   policy.ID,
				CoverageID: company.Coverages[i].CoverageID,
				Coverage:   company.Coverages[i].Coverage,
			}
			if err := tx.Omit("Coverage").Create(&line).Error; err != nil {
				return fmt.Errorf("failed to create policy coverage: %w", err)
			}
			policy.Coverages = append(policy.Coverages, line)
		}
		return r.invalidatePolicy(ctx, policy.ID)
	})
	if err != nil {
		return nil, err
	}
	return &policy, nil
}

// GetPolicyByID loads a policy with its coverage lines, cache-aside.
func (r *InsuranceRepository) GetPolicyByID(ctx context.Context, id string) (*models.Policy, error) {
	cacheKey := r.policyCacheKey(id)
	if cached, err := r.cache.Get(ctx, cacheKey); err == nil && cached != "" {
		var policy models.Policy
		if err := json.Unmarshal([]byte(cached), &policy); err == nil {
			return &policy, nil
		}
	}

	policy, err := loadPolicy(database.DB, id)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(policy); err == nil {
		if err := r.cache.Set(ctx, cacheKey, payload, PolicyCacheExpiry); err != nil {
			log.Printf("Failed to set policy in cache: %v", err)
		}
	}
	return policy, nil
}

func loadPolicy(db *gorm.DB, id string) (*models.Policy, error) {
	var policy models.Policy
	err := db.
		Preload("Patient.User").
		Preload("Company").
		Preload("Coverages", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Coverages.Coverage").
		First(&policy, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: policy %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to get policy: %w", err)
	}
	return &policy, nil
}

// GetAllPolicies lists all policies, newest first.
func (r *InsuranceRepository) GetAllPolicies(ctx context.Context) ([]models.Policy, error) {
	var policies []models.Policy
	err := database.DB.
		Preload("Patient.User").
		Preload("Company").
		Preload("Coverages.Coverage").
		Order("created_at DESC").
		Find(&policies).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get all policies: %w", err)
	}
	return policies, nil
}

// UpdatePolicyExpiry extends or shortens the policy's expiry date. Blocked on
// cancelled and fully claimed policies; an expired policy whose new date is in
// the future returns to its claim-derived status.
func (r *InsuranceRepository) UpdatePolicyExpiry(ctx context.Context, id string, expiry time.Time, actor string) (*models.Policy, error) {
	var policy *models.Policy
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		policy, err = loadPolicy(tx, id)
		if err != nil {
			return err
		}
		if policy.Status == models.PolicyCancelled || policy.Status == models.PolicyFullyClaimed {
			return fmt.Errorf("%w: a %s policy cannot change its expiry", ErrStateConflict, policy.Status)
		}

		policy.ExpiryDate = expiry
		now := time.Now()
		if expiry.After(now) {
			if policy.TotalCovered > 0 {
				policy.Status = models.PolicyPartiallyClaimed
			} else {
				policy.Status = models.PolicyCreated
			}
		} else {
			policy.Status = models.PolicyExpired
		}
		policy.Touch(actor, false)
		if err := tx.Model(policy).Updates(map[string]interface{}{
			"expiry_date": expiry,
			"status":      policy.Status,
			"updated_by":  actor,
		}).Error; err != nil {
			return fmt.Errorf("failed to update policy expiry: %w", err)
		}
		return r.invalidatePolicy(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	return policy, nil
}

// CancelPolicy voids a policy before any claim, releasing its coverage from
// the patient's class limit.
func (r *InsuranceRepository) CancelPolicy(ctx context.Context, id, actor string) (*models.Policy, error) {
	var policy *models.Policy
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		policy, err = loadPolicy(tx, id)
		if err != nil {
			return err
		}
		if !policy.Cancellable() {
			return fmt.Errorf("%w: only an unclaimed policy can be cancelled", ErrStateConflict)
		}

		policy.Status = models.PolicyCancelled
		policy.Touch(actor, false)
		if err := tx.Model(policy).Updates(map[string]interface{}{
			"status":     models.PolicyCancelled,
			"updated_by": actor,
		}).Error; err != nil {
			return fmt.Errorf("failed to cancel policy: %w", err)
		}
		return r.invalidatePolicy(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	return policy, nil
}

// ExpireSweep marks policies whose expiry date has passed. Fully claimed and
// cancelled policies keep their terminal status. Returns how many changed.
func (r *InsuranceRepository) ExpireSweep(ctx context.Context) (int, error) {
	res := database.DB.Model(&models.Policy{}).
		Where("expiry_date < ? AND status IN ?", time.Now(),
			[]models.PolicyStatus{models.PolicyCreated, models.PolicyPartiallyClaimed}).
		Update("status", models.PolicyExpired)
	if res.Error != nil {
		return 0, fmt.Errorf("failed to expire policies: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		if err := r.cache.DeleteAll(ctx, "policy_cache*"); err != nil {
			return int(res.RowsAffected), fmt.Errorf("failed to invalidate policy cache: %w", err)
		}
	}
	return int(res.RowsAffected), nil
}

func (r *InsuranceRepository) invalidateCompany(ctx context.Context, id string) error {
	if err := r.cache.Delete(ctx, r.companyCacheKey(id)); err != nil {
		return fmt.Errorf("failed to delete company cache: %w", err)
	}
	return r.cache.DeleteAll(ctx, "companies_cache*")
}

func (r *InsuranceRepository) invalidatePolicy(ctx context.Context, id string) error {
	if err := r.cache.Delete(ctx, r.policyCacheKey(id)); err != nil {
		return fmt.Errorf("failed to delete policy cache: %w", err)
	}
	return r.cache.DeleteAll(ctx, "policies_cache*")
}

func (r *InsuranceRepository) companyCacheKey(id string) string {
	return fmt.Sprintf("company_cache:%s", id)
}

func (r *InsuranceRepository) policyCacheKey(id string) string {
	return fmt.Sprintf("policy_cache:%s", id)
}
