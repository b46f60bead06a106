package models

import (
	"time"
)

// PolicyStatus is the lifecycle state of an insurance policy.
type PolicyStatus int

const (
	PolicyCreated PolicyStatus = iota
	PolicyPartiallyClaimed
	PolicyFullyClaimed
	PolicyExpired
	PolicyCancelled
)

func (s PolicyStatus) String() string {
	switch s {
	case PolicyCreated:
		return "Created"
	case PolicyPartiallyClaimed:
		return "Partially Claimed"
	case PolicyFullyClaimed:
		return "Fully Claimed"
	case PolicyExpired:
		return "Expired"
	case PolicyCancelled:
		return "Cancelled"
	}
	return "Unknown"
}

// Active reports whether the policy can still be attached to bills.
func (s PolicyStatus) Active() bool {
	return s == PolicyCreated || s == PolicyPartiallyClaimed
}

// Company is an insurance company with a fixed set of catalog coverages.
type Company struct {
	ID        string            `gorm:"primaryKey;column:id;size:36" json:"id"`
	Name      string            `gorm:"column:name;size:255;not null" json:"name"`
	Contact   string            `gorm:"column:contact;size:50" json:"contact"`
	Email     string            `gorm:"column:email;size:255" json:"email"`
	Address   string            `gorm:"column:address;type:text" json:"address"`
	Coverages []CompanyCoverage `gorm:"foreignKey:CompanyID;references:ID" json:"coverages"`
	UserAction
}

func (Company) TableName() string {
	return "company"
}

// TotalCoverage sums the coverage amounts the company offers. Requires
// Coverages to be loaded.
func (c *Company) TotalCoverage() float64 {
	total := 0.0
	for i := range c.Coverages {
		total += c.Coverages[i].Coverage.Amount
	}
	return total
}

// CompanyCoverage joins a company to a catalog coverage.
type CompanyCoverage struct {
	ID         string   `gorm:"primaryKey;column:id;size:36" json:"id"`
	CompanyID  string   `gorm:"column:company_id;size:36;not null;index;uniqueIndex:idx_company_coverage" json:"company_id"`
	CoverageID int      `gorm:"column:coverage_id;not null;uniqueIndex:idx_company_coverage" json:"coverage_id"`
	Coverage   Coverage `gorm:"foreignKey:CoverageID;references:ID" json:"coverage"`
}

func (CompanyCoverage) TableName() string {
	return "company_coverage"
}

// Policy model. The id is a generated code:
// POL + patient_initials(2) + company_initials(3) + sequence(4).
type Policy struct {
	ID            string           `gorm:"primaryKey;column:id;size:12" json:"id"`
	PatientID     string           `gorm:"column:patient_id;size:36;not null;index" json:"patient_id"`
	Patient       Patient          `gorm:"foreignKey:PatientID;references:UserID" json:"patient"`
	CompanyID     string           `gorm:"column:company_id;size:36;not null;index" json:"company_id"`
	Company       Company          `gorm:"foreignKey:CompanyID;references:ID" json:"company"`
	Status        PolicyStatus     `gorm:"column:status;default:0" json:"status"`
	ExpiryDate    time.Time        `gorm:"column:expiry_date;not null" json:"expiry_date"`
	TotalCoverage float64          `gorm:"column:total_coverage;default:0" json:"total_coverage"`
	TotalCovered  float64          `gorm:"column:total_covered;default:0" json:"total_covered"`
	Coverages     []PolicyCoverage `gorm:"foreignKey:PolicyID;references:ID" json:"coverages"`
	UserAction
}

func (Policy) TableName() string {
	return "policy"
}

// PolicyCoverage joins a policy to a catalog coverage. Each line may be
// consumed at most once over the policy's lifetime; the used flag never
// reverts to false.
type PolicyCoverage struct {
	ID         string   `gorm:"primaryKey;column:id;size:36" json:"id"`
	PolicyID   string   `gorm:"column:policy_id;size:12;not null;index;uniqueIndex:idx_policy_coverage" json:"policy_id"`
	CoverageID int      `gorm:"column:coverage_id;not null;uniqueIndex:idx_policy_coverage" json:"coverage_id"`
	Coverage   Coverage `gorm:"foreignKey:CoverageID;references:ID" json:"coverage"`
	Used       bool     `gorm:"column:used;default:false" json:"used"`
}

func (PolicyCoverage) TableName() string {
	return "policy_coverage"
}

// AvailableCoverage is the coverage amount not yet consumed by bills.
func (p *Policy) AvailableCoverage() float64 {
	return p.TotalCoverage - p.TotalCovered
}

// DeriveStatus recomputes the status from covered amounts and the expiry
// date. Cancelled is terminal and never derived; it is only reachable through
// an explicit cancellation.
func (p *Policy) DeriveStatus(today time.Time) PolicyStatus {
	switch {
	case p.ExpiryDate.Before(today) && p.Status != PolicyFullyClaimed && p.Status != PolicyCancelled:
		return PolicyExpired
	case p.TotalCovered >= p.TotalCoverage && p.Status != PolicyCancelled:
		return PolicyFullyClaimed
	case p.TotalCovered > 0 && p.Status != PolicyFullyClaimed && p.Status != PolicyExpired && p.Status != PolicyCancelled:
		return PolicyPartiallyClaimed
	}
	return p.Status
}

// Cancellable reports whether the policy may be cancelled: only before any
// claim activity.
func (p *Policy) Cancellable() bool {
	return p.Status == PolicyCreated
}
