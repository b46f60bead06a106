package models

import (
	"testing"
	"time"
)

func TestDeriveStatus(t *testing.T) {
	today := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	future := today.AddDate(1, 0, 0)
	past := today.AddDate(0, -1, 0)

	tests := []struct {
		name   string
		policy Policy
		want   PolicyStatus
	}{
		{
			name:   "fresh policy stays created",
			policy: Policy{Status: PolicyCreated, ExpiryDate: future, TotalCoverage: 500_000},
			want:   PolicyCreated,
		},
		{
			name:   "claim activity makes it partially claimed",
			policy: Policy{Status: PolicyCreated, ExpiryDate: future, TotalCoverage: 500_000, TotalCovered: 150_000},
			want:   PolicyPartiallyClaimed,
		},
		{
			name:   "covered at the cap is fully claimed",
			policy: Policy{Status: PolicyPartiallyClaimed, ExpiryDate: future, TotalCoverage: 500_000, TotalCovered: 500_000},
			want:   PolicyFullyClaimed,
		},
		{
			name:   "past expiry becomes expired",
			policy: Policy{Status: PolicyCreated, ExpiryDate: past, TotalCoverage: 500_000},
			want:   PolicyExpired,
		},
		{
			name:   "expiry does not demote a fully claimed policy",
			policy: Policy{Status: PolicyFullyClaimed, ExpiryDate: past, TotalCoverage: 500_000, TotalCovered: 500_000},
			want:   PolicyFullyClaimed,
		},
		{
			name:   "cancelled is terminal",
			policy: Policy{Status: PolicyCancelled, ExpiryDate: past, TotalCoverage: 500_000, TotalCovered: 100_000},
			want:   PolicyCancelled,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.policy.DeriveStatus(today); got != tt.want {
				t.Errorf("DeriveStatus() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestPolicyStatusActive(t *testing.T) {
	active := []PolicyStatus{PolicyCreated, PolicyPartiallyClaimed}
	inactive := []PolicyStatus{PolicyFullyClaimed, PolicyExpired, PolicyCancelled}
	for _, s := range active {
		if !s.Active() {
			t.Errorf("%s should be active", s)
		}
	}
	for _, s := range inactive {
		if s.Active() {
			t.Errorf("%s should not be active", s)
		}
	}
}

func TestCancellable(t *testing.T) {
	if !(&Policy{Status: PolicyCreated}).Cancellable() {
		t.Error("a created policy should be cancellable")
	}
	for _, s := range []PolicyStatus{PolicyPartiallyClaimed, PolicyFullyClaimed, PolicyExpired, PolicyCancelled} {
		if (&Policy{Status: s}).Cancellable() {
			t.Errorf("a %s policy should not be cancellable", s)
		}
	}
}

func TestAvailableInsuranceLimit(t *testing.T) {
	t.Run("class three rejects a 30M company", func(t *testing.T) {
		patient := Patient{Class: 3}
		companyCoverage := 30_000_000.0
		if available := patient.AvailableInsuranceLimit(nil); companyCoverage <= available {
			t.Errorf("class 3 limit %.0f should be below 30M", available)
		}
	})

	t.Run("held policies reduce the limit", func(t *testing.T) {
		patient := Patient{Class: 1}
		policies := []Policy{
			{Status: PolicyCreated, TotalCoverage: 40_000_000},
			{Status: PolicyPartiallyClaimed, TotalCoverage: 30_000_000},
		}
		if got := patient.AvailableInsuranceLimit(policies); got != 30_000_000 {
			t.Errorf("expected 30M remaining, got %.0f", got)
		}
	})

	t.Run("cancelled and expired policies release their coverage", func(t *testing.T) {
		patient := Patient{Class: 2}
		policies := []Policy{
			{Status: PolicyCancelled, TotalCoverage: 40_000_000},
			{Status: PolicyExpired, TotalCoverage: 10_000_000},
		}
		if got := patient.AvailableInsuranceLimit(policies); got != 50_000_000 {
			t.Errorf("expected the full class 2 limit back, got %.0f", got)
		}
	})
}

func TestCompanyTotalCoverage(t *testing.T) {
	company := Company{
		Coverages: []CompanyCoverage{
			{Coverage: Coverage{Amount: 150_000}},
			{Coverage: Coverage{Amount: 750_000}},
		},
	}
	if got := company.TotalCoverage(); got != 900_000 {
		t.Errorf("expected 900000, got %.0f", got)
	}
}

func TestAvailableCoverage(t *testing.T) {
	policy := Policy{TotalCoverage: 900_000, TotalCovered: 150_000}
	if got := policy.AvailableCoverage(); got != 750_000 {
		t.Errorf("expected 750000, got %.0f", got)
	}
}
