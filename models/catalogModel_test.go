package models

import (
	"testing"
)

func TestCatalogLookups(t *testing.T) {
	catalog := NewCatalog(
		[]Treatment{
			{ID: 3, Name: "X-ray", Price: 150_000},
			{ID: 4, Name: "CT Scan", Price: 1_000_000},
		},
		[]Coverage{
			{ID: 3, Name: "X-ray", Amount: 150_000},
			{ID: 4, Name: "CT Scan", Amount: 750_000},
		},
	)

	t.Run("treatment by id", func(t *testing.T) {
		treatment, ok := catalog.Treatment(4)
		if !ok || treatment.Price != 1_000_000 {
			t.Errorf("expected CT Scan at 1000000, got %+v (ok=%v)", treatment, ok)
		}
		if _, ok := catalog.Treatment(99); ok {
			t.Error("unknown treatment id should miss")
		}
	})

	t.Run("coverage by name", func(t *testing.T) {
		coverage, ok := catalog.CoverageByName("CT Scan")
		if !ok || coverage.Amount != 750_000 {
			t.Errorf("expected CT Scan coverage 750000, got %+v (ok=%v)", coverage, ok)
		}
		if _, ok := catalog.CoverageByName("Acupuncture"); ok {
			t.Error("unknown coverage name should miss")
		}
	})

	t.Run("listings cover the whole catalog", func(t *testing.T) {
		if got := len(catalog.Treatments()); got != 2 {
			t.Errorf("expected 2 treatments, got %d", got)
		}
		if got := len(catalog.Coverages()); got != 2 {
			t.Errorf("expected 2 coverages, got %d", got)
		}
	})
}
