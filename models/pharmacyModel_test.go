package models

import (
	"testing"
)

func TestAllocateStock(t *testing.T) {
	t.Run("fulfills fully when stock suffices", func(t *testing.T) {
		prescription := Prescription{
			Medicines: []MedicineQuantity{
				{ID: "mq-1", Quantity: 3, Medicine: Medicine{ID: "MED0001", Name: "Paracetamol", Price: 5_000, Stock: 10}},
			},
		}
		if !prescription.AllocateStock() {
			t.Fatal("expected full fulfillment")
		}
		line := prescription.Medicines[0]
		if line.FulfilledQuantity != 3 || line.Medicine.Stock != 7 {
			t.Errorf("expected fulfilled 3 and stock 7, got %d and %d", line.FulfilledQuantity, line.Medicine.Stock)
		}
	})

	t.Run("partial fulfillment drains the stock", func(t *testing.T) {
		prescription := Prescription{
			Medicines: []MedicineQuantity{
				{ID: "mq-1", Quantity: 10, Medicine: Medicine{ID: "MED0002", Name: "Amoxicillin", Price: 12_000, Stock: 6}},
			},
		}
		if prescription.AllocateStock() {
			t.Fatal("expected partial fulfillment only")
		}
		line := prescription.Medicines[0]
		if line.FulfilledQuantity != 6 {
			t.Errorf("expected fulfilled 6, got %d", line.FulfilledQuantity)
		}
		if line.Medicine.Stock != 0 {
			t.Errorf("expected stock drained to 0, got %d", line.Medicine.Stock)
		}
		if line.RemainingQuantity() != 4 {
			t.Errorf("expected remaining 4, got %d", line.RemainingQuantity())
		}
	})

	t.Run("reprocessing after restock completes the remainder", func(t *testing.T) {
		prescription := Prescription{
			Medicines: []MedicineQuantity{
				{ID: "mq-1", Quantity: 10, Medicine: Medicine{ID: "MED0002", Name: "Amoxicillin", Price: 12_000, Stock: 6}},
			},
		}
		prescription.AllocateStock()

		prescription.Medicines[0].Medicine.Stock = 20
		if !prescription.AllocateStock() {
			t.Fatal("expected full fulfillment after restock")
		}
		line := prescription.Medicines[0]
		if line.FulfilledQuantity != 10 {
			t.Errorf("fulfilled quantity overshot or undershot: %d", line.FulfilledQuantity)
		}
		if line.Medicine.Stock != 16 {
			t.Errorf("expected only the remainder drawn, stock should be 16, got %d", line.Medicine.Stock)
		}
		if line.LineTotal() != 120_000 {
			t.Errorf("expected line total 120000, got %.0f", line.LineTotal())
		}
	})

	t.Run("mixed lines report not fulfilled", func(t *testing.T) {
		prescription := Prescription{
			Medicines: []MedicineQuantity{
				{ID: "mq-1", Quantity: 2, Medicine: Medicine{ID: "MED0001", Price: 5_000, Stock: 5}},
				{ID: "mq-2", Quantity: 8, Medicine: Medicine{ID: "MED0002", Price: 12_000, Stock: 3}},
			},
		}
		if prescription.AllocateStock() {
			t.Fatal("expected partial fulfillment")
		}
		if prescription.Medicines[0].FulfilledQuantity != 2 {
			t.Errorf("full line should fulfill, got %d", prescription.Medicines[0].FulfilledQuantity)
		}
		if prescription.Medicines[1].FulfilledQuantity != 3 {
			t.Errorf("short line should take all stock, got %d", prescription.Medicines[1].FulfilledQuantity)
		}
	})
}

func TestRequestedTotal(t *testing.T) {
	prescription := Prescription{
		Medicines: []MedicineQuantity{
			{Quantity: 2, Medicine: Medicine{Price: 5_000}},
			{Quantity: 3, Medicine: Medicine{Price: 12_000}},
		},
	}
	if got := prescription.RequestedTotal(); got != 46_000 {
		t.Errorf("expected requested total 46000, got %.0f", got)
	}
}
