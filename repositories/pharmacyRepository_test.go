package repositories

import (
	"testing"
)

func TestMergeLines(t *testing.T) {
	t.Run("duplicate medicines merge their quantities", func(t *testing.T) {
		merged := mergeLines([]PrescriptionLineInput{
			{MedicineID: "MED0001", Quantity: 2},
			{MedicineID: "MED0002", Quantity: 1},
			{MedicineID: "MED0001", Quantity: 3},
		})
		if len(merged) != 2 {
			t.Fatalf("expected 2 merged lines, got %d", len(merged))
		}
		if merged[0].MedicineID != "MED0001" || merged[0].Quantity != 5 {
			t.Errorf("expected MED0001 x5 first, got %+v", merged[0])
		}
		if merged[1].MedicineID != "MED0002" || merged[1].Quantity != 1 {
			t.Errorf("expected MED0002 x1 second, got %+v", merged[1])
		}
	})

	t.Run("keeps first-seen order", func(t *testing.T) {
		merged := mergeLines([]PrescriptionLineInput{
			{MedicineID: "MED0003", Quantity: 1},
			{MedicineID: "MED0001", Quantity: 1},
			{MedicineID: "MED0003", Quantity: 1},
		})
		if merged[0].MedicineID != "MED0003" || merged[1].MedicineID != "MED0001" {
			t.Errorf("order not preserved: %+v", merged)
		}
	})

	t.Run("empty input yields empty output", func(t *testing.T) {
		if merged := mergeLines(nil); len(merged) != 0 {
			t.Errorf("expected no lines, got %d", len(merged))
		}
	})
}
