package models

import (
	"sync"

	"gorm.io/gorm"
)

// Treatment is a static catalog entry. Immutable after seeding.
type Treatment struct {
	ID    int     `gorm:"primaryKey;column:id" json:"id"`
	Name  string  `gorm:"column:name;size:255;not null" json:"name"`
	Price float64 `gorm:"column:price;not null" json:"price"`
}

func (Treatment) TableName() string {
	return "treatment"
}

// Coverage is a static catalog entry for insurance coverage types. Coverage
// names mirror treatment names so policies can be matched against treatments.
type Coverage struct {
	ID     int     `gorm:"primaryKey;column:id" json:"id"`
	Name   string  `gorm:"column:name;size:255;not null" json:"name"`
	Amount float64 `gorm:"column:coverage_amount;not null" json:"coverage_amount"`
}

func (Coverage) TableName() string {
	return "coverage"
}

// SeedTreatments inserts the treatment catalog into the database
func SeedTreatments(db *gorm.DB) error {
	initialTreatments := []Treatment{
		{ID: 1, Name: "General Checkup", Price: 100_000},
		{ID: 2, Name: "Blood Test", Price: 250_000},
		{ID: 3, Name: "X-ray", Price: 150_000},
		{ID: 4, Name: "CT Scan", Price: 1_000_000},
		{ID: 5, Name: "MRI", Price: 2_500_000},
		{ID: 6, Name: "Ultrasound", Price: 500_000},
		{ID: 7, Name: "Vaccination", Price: 300_000},
		{ID: 8, Name: "Dental Cleaning", Price: 400_000},
		{ID: 9, Name: "Physiotherapy", Price: 350_000},
		{ID: 10, Name: "Minor Surgery", Price: 5_000_000},
	}
	return db.Transaction(func(tx *gorm.DB) error {
		for _, treatment := range initialTreatments {
			if err := tx.FirstOrCreate(&treatment, Treatment{ID: treatment.ID}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// SeedCoverages inserts the coverage catalog. Names intentionally match the
// treatment catalog; amounts may differ from treatment prices.
func SeedCoverages(db *gorm.DB) error {
	initialCoverages := []Coverage{
		{ID: 1, Name: "General Checkup", Amount: 100_000},
		{ID: 2, Name: "Blood Test", Amount: 200_000},
		{ID: 3, Name: "X-ray", Amount: 150_000},
		{ID: 4, Name: "CT Scan", Amount: 750_000},
		{ID: 5, Name: "MRI", Amount: 2_000_000},
		{ID: 6, Name: "Ultrasound", Amount: 500_000},
		{ID: 7, Name: "Vaccination", Amount: 300_000},
		{ID: 8, Name: "Dental Cleaning", Amount: 300_000},
		{ID: 9, Name: "Physiotherapy", Amount: 350_000},
		{ID: 10, Name: "Minor Surgery", Amount: 4_000_000},
	}
	return db.Transaction(func(tx *gorm.DB) error {
		for _, coverage := range initialCoverages {
			if err := tx.FirstOrCreate(&coverage, Coverage{ID: coverage.ID}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Catalog is a read-only, in-memory view of the treatment and coverage
// tables, loaded once at startup. Lookups never touch the database.
type Catalog struct {
	mu         sync.RWMutex
	treatments map[int]Treatment
	coverages  map[int]Coverage
}

// LoadCatalog reads both catalog tables into memory.
func LoadCatalog(db *gorm.DB) (*Catalog, error) {
	var treatments []Treatment
	if err := db.Find(&treatments).Error; err != nil {
		return nil, err
	}
	var coverages []Coverage
	if err := db.Find(&coverages).Error; err != nil {
		return nil, err
	}
	return NewCatalog(treatments, coverages), nil
}

// NewCatalog builds a catalog from already-loaded rows.
func NewCatalog(treatments []Treatment, coverages []Coverage) *Catalog {
	c := &Catalog{
		treatments: make(map[int]Treatment, len(treatments)),
		coverages:  make(map[int]Coverage, len(coverages)),
	}
	for _, t := range treatments {
		c.treatments[t.ID] = t
	}
	for _, cov := range coverages {
		c.coverages[cov.ID] = cov
	}
	return c
}

// Treatment looks up a treatment by id.
func (c *Catalog) Treatment(id int) (Treatment, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.treatments[id]
	return t, ok
}

// Coverage looks up a coverage by id.
func (c *Catalog) Coverage(id int) (Coverage, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	cov, ok := c.coverages[id]
	return cov, ok
}

// CoverageByName looks up a coverage by its (treatment) name.
func (c *Catalog) CoverageByName(name string) (Coverage, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, cov := range c.coverages {
		if cov.Name == name {
			return cov, true
		}
	}
	return Coverage{}, false
}

// Treatments returns all catalog treatments.
func (c *Catalog) Treatments() []Treatment {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Treatment, 0, len(c.treatments))
	for _, t := range c.treatments {
		out = append(out, t)
	}
	return out
}

// Coverages returns all catalog coverages.
func (c *Catalog) Coverages() []Coverage {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Coverage, 0, len(c.coverages))
	for _, cov := range c.coverages {
		out = append(out, cov)
	}
	return out
}
