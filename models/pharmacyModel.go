package models

// PrescriptionStatus is the lifecycle state of a prescription.
type PrescriptionStatus int

const (
	PrescriptionCreated PrescriptionStatus = iota
	PrescriptionWaitingForStock
	PrescriptionDone
	PrescriptionCancelled
)

func (s PrescriptionStatus) String() string {
	switch s {
	case PrescriptionCreated:
		return "Created"
	case PrescriptionWaitingForStock:
		return "Waiting for Stock"
	case PrescriptionDone:
		return "Done"
	case PrescriptionCancelled:
		return "Cancelled"
	}
	return "Unknown"
}

// Medicine model. The id is a generated code: MED + sequence(4).
type Medicine struct {
	ID          string  `gorm:"primaryKey;column:id;size:10" json:"id"`
	Name        string  `gorm:"column:name;size:255;unique;not null" json:"name"`
	Price       float64 `gorm:"column:price;not null" json:"price"`
	Stock       int     `gorm:"column:stock;default:0" json:"stock"`
	Description string  `gorm:"column:description;type:text" json:"description"`
	UserAction
}

func (Medicine) TableName() string {
	return "medicine"
}

// Prescription model. The id is a generated code:
// RES + medicine_count(2) + day(3) + hhmmss.
type Prescription struct {
	ID            string             `gorm:"primaryKey;column:id;size:16" json:"id"`
	PatientID     string             `gorm:"column:patient_id;size:36;not null;index" json:"patient_id"`
	Patient       Patient            `gorm:"foreignKey:PatientID;references:UserID" json:"patient"`
	AppointmentID *string            `gorm:"column:appointment_id;size:10;index" json:"appointment_id"`
	Status        PrescriptionStatus `gorm:"column:status;default:0" json:"status"`
	TotalPrice    float64            `gorm:"column:total_price;default:0" json:"total_price"`
	ProcessedBy   *string            `gorm:"column:processed_by;size:36" json:"processed_by"`
	Medicines     []MedicineQuantity `gorm:"foreignKey:PrescriptionID;references:ID" json:"medicines"`
	UserAction
}

func (Prescription) TableName() string {
	return "prescription"
}

// MedicineQuantity joins a prescription to a medicine with the requested and
// fulfilled quantities. FulfilledQuantity only ever grows, capped at Quantity.
type MedicineQuantity struct {
	ID                string   `gorm:"primaryKey;column:id;size:36" json:"id"`
	PrescriptionID    string   `gorm:"column:prescription_id;size:16;not null;index;uniqueIndex:idx_prescription_medicine" json:"prescription_id"`
	MedicineID        string   `gorm:"column:medicine_id;size:10;not null;uniqueIndex:idx_prescription_medicine" json:"medicine_id"`
	Medicine          Medicine `gorm:"foreignKey:MedicineID;references:ID" json:"medicine"`
	Quantity          int      `gorm:"column:quantity;not null" json:"quantity"`
	FulfilledQuantity int      `gorm:"column:fulfilled_quantity;default:0" json:"fulfilled_quantity"`
}

func (MedicineQuantity) TableName() string {
	return "medicine_quantity"
}

// RemainingQuantity is the still-unfulfilled part of the line.
func (mq *MedicineQuantity) RemainingQuantity() int {
	return mq.Quantity - mq.FulfilledQuantity
}

// LineTotal is the price of the fulfilled part of the line.
func (mq *MedicineQuantity) LineTotal() float64 {
	return float64(mq.FulfilledQuantity) * mq.Medicine.Price
}

// RequestedTotal sums the requested quantities times the medicine prices.
func (p *Prescription) RequestedTotal() float64 {
	total := 0.0
	for i := range p.Medicines {
		total += float64(p.Medicines[i].Quantity) * p.Medicines[i].Medicine.Price
	}
	return total
}

// AllocateStock draws each line's remaining quantity from the loaded medicine
// stock, fulfilling fully where stock suffices and partially otherwise. Both
// the lines and their embedded medicines are mutated in place; persistence is
// the caller's concern. Returns true when every line ended up fully
// fulfilled.
func (p *Prescription) AllocateStock() bool {
	allFulfilled := true
	for i := range p.Medicines {
		line := &p.Medicines[i]
		remaining := line.RemainingQuantity()
		if line.Medicine.Stock >= remaining {
			line.Medicine.Stock -= remaining
			line.FulfilledQuantity += remaining
		} else {
			line.FulfilledQuantity += line.Medicine.Stock
			line.Medicine.Stock = 0
			allFulfilled = false
		}
	}
	return allFulfilled
}
