package models

// Specialization is a doctor's medical specialization.
type Specialization int

const (
	GeneralPractitioner Specialization = iota
	Dentist
	Pediatrician
	Surgery
	PlasticSurgery
	Cardiology
	Dermatology
	Ophthalmology
	Obstetrics
	InternalMedicine
	Pulmonology
	Otolaryngology
	Radiology
	Psychiatry
	Anesthesiology
	Neurology
	Urology
)

// Code returns the 3-letter specialty code used in appointment and doctor IDs.
func (s Specialization) Code() string {
	switch s {
	case GeneralPractitioner:
		return "UMM"
	case Dentist:
		return "GGI"
	case Pediatrician:
		return "ANK"
	case Surgery:
		return "BDH"
	case PlasticSurgery:
		return "PRE"
	case Cardiology:
		return "JPD"
	case Dermatology:
		return "KKL"
	case Ophthalmology:
		return "MTA"
	case Obstetrics:
		return "OBG"
	case InternalMedicine:
		return "PDL"
	case Pulmonology:
		return "PRU"
	case Otolaryngology:
		return "ENT"
	case Radiology:
		return "RAD"
	case Psychiatry:
		return "KSJ"
	case Anesthesiology:
		return "ANS"
	case Neurology:
		return "NRO"
	case Urology:
		return "URO"
	}
	return "UMM"
}

func (s Specialization) String() string {
	switch s {
	case GeneralPractitioner:
		return "General Practitioner"
	case Dentist:
		return "Dentist"
	case Pediatrician:
		return "Pediatrician"
	case Surgery:
		return "Surgery"
	case PlasticSurgery:
		return "Plastic, Reconstructive, and Aesthetic Surgery"
	case Cardiology:
		return "Heart and Blood Vessels"
	case Dermatology:
		return "Skin and Venereal Diseases"
	case Ophthalmology:
		return "Eyes"
	case Obstetrics:
		return "Obstetrics and Gynecology"
	case InternalMedicine:
		return "Internal Medicine"
	case Pulmonology:
		return "Lungs"
	case Otolaryngology:
		return "Ear, Nose, Throat, Head and Neck Surgery"
	case Radiology:
		return "Radiology"
	case Psychiatry:
		return "Mental Health"
	case Anesthesiology:
		return "Anesthesia"
	case Neurology:
		return "Neurology"
	case Urology:
		return "Urology"
	}
	return "Unknown"
}

// Patient class insurance limits in Rupiah.
const (
	ClassOneLimit   = 100_000_000
	ClassTwoLimit   = 50_000_000
	ClassThreeLimit = 25_000_000
)

// Patient profile, keyed by the owning user's id.
type Patient struct {
	UserID     string `gorm:"primaryKey;column:user_id;size:36" json:"user_id"`
	User       User   `gorm:"foreignKey:UserID;references:ID" json:"user"`
	NIK        string `gorm:"column:nik;size:16;unique;not null;index" json:"nik"`
	BirthPlace string `gorm:"column:birth_place;size:255" json:"birth_place"`
	BirthDate  string `gorm:"column:birth_date" json:"birth_date"`
	Class      int    `gorm:"column:p_class;check:p_class IN (1, 2, 3);default:3" json:"p_class"`
}

func (Patient) TableName() string {
	return "patient"
}

// InsuranceLimit returns the class-based total insurance limit.
func (p *Patient) InsuranceLimit() float64 {
	switch p.Class {
	case 1:
		return ClassOneLimit
	case 2:
		return ClassTwoLimit
	case 3:
		return ClassThreeLimit
	}
	return 0
}

// AvailableInsuranceLimit subtracts the coverage held by non-cancelled
// policies from the class limit. Cancelled policies release their coverage.
func (p *Patient) AvailableInsuranceLimit(policies []Policy) float64 {
	used := 0.0
	for i := range policies {
		if policies[i].Status != PolicyCancelled && policies[i].Status != PolicyExpired {
			used += policies[i].TotalCoverage
		}
	}
	return p.InsuranceLimit() - used
}

// Doctor profile with a generated specialty code id.
type Doctor struct {
	ID                string         `gorm:"primaryKey;column:id;size:6" json:"id"`
	UserID            string         `gorm:"column:user_id;size:36;not null;index" json:"user_id"`
	User              User           `gorm:"foreignKey:UserID;references:ID" json:"user"`
	Specialization    Specialization `gorm:"column:specialization;not null" json:"specialization"`
	YearsOfExperience int            `gorm:"column:years_of_experience" json:"years_of_experience"`
	Fee               float64        `gorm:"column:fee;not null" json:"fee"`
	Schedules         []int          `gorm:"column:schedules;serializer:json" json:"schedules"` // weekdays, 0=Monday
	Appointments      []Appointment  `gorm:"foreignKey:DoctorID;references:ID" json:"-"`
}

func (Doctor) TableName() string {
	return "doctor"
}

// PracticesOn reports whether the doctor has a schedule on the given weekday
// (0=Monday .. 6=Sunday).
func (d *Doctor) PracticesOn(weekday int) bool {
	for _, day := range d.Schedules {
		if day == weekday {
			return true
		}
	}
	return false
}

// Nurse profile
type Nurse struct {
	UserID string `gorm:"primaryKey;column:user_id;size:36" json:"user_id"`
	User   User   `gorm:"foreignKey:UserID;references:ID" json:"user"`
}

func (Nurse) TableName() string {
	return "nurse"
}

// Pharmacist profile
type Pharmacist struct {
	UserID string `gorm:"primaryKey;column:user_id;size:36" json:"user_id"`
	User   User   `gorm:"foreignKey:UserID;references:ID" json:"user"`
}

func (Pharmacist) TableName() string {
	return "pharmacist"
}
