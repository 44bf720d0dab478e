package domain

import "time"

// Transmission enumerates gearbox types.
type Transmission string

const (
	TransmissionManual    Transmission = "Manual"
	TransmissionAutomatic Transmission = "Automatic"
)

// FuelType enumerates supported fuel types.
type FuelType string

const (
	FuelPetrol   FuelType = "Petrol"
	FuelDiesel   FuelType = "Diesel"
	FuelCNG      FuelType = "CNG"
	FuelHybrid   FuelType = "Hybrid"
	FuelElectric FuelType = "Electric"
)

// Condition enumerates vehicle condition grades.
type Condition string

const (
	ConditionBrandNew      Condition = "Brand New"
	ConditionUsedExcellent Condition = "Used Excellent"
	ConditionUsedGood      Condition = "Used Good"
	ConditionNeedsRepair   Condition = "Needs Repair"
)

// MinListingImages and MaxListingImages bound the image set per advertisement.
const (
	MinListingImages = 1
	MaxListingImages = 4
)

// Car is a published for-sale advertisement, owned by exactly one user.
type Car struct {
	ID             string
	Title          string
	Make           string
	Model          string
	Year           int
	Price          float64
	Description    string
	ImageURLs      []string
	Mileage        int
	Transmission   Transmission
	Color          string
	FuelType       FuelType
	EngineCapacity int
	Condition      Condition
	SellerName     string
	SellerPhone    string
	SellerEmail    string
	OwnerID        string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ValidTransmission reports whether the value is a known transmission.
func ValidTransmission(t Transmission) bool {
	return t == TransmissionManual || t == TransmissionAutomatic
}

// ValidFuelType reports whether the value is a known fuel type.
func ValidFuelType(f FuelType) bool {
	switch f {
	case FuelPetrol, FuelDiesel, FuelCNG, FuelHybrid, FuelElectric:
		return true
	}
	return false
}

// ValidCondition reports whether the value is a known condition grade.
func ValidCondition(c Condition) bool {
	switch c {
	case ConditionBrandNew, ConditionUsedExcellent, ConditionUsedGood, ConditionNeedsRepair:
		return true
	}
	return false
}
