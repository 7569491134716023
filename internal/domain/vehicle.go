package domain

// VehicleType identifies the class of vehicle a request asks for and a
// driver provides. The pricing table keys off this value.
type VehicleType string

const (
	VehicleTypeStandard   VehicleType = "standard"
	VehicleTypePremium    VehicleType = "premium"
	VehicleTypeVan        VehicleType = "van"
	VehicleTypeMotorcycle VehicleType = "motorcycle"
)

// ValidVehicleType reports whether s names a known vehicle type.
func ValidVehicleType(s string) bool {
	switch VehicleType(s) {
	case VehicleTypeStandard, VehicleTypePremium, VehicleTypeVan, VehicleTypeMotorcycle:
		return true
	}
	return false
}
