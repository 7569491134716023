package domain

import "time"

// ApprovalStatus represents a driver's onboarding approval state.
// The approval workflow itself lives outside this service; offers only
// read the current value.
type ApprovalStatus string

const (
	ApprovalStatusPending   ApprovalStatus = "pending"
	ApprovalStatusApproved  ApprovalStatus = "approved"
	ApprovalStatusSuspended ApprovalStatus = "suspended"
)

// Driver represents a driver profile.
type Driver struct {
	ID             string
	Name           string
	Phone          string
	ApprovalStatus ApprovalStatus
	VehicleType    VehicleType
	CreatedAt      time.Time
}

// Approved reports whether the driver may submit offers.
func (d *Driver) Approved() bool {
	return d.ApprovalStatus == ApprovalStatusApproved
}
