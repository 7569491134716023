package domain

import "time"

// User represents a customer in the system.
type User struct {
	ID        string
	Name      string
	Phone     string
	CreatedAt time.Time
}
