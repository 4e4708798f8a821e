package domain

import "time"

// StaffCategory is the coarse role a staff account signs in with.
type StaffCategory string

const (
	StaffCategoryAdmin StaffCategory = "admin"
	StaffCategoryStaff StaffCategory = "staff"
)

// StaffMember models a back-office employee able to sign in.
type StaffMember struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Category     StaffCategory
	Designation  *Designation
	BranchID     string
	Gender       string
	Avatar       string
	Privileges   []string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
