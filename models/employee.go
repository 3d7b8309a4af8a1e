package models

import "time"

// Employee roles. Field engineers get their clock-out cleared when a new task lands mid-day.
const (
	EmployeeRoleFieldEngineer = "FIELD_ENGINEER"
	EmployeeRoleOfficeStaff   = "OFFICE_STAFF"
)

type Employee struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	EmployeeCode string    `gorm:"type:varchar(32);uniqueIndex;not null" json:"employee_id"`
	Name         string    `gorm:"type:varchar(255);not null" json:"name"`
	Email        string    `gorm:"type:varchar(255)" json:"email"`
	Phone        string    `gorm:"type:varchar(32)" json:"phone,omitempty"`
	Role         string    `gorm:"type:varchar(20);not null;default:'OFFICE_STAFF'" json:"role"`
	Timezone     *string   `gorm:"type:varchar(64)" json:"timezone,omitempty"`
	Active       bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsFieldEngineer reports whether the employee works on site.
func (e Employee) IsFieldEngineer() bool {
	return e.Role == EmployeeRoleFieldEngineer
}
