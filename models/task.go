package models

import "time"

const (
	TaskStatusPending    = "PENDING"
	TaskStatusInProgress = "IN_PROGRESS"
	TaskStatusCompleted  = "COMPLETED"
	TaskStatusCancelled  = "CANCELLED"
)

// Task is never deleted; cancellation is a status.
type Task struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	EmployeeID  uint       `gorm:"not null;index" json:"employee_ref"`
	Employee    *Employee  `gorm:"foreignKey:EmployeeID" json:"employee,omitempty"`
	Title       string     `gorm:"type:varchar(255);not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	Category    *string    `gorm:"type:varchar(100)" json:"category,omitempty"`
	Location    *string    `gorm:"type:varchar(255)" json:"location,omitempty"`
	StartTime   *string    `gorm:"type:varchar(5)" json:"start_time,omitempty"`
	EndTime     *string    `gorm:"type:varchar(5)" json:"end_time,omitempty"`
	AssignedBy  string     `gorm:"type:varchar(255)" json:"assigned_by"`
	Status      string     `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	AssignedAt  time.Time  `gorm:"not null;index" json:"assigned_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// IsTerminal reports whether the task can no longer change status.
func (t Task) IsTerminal() bool {
	return t.Status == TaskStatusCompleted || t.Status == TaskStatusCancelled
}

// ValidTaskStatus reports whether s is one of the task states.
func ValidTaskStatus(s string) bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted, TaskStatusCancelled:
		return true
	}
	return false
}
