package models

import "time"

const (
	AttendancePresent  = "PRESENT"
	AttendanceLate     = "LATE"
	AttendanceAbsent   = "ABSENT"
	AttendanceMarkdown = "MARKDOWN"
)

const (
	ApprovalPending  = "PENDING"
	ApprovalApproved = "APPROVED"
	ApprovalRejected = "REJECTED"
)

// Attendance sources.
const (
	SourceAdminAssigned  = "ADMIN_ASSIGNED"
	SourceSelfCheckIn    = "SELF_CHECKIN"
	SourceManualOverride = "MANUAL_OVERRIDE"
)

// Attendance is one row per employee per local day. Date holds the employee's
// local midnight expressed in UTC.
type Attendance struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	EmployeeID     uint       `gorm:"not null;uniqueIndex:idx_attendance_employee_date" json:"employee_ref"`
	Employee       *Employee  `gorm:"foreignKey:EmployeeID" json:"employee,omitempty"`
	Date           time.Time  `gorm:"not null;uniqueIndex:idx_attendance_employee_date;index" json:"date"`
	ClockIn        *time.Time `json:"clock_in,omitempty"`
	ClockOut       *time.Time `json:"clock_out,omitempty"`
	LastCheckInAt  *time.Time `json:"last_check_in_at,omitempty"`
	Status         string     `gorm:"type:varchar(20);not null;default:'ABSENT'" json:"status"`
	AttemptCount   int        `gorm:"not null;default:0" json:"attempt_count"`
	Locked         bool       `gorm:"not null;default:false" json:"locked"`
	LockReason     *string    `gorm:"type:varchar(255)" json:"lock_reason,omitempty"`
	TaskID         *uint      `gorm:"index" json:"task_id,omitempty"`
	TaskStartTime  *string    `gorm:"type:varchar(5)" json:"task_start_time,omitempty"`
	TaskEndTime    *string    `gorm:"type:varchar(5)" json:"task_end_time,omitempty"`
	TaskLocation   *string    `gorm:"type:varchar(255)" json:"task_location,omitempty"`
	Source         *string    `gorm:"type:varchar(32)" json:"source,omitempty"`
	ApprovalStatus string     `gorm:"type:varchar(20);not null;default:'PENDING'" json:"approval_status"`
	ClockInLat     *float64   `json:"clock_in_lat,omitempty"`
	ClockInLng     *float64   `json:"clock_in_lng,omitempty"`
	ClockInAddress *string    `gorm:"type:varchar(512)" json:"clock_in_address,omitempty"`
	ClockInDevice  *string    `gorm:"type:varchar(512)" json:"clock_in_device,omitempty"`
	ClockOutLat    *float64   `json:"clock_out_lat,omitempty"`
	ClockOutLng    *float64   `json:"clock_out_lng,omitempty"`
	ClockOutAddr   *string    `gorm:"type:varchar(512)" json:"clock_out_address,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// ValidAttendanceStatus reports whether s is an attendance status.
func ValidAttendanceStatus(s string) bool {
	switch s {
	case AttendancePresent, AttendanceLate, AttendanceAbsent, AttendanceMarkdown:
		return true
	}
	return false
}
