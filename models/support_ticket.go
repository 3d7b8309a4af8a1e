package models

import "time"

const (
	TicketStatusOpen       = "OPEN"
	TicketStatusInProgress = "IN_PROGRESS"
	TicketStatusResolved   = "RESOLVED"
	TicketStatusClosed     = "CLOSED"
)

const (
	TicketPriorityLow    = "LOW"
	TicketPriorityMedium = "MEDIUM"
	TicketPriorityHigh   = "HIGH"
	TicketPriorityUrgent = "URGENT"
)

type SupportTicket struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	TicketNo    string     `gorm:"type:varchar(16);uniqueIndex;not null" json:"ticket_no"`
	CustomerID  uint       `gorm:"not null;index" json:"customer_id"`
	Customer    *Customer  `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Subject     string     `gorm:"type:varchar(255);not null" json:"subject"`
	Description string     `gorm:"type:text" json:"description"`
	Priority    string     `gorm:"type:varchar(10);not null;default:'MEDIUM'" json:"priority"`
	Status      string     `gorm:"type:varchar(20);not null;default:'OPEN';index" json:"status"`
	AssigneeID  *uint      `gorm:"index" json:"assignee_id,omitempty"`
	Assignee    *Employee  `gorm:"foreignKey:AssigneeID" json:"assignee,omitempty"`
	ResolvedAt  *time.Time `json:"resolved_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
