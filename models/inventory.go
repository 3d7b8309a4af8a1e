package models

import "time"

const (
	LoanStatusOut      = "OUT"
	LoanStatusReturned = "RETURNED"
)

// InventoryItem is looked up by Code, the value printed on its barcode.
type InventoryItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Code      string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"code"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Quantity  int       `gorm:"not null;default:0" json:"quantity"`
	Available int       `gorm:"not null;default:0" json:"available"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type InventoryLoan struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	ItemID          uint           `gorm:"not null;index" json:"item_id"`
	Item            *InventoryItem `gorm:"foreignKey:ItemID" json:"item,omitempty"`
	EmployeeID      uint           `gorm:"not null;index" json:"employee_ref"`
	Employee        *Employee      `gorm:"foreignKey:EmployeeID" json:"employee,omitempty"`
	Quantity        int            `gorm:"not null" json:"quantity"`
	Status          string         `gorm:"type:varchar(10);not null;default:'OUT';index" json:"status"`
	CheckedOutAt    time.Time      `gorm:"not null" json:"checked_out_at"`
	DueAt           *time.Time     `json:"due_at,omitempty"`
	ReturnedAt      *time.Time     `json:"returned_at,omitempty"`
	OverdueNotified bool           `gorm:"not null;default:false" json:"-"`
	Note            string         `gorm:"type:varchar(255)" json:"note,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}
