package models

import (
	"time"

	"gorm.io/datatypes"
)

type Vehicle struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	RegistrationNo string    `gorm:"type:varchar(32);uniqueIndex;not null" json:"registration_no"`
	Make           string    `gorm:"type:varchar(100)" json:"make"`
	Model          string    `gorm:"type:varchar(100)" json:"model"`
	FuelType       string    `gorm:"type:varchar(20);not null;default:'PETROL'" json:"fuel_type"`
	EmployeeID     *uint     `gorm:"index" json:"employee_ref,omitempty"`
	Employee       *Employee `gorm:"foreignKey:EmployeeID" json:"employee,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type PetrolBill struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	VehicleID  uint           `gorm:"not null;index" json:"vehicle_id"`
	Vehicle    *Vehicle       `gorm:"foreignKey:VehicleID" json:"vehicle,omitempty"`
	EmployeeID uint           `gorm:"not null;index" json:"employee_ref"`
	Employee   *Employee      `gorm:"foreignKey:EmployeeID" json:"employee,omitempty"`
	BillDate   datatypes.Date `gorm:"not null;index" json:"bill_date"`
	Litres     float64        `gorm:"type:decimal(10,2);not null" json:"litres"`
	Amount     float64        `gorm:"type:decimal(10,2);not null" json:"amount"`
	Odometer   int            `json:"odometer,omitempty"`
	Station    string         `gorm:"type:varchar(255)" json:"station,omitempty"`
	BillNumber string         `gorm:"type:varchar(64)" json:"bill_number,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}
