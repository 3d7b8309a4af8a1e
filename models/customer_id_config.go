package models

import "time"

// CustomerIDConfig keeps the next sequence number handed out for a prefix.
type CustomerIDConfig struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Prefix       string    `gorm:"type:varchar(5);uniqueIndex;not null" json:"prefix"`
	NextSequence int       `gorm:"not null;default:1" json:"next_sequence"`
	Active       bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
