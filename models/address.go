package models

import "strings"

type Address struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Line1   string `gorm:"not null" json:"line1"`
	Line2   string `json:"line2,omitempty"`
	City    string `gorm:"not null" json:"city"`
	Country string `gorm:"not null" json:"country"`
	ZipCode string `gorm:"not null" json:"zip_code"`
	UserID  uint   `gorm:"index;not null" json:"user_id"`
}

// Formatted renders the address as the single-line string snapshotted onto orders.
func (a Address) Formatted() string {
	parts := []string{a.Line1}
	if a.Line2 != "" {
		parts = append(parts, a.Line2)
	}
	parts = append(parts, a.City, a.Country, a.ZipCode)
	return strings.Join(parts, ", ")
}
