package models

import "time"

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

type User struct {
	ID                       uint      `gorm:"primaryKey" json:"id"`
	Name                     string    `gorm:"not null" json:"name"`
	Email                    string    `gorm:"unique;not null" json:"email"`
	Password                 string    `gorm:"not null" json:"-"`
	Role                     Role      `gorm:"type:VARCHAR(10);default:'USER'" json:"role"`
	DefaultShippingAddressID *uint     `json:"default_shipping_address_id"`
	DefaultBillingAddressID  *uint     `json:"default_billing_address_id"`
	Addresses                []Address `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"addresses,omitempty"`
	CreatedAt                time.Time `json:"created_at"`
	UpdatedAt                time.Time `json:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
