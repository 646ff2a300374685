package entity

import (
	"time"
)

// Supplier is referenced by products and orders, never owned by them.
type Supplier struct {
	ID          string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Name        string    `json:"name" gorm:"size:200;not null"`
	ContactInfo string    `json:"contact_info" gorm:"size:200"`
	Address     string    `json:"address" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Supplier) TableName() string {
	return "scm_suppliers"
}
