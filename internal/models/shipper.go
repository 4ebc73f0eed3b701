package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Shipper owns loads. Deleting a shipper cascades to every load it posted.
type Shipper struct {
	ShipperID    string `json:"shipper_id" gorm:"column:shipper_id;type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyName  string `json:"company_name" gorm:"not null"`
	ContactEmail string `json:"contact_email" gorm:"unique;not null"`
	Phone        string `json:"phone,omitempty"`
	Address      string `json:"address,omitempty"`
	City         string `json:"city,omitempty"`
	State        string `json:"state,omitempty"`
	Active       bool   `json:"active" gorm:"not null;default:true"`

	CreatedAt time.Time `json:"created_at" gorm:"not null"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null"`
}

func (Shipper) TableName() string {
	return "shippers"
}

func (s *Shipper) BeforeCreate(tx *gorm.DB) error {
	if s.ShipperID == "" {
		s.ShipperID = uuid.NewString()
	}
	return nil
}
