package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// HubType categorizes the physical facility behind a smart hub.
type HubType string

const (
	HubTruckStop          HubType = "TRUCK_STOP"
	HubDistributionCenter HubType = "DISTRIBUTION_CENTER"
	HubRestArea           HubType = "REST_AREA"
	HubWarehouse          HubType = "WAREHOUSE"
	HubTerminal           HubType = "TERMINAL"
	HubYard               HubType = "YARD"
	HubOther              HubType = "OTHER"
)

// ValidHubType reports whether h is one of the 7 defined hub types.
func ValidHubType(h HubType) bool {
	switch h {
	case HubTruckStop, HubDistributionCenter, HubRestArea,
		HubWarehouse, HubTerminal, HubYard, HubOther:
		return true
	}
	return false
}

// Amenities is the hub's amenity tag list, persisted as jsonb.
type Amenities []string

func (a Amenities) Value() (driver.Value, error) {
	if a == nil {
		return json.Marshal([]string{})
	}
	return json.Marshal(a)
}

func (a *Amenities) Scan(value interface{}) error {
	return scanJSON(value, a)
}

// DayHours is an open/close pair in "15:04" local time.
type DayHours struct {
	Open  string `json:"open"`
	Close string `json:"close"`
}

// OperatingHours maps a lowercase weekday name to its hours. Days absent from
// the map are closed.
type OperatingHours map[string]DayHours

func (o OperatingHours) Value() (driver.Value, error) {
	if o == nil {
		return json.Marshal(map[string]DayHours{})
	}
	return json.Marshal(o)
}

func (o *OperatingHours) Scan(value interface{}) error {
	return scanJSON(value, o)
}

// SmartHub is a strategic relay location where drivers exchange loads to cut
// empty miles. Hubs are deactivated, never deleted.
type SmartHub struct {
	HubID   string  `json:"hub_id" gorm:"column:hub_id;type:uuid;primaryKey;default:gen_random_uuid()"`
	Name    string  `json:"name" gorm:"not null"`
	HubType HubType `json:"hub_type" gorm:"type:hub_type;not null;index"`

	Latitude  float64 `json:"latitude" gorm:"not null;index:idx_smart_hubs_lat_lon,priority:1"`
	Longitude float64 `json:"longitude" gorm:"not null;index:idx_smart_hubs_lat_lon,priority:2"`

	Address string `json:"address,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Zip     string `json:"zip,omitempty"`

	Amenities      Amenities      `json:"amenities,omitempty" gorm:"type:jsonb"`
	Capacity       int            `json:"capacity" gorm:"not null;default:0"` // trucks
	OperatingHours OperatingHours `json:"operating_hours,omitempty" gorm:"type:jsonb"`

	EfficiencyScore float64 `json:"efficiency_score" gorm:"not null;default:0;index"`
	NetworkImpact   float64 `json:"network_impact" gorm:"not null;default:0"`

	Active bool `json:"active" gorm:"not null;default:true;index"`

	CreatedAt time.Time `json:"created_at" gorm:"not null"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null"`
}

func (SmartHub) TableName() string {
	return "smart_hubs"
}

func (h *SmartHub) BeforeCreate(tx *gorm.DB) error {
	if h.HubID == "" {
		h.HubID = uuid.NewString()
	}
	return nil
}

// HubSearch filters hub listings. Zero values mean "no filter".
type HubSearch struct {
	HubType    HubType `json:"hub_type"`
	ActiveOnly bool    `json:"active_only"`
}
