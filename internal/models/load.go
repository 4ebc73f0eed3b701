package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LoadStatus is the lifecycle state of a load. The schema accepts any of the
// defined values at any time; transition ordering is an API-layer concern.
type LoadStatus string

const (
	StatusCreated    LoadStatus = "CREATED"
	StatusPending    LoadStatus = "PENDING"
	StatusOptimizing LoadStatus = "OPTIMIZING"
	StatusAvailable  LoadStatus = "AVAILABLE"
	StatusReserved   LoadStatus = "RESERVED"
	StatusAssigned   LoadStatus = "ASSIGNED"
	StatusInTransit  LoadStatus = "IN_TRANSIT"
	StatusAtPickup   LoadStatus = "AT_PICKUP"
	StatusLoaded     LoadStatus = "LOADED"
	StatusAtDropoff  LoadStatus = "AT_DROPOFF"
	StatusDelivered  LoadStatus = "DELIVERED"
	StatusCompleted  LoadStatus = "COMPLETED"
	StatusCancelled  LoadStatus = "CANCELLED"
	StatusExpired    LoadStatus = "EXPIRED"
	StatusDelayed    LoadStatus = "DELAYED"
	StatusException  LoadStatus = "EXCEPTION"
	StatusResolved   LoadStatus = "RESOLVED"
)

// LoadStatusSequence is the canonical forward ordering of the happy path.
// Nothing in the write path consults it; dashboards use it for display order.
var LoadStatusSequence = []LoadStatus{
	StatusCreated, StatusPending, StatusOptimizing, StatusAvailable,
	StatusReserved, StatusAssigned, StatusInTransit, StatusAtPickup,
	StatusLoaded, StatusAtDropoff, StatusDelivered, StatusCompleted,
}

var allLoadStatuses = map[LoadStatus]bool{
	StatusCreated: true, StatusPending: true, StatusOptimizing: true,
	StatusAvailable: true, StatusReserved: true, StatusAssigned: true,
	StatusInTransit: true, StatusAtPickup: true, StatusLoaded: true,
	StatusAtDropoff: true, StatusDelivered: true, StatusCompleted: true,
	StatusCancelled: true, StatusExpired: true, StatusDelayed: true,
	StatusException: true, StatusResolved: true,
}

// ValidLoadStatus reports whether s is one of the 17 defined statuses.
func ValidLoadStatus(s LoadStatus) bool {
	return allLoadStatuses[s]
}

// EquipmentType is the trailer category required to carry a load.
type EquipmentType string

const (
	EquipmentDryVan       EquipmentType = "DRY_VAN"
	EquipmentRefrigerated EquipmentType = "REFRIGERATED"
	EquipmentFlatbed      EquipmentType = "FLATBED"
)

// ValidEquipmentType reports whether e is one of the defined equipment types.
func ValidEquipmentType(e EquipmentType) bool {
	switch e {
	case EquipmentDryVan, EquipmentRefrigerated, EquipmentFlatbed:
		return true
	}
	return false
}

// Dimensions is the load's physical size in feet, persisted as a jsonb column.
type Dimensions struct {
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (d Dimensions) Value() (driver.Value, error) {
	return json.Marshal(d)
}

func (d *Dimensions) Scan(value interface{}) error {
	return scanJSON(value, d)
}

// Valid reports whether all three measurements are positive.
func (d Dimensions) Valid() bool {
	return d.Length > 0 && d.Width > 0 && d.Height > 0
}

// TemperatureRequirements describes the reefer setpoint window in °F.
// Only meaningful for REFRIGERATED loads, but not constrained to them.
type TemperatureRequirements struct {
	MinDegF    float64 `json:"min_deg_f"`
	MaxDegF    float64 `json:"max_deg_f"`
	Continuous bool    `json:"continuous,omitempty"`
}

func (t TemperatureRequirements) Value() (driver.Value, error) {
	return json.Marshal(t)
}

func (t *TemperatureRequirements) Scan(value interface{}) error {
	return scanJSON(value, t)
}

// Load represents one shipment request from a shipper, mirroring the loads
// table column for column.
type Load struct {
	LoadID          string        `json:"load_id" gorm:"column:load_id;type:uuid;primaryKey;default:gen_random_uuid()"`
	ShipperID       string        `json:"shipper_id" gorm:"type:uuid;not null;index"`
	ReferenceNumber string        `json:"reference_number" gorm:"unique;not null"`
	Description     string        `json:"description,omitempty"`
	EquipmentType   EquipmentType `json:"equipment_type" gorm:"type:equipment_type;not null;index"`

	Weight     float64    `json:"weight" gorm:"not null"` // pounds
	Dimensions Dimensions `json:"dimensions" gorm:"type:jsonb;not null"`
	Volume     *float64   `json:"volume,omitempty"` // cubic feet, not derived from dimensions
	Pallets    *int       `json:"pallets,omitempty"`
	Commodity  string     `json:"commodity,omitempty"`

	Status LoadStatus `json:"status" gorm:"type:load_status;not null;default:'CREATED';index"`

	PickupEarliest   time.Time `json:"pickup_earliest" gorm:"not null;index"`
	PickupLatest     time.Time `json:"pickup_latest" gorm:"not null"`
	DeliveryEarliest time.Time `json:"delivery_earliest" gorm:"not null;index"`
	DeliveryLatest   time.Time `json:"delivery_latest" gorm:"not null"`

	OfferedRate             *float64                 `json:"offered_rate,omitempty" gorm:"type:numeric(10,2)"`
	SpecialInstructions     string                   `json:"special_instructions,omitempty"`
	IsHazardous             bool                     `json:"is_hazardous" gorm:"not null;default:false"`
	TemperatureRequirements *TemperatureRequirements `json:"temperature_requirements,omitempty" gorm:"type:jsonb"`

	CreatedAt time.Time `json:"created_at" gorm:"not null"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null"`
}

func (Load) TableName() string {
	return "loads"
}

// BeforeCreate assigns the generated key and default status so application
// inserts behave the same as direct SQL relying on the column defaults.
func (l *Load) BeforeCreate(tx *gorm.DB) error {
	if l.LoadID == "" {
		l.LoadID = uuid.NewString()
	}
	if l.Status == "" {
		l.Status = StatusCreated
	}
	return nil
}

// LoadSearch is the filter set for load queries. Zero values mean "no filter".
type LoadSearch struct {
	ShipperID     string        `json:"shipper_id"`
	Status        LoadStatus    `json:"status"`
	EquipmentType EquipmentType `json:"equipment_type"`
	PickupAfter   *time.Time    `json:"pickup_after"`
	PickupBefore  *time.Time    `json:"pickup_before"`
	Limit         int           `json:"limit"`
	Offset        int           `json:"offset"`
}

func scanJSON(value interface{}, dest interface{}) error {
	if value == nil {
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, dest)
	case string:
		return json.Unmarshal([]byte(v), dest)
	}
	return fmt.Errorf("cannot scan %T into %T", value, dest)
}
