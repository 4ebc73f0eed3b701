package storage

import (
	"time"

	"github.com/My-riad/jit-tdexn2-sub003/internal/models"
)

// Store defines the interface for storage operations
type Store interface {
	// Shipper operations
	CreateShipper(shipper *models.Shipper) (*models.Shipper, error)
	GetShipper(shipperID string) (*models.Shipper, error)
	GetAllShippers() ([]*models.Shipper, error)
	UpdateShipper(shipper *models.Shipper) error
	DeleteShipper(shipperID string) error // cascades to the shipper's loads

	// Load operations
	CreateLoad(load *models.Load) (*models.Load, error)
	GetLoad(loadID string) (*models.Load, error)
	GetLoadByReference(referenceNumber string) (*models.Load, error)
	GetLoadsByShipper(shipperID string) ([]*models.Load, error)
	SearchLoads(search *models.LoadSearch) ([]*models.Load, error)
	UpdateLoad(load *models.Load) error
	UpdateLoadStatus(loadID string, status models.LoadStatus) error
	DeleteLoad(loadID string) error
	GetExpirableLoads(cutoff time.Time) ([]*models.Load, error)

	// Smart hub operations
	CreateHub(hub *models.SmartHub) (*models.SmartHub, error)
	GetHub(hubID string) (*models.SmartHub, error)
	SearchHubs(search *models.HubSearch) ([]*models.SmartHub, error)
	GetNearbyHubs(lat, lon, radiusKm float64) ([]*models.SmartHub, error)
	UpdateHub(hub *models.SmartHub) error
	DeactivateHub(hubID string) error

	// Analytics operations
	CountLoadsByStatus() (map[models.LoadStatus]int64, error)
	CountLoadsByEquipment() (map[models.EquipmentType]int64, error)
	CountLoadsPickingUpBefore(cutoff time.Time) (int64, error)
	CountReeferLoadsMissingTemperature() (int64, error)
}
