package storage

import (
	"time"

	"gorm.io/gorm"

	"github.com/My-riad/jit-tdexn2-sub003/internal/models"
	"github.com/My-riad/jit-tdexn2-sub003/internal/utils"
)

// DatabaseStore is the PostgreSQL-backed store. Structural invariants
// (uniqueness, FK cascade, enum domains, updated_at refresh) are enforced by
// the schema itself; this layer only translates the rejections it gets back.
type DatabaseStore struct {
	db *gorm.DB
}

// NewDatabaseStore creates a store backed by the given GORM connection.
func NewDatabaseStore(db *gorm.DB) *DatabaseStore {
	return &DatabaseStore{db: db}
}

// Shipper operations

func (d *DatabaseStore) CreateShipper(shipper *models.Shipper) (*models.Shipper, error) {
	if err := d.db.Create(shipper).Error; err != nil {
		return nil, translateError(err)
	}
	return shipper, nil
}

func (d *DatabaseStore) GetShipper(shipperID string) (*models.Shipper, error) {
	var shipper models.Shipper
	if err := d.db.First(&shipper, "shipper_id = ?", shipperID).Error; err != nil {
		return nil, translateError(err)
	}
	return &shipper, nil
}

func (d *DatabaseStore) GetAllShippers() ([]*models.Shipper, error) {
	var shippers []*models.Shipper
	if err := d.db.Order("company_name").Find(&shippers).Error; err != nil {
		return nil, translateError(err)
	}
	return shippers, nil
}

func (d *DatabaseStore) UpdateShipper(shipper *models.Shipper) error {
	res := d.db.Model(&models.Shipper{}).
		Where("shipper_id = ?", shipper.ShipperID).
		Select("*").Omit("shipper_id", "created_at").
		Updates(shipper)
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteShipper removes the shipper; the FK cascade removes its loads in the
// same transaction.
func (d *DatabaseStore) DeleteShipper(shipperID string) error {
	res := d.db.Delete(&models.Shipper{}, "shipper_id = ?", shipperID)
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Load operations

func (d *DatabaseStore) CreateLoad(load *models.Load) (*models.Load, error) {
	if err := d.db.Create(load).Error; err != nil {
		return nil, translateError(err)
	}
	return load, nil
}

func (d *DatabaseStore) GetLoad(loadID string) (*models.Load, error) {
	var load models.Load
	if err := d.db.First(&load, "load_id = ?", loadID).Error; err != nil {
		return nil, translateError(err)
	}
	return &load, nil
}

func (d *DatabaseStore) GetLoadByReference(referenceNumber string) (*models.Load, error) {
	var load models.Load
	if err := d.db.First(&load, "reference_number = ?", referenceNumber).Error; err != nil {
		return nil, translateError(err)
	}
	return &load, nil
}

func (d *DatabaseStore) GetLoadsByShipper(shipperID string) ([]*models.Load, error) {
	var loads []*models.Load
	if err := d.db.Where("shipper_id = ?", shipperID).Order("pickup_earliest").Find(&loads).Error; err != nil {
		return nil, translateError(err)
	}
	return loads, nil
}

func (d *DatabaseStore) SearchLoads(search *models.LoadSearch) ([]*models.Load, error) {
	q := d.db.Model(&models.Load{})
	if search.ShipperID != "" {
		q = q.Where("shipper_id = ?", search.ShipperID)
	}
	if search.Status != "" {
		q = q.Where("status = ?", search.Status)
	}
	if search.EquipmentType != "" {
		q = q.Where("equipment_type = ?", search.EquipmentType)
	}
	if search.PickupAfter != nil {
		q = q.Where("pickup_earliest >= ?", *search.PickupAfter)
	}
	if search.PickupBefore != nil {
		q = q.Where("pickup_earliest <= ?", *search.PickupBefore)
	}
	if search.Limit > 0 {
		q = q.Limit(search.Limit)
	}
	if search.Offset > 0 {
		q = q.Offset(search.Offset)
	}

	var loads []*models.Load
	if err := q.Order("pickup_earliest").Find(&loads).Error; err != nil {
		return nil, translateError(err)
	}
	return loads, nil
}

// UpdateLoad rewrites every column except the immutable key and created_at.
// The caller never controls updated_at: the row trigger overwrites it.
func (d *DatabaseStore) UpdateLoad(load *models.Load) error {
	res := d.db.Model(&models.Load{}).
		Where("load_id = ?", load.LoadID).
		Select("*").Omit("load_id", "created_at").
		Updates(load)
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (d *DatabaseStore) UpdateLoadStatus(loadID string, status models.LoadStatus) error {
	res := d.db.Model(&models.Load{}).
		Where("load_id = ?", loadID).
		Update("status", status)
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (d *DatabaseStore) DeleteLoad(loadID string) error {
	res := d.db.Delete(&models.Load{}, "load_id = ?", loadID)
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// GetExpirableLoads returns loads still waiting for a carrier whose pickup
// window closed before cutoff.
func (d *DatabaseStore) GetExpirableLoads(cutoff time.Time) ([]*models.Load, error) {
	var loads []*models.Load
	err := d.db.
		Where("status IN ?", []models.LoadStatus{
			models.StatusCreated, models.StatusPending,
			models.StatusOptimizing, models.StatusAvailable,
		}).
		Where("pickup_latest < ?", cutoff).
		Find(&loads).Error
	if err != nil {
		return nil, translateError(err)
	}
	return loads, nil
}

// Smart hub operations

func (d *DatabaseStore) CreateHub(hub *models.SmartHub) (*models.SmartHub, error) {
	if err := d.db.Create(hub).Error; err != nil {
		return nil, translateError(err)
	}
	return hub, nil
}

func (d *DatabaseStore) GetHub(hubID string) (*models.SmartHub, error) {
	var hub models.SmartHub
	if err := d.db.First(&hub, "hub_id = ?", hubID).Error; err != nil {
		return nil, translateError(err)
	}
	return &hub, nil
}

func (d *DatabaseStore) SearchHubs(search *models.HubSearch) ([]*models.SmartHub, error) {
	q := d.db.Model(&models.SmartHub{})
	if search.HubType != "" {
		q = q.Where("hub_type = ?", search.HubType)
	}
	if search.ActiveOnly {
		q = q.Where("active = ?", true)
	}

	var hubs []*models.SmartHub
	if err := q.Order("efficiency_score DESC").Find(&hubs).Error; err != nil {
		return nil, translateError(err)
	}
	return hubs, nil
}

// GetNearbyHubs pre-filters on the (latitude, longitude) index with a degree
// bounding box, then refines with great-circle distance.
func (d *DatabaseStore) GetNearbyHubs(lat, lon, radiusKm float64) ([]*models.SmartHub, error) {
	latDelta, lonDelta := utils.BoundingBoxDeltas(lat, radiusKm)

	var candidates []*models.SmartHub
	err := d.db.
		Where("active = ?", true).
		Where("latitude BETWEEN ? AND ?", lat-latDelta, lat+latDelta).
		Where("longitude BETWEEN ? AND ?", lon-lonDelta, lon+lonDelta).
		Find(&candidates).Error
	if err != nil {
		return nil, translateError(err)
	}

	var hubs []*models.SmartHub
	for _, hub := range candidates {
		if utils.HaversineKm(lat, lon, hub.Latitude, hub.Longitude) <= radiusKm {
			hubs = append(hubs, hub)
		}
	}
	return hubs, nil
}

func (d *DatabaseStore) UpdateHub(hub *models.SmartHub) error {
	res := d.db.Model(&models.SmartHub{}).
		Where("hub_id = ?", hub.HubID).
		Select("*").Omit("hub_id", "created_at").
		Updates(hub)
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (d *DatabaseStore) DeactivateHub(hubID string) error {
	res := d.db.Model(&models.SmartHub{}).
		Where("hub_id = ?", hubID).
		Update("active", false)
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Analytics operations

type statusCount struct {
	Status models.LoadStatus
	Count  int64
}

func (d *DatabaseStore) CountLoadsByStatus() (map[models.LoadStatus]int64, error) {
	var rows []statusCount
	err := d.db.Model(&models.Load{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, translateError(err)
	}
	counts := make(map[models.LoadStatus]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}

type equipmentCount struct {
	EquipmentType models.EquipmentType
	Count         int64
}

func (d *DatabaseStore) CountLoadsByEquipment() (map[models.EquipmentType]int64, error) {
	var rows []equipmentCount
	err := d.db.Model(&models.Load{}).
		Select("equipment_type, count(*) as count").
		Group("equipment_type").
		Scan(&rows).Error
	if err != nil {
		return nil, translateError(err)
	}
	counts := make(map[models.EquipmentType]int64, len(rows))
	for _, r := range rows {
		counts[r.EquipmentType] = r.Count
	}
	return counts, nil
}

func (d *DatabaseStore) CountLoadsPickingUpBefore(cutoff time.Time) (int64, error) {
	var count int64
	err := d.db.Model(&models.Load{}).
		Where("status IN ?", []models.LoadStatus{
			models.StatusCreated, models.StatusPending,
			models.StatusOptimizing, models.StatusAvailable,
		}).
		Where("pickup_latest < ?", cutoff).
		Count(&count).Error
	return count, translateError(err)
}

func (d *DatabaseStore) CountReeferLoadsMissingTemperature() (int64, error) {
	var count int64
	err := d.db.Model(&models.Load{}).
		Where("equipment_type = ?", models.EquipmentRefrigerated).
		Where("temperature_requirements IS NULL").
		Count(&count).Error
	return count, translateError(err)
}
