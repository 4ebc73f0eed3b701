package storage

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/My-riad/jit-tdexn2-sub003/internal/models"
	"github.com/My-riad/jit-tdexn2-sub003/internal/utils"
)

// MemoryStore holds all data in memory for development and tests. It mirrors
// the schema's own rejections (unique reference, shipper FK with cascade,
// enum domains) and the trigger guarantee: every mutation overwrites
// updated_at server-side, whatever the caller passed in.
type MemoryStore struct {
	shippers map[string]*models.Shipper
	loads    map[string]*models.Load
	hubs     map[string]*models.SmartHub

	// Mutexes for thread safety
	shipperMu sync.RWMutex
	loadMu    sync.RWMutex
	hubMu     sync.RWMutex
}

// NewMemoryStore creates a new in-memory storage
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		shippers: make(map[string]*models.Shipper),
		loads:    make(map[string]*models.Load),
		hubs:     make(map[string]*models.SmartHub),
	}
}

// Shipper operations

func (m *MemoryStore) CreateShipper(shipper *models.Shipper) (*models.Shipper, error) {
	if shipper.CompanyName == "" {
		return nil, fmt.Errorf("%w: company_name", ErrNotNull)
	}
	if shipper.ContactEmail == "" {
		return nil, fmt.Errorf("%w: contact_email", ErrNotNull)
	}

	m.shipperMu.Lock()
	defer m.shipperMu.Unlock()

	for _, s := range m.shippers {
		if s.ContactEmail == shipper.ContactEmail {
			return nil, fmt.Errorf("%w: contact_email", ErrDuplicate)
		}
	}

	stored := *shipper
	if stored.ShipperID == "" {
		stored.ShipperID = uuid.NewString()
	} else if _, exists := m.shippers[stored.ShipperID]; exists {
		return nil, fmt.Errorf("%w: shipper_id", ErrDuplicate)
	}
	now := time.Now()
	stored.CreatedAt = now
	stored.UpdatedAt = now

	m.shippers[stored.ShipperID] = &stored
	out := stored
	return &out, nil
}

func (m *MemoryStore) GetShipper(shipperID string) (*models.Shipper, error) {
	m.shipperMu.RLock()
	defer m.shipperMu.RUnlock()

	shipper, exists := m.shippers[shipperID]
	if !exists {
		return nil, ErrNotFound
	}
	out := *shipper
	return &out, nil
}

func (m *MemoryStore) GetAllShippers() ([]*models.Shipper, error) {
	m.shipperMu.RLock()
	defer m.shipperMu.RUnlock()

	shippers := make([]*models.Shipper, 0, len(m.shippers))
	for _, s := range m.shippers {
		out := *s
		shippers = append(shippers, &out)
	}
	sort.Slice(shippers, func(i, j int) bool {
		return shippers[i].CompanyName < shippers[j].CompanyName
	})
	return shippers, nil
}

func (m *MemoryStore) UpdateShipper(shipper *models.Shipper) error {
	m.shipperMu.Lock()
	defer m.shipperMu.Unlock()

	existing, exists := m.shippers[shipper.ShipperID]
	if !exists {
		return ErrNotFound
	}
	for id, s := range m.shippers {
		if id != shipper.ShipperID && s.ContactEmail == shipper.ContactEmail {
			return fmt.Errorf("%w: contact_email", ErrDuplicate)
		}
	}

	stored := *shipper
	stored.CreatedAt = existing.CreatedAt
	stored.UpdatedAt = time.Now()
	m.shippers[stored.ShipperID] = &stored
	return nil
}

// DeleteShipper removes the shipper and cascades to its loads.
func (m *MemoryStore) DeleteShipper(shipperID string) error {
	m.shipperMu.Lock()
	defer m.shipperMu.Unlock()

	if _, exists := m.shippers[shipperID]; !exists {
		return ErrNotFound
	}
	delete(m.shippers, shipperID)

	m.loadMu.Lock()
	defer m.loadMu.Unlock()
	for id, load := range m.loads {
		if load.ShipperID == shipperID {
			delete(m.loads, id)
		}
	}
	return nil
}

// Load operations

func (m *MemoryStore) CreateLoad(load *models.Load) (*models.Load, error) {
	if load.ShipperID == "" {
		return nil, fmt.Errorf("%w: shipper_id", ErrNotNull)
	}
	if load.ReferenceNumber == "" {
		return nil, fmt.Errorf("%w: reference_number", ErrNotNull)
	}
	if !models.ValidEquipmentType(load.EquipmentType) {
		return nil, fmt.Errorf("%w: equipment_type %q", ErrInvalidEnum, load.EquipmentType)
	}
	if load.Status != "" && !models.ValidLoadStatus(load.Status) {
		return nil, fmt.Errorf("%w: status %q", ErrInvalidEnum, load.Status)
	}
	if load.PickupEarliest.IsZero() || load.PickupLatest.IsZero() ||
		load.DeliveryEarliest.IsZero() || load.DeliveryLatest.IsZero() {
		return nil, fmt.Errorf("%w: pickup/delivery window", ErrNotNull)
	}

	// Hold the shipper lock across the insert so a concurrent DeleteShipper
	// cannot land between the FK check and the write and miss the cascade.
	// Lock order is always shipper then load, matching DeleteShipper.
	m.shipperMu.RLock()
	defer m.shipperMu.RUnlock()
	if _, exists := m.shippers[load.ShipperID]; !exists {
		return nil, fmt.Errorf("%w: shipper %s", ErrForeignKey, load.ShipperID)
	}

	m.loadMu.Lock()
	defer m.loadMu.Unlock()

	for _, l := range m.loads {
		if l.ReferenceNumber == load.ReferenceNumber {
			return nil, fmt.Errorf("%w: reference_number %q", ErrDuplicate, load.ReferenceNumber)
		}
	}

	stored := *load
	if stored.LoadID == "" {
		stored.LoadID = uuid.NewString()
	} else if _, exists := m.loads[stored.LoadID]; exists {
		return nil, fmt.Errorf("%w: load_id", ErrDuplicate)
	}
	if stored.Status == "" {
		stored.Status = models.StatusCreated
	}
	now := time.Now()
	stored.CreatedAt = now
	stored.UpdatedAt = now

	m.loads[stored.LoadID] = &stored
	out := stored
	return &out, nil
}

func (m *MemoryStore) GetLoad(loadID string) (*models.Load, error) {
	m.loadMu.RLock()
	defer m.loadMu.RUnlock()

	load, exists := m.loads[loadID]
	if !exists {
		return nil, ErrNotFound
	}
	out := *load
	return &out, nil
}

func (m *MemoryStore) GetLoadByReference(referenceNumber string) (*models.Load, error) {
	m.loadMu.RLock()
	defer m.loadMu.RUnlock()

	for _, load := range m.loads {
		if load.ReferenceNumber == referenceNumber {
			out := *load
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) GetLoadsByShipper(shipperID string) ([]*models.Load, error) {
	return m.SearchLoads(&models.LoadSearch{ShipperID: shipperID})
}

func (m *MemoryStore) SearchLoads(search *models.LoadSearch) ([]*models.Load, error) {
	m.loadMu.RLock()
	defer m.loadMu.RUnlock()

	var results []*models.Load
	for _, load := range m.loads {
		if search.ShipperID != "" && load.ShipperID != search.ShipperID {
			continue
		}
		if search.Status != "" && load.Status != search.Status {
			continue
		}
		if search.EquipmentType != "" && load.EquipmentType != search.EquipmentType {
			continue
		}
		if search.PickupAfter != nil && load.PickupEarliest.Before(*search.PickupAfter) {
			continue
		}
		if search.PickupBefore != nil && load.PickupEarliest.After(*search.PickupBefore) {
			continue
		}
		out := *load
		results = append(results, &out)
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].PickupEarliest.Before(results[j].PickupEarliest)
	})

	if search.Offset > 0 {
		if search.Offset >= len(results) {
			return nil, nil
		}
		results = results[search.Offset:]
	}
	if search.Limit > 0 && search.Limit < len(results) {
		results = results[:search.Limit]
	}
	return results, nil
}

func (m *MemoryStore) UpdateLoad(load *models.Load) error {
	if !models.ValidEquipmentType(load.EquipmentType) {
		return fmt.Errorf("%w: equipment_type %q", ErrInvalidEnum, load.EquipmentType)
	}
	if !models.ValidLoadStatus(load.Status) {
		return fmt.Errorf("%w: status %q", ErrInvalidEnum, load.Status)
	}

	// The FK holds on updates too: a load may not be re-pointed at a shipper
	// that does not exist, or it would dodge the owner's cascade delete.
	m.shipperMu.RLock()
	defer m.shipperMu.RUnlock()
	if _, exists := m.shippers[load.ShipperID]; !exists {
		return fmt.Errorf("%w: shipper %s", ErrForeignKey, load.ShipperID)
	}

	m.loadMu.Lock()
	defer m.loadMu.Unlock()

	existing, exists := m.loads[load.LoadID]
	if !exists {
		return ErrNotFound
	}
	for id, l := range m.loads {
		if id != load.LoadID && l.ReferenceNumber == load.ReferenceNumber {
			return fmt.Errorf("%w: reference_number %q", ErrDuplicate, load.ReferenceNumber)
		}
	}

	stored := *load
	// load_id and created_at are immutable; updated_at is never the caller's.
	stored.LoadID = existing.LoadID
	stored.CreatedAt = existing.CreatedAt
	stored.UpdatedAt = time.Now()
	m.loads[stored.LoadID] = &stored
	return nil
}

func (m *MemoryStore) UpdateLoadStatus(loadID string, status models.LoadStatus) error {
	if !models.ValidLoadStatus(status) {
		return fmt.Errorf("%w: status %q", ErrInvalidEnum, status)
	}

	m.loadMu.Lock()
	defer m.loadMu.Unlock()

	load, exists := m.loads[loadID]
	if !exists {
		return ErrNotFound
	}
	load.Status = status
	load.UpdatedAt = time.Now()
	return nil
}

func (m *MemoryStore) DeleteLoad(loadID string) error {
	m.loadMu.Lock()
	defer m.loadMu.Unlock()

	if _, exists := m.loads[loadID]; !exists {
		return ErrNotFound
	}
	delete(m.loads, loadID)
	return nil
}

func (m *MemoryStore) GetExpirableLoads(cutoff time.Time) ([]*models.Load, error) {
	m.loadMu.RLock()
	defer m.loadMu.RUnlock()

	var loads []*models.Load
	for _, load := range m.loads {
		if !loadAwaitingCarrier(load.Status) {
			continue
		}
		if load.PickupLatest.Before(cutoff) {
			out := *load
			loads = append(loads, &out)
		}
	}
	return loads, nil
}

// Smart hub operations

func (m *MemoryStore) CreateHub(hub *models.SmartHub) (*models.SmartHub, error) {
	if hub.Name == "" {
		return nil, fmt.Errorf("%w: name", ErrNotNull)
	}
	if !models.ValidHubType(hub.HubType) {
		return nil, fmt.Errorf("%w: hub_type %q", ErrInvalidEnum, hub.HubType)
	}
	if hub.Capacity < 0 {
		return nil, fmt.Errorf("%w: capacity must be non-negative", ErrInvalidEnum)
	}

	m.hubMu.Lock()
	defer m.hubMu.Unlock()

	stored := *hub
	if stored.HubID == "" {
		stored.HubID = uuid.NewString()
	} else if _, exists := m.hubs[stored.HubID]; exists {
		return nil, fmt.Errorf("%w: hub_id", ErrDuplicate)
	}
	now := time.Now()
	stored.CreatedAt = now
	stored.UpdatedAt = now

	m.hubs[stored.HubID] = &stored
	out := stored
	return &out, nil
}

func (m *MemoryStore) GetHub(hubID string) (*models.SmartHub, error) {
	m.hubMu.RLock()
	defer m.hubMu.RUnlock()

	hub, exists := m.hubs[hubID]
	if !exists {
		return nil, ErrNotFound
	}
	out := *hub
	return &out, nil
}

func (m *MemoryStore) SearchHubs(search *models.HubSearch) ([]*models.SmartHub, error) {
	m.hubMu.RLock()
	defer m.hubMu.RUnlock()

	var hubs []*models.SmartHub
	for _, hub := range m.hubs {
		if search.HubType != "" && hub.HubType != search.HubType {
			continue
		}
		if search.ActiveOnly && !hub.Active {
			continue
		}
		out := *hub
		hubs = append(hubs, &out)
	}
	sort.Slice(hubs, func(i, j int) bool {
		return hubs[i].EfficiencyScore > hubs[j].EfficiencyScore
	})
	return hubs, nil
}

func (m *MemoryStore) GetNearbyHubs(lat, lon, radiusKm float64) ([]*models.SmartHub, error) {
	m.hubMu.RLock()
	defer m.hubMu.RUnlock()

	var hubs []*models.SmartHub
	for _, hub := range m.hubs {
		if !hub.Active {
			continue
		}
		if utils.HaversineKm(lat, lon, hub.Latitude, hub.Longitude) <= radiusKm {
			out := *hub
			hubs = append(hubs, &out)
		}
	}
	return hubs, nil
}

func (m *MemoryStore) UpdateHub(hub *models.SmartHub) error {
	if !models.ValidHubType(hub.HubType) {
		return fmt.Errorf("%w: hub_type %q", ErrInvalidEnum, hub.HubType)
	}

	m.hubMu.Lock()
	defer m.hubMu.Unlock()

	existing, exists := m.hubs[hub.HubID]
	if !exists {
		return ErrNotFound
	}

	stored := *hub
	stored.HubID = existing.HubID
	stored.CreatedAt = existing.CreatedAt
	stored.UpdatedAt = time.Now()
	m.hubs[stored.HubID] = &stored
	return nil
}

func (m *MemoryStore) DeactivateHub(hubID string) error {
	m.hubMu.Lock()
	defer m.hubMu.Unlock()

	hub, exists := m.hubs[hubID]
	if !exists {
		return ErrNotFound
	}
	hub.Active = false
	hub.UpdatedAt = time.Now()
	return nil
}

// Analytics operations

func (m *MemoryStore) CountLoadsByStatus() (map[models.LoadStatus]int64, error) {
	m.loadMu.RLock()
	defer m.loadMu.RUnlock()

	counts := make(map[models.LoadStatus]int64)
	for _, load := range m.loads {
		counts[load.Status]++
	}
	return counts, nil
}

func (m *MemoryStore) CountLoadsByEquipment() (map[models.EquipmentType]int64, error) {
	m.loadMu.RLock()
	defer m.loadMu.RUnlock()

	counts := make(map[models.EquipmentType]int64)
	for _, load := range m.loads {
		counts[load.EquipmentType]++
	}
	return counts, nil
}

func (m *MemoryStore) CountLoadsPickingUpBefore(cutoff time.Time) (int64, error) {
	m.loadMu.RLock()
	defer m.loadMu.RUnlock()

	var count int64
	for _, load := range m.loads {
		if loadAwaitingCarrier(load.Status) && load.PickupLatest.Before(cutoff) {
			count++
		}
	}
	return count, nil
}

func (m *MemoryStore) CountReeferLoadsMissingTemperature() (int64, error) {
	m.loadMu.RLock()
	defer m.loadMu.RUnlock()

	var count int64
	for _, load := range m.loads {
		if load.EquipmentType == models.EquipmentRefrigerated && load.TemperatureRequirements == nil {
			count++
		}
	}
	return count, nil
}

func loadAwaitingCarrier(status models.LoadStatus) bool {
	switch status {
	case models.StatusCreated, models.StatusPending,
		models.StatusOptimizing, models.StatusAvailable:
		return true
	}
	return false
}
