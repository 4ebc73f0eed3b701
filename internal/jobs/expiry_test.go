package jobs

import (
	"testing"
	"time"

	"github.com/My-riad/jit-tdexn2-sub003/internal/models"
	"github.com/My-riad/jit-tdexn2-sub003/internal/storage"
)

func TestSweepExpiresOverdueLoads(t *testing.T) {
	store := storage.NewMemoryStore()
	shipper, err := store.CreateShipper(&models.Shipper{
		CompanyName:  "Acme Freight",
		ContactEmail: "ops@acme.test",
		Active:       true,
	})
	if err != nil {
		t.Fatalf("create shipper: %v", err)
	}

	past := time.Now().Add(-48 * time.Hour)
	future := time.Now().Add(48 * time.Hour)

	overdue, err := store.CreateLoad(&models.Load{
		ShipperID:        shipper.ShipperID,
		ReferenceNumber:  "REF-OVERDUE",
		EquipmentType:    models.EquipmentDryVan,
		Weight:           4500,
		Dimensions:       models.Dimensions{Length: 48, Width: 8.5, Height: 9},
		PickupEarliest:   past.Add(-4 * time.Hour),
		PickupLatest:     past,
		DeliveryEarliest: past.Add(24 * time.Hour),
		DeliveryLatest:   past.Add(33 * time.Hour),
	})
	if err != nil {
		t.Fatalf("create load: %v", err)
	}

	fresh, err := store.CreateLoad(&models.Load{
		ShipperID:        shipper.ShipperID,
		ReferenceNumber:  "REF-FRESH",
		EquipmentType:    models.EquipmentDryVan,
		Weight:           4500,
		Dimensions:       models.Dimensions{Length: 48, Width: 8.5, Height: 9},
		PickupEarliest:   future,
		PickupLatest:     future.Add(4 * time.Hour),
		DeliveryEarliest: future.Add(24 * time.Hour),
		DeliveryLatest:   future.Add(33 * time.Hour),
	})
	if err != nil {
		t.Fatalf("create load: %v", err)
	}

	// An overdue load already moving must not be expired.
	moving, err := store.CreateLoad(&models.Load{
		ShipperID:        shipper.ShipperID,
		ReferenceNumber:  "REF-MOVING",
		EquipmentType:    models.EquipmentFlatbed,
		Weight:           9000,
		Dimensions:       models.Dimensions{Length: 48, Width: 8.5, Height: 4},
		PickupEarliest:   past.Add(-4 * time.Hour),
		PickupLatest:     past,
		DeliveryEarliest: future,
		DeliveryLatest:   future.Add(9 * time.Hour),
	})
	if err != nil {
		t.Fatalf("create load: %v", err)
	}
	if err := store.UpdateLoadStatus(moving.LoadID, models.StatusInTransit); err != nil {
		t.Fatalf("update status: %v", err)
	}

	NewExpiryJob(store, time.Minute).Sweep()

	for _, tc := range []struct {
		loadID string
		want   models.LoadStatus
	}{
		{overdue.LoadID, models.StatusExpired},
		{fresh.LoadID, models.StatusCreated},
		{moving.LoadID, models.StatusInTransit},
	} {
		got, err := store.GetLoad(tc.loadID)
		if err != nil {
			t.Fatalf("get load: %v", err)
		}
		if got.Status != tc.want {
			t.Errorf("load %s: status %s, want %s", got.ReferenceNumber, got.Status, tc.want)
		}
	}
}

func TestStartStopIsSafe(t *testing.T) {
	job := NewExpiryJob(storage.NewMemoryStore(), 10*time.Millisecond)
	job.Start()
	job.Start() // second start is a no-op
	time.Sleep(25 * time.Millisecond)
	job.Stop()
	job.Stop() // second stop is a no-op
}
