package handlers_test

import (
	"testing"

	"github.com/gofiber/fiber/v2"
)

func adminHeaders() map[string]string {
	return map[string]string{"X-Admin-Token": "sekrit"}
}

func hubPayload(name string, lat, lon float64) map[string]interface{} {
	return map[string]interface{}{
		"name":      name,
		"hub_type":  "TRUCK_STOP",
		"latitude":  lat,
		"longitude": lon,
		"capacity":  40,
		"amenities": []string{"fuel", "showers", "parking"},
		"operating_hours": map[string]interface{}{
			"monday": map[string]string{"open": "06:00", "close": "22:00"},
		},
	}
}

func TestHubCreateRequiresAdmin(t *testing.T) {
	t.Setenv("ADMIN_API_TOKEN", "sekrit")
	app, _ := newTestApp(t)

	resp, _ := doJSON(t, app, "POST", "/api/hubs/", hubPayload("I-80 Stop", 41.25, -95.93), nil)
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("no token: status %d, want 401", resp.StatusCode)
	}

	resp, body := doJSON(t, app, "POST", "/api/hubs/", hubPayload("I-80 Stop", 41.25, -95.93), adminHeaders())
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("status %d body %v", resp.StatusCode, body)
	}
	hub := body["hub"].(map[string]interface{})
	if hub["active"] != true {
		t.Error("new hubs should start active")
	}
	if hub["hub_id"] == nil || hub["hub_id"] == "" {
		t.Error("expected a generated hub_id")
	}
}

func TestHubCreateRejectsUnknownType(t *testing.T) {
	t.Setenv("ADMIN_API_TOKEN", "sekrit")
	app, _ := newTestApp(t)

	payload := hubPayload("Mystery", 41.25, -95.93)
	payload["hub_type"] = "SPACEPORT"
	resp, _ := doJSON(t, app, "POST", "/api/hubs/", payload, adminHeaders())
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("status %d, want 400", resp.StatusCode)
	}
}

func TestHubNearbyAndDeactivate(t *testing.T) {
	t.Setenv("ADMIN_API_TOKEN", "sekrit")
	app, _ := newTestApp(t)

	_, body := doJSON(t, app, "POST", "/api/hubs/", hubPayload("I-80 Stop", 41.25, -95.93), adminHeaders())
	hubID := body["hub"].(map[string]interface{})["hub_id"].(string)
	doJSON(t, app, "POST", "/api/hubs/", hubPayload("Dallas DC", 32.77, -96.79), adminHeaders())

	resp, body := doJSON(t, app, "GET", "/api/hubs/nearby?lat=41.26&lon=-95.94&radius_km=25", nil, nil)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	if body["count"].(float64) != 1 {
		t.Errorf("expected 1 nearby hub, got %v", body["count"])
	}

	resp, _ = doJSON(t, app, "PATCH", "/api/hubs/"+hubID+"/deactivate", nil, adminHeaders())
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("deactivate: status %d", resp.StatusCode)
	}

	_, body = doJSON(t, app, "GET", "/api/hubs/nearby?lat=41.26&lon=-95.94&radius_km=25", nil, nil)
	if body["count"].(float64) != 0 {
		t.Errorf("deactivated hub still listed nearby: %v", body["count"])
	}

	// Deactivated, not deleted.
	resp, body = doJSON(t, app, "GET", "/api/hubs/"+hubID, nil, nil)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("hub should still exist: status %d", resp.StatusCode)
	}
	if body["active"] != false {
		t.Error("hub should be inactive")
	}
}

func TestHubNearbyRequiresCoordinates(t *testing.T) {
	t.Setenv("ADMIN_API_TOKEN", "sekrit")
	app, _ := newTestApp(t)

	// A hub sitting at (0,0) must not make a param-less query look successful.
	null := hubPayload("Null Island Depot", 0, 0)
	doJSON(t, app, "POST", "/api/hubs/", null, adminHeaders())

	for _, path := range []string{
		"/api/hubs/nearby",
		"/api/hubs/nearby?lat=41.26",
		"/api/hubs/nearby?lon=-95.94",
	} {
		resp, _ := doJSON(t, app, "GET", path, nil, nil)
		if resp.StatusCode != fiber.StatusBadRequest {
			t.Errorf("%s: status %d, want 400", path, resp.StatusCode)
		}
	}

	resp, _ := doJSON(t, app, "GET", "/api/hubs/nearby?lat=0&lon=0&radius_km=25", nil, nil)
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("explicit 0,0 should be a valid query, got %d", resp.StatusCode)
	}
}

func TestHubListFiltersByType(t *testing.T) {
	t.Setenv("ADMIN_API_TOKEN", "sekrit")
	app, _ := newTestApp(t)

	doJSON(t, app, "POST", "/api/hubs/", hubPayload("I-80 Stop", 41.25, -95.93), adminHeaders())
	dc := hubPayload("Dallas DC", 32.77, -96.79)
	dc["hub_type"] = "DISTRIBUTION_CENTER"
	doJSON(t, app, "POST", "/api/hubs/", dc, adminHeaders())

	resp, body := doJSON(t, app, "GET", "/api/hubs/?hub_type=DISTRIBUTION_CENTER", nil, nil)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	if body["count"].(float64) != 1 {
		t.Errorf("expected 1 distribution center, got %v", body["count"])
	}
}
