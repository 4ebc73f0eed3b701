package migrations

// CreateSmartHubs sets up the hub_type enum, the smart_hubs table, the
// proximity and filter indexes, and an updated_at trigger matching the loads
// trigger behavior. Down keeps the shared hub_type enum.
var CreateSmartHubs = Migration{
	Version: 3,
	Name:    "create_smart_hubs",
	Up: []string{
		`DO $$ BEGIN
			CREATE TYPE hub_type AS ENUM (
				'TRUCK_STOP', 'DISTRIBUTION_CENTER', 'REST_AREA',
				'WAREHOUSE', 'TERMINAL', 'YARD', 'OTHER'
			);
		EXCEPTION WHEN duplicate_object THEN NULL;
		END $$`,

		`CREATE TABLE IF NOT EXISTS smart_hubs (
			hub_id           UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			name             TEXT NOT NULL,
			hub_type         hub_type NOT NULL,
			latitude         DOUBLE PRECISION NOT NULL,
			longitude        DOUBLE PRECISION NOT NULL,
			address          TEXT,
			city             TEXT,
			state            TEXT,
			zip              TEXT,
			amenities        JSONB,
			capacity         INT NOT NULL DEFAULT 0 CHECK (capacity >= 0),
			operating_hours  JSONB,
			efficiency_score DOUBLE PRECISION NOT NULL DEFAULT 0,
			network_impact   DOUBLE PRECISION NOT NULL DEFAULT 0,
			active           BOOLEAN NOT NULL DEFAULT true,
			created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at       TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,

		`CREATE INDEX IF NOT EXISTS idx_smart_hubs_lat_lon ON smart_hubs (latitude, longitude)`,
		`CREATE INDEX IF NOT EXISTS idx_smart_hubs_hub_type ON smart_hubs (hub_type)`,
		`CREATE INDEX IF NOT EXISTS idx_smart_hubs_efficiency_score ON smart_hubs (efficiency_score)`,
		`CREATE INDEX IF NOT EXISTS idx_smart_hubs_active ON smart_hubs (active)`,

		`CREATE OR REPLACE FUNCTION set_smart_hubs_updated_at() RETURNS trigger AS $$
		BEGIN
			NEW.updated_at := now();
			RETURN NEW;
		END;
		$$ LANGUAGE plpgsql`,

		`DROP TRIGGER IF EXISTS trg_smart_hubs_updated_at ON smart_hubs`,

		`CREATE TRIGGER trg_smart_hubs_updated_at
			BEFORE UPDATE ON smart_hubs
			FOR EACH ROW EXECUTE FUNCTION set_smart_hubs_updated_at()`,
	},
	Down: []string{
		`DROP TRIGGER IF EXISTS trg_smart_hubs_updated_at ON smart_hubs`,
		`DROP FUNCTION IF EXISTS set_smart_hubs_updated_at()`,
		`DROP TABLE IF EXISTS smart_hubs`,
	},
}
