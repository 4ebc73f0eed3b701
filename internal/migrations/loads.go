package migrations

// CreateLoads sets up the load_status and equipment_type enums, the loads
// table, its filter indexes, the cascade FK to shippers, and the updated_at
// trigger. Enum creation is guarded so re-running (or a second deploy process
// racing this one) no-ops instead of erroring. The enums are shared types:
// Down removes the trigger, function, and table but never the enums.
var CreateLoads = Migration{
	Version: 2,
	Name:    "create_loads",
	Up: []string{
		`DO $$ BEGIN
			CREATE TYPE load_status AS ENUM (
				'CREATED', 'PENDING', 'OPTIMIZING', 'AVAILABLE', 'RESERVED',
				'ASSIGNED', 'IN_TRANSIT', 'AT_PICKUP', 'LOADED', 'AT_DROPOFF',
				'DELIVERED', 'COMPLETED', 'CANCELLED', 'EXPIRED', 'DELAYED',
				'EXCEPTION', 'RESOLVED'
			);
		EXCEPTION WHEN duplicate_object THEN NULL;
		END $$`,

		`DO $$ BEGIN
			CREATE TYPE equipment_type AS ENUM ('DRY_VAN', 'REFRIGERATED', 'FLATBED');
		EXCEPTION WHEN duplicate_object THEN NULL;
		END $$`,

		`CREATE TABLE IF NOT EXISTS loads (
			load_id                  UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			shipper_id               UUID NOT NULL REFERENCES shippers(shipper_id) ON DELETE CASCADE,
			reference_number         TEXT UNIQUE NOT NULL,
			description              TEXT,
			equipment_type           equipment_type NOT NULL,
			weight                   DOUBLE PRECISION NOT NULL,
			dimensions               JSONB NOT NULL,
			volume                   DOUBLE PRECISION,
			pallets                  INT,
			commodity                TEXT,
			status                   load_status NOT NULL DEFAULT 'CREATED',
			pickup_earliest          TIMESTAMPTZ NOT NULL,
			pickup_latest            TIMESTAMPTZ NOT NULL,
			delivery_earliest        TIMESTAMPTZ NOT NULL,
			delivery_latest          TIMESTAMPTZ NOT NULL,
			offered_rate             NUMERIC(10,2),
			special_instructions     TEXT,
			is_hazardous             BOOLEAN NOT NULL DEFAULT false,
			temperature_requirements JSONB,
			created_at               TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at               TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,

		`CREATE INDEX IF NOT EXISTS idx_loads_shipper_id ON loads (shipper_id)`,
		`CREATE INDEX IF NOT EXISTS idx_loads_status ON loads (status)`,
		`CREATE INDEX IF NOT EXISTS idx_loads_equipment_type ON loads (equipment_type)`,
		`CREATE INDEX IF NOT EXISTS idx_loads_pickup_earliest ON loads (pickup_earliest)`,
		`CREATE INDEX IF NOT EXISTS idx_loads_delivery_earliest ON loads (delivery_earliest)`,

		`CREATE OR REPLACE FUNCTION set_loads_updated_at() RETURNS trigger AS $$
		BEGIN
			NEW.updated_at := now();
			RETURN NEW;
		END;
		$$ LANGUAGE plpgsql`,

		`DROP TRIGGER IF EXISTS trg_loads_updated_at ON loads`,

		`CREATE TRIGGER trg_loads_updated_at
			BEFORE UPDATE ON loads
			FOR EACH ROW EXECUTE FUNCTION set_loads_updated_at()`,
	},
	Down: []string{
		`DROP TRIGGER IF EXISTS trg_loads_updated_at ON loads`,
		`DROP FUNCTION IF EXISTS set_loads_updated_at()`,
		`DROP TABLE IF EXISTS loads`,
	},
}
