package migrations

// CreateShippers sets up the shippers table, the FK target for loads.
var CreateShippers = Migration{
	Version: 1,
	Name:    "create_shippers",
	Up: []string{
		`CREATE TABLE IF NOT EXISTS shippers (
			shipper_id    UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			company_name  TEXT NOT NULL,
			contact_email TEXT UNIQUE NOT NULL,
			phone         TEXT,
			address       TEXT,
			city          TEXT,
			state         TEXT,
			active        BOOLEAN NOT NULL DEFAULT true,
			created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,

		`CREATE OR REPLACE FUNCTION set_shippers_updated_at() RETURNS trigger AS $$
		BEGIN
			NEW.updated_at := now();
			RETURN NEW;
		END;
		$$ LANGUAGE plpgsql`,

		`DROP TRIGGER IF EXISTS trg_shippers_updated_at ON shippers`,

		`CREATE TRIGGER trg_shippers_updated_at
			BEFORE UPDATE ON shippers
			FOR EACH ROW EXECUTE FUNCTION set_shippers_updated_at()`,
	},
	Down: []string{
		`DROP TRIGGER IF EXISTS trg_shippers_updated_at ON shippers`,
		`DROP FUNCTION IF EXISTS set_shippers_updated_at()`,
		`DROP TABLE IF EXISTS shippers`,
	},
}
