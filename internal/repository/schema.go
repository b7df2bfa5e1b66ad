package repository

// Schema holds the statements that create the plugin tables.
// They are idempotent and run at startup through database.PostgresDB.Migrate.
var Schema = []string{
	`CREATE TABLE IF NOT EXISTS stripe_settings (
		store_id                  INTEGER PRIMARY KEY,
		live_secret_key           TEXT NOT NULL DEFAULT '',
		live_publishable_key      TEXT NOT NULL DEFAULT '',
		test_secret_key           TEXT NOT NULL DEFAULT '',
		test_publishable_key      TEXT NOT NULL DEFAULT '',
		use_sandbox               BOOLEAN NOT NULL DEFAULT TRUE,
		additional_fee            NUMERIC(18,4) NOT NULL DEFAULT 0,
		additional_fee_percentage BOOLEAN NOT NULL DEFAULT FALSE,
		transaction_mode          SMALLINT NOT NULL DEFAULT 1,
		updated_at                TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS customers (
		id              INTEGER PRIMARY KEY,
		email           TEXT NOT NULL DEFAULT '',
		billing_address JSONB,
		updated_at      TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS generic_attributes (
		key_group  VARCHAR(100) NOT NULL,
		entity_id  INTEGER NOT NULL,
		key        VARCHAR(200) NOT NULL,
		value      TEXT NOT NULL,
		updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
		PRIMARY KEY (key_group, entity_id, key)
	)`,
	`CREATE TABLE IF NOT EXISTS locale_resources (
		name  VARCHAR(200) PRIMARY KEY,
		value TEXT NOT NULL
	)`,
}
