package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/prohmpiriya/webtail-stripe/internal/domain"
	"github.com/prohmpiriya/webtail-stripe/pkg/database"
	"github.com/shopspring/decimal"
)

// PostgresSettingsRepository implements SettingsRepository using PostgreSQL
type PostgresSettingsRepository struct {
	db *database.PostgresDB
}

// NewPostgresSettingsRepository creates a new PostgreSQL settings repository
func NewPostgresSettingsRepository(db *database.PostgresDB) *PostgresSettingsRepository {
	return &PostgresSettingsRepository{db: db}
}

// Get retrieves the settings of a store
func (r *PostgresSettingsRepository) Get(ctx context.Context, storeID int) (*domain.Settings, error) {
	query := `
		SELECT live_secret_key, live_publishable_key, test_secret_key, test_publishable_key,
			use_sandbox, additional_fee::text, additional_fee_percentage, transaction_mode, updated_at
		FROM stripe_settings
		WHERE store_id = $1`

	var (
		s   domain.Settings
		fee string
	)
	err := r.db.Pool().QueryRow(ctx, query, storeID).Scan(
		&s.LiveSecretKey,
		&s.LivePublishableKey,
		&s.TestSecretKey,
		&s.TestPublishableKey,
		&s.UseSandbox,
		&fee,
		&s.AdditionalFeePercentage,
		&s.TransactionMode,
		&s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSettingsNotFound
		}
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}

	s.AdditionalFee, err = decimal.NewFromString(fee)
	if err != nil {
		return nil, fmt.Errorf("failed to parse additional fee %q: %w", fee, err)
	}
	return &s, nil
}

// Save inserts or replaces the settings of a store
func (r *PostgresSettingsRepository) Save(ctx context.Context, storeID int, s *domain.Settings) error {
	query := `
		INSERT INTO stripe_settings (
			store_id, live_secret_key, live_publishable_key, test_secret_key, test_publishable_key,
			use_sandbox, additional_fee, additional_fee_percentage, transaction_mode, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7::numeric, $8, $9, NOW())
		ON CONFLICT (store_id) DO UPDATE SET
			live_secret_key = EXCLUDED.live_secret_key,
			live_publishable_key = EXCLUDED.live_publishable_key,
			test_secret_key = EXCLUDED.test_secret_key,
			test_publishable_key = EXCLUDED.test_publishable_key,
			use_sandbox = EXCLUDED.use_sandbox,
			additional_fee = EXCLUDED.additional_fee,
			additional_fee_percentage = EXCLUDED.additional_fee_percentage,
			transaction_mode = EXCLUDED.transaction_mode,
			updated_at = NOW()`

	_, err := r.db.Pool().Exec(ctx, query,
		storeID,
		s.LiveSecretKey,
		s.LivePublishableKey,
		s.TestSecretKey,
		s.TestPublishableKey,
		s.UseSandbox,
		s.AdditionalFee.String(),
		s.AdditionalFeePercentage,
		int16(s.TransactionMode),
	)
	if err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}

// Delete removes the settings of a store
func (r *PostgresSettingsRepository) Delete(ctx context.Context, storeID int) error {
	if _, err := r.db.Pool().Exec(ctx, `DELETE FROM stripe_settings WHERE store_id = $1`, storeID); err != nil {
		return fmt.Errorf("failed to delete settings: %w", err)
	}
	return nil
}

// PostgresCustomerRepository implements CustomerRepository using PostgreSQL
type PostgresCustomerRepository struct {
	db *database.PostgresDB
}

// NewPostgresCustomerRepository creates a new PostgreSQL customer repository
func NewPostgresCustomerRepository(db *database.PostgresDB) *PostgresCustomerRepository {
	return &PostgresCustomerRepository{db: db}
}

// GetByID retrieves a customer with its billing address
func (r *PostgresCustomerRepository) GetByID(ctx context.Context, id int) (*domain.Customer, error) {
	var (
		c       domain.Customer
		address []byte
	)
	err := r.db.Pool().QueryRow(ctx,
		`SELECT id, email, billing_address FROM customers WHERE id = $1`, id,
	).Scan(&c.ID, &c.Email, &address)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: id %d", domain.ErrCustomerNotFound, id)
		}
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}

	if len(address) > 0 {
		var addr domain.Address
		if err := json.Unmarshal(address, &addr); err != nil {
			return nil, fmt.Errorf("failed to unmarshal billing_address: %w", err)
		}
		c.BillingAddress = &addr
	}
	return &c, nil
}

// Upsert inserts or replaces a customer
func (r *PostgresCustomerRepository) Upsert(ctx context.Context, c *domain.Customer) error {
	var address []byte
	if c.BillingAddress != nil {
		var err error
		address, err = json.Marshal(c.BillingAddress)
		if err != nil {
			return fmt.Errorf("failed to marshal billing_address: %w", err)
		}
	}

	query := `
		INSERT INTO customers (id, email, billing_address, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (id) DO UPDATE SET
			email = EXCLUDED.email,
			billing_address = EXCLUDED.billing_address,
			updated_at = NOW()`

	if _, err := r.db.Pool().Exec(ctx, query, c.ID, c.Email, address); err != nil {
		return fmt.Errorf("failed to upsert customer: %w", err)
	}
	return nil
}

// PostgresAttributeRepository implements AttributeRepository using PostgreSQL
type PostgresAttributeRepository struct {
	db *database.PostgresDB
}

// NewPostgresAttributeRepository creates a new PostgreSQL attribute repository
func NewPostgresAttributeRepository(db *database.PostgresDB) *PostgresAttributeRepository {
	return &PostgresAttributeRepository{db: db}
}

func (r *PostgresAttributeRepository) GetAttribute(ctx context.Context, keyGroup string, entityID int, key string) (string, error) {
	var value string
	err := r.db.Pool().QueryRow(ctx,
		`SELECT value FROM generic_attributes WHERE key_group = $1 AND entity_id = $2 AND key = $3`,
		keyGroup, entityID, key,
	).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("failed to get attribute: %w", err)
	}
	return value, nil
}

// SaveAttribute sets the value; an empty value removes the attribute
func (r *PostgresAttributeRepository) SaveAttribute(ctx context.Context, keyGroup string, entityID int, key, value string) error {
	if value == "" {
		_, err := r.db.Pool().Exec(ctx,
			`DELETE FROM generic_attributes WHERE key_group = $1 AND entity_id = $2 AND key = $3`,
			keyGroup, entityID, key)
		if err != nil {
			return fmt.Errorf("failed to delete attribute: %w", err)
		}
		return nil
	}

	query := `
		INSERT INTO generic_attributes (key_group, entity_id, key, value, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (key_group, entity_id, key) DO UPDATE SET
			value = EXCLUDED.value,
			updated_at = NOW()`

	if _, err := r.db.Pool().Exec(ctx, query, keyGroup, entityID, key, value); err != nil {
		return fmt.Errorf("failed to save attribute: %w", err)
	}
	return nil
}

// PostgresLocaleRepository implements LocaleRepository using PostgreSQL
type PostgresLocaleRepository struct {
	db *database.PostgresDB
}

// NewPostgresLocaleRepository creates a new PostgreSQL locale repository
func NewPostgresLocaleRepository(db *database.PostgresDB) *PostgresLocaleRepository {
	return &PostgresLocaleRepository{db: db}
}

func (r *PostgresLocaleRepository) GetResource(ctx context.Context, name string) (string, error) {
	var value string
	err := r.db.Pool().QueryRow(ctx, `SELECT value FROM locale_resources WHERE name = $1`, name).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", fmt.Errorf("%w: %s", domain.ErrLocaleResourceNotFound, name)
		}
		return "", fmt.Errorf("failed to get locale resource: %w", err)
	}
	return value, nil
}

// AddOrUpdate upserts all resources in one batch
func (r *PostgresLocaleRepository) AddOrUpdate(ctx context.Context, resources map[string]string) error {
	if len(resources) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for name, value := range resources {
		batch.Queue(`
			INSERT INTO locale_resources (name, value) VALUES ($1, $2)
			ON CONFLICT (name) DO UPDATE SET value = EXCLUDED.value`, name, value)
	}

	if err := r.db.Pool().SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to save locale resources: %w", err)
	}
	return nil
}

func (r *PostgresLocaleRepository) Delete(ctx context.Context, names ...string) error {
	if len(names) == 0 {
		return nil
	}
	if _, err := r.db.Pool().Exec(ctx, `DELETE FROM locale_resources WHERE name = ANY($1)`, names); err != nil {
		return fmt.Errorf("failed to delete locale resources: %w", err)
	}
	return nil
}
