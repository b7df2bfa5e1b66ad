package repository

import (
	"context"

	"github.com/prohmpiriya/webtail-stripe/internal/domain"
)

// KeyGroupCustomer is the attribute key group for customer entities
const KeyGroupCustomer = "Customer"

// SettingsRepository persists the plugin settings per store
type SettingsRepository interface {
	// Get returns domain.ErrSettingsNotFound when the plugin is not installed
	Get(ctx context.Context, storeID int) (*domain.Settings, error)
	Save(ctx context.Context, storeID int, settings *domain.Settings) error
	Delete(ctx context.Context, storeID int) error
}

// CustomerRepository is the plugin's view of host customers
type CustomerRepository interface {
	// GetByID returns domain.ErrCustomerNotFound when the customer is unknown
	GetByID(ctx context.Context, id int) (*domain.Customer, error)
	Upsert(ctx context.Context, customer *domain.Customer) error
}

// AttributeRepository stores generic key/value attributes on host entities
type AttributeRepository interface {
	// GetAttribute returns "" when the attribute is not set
	GetAttribute(ctx context.Context, keyGroup string, entityID int, key string) (string, error)
	SaveAttribute(ctx context.Context, keyGroup string, entityID int, key, value string) error
}

// LocaleRepository stores plugin locale resources
type LocaleRepository interface {
	// GetResource returns domain.ErrLocaleResourceNotFound when the name is unknown
	GetResource(ctx context.Context, name string) (string, error)
	AddOrUpdate(ctx context.Context, resources map[string]string) error
	Delete(ctx context.Context, names ...string) error
}
