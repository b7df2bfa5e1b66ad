package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/prohmpiriya/webtail-stripe/internal/domain"
)

// MemorySettingsRepository implements SettingsRepository in memory.
// Used for development and tests.
type MemorySettingsRepository struct {
	settings map[int]*domain.Settings
	mu       sync.RWMutex
}

// NewMemorySettingsRepository creates an empty settings store
func NewMemorySettingsRepository() *MemorySettingsRepository {
	return &MemorySettingsRepository{settings: make(map[int]*domain.Settings)}
}

func (r *MemorySettingsRepository) Get(ctx context.Context, storeID int) (*domain.Settings, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.settings[storeID]
	if !ok {
		return nil, domain.ErrSettingsNotFound
	}
	return s.Clone(), nil
}

func (r *MemorySettingsRepository) Save(ctx context.Context, storeID int, settings *domain.Settings) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := settings.Clone()
	s.UpdatedAt = time.Now().UTC()
	r.settings[storeID] = s
	return nil
}

func (r *MemorySettingsRepository) Delete(ctx context.Context, storeID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.settings, storeID)
	return nil
}

// MemoryCustomerRepository implements CustomerRepository in memory
type MemoryCustomerRepository struct {
	customers map[int]*domain.Customer
	mu        sync.RWMutex
}

// NewMemoryCustomerRepository creates an empty customer store
func NewMemoryCustomerRepository() *MemoryCustomerRepository {
	return &MemoryCustomerRepository{customers: make(map[int]*domain.Customer)}
}

func (r *MemoryCustomerRepository) GetByID(ctx context.Context, id int) (*domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.customers[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", domain.ErrCustomerNotFound, id)
	}
	return cloneCustomer(c), nil
}

func (r *MemoryCustomerRepository) Upsert(ctx context.Context, customer *domain.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.customers[customer.ID] = cloneCustomer(customer)
	return nil
}

func cloneCustomer(c *domain.Customer) *domain.Customer {
	out := *c
	if c.BillingAddress != nil {
		addr := *c.BillingAddress
		out.BillingAddress = &addr
	}
	return &out
}

type attributeKey struct {
	keyGroup string
	entityID int
	key      string
}

// MemoryAttributeRepository implements AttributeRepository in memory
type MemoryAttributeRepository struct {
	values map[attributeKey]string
	mu     sync.RWMutex
}

// NewMemoryAttributeRepository creates an empty attribute store
func NewMemoryAttributeRepository() *MemoryAttributeRepository {
	return &MemoryAttributeRepository{values: make(map[attributeKey]string)}
}

func (r *MemoryAttributeRepository) GetAttribute(ctx context.Context, keyGroup string, entityID int, key string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.values[attributeKey{keyGroup, entityID, key}], nil
}

// SaveAttribute sets the value; an empty value removes the attribute
func (r *MemoryAttributeRepository) SaveAttribute(ctx context.Context, keyGroup string, entityID int, key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := attributeKey{keyGroup, entityID, key}
	if value == "" {
		delete(r.values, k)
		return nil
	}
	r.values[k] = value
	return nil
}

// MemoryLocaleRepository implements LocaleRepository in memory
type MemoryLocaleRepository struct {
	resources map[string]string
	mu        sync.RWMutex
}

// NewMemoryLocaleRepository creates an empty locale store
func NewMemoryLocaleRepository() *MemoryLocaleRepository {
	return &MemoryLocaleRepository{resources: make(map[string]string)}
}

func (r *MemoryLocaleRepository) GetResource(ctx context.Context, name string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.resources[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", domain.ErrLocaleResourceNotFound, name)
	}
	return v, nil
}

func (r *MemoryLocaleRepository) AddOrUpdate(ctx context.Context, resources map[string]string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for name, value := range resources {
		r.resources[name] = value
	}
	return nil
}

func (r *MemoryLocaleRepository) Delete(ctx context.Context, names ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, name := range names {
		delete(r.resources, name)
	}
	return nil
}

// Count returns the number of stored resources
func (r *MemoryLocaleRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.resources)
}
