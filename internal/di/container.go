package di

import (
	"fmt"
	"time"

	"github.com/prohmpiriya/webtail-stripe/internal/events"
	"github.com/prohmpiriya/webtail-stripe/internal/gateway"
	"github.com/prohmpiriya/webtail-stripe/internal/handler"
	"github.com/prohmpiriya/webtail-stripe/internal/locale"
	"github.com/prohmpiriya/webtail-stripe/internal/repository"
	"github.com/prohmpiriya/webtail-stripe/internal/service"
	"github.com/prohmpiriya/webtail-stripe/internal/validator"
	"github.com/prohmpiriya/webtail-stripe/pkg/database"
	"github.com/prohmpiriya/webtail-stripe/pkg/kafka"
	"github.com/prohmpiriya/webtail-stripe/pkg/redis"
)

// Container holds all dependencies of the Stripe plugin
type Container struct {
	// Infrastructure
	DB       *database.PostgresDB
	Redis    *redis.Client
	Producer *kafka.Producer

	// Repositories
	SettingsRepo  repository.SettingsRepository
	CustomerRepo  repository.CustomerRepository
	AttributeRepo repository.AttributeRepository
	LocaleRepo    repository.LocaleRepository

	// Plugin
	Localizer *locale.Localizer
	Validator *validator.Validator
	Publisher events.Publisher
	Plugin    service.PaymentPlugin

	// Handlers
	HealthHandler  *handler.HealthHandler
	PaymentHandler *handler.PaymentHandler
	AdminHandler   *handler.AdminHandler
}

// ContainerConfig contains configuration for building the container.
// Nil infrastructure selects the in-memory or no-op alternative.
type ContainerConfig struct {
	DB                *database.PostgresDB
	Redis             *redis.Client
	Producer          *kafka.Producer
	KafkaTopic        string
	AttributeCacheTTL time.Duration
	Gateway           gateway.Factory
	PluginConfig      *service.PluginConfig
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *ContainerConfig) (*Container, error) {
	c := &Container{
		DB:       cfg.DB,
		Redis:    cfg.Redis,
		Producer: cfg.Producer,
	}

	c.initRepositories(cfg)

	resources, err := locale.Default()
	if err != nil {
		return nil, fmt.Errorf("failed to load locale resources: %w", err)
	}
	c.Localizer = locale.NewLocalizer(c.LocaleRepo, resources)
	c.Validator = validator.New(c.Localizer)

	if c.Producer != nil {
		c.Publisher = events.NewKafkaPublisher(c.Producer, cfg.KafkaTopic)
	} else {
		c.Publisher = events.NoopPublisher{}
	}

	factory := cfg.Gateway
	if factory == nil {
		factory = gateway.NewStripeFactory(nil)
	}

	c.Plugin = service.NewPaymentPlugin(&service.Deps{
		Settings:   c.SettingsRepo,
		Customers:  c.CustomerRepo,
		Attributes: c.AttributeRepo,
		Localizer:  c.Localizer,
		Validator:  c.Validator,
		Gateway:    factory,
		Publisher:  c.Publisher,
	}, cfg.PluginConfig)

	storeID := 1
	if cfg.PluginConfig != nil {
		storeID = cfg.PluginConfig.Store.ID
	}

	c.HealthHandler = handler.NewHealthHandler(c.healthComponents())
	c.PaymentHandler = handler.NewPaymentHandler(c.Plugin, storeID)
	c.AdminHandler = handler.NewAdminHandler(c.Plugin)

	return c, nil
}

func (c *Container) initRepositories(cfg *ContainerConfig) {
	if c.DB != nil {
		c.SettingsRepo = repository.NewPostgresSettingsRepository(c.DB)
		c.CustomerRepo = repository.NewPostgresCustomerRepository(c.DB)
		c.AttributeRepo = repository.NewPostgresAttributeRepository(c.DB)
		c.LocaleRepo = repository.NewPostgresLocaleRepository(c.DB)
	} else {
		c.SettingsRepo = repository.NewMemorySettingsRepository()
		c.CustomerRepo = repository.NewMemoryCustomerRepository()
		c.AttributeRepo = repository.NewMemoryAttributeRepository()
		c.LocaleRepo = repository.NewMemoryLocaleRepository()
	}

	if c.Redis != nil {
		ttl := cfg.AttributeCacheTTL
		if ttl <= 0 {
			ttl = repository.DefaultAttributeCacheTTL
		}
		c.AttributeRepo = repository.NewCachedAttributeRepository(c.AttributeRepo, c.Redis, ttl)
	}
}

// healthComponents keeps unset dependencies as nil interfaces so Ready reports them as not configured
func (c *Container) healthComponents() map[string]handler.HealthChecker {
	components := map[string]handler.HealthChecker{
		"database": nil,
		"redis":    nil,
		"kafka":    nil,
	}
	if c.DB != nil {
		components["database"] = c.DB
	}
	if c.Redis != nil {
		components["redis"] = c.Redis
	}
	if c.Producer != nil {
		components["kafka"] = c.Producer
	}
	return components
}
