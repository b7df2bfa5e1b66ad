package locale

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/prohmpiriya/webtail-stripe/internal/domain"
	"github.com/prohmpiriya/webtail-stripe/internal/repository"
	"gopkg.in/yaml.v3"
)

// Resource names used by the plugin
const (
	Instructions             = "Webtail.Payments.Stripe.Instructions"
	PaymentMethodDescription = "WebTail.Payments.Stripe.PaymentMethodDescription"

	CardholderNameRequired = "Payment.CardholderName.Required"
	CardNumberWrong        = "Payment.CardNumber.Wrong"
	CardCodeWrong          = "Payment.CardCode.Wrong"
	ExpireMonthRequired    = "Payment.ExpireMonth.Required"
	ExpireYearRequired     = "Payment.ExpireYear.Required"
	ExpirationDateExpired  = "Payment.ExpirationDate.Expired"

	PluginSaved = "Admin.Plugins.Saved"
)

//go:embed en.yaml
var enYAML []byte

// Resources is the parsed resource file
type Resources struct {
	// Plugin holds resources added on install and removed on uninstall
	Plugin map[string]string `yaml:"plugin"`
	// Host holds host-owned messages used as fallbacks
	Host map[string]string `yaml:"host"`
}

var (
	defaults     *Resources
	defaultsErr  error
	defaultsOnce sync.Once
)

// Parse decodes a resource file
func Parse(data []byte) (*Resources, error) {
	var r Resources
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to parse locale resources: %w", err)
	}
	if len(r.Plugin) == 0 {
		return nil, errors.New("locale resources: plugin section is empty")
	}
	return &r, nil
}

// Default returns the embedded English resources
func Default() (*Resources, error) {
	defaultsOnce.Do(func() {
		defaults, defaultsErr = Parse(enYAML)
	})
	return defaults, defaultsErr
}

// PluginNames returns the plugin resource names in a stable order
func (r *Resources) PluginNames() []string {
	names := make([]string, 0, len(r.Plugin))
	for name := range r.Plugin {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the embedded value of a resource
func (r *Resources) Lookup(name string) (string, bool) {
	if v, ok := r.Plugin[name]; ok {
		return v, true
	}
	v, ok := r.Host[name]
	return v, ok
}

// Localizer resolves resource names against the store, then the embedded defaults.
// Unknown names resolve to themselves.
type Localizer struct {
	repo      repository.LocaleRepository
	resources *Resources
}

// NewLocalizer creates a Localizer; repo may be nil
func NewLocalizer(repo repository.LocaleRepository, resources *Resources) *Localizer {
	return &Localizer{repo: repo, resources: resources}
}

// Get returns the text of a resource
func (l *Localizer) Get(ctx context.Context, name string) string {
	if l.repo != nil {
		if v, err := l.repo.GetResource(ctx, name); err == nil {
			return v
		}
	}
	if l.resources != nil {
		if v, ok := l.resources.Lookup(name); ok {
			return v
		}
	}
	return name
}

// Install adds or updates every plugin resource in the store
func (l *Localizer) Install(ctx context.Context) error {
	if err := l.repo.AddOrUpdate(ctx, l.resources.Plugin); err != nil {
		return fmt.Errorf("failed to install locale resources: %w", err)
	}
	return nil
}

// Uninstall deletes every plugin resource from the store.
// Host messages are left alone.
func (l *Localizer) Uninstall(ctx context.Context) error {
	if err := l.repo.Delete(ctx, l.resources.PluginNames()...); err != nil {
		return fmt.Errorf("failed to uninstall locale resources: %w", err)
	}
	return nil
}

// IsNotFound reports whether err is a missing resource
func IsNotFound(err error) bool {
	return errors.Is(err, domain.ErrLocaleResourceNotFound)
}
