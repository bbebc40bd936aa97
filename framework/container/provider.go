package container

import (
	"reflect"
	"sort"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ── ServiceProvider interface ─────────────────────────────────────────────────

// ServiceProvider groups related registrations.
//
// Register() is called when the provider is added (or, for deferred
// providers, on first Build of one of its names). Boot() is called after
// ALL eager providers have been registered, so it may build other services.
//
//	type MailProvider struct{ container.BaseProvider }
//
//	func (p *MailProvider) Register(c *container.Container) error {
//	    _, err := c.SetFactoryClass("mailer", "SMTPMailerFactory")
//	    return err
//	}
type ServiceProvider interface {
	// Register adds services to the container.
	// Do NOT build other services here; use Boot() for that.
	Register(c *Container) error

	// Boot is called after all providers are registered.
	Boot(c *Container) error

	// Provides lists the service names a deferred provider registers.
	Provides() []string

	// IsDeferred returns true if the provider should only be registered
	// when one of its Provides() names is first built.
	IsDeferred() bool
}

// ── BaseProvider ──────────────────────────────────────────────────────────────

// BaseProvider is an embeddable struct with no-op Boot(), Provides() and
// IsDeferred(). Embed it and implement Register().
type BaseProvider struct{}

func (p *BaseProvider) Boot(_ *Container) error { return nil }
func (p *BaseProvider) Provides() []string      { return nil }
func (p *BaseProvider) IsDeferred() bool        { return false }

// ── ProviderRegistry ──────────────────────────────────────────────────────────

// ProviderRegistry manages registration and booting of ServiceProviders,
// including deferred ones.
type ProviderRegistry struct {
	mu         sync.Mutex
	c          *Container
	eager      []ServiceProvider
	deferred   map[string]ServiceProvider // name → provider
	loaded     map[ServiceProvider]*loadState
	registered map[ServiceProvider]bool
	booted     bool
}

// NewProviderRegistry creates a registry bound to c.
func NewProviderRegistry(c *Container) *ProviderRegistry {
	return &ProviderRegistry{
		c:          c,
		deferred:   make(map[string]ServiceProvider),
		loaded:     make(map[ServiceProvider]*loadState),
		registered: make(map[ServiceProvider]bool),
	}
}

// Register adds a provider and calls its Register() method (unless deferred).
// Registering the same provider twice is a no-op.
func (r *ProviderRegistry) Register(provider ServiceProvider) error {
	r.mu.Lock()
	if r.registered[provider] {
		r.mu.Unlock()
		return nil
	}
	r.registered[provider] = true

	if provider.IsDeferred() {
		for _, name := range provider.Provides() {
			r.deferred[name] = provider
		}
		r.mu.Unlock()
		return r.installDeferred(provider)
	}

	r.eager = append(r.eager, provider)
	booted := r.booted
	r.mu.Unlock()

	if err := provider.Register(r.c); err != nil {
		return errors.Wrapf(err, "register provider %T", provider)
	}
	r.c.logger.Debug("provider registered", zap.String("provider", typeName(provider)))

	// Late providers are booted immediately.
	if booted {
		if err := provider.Boot(r.c); err != nil {
			return errors.Wrapf(err, "boot provider %T", provider)
		}
	}
	return nil
}

// installDeferred registers a stub factory for each provided name. The first
// Build loads the provider, whose registrations replace the stubs, and then
// builds the real service.
func (r *ProviderRegistry) installDeferred(provider ServiceProvider) error {
	for _, name := range provider.Provides() {
		_, err := r.c.SetFactory(name, func(c *Container, name string, opts Options) (any, error) {
			if err := r.load(provider); err != nil {
				return nil, err
			}
			service, err := c.Build(name, opts)
			if berr, ok := err.(*BuildError); ok && berr.Name == name {
				return nil, berr.cause
			}
			return service, err
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// load registers a deferred provider exactly once. Concurrent first builds
// wait for the same registration.
func (r *ProviderRegistry) load(provider ServiceProvider) error {
	r.mu.Lock()
	state, ok := r.loaded[provider]
	if !ok {
		state = &loadState{}
		r.loaded[provider] = state
	}
	r.mu.Unlock()

	state.once.Do(func() {
		state.err = r.registerDeferred(provider)
	})
	return state.err
}

func (r *ProviderRegistry) registerDeferred(provider ServiceProvider) error {
	names := provider.Provides()
	for _, name := range names {
		r.c.Forget(name)
	}

	if err := r.registerProvided(provider, names); err != nil {
		// Restore the stubs so later builds keep reporting the load error.
		if serr := r.installDeferred(provider); serr != nil {
			r.c.logger.Error("restore deferred stubs", zap.String("provider", typeName(provider)), zap.Error(serr))
		}
		return err
	}

	r.mu.Lock()
	for _, name := range names {
		if r.deferred[name] == provider {
			delete(r.deferred, name)
		}
	}
	booted := r.booted
	r.mu.Unlock()

	r.c.logger.Debug("deferred provider loaded", zap.String("provider", typeName(provider)))
	if booted {
		if err := provider.Boot(r.c); err != nil {
			return errors.Wrapf(err, "boot deferred provider %T", provider)
		}
	}
	return nil
}

func (r *ProviderRegistry) registerProvided(provider ServiceProvider, names []string) error {
	if err := provider.Register(r.c); err != nil {
		return errors.Wrapf(err, "register deferred provider %T", provider)
	}
	for _, name := range names {
		if !r.c.Has(name) {
			return errors.Errorf("deferred provider %T did not register '%s'", provider, name)
		}
	}
	return nil
}

type loadState struct {
	once sync.Once
	err  error
}

// Boot calls Boot() on all eager providers. Subsequent calls are no-ops.
func (r *ProviderRegistry) Boot() error {
	r.mu.Lock()
	if r.booted {
		r.mu.Unlock()
		return nil
	}
	r.booted = true
	providers := append([]ServiceProvider(nil), r.eager...)
	r.mu.Unlock()

	for _, provider := range providers {
		if err := provider.Boot(r.c); err != nil {
			return errors.Wrapf(err, "boot provider %T", provider)
		}
	}
	return nil
}

// Booted returns true if Boot() has been called.
func (r *ProviderRegistry) Booted() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.booted
}

// Deferred returns the names whose providers have not been loaded yet.
func (r *ProviderRegistry) Deferred() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.deferred))
	for name := range r.deferred {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Providers returns the registered eager providers.
func (r *ProviderRegistry) Providers() []ServiceProvider {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]ServiceProvider(nil), r.eager...)
}

func typeName(v any) string {
	return reflect.TypeOf(v).String()
}
