package adapter

import (
	"go.uber.org/zap"

	"github.com/km-arc/go-container/framework/container"
)

const (
	factoryFailed      = "factory registration failed for '%s': %v"
	factoryClassFailed = "factory class registration failed for '%s': %v"
	buildFailed        = "service '%s' could not be built: %v"
	getFailed          = "service '%s' could not be retrieved: %v"
)

// ContainerAdapter is the uniform surface over a service container. Errors
// are always *Error or *NotFoundError; container error types never leak.
type ContainerAdapter interface {
	SetService(name string, service any) (ContainerAdapter, error)
	SetFactory(name string, factory container.Factory) (ContainerAdapter, error)
	SetFactoryClass(name, class string, method ...string) (ContainerAdapter, error)
	Build(name string, opts container.Options) (any, error)
	HasService(name string) bool
	GetService(name string) (any, error)
}

// ArrayAdapter adapts *container.Container to ContainerAdapter.
type ArrayAdapter struct {
	c      *container.Container
	logger *zap.Logger
}

var _ ContainerAdapter = (*ArrayAdapter)(nil)

// New wraps c. The adapter logs through c's logger.
func New(c *container.Container) *ArrayAdapter {
	return &ArrayAdapter{c: c, logger: c.Logger().Named("adapter")}
}

// Container returns the wrapped container.
func (a *ArrayAdapter) Container() *container.Container { return a.c }

// SetService registers a pre-built service.
func (a *ArrayAdapter) SetService(name string, service any) (ContainerAdapter, error) {
	if _, err := a.c.Set(name, service); err != nil {
		return a, a.fail(name, translate(name, err, ""))
	}
	return a, nil
}

// SetFactory registers a factory called on every Build of name.
func (a *ArrayAdapter) SetFactory(name string, factory container.Factory) (ContainerAdapter, error) {
	if _, err := a.c.SetFactory(name, factory); err != nil {
		return a, a.fail(name, translate(name, err, factoryFailed))
	}
	return a, nil
}

// SetFactoryClass registers a factory class, with an optional method name.
func (a *ArrayAdapter) SetFactoryClass(name, class string, method ...string) (ContainerAdapter, error) {
	if _, err := a.c.SetFactoryClass(name, class, method...); err != nil {
		return a, a.fail(name, translate(name, err, factoryClassFailed))
	}
	return a, nil
}

// Build resolves name with opts. It returns *NotFoundError when name is not
// registered and *Error for any other failure.
func (a *ArrayAdapter) Build(name string, opts container.Options) (any, error) {
	service, err := a.c.Build(name, opts)
	if err != nil {
		return nil, a.fail(name, translate(name, err, buildFailed))
	}
	return service, nil
}

// HasService reports whether name is registered.
func (a *ArrayAdapter) HasService(name string) bool {
	return a.c.Has(name)
}

// GetService returns the shared instance of name.
func (a *ArrayAdapter) GetService(name string) (any, error) {
	service, err := a.c.Get(name)
	if err != nil {
		return nil, a.fail(name, translate(name, err, getFailed))
	}
	return service, nil
}

func (a *ArrayAdapter) fail(name string, err error) error {
	a.logger.Warn("container operation failed", zap.String("service", name), zap.Error(err))
	return err
}
