package container

import (
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ── Entries ───────────────────────────────────────────────────────────────────

// entry is one of *instanceEntry, *callableEntry or *classEntry. Each
// registration stores a new pointer, so entries compare by identity.
type entry interface {
	kind() string
}

type instanceEntry struct{ value any }

type callableEntry struct{ fn Factory }

type classEntry struct {
	class  string
	method string
}

func (instanceEntry) kind() string { return "instance" }
func (callableEntry) kind() string { return "factory" }
func (classEntry) kind() string    { return "factory class" }

// ── Container ─────────────────────────────────────────────────────────────────

// Container maps service names to instances, factories and factory classes.
//
// It supports:
//   - Set / SetFactory / SetFactoryClass
//   - Build (fresh result per call for factories)
//   - Get (built once, then shared)
//   - Has / Names / Forget
type Container struct {
	mu sync.RWMutex

	// name → entry
	entries map[string]entry

	// name → result of the first Get
	shared map[string]any

	classes       *ClassRegistry
	defaultMethod string
	logger        *zap.Logger
}

// New creates an empty container.
func New(opts ...Option) *Container {
	c := &Container{
		entries:       make(map[string]entry),
		shared:        make(map[string]any),
		classes:       DefaultClasses,
		defaultMethod: DefaultFactoryMethod,
		logger:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ── Registration ──────────────────────────────────────────────────────────────

// Set registers a pre-built service.
//
//	c.Set("config", cfg)
func (c *Container) Set(name string, service any) (*Container, error) {
	if name == "" {
		return c, newError(name, "service name cannot be empty")
	}
	c.store(name, &instanceEntry{value: service})
	return c, nil
}

// SetFactory registers a factory invoked on every Build of name.
//
//	c.SetFactory("clock", func(c *container.Container, name string, opts container.Options) (any, error) {
//	    return time.Now, nil
//	})
func (c *Container) SetFactory(name string, factory Factory) (*Container, error) {
	if name == "" {
		return c, newError(name, "service name cannot be empty")
	}
	if factory == nil {
		return c, newError(name, fmt.Sprintf("factory for service '%s' cannot be nil", name))
	}
	c.store(name, &callableEntry{fn: factory})
	return c, nil
}

// SetFactoryClass registers a factory class by name. The class is looked up
// in the class registry when the service is built, and method (default
// "Create") is called with (container, name, options).
//
//	container.DefaultClasses.Register("FileLoggerFactory", func() any { return &FileLoggerFactory{} })
//	c.SetFactoryClass("logger", "FileLoggerFactory", "create")
func (c *Container) SetFactoryClass(name, class string, method ...string) (*Container, error) {
	if name == "" {
		return c, newError(name, "service name cannot be empty")
	}
	if class == "" {
		return c, newError(name, fmt.Sprintf("factory class for service '%s' cannot be empty", name))
	}
	m := c.defaultMethod
	if len(method) > 0 && method[0] != "" {
		m = method[0]
	}
	c.store(name, &classEntry{class: class, method: m})
	return c, nil
}

func (c *Container) store(name string, e entry) {
	c.mu.Lock()
	c.entries[name] = e
	delete(c.shared, name)
	c.mu.Unlock()

	c.logger.Debug("service registered", zap.String("service", name), zap.String("kind", e.kind()))
}

// ── Resolution ────────────────────────────────────────────────────────────────

// Build resolves name. Instances are returned as-is; factories and factory
// classes are invoked with opts on every call.
func (c *Container) Build(name string, opts Options) (any, error) {
	e, ok := c.lookup(name)
	if !ok {
		return nil, &NotFoundError{Name: name}
	}
	return c.build(name, e, opts)
}

func (c *Container) lookup(name string) (entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[name]
	return e, ok
}

func (c *Container) build(name string, e entry, opts Options) (any, error) {
	service, err := c.produce(name, e, opts)
	if err != nil {
		c.logger.Debug("service build failed", zap.String("service", name), zap.Error(err))
		return nil, buildFailed(name, err)
	}
	return service, nil
}

// produce runs outside the lock so factories may resolve other services.
func (c *Container) produce(name string, e entry, opts Options) (service any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("panic: %v", r)
		}
	}()

	switch e := e.(type) {
	case *instanceEntry:
		return e.value, nil
	case *callableEntry:
		return e.fn(c, name, opts)
	case *classEntry:
		return invokeClass(c, c.classes, e.class, e.method, name, opts)
	default:
		return nil, errors.Errorf("unknown entry %T", e)
	}
}

// Get returns the shared instance of name, building it with no options the
// first time. Re-registering name drops the shared instance.
func (c *Container) Get(name string) (any, error) {
	c.mu.RLock()
	if inst, ok := c.shared[name]; ok {
		c.mu.RUnlock()
		return inst, nil
	}
	c.mu.RUnlock()

	e, ok := c.lookup(name)
	if !ok {
		return nil, &NotFoundError{Name: name}
	}
	service, err := c.build(name, e, Options{})
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	// A concurrent Get may have won; keep the first result.
	if inst, ok := c.shared[name]; ok {
		return inst, nil
	}
	// Only cache if name still maps to the entry that was built.
	if cur, ok := c.entries[name]; ok && cur == e {
		c.shared[name] = service
	}
	return service, nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

// Has returns true if name has been registered.
func (c *Container) Has(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.entries[name]
	return ok
}

// Forget removes name and any shared instance of it.
func (c *Container) Forget(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, name)
	delete(c.shared, name)
}

// Names returns the registered service names in sorted order.
func (c *Container) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.entries))
	for k := range c.entries {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Classes returns the class registry used for factory classes.
func (c *Container) Classes() *ClassRegistry { return c.classes }

// Logger returns the container's logger.
func (c *Container) Logger() *zap.Logger { return c.logger }

// ── Generics helper ───────────────────────────────────────────────────────────

// Resolve builds name and type-asserts the result.
//
//	logger, err := container.Resolve[*FileLogger](c, "logger", container.Options{"path": "/tmp/a.log"})
func Resolve[T any](c *Container, name string, opts Options) (T, error) {
	var zero T
	service, err := c.Build(name, opts)
	if err != nil {
		return zero, err
	}
	typed, ok := service.(T)
	if !ok {
		return zero, buildFailed(name, errors.Errorf("resolved to %T, want %v", service, reflect.TypeOf((*T)(nil)).Elem()))
	}
	return typed, nil
}

// MustResolve is Resolve for bootstrap code; it panics on error.
func MustResolve[T any](c *Container, name string) T {
	typed, err := Resolve[T](c, name, nil)
	if err != nil {
		panic(fmt.Sprintf("container: MustResolve: %v", err))
	}
	return typed
}
