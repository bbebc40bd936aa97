package providers

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/km-arc/go-container/framework/adapter"
	"github.com/km-arc/go-container/framework/config"
	"github.com/km-arc/go-container/framework/container"
	"github.com/km-arc/go-container/framework/routing"
)

// ── ConfigServiceProvider ─────────────────────────────────────────────────────

// ConfigServiceProvider binds the loaded configuration.
//
// Registered services:
//   - "config"  → *config.Config
type ConfigServiceProvider struct {
	container.BaseProvider
	Config *config.Config
}

func (p *ConfigServiceProvider) Register(c *container.Container) error {
	_, err := c.Set("config", p.Config)
	return err
}

// ── LoggingServiceProvider ────────────────────────────────────────────────────

// LoggingServiceProvider binds the application logger.
//
// Registered services:
//   - "log"  → *zap.Logger
type LoggingServiceProvider struct {
	container.BaseProvider
	Logger *zap.Logger
}

func (p *LoggingServiceProvider) Register(c *container.Container) error {
	_, err := c.Set("log", p.Logger)
	return err
}

// ── RoutingServiceProvider ────────────────────────────────────────────────────

// RoutingServiceProvider registers the HTTP router through the RouterFactory
// factory class.
//
// Registered services:
//   - "router"  → *routing.Router
//
// Configuration read from "config":
//   - Container.Inspect mounts the /services diagnostics routes.
type RoutingServiceProvider struct {
	container.BaseProvider
}

func (p *RoutingServiceProvider) Register(c *container.Container) error {
	if err := c.Classes().Register("RouterFactory", func() any { return &RouterFactory{} }); err != nil {
		return err
	}
	_, err := c.SetFactoryClass("router", "RouterFactory", "NewRouter")
	return err
}

// RouterFactory builds the application router from "config" and "log".
type RouterFactory struct{}

// NewRouter is called with the container, the service name and build options.
func (f *RouterFactory) NewRouter(c *container.Container, _ string, _ container.Options) (any, error) {
	cfg, err := container.Resolve[*config.Config](c, "config", nil)
	if err != nil {
		return nil, errors.Wrap(err, "router needs config")
	}
	logger, err := container.Resolve[*zap.Logger](c, "log", nil)
	if err != nil {
		return nil, errors.Wrap(err, "router needs log")
	}

	r := routing.New(logger.Named("http"))
	if cfg.Container.Inspect {
		routing.Inspect(r, adapter.New(c), c)
	}
	return r, nil
}
