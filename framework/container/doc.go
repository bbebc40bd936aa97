// Package container provides a named service container and a Service
// Provider system for Go.
//
// # Overview
//
// The container maps service names to one of three kinds of entry:
// a pre-built instance, a factory function, or the name of a factory class.
// Build resolves a name to a service; Get does the same but shares the
// first result.
//
// # Registration
//
//	c := container.New(container.WithLogger(logger))
//
//	// Pre-built value
//	c.Set("config", cfg)
//
//	// Factory, called on every Build
//	c.SetFactory("mailer", func(c *container.Container, name string, opts container.Options) (any, error) {
//	    cfg, err := container.Resolve[*config.Config](c, "config", nil)
//	    if err != nil {
//	        return nil, err
//	    }
//	    return mail.NewSMTP(cfg.Mail), nil
//	})
//
//	// Factory class, looked up by name at build time
//	container.DefaultClasses.MustRegister("FileLoggerFactory", func() any { return &FileLoggerFactory{} })
//	c.SetFactoryClass("logger", "FileLoggerFactory", "create")
//
// Registering a name again replaces the previous entry.
//
// # Factory classes
//
// A factory class is any value registered in a ClassRegistry. When the
// method is the default ("Create") and the value implements ServiceFactory,
// Create is called directly. Otherwise the method is found by reflection and
// must have one of these shapes:
//
//	func (f *F) Method(c *container.Container, name string, opts container.Options) (any, error)
//	func (f *F) Method(c *container.Container, name string, opts map[string]any) any
//
// A method name starting with a lower-case letter also matches the exported
// method, so "create" finds Create.
//
// # Resolving
//
//	svc, err := c.Build("logger", container.Options{"path": "/tmp/a.log"})
//
//	// Generic
//	logger, err := container.Resolve[*FileLogger](c, "logger", nil)
//
// # Errors
//
// Build returns *NotFoundError when the name has no entry and *BuildError
// for everything else that goes wrong while producing the service: factory
// errors, factory panics, unknown classes, missing or ill-typed methods.
// Registration with an empty name, nil factory or empty class returns *Error.
// All three match ErrContainer with errors.Is.
//
// # Service Providers
//
//	type AppServiceProvider struct{ container.BaseProvider }
//
//	func (p *AppServiceProvider) Register(c *container.Container) error {
//	    _, err := c.SetFactoryClass("mailer", "SMTPMailerFactory")
//	    return err
//	}
//
//	registry := container.NewProviderRegistry(c)
//	registry.Register(&AppServiceProvider{})
//	registry.Boot()
//
// Deferred providers return true from IsDeferred and list their names in
// Provides; they are registered on the first Build of one of those names.
package container
