package container

import "go.uber.org/zap"

// Option configures a Container.
type Option func(*Container)

// WithLogger sets the logger used for registration and build tracing.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Container) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithClassRegistry replaces DefaultClasses for SetFactoryClass lookups.
func WithClassRegistry(reg *ClassRegistry) Option {
	return func(c *Container) {
		if reg != nil {
			c.classes = reg
		}
	}
}

// WithDefaultMethod changes the method used when SetFactoryClass gets none.
func WithDefaultMethod(method string) Option {
	return func(c *Container) {
		if method != "" {
			c.defaultMethod = method
		}
	}
}
