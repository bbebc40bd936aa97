// Package adapter wraps a container.Container behind ContainerAdapter and
// normalises its failures into two kinds.
//
//	a := adapter.New(container.New())
//
//	a.SetService("config", cfg)
//	a.SetFactoryClass("logger", "FileLoggerFactory", "create")
//
//	svc, err := a.Build("logger", container.Options{"path": "/tmp/a.log"})
//	switch {
//	case errors.Is(err, adapter.ErrNotFound):
//	    // register and retry, or report
//	case err != nil:
//	    // *adapter.Error; errors.Unwrap(err) is the container's error
//	}
//
// Messages follow a fixed shape:
//
//	factory registration failed for '<name>': <cause>
//	factory class registration failed for '<name>': <cause>
//	service '<name>' could not be found: <cause>
//	service '<name>' could not be built: <cause>
//
// SetService failures keep the container's message unchanged.
package adapter
