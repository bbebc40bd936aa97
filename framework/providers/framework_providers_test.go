package providers_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/km-arc/go-container/framework/config"
	"github.com/km-arc/go-container/framework/container"
	"github.com/km-arc/go-container/framework/providers"
	"github.com/km-arc/go-container/framework/routing"
)

func register(t *testing.T, inspect bool) *container.Container {
	t.Helper()
	c := container.New(container.WithClassRegistry(container.NewClassRegistry()))
	reg := container.NewProviderRegistry(c)

	cfg := &config.Config{Container: config.ContainerConfig{Inspect: inspect}}
	for _, p := range []container.ServiceProvider{
		&providers.ConfigServiceProvider{Config: cfg},
		&providers.LoggingServiceProvider{Logger: zap.NewNop()},
		&providers.RoutingServiceProvider{},
	} {
		if err := reg.Register(p); err != nil {
			t.Fatalf("Register %T: %v", p, err)
		}
	}
	if err := reg.Boot(); err != nil {
		t.Fatalf("Boot: %v", err)
	}
	return c
}

func TestProviders_RegisterServices(t *testing.T) {
	c := register(t, false)
	for _, name := range []string{"config", "log", "router"} {
		if !c.Has(name) {
			t.Errorf("%s should be registered", name)
		}
	}
}

func TestRoutingServiceProvider_InspectRoutes(t *testing.T) {
	tests := []struct {
		inspect bool
		status  int
	}{
		{true, http.StatusOK},
		{false, http.StatusNotFound},
	}

	for _, tt := range tests {
		c := register(t, tt.inspect)
		r, err := container.Resolve[*routing.Router](c, "router", nil)
		if err != nil {
			t.Fatalf("Resolve router: %v", err)
		}
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/services", nil))
		if rr.Code != tt.status {
			t.Errorf("inspect=%v: got %d want %d", tt.inspect, rr.Code, tt.status)
		}
	}
}

func TestRouterFactory_MissingConfig(t *testing.T) {
	c := container.New(container.WithClassRegistry(container.NewClassRegistry()))
	reg := container.NewProviderRegistry(c)
	reg.Register(&providers.RoutingServiceProvider{})

	_, err := c.Build("router", nil)
	if !errors.Is(err, container.ErrBuild) {
		t.Fatalf("got %v, want ErrBuild", err)
	}
}
