package adapter_test

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/km-arc/go-container/framework/adapter"
	"github.com/km-arc/go-container/framework/container"
)

// ── helpers ──────────────────────────────────────────────────────────────────

type fileLogger struct {
	Service string
	Options container.Options
}

type fileLoggerFactory struct{}

func (fileLoggerFactory) Create(c *container.Container, name string, opts container.Options) (any, error) {
	return &fileLogger{Service: name, Options: opts}, nil
}

func newAdapter(t *testing.T) *adapter.ArrayAdapter {
	t.Helper()
	reg := container.NewClassRegistry()
	reg.MustRegister("FileLoggerFactory", func() any { return fileLoggerFactory{} })
	return adapter.New(container.New(container.WithClassRegistry(reg)))
}

func constant(v any) container.Factory {
	return func(*container.Container, string, container.Options) (any, error) { return v, nil }
}

// ── SetService ───────────────────────────────────────────────────────────────

func TestSetService_BuildReturnsIdenticalValue(t *testing.T) {
	tests := []struct {
		name    string
		service any
	}{
		{"string", "hello"},
		{"int", 7},
		{"pointer", &fileLogger{Service: "x"}},
		{"map", map[string]int{"a": 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newAdapter(t)
			if _, err := a.SetService(tt.name, tt.service); err != nil {
				t.Fatalf("SetService: %v", err)
			}
			got, err := a.Build(tt.name, nil)
			if err != nil {
				t.Fatalf("Build: %v", err)
			}
			if !reflect.DeepEqual(got, tt.service) {
				t.Errorf("got %v, want %v", got, tt.service)
			}
		})
	}
}

func TestSetService_Overwrites(t *testing.T) {
	a := newAdapter(t)
	a.SetService("svc", "v1")
	a.SetService("svc", "v2")

	if got, _ := a.Build("svc", nil); got != "v2" {
		t.Errorf("got %v, want v2", got)
	}
}

func TestSetService_FailureKeepsContainerMessage(t *testing.T) {
	a := newAdapter(t)
	_, err := a.SetService("", "x")

	var aerr *adapter.Error
	if !errors.As(err, &aerr) {
		t.Fatalf("got %T, want *adapter.Error", err)
	}
	if err.Error() != "service name cannot be empty" {
		t.Errorf("message: got %q", err)
	}
	var cerr *container.Error
	if !errors.As(err, &cerr) {
		t.Error("container error should be preserved as the cause")
	}
}

func TestSetters_ReturnAdapterForChaining(t *testing.T) {
	a := newAdapter(t)

	r1, _ := a.SetService("a", 1)
	r2, _ := a.SetFactory("b", constant(2))
	r3, _ := a.SetFactoryClass("c", "FileLoggerFactory")

	for i, r := range []adapter.ContainerAdapter{r1, r2, r3} {
		if r != adapter.ContainerAdapter(a) {
			t.Errorf("setter %d did not return the adapter", i)
		}
	}
}

// ── SetFactory ───────────────────────────────────────────────────────────────

func TestSetFactory_InvokedPerBuildWithOptions(t *testing.T) {
	a := newAdapter(t)
	calls := 0
	var seen container.Options
	a.SetFactory("svc", func(_ *container.Container, _ string, opts container.Options) (any, error) {
		calls++
		seen = opts
		return calls, nil
	})

	opts := container.Options{"k": "v"}
	for want := 1; want <= 3; want++ {
		got, err := a.Build("svc", opts)
		if err != nil {
			t.Fatalf("Build: %v", err)
		}
		if got != want {
			t.Errorf("call %d: got %v", want, got)
		}
	}
	if !reflect.DeepEqual(seen, opts) {
		t.Errorf("options: got %v, want %v", seen, opts)
	}
}

func TestSetFactory_FailureMessage(t *testing.T) {
	a := newAdapter(t)
	_, err := a.SetFactory("mailer", nil)

	if !errors.Is(err, adapter.ErrAdapter) {
		t.Fatalf("got %v, want ErrAdapter", err)
	}
	want := "factory registration failed for 'mailer': factory for service 'mailer' cannot be nil"
	if err.Error() != want {
		t.Errorf("message:\n got %q\nwant %q", err, want)
	}
}

// ── SetFactoryClass ──────────────────────────────────────────────────────────

func TestSetFactoryClass_LoggerScenario(t *testing.T) {
	a := newAdapter(t)
	if _, err := a.SetFactoryClass("logger", "FileLoggerFactory", "create"); err != nil {
		t.Fatalf("SetFactoryClass: %v", err)
	}

	opts := container.Options{"path": "/tmp/a.log"}
	got, err := a.Build("logger", opts)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	l := got.(*fileLogger)
	if l.Service != "logger" || !reflect.DeepEqual(l.Options, opts) {
		t.Errorf("got %+v", l)
	}
}

func TestSetFactoryClass_FailureMessage(t *testing.T) {
	a := newAdapter(t)
	_, err := a.SetFactoryClass("logger", "")

	if !errors.Is(err, adapter.ErrAdapter) {
		t.Fatalf("got %v, want ErrAdapter", err)
	}
	if !strings.HasPrefix(err.Error(), "factory class registration failed for 'logger': ") {
		t.Errorf("message: got %q", err)
	}
}

// ── Build ────────────────────────────────────────────────────────────────────

func TestBuild_NotFound(t *testing.T) {
	a := newAdapter(t)
	_, err := a.Build("payments.gateway", nil)

	var nf *adapter.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("got %T, want *adapter.NotFoundError", err)
	}
	if nf.Name != "payments.gateway" {
		t.Errorf("Name: got %q", nf.Name)
	}
	if !strings.HasPrefix(err.Error(), "service 'payments.gateway' could not be found: ") {
		t.Errorf("message: got %q", err)
	}
	if !errors.Is(err, adapter.ErrNotFound) || !errors.Is(err, adapter.ErrAdapter) {
		t.Error("NotFoundError should match ErrNotFound and ErrAdapter")
	}
	if !errors.Is(err, container.ErrNotFound) {
		t.Error("container cause should be preserved")
	}
}

func TestBuild_FactoryErrorIsAdapterFailure(t *testing.T) {
	a := newAdapter(t)
	cause := errors.New("smtp: connection refused")
	a.SetFactory("mailer", func(*container.Container, string, container.Options) (any, error) {
		return nil, cause
	})

	_, err := a.Build("mailer", nil)
	if errors.Is(err, adapter.ErrNotFound) {
		t.Fatal("factory failure must not be reported as not found")
	}
	var aerr *adapter.Error
	if !errors.As(err, &aerr) {
		t.Fatalf("got %T, want *adapter.Error", err)
	}
	if !errors.Is(err, cause) {
		t.Error("original cause should be preserved")
	}
	if !strings.HasPrefix(err.Error(), "service 'mailer' could not be built: ") {
		t.Errorf("message: got %q", err)
	}
}

func TestBuild_NestedNotFoundIsAdapterFailure(t *testing.T) {
	a := newAdapter(t)
	a.SetFactory("repo", func(c *container.Container, _ string, _ container.Options) (any, error) {
		return c.Build("db", nil)
	})

	_, err := a.Build("repo", nil)
	if errors.Is(err, adapter.ErrNotFound) {
		t.Fatal("a missing dependency must not make 'repo' not found")
	}
	if !errors.Is(err, adapter.ErrAdapter) {
		t.Errorf("got %v, want ErrAdapter", err)
	}
}

func TestBuild_UnknownClassIsAdapterFailure(t *testing.T) {
	a := newAdapter(t)
	a.SetFactoryClass("cache", "RedisCacheFactory")

	_, err := a.Build("cache", nil)
	if errors.Is(err, adapter.ErrNotFound) || !errors.Is(err, adapter.ErrAdapter) {
		t.Errorf("got %v, want general adapter failure", err)
	}
}

func TestBuild_ContainerErrorsNeverLeak(t *testing.T) {
	a := newAdapter(t)
	a.SetFactory("bad", func(*container.Container, string, container.Options) (any, error) {
		panic("boom")
	})

	for _, name := range []string{"bad", "missing"} {
		_, err := a.Build(name, nil)
		switch err.(type) {
		case *adapter.Error, *adapter.NotFoundError:
		default:
			t.Errorf("%s: outer error type %T leaked", name, err)
		}
	}
}

// ── HasService / GetService ──────────────────────────────────────────────────

func TestHasAndGetService(t *testing.T) {
	a := newAdapter(t)
	a.SetFactory("conn", func(*container.Container, string, container.Options) (any, error) {
		return &fileLogger{}, nil
	})

	if !a.HasService("conn") || a.HasService("nope") {
		t.Error("HasService returned wrong result")
	}

	first, err := a.GetService("conn")
	if err != nil {
		t.Fatalf("GetService: %v", err)
	}
	second, _ := a.GetService("conn")
	if first != second {
		t.Error("GetService should return the shared instance")
	}

	if _, err := a.GetService("nope"); !errors.Is(err, adapter.ErrNotFound) {
		t.Errorf("GetService(nope): got %v, want ErrNotFound", err)
	}
}

// ── Logging ──────────────────────────────────────────────────────────────────

func TestFailuresAreLogged(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	a := adapter.New(container.New(container.WithLogger(zap.New(core))))

	a.Build("missing", nil)

	entries := logs.FilterMessage("container operation failed").All()
	if len(entries) != 1 {
		t.Fatalf("warn entries: got %d, want 1", len(entries))
	}
	if got := entries[0].ContextMap()["service"]; got != "missing" {
		t.Errorf("service field: got %v", got)
	}
}
