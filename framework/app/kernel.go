package app

import (
	"context"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/km-arc/go-container/framework/adapter"
	"github.com/km-arc/go-container/framework/config"
	"github.com/km-arc/go-container/framework/container"
	"github.com/km-arc/go-container/framework/logging"
	"github.com/km-arc/go-container/framework/providers"
	"github.com/km-arc/go-container/framework/routing"
)

const shutdownTimeout = 5 * time.Second

// Application is the top-level application container.
// It embeds the ArrayAdapter so user code can call app.SetService(),
// app.SetFactory(), app.Build() directly, with adapter errors.
type Application struct {
	*adapter.ArrayAdapter
	Providers *container.ProviderRegistry
	Logger    *zap.Logger

	cfg *config.Config
}

// New loads configuration, builds the logger and registers the framework
// providers.
func New(envFiles ...string) (*Application, error) {
	cfg := config.Load(envFiles...)

	logger, err := logging.New(cfg)
	if err != nil {
		return nil, err
	}

	c := container.New(
		container.WithLogger(logger.Named("container")),
		container.WithDefaultMethod(cfg.Container.FactoryMethod),
	)
	app := &Application{
		ArrayAdapter: adapter.New(c),
		Providers:    container.NewProviderRegistry(c),
		Logger:       logger,
		cfg:          cfg,
	}

	for _, p := range []container.ServiceProvider{
		&providers.ConfigServiceProvider{Config: cfg},
		&providers.LoggingServiceProvider{Logger: logger},
		&providers.RoutingServiceProvider{},
	} {
		if err := app.Register(p); err != nil {
			return nil, err
		}
	}
	return app, nil
}

// Register adds a ServiceProvider to the application.
func (a *Application) Register(provider container.ServiceProvider) error {
	return a.Providers.Register(provider)
}

// Boot runs the Boot() phase on all providers.
func (a *Application) Boot() error {
	return a.Providers.Boot()
}

// Config returns the loaded configuration.
func (a *Application) Config() *config.Config { return a.cfg }

// Router returns the shared router.
func (a *Application) Router() (*routing.Router, error) {
	svc, err := a.GetService("router")
	if err != nil {
		return nil, err
	}
	r, ok := svc.(*routing.Router)
	if !ok {
		return nil, errors.Errorf("router: got %T", svc)
	}
	return r, nil
}

// Run boots the application (if needed) and serves HTTP on APP_PORT until
// ctx is cancelled.
func (a *Application) Run(ctx context.Context) error {
	if !a.Providers.Booted() {
		if err := a.Boot(); err != nil {
			return err
		}
	}
	router, err := a.Router()
	if err != nil {
		return err
	}
	if a.IsProduction() && a.cfg.Container.Inspect {
		a.Logger.Warn("service inspection routes are enabled in production")
	}

	srv := &http.Server{
		Addr:              ":" + a.cfg.App.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("listening",
			zap.String("addr", srv.Addr),
			zap.Strings("services", a.Container().Names()))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(err, "serve")
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "shutdown")
	}
	<-errCh
	return nil
}

// Environment returns APP_ENV value.
func (a *Application) Environment() string { return a.cfg.App.Env }
func (a *Application) IsProduction() bool  { return a.Environment() == "production" }
