package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	"go.uber.org/zap"

	"github.com/km-arc/go-container/framework/app"
	"github.com/km-arc/go-container/framework/config"
	"github.com/km-arc/go-container/framework/container"
)

// FileLogger appends lines to a file.
type FileLogger struct {
	mu   sync.Mutex
	path string
}

func (l *FileLogger) Log(line string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = fmt.Fprintln(f, line)
	return err
}

// FileLoggerFactory builds a FileLogger from the "path" option.
type FileLoggerFactory struct{}

func (FileLoggerFactory) Create(_ *container.Container, name string, opts container.Options) (any, error) {
	path, _ := opts["path"].(string)
	if path == "" {
		path = filepath.Join(os.TempDir(), name+".log")
	}
	return &FileLogger{path: path}, nil
}

func init() {
	container.DefaultClasses.MustRegister("FileLoggerFactory", func() any { return FileLoggerFactory{} })
}

// AppServiceProvider registers the example services.
type AppServiceProvider struct{ container.BaseProvider }

func (p *AppServiceProvider) Register(c *container.Container) error {
	if _, err := c.SetFactoryClass("logger", "FileLoggerFactory", "create"); err != nil {
		return err
	}
	_, err := c.SetFactory("greeting", func(c *container.Container, _ string, opts container.Options) (any, error) {
		who, _ := opts["who"].(string)
		if who == "" {
			who = "world"
		}
		return "Hello, " + who, nil
	})
	return err
}

func (p *AppServiceProvider) Boot(c *container.Container) error {
	l, err := container.Resolve[*FileLogger](c, "logger", container.Options{"path": config.Get("APP_LOG_FILE", "")})
	if err != nil {
		return err
	}
	return l.Log("application booted")
}

func main() {
	application, err := app.New() // loads .env automatically
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = application.Logger.Sync() }()

	if err := application.Register(&AppServiceProvider{}); err != nil {
		application.Logger.Fatal("register", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := application.Run(ctx); err != nil {
		application.Logger.Fatal("run", zap.Error(err))
	}
}
