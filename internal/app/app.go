package app

import (
	"context"
	"errors"
	"fmt"
	"github.com/rs/zerolog/log"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"
)

//go:generate mockgen -destination=./app_mock.go -package=app -source=app.go

// Dependency is the interface that wraps the basic methods of a dependency required for the application.
type Dependency interface {
	// Start is anything a dependency needs to do before it's ready to be used. It may block
	// until Stop is called.
	Start() error
	// Stop is anything a dependency needs to do before it's ready to be stopped
	Stop() error
	// Name is the name of the dependency. It is used for logging and identification purposes, only.
	Name() string
}

// Finite is implemented by dependencies whose Start returns once their work is done, like a
// bounded replay. The application shuts down when such a Start returns.
type Finite interface {
	Finite() bool
}

type App struct {
	serviceName string
	// deps are started in order and stopped in reverse order.
	deps []Dependency
	// depFailChan receives Start failures.
	depFailChan chan error
	// depDoneChan receives the name of a finite dependency that finished.
	depDoneChan chan string
	// osSignalChan is a channel that will be used to signal when the OS has sent a signal to the application.
	osSignalChan chan os.Signal
	// stopCalled is an atomic bool. It allows stop to be called once
	stopCalled *atomic.Bool
	// runCalled allows Start to be called once
	runCalled *atomic.Bool
	// stopTimeout bounds the whole shutdown.
	stopTimeout time.Duration
}

type Config struct {
	ServiceName string
	StopTimeout time.Duration
}

func (c *Config) validate() error {
	var errs []error
	if c.ServiceName == "" {
		errs = append(errs, errors.New("service name is required"))
	}
	if c.StopTimeout <= 0 {
		errs = append(errs, errors.New("stop timeout is required"))
	}
	return errors.Join(errs...)
}

// CreateApp creates a new application with the provided dependencies.
func CreateApp(cfg *Config, deps ...Dependency) (*App, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &App{
		serviceName:  cfg.ServiceName,
		deps:         deps,
		stopTimeout:  cfg.StopTimeout,
		stopCalled:   &atomic.Bool{},
		runCalled:    &atomic.Bool{},
		depFailChan:  make(chan error, len(deps)), // one slot per dependency
		depDoneChan:  make(chan string, len(deps)),
		osSignalChan: make(chan os.Signal, 1), // first signal we get shuts down the app
	}, nil
}

// Run starts all dependencies and blocks until ctx is done, the OS asks to terminate, a
// dependency fails or a finite dependency finishes. It then stops everything.
func (a *App) Run(ctx context.Context) error {
	if !a.runCalled.CompareAndSwap(false, true) {
		return errors.New("run has already been called")
	}

	ctxCancel, cancel := context.WithCancel(ctx)
	defer cancel()

	log.Info().Str("service", a.serviceName).Msg("starting")
	for _, dep := range a.deps {
		// Each dependency runs in its own goroutine; servers block in Start until stopped.
		go a.start(dep)
	}

	signal.Notify(a.osSignalChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(a.osSignalChan)

	var runErr error
	select {
	case <-ctxCancel.Done():
		log.Info().Msg("App Context cancelled: shutting down")
	case runErr = <-a.depFailChan:
		log.Error().Err(runErr).Msg("Dependency failed")
	case name := <-a.depDoneChan:
		log.Info().Str("dependency", name).Msg("Dependency finished: shutting down")
	case sig := <-a.osSignalChan:
		log.Info().Msg("OS Signal received: " + sig.String() + " shutdown beginning...")
	}

	if err := a.stop(); err != nil {
		log.Error().Err(err).Msg("Error stopping application")
		return errors.Join(runErr, err)
	}
	return runErr
}

func (a *App) start(dep Dependency) {
	defer func() {
		if err := recover(); err != nil {
			a.depFailChan <- fmt.Errorf("panic in Start() for dependency %s: %v", dep.Name(), err)
		}
	}()

	log.Info().Msg("Starting dependency: " + dep.Name())
	if err := dep.Start(); err != nil {
		a.depFailChan <- fmt.Errorf("failure in Start() for dependency %s: %w", dep.Name(), err)
		return
	}
	if f, ok := dep.(Finite); ok && f.Finite() {
		a.depDoneChan <- dep.Name()
	}
}

// stop attempts a graceful shutdown of each dependency, last started first.
func (a *App) stop() error {
	if !a.stopCalled.CompareAndSwap(false, true) {
		return errors.New("stop has already been called")
	}

	done := make(chan error, 1)
	go func() {
		var errs []error
		for i := len(a.deps) - 1; i >= 0; i-- {
			dep := a.deps[i]
			log.Info().Msg("Stopping dependency: " + dep.Name())
			if err := dep.Stop(); err != nil {
				errs = append(errs, fmt.Errorf("failure in Stop() for dependency %s: %w", dep.Name(), err))
			}
		}
		done <- errors.Join(errs...)
	}()

	select {
	case err := <-done:
		return err
	case <-time.After(a.stopTimeout):
		return fmt.Errorf("dependencies did not stop within %s: %w", a.stopTimeout, context.DeadlineExceeded)
	}
}
