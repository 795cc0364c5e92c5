// Package kernel boots the client: configuration, logging, the key-value
// store, the API client and the services built on them.
package kernel

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/shashiranjanraj/foodexplorer/app/api"
	"github.com/shashiranjanraj/foodexplorer/app/repositories"
	"github.com/shashiranjanraj/foodexplorer/app/services"
	"github.com/shashiranjanraj/foodexplorer/config"
	"github.com/shashiranjanraj/foodexplorer/pkg/confirm"
	"github.com/shashiranjanraj/foodexplorer/pkg/event"
	"github.com/shashiranjanraj/foodexplorer/pkg/kv"
	"github.com/shashiranjanraj/foodexplorer/pkg/logger"
	"github.com/shashiranjanraj/foodexplorer/pkg/metrics"
	"github.com/shashiranjanraj/foodexplorer/pkg/notification"
)

// Options tweak Boot. The zero value boots from configuration.
type Options struct {
	// Out receives user notifications. Defaults to os.Stdout.
	Out io.Writer
	// Store replaces the configured key-value driver.
	Store kv.Store
}

// App is a booted client.
type App struct {
	API        *api.Client
	Store      kv.Store
	Bus        *event.Bus
	Notify     *notification.Notifier
	Identities *repositories.IdentityRepository
	Orders     *repositories.OrderRepository
	Session    *services.SessionService
	Register   *services.RegisterService

	closers []io.Closer
	cancel  context.CancelFunc
}

// Boot wires the client and restores any stored session.
func Boot(ctx context.Context, opts Options) (*App, error) {
	if err := config.Load(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	logCloser, err := logger.Setup()
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	a := &App{closers: []io.Closer{logCloser}}

	store := opts.Store
	if store == nil {
		if store, err = kv.Open(ctx); err != nil {
			_ = a.Shutdown()
			return nil, err
		}
	}
	a.closers = append(a.closers, store)
	a.Store = kv.WithPrefix(store, config.KVPrefix())

	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	a.Notify = notification.New(notification.Console(out), notification.Log())
	a.Bus = event.NewBus()
	a.API = api.New(config.APIURL(), config.HTTPTimeout())
	a.Identities = repositories.NewIdentityRepository(a.Store)
	a.Orders = repositories.NewOrderRepository(a.Store)
	a.Session = services.NewSessionService(a.API, a.Identities, a.Orders, a.Notify, a.Bus)
	a.Register = services.NewRegisterService(a.API, a.Notify)

	if err := a.Session.Restore(ctx); err != nil {
		_ = a.Shutdown()
		return nil, err
	}

	mctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	if addr := config.MetricsAddr(); addr != "" {
		metrics.Serve(mctx, addr)
		logger.Debug("kernel: metrics listening", "addr", addr)
	}

	logger.Debug("kernel: booted", "api", a.API.BaseURL(), "kv", config.KVDriver(), "signed_in", a.Session.Identity().Valid())
	return a, nil
}

// Checkout starts a checkout visit answering prompts with c.
func (a *App) Checkout(c confirm.Confirmer, opts ...services.CheckoutOption) *services.CheckoutService {
	opts = append([]services.CheckoutOption{services.WithRedirectDelay(config.AcceptRedirectDelay())}, opts...)
	return services.NewCheckoutService(a.API, a.Session, a.Orders, c, a.Notify, a.Bus, opts...)
}

// Shutdown stops the metrics listener and closes the store and log sinks,
// last opened first.
func (a *App) Shutdown() error {
	if a.cancel != nil {
		a.cancel()
	}
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
