// Package introspect reads the foreign keys, indexes and columns of a live
// database into a schema.Snapshot.
package introspect

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/mickamy/ormassoc/internal/logging"
	"github.com/mickamy/ormassoc/schema"
)

// ErrUnsupportedDriver is returned by Open for drivers nobody registered.
var ErrUnsupportedDriver = errors.New("introspect: unsupported driver")

// Introspector reads schema facts from a database.
type Introspector interface {
	Introspect(ctx context.Context) (*schema.Snapshot, error)
	Close() error
}

// Options configures a connection.
type Options struct {
	DSN string
	// Schema is the database schema to read. Each driver has a default.
	Schema string
	Logger *zap.Logger
}

// Factory opens an Introspector for one driver.
type Factory func(ctx context.Context, opts Options) (Introspector, error)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Factory)
)

// Register is called by each driver's init() function.
func Register(driver string, f Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[driver] = f
}

// Drivers returns the registered driver names, sorted.
func Drivers() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Open connects to a database with the factory registered for driver.
func Open(ctx context.Context, driver string, opts Options) (Introspector, error) {
	registryMu.RLock()
	f, ok := registry[driver]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}

	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	opts.Logger.Debug("connecting",
		zap.String("driver", driver),
		zap.String("dsn", logging.SanitizeDSN(opts.DSN)),
		zap.String("schema", opts.Schema),
	)

	in, err := f(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	return in, nil
}

// catalogIntrospector runs a driver's catalog queries through a querier.
type catalogIntrospector struct {
	driver  string
	q       querier
	catalog catalog
	close   func() error
	logger  *zap.Logger
}

func (i *catalogIntrospector) Introspect(ctx context.Context) (*schema.Snapshot, error) {
	f, err := collect(ctx, i.q, i.catalog)
	if err != nil {
		return nil, fmt.Errorf("introspect %s: %w", i.driver, err)
	}
	s := f.snapshot()
	i.logger.Info("schema introspected",
		zap.String("driver", i.driver),
		zap.Int("tables", len(s.Tables)),
		zap.Int("foreign_key_columns", len(f.foreignKeys)),
		zap.Int("index_columns", len(f.indexes)),
	)
	return s, nil
}

func (i *catalogIntrospector) Close() error {
	if i.close == nil {
		return nil
	}
	return i.close()
}

func schemaOr(opts Options, fallback string) string {
	if opts.Schema != "" {
		return opts.Schema
	}
	return fallback
}

func loggerOf(opts Options) *zap.Logger {
	if opts.Logger == nil {
		return zap.NewNop()
	}
	return opts.Logger
}
