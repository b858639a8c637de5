package runtime

import (
	"context"
	"errors"
	"fmt"
	"time"

	cfgpkg "github.com/AnubhavShen14/Kid-A/internal/config"
	pebblestore "github.com/AnubhavShen14/Kid-A/internal/storage/pebble"
	"github.com/AnubhavShen14/Kid-A/internal/store"
)

// Options for building the Runtime.
type Options struct {
	DataDir       string
	Fsync         pebblestore.FsyncMode
	FsyncInterval time.Duration
	Config        cfgpkg.Config
}

// Runtime wires storage and config for a single-node instance.
type Runtime struct {
	db     *pebblestore.DB
	config cfgpkg.Config
	logs   *store.LogStore
	seen   *store.SeenStore
}

// Open initializes the underlying storage and returns a Runtime.
func Open(opts Options) (*Runtime, error) {
	db, err := pebblestore.Open(pebblestore.Options{
		DataDir:       opts.DataDir,
		Fsync:         opts.Fsync,
		FsyncInterval: opts.FsyncInterval,
	})
	if err != nil {
		return nil, err
	}
	return &Runtime{
		db:     db,
		config: opts.Config,
		logs:   store.NewLogStore(db),
		seen:   store.NewSeenStore(db),
	}, nil
}

// Close closes underlying resources.
func (r *Runtime) Close() error {
	if r.db == nil {
		return nil
	}
	return r.db.Close()
}

// CheckHealth performs a simple storage health check.
func (r *Runtime) CheckHealth(ctx context.Context) error {
	if r.db == nil {
		return errors.New("db not open")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	it, err := r.db.NewIter(nil)
	if err != nil {
		return err
	}
	return it.Close()
}

// Logs returns the hash-structured activity store.
func (r *Runtime) Logs() *store.LogStore { return r.logs }

// Seen returns the last-seen store.
func (r *Runtime) Seen() *store.SeenStore { return r.seen }

// Config returns the runtime configuration.
func (r *Runtime) Config() cfgpkg.Config { return r.config }

// ParseFsync maps the configured fsync mode name to a storage mode.
func ParseFsync(mode string) (pebblestore.FsyncMode, error) {
	switch mode {
	case "", "always":
		return pebblestore.FsyncModeAlways, nil
	case "interval":
		return pebblestore.FsyncModeInterval, nil
	case "never":
		return pebblestore.FsyncModeNever, nil
	default:
		return pebblestore.FsyncModeUnspecified, fmt.Errorf("invalid fsync mode %q; use always|interval|never", mode)
	}
}
