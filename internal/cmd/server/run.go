package serverrun

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/AnubhavShen14/Kid-A/internal/chatlog"
	cfgpkg "github.com/AnubhavShen14/Kid-A/internal/config"
	"github.com/AnubhavShen14/Kid-A/internal/runtime"
	httpserver "github.com/AnubhavShen14/Kid-A/internal/server/http"
	pebblestore "github.com/AnubhavShen14/Kid-A/internal/storage/pebble"
	logpkg "github.com/AnubhavShen14/Kid-A/pkg/log"
)

func getenvDefault(key, def string) string {
	if v := getenv(key); v != "" {
		return v
	}
	return def
}

// small wrapper to allow testing; replaced by os.Getenv at build time
var getenv = func(key string) string { return os.Getenv(key) }

type Options struct {
	DataDir       string
	HTTPAddr      string
	Fsync         pebblestore.FsyncMode
	FsyncInterval time.Duration
	Config        cfgpkg.Config
}

// Run starts the chat-log service and HTTP server and blocks until ctx is
// cancelled.
func Run(ctx context.Context, opts Options) error {
	// Be robust to callers that don't pass a signal-aware context. We layer a
	// local signal context over the provided one.
	sctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	if opts.DataDir == "" {
		opts.DataDir = cfgpkg.DefaultDataDir()
	}
	storeDir := filepath.Join(opts.DataDir, "store")
	rt, err := runtime.Open(runtime.Options{DataDir: storeDir, Fsync: opts.Fsync, FsyncInterval: opts.FsyncInterval, Config: opts.Config})
	if err != nil {
		return err
	}
	defer rt.Close()

	// Build process-wide logger; defaults: level=info, format=text.
	cfg := &logpkg.Config{
		Level:  getenvDefault("KIDA_LOG_LEVEL", opts.Config.LogLevel),
		Format: getenvDefault("KIDA_LOG_FORMAT", opts.Config.LogFormat),
	}
	procLogger, err := logpkg.ApplyConfig(cfg)
	if err != nil {
		lvl := logpkg.InfoLevel
		if l, e := logpkg.ParseLevel(cfg.Level); e == nil {
			lvl = l
		}
		procLogger = logpkg.NewLogger(logpkg.WithLevel(lvl), logpkg.WithFormatter(&logpkg.TextFormatter{}))
	}

	// Redirect stdlib logs (e.g., Pebble) to our logger.
	logpkg.RedirectStdLog(procLogger)

	procLogger.Info("Starting chat-log server",
		logpkg.Str("http", opts.HTTPAddr),
		logpkg.Str("data_dir", opts.DataDir),
		logpkg.Str("level", cfg.Level),
		logpkg.Str("format", cfg.Format),
		logpkg.Bool("logging_disabled", opts.Config.DisableLogging),
		logpkg.Int("private_rooms", len(opts.Config.PrivateRooms)),
	)

	svc := chatlog.New(chatlog.Options{
		Logs:          rt.Logs(),
		Seen:          rt.Seen(),
		Host:          chatlog.NewStaticHost(opts.Config.DisableLogging, opts.Config.PrivateRooms),
		FlushInterval: time.Duration(opts.Config.FlushIntervalMs) * time.Millisecond,
		SweepInterval: time.Duration(opts.Config.SweepIntervalMs) * time.Millisecond,
		Logger:        procLogger.With(logpkg.Component("chatlog")),
	})
	if err := svc.Start(sctx); err != nil {
		return err
	}

	hsrv := httpserver.New(rt, svc, procLogger)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := hsrv.ListenAndServe(sctx, opts.HTTPAddr); err != nil && sctx.Err() == nil {
			log.Printf("http error: %v", err)
		}
	}()

	<-sctx.Done()
	// Shut the server down before the service so no handler observes a
	// stopped flush loop, and stop the service before closing the DB so the
	// final flush can still commit.
	hsrv.Close()
	wg.Wait()
	svc.Stop()
	return nil
}
