package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	clientcmd "github.com/AnubhavShen14/Kid-A/internal/cmd/client"
	serverrun "github.com/AnubhavShen14/Kid-A/internal/cmd/server"
	cfgpkg "github.com/AnubhavShen14/Kid-A/internal/config"
	"github.com/AnubhavShen14/Kid-A/internal/runtime"
	logpkg "github.com/AnubhavShen14/Kid-A/pkg/log"
	"github.com/spf13/cobra"
)

func main() {
	// Respect KIDA_LOG_LEVEL for both CLI and server start output.
	level := os.Getenv("KIDA_LOG_LEVEL")
	parsed, err := logpkg.ParseLevel(level)
	if err != nil || level == "" {
		parsed = logpkg.InfoLevel
	}
	logger := logpkg.NewLogger(
		logpkg.WithLevel(parsed),
		logpkg.WithFormatter(&logpkg.TextFormatter{}),
		logpkg.WithOutput(logpkg.NewConsoleOutput()),
	)

	// Redirect standard library logs (used by Pebble) to our logger.
	logpkg.RedirectStdLog(logger)

	rootCmd := &cobra.Command{
		Use:   "kida-chatlog",
		Short: "Chat activity logger CLI",
		Long:  "kida-chatlog runs the chat activity logger and queries its HTTP API.",
	}

	// server start
	serverCmd := &cobra.Command{Use: "server", Short: "Server commands"}
	serverStartCmd := &cobra.Command{
		Use:     "start",
		Short:   "Start the chat-log server",
		Aliases: []string{"run"},
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			dataDir, _ := cmd.Flags().GetString("data-dir")
			httpAddr, _ := cmd.Flags().GetString("http")
			fsyncMode, _ := cmd.Flags().GetString("fsync")
			fsyncIntervalMs, _ := cmd.Flags().GetInt("fsync-interval-ms")
			flushIntervalMs, _ := cmd.Flags().GetInt("flush-interval-ms")
			sweepIntervalMs, _ := cmd.Flags().GetInt("sweep-interval-ms")
			logLevel, _ := cmd.Flags().GetString("log-level")
			logFormat, _ := cmd.Flags().GetString("log-format")
			disableLogging, _ := cmd.Flags().GetBool("disable-logging")
			privateRooms, _ := cmd.Flags().GetStringSlice("private-room")

			cfg, err := cfgpkg.Load(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			cfgpkg.FromEnv(&cfg)
			if dataDir != "" {
				cfg.DataDir = dataDir
			}
			if httpAddr != "" {
				cfg.HTTPAddr = httpAddr
			}
			if fsyncMode != "" {
				cfg.Fsync = fsyncMode
			}
			if flushIntervalMs > 0 {
				cfg.FlushIntervalMs = flushIntervalMs
			}
			if sweepIntervalMs > 0 {
				cfg.SweepIntervalMs = sweepIntervalMs
			}
			if disableLogging {
				cfg.DisableLogging = true
			}
			if len(privateRooms) > 0 {
				cfg.PrivateRooms = append(cfg.PrivateRooms, privateRooms...)
			}
			if logLevel != "" {
				cfg.LogLevel = logLevel
				_ = os.Setenv("KIDA_LOG_LEVEL", logLevel)
			}
			if logFormat != "" {
				cfg.LogFormat = logFormat
				_ = os.Setenv("KIDA_LOG_FORMAT", logFormat)
			}

			mode, err := runtime.ParseFsync(cfg.Fsync)
			if err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			if err := serverrun.Run(ctx, serverrun.Options{
				DataDir:       cfg.DataDir,
				HTTPAddr:      cfg.HTTPAddr,
				Fsync:         mode,
				FsyncInterval: time.Duration(fsyncIntervalMs) * time.Millisecond,
				Config:        cfg,
			}); err != nil {
				return fmt.Errorf("server error: %w", err)
			}
			// brief delay to allow logs flush
			time.Sleep(100 * time.Millisecond)
			return nil
		},
	}
	serverStartCmd.Flags().String("config", os.Getenv("KIDA_CONFIG"), "Path to JSON config file")
	serverStartCmd.Flags().String("data-dir", "", "Data directory (if not specified, uses OS-specific application data directory)")
	serverStartCmd.Flags().String("http", "", "HTTP listen address (default :8080)")
	serverStartCmd.Flags().String("fsync", "", "Fsync mode: always|interval|never")
	serverStartCmd.Flags().Int("fsync-interval-ms", 5, "When --fsync=interval, group-commit window in ms (default 5)")
	serverStartCmd.Flags().Int("flush-interval-ms", 0, "Write-buffer commit period in ms (default 300000)")
	serverStartCmd.Flags().Int("sweep-interval-ms", 0, "Pruning sweep period in ms (default 86400000)")
	serverStartCmd.Flags().String("log-level", os.Getenv("KIDA_LOG_LEVEL"), "Log level: debug|info|warn|error")
	serverStartCmd.Flags().String("log-format", os.Getenv("KIDA_LOG_FORMAT"), "Log format: text|json (default text)")
	serverStartCmd.Flags().Bool("disable-logging", false, "Serve queries but never buffer new lines")
	serverStartCmd.Flags().StringSlice("private-room", nil, "Room whose activity never updates last-seen (repeatable)")
	serverCmd.AddCommand(serverStartCmd)
	rootCmd.AddCommand(serverCmd)

	// client commands
	rootCmd.AddCommand(
		clientcmd.NewLogCommand(apiURL),
		clientcmd.NewLogsCommand(apiURL),
		clientcmd.NewRoomsCommand(apiURL),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func apiURL() string {
	if v := os.Getenv("KIDA_HTTP"); v != "" {
		return v
	}
	return "http://127.0.0.1:8080"
}
