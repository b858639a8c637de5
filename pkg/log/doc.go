// Package log provides the structured logging facade used across Kid-A
// services.
//
// # Overview
//
// The package exposes a small Logger interface with leveled methods and a
// Field type for structured context. Internally it is backed by the standard
// library's slog via a bridge handler that feeds a formatter/output pipeline,
// so callers keep one consistent output format while remaining compatible
// with the slog ecosystem.
//
// Quick start
//
//	l := log.NewLogger(
//	    log.WithLevel(log.InfoLevel),
//	    log.WithFormatter(&log.TextFormatter{}),
//	    log.WithOutput(log.NewConsoleOutput()),
//	)
//	l = l.With(log.Component("chatlog"))
//	l.Info("flush complete", log.Int("entries", 42))
//
// # Configuration
//
// ApplyConfig builds a logger from a declarative Config with a level and a
// text or JSON format, which is how the server start path constructs the
// process-wide logger from flags and environment.
//
// # Interop
//
// RedirectStdLog routes the standard library's global logger through a Logger
// so that third-party code writing to stdlib log shows up in the same stream.
package log
