package log

import stdlog "log"

// Config declares a logger in terms of its level and output format, as seen
// in configuration files and CLI flags.
type Config struct {
	// Level is one of debug|info|warn|error|fatal. Empty means info.
	Level string `json:"level"`
	// Format is text or json. Empty means text.
	Format string `json:"format"`
}

// ApplyConfig builds a Logger from a declarative Config.
func ApplyConfig(cfg *Config) (Logger, error) {
	level := InfoLevel
	if cfg != nil && cfg.Level != "" {
		parsed, err := ParseLevel(cfg.Level)
		if err != nil {
			return nil, err
		}
		level = parsed
	}

	var formatter Formatter = &TextFormatter{}
	if cfg != nil && cfg.Format == "json" {
		formatter = &JSONFormatter{}
	}

	return NewLogger(
		WithLevel(level),
		WithFormatter(formatter),
		WithOutput(NewConsoleOutput()),
	), nil
}

// RedirectStdLog routes the standard library's global logger through l so
// that third-party code logging via stdlib shows up in the same stream.
func RedirectStdLog(l Logger) {
	stdlog.SetFlags(0)
	stdlog.SetOutput(stdLogWriter{l: l})
}

type stdLogWriter struct {
	l Logger
}

func (w stdLogWriter) Write(p []byte) (int, error) {
	msg := string(p)
	for len(msg) > 0 && (msg[len(msg)-1] == '\n' || msg[len(msg)-1] == '\r') {
		msg = msg[:len(msg)-1]
	}
	w.l.Info(msg)
	return len(p), nil
}
