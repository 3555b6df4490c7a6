// Package logger configures the process-wide zerolog logger and carries
// request-scoped loggers through context.
package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Options selects level, an optional append-only log file and console output.
type Options struct {
	Level  string
	File   string
	Pretty bool
}

var global = zerolog.Nop()

// New builds a logger writing to stdout and, if set, to opts.File. The
// returned closer releases the file.
func New(opts Options) (zerolog.Logger, io.Closer, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return zerolog.Nop(), nil, err
	}

	var out io.Writer = os.Stdout
	if opts.Pretty {
		out = zerolog.ConsoleWriter{Out: os.Stdout}
	}
	writers := []io.Writer{out}

	var closer io.Closer = nopCloser{}
	if opts.File != "" {
		f, err := os.OpenFile(opts.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o664)
		if err != nil {
			return zerolog.Nop(), nil, fmt.Errorf("open log file: %w", err)
		}
		writers = append(writers, f)
		closer = f
	}

	l := zerolog.New(zerolog.MultiLevelWriter(writers...)).With().Timestamp().Logger().Level(level)
	return l, closer, nil
}

// Init builds a logger with New and installs it as the global and zerolog/log
// default.
func Init(opts Options) (zerolog.Logger, io.Closer, error) {
	l, closer, err := New(opts)
	if err != nil {
		return l, nil, err
	}
	Set(l)
	return l, closer, nil
}

// Set replaces the global logger.
func Set(l zerolog.Logger) {
	global = l
	log.Logger = l
}

// Global returns the installed logger.
func Global() zerolog.Logger { return global }

// ParseLevel maps "" to info.
func ParseLevel(raw string) (zerolog.Level, error) {
	if strings.TrimSpace(raw) == "" {
		return zerolog.InfoLevel, nil
	}
	level, err := zerolog.ParseLevel(strings.ToLower(raw))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid log level %q: %w", raw, err)
	}
	return level, nil
}

// WithLogger returns ctx carrying the global logger extended with fields.
func WithLogger(ctx context.Context, fields map[string]interface{}) context.Context {
	l := FromContext(ctx).With().Fields(fields).Logger()
	return l.WithContext(ctx)
}

// FromContext returns the context logger, falling back to the global one.
func FromContext(ctx context.Context) *zerolog.Logger {
	l := zerolog.Ctx(ctx)
	if l.GetLevel() == zerolog.Disabled {
		g := global
		return &g
	}
	return l
}

// Component tags l with component=name.
func Component(l zerolog.Logger, name string) zerolog.Logger {
	return l.With().Str("component", name).Logger()
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
