// Package logging provides categorized structured logging for nova.
// Every subsystem logs through a named category so operators can filter or
// silence one area without touching the others. Loggers are backed by zap and
// are no-ops until Initialize is called.
package logging

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category represents a log category/system
type Category string

const (
	CategoryBoot       Category = "boot"       // Startup, config loading
	CategoryAPI        Category = "api"        // Outbound LLM calls
	CategoryPerception Category = "perception" // Provider clients (REST, SDK)
	CategoryAdvisor    Category = "advisor"    // Strategy requests and outcomes
	CategoryCLI        Category = "cli"        // Command dispatch
)

// Options mirrors the relevant parts of config.LoggingConfig
// to avoid circular imports.
type Options struct {
	Level      string          // debug, info, warn, error
	Format     string          // console, json
	File       string          // optional extra sink
	Categories map[string]bool // category -> enabled; missing means enabled
}

// Logger is a category-scoped printf-style logger.
type Logger struct {
	category Category
	sugar    *zap.SugaredLogger
}

var (
	mu      sync.RWMutex
	base    = zap.NewNop()
	opts    Options
	loggers = make(map[Category]*Logger)
	sinks   []*os.File
)

// Initialize builds the zap core from opts and resets all cached loggers.
// It may be called more than once; the last call wins.
func Initialize(o Options) error {
	level, err := ParseLevel(o.Level)
	if err != nil {
		return err
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	var enc zapcore.Encoder
	switch strings.ToLower(strings.TrimSpace(o.Format)) {
	case "", "console", "text":
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		enc = zapcore.NewConsoleEncoder(encCfg)
	case "json":
		enc = zapcore.NewJSONEncoder(encCfg)
	default:
		return fmt.Errorf("unknown log format %q", o.Format)
	}

	writers := []zapcore.WriteSyncer{zapcore.Lock(os.Stderr)}
	var opened []*os.File
	if o.File != "" {
		f, err := os.OpenFile(o.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file %s: %w", o.File, err)
		}
		opened = append(opened, f)
		writers = append(writers, zapcore.AddSync(f))
	}

	core := zapcore.NewCore(enc, zapcore.NewMultiWriteSyncer(writers...), level)
	install(zap.New(core), o, opened)
	Get(CategoryBoot).Debug("logging initialized: level=%s format=%s file=%q", level, o.Format, o.File)
	return nil
}

// InitializeWithCore installs a caller-supplied core. Tests use it with
// zaptest/observer to assert on emitted entries.
func InitializeWithCore(core zapcore.Core, o Options) {
	install(zap.New(core), o, nil)
}

func install(l *zap.Logger, o Options, opened []*os.File) {
	mu.Lock()
	defer mu.Unlock()
	closeSinksLocked()
	base = l
	opts = o
	sinks = opened
	loggers = make(map[Category]*Logger)
}

// ParseLevel maps a config level string to a zap level. Empty means info.
func ParseLevel(s string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return zapcore.InfoLevel, nil
	case "warning":
		return zapcore.WarnLevel, nil
	}
	lvl, err := zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return zapcore.InfoLevel, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return lvl, nil
}

// IsCategoryEnabled returns whether a specific category is enabled
func IsCategoryEnabled(category Category) bool {
	mu.RLock()
	defer mu.RUnlock()
	if opts.Categories == nil {
		return true
	}
	enabled, exists := opts.Categories[string(category)]
	if !exists {
		return true
	}
	return enabled
}

// Get returns (or creates) a logger for the given category.
// Returns a no-op logger if the category is disabled.
func Get(category Category) *Logger {
	if !IsCategoryEnabled(category) {
		return &Logger{category: category, sugar: zap.NewNop().Sugar()}
	}

	mu.RLock()
	if l, ok := loggers[category]; ok {
		mu.RUnlock()
		return l
	}
	mu.RUnlock()

	mu.Lock()
	defer mu.Unlock()
	if l, ok := loggers[category]; ok {
		return l
	}
	l := &Logger{
		category: category,
		sugar:    base.Named(string(category)).Sugar(),
	}
	loggers[category] = l
	return l
}

func (l *Logger) Debug(format string, args ...interface{}) { l.sugar.Debugf(format, args...) }
func (l *Logger) Info(format string, args ...interface{})  { l.sugar.Infof(format, args...) }
func (l *Logger) Warn(format string, args ...interface{})  { l.sugar.Warnf(format, args...) }
func (l *Logger) Error(format string, args ...interface{}) { l.sugar.Errorf(format, args...) }

// Sync flushes buffered entries. Call at shutdown.
func Sync() {
	mu.RLock()
	l := base
	mu.RUnlock()
	_ = l.Sync()
}

// CloseAll flushes and closes file sinks and reverts to a no-op logger.
func CloseAll() {
	Sync()
	mu.Lock()
	defer mu.Unlock()
	closeSinksLocked()
	base = zap.NewNop()
	opts = Options{}
	loggers = make(map[Category]*Logger)
}

func closeSinksLocked() {
	for _, f := range sinks {
		_ = f.Close()
	}
	sinks = nil
}

// =============================================================================
// CONVENIENCE FUNCTIONS - Quick logging without getting a logger first
// These are no-ops if the category is disabled
// =============================================================================

func Boot(format string, args ...interface{})      { Get(CategoryBoot).Info(format, args...) }
func BootDebug(format string, args ...interface{}) { Get(CategoryBoot).Debug(format, args...) }
func BootWarn(format string, args ...interface{})  { Get(CategoryBoot).Warn(format, args...) }

func API(format string, args ...interface{})      { Get(CategoryAPI).Info(format, args...) }
func APIDebug(format string, args ...interface{}) { Get(CategoryAPI).Debug(format, args...) }

func Perception(format string, args ...interface{})      { Get(CategoryPerception).Info(format, args...) }
func PerceptionDebug(format string, args ...interface{}) { Get(CategoryPerception).Debug(format, args...) }
func PerceptionWarn(format string, args ...interface{})  { Get(CategoryPerception).Warn(format, args...) }
func PerceptionError(format string, args ...interface{}) { Get(CategoryPerception).Error(format, args...) }

func CLI(format string, args ...interface{})      { Get(CategoryCLI).Info(format, args...) }
func CLIDebug(format string, args ...interface{}) { Get(CategoryCLI).Debug(format, args...) }

// =============================================================================
// REQUEST ID TRACING
// =============================================================================

// RequestLogger provides request-scoped logging with a correlation ID
type RequestLogger struct {
	sugar *zap.SugaredLogger
}

// WithRequestID creates a request-scoped logger.
func WithRequestID(category Category, requestID string) *RequestLogger {
	return &RequestLogger{sugar: Get(category).sugar.With("req", requestID)}
}

// WithField adds a structured field and returns a new logger.
func (r *RequestLogger) WithField(key string, value interface{}) *RequestLogger {
	return &RequestLogger{sugar: r.sugar.With(key, value)}
}

func (r *RequestLogger) Debug(format string, args ...interface{}) { r.sugar.Debugf(format, args...) }
func (r *RequestLogger) Info(format string, args ...interface{})  { r.sugar.Infof(format, args...) }
func (r *RequestLogger) Warn(format string, args ...interface{})  { r.sugar.Warnf(format, args...) }
func (r *RequestLogger) Error(format string, args ...interface{}) { r.sugar.Errorf(format, args...) }

// =============================================================================
// TIMING HELPERS
// =============================================================================

// Timer helps measure operation duration
type Timer struct {
	category Category
	op       string
	start    time.Time
}

// StartTimer begins timing an operation
func StartTimer(category Category, operation string) *Timer {
	return &Timer{category: category, op: operation, start: time.Now()}
}

// Stop ends the timer and logs the duration at debug level.
func (t *Timer) Stop() time.Duration {
	elapsed := time.Since(t.start)
	Get(t.category).Debug("%s completed in %v", t.op, elapsed)
	return elapsed
}

// StopWithThreshold logs a warning if duration exceeds threshold
func (t *Timer) StopWithThreshold(threshold time.Duration) time.Duration {
	elapsed := time.Since(t.start)
	if elapsed > threshold {
		Get(t.category).Warn("%s took %v (threshold: %v)", t.op, elapsed, threshold)
	} else {
		Get(t.category).Debug("%s completed in %v", t.op, elapsed)
	}
	return elapsed
}
