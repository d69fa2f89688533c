// Package source implements the data sources shown on the status bar.
//
// Every variant samples one kind of system state and renders it to a short labeled string.
// Variants are built from configuration by New, which applies the per-type defaults once so
// that Sample never has to.
package source

import (
	"context"
	"fmt"
	"time"

	"github.com/dwm-statusbar/pkg/config"
)

// Source samples one metric and renders it. Sample may block on I/O. A single Source is
// sampled by one goroutine at a time, so implementations may keep state between samples
// without locking.
type Source interface {
	// Kind is the configured type, used in logs and metric labels.
	Kind() string
	// Interval is the poll interval, fixed for the lifetime of the source.
	Interval() time.Duration
	// Sample returns the rendered value. An empty string hides the source from the bar.
	Sample(ctx context.Context) (string, error)
}

// SampleError reports a failed sample. It is never fatal: the previous value stays on the bar.
type SampleError struct {
	Source string
	Err    error
}

func (e *SampleError) Error() string {
	return fmt.Sprintf("sample %s: %v", e.Source, e.Err)
}

func (e *SampleError) Unwrap() error { return e.Err }

// Render lays out icon, name and value the same way for every source.
func Render(icon, name, value string) string {
	return fmt.Sprintf(" %s %s %s ", icon, name, value)
}

// base carries the fields shared by all variants.
type base struct {
	kind     string
	interval time.Duration
	name     string
	icon     string
}

func newBase(cfg config.SourceConfig, defInterval time.Duration, defName, defIcon string) base {
	interval := cfg.Interval()
	if interval <= 0 {
		interval = defInterval
	}
	return base{
		kind:     cfg.Type,
		interval: interval,
		name:     pick(cfg.Name, defName),
		icon:     pick(cfg.Icon, defIcon),
	}
}

func (b base) Kind() string            { return b.kind }
func (b base) Interval() time.Duration { return b.interval }

func (b base) fail(err error) error {
	return &SampleError{Source: b.kind, Err: err}
}

func pick(v *string, def string) string {
	if v == nil {
		return def
	}
	return *v
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func millis(ms uint64, def time.Duration) time.Duration {
	if ms == 0 {
		return def
	}
	return time.Duration(ms) * time.Millisecond
}

// New builds a fully populated source from its configuration.
func New(cfg config.SourceConfig) (Source, error) {
	if cfg.Time != nil && (*cfg.Time == 0 || *cfg.Time > config.MaxIntervalMillis) {
		return nil, fmt.Errorf("time must be between 1 and %d ms, got %d", config.MaxIntervalMillis, *cfg.Time)
	}
	switch cfg.Type {
	case config.SourceCPU:
		return NewCPU(cfg), nil
	case config.SourceMemory:
		return NewMemory(cfg), nil
	case config.SourceDisk:
		return NewDisk(cfg), nil
	case config.SourceBattery:
		return NewBattery(cfg), nil
	case config.SourceTemperature:
		return NewTemperature(cfg), nil
	case config.SourceVolume:
		return NewVolume(cfg), nil
	case config.SourceNetwork:
		return NewNetwork(cfg), nil
	case config.SourceScript:
		return NewScript(cfg)
	case config.SourceWeather:
		return NewWeather(cfg), nil
	case config.SourceDate:
		return NewDate(cfg)
	default:
		return nil, fmt.Errorf("unknown source type %q", cfg.Type)
	}
}

// NewAll builds every configured source, keeping configuration order. Any failure is a
// configuration error and nothing is returned.
func NewAll(cfgs []config.SourceConfig) ([]Source, error) {
	sources := make([]Source, 0, len(cfgs))
	for i, c := range cfgs {
		s, err := New(c)
		if err != nil {
			return nil, &config.Error{Err: fmt.Errorf("source[%d] (%s): %w", i, c.Type, err)}
		}
		sources = append(sources, s)
	}
	return sources, nil
}
