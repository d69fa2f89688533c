// Package statusbar wires sources, the scheduler and the aggregator into a running bar.
package statusbar

import (
	"context"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"

	"github.com/dwm-statusbar/pkg/config"
	"github.com/dwm-statusbar/pkg/metrics"
	"github.com/dwm-statusbar/pkg/scheduler"
	"github.com/dwm-statusbar/pkg/sink"
	"github.com/dwm-statusbar/pkg/slot"
	"github.com/dwm-statusbar/pkg/source"
)

type options struct {
	clock    clockwork.Clock
	metrics  *metrics.StatusbarMetrics
	textfile *metrics.TextfileWriter
}

type Option func(*options)

func WithClock(clock clockwork.Clock) Option {
	return func(o *options) { o.clock = clock }
}

func WithMetrics(m *metrics.StatusbarMetrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithTextfile 与 bar 同生命周期运行指标文件写出
func WithTextfile(w *metrics.TextfileWriter) Option {
	return func(o *options) { o.textfile = w }
}

// Bar 一组数据源、对应的槽位表、调度器与聚合器
type Bar struct {
	table      *slot.Table
	scheduler  *scheduler.Scheduler
	aggregator *Aggregator
	textfile   *metrics.TextfileWriter
}

// FromConfig 从配置构建全部数据源。任何数据源构建失败都返回配置错误，不会部分启动
func FromConfig(cfg *config.Config, snk sink.Sink, opts ...Option) (*Bar, error) {
	if err := cfg.General.Validate(); err != nil {
		return nil, &config.Error{Path: cfg.File, Err: err}
	}
	sources, err := source.NewAll(cfg.Sources)
	if err != nil {
		return nil, err
	}
	return New(sources, cfg.General.Separator, cfg.General.RefreshPeriod(), snk, opts...)
}

// New 组装状态栏。period 必须为正，否则 sink 会被无间隔地反复调用
func New(sources []source.Source, sep string, period time.Duration, snk sink.Sink, opts ...Option) (*Bar, error) {
	if period <= 0 {
		return nil, &config.Error{Err: fmt.Errorf("refresh period must be positive, got %s", period)}
	}
	o := options{clock: clockwork.NewRealClock()}
	for _, opt := range opts {
		opt(&o)
	}

	table := slot.NewTable(len(sources))
	sched, err := scheduler.New(sources, table, scheduler.WithClock(o.clock), scheduler.WithMetrics(o.metrics))
	if err != nil {
		return nil, err
	}
	return &Bar{
		table:      table,
		scheduler:  sched,
		aggregator: NewAggregator(table, sep, period, snk, o.clock, o.metrics),
		textfile:   o.textfile,
	}, nil
}

func (b *Bar) Groups() []scheduler.Group {
	return b.scheduler.Groups()
}

// Run 阻塞到 ctx 取消或 sink 失败。sink 失败时取消全部 worker 并返回该错误
func (b *Bar) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return b.scheduler.Run(ctx) })
	g.Go(func() error { return b.aggregator.Run(ctx) })
	if b.textfile != nil {
		g.Go(func() error { return b.textfile.Run(ctx) })
	}
	return g.Wait()
}
