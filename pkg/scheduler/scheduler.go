// Package scheduler polls sources on their configured intervals and stores the rendered
// values into the slot table.
//
// Sources sharing an interval form one group and are sampled sequentially by a single
// goroutine, in configuration order. Each group waits its interval after a pass completes
// (fixed delay), so a slow source delays only its own group.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/dwm-statusbar/pkg/logger"
	"github.com/dwm-statusbar/pkg/metrics"
	"github.com/dwm-statusbar/pkg/slot"
	"github.com/dwm-statusbar/pkg/source"
)

// Entry 一个数据源及其在槽位表中的下标
type Entry struct {
	Index  int
	Source source.Source
}

// Group 同一采样间隔的数据源
type Group struct {
	Interval time.Duration
	Entries  []Entry
}

// GroupByInterval 按间隔分组。组按间隔首次出现的顺序排列，组内保持配置顺序
func GroupByInterval(sources []source.Source) []Group {
	var groups []Group
	pos := make(map[time.Duration]int)
	for i, s := range sources {
		iv := s.Interval()
		g, ok := pos[iv]
		if !ok {
			g = len(groups)
			pos[iv] = g
			groups = append(groups, Group{Interval: iv})
		}
		groups[g].Entries = append(groups[g].Entries, Entry{Index: i, Source: s})
	}
	return groups
}

type Option func(*Scheduler)

func WithClock(clock clockwork.Clock) Option {
	return func(s *Scheduler) { s.clock = clock }
}

func WithMetrics(m *metrics.StatusbarMetrics) Option {
	return func(s *Scheduler) { s.metrics = m }
}

// Scheduler 为每个采样间隔启动一个 worker
type Scheduler struct {
	groups  []Group
	table   *slot.Table
	clock   clockwork.Clock
	metrics *metrics.StatusbarMetrics
}

// New 创建调度器。table 的长度必须等于 sources 的数量
func New(sources []source.Source, table *slot.Table, opts ...Option) (*Scheduler, error) {
	if table.Len() != len(sources) {
		return nil, fmt.Errorf("slot table has %d slots for %d sources", table.Len(), len(sources))
	}
	s := &Scheduler{
		groups: GroupByInterval(sources),
		table:  table,
		clock:  clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Scheduler) Groups() []Group {
	return s.groups
}

// Run 启动全部 worker 并阻塞到 ctx 取消且所有 worker 退出。采样失败不会让 Run 返回
func (s *Scheduler) Run(ctx context.Context) error {
	logger.Info("scheduler started", zap.Int("groups", len(s.groups)), zap.Int("sources", s.table.Len()))

	var wg sync.WaitGroup
	for _, g := range s.groups {
		wg.Add(1)
		go func(g Group) {
			defer wg.Done()
			s.worker(ctx, g)
		}(g)
	}
	wg.Wait()

	logger.Info("scheduler stopped", zap.Error(ctx.Err()))
	return nil
}

func (s *Scheduler) worker(ctx context.Context, g Group) {
	s.metrics.AddWorkers(1)
	defer s.metrics.AddWorkers(-1)

	logger.Debug("interval worker started", zap.Duration("interval", g.Interval), zap.Int("sources", len(g.Entries)))
	for {
		s.Pass(ctx, g)
		select {
		case <-ctx.Done():
			logger.Debug("interval worker stopped", zap.Duration("interval", g.Interval))
			return
		case <-s.clock.After(g.Interval):
		}
	}
}

// Pass 按顺序采样组内每个数据源。成功则写入槽位，失败只告警，槽位保留上一次的值
func (s *Scheduler) Pass(ctx context.Context, g Group) {
	for _, e := range g.Entries {
		if ctx.Err() != nil {
			return
		}
		start := s.clock.Now()
		value, err := sampleSafely(ctx, e.Source)
		s.metrics.ObserveSample(e.Source.Kind(), s.clock.Since(start), err)
		if err != nil {
			logger.Warn("sample failed, keeping previous value",
				zap.String("source", e.Source.Kind()), zap.Int("slot", e.Index), zap.Error(err))
			continue
		}
		s.table.At(e.Index).Store(value)
	}
}

// sampleSafely 把数据源内部的 panic 转成采样错误，避免一个数据源拖垮整个进程
func sampleSafely(ctx context.Context, src source.Source) (value string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &source.SampleError{Source: src.Kind(), Err: fmt.Errorf("panic: %v", r)}
		}
	}()
	return src.Sample(ctx)
}
