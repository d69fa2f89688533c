package statusbar

import (
	"context"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/dwm-statusbar/pkg/logger"
	"github.com/dwm-statusbar/pkg/metrics"
	"github.com/dwm-statusbar/pkg/sink"
	"github.com/dwm-statusbar/pkg/slot"
)

// Join 按顺序拼接非空值，空值既不输出内容也不产生分隔符
func Join(values []string, sep string) string {
	var b strings.Builder
	for _, v := range values {
		if v == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString(sep)
		}
		b.WriteString(v)
	}
	return b.String()
}

// Aggregator 定期读取全部槽位，拼成一行交给 sink
type Aggregator struct {
	table   *slot.Table
	sep     string
	period  time.Duration
	sink    sink.Sink
	clock   clockwork.Clock
	metrics *metrics.StatusbarMetrics
}

func NewAggregator(table *slot.Table, sep string, period time.Duration, snk sink.Sink, clock clockwork.Clock, m *metrics.StatusbarMetrics) *Aggregator {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Aggregator{table: table, sep: sep, period: period, sink: snk, clock: clock, metrics: m}
}

// Tick 拼接并写出一次。整行为空时不调用 sink
func (a *Aggregator) Tick(ctx context.Context) error {
	line := Join(a.table.Snapshot(), a.sep)
	if line == "" {
		return nil
	}
	err := a.sink.Deliver(ctx, line)
	a.metrics.ObserveDelivery(line, err)
	return err
}

// Run 每个周期调用一次 Tick，直到 ctx 取消。sink 失败时不重试，直接返回错误
func (a *Aggregator) Run(ctx context.Context) error {
	logger.Info("aggregator started", zap.Duration("period", a.period), zap.String("separator", a.sep))
	for {
		if err := a.Tick(ctx); err != nil {
			// 关闭过程中外部程序被 kill 不算失败
			if ctx.Err() != nil {
				return nil
			}
			logger.Error("sink failed, status line will no longer be updated", zap.Error(err))
			return err
		}
		select {
		case <-ctx.Done():
			logger.Info("aggregator stopped", zap.Error(ctx.Err()))
			return nil
		case <-a.clock.After(a.period):
		}
	}
}
