package statusbar_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/dwm-statusbar/pkg/config"
	"github.com/dwm-statusbar/pkg/logger"
	"github.com/dwm-statusbar/pkg/metrics"
	"github.com/dwm-statusbar/pkg/sink"
	"github.com/dwm-statusbar/pkg/slot"
	"github.com/dwm-statusbar/pkg/source"
	"github.com/dwm-statusbar/pkg/statusbar"
)

type fakeSource struct {
	kind     string
	interval time.Duration
	sample   func(ctx context.Context) (string, error)
}

func (f *fakeSource) Kind() string { return f.kind }

func (f *fakeSource) Interval() time.Duration { return f.interval }

func (f *fakeSource) Sample(ctx context.Context) (string, error) { return f.sample(ctx) }

func constant(interval time.Duration, value string) *fakeSource {
	return &fakeSource{kind: "fake", interval: interval, sample: func(context.Context) (string, error) {
		return value, nil
	}}
}

// recorder 记录 sink 收到的每一行
type recorder struct {
	mu    sync.Mutex
	lines []string
	err   error
}

func (r *recorder) Deliver(_ context.Context, line string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, line)
	return r.err
}

func (r *recorder) Lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.lines...)
}

func (r *recorder) Last() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.lines) == 0 {
		return ""
	}
	return r.lines[len(r.lines)-1]
}

func TestJoin(t *testing.T) {
	cases := []struct {
		name   string
		values []string
		want   string
	}{
		{"all empty", []string{"", "", ""}, ""},
		{"none", nil, ""},
		{"single", []string{" CPU 1% "}, " CPU 1% "},
		{"skips leading and trailing", []string{"", "a", "", "b", ""}, "a|b"},
		{"keeps order", []string{"c", "a", "b"}, "c|a|b"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, statusbar.Join(tc.values, "|"))
		})
	}
}

func TestTickJoinsInConfigurationOrder(t *testing.T) {
	table := slot.NewTable(3)
	rec := &recorder{}
	agg := statusbar.NewAggregator(table, "|", 100*time.Millisecond, rec, nil, nil)

	// A 与 B 已采样，C 还没完成第一次采样
	table.At(0).Store(" CPU 42% ")
	table.At(1).Store(" RAM 66% ")

	require.NoError(t, agg.Tick(context.Background()))
	assert.Equal(t, []string{" CPU 42% | RAM 66% "}, rec.Lines())

	table.At(2).Store(" DISK 3% ")
	table.At(0).Store("")
	require.NoError(t, agg.Tick(context.Background()))
	assert.Equal(t, " RAM 66% | DISK 3% ", rec.Last())
}

func TestRunSkipsEmptyLinesAndKeepsTicking(t *testing.T) {
	clock := clockwork.NewFakeClock()
	table := slot.NewTable(2)
	rec := &recorder{}
	agg := statusbar.NewAggregator(table, "|", 100*time.Millisecond, rec, clock, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- agg.Run(ctx) }()

	for i := 0; i < 3; i++ {
		require.NoError(t, clock.BlockUntilContext(ctx, 1))
		clock.Advance(100 * time.Millisecond)
	}
	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	assert.Empty(t, rec.Lines())

	table.At(1).Store("x")
	clock.Advance(100 * time.Millisecond)
	require.Eventually(t, func() bool { return len(rec.Lines()) == 1 }, time.Second, time.Millisecond)

	// 内容不变也照常写出
	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	clock.Advance(100 * time.Millisecond)
	require.Eventually(t, func() bool { return len(rec.Lines()) == 2 }, time.Second, time.Millisecond)
	assert.Equal(t, []string{"x", "x"}, rec.Lines())

	cancel()
	require.NoError(t, <-done)
}

func TestRunTicksAtMostOncePerPeriod(t *testing.T) {
	clock := clockwork.NewFakeClock()
	table := slot.NewTable(1)
	table.At(0).Store(" CPU 1% ")
	rec := &recorder{}
	agg := statusbar.NewAggregator(table, "|", 100*time.Millisecond, rec, clock, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- agg.Run(ctx) }()

	for want := 1; want <= 3; want++ {
		require.NoError(t, clock.BlockUntilContext(ctx, 1))
		require.Len(t, rec.Lines(), want)

		// 不足一个周期不会再写
		clock.Advance(99 * time.Millisecond)
		require.NoError(t, clock.BlockUntilContext(ctx, 1))
		require.Len(t, rec.Lines(), want)

		clock.Advance(time.Millisecond)
		require.Eventually(t, func() bool { return len(rec.Lines()) == want+1 }, time.Second, time.Millisecond)
	}

	cancel()
	require.NoError(t, <-done)
	assert.Len(t, rec.Lines(), 4)
}

func TestNewRejectsNonPositivePeriod(t *testing.T) {
	for _, period := range []time.Duration{0, -time.Millisecond} {
		bar, err := statusbar.New([]source.Source{constant(time.Second, " N ")}, "|", period, &recorder{})
		assert.Nil(t, bar)
		var cfgErr *config.Error
		assert.True(t, errors.As(err, &cfgErr), "period %s", period)
	}
}

func TestFromConfigRejectsWrappedNegativeRefresh(t *testing.T) {
	cfg := config.NewDefaultConfig()
	cfg.Sources = config.DefaultSources()
	// refresh = -1 经弱类型解码后的值
	cfg.General.Refresh = ^uint64(0)

	_, err := statusbar.FromConfig(cfg, &recorder{})
	var cfgErr *config.Error
	assert.True(t, errors.As(err, &cfgErr))
}

func TestRunStopsOnSinkFailure(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	logger.SetLogger(zap.New(core))
	t.Cleanup(func() { logger.SetLogger(nil) })

	clock := clockwork.NewFakeClock()
	table := slot.NewTable(1)
	table.At(0).Store(" CPU 1% ")
	rec := &recorder{err: &sink.DeliveryError{Line: " CPU 1% ", Err: errors.New("exit status 1")}}
	m := metrics.NewStatusbarMetrics(metrics.NewMetricFactory(metrics.NewPromRegistry(nil)))
	agg := statusbar.NewAggregator(table, "|", 100*time.Millisecond, rec, clock, m)

	err := agg.Run(context.Background())
	var de *sink.DeliveryError
	require.True(t, errors.As(err, &de))
	assert.Len(t, rec.Lines(), 1)
	assert.Equal(t, 1, logs.FilterMessage("sink failed, status line will no longer be updated").Len())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SinkDeliveries.WithLabelValues("error")))
}

func TestBarEndToEnd(t *testing.T) {
	release := make(chan struct{})
	slow := &fakeSource{kind: "slow", interval: 2 * time.Second, sample: func(ctx context.Context) (string, error) {
		select {
		case <-release:
			return " DISK 3% ", nil
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}}
	sources := []source.Source{
		constant(time.Second, " CPU 42% "),
		constant(time.Second, " RAM 66% "),
		slow,
	}
	rec := &recorder{}
	bar, err := statusbar.New(sources, "|", 5*time.Millisecond, rec)
	require.NoError(t, err)

	groups := bar.Groups()
	require.Len(t, groups, 2)
	assert.Len(t, groups[0].Entries, 2)
	assert.Len(t, groups[1].Entries, 1)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- bar.Run(ctx) }()

	require.Eventually(t, func() bool { return rec.Last() == " CPU 42% | RAM 66% " }, time.Second, time.Millisecond)
	close(release)
	require.Eventually(t, func() bool { return rec.Last() == " CPU 42% | RAM 66% | DISK 3% " }, time.Second, time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}

func TestBarSinkFailureStopsEverything(t *testing.T) {
	failing := sink.Func(func(context.Context, string) error {
		return &sink.DeliveryError{Err: errors.New("xsetroot: unable to open display")}
	})

	bar, err := statusbar.New([]source.Source{constant(time.Millisecond, " N ")}, "|", time.Millisecond, failing)
	require.NoError(t, err)

	select {
	case err := <-runAsync(bar):
		var de *sink.DeliveryError
		assert.True(t, errors.As(err, &de))
	case <-time.After(2 * time.Second):
		t.Fatal("bar kept running after sink failure")
	}
}

func runAsync(bar *statusbar.Bar) <-chan error {
	done := make(chan error, 1)
	go func() { done <- bar.Run(context.Background()) }()
	return done
}

func TestFromConfigRejectsBadSources(t *testing.T) {
	cfg := config.NewDefaultConfig()
	cfg.Sources = []config.SourceConfig{{Type: config.SourceDate, Format: "%Q"}}

	_, err := statusbar.FromConfig(cfg, &recorder{})
	var cfgErr *config.Error
	assert.True(t, errors.As(err, &cfgErr))
}

func TestFromConfigDefaults(t *testing.T) {
	cfg := config.NewDefaultConfig()
	cfg.Sources = config.DefaultSources()

	bar, err := statusbar.FromConfig(cfg, &recorder{})
	require.NoError(t, err)
	// cpu/memory/temperature/battery/date 1s，disk 2s
	assert.Len(t, bar.Groups(), 2)
}
