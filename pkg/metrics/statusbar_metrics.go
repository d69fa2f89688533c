package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	resultOK    = "ok"
	resultError = "error"
)

// StatusbarMetrics 状态栏自身的运行指标。nil 指针上的方法均为空操作，未开启指标时调用方无需判断
type StatusbarMetrics struct {
	SourceSamples        *prometheus.CounterVec
	SourceSampleDuration *prometheus.HistogramVec
	SchedulerWorkers     prometheus.Gauge
	SinkDeliveries       *prometheus.CounterVec
	SinkLastLineBytes    prometheus.Gauge
}

// NewStatusbarMetrics 通过工厂创建并注册全部指标
func NewStatusbarMetrics(f *MetricFactory) *StatusbarMetrics {
	return &StatusbarMetrics{
		SourceSamples:        f.NewSourceSamplesTotal(),
		SourceSampleDuration: f.NewSourceSampleDurationSeconds(),
		SchedulerWorkers:     f.NewSchedulerWorkers(),
		SinkDeliveries:       f.NewSinkDeliveriesTotal(),
		SinkLastLineBytes:    f.NewSinkLastLineBytes(),
	}
}

// ObserveSample 记录一次采样
func (m *StatusbarMetrics) ObserveSample(source string, took time.Duration, err error) {
	if m == nil {
		return
	}
	m.SourceSampleDuration.WithLabelValues(source).Observe(took.Seconds())
	m.SourceSamples.WithLabelValues(source, result(err)).Inc()
}

func (m *StatusbarMetrics) AddWorkers(delta int) {
	if m == nil {
		return
	}
	m.SchedulerWorkers.Add(float64(delta))
}

// ObserveDelivery 记录一次写出
func (m *StatusbarMetrics) ObserveDelivery(line string, err error) {
	if m == nil {
		return
	}
	m.SinkDeliveries.WithLabelValues(result(err)).Inc()
	if err == nil {
		m.SinkLastLineBytes.Set(float64(len(line)))
	}
}

func result(err error) string {
	if err != nil {
		return resultError
	}
	return resultOK
}
