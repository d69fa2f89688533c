package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "statusbar"

// MetricFactory 指标工厂，用于统一创建并注册指标（counter/gauge/histogram）
type MetricFactory struct {
	reg Registers
}

// NewMetricFactory 创建指标工厂
func NewMetricFactory(reg Registers) *MetricFactory {
	return &MetricFactory{reg: reg}
}

// NewSourceSamplesTotal 每个数据源的采样次数，按结果（ok/error）区分
func (f *MetricFactory) NewSourceSamplesTotal() *prometheus.CounterVec {
	return promauto.With(f.reg).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "source_samples_total",
			Help:      "Total number of source samples by result",
		},
		[]string{"source", "result"},
	)
}

// NewSourceSampleDurationSeconds 单次采样耗时
func (f *MetricFactory) NewSourceSampleDurationSeconds() *prometheus.HistogramVec {
	return promauto.With(f.reg).NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "source_sample_duration_seconds",
			Help:      "Duration of a single source sample",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8), // 1ms ~ 16s
		},
		[]string{"source"},
	)
}

func (f *MetricFactory) NewSchedulerWorkers() prometheus.Gauge {
	return promauto.With(f.reg).NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "scheduler_workers",
		Help:      "Number of running interval group workers",
	})
}

// NewSinkDeliveriesTotal 状态栏写出次数，按结果（ok/error）区分
func (f *MetricFactory) NewSinkDeliveriesTotal() *prometheus.CounterVec {
	return promauto.With(f.reg).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sink_deliveries_total",
			Help:      "Total number of status line deliveries by result",
		},
		[]string{"result"},
	)
}

func (f *MetricFactory) NewSinkLastLineBytes() prometheus.Gauge {
	return promauto.With(f.reg).NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "sink_last_line_bytes",
		Help:      "Length in bytes of the last delivered status line",
	})
}

// RegisterProcessCollector 注册进程自身的 CPU / 内存 / fd 指标
func (f *MetricFactory) RegisterProcessCollector() {
	f.reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{Namespace: namespace}))
}
