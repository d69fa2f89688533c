package cli

import (
	"github.com/spf13/pflag"
)

func initMetricsFlags(f *pflag.FlagSet) {

	f.String("metrics.textfile", defaultCfg.Metrics.Textfile, "-> Prometheus textfile path, empty disables metrics | 指标文件路径，为空不导出")
	f.Uint64("metrics.interval", defaultCfg.Metrics.Interval, "-> Textfile write interval (ms) | 写入周期（毫秒）")
}
