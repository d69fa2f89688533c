package metrics

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/dwm-statusbar/pkg/logger"
)

// TextfileWriter 定期把指标写成 node_exporter textfile collector 格式的文件。
// 状态栏不开放任何监听端口，指标只通过文件导出
type TextfileWriter struct {
	gatherer prometheus.Gatherer
	path     string
	interval time.Duration
	clock    clockwork.Clock
}

func NewTextfileWriter(gatherer prometheus.Gatherer, path string, interval time.Duration, clock clockwork.Clock) *TextfileWriter {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &TextfileWriter{gatherer: gatherer, path: path, interval: interval, clock: clock}
}

// Write 写一次文件，WriteToTextfile 先写临时文件再 rename，读取方不会看到半截内容
func (w *TextfileWriter) Write() error {
	if err := os.MkdirAll(filepath.Dir(w.path), 0o755); err != nil {
		return err
	}
	return prometheus.WriteToTextfile(w.path, w.gatherer)
}

// Run 按 interval 写文件直到 ctx 取消，退出前再写一次。写失败只记录告警
func (w *TextfileWriter) Run(ctx context.Context) error {
	if w.interval <= 0 {
		return fmt.Errorf("metrics textfile interval must be positive, got %s", w.interval)
	}
	ticker := w.clock.NewTicker(w.interval)
	defer ticker.Stop()

	logger.Debug("metrics textfile writer started", zap.String("path", w.path), zap.Duration("interval", w.interval))
	for {
		w.writeLogged()
		select {
		case <-ctx.Done():
			w.writeLogged()
			logger.Debug("metrics textfile writer stopped", zap.String("path", w.path))
			return nil
		case <-ticker.Chan():
		}
	}
}

func (w *TextfileWriter) writeLogged() {
	if err := w.Write(); err != nil {
		logger.Warn("write metrics textfile failed", zap.String("path", w.path), zap.Error(err))
	}
}
