package source

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	cload "github.com/shirou/gopsutil/v3/load"

	"github.com/dwm-statusbar/pkg/config"
)

const (
	cpuName     = "CPU"
	cpuIcon     = "\uf4bc "
	cpuInterval = time.Second

	cpuModeUsage = "usage"
	cpuModeLoad  = "load"
)

// CPU shows the busy percentage since the previous sample, or the 1 minute load average.
type CPU struct {
	base
	mode string

	times   func(ctx context.Context, perCPU bool) ([]cpu.TimesStat, error)
	loadAvg func(ctx context.Context) (*cload.AvgStat, error)

	// last 上一次的 CPU 时间，首次采样时为零值，即计算开机以来的平均使用率
	last cpu.TimesStat
}

func NewCPU(cfg config.SourceConfig) *CPU {
	return &CPU{
		base:    newBase(cfg, cpuInterval, cpuName, cpuIcon),
		mode:    orDefault(cfg.Mode, cpuModeUsage),
		times:   cpu.TimesWithContext,
		loadAvg: cload.AvgWithContext,
	}
}

func (c *CPU) Sample(ctx context.Context) (string, error) {
	if c.mode == cpuModeLoad {
		avg, err := c.loadAvg(ctx)
		if err != nil {
			return "", c.fail(fmt.Errorf("get load average: %w", err))
		}
		return Render(c.icon, c.name, fmt.Sprintf("%.2f", avg.Load1)), nil
	}

	stats, err := c.times(ctx, false)
	if err != nil {
		return "", c.fail(fmt.Errorf("get cpu times: %w", err))
	}
	if len(stats) == 0 {
		return "", c.fail(errors.New("get cpu times: empty result"))
	}
	usage := busyPercent(c.last, stats[0])
	c.last = stats[0]
	return Render(c.icon, c.name, fmt.Sprintf("%d%%", int(usage))), nil
}

// busyPercent 100% - 空闲率，按两次采样之间的时间差计算
func busyPercent(prev, cur cpu.TimesStat) float64 {
	deltaTotal := totalTime(cur) - totalTime(prev)
	if deltaTotal <= 0 {
		return 0
	}
	deltaIdle := cur.Idle - prev.Idle
	usage := (deltaTotal - deltaIdle) / deltaTotal * 100
	if usage < 0 {
		return 0
	}
	return usage
}

func totalTime(t cpu.TimesStat) float64 {
	return t.User + t.Nice + t.System + t.Idle + t.Iowait + t.Irq + t.Softirq + t.Steal
}
