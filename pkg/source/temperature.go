package source

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/host"

	"github.com/dwm-statusbar/pkg/config"
)

const (
	temperatureName     = "TEMP"
	temperatureIcon     = "󰏈 "
	temperatureUnit     = "󰔄"
	temperatureInterval = time.Second
)

// Temperature shows the average of all sensor readings, optionally only those whose
// sensor key contains the configured substring.
type Temperature struct {
	base
	sensor string

	sensors func(ctx context.Context) ([]host.TemperatureStat, error)
}

func NewTemperature(cfg config.SourceConfig) *Temperature {
	return &Temperature{
		base:    newBase(cfg, temperatureInterval, temperatureName, temperatureIcon),
		sensor:  cfg.Sensor,
		sensors: host.SensorsTemperaturesWithContext,
	}
}

func (t *Temperature) Sample(ctx context.Context) (string, error) {
	stats, err := t.sensors(ctx)
	// 部分传感器读取失败时 gopsutil 仍会返回其余结果
	if err != nil && len(stats) == 0 {
		return "", t.fail(fmt.Errorf("read sensors: %w", err))
	}

	var sum float64
	var n int
	for _, s := range stats {
		if t.sensor != "" && !strings.Contains(s.SensorKey, t.sensor) {
			continue
		}
		sum += s.Temperature
		n++
	}
	if n == 0 {
		return "", t.fail(errors.New("no temperature readings"))
	}
	return Render(t.icon, t.name, fmt.Sprintf("%d%s", int(sum/float64(n)), temperatureUnit)), nil
}
