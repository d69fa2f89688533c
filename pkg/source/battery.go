package source

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dwm-statusbar/pkg/config"
)

const (
	batteryName       = "BAT"
	batteryIconFull   = "󰁹"
	batteryIconMedium = "󰁿"
	batteryIconLow    = "󰁺"
	batteryInterval   = time.Second
	batteryPath       = "/sys/class/power_supply/BAT0/capacity"
)

// Battery reads the charge percentage from a power_supply capacity file.
type Battery struct {
	base
	path       string
	iconFull   string
	iconMedium string
	iconLow    string
}

func NewBattery(cfg config.SourceConfig) *Battery {
	return &Battery{
		base:       newBase(cfg, batteryInterval, batteryName, ""),
		path:       orDefault(cfg.Path, batteryPath),
		iconFull:   pick(cfg.IconFull, batteryIconFull),
		iconMedium: pick(cfg.IconMedium, batteryIconMedium),
		iconLow:    pick(cfg.IconLow, batteryIconLow),
	}
}

func (b *Battery) Sample(context.Context) (string, error) {
	raw, err := os.ReadFile(b.path)
	if err != nil {
		return "", b.fail(err)
	}
	capacity, err := strconv.ParseUint(strings.TrimSpace(string(raw)), 10, 8)
	if err != nil {
		return "", b.fail(fmt.Errorf("parse capacity: %w", err))
	}
	return Render(b.iconFor(capacity), b.name, fmt.Sprintf("%d%%", capacity)), nil
}

func (b *Battery) iconFor(capacity uint64) string {
	switch {
	case capacity > 80:
		return b.iconFull
	case capacity > 40:
		return b.iconMedium
	default:
		return b.iconLow
	}
}
