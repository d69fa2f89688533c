package source

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/dwm-statusbar/pkg/config"
)

const (
	memoryName     = "RAM"
	memoryIcon     = "󰍛 "
	memoryInterval = time.Second
)

// Memory shows used memory, where used is total minus available.
type Memory struct {
	base
	format string

	virtualMemory func(ctx context.Context) (*mem.VirtualMemoryStat, error)
}

func NewMemory(cfg config.SourceConfig) *Memory {
	return &Memory{
		base:          newBase(cfg, memoryInterval, memoryName, memoryIcon),
		format:        orDefault(cfg.Format, "percent"),
		virtualMemory: mem.VirtualMemoryWithContext,
	}
}

func (m *Memory) Sample(ctx context.Context) (string, error) {
	vm, err := m.virtualMemory(ctx)
	if err != nil {
		return "", m.fail(fmt.Errorf("get virtual memory: %w", err))
	}
	if vm.Total == 0 || vm.Available > vm.Total {
		return "", m.fail(errors.New("implausible memory totals"))
	}
	used := vm.Total - vm.Available

	var value string
	switch m.format {
	case "used":
		value = humanize.IBytes(used)
	default:
		value = fmt.Sprintf("%.0f%%", float64(used)/float64(vm.Total)*100)
	}
	return Render(m.icon, m.name, value), nil
}
