package source

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shirou/gopsutil/v3/disk"

	"github.com/dwm-statusbar/pkg/config"
)

const (
	diskName     = "DISK"
	diskIcon     = "󰋊 "
	diskUnit     = "/"
	diskInterval = 2 * time.Second
)

// Disk shows how full the filesystem mounted at unit is.
type Disk struct {
	base
	unit   string
	format string

	usage func(ctx context.Context, path string) (*disk.UsageStat, error)
}

func NewDisk(cfg config.SourceConfig) *Disk {
	return &Disk{
		base:   newBase(cfg, diskInterval, diskName, diskIcon),
		unit:   orDefault(cfg.Unit, diskUnit),
		format: orDefault(cfg.Format, "percent"),
		usage:  disk.UsageWithContext,
	}
}

func (d *Disk) Sample(ctx context.Context) (string, error) {
	st, err := d.usage(ctx, d.unit)
	if err != nil {
		return "", d.fail(fmt.Errorf("statfs %s: %w", d.unit, err))
	}
	if st.Total == 0 {
		return "", d.fail(errors.New("invalid unit " + d.unit))
	}

	var value string
	switch d.format {
	case "free":
		value = humanize.IBytes(st.Free)
	default:
		// Free 为非特权用户可用空间（f_bavail）
		used := st.Total - min(st.Free, st.Total)
		value = fmt.Sprintf("%d%%", used*100/st.Total)
	}
	return Render(d.icon, d.name, value), nil
}
