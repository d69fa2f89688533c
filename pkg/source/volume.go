package source

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"time"

	"github.com/dwm-statusbar/pkg/config"
)

const (
	volumeName       = "VOL"
	volumeIconActive = "\uf028 "
	volumeIconMuted  = "󰖁 "
	volumeInterval   = 100 * time.Millisecond
	volumeMuted      = "MUTED"
	volumeDevice     = "default"
	volumeControl    = "Master"
)

// amixer 输出示例: "  Front Left: Playback 39321 [60%] [-13.00dB] [on]"
var amixerLevel = regexp.MustCompile(`\[(\d{1,3})%\](?:[^\n]*?\[(on|off)\])?`)

// Volume reads the playback level and mute switch of an ALSA mixer control via amixer.
type Volume struct {
	base
	device     string
	control    string
	iconActive string
	iconMuted  string

	run func(ctx context.Context, name string, args ...string) ([]byte, error)
}

func NewVolume(cfg config.SourceConfig) *Volume {
	return &Volume{
		base:       newBase(cfg, volumeInterval, volumeName, ""),
		device:     orDefault(cfg.Device, volumeDevice),
		control:    orDefault(cfg.Control, volumeControl),
		iconActive: pick(cfg.IconActive, volumeIconActive),
		iconMuted:  pick(cfg.IconMuted, volumeIconMuted),
		run:        runOutput,
	}
}

func (v *Volume) Sample(ctx context.Context) (string, error) {
	out, err := v.run(ctx, "amixer", "-D", v.device, "get", v.control)
	if err != nil {
		return "", v.fail(fmt.Errorf("amixer get %s: %w", v.control, err))
	}
	level, muted, err := parseAmixer(out)
	if err != nil {
		return "", v.fail(err)
	}
	if muted {
		return Render(v.iconMuted, v.name, volumeMuted), nil
	}
	return Render(v.iconActive, v.name, fmt.Sprintf("%d%%", level)), nil
}

// parseAmixer 取第一个声道的音量与开关状态，没有开关的控件视为未静音
func parseAmixer(out []byte) (level int, muted bool, err error) {
	m := amixerLevel.FindSubmatch(out)
	if m == nil {
		return 0, false, errors.New("no playback level in amixer output")
	}
	level, err = strconv.Atoi(string(m[1]))
	if err != nil {
		return 0, false, err
	}
	return level, string(m[2]) == "off", nil
}

func runOutput(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}
