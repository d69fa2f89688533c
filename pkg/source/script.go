package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/dwm-statusbar/pkg/config"
)

const (
	scriptName     = "SCR"
	scriptIcon     = "󰯁 "
	scriptInterval = time.Second
)

// Script runs a shell script and shows its trimmed stdout. A non-zero exit is a failure.
type Script struct {
	base
	path  string
	shell string
}

func NewScript(cfg config.SourceConfig) (*Script, error) {
	if cfg.Path == "" {
		return nil, errors.New("script source requires path")
	}
	return &Script{
		base:  newBase(cfg, scriptInterval, scriptName, scriptIcon),
		path:  cfg.Path,
		shell: "sh",
	}, nil
}

func (s *Script) Sample(ctx context.Context) (string, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, s.shell, s.path)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", s.fail(fmt.Errorf("%s: %w: %s", s.path, err, msg))
		}
		return "", s.fail(fmt.Errorf("%s: %w", s.path, err))
	}

	out := strings.ReplaceAll(strings.TrimSpace(stdout.String()), "\n", " ")
	return Render(s.icon, s.name, out), nil
}
