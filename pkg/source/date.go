package source

import (
	"context"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/lestrrat-go/strftime"

	"github.com/dwm-statusbar/pkg/config"
)

const (
	dateFormat   = "%A %d/%m/%Y %H:%M"
	dateIcon     = "\uf073 "
	dateInterval = time.Second
)

// Date shows the local time in a strftime pattern.
type Date struct {
	base
	pattern *strftime.Strftime
	clock   clockwork.Clock
}

// NewDate compiles the pattern up front so a bad pattern fails at startup.
func NewDate(cfg config.SourceConfig) (*Date, error) {
	format := orDefault(cfg.Format, dateFormat)
	pattern, err := strftime.New(format)
	if err != nil {
		return nil, fmt.Errorf("date format %q: %w", format, err)
	}
	return &Date{
		base:    newBase(cfg, dateInterval, "", dateIcon),
		pattern: pattern,
		clock:   clockwork.NewRealClock(),
	}, nil
}

func (d *Date) Sample(context.Context) (string, error) {
	return Render(d.icon, d.name, d.pattern.FormatString(d.clock.Now())), nil
}
