package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dwm-statusbar/pkg/config"
)

const (
	weatherName     = "WEA"
	weatherIcon     = "\ue30d "
	weatherInterval = 30 * time.Minute
	weatherURL      = "https://wttr.in"
	weatherTimeout  = 10 * time.Second
	weatherMaxRunes = 5
)

// Weather shows the current temperature for a location from a wttr.in compatible service.
type Weather struct {
	base
	endpoint string
	location string

	client *http.Client
}

func NewWeather(cfg config.SourceConfig) *Weather {
	return &Weather{
		base:     newBase(cfg, weatherInterval, weatherName, weatherIcon),
		endpoint: strings.TrimRight(orDefault(cfg.URL, weatherURL), "/"),
		location: cfg.Location,
		client:   &http.Client{Timeout: millis(cfg.Timeout, weatherTimeout)},
	}
}

func (w *Weather) Sample(ctx context.Context) (string, error) {
	target := fmt.Sprintf("%s/%s?format=%s", w.endpoint, url.PathEscape(w.location), url.QueryEscape("%t"))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", w.fail(err)
	}
	resp, err := w.client.Do(req)
	if err != nil {
		return "", w.fail(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", w.fail(fmt.Errorf("GET %s: %s", target, resp.Status))
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1024))
	if err != nil {
		return "", w.fail(fmt.Errorf("read body: %w", err))
	}

	value := strings.TrimSpace(strings.ReplaceAll(string(body), "+", ""))
	if value == "" {
		return "", w.fail(errors.New("empty weather report"))
	}
	if r := []rune(value); len(r) > weatherMaxRunes {
		value = string(r[:weatherMaxRunes])
	}
	return Render(w.icon, w.name, value), nil
}
