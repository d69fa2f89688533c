package source

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/dwm-statusbar/pkg/config"
)

const (
	networkName     = "NET"
	networkIconUp   = "󰀂 "
	networkIconDown = "󰯡 "
	networkInterval = time.Second
	networkURL      = "https://www.google.com"
	networkTimeout  = 5 * time.Second

	networkMethodHTTP = "http"
	networkMethodTCP  = "tcp"
)

// Network shows whether a remote endpoint is reachable. An unreachable endpoint is a
// regular reading rendered with the down icon, not a sample failure.
type Network struct {
	base
	method   string
	url      string
	address  string
	timeout  time.Duration
	iconUp   string
	iconDown string

	client *http.Client
	dialer *net.Dialer
}

func NewNetwork(cfg config.SourceConfig) *Network {
	timeout := millis(cfg.Timeout, networkTimeout)
	return &Network{
		base:     newBase(cfg, networkInterval, networkName, ""),
		method:   orDefault(cfg.Method, networkMethodHTTP),
		url:      orDefault(cfg.URL, networkURL),
		address:  cfg.Address,
		timeout:  timeout,
		iconUp:   pick(cfg.IconUp, networkIconUp),
		iconDown: pick(cfg.IconDown, networkIconDown),
		client:   &http.Client{Timeout: timeout},
		dialer:   &net.Dialer{Timeout: timeout},
	}
}

func (n *Network) Sample(ctx context.Context) (string, error) {
	icon := n.iconDown
	if n.reachable(ctx) {
		icon = n.iconUp
	}
	return Render(icon, n.name, ""), nil
}

func (n *Network) reachable(ctx context.Context) bool {
	if n.method == networkMethodTCP {
		conn, err := n.dialer.DialContext(ctx, "tcp", n.address)
		if err != nil {
			return false
		}
		_ = conn.Close()
		return true
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.url, nil)
	if err != nil {
		return false
	}
	resp, err := n.client.Do(req)
	if err != nil {
		return false
	}
	_ = resp.Body.Close()
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}
