// Package config resolves the daemon's configuration from the process
// environment, as specced, with an optional TOML overlay (grounded in the
// pack's own TOML-based daemon configuration) for the tunables the spec
// leaves to a default: HELLO/LSA periods, the UDP port, the route-install
// command template, the metrics listen address, and the log level.
//
// Router identity and per-link costs are never read from the overlay file:
// they always come from the environment, matching the external interface
// contract exactly.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/malujoro/lsrouter/internal/logger"
)

const (
	DefaultPort         = 5000
	DefaultHelloPeriod  = 10 * time.Second
	DefaultLSAPeriod    = 30 * time.Second
	DefaultBufferBytes  = 4096
	DefaultRouteCommand = "ip route replace {dest} via {gw}"
	DefaultMetricsAddr  = ":9100"

	ContainerNameEnvVar = "CONTAINER_NAME"
	PortEnvVar          = "ROUTER_PORT"
	ConfigPathEnvVar    = "ROUTER_CONFIG"
)

// Overlay is the optional TOML file named by ROUTER_CONFIG. Every field is
// optional; zero values fall back to the package defaults.
type Overlay struct {
	Port         int    `toml:"port"`
	HelloSeconds int    `toml:"hello_interval_seconds"`
	LSASeconds   int    `toml:"lsa_interval_seconds"`
	RouteCommand string `toml:"route_command"`
	MetricsAddr  string `toml:"metrics_addr"`
	LogLevel     string `toml:"log_level"`
}

// Config is the fully resolved daemon configuration.
type Config struct {
	RouterID     string
	Port         int
	HelloPeriod  time.Duration
	LSAPeriod    time.Duration
	BufferBytes  int
	RouteCommand string
	MetricsAddr  string
}

// Load resolves Config from the environment and, if ROUTER_CONFIG is set, a
// TOML overlay read from that path. It fails fast (returns an error) for a
// missing router identity, a ROUTER_PORT that is not an integer, or an
// overlay file that cannot be read or decoded. The caller is expected to
// report the error and exit.
func Load() (*Config, error) {
	routerID := os.Getenv(ContainerNameEnvVar)
	if routerID == "" {
		return nil, fmt.Errorf("%s is not set in the environment", ContainerNameEnvVar)
	}

	cfg := &Config{
		RouterID:     routerID,
		Port:         DefaultPort,
		HelloPeriod:  DefaultHelloPeriod,
		LSAPeriod:    DefaultLSAPeriod,
		BufferBytes:  DefaultBufferBytes,
		RouteCommand: DefaultRouteCommand,
		MetricsAddr:  DefaultMetricsAddr,
	}

	if portStr := os.Getenv(PortEnvVar); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", PortEnvVar, err)
		}
		cfg.Port = port
	}

	if path := os.Getenv(ConfigPathEnvVar); path != "" {
		if err := applyOverlay(cfg, path); err != nil {
			return nil, fmt.Errorf("loading %s: %w", path, err)
		}
	}

	return cfg, nil
}

func applyOverlay(cfg *Config, path string) error {
	var overlay Overlay
	if _, err := toml.DecodeFile(path, &overlay); err != nil {
		return err
	}

	if overlay.Port != 0 {
		cfg.Port = overlay.Port
	}
	if overlay.HelloSeconds != 0 {
		cfg.HelloPeriod = time.Duration(overlay.HelloSeconds) * time.Second
	}
	if overlay.LSASeconds != 0 {
		cfg.LSAPeriod = time.Duration(overlay.LSASeconds) * time.Second
	}
	if overlay.RouteCommand != "" {
		cfg.RouteCommand = overlay.RouteCommand
	}
	if overlay.MetricsAddr != "" {
		cfg.MetricsAddr = overlay.MetricsAddr
	}
	if overlay.LogLevel != "" {
		logger.SetLevel(overlay.LogLevel)
	}

	return nil
}
