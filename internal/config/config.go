package config

import (
	"fmt"
	"net"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/hashicorp/go-multierror"
)

type ServiceConfig struct {
	Name           string   `toml:"name"`
	Addr           string   `toml:"addr"`
	CorsOrigins    []string `toml:"cors_origins"`
	TrustedProxies []string `toml:"trusted_proxies"`
	// AuthToken, when set, is required as a bearer token on decode routes.
	AuthToken string `toml:"auth_token"`
	// CacheSize is the number of decode results kept; 0 disables caching.
	CacheSize int `toml:"cache_size"`
	// MaxTransmissionHex bounds accepted input length in hex digits.
	MaxTransmissionHex int `toml:"max_transmission_hex"`
	// MaxDepth bounds packet nesting; 0 disables the check.
	MaxDepth int `toml:"max_depth"`
}

func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		Name:               "pktdecode",
		Addr:               ":9200",
		CorsOrigins:        []string{"http://localhost:3000"},
		TrustedProxies:     []string{"127.0.0.1", "::1"},
		CacheSize:          1024,
		MaxTransmissionHex: 1 << 20,
		MaxDepth:           512,
	}
}

// LoadServiceConfig reads path over the defaults; keys absent from the
// file keep their default values.
func LoadServiceConfig(path string) (ServiceConfig, error) {
	cfg := DefaultServiceConfig()

	var raw ServiceConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return ServiceConfig{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return ServiceConfig{}, fmt.Errorf("config parse failed (%s): unknown key %q", path, undecoded[0].String())
	}

	if meta.IsDefined("name") {
		cfg.Name = strings.TrimSpace(raw.Name)
	}
	if meta.IsDefined("addr") {
		cfg.Addr = strings.TrimSpace(raw.Addr)
	}
	if meta.IsDefined("cors_origins") {
		cfg.CorsOrigins = normalizeList(raw.CorsOrigins)
	}
	if meta.IsDefined("trusted_proxies") {
		cfg.TrustedProxies = normalizeList(raw.TrustedProxies)
	}
	if meta.IsDefined("auth_token") {
		cfg.AuthToken = strings.TrimSpace(raw.AuthToken)
	}
	if meta.IsDefined("cache_size") {
		cfg.CacheSize = raw.CacheSize
	}
	if meta.IsDefined("max_transmission_hex") {
		cfg.MaxTransmissionHex = raw.MaxTransmissionHex
	}
	if meta.IsDefined("max_depth") {
		cfg.MaxDepth = raw.MaxDepth
	}

	if err := ValidateServiceConfig(cfg); err != nil {
		return ServiceConfig{}, err
	}
	return cfg, nil
}

// ValidateServiceConfig reports every problem with cfg at once.
func ValidateServiceConfig(cfg ServiceConfig) error {
	var merr *multierror.Error
	if strings.TrimSpace(cfg.Name) == "" {
		merr = multierror.Append(merr, fmt.Errorf("service config missing name"))
	}
	if strings.TrimSpace(cfg.Addr) == "" {
		merr = multierror.Append(merr, fmt.Errorf("service config missing addr"))
	}
	if cfg.CacheSize < 0 {
		merr = multierror.Append(merr, fmt.Errorf("cache_size must be >= 0, got %d", cfg.CacheSize))
	}
	if cfg.MaxTransmissionHex <= 0 {
		merr = multierror.Append(merr, fmt.Errorf("max_transmission_hex must be > 0, got %d", cfg.MaxTransmissionHex))
	}
	for _, proxy := range cfg.TrustedProxies {
		if !validProxy(proxy) {
			merr = multierror.Append(merr, fmt.Errorf("trusted_proxies entry %q is not an IP or CIDR", proxy))
		}
	}
	if cfg.MaxDepth < 0 {
		merr = multierror.Append(merr, fmt.Errorf("max_depth must be >= 0, got %d", cfg.MaxDepth))
	}
	return merr.ErrorOrNil()
}

func validProxy(v string) bool {
	if net.ParseIP(v) != nil {
		return true
	}
	_, _, err := net.ParseCIDR(v)
	return err == nil
}

func normalizeList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		out = append(out, v)
	}
	return out
}
