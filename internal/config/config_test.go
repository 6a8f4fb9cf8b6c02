package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hashicorp/go-multierror"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadServiceConfigDefaultsAndOverrides(t *testing.T) {
	path := writeConfig(t, `
addr = "127.0.0.1:9300"
cache_size = 0
auth_token = " s3cret "
cors_origins = [" https://example.test ", ""]
`)
	cfg, err := LoadServiceConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	def := DefaultServiceConfig()
	if cfg.Name != def.Name {
		t.Fatalf("unexpected name: %q", cfg.Name)
	}
	if cfg.Addr != "127.0.0.1:9300" {
		t.Fatalf("unexpected addr: %q", cfg.Addr)
	}
	if cfg.CacheSize != 0 {
		t.Fatalf("explicit zero cache size not kept: %d", cfg.CacheSize)
	}
	if cfg.AuthToken != "s3cret" {
		t.Fatalf("unexpected auth token: %q", cfg.AuthToken)
	}
	if len(cfg.CorsOrigins) != 1 || cfg.CorsOrigins[0] != "https://example.test" {
		t.Fatalf("unexpected cors origins: %+v", cfg.CorsOrigins)
	}
	if cfg.MaxDepth != def.MaxDepth || cfg.MaxTransmissionHex != def.MaxTransmissionHex {
		t.Fatalf("limits should keep defaults: %+v", cfg)
	}
}

func TestLoadServiceConfigTemplateIsValid(t *testing.T) {
	tpl, err := Template("service")
	if err != nil {
		t.Fatalf("template: %v", err)
	}
	cfg, err := LoadServiceConfig(writeConfig(t, tpl))
	if err != nil {
		t.Fatalf("load template: %v", err)
	}
	if cfg.MaxTransmissionHex != 1<<20 || cfg.CacheSize != 1024 {
		t.Fatalf("unexpected template values: %+v", cfg)
	}
}

func TestLoadServiceConfigUnknownKey(t *testing.T) {
	_, err := LoadServiceConfig(writeConfig(t, `cache_sise = 3`))
	if err == nil || !strings.Contains(err.Error(), "cache_sise") {
		t.Fatalf("expected unknown key error, got %v", err)
	}
}

func TestLoadServiceConfigMissingFile(t *testing.T) {
	if _, err := LoadServiceConfig(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatalf("expected load error")
	}
}

func TestValidateServiceConfigAggregates(t *testing.T) {
	err := ValidateServiceConfig(ServiceConfig{CacheSize: -1, MaxDepth: -2})
	if err == nil {
		t.Fatalf("expected validation error")
	}
	merr, ok := err.(*multierror.Error)
	if !ok {
		t.Fatalf("expected *multierror.Error, got %T", err)
	}
	if len(merr.Errors) != 5 {
		t.Fatalf("expected 5 problems, got %d: %v", len(merr.Errors), merr)
	}
}

func TestValidateServiceConfigTrustedProxies(t *testing.T) {
	cfg := DefaultServiceConfig()
	cfg.TrustedProxies = []string{"10.0.0.1", "192.168.0.0/16", "::1"}
	if err := ValidateServiceConfig(cfg); err != nil {
		t.Fatalf("valid proxies rejected: %v", err)
	}
	cfg.TrustedProxies = []string{"10.0.0.1", "proxy.local", "10.0.0.0/33"}
	err := ValidateServiceConfig(cfg)
	merr, ok := err.(*multierror.Error)
	if !ok || len(merr.Errors) != 2 {
		t.Fatalf("expected 2 proxy problems, got %v", err)
	}
	if !strings.Contains(merr.Error(), "proxy.local") {
		t.Fatalf("missing entry in error: %v", merr)
	}
}

func TestWriteTemplateRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := WriteTemplate(path, "service", false); err != nil {
		t.Fatalf("write template: %v", err)
	}
	if err := WriteTemplate(path, "service", false); err == nil {
		t.Fatalf("expected existing config error")
	}
	if err := WriteTemplate(path, "service", true); err != nil {
		t.Fatalf("forced write: %v", err)
	}
	if err := WriteTemplate(path, "cluster", true); err == nil {
		t.Fatalf("expected unknown kind error")
	}
}
