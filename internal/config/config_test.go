package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	base := t.TempDir()
	dir := filepath.Join(base, "config")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "node.yml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return base
}

func TestLoadMainConfigDefaultsOnMissingFile(t *testing.T) {
	cfg, err := LoadMainConfig(t.TempDir())
	if err == nil {
		t.Error("expected an error for the missing config file")
	}
	if cfg == nil {
		t.Fatal("defaults must be returned alongside the error")
	}
	if cfg.Port != 19533 || cfg.SeenMax != 400 || cfg.DefaultTTL != 3 || cfg.ReportThreshold != 5 {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.AdvBurstMs != 300 || cfg.InjectPeriodS != 60 || cfg.InjectJitterS != 10 {
		t.Errorf("unexpected timing defaults: %+v", cfg)
	}
}

func TestLoadMainConfigOverrides(t *testing.T) {
	base := writeConfig(t, `
node_id: abc123
port: 29000
seen_max: 64
report_threshold: 3
default_ttl: 5
`)
	cfg, err := LoadMainConfig(base)
	if err != nil {
		t.Fatalf("LoadMainConfig: %v", err)
	}
	if cfg.NodeID != "abc123" || cfg.Port != 29000 || cfg.SeenMax != 64 {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.ReportThreshold != 3 || cfg.DefaultTTL != 5 {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	// Untouched keys keep defaults.
	if cfg.ScanWindowMs != 10000 || cfg.TickMs != 20 {
		t.Errorf("defaults lost on partial override: %+v", cfg)
	}
}

func TestLoadMainConfigRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		yml  string
	}{
		{"port out of range", "port: 0"},
		{"seen_max below one", "seen_max: 0"},
		{"report threshold below one", "report_threshold: 0"},
		{"negative jitter", "inject_jitter_s: -1"},
		{"ttl too large", "default_ttl: 1000"},
		{"bad broadcast addr", "broadcast_addr: not-an-ip"},
		{"node id with separator", `node_id: "a|b"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadMainConfig(writeConfig(t, tt.yml)); err == nil {
				t.Error("expected a validation error")
			}
		})
	}
}

func TestLoadMainConfigBadYaml(t *testing.T) {
	cfg, err := LoadMainConfig(writeConfig(t, "port: [not scalar"))
	if err == nil {
		t.Error("expected a parse error")
	}
	if cfg == nil || cfg.Port != 19533 {
		t.Error("defaults must be returned on parse failure")
	}
}
