package config

import (
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// MainConfig holds the node configuration. All durations are plain
// integers in the unit named by the key, matching the wire-level
// granularity of the underlying broadcast layer.
type MainConfig struct {
	NodeID        string `yaml:"node_id" validate:"omitempty,alphanum,max=16"`
	BroadcastAddr string `yaml:"broadcast_addr" validate:"required,ip"`
	Port          int    `yaml:"port" validate:"gte=1,lte=65535"`
	LogPath       string `yaml:"log_path"`

	AdvIntervalMs int `yaml:"adv_interval_ms" validate:"gte=10"`
	AdvBurstMs    int `yaml:"adv_burst_ms" validate:"gte=10"`
	AdvNameMax    int `yaml:"adv_name_max" validate:"gte=10"`
	ScanWindowMs  int `yaml:"scan_window_ms" validate:"gte=100"`

	InjectPeriodS int `yaml:"inject_period_s" validate:"gte=1"`
	InjectJitterS int `yaml:"inject_jitter_s" validate:"gte=0"`

	DefaultTTL      int `yaml:"default_ttl" validate:"gte=0,lte=64"`
	SeenMax         int `yaml:"seen_max" validate:"gte=1"`
	ReportThreshold int `yaml:"report_threshold" validate:"gte=1"`

	TickMs      int `yaml:"tick_ms" validate:"gte=1"`
	EventBuffer int `yaml:"event_buffer" validate:"gte=1"`
}

func defaultConfig() MainConfig {
	return MainConfig{
		BroadcastAddr:   "255.255.255.255",
		Port:            19533,
		LogPath:         "",
		AdvIntervalMs:   200,
		AdvBurstMs:      300,
		AdvNameMax:      25,
		ScanWindowMs:    10000,
		InjectPeriodS:   60,
		InjectJitterS:   10,
		DefaultTTL:      3,
		SeenMax:         400,
		ReportThreshold: 5,
		TickMs:          20,
		EventBuffer:     256,
	}
}

// LoadMainConfig reads node.yml under basePath (the executable's
// directory when basePath is empty) and returns the configuration.
// A missing or unreadable file returns the defaults together with the
// error so the caller can decide whether to run on them.
func LoadMainConfig(basePath string) (*MainConfig, error) {
	cfg := defaultConfig()

	if basePath == "" {
		exePath, err := os.Executable()
		if err != nil {
			return &cfg, err
		}
		basePath = filepath.Dir(exePath)
	}
	configPath := filepath.Join(basePath, "config", "node.yml")

	data, err := os.ReadFile(configPath)
	if err != nil {
		return &cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		def := defaultConfig()
		return &def, err
	}

	if err := cfg.Validate(); err != nil {
		def := defaultConfig()
		return &def, err
	}
	return &cfg, nil
}

// Validate checks the struct tags after defaulting and unmarshalling.
func (c *MainConfig) Validate() error {
	return validator.New().Struct(c)
}
