package app

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	coreconfig "github.com/m3rciful/carbot/core/config"
	coredatabase "github.com/m3rciful/carbot/core/database"
)

// IntakeConfig holds settings of the intake flow.
type IntakeConfig struct {
	// AdminIDs is a comma-separated list of admin chat identifiers that
	// receive finalized leads.
	AdminIDs string `yaml:"admin_ids" envconfig:"INTAKE_ADMIN_IDS"`
	// ChannelURL is appended to the farewell message when set.
	ChannelURL string `yaml:"channel_url" envconfig:"INTAKE_CHANNEL_URL"`
	// MediaSettleMS bounds the randomized delay before accepting a media
	// item; 0 disables it.
	MediaSettleMS int `yaml:"media_settle_ms" envconfig:"INTAKE_MEDIA_SETTLE_MS"`
}

// Config aggregates core, database, and intake configuration.
type Config struct {
	coreconfig.Config `yaml:",inline"`

	Database coredatabase.Config `yaml:"database"`
	Intake   IntakeConfig        `yaml:"intake"`
}

// CoreConfig exposes the embedded core configuration for the runner.
func (c *Config) CoreConfig() *coreconfig.Config {
	return &c.Config
}

// AdminList parses the comma-separated admin id list.
func (c *Config) AdminList() ([]int64, error) {
	parts := strings.Split(c.Intake.AdminIDs, ",")
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		id, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid admin id %q: %w", p, err)
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("intake.admin_ids must list at least one admin chat id")
	}
	return ids, nil
}

// LoadConfig reads configuration from a YAML file and environment variables.
func LoadConfig(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}

	if err := coreconfig.Normalize(&cfg.Config); err != nil {
		return nil, err
	}
	if cfg.Intake.MediaSettleMS < 0 {
		return nil, fmt.Errorf("intake.media_settle_ms must be >= 0")
	}
	if _, err := cfg.AdminList(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
