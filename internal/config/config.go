package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config represents the stepflow configuration
type Config struct {
	LLM     LLMConfig     `mapstructure:"llm"`
	Run     RunConfig     `mapstructure:"run"`
	History HistoryConfig `mapstructure:"history"`
	Display DisplayConfig `mapstructure:"display"`
}

// LLMConfig contains step-executor backend settings
type LLMConfig struct {
	Backend string `mapstructure:"backend"`
	Model   string `mapstructure:"model"`
	Binary  string `mapstructure:"binary"`
}

// RunConfig contains execution settings
type RunConfig struct {
	StepDelaySeconds int    `mapstructure:"step_delay_seconds"`
	ContextFile      string `mapstructure:"context_file"`
}

// HistoryConfig contains run-history settings
type HistoryConfig struct {
	Disabled bool   `mapstructure:"disabled"`
	Path     string `mapstructure:"path"`
}

// DisplayConfig contains output settings
type DisplayConfig struct {
	NoColor bool `mapstructure:"no_color"`
}

// Load reads the config from the workspace
func Load(workDir string) (*Config, error) {
	configPath := filepath.Join(workDir, ".stepflow", "config.yaml")

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Apply defaults for missing values
	applyDefaults(&cfg)

	return &cfg, nil
}

// DefaultConfig returns a config with default values
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Backend: "claude",
			Model:   "sonnet",
			Binary:  "claude",
		},
		Run: RunConfig{
			StepDelaySeconds: 1,
			ContextFile:      filepath.Join(".stepflow", "context.md"),
		},
		History: HistoryConfig{
			Path: filepath.Join(".stepflow", "history.db"),
		},
	}
}

func applyDefaults(cfg *Config) {
	defaults := DefaultConfig()

	if cfg.LLM.Backend == "" {
		cfg.LLM.Backend = defaults.LLM.Backend
	}
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = defaults.LLM.Model
	}
	if cfg.LLM.Binary == "" {
		cfg.LLM.Binary = defaults.LLM.Binary
	}
	if cfg.Run.StepDelaySeconds == 0 {
		cfg.Run.StepDelaySeconds = defaults.Run.StepDelaySeconds
	}
	if cfg.Run.ContextFile == "" {
		cfg.Run.ContextFile = defaults.Run.ContextFile
	}
	if cfg.History.Path == "" {
		cfg.History.Path = defaults.History.Path
	}
}

// WriteDefault creates the .stepflow directory with a starter config and
// context file. Returns an error if a config already exists and force is
// false.
func WriteDefault(workDir string, force bool) error {
	dir := filepath.Join(workDir, ".stepflow")
	configPath := filepath.Join(dir, "config.yaml")

	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("config already exists at %s (use --force to overwrite)", configPath)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	if err := os.WriteFile(configPath, []byte(defaultConfigYAML), 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	contextPath := filepath.Join(dir, "context.md")
	if _, err := os.Stat(contextPath); os.IsNotExist(err) {
		if err := os.WriteFile(contextPath, []byte(defaultContext), 0644); err != nil {
			return fmt.Errorf("failed to write context file: %w", err)
		}
	}

	return nil
}

const defaultConfigYAML = `# stepflow configuration
llm:
  backend: claude
  model: sonnet
  binary: claude

run:
  # Pacing between steps; not part of correctness
  step_delay_seconds: 1
  # Workspace summary injected into every step prompt
  context_file: .stepflow/context.md

history:
  disabled: false
  path: .stepflow/history.db

display:
  no_color: false
`

const defaultContext = `# Workspace Context

Describe your project here. This summary is injected into every step prompt
so the executor knows what it is working on.
`
