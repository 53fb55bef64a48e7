/*
Package config manages the TOML (or YAML) config for wordsplit.
*/
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/bastiangx/wordsplit/internal/utils"
	"github.com/bastiangx/wordsplit/pkg/linking"
	"github.com/bastiangx/wordsplit/pkg/rank"
)

// ErrInvalidConfig is wrapped by Validate.
var ErrInvalidConfig = errors.New("config: invalid")

// Config holds the entire config structure
type Config struct {
	Split  SplitConfig  `toml:"split" yaml:"split"`
	Dict   DictConfig   `toml:"dict" yaml:"dict"`
	Rank   RankConfig   `toml:"rank" yaml:"rank"`
	Server ServerConfig `toml:"server" yaml:"server"`
	CLI    CliConfig    `toml:"cli" yaml:"cli"`
}

// SplitConfig bounds the search.
type SplitConfig struct {
	MinMorphLength   int      `toml:"min_morph_length" yaml:"min_morph_length"`
	MaxParts         int      `toml:"max_parts" yaml:"max_parts"`
	LinkingMorphemes []string `toml:"linking_morphemes" yaml:"linking_morphemes"`
	CacheSize        int      `toml:"cache_size" yaml:"cache_size"`
}

// DictConfig holds dictionary options.
type DictConfig struct {
	// Path is a word list (.txt) or snapshot (.bin); several may be joined with commas.
	Path string `toml:"path" yaml:"path"`
	// LinkingPath overrides split.linking_morphemes when set.
	LinkingPath string `toml:"linking_path" yaml:"linking_path"`
}

// RankConfig selects the ranking strategy.
type RankConfig struct {
	Strategy         string `toml:"strategy" yaml:"strategy"`
	Aggregation      string `toml:"aggregation" yaml:"aggregation"`
	Fallback         bool   `toml:"fallback" yaml:"fallback"`
	FrequencyBackend string `toml:"frequency_backend" yaml:"frequency_backend"`
	FrequencyPath    string `toml:"frequency_path" yaml:"frequency_path"`
	FrequencyCache   int    `toml:"frequency_cache" yaml:"frequency_cache"`
}

// ServerConfig has server related options.
type ServerConfig struct {
	MaxWordLength int `toml:"max_word_length" yaml:"max_word_length"`
	BatchWorkers  int `toml:"batch_workers" yaml:"batch_workers"`
}

// CliConfig holds cli interface options.
type CliConfig struct {
	ShowTree bool `toml:"show_tree" yaml:"show_tree"`
}

// Paths splits Dict.Path into its entries.
func (d DictConfig) Paths() []string {
	var out []string
	for _, p := range strings.Split(d.Path, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// GetConfigDir returns the config directory, falling back to the executable dir when the
// platform dir cannot be created.
func GetConfigDir() (string, error) {
	dir := utils.ConfigDir()
	err := utils.EnsureDir(dir)
	if err == nil {
		return dir, nil
	}
	log.Warnf("Cannot create config directory %s: %v", dir, err)
	execDir, err := utils.GetExecutableDir()
	if err != nil {
		log.Errorf("Failed to get executable directory: %v", err)
		return "", err
	}
	return execDir, nil
}

// GetDefaultConfigPath returns the default path for config.toml
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from --config flag
// 2. Default path: [UserConfigDir]/wordsplit/config.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	if customConfigPath != "" {
		if utils.FileExists(customConfigPath) {
			config, err := LoadConfig(customConfigPath)
			if err != nil {
				log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
			} else {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath, nil
			}
		} else {
			log.Warnf("Custom config file not found at %s. Trying default path...", customConfigPath)
		}
	}
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), "", nil
	}

	config, err := InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Split: SplitConfig{
			MinMorphLength:   2,
			MaxParts:         5,
			LinkingMorphemes: linking.German().All(),
			CacheSize:        4096,
		},
		Dict: DictConfig{
			Path: "data/morphemes.txt",
		},
		Rank: RankConfig{
			Strategy:         "baseline",
			Aggregation:      "geometric",
			Fallback:         true,
			FrequencyBackend: "memory",
			FrequencyCache:   10000,
		},
		Server: ServerConfig{
			MaxWordLength: 128,
			BatchWorkers:  4,
		},
	}
}

// Validate reports the first setting the rest of the program cannot work with.
func (c *Config) Validate() error {
	switch {
	case c.Split.MinMorphLength < 1:
		return fmt.Errorf("%w: split.min_morph_length must be >= 1, got %d", ErrInvalidConfig, c.Split.MinMorphLength)
	case c.Split.MaxParts < 1:
		return fmt.Errorf("%w: split.max_parts must be >= 1, got %d", ErrInvalidConfig, c.Split.MaxParts)
	case c.Split.CacheSize < 0:
		return fmt.Errorf("%w: split.cache_size must not be negative", ErrInvalidConfig)
	case len(c.Dict.Paths()) == 0:
		return fmt.Errorf("%w: dict.path is empty", ErrInvalidConfig)
	case c.Server.MaxWordLength < 1:
		return fmt.Errorf("%w: server.max_word_length must be >= 1", ErrInvalidConfig)
	case c.Server.BatchWorkers < 1:
		return fmt.Errorf("%w: server.batch_workers must be >= 1", ErrInvalidConfig)
	}
	for _, m := range c.Split.LinkingMorphemes {
		if strings.ContainsAny(m, "+() \t") {
			return fmt.Errorf("%w: linking morpheme %q", ErrInvalidConfig, m)
		}
	}
	if _, err := rank.ParseStrategy(c.Rank.Strategy); err != nil {
		return fmt.Errorf("%w: rank.strategy %q", ErrInvalidConfig, c.Rank.Strategy)
	}
	if _, err := rank.ParseAggregation(c.Rank.Aggregation); err != nil {
		return fmt.Errorf("%w: rank.aggregation %q", ErrInvalidConfig, c.Rank.Aggregation)
	}
	switch strings.ToLower(c.Rank.FrequencyBackend) {
	case "memory", "badger", "gse":
	default:
		return fmt.Errorf("%w: rank.frequency_backend %q", ErrInvalidConfig, c.Rank.FrequencyBackend)
	}
	if c.Rank.FrequencyCache < 0 {
		return fmt.Errorf("%w: rank.frequency_cache must not be negative", ErrInvalidConfig)
	}
	return nil
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)

	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}

	return LoadConfig(configPath)
}

// LoadConfig loads from a TOML or YAML file over the defaults
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if err := utils.LoadConfigFile(configPath, config); err != nil {
		return tryPartialParse(configPath)
	}
	return config, nil
}

// tryPartialParse keeps every readable setting of a file whose typed decode failed
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tempConfig, err := utils.ParseWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if section, ok := utils.ExtractSection(tempConfig, "split"); ok {
		extractSplitConfig(section, &config.Split)
	}
	if section, ok := utils.ExtractSection(tempConfig, "dict"); ok {
		extractDictConfig(section, &config.Dict)
	}
	if section, ok := utils.ExtractSection(tempConfig, "rank"); ok {
		extractRankConfig(section, &config.Rank)
	}
	if section, ok := utils.ExtractSection(tempConfig, "server"); ok {
		extractServerConfig(section, &config.Server)
	}
	if section, ok := utils.ExtractSection(tempConfig, "cli"); ok {
		if val, ok := utils.ExtractBool(section, "show_tree"); ok {
			config.CLI.ShowTree = val
		}
	}
	return config, nil
}

func extractSplitConfig(data map[string]any, split *SplitConfig) {
	if val, ok := utils.ExtractInt(data, "min_morph_length"); ok {
		split.MinMorphLength = val
	}
	if val, ok := utils.ExtractInt(data, "max_parts"); ok {
		split.MaxParts = val
	}
	if val, ok := utils.ExtractStrings(data, "linking_morphemes"); ok {
		split.LinkingMorphemes = val
	}
	if val, ok := utils.ExtractInt(data, "cache_size"); ok {
		split.CacheSize = val
	}
}

func extractDictConfig(data map[string]any, dict *DictConfig) {
	if val, ok := utils.ExtractString(data, "path"); ok {
		dict.Path = val
	}
	if val, ok := utils.ExtractString(data, "linking_path"); ok {
		dict.LinkingPath = val
	}
}

func extractRankConfig(data map[string]any, rank *RankConfig) {
	if val, ok := utils.ExtractString(data, "strategy"); ok {
		rank.Strategy = val
	}
	if val, ok := utils.ExtractString(data, "aggregation"); ok {
		rank.Aggregation = val
	}
	if val, ok := utils.ExtractBool(data, "fallback"); ok {
		rank.Fallback = val
	}
	if val, ok := utils.ExtractString(data, "frequency_backend"); ok {
		rank.FrequencyBackend = val
	}
	if val, ok := utils.ExtractString(data, "frequency_path"); ok {
		rank.FrequencyPath = val
	}
	if val, ok := utils.ExtractInt(data, "frequency_cache"); ok {
		rank.FrequencyCache = val
	}
}

func extractServerConfig(data map[string]any, server *ServerConfig) {
	if val, ok := utils.ExtractInt(data, "max_word_length"); ok {
		server.MaxWordLength = val
	}
	if val, ok := utils.ExtractInt(data, "batch_workers"); ok {
		server.BatchWorkers = val
	}
}

// GetActiveConfigPath returns the absolute path of loaded config file
func GetActiveConfigPath(configPath string) string {
	if configPath == "" {
		if defaultPath, err := GetDefaultConfigPath(); err == nil {
			return defaultPath
		}
		return "unknown"
	}
	return utils.GetAbsolutePath(configPath)
}

// SaveConfig saves into a TOML or YAML file, chosen by extension
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveConfigFile(config, configPath)
}
