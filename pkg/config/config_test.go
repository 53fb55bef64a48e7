package config

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestDefaultConfigValid(t *testing.T) {
	c := DefaultConfig()
	if err := c.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if c.Split.LinkingMorphemes[0] != "" {
		t.Errorf("linking morphemes = %q, want empty first", c.Split.LinkingMorphemes)
	}
}

func TestInitConfigCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")
	c, err := InitConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file not created: %v", err)
	}
	again, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(again.Split.LinkingMorphemes, c.Split.LinkingMorphemes) || again.Rank != c.Rank {
		t.Errorf("reloaded config differs: %+v vs %+v", again, c)
	}
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	os.WriteFile(path, []byte(`
[split]
max_parts = 3
linking_morphemes = ["", "s"]

[rank]
strategy = "frequency"
frequency_backend = "badger"
`), 0644)

	c, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if c.Split.MaxParts != 3 || c.Split.MinMorphLength != 2 {
		t.Errorf("split = %+v", c.Split)
	}
	if !slices.Equal(c.Split.LinkingMorphemes, []string{"", "s"}) {
		t.Errorf("linking = %q", c.Split.LinkingMorphemes)
	}
	if c.Rank.Strategy != "frequency" || c.Rank.FrequencyBackend != "badger" || !c.Rank.Fallback {
		t.Errorf("rank = %+v", c.Rank)
	}
}

func TestLoadConfigPartialRecovery(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	// max_parts has the wrong type, so the typed decode fails as a whole
	os.WriteFile(path, []byte(`
[split]
max_parts = "many"
min_morph_length = 3

[server]
batch_workers = 9
`), 0644)

	c, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if c.Split.MinMorphLength != 3 || c.Split.MaxParts != 5 {
		t.Errorf("split = %+v", c.Split)
	}
	if c.Server.BatchWorkers != 9 {
		t.Errorf("batch_workers = %d", c.Server.BatchWorkers)
	}
}

func TestLoadConfigGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	os.WriteFile(path, []byte("[[[ not toml"), 0644)
	c, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if c.Split.MaxParts != 5 || c.Split.MinMorphLength != 2 || c.Rank.Strategy != "baseline" {
		t.Errorf("garbage file did not fall back to defaults: %+v", c.Split)
	}
}

func TestLoadConfigYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	os.WriteFile(path, []byte(`
split:
  max_parts: 4
dict:
  path: "a.txt, b.bin"
rank:
  aggregation: minimum
`), 0644)

	c, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if c.Split.MaxParts != 4 || c.Rank.Aggregation != "minimum" {
		t.Errorf("config = %+v", c)
	}
	if !slices.Equal(c.Dict.Paths(), []string{"a.txt", "b.bin"}) {
		t.Errorf("Paths() = %q", c.Dict.Paths())
	}
	if err := c.Validate(); err != nil {
		t.Error(err)
	}
}

func TestSaveConfigYAMLRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	c := DefaultConfig()
	c.Rank.Strategy = "frequency"
	if err := SaveConfig(c, path); err != nil {
		t.Fatal(err)
	}
	got, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Rank.Strategy != "frequency" {
		t.Errorf("strategy = %q", got.Rank.Strategy)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"min morph", func(c *Config) { c.Split.MinMorphLength = 0 }},
		{"max parts", func(c *Config) { c.Split.MaxParts = 0 }},
		{"empty dict", func(c *Config) { c.Dict.Path = " , " }},
		{"reserved link", func(c *Config) { c.Split.LinkingMorphemes = []string{"(s)"} }},
		{"strategy", func(c *Config) { c.Rank.Strategy = "oracle" }},
		{"aggregation", func(c *Config) { c.Rank.Aggregation = "median" }},
		{"backend", func(c *Config) { c.Rank.FrequencyBackend = "redis" }},
		{"workers", func(c *Config) { c.Server.BatchWorkers = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultConfig()
			tt.mutate(c)
			if err := c.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestValidateAcceptsRankAliases(t *testing.T) {
	tests := []struct{ strategy, aggregation string }{
		{"frequency_aware", "min"},
		{"Frequency", "geometric_mean"},
		{"baseline", "minimum"},
		{"", ""},
	}
	for _, tt := range tests {
		c := DefaultConfig()
		c.Rank.Strategy, c.Rank.Aggregation = tt.strategy, tt.aggregation
		if err := c.Validate(); err != nil {
			t.Errorf("Validate(%q, %q) = %v", tt.strategy, tt.aggregation, err)
		}
	}
}

func TestGetActiveConfigPath(t *testing.T) {
	got := GetActiveConfigPath(filepath.Join("conf", "wordsplit.toml"))
	if !filepath.IsAbs(got) || filepath.Base(got) != "wordsplit.toml" {
		t.Errorf("GetActiveConfigPath(relative) = %q", got)
	}
	abs := filepath.Join(t.TempDir(), "config.toml")
	if got := GetActiveConfigPath(abs); got != abs {
		t.Errorf("GetActiveConfigPath(%q) = %q", abs, got)
	}
	want := "unknown"
	if p, err := GetDefaultConfigPath(); err == nil {
		want = p
	}
	if got := GetActiveConfigPath(""); got != want {
		t.Errorf("GetActiveConfigPath(\"\") = %q, want %q", got, want)
	}
}
