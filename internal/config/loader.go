package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// ConfigFileName is the name of the config file.
const ConfigFileName = "leapjs.yaml"

// ConfigFileNameAlt is the alternate name of the config file.
const ConfigFileNameAlt = "leapjs.yml"

// LoadFromDir loads a Config from the given directory.
// It looks for leapjs.yaml or leapjs.yml in the directory. When no config
// file exists the defaults are returned.
func LoadFromDir(dir string) (*Config, error) {
	cfg := &Config{Root: dir}

	configPath := FindConfigFile(dir)
	if configPath != "" {
		k := koanf.New(".")
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configPath, err)
		}
		if err := k.Unmarshal("", cfg); err != nil {
			return nil, fmt.Errorf("unable to decode config: %w", err)
		}
		if cfg.Root == "" {
			cfg.Root = dir
		}
	}

	ApplyDefaults(cfg)
	cfg.ResolvePaths()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ResolvePaths makes the output path absolute relative to Root.
func (c *Config) ResolvePaths() {
	if c.Output.Path != "" && !filepath.IsAbs(c.Output.Path) && c.Root != "" {
		c.Output.Path = filepath.Join(c.Root, c.Output.Path)
	}
}

// FindConfigFile finds the config file in the given directory.
// Returns empty string if not found.
func FindConfigFile(dir string) string {
	for _, name := range []string{ConfigFileName, ConfigFileNameAlt} {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
