package engine

import (
	"fmt"
	"os"

	"github.com/kiwicore/morlock/pkg/search/searchctl"
	"gopkg.in/yaml.v3"
)

// Config is the engine's on-disk default configuration, typically loaded from a
// morlock.yaml file next to the binary and overridden by CLI flags or protocol commands.
type Config struct {
	Options     Options               `yaml:"options"`
	TimeControl searchctl.TimeControl `yaml:"timeControl"`
	BookPath    string                `yaml:"bookPath"`
	BitbaseDir  string                `yaml:"bitbaseDir"`
}

// DefaultConfig returns the configuration used when no morlock.yaml is found.
func DefaultConfig() Config {
	return Config{
		Options: Options{
			Depth:         0,
			Hash:          64,
			Noise:         0,
			BookPlies:     20,
			BookMissLimit: 2,
		},
	}
}

// LoadConfig reads and parses a morlock.yaml file at path. A missing file is not an error:
// DefaultConfig is returned instead, so the engine can always run with no config present.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("reading config %v: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config %v: %w", path, err)
	}
	return cfg, nil
}
