package translate

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	tt "github.com/mpyconv/mpyconv/internal/types"
)

const (
	// DefaultConfigFile is read when no config path is given.
	DefaultConfigFile = ".mpyconv.yaml"
	// DefaultOutputFile is the artifact written for a single input.
	DefaultOutputFile = "output.txt"
)

// Config represents the configuration file.
type Config struct {
	Name string `yaml:"name"`
	// Output is the artifact written when a single file is translated
	// without an output directory.
	Output string `yaml:"output,omitempty"`
	// OutDir receives one <stem>.py per input.
	OutDir  string `yaml:"out_dir,omitempty"`
	Workers int    `yaml:"workers,omitempty"`

	Rules map[string]tt.ConfigRule `yaml:"rules"`
	// Calls maps extra function names to the head that replaces them,
	// e.g. digitalWrite: pin.value.
	Calls map[string]string `yaml:"calls,omitempty"`
}

func DefaultConfig() Config {
	return Config{
		Name:   "mpyconv",
		Output: DefaultOutputFile,
		Rules:  map[string]tt.ConfigRule{},
	}
}

// LoadConfig reads the configuration at path. An empty path means
// DefaultConfigFile, which may be absent.
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()

	optional := path == ""
	if optional {
		path = DefaultConfigFile
	}

	f, err := os.Open(path)
	if err != nil {
		if optional && errors.Is(err, fs.ErrNotExist) {
			return config, nil
		}
		return config, fmt.Errorf("error opening config: %w", err)
	}
	defer f.Close()

	decoder := yaml.NewDecoder(f)
	decoder.KnownFields(true)
	if err := decoder.Decode(&config); err != nil && !errors.Is(err, io.EOF) {
		return config, fmt.Errorf("error parsing config %s: %w", path, err)
	}
	if config.Output == "" {
		config.Output = DefaultOutputFile
	}
	return config, nil
}

// WriteConfig stores config as YAML at path.
func WriteConfig(path string, config Config) error {
	d, err := yaml.Marshal(config)
	if err != nil {
		return err
	}
	return os.WriteFile(path, d, 0o644)
}
