package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/vptvpt/riscv-assembler/assembler"
)

// DefaultPath is read from the working directory unless RVASM_CONFIG names
// another file.
const DefaultPath = "rvasm.json"

type Config struct {
	LineFailurePolicy string `json:"lineFailurePolicy"` // either 'drop' or 'strict'
	Debug             bool   `json:"debug"`
	LogEndpoint       string `json:"logEndpoint"`
	ListenAddr        string `json:"listenAddr"`
	SourceExtension   string `json:"sourceExtension"`
	HexExtension      string `json:"hexExtension"`
}

func Default() *Config {
	return &Config{
		LineFailurePolicy: string(assembler.DropFailedLines),
		ListenAddr:        ":2035",
		SourceExtension:   ".s",
		HexExtension:      ".hex",
	}
}

// Load reads the JSON file at path on top of the defaults. A missing file is
// not an error.
func Load(path string) (*Config, error) {
	conf := Default()

	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return conf, nil
	} else if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(b, conf); err != nil {
		return nil, fmt.Errorf("error unmarshalling %s: %w", path, err)
	}
	if err := conf.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return conf, nil
}

var conf *Config

// GetConfig loads the configuration once per process.
func GetConfig() (*Config, error) {
	if conf == nil {
		path := os.Getenv("RVASM_CONFIG")
		if path == "" {
			path = DefaultPath
		}
		loaded, err := Load(path)
		if err != nil {
			return nil, err
		}
		conf = loaded
	}
	return conf, nil
}

func (c *Config) validate() error {
	switch assembler.LineFailurePolicy(c.LineFailurePolicy) {
	case assembler.DropFailedLines, assembler.StrictLines:
	default:
		return fmt.Errorf("invalid lineFailurePolicy %q, expected \"drop\" or \"strict\"", c.LineFailurePolicy)
	}
	if c.SourceExtension == "" || c.HexExtension == "" {
		return errors.New("sourceExtension and hexExtension must not be empty")
	}
	return nil
}

func (c *Config) AssemblerConfig() assembler.AssemblerConfig {
	return assembler.AssemblerConfig{LineFailurePolicy: assembler.LineFailurePolicy(c.LineFailurePolicy)}
}
