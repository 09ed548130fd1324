package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/sethvargo/go-envconfig"
	"gopkg.in/yaml.v3"
)

// ConfigFile is the file read from the working directory when no path is given.
const ConfigFile = ".swagger-mock-validator.yml"

// EnvPrefix prefixes every environment variable that overrides the config file.
const EnvPrefix = "SMV_"

const DefaultConfigContent = `# swagger-mock-validator configuration

# OUTPUT
#
# The format used to report the outcome: "text" (default) or "json".
output: text

# Set to false to disable coloured text output.
colour: true

# The maximum number of interactions validated concurrently.
# 0 (default) uses one worker per CPU.
parallelism: 0

# Exit with an error when validation produces warnings but no errors.
failOnWarning: false

# FETCHING
#
# Settings used when the spec or mock is given as an http(s) URL.
fetch:
  attempts: 3
  delay: 500ms
  timeout: 30s

# Headers which should be treated as standard http headers, so that their
# absence from the swagger file is reported as a warning rather than an error.
additionalStandardHeaders: []
`

// Output is the format used to report the outcome.
type Output string

const (
	OutputText Output = "text"
	OutputJSON Output = "json"
)

type FetchConfig struct {
	Attempts uint          `yaml:"attempts" env:"FETCH_ATTEMPTS, overwrite"`
	Delay    time.Duration `yaml:"delay"    env:"FETCH_DELAY, overwrite"`
	Timeout  time.Duration `yaml:"timeout"  env:"FETCH_TIMEOUT, overwrite"`
}

type Config struct {
	Output                    Output      `yaml:"output"        env:"OUTPUT, overwrite"`
	Colour                    *bool       `yaml:"colour"`
	Parallelism               int         `yaml:"parallelism"   env:"PARALLELISM, overwrite"`
	FailOnWarning             bool        `yaml:"failOnWarning" env:"FAIL_ON_WARNING, overwrite"`
	Fetch                     FetchConfig `yaml:"fetch"`
	AdditionalStandardHeaders []string    `yaml:"additionalStandardHeaders"`
}

// Default returns the configuration used when no file or environment
// overrides are present.
func Default() *Config {
	return &Config{
		Output: OutputText,
		Fetch: FetchConfig{
			Attempts: 3,
			Delay:    500 * time.Millisecond,
			Timeout:  30 * time.Second,
		},
	}
}

// UseColour reports whether text output may be coloured.
func (c *Config) UseColour() bool {
	return c.Colour == nil || *c.Colour
}

// New reads the configuration file at path, applies environment overrides
// found through lookuper and validates the result. When path is empty,
// ConfigFile is read from the working directory if it exists.
func New(ctx context.Context, path string, lookuper envconfig.Lookuper) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = ConfigFile
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err = yaml.Unmarshal(data, cfg); err != nil {
			return nil, &InvalidYAMLError{Path: path, Wrapped: err}
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	case errors.Is(err, os.ErrNotExist):
		return nil, &MissingConfigError{Path: path}
	default:
		return nil, err
	}

	if lookuper != nil {
		err = envconfig.ProcessWith(ctx, &envconfig.Config{
			Target:   cfg,
			Lookuper: envconfig.PrefixLookuper(EnvPrefix, lookuper),
		})
		if err != nil {
			return nil, &InvalidEnvironmentError{Wrapped: err}
		}
	}

	if err = cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Output {
	case "":
		c.Output = OutputText
	case OutputText, OutputJSON:
	default:
		return &InvalidPropertyError{
			Property: "output",
			Value:    string(c.Output),
			Reason:   fmt.Sprintf("must be %q or %q", OutputText, OutputJSON),
		}
	}

	if c.Parallelism < 0 {
		return &InvalidPropertyError{
			Property: "parallelism",
			Value:    fmt.Sprint(c.Parallelism),
			Reason:   "must not be negative",
		}
	}

	if c.Fetch.Attempts == 0 {
		return &InvalidPropertyError{Property: "fetch.attempts", Value: "0", Reason: "must be at least 1"}
	}
	if c.Fetch.Delay < 0 {
		return &InvalidPropertyError{
			Property: "fetch.delay",
			Value:    c.Fetch.Delay.String(),
			Reason:   "must not be negative",
		}
	}
	if c.Fetch.Timeout <= 0 {
		return &InvalidPropertyError{
			Property: "fetch.timeout",
			Value:    c.Fetch.Timeout.String(),
			Reason:   "must be positive",
		}
	}

	for i, h := range c.AdditionalStandardHeaders {
		if h == "" {
			return &MissingPropertyError{Property: fmt.Sprintf("additionalStandardHeaders[%d]", i)}
		}
	}
	return nil
}
