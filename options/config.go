// Package options provides configuration management for slashchat and its
// reference backend.
package options

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by viper.
const EnvPrefix = "SLASHCHAT"

// DefaultBaseURL is the backend root used when none is configured.
var DefaultBaseURL = "http://localhost:8000"

// DefaultBackend is the generation backend of the reference server.
var DefaultBackend = "dummy" // Configurable via SLASHCHAT_BACKEND or the config file.

// DefaultModels is a map of backend names to their default models
var DefaultModels = map[string]string{
	"anthropic": "claude-3-7-sonnet-20250219",
	"openai":    "gpt-4o",
	"ollama":    "llama3.2",
	"googleai":  "gemini-pro",
	"dummy":     "dummy",
}

// UI values.
const (
	UITUI      = "tui"
	UIReadline = "readline"
)

// Config holds the configuration for the slashchat client.
type Config struct {
	BaseURL string        `yaml:"baseURL"`
	Token   string        `yaml:"token"`
	Timeout time.Duration `yaml:"timeout"`

	// Mode is the id of the mode active at startup. Empty means none.
	Mode string `yaml:"mode"`
	// UI selects the interactive surface: "tui" or "readline". Empty picks
	// the TUI when stdout is a terminal.
	UI string `yaml:"ui"`

	LogFile string `yaml:"logFile"`
	Verbose bool   `yaml:"verbose"`
	Debug   bool   `yaml:"debug"`
}

// ServerConfig holds the configuration for the reference backend.
type ServerConfig struct {
	Addr           string `yaml:"addr"`
	Backend        string `yaml:"backend"`
	Model          string `yaml:"model"`
	Token          string `yaml:"token"`
	MaxUploadBytes int64  `yaml:"maxUploadBytes"`

	// SlowResponses makes the dummy backend pause between words.
	SlowResponses bool `yaml:"slowResponses"`

	Verbose bool `yaml:"verbose"`
	Debug   bool `yaml:"debug"`

	OpenAIAPIKey    string `yaml:"openaiAPIKey"`
	AnthropicAPIKey string `yaml:"anthropicAPIKey"`
	GoogleAPIKey    string `yaml:"googleAPIKey"`
}

// LoadConfig loads the client configuration. Precedence, highest first:
// command-line flags, SLASHCHAT_* environment variables, the config file,
// defaults.
func LoadConfig(stderr io.Writer, flagSet *pflag.FlagSet) (*Config, error) {
	v, err := load(stderr, flagSet, func(v *viper.Viper) {
		v.SetDefault("baseURL", DefaultBaseURL)
		v.SetDefault("timeout", 2*time.Minute)
		v.BindEnv("baseURL", EnvPrefix+"_BASE_URL", EnvPrefix+"_BASEURL")
		v.BindEnv("logFile", EnvPrefix+"_LOG_FILE", EnvPrefix+"_LOGFILE")
		for _, key := range []string{"token", "mode", "ui", "verbose", "debug"} {
			v.BindEnv(key)
		}
	})
	if err != nil {
		return nil, err
	}
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the values that have a closed set.
func (c *Config) Validate() error {
	switch c.UI {
	case "", UITUI, UIReadline:
	default:
		return fmt.Errorf("invalid ui %q: want %q or %q", c.UI, UITUI, UIReadline)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("invalid timeout %v", c.Timeout)
	}
	return nil
}

// LoadServerConfig loads the reference backend configuration with the same
// precedence as LoadConfig. When no model is set anywhere the backend's
// default model is used.
func LoadServerConfig(stderr io.Writer, flagSet *pflag.FlagSet) (*ServerConfig, error) {
	v, err := load(stderr, flagSet, func(v *viper.Viper) {
		v.SetDefault("addr", ":8000")
		v.SetDefault("backend", DefaultBackend)
		v.SetDefault("maxUploadBytes", 20<<20)
		v.BindEnv("openaiAPIKey", "OPENAI_API_KEY")
		v.BindEnv("anthropicAPIKey", "ANTHROPIC_API_KEY")
		v.BindEnv("googleAPIKey", "GOOGLE_API_KEY")
		v.BindEnv("maxUploadBytes", EnvPrefix+"_MAX_UPLOAD_BYTES", EnvPrefix+"_MAXUPLOADBYTES")
		for _, key := range []string{"addr", "token", "model", "slowResponses", "verbose", "debug"} {
			v.BindEnv(key)
		}
	})
	if err != nil {
		return nil, err
	}

	backend := v.GetString("backend")
	hasModel := false
	if f := flagSet.Lookup("model"); f != nil && f.Changed {
		hasModel = true
	} else if IsEnvSet(EnvPrefix + "_MODEL") {
		hasModel = true
		v.Set("model", os.Getenv(EnvPrefix+"_MODEL"))
	} else if v.InConfig("model") {
		hasModel = true
	}
	if !hasModel {
		if defaultModel, ok := DefaultModels[backend]; ok {
			v.Set("model", defaultModel)
			if verbose, _ := flagSet.GetBool("verbose"); verbose {
				fmt.Fprintf(stderr, "slashchat: using default model for %s backend: %s\n", backend, defaultModel)
			}
		}
	}

	cfg := &ServerConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to unmarshal config: %w", err)
	}
	if cfg.MaxUploadBytes <= 0 {
		return nil, fmt.Errorf("invalid maxUploadBytes %d", cfg.MaxUploadBytes)
	}
	return cfg, nil
}

func load(stderr io.Writer, flagSet *pflag.FlagSet, defaults func(*viper.Viper)) (*viper.Viper, error) {
	if flagSet == nil {
		flagSet = pflag.CommandLine
	}
	if stderr == nil {
		stderr = io.Discard
	}
	v := viper.New()
	SetupViper(v, flagSet)
	defaults(v)
	SetupFlagNormalization(flagSet)

	// Read config file first
	if err := HandleConfigFile(v, stderr, flagSet); err != nil {
		return nil, err
	}
	// Then bind flags (so they override config)
	if err := v.BindPFlags(flagSet); err != nil {
		return nil, fmt.Errorf("unable to bind flags: %w", err)
	}
	return v, nil
}

// IsEnvSet checks if an environment variable is set
func IsEnvSet(key string) bool {
	_, exists := os.LookupEnv(key)
	return exists
}

// SetupViper configures viper with config paths and environment binding.
func SetupViper(v *viper.Viper, flagSet *pflag.FlagSet) {
	v.AddConfigPath("/etc/slashchat/")
	v.AddConfigPath("$HOME/.slashchat")
	v.AddConfigPath(".")
	v.SetConfigName("config")

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if f := flagSet.Lookup("config"); f != nil && f.Changed {
		v.SetConfigFile(f.Value.String())
	}
}

// SetupFlagNormalization configures flag normalization to handle dashes in flag names
func SetupFlagNormalization(flagSet *pflag.FlagSet) {
	normalizeFunc := flagSet.GetNormalizeFunc()
	flagSet.SetNormalizeFunc(func(fs *pflag.FlagSet, name string) pflag.NormalizedName {
		result := normalizeFunc(fs, name)
		name = strings.ReplaceAll(string(result), "-", "")
		return pflag.NormalizedName(name)
	})
}

// HandleConfigFile handles loading the configuration file
func HandleConfigFile(v *viper.Viper, stderr io.Writer, flagSet *pflag.FlagSet) error {
	verbose, _ := flagSet.GetBool("verbose")
	if configFlag := flagSet.Lookup("config"); configFlag != nil && configFlag.Changed {
		configFile := configFlag.Value.String()
		if verbose {
			fmt.Fprintf(stderr, "slashchat: trying to read config file: %s\n", configFile)
		}
		if _, err := os.Stat(configFile); err != nil {
			if verbose {
				fmt.Fprintf(stderr, "slashchat: config file %s not accessible: %v\n", configFile, err)
			}
			return nil
		}
		v.SetConfigFile(configFile)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			if debug, _ := flagSet.GetBool("debug"); debug {
				fmt.Fprintln(stderr, "slashchat: config file not found, using defaults")
			}
			return nil
		}
		return fmt.Errorf("unable to read config file: %w", err)
	}

	if verbose {
		fmt.Fprintf(stderr, "slashchat: successfully read config from %s\n", v.ConfigFileUsed())
	}
	return nil
}
