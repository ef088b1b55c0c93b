package options

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/pflag"
)

func writeConfig(t *testing.T, yaml string) string {
	t.Helper()
	if yaml == "" {
		return ""
	}
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func clientFlags(configPath string) *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("base-url", DefaultBaseURL, "")
	fs.String("token", "", "")
	fs.Duration("timeout", 2*time.Minute, "")
	fs.String("mode", "", "")
	fs.String("ui", "", "")
	fs.String("log-file", "", "")
	fs.String("config", "", "")
	fs.Bool("verbose", false, "")
	fs.Bool("debug", false, "")
	if configPath != "" {
		fs.Set("config", configPath)
	}
	return fs
}

func TestLoadConfig(t *testing.T) {
	def := Config{BaseURL: DefaultBaseURL, Timeout: 2 * time.Minute}
	tests := []struct {
		name       string
		configYAML string
		env        map[string]string
		flags      []string
		want       func(Config) Config
	}{
		{
			name: "defaults",
			want: func(c Config) Config { return c },
		},
		{
			name:  "flags",
			flags: []string{"--base-url=http://example.test", "--token=abc", "--mode=commands", "--ui=readline", "--timeout=5s"},
			want: func(c Config) Config {
				c.BaseURL, c.Token, c.Mode, c.UI, c.Timeout = "http://example.test", "abc", "commands", "readline", 5*time.Second
				return c
			},
		},
		{
			name: "env",
			env:  map[string]string{"SLASHCHAT_TOKEN": "from-env", "SLASHCHAT_BASE_URL": "http://env.test"},
			want: func(c Config) Config {
				c.Token, c.BaseURL = "from-env", "http://env.test"
				return c
			},
		},
		{
			name:       "config file",
			configYAML: "baseURL: http://file.test\ntoken: from-file\nlogFile: /tmp/slashchat.log\n",
			want: func(c Config) Config {
				c.BaseURL, c.Token, c.LogFile = "http://file.test", "from-file", "/tmp/slashchat.log"
				return c
			},
		},
		{
			name:       "flag beats env beats file",
			configYAML: "token: from-file\nmode: file\n",
			env:        map[string]string{"SLASHCHAT_TOKEN": "from-env", "SLASHCHAT_MODE": "send-email"},
			flags:      []string{"--token=from-flag"},
			want: func(c Config) Config {
				c.Token, c.Mode = "from-flag", "send-email"
				return c
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			fs := clientFlags(writeConfig(t, tt.configYAML))
			if err := fs.Parse(tt.flags); err != nil {
				t.Fatal(err)
			}
			var stderr bytes.Buffer
			cfg, err := LoadConfig(&stderr, fs)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tt.want(def), *cfg); diff != "" {
				t.Errorf("Config mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoadConfigRejectsUnknownUI(t *testing.T) {
	fs := clientFlags("")
	if err := fs.Parse([]string{"--ui=gui"}); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(nil, fs); err == nil {
		t.Error("LoadConfig accepted --ui=gui")
	}
}

func TestLoadServerConfigDefaultModel(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "")

	def := ServerConfig{Addr: ":8000", MaxUploadBytes: 20 << 20, Verbose: true}
	tests := []struct {
		name, configYAML string
		env              map[string]string
		flags            []string
		want             func(ServerConfig) ServerConfig
		wantLogs         string
	}{
		{
			name: "default backend uses its default model",
			want: func(c ServerConfig) ServerConfig {
				c.Backend, c.Model = "dummy", "dummy"
				return c
			},
			wantLogs: "slashchat: using default model for dummy backend: dummy",
		},
		{
			name:  "flag backend with explicit model",
			flags: []string{"--backend=ollama", "--model=llama3.1"},
			want: func(c ServerConfig) ServerConfig {
				c.Backend, c.Model = "ollama", "llama3.1"
				return c
			},
		},
		{
			name:  "env model preserved",
			flags: []string{"--backend=openai"},
			env:   map[string]string{"SLASHCHAT_MODEL": "gpt-4o-mini"},
			want: func(c ServerConfig) ServerConfig {
				c.Backend, c.Model = "openai", "gpt-4o-mini"
				return c
			},
		},
		{
			name:       "config backend uses its default model",
			configYAML: "backend: anthropic\ntoken: s3cret\n",
			want: func(c ServerConfig) ServerConfig {
				c.Backend, c.Model, c.Token = "anthropic", DefaultModels["anthropic"], "s3cret"
				return c
			},
			wantLogs: "slashchat: using default model for anthropic backend",
		},
		{
			name:  "provider key from environment",
			flags: []string{"--backend=openai"},
			env:   map[string]string{"OPENAI_API_KEY": "sk-test"},
			want: func(c ServerConfig) ServerConfig {
				c.Backend, c.Model, c.OpenAIAPIKey = "openai", "gpt-4o", "sk-test"
				return c
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
			fs.String("addr", ":8000", "")
			fs.String("backend", DefaultBackend, "")
			fs.String("model", "", "")
			fs.String("token", "", "")
			fs.Int64("max-upload-bytes", 20<<20, "")
			fs.String("config", "", "")
			fs.Bool("verbose", true, "")
			if p := writeConfig(t, tt.configYAML); p != "" {
				fs.Set("config", p)
			}
			if err := fs.Parse(tt.flags); err != nil {
				t.Fatal(err)
			}

			var stderr bytes.Buffer
			cfg, err := LoadServerConfig(&stderr, fs)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tt.want(def), *cfg); diff != "" {
				t.Errorf("ServerConfig mismatch (-want +got):\n%s", diff)
			}
			if tt.wantLogs != "" && !strings.Contains(stderr.String(), tt.wantLogs) {
				t.Errorf("Logs = %q, want to contain %q", stderr.String(), tt.wantLogs)
			}
		})
	}
}
