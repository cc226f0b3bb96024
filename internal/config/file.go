package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// fileConfig mirrors config.toml. Every field is optional.
type fileConfig struct {
	DataDir         string         `toml:"data_dir,omitempty"`
	LogLevel        string         `toml:"log_level,omitempty"`
	KeyBackend      string         `toml:"key_backend,omitempty"`
	CipherAlgorithm string         `toml:"cipher_algorithm,omitempty"`
	Keyring         keyringSection `toml:"keyring"`
	Keeper          keeperSection  `toml:"keeper"`
	Metrics         metricsSection `toml:"metrics"`
	OpenAI          openAISection  `toml:"openai"`
}

type keyringSection struct {
	Service  string   `toml:"service,omitempty"`
	Account  string   `toml:"account,omitempty"`
	Backends []string `toml:"backends,omitempty"`
	FileDir  string   `toml:"file_dir,omitempty"`
}

type keeperSection struct {
	KeyURI  string `toml:"key_uri,omitempty"`
	KeyFile string `toml:"key_file,omitempty"`
}

type metricsSection struct {
	Enabled   *bool  `toml:"enabled,omitempty"`
	Namespace string `toml:"namespace,omitempty"`
}

type openAISection struct {
	APIKey   string `toml:"api_key,omitempty"`
	Model    string `toml:"model,omitempty"`
	Endpoint string `toml:"endpoint,omitempty"`
}

func readFile(path string) (*fileConfig, error) {
	var fc fileConfig
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &fc, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return &fc, nil
	}

	md, err := toml.Decode(string(data), &fc)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return nil, fmt.Errorf("unknown keys in config file %s: %s", path, strings.Join(keys, ", "))
	}
	return &fc, nil
}

// WriteDefault writes a starter config.toml at path unless a file is already
// there. It reports whether a file was created.
func WriteDefault(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("failed to stat config file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return false, fmt.Errorf("failed to create config dir: %w", err)
	}

	enabled := false
	fc := fileConfig{
		DataDir:         DefaultDataDir(),
		LogLevel:        "info",
		KeyBackend:      KeyBackendKeyring,
		CipherAlgorithm: "aes-gcm",
		Keyring: keyringSection{
			Service: defaultKeyringService,
			Account: defaultKeyringAccount,
		},
		Metrics: metricsSection{Enabled: &enabled, Namespace: "frodo"},
		OpenAI:  openAISection{Model: defaultOpenAIModel},
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if errors.Is(err, fs.ErrExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to create config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := toml.NewEncoder(f).Encode(fc); err != nil {
		return false, fmt.Errorf("failed to write config file: %w", err)
	}
	return true, nil
}

// Encode writes the effective configuration as TOML. Passwords, API keys and
// inline keeper keys are redacted.
func (c *Config) Encode(w io.Writer) error {
	enabled := c.MetricsEnabled
	fc := fileConfig{
		DataDir:         c.DataDir,
		LogLevel:        c.LogLevel,
		KeyBackend:      c.KeyBackend,
		CipherAlgorithm: c.CipherAlgorithm,
		Keyring: keyringSection{
			Service:  c.KeyringService,
			Account:  c.KeyringAccount,
			Backends: c.KeyringBackends,
			FileDir:  c.KeyringFileDir,
		},
		Keeper: keeperSection{
			KeyURI:  redactKeyURI(c.KMSKeyURI),
			KeyFile: c.KeeperKeyFile,
		},
		Metrics: metricsSection{Enabled: &enabled, Namespace: c.MetricsNamespace},
		OpenAI: openAISection{
			APIKey:   redact(c.OpenAI.APIKey),
			Model:    c.OpenAI.Model,
			Endpoint: c.OpenAI.Endpoint,
		},
	}
	return toml.NewEncoder(w).Encode(fc)
}

const redacted = "[REDACTED]"

func redact(s string) string {
	if s == "" {
		return ""
	}
	return redacted
}

// redactKeyURI hides key material embedded in base64key:// URLs.
func redactKeyURI(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return redact(uri)
	}
	if u.Scheme == "base64key" {
		return "base64key://" + redacted
	}
	return uri
}
