// Package config provides application configuration.
//
// Values are layered, later layers winning: built-in defaults, the TOML file
// at $XDG_CONFIG_HOME/frodo/config.toml, a .env file found from the working
// directory upwards, and finally the process environment.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/allisson/go-env"
	"github.com/joho/godotenv"
)

// Key backends.
const (
	KeyBackendKeyring = "keyring"
	KeyBackendKeeper  = "keeper"
	KeyBackendMemory  = "memory"
)

const (
	defaultKeyringService = "frodo-cli"
	defaultKeyringAccount = "data-key"
	defaultOpenAIModel    = "gpt-4o-mini"
)

// Config holds all application configuration.
type Config struct {
	// ConfigFile is the TOML file the configuration was read from. It may not
	// exist.
	ConfigFile string

	// DataDir is the root of the encrypted store.
	DataDir string

	// LogLevel is the logging level (e.g., "debug", "info", "warn", "error").
	LogLevel string

	// KeyBackend selects the key provider: "keyring", "keeper" or "memory".
	KeyBackend string

	// KeyringService and KeyringAccount identify the OS secret store entry.
	KeyringService string
	KeyringAccount string
	// KeyringBackends restricts the keyring backends tried.
	KeyringBackends []string
	// KeyringFileDir and KeyringFilePassword configure the encrypted-file
	// keyring backend used when no OS secret store is available.
	KeyringFileDir      string
	KeyringFilePassword string

	// KMSKeyURI is the gocloud keeper URL wrapping the data key for the
	// "keeper" backend.
	KMSKeyURI string
	// KeeperKeyFile is where the wrapped data key is stored.
	KeeperKeyFile string

	// CipherAlgorithm is the AEAD used for new blobs.
	CipherAlgorithm string

	// MetricsEnabled indicates whether metrics collection is enabled.
	MetricsEnabled bool
	// MetricsNamespace is the namespace for the application metrics.
	MetricsNamespace string

	// LockTimeout bounds waits for the key creation and task write locks.
	LockTimeout time.Duration

	// OpenAI is read from the file and passed through to the agent wrapper.
	OpenAI OpenAIConfig
}

// OpenAIConfig configures the chat-completion agent.
type OpenAIConfig struct {
	APIKey   string
	Model    string
	Endpoint string
}

// TasksLockFile returns the lock file serialising task collection writes.
func (c *Config) TasksLockFile() string {
	return filepath.Join(c.DataDir, ".tasks.lock")
}

// KeyringLockFile returns the lock file held while creating the keyring data
// key. The keyring entry is shared by every data dir, so the path depends only
// on the service and account.
func (c *Config) KeyringLockFile() string {
	name := "keyring-" + lockName(c.KeyringService) + "-" + lockName(c.KeyringAccount) + ".lock"
	return filepath.Join(xdg.StateHome, "frodo", name)
}

// lockName maps s to a file name fragment, replacing anything outside
// [A-Za-z0-9._] with '_'. '-' is mapped too since it joins the fragments.
func lockName(s string) string {
	if s == "" {
		return "_"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '_':
			return r
		default:
			return '_'
		}
	}, s)
}

// DefaultFilePath returns the TOML file location, honouring FRODO_CONFIG.
func DefaultFilePath() string {
	if path := os.Getenv("FRODO_CONFIG"); path != "" {
		return path
	}
	return filepath.Join(xdg.ConfigHome, "frodo", "config.toml")
}

// DefaultDataDir returns $XDG_DATA_HOME/frodo.
func DefaultDataDir() string {
	return filepath.Join(xdg.DataHome, "frodo")
}

// Load loads configuration from DefaultFilePath, .env and the environment.
func Load() (*Config, error) {
	return LoadFile(DefaultFilePath())
}

// LoadFile loads configuration using path as the TOML layer. A missing or
// empty file contributes nothing.
func LoadFile(path string) (*Config, error) {
	// Try to load .env file recursively
	loadDotEnv()

	file, err := readFile(path)
	if err != nil {
		return nil, err
	}

	metricsEnabled := false
	if file.Metrics.Enabled != nil {
		metricsEnabled = *file.Metrics.Enabled
	}

	cfg := &Config{
		ConfigFile: path,

		DataDir:  env.GetString("FRODO_DATA_DIR", orDefault(file.DataDir, DefaultDataDir())),
		LogLevel: env.GetString("LOG_LEVEL", orDefault(file.LogLevel, "info")),

		KeyBackend: env.GetString("KEY_BACKEND", orDefault(file.KeyBackend, KeyBackendKeyring)),

		KeyringService: env.GetString("KEYRING_SERVICE", orDefault(file.Keyring.Service, defaultKeyringService)),
		KeyringAccount: env.GetString("KEYRING_ACCOUNT", orDefault(file.Keyring.Account, defaultKeyringAccount)),
		KeyringBackends: splitList(
			env.GetString("KEYRING_BACKENDS", strings.Join(file.Keyring.Backends, ",")),
		),
		KeyringFileDir:      env.GetString("KEYRING_FILE_DIR", file.Keyring.FileDir),
		KeyringFilePassword: env.GetString("KEYRING_FILE_PASSWORD", ""),

		KMSKeyURI:     env.GetString("KMS_KEY_URI", file.Keeper.KeyURI),
		KeeperKeyFile: env.GetString("KEEPER_KEY_FILE", file.Keeper.KeyFile),

		CipherAlgorithm: env.GetString("CIPHER_ALGORITHM", orDefault(file.CipherAlgorithm, "aes-gcm")),

		MetricsEnabled:   env.GetBool("METRICS_ENABLED", metricsEnabled),
		MetricsNamespace: env.GetString("METRICS_NAMESPACE", orDefault(file.Metrics.Namespace, "frodo")),

		LockTimeout: env.GetDuration("LOCK_TIMEOUT_SECONDS", 10, time.Second),

		OpenAI: OpenAIConfig{
			APIKey: orDefault(
				file.OpenAI.APIKey,
				env.GetString("FRODO_OPENAI_API_KEY", env.GetString("OPENAI_API_KEY", "")),
			),
			Model:    orDefault(file.OpenAI.Model, defaultOpenAIModel),
			Endpoint: file.OpenAI.Endpoint,
		},
	}

	if cfg.KeyringFileDir == "" {
		cfg.KeyringFileDir = filepath.Join(cfg.DataDir, ".keyring")
	}
	if cfg.KeeperKeyFile == "" {
		cfg.KeeperKeyFile = filepath.Join(cfg.DataDir, ".data.key")
	}

	return cfg, nil
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// loadDotEnv searches for a .env file recursively from the current directory
// up to the root directory and loads it if found.
func loadDotEnv() {
	cwd, err := os.Getwd()
	if err != nil {
		return
	}

	dir := cwd
	for {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			_ = godotenv.Load(envPath)
			return
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
}
