package config

import (
	"regexp"
	"time"

	validation "github.com/jellydator/validation"

	customValidation "github.com/allisson/frodo/internal/validation"
)

var metricsNamespaceRegex = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Validate checks the configuration for unusable values.
func (c *Config) Validate() error {
	err := validation.ValidateStruct(c,
		validation.Field(&c.DataDir, validation.Required),
		validation.Field(&c.LogLevel, validation.In("debug", "info", "warn", "error")),
		validation.Field(&c.KeyBackend,
			validation.Required,
			validation.In(KeyBackendKeyring, KeyBackendKeeper, KeyBackendMemory),
		),
		validation.Field(&c.KeyringService,
			validation.When(c.KeyBackend == KeyBackendKeyring, validation.Required, customValidation.NotBlank),
		),
		validation.Field(&c.KeyringAccount,
			validation.When(c.KeyBackend == KeyBackendKeyring, validation.Required, customValidation.NotBlank),
		),
		validation.Field(&c.KMSKeyURI,
			validation.When(c.KeyBackend == KeyBackendKeeper, validation.Required),
			customValidation.KeeperURI,
		),
		validation.Field(&c.KeeperKeyFile,
			validation.When(c.KeyBackend == KeyBackendKeeper, validation.Required),
		),
		validation.Field(&c.CipherAlgorithm, validation.In("aes-gcm", "chacha20-poly1305")),
		validation.Field(&c.MetricsNamespace,
			validation.When(c.MetricsEnabled, validation.Required),
			validation.Match(metricsNamespaceRegex),
		),
		validation.Field(&c.LockTimeout, validation.Min(100*time.Millisecond)),
	)
	return customValidation.WrapValidationError(err)
}
