package config

import "time"

// StorageConfig contains document vault configuration.
type StorageConfig struct {
	// SigningKey signs time-limited document download URLs.
	// Required outside development.
	SigningKey string `env:"SIGNING_KEY" envDefault:""`

	// SignedURLTTL is how long a signed document URL stays valid.
	SignedURLTTL time.Duration `env:"SIGNED_URL_TTL" envDefault:"10m"`

	// MaxUploadBytes caps a single document upload.
	MaxUploadBytes int64 `env:"MAX_UPLOAD_BYTES" envDefault:"10485760"`
}

// Sanitize applies guardrails to storage configuration values.
func (s *StorageConfig) Sanitize() {
	if s.SignedURLTTL <= 0 {
		s.SignedURLTTL = 10 * time.Minute
	}
	if s.MaxUploadBytes <= 0 {
		s.MaxUploadBytes = 10 << 20
	}
}
