package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validConfig() Config {
	return Config{
		ServerPort:      8280,
		JWTSecret:       "secret",
		MaxUploadSize:   DefaultMaxUploadSize,
		ArtifactBackend: ArtifactBackendLocal,
		ArtifactRoot:    "uploads",

		ArtifactSweepGrace: 60,
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		modify    func(c *Config)
		wantError bool
	}{
		{name: "valid local config", modify: func(c *Config) {}},
		{name: "missing port", modify: func(c *Config) { c.ServerPort = 0 }, wantError: true},
		{name: "missing jwt secret", modify: func(c *Config) { c.JWTSecret = "" }, wantError: true},
		{name: "zero upload size", modify: func(c *Config) { c.MaxUploadSize = 0 }, wantError: true},
		{name: "zero sweep grace", modify: func(c *Config) { c.ArtifactSweepGrace = 0 }, wantError: true},
		{name: "negative sweep grace", modify: func(c *Config) { c.ArtifactSweepGrace = -5 }, wantError: true},
		{
			name:   "minimum sweep grace",
			modify: func(c *Config) { c.ArtifactSweepGrace = MinArtifactSweepGraceMinutes },
		},
		{name: "local without root", modify: func(c *Config) { c.ArtifactRoot = "" }, wantError: true},
		{
			name: "minio without endpoint",
			modify: func(c *Config) {
				c.ArtifactBackend = ArtifactBackendMinio
				c.MinioBucket = "roms"
			},
			wantError: true,
		},
		{
			name: "valid minio config",
			modify: func(c *Config) {
				c.ArtifactBackend = ArtifactBackendMinio
				c.MinioEndpoint = "localhost:9000"
				c.MinioBucket = "roms"
			},
		},
		{name: "unknown backend", modify: func(c *Config) { c.ArtifactBackend = "ftp" }, wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.modify(&cfg)

			err := Validate(cfg)
			if tt.wantError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
