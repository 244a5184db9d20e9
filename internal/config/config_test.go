package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validProductionConfig() *Config {
	return &Config{
		Port:       "8460",
		JWTSecret:  "a-long-production-secret-of-32-chars!",
		DBPassword: "s3cure-db-password",
		DBSSLMode:  "require",
		Env:        "production",
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid production config",
			mutate: func(_ *Config) {},
		},
		{
			name:    "missing port",
			mutate:  func(c *Config) { c.Port = "" },
			wantErr: "PORT is required",
		},
		{
			name:    "missing jwt secret",
			mutate:  func(c *Config) { c.JWTSecret = "" },
			wantErr: "JWT_SECRET is required",
		},
		{
			name:    "default jwt secret in production",
			mutate:  func(c *Config) { c.JWTSecret = "your-secret-key-change-in-production" },
			wantErr: "must be changed from the default",
		},
		{
			name:    "short jwt secret in production",
			mutate:  func(c *Config) { c.JWTSecret = "short-secret" },
			wantErr: "at least 32 characters",
		},
		{
			name:    "default db password in production",
			mutate:  func(c *Config) { c.DBPassword = "password" },
			wantErr: "strong DB_PASSWORD",
		},
		{
			name:    "prod alias enforces the same rules",
			mutate:  func(c *Config) { c.Env = "prod"; c.DBPassword = "" },
			wantErr: "strong DB_PASSWORD",
		},
		{
			name: "development tolerates weak values",
			mutate: func(c *Config) {
				c.Env = "development"
				c.JWTSecret = "dev-secret"
				c.DBPassword = "password"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validProductionConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}
