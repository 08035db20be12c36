package config

import (
	"os"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestConfig_ValidateSSLMode(t *testing.T) {
	tests := []struct {
		name        string
		env         string
		sslMode     string
		expectError bool
	}{
		{"Production with empty SSL mode", "production", "", true},
		{"Production with disable SSL mode", "production", "disable", true},
		{"Production with require SSL mode", "production", "require", false},
		{"Prod with verify-full SSL mode", "prod", "verify-full", false},
		{"Development with disable SSL mode", "development", "disable", false},
		{"Test with empty SSL mode", "test", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Config{
				Env:                  tt.env,
				DBSSLMode:            tt.sslMode,
				JWTSecret:            "secure-secret-at-least-32-chars-long",
				DBPassword:           "secure-password",
				Port:                 "8080",
				MediaMaxUploadSizeMB: 10,
			}

			err := c.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_ValidateRequiredFields(t *testing.T) {
	c := &Config{JWTSecret: "x", MediaMaxUploadSizeMB: 10}
	assert.Error(t, c.Validate(), "missing port must be rejected")

	c = &Config{Port: "8080", MediaMaxUploadSizeMB: 10}
	assert.Error(t, c.Validate(), "missing JWT secret must be rejected")

	c = &Config{Port: "8080", JWTSecret: "secret", MediaMaxUploadSizeMB: 0}
	assert.Error(t, c.Validate(), "non-positive upload limit must be rejected")
}

func TestLoadConfig_Defaults(t *testing.T) {
	defer os.Unsetenv("APP_ENV")
	defer viper.Reset()

	os.Setenv("APP_ENV", "development")

	c, err := LoadConfig()
	assert.NoError(t, err)
	assert.Equal(t, "/static/img/default.png", c.DefaultImageURL)
	assert.Equal(t, "dome.tu.ac.th", c.EligibleEmailDomain)
	assert.Equal(t, 10, c.MediaMaxUploadSizeMB)
}

func TestLoadConfig_SSLModeNormalization(t *testing.T) {
	defer os.Unsetenv("APP_ENV")
	defer os.Unsetenv("DB_SSLMODE")
	defer viper.Reset()

	os.Setenv("APP_ENV", "development")
	os.Setenv("DB_SSLMODE", "  DISABLE  ")

	c, err := LoadConfig()
	assert.NoError(t, err)
	assert.Equal(t, "disable", c.DBSSLMode)
}
