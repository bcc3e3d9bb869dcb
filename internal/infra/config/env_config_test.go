package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	. "github.com/mkrupp/smart-interviewer/internal/infra/config"
)

type testConfig struct {
	EnvConfig

	StringValue   string        `env:"STRING_VALUE" envDefault:"default"`
	IntValue      int           `env:"INT_VALUE" envDefault:"42"`
	BoolValue     bool          `env:"BOOL_VALUE" envDefault:"true"`
	DurationValue time.Duration `env:"DURATION_VALUE" envDefault:"1s"`
	NoEnvTag      string
	Nested        testNestedConfig `envPrefix:"NESTED_"`
}

type testNestedConfig struct {
	NestedString string `env:"STRING" envDefault:"nested-default"`
}

type requiredConfig struct {
	EnvConfig

	Secret string `env:"SECRET,required,notEmpty"`
}

//nolint:paralleltest
func TestParse(t *testing.T) {
	defaults := testConfig{
		StringValue:   "default",
		IntValue:      42,
		BoolValue:     true,
		DurationValue: time.Second,
		Nested:        testNestedConfig{NestedString: "nested-default"},
	}

	tests := []struct {
		name    string
		prefix  string
		envVars map[string]string
		want    func(c testConfig) testConfig
		wantErr bool
	}{
		{
			name:   "uses default values when env vars not set",
			prefix: "",
			want:   func(c testConfig) testConfig { return c },
		},
		{
			name:   "reads environment variables",
			prefix: "",
			envVars: map[string]string{
				"STRING_VALUE":   "env-value",
				"INT_VALUE":      "123",
				"BOOL_VALUE":     "false",
				"DURATION_VALUE": "2m",
				"NESTED_STRING":  "env-nested",
			},
			want: func(c testConfig) testConfig {
				c.StringValue = "env-value"
				c.IntValue = 123
				c.BoolValue = false
				c.DurationValue = 2 * time.Minute
				c.Nested.NestedString = "env-nested"

				return c
			},
		},
		{
			name:   "handles prefix correctly",
			prefix: "APP",
			envVars: map[string]string{
				"APP_STRING_VALUE": "prefixed-value",
			},
			want: func(c testConfig) testConfig {
				c.StringValue = "prefixed-value"

				return c
			},
		},
		{
			name:   "ignores unprefixed variables when namespaced",
			prefix: "APP",
			envVars: map[string]string{
				"STRING_VALUE": "unprefixed",
			},
			want: func(c testConfig) testConfig { return c },
		},
		{
			name:   "fails on invalid int value",
			prefix: "",
			envVars: map[string]string{
				"INT_VALUE": "not-a-number",
			},
			wantErr: true,
		},
		{
			name:   "fails on invalid bool value",
			prefix: "",
			envVars: map[string]string{
				"BOOL_VALUE": "not-a-bool",
			},
			wantErr: true,
		},
		{
			name:   "handles multi-level prefixes",
			prefix: "APP_SERVICE",
			envVars: map[string]string{
				"APP_SERVICE_STRING_VALUE": "multi-level-prefix",
			},
			want: func(c testConfig) testConfig {
				c.StringValue = "multi-level-prefix"

				return c
			},
		},
		{
			name:   "prefers more specific prefix",
			prefix: "APP_SERVICE",
			envVars: map[string]string{
				"APP_STRING_VALUE":         "less-specific",
				"APP_SERVICE_STRING_VALUE": "more-specific",
				"APP_INT_VALUE":            "7",
			},
			want: func(c testConfig) testConfig {
				c.StringValue = "more-specific"
				c.IntValue = 7

				return c
			},
		},
		{
			name:   "handles zero int values",
			prefix: "",
			envVars: map[string]string{
				"INT_VALUE": "0",
			},
			want: func(c testConfig) testConfig {
				c.IntValue = 0

				return c
			},
		},
	}

	ctx := context.Background()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			cfg := &testConfig{}
			err := Parse(ctx, cfg, tt.prefix)

			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse() error = %v, wantErr %v", err, tt.wantErr)
			}

			if tt.wantErr {
				return
			}

			want := tt.want(defaults)

			if cfg.StringValue != want.StringValue {
				t.Errorf("StringValue = %v, want %v", cfg.StringValue, want.StringValue)
			}
			if cfg.IntValue != want.IntValue {
				t.Errorf("IntValue = %v, want %v", cfg.IntValue, want.IntValue)
			}
			if cfg.BoolValue != want.BoolValue {
				t.Errorf("BoolValue = %v, want %v", cfg.BoolValue, want.BoolValue)
			}
			if cfg.DurationValue != want.DurationValue {
				t.Errorf("DurationValue = %v, want %v", cfg.DurationValue, want.DurationValue)
			}
			if cfg.NoEnvTag != "" {
				t.Errorf("NoEnvTag = %v, want empty", cfg.NoEnvTag)
			}
			if cfg.Nested.NestedString != want.Nested.NestedString {
				t.Errorf("NestedString = %v, want %v", cfg.Nested.NestedString, want.Nested.NestedString)
			}
			if cfg.Namespace() != tt.prefix {
				t.Errorf("Namespace() = %v, want %v", cfg.Namespace(), tt.prefix)
			}
		})
	}
}

//nolint:paralleltest
func TestParseRequired(t *testing.T) {
	t.Run("fails when required var is missing", func(t *testing.T) {
		cfg := &requiredConfig{}
		if err := Parse(context.Background(), cfg, "REQTEST"); err == nil {
			t.Error("expected error, got nil")
		}
	})

	t.Run("fails when required var is empty", func(t *testing.T) {
		t.Setenv("REQTEST_SECRET", "")

		cfg := &requiredConfig{}
		if err := Parse(context.Background(), cfg, "REQTEST"); err == nil {
			t.Error("expected error, got nil")
		}
	})

	t.Run("reads required var", func(t *testing.T) {
		t.Setenv("REQTEST_SECRET", "s3cr3t")

		cfg := &requiredConfig{}
		if err := Parse(context.Background(), cfg, "REQTEST"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Secret != "s3cr3t" {
			t.Errorf("Secret = %v, want s3cr3t", cfg.Secret)
		}
	})
}

func TestParseInvalidConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     interface{}
		wantErr error
	}{
		{
			name:    "non-pointer config",
			cfg:     testConfig{},
			wantErr: ErrInvalidConfig,
		},
		{
			name:    "non-struct pointer",
			cfg:     new(string),
			wantErr: ErrInvalidConfig,
		},
		{
			name: "missing EnvConfig embedding",
			cfg: &struct {
				Value string `env:"VALUE"`
			}{},
			wantErr: ErrInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := Parse(context.Background(), tt.cfg, "")
			if err == nil {
				t.Error("expected error, got nil")
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected error %v, got %v", tt.wantErr, err)
			}
		})
	}
}

//nolint:paralleltest
func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")

	if err := os.WriteFile(path, []byte("DOTENV_TEST_VALUE=from-file\n"), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}

	t.Setenv("DOTENV_TEST_VALUE", "")
	os.Unsetenv("DOTENV_TEST_VALUE")

	if err := LoadDotEnv(filepath.Join(dir, "missing.env"), path); err != nil {
		t.Fatalf("LoadDotEnv() error = %v", err)
	}

	if got := os.Getenv("DOTENV_TEST_VALUE"); got != "from-file" {
		t.Errorf("DOTENV_TEST_VALUE = %q, want %q", got, "from-file")
	}
}
