package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"reflect"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// ErrInvalidConfig is returned when the provided config is not a pointer to a struct
// that embeds EnvConfig.
var ErrInvalidConfig = errors.New("config must be a pointer to a struct embedding EnvConfig")

// EnvConfig is a base type that must be embedded in configuration structs
// to enable environment variable parsing.
type EnvConfig struct {
	namespace string
}

// Namespace returns the namespace the config was parsed with.
func (c EnvConfig) Namespace() string {
	return c.namespace
}

//nolint:varnamelen
func getEnvConfig(cfg any) (*EnvConfig, error) {
	v := reflect.ValueOf(cfg)

	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
		return nil, ErrInvalidConfig
	}

	v = v.Elem()
	t := v.Type()

	for i := range t.NumField() {
		field := t.Field(i)
		//nolint:exhaustruct,forcetypeassert
		if field.Anonymous && field.Type == reflect.TypeOf(EnvConfig{}) {
			if ev := v.Field(i); ev.CanAddr() {
				return ev.Addr().Interface().(*EnvConfig), nil
			}
		}
	}

	return nil, ErrInvalidConfig
}

// Parse loads configuration values from environment variables into the provided struct.
// The struct must embed EnvConfig and use `env`, `envDefault` and `envPrefix` tags.
//
// The namespace is split on "_" and every level is tried as a variable prefix,
// the most specific one winning: with namespace "APP_SVC", APP_SVC_PORT beats
// APP_PORT. An empty namespace reads unprefixed variables.
func Parse(ctx context.Context, cfg any, namespace string) error {
	envConfig, err := getEnvConfig(cfg)
	if err != nil {
		return fmt.Errorf("get env config: %w", err)
	}

	envConfig.namespace = namespace

	//nolint:exhaustruct
	opts := env.Options{
		Environment: namespacedEnvironment(namespace, os.Environ()),
	}

	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	return nil
}

// LoadDotEnv loads variables from the given .env files into the process
// environment without overriding variables that are already set.
// Missing files are ignored.
func LoadDotEnv(filenames ...string) error {
	if len(filenames) == 0 {
		filenames = []string{".env"}
	}

	for _, filename := range filenames {
		if err := godotenv.Load(filename); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}

			return fmt.Errorf("load %s: %w", filename, err)
		}
	}

	return nil
}

func namespacedEnvironment(namespace string, environ []string) map[string]string {
	vars := make(map[string]string, len(environ))

	for _, kv := range environ {
		if key, value, ok := strings.Cut(kv, "="); ok {
			vars[key] = value
		}
	}

	if namespace == "" {
		return vars
	}

	resolved := make(map[string]string)
	nsParts := strings.Split(namespace, "_")

	// least specific first so that deeper namespaces override
	for i := 1; i <= len(nsParts); i++ {
		prefix := strings.Join(nsParts[:i], "_") + "_"

		for key, value := range vars {
			if name, ok := strings.CutPrefix(key, prefix); ok && name != "" {
				resolved[name] = value
			}
		}
	}

	return resolved
}
