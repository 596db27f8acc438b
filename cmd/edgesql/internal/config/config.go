package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

var AppFs = afero.NewOsFs()

// Config holds the CLI configuration
type Config struct {
	ConnectionString string
	Timeout          time.Duration
	Mode             string
	LogLevel         string
	LogFormat        string
}

// Configuration keys, shared by flags, EDGESQL_* variables and the config
// file.
const (
	KeyConfigFile       = "config"
	KeyConnectionString = "connection-string"
	KeyTimeout          = "timeout"
	KeyMode             = "mode"
	KeyLogLevel         = "log-level"
	KeyLogFormat        = "log-format"
)

// Load resolves the configuration. Precedence is flags bound to v, then
// EDGESQL_* variables, then the config file, then defaults. .env and
// .env.local are applied to the process environment first.
func Load(v *viper.Viper, fs afero.Fs) (*Config, error) {
	if err := LoadDotEnv(fs); err != nil {
		return nil, err
	}

	v.SetFs(fs)
	v.SetEnvPrefix("EDGESQL")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyMode, "extended")
	v.SetDefault(KeyLogLevel, "warn")
	v.SetDefault(KeyLogFormat, "text")

	if file := v.GetString(KeyConfigFile); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", file, err)
		}
	} else {
		v.SetConfigName(".edgesql")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := homedir.Dir(); err == nil {
			v.AddConfigPath(home)
			v.AddConfigPath(filepath.Join(home, ".config", "edgesql"))
		}
		// Try to read config file (ignore if not found)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	return &Config{
		ConnectionString: v.GetString(KeyConnectionString),
		Timeout:          v.GetDuration(KeyTimeout),
		Mode:             v.GetString(KeyMode),
		LogLevel:         v.GetString(KeyLogLevel),
		LogFormat:        v.GetString(KeyLogFormat),
	}, nil
}

// LoadDotEnv applies .env without replacing variables that are already
// set, then .env.local, which does replace them. Missing files are skipped.
func LoadDotEnv(fs afero.Fs) error {
	files := []struct {
		name     string
		override bool
	}{
		{".env", false},
		{".env.local", true},
	}

	for _, f := range files {
		data, err := afero.ReadFile(fs, f.name)
		if err != nil {
			continue
		}
		vars, err := godotenv.Unmarshal(string(data))
		if err != nil {
			return fmt.Errorf("parse %s: %w", f.name, err)
		}
		for key, val := range vars {
			if _, set := os.LookupEnv(key); set && !f.override {
				continue
			}
			if err := os.Setenv(key, val); err != nil {
				return err
			}
		}
	}
	return nil
}
