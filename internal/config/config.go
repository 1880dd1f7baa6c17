// Copyright (c) 2025-present deep.rent GmbH (https://www.deep.rent)
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config loads the courier configuration from an optional YAML file
// and COURIER_* environment variables.
package config

import (
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/deep-rent/courier/internal/probe"
	"github.com/deep-rent/nexus/env"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Prefix is prepended to every environment variable name.
const Prefix = "COURIER_"

const (
	// DefaultBaseURL is the gateway address used when none is configured.
	DefaultBaseURL = "http://192.168.61.103:9080/"
	// DefaultLogLevel is the default logging level.
	DefaultLogLevel = "info"
	// DefaultConnectTimeout is the default connect timeout in seconds.
	DefaultConnectTimeout = 30
	// DefaultReadTimeout is the default read timeout in seconds.
	DefaultReadTimeout = 60
	// DefaultWriteTimeout is the default write timeout in seconds.
	DefaultWriteTimeout = 60
)

// Config holds the application configuration. Timeouts are in seconds.
// The env tags name the variables without Prefix.
type Config struct {
	BaseURL        string `yaml:"baseURL" env:"BASE_URL"`
	Path           string `yaml:"path" env:"PATH"`
	LogLevel       string `yaml:"logLevel" env:"LOG_LEVEL"`
	Debug          bool   `yaml:"debug" env:"DEBUG"`
	ConnectTimeout int    `yaml:"connectTimeout" env:"CONNECT_TIMEOUT"`
	ReadTimeout    int    `yaml:"readTimeout" env:"READ_TIMEOUT"`
	WriteTimeout   int    `yaml:"writeTimeout" env:"WRITE_TIMEOUT"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		BaseURL:        DefaultBaseURL,
		Path:           probe.DefaultPath,
		LogLevel:       DefaultLogLevel,
		Debug:          false,
		ConnectTimeout: DefaultConnectTimeout,
		ReadTimeout:    DefaultReadTimeout,
		WriteTimeout:   DefaultWriteTimeout,
	}
}

// Load builds the configuration. Defaults are overlaid with the YAML file
// at path (skipped if path is empty), then with environment variables. The
// result is validated before it is returned.
func Load(path string) (*Config, error) {
	return load(path, os.LookupEnv)
}

func load(path string, lookup env.Lookup) (*Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.readFile(path); err != nil {
			return nil, err
		}
	}
	if err := env.Unmarshal(
		&cfg,
		env.WithPrefix(Prefix),
		env.WithLookup(lookup),
	); err != nil {
		return nil, errors.Wrap(err, "failed to read environment")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "failed to read config file %q", path)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return errors.Wrapf(err, "failed to parse config file %q", path)
	}
	return nil
}

// Level returns the effective log level. Debug raises it to debug unless
// logging is silenced.
func (c *Config) Level() string {
	if c.Debug && !strings.EqualFold(strings.TrimSpace(c.LogLevel), "silent") {
		return "debug"
	}
	return c.LogLevel
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if _, err := c.URL(); err != nil {
		return err
	}
	if c.ConnectTimeout <= 0 {
		return errors.Errorf("connectTimeout must be positive, got %d", c.ConnectTimeout)
	}
	if c.ReadTimeout <= 0 {
		return errors.Errorf("readTimeout must be positive, got %d", c.ReadTimeout)
	}
	if c.WriteTimeout <= 0 {
		return errors.Errorf("writeTimeout must be positive, got %d", c.WriteTimeout)
	}
	return nil
}

// URL parses the base URL. Only absolute http and https URLs are accepted.
func (c *Config) URL() (*url.URL, error) {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid base URL %q", c.BaseURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, errors.Errorf("invalid base URL %q: scheme must be http or https", c.BaseURL)
	}
	if u.Host == "" {
		return nil, errors.Errorf("invalid base URL %q: missing host", c.BaseURL)
	}
	return u, nil
}

// Connect returns the connect timeout as a duration.
func (c *Config) Connect() time.Duration {
	return time.Duration(c.ConnectTimeout) * time.Second
}

// Read returns the read timeout as a duration.
func (c *Config) Read() time.Duration {
	return time.Duration(c.ReadTimeout) * time.Second
}

// Write returns the write timeout as a duration.
func (c *Config) Write() time.Duration {
	return time.Duration(c.WriteTimeout) * time.Second
}
