// Copyright (c) 2026 Leafmark. All rights reserved.
// Author: dev@leafmark.app

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (TokenService, Gateway) via constructors.
  - Zero Hidden State: No global variables are used to store config.

This ensures the application is Twelve-Factor compliant by storing config in the env.
*/
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// # Configuration Schema

// Config holds all runtime configuration for the Leafmark API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Cryptographic keys for identity signing.
	//
	// Rotating either key invalidates every outstanding access token:
	// verification is a pure function of the token and the current key pair,
	// so there is no grace period for tokens signed under the previous key.
	JWTPrivKeyPath string `env:"JWT_PRIVATE_KEY_PATH,required"`
	JWTPubKeyPath  string `env:"JWT_PUBLIC_KEY_PATH,required"`

	// Key-Value Cache (Redis). Optional: when empty, sessions are kept in
	// process memory and die with the process.
	RedisURL string `env:"REDIS_URL"`

	// Sliding-window admission control for the async gateway.
	WindowLimit    int           `env:"WINDOW_LIMIT"    envDefault:"100"`
	WindowDuration time.Duration `env:"WINDOW_DURATION" envDefault:"60s"`

	// UpstreamBaseURL is the internal synchronous API the async gateway
	// proxies to. Defaults to this process's own listen address.
	UpstreamBaseURL string `env:"UPSTREAM_BASE_URL" envDefault:"http://127.0.0.1:8080"`

	// Cross-Origin Resource Sharing
	ExtraOrigins string `env:"EXTRA_ORIGINS"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	return cfg, nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
