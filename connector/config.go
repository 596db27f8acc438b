package connector

import "time"

// Config describes how a provider reaches the database for one invocation.
type Config struct {
	// DSN is the connection string exactly as configured.
	DSN  string     `json:"dsn" yaml:"dsn"`
	Pool PoolConfig `json:"pool" yaml:"pool"`
}

// PoolConfig defines the driver-side pool kept per connection string.
type PoolConfig struct {
	MaxOpen     int           `json:"max_open" yaml:"max_open"`
	MaxIdle     int           `json:"max_idle" yaml:"max_idle"`
	MaxLifetime time.Duration `json:"max_lifetime" yaml:"max_lifetime"`
	MaxIdleTime time.Duration `json:"max_idle_time" yaml:"max_idle_time"`
}

// WithDefaults fills unset pool settings.
func (p PoolConfig) WithDefaults() PoolConfig {
	if p.MaxOpen <= 0 {
		p.MaxOpen = 10
	}
	if p.MaxIdle <= 0 {
		p.MaxIdle = 5
	}
	if p.MaxIdle > p.MaxOpen {
		p.MaxIdle = p.MaxOpen
	}
	if p.MaxLifetime == 0 {
		p.MaxLifetime = time.Hour
	}
	if p.MaxIdleTime == 0 {
		p.MaxIdleTime = 30 * time.Minute
	}
	return p
}
