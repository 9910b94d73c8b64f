package config

import "time"

// Config is the root application configuration.
type Config struct {
	Store   StoreConfig   `yaml:"store"`
	Session SessionConfig `yaml:"session"`
	Login   LoginConfig   `yaml:"login"`
	Log     LogConfig     `yaml:"log"`
}

// StoreConfig locates the data file.
type StoreConfig struct {
	Path string `yaml:"path" env:"MEDITRACK_DATA_FILE" env-default:"meditrack_simple.json"`
}

// SessionConfig controls the idle session token. An empty secret means a
// random one is generated at startup.
type SessionConfig struct {
	Secret  string        `yaml:"secret"   env:"MEDITRACK_SESSION_SECRET"`
	IdleTTL time.Duration `yaml:"idle_ttl" env:"MEDITRACK_SESSION_IDLE_TTL" env-default:"15m"`
}

// LoginConfig throttles failed logins per username.
type LoginConfig struct {
	MaxFailures int           `yaml:"max_failures" env:"MEDITRACK_LOGIN_MAX_FAILURES" env-default:"5"`
	RefillEvery time.Duration `yaml:"refill_every" env:"MEDITRACK_LOGIN_REFILL_EVERY" env-default:"30s"`
	ForgetAfter time.Duration `yaml:"forget_after" env:"MEDITRACK_LOGIN_FORGET_AFTER" env-default:"10m"`
}

type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"warn"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"console"`
}
