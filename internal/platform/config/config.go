// Package config builds the process configuration once, at startup.
// Everything downstream receives explicit values through constructors,
// including the JWT signing secret, so parallel test instances can run
// with isolated secrets instead of sharing ambient process state.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// Server captures process-level configuration.
type Server struct {
	Addr string `env:"MEDICONNECT_ADDR" envDefault:":8080"`

	// JWTSigningKey signs identity tokens. The default exists for local
	// development only and must be overridden in any shared environment.
	JWTSigningKey string        `env:"JWT_SIGNING_KEY" envDefault:"dev-secret-key-change-in-production"`
	TokenIssuer   string        `env:"TOKEN_ISSUER" envDefault:"mediconnect"`
	TokenTTL      time.Duration `env:"TOKEN_TTL" envDefault:"1h"`

	// DatabaseURL empty selects the in-memory stores.
	DatabaseURL string `env:"DATABASE_URL"`
	// RedisURL empty selects the in-memory token revocation list.
	RedisURL string `env:"REDIS_URL"`

	// KafkaBrokers empty disables the audit compliance mirror.
	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:","`
	AuditTopic   string   `env:"AUDIT_TOPIC" envDefault:"mediconnect.audit"`
	// AuditFailClosed rejects operations whose audit entry cannot be
	// persisted. Default favors availability of the primary operation.
	AuditFailClosed bool `env:"AUDIT_FAIL_CLOSED" envDefault:"false"`

	// AdminToken guards the operator audit endpoint. Empty disables it.
	AdminToken string `env:"ADMIN_TOKEN"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// FromEnv parses configuration from environment variables so main stays lean.
func FromEnv() (Server, error) {
	var cfg Server
	if err := env.Parse(&cfg); err != nil {
		return Server{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
