package config

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"
)

// Config is the application configuration, read from the environment
type Config struct {
	Mail   MailConfig
	Queue  QueueConfig
	Redis  RedisConfig
	SQS    SQSConfig
	Worker WorkerConfig
}

// MailConfig holds the mailer settings.
// MAIL_DSN wins over the discrete MAIL_* variables when both are set.
type MailConfig struct {
	Mailer      string        `env:"MAIL_MAILER" envDefault:"log"`
	DSN         string        `env:"MAIL_DSN"`
	Host        string        `env:"MAIL_HOST" envDefault:"default"`
	Port        int           `env:"MAIL_PORT"`
	Username    string        `env:"MAIL_USERNAME"`
	Password    string        `env:"MAIL_PASSWORD"`
	Encryption  string        `env:"MAIL_ENCRYPTION"` // "ssl" selects smtps
	FromAddress string        `env:"MAIL_FROM_ADDRESS"`
	FromName    string        `env:"MAIL_FROM_NAME"`
	VerifyTLS   bool          `env:"MAIL_TENEO_VERIFY_TLS"`
	Timeout     time.Duration `env:"MAIL_TIMEOUT" envDefault:"30s"`
}

// DSNString returns MAIL_DSN or builds a DSN from the discrete variables
func (c MailConfig) DSNString() string {
	if c.DSN != "" {
		return c.DSN
	}

	scheme := c.Mailer
	if scheme == "smtp" && c.Encryption == "ssl" {
		scheme = "smtps"
	}

	host := c.Host
	if host == "" {
		host = "default"
	}
	if c.Port > 0 {
		host = net.JoinHostPort(host, strconv.Itoa(c.Port))
	}

	u := url.URL{Scheme: scheme, Host: host}
	switch {
	case c.Username != "" && c.Password != "":
		u.User = url.UserPassword(c.Username, c.Password)
	case c.Username != "":
		u.User = url.User(c.Username)
	}
	if c.VerifyTLS {
		u.RawQuery = "verify_tls=1"
	}

	return u.String()
}

// QueueConfig selects the queue backend for queued mail
type QueueConfig struct {
	Connection string `env:"QUEUE_CONNECTION" envDefault:"redis"` // redis or sqs
	Name       string `env:"QUEUE_NAME" envDefault:"default"`
}

// RedisConfig holds configuration for Redis connection
type RedisConfig struct {
	Host     string `env:"REDIS_HOST" envDefault:"127.0.0.1"`
	Port     int    `env:"REDIS_PORT" envDefault:"6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB"`
}

// Addr returns host:port
func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// WorkerConfig holds configuration for the worker pool
type WorkerConfig struct {
	Concurrency int `env:"WORKER_CONCURRENCY" envDefault:"5"`
}
