package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"welcome/pkg/domain"
	"welcome/pkg/validation"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr           string `validate:"required"`
	StaticDir      string
	TLSCertFile    string `validate:"required_with=TLSKeyFile"`
	TLSKeyFile     string `validate:"required_with=TLSCertFile"`
	Environment    string `validate:"oneof=development production test"`
	LogLevel       string `validate:"oneof=debug info warn error"`
	AdminTokenHash string

	// BootstrapAddr serves BootstrapDir over plain HTTP, so devices can
	// fetch the CA certificate before trusting the TLS listener.
	BootstrapAddr string `validate:"required_with=BootstrapDir"`
	BootstrapDir  string
}

// Store selects and configures the profile store backend.
type Store struct {
	Backend     string `validate:"oneof=file postgres redis"`
	CardsFile   string `validate:"required_if=Backend file"`
	DatabaseURL string `validate:"required_if=Backend postgres"`
	RedisURL    string `validate:"required_if=Backend redis"`
}

// Printing configures the print job manager and its printer backend.
type Printing struct {
	Command   string
	URL       string        `validate:"omitempty,http_url"`
	Timeout   time.Duration `validate:"min=0"`
	Workers   int           `validate:"min=1"`
	Retention int           `validate:"min=0"`
	// Template holds extra badge fields; the event key fields win over it.
	Template map[string]string
}

// Hooks configures outbound event delivery.
type Hooks struct {
	Recipients   []string `validate:"dive,http_url"`
	File         string
	Timeout      time.Duration `validate:"min=0"`
	SigningKey   string
	KafkaBrokers string
	KafkaTopic   string `validate:"required_with=KafkaBrokers"`
}

// Config is the full process configuration.
type Config struct {
	EventKey string `validate:"notblank"`
	Server   Server
	Store    Store
	Printing Printing
	Hooks    Hooks
}

// DefaultHookTimeout bounds a single delivery POST.
var DefaultHookTimeout = 5 * time.Second

// DefaultPrintTimeout bounds a single print action.
var DefaultPrintTimeout = 30 * time.Second

// DefaultJobRetention caps how many completed jobs are remembered.
var DefaultJobRetention = 10000

// FromEnv builds a Config from environment variables so main stays lean.
// Malformed durations and integers fall back to their defaults.
func FromEnv() Config {
	return Config{
		EventKey: os.Getenv("EVENT_KEY"),
		Server: Server{
			Addr:           envOr("WELCOME_ADDR", ":10081"),
			StaticDir:      envOr("STATIC_DIR", "static"),
			TLSCertFile:    os.Getenv("TLS_CERT_FILE"),
			TLSKeyFile:     os.Getenv("TLS_KEY_FILE"),
			Environment:    envOr("ENVIRONMENT", "development"),
			LogLevel:       strings.ToLower(envOr("LOG_LEVEL", "info")),
			AdminTokenHash: os.Getenv("ADMIN_TOKEN_HASH"),
			BootstrapAddr:  envOr("BOOTSTRAP_ADDR", ":10080"),
			BootstrapDir:   envOr("BOOTSTRAP_DIR", "bootstrap"),
		},
		Store: Store{
			Backend:     strings.ToLower(envOr("PROFILE_BACKEND", "file")),
			CardsFile:   envOr("CARDS_FILE", "cards.json"),
			DatabaseURL: os.Getenv("DATABASE_URL"),
			RedisURL:    os.Getenv("REDIS_URL"),
		},
		Printing: Printing{
			Command:   os.Getenv("PRINTER_COMMAND"),
			URL:       os.Getenv("PRINTER_URL"),
			Timeout:   envDuration("PRINT_TIMEOUT", DefaultPrintTimeout),
			Workers:   envInt("PRINT_WORKERS", 1),
			Retention: envInt("JOB_RETENTION", DefaultJobRetention),
			Template:  SplitPairs(os.Getenv("PRINT_TEMPLATE")),
		},
		Hooks: Hooks{
			Recipients:   SplitList(os.Getenv("HOOK_RECIPIENTS")),
			File:         os.Getenv("HOOKS_FILE"),
			Timeout:      envDuration("HOOK_TIMEOUT", DefaultHookTimeout),
			SigningKey:   os.Getenv("HOOK_SIGNING_KEY"),
			KafkaBrokers: os.Getenv("KAFKA_BROKERS"),
			KafkaTopic:   envOr("KAFKA_EVENTS_TOPIC", "welcome.events"),
		},
	}
}

// Validate checks field constraints and that the event key carries an
// event number.
func (c Config) Validate() error {
	if err := validation.Validate(c); err != nil {
		return err
	}
	if _, err := domain.ParseEventKey(c.EventKey); err != nil {
		return err
	}
	if c.Printing.Command != "" && c.Printing.URL != "" {
		return fmt.Errorf("PRINTER_COMMAND and PRINTER_URL are mutually exclusive")
	}
	return nil
}

// UseTLS reports whether both halves of the key pair are configured.
func (s Server) UseTLS() bool {
	return s.TLSCertFile != "" && s.TLSKeyFile != ""
}

// SplitList splits a comma-separated list, dropping blanks.
func SplitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// SplitPairs parses a comma-separated list of name=value pairs. Entries
// without a name are dropped.
func SplitPairs(raw string) map[string]string {
	pairs := map[string]string{}
	for _, part := range SplitList(raw) {
		name, value, _ := strings.Cut(part, "=")
		if name = strings.TrimSpace(name); name != "" {
			pairs[name] = strings.TrimSpace(value)
		}
	}
	return pairs
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
