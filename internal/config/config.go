package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"

	"tryhup-api/internal/domain"
)

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort    string `env:"HTTP_PORT" envDefault:"8080"`
	AppEnv      string `env:"APP_ENV" envDefault:"production"`
	DatabaseURL string `env:"DATABASE_URL,required"`

	JWTSecret  string        `env:"JWT_SECRET"`
	JWTIssuer  string        `env:"JWT_ISSUER" envDefault:"tryhup"`
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"24h"`

	// DevMode habilita los headers X-Dev-Email / X-Dev-Role y /auth/dev-login.
	// Nunca debe estar activo en un entorno accesible por clientes no confiables.
	DevMode bool `env:"DEV_MODE" envDefault:"false"`

	SensitiveCategories []string `env:"SENSITIVE_CATEGORIES" envSeparator:"," envDefault:"medicina,salute,psicologia,giurisprudenza,diritto,finanza,investimenti,nutrizione,ingegneria,fisioterapia"`
	BannedTerms         []string `env:"BANNED_TERMS" envSeparator:"," envDefault:"idiot,stupid,hate,fuck,shit,bastard"`

	OTPRateWindow time.Duration `env:"OTP_RATE_WINDOW" envDefault:"10m"`
	OTPRateMax    int           `env:"OTP_RATE_MAX" envDefault:"3"`

	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser     string `env:"SMTP_USER"`
	SMTPPass     string `env:"SMTP_PASS"`
	SMTPFrom     string `env:"SMTP_FROM"`
	SMTPFromName string `env:"SMTP_FROM_NAME" envDefault:"TryHup"`
	SMTPUseTLS   bool   `env:"SMTP_USE_TLS" envDefault:"false"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	RunMigrations bool `env:"RUN_MIGRATIONS" envDefault:"true"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.SensitiveCategories = normalizeList(cfg.SensitiveCategories)
	cfg.BannedTerms = normalizeList(cfg.BannedTerms)
	return &cfg, nil
}

// Validate comprueba los valores sin los cuales el proceso no puede arrancar.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.JWTSecret) == "" {
		return fmt.Errorf("%w: JWT_SECRET is required", domain.ErrConfiguration)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("%w: SESSION_TTL must be positive", domain.ErrConfiguration)
	}
	return nil
}

// IsDevelopment indica si el logger debe usar la configuración de desarrollo.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(strings.TrimSpace(c.AppEnv), "development")
}

func normalizeList(items []string) []string {
	out := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		v := strings.ToLower(strings.TrimSpace(item))
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
