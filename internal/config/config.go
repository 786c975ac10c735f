// Package config loads the service configuration from a YAML file and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

type Config struct {
	Env        string `yaml:"env"`
	BaseURL    string `yaml:"base_url"`
	Storage    string `yaml:"storage"`
	ShortCode  `yaml:"short_code"`
	HTTPServer `yaml:"http_server"`
	Postgres   `yaml:"postgres"`
	Auth       `yaml:"auth"`
}

type ShortCode struct {
	Length      int `yaml:"length"`
	MaxAttempts int `yaml:"max_attempts"`
}

var defaultShortCode = ShortCode{
	Length:      6,
	MaxAttempts: 5,
}

type HTTPServer struct {
	Port           int           `yaml:"port"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
	IdleTimeout    time.Duration `yaml:"idle_timeout"`
	MaxHeaderBytes int           `yaml:"max_header_bytes"`
	CertFile       string        `yaml:"cert_file"`
	KeyFile        string        `yaml:"key_file"`
}

var defaultHTTPServer = HTTPServer{
	Port:           8080,
	ReadTimeout:    5 * time.Second,
	WriteTimeout:   10 * time.Second,
	IdleTimeout:    time.Minute,
	MaxHeaderBytes: 1 << 20,
}

func (s *HTTPServer) Addr() string {
	return fmt.Sprintf(":%d", s.Port)
}

type Postgres struct {
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	DB              string        `yaml:"db"`
	SSLMode         string        `yaml:"sslmode"`
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MigrationsPath  string        `yaml:"migrations_path"`
}

var defaultPostgres = Postgres{
	Host:            "localhost",
	Port:            5432,
	SSLMode:         "disable",
	ConnMaxIdleTime: 5 * time.Minute,
	ConnMaxLifetime: 30 * time.Minute,
	MaxIdleConns:    5,
	MaxOpenConns:    25,
	MigrationsPath:  "file://migrations",
}

func (p *Postgres) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		p.User, p.Password, p.Host, p.Port, p.DB, p.SSLMode)
}

type Auth struct {
	JWTSecret  string        `yaml:"jwt_secret"`
	TokenTTL   time.Duration `yaml:"token_ttl"`
	CookieName string        `yaml:"cookie_name"`
	BcryptCost int           `yaml:"bcrypt_cost"`
}

var defaultAuth = Auth{
	TokenTTL:   24 * time.Hour,
	CookieName: "jwt",
	BcryptCost: 12,
}

// Load reads the YAML file at path over the defaults and applies environment overrides.
func Load(path string) (*Config, error) {
	const op = "config.Load"

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to open config file: %w", op, err)
	}
	defer f.Close()

	var cfg Config
	setDefaults(&cfg)

	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("%s: failed to decode config file: %w", op, err)
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &cfg, nil
}

func setDefaults(cfg *Config) {
	cfg.Env = EnvDev
	cfg.BaseURL = "http://localhost:8080"
	cfg.Storage = StoragePostgres
	cfg.ShortCode = defaultShortCode
	cfg.HTTPServer = defaultHTTPServer
	cfg.Postgres = defaultPostgres
	cfg.Auth = defaultAuth
}

// applyEnv lets secrets and the public address come from the environment.
func applyEnv(cfg *Config) {
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.Auth.JWTSecret = v
	}
	if v := os.Getenv("POSTGRES_PASSWORD"); v != "" {
		cfg.Postgres.Password = v
	}
	if v := os.Getenv("BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
}

var ErrInvalidConfig = errors.New("invalid config")

func (c *Config) Validate() error {
	switch {
	case c.Env != EnvDev && c.Env != EnvStage && c.Env != EnvProd:
		return fmt.Errorf("%w: unknown env %q", ErrInvalidConfig, c.Env)
	case c.Storage != StoragePostgres && c.Storage != StorageMemory:
		return fmt.Errorf("%w: unknown storage %q", ErrInvalidConfig, c.Storage)
	case c.BaseURL == "":
		return fmt.Errorf("%w: base_url is empty", ErrInvalidConfig)
	case c.ShortCode.Length <= 0:
		return fmt.Errorf("%w: short_code.length must be positive", ErrInvalidConfig)
	case c.ShortCode.MaxAttempts <= 0:
		return fmt.Errorf("%w: short_code.max_attempts must be positive", ErrInvalidConfig)
	case c.Auth.JWTSecret == "":
		return fmt.Errorf("%w: auth.jwt_secret is empty", ErrInvalidConfig)
	case c.Env == EnvProd && (c.HTTPServer.CertFile == "" || c.HTTPServer.KeyFile == ""):
		return fmt.Errorf("%w: tls files are required in prod", ErrInvalidConfig)
	}

	return nil
}
