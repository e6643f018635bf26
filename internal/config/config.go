package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Server       ServerConfig       `yaml:"server"`
	Database     DatabaseConfig     `yaml:"database"`
	Auth         AuthConfig         `yaml:"auth"`
	Email        EmailConfig        `yaml:"email"`
	Storage      StorageConfig      `yaml:"storage"`
	Upload       UploadConfig       `yaml:"upload"`
	Verification VerificationConfig `yaml:"verification"`
	RateLimit    RateLimitConfig    `yaml:"rate_limit" envconfig:"rate_limit"`
	Admin        AdminConfig        `yaml:"admin"`
}

type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	Env          string        `yaml:"env"`
	ReadTimeout  time.Duration `yaml:"read_timeout" split_words:"true"`
	WriteTimeout time.Duration `yaml:"write_timeout" split_words:"true"`
	CORSOrigins  []string      `yaml:"cors_origins" envconfig:"cors_origins"`
}

type DatabaseConfig struct {
	Driver          string        `yaml:"driver"` // memory, postgres, mysql
	URL             string        `yaml:"url"`
	MaxOpenConns    int           `yaml:"max_open_conns" split_words:"true"`
	MaxIdleConns    int           `yaml:"max_idle_conns" split_words:"true"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" split_words:"true"`
	AutoMigrate     bool          `yaml:"auto_migrate" split_words:"true"`
	SlowQuery       time.Duration `yaml:"slow_query" split_words:"true"`
}

type AuthConfig struct {
	JWTSecret     string        `yaml:"jwt_secret" envconfig:"jwt_secret"`
	JWTTTL        time.Duration `yaml:"jwt_ttl" envconfig:"jwt_ttl"`
	SessionSecret string        `yaml:"session_secret" envconfig:"session_secret"`
	SessionName   string        `yaml:"session_name" split_words:"true"`
	SessionMaxAge time.Duration `yaml:"session_max_age" split_words:"true"`
	CookieSecure  bool          `yaml:"cookie_secure" split_words:"true"`
}

type EmailConfig struct {
	SMTPHost     string `yaml:"smtp_host" envconfig:"smtp_host"`
	SMTPPort     int    `yaml:"smtp_port" envconfig:"smtp_port"`
	SMTPUsername string `yaml:"smtp_user" envconfig:"smtp_user"`
	SMTPPassword string `yaml:"smtp_password" envconfig:"smtp_password"`
	FromEmail    string `yaml:"from_email" split_words:"true"`
	FromName     string `yaml:"from_name" split_words:"true"`
	UseTLS       bool   `yaml:"use_tls" envconfig:"use_tls"`
}

// Enabled - без SMTP-хоста письма только пишутся в лог.
func (e EmailConfig) Enabled() bool {
	return e.SMTPHost != ""
}

type StorageConfig struct {
	Type       string `yaml:"type"`      // local, s3, cloudflare_r2
	BasePath   string `yaml:"base_path" split_words:"true"`
	BaseURL    string `yaml:"base_url" split_words:"true"`
	Bucket     string `yaml:"bucket"`
	Region     string `yaml:"region"`
	AccessKey  string `yaml:"access_key" split_words:"true"`
	SecretKey  string `yaml:"secret_key" split_words:"true"`
	Endpoint   string `yaml:"endpoint"`
	PublicRead bool   `yaml:"public_read" split_words:"true"`
}

type UploadConfig struct {
	MaxSize      int64    `yaml:"max_size" split_words:"true"`
	AllowedTypes []string `yaml:"allowed_types" split_words:"true"`
	ImageQuality int      `yaml:"image_quality" split_words:"true"`
}

type VerificationConfig struct {
	EmailCodeTTL time.Duration `yaml:"email_code_ttl" split_words:"true"`
	MaxImageEdge int           `yaml:"max_image_edge" split_words:"true"`

	// CleanupInterval - период очистки просроченных кодов; 0 отключает.
	CleanupInterval time.Duration `yaml:"cleanup_interval" split_words:"true"`
}

type RateLimitConfig struct {
	AuthRate string `yaml:"auth_rate" split_words:"true"` // формат ulule/limiter: "10-M"
	RedisURL string `yaml:"redis_url" split_words:"true"` // пусто - счетчики в памяти

	// VerifyRate - попытки ввода и повторной отправки кода email на пользователя.
	VerifyRate string `yaml:"verify_rate" split_words:"true"`
}

type AdminConfig struct {
	Token string `yaml:"token"`
}

// Defaults - значения, с которыми сервис запускается без файла конфигурации.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         8080,
			Env:          "development",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
			CORSOrigins:  []string{"*"},
		},
		Database: DatabaseConfig{
			Driver:          "memory",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 30 * time.Minute,
			AutoMigrate:     true,
			SlowQuery:       200 * time.Millisecond,
		},
		Auth: AuthConfig{
			JWTTTL:        24 * time.Hour,
			SessionName:   "hyperlocal_session",
			SessionMaxAge: 7 * 24 * time.Hour,
		},
		Email: EmailConfig{
			SMTPPort: 587,
			FromName: "Hyperlocal Jobs",
			UseTLS:   true,
		},
		Storage: StorageConfig{
			Type:     "local",
			BasePath: "./uploads",
			BaseURL:  "/uploads",
		},
		Upload: UploadConfig{
			MaxSize:      5 * 1024 * 1024,
			AllowedTypes: []string{"image/jpeg", "image/png", "image/gif", "image/webp"},
			ImageQuality: 85,
		},
		Verification: VerificationConfig{
			EmailCodeTTL:    15 * time.Minute,
			MaxImageEdge:    1600,
			CleanupInterval: time.Hour,
		},
		RateLimit: RateLimitConfig{
			AuthRate:   "20-M",
			VerifyRate: "5-M",
		},
	}
}

// Load собирает конфигурацию: значения по умолчанию, затем YAML-файл (если есть),
// затем переменные окружения, в том числе из .env.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := Defaults()

	f, err := os.Open(path)
	switch {
	case err == nil:
		defer f.Close()
		if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file at %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
		log.Printf("Файл конфигурации %s не найден, используются значения по умолчанию", path)
	default:
		return nil, fmt.Errorf("failed to open config file at %s: %w", path, err)
	}

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate проверяет то, без чего сервер не должен стартовать.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "memory":
	case "postgres", "mysql":
		if c.Database.URL == "" {
			return fmt.Errorf("database.url is required for driver %q", c.Database.Driver)
		}
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}

	if c.Server.Env != "development" && c.Server.Env != "test" {
		if c.Auth.JWTSecret == "" || c.Auth.SessionSecret == "" {
			return errors.New("auth.jwt_secret and auth.session_secret are required outside development")
		}
	}
	if c.Verification.EmailCodeTTL <= 0 {
		return errors.New("verification.email_code_ttl must be positive")
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

var AppConfig *Config

// LoadConfig загружает глобальную конфигурацию из CONFIG_PATH
// (по умолчанию config/config.yaml) и завершает процесс при ошибке.
func LoadConfig() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	AppConfig = cfg
}

func GetConfig() *Config {
	if AppConfig == nil {
		LoadConfig()
	}
	return AppConfig
}
