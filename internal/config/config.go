// Package config предоставляет структуры и функции для загрузки конфигурации шлюза.
//
// Конфигурация читается из YAML-файла (путь в CONFIG_PATH), а при его отсутствии —
// только из переменных окружения. Переменные окружения всегда имеют приоритет над файлом,
// файл .env в рабочем каталоге подгружается автоматически.
package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// DefaultUpstreamOrigin — продакшн-API, на который проксируются нелокальные маршруты.
const DefaultUpstreamOrigin = "https://settlementfast.com"

// Config общая структура для хранения настроек
type Config struct {
	Env        string     `yaml:"env" env:"ENV" env-default:"local"`
	HTTPServer HTTPServer `yaml:"http_server"`
	Upstream   Upstream   `yaml:"upstream"`
	Auth       Auth       `yaml:"auth"`
	Storage    Storage    `yaml:"storage"`
	Redis      Redis      `yaml:"redis"`
	RateLimit  RateLimit  `yaml:"rate_limit"`
	RabbitMQ   RabbitMQ   `yaml:"rabbitmq"`
}

// HTTPServer структура для настройки сервера.
// WriteTimeout должен быть больше таймаута апстрима, иначе ответ 502 не успеет уйти клиенту.
// TrustProxy включает разбор X-Forwarded-For и X-Real-IP; без него клиентом считается адрес соединения.
type HTTPServer struct {
	Address      string        `yaml:"address" env:"HTTP_ADDRESS" env-default:":5000"`
	Timeout      time.Duration `yaml:"timeout" env:"HTTP_TIMEOUT" env-default:"30s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env:"HTTP_WRITE_TIMEOUT" env-default:"60s"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
	TrustProxy   bool          `yaml:"trust_proxy" env:"TRUST_PROXY"`
}

// Upstream настройки продакшн-API, куда уходят все нелокальные запросы.
type Upstream struct {
	Origin  string        `yaml:"origin" env:"UPSTREAM_ORIGIN" env-default:"https://settlementfast.com"`
	Timeout time.Duration `yaml:"timeout" env:"UPSTREAM_TIMEOUT" env-default:"30s"`
}

// Auth настройки управляемого сервиса авторизации.
// Если задан JWTSecret, токены проверяются локально, иначе — запросом к сервису.
type Auth struct {
	URL       string        `yaml:"url" env:"SUPABASE_URL"`
	AnonKey   string        `yaml:"anon_key" env:"SUPABASE_ANON_KEY"`
	JWTSecret string        `yaml:"jwt_secret" env:"SUPABASE_JWT_SECRET"`
	Timeout   time.Duration `yaml:"timeout" env:"AUTH_TIMEOUT" env-default:"10s"`
}

// Storage настройки подключения к управляемой базе данных.
type Storage struct {
	ConnectionString string `yaml:"connection_string" env:"DATABASE_URL"`
	ServiceRoleKey   string `yaml:"service_role_key" env:"SUPABASE_SERVICE_ROLE_KEY"`
	MigrationsPath   string `yaml:"migrations_path" env:"MIGRATIONS_PATH"`
}

// Redis настройки хранилища счётчиков ограничения частоты запросов.
// Пустой адрес означает ограничение в памяти процесса.
type Redis struct {
	Address     string        `yaml:"address" env:"REDIS_ADDRESS"`
	Password    string        `yaml:"password" env:"REDIS_PASSWORD"`
	User        string        `yaml:"user" env:"REDIS_USER"`
	DB          int           `yaml:"db" env:"REDIS_DB"`
	MaxRetries  int           `yaml:"max_retries" env:"REDIS_MAX_RETRIES"`
	DialTimeout time.Duration `yaml:"dial_timeout" env:"REDIS_DIAL_TIMEOUT" env-default:"5s"`
	Timeout     time.Duration `yaml:"timeout" env:"REDIS_TIMEOUT" env-default:"3s"`
}

// RateLimit ограничение частоты запросов с одного адреса.
type RateLimit struct {
	Requests int           `yaml:"requests" env:"RATE_LIMIT_REQUESTS" env-default:"120"`
	Window   time.Duration `yaml:"window" env:"RATE_LIMIT_WINDOW" env-default:"1m"`
}

// RabbitMQ настройки публикации событий по заявкам. Пустой URL отключает публикацию.
type RabbitMQ struct {
	URL      string `yaml:"url" env:"AMQP_URL"`
	Exchange string `yaml:"exchange" env:"AMQP_EXCHANGE" env-default:"claims"`
}

// Load читает конфигурацию из CONFIG_PATH (если задан) и переменных окружения.
func Load() (*Config, error) {
	const op = "config.Load"

	_ = godotenv.Load()

	var cfg Config
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return &cfg, nil
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s: file %s does not exist", op, configPath)
	}
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &cfg, nil
}

// MustLoad загружает конфигурацию и завершает процесс при ошибке.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return cfg
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"HTTPServer:\n"+
			"  Address: %s\n"+
			"  Timeout: %s\n"+
			"  WriteTimeout: %s\n"+
			"  IdleTimeout: %s\n"+
			"  TrustProxy: %t\n"+
			"Upstream:\n"+
			"  Origin: %s\n"+
			"  Timeout: %s\n"+
			"Auth:\n"+
			"  URL: %s\n"+
			"  AnonKey: %s\n"+
			"  JWTSecret: %s\n"+
			"Storage:\n"+
			"  ConnectionString: %s\n"+
			"  ServiceRoleKey: %s\n"+
			"Redis:\n"+
			"  Address: %s\n"+
			"RateLimit: %d per %s\n"+
			"RabbitMQ:\n"+
			"  URL: %s\n"+
			"  Exchange: %s\n",
		c.Env,
		c.HTTPServer.Address,
		c.HTTPServer.Timeout,
		c.HTTPServer.WriteTimeout,
		c.HTTPServer.IdleTimeout,
		c.HTTPServer.TrustProxy,
		c.Upstream.Origin,
		c.Upstream.Timeout,
		c.Auth.URL,
		redact(c.Auth.AnonKey),
		redact(c.Auth.JWTSecret),
		redact(c.Storage.ConnectionString),
		redact(c.Storage.ServiceRoleKey),
		c.Redis.Address,
		c.RateLimit.Requests,
		c.RateLimit.Window,
		redact(c.RabbitMQ.URL),
		c.RabbitMQ.Exchange,
	)
}

func redact(secret string) string {
	if secret == "" {
		return "<unset>"
	}
	return "<redacted>"
}
