// Package config предоставялет структуры и функции для парсинга и загрузки конфига
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек
type Config struct {
	Env                     string           `yaml:"env" env:"APP_ENV" env-default:"local"`
	StorageConnectionString string           `yaml:"storage_connection_string" env:"STORAGE_CONNECTION_STRING"`
	MigrationsPath          string           `yaml:"migrations_path" env-default:"./migrations"`
	Plans                   map[string]int64 `yaml:"plans"`
	HTTPServer              `yaml:"http_server"`
	PaymentProvider         PaymentProvider   `yaml:"payment_provider"`
	RedisConnection         RedisConnection   `yaml:"redis_connection"`
	RabbitMQ                RabbitMQ          `yaml:"rabbitmq"`
	ProvisioningToken       ProvisioningToken `yaml:"provisioning_token"`
	RateLimit               RateLimit         `yaml:"rate_limit"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env-default:":8080"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env-default:"30s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// PaymentProvider настройки подключения к Razorpay
type PaymentProvider struct {
	KeyID         string        `yaml:"key_id" env:"RAZORPAY_KEY_ID"`
	KeySecret     string        `yaml:"key_secret" env:"RAZORPAY_KEY_SECRET"`
	WebhookSecret string        `yaml:"webhook_secret" env:"RAZORPAY_WEBHOOK_SECRET"`
	APIURL        string        `yaml:"api_url" env-default:"https://api.razorpay.com/v1"`
	Currency      string        `yaml:"currency" env-default:"INR"`
	Timeout       time.Duration `yaml:"timeout" env-default:"10s"`
}

// RedisConnection структура для настройки подключения к redis.
// Пустой адрес отключает кэш заказов.
type RedisConnection struct {
	Addr        string        `yaml:"addressredis" env:"REDIS_ADDR"`
	Password    string        `yaml:"password" env:"REDIS_PASSWORD"`
	User        string        `yaml:"user"`
	DB          int           `yaml:"db"`
	MaxRetries  int           `yaml:"max_retries" env-default:"3"`
	DialTimeout time.Duration `yaml:"dial_timeout" env-default:"5s"`
	Timeout     time.Duration `yaml:"timeoutredis" env-default:"3s"`
	OrderTTL    time.Duration `yaml:"order_ttl" env-default:"24h"`
}

// RabbitMQ настройки публикации событий о подтверждённых платежах
type RabbitMQ struct {
	URL        string        `yaml:"url" env:"RABBITMQ_URL"`
	Exchange   string        `yaml:"exchange" env-default:"payments"`
	Queue      string        `yaml:"queue" env-default:"license-provisioning"`
	RoutingKey string        `yaml:"routing_key" env-default:"payment.verified"`
	Retries    int           `yaml:"retries" env-default:"5"`
	RetryDelay time.Duration `yaml:"retry_delay" env-default:"2s"`
}

// ProvisioningToken настройки токена, выдаваемого после подтверждения оплаты
type ProvisioningToken struct {
	SecretKey string        `yaml:"secret_key" env:"PROVISIONING_TOKEN_SECRET"`
	TTL       time.Duration `yaml:"ttl" env-default:"15m"`
}

// RateLimit настройки ограничения частоты запросов к платёжным эндпоинтам
type RateLimit struct {
	RPS   float64 `yaml:"rps" env-default:"5"`
	Burst int     `yaml:"burst" env-default:"10"`
}

// MustLoad функция для загрузки конфига по пути из CONFIG_PATH, завершает процесс при ошибке
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("file: %s - does not exist", configPath)
	}
	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return cfg
}

// Load читает конфиг из файла, переменные окружения перекрывают значения из файла.
func Load(configPath string) (*Config, error) {
	const op = "config.Load"
	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &cfg, nil
}

// Validate проверяет обязательные поля.
func (c *Config) Validate() error {
	if len(c.Plans) == 0 {
		return errors.New("plans must not be empty")
	}
	for id, price := range c.Plans {
		if price <= 0 {
			return fmt.Errorf("plan %q: price must be positive", id)
		}
	}
	if c.PaymentProvider.KeyID == "" || c.PaymentProvider.KeySecret == "" {
		return errors.New("payment provider key id and secret are required")
	}
	return nil
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	return "***"
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"StorageConnectionString: %s\n"+
			"Plans: %d\n"+
			"HTTPServer:\n"+
			"  Address: %s\n"+
			"  Timeout: %s\n"+
			"  IdleTimeout: %s\n"+
			"PaymentProvider:\n"+
			"  KeyID: %s\n"+
			"  KeySecret: %s\n"+
			"  WebhookSecret: %s\n"+
			"  APIURL: %s\n"+
			"  Currency: %s\n"+
			"  Timeout: %s\n"+
			"RedisConnection:\n"+
			"  Addr: %s\n"+
			"  Password: %s\n"+
			"RabbitMQ:\n"+
			"  URL: %s\n"+
			"  Exchange: %s\n"+
			"ProvisioningToken:\n"+
			"  SecretKey: %s\n"+
			"  TTL: %s\n",
		c.Env,
		mask(c.StorageConnectionString),
		len(c.Plans),
		c.AddressHTTP,
		c.TimeoutHTTP,
		c.IdleTimeout,
		c.PaymentProvider.KeyID,
		mask(c.PaymentProvider.KeySecret),
		mask(c.PaymentProvider.WebhookSecret),
		c.PaymentProvider.APIURL,
		c.PaymentProvider.Currency,
		c.PaymentProvider.Timeout,
		c.RedisConnection.Addr,
		mask(c.RedisConnection.Password),
		mask(c.RabbitMQ.URL),
		c.RabbitMQ.Exchange,
		mask(c.ProvisioningToken.SecretKey),
		c.ProvisioningToken.TTL,
	)
}
