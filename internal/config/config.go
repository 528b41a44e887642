// Package config предоставляет структуры и функцию для парсинга и загрузки конфига
package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек
type Config struct {
	Env                     string `yaml:"env" env:"ENV" env-default:"local"`
	StorageConnectionString string `yaml:"storage_connection_string" env:"STORAGE_CONNECTION_STRING"`
	MigrationsPath          string `yaml:"migrations_path" env-default:"./migrations"`
	RabbitURL               string `yaml:"rabbit_url" env:"RABBIT_URL"`
	RabbitMaxRetries        int    `yaml:"rabbit_max_retries" env-default:"5"`
	RabbitRetryDelay        time.Duration `yaml:"rabbit_retry_delay" env-default:"3s"`
	RedisConnection         `yaml:"redis_connection"`
	HTTPServer              `yaml:"http_server"`
	JWTToken                `yaml:"jwttoken"`
	LicenseServer           `yaml:"license_server"`
	AdminBootstrap          `yaml:"admin_bootstrap"`
	SMTP                    `yaml:"smtp"`
}

// SMTP структура с настройками почтового сервера для уведомлений.
type SMTP struct {
	SMTPHost string `yaml:"host" env:"SMTP_HOST"`
	SMTPPort string `yaml:"port" env:"SMTP_PORT" env-default:"587"`
	SMTPUser string `yaml:"user" env:"SMTP_USER"`
	SMTPPass string `yaml:"pass" env:"SMTP_PASS"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env-default:":8080"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env-default:"10s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// RedisConnection структура для настройки подключения к redis
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis" env:"REDIS_ADDRESS"`
	Password     string        `yaml:"password" env:"REDIS_PASSWORD"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries"`
	DialTimeout  time.Duration `yaml:"dial_timeout" env-default:"5s"`
	TimeoutRedis time.Duration `yaml:"timeoutredis" env-default:"5s"`
}

// JWTToken структура для работы с jwt-токеном
type JWTToken struct {
	JWTSecretKey string        `yaml:"jwt_secret_key" env:"JWT_SECRET_KEY"`
	TokenTTL     time.Duration `yaml:"token_ttl" env-default:"24h"`
}

// LicenseServer структура с настройками внешнего лицензионного сервера.
//
// Пустой URL означает, что проверка лицензии отключена (локальный режим).
// Key, заданный через переменную окружения, имеет приоритет над ключом,
// сохранённым администратором в базе данных.
type LicenseServer struct {
	URL         string `yaml:"url" env:"LICENSE_SERVER_URL"`
	ProductName string `yaml:"product_name" env:"LICENSE_PRODUCT_NAME" env-default:"TenderSystem"`
	Key         string `yaml:"key" env:"LICENSE_KEY"`
}

// AdminBootstrap учетные данные стартового администратора.
// Используются один раз: если в базе ещё нет ни одного администратора.
type AdminBootstrap struct {
	AdminEmail    string `yaml:"admin_email" env:"ADMIN_EMAIL" env-default:"admin@example.com"`
	AdminPassword string `yaml:"admin_password" env:"ADMIN_PASSWORD" env-default:"admin123"`
	AdminFullName string `yaml:"admin_full_name" env-default:"Administrator"`
}

// MustLoad функция для загрузки конфига, путь к файлу берётся из CONFIG_PATH
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("file: %s - does not exist", configPath)
	}
	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return &cfg
}
