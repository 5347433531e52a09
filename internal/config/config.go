package config

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Config хранит конфигурацию сервера
type Config struct {
	ServerAddress    string        `json:"server_address"`
	BaseURL          string        `json:"base_url"`
	DatabaseDSN      string        `json:"database_dsn"`
	PgMigrationsPath string        `json:"pg_migrations_path"`
	AuthSecret       string        `json:"auth_secret"`
	CleanupDays      int           `json:"cleanup_expire_days"`
	CleanupInterval  time.Duration `json:"cleanup_interval"`
	EnableHTTPS      bool          `json:"enable_https"`
	TLSCertPath      string        `json:"tls_cert_path"`
	TLSKeyPath       string        `json:"tls_key_path"`
}

// NewConfig инициализирует конфигурацию на основе окружения и аргументов командной строки
func NewConfig() *Config {

	viper.SetDefault("SERVER_ADDRESS", "localhost:8080") // Значения по умолчанию
	viper.SetDefault("BASE_URL", "http://localhost:8080")
	viper.SetDefault("DATABASE_DSN", "")
	viper.SetDefault("PG_MIGRATIONS_PATH", "internal/migrations")
	viper.SetDefault("AUTH_SECRET", "dev-secret")
	viper.SetDefault("CLEANUP_EXPIRE_DAYS", 10)
	viper.SetDefault("CLEANUP_INTERVAL", "24h")
	viper.SetDefault("ENABLE_HTTPS", false)
	viper.SetDefault("TLS_CERT_PATH", "cert.pem")
	viper.SetDefault("TLS_KEY_PATH", "key.pem")

	viper.AutomaticEnv()

	// Читаем .env, если есть (не переопределяет переменные окружения!)
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig() // Ошибку игнорируем, если файла нет

	// Определяем флаги, но НЕ задаем в них значения по умолчанию
	serverAddress := flag.String("a", "", "server address")
	baseURL := flag.String("b", "", "base URL")
	databaseDSN := flag.String("d", "", "PostgreSQL DSN")
	cleanupDays := flag.Int("e", 0, "days of inactivity before cleanup")
	enableHTTPS := flag.Bool("s", false, "enable HTTPS")
	tlsCertPath := flag.String("cert", "", "path to TLS certificate")
	tlsKeyPath := flag.String("key", "", "path to TLS key")
	configPath := flag.String("c", "", "path to JSON config file")
	flag.StringVar(configPath, "config", "", "path to JSON config file")

	flag.Parse()

	// Загружаем JSON-конфигурацию (если указана)
	if *configPath == "" {
		*configPath = os.Getenv("CONFIG")
	}

	cfg := &Config{}
	if *configPath != "" {
		data, err := os.ReadFile(*configPath)
		if err != nil {
			log.Printf("Не удалось прочитать JSON-файл конфигурации %q: %v", *configPath, err)
		} else if err := json.Unmarshal(data, cfg); err != nil {
			log.Printf("Ошибка разбора JSON-файла конфигурации: %v", err)
		}
	}

	// Переменные окружения имеют высший приоритет
	override := func(env string, target *string) {
		if val := viper.GetString(env); val != "" {
			*target = val
		}
	}
	override("SERVER_ADDRESS", &cfg.ServerAddress)
	override("BASE_URL", &cfg.BaseURL)
	override("DATABASE_DSN", &cfg.DatabaseDSN)
	override("PG_MIGRATIONS_PATH", &cfg.PgMigrationsPath)
	override("AUTH_SECRET", &cfg.AuthSecret)
	override("TLS_CERT_PATH", &cfg.TLSCertPath)
	override("TLS_KEY_PATH", &cfg.TLSKeyPath)
	if v := viper.GetInt("CLEANUP_EXPIRE_DAYS"); v > 0 {
		cfg.CleanupDays = v
	}
	if v := viper.GetDuration("CLEANUP_INTERVAL"); v > 0 {
		cfg.CleanupInterval = v
	}
	cfg.EnableHTTPS = viper.GetBool("ENABLE_HTTPS")

	// Если флаг передан, но переменной окружения нет — используем флаг
	if *serverAddress != "" {
		cfg.ServerAddress = *serverAddress
	}
	if *baseURL != "" {
		cfg.BaseURL = *baseURL
	}
	if *databaseDSN != "" {
		cfg.DatabaseDSN = *databaseDSN
		os.Setenv("DATABASE_DSN", cfg.DatabaseDSN)
	}
	if *cleanupDays > 0 {
		cfg.CleanupDays = *cleanupDays
	}

	// Включаем TLS
	if *enableHTTPS {
		cfg.EnableHTTPS = true
	}
	if *tlsCertPath != "" {
		cfg.TLSCertPath = *tlsCertPath
	}
	if *tlsKeyPath != "" {
		cfg.TLSKeyPath = *tlsKeyPath
	}

	log.Printf("Инициализация конфигурации: ServerAddress=%s", cfg.ServerAddress)
	log.Printf("Инициализация конфигурации: BaseURL=%s", cfg.BaseURL)
	log.Printf("Инициализация конфигурации: PgMigrationsPath=%s", cfg.PgMigrationsPath)
	log.Printf("Инициализация конфигурации: CleanupDays=%d", cfg.CleanupDays)
	log.Printf("Инициализация конфигурации: CleanupInterval=%s", cfg.CleanupInterval)
	log.Printf("Инициализация конфигурации: EnableHTTPS=%v", cfg.EnableHTTPS)

	// Проверка корректности конфигурации
	if err := cfg.Validate(); err != nil {
		fmt.Printf("Ошибка конфигурации: %v\n", err)
	}

	return cfg
}

// Validate проверяет корректность конфигурации
func (cfg *Config) Validate() error {
	if cfg.ServerAddress == "" {
		return fmt.Errorf("адрес сервера не может быть пустым")
	}
	if cfg.BaseURL == "" {
		return fmt.Errorf("базовый URL не может быть пустым")
	}
	if cfg.DatabaseDSN == "" {
		return fmt.Errorf("адрес подключения к БД не может быть пустым")
	}
	if cfg.CleanupDays <= 0 {
		return fmt.Errorf("окно очистки должно быть положительным")
	}
	return nil
}
