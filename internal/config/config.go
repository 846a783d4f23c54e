package config

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config определяет структуру конфигурации всего приложения целиком
type Config struct {
	HTTPServer `yaml:"http_server"`
	Storage    `yaml:"storage"`
	Postgres   `yaml:"postgres"`
	Kafka      `yaml:"kafka"`
	Logger     `yaml:"logger"`
	Owner      `yaml:"owner"`
	Media      `yaml:"media"`
	Contacts   `yaml:"contacts"`
	Catalog    []Product `yaml:"catalog"`
	Locale     `yaml:"locale"`
}

// HTTPServer содержит конфигурацию для HTTP-сервера
// ключи SessionKey и CSRFKey берутся только из окружения, не из файла
type HTTPServer struct {
	Port         string        `yaml:"port"`
	Timeout      time.Duration `yaml:"timeout"`
	WebDir       string        `yaml:"web_dir"`
	CookieSecure bool          `yaml:"cookie_secure"`
	CookieDomain string        `yaml:"cookie_domain"`
	CSRFEnabled  bool          `yaml:"csrf_enabled"`
	SessionKey   []byte        `yaml:"-"`
	CSRFKey      []byte        `yaml:"-"`
}

// Storage выбирает бэкенд key-value хранилища: memory, sqlite или postgres
type Storage struct {
	Driver     string `yaml:"driver"`
	SQLitePath string `yaml:"sqlite_path"`
}

// Postgres содержит конфигурацию для подключения к базе данных
type Postgres struct {
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	DBName   string `yaml:"db_name"`
	SSLMode  string `yaml:"ssl_mode"`
}

// Kafka содержит конфигурацию для подключения к кафке
type Kafka struct {
	Enabled bool     `yaml:"enabled"`
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
	GroupID string   `yaml:"group_id"`
}

// Logger содержит конфигурацию для логгера
type Logger struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Owner - единственный владелец, которому доступна админка
type Owner struct {
	Email        string `yaml:"email"`
	PasswordHash string `yaml:"password_hash"`
	DisplayName  string `yaml:"display_name"`
}

// Media задаёт ограничения на загружаемые картинки
// MaxWidth = 0 оставляет оригиналы как есть
type Media struct {
	MaxUploadBytes int64 `yaml:"max_upload_bytes"`
	MaxWidth       uint  `yaml:"max_width"`
}

// Contacts - фиксированные внешние ссылки витрины
type Contacts struct {
	ProductWhatsApp string   `yaml:"product_whatsapp"`
	PricingWhatsApp string   `yaml:"pricing_whatsapp"`
	ShopName        string   `yaml:"shop_name"`
	Instagram       string   `yaml:"instagram"`
	Phones          []string `yaml:"phones"`
}

// Product - одна позиция каталога на /products
type Product struct {
	Name  string `yaml:"name"`
	Price int64  `yaml:"price"`
	Image string `yaml:"image"`
}

// Locale определяет, в каком часовом поясе рисуются даты
type Locale struct {
	TimeZone string `yaml:"time_zone"`
}

// MustLoad загружает конфигурацию из файла по указанному пути
// в случае ошибки программа завершается с фатальной ошибкой
func MustLoad(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		log.Fatal(err)
	}
	return cfg
}

// Load читает YAML-файл, проставляет значения по умолчанию и секреты из окружения
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		return nil, fmt.Errorf("CONFIG_PATH is not set")
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configPath)
	}

	file, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(file)
}

// Parse разбирает YAML в Config
func Parse(raw []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	cfg.SessionKey = secretFromEnv("SESSION_KEY")
	cfg.CSRFKey = secretFromEnv("CSRF_KEY")

	return &cfg, nil
}

// Path возвращает путь к конфигу, CONFIG_PATH важнее значения по умолчанию
func Path() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return "config/config.yaml"
}

// TimeLocation возвращает часовой пояс из конфига, при ошибке - локальный
func (l Locale) TimeLocation() *time.Location {
	if l.TimeZone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(l.TimeZone)
	if err != nil {
		slog.Warn("unknown time zone, using local time", slog.String("time_zone", l.TimeZone))
		return time.Local
	}
	return loc
}

func (c *Config) applyDefaults() {
	if c.HTTPServer.Port == "" {
		c.HTTPServer.Port = ":8080"
	}
	if c.HTTPServer.Timeout == 0 {
		c.HTTPServer.Timeout = 30 * time.Second
	}
	if c.HTTPServer.WebDir == "" {
		c.HTTPServer.WebDir = "./web"
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "sqlite"
	}
	if c.Storage.SQLitePath == "" {
		c.Storage.SQLitePath = "./boutique.db"
	}
	if c.Logger.Level == "" {
		c.Logger.Level = "INFO"
	}
	if c.Owner.DisplayName == "" {
		c.Owner.DisplayName = "Dream Girl Boutique"
	}
	if c.Media.MaxUploadBytes == 0 {
		c.Media.MaxUploadBytes = 10 << 20
	}
	if c.Contacts.ShopName == "" {
		c.Contacts.ShopName = c.Owner.DisplayName
	}
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case "memory", "sqlite", "postgres":
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	if c.Kafka.Enabled && (len(c.Kafka.Brokers) == 0 || c.Kafka.Topic == "") {
		return fmt.Errorf("kafka is enabled but brokers or topic are missing")
	}
	return nil
}

// secretFromEnv декодирует base64-ключ длиной от 32 байт
// если ключа нет или он короткий, генерируем случайный (только для разработки)
func secretFromEnv(name string) []byte {
	raw := os.Getenv(name)
	if raw == "" {
		slog.Warn("secret not set, generating a random one; sessions will not survive a restart", slog.String("env", name))
		return randomBytes(32)
	}
	decoded, err := base64.StdEncoding.DecodeString(raw)
	if err != nil || len(decoded) < 32 {
		slog.Warn("secret is invalid or shorter than 32 bytes, generating a random one", slog.String("env", name))
		return randomBytes(32)
	}
	return decoded
}

func randomBytes(n int) []byte {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return b
}
