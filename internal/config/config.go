package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Configはアプリ全体の設定
type Config struct {
	Port string `env:"PORT" envDefault:"8080"` // サーバーポート

	// DATABASE_URLがあれば最優先（usersテーブル）
	DatabaseURL      string `env:"DATABASE_URL"`
	PostgresUser     string `env:"POSTGRES_USER" envDefault:"postgres"`
	PostgresPassword string `env:"POSTGRES_PASSWORD" envDefault:"postgres"`
	PostgresDB       string `env:"POSTGRES_DB" envDefault:"app"`
	PostgresHost     string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort     int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresSSLMode  string `env:"POSTGRES_SSLMODE" envDefault:"disable"`

	// 注文はMongoDB
	MongoURI     string        `env:"MONGO_URI" envDefault:"mongodb://localhost:27017/?directConnection=true"`
	MongoDB      string        `env:"MONGO_DB" envDefault:"shop_db"`
	MongoTimeout time.Duration `env:"MONGO_TIMEOUT" envDefault:"5s"`

	// 空ならキャッシュなし
	RedisAddr     string        `env:"REDIS_ADDR"`
	OrderCacheTTL time.Duration `env:"ORDER_CACHE_TTL" envDefault:"60s"`

	// 空ならイベント送信なし
	RabbitURL string `env:"RABBIT_URL"`

	JWTSecret      string        `env:"JWT_SECRET"` // JWT署名シークレット
	AccessTokenTTL time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"15m"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	GoEnv    string `env:"GO_ENV" envDefault:"dev"` // dev/prod
}

// Loadは環境変数
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	//必須チェック
	if cfg.JWTSecret == "" {
		if cfg.GoEnv == "prod" {
			return Config{}, fmt.Errorf("JWT_SECRET is required")
		}
		cfg.JWTSecret = "dev_secret_change_me"
	}
	if cfg.MongoURI == "" {
		return Config{}, fmt.Errorf("MONGO_URI is required")
	}
	if cfg.MongoDB == "" {
		return Config{}, fmt.Errorf("MONGO_DB is required")
	}
	if cfg.MongoTimeout <= 0 {
		return Config{}, fmt.Errorf("MONGO_TIMEOUT must be positive")
	}
	if cfg.AccessTokenTTL <= 0 {
		return Config{}, fmt.Errorf("ACCESS_TOKEN_TTL must be positive")
	}

	return cfg, nil
}

// Addrは":8080"形式で返す
func (c Config) Addr() string {
	if c.Port == "" {
		return ":8080"
	}
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

// PostgresDSNはgorm用の接続文字列
func (c Config) PostgresDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.PostgresHost, c.PostgresPort, c.PostgresUser, c.PostgresPassword, c.PostgresDB, c.PostgresSSLMode,
	)
}
