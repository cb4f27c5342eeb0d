package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
)

// Configはアプリ全体の設定。
// mainで1回だけ読み込み、必要なコンポーネントへ明示的に渡す。
type Config struct {
	Port string `env:"PORT" envDefault:"8080"`

	DatabaseURL string `env:"DATABASE_URL"`

	PostgresUser     string `env:"POSTGRES_USER"`
	PostgresPassword string `env:"POSTGRES_PASSWORD"`
	PostgresDB       string `env:"POSTGRES_DB"`
	PostgresHost     string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort     int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresSSLMode  string `env:"POSTGRES_SSLMODE" envDefault:"disable"`

	JWTSecret string `env:"JWT_SECRET"`

	Stripe Stripe `envPrefix:"STRIPE_"`

	Notify Notify `envPrefix:"NOTIFY_"`
}

// 決済プロバイダ（Stripe）の設定
type Stripe struct {
	BaseAPIURL string `env:"BASE_API_URL" envDefault:"https://api.stripe.com"`
	SecretKey  string `env:"SECRET_KEY"`

	//webhook署名検証の共有シークレット
	WebhookSecret string `env:"WEBHOOK_SECRET"`

	Currency string `env:"CURRENCY" envDefault:"usd"`

	//決済完了/キャンセル後にユーザーを戻すURL
	SuccessURL string `env:"SUCCESS_URL"`
	CancelURL  string `env:"CANCEL_URL"`
}

// 注文確認通知キュー（SQS）の設定
type Notify struct {
	QueueURL string `env:"QUEUE_URL"`
}

// Loadは環境変数から設定を読み込む
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}

	//必須チェック
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.Stripe.SecretKey == "" {
		return Config{}, fmt.Errorf("STRIPE_SECRET_KEY is required")
	}
	if cfg.Stripe.WebhookSecret == "" {
		return Config{}, fmt.Errorf("STRIPE_WEBHOOK_SECRET is required")
	}

	return cfg, nil
}
