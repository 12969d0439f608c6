package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`

	MySQLDSN string `env:"MYSQL_DSN" envDefault:"user:password@tcp(127.0.0.1:3306)/civicreport?charset=utf8mb4&parseTime=True"`

	RedisAddr     string `env:"REDIS_ADDR" envDefault:"127.0.0.1:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	AccessSecret  string `env:"JWT_ACCESS_SECRET" envDefault:"secret-key"`
	RefreshSecret string `env:"JWT_REFRESH_SECRET" envDefault:"refresh-key"`

	// 留空则不启用 kafka 镜像
	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:","`
	KafkaTopic   string   `env:"KAFKA_TOPIC" envDefault:"moderation-events"`

	// 留空则推送降级为日志输出（本地开发）
	FCMCredentialsFile string `env:"FCM_CREDENTIALS_FILE"`

	PushTimeout time.Duration `env:"PUSH_TIMEOUT" envDefault:"5s"`
	OutboxTick  time.Duration `env:"OUTBOX_TICK" envDefault:"1s"`
	OutboxBatch int           `env:"OUTBOX_BATCH" envDefault:"200"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
