package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Operator OperatorConfig `mapstructure:"operator"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
}

type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	Env          string        `mapstructure:"env"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type DatabaseConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

type JWTConfig struct {
	Secret string        `mapstructure:"secret"`
	Expiry time.Duration `mapstructure:"expiry"`
	Issuer string        `mapstructure:"issuer"`
}

// OperatorConfig seeds the default back-office account on first boot.
type OperatorConfig struct {
	Email    string `mapstructure:"email"`
	Password string `mapstructure:"password"`
}

// RedisConfig is optional; an empty Addr disables the distribution lock.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// KafkaConfig is optional; no brokers means the row-change feed consumer is
// not started and reconciliation is driven by HTTP webhooks only.
type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
	Group   string   `mapstructure:"group"`
}

// Load reads config.yaml from the working directory (if present), then
// environment variables prefixed with BGS_, then falls back to defaults.
func Load() *Config {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.SetEnvPrefix("BGS")
	v.AutomaticEnv()

	v.SetDefault("server.port", "8090")
	v.SetDefault("server.env", "development")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)
	v.SetDefault("database.dsn", "bgs:bgs@tcp(localhost:3306)/bgsbusiness?charset=utf8mb4&parseTime=True&loc=Local")
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 100)
	v.SetDefault("database.conn_max_lifetime", time.Hour)
	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.expiry", 12*time.Hour)
	v.SetDefault("jwt.issuer", "bgsbusiness")
	v.SetDefault("operator.email", "ops@bgsbusiness.example")
	v.SetDefault("operator.password", "change-me")
	v.SetDefault("kafka.topic", "ledger.row-changes")
	v.SetDefault("kafka.group", "wallet-reconciler")

	if err := v.ReadInConfig(); err != nil {
		log.Printf("[Config] no config file found, using defaults and env")
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		log.Fatalf("[Config] unmarshal: %v", err)
	}
	return cfg
}
