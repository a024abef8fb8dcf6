package bootstrap

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	ServiceName    string
	CustodyAccount string

	HTTPPort int
	GRPCPort int

	DatabaseURL   string
	RedisURL      string
	KafkaBrokers  []string
	KYCOracleAddr string

	MaxDBConns int32

	JWTSecret   string
	DevAuthMode bool

	OutboxPollInterval time.Duration
	OutboxBatchSize    int

	AnalyticsTopic string
	DLQTopic       string

	KYCCacheTTL time.Duration

	AdminAccount string
}

type configFile struct {
	Service struct {
		Name           string `yaml:"name"`
		CustodyAccount string `yaml:"custody_account"`
		HTTPPort       int    `yaml:"http_port"`
		GRPCPort       int    `yaml:"grpc_port"`
		AdminAccount   string `yaml:"admin_account"`
	} `yaml:"service"`
	Dependencies struct {
		PostgresURL   string   `yaml:"postgres_url"`
		RedisURL      string   `yaml:"redis_url"`
		KafkaBrokers  []string `yaml:"kafka_brokers"`
		KYCOracleAddr string   `yaml:"kyc_oracle_addr"`
	} `yaml:"dependencies"`
	Events struct {
		AnalyticsTopic string `yaml:"analytics_topic"`
		DLQTopic       string `yaml:"dlq_topic"`
	} `yaml:"events"`
	Auth struct {
		JWTSecret   string `yaml:"jwt_secret"`
		DevAuthMode bool   `yaml:"dev_auth_mode"`
	} `yaml:"auth"`
}

func LoadConfig(path string) (Config, error) {
	cfg := Config{
		ServiceName:        "nexus-ledger",
		CustodyAccount:     "nexus-custody",
		HTTPPort:           8080,
		GRPCPort:           9090,
		MaxDBConns:         20,
		OutboxPollInterval: 2 * time.Second,
		OutboxBatchSize:    100,
		AnalyticsTopic:     "nexus-ledger.analytics",
		DLQTopic:           "nexus-ledger.dlq",
		KYCCacheTTL:        15 * time.Minute,
		AdminAccount:       "nexus-admin",
	}

	raw, err := os.ReadFile(path)
	if err == nil {
		var f configFile
		if unmarshalErr := yaml.Unmarshal(raw, &f); unmarshalErr != nil {
			return Config{}, fmt.Errorf("parse config file: %w", unmarshalErr)
		}
		if f.Service.Name != "" {
			cfg.ServiceName = f.Service.Name
		}
		if f.Service.CustodyAccount != "" {
			cfg.CustodyAccount = f.Service.CustodyAccount
		}
		if f.Service.HTTPPort > 0 {
			cfg.HTTPPort = f.Service.HTTPPort
		}
		if f.Service.GRPCPort > 0 {
			cfg.GRPCPort = f.Service.GRPCPort
		}
		if f.Service.AdminAccount != "" {
			cfg.AdminAccount = f.Service.AdminAccount
		}
		cfg.DatabaseURL = f.Dependencies.PostgresURL
		cfg.RedisURL = f.Dependencies.RedisURL
		if len(f.Dependencies.KafkaBrokers) > 0 {
			cfg.KafkaBrokers = trimNonEmpty(f.Dependencies.KafkaBrokers)
		}
		cfg.KYCOracleAddr = f.Dependencies.KYCOracleAddr
		if f.Events.AnalyticsTopic != "" {
			cfg.AnalyticsTopic = f.Events.AnalyticsTopic
		}
		if f.Events.DLQTopic != "" {
			cfg.DLQTopic = f.Events.DLQTopic
		}
		cfg.JWTSecret = f.Auth.JWTSecret
		cfg.DevAuthMode = f.Auth.DevAuthMode
	}

	cfg.ServiceName = envOrDefault("SERVICE_NAME", cfg.ServiceName)
	cfg.CustodyAccount = envOrDefault("CUSTODY_ACCOUNT", cfg.CustodyAccount)
	cfg.AdminAccount = envOrDefault("ADMIN_ACCOUNT", cfg.AdminAccount)
	cfg.DatabaseURL = envOrDefault("DB_URL", envOrDefault("POSTGRES_URL", cfg.DatabaseURL))
	cfg.RedisURL = envOrDefault("REDIS_URL", cfg.RedisURL)
	cfg.KafkaBrokers = envCSV("KAFKA_BROKERS", cfg.KafkaBrokers)
	cfg.KYCOracleAddr = envOrDefault("KYC_ORACLE_ADDR", cfg.KYCOracleAddr)
	cfg.AnalyticsTopic = envOrDefault("ANALYTICS_TOPIC", cfg.AnalyticsTopic)
	cfg.DLQTopic = envOrDefault("DLQ_TOPIC", cfg.DLQTopic)
	cfg.JWTSecret = envOrDefault("JWT_SECRET", cfg.JWTSecret)
	cfg.DevAuthMode = envBool("DEV_AUTH_MODE", cfg.DevAuthMode)
	cfg.HTTPPort = envInt("HTTP_PORT", cfg.HTTPPort)
	cfg.GRPCPort = envInt("GRPC_PORT", cfg.GRPCPort)
	cfg.MaxDBConns = int32(envInt("DB_MAX_CONNS", int(cfg.MaxDBConns)))
	cfg.OutboxPollInterval = time.Duration(envInt("OUTBOX_POLL_SECONDS", int(cfg.OutboxPollInterval.Seconds()))) * time.Second
	cfg.OutboxBatchSize = envInt("OUTBOX_BATCH_SIZE", cfg.OutboxBatchSize)
	cfg.KYCCacheTTL = time.Duration(envInt("KYC_CACHE_SECONDS", int(cfg.KYCCacheTTL.Seconds()))) * time.Second

	if !cfg.DevAuthMode && cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("missing JWT_SECRET (or set DEV_AUTH_MODE=true)")
	}
	return cfg, nil
}

func envOrDefault(name, fallback string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}
	return fallback
}

func envInt(name string, fallback int) int {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func envBool(name string, fallback bool) bool {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	switch strings.ToLower(raw) {
	case "1", "true", "yes":
		return true
	case "0", "false", "no":
		return false
	default:
		return fallback
	}
}

func envCSV(name string, fallback []string) []string {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	return trimNonEmpty(strings.Split(raw, ","))
}

func trimNonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
