package config

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	NATS     NATSConfig
	Provider ProviderConfig
	Telegram TelegramConfig
	Check    CheckConfig
	Log      LogConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type NATSConfig struct {
	URL string
}

type ProviderConfig struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
}

type TelegramConfig struct {
	BotToken    string
	AdminChatID int64
	LiveChatID  int64
}

type CheckConfig struct {
	DefaultAmount float64
	GatewayLabel  string
}

type LogConfig struct {
	Level string
	JSON  bool
}

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Load builds the configuration from environment variables with sane
// defaults for local development. All deployment wiring lives here so
// business logic never reads the process environment.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("DATABASE_HOST", "localhost")
	v.SetDefault("DATABASE_PORT", "5432")
	v.SetDefault("DATABASE_USER", "postgres")
	v.SetDefault("DATABASE_PASSWORD", "postgres")
	v.SetDefault("DATABASE_DBNAME", "cardcheck")
	v.SetDefault("DATABASE_SSLMODE", "disable")
	v.SetDefault("NATS_URL", "nats://localhost:4222")
	v.SetDefault("PROVIDER_BASE_URL", "")
	v.SetDefault("PROVIDER_USER_AGENT", defaultUserAgent)
	v.SetDefault("PROVIDER_TIMEOUT_SECONDS", "30")
	v.SetDefault("TELEGRAM_BOT_TOKEN", "")
	v.SetDefault("TELEGRAM_ADMIN_CHAT_ID", "0")
	v.SetDefault("TELEGRAM_LIVE_CHAT_ID", "0")
	v.SetDefault("CHECK_DEFAULT_AMOUNT", "1")
	v.SetDefault("CHECK_GATEWAY_LABEL", "PayU")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_JSON", "false")

	serverPort, err := strconv.Atoi(v.GetString("SERVER_PORT"))
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}

	dbPort, err := strconv.Atoi(v.GetString("DATABASE_PORT"))
	if err != nil {
		return nil, fmt.Errorf("invalid DATABASE_PORT: %w", err)
	}

	providerTimeout, err := strconv.Atoi(v.GetString("PROVIDER_TIMEOUT_SECONDS"))
	if err != nil {
		return nil, fmt.Errorf("invalid PROVIDER_TIMEOUT_SECONDS: %w", err)
	}

	adminChatID, err := strconv.ParseInt(v.GetString("TELEGRAM_ADMIN_CHAT_ID"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid TELEGRAM_ADMIN_CHAT_ID: %w", err)
	}

	liveChatID, err := strconv.ParseInt(v.GetString("TELEGRAM_LIVE_CHAT_ID"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid TELEGRAM_LIVE_CHAT_ID: %w", err)
	}

	defaultAmount, err := strconv.ParseFloat(v.GetString("CHECK_DEFAULT_AMOUNT"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid CHECK_DEFAULT_AMOUNT: %w", err)
	}

	logJSON := false
	if raw := v.GetString("LOG_JSON"); raw != "" {
		logJSON, err = strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid LOG_JSON: %w", err)
		}
	}

	return &Config{
		Server: ServerConfig{
			Host: v.GetString("SERVER_HOST"),
			Port: serverPort,
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DATABASE_HOST"),
			Port:     dbPort,
			User:     v.GetString("DATABASE_USER"),
			Password: v.GetString("DATABASE_PASSWORD"),
			DBName:   v.GetString("DATABASE_DBNAME"),
			SSLMode:  v.GetString("DATABASE_SSLMODE"),
		},
		NATS: NATSConfig{
			URL: v.GetString("NATS_URL"),
		},
		Provider: ProviderConfig{
			BaseURL:   v.GetString("PROVIDER_BASE_URL"),
			UserAgent: v.GetString("PROVIDER_USER_AGENT"),
			Timeout:   time.Duration(providerTimeout) * time.Second,
		},
		Telegram: TelegramConfig{
			BotToken:    v.GetString("TELEGRAM_BOT_TOKEN"),
			AdminChatID: adminChatID,
			LiveChatID:  liveChatID,
		},
		Check: CheckConfig{
			DefaultAmount: defaultAmount,
			GatewayLabel:  v.GetString("CHECK_GATEWAY_LABEL"),
		},
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
			JSON:  logJSON,
		},
	}, nil
}

func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host, c.Database.Port, c.Database.User,
		c.Database.Password, c.Database.DBName, c.Database.SSLMode)
}
