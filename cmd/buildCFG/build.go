package buildCFG

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/config"
	"github.com/wb-go/wbf/dbpg"
)

type ServerConfig struct {
	Port string
}

type RabbitConfig struct {
	Url      string
	Exchange string
	Queue    string
}

type SMTPConfig struct {
	Host     string
	Port     string
	From     string
	Password string
}

type AuthConfig struct {
	Secret   []byte
	TokenTTL time.Duration
}

func BuildServerConfig(cfg *config.Config, log *zerolog.Logger) *ServerConfig {
	port := cfg.GetString("server.port")
	if port == "" {
		port = "8080"
		log.Warn().Msg("server.port not set, using 8080")
	}
	return &ServerConfig{Port: port}
}

func BuildDBConfig(cfg *config.Config, log *zerolog.Logger) (string, []string, *dbpg.Options, error) {
	masterDSN := cfg.GetString("database.master_dsn")
	if masterDSN == "" {
		return "", nil, nil, fmt.Errorf("database.master_dsn is required")
	}
	slaveDSNs := cfg.GetStringSlice("database.slave_dsns")

	opts := &dbpg.Options{
		MaxOpenConns:    cfg.GetInt("database.max_open_conns"),
		MaxIdleConns:    cfg.GetInt("database.max_idle_conns"),
		ConnMaxLifetime: cfg.GetDuration("database.conn_max_lifetime"),
	}

	log.Info().Int("slaves", len(slaveDSNs)).Msg("database configuration built")
	return masterDSN, slaveDSNs, opts, nil
}

func BuildRabbitConfig(cfg *config.Config, log *zerolog.Logger) (*RabbitConfig, error) {
	url := cfg.GetString("rabbit.url")
	if url == "" {
		return nil, fmt.Errorf("rabbit.url is required")
	}
	rc := &RabbitConfig{
		Url:      url,
		Exchange: cfg.GetString("rabbit.exchange"),
		Queue:    cfg.GetString("rabbit.queue"),
	}
	if rc.Exchange == "" {
		rc.Exchange = "event.cancelled"
	}
	if rc.Queue == "" {
		rc.Queue = "event.cancelled.notify"
	}
	log.Info().Str("exchange", rc.Exchange).Str("queue", rc.Queue).Msg("rabbit configuration built")
	return rc, nil
}

func BuildSMTPConfig(cfg *config.Config, log *zerolog.Logger) (*SMTPConfig, error) {
	sc := &SMTPConfig{
		Host:     cfg.GetString("smtp.host"),
		Port:     cfg.GetString("smtp.port"),
		From:     cfg.GetString("smtp.from"),
		Password: cfg.GetString("smtp.password"),
	}
	if sc.Host == "" || sc.From == "" {
		return nil, fmt.Errorf("smtp.host and smtp.from are required")
	}
	if sc.Port == "" {
		sc.Port = "587"
	}
	log.Info().Str("host", sc.Host).Str("from", sc.From).Msg("smtp configuration built")
	return sc, nil
}

func BuildAuthConfig(cfg *config.Config, log *zerolog.Logger) (*AuthConfig, error) {
	secret := cfg.GetString("auth.secret")
	if secret == "" {
		return nil, fmt.Errorf("auth.secret is required")
	}
	ttl := cfg.GetDuration("auth.token_ttl")
	if ttl == 0 {
		ttl = 24 * time.Hour
		log.Warn().Msg("auth.token_ttl not set, using 24h")
	}
	return &AuthConfig{Secret: []byte(secret), TokenTTL: ttl}, nil
}
