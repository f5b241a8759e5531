package config

import "os"

type AppConfig struct {
	DebugMode        bool
	HTTPPort         int
	DocStoreConfig   *DocStoreConfig
	RedisConfig      *RedisConfig
	PostgresConfig   *PostgresConfig
	DispatcherConfig *DispatcherConfig
	JwtConfig        *JwtConfig
	SlackAuthConfig  *SlackAuthConfig
}

func NewSystemConfig() *AppConfig {
	return &AppConfig{
		DebugMode:        os.Getenv("DEBUG_MODE") == "true",
		HTTPPort:         getIntEnv("HTTP_PORT", 8082),
		DocStoreConfig:   NewDocStoreConfig(),
		RedisConfig:      NewRedisConfig(),
		PostgresConfig:   NewPostgresConfig(),
		DispatcherConfig: NewDispatcherConfig(),
		JwtConfig:        NewJwtConfig(),
		SlackAuthConfig:  NewSlackAuthConfig(),
	}
}
