package config

// Document store drivers.
const (
	DocStoreDriverRedis    = "redis"
	DocStoreDriverPostgres = "postgres"
	DocStoreDriverMemory   = "memory"
)

type DocStoreConfig struct {
	Driver string
}

func NewDocStoreConfig() *DocStoreConfig {
	return &DocStoreConfig{
		Driver: getEnv("DOCSTORE_DRIVER", DocStoreDriverRedis),
	}
}
