package config

type StorageConfig interface {
	GetClientStore() string
	GetRedisAddr() string
	GetRedisPassword() string
	GetRedisDB() int
}

const (
	ClientStoreMemory = "memory"
	ClientStoreRedis  = "redis"
)

type Storage struct{}

var _ StorageConfig = Storage{}

// GetClientStore selects where the server keeps per-session backend tokens.
func (Storage) GetClientStore() string {
	return GetEnv("CLIENT_STORE", ClientStoreMemory)
}

func (Storage) GetRedisAddr() string {
	return GetEnv("REDIS_ADDR", "localhost:6379")
}

func (Storage) GetRedisPassword() string {
	return GetEnv("REDIS_PASSWORD", "")
}

func (Storage) GetRedisDB() int {
	return GetEnvInt("REDIS_DB", 0)
}
