package config

type StorageType string

const STORAGE_TYPE_REDIS StorageType = "redis"
const STORAGE_TYPE_INMEM StorageType = "memory"

type Config struct {
	HttpPort             int
	StorageType          StorageType
	RedisConfig          RedisStorageConfig
	StoreDBPath          string
	NodeTimeoutSeconds   int
	SchedulerTickSeconds int
	Payment              PaymentConfig
	Email                EmailConfig
	Webhook              WebhookConfig
}

type RedisStorageConfig struct {
	Addrs     []string
	Namespace string
}

// Adapter credentials come from process configuration; a missing
// required credential fails the adapter at startup, never at execution
// time.
type PaymentConfig struct {
	APIKey  string
	BaseURL string
}

type EmailConfig struct {
	APIKey  string
	BaseURL string
}

type WebhookConfig struct {
	DefaultURL string
}
