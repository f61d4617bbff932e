package config

import (
	"log"

	"github.com/spf13/viper"
)

type WebServerConfig struct {
	Port            string `mapstructure:"port"`
	IP              string `mapstructure:"ip"`
	Scheme          string `mapstructure:"scheme"`
	BaseURL         string `mapstructure:"base_url"`
	ReadTimeout     int    `mapstructure:"read_timeout"`
	WriteTimeout    int    `mapstructure:"write_timeout"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"`
}

type StorageConfig struct {
	// Backend selects the durable store: memory, file, redis or sqlite.
	Backend          string `mapstructure:"backend"`
	FilePath         string `mapstructure:"file_path"`
	SQLitePath       string `mapstructure:"sqlite_path"`
	RedisKey         string `mapstructure:"redis_key"`
	OperationTimeout int    `mapstructure:"operation_timeout"`
}

type RedisConfig struct {
	Address      string `mapstructure:"address"`
	Password     string `mapstructure:"password"`
	DB           int    `mapstructure:"db"`
	PoolSize     int    `mapstructure:"pool_size"`
	MinIdleConns int    `mapstructure:"min_idle_conns"`
}

type ShortenerConfig struct {
	DefaultValidityMinutes int `mapstructure:"default_validity_minutes"`
	CodeLength             int `mapstructure:"code_length"`
	MaxGenerateRetries     int `mapstructure:"max_generate_retries"`
}

type CleanupConfig struct {
	IntervalMinutes int  `mapstructure:"interval_minutes"`
	RunOnStart      bool `mapstructure:"run_on_start"`
}

type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

type GeoConfig struct {
	// Provider selects the geolocation source: stub or ipwhois.
	Provider        string `mapstructure:"provider"`
	CacheTTLSeconds int    `mapstructure:"cache_ttl_seconds"`
	CacheMaxEntries int    `mapstructure:"cache_max_entries"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

type Config struct {
	WebServer WebServerConfig `mapstructure:"webserver"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Shortener ShortenerConfig `mapstructure:"shortener"`
	Cleanup   CleanupConfig   `mapstructure:"cleanup"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Geo       GeoConfig       `mapstructure:"geo"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

func LoadConfig() (Config, error) {
	var config Config

	viper.AddConfigPath(".")
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Enable environment variable overrides
	viper.SetEnvPrefix("SHORTLINK")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Printf("Error reading config file: %v", err)
			return config, err
		}
		// No config file is fine, defaults plus env cover everything
	}

	if err := viper.Unmarshal(&config); err != nil {
		log.Printf("Unable to decode into struct: %v", err)
		return config, err
	}

	return config, nil
}

func MustLoadConfig() Config {
	config, err := LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	return config
}

func setDefaults() {
	// WebServer defaults
	viper.SetDefault("webserver.port", "8080")
	viper.SetDefault("webserver.ip", "127.0.0.1")
	viper.SetDefault("webserver.scheme", "http")
	viper.SetDefault("webserver.base_url", "")
	viper.SetDefault("webserver.read_timeout", 15)
	viper.SetDefault("webserver.write_timeout", 15)
	viper.SetDefault("webserver.shutdown_timeout", 30)

	// Storage defaults
	viper.SetDefault("storage.backend", "file")
	viper.SetDefault("storage.file_path", "./url_shortener_data.json")
	viper.SetDefault("storage.sqlite_path", "./url_shortener.db")
	viper.SetDefault("storage.redis_key", "url_shortener_data")
	viper.SetDefault("storage.operation_timeout", 5)

	// Redis defaults
	viper.SetDefault("redis.address", "localhost:6379")
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.pool_size", 10)
	viper.SetDefault("redis.min_idle_conns", 5)

	// Shortener defaults
	viper.SetDefault("shortener.default_validity_minutes", 30)
	viper.SetDefault("shortener.code_length", 6)
	viper.SetDefault("shortener.max_generate_retries", 10)

	// Cleanup defaults
	viper.SetDefault("cleanup.interval_minutes", 5)
	viper.SetDefault("cleanup.run_on_start", true)

	// RateLimit defaults
	viper.SetDefault("ratelimit.requests_per_second", 10.0)
	viper.SetDefault("ratelimit.burst", 20)

	// Geo defaults
	viper.SetDefault("geo.provider", "stub")
	viper.SetDefault("geo.cache_ttl_seconds", 3600)
	viper.SetDefault("geo.cache_max_entries", 10000)

	// Logging defaults
	viper.SetDefault("logging.level", "info")
}
