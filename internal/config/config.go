package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	Cache       CacheConfig
	Log         LogConfig
	Check       CheckConfig
	Enforcement EnforcementConfig
	Worker      WorkerConfig
}

type ServerConfig struct {
	Host string
	Port int
	Env  string
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxConns        int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CacheConfig struct {
	StatisticsCacheTTL time.Duration
}

type LogConfig struct {
	Level string
}

// CheckConfig carries the knobs of the compliance check itself.
type CheckConfig struct {
	// GraceDuration is how far back an unauthorized check is re-evaluated
	// to surface a just-expired parking or permit. Display context only,
	// the verdict is always computed at the requested time.
	GraceDuration time.Duration

	// ClosestAreaMaxDistance bounds the nearest-event-area assignment for
	// event parkings recorded without an explicit area, in planar units.
	ClosestAreaMaxDistance float64

	// DomainSRID is the planar coordinate reference of the area geometries.
	DomainSRID int
}

// EnforcementConfig is the capability-gate stub for a single-domain
// deployment: requests carrying the key are treated as coming from the
// named enforcer of the configured domain. Real identity management
// lives outside this service.
type EnforcementConfig struct {
	APIKey    string
	Performer string
	DomainID  string
}

type WorkerConfig struct {
	Enabled         bool
	RefreshInterval time.Duration
}

func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: viper.GetString("API_HOST"),
			Port: viper.GetInt("API_PORT"),
			Env:  viper.GetString("API_ENV"),
		},
		Database: DatabaseConfig{
			Host:            viper.GetString("DB_HOST"),
			Port:            viper.GetInt("DB_PORT"),
			User:            viper.GetString("DB_USER"),
			Password:        viper.GetString("DB_PASSWORD"),
			DBName:          viper.GetString("DB_NAME"),
			SSLMode:         viper.GetString("DB_SSLMODE"),
			MaxConns:        viper.GetInt("DB_MAX_CONNS"),
			MaxIdleConns:    viper.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: time.Duration(viper.GetInt("DB_CONN_MAX_LIFETIME")) * time.Second,
			ConnMaxIdleTime: time.Duration(viper.GetInt("DB_CONN_MAX_IDLE_TIME")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetInt("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Cache: CacheConfig{
			StatisticsCacheTTL: time.Duration(viper.GetInt("STATISTICS_CACHE_TTL")) * time.Second,
		},
		Log: LogConfig{
			Level: viper.GetString("LOG_LEVEL"),
		},
		Check: CheckConfig{
			GraceDuration:          time.Duration(viper.GetInt("CHECK_GRACE_DURATION")) * time.Minute,
			ClosestAreaMaxDistance: viper.GetFloat64("CHECK_CLOSEST_AREA_MAX_DISTANCE"),
			DomainSRID:             viper.GetInt("DOMAIN_SRID"),
		},
		Enforcement: EnforcementConfig{
			APIKey:    viper.GetString("ENFORCER_API_KEY"),
			Performer: viper.GetString("ENFORCER_NAME"),
			DomainID:  viper.GetString("ENFORCEMENT_DOMAIN_ID"),
		},
		Worker: WorkerConfig{
			Enabled:         viper.GetBool("WORKER_ENABLED"),
			RefreshInterval: time.Duration(viper.GetInt("WORKER_REFRESH_INTERVAL")) * time.Second,
		},
	}

	// Set default values if not provided
	if cfg.Cache.StatisticsCacheTTL == 0 {
		cfg.Cache.StatisticsCacheTTL = 5 * time.Minute
	}
	if cfg.Check.GraceDuration == 0 {
		cfg.Check.GraceDuration = 15 * time.Minute
	}
	if cfg.Check.ClosestAreaMaxDistance == 0 {
		cfg.Check.ClosestAreaMaxDistance = 50
	}
	if cfg.Check.DomainSRID == 0 {
		// GK25-FIN, the planar CRS of the reference deployment
		cfg.Check.DomainSRID = 3879
	}
	if cfg.Worker.RefreshInterval == 0 {
		cfg.Worker.RefreshInterval = 15 * time.Minute
	}

	return cfg, nil
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
		c.Database.SSLMode,
	)
}

func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}
