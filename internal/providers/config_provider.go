package providers

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"calmd/internal/engagement"
	"calmd/internal/structures"
)

const DefaultIdentityHeader = "X-User-ID"

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	v := viper.New()
	filename := filepath.Base(flags.ConfigPath)
	v.AddConfigPath(filepath.Dir(flags.ConfigPath))
	v.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	v.SetConfigType("yaml")

	v.SetDefault("storage.driver", "file")
	v.SetDefault("identity.header", DefaultIdentityHeader)
	v.SetDefault("cache.ttl", time.Minute)
	v.SetDefault("engagement.milestones", engagement.DefaultMilestones)
	v.SetDefault("engagement.tickInterval", time.Second)
	v.SetDefault("engagement.sessionIdleTTL", 30*time.Minute)
	v.SetDefault("engagement.maxStreakRetries", 3)

	v.BindEnv("logger.level", "CALMD_LOG_LEVEL")
	v.BindEnv("storage.driver", "CALMD_STORAGE_DRIVER")
	v.BindEnv("storage.dsn", "CALMD_STORAGE_DSN")
	v.BindEnv("engagement.timezone", "CALMD_TIMEZONE")
	v.BindEnv("cache.enabled", "CALMD_CACHE_ENABLED")
	v.BindEnv("cache.size", "CALMD_CACHE_SIZE")

	err := v.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = v.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = "CalmEngagementDaemon"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
