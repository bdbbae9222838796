package structures

import "time"

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

type Persistence struct {
	FilePath     string        `yaml:"filePath" validate:"required|unixPath"`
	SaveInterval time.Duration `yaml:"saveInterval" validate:"required|min:1"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required|unixPath"`
}

// StorageConfig selects the storage driver. DSN is only read by the sqlite driver.
type StorageConfig struct {
	Driver string `yaml:"driver" validate:"required|in:file,sqlite"`
	DSN    string `yaml:"dsn"`
}

type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Size    int           `yaml:"size"`
	TTL     time.Duration `yaml:"ttl"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type IdentityConfig struct {
	Header string `yaml:"header"`
}

type EngagementConfig struct {
	Milestones       []int         `yaml:"milestones"`
	Timezone         string        `yaml:"timezone"`
	TickInterval     time.Duration `yaml:"tickInterval" validate:"required|min:1"`
	SessionIdleTTL   time.Duration `yaml:"sessionIdleTTL"`
	MaxStreakRetries int           `yaml:"maxStreakRetries" validate:"uint"`
	CatalogPath      string        `yaml:"catalogPath"`
}

type Config struct {
	AppName     string
	Debug       bool
	Path        string
	WebServer   Server           `yaml:"webServer"`
	Persistence Persistence      `yaml:"persistence"`
	Logger      LoggerConfig     `yaml:"logger"`
	Storage     StorageConfig    `yaml:"storage"`
	Cache       CacheConfig      `yaml:"cache"`
	Metrics     MetricsConfig    `yaml:"metrics"`
	Identity    IdentityConfig   `yaml:"identity"`
	Engagement  EngagementConfig `yaml:"engagement"`
}
