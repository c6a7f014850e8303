package structures

import "time"

type Persistence struct {
	FilePath     string        `yaml:"filePath" validate:"required|unixPath"`
	SaveInterval time.Duration `yaml:"saveInterval" validate:"required|min:1"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required|unixPath"`
}

type BillingConfig struct {
	EntitlementID     string `yaml:"entitlementId" validate:"required"`
	LifetimeProductID string `yaml:"lifetimeProductId" validate:"required"`
}

type LedgerConfig struct {
	MaxRecords    int           `yaml:"maxRecords"`
	RetentionDays int           `yaml:"retentionDays"`
	BackupMaxAge  time.Duration `yaml:"backupMaxAge"`
	CheckInterval time.Duration `yaml:"checkInterval"`
}

type ArtifactsConfig struct {
	BaseDir string `yaml:"baseDir" validate:"required|unixPath"`
}

type DeviceConfig struct {
	Fingerprint string `yaml:"fingerprint"`
}

type CacheConfig struct {
	Enabled bool `yaml:"enabled"`
	Size    int  `yaml:"size"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type Config struct {
	AppName     string
	Debug       bool
	Path        string
	Billing     BillingConfig   `yaml:"billing"`
	Ledger      LedgerConfig    `yaml:"ledger"`
	Artifacts   ArtifactsConfig `yaml:"artifacts"`
	Device      DeviceConfig    `yaml:"device"`
	Persistence Persistence     `yaml:"persistence"`
	Logger      LoggerConfig    `yaml:"logger"`
	Cache       CacheConfig     `yaml:"cache"`
	Metrics     MetricsConfig   `yaml:"metrics"`
}

type CliFlags struct {
	ConfigPath string
	DebugMode  bool
}
