package providers

import (
	"fmt"
	"path/filepath"
	"pes/internal/structures"
	"strings"
	"time"

	"github.com/spf13/viper"
)

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	filename := filepath.Base(flags.ConfigPath)
	viper.AddConfigPath(filepath.Dir(flags.ConfigPath))
	viper.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	viper.SetConfigType("yaml")

	viper.BindEnv("logger.level", "PES_LOG_LEVEL")
	viper.BindEnv("persistence.saveInterval", "PES_SAVE_INTERVAL")
	viper.BindEnv("billing.entitlementId", "PES_ENTITLEMENT_ID")
	viper.BindEnv("billing.lifetimeProductId", "PES_LIFETIME_PRODUCT_ID")
	viper.BindEnv("cache.enabled", "PES_CACHE_ENABLED")
	viper.BindEnv("cache.size", "PES_CACHE_SIZE")

	err := viper.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = viper.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	applyLedgerDefaults(&conf)

	conf.AppName = "PremiumEntitlementStore"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}

// applyLedgerDefaults fills the ledger tuning knobs that are optional in the
// config file. The redemption log bound and the retention window are contracts
// of the ledger, so zero values fall back to the canonical limits.
func applyLedgerDefaults(conf *structures.Config) {
	if conf.Ledger.MaxRecords <= 0 {
		conf.Ledger.MaxRecords = 1000
	}
	if conf.Ledger.RetentionDays <= 0 {
		conf.Ledger.RetentionDays = 365
	}
	if conf.Ledger.BackupMaxAge <= 0 {
		conf.Ledger.BackupMaxAge = 24 * time.Hour
	}
	if conf.Ledger.CheckInterval <= 0 {
		conf.Ledger.CheckInterval = time.Hour
	}
}
