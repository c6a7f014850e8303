package store

// Persisted key namespace. Every durable value the store owns lives under one
// of these keys; nothing outside this package should touch them directly.
const (
	keyInstallID = "identity.install_id"

	keyLifetimeGrant      = "entitlement.lifetime_grant"
	keySubscriptionExpiry = "entitlement.subscription_expiry"
	keyExternalActive     = "entitlement.external_active"
	keyIntegrityHash      = "entitlement.integrity_hash"

	keyUsedLifetime  = "promo.used_lifetime"
	keyUsedMonthly   = "promo.used_monthly"
	keyUsedLegacy    = "promo.used_codes" // pre-v2 single undifferentiated set
	keyRedemptionLog = "promo.redemption_log"

	keyBackupSnapshot = "backup.snapshot"
	keyLastBackupAt   = "backup.last_at"

	keyMigrationVersion = "schema.migration_version"
)
