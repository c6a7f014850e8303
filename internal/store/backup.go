package store

import (
	"pes/internal/models"
	"pes/internal/providers"
	"pes/internal/structures"
	"time"
)

// BackupGuard owns the single last-known-good snapshot of the ledger
// used-sets and the install-identity check that keeps a snapshot from one
// device from repopulating another. The identity equality is the entire
// trust boundary (there is no cryptographic signature), so this control is
// advisory, not a hard security guarantee: restoring the full key-value
// store to a new device defeats it.
type BackupGuard struct {
	kvs      *KVStore
	identity *IdentityManager
	logger   providers.Logger
	metrics  providers.MetricsProviderInterface
	maxAge   time.Duration
	now      func() time.Time
}

func NewBackupGuard(conf *structures.Config, kvs *KVStore, identity *IdentityManager, logger providers.Logger, metrics providers.MetricsProviderInterface) *BackupGuard {
	return &BackupGuard{
		kvs:      kvs,
		identity: identity,
		logger:   logger,
		metrics:  metrics,
		maxAge:   conf.Ledger.BackupMaxAge,
		now:      time.Now,
	}
}

// Backup overwrites the snapshot slot with the given sets, the current time
// and the current install identity. Last write wins; there is no history.
func (g *BackupGuard) Backup(usedLifetime, usedMonthly []string) {
	snap := models.BackupSnapshot{
		UsedLifetime: usedLifetime,
		UsedMonthly:  usedMonthly,
		Timestamp:    g.now(),
		InstallID:    g.identity.InstallID(),
	}
	if err := g.kvs.SetJSON(keyBackupSnapshot, snap); err != nil {
		g.logger.Errorf(providers.TypeStore, "Failed to write backup snapshot: %s", err)
		return
	}
	g.kvs.SetTime(keyLastBackupAt, snap.Timestamp)
	g.metrics.IncBackup()
}

// RestoreIfAvailable returns the snapshot when one exists and was written by
// this install. Nil on a missing snapshot or an identity mismatch; both are
// normal, expected outcomes, not failures. The mismatch case is the
// anti-abuse control: codes redeemed on device A never silently reappear as
// redeemed (or redeemable history) on device B.
func (g *BackupGuard) RestoreIfAvailable() *models.BackupSnapshot {
	var snap models.BackupSnapshot
	if !g.kvs.GetJSON(keyBackupSnapshot, &snap) {
		return nil
	}
	if snap.InstallID != g.identity.InstallID() {
		g.metrics.IncRestoreRejected()
		return nil
	}
	return &snap
}

// DetectDataReset reports the heuristic "persisted data looks older than this
// install": used-code keys exist but the snapshot is bound to a different
// install identity. Diagnostic signal only, never an automatic remediation
// trigger.
func (g *BackupGuard) DetectDataReset() bool {
	if !g.kvs.Has(keyUsedLifetime) && !g.kvs.Has(keyUsedMonthly) && !g.kvs.Has(keyUsedLegacy) {
		return false
	}
	var snap models.BackupSnapshot
	if !g.kvs.GetJSON(keyBackupSnapshot, &snap) {
		return false
	}
	return snap.InstallID != g.identity.InstallID()
}

// BackupNeeded reports whether the freshness safeguard wants a new snapshot:
// none has ever been written, or the last one is older than the configured
// maximum age. The guard never writes on its own; the ledger fulfills the
// intent once it has the current set values in hand.
func (g *BackupGuard) BackupNeeded() bool {
	last, ok := g.kvs.GetTime(keyLastBackupAt)
	if !ok {
		return true
	}
	return g.now().Sub(last) > g.maxAge
}
